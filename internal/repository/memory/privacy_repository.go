package memory

import (
	"context"
	"sync"
	"time"

	"github.com/gdugdh24/proximity-backend/internal/domain"
)

type PrivacyRepository struct {
	mu    sync.RWMutex
	prefs map[int]domain.PrivacyPreference
}

func NewPrivacyRepository() *PrivacyRepository {
	return &PrivacyRepository{
		prefs: make(map[int]domain.PrivacyPreference),
	}
}

func (r *PrivacyRepository) GetOrCreate(ctx context.Context, userID int, now time.Time) (*domain.PrivacyPreference, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	pref, ok := r.prefs[userID]
	if !ok {
		pref = *domain.NewPrivacyPreference(userID, now)
		r.prefs[userID] = pref
	}
	return &pref, nil
}

func (r *PrivacyRepository) GetByUserID(ctx context.Context, userID int) (*domain.PrivacyPreference, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	pref, ok := r.prefs[userID]
	if !ok {
		return nil, domain.ErrPrivacyNotFound
	}
	return &pref, nil
}

func (r *PrivacyRepository) Update(ctx context.Context, pref *domain.PrivacyPreference) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.prefs[pref.UserID]; !ok {
		return domain.ErrPrivacyNotFound
	}
	r.prefs[pref.UserID] = *pref
	return nil
}

// Put stores pref unconditionally.
func (r *PrivacyRepository) Put(pref domain.PrivacyPreference) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.prefs[pref.UserID] = pref
}
