package privacy

import (
	"context"
	"time"

	"github.com/gdugdh24/proximity-backend/internal/domain"
	"github.com/gdugdh24/proximity-backend/internal/infrastructure/cache"
	"github.com/gdugdh24/proximity-backend/internal/pkg/logger"
	"github.com/gdugdh24/proximity-backend/internal/repository"
)

type PrivacyUseCase struct {
	privacyRepo repository.PrivacyRepository
	cache       cache.Cache
	log         *logger.Logger
	now         func() time.Time
}

func NewPrivacyUseCase(
	privacyRepo repository.PrivacyRepository,
	c cache.Cache,
	log *logger.Logger,
) *PrivacyUseCase {
	return &PrivacyUseCase{
		privacyRepo: privacyRepo,
		cache:       c,
		log:         log.With("service", "PrivacyUseCase"),
		now:         time.Now,
	}
}

// WithClock replaces the time source. Used by tests.
func (uc *PrivacyUseCase) WithClock(now func() time.Time) *PrivacyUseCase {
	uc.now = now
	return uc
}

// UpdatePrivacyRequest is a partial update; nil fields are left unchanged.
type UpdatePrivacyRequest struct {
	LocationEnabled *bool `json:"location_enabled"`
	Paused          *bool `json:"paused"`
	HideDistance    *bool `json:"hide_distance"`
	VerifiedOnlyMap *bool `json:"verified_only_map"`
}

// Get returns the user's preferences, creating the defaults on first access.
func (uc *PrivacyUseCase) Get(ctx context.Context, userID int) (*domain.PrivacyPreference, error) {
	pref, err := uc.privacyRepo.GetOrCreate(ctx, userID, uc.now())
	if err != nil {
		return nil, domain.Unavailable("get privacy preference", err)
	}
	return pref, nil
}

// Update applies req. Turning sharing off drops the user's cached location
// and map card so neither outlives the setting.
func (uc *PrivacyUseCase) Update(ctx context.Context, userID int, req *UpdatePrivacyRequest) (*domain.PrivacyPreference, error) {
	pref, err := uc.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	wasSharing := pref.SharesLocation()

	if req.LocationEnabled != nil {
		pref.LocationEnabled = *req.LocationEnabled
	}
	if req.Paused != nil {
		pref.Paused = *req.Paused
	}
	if req.HideDistance != nil {
		pref.HideDistance = *req.HideDistance
	}
	if req.VerifiedOnlyMap != nil {
		pref.VerifiedOnlyMap = *req.VerifiedOnlyMap
	}
	pref.UpdatedAt = uc.now()

	if err := uc.privacyRepo.Update(ctx, pref); err != nil {
		return nil, domain.Unavailable("update privacy preference", err)
	}

	if (wasSharing && !pref.SharesLocation()) || req.VerifiedOnlyMap != nil {
		keys := []string{cache.MapCardKey(userID)}
		if !pref.SharesLocation() {
			keys = append(keys, cache.LocationKey(userID))
		}
		if err := uc.cache.Delete(ctx, keys...); err != nil {
			uc.log.Warn("failed to evict cached location", "user_id", userID, "error", err)
		}
	}

	uc.log.Info("privacy updated",
		"user_id", userID,
		"location_enabled", pref.LocationEnabled,
		"paused", pref.Paused,
	)
	return pref, nil
}
