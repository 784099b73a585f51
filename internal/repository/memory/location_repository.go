// Package memory holds map-backed repositories. They honor the same
// conditional-write contracts as the postgres implementations and back
// STORAGE_TYPE=memory as well as the use case tests.
package memory

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/gdugdh24/proximity-backend/internal/domain"
)

type LocationRepository struct {
	mu      sync.RWMutex
	records map[int]domain.LocationRecord
}

func NewLocationRepository() *LocationRepository {
	return &LocationRepository{
		records: make(map[int]domain.LocationRecord),
	}
}

func (r *LocationRepository) UpsertIfStale(ctx context.Context, rec *domain.LocationRecord, minInterval time.Duration) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.records[rec.UserID]; ok {
		if existing.UpdatedAt.After(rec.UpdatedAt.Add(-minInterval)) {
			return false, nil
		}
	}
	r.records[rec.UserID] = *rec
	return true, nil
}

func (r *LocationRepository) GetByUserID(ctx context.Context, userID int) (*domain.LocationRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rec, ok := r.records[userID]
	if !ok {
		return nil, domain.ErrLocationNotFound
	}
	return &rec, nil
}

func (r *LocationRepository) ListByTokenPrefixes(ctx context.Context, prefixes []string, now time.Time) ([]*domain.LocationRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*domain.LocationRecord
	for _, rec := range r.records {
		if rec.IsExpired(now) {
			continue
		}
		for _, p := range prefixes {
			if strings.HasPrefix(rec.GridToken, p) {
				rec := rec
				out = append(out, &rec)
				break
			}
		}
	}
	return out, nil
}

func (r *LocationRepository) DeleteExpired(ctx context.Context, now time.Time, limit int) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var n int64
	for id, rec := range r.records {
		if limit > 0 && n >= int64(limit) {
			break
		}
		if rec.IsExpired(now) {
			delete(r.records, id)
			n++
		}
	}
	return n, nil
}

// Put stores rec unconditionally.
func (r *LocationRepository) Put(rec domain.LocationRecord) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records[rec.UserID] = rec
}

func (r *LocationRepository) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.records)
}
