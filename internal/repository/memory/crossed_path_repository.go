package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/gdugdh24/proximity-backend/internal/domain"
)

type pairKey struct {
	low, high int
}

type CrossedPathRepository struct {
	mu     sync.RWMutex
	nextID int
	paths  map[pairKey]domain.CrossedPath
}

func NewCrossedPathRepository() *CrossedPathRepository {
	return &CrossedPathRepository{
		paths: make(map[pairKey]domain.CrossedPath),
	}
}

func (r *CrossedPathRepository) CreateIfAbsent(ctx context.Context, cp *domain.CrossedPath) (bool, error) {
	cp.UserLowID, cp.UserHighID = domain.CanonicalPair(cp.UserLowID, cp.UserHighID)
	key := pairKey{cp.UserLowID, cp.UserHighID}

	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.paths[key]; ok && !existing.IsExpired(cp.CrossedAt) {
		return false, nil
	}
	r.nextID++
	cp.ID = r.nextID
	r.paths[key] = *cp
	return true, nil
}

func (r *CrossedPathRepository) GetByUsers(ctx context.Context, userA, userB int, now time.Time) (*domain.CrossedPath, error) {
	low, high := domain.CanonicalPair(userA, userB)

	r.mu.RLock()
	defer r.mu.RUnlock()

	cp, ok := r.paths[pairKey{low, high}]
	if !ok || cp.IsExpired(now) {
		return nil, domain.ErrCrossedPathNotFound
	}
	return &cp, nil
}

func (r *CrossedPathRepository) ListByUser(ctx context.Context, userID int, now time.Time, limit int) ([]*domain.CrossedPath, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*domain.CrossedPath
	for _, cp := range r.paths {
		if cp.HasUser(userID) && !cp.IsExpired(now) {
			cp := cp
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CrossedAt.After(out[j].CrossedAt)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *CrossedPathRepository) DeleteExpired(ctx context.Context, now time.Time, limit int) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var n int64
	for key, cp := range r.paths {
		if limit > 0 && n >= int64(limit) {
			break
		}
		if cp.IsExpired(now) {
			delete(r.paths, key)
			n++
		}
	}
	return n, nil
}

// All returns every stored record, expired or not.
func (r *CrossedPathRepository) All() []domain.CrossedPath {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.CrossedPath, 0, len(r.paths))
	for _, cp := range r.paths {
		out = append(out, cp)
	}
	return out
}
