package repository

import (
	"context"
	"time"

	"github.com/gdugdh24/proximity-backend/internal/domain"
)

type LocationRepository interface {
	// UpsertIfStale inserts rec, or overwrites the stored row only when the
	// stored UpdatedAt is at least minInterval before rec.UpdatedAt. It
	// reports whether the write was applied.
	UpsertIfStale(ctx context.Context, rec *domain.LocationRecord, minInterval time.Duration) (bool, error)
	GetByUserID(ctx context.Context, userID int) (*domain.LocationRecord, error)
	// ListByTokenPrefixes returns unexpired records whose token starts with
	// any of the prefixes.
	ListByTokenPrefixes(ctx context.Context, prefixes []string, now time.Time) ([]*domain.LocationRecord, error)
	DeleteExpired(ctx context.Context, now time.Time, limit int) (int64, error)
}
