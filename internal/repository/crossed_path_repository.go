package repository

import (
	"context"
	"time"

	"github.com/gdugdh24/proximity-backend/internal/domain"
)

type CrossedPathRepository interface {
	// CreateIfAbsent stores cp unless a live record for the same pair exists.
	// An expired record for the pair is replaced. It reports whether cp was
	// stored.
	CreateIfAbsent(ctx context.Context, cp *domain.CrossedPath) (bool, error)
	GetByUsers(ctx context.Context, userA, userB int, now time.Time) (*domain.CrossedPath, error)
	ListByUser(ctx context.Context, userID int, now time.Time, limit int) ([]*domain.CrossedPath, error)
	DeleteExpired(ctx context.Context, now time.Time, limit int) (int64, error)
}
