package repository

import (
	"context"
	"time"

	"github.com/gdugdh24/proximity-backend/internal/domain"
)

type PrivacyRepository interface {
	// GetOrCreate returns the stored preference, inserting the defaults
	// first if the user has none.
	GetOrCreate(ctx context.Context, userID int, now time.Time) (*domain.PrivacyPreference, error)
	GetByUserID(ctx context.Context, userID int) (*domain.PrivacyPreference, error)
	Update(ctx context.Context, pref *domain.PrivacyPreference) error
}
