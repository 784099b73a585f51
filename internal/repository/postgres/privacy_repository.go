package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/gdugdh24/proximity-backend/internal/domain"
	"github.com/gdugdh24/proximity-backend/internal/repository"
	"github.com/jmoiron/sqlx"
)

type privacyRepository struct {
	db *sqlx.DB
}

func NewPrivacyRepository(db *sqlx.DB) repository.PrivacyRepository {
	return &privacyRepository{db: db}
}

func (r *privacyRepository) GetOrCreate(ctx context.Context, userID int, now time.Time) (*domain.PrivacyPreference, error) {
	defaults := domain.NewPrivacyPreference(userID, now)
	insert := `
		INSERT INTO privacy_preferences (user_id, location_enabled, paused, hide_distance, verified_only_map, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (user_id) DO NOTHING
	`
	if _, err := r.db.ExecContext(ctx, insert,
		defaults.UserID, defaults.LocationEnabled, defaults.Paused,
		defaults.HideDistance, defaults.VerifiedOnlyMap, defaults.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return r.GetByUserID(ctx, userID)
}

func (r *privacyRepository) GetByUserID(ctx context.Context, userID int) (*domain.PrivacyPreference, error) {
	var pref domain.PrivacyPreference
	query := `
		SELECT user_id, location_enabled, paused, hide_distance, verified_only_map, updated_at
		FROM privacy_preferences WHERE user_id = $1
	`
	err := r.db.GetContext(ctx, &pref, query, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrPrivacyNotFound
		}
		return nil, err
	}
	return &pref, nil
}

func (r *privacyRepository) Update(ctx context.Context, pref *domain.PrivacyPreference) error {
	query := `
		UPDATE privacy_preferences
		SET location_enabled = $1, paused = $2, hide_distance = $3,
		    verified_only_map = $4, updated_at = $5
		WHERE user_id = $6
	`
	result, err := r.db.ExecContext(ctx, query,
		pref.LocationEnabled, pref.Paused, pref.HideDistance,
		pref.VerifiedOnlyMap, pref.UpdatedAt, pref.UserID,
	)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrPrivacyNotFound
	}
	return nil
}
