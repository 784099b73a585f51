package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/gdugdh24/proximity-backend/internal/domain"
	"github.com/gdugdh24/proximity-backend/internal/repository"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

type locationRepository struct {
	db *sqlx.DB
}

func NewLocationRepository(db *sqlx.DB) repository.LocationRepository {
	return &locationRepository{db: db}
}

func (r *locationRepository) UpsertIfStale(ctx context.Context, rec *domain.LocationRecord, minInterval time.Duration) (bool, error) {
	// The WHERE clause on the conflict branch is the rate limit guard; a
	// concurrent writer that got there first leaves zero rows affected.
	query := `
		INSERT INTO location_records (user_id, grid_token, resolved_area_id, updated_at, expires_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (user_id) DO UPDATE
		SET grid_token = EXCLUDED.grid_token,
		    resolved_area_id = EXCLUDED.resolved_area_id,
		    updated_at = EXCLUDED.updated_at,
		    expires_at = EXCLUDED.expires_at
		WHERE location_records.updated_at <= $6
	`
	result, err := r.db.ExecContext(ctx, query,
		rec.UserID, rec.GridToken, rec.ResolvedAreaID, rec.UpdatedAt, rec.ExpiresAt,
		rec.UpdatedAt.Add(-minInterval),
	)
	if err != nil {
		return false, err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return rows > 0, nil
}

func (r *locationRepository) GetByUserID(ctx context.Context, userID int) (*domain.LocationRecord, error) {
	var rec domain.LocationRecord
	query := `
		SELECT user_id, grid_token, resolved_area_id, updated_at, expires_at
		FROM location_records WHERE user_id = $1
	`
	err := r.db.GetContext(ctx, &rec, query, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrLocationNotFound
		}
		return nil, err
	}
	return &rec, nil
}

func (r *locationRepository) ListByTokenPrefixes(ctx context.Context, prefixes []string, now time.Time) ([]*domain.LocationRecord, error) {
	if len(prefixes) == 0 {
		return nil, nil
	}
	patterns := make([]string, len(prefixes))
	for i, p := range prefixes {
		patterns[i] = p + "%"
	}

	var records []*domain.LocationRecord
	query := `
		SELECT user_id, grid_token, resolved_area_id, updated_at, expires_at
		FROM location_records
		WHERE grid_token LIKE ANY($1) AND expires_at > $2
		ORDER BY updated_at DESC
	`
	err := r.db.SelectContext(ctx, &records, query, pq.Array(patterns), now)
	return records, err
}

func (r *locationRepository) DeleteExpired(ctx context.Context, now time.Time, limit int) (int64, error) {
	query := `DELETE FROM location_records WHERE expires_at <= $1`
	args := []interface{}{now}
	if limit > 0 {
		query = `
			DELETE FROM location_records WHERE user_id IN (
				SELECT user_id FROM location_records WHERE expires_at <= $1 LIMIT $2
			)
		`
		args = append(args, limit)
	}
	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
