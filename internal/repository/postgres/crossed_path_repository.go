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

type crossedPathRepository struct {
	db *sqlx.DB
}

func NewCrossedPathRepository(db *sqlx.DB) repository.CrossedPathRepository {
	return &crossedPathRepository{db: db}
}

func (r *crossedPathRepository) CreateIfAbsent(ctx context.Context, cp *domain.CrossedPath) (bool, error) {
	// Ensure user_low_id < user_high_id for the unique pair constraint
	cp.UserLowID, cp.UserHighID = domain.CanonicalPair(cp.UserLowID, cp.UserHighID)

	query := `
		INSERT INTO crossed_paths (user_low_id, user_high_id, grid_token, area_id, crossed_at, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (user_low_id, user_high_id) DO UPDATE
		SET grid_token = EXCLUDED.grid_token,
		    area_id = EXCLUDED.area_id,
		    crossed_at = EXCLUDED.crossed_at,
		    expires_at = EXCLUDED.expires_at
		WHERE crossed_paths.expires_at <= EXCLUDED.crossed_at
		RETURNING id
	`
	err := r.db.QueryRowContext(ctx, query,
		cp.UserLowID, cp.UserHighID, cp.GridToken, cp.AreaID, cp.CrossedAt, cp.ExpiresAt,
	).Scan(&cp.ID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (r *crossedPathRepository) GetByUsers(ctx context.Context, userA, userB int, now time.Time) (*domain.CrossedPath, error) {
	low, high := domain.CanonicalPair(userA, userB)

	var cp domain.CrossedPath
	query := `
		SELECT id, user_low_id, user_high_id, grid_token, area_id, crossed_at, expires_at
		FROM crossed_paths
		WHERE user_low_id = $1 AND user_high_id = $2 AND expires_at > $3
	`
	err := r.db.GetContext(ctx, &cp, query, low, high, now)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrCrossedPathNotFound
		}
		return nil, err
	}
	return &cp, nil
}

func (r *crossedPathRepository) ListByUser(ctx context.Context, userID int, now time.Time, limit int) ([]*domain.CrossedPath, error) {
	var paths []*domain.CrossedPath
	query := `
		SELECT id, user_low_id, user_high_id, grid_token, area_id, crossed_at, expires_at
		FROM crossed_paths
		WHERE (user_low_id = $1 OR user_high_id = $1) AND expires_at > $2
		ORDER BY crossed_at DESC
		LIMIT $3
	`
	err := r.db.SelectContext(ctx, &paths, query, userID, now, limit)
	return paths, err
}

func (r *crossedPathRepository) DeleteExpired(ctx context.Context, now time.Time, limit int) (int64, error) {
	query := `DELETE FROM crossed_paths WHERE expires_at <= $1`
	args := []interface{}{now}
	if limit > 0 {
		query = `
			DELETE FROM crossed_paths WHERE id IN (
				SELECT id FROM crossed_paths WHERE expires_at <= $1 LIMIT $2
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
