package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/gdugdh24/proximity-backend/internal/domain"
	"github.com/gdugdh24/proximity-backend/internal/repository"
	"github.com/jmoiron/sqlx"
)

type userRepository struct {
	db *sqlx.DB
}

// NewUserRepository reads the profile facts owned by the users table.
func NewUserRepository(db *sqlx.DB) repository.UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) GetByID(ctx context.Context, id int) (*domain.User, error) {
	var user domain.User
	query := `SELECT id, gender, birth_date, is_verified FROM users WHERE id = $1`
	err := r.db.GetContext(ctx, &user, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

type areaRepository struct {
	db *sqlx.DB
}

func NewAreaRepository(db *sqlx.DB) repository.AreaRepository {
	return &areaRepository{db: db}
}

func (r *areaRepository) List(ctx context.Context) ([]*domain.Area, error) {
	var areas []*domain.Area
	query := `SELECT id, name, lat, lon FROM areas ORDER BY id`
	err := r.db.SelectContext(ctx, &areas, query)
	return areas, err
}

func (r *areaRepository) GetByID(ctx context.Context, id int) (*domain.Area, error) {
	var area domain.Area
	query := `SELECT id, name, lat, lon FROM areas WHERE id = $1`
	err := r.db.GetContext(ctx, &area, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrAreaNotFound
		}
		return nil, err
	}
	return &area, nil
}
