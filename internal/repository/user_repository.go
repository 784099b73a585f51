package repository

import (
	"context"

	"github.com/gdugdh24/proximity-backend/internal/domain"
)

type UserRepository interface {
	GetByID(ctx context.Context, id int) (*domain.User, error)
}

type AreaRepository interface {
	List(ctx context.Context) ([]*domain.Area, error)
	GetByID(ctx context.Context, id int) (*domain.Area, error)
}
