package memory

import (
	"context"
	"sync"

	"github.com/gdugdh24/proximity-backend/internal/domain"
)

type UserRepository struct {
	mu    sync.RWMutex
	users map[int]domain.User
}

func NewUserRepository(users ...domain.User) *UserRepository {
	r := &UserRepository{users: make(map[int]domain.User)}
	for _, u := range users {
		r.users[u.ID] = u
	}
	return r
}

func (r *UserRepository) GetByID(ctx context.Context, id int) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return &u, nil
}

func (r *UserRepository) Put(u domain.User) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users[u.ID] = u
}

type AreaRepository struct {
	mu    sync.RWMutex
	areas []domain.Area
}

func NewAreaRepository(areas ...domain.Area) *AreaRepository {
	return &AreaRepository{areas: areas}
}

func (r *AreaRepository) List(ctx context.Context) ([]*domain.Area, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*domain.Area, len(r.areas))
	for i := range r.areas {
		a := r.areas[i]
		out[i] = &a
	}
	return out, nil
}

func (r *AreaRepository) GetByID(ctx context.Context, id int) (*domain.Area, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, a := range r.areas {
		if a.ID == id {
			a := a
			return &a, nil
		}
	}
	return nil, domain.ErrAreaNotFound
}

func (r *AreaRepository) Put(a domain.Area) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.areas = append(r.areas, a)
}
