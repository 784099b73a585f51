package privacy

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/gdugdh24/proximity-backend/internal/domain"
	"github.com/gdugdh24/proximity-backend/internal/infrastructure/cache"
	"github.com/gdugdh24/proximity-backend/internal/pkg/logger"
	"github.com/gdugdh24/proximity-backend/internal/repository/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2026, time.October, 18, 12, 0, 0, 0, time.UTC)

func boolPtr(b bool) *bool { return &b }

func newUseCase() (*PrivacyUseCase, *memory.PrivacyRepository, *cache.MemoryCache) {
	repo := memory.NewPrivacyRepository()
	c := cache.NewMemoryCache()
	uc := NewPrivacyUseCase(repo, c, logger.Nop()).WithClock(func() time.Time { return testNow })
	return uc, repo, c
}

func TestGet_CreatesConservativeDefaults(t *testing.T) {
	uc, _, _ := newUseCase()

	pref, err := uc.Get(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, 7, pref.UserID)
	assert.False(t, pref.LocationEnabled)
	assert.False(t, pref.Paused)
	assert.False(t, pref.HideDistance)
	assert.False(t, pref.VerifiedOnlyMap)
	assert.Equal(t, testNow, pref.UpdatedAt)
}

func TestUpdate_Partial(t *testing.T) {
	ctx := context.Background()
	uc, _, _ := newUseCase()

	pref, err := uc.Update(ctx, 1, &UpdatePrivacyRequest{LocationEnabled: boolPtr(true)})
	require.NoError(t, err)
	assert.True(t, pref.LocationEnabled)

	pref, err = uc.Update(ctx, 1, &UpdatePrivacyRequest{HideDistance: boolPtr(true)})
	require.NoError(t, err)
	assert.True(t, pref.LocationEnabled)
	assert.True(t, pref.HideDistance)

	stored, err := uc.Get(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, pref, stored)
}

func TestUpdate_PauseEvictsCache(t *testing.T) {
	ctx := context.Background()
	uc, _, c := newUseCase()

	_, err := uc.Update(ctx, 1, &UpdatePrivacyRequest{LocationEnabled: boolPtr(true)})
	require.NoError(t, err)
	require.NoError(t, c.Set(ctx, cache.LocationKey(1), "tdr1vz", time.Hour))
	require.NoError(t, c.Set(ctx, cache.MapCardKey(1), "{}", time.Hour))

	_, err = uc.Update(ctx, 1, &UpdatePrivacyRequest{Paused: boolPtr(true)})
	require.NoError(t, err)

	_, err = c.Get(ctx, cache.LocationKey(1))
	assert.ErrorIs(t, err, domain.ErrCacheMiss)
	_, err = c.Get(ctx, cache.MapCardKey(1))
	assert.ErrorIs(t, err, domain.ErrCacheMiss)
}

func TestUpdate_VerifiedOnlyDropsMapCardOnly(t *testing.T) {
	ctx := context.Background()
	uc, _, c := newUseCase()

	_, err := uc.Update(ctx, 1, &UpdatePrivacyRequest{LocationEnabled: boolPtr(true)})
	require.NoError(t, err)
	require.NoError(t, c.Set(ctx, cache.LocationKey(1), "tdr1vz", time.Hour))
	require.NoError(t, c.Set(ctx, cache.MapCardKey(1), "{}", time.Hour))

	_, err = uc.Update(ctx, 1, &UpdatePrivacyRequest{VerifiedOnlyMap: boolPtr(true)})
	require.NoError(t, err)

	val, err := c.Get(ctx, cache.LocationKey(1))
	require.NoError(t, err)
	assert.Equal(t, "tdr1vz", val)
	_, err = c.Get(ctx, cache.MapCardKey(1))
	assert.ErrorIs(t, err, domain.ErrCacheMiss)
}

type brokenPrivacyRepo struct{ *memory.PrivacyRepository }

func (brokenPrivacyRepo) GetOrCreate(context.Context, int, time.Time) (*domain.PrivacyPreference, error) {
	return nil, errors.New("db down")
}

func TestGet_Unavailable(t *testing.T) {
	uc := NewPrivacyUseCase(brokenPrivacyRepo{memory.NewPrivacyRepository()}, cache.NewMemoryCache(), logger.Nop())
	_, err := uc.Get(context.Background(), 1)
	assert.ErrorIs(t, err, domain.ErrUnavailable)
}
