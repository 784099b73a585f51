package mapcard

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/gdugdh24/proximity-backend/internal/config"
	"github.com/gdugdh24/proximity-backend/internal/domain"
	"github.com/gdugdh24/proximity-backend/internal/geo"
	"github.com/gdugdh24/proximity-backend/internal/infrastructure/cache"
	"github.com/gdugdh24/proximity-backend/internal/pkg/logger"
	"github.com/gdugdh24/proximity-backend/internal/repository"
)

const (
	gridSize  = 100
	zoneSize  = 10
	zoneCount = gridSize / zoneSize
)

// TokenSource returns a user's current grid token, if any.
type TokenSource interface {
	CurrentToken(ctx context.Context, userID int) (string, bool, error)
}

// Zone is one cell of the display grid. X and Y are zone centers on a
// 0..99 canvas that has no relation to real coordinates.
type Zone struct {
	X           int `json:"x"`
	Y           int `json:"y"`
	PeopleCount int `json:"people_count"`
}

type MapCard struct {
	Zones        []Zone `json:"zones"`
	VerifiedOnly bool   `json:"verified_only"`
}

type MapCardUseCase struct {
	locationRepo repository.LocationRepository
	privacyRepo  repository.PrivacyRepository
	userRepo     repository.UserRepository
	tokens       TokenSource
	cache        cache.Cache
	cfg          config.ProximityConfig
	log          *logger.Logger
	now          func() time.Time
}

func NewMapCardUseCase(
	locationRepo repository.LocationRepository,
	privacyRepo repository.PrivacyRepository,
	userRepo repository.UserRepository,
	tokens TokenSource,
	c cache.Cache,
	cfg config.ProximityConfig,
	log *logger.Logger,
) *MapCardUseCase {
	return &MapCardUseCase{
		locationRepo: locationRepo,
		privacyRepo:  privacyRepo,
		userRepo:     userRepo,
		tokens:       tokens,
		cache:        c,
		cfg:          cfg,
		log:          log.With("service", "MapCardUseCase"),
		now:          time.Now,
	}
}

// WithClock replaces the time source. Used by tests.
func (uc *MapCardUseCase) WithClock(now func() time.Time) *MapCardUseCase {
	uc.now = now
	return uc
}

// SyntheticPosition maps a grid token to a point on the 0..99 canvas. The
// position comes from a hash of the token string, so neighboring cells land
// anywhere and nothing can be projected back onto a real map.
func SyntheticPosition(token string) (int, int) {
	h := xxhash.Sum64String(token)
	return int(h % gridSize), int((h >> 32) % gridSize)
}

// GetMapCard returns the occupancy of the caller's neighborhood by zone.
func (uc *MapCardUseCase) GetMapCard(ctx context.Context, userID int) (*MapCard, error) {
	pref, err := uc.privacyRepo.GetOrCreate(ctx, userID, uc.now())
	if err != nil {
		return nil, domain.Unavailable("get privacy preference", err)
	}
	empty := &MapCard{Zones: []Zone{}, VerifiedOnly: pref.VerifiedOnlyMap}
	if !pref.LocationEnabled {
		return empty, nil
	}

	token, ok, err := uc.tokens.CurrentToken(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return empty, nil
	}

	key := cache.MapCardKey(userID)
	if card, ok := uc.cached(ctx, key); ok {
		return card, nil
	}

	card, err := uc.build(ctx, userID, token, pref.VerifiedOnlyMap)
	if err != nil {
		return nil, err
	}

	if payload, err := json.Marshal(card); err == nil {
		if err := uc.cache.Set(ctx, key, string(payload), uc.cfg.MapCardCacheTTL); err != nil {
			uc.log.Warn("failed to cache map card", "user_id", userID, "error", err)
		}
	}
	return card, nil
}

func (uc *MapCardUseCase) cached(ctx context.Context, key string) (*MapCard, bool) {
	raw, err := uc.cache.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, domain.ErrCacheMiss) {
			uc.log.Warn("map card cache read failed", "key", key, "error", err)
		}
		return nil, false
	}
	var card MapCard
	if err := json.Unmarshal([]byte(raw), &card); err != nil {
		uc.log.Warn("discarding unreadable map card", "key", key, "error", err)
		return nil, false
	}
	if card.Zones == nil {
		card.Zones = []Zone{}
	}
	return &card, true
}

// build counts visible users in the caller's coarse neighborhood. A candidate
// whose preferences or profile cannot be read is left out.
func (uc *MapCardUseCase) build(ctx context.Context, userID int, token string, verifiedOnly bool) (*MapCard, error) {
	now := uc.now()
	records, err := uc.locationRepo.ListByTokenPrefixes(ctx, []string{geo.Prefix(token, uc.cfg.MapPrecision)}, now)
	if err != nil {
		return nil, domain.Unavailable("list locations", err)
	}

	var counts [zoneCount][zoneCount]int
	for _, rec := range records {
		if rec.UserID == userID || rec.IsExpired(now) {
			continue
		}
		if !uc.visible(ctx, rec.UserID, verifiedOnly) {
			continue
		}
		x, y := SyntheticPosition(rec.GridToken)
		counts[x/zoneSize][y/zoneSize]++
	}

	// Ordered by X, then Y.
	zones := []Zone{}
	for zx := 0; zx < zoneCount; zx++ {
		for zy := 0; zy < zoneCount; zy++ {
			if counts[zx][zy] == 0 {
				continue
			}
			zones = append(zones, Zone{
				X:           zx*zoneSize + zoneSize/2,
				Y:           zy*zoneSize + zoneSize/2,
				PeopleCount: counts[zx][zy],
			})
		}
	}
	return &MapCard{Zones: zones, VerifiedOnly: verifiedOnly}, nil
}

func (uc *MapCardUseCase) visible(ctx context.Context, userID int, verifiedOnly bool) bool {
	pref, err := uc.privacyRepo.GetByUserID(ctx, userID)
	if err != nil {
		if !errors.Is(err, domain.ErrPrivacyNotFound) {
			uc.log.Debug("omitting candidate", "candidate_id", userID, "error", err)
		}
		return false
	}
	if !pref.SharesLocation() {
		return false
	}
	if !verifiedOnly {
		return true
	}
	u, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		return false
	}
	return u.IsVerified
}
