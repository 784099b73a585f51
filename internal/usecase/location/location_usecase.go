package location

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/gdugdh24/proximity-backend/internal/config"
	"github.com/gdugdh24/proximity-backend/internal/domain"
	"github.com/gdugdh24/proximity-backend/internal/geo"
	"github.com/gdugdh24/proximity-backend/internal/infrastructure/cache"
	"github.com/gdugdh24/proximity-backend/internal/pkg/logger"
	"github.com/gdugdh24/proximity-backend/internal/repository"
)

// AreaResolver maps privacy-adjusted coordinates to an area id.
type AreaResolver interface {
	Resolve(ctx context.Context, lat, lon float64) (int, bool, error)
}

// ProximityDetector is notified after every accepted update.
type ProximityDetector interface {
	FindCrossedPaths(ctx context.Context, userID int, gridToken string, areaID int) (int, error)
}

type LocationUseCase struct {
	locationRepo repository.LocationRepository
	privacyRepo  repository.PrivacyRepository
	userRepo     repository.UserRepository
	areas        AreaResolver
	detector     ProximityDetector
	cache        cache.Cache
	noiser       *geo.Noiser
	cfg          config.ProximityConfig
	log          *logger.Logger
	now          func() time.Time

	detections sync.WaitGroup
}

func NewLocationUseCase(
	locationRepo repository.LocationRepository,
	privacyRepo repository.PrivacyRepository,
	userRepo repository.UserRepository,
	areas AreaResolver,
	detector ProximityDetector,
	c cache.Cache,
	noiser *geo.Noiser,
	cfg config.ProximityConfig,
	log *logger.Logger,
) *LocationUseCase {
	return &LocationUseCase{
		locationRepo: locationRepo,
		privacyRepo:  privacyRepo,
		userRepo:     userRepo,
		areas:        areas,
		detector:     detector,
		cache:        c,
		noiser:       noiser,
		cfg:          cfg,
		log:          log.With("service", "LocationUseCase"),
		now:          time.Now,
	}
}

// WithClock replaces the time source. Used by tests.
func (uc *LocationUseCase) WithClock(now func() time.Time) *LocationUseCase {
	uc.now = now
	return uc
}

// UpdateLocationRequest carries raw device coordinates. Pointers keep 0 a
// valid value under the required rule.
type UpdateLocationRequest struct {
	Latitude  *float64 `json:"latitude" binding:"required,latitude"`
	Longitude *float64 `json:"longitude" binding:"required,longitude"`
}

// UpdateResult is the outcome of UpdateLocation. A declined update is not an
// error: Reason says why and NextAllowedAt is set for rate limited calls.
type UpdateResult struct {
	Accepted      bool                 `json:"accepted"`
	Reason        domain.DeclineReason `json:"reason,omitempty"`
	NextAllowedAt *time.Time           `json:"next_allowed_at,omitempty"`
}

func declined(reason domain.DeclineReason) *UpdateResult {
	return &UpdateResult{Reason: reason}
}

// UpdateLocation runs the privacy gate, rate limit and privacy transform,
// stores the resulting grid token and starts crossed path detection.
func (uc *LocationUseCase) UpdateLocation(ctx context.Context, userID int, lat, lon float64) (*UpdateResult, error) {
	now := uc.now()

	pref, err := uc.privacyRepo.GetOrCreate(ctx, userID, now)
	if err != nil {
		return nil, domain.Unavailable("get privacy preference", err)
	}
	if !pref.SharesLocation() {
		return declined(domain.DeclineLocationDisabled), nil
	}

	last, err := uc.locationRepo.GetByUserID(ctx, userID)
	switch {
	case errors.Is(err, domain.ErrLocationNotFound):
	case err != nil:
		return nil, domain.Unavailable("get location", err)
	default:
		if next := last.UpdatedAt.Add(uc.cfg.LocationMinInterval); now.Before(next) {
			return uc.tooFrequent(next), nil
		}
	}

	lat, lon = geo.RoundCoordinates(lat, lon, uc.cfg.RoundDecimals)
	lat, lon = uc.noiser.AddNoise(lat, lon)
	token := geo.Encode(lat, lon, uc.cfg.LedgerPrecision)

	areaID, ok, err := uc.areas.Resolve(ctx, lat, lon)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve area: %w", err)
	}
	if !ok {
		return declined(domain.DeclineAreaUnresolved), nil
	}

	rec := &domain.LocationRecord{
		UserID:         userID,
		GridToken:      token,
		ResolvedAreaID: areaID,
		UpdatedAt:      now,
		ExpiresAt:      now.Add(uc.cfg.LocationTTL),
	}
	applied, err := uc.locationRepo.UpsertIfStale(ctx, rec, uc.cfg.LocationMinInterval)
	if err != nil {
		return nil, domain.Unavailable("upsert location", err)
	}
	if !applied {
		// A concurrent update for the same user won the conditional write.
		res := declined(domain.DeclineTooFrequent)
		if current, err := uc.locationRepo.GetByUserID(ctx, userID); err == nil {
			res = uc.tooFrequent(current.UpdatedAt.Add(uc.cfg.LocationMinInterval))
		}
		return res, nil
	}

	if err := uc.cache.Set(ctx, cache.LocationKey(userID), token, uc.cfg.LocationCacheTTL); err != nil {
		uc.log.Warn("failed to cache location", "user_id", userID, "error", err)
	}
	// The card describes the previous neighborhood.
	if err := uc.cache.Delete(ctx, cache.MapCardKey(userID)); err != nil {
		uc.log.Warn("failed to evict map card", "user_id", userID, "error", err)
	}

	uc.detectAsync(ctx, userID, token, areaID)

	uc.log.Debug("location updated", "user_id", userID, "area_id", areaID)
	return &UpdateResult{Accepted: true}, nil
}

func (uc *LocationUseCase) tooFrequent(next time.Time) *UpdateResult {
	return &UpdateResult{Reason: domain.DeclineTooFrequent, NextAllowedAt: &next}
}

// detectAsync runs crossed path detection detached from the request. Its
// failures are logged and never reach the caller.
func (uc *LocationUseCase) detectAsync(ctx context.Context, userID int, token string, areaID int) {
	if uc.detector == nil {
		return
	}
	uc.detections.Add(1)
	go func() {
		defer uc.detections.Done()
		defer func() {
			if r := recover(); r != nil {
				uc.log.Error("crossed path detection panicked", "user_id", userID, "panic", r)
			}
		}()

		dctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), uc.cfg.DetectionTimeout)
		defer cancel()

		created, err := uc.detector.FindCrossedPaths(dctx, userID, token, areaID)
		if err != nil {
			uc.log.Warn("crossed path detection failed", "user_id", userID, "grid_token", token, "error", err)
			return
		}
		if created > 0 {
			uc.log.Info("crossed paths recorded", "user_id", userID, "count", created)
		}
	}()
}

// Wait blocks until all in-flight detections have finished.
func (uc *LocationUseCase) Wait() {
	uc.detections.Wait()
}

// CurrentToken returns the user's stored grid token, reading the cache
// before the ledger. The bool is false when the user has no live record.
func (uc *LocationUseCase) CurrentToken(ctx context.Context, userID int) (string, bool, error) {
	token, err := uc.cache.Get(ctx, cache.LocationKey(userID))
	if err == nil && geo.Valid(token) {
		return token, true, nil
	}
	if err != nil && !errors.Is(err, domain.ErrCacheMiss) {
		uc.log.Warn("location cache read failed", "user_id", userID, "error", err)
	}

	rec, err := uc.locationRepo.GetByUserID(ctx, userID)
	if errors.Is(err, domain.ErrLocationNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, domain.Unavailable("get location", err)
	}
	if rec.IsExpired(uc.now()) {
		return "", false, nil
	}
	return rec.GridToken, true, nil
}
