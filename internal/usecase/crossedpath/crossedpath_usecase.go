package crossedpath

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gdugdh24/proximity-backend/internal/config"
	"github.com/gdugdh24/proximity-backend/internal/domain"
	"github.com/gdugdh24/proximity-backend/internal/geo"
	"github.com/gdugdh24/proximity-backend/internal/pkg/logger"
	"github.com/gdugdh24/proximity-backend/internal/repository"
)

const listLimit = 100

// AreaNamer resolves an area id to its display name.
type AreaNamer interface {
	Name(ctx context.Context, id int) (string, error)
}

type CrossedPathUseCase struct {
	locationRepo    repository.LocationRepository
	crossedPathRepo repository.CrossedPathRepository
	privacyRepo     repository.PrivacyRepository
	areas           AreaNamer
	cfg             config.ProximityConfig
	log             *logger.Logger
	now             func() time.Time
}

func NewCrossedPathUseCase(
	locationRepo repository.LocationRepository,
	crossedPathRepo repository.CrossedPathRepository,
	privacyRepo repository.PrivacyRepository,
	areas AreaNamer,
	cfg config.ProximityConfig,
	log *logger.Logger,
) *CrossedPathUseCase {
	return &CrossedPathUseCase{
		locationRepo:    locationRepo,
		crossedPathRepo: crossedPathRepo,
		privacyRepo:     privacyRepo,
		areas:           areas,
		cfg:             cfg,
		log:             log.With("service", "CrossedPathUseCase"),
		now:             time.Now,
	}
}

// WithClock replaces the time source. Used by tests.
func (uc *CrossedPathUseCase) WithClock(now func() time.Time) *CrossedPathUseCase {
	uc.now = now
	return uc
}

// FindCrossedPaths records a crossing between userID and every user seen in
// the same cell within the crossing window. It returns how many new records
// were stored. Store errors for one candidate do not stop the scan; they are
// joined into the returned error.
func (uc *CrossedPathUseCase) FindCrossedPaths(ctx context.Context, userID int, gridToken string, areaID int) (int, error) {
	now := uc.now()
	cell := geo.Prefix(gridToken, uc.cfg.LedgerPrecision)

	candidates, err := uc.locationRepo.ListByTokenPrefixes(ctx, []string{cell}, now)
	if err != nil {
		return 0, domain.Unavailable("list locations", err)
	}

	var (
		created int
		errs    []error
	)
	for _, cand := range candidates {
		if cand.UserID == userID || cand.GridToken != cell {
			continue
		}
		if now.Sub(cand.UpdatedAt) > uc.cfg.CrossingWindow {
			continue
		}

		low, high := domain.CanonicalPair(userID, cand.UserID)
		_, err := uc.crossedPathRepo.GetByUsers(ctx, low, high, now)
		if err == nil {
			continue
		}
		if !errors.Is(err, domain.ErrCrossedPathNotFound) {
			errs = append(errs, fmt.Errorf("failed to check pair %d/%d: %w", low, high, err))
			continue
		}

		pref, err := uc.privacyRepo.GetByUserID(ctx, cand.UserID)
		if err != nil {
			if !errors.Is(err, domain.ErrPrivacyNotFound) {
				errs = append(errs, fmt.Errorf("failed to get privacy for %d: %w", cand.UserID, err))
			}
			continue
		}
		if !pref.SharesLocation() {
			continue
		}

		ok, err := uc.crossedPathRepo.CreateIfAbsent(ctx, &domain.CrossedPath{
			UserLowID:  low,
			UserHighID: high,
			GridToken:  cell,
			AreaID:     areaID,
			CrossedAt:  now,
			ExpiresAt:  now.Add(uc.cfg.CrossedPathTTL),
		})
		if err != nil {
			errs = append(errs, fmt.Errorf("failed to create pair %d/%d: %w", low, high, err))
			continue
		}
		if ok {
			created++
		}
	}

	if len(errs) > 0 {
		return created, domain.Unavailable("find crossed paths", errors.Join(errs...))
	}
	return created, nil
}

// CrossedPathView is what a user sees about a crossing: who, roughly when
// and roughly where.
type CrossedPathView struct {
	OtherUserID int    `json:"other_user_id"`
	CrossedAt   string `json:"crossed_at"`
	AreaLabel   string `json:"area_label,omitempty"`
}

// FuzzyTime turns the age of a crossing into a coarse label.
func FuzzyTime(elapsed time.Duration) string {
	switch {
	case elapsed < time.Hour:
		return "less than an hour ago"
	case elapsed < 24*time.Hour:
		return "today"
	case elapsed < 7*24*time.Hour:
		return "this week"
	default:
		return "recently"
	}
}

// GetCrossedPaths lists the user's live crossings, newest first.
func (uc *CrossedPathUseCase) GetCrossedPaths(ctx context.Context, userID int) ([]CrossedPathView, error) {
	now := uc.now()
	records, err := uc.crossedPathRepo.ListByUser(ctx, userID, now, listLimit)
	if err != nil {
		return nil, domain.Unavailable("list crossed paths", err)
	}

	views := make([]CrossedPathView, 0, len(records))
	labels := make(map[int]string)
	for _, cp := range records {
		other, ok := cp.OtherUserID(userID)
		if !ok {
			continue
		}

		label, seen := labels[cp.AreaID]
		if !seen && uc.areas != nil {
			label, err = uc.areas.Name(ctx, cp.AreaID)
			if err != nil {
				uc.log.Warn("failed to resolve area name", "area_id", cp.AreaID, "error", err)
				label = ""
			}
			labels[cp.AreaID] = label
		}

		views = append(views, CrossedPathView{
			OtherUserID: other,
			CrossedAt:   FuzzyTime(now.Sub(cp.CrossedAt)),
			AreaLabel:   label,
		})
	}
	return views, nil
}
