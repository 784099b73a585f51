package retention

import (
	"context"
	"time"

	"github.com/gdugdh24/proximity-backend/internal/domain"
	"github.com/gdugdh24/proximity-backend/internal/pkg/logger"
	"github.com/gdugdh24/proximity-backend/internal/repository"
	"golang.org/x/sync/errgroup"
)

// SweepResult holds how many rows each sweep removed.
type SweepResult struct {
	Locations    int64
	CrossedPaths int64
}

// Sweeper deletes expired ledger and crossed path rows. Both sweeps are
// idempotent and independent; a failed run is simply picked up by the next.
type Sweeper struct {
	locationRepo    repository.LocationRepository
	crossedPathRepo repository.CrossedPathRepository
	batchSize       int
	log             *logger.Logger
	now             func() time.Time
}

func NewSweeper(
	locationRepo repository.LocationRepository,
	crossedPathRepo repository.CrossedPathRepository,
	batchSize int,
	log *logger.Logger,
) *Sweeper {
	return &Sweeper{
		locationRepo:    locationRepo,
		crossedPathRepo: crossedPathRepo,
		batchSize:       batchSize,
		log:             log.With("service", "RetentionSweeper"),
		now:             time.Now,
	}
}

// WithClock replaces the time source. Used by tests.
func (s *Sweeper) WithClock(now func() time.Time) *Sweeper {
	s.now = now
	return s
}

// RunOnce runs both sweeps concurrently against the same cutoff.
func (s *Sweeper) RunOnce(ctx context.Context) (SweepResult, error) {
	now := s.now()
	var res SweepResult

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		n, err := s.sweep(gctx, "location_records", now, s.locationRepo.DeleteExpired)
		res.Locations = n
		return err
	})
	g.Go(func() error {
		n, err := s.sweep(gctx, "crossed_paths", now, s.crossedPathRepo.DeleteExpired)
		res.CrossedPaths = n
		return err
	})
	err := g.Wait()
	return res, err
}

type deleteFunc func(ctx context.Context, now time.Time, limit int) (int64, error)

// sweep deletes in batches until a batch comes back short. A batch size of
// zero deletes everything in one statement.
func (s *Sweeper) sweep(ctx context.Context, table string, now time.Time, del deleteFunc) (int64, error) {
	var total int64
	for batch := 1; ; batch++ {
		if err := ctx.Err(); err != nil {
			return total, err
		}
		n, err := del(ctx, now, s.batchSize)
		if err != nil {
			return total, domain.Unavailable("sweep "+table, err)
		}
		total += n
		if n > 0 {
			s.log.Info("expired rows deleted", "table", table, "batch", batch, "count", n)
		}
		if s.batchSize <= 0 || n < int64(s.batchSize) {
			return total, nil
		}
	}
}
