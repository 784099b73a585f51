package retention

import (
	"context"
	"time"

	"github.com/gdugdh24/proximity-backend/internal/pkg/logger"
)

// Scheduler runs a Sweeper on a fixed interval. It does no retries of its
// own: a failed run is logged and the next tick tries again.
type Scheduler struct {
	sweeper  *Sweeper
	interval time.Duration
	log      *logger.Logger
	done     chan struct{}
}

func NewScheduler(sweeper *Sweeper, interval time.Duration, log *logger.Logger) *Scheduler {
	return &Scheduler{
		sweeper:  sweeper,
		interval: interval,
		log:      log.With("component", "RetentionScheduler"),
		done:     make(chan struct{}),
	}
}

// Start runs one sweep immediately and then one per interval until ctx is
// cancelled.
func (s *Scheduler) Start(ctx context.Context) {
	go func() {
		defer close(s.done)
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		s.run(ctx)
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.run(ctx)
			}
		}
	}()
}

// Done is closed once the loop has exited.
func (s *Scheduler) Done() <-chan struct{} {
	return s.done
}

func (s *Scheduler) run(ctx context.Context) {
	res, err := s.sweeper.RunOnce(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		s.log.Warn("retention sweep failed", "error", err)
		return
	}
	s.log.Debug("retention sweep finished", "locations", res.Locations, "crossed_paths", res.CrossedPaths)
}
