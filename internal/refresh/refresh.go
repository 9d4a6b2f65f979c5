// Package refresh reloads datasets on a fixed interval while the display is visible.
package refresh

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// DefaultInterval is used when no interval is configured.
const DefaultInterval = 5 * time.Minute

// Loader reloads data and reports whether the source answered.
type Loader func(ctx context.Context) (connected bool)

// Scheduler calls its Loader on every tick while visible. A hidden
// scheduler does no work; becoming visible again after a failed load
// triggers an immediate reload.
type Scheduler struct {
	interval time.Duration
	loader   Loader
	logger   zerolog.Logger

	wake chan struct{}

	mu        sync.Mutex
	hidden    bool
	connected bool
	runs      int
}

// New creates a visible scheduler.
func New(interval time.Duration, loader Loader, logger zerolog.Logger) *Scheduler {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Scheduler{
		interval: interval,
		loader:   loader,
		logger:   logger,
		wake:     make(chan struct{}, 1),
	}
}

// Interval returns the tick period.
func (s *Scheduler) Interval() time.Duration { return s.interval }

// Visible reports whether ticks reload.
func (s *Scheduler) Visible() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return !s.hidden
}

// Connected reports the outcome of the latest reload.
func (s *Scheduler) Connected() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.connected
}

// Runs returns how many reloads have completed.
func (s *Scheduler) Runs() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.runs
}

// SetVisible shows or hides the display.
func (s *Scheduler) SetVisible(visible bool) {
	s.mu.Lock()
	wasHidden := s.hidden
	s.hidden = !visible
	retry := visible && wasHidden && !s.connected
	s.mu.Unlock()

	if retry {
		select {
		case s.wake <- struct{}{}:
		default:
		}
	}
}

// Run reloads once, then on every tick, until ctx is done.
func (s *Scheduler) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	if s.Visible() {
		s.reload(ctx, "start")
	}
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if !s.Visible() {
				continue
			}
			s.reload(ctx, "tick")
		case <-s.wake:
			// Hidden again before the wake was served.
			if !s.Visible() {
				continue
			}
			s.reload(ctx, "visible")
		}
	}
}

func (s *Scheduler) reload(ctx context.Context, reason string) {
	connected := s.loader(ctx)

	s.mu.Lock()
	s.connected = connected
	s.runs++
	s.mu.Unlock()

	s.logger.Debug().Str("reason", reason).Bool("connected", connected).Msg("refreshed")
}
