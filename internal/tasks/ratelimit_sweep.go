package tasks

import (
	"sync"
	"time"

	"github.com/moura-ar/portfolio/internal/logging"
)

// DefaultSweepInterval is how often expired rate-limit windows are dropped.
const DefaultSweepInterval = 10 * time.Minute

// Sweeper removes expired entries and reports how many it dropped.
type Sweeper interface {
	Sweep() int
}

// RateLimitSweep periodically clears expired rate-limit windows so the
// in-memory store stays bounded.
type RateLimitSweep struct {
	sweeper  Sweeper
	interval time.Duration
	logger   *logging.Logger
	done     chan struct{}
	wg       sync.WaitGroup
	once     sync.Once
	onSweep  func(removed int)
}

// NewRateLimitSweep creates a new sweep task. A non-positive interval uses
// DefaultSweepInterval.
func NewRateLimitSweep(sweeper Sweeper, interval time.Duration, logger *logging.Logger) *RateLimitSweep {
	if interval <= 0 {
		interval = DefaultSweepInterval
	}
	if logger == nil {
		logger = logging.GetGlobalLogger()
	}
	return &RateLimitSweep{
		sweeper:  sweeper,
		interval: interval,
		logger:   logger,
		done:     make(chan struct{}),
	}
}

// OnSweep registers a callback invoked after every pass. Must be called
// before Start.
func (s *RateLimitSweep) OnSweep(fn func(removed int)) {
	s.onSweep = fn
}

// Start begins the sweep task in the background
func (s *RateLimitSweep) Start() {
	s.wg.Add(1)
	go s.runPeriodically()
}

// Stop gracefully stops the sweep task. Safe to call more than once.
func (s *RateLimitSweep) Stop() {
	s.once.Do(func() {
		close(s.done)
	})
	s.wg.Wait()
}

func (s *RateLimitSweep) runPeriodically() {
	defer s.wg.Done()

	s.logger.Info("Starting rate limit sweep task (every %s)", s.interval)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.sweep()
		case <-s.done:
			s.logger.Info("Rate limit sweep task stopped")
			return
		}
	}
}

func (s *RateLimitSweep) sweep() {
	removed := s.sweeper.Sweep()
	if removed > 0 {
		s.logger.Debug("Rate limit sweep removed %d expired windows", removed)
	}
	if s.onSweep != nil {
		s.onSweep(removed)
	}
}
