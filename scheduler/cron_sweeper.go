// Package scheduler runs container maintenance on a cron schedule for
// hosts that have no per-frame update loop.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/GoCodeAlone/locator"
	"github.com/robfig/cron/v3"
)

// Static errors for scheduler package
var (
	ErrNoSchedule      = errors.New("sweep schedule is empty")
	ErrInvalidSchedule = errors.New("invalid sweep schedule")
)

// CronSweeper calls Container.Sweep on a standard cron schedule.
type CronSweeper struct {
	container *locator.Container
	schedule  string
	logger    locator.Logger

	mu        sync.Mutex
	cron      *cron.Cron
	entryID   cron.EntryID
	isStarted bool

	runs   atomic.Int64
	purged atomic.Int64
}

// SweeperOption configures a CronSweeper.
type SweeperOption func(*CronSweeper)

// WithLogger sets the logger
func WithLogger(logger locator.Logger) SweeperOption {
	return func(s *CronSweeper) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithSchedule overrides the schedule taken from the container config.
func WithSchedule(schedule string) SweeperOption {
	return func(s *CronSweeper) {
		s.schedule = schedule
	}
}

// NewCronSweeper creates a sweeper for c using Config.SweepSchedule unless
// WithSchedule is given. The schedule is validated here so Start only
// fails on lifecycle errors.
func NewCronSweeper(c *locator.Container, opts ...SweeperOption) (*CronSweeper, error) {
	s := &CronSweeper{
		container: c,
		schedule:  c.Config().SweepSchedule,
		logger:    c.Logger(),
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.schedule == "" {
		return nil, ErrNoSchedule
	}
	if _, err := cron.ParseStandard(s.schedule); err != nil {
		return nil, fmt.Errorf("%w %q: %w", ErrInvalidSchedule, s.schedule, err)
	}

	s.cron = cron.New()
	return s, nil
}

// Start registers the sweep job and starts the cron runner.
func (s *CronSweeper) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isStarted {
		return nil
	}

	id, err := s.cron.AddFunc(s.schedule, s.RunOnce)
	if err != nil {
		return fmt.Errorf("%w %q: %w", ErrInvalidSchedule, s.schedule, err)
	}
	s.entryID = id
	s.cron.Start()
	s.isStarted = true

	s.logger.Info("Starting cron sweeper", "schedule", s.schedule)
	return nil
}

// Stop stops the cron runner and waits for a running sweep to finish or
// ctx to expire.
func (s *CronSweeper) Stop(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isStarted {
		return nil
	}

	s.logger.Info("Stopping cron sweeper")
	stopCtx := s.cron.Stop()
	s.cron.Remove(s.entryID)
	s.isStarted = false

	select {
	case <-stopCtx.Done():
		return nil
	case <-ctx.Done():
		return fmt.Errorf("cron sweeper stop: %w", ctx.Err())
	}
}

// RunOnce performs one sweep. The cron runner calls it on schedule.
func (s *CronSweeper) RunOnce() {
	n := s.container.Sweep()
	s.runs.Add(1)
	s.purged.Add(int64(n))
	s.logger.Debug("Cron sweep finished", "purged", n)
}

// Stats returns how many sweeps ran and how many entries they purged.
func (s *CronSweeper) Stats() (runs, purged int64) {
	return s.runs.Load(), s.purged.Load()
}

// Schedule returns the active cron expression.
func (s *CronSweeper) Schedule() string {
	return s.schedule
}
