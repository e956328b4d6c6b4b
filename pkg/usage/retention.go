package usage

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/robfig/cron/v3"
)

// Sweeper prunes expired entries from a store backend without native TTL
// enforcement. *store.SQLiteStore satisfies it.
type Sweeper interface {
	Sweep(ctx context.Context) (int, error)
}

// RetentionScheduler runs a store sweep on a cron schedule. Redis enforces
// TTLs natively and the memory backend has its own cleanup loop, so the
// scheduler only matters for the sqlite backend's emulated expiry.
type RetentionScheduler struct {
	sweeper  Sweeper
	schedule string
	cron     *cron.Cron
	mu       sync.Mutex
	logger   *slog.Logger
	running  bool
}

// NewRetentionScheduler creates a scheduler for the given cron expression,
// e.g. "0 */6 * * *" for every six hours. An empty schedule disables it.
func NewRetentionScheduler(sweeper Sweeper, schedule string, logger *slog.Logger) *RetentionScheduler {
	if logger == nil {
		logger = slog.Default()
	}
	return &RetentionScheduler{
		sweeper:  sweeper,
		schedule: schedule,
		cron:     cron.New(),
		logger:   logger.With("component", "usage.retention"),
	}
}

// Start begins the scheduled sweeps and stops them when ctx is cancelled.
func (s *RetentionScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.schedule == "" || s.sweeper == nil {
		s.logger.Info("retention sweep not configured, skipping scheduler")
		return nil
	}

	if _, err := cron.ParseStandard(s.schedule); err != nil {
		return fmt.Errorf("invalid retention schedule %q: %w", s.schedule, err)
	}

	if _, err := s.cron.AddFunc(s.schedule, func() {
		s.runSweep(ctx)
	}); err != nil {
		return fmt.Errorf("failed to schedule retention sweep: %w", err)
	}

	s.cron.Start()
	s.running = true
	s.logger.Info("retention scheduler started", "schedule", s.schedule)

	go func() {
		<-ctx.Done()
		s.Stop()
	}()

	return nil
}

func (s *RetentionScheduler) runSweep(ctx context.Context) {
	pruned, err := s.sweeper.Sweep(ctx)
	if err != nil {
		s.logger.Error("retention sweep failed", "error", err)
		return
	}
	if pruned > 0 {
		s.logger.Info("retention sweep completed", "pruned", pruned)
	} else {
		s.logger.Debug("retention sweep completed, nothing to prune")
	}
}

// Stop stops the scheduler and waits for a running sweep to finish.
func (s *RetentionScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		<-s.cron.Stop().Done()
		s.running = false
		s.logger.Info("retention scheduler stopped")
	}
}

// IsRunning reports whether the scheduler is active.
func (s *RetentionScheduler) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}
