// Package jobs runs background maintenance tasks.
package jobs

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// EventFinisher marks events dated before cutoff as finished and returns
// how many changed.
type EventFinisher interface {
	FinishPastEvents(ctx context.Context, cutoff time.Time) (int64, error)
}

// StatusSweeper moves published events whose time has passed to the
// finished status.
type StatusSweeper struct {
	db       EventFinisher
	interval time.Duration
	log      *zap.Logger
	now      func() time.Time
}

// NewStatusSweeper creates a new status sweeper.
func NewStatusSweeper(database EventFinisher, interval time.Duration, logger *zap.Logger) *StatusSweeper {
	return &StatusSweeper{
		db:       database,
		interval: interval,
		log:      logger,
		now:      time.Now,
	}
}

// Start begins the sweep loop. It returns when ctx is cancelled.
func (s *StatusSweeper) Start(ctx context.Context) {
	s.log.Info("status sweeper started", zap.Duration("interval", s.interval))

	// Run immediately on start
	s.Sweep(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.log.Info("status sweeper stopped")
			return
		case <-ticker.C:
			s.Sweep(ctx)
		}
	}
}

// Sweep runs one pass and returns the number of events finished.
func (s *StatusSweeper) Sweep(ctx context.Context) int64 {
	n, err := s.db.FinishPastEvents(ctx, s.now())
	if err != nil {
		if ctx.Err() == nil {
			s.log.Error("status sweep failed", zap.Error(err))
		}
		return 0
	}
	if n > 0 {
		s.log.Info("events finished", zap.Int64("count", n))
	}
	return n
}
