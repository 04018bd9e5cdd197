// Package scheduler triggers the contract renewal batch once a day at a
// configured wall-clock time.
package scheduler

import (
	"context"
	"log/slog"
	"time"

	"github.com/rpggio/hourbank/internal/domain/billing"
	"github.com/rpggio/hourbank/internal/domain/renewal"
)

// Clock abstracts the time operations the scheduler waits on.
type Clock interface {
	Now() time.Time
	After(d time.Duration) <-chan time.Time
}

// RealClock returns a Clock backed by the time package.
func RealClock() Clock { return realClock{} }

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

func (realClock) After(d time.Duration) <-chan time.Time { return time.After(d) }

// Runner executes one renewal batch for a calendar date.
type Runner interface {
	Run(ctx context.Context, asOf time.Time) (renewal.Summary, error)
}

// Scheduler runs the renewal batch daily.
type Scheduler struct {
	runner Runner
	clock  Clock
	loc    *time.Location
	at     time.Duration
	logger *slog.Logger
}

// New creates a scheduler that fires at offset at past local midnight in loc.
func New(runner Runner, clock Clock, loc *time.Location, at time.Duration, logger *slog.Logger) *Scheduler {
	if clock == nil {
		clock = RealClock()
	}
	if loc == nil {
		loc = time.UTC
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Scheduler{runner: runner, clock: clock, loc: loc, at: at, logger: logger}
}

// NextRun returns the first trigger time strictly after now.
func (s *Scheduler) NextRun(now time.Time) time.Time {
	local := now.In(s.loc)
	hour := int(s.at / time.Hour)
	minute := int(s.at % time.Hour / time.Minute)
	second := int(s.at % time.Minute / time.Second)

	y, m, d := local.Date()
	next := time.Date(y, m, d, hour, minute, second, 0, s.loc)
	if !next.After(now) {
		next = time.Date(y, m, d+1, hour, minute, second, 0, s.loc)
	}
	return next
}

// Today returns the calendar date of t in the scheduler's timezone.
func (s *Scheduler) Today(t time.Time) time.Time {
	return billing.Day(t.In(s.loc))
}

// Start blocks, running the batch at every trigger time until ctx is done.
func (s *Scheduler) Start(ctx context.Context) error {
	for {
		now := s.clock.Now()
		next := s.NextRun(now)
		s.logger.Info("next contract renewal scheduled", "at", next.Format(time.RFC3339))

		select {
		case <-ctx.Done():
			s.logger.Info("renewal scheduler stopped")
			return ctx.Err()
		case fired := <-s.clock.After(next.Sub(now)):
			s.runOnce(ctx, fired)
		}
	}
}

func (s *Scheduler) runOnce(ctx context.Context, fired time.Time) {
	today := s.Today(fired)
	summary, err := s.runner.Run(ctx, today)
	if err != nil {
		s.logger.Error("scheduled contract renewal failed", "date", summary.Date, "error", err)
		return
	}
	s.logger.Info("scheduled contract renewal finished",
		"date", summary.Date,
		"total_expired", summary.TotalExpired,
		"renewed", summary.Renewed,
		"skipped", summary.Skipped,
		"errors", len(summary.Errors),
	)
}
