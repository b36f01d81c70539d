// Package scheduler runs periodic maintenance jobs such as the nightly quote
// archiving sweep.
package scheduler

import (
	"context"
	"log/slog"
	"time"

	"github.com/diewo77/go-erp/internal/services"
	"github.com/robfig/cron/v3"
)

// sweepTimeout bounds a single archiving run.
const sweepTimeout = 10 * time.Minute

// Sweeper archives quotes whose retention rules have elapsed.
type Sweeper interface {
	RunArchivingSweep(ctx context.Context, now time.Time) (services.SweepResult, error)
}

// Scheduler wraps a cron instance. A panicking job is recovered and logged,
// and a run still in progress makes the next one skip.
type Scheduler struct {
	cron *cron.Cron
	log  *slog.Logger
}

func New(log *slog.Logger) *Scheduler {
	if log == nil {
		log = slog.Default()
	}
	cl := cronLogger{log: log.With("component", "cron")}
	return &Scheduler{
		cron: cron.New(
			cron.WithLogger(cl),
			cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
		),
		log: log,
	}
}

// AddArchiving schedules the archiving sweep on spec (5-field cron syntax).
func (s *Scheduler) AddArchiving(spec string, sw Sweeper, clock services.Clock) error {
	_, err := s.cron.AddFunc(spec, ArchiveJob(sw, clock, s.log))
	return err
}

// Entries returns the number of scheduled jobs.
func (s *Scheduler) Entries() int {
	return len(s.cron.Entries())
}

func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop prevents new runs and waits for a running job until ctx is done.
func (s *Scheduler) Stop(ctx context.Context) {
	select {
	case <-s.cron.Stop().Done():
	case <-ctx.Done():
		s.log.Warn("scheduler stop timed out, job still running")
	}
}

// ArchiveJob returns the cron job body. Failures are logged; the scheduler
// keeps running and the next run retries.
func ArchiveJob(sw Sweeper, clock services.Clock, log *slog.Logger) func() {
	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), sweepTimeout)
		defer cancel()

		start := time.Now()
		res, err := sw.RunArchivingSweep(ctx, clock())
		if err != nil {
			log.Error("archiving sweep failed", "err", err, "archived", res.Total())
			return
		}
		log.Info("archiving sweep finished", "archived", res.Total(), "duration", time.Since(start))
	}
}

// cronLogger adapts slog to cron.Logger.
type cronLogger struct {
	log *slog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	l.log.Debug(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.log.Error(msg, append([]any{"err", err}, keysAndValues...)...)
}
