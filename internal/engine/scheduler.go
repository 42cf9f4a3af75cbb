package engine

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/robfig/cron/v3"

	"github.com/donaldgifford/retail-price-tracker/internal/metrics"
)

// Scheduler triggers watcher cycles from a cron expression instead of the
// fixed-interval loop. A cycle still running when the next tick fires
// causes that tick to be skipped.
type Scheduler struct {
	cron    *cron.Cron
	watcher *Watcher
	log     *slog.Logger
	entryID cron.EntryID
	ctx     context.Context
}

// NewScheduler creates a Scheduler that runs w on spec. spec accepts the
// standard five-field format and descriptors such as "@every 30m".
func NewScheduler(w *Watcher, spec string, log *slog.Logger) (*Scheduler, error) {
	cl := cronLogger{log: log}
	c := cron.New(
		cron.WithLogger(cl),
		cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
	)

	s := &Scheduler{
		cron:    c,
		watcher: w,
		log:     log,
		ctx:     context.Background(),
	}

	id, err := c.AddFunc(spec, s.runCycle)
	if err != nil {
		return nil, fmt.Errorf("parsing schedule %q: %w", spec, err)
	}
	s.entryID = id

	return s, nil
}

// Start begins running scheduled cycles. Cycles run under ctx, so canceling
// it aborts an in-flight cycle's fetches.
func (s *Scheduler) Start(ctx context.Context) {
	s.ctx = ctx
	s.log.Info("scheduler started")
	s.cron.Start()
	s.SyncNextRunTimestamp()
}

// Stop gracefully stops the scheduler, waiting for running jobs to finish.
func (s *Scheduler) Stop() context.Context {
	s.log.Info("scheduler stopping")
	return s.cron.Stop()
}

// Entries returns the registered cron entries for inspection.
func (s *Scheduler) Entries() []cron.Entry {
	return s.cron.Entries()
}

// SyncNextRunTimestamp publishes the next scheduled cycle time.
func (s *Scheduler) SyncNextRunTimestamp() {
	e := s.cron.Entry(s.entryID)
	if e.Next.IsZero() {
		return
	}
	metrics.SchedulerNextCycleTimestamp.Set(float64(e.Next.Unix()))
}

func (s *Scheduler) runCycle() {
	s.log.Info("scheduled scan cycle starting")
	s.watcher.RunCycle(s.ctx)
	s.SyncNextRunTimestamp()
}

// cronLogger adapts slog to cron.Logger.
type cronLogger struct {
	log *slog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	l.log.Debug("cron: "+msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.log.Error("cron: "+msg, append(keysAndValues, "error", err)...)
}
