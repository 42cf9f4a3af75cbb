package engine

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/donaldgifford/retail-price-tracker/internal/fetch"
	"github.com/donaldgifford/retail-price-tracker/internal/metrics"
	"github.com/donaldgifford/retail-price-tracker/internal/notify"
	domain "github.com/donaldgifford/retail-price-tracker/pkg/types"
)

const (
	// DefaultInterval is the pause between scan cycles.
	DefaultInterval = 1800 * time.Second
	// DefaultSummaryHour is the local hour in which the daily summary fires.
	DefaultSummaryHour = 8
)

// Watcher owns the cycle state: the first-run flag, the daily summary flag
// and the retailer list. Cycles never overlap.
type Watcher struct {
	mu sync.Mutex

	scanner   *Scanner
	retailers []domain.Retailer
	notifier  notify.Notifier
	log       *slog.Logger

	interval    time.Duration
	summaryHour int
	now         func() time.Time
	sleep       fetch.SleepFunc
	newID       func() string

	firstRun         bool
	dailySummarySent bool

	ready atomic.Bool
	last  atomic.Pointer[domain.CycleReport]
}

// WatcherOption configures a Watcher.
type WatcherOption func(*Watcher)

// WithLogger sets a custom logger.
func WithLogger(l *slog.Logger) WatcherOption {
	return func(w *Watcher) {
		w.log = l
	}
}

// WithInterval sets the pause between cycles in loop mode.
func WithInterval(d time.Duration) WatcherOption {
	return func(w *Watcher) {
		w.interval = d
	}
}

// WithSummaryHour sets the hour (0-23) in which the daily summary is sent.
func WithSummaryHour(h int) WatcherOption {
	return func(w *Watcher) {
		w.summaryHour = h
	}
}

// WithClock overrides the wall clock.
func WithClock(now func() time.Time) WatcherOption {
	return func(w *Watcher) {
		w.now = now
	}
}

// WithSleep overrides how the loop waits between cycles.
func WithSleep(f fetch.SleepFunc) WatcherOption {
	return func(w *Watcher) {
		w.sleep = f
	}
}

// WithIDFunc overrides cycle ID generation.
func WithIDFunc(f func() string) WatcherOption {
	return func(w *Watcher) {
		w.newID = f
	}
}

// NewWatcher creates a Watcher that scans retailers in order each cycle.
func NewWatcher(
	sc *Scanner,
	retailers []domain.Retailer,
	n notify.Notifier,
	opts ...WatcherOption,
) *Watcher {
	w := &Watcher{
		scanner:     sc,
		retailers:   retailers,
		notifier:    n,
		log:         slog.Default(),
		interval:    DefaultInterval,
		summaryHour: DefaultSummaryHour,
		now:         time.Now,
		sleep:       fetch.Sleep,
		newID:       uuid.NewString,
		firstRun:    true,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Retailers returns the configured retailers.
func (w *Watcher) Retailers() []domain.Retailer {
	return w.retailers
}

// Ready reports whether at least one cycle has completed.
func (w *Watcher) Ready() bool {
	return w.ready.Load()
}

// LastReport returns the most recent cycle report, if any.
func (w *Watcher) LastReport() (*domain.CycleReport, bool) {
	r := w.last.Load()
	return r, r != nil
}

// RunCycle scans every retailer once and sends the summaries due for this
// cycle. Concurrent callers are serialized. If ctx is canceled before the
// scan finishes the report is marked Canceled and neither the first-run
// nor the daily summary state changes.
func (w *Watcher) RunCycle(ctx context.Context) *domain.CycleReport {
	w.mu.Lock()
	defer w.mu.Unlock()

	start := w.now()
	report := &domain.CycleReport{
		ID:        w.newID(),
		FirstRun:  w.firstRun,
		StartedAt: start,
		Results:   make([]domain.ScanResult, 0, len(w.retailers)),
	}

	ctx, span := w.scanner.tracer.Start(ctx, "scan.cycle", trace.WithAttributes(
		attribute.String("cycle_id", report.ID),
		attribute.Bool("first_run", report.FirstRun),
	))
	defer span.End()

	log := w.log.With("cycle_id", report.ID)
	log.Info("scan cycle starting", "first_run", report.FirstRun, "retailers", len(w.retailers))

	for _, r := range w.retailers {
		report.Results = append(report.Results, w.scanner.Scan(ctx, r, w.firstRun))
	}
	if err := ctx.Err(); err != nil {
		// Lines from a canceled scan are Unknown for every unfinished
		// variant; summaries and flags wait for a complete cycle.
		report.Canceled = true
		report.Duration = w.now().Sub(start)
		span.RecordError(err)
		log.Warn("scan cycle canceled, cycle state unchanged", "error", err)
		return report
	}
	lines := report.Lines()

	if w.firstRun {
		report.InitialSummarySent = deliver(ctx, w.notifier, log, kindInitialSummary,
			domain.Summary("Initial Price Summary", lines))
		w.firstRun = false
	}

	report.DailySummarySent = w.checkDailySummary(ctx, log, lines)

	report.Duration = w.now().Sub(start)
	metrics.ScanCyclesTotal.Inc()
	metrics.ScanCycleDuration.Observe(report.Duration.Seconds())
	metrics.LastCycleTimestamp.Set(float64(w.now().Unix()))
	metrics.TrackedVariants.Set(float64(w.scanner.store.Len()))

	log.Info("scan cycle complete",
		"duration", report.Duration,
		"lines", len(lines),
		"initial_summary", report.InitialSummarySent,
		"daily_summary", report.DailySummarySent,
	)

	w.last.Store(report)
	w.ready.Store(true)
	return report
}

// checkDailySummary sends the daily summary once per summary-hour window.
// The flag clears as soon as the hour moves on, so a window that falls
// entirely inside a sleep is skipped rather than caught up.
func (w *Watcher) checkDailySummary(ctx context.Context, log *slog.Logger, lines []string) bool {
	if w.now().Hour() != w.summaryHour {
		w.dailySummarySent = false
		return false
	}
	if w.dailySummarySent {
		return false
	}

	w.dailySummarySent = true
	return deliver(ctx, w.notifier, log, kindDailySummary, domain.Summary("Daily Price Summary", lines))
}

// Run executes cycles back to back with the configured interval between
// them until ctx is canceled.
func (w *Watcher) Run(ctx context.Context) error {
	w.log.Info("watcher started", "interval", w.interval, "retailers", len(w.retailers))

	for ctx.Err() == nil {
		w.RunCycle(ctx)

		metrics.SchedulerNextCycleTimestamp.Set(float64(w.now().Add(w.interval).Unix()))
		if err := w.sleep(ctx, w.interval); err != nil {
			w.log.Info("watcher stopped", "reason", err)
			return err
		}
	}
	return ctx.Err()
}
