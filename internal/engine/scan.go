package engine

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/donaldgifford/retail-price-tracker/internal/metrics"
	"github.com/donaldgifford/retail-price-tracker/internal/notify"
	"github.com/donaldgifford/retail-price-tracker/internal/store"
	"github.com/donaldgifford/retail-price-tracker/pkg/extract"
	domain "github.com/donaldgifford/retail-price-tracker/pkg/types"
)

const tracerName = "github.com/donaldgifford/retail-price-tracker/internal/engine"

// Fetcher retrieves the raw content of a page. *fetch.Client satisfies it.
type Fetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// Scanner walks every variant of a retailer and turns fetched pages into
// scan lines and change notifications.
type Scanner struct {
	fetcher     Fetcher
	registry    *extract.Registry
	store       store.PriceStore
	detector    *ChangeDetector
	notifier    notify.Notifier
	concurrency int
	log         *slog.Logger
	tracer      trace.Tracer
}

// ScannerOption configures a Scanner.
type ScannerOption func(*Scanner)

// WithConcurrency bounds how many variants of one retailer are fetched at
// once. Values below 1 mean sequential.
func WithConcurrency(n int) ScannerOption {
	return func(s *Scanner) {
		s.concurrency = max(n, 1)
	}
}

// WithTracerProvider sets the provider used for scan spans. The global
// provider is used otherwise.
func WithTracerProvider(tp trace.TracerProvider) ScannerOption {
	return func(s *Scanner) {
		s.tracer = tp.Tracer(tracerName)
	}
}

// WithScannerLogger sets a custom logger.
func WithScannerLogger(l *slog.Logger) ScannerOption {
	return func(s *Scanner) {
		s.log = l
	}
}

// NewScanner creates a Scanner. The detector it uses writes to s.
func NewScanner(
	f Fetcher,
	reg *extract.Registry,
	s store.PriceStore,
	n notify.Notifier,
	opts ...ScannerOption,
) *Scanner {
	sc := &Scanner{
		fetcher:     f,
		registry:    reg,
		store:       s,
		detector:    NewChangeDetector(s),
		notifier:    n,
		concurrency: 1,
		log:         slog.Default(),
		tracer:      otel.Tracer(tracerName),
	}
	for _, opt := range opts {
		opt(sc)
	}
	return sc
}

// variantOutcome is the per-variant result written by index so that lines
// keep the configured variant order under parallel fetching.
type variantOutcome struct {
	line    string
	unknown bool
	changed bool
}

// Scan processes every variant of r. A failure on one variant never stops
// the others; it shows up as a "variant: Unknown" line.
func (s *Scanner) Scan(ctx context.Context, r domain.Retailer, firstRun bool) domain.ScanResult {
	ctx, span := s.tracer.Start(ctx, "scan.retailer", trace.WithAttributes(
		attribute.String("retailer", r.Name),
		attribute.Int("variants", len(r.Variants)),
		attribute.Bool("first_run", firstRun),
	))
	defer span.End()

	result := domain.ScanResult{Retailer: r.Name, Lines: make([]string, 0, len(r.Variants))}

	ex, ok := s.registry.Lookup(r.Name)
	if !ok {
		s.log.Error("no extractor registered for retailer", "retailer", r.Name)
		span.SetStatus(codes.Error, "no extractor registered")
		for _, v := range r.Variants {
			result.Lines = append(result.Lines, domain.UnknownLine(v))
		}
		result.Unknown = len(r.Variants)
		metrics.VariantsUnknownTotal.WithLabelValues(r.Name).Add(float64(result.Unknown))
		return result
	}

	outcomes := make([]variantOutcome, len(r.Variants))

	var g errgroup.Group
	g.SetLimit(s.concurrency)
	for i, v := range r.Variants {
		g.Go(func() error {
			outcomes[i] = s.scanVariant(ctx, r, ex, v, firstRun)
			return nil
		})
	}
	_ = g.Wait()

	for _, o := range outcomes {
		result.Lines = append(result.Lines, o.line)
		if o.unknown {
			result.Unknown++
		}
		if o.changed {
			result.Changes++
		}
	}

	span.SetAttributes(
		attribute.Int("unknown", result.Unknown),
		attribute.Int("changes", result.Changes),
	)
	s.log.Info("retailer scan complete",
		"retailer", r.Name,
		"variants", len(r.Variants),
		"unknown", result.Unknown,
		"changes", result.Changes,
	)

	return result
}

func (s *Scanner) scanVariant(
	ctx context.Context,
	r domain.Retailer,
	ex extract.Extractor,
	variant string,
	firstRun bool,
) variantOutcome {
	url := ex.VariantURL(r.BaseURL, variant)

	ctx, span := s.tracer.Start(ctx, "scan.variant", trace.WithAttributes(
		attribute.String("retailer", r.Name),
		attribute.String("variant", variant),
		attribute.String("url", url),
	))
	defer span.End()

	unknown := variantOutcome{line: domain.UnknownLine(variant), unknown: true}

	content, err := s.fetcher.Fetch(ctx, url)
	if err != nil {
		s.log.Warn("variant price unknown", "retailer", r.Name, "variant", variant, "error", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, "fetch failed")
		metrics.VariantsUnknownTotal.WithLabelValues(r.Name).Inc()
		return unknown
	}

	price, err := ex.ExtractPrice(content)
	if err != nil {
		s.log.Error("price extraction failed", "retailer", r.Name, "url", url, "error", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, "extraction failed")
		metrics.ExtractionFailuresTotal.WithLabelValues(r.Name).Inc()
		metrics.VariantsUnknownTotal.WithLabelValues(r.Name).Inc()
		deliver(ctx, s.notifier, s.log, kindError, ErrorMessage(url, err))
		return unknown
	}

	key := domain.VariantKey{Retailer: r.Name, Variant: ex.VariantKey(variant)}
	out := variantOutcome{line: domain.PriceLine(key, price)}

	if amount, parseErr := extract.ParsePrice(price); parseErr == nil {
		f, _ := amount.Float64()
		metrics.VariantPrice.WithLabelValues(r.Name, key.Variant).Set(f)
	}

	dec := s.detector.Evaluate(key, url, price, firstRun)
	if dec.Notify != "" {
		out.changed = true
		metrics.PriceChangesTotal.WithLabelValues(r.Name).Inc()
		attrs := []any{"key", key.String(), "previous", dec.Previous, "price", price}
		if delta, ok := extract.PriceDelta(dec.Previous, price); ok {
			attrs = append(attrs, "delta", delta.String())
		}
		s.log.Info("price changed", attrs...)
		deliver(ctx, s.notifier, s.log, kindChange, dec.Notify)
	}

	return out
}
