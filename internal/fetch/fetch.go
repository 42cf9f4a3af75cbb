// Package fetch retrieves product pages over a pluggable transport with a
// bounded, fixed-delay retry policy.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/donaldgifford/retail-price-tracker/internal/metrics"
)

// Default retry policy and request settings.
const (
	DefaultMaxAttempts = 3
	DefaultRetryDelay  = 5 * time.Second
	DefaultTimeout     = 30 * time.Second

	// DefaultUserAgent mimics a desktop browser; several retailers reject
	// stock client signatures.
	DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 " +
		"(KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"
)

var (
	// ErrUnexpectedStatus marks any response whose status is not 200.
	ErrUnexpectedStatus = errors.New("unexpected HTTP status")
	// ErrRetriesExhausted is returned once every attempt has failed.
	ErrRetriesExhausted = errors.New("retries exhausted")
)

// Response is the transport-agnostic result of a single GET.
type Response struct {
	StatusCode int
	Body       []byte
}

// Transport performs exactly one GET request, without retries.
type Transport interface {
	Get(ctx context.Context, url string) (*Response, error)
}

// SleepFunc waits for d or until ctx is done.
type SleepFunc func(ctx context.Context, d time.Duration) error

// Sleep is the wall-clock SleepFunc.
func Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// Client fetches pages through a Transport, retrying failed attempts.
type Client struct {
	transport   Transport
	maxAttempts int
	retryDelay  time.Duration
	sleep       SleepFunc
	limiter     *rate.Limiter
	log         *slog.Logger
}

// Option configures the Client.
type Option func(*Client)

// WithRetry sets the number of attempts and the fixed delay between them.
func WithRetry(maxAttempts int, delay time.Duration) Option {
	return func(c *Client) {
		c.maxAttempts = maxAttempts
		c.retryDelay = delay
	}
}

// WithSleepFunc overrides the delay function, mainly for tests.
func WithSleepFunc(f SleepFunc) Option {
	return func(c *Client) {
		c.sleep = f
	}
}

// WithRateLimit paces attempts with a token bucket. A non-positive rate
// disables pacing.
func WithRateLimit(perSecond float64, burst int) Option {
	return func(c *Client) {
		if perSecond <= 0 {
			c.limiter = nil
			return
		}
		c.limiter = rate.NewLimiter(rate.Limit(perSecond), max(burst, 1))
	}
}

// WithLogger sets a custom logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) {
		c.log = l
	}
}

// NewClient creates a Client using the default retry policy.
func NewClient(t Transport, opts ...Option) *Client {
	c := &Client{
		transport:   t,
		maxAttempts: DefaultMaxAttempts,
		retryDelay:  DefaultRetryDelay,
		sleep:       Sleep,
		log:         slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Fetch retrieves url with the client's retry policy.
func (c *Client) Fetch(ctx context.Context, url string) ([]byte, error) {
	return c.FetchWithRetry(ctx, url, c.maxAttempts, c.retryDelay)
}

// FetchWithRetry retrieves url, making at most maxAttempts attempts and
// sleeping delay between consecutive ones. Only HTTP 200 counts as success.
// After the last failure it returns an error wrapping ErrRetriesExhausted
// and the final cause. Context cancellation stops retrying early.
func (c *Client) FetchWithRetry(
	ctx context.Context,
	url string,
	maxAttempts int,
	delay time.Duration,
) ([]byte, error) {
	maxAttempts = max(maxAttempts, 1)

	var lastErr error
	attempts := 0
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		attempts = attempt
		body, err := c.attempt(ctx, url)
		if err == nil {
			c.log.Info("fetched page", "url", url, "status", http.StatusOK, "attempt", attempt)
			return body, nil
		}
		lastErr = err

		if errors.Is(err, ErrUnexpectedStatus) {
			c.log.Warn("non-200 response",
				"url", url,
				"attempt", attempt,
				"max_attempts", maxAttempts,
				"error", err,
			)
		} else {
			c.log.Error("fetch attempt failed",
				"url", url,
				"attempt", attempt,
				"max_attempts", maxAttempts,
				"error", err,
			)
		}

		if ctx.Err() != nil || attempt == maxAttempts {
			break
		}

		c.log.Info("retrying fetch", "url", url, "delay", delay)
		if err := c.sleep(ctx, delay); err != nil {
			lastErr = err
			break
		}
	}

	metrics.FetchExhaustedTotal.Inc()
	c.log.Error("giving up on page", "url", url, "attempts", attempts, "error", lastErr)

	return nil, fmt.Errorf("%w: %s after %d attempts: %w", ErrRetriesExhausted, url, attempts, lastErr)
}

func (c *Client) attempt(ctx context.Context, url string) ([]byte, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter wait: %w", err)
		}
	}

	start := time.Now()
	resp, err := c.transport.Get(ctx, url)
	metrics.FetchDuration.Observe(time.Since(start).Seconds())

	if err == nil && resp.StatusCode != http.StatusOK {
		err = fmt.Errorf("%w: %d", ErrUnexpectedStatus, resp.StatusCode)
	}
	metrics.FetchAttemptsTotal.WithLabelValues(Classify(err)).Inc()
	if err != nil {
		return nil, err
	}

	return resp.Body, nil
}
