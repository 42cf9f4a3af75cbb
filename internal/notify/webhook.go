package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/donaldgifford/retail-price-tracker/internal/metrics"
)

// Option configures the webhook-based notifiers.
type Option func(*webhook)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(w *webhook) {
		w.client = c
	}
}

// webhook posts JSON payloads to a fixed URL.
type webhook struct {
	name   string
	url    string
	client *http.Client
}

func newWebhook(name, url string, opts ...Option) webhook {
	w := webhook{
		name:   name,
		url:    url,
		client: http.DefaultClient,
	}
	for _, opt := range opts {
		opt(&w)
	}
	return w
}

// post sends payload and treats any non-2xx status as a failure.
func (w *webhook) post(ctx context.Context, payload any) error {
	start := time.Now()
	defer func() {
		metrics.NotificationDuration.Observe(time.Since(start).Seconds())
	}()

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshaling %s payload: %w", w.name, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("creating %s request: %w", w.name, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.client.Do(req)
	if err != nil {
		return fmt.Errorf("sending %s request: %w", w.name, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return fmt.Errorf("%s rate limited (429)", w.name)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, readErr := io.ReadAll(io.LimitReader(resp.Body, 4096))
		if readErr != nil {
			return fmt.Errorf("%s returned %d (body unreadable)", w.name, resp.StatusCode)
		}
		return fmt.Errorf("%s returned %d: %s", w.name, resp.StatusCode, respBody)
	}

	return nil
}
