package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

// maxBodySize caps how much of a product page is read.
const maxBodySize = 10 << 20

// HTTPTransport implements Transport with net/http.
type HTTPTransport struct {
	client    *http.Client
	userAgent string
	timeout   time.Duration
}

// HTTPOption configures the HTTPTransport.
type HTTPOption func(*HTTPTransport)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(c *http.Client) HTTPOption {
	return func(t *HTTPTransport) {
		t.client = c
	}
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(ua string) HTTPOption {
	return func(t *HTTPTransport) {
		t.userAgent = ua
	}
}

// WithTimeout bounds each request, including reading the body.
func WithTimeout(d time.Duration) HTTPOption {
	return func(t *HTTPTransport) {
		t.timeout = d
	}
}

// NewHTTPTransport creates an HTTPTransport with a browser User-Agent and
// DefaultTimeout.
func NewHTTPTransport(opts ...HTTPOption) *HTTPTransport {
	t := &HTTPTransport{
		client:    http.DefaultClient,
		userAgent: DefaultUserAgent,
		timeout:   DefaultTimeout,
	}
	for _, opt := range opts {
		opt(t)
	}

	if t.timeout > 0 {
		c := *t.client
		c.Timeout = t.timeout
		t.client = &c
	}
	return t
}

// Get implements Transport.
func (t *HTTPTransport) Get(ctx context.Context, url string) (*Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", t.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := t.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}

	return &Response{StatusCode: resp.StatusCode, Body: body}, nil
}

var _ Transport = (*HTTPTransport)(nil)
