package fetch

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gocolly/colly/v2"
)

// CollyTransport implements Transport on top of a colly collector. Each call
// runs on a clone so concurrent scans never share callbacks.
type CollyTransport struct {
	collector *colly.Collector
	userAgent string
	bind      *contextBinder
}

// fetchIDHeader tags a colly request with the Get call that issued it. It
// never leaves the process.
const fetchIDHeader = "X-Rpt-Fetch-Id"

// contextBinder is the collector's RoundTripper. colly builds requests
// without a context, so each request is re-bound to the context of the Get
// call named by its fetchIDHeader.
type contextBinder struct {
	base http.RoundTripper
	seq  atomic.Uint64
	ctxs sync.Map // fetch id -> context.Context
}

func (b *contextBinder) register(ctx context.Context) (id string, release func()) {
	id = strconv.FormatUint(b.seq.Add(1), 10)
	b.ctxs.Store(id, ctx)
	return id, func() { b.ctxs.Delete(id) }
}

func (b *contextBinder) RoundTrip(req *http.Request) (*http.Response, error) {
	id := req.Header.Get(fetchIDHeader)
	if id == "" {
		return b.base.RoundTrip(req)
	}
	ctx := req.Context()
	if v, ok := b.ctxs.Load(id); ok {
		ctx = v.(context.Context)
	}
	out := req.Clone(ctx)
	out.Header.Del(fetchIDHeader)
	return b.base.RoundTrip(out)
}

// CollyOption configures the CollyTransport.
type CollyOption func(*CollyTransport)

// WithCollyRoundTripper swaps the collector's HTTP transport.
func WithCollyRoundTripper(rt http.RoundTripper) CollyOption {
	return func(t *CollyTransport) {
		t.bind.base = rt
	}
}

// NewCollyTransport creates a CollyTransport. Revisits are allowed since the
// same pages are polled every cycle, and error statuses are passed through
// so the retry loop sees them.
func NewCollyTransport(userAgent string, timeout time.Duration, opts ...CollyOption) *CollyTransport {
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}

	c := colly.NewCollector(
		colly.UserAgent(userAgent),
		colly.AllowURLRevisit(),
	)
	c.ParseHTTPErrorResponse = true
	c.IgnoreRobotsTxt = true
	if timeout > 0 {
		c.SetRequestTimeout(timeout)
	}

	t := &CollyTransport{
		collector: c,
		userAgent: userAgent,
		bind:      &contextBinder{base: http.DefaultTransport},
	}
	for _, opt := range opts {
		opt(t)
	}
	c.WithTransport(t.bind)
	return t
}

// Get implements Transport. Canceling ctx aborts a request in flight.
func (t *CollyTransport) Get(ctx context.Context, url string) (*Response, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	id, release := t.bind.register(ctx)
	defer release()

	c := t.collector.Clone()
	c.UserAgent = t.userAgent
	c.AllowURLRevisit = true
	c.ParseHTTPErrorResponse = true

	var resp *Response
	c.OnRequest(func(r *colly.Request) {
		r.Headers.Set(fetchIDHeader, id)
	})
	c.OnResponse(func(r *colly.Response) {
		resp = &Response{StatusCode: r.StatusCode, Body: r.Body}
	})

	if err := c.Visit(url); err != nil {
		if resp != nil {
			return resp, nil
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, fmt.Errorf("visiting page: %w", err)
	}
	if resp == nil {
		return nil, fmt.Errorf("visiting page: no response for %s", url)
	}
	return resp, nil
}

var _ Transport = (*CollyTransport)(nil)
