package engine

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/donaldgifford/retail-price-tracker/internal/store"
	"github.com/donaldgifford/retail-price-tracker/pkg/extract"
	domain "github.com/donaldgifford/retail-price-tracker/pkg/types"
)

const (
	uppababyBase = "https://uppababy.ca/strollers/full-size/vista-v3-stroller"
	clementBase  = "https://www.clement.ca/en/stroller-vista-v3"
)

var errUnreachable = errors.New("retries exhausted")

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func uppababy(variants ...string) domain.Retailer {
	return domain.Retailer{Name: "uppababy.ca", BaseURL: uppababyBase, Variants: variants}
}

func clement(variants ...string) domain.Retailer {
	return domain.Retailer{Name: "clement.ca", BaseURL: clementBase, Variants: variants}
}

func uppababyURL(variant string) string {
	return uppababyBase + "/" + variant + "/"
}

func clementURL(variant string) string {
	return clementBase + "-" + variant + ".html"
}

func bdiPage(price string) string {
	return fmt.Sprintf(`<html><body><div class="summary"><p class="price"><bdi>%s</bdi></p></div><bdi>$0.00</bdi></body></html>`, price)
}

func spanPricePage(price string) string {
	return fmt.Sprintf(`<html><body><div class="product-info"><span class="price">%s</span></div></body></html>`, price)
}

func testRegistry(t *testing.T) *extract.Registry {
	t.Helper()
	reg := extract.NewRegistry()

	path, err := extract.New(extract.SchemePath, "bdi")
	require.NoError(t, err)
	require.NoError(t, reg.Register("uppababy.ca", path))

	slug, err := extract.New(extract.SchemeSlug, "span.price")
	require.NoError(t, err)
	require.NoError(t, reg.Register("clement.ca", slug))

	return reg
}

// pageFetcher serves canned pages by URL. URLs without a page fail, and
// so does every fetch once ctx is done.
type pageFetcher struct {
	mu    sync.Mutex
	pages map[string]string
	calls []string
}

func newPageFetcher() *pageFetcher {
	return &pageFetcher{pages: make(map[string]string)}
}

func (f *pageFetcher) set(url, body string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pages[url] = body
}

func (f *pageFetcher) remove(url string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.pages, url)
}

func (f *pageFetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, url)
	body, ok := f.pages[url]
	if !ok {
		return nil, fmt.Errorf("%w: %s", errUnreachable, url)
	}
	return []byte(body), nil
}

// recordingNotifier captures every message it is asked to send.
type recordingNotifier struct {
	mu   sync.Mutex
	msgs []string
	err  error
}

func (n *recordingNotifier) Notify(_ context.Context, text string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.msgs = append(n.msgs, text)
	return n.err
}

func (n *recordingNotifier) messages() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.msgs...)
}

func (n *recordingNotifier) reset() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.msgs = nil
}

func newTestScanner(t *testing.T, f Fetcher, n *recordingNotifier, opts ...ScannerOption) (*Scanner, *store.MemoryStore) {
	t.Helper()
	s := store.NewMemoryStore()
	opts = append([]ScannerOption{WithScannerLogger(quietLogger())}, opts...)
	return NewScanner(f, testRegistry(t), s, n, opts...), s
}
