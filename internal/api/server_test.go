package api_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/donaldgifford/retail-price-tracker/internal/api"
	"github.com/donaldgifford/retail-price-tracker/internal/api/handlers"
	"github.com/donaldgifford/retail-price-tracker/internal/store"
	"github.com/donaldgifford/retail-price-tracker/pkg/logger"
	domain "github.com/donaldgifford/retail-price-tracker/pkg/types"
)

type stubRunner struct {
	ready atomic.Bool
	last  atomic.Pointer[domain.CycleReport]
}

func (s *stubRunner) RunCycle(_ context.Context) *domain.CycleReport {
	r := &domain.CycleReport{ID: "c-1", FirstRun: !s.ready.Load()}
	s.last.Store(r)
	s.ready.Store(true)
	return r
}

func (s *stubRunner) LastReport() (*domain.CycleReport, bool) {
	r := s.last.Load()
	return r, r != nil
}

func (s *stubRunner) Ready() bool { return s.ready.Load() }

func newTestServer(t *testing.T) (*httptest.Server, *stubRunner) {
	t.Helper()

	runner := &stubRunner{}
	prices := store.NewMemoryStore()
	prices.Set(domain.VariantKey{Retailer: "uppababy.ca", Variant: "gwen"}, "$1,299.99")

	srv := api.New(api.Settings{Addr: "127.0.0.1:0", Version: "test"}, api.Deps{
		Runner:    runner,
		Readiness: runner,
		Prices:    prices,
		Targets: handlers.TargetFunc(func() []domain.RetailerTargets {
			return []domain.RetailerTargets{{Name: "uppababy.ca", Variants: []domain.VariantTarget{}}}
		}),
	}, logger.Discard())

	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts, runner
}

func get(t *testing.T, url string) (int, string) {
	t.Helper()
	resp, err := http.Get(url) //nolint:noctx // test helper
	require.NoError(t, err)
	defer resp.Body.Close()
	var sb strings.Builder
	_, err = io.Copy(&sb, resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, sb.String()
}

func TestServer_Routes(t *testing.T) {
	t.Parallel()

	ts, _ := newTestServer(t)

	code, body := get(t, ts.URL+"/healthz")
	assert.Equal(t, http.StatusOK, code)
	assert.JSONEq(t, `{"status":"ok"}`, body)

	code, _ = get(t, ts.URL+"/readyz")
	assert.Equal(t, http.StatusServiceUnavailable, code)

	code, body = get(t, ts.URL+"/api/v1/prices")
	assert.Equal(t, http.StatusOK, code)
	assert.Contains(t, body, `"price":"$1,299.99"`)

	code, body = get(t, ts.URL+"/api/v1/retailers")
	assert.Equal(t, http.StatusOK, code)
	assert.Contains(t, body, `"name":"uppababy.ca"`)

	code, body = get(t, ts.URL+"/metrics")
	assert.Equal(t, http.StatusOK, code)
	assert.Contains(t, body, "rpt_scan_cycles_total")

	code, _ = get(t, ts.URL+"/openapi.json")
	assert.Equal(t, http.StatusOK, code)
}

func TestServer_ScanMakesReady(t *testing.T) {
	t.Parallel()

	ts, runner := newTestServer(t)

	resp, err := http.Post(ts.URL+"/api/v1/scan", "application/json", http.NoBody) //nolint:noctx // test
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var report domain.CycleReport
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&report))
	assert.Equal(t, "c-1", report.ID)
	assert.True(t, report.FirstRun)
	assert.True(t, runner.Ready())

	code, _ := get(t, ts.URL+"/readyz")
	assert.Equal(t, http.StatusOK, code)

	code, body := get(t, ts.URL+"/api/v1/scan/last")
	assert.Equal(t, http.StatusOK, code)
	assert.Contains(t, body, `"id":"c-1"`)
}

func TestServer_RequestIDHeader(t *testing.T) {
	t.Parallel()

	ts, _ := newTestServer(t)

	req, err := http.NewRequestWithContext(context.Background(), http.MethodGet, ts.URL+"/healthz", http.NoBody)
	require.NoError(t, err)
	req.Header.Set("X-Request-ID", "trace-me")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, "trace-me", resp.Header.Get("X-Request-ID"))
}
