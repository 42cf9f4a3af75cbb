package handlers_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/donaldgifford/retail-price-tracker/internal/api/handlers"
	domain "github.com/donaldgifford/retail-price-tracker/pkg/types"
)

// fakeRunner implements CycleRunner for testing.
type fakeRunner struct {
	calls  int
	ctxErr error
	last   *domain.CycleReport
}

func (f *fakeRunner) RunCycle(ctx context.Context) *domain.CycleReport {
	f.calls++
	f.ctxErr = ctx.Err()
	f.last = &domain.CycleReport{
		ID:       "cycle-1",
		FirstRun: f.calls == 1,
		Results: []domain.ScanResult{{
			Retailer: "uppababy.ca",
			Lines:    []string{"uppababy.ca (gwen): $1,299.99"},
		}},
		InitialSummarySent: f.calls == 1,
	}
	return f.last
}

func (f *fakeRunner) LastReport() (*domain.CycleReport, bool) {
	return f.last, f.last != nil
}

func TestScanHandler_Scan(t *testing.T) {
	t.Parallel()

	r := &fakeRunner{}
	_, api := humatest.New(t)
	handlers.RegisterScanRoutes(api, handlers.NewScanHandler(r))

	resp := api.Post("/api/v1/scan")
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, 1, r.calls)
	assert.Contains(t, resp.Body.String(), `"id":"cycle-1"`)
	assert.Contains(t, resp.Body.String(), `"first_run":true`)
	assert.Contains(t, resp.Body.String(), `uppababy.ca (gwen): $1,299.99`)
}

func TestScanHandler_LastScan(t *testing.T) {
	t.Parallel()

	r := &fakeRunner{}
	_, api := humatest.New(t)
	handlers.RegisterScanRoutes(api, handlers.NewScanHandler(r))

	resp := api.Get("/api/v1/scan/last")
	assert.Equal(t, http.StatusNotFound, resp.Code)

	api.Post("/api/v1/scan")

	resp = api.Get("/api/v1/scan/last")
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), `"id":"cycle-1"`)
}

func TestScanHandler_ScanOutlivesRequest(t *testing.T) {
	t.Parallel()

	r := &fakeRunner{}
	h := handlers.NewScanHandler(r)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	out, err := h.Scan(ctx, nil)
	require.NoError(t, err)
	require.NotNil(t, out.Body)
	assert.Equal(t, 1, r.calls)
	assert.NoError(t, r.ctxErr, "cycle must not see the request cancellation")
}
