package handlers

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	domain "github.com/donaldgifford/retail-price-tracker/pkg/types"
)

// CycleRunner runs scan cycles on demand.
type CycleRunner interface {
	RunCycle(ctx context.Context) *domain.CycleReport
	LastReport() (*domain.CycleReport, bool)
}

// ScanHandler handles manual scan trigger requests.
type ScanHandler struct {
	runner CycleRunner
}

// NewScanHandler creates a new ScanHandler.
func NewScanHandler(r CycleRunner) *ScanHandler {
	return &ScanHandler{runner: r}
}

// ScanOutput is the response body for the scan endpoints.
type ScanOutput struct {
	Body *domain.CycleReport
}

// Scan runs one full scan cycle and returns its report. It waits for any
// cycle already in progress. The cycle is detached from the request so a
// client that disconnects or times out does not cut it short.
func (h *ScanHandler) Scan(ctx context.Context, _ *struct{}) (*ScanOutput, error) {
	return &ScanOutput{Body: h.runner.RunCycle(context.WithoutCancel(ctx))}, nil
}

// LastScan returns the report of the most recent cycle.
func (h *ScanHandler) LastScan(_ context.Context, _ *struct{}) (*ScanOutput, error) {
	r, ok := h.runner.LastReport()
	if !ok {
		return nil, huma.Error404NotFound("no scan cycle has completed yet")
	}
	return &ScanOutput{Body: r}, nil
}

// RegisterScanRoutes registers the scan endpoints with the Huma API.
func RegisterScanRoutes(api huma.API, h *ScanHandler) {
	huma.Register(api, huma.Operation{
		OperationID: "trigger-scan",
		Method:      http.MethodPost,
		Path:        "/api/v1/scan",
		Summary:     "Trigger a scan cycle",
		Description: "Runs one scan cycle across all retailers, sending any change " +
			"notifications and summaries that are due.",
		Tags: []string{"scan"},
	}, h.Scan)

	huma.Register(api, huma.Operation{
		OperationID: "last-scan",
		Method:      http.MethodGet,
		Path:        "/api/v1/scan/last",
		Summary:     "Get last scan report",
		Description: "Returns the report of the most recently completed scan cycle.",
		Tags:        []string{"scan"},
		Errors:      []int{http.StatusNotFound},
	}, h.LastScan)
}
