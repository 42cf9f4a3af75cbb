// Package handlers implements the retail-price-tracker HTTP API.
//
// The probes are plain Echo handlers and stay out of the OpenAPI document.
// Everything under /api/v1 is registered through Huma:
//
//	GET  /api/v1/prices[?retailer=]
//	GET  /api/v1/retailers
//	POST /api/v1/scan
//	GET  /api/v1/scan/last
package handlers

// ProbeResponse is the body of /healthz and /readyz.
type ProbeResponse struct {
	Status string `json:"status" example:"ready"`
}
