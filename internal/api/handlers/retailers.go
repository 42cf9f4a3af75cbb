package handlers

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	domain "github.com/donaldgifford/retail-price-tracker/pkg/types"
)

// TargetResolver lists configured retailers with their resolved variant pages.
type TargetResolver interface {
	Targets() []domain.RetailerTargets
}

// TargetFunc adapts a function to TargetResolver.
type TargetFunc func() []domain.RetailerTargets

// Targets implements TargetResolver.
func (f TargetFunc) Targets() []domain.RetailerTargets {
	return f()
}

// RetailersHandler handles GET /api/v1/retailers.
type RetailersHandler struct {
	resolver TargetResolver
}

// NewRetailersHandler creates a RetailersHandler.
func NewRetailersHandler(r TargetResolver) *RetailersHandler {
	return &RetailersHandler{resolver: r}
}

// ListRetailersOutput is the response for GET /api/v1/retailers.
type ListRetailersOutput struct {
	Body struct {
		Retailers []domain.RetailerTargets `json:"retailers"`
	}
}

// ListRetailers returns every retailer with its variant URLs.
func (h *RetailersHandler) ListRetailers(_ context.Context, _ *struct{}) (*ListRetailersOutput, error) {
	resp := &ListRetailersOutput{}
	resp.Body.Retailers = h.resolver.Targets()
	return resp, nil
}

// RegisterRetailerRoutes registers the retailer routes on the Huma API.
func RegisterRetailerRoutes(api huma.API, h *RetailersHandler) {
	huma.Register(api, huma.Operation{
		OperationID: "list-retailers",
		Method:      http.MethodGet,
		Path:        "/api/v1/retailers",
		Summary:     "List retailers",
		Description: "Returns configured retailers and the page URL fetched for each variant.",
		Tags:        []string{"retailers"},
	}, h.ListRetailers)
}
