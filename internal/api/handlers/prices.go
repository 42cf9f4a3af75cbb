package handlers

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	domain "github.com/donaldgifford/retail-price-tracker/pkg/types"
)

// PriceLister exposes a point-in-time copy of the price store.
type PriceLister interface {
	Snapshot() []domain.PriceEntry
}

// PricesHandler handles GET /api/v1/prices.
type PricesHandler struct {
	store PriceLister
}

// NewPricesHandler creates a PricesHandler.
func NewPricesHandler(s PriceLister) *PricesHandler {
	return &PricesHandler{store: s}
}

// ListPricesInput filters the price listing.
type ListPricesInput struct {
	Retailer string `query:"retailer" doc:"Only return prices for this retailer" example:"uppababy.ca"`
}

// ListPricesOutput is the response for GET /api/v1/prices.
type ListPricesOutput struct {
	Body struct {
		Count  int                 `json:"count" doc:"Number of prices returned"`
		Prices []domain.PriceEntry `json:"prices" doc:"Last observed price per variant"`
	}
}

// ListPrices returns the last observed price of every tracked variant.
func (h *PricesHandler) ListPrices(_ context.Context, in *ListPricesInput) (*ListPricesOutput, error) {
	entries := h.store.Snapshot()

	resp := &ListPricesOutput{}
	resp.Body.Prices = make([]domain.PriceEntry, 0, len(entries))
	for _, e := range entries {
		if in.Retailer != "" && e.Key.Retailer != in.Retailer {
			continue
		}
		resp.Body.Prices = append(resp.Body.Prices, e)
	}
	resp.Body.Count = len(resp.Body.Prices)
	return resp, nil
}

// RegisterPriceRoutes registers the price routes on the Huma API.
func RegisterPriceRoutes(api huma.API, h *PricesHandler) {
	huma.Register(api, huma.Operation{
		OperationID: "list-prices",
		Method:      http.MethodGet,
		Path:        "/api/v1/prices",
		Summary:     "List tracked prices",
		Description: "Returns the last observed price for every variant seen since startup.",
		Tags:        []string{"prices"},
	}, h.ListPrices)
}
