package client

import (
	"context"
	"net/url"

	domain "github.com/donaldgifford/retail-price-tracker/pkg/types"
)

// PriceList is the response of GET /api/v1/prices.
type PriceList struct {
	Count  int                 `json:"count"`
	Prices []domain.PriceEntry `json:"prices"`
}

// ListPrices returns tracked prices, optionally limited to one retailer.
func (c *Client) ListPrices(ctx context.Context, retailer string) (*PriceList, error) {
	path := "/api/v1/prices"
	if retailer != "" {
		path += "?" + url.Values{"retailer": {retailer}}.Encode()
	}

	var out PriceList
	if err := c.get(ctx, path, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListRetailers returns configured retailers with resolved variant URLs.
func (c *Client) ListRetailers(ctx context.Context) ([]domain.RetailerTargets, error) {
	var out struct {
		Retailers []domain.RetailerTargets `json:"retailers"`
	}
	if err := c.get(ctx, "/api/v1/retailers", &out); err != nil {
		return nil, err
	}
	return out.Retailers, nil
}
