package client

import (
	"context"

	domain "github.com/donaldgifford/retail-price-tracker/pkg/types"
)

// TriggerScan runs one scan cycle on the server and returns its report.
func (c *Client) TriggerScan(ctx context.Context) (*domain.CycleReport, error) {
	var out domain.CycleReport
	if err := c.post(ctx, "/api/v1/scan", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// LastScan returns the report of the most recent cycle.
func (c *Client) LastScan(ctx context.Context) (*domain.CycleReport, error) {
	var out domain.CycleReport
	if err := c.get(ctx, "/api/v1/scan/last", &out); err != nil {
		return nil, err
	}
	return &out, nil
}
