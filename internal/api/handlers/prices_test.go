package handlers_test

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/donaldgifford/retail-price-tracker/internal/api/handlers"
	"github.com/donaldgifford/retail-price-tracker/internal/store"
	domain "github.com/donaldgifford/retail-price-tracker/pkg/types"
)

func seededStore() *store.MemoryStore {
	now := time.Date(2026, time.March, 14, 8, 0, 0, 0, time.UTC)
	s := store.NewMemoryStore(store.WithNowFunc(func() time.Time { return now }))
	s.Set(domain.VariantKey{Retailer: "uppababy.ca", Variant: "gwen"}, "$1,299.99")
	s.Set(domain.VariantKey{Retailer: "clement.ca", Variant: "gwen"}, "949,99 $")
	s.Set(domain.VariantKey{Retailer: "clement.ca", Variant: "theo"}, "999,99 $")
	return s
}

func TestListPrices(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		path      string
		wantCount int
		wantFirst string
	}{
		{name: "all retailers", path: "/api/v1/prices", wantCount: 3, wantFirst: "clement.ca"},
		{name: "filtered by retailer", path: "/api/v1/prices?retailer=uppababy.ca", wantCount: 1, wantFirst: "uppababy.ca"},
		{name: "unknown retailer", path: "/api/v1/prices?retailer=babiesrus.ca", wantCount: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, api := humatest.New(t)
			handlers.RegisterPriceRoutes(api, handlers.NewPricesHandler(seededStore()))

			resp := api.Get(tt.path)
			require.Equal(t, http.StatusOK, resp.Code)

			var body struct {
				Count  int                 `json:"count"`
				Prices []domain.PriceEntry `json:"prices"`
			}
			require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
			assert.Equal(t, tt.wantCount, body.Count)
			require.Len(t, body.Prices, tt.wantCount)
			if tt.wantCount > 0 {
				assert.Equal(t, tt.wantFirst, body.Prices[0].Key.Retailer)
			}
		})
	}
}

func TestListPrices_EmptyStore(t *testing.T) {
	t.Parallel()

	_, api := humatest.New(t)
	handlers.RegisterPriceRoutes(api, handlers.NewPricesHandler(store.NewMemoryStore()))

	resp := api.Get("/api/v1/prices")
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), `"prices":[]`)
	assert.Contains(t, resp.Body.String(), `"count":0`)
}
