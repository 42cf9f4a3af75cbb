package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/donaldgifford/retail-price-tracker/pkg/types"
)

func TestClient_ConnectionRefused(t *testing.T) {
	t.Parallel()

	c := New("http://127.0.0.1:1") // nothing listening
	_, err := c.ListPrices(context.Background(), "")
	require.ErrorIs(t, err, ErrServerDown)
	assert.Contains(t, err.Error(), "API server not running at http://127.0.0.1:1")
}

func TestClient_HTTPError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"internal"}`))
	}))
	defer srv.Close()

	c := New(srv.URL)
	_, err := c.ListPrices(context.Background(), "")
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusInternalServerError, apiErr.StatusCode)
	assert.Contains(t, err.Error(), "API error (HTTP 500)")
}

func TestClient_ListPrices(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		retailer  string
		wantQuery string
	}{
		{name: "all", retailer: "", wantQuery: ""},
		{name: "filtered", retailer: "clement.ca", wantQuery: "retailer=clement.ca"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/api/v1/prices", r.URL.Path)
				assert.Equal(t, tt.wantQuery, r.URL.RawQuery)
				w.Header().Set("Content-Type", "application/json")
				_ = json.NewEncoder(w).Encode(PriceList{
					Count: 1,
					Prices: []domain.PriceEntry{{
						Key:   domain.VariantKey{Retailer: "clement.ca", Variant: "gwen"},
						Price: "949,99 $",
					}},
				})
			}))
			defer srv.Close()

			got, err := New(srv.URL + "/").ListPrices(context.Background(), tt.retailer)
			require.NoError(t, err)
			assert.Equal(t, 1, got.Count)
			assert.Equal(t, "949,99 $", got.Prices[0].Price)
		})
	}
}

func TestClient_ListRetailers(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/retailers", r.URL.Path)
		_, _ = w.Write([]byte(`{"retailers":[{"name":"uppababy.ca","base_url":"https://uppababy.ca/x","variants":[{"variant":"gwen","key":"gwen","url":"https://uppababy.ca/x/gwen/"}]}]}`))
	}))
	defer srv.Close()

	got, err := New(srv.URL).ListRetailers(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "https://uppababy.ca/x/gwen/", got[0].Variants[0].URL)
}

func TestClient_TriggerScan(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/v1/scan", r.URL.Path)
		_ = json.NewEncoder(w).Encode(domain.CycleReport{
			ID:      "cycle-9",
			Results: []domain.ScanResult{{Retailer: "uppababy.ca", Lines: []string{"gwen: Unknown"}, Unknown: 1}},
		})
	}))
	defer srv.Close()

	got, err := New(srv.URL).TriggerScan(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "cycle-9", got.ID)
	assert.Equal(t, []string{"gwen: Unknown"}, got.Lines())
}

func TestClient_LastScan_NotFound(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"detail":"no scan cycle has completed yet"}`))
	}))
	defer srv.Close()

	_, err := New(srv.URL).LastScan(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "HTTP 404")
}
