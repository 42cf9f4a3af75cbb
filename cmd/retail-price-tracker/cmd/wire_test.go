package cmd

import (
	"bytes"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/donaldgifford/retail-price-tracker/internal/config"
	"github.com/donaldgifford/retail-price-tracker/internal/fetch"
	"github.com/donaldgifford/retail-price-tracker/pkg/logger"
	domain "github.com/donaldgifford/retail-price-tracker/pkg/types"
)

func TestNewRegistry(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		retailers []config.RetailerConfig
		wantErr   string
		want      []string
	}{
		{
			name:      "built-in retailers",
			retailers: config.DefaultRetailers(),
			want:      []string{"clement.ca", "uppababy.ca"},
		},
		{
			name: "unknown scheme",
			retailers: []config.RetailerConfig{
				{Name: "shop", BaseURL: "https://shop.example/p", Scheme: "query", PriceSelector: "p", Variants: []string{"a"}},
			},
			wantErr: "retailer shop",
		},
		{
			name: "duplicate retailer",
			retailers: []config.RetailerConfig{
				{Name: "shop", BaseURL: "https://shop.example/p", Scheme: "path", PriceSelector: "p", Variants: []string{"a"}},
				{Name: "shop", BaseURL: "https://shop.example/q", Scheme: "slug", PriceSelector: "p", Variants: []string{"b"}},
			},
			wantErr: "shop",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			reg, err := newRegistry(tt.retailers)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.ElementsMatch(t, tt.want, reg.Retailers())
		})
	}
}

func TestNewTransport(t *testing.T) {
	t.Parallel()

	_, isColly := newTransport(&config.FetchConfig{Transport: "colly"}).(*fetch.CollyTransport)
	assert.True(t, isColly)

	_, isHTTP := newTransport(&config.FetchConfig{Transport: "http"}).(*fetch.HTTPTransport)
	assert.True(t, isHTTP)
}

func TestBuildApp(t *testing.T) {
	t.Parallel()

	cfg := &config.Config{
		Fetch:     config.FetchConfig{Transport: "http", MaxAttempts: 1, Concurrency: 2},
		Notifier:  config.NotifierConfig{Backend: "noop"},
		Retailers: config.DefaultRetailers(),
	}

	a, err := buildApp(cfg, logger.Discard())
	require.NoError(t, err)

	assert.Len(t, a.retailers, 2)
	assert.False(t, a.watcher.Ready())

	targets := a.targets()
	require.Len(t, targets, 2)
	assert.Len(t, targets[0].Variants, len(cfg.Retailers[0].Variants))
}

func TestWriteTargets(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	err := writeTargets(&buf, []domain.RetailerTargets{
		{
			Name: "shop",
			Variants: []domain.VariantTarget{
				{Variant: "red-1", Key: "red", URL: "https://shop.example/p-red-1.html"},
			},
		},
	})
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "RETAILER")
	assert.Contains(t, out, "https://shop.example/p-red-1.html")
}

func TestWriteReport(t *testing.T) {
	t.Parallel()

	report := &domain.CycleReport{
		ID: "cycle-1",
		Results: []domain.ScanResult{
			{Retailer: "a", Lines: []string{"gwen: $1,199.99"}},
			{Retailer: "b", Lines: []string{"theo: Unknown"}},
		},
	}

	var lines bytes.Buffer
	require.NoError(t, writeReportLines(&lines, report))
	assert.Equal(t, "gwen: $1,199.99\ntheo: Unknown\n", lines.String())

	var js bytes.Buffer
	require.NoError(t, writeReportJSON(&js, report))
	assert.Contains(t, js.String(), `"id": "cycle-1"`)
}

func TestVersionCommand(t *testing.T) {
	var out bytes.Buffer
	c := versionCommand()
	c.SetOut(&out)
	c.Run(c, nil)

	assert.True(t, strings.HasPrefix(out.String(), "retail-price-tracker "+Version))
	assert.Contains(t, out.String(), runtime.Version())
}
