// Package domain defines the core types shared by the price watcher: retailers,
// variant keys, scan results and price store entries.
package domain

import (
	"fmt"
	"strings"
	"time"
)

// UnknownPrice is the placeholder written into a scan result when a variant's
// price could not be resolved.
const UnknownPrice = "Unknown"

// Retailer is a configured source site and the ordered variants tracked on it.
type Retailer struct {
	Name     string   `json:"name"`
	BaseURL  string   `json:"base_url"`
	Variants []string `json:"variants"`
}

// VariantKey identifies a variant in the price store. Variant holds the
// normalized identifier, never the raw one used to build the page URL.
type VariantKey struct {
	Retailer string `json:"retailer"`
	Variant  string `json:"variant"`
}

// String returns the flat "retailer_variant" form used in logs and metrics.
func (k VariantKey) String() string {
	return k.Retailer + "_" + k.Variant
}

// Label returns the human form "retailer (variant)" used in notifications.
func (k VariantKey) Label() string {
	return fmt.Sprintf("%s (%s)", k.Retailer, k.Variant)
}

// PriceLine formats a resolved scan line.
func PriceLine(k VariantKey, price string) string {
	return k.Label() + ": " + price
}

// UnknownLine formats the scan line for a variant whose price is unknown. It
// uses the raw variant identifier since normalization never happened.
func UnknownLine(rawVariant string) string {
	return rawVariant + ": " + UnknownPrice
}

// ScanResult holds the ordered per-variant lines produced by one retailer scan.
type ScanResult struct {
	Retailer string   `json:"retailer"`
	Lines    []string `json:"lines"`
	Unknown  int      `json:"unknown"`
	Changes  int      `json:"changes"`
}

// PriceEntry is a point-in-time view of one price store record.
type PriceEntry struct {
	Key       VariantKey `json:"key"`
	Price     string     `json:"price"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// CycleReport summarizes one full scan cycle across all retailers.
type CycleReport struct {
	ID                 string        `json:"id"`
	FirstRun           bool          `json:"first_run"`
	StartedAt          time.Time     `json:"started_at"`
	Duration           time.Duration `json:"duration"`
	Results            []ScanResult  `json:"results"`
	InitialSummarySent bool          `json:"initial_summary_sent"`
	DailySummarySent   bool          `json:"daily_summary_sent"`
	Canceled           bool          `json:"canceled,omitempty"`
}

// Lines concatenates every retailer's lines in scan order.
func (r *CycleReport) Lines() []string {
	var lines []string
	for i := range r.Results {
		lines = append(lines, r.Results[i].Lines...)
	}
	return lines
}

// Summary renders a titled multi-line summary message.
func Summary(title string, lines []string) string {
	return title + ":\n" + strings.Join(lines, "\n")
}

// VariantTarget is a resolved variant: its raw identifier, normalized key and
// the page URL fetched for it.
type VariantTarget struct {
	Variant string `json:"variant"`
	Key     string `json:"key"`
	URL     string `json:"url"`
}

// RetailerTargets lists the resolved variant pages of one retailer.
type RetailerTargets struct {
	Name     string          `json:"name"`
	BaseURL  string          `json:"base_url"`
	Variants []VariantTarget `json:"variants"`
}
