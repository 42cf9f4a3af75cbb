package engine

import (
	"fmt"

	"github.com/donaldgifford/retail-price-tracker/internal/store"
	domain "github.com/donaldgifford/retail-price-tracker/pkg/types"
)

// Decision is the outcome of evaluating one freshly extracted price.
type Decision struct {
	// Updated reports whether the store was written.
	Updated bool
	// Notify holds the message to send, empty when nothing changed.
	Notify string
	// Previous is the stored price before evaluation.
	Previous    string
	HadPrevious bool
}

// ChangeDetector compares fresh prices against the price store and decides
// which notification, if any, a price warrants.
type ChangeDetector struct {
	store store.PriceStore
}

// NewChangeDetector creates a ChangeDetector over s.
func NewChangeDetector(s store.PriceStore) *ChangeDetector {
	return &ChangeDetector{store: s}
}

// Evaluate records price for key and returns the resulting decision. Every
// observed price is stored, which seeds the store on the first run and on
// variants first seen later. Only a previously known price that differs by
// exact string comparison produces a notification.
func (d *ChangeDetector) Evaluate(key domain.VariantKey, url, price string, firstRun bool) Decision {
	previous, ok := d.store.Get(key)
	d.store.Set(key, price)

	dec := Decision{Updated: true, Previous: previous, HadPrevious: ok}
	if !ok || previous == price {
		return dec
	}

	if firstRun {
		dec.Notify = domain.PriceLine(key, price)
	} else {
		dec.Notify = ChangeMessage(key, previous, price, url)
	}
	return dec
}

// ChangeMessage formats the notification for a price change.
func ChangeMessage(key domain.VariantKey, previous, price, url string) string {
	return fmt.Sprintf("Price changed for %s: %s -> %s\n%s", key.Label(), previous, price, url)
}
