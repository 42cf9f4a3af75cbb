// Package store holds the last observed price per variant. Business logic
// depends on the PriceStore interface, never on the concrete implementation.
package store

import (
	domain "github.com/donaldgifford/retail-price-tracker/pkg/types"
)

// PriceStore maps a variant key to its last observed price text. Entries are
// only ever added or overwritten, never removed.
type PriceStore interface {
	Get(key domain.VariantKey) (string, bool)
	Set(key domain.VariantKey, price string)
	Len() int
	Snapshot() []domain.PriceEntry
}
