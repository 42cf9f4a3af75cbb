package extract

import (
	"errors"
	"fmt"
	"slices"
	"sync"

	domain "github.com/donaldgifford/retail-price-tracker/pkg/types"
)

// ErrDuplicateRetailer is returned when a retailer is registered twice.
var ErrDuplicateRetailer = errors.New("retailer already registered")

// Registry maps retailer identifiers to their Extractor. Adding a retailer
// never requires touching the scan engine.
type Registry struct {
	mu         sync.RWMutex
	extractors map[string]Extractor
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{extractors: make(map[string]Extractor)}
}

// Register binds ex to retailer.
func (r *Registry) Register(retailer string, ex Extractor) error {
	if retailer == "" {
		return errors.New("retailer identifier is required")
	}
	if ex == nil {
		return fmt.Errorf("nil extractor for %s", retailer)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.extractors[retailer]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateRetailer, retailer)
	}
	r.extractors[retailer] = ex
	return nil
}

// Lookup returns the extractor bound to retailer.
func (r *Registry) Lookup(retailer string) (Extractor, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ex, ok := r.extractors[retailer]
	return ex, ok
}

// Retailers returns the registered identifiers in sorted order.
func (r *Registry) Retailers() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.extractors))
	for name := range r.extractors {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Targets resolves every variant of retailers to its key and page URL.
// Retailers without a registered extractor are listed with no variants.
func (r *Registry) Targets(retailers []domain.Retailer) []domain.RetailerTargets {
	out := make([]domain.RetailerTargets, 0, len(retailers))
	for _, rt := range retailers {
		t := domain.RetailerTargets{Name: rt.Name, BaseURL: rt.BaseURL, Variants: []domain.VariantTarget{}}
		if ex, ok := r.Lookup(rt.Name); ok {
			for _, v := range rt.Variants {
				t.Variants = append(t.Variants, domain.VariantTarget{
					Variant: v,
					Key:     ex.VariantKey(v),
					URL:     ex.VariantURL(rt.BaseURL, v),
				})
			}
		}
		out = append(out, t)
	}
	return out
}
