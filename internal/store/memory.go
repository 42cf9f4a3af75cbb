package store

import (
	"cmp"
	"slices"
	"sync"
	"time"

	domain "github.com/donaldgifford/retail-price-tracker/pkg/types"
)

type memoryEntry struct {
	price     string
	updatedAt time.Time
}

// MemoryStore implements PriceStore in process memory. It lives for the
// process lifetime and is safe for concurrent use.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[domain.VariantKey]memoryEntry
	nowFunc func() time.Time
}

// MemoryOption configures a MemoryStore.
type MemoryOption func(*MemoryStore)

// WithNowFunc overrides the clock used to stamp updates.
func WithNowFunc(f func() time.Time) MemoryOption {
	return func(s *MemoryStore) {
		s.nowFunc = f
	}
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore(opts ...MemoryOption) *MemoryStore {
	s := &MemoryStore{
		entries: make(map[domain.VariantKey]memoryEntry),
		nowFunc: time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Get returns the last price stored for key.
func (s *MemoryStore) Get(key domain.VariantKey) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.entries[key]
	return e.price, ok
}

// Set records price for key.
func (s *MemoryStore) Set(key domain.VariantKey, price string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries[key] = memoryEntry{price: price, updatedAt: s.nowFunc()}
}

// Len returns the number of tracked variants.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.entries)
}

// Snapshot returns a copy of every entry ordered by retailer then variant.
func (s *MemoryStore) Snapshot() []domain.PriceEntry {
	s.mu.RLock()
	out := make([]domain.PriceEntry, 0, len(s.entries))
	for k, e := range s.entries {
		out = append(out, domain.PriceEntry{Key: k, Price: e.price, UpdatedAt: e.updatedAt})
	}
	s.mu.RUnlock()

	slices.SortFunc(out, func(a, b domain.PriceEntry) int {
		return cmp.Or(
			cmp.Compare(a.Key.Retailer, b.Key.Retailer),
			cmp.Compare(a.Key.Variant, b.Key.Variant),
		)
	})
	return out
}

var _ PriceStore = (*MemoryStore)(nil)
