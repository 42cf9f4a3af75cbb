package store

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/donaldgifford/retail-price-tracker/pkg/types"
)

func TestMemoryStore_GetSet(t *testing.T) {
	t.Parallel()

	s := NewMemoryStore()
	key := domain.VariantKey{Retailer: "A", Variant: "x"}

	_, ok := s.Get(key)
	assert.False(t, ok)

	s.Set(key, "$100")
	got, ok := s.Get(key)
	require.True(t, ok)
	assert.Equal(t, "$100", got)

	s.Set(key, "$120")
	got, ok = s.Get(key)
	require.True(t, ok)
	assert.Equal(t, "$120", got)
	assert.Equal(t, 1, s.Len())
}

func TestMemoryStore_KeysAreComposite(t *testing.T) {
	t.Parallel()

	s := NewMemoryStore()
	s.Set(domain.VariantKey{Retailer: "uppababy.ca", Variant: "gwen"}, "$1,299.99")
	s.Set(domain.VariantKey{Retailer: "clement.ca", Variant: "gwen"}, "1 249,99 $")

	a, _ := s.Get(domain.VariantKey{Retailer: "uppababy.ca", Variant: "gwen"})
	b, _ := s.Get(domain.VariantKey{Retailer: "clement.ca", Variant: "gwen"})
	assert.Equal(t, "$1,299.99", a)
	assert.Equal(t, "1 249,99 $", b)
	assert.Equal(t, 2, s.Len())
}

func TestMemoryStore_Snapshot(t *testing.T) {
	t.Parallel()

	fixed := time.Date(2026, 10, 19, 8, 15, 0, 0, time.UTC)
	s := NewMemoryStore(WithNowFunc(func() time.Time { return fixed }))

	s.Set(domain.VariantKey{Retailer: "uppababy.ca", Variant: "theo"}, "$1,299.99")
	s.Set(domain.VariantKey{Retailer: "clement.ca", Variant: "kenzi"}, "1 249,99 $")
	s.Set(domain.VariantKey{Retailer: "clement.ca", Variant: "callum"}, "1 199,99 $")

	snap := s.Snapshot()
	require.Len(t, snap, 3)
	assert.Equal(t, "clement.ca_callum", snap[0].Key.String())
	assert.Equal(t, "clement.ca_kenzi", snap[1].Key.String())
	assert.Equal(t, "uppababy.ca_theo", snap[2].Key.String())
	assert.Equal(t, fixed, snap[0].UpdatedAt)

	// Mutating the snapshot must not touch the store.
	snap[0].Price = "free"
	got, _ := s.Get(domain.VariantKey{Retailer: "clement.ca", Variant: "callum"})
	assert.Equal(t, "1 199,99 $", got)
}

func TestMemoryStore_ConcurrentWrites(t *testing.T) {
	t.Parallel()

	s := NewMemoryStore()
	var wg sync.WaitGroup
	for i := range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			key := domain.VariantKey{Retailer: "A", Variant: fmt.Sprintf("v%d", i%10)}
			s.Set(key, fmt.Sprintf("$%d", i))
			_, _ = s.Get(key)
		}()
	}
	wg.Wait()

	assert.Equal(t, 10, s.Len())
}
