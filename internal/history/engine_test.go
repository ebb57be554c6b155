package history

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEngine() *Engine {
	e := NewEngine()
	e.now = func() time.Time { return testNow }
	return e
}

func TestGetHistoryCachesResult(t *testing.T) {
	e := newTestEngine()

	first := e.GetHistory("CUST-12345", 90)
	second := e.GetHistory("CUST-12345", 90)
	assert.Same(t, first, second, "repeated calls must return the cached entry")
	assert.Equal(t, "CUST-12345", first.CustomerID)
	assert.Equal(t, "Sarah Johnson", first.CustomerInfo.Name)
	assert.NotEmpty(t, first.Interactions)
	assert.Equal(t, len(first.Interactions), first.Summary.TotalInteractions)
}

func TestGetHistoryCoercesInvalidDays(t *testing.T) {
	e := newTestEngine()

	ninety := e.GetHistory("CUST-67890", 90)
	for _, days := range []int{0, -5, 45, 365} {
		assert.Same(t, ninety, e.GetHistory("CUST-67890", days), "days=%d", days)
	}

	thirty := e.GetHistory("CUST-67890", 30)
	assert.NotSame(t, ninety, thirty)
}

func TestGetHistoryUnknownCustomer(t *testing.T) {
	e := newTestEngine()

	history := e.GetHistory("CUST-00000", 30)
	assert.Equal(t, "Unknown Customer", history.CustomerInfo.Name)
	assert.Empty(t, history.CustomerInfo.Persona)
	assert.NotEmpty(t, history.Interactions)
}

func TestResetClearsCache(t *testing.T) {
	e := newTestEngine()

	before := e.GetHistory("CUST-12345", 90)
	e.Reset()
	after := e.GetHistory("CUST-12345", 90)

	assert.NotSame(t, before, after)
	// same seed and anchor, so regenerated content matches
	assert.Equal(t, before.Interactions, after.Interactions)
}

func TestGetHistoryConcurrentAccess(t *testing.T) {
	e := newTestEngine()

	var wg sync.WaitGroup
	entries := make(chan interface{}, 32)
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			entries <- e.GetHistory("CUST-22222", 60)
		}()
	}
	wg.Wait()
	close(entries)

	var first interface{}
	for entry := range entries {
		if first == nil {
			first = entry
			continue
		}
		assert.Same(t, first, entry)
	}
}

func TestDemoCustomers(t *testing.T) {
	e := newTestEngine()

	customers := e.DemoCustomers()
	require.Len(t, customers, 5)
	assert.Equal(t, "CUST-12345", customers[0].ID)
	assert.Equal(t, "CUST-33333", customers[4].ID)
	for _, c := range customers {
		assert.NotEmpty(t, c.Name)
		assert.NotEmpty(t, c.Email)
		assert.NotEmpty(t, c.Tier)
		assert.NotEmpty(t, c.Persona)
		assert.NotEmpty(t, c.PersonaDescription)
		assert.Equal(t, personas[c.Persona].Description, c.PersonaDescription)
	}
}
