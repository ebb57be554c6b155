package history

import (
	"sync"
	"time"

	"knowledge-assist/internal/model"
)

// validDays are the accepted history periods; anything else coerces to 90.
var validDays = map[int]bool{30: true, 60: true, 90: true}

type cacheKey struct {
	customerID string
	days       int
}

// Engine generates and memoizes synthetic customer histories. Entries are
// computed once per (customer_id, days) and live until a global reset; the
// cache is in-memory only and does not survive restart. An RWMutex guards
// the map so concurrent request handlers may share one engine.
type Engine struct {
	mu    sync.RWMutex
	cache map[cacheKey]*model.CustomerHistory

	now func() time.Time
}

func NewEngine() *Engine {
	return &Engine{
		cache: make(map[cacheKey]*model.CustomerHistory),
		now:   time.Now,
	}
}

// GetHistory returns the cached history for (customerID, days), generating
// it on first request. Repeated calls with identical arguments return the
// identical value. days outside {30, 60, 90} coerces to 90.
func (e *Engine) GetHistory(customerID string, days int) *model.CustomerHistory {
	if !validDays[days] {
		days = 90
	}
	key := cacheKey{customerID: customerID, days: days}

	e.mu.RLock()
	cached, ok := e.cache[key]
	e.mu.RUnlock()
	if ok {
		return cached
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if cached, ok := e.cache[key]; ok {
		return cached
	}

	interactions := generate(customerID, days, e.now())
	entry := &model.CustomerHistory{
		CustomerID:   customerID,
		CustomerInfo: customerInfo(customerID),
		Interactions: interactions,
		Summary:      summarize(interactions),
	}
	e.cache[key] = entry
	return entry
}

// Reset clears the entire cache unconditionally. There is no per-key
// eviction.
func (e *Engine) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.cache = make(map[cacheKey]*model.CustomerHistory)
}

// DemoCustomers lists the static customer registry with persona
// descriptions, in catalog order.
func (e *Engine) DemoCustomers() []model.DemoCustomer {
	customers := make([]model.DemoCustomer, 0, len(demoCustomerIDs))
	for _, id := range demoCustomerIDs {
		info := demoCustomers[id]
		customers = append(customers, model.DemoCustomer{
			ID:                 id,
			Name:               info.Name,
			Email:              info.Email,
			Tier:               info.Tier,
			Persona:            info.Persona,
			PersonaDescription: personas[info.Persona].Description,
		})
	}
	return customers
}

func customerInfo(customerID string) model.CustomerInfo {
	info, ok := demoCustomers[customerID]
	if !ok {
		return model.CustomerInfo{Name: "Unknown Customer"}
	}
	return model.CustomerInfo{
		Name:       info.Name,
		Email:      info.Email,
		Tier:       info.Tier,
		Persona:    info.Persona,
		AccountAge: info.AccountAge,
	}
}
