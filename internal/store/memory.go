package store

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/example/payments-gateway/internal/models"
)

// Memory is an in-memory OrderStore used in development and tests. Orders
// are copied on load and save so callers never share mutable state with the
// store.
type Memory struct {
	mu     sync.RWMutex
	orders map[string]models.Order
}

// NewMemory constructs an empty in-memory order store.
func NewMemory() *Memory {
	return &Memory{orders: make(map[string]models.Order)}
}

// Seed inserts an order, overwriting any existing record with the same
// number.
func (m *Memory) Seed(order models.Order) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.orders[order.Number] = order
}

// Load implements OrderStore.
func (m *Memory) Load(_ context.Context, orderNumber string) (*models.Order, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	order, ok := m.orders[orderNumber]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrOrderNotFound, orderNumber)
	}
	copied := order
	return &copied, nil
}

// Save implements OrderStore.
func (m *Memory) Save(_ context.Context, order *models.Order) error {
	if order == nil {
		return fmt.Errorf("memory store: order is nil")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	copied := *order
	copied.UpdatedAt = time.Now().UTC()
	m.orders[order.Number] = copied
	return nil
}
