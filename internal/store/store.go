// Package store defines the order persistence boundary. Orders live in the
// host commerce platform; this service only reads and writes them through
// the narrow OrderStore interface.
package store

import (
	"context"
	"errors"

	"github.com/example/payments-gateway/internal/models"
)

// ErrOrderNotFound is returned when no order exists for the requested
// order number.
var ErrOrderNotFound = errors.New("order not found")

// OrderStore loads and persists orders by order number.
type OrderStore interface {
	Load(ctx context.Context, orderNumber string) (*models.Order, error)
	Save(ctx context.Context, order *models.Order) error
}
