// Package ports defines the contracts between the fulfillment core and its
// infrastructure: persistence, transactions, and the external collaborators
// the ledger consults during transitions.
package ports

import (
	"context"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"
)

// OrderRepository is the persistence contract for order aggregates.
type OrderRepository interface {
	// Add persists a new order aggregate.
	Add(ctx context.Context, aggregate *order.Order) error

	// Update persists a transitioned order with compare-and-set semantics:
	// the write applies only if the stored status still equals expectedStatus.
	// A lost race returns errs.ErrConcurrencyConflict and writes nothing, so
	// two concurrent transitions on the same order can never both succeed.
	Update(ctx context.Context, aggregate *order.Order, expectedStatus order.Status) error

	// Get retrieves an order by id, or errs.ErrObjectNotFound.
	Get(ctx context.Context, id kernel.UUID) (*order.Order, error)

	// GetAllUnassigned retrieves payment-confirmed orders with no courier,
	// the pool couriers self-claim from.
	GetAllUnassigned(ctx context.Context) ([]*order.Order, error)
}
