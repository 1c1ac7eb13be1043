package ports

import (
	"context"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"
)

// PaymentVerifier asks the external payment collaborator whether a payment is
// settled. Implementations must be time-bounded; a timeout is reported as an
// error (treated as not verified), never as settled.
type PaymentVerifier interface {
	Verify(ctx context.Context, method order.PaymentMethod, reference string) (settled bool, err error)
}

// CourierDirectory answers whether a courier id belongs to an active courier
// eligible for assignment.
type CourierDirectory interface {
	IsEligible(ctx context.Context, courierID kernel.UUID) (bool, error)
}

// ProductCatalog answers whether a product exists and is sellable. Consulted
// only at order creation.
type ProductCatalog interface {
	IsSellable(ctx context.Context, productID kernel.UUID) (bool, error)
}

// EventPublisher delivers a status-change notification to the sink.
// Best-effort from the ledger's perspective: it is invoked by the outbox
// relay after commit, never inside a transition transaction.
type EventPublisher interface {
	Publish(ctx context.Context, event order.StatusChanged) error
}
