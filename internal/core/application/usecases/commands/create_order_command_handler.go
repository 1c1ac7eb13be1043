package commands

import (
	"context"
	"fmt"
	"time"

	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/core/ports"
)

// CreateOrderCommandHandler creates orders in pending status. Every product
// referenced by a line item is resolved against the catalog collaborator at
// call time; an unknown or inactive product fails the whole checkout.
type CreateOrderCommandHandler struct {
	uowFactory OrderUoWFactory
	catalog    ports.ProductCatalog
}

// NewCreateOrderCommandHandler creates a handler for order creation.
func NewCreateOrderCommandHandler(uowFactory OrderUoWFactory, catalog ports.ProductCatalog) CreateOrderCommandHandler {
	return CreateOrderCommandHandler{
		uowFactory: uowFactory,
		catalog:    catalog,
	}
}

// Handle validates the line items against the catalog, creates the order with
// its total computed and frozen, and stages the creation event.
func (h CreateOrderCommandHandler) Handle(ctx context.Context, cmd CreateOrderCommand) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	if cmd.Actor().Role() != order.RoleBuyer {
		return nil, fmt.Errorf("%w: only buyers may create orders", order.ErrForbidden)
	}

	for _, item := range cmd.LineItems() {
		sellable, err := h.catalog.IsSellable(ctx, item.ProductID())
		if err != nil {
			return nil, fmt.Errorf("%w: product %s could not be resolved: %w",
				order.ErrInvalidLineItems, item.ProductID(), err)
		}
		if !sellable {
			return nil, fmt.Errorf("%w: product %s does not exist or is not sellable",
				order.ErrInvalidLineItems, item.ProductID())
		}
	}

	now := time.Now().UTC()
	newOrder, err := order.NewOrder(
		cmd.OrderID(),
		cmd.Actor().ID(),
		cmd.SellerID(),
		cmd.LineItems(),
		cmd.PaymentMethod(),
		now,
	)
	if err != nil {
		return nil, err
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err = uow.OrderRepository().Add(ctx, newOrder); err != nil {
		return nil, err
	}

	creation := order.StatusChanged{
		OrderID:    newOrder.ID(),
		From:       order.StatusUnknown,
		To:         order.StatusPending,
		ActorID:    cmd.Actor().ID(),
		OccurredAt: now,
	}
	if err = uow.OutboxRepository().Add(ctx, creation); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	return newOrder, nil
}
