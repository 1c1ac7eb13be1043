package commands

import (
	"errors"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/pkg/guard"
)

var ErrCreateOrderCommandIsNotConstructed = errors.New(
	"CreateOrderCommand must be created via NewCreateOrderCommand constructor",
)

// CreateOrderCommand represents a buyer's checkout: the parties, the line
// items priced at checkout time, and the chosen payment method.
type CreateOrderCommand struct {
	orderID       kernel.UUID
	actor         order.Actor
	sellerID      kernel.UUID
	lineItems     []order.LineItem
	paymentMethod order.PaymentMethod

	guard guard.ConstructorGuard
}

// NewCreateOrderCommand creates a validated checkout command. The actor must
// be a buyer; the buyer of record is taken from the actor's identity.
func NewCreateOrderCommand(
	orderID kernel.UUID,
	actor order.Actor,
	sellerID kernel.UUID,
	lineItems []order.LineItem,
	paymentMethod order.PaymentMethod,
) (CreateOrderCommand, error) {
	if err := errors.Join(
		orderID.Validate(),
		actor.Validate(),
		sellerID.Validate(),
		paymentMethod.Validate(),
	); err != nil {
		return CreateOrderCommand{}, err
	}

	return CreateOrderCommand{
		orderID:       orderID,
		actor:         actor,
		sellerID:      sellerID,
		lineItems:     lineItems,
		paymentMethod: paymentMethod,
		guard:         guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
func (c CreateOrderCommand) Validate() error {
	return c.guard.Validate(ErrCreateOrderCommandIsNotConstructed)
}

// OrderID returns the identifier assigned to the new order.
func (c CreateOrderCommand) OrderID() kernel.UUID {
	return c.orderID
}

// Actor returns the acting party (the buyer).
func (c CreateOrderCommand) Actor() order.Actor {
	return c.actor
}

// SellerID returns the seller of record.
func (c CreateOrderCommand) SellerID() kernel.UUID {
	return c.sellerID
}

// LineItems returns the checkout positions.
func (c CreateOrderCommand) LineItems() []order.LineItem {
	return c.lineItems
}

// PaymentMethod returns the chosen payment method.
func (c CreateOrderCommand) PaymentMethod() order.PaymentMethod {
	return c.paymentMethod
}
