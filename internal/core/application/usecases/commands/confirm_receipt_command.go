package commands

import (
	"errors"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/pkg/guard"
)

var ErrConfirmReceiptCommandIsNotConstructed = errors.New(
	"ConfirmReceiptCommand must be created via NewConfirmReceiptCommand constructor",
)

// ConfirmReceiptCommand is the buyer's acknowledgment of delivery. It is the
// only operation that finalizes an order successfully and authorizes
// downstream settlement.
type ConfirmReceiptCommand struct {
	orderID kernel.UUID
	actor   order.Actor

	guard guard.ConstructorGuard
}

// NewConfirmReceiptCommand creates a validated command.
func NewConfirmReceiptCommand(orderID kernel.UUID, actor order.Actor) (ConfirmReceiptCommand, error) {
	if err := errors.Join(orderID.Validate(), actor.Validate()); err != nil {
		return ConfirmReceiptCommand{}, err
	}

	return ConfirmReceiptCommand{
		orderID: orderID,
		actor:   actor,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
func (c ConfirmReceiptCommand) Validate() error {
	return c.guard.Validate(ErrConfirmReceiptCommandIsNotConstructed)
}

// OrderID returns the target order.
func (c ConfirmReceiptCommand) OrderID() kernel.UUID {
	return c.orderID
}

// Actor returns the acting party.
func (c ConfirmReceiptCommand) Actor() order.Actor {
	return c.actor
}
