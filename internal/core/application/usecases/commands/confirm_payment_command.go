package commands

import (
	"errors"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/pkg/guard"
)

var ErrConfirmPaymentCommandIsNotConstructed = errors.New(
	"ConfirmPaymentCommand must be created via NewConfirmPaymentCommand constructor",
)

// ConfirmPaymentCommand is the seller's acknowledgment that the buyer's
// payment arrived, moving the order to payment_confirmed.
type ConfirmPaymentCommand struct {
	orderID kernel.UUID
	actor   order.Actor

	guard guard.ConstructorGuard
}

// NewConfirmPaymentCommand creates a validated command.
func NewConfirmPaymentCommand(orderID kernel.UUID, actor order.Actor) (ConfirmPaymentCommand, error) {
	if err := errors.Join(orderID.Validate(), actor.Validate()); err != nil {
		return ConfirmPaymentCommand{}, err
	}

	return ConfirmPaymentCommand{
		orderID: orderID,
		actor:   actor,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
func (c ConfirmPaymentCommand) Validate() error {
	return c.guard.Validate(ErrConfirmPaymentCommandIsNotConstructed)
}

// OrderID returns the target order.
func (c ConfirmPaymentCommand) OrderID() kernel.UUID {
	return c.orderID
}

// Actor returns the acting party.
func (c ConfirmPaymentCommand) Actor() order.Actor {
	return c.actor
}
