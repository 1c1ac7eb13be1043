package commands

import (
	"errors"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/pkg/guard"
)

var ErrMarkDeliveredCommandIsNotConstructed = errors.New(
	"MarkDeliveredCommand must be created via NewMarkDeliveredCommand constructor",
)

// MarkDeliveredCommand is the assigned courier's attestation that the order
// was handed over. It does not release funds; the buyer confirms separately.
type MarkDeliveredCommand struct {
	orderID kernel.UUID
	actor   order.Actor

	guard guard.ConstructorGuard
}

// NewMarkDeliveredCommand creates a validated command.
func NewMarkDeliveredCommand(orderID kernel.UUID, actor order.Actor) (MarkDeliveredCommand, error) {
	if err := errors.Join(orderID.Validate(), actor.Validate()); err != nil {
		return MarkDeliveredCommand{}, err
	}

	return MarkDeliveredCommand{
		orderID: orderID,
		actor:   actor,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
func (c MarkDeliveredCommand) Validate() error {
	return c.guard.Validate(ErrMarkDeliveredCommandIsNotConstructed)
}

// OrderID returns the target order.
func (c MarkDeliveredCommand) OrderID() kernel.UUID {
	return c.orderID
}

// Actor returns the acting party.
func (c MarkDeliveredCommand) Actor() order.Actor {
	return c.actor
}
