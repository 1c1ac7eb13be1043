package commands

import (
	"errors"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/pkg/guard"
)

var ErrAssignCourierCommandIsNotConstructed = errors.New(
	"AssignCourierCommand must be created via NewAssignCourierCommand constructor",
)

// AssignCourierCommand hands a payment-confirmed order to a courier. It is
// issued either by the seller/admin pushing the order to a specific courier,
// or by a courier claiming it for themself (courierID equals the actor's id).
type AssignCourierCommand struct {
	orderID   kernel.UUID
	actor     order.Actor
	courierID kernel.UUID

	guard guard.ConstructorGuard
}

// NewAssignCourierCommand creates a validated command.
func NewAssignCourierCommand(
	orderID kernel.UUID,
	actor order.Actor,
	courierID kernel.UUID,
) (AssignCourierCommand, error) {
	if err := errors.Join(orderID.Validate(), actor.Validate(), courierID.Validate()); err != nil {
		return AssignCourierCommand{}, err
	}

	return AssignCourierCommand{
		orderID:   orderID,
		actor:     actor,
		courierID: courierID,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
func (c AssignCourierCommand) Validate() error {
	return c.guard.Validate(ErrAssignCourierCommandIsNotConstructed)
}

// OrderID returns the target order.
func (c AssignCourierCommand) OrderID() kernel.UUID {
	return c.orderID
}

// Actor returns the acting party.
func (c AssignCourierCommand) Actor() order.Actor {
	return c.actor
}

// CourierID returns the courier receiving the order.
func (c AssignCourierCommand) CourierID() kernel.UUID {
	return c.courierID
}
