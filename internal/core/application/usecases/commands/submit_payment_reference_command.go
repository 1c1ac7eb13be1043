package commands

import (
	"errors"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/pkg/errs"
	"marketplace/internal/pkg/guard"
)

var ErrSubmitPaymentReferenceCommandIsNotConstructed = errors.New(
	"SubmitPaymentReferenceCommand must be created via NewSubmitPaymentReferenceCommand constructor",
)

// SubmitPaymentReferenceCommand records the buyer's proof of a manual payment
// (e.g. a bank transfer reference) on a pending order.
type SubmitPaymentReferenceCommand struct {
	orderID   kernel.UUID
	actor     order.Actor
	reference string

	guard guard.ConstructorGuard
}

// NewSubmitPaymentReferenceCommand creates a validated command. The reference
// must be non-empty.
func NewSubmitPaymentReferenceCommand(
	orderID kernel.UUID,
	actor order.Actor,
	reference string,
) (SubmitPaymentReferenceCommand, error) {
	if err := errors.Join(orderID.Validate(), actor.Validate()); err != nil {
		return SubmitPaymentReferenceCommand{}, err
	}
	if reference == "" {
		return SubmitPaymentReferenceCommand{}, errs.NewValueIsRequiredError("reference")
	}

	return SubmitPaymentReferenceCommand{
		orderID:   orderID,
		actor:     actor,
		reference: reference,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
func (c SubmitPaymentReferenceCommand) Validate() error {
	return c.guard.Validate(ErrSubmitPaymentReferenceCommandIsNotConstructed)
}

// OrderID returns the target order.
func (c SubmitPaymentReferenceCommand) OrderID() kernel.UUID {
	return c.orderID
}

// Actor returns the acting party.
func (c SubmitPaymentReferenceCommand) Actor() order.Actor {
	return c.actor
}

// Reference returns the buyer-submitted payment reference.
func (c SubmitPaymentReferenceCommand) Reference() string {
	return c.reference
}
