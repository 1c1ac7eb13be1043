package commands

import (
	"context"
	"errors"
	"fmt"
	"time"

	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/core/ports"
	"marketplace/internal/pkg/errs"
)

// AssignCourierCommandHandler performs the payment_confirmed ->
// assigned_for_delivery transition. The courier must be known to the courier
// directory. Of two concurrent assignments for the same order exactly one
// commits; the loser's compare-and-set fails and surfaces as
// order.ErrAlreadyAssigned.
type AssignCourierCommandHandler struct {
	uowFactory OrderUoWFactory
	directory  ports.CourierDirectory
}

// NewAssignCourierCommandHandler creates a handler for courier assignment.
func NewAssignCourierCommandHandler(
	uowFactory OrderUoWFactory,
	directory ports.CourierDirectory,
) AssignCourierCommandHandler {
	return AssignCourierCommandHandler{
		uowFactory: uowFactory,
		directory:  directory,
	}
}

// Handle checks courier eligibility, applies the domain transition and
// persists it with compare-and-set.
func (h AssignCourierCommandHandler) Handle(ctx context.Context, cmd AssignCourierCommand) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	eligible, err := h.directory.IsEligible(ctx, cmd.CourierID())
	if err != nil {
		return nil, fmt.Errorf("courier directory lookup failed: %w", err)
	}
	if !eligible {
		return nil, fmt.Errorf("%w: courier %s is not eligible for assignment",
			order.ErrForbidden, cmd.CourierID())
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	repo := uow.OrderRepository()
	aggregate, err := repo.Get(ctx, cmd.OrderID())
	if err != nil {
		return nil, err
	}

	expected := aggregate.Status()
	if err = aggregate.AssignCourier(cmd.Actor(), cmd.CourierID(), time.Now().UTC()); err != nil {
		return nil, err
	}

	if err = repo.Update(ctx, aggregate, expected); err != nil {
		if errors.Is(err, errs.ErrConcurrencyConflict) {
			return nil, fmt.Errorf("%w: another assignment won the race", order.ErrAlreadyAssigned)
		}
		return nil, err
	}

	outbox := uow.OutboxRepository()
	for _, event := range aggregate.PopStatusChanges() {
		if err = outbox.Add(ctx, event); err != nil {
			return nil, err
		}
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	return aggregate, nil
}
