package commands

import (
	"context"
	"errors"
	"fmt"

	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/pkg/errs"
)

// SubmitPaymentReferenceCommandHandler stores the buyer's payment reference.
// Not a status transition: the order stays pending and no event is staged,
// but the write still goes through the compare-and-set update so a reference
// can never land on an order that was cancelled concurrently.
type SubmitPaymentReferenceCommandHandler struct {
	uowFactory OrderUoWFactory
}

// NewSubmitPaymentReferenceCommandHandler creates a handler for reference
// submission.
func NewSubmitPaymentReferenceCommandHandler(uowFactory OrderUoWFactory) SubmitPaymentReferenceCommandHandler {
	return SubmitPaymentReferenceCommandHandler{uowFactory: uowFactory}
}

// Handle loads the order, applies the domain rules and persists the
// reference.
func (h SubmitPaymentReferenceCommandHandler) Handle(
	ctx context.Context,
	cmd SubmitPaymentReferenceCommand,
) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
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
	if err = aggregate.SubmitPaymentReference(cmd.Actor(), cmd.Reference()); err != nil {
		return nil, err
	}

	if err = repo.Update(ctx, aggregate, expected); err != nil {
		if errors.Is(err, errs.ErrConcurrencyConflict) {
			return nil, fmt.Errorf("%w: order changed concurrently", order.ErrInvalidState)
		}
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	return aggregate, nil
}
