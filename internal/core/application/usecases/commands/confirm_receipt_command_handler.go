package commands

import (
	"context"
	"errors"
	"fmt"
	"time"

	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/pkg/errs"
)

// ConfirmReceiptCommandHandler performs the delivered -> buyer_confirmed
// transition, the terminal success of the fulfillment workflow.
type ConfirmReceiptCommandHandler struct {
	uowFactory OrderUoWFactory
}

// NewConfirmReceiptCommandHandler creates a handler for receipt confirmation.
func NewConfirmReceiptCommandHandler(uowFactory OrderUoWFactory) ConfirmReceiptCommandHandler {
	return ConfirmReceiptCommandHandler{uowFactory: uowFactory}
}

// Handle applies the domain transition and persists it with compare-and-set.
func (h ConfirmReceiptCommandHandler) Handle(ctx context.Context, cmd ConfirmReceiptCommand) (*order.Order, error) {
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
	if err = aggregate.ConfirmReceipt(cmd.Actor(), time.Now().UTC()); err != nil {
		return nil, err
	}

	if err = repo.Update(ctx, aggregate, expected); err != nil {
		if errors.Is(err, errs.ErrConcurrencyConflict) {
			return nil, fmt.Errorf("%w: order changed concurrently", order.ErrInvalidState)
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
