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

// ConfirmPaymentCommandHandler performs the pending -> payment_confirmed
// transition. Manual-reference methods require a previously submitted
// reference; gateway methods are checked against the payment collaborator.
// A collaborator timeout or rejection is reported as payment-not-verified,
// never as success.
type ConfirmPaymentCommandHandler struct {
	uowFactory OrderUoWFactory
	verifier   ports.PaymentVerifier
}

// NewConfirmPaymentCommandHandler creates a handler for payment confirmation.
func NewConfirmPaymentCommandHandler(
	uowFactory OrderUoWFactory,
	verifier ports.PaymentVerifier,
) ConfirmPaymentCommandHandler {
	return ConfirmPaymentCommandHandler{
		uowFactory: uowFactory,
		verifier:   verifier,
	}
}

// Handle applies the domain transition, consults the payment collaborator for
// gateway methods, and persists with compare-and-set. Nothing is written when
// verification fails; the loaded aggregate is simply discarded.
func (h ConfirmPaymentCommandHandler) Handle(ctx context.Context, cmd ConfirmPaymentCommand) (*order.Order, error) {
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
	if err = aggregate.ConfirmPayment(cmd.Actor(), time.Now().UTC()); err != nil {
		return nil, err
	}

	if !aggregate.PaymentMethod().RequiresManualReference() {
		var reference string
		if ref := aggregate.PaymentReference(); ref != nil {
			reference = *ref
		}

		settled, verifyErr := h.verifier.Verify(ctx, aggregate.PaymentMethod(), reference)
		if verifyErr != nil {
			return nil, fmt.Errorf("%w: %w", order.ErrPaymentNotVerified, verifyErr)
		}
		if !settled {
			return nil, fmt.Errorf("%w: payment collaborator reports unsettled", order.ErrPaymentNotVerified)
		}
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
