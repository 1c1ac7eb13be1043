package order_test

import (
	"testing"
	"time"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type orderFixture struct {
	buyer   order.Actor
	seller  order.Actor
	courier order.Actor
	admin   order.Actor
	order   *order.Order
	now     time.Time
}

func mustActor(t *testing.T, role order.Role) order.Actor {
	t.Helper()
	a, err := order.NewActor(kernel.NewUUID(), role)
	require.NoError(t, err)
	return a
}

func mustItem(t *testing.T, quantity int, price string) order.LineItem {
	t.Helper()
	unit, err := kernel.MoneyFromString(price)
	require.NoError(t, err)
	item, err := order.NewLineItem(kernel.NewUUID(), quantity, unit)
	require.NoError(t, err)
	return item
}

func newFixture(t *testing.T, method order.PaymentMethod) *orderFixture {
	t.Helper()

	f := &orderFixture{
		buyer:   mustActor(t, order.RoleBuyer),
		seller:  mustActor(t, order.RoleSeller),
		courier: mustActor(t, order.RoleCourier),
		admin:   mustActor(t, order.RoleAdmin),
		now:     time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC),
	}

	o, err := order.NewOrder(
		kernel.NewUUID(),
		f.buyer.ID(),
		f.seller.ID(),
		[]order.LineItem{mustItem(t, 2, "50"), mustItem(t, 1, "30")},
		method,
		f.now,
	)
	require.NoError(t, err)
	f.order = o
	return f
}

// advance walks the order to the requested status through the happy path.
func (f *orderFixture) advance(t *testing.T, target order.Status) {
	t.Helper()

	steps := []struct {
		to    order.Status
		apply func() error
	}{
		{order.StatusPaymentConfirmed, func() error {
			if f.order.PaymentMethod().RequiresManualReference() {
				if err := f.order.SubmitPaymentReference(f.buyer, "TX123"); err != nil {
					return err
				}
			}
			return f.order.ConfirmPayment(f.seller, f.now)
		}},
		{order.StatusAssignedForDelivery, func() error {
			return f.order.AssignCourier(f.courier, f.courier.ID(), f.now)
		}},
		{order.StatusDelivered, func() error {
			return f.order.MarkDelivered(f.courier, f.now)
		}},
		{order.StatusBuyerConfirmed, func() error {
			return f.order.ConfirmReceipt(f.buyer, f.now)
		}},
	}

	for _, step := range steps {
		if f.order.Status() == target {
			return
		}
		require.NoError(t, step.apply())
	}
	require.Equal(t, target, f.order.Status())
}

func TestNewOrder(t *testing.T) {
	t.Run("creates_pending_order_with_frozen_total", func(t *testing.T) {
		f := newFixture(t, order.PaymentMethodBankTransfer)

		assert.Equal(t, order.StatusPending, f.order.Status())
		assert.Nil(t, f.order.CourierID())
		assert.Nil(t, f.order.PaymentReference())

		expected, err := kernel.MoneyFromString("130")
		require.NoError(t, err)
		assert.True(t, f.order.TotalPrice().IsEqual(expected))
	})

	t.Run("rejects_empty_line_items", func(t *testing.T) {
		_, err := order.NewOrder(
			kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID(),
			nil, order.PaymentMethodCardGateway, time.Now())

		require.ErrorIs(t, err, order.ErrInvalidLineItems)
	})

	t.Run("rejects_unconstructed_line_items", func(t *testing.T) {
		_, err := order.NewOrder(
			kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID(),
			[]order.LineItem{{}}, order.PaymentMethodCardGateway, time.Now())

		require.ErrorIs(t, err, order.ErrInvalidLineItems)
	})

	t.Run("rejects_invalid_payment_method", func(t *testing.T) {
		_, err := order.NewOrder(
			kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID(),
			[]order.LineItem{mustItem(t, 1, "10")}, order.PaymentMethodUnknown, time.Now())

		require.Error(t, err)
	})
}

func TestNewLineItem(t *testing.T) {
	t.Run("rejects_zero_and_negative_quantity", func(t *testing.T) {
		unit, err := kernel.MoneyFromString("10")
		require.NoError(t, err)

		_, err = order.NewLineItem(kernel.NewUUID(), 0, unit)
		require.Error(t, err)
		_, err = order.NewLineItem(kernel.NewUUID(), -2, unit)
		require.Error(t, err)
	})

	t.Run("subtotal_multiplies_quantity_and_unit_price", func(t *testing.T) {
		item := mustItem(t, 3, "19.99")
		expected, err := kernel.MoneyFromString("59.97")
		require.NoError(t, err)
		assert.True(t, item.Subtotal().IsEqual(expected))
	})
}

func TestOrder_SubmitPaymentReference(t *testing.T) {
	t.Run("buyer_stores_reference_without_transition", func(t *testing.T) {
		f := newFixture(t, order.PaymentMethodBankTransfer)

		require.NoError(t, f.order.SubmitPaymentReference(f.buyer, "TX123"))

		require.NotNil(t, f.order.PaymentReference())
		assert.Equal(t, "TX123", *f.order.PaymentReference())
		assert.Equal(t, order.StatusPending, f.order.Status())
		assert.Empty(t, f.order.PopStatusChanges())
	})

	t.Run("non_buyer_is_forbidden", func(t *testing.T) {
		f := newFixture(t, order.PaymentMethodBankTransfer)

		require.ErrorIs(t, f.order.SubmitPaymentReference(f.seller, "TX123"), order.ErrForbidden)
		require.ErrorIs(t, f.order.SubmitPaymentReference(f.admin, "TX123"), order.ErrForbidden)
	})

	t.Run("different_buyer_is_forbidden", func(t *testing.T) {
		f := newFixture(t, order.PaymentMethodBankTransfer)
		stranger := mustActor(t, order.RoleBuyer)

		require.ErrorIs(t, f.order.SubmitPaymentReference(stranger, "TX123"), order.ErrForbidden)
	})

	t.Run("rejected_outside_pending", func(t *testing.T) {
		f := newFixture(t, order.PaymentMethodBankTransfer)
		f.advance(t, order.StatusPaymentConfirmed)

		require.ErrorIs(t, f.order.SubmitPaymentReference(f.buyer, "TX456"), order.ErrInvalidState)
	})

	t.Run("rejected_for_gateway_methods", func(t *testing.T) {
		f := newFixture(t, order.PaymentMethodCardGateway)

		require.ErrorIs(t, f.order.SubmitPaymentReference(f.buyer, "TX123"), order.ErrInvalidState)
	})

	t.Run("empty_reference_is_rejected", func(t *testing.T) {
		f := newFixture(t, order.PaymentMethodBankTransfer)

		require.Error(t, f.order.SubmitPaymentReference(f.buyer, ""))
	})
}

func TestOrder_ConfirmPayment(t *testing.T) {
	t.Run("seller_confirms_after_reference_submitted", func(t *testing.T) {
		f := newFixture(t, order.PaymentMethodBankTransfer)
		require.NoError(t, f.order.SubmitPaymentReference(f.buyer, "TX123"))

		require.NoError(t, f.order.ConfirmPayment(f.seller, f.now))

		assert.Equal(t, order.StatusPaymentConfirmed, f.order.Status())
	})

	t.Run("manual_method_without_reference_is_not_verified", func(t *testing.T) {
		f := newFixture(t, order.PaymentMethodBankTransfer)

		err := f.order.ConfirmPayment(f.seller, f.now)

		require.ErrorIs(t, err, order.ErrPaymentNotVerified)
		assert.Equal(t, order.StatusPending, f.order.Status())
	})

	t.Run("only_the_seller_of_record_may_confirm", func(t *testing.T) {
		f := newFixture(t, order.PaymentMethodCardGateway)
		stranger := mustActor(t, order.RoleSeller)

		require.ErrorIs(t, f.order.ConfirmPayment(f.buyer, f.now), order.ErrForbidden)
		require.ErrorIs(t, f.order.ConfirmPayment(f.admin, f.now), order.ErrForbidden)
		require.ErrorIs(t, f.order.ConfirmPayment(stranger, f.now), order.ErrForbidden)
	})

	t.Run("forbidden_wins_over_invalid_state", func(t *testing.T) {
		f := newFixture(t, order.PaymentMethodCardGateway)
		f.advance(t, order.StatusDelivered)

		require.ErrorIs(t, f.order.ConfirmPayment(f.buyer, f.now), order.ErrForbidden)
	})

	t.Run("rejected_outside_pending", func(t *testing.T) {
		f := newFixture(t, order.PaymentMethodCardGateway)
		f.advance(t, order.StatusPaymentConfirmed)

		require.ErrorIs(t, f.order.ConfirmPayment(f.seller, f.now), order.ErrInvalidState)
	})
}

func TestOrder_AssignCourier(t *testing.T) {
	t.Run("courier_self_claim", func(t *testing.T) {
		f := newFixture(t, order.PaymentMethodCardGateway)
		f.advance(t, order.StatusPaymentConfirmed)

		require.NoError(t, f.order.AssignCourier(f.courier, f.courier.ID(), f.now))

		assert.Equal(t, order.StatusAssignedForDelivery, f.order.Status())
		require.NotNil(t, f.order.CourierID())
		assert.True(t, f.order.CourierID().IsEqual(f.courier.ID()))
	})

	t.Run("seller_pushes_to_a_courier", func(t *testing.T) {
		f := newFixture(t, order.PaymentMethodCardGateway)
		f.advance(t, order.StatusPaymentConfirmed)
		courierID := kernel.NewUUID()

		require.NoError(t, f.order.AssignCourier(f.seller, courierID, f.now))

		require.NotNil(t, f.order.CourierID())
		assert.True(t, f.order.CourierID().IsEqual(courierID))
	})

	t.Run("admin_pushes_to_a_courier", func(t *testing.T) {
		f := newFixture(t, order.PaymentMethodCardGateway)
		f.advance(t, order.StatusPaymentConfirmed)

		require.NoError(t, f.order.AssignCourier(f.admin, kernel.NewUUID(), f.now))
	})

	t.Run("courier_cannot_claim_for_someone_else", func(t *testing.T) {
		f := newFixture(t, order.PaymentMethodCardGateway)
		f.advance(t, order.StatusPaymentConfirmed)

		err := f.order.AssignCourier(f.courier, kernel.NewUUID(), f.now)

		require.ErrorIs(t, err, order.ErrForbidden)
	})

	t.Run("buyer_cannot_assign", func(t *testing.T) {
		f := newFixture(t, order.PaymentMethodCardGateway)
		f.advance(t, order.StatusPaymentConfirmed)

		require.ErrorIs(t, f.order.AssignCourier(f.buyer, kernel.NewUUID(), f.now), order.ErrForbidden)
	})

	t.Run("second_assignment_sees_already_assigned", func(t *testing.T) {
		f := newFixture(t, order.PaymentMethodCardGateway)
		f.advance(t, order.StatusAssignedForDelivery)
		rival := mustActor(t, order.RoleCourier)

		err := f.order.AssignCourier(rival, rival.ID(), f.now)

		require.ErrorIs(t, err, order.ErrAlreadyAssigned)
		assert.True(t, f.order.CourierID().IsEqual(f.courier.ID()))
	})

	t.Run("rejected_outside_payment_confirmed", func(t *testing.T) {
		f := newFixture(t, order.PaymentMethodCardGateway)

		err := f.order.AssignCourier(f.courier, f.courier.ID(), f.now)

		require.ErrorIs(t, err, order.ErrInvalidState)
	})
}

func TestOrder_MarkDelivered(t *testing.T) {
	t.Run("assigned_courier_marks_delivered", func(t *testing.T) {
		f := newFixture(t, order.PaymentMethodCardGateway)
		f.advance(t, order.StatusAssignedForDelivery)

		require.NoError(t, f.order.MarkDelivered(f.courier, f.now))

		assert.Equal(t, order.StatusDelivered, f.order.Status())
	})

	t.Run("other_courier_is_forbidden", func(t *testing.T) {
		f := newFixture(t, order.PaymentMethodCardGateway)
		f.advance(t, order.StatusAssignedForDelivery)
		rival := mustActor(t, order.RoleCourier)

		require.ErrorIs(t, f.order.MarkDelivered(rival, f.now), order.ErrForbidden)
	})

	t.Run("non_courier_roles_are_forbidden", func(t *testing.T) {
		f := newFixture(t, order.PaymentMethodCardGateway)
		f.advance(t, order.StatusAssignedForDelivery)

		require.ErrorIs(t, f.order.MarkDelivered(f.buyer, f.now), order.ErrForbidden)
		require.ErrorIs(t, f.order.MarkDelivered(f.seller, f.now), order.ErrForbidden)
		require.ErrorIs(t, f.order.MarkDelivered(f.admin, f.now), order.ErrForbidden)
	})

	t.Run("rejected_before_assignment", func(t *testing.T) {
		f := newFixture(t, order.PaymentMethodCardGateway)

		require.ErrorIs(t, f.order.MarkDelivered(f.courier, f.now), order.ErrInvalidState)
	})
}

func TestOrder_ConfirmReceipt(t *testing.T) {
	t.Run("buyer_confirms_delivered_order", func(t *testing.T) {
		f := newFixture(t, order.PaymentMethodCardGateway)
		f.advance(t, order.StatusDelivered)

		require.NoError(t, f.order.ConfirmReceipt(f.buyer, f.now))

		assert.Equal(t, order.StatusBuyerConfirmed, f.order.Status())
		assert.True(t, f.order.Status().IsTerminal())
	})

	t.Run("no_other_actor_may_force_settlement", func(t *testing.T) {
		f := newFixture(t, order.PaymentMethodCardGateway)
		f.advance(t, order.StatusDelivered)

		require.ErrorIs(t, f.order.ConfirmReceipt(f.seller, f.now), order.ErrForbidden)
		require.ErrorIs(t, f.order.ConfirmReceipt(f.courier, f.now), order.ErrForbidden)
		require.ErrorIs(t, f.order.ConfirmReceipt(f.admin, f.now), order.ErrForbidden)
	})

	t.Run("rejected_before_delivery", func(t *testing.T) {
		f := newFixture(t, order.PaymentMethodCardGateway)

		require.ErrorIs(t, f.order.ConfirmReceipt(f.buyer, f.now), order.ErrInvalidState)
	})
}

func TestOrder_Cancel(t *testing.T) {
	t.Run("cancellable_from_every_pre_delivery_status", func(t *testing.T) {
		for _, target := range []order.Status{
			order.StatusPending,
			order.StatusPaymentConfirmed,
			order.StatusAssignedForDelivery,
		} {
			f := newFixture(t, order.PaymentMethodCardGateway)
			f.advance(t, target)

			require.NoError(t, f.order.Cancel(f.buyer, f.now), "from %s", target)
			assert.Equal(t, order.StatusCancelled, f.order.Status())
		}
	})

	t.Run("seller_and_admin_may_cancel", func(t *testing.T) {
		f := newFixture(t, order.PaymentMethodCardGateway)
		require.NoError(t, f.order.Cancel(f.seller, f.now))

		f = newFixture(t, order.PaymentMethodCardGateway)
		require.NoError(t, f.order.Cancel(f.admin, f.now))
	})

	t.Run("courier_may_not_cancel", func(t *testing.T) {
		f := newFixture(t, order.PaymentMethodCardGateway)
		f.advance(t, order.StatusAssignedForDelivery)

		require.ErrorIs(t, f.order.Cancel(f.courier, f.now), order.ErrForbidden)
	})

	t.Run("never_after_delivery_or_terminal", func(t *testing.T) {
		f := newFixture(t, order.PaymentMethodCardGateway)
		f.advance(t, order.StatusDelivered)
		require.ErrorIs(t, f.order.Cancel(f.buyer, f.now), order.ErrInvalidState)

		f = newFixture(t, order.PaymentMethodCardGateway)
		f.advance(t, order.StatusBuyerConfirmed)
		require.ErrorIs(t, f.order.Cancel(f.buyer, f.now), order.ErrInvalidState)

		f = newFixture(t, order.PaymentMethodCardGateway)
		require.NoError(t, f.order.Cancel(f.buyer, f.now))
		require.ErrorIs(t, f.order.Cancel(f.buyer, f.now), order.ErrInvalidState)
	})
}

func TestOrder_TotalPriceNeverChanges(t *testing.T) {
	f := newFixture(t, order.PaymentMethodBankTransfer)
	expected := f.order.TotalPrice()

	require.NoError(t, f.order.SubmitPaymentReference(f.buyer, "TX123"))
	require.ErrorIs(t, f.order.ConfirmPayment(f.buyer, f.now), order.ErrForbidden)
	require.NoError(t, f.order.ConfirmPayment(f.seller, f.now))
	require.NoError(t, f.order.AssignCourier(f.courier, f.courier.ID(), f.now))
	require.ErrorIs(t, f.order.AssignCourier(f.courier, f.courier.ID(), f.now), order.ErrAlreadyAssigned)
	require.NoError(t, f.order.MarkDelivered(f.courier, f.now))
	require.NoError(t, f.order.ConfirmReceipt(f.buyer, f.now))

	assert.True(t, f.order.TotalPrice().IsEqual(expected))
}

func TestOrder_StatusChanges(t *testing.T) {
	t.Run("one_event_per_successful_transition", func(t *testing.T) {
		f := newFixture(t, order.PaymentMethodCardGateway)

		require.NoError(t, f.order.ConfirmPayment(f.seller, f.now))
		require.NoError(t, f.order.AssignCourier(f.courier, f.courier.ID(), f.now))

		changes := f.order.PopStatusChanges()
		require.Len(t, changes, 2)
		assert.Equal(t, order.StatusPending, changes[0].From)
		assert.Equal(t, order.StatusPaymentConfirmed, changes[0].To)
		assert.True(t, changes[0].ActorID.IsEqual(f.seller.ID()))
		assert.Equal(t, order.StatusPaymentConfirmed, changes[1].From)
		assert.Equal(t, order.StatusAssignedForDelivery, changes[1].To)

		assert.Empty(t, f.order.PopStatusChanges())
	})

	t.Run("failed_transitions_record_nothing", func(t *testing.T) {
		f := newFixture(t, order.PaymentMethodCardGateway)

		require.Error(t, f.order.MarkDelivered(f.courier, f.now))

		assert.Empty(t, f.order.PopStatusChanges())
	})
}

// TestOrder_ScenarioA walks the full success path from spec scenario A:
// checkout with 2x50 + 1x30, manual payment, courier self-claim, delivery,
// buyer confirmation.
func TestOrder_ScenarioA(t *testing.T) {
	f := newFixture(t, order.PaymentMethodBankTransfer)

	expected, err := kernel.MoneyFromString("130")
	require.NoError(t, err)
	require.True(t, f.order.TotalPrice().IsEqual(expected))

	require.NoError(t, f.order.SubmitPaymentReference(f.buyer, "TX123"))
	require.NoError(t, f.order.ConfirmPayment(f.seller, f.now))
	require.Equal(t, order.StatusPaymentConfirmed, f.order.Status())

	require.NoError(t, f.order.AssignCourier(f.courier, f.courier.ID(), f.now))
	require.Equal(t, order.StatusAssignedForDelivery, f.order.Status())
	require.NotNil(t, f.order.CourierID())

	require.NoError(t, f.order.MarkDelivered(f.courier, f.now))
	require.Equal(t, order.StatusDelivered, f.order.Status())

	require.NoError(t, f.order.ConfirmReceipt(f.buyer, f.now))
	require.Equal(t, order.StatusBuyerConfirmed, f.order.Status())
	require.True(t, f.order.Status().IsTerminal())
}

// TestOrder_ScenarioB cancels while pending; the cancelled order refuses
// payment confirmation.
func TestOrder_ScenarioB(t *testing.T) {
	f := newFixture(t, order.PaymentMethodBankTransfer)

	require.NoError(t, f.order.Cancel(f.buyer, f.now))
	require.Equal(t, order.StatusCancelled, f.order.Status())

	err := f.order.ConfirmPayment(f.seller, f.now)
	require.ErrorIs(t, err, order.ErrInvalidState)
	require.Equal(t, order.StatusCancelled, f.order.Status())
}

// TestOrder_ScenarioC confirms payment before any reference exists for a
// manual method; the order stays pending.
func TestOrder_ScenarioC(t *testing.T) {
	f := newFixture(t, order.PaymentMethodBankTransfer)

	err := f.order.ConfirmPayment(f.seller, f.now)

	require.ErrorIs(t, err, order.ErrPaymentNotVerified)
	require.Equal(t, order.StatusPending, f.order.Status())
}

func TestRestoreOrder(t *testing.T) {
	t.Run("restores_assigned_order", func(t *testing.T) {
		buyerID, sellerID, courierID := kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID()
		items := []order.LineItem{mustItem(t, 2, "50")}
		total, err := kernel.MoneyFromString("100")
		require.NoError(t, err)
		ref := "TX123"
		now := time.Now().UTC()

		o, err := order.RestoreOrder(
			kernel.NewUUID(), buyerID, sellerID, &courierID,
			items, total, order.PaymentMethodBankTransfer, &ref,
			order.StatusAssignedForDelivery, now, now)

		require.NoError(t, err)
		assert.Equal(t, order.StatusAssignedForDelivery, o.Status())
		require.NotNil(t, o.CourierID())
		assert.True(t, o.CourierID().IsEqual(courierID))
		assert.Empty(t, o.PopStatusChanges())
	})

	t.Run("rejects_courier_on_pending_order", func(t *testing.T) {
		courierID := kernel.NewUUID()
		total, err := kernel.MoneyFromString("10")
		require.NoError(t, err)
		now := time.Now().UTC()

		_, err = order.RestoreOrder(
			kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID(), &courierID,
			[]order.LineItem{mustItem(t, 1, "10")}, total,
			order.PaymentMethodCardGateway, nil,
			order.StatusPending, now, now)

		require.Error(t, err)
	})

	t.Run("rejects_invalid_status", func(t *testing.T) {
		total, err := kernel.MoneyFromString("10")
		require.NoError(t, err)
		now := time.Now().UTC()

		_, err = order.RestoreOrder(
			kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID(), nil,
			[]order.LineItem{mustItem(t, 1, "10")}, total,
			order.PaymentMethodCardGateway, nil,
			order.StatusUnknown, now, now)

		require.Error(t, err)
	})
}

func TestOrder_Validate(t *testing.T) {
	t.Run("zero_value_is_not_constructed", func(t *testing.T) {
		var o order.Order
		require.ErrorIs(t, o.Validate(), order.ErrOrderIsNotConstructed)
	})

	t.Run("nil_order_is_not_constructed", func(t *testing.T) {
		var o *order.Order
		require.ErrorIs(t, o.Validate(), order.ErrOrderIsNotConstructed)
	})
}
