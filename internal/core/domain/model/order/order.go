package order

import (
	"errors"
	"fmt"
	"time"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/errs"
)

// ErrOrderIsNotConstructed is returned when an Order instance was not created
// through NewOrder or RestoreOrder.
var ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder or RestoreOrder constructor")

// Order is the aggregate root of the fulfillment model. It owns the canonical
// status of a purchase and enforces the transition table across the four
// parties (buyer, seller, courier, admin).
//
// Invariants:
//   - status is always one of the enumerated states
//   - a courier is set if and only if the order reached AssignedForDelivery
//     (orders cancelled after assignment keep the courier for audit)
//   - totalPrice is computed once at creation and never changes
//   - every transition is performed by exactly one authorized role
//
// All mutating methods take the acting party and check authorization before
// anything else; a failed call leaves the aggregate untouched.
type Order struct {
	id        kernel.UUID
	buyerID   kernel.UUID
	sellerID  kernel.UUID
	courierID *kernel.UUID

	lineItems  []LineItem
	totalPrice kernel.Money

	paymentMethod    PaymentMethod
	paymentReference *string

	status          Status
	createdAt       time.Time
	statusUpdatedAt time.Time

	statusChanges []StatusChanged

	isConstructed bool
}

// NewOrder creates an order in Pending status from the buyer's checkout.
// Line items must be non-empty; the total is computed here and frozen.
// Product resolvability is checked by the caller against the catalog before
// construction.
func NewOrder(
	id kernel.UUID,
	buyerID kernel.UUID,
	sellerID kernel.UUID,
	lineItems []LineItem,
	paymentMethod PaymentMethod,
	now time.Time,
) (*Order, error) {
	if err := errors.Join(
		id.Validate(),
		buyerID.Validate(),
		sellerID.Validate(),
		paymentMethod.Validate(),
	); err != nil {
		return nil, err
	}

	if len(lineItems) == 0 {
		return nil, fmt.Errorf("%w: order has no line items", ErrInvalidLineItems)
	}

	total := kernel.ZeroMoney()
	items := make([]LineItem, 0, len(lineItems))
	for _, item := range lineItems {
		if err := item.Validate(); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidLineItems, err)
		}
		total = total.Add(item.Subtotal())
		items = append(items, item)
	}

	return &Order{
		id:              id,
		buyerID:         buyerID,
		sellerID:        sellerID,
		lineItems:       items,
		totalPrice:      total,
		paymentMethod:   paymentMethod,
		status:          StatusPending,
		createdAt:       now,
		statusUpdatedAt: now,
		isConstructed:   true,
	}, nil
}

// RestoreOrder reconstructs an order from persistence. The stored total is
// kept as-is; it is never recomputed from the line items.
func RestoreOrder(
	id kernel.UUID,
	buyerID kernel.UUID,
	sellerID kernel.UUID,
	courierID *kernel.UUID,
	lineItems []LineItem,
	totalPrice kernel.Money,
	paymentMethod PaymentMethod,
	paymentReference *string,
	status Status,
	createdAt time.Time,
	statusUpdatedAt time.Time,
) (*Order, error) {
	if err := errors.Join(
		id.Validate(),
		buyerID.Validate(),
		sellerID.Validate(),
		paymentMethod.Validate(),
		status.Validate(),
		status.ValidateCanHaveCourier(courierID != nil),
	); err != nil {
		return nil, err
	}

	if courierID != nil {
		if err := courierID.Validate(); err != nil {
			return nil, err
		}
	}

	for _, item := range lineItems {
		if err := item.Validate(); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidLineItems, err)
		}
	}

	return &Order{
		id:               id,
		buyerID:          buyerID,
		sellerID:         sellerID,
		courierID:        courierID,
		lineItems:        lineItems,
		totalPrice:       totalPrice,
		paymentMethod:    paymentMethod,
		paymentReference: paymentReference,
		status:           status,
		createdAt:        createdAt,
		statusUpdatedAt:  statusUpdatedAt,
		isConstructed:    true,
	}, nil
}

// Validate ensures the order was created through a constructor.
func (o *Order) Validate() error {
	if o == nil || !o.isConstructed {
		return ErrOrderIsNotConstructed
	}
	return nil
}

// IsEqual compares two orders by identity.
func (o *Order) IsEqual(other *Order) bool {
	return other != nil && o.id.IsEqual(other.id)
}

// ID returns the order's unique identifier.
func (o *Order) ID() kernel.UUID {
	return o.id
}

// BuyerID returns the buyer of record.
func (o *Order) BuyerID() kernel.UUID {
	return o.buyerID
}

// SellerID returns the seller of record.
func (o *Order) SellerID() kernel.UUID {
	return o.sellerID
}

// CourierID returns the assigned courier, or nil before assignment.
func (o *Order) CourierID() *kernel.UUID {
	return o.courierID
}

// LineItems returns a copy of the order's line items.
func (o *Order) LineItems() []LineItem {
	items := make([]LineItem, len(o.lineItems))
	copy(items, o.lineItems)
	return items
}

// TotalPrice returns the total frozen at creation.
func (o *Order) TotalPrice() kernel.Money {
	return o.totalPrice
}

// PaymentMethod returns how this order is paid.
func (o *Order) PaymentMethod() PaymentMethod {
	return o.paymentMethod
}

// PaymentReference returns the buyer-submitted reference, or nil.
func (o *Order) PaymentReference() *string {
	return o.paymentReference
}

// Status returns the current status.
func (o *Order) Status() Status {
	return o.status
}

// CreatedAt returns the creation timestamp.
func (o *Order) CreatedAt() time.Time {
	return o.createdAt
}

// StatusUpdatedAt returns the timestamp of the last transition.
func (o *Order) StatusUpdatedAt() time.Time {
	return o.statusUpdatedAt
}

// PopStatusChanges drains the events recorded by transitions since the
// aggregate was loaded. The caller persists them to the outbox in the same
// transaction as the status update.
func (o *Order) PopStatusChanges() []StatusChanged {
	changes := o.statusChanges
	o.statusChanges = nil
	return changes
}

// SubmitPaymentReference stores the buyer's payment reference for a
// manual-confirmation method. It is not a transition: the status stays
// Pending and no event is recorded; confirmation is a separate seller-gated
// step.
func (o *Order) SubmitPaymentReference(actor Actor, reference string) error {
	if err := actor.Validate(); err != nil {
		return err
	}
	if actor.Role() != RoleBuyer || !actor.ID().IsEqual(o.buyerID) {
		return fmt.Errorf("%w: only the buyer of record may submit a payment reference", ErrForbidden)
	}
	if o.status != StatusPending {
		return fmt.Errorf("%w: cannot submit a payment reference from %s", ErrInvalidState, o.status)
	}
	if !o.paymentMethod.RequiresManualReference() {
		return fmt.Errorf("%w: payment method %s takes no manual reference", ErrInvalidState, o.paymentMethod)
	}
	if reference == "" {
		return errs.NewValueIsRequiredError("paymentReference")
	}

	o.paymentReference = &reference
	return nil
}

// ConfirmPayment transitions Pending -> PaymentConfirmed on behalf of the
// seller of record. For manual-reference methods a buyer-submitted reference
// must exist; gateway methods are verified by the caller through the payment
// collaborator before this call.
func (o *Order) ConfirmPayment(actor Actor, now time.Time) error {
	if err := actor.Validate(); err != nil {
		return err
	}
	if actor.Role() != RoleSeller || !actor.ID().IsEqual(o.sellerID) {
		return fmt.Errorf("%w: only the seller of record may confirm payment", ErrForbidden)
	}

	newStatus, err := o.status.ConfirmPayment()
	if err != nil {
		return err
	}

	if o.paymentMethod.RequiresManualReference() && o.paymentReference == nil {
		return fmt.Errorf("%w: no payment reference submitted", ErrPaymentNotVerified)
	}

	o.changeStatus(newStatus, actor, now)
	return nil
}

// AssignCourier transitions PaymentConfirmed -> AssignedForDelivery and sets
// the courier. Reachable two ways: the seller of record or an admin pushes the
// order to a specific courier, or a courier claims it for themself. There is
// no reassignment; of two racing assignments exactly one wins and the loser
// observes ErrAlreadyAssigned.
func (o *Order) AssignCourier(actor Actor, courierID kernel.UUID, now time.Time) error {
	if err := actor.Validate(); err != nil {
		return err
	}
	if err := courierID.Validate(); err != nil {
		return err
	}

	selfClaim := actor.Role() == RoleCourier && actor.ID().IsEqual(courierID)
	push := actor.Role() == RoleAdmin ||
		(actor.Role() == RoleSeller && actor.ID().IsEqual(o.sellerID))
	if !selfClaim && !push {
		return fmt.Errorf("%w: courier assignment requires the seller, an admin, or the claiming courier", ErrForbidden)
	}

	if o.courierID != nil {
		return fmt.Errorf("%w: courier %s holds this order", ErrAlreadyAssigned, o.courierID)
	}

	newStatus, err := o.status.Assign()
	if err != nil {
		return err
	}

	o.courierID = &courierID
	o.changeStatus(newStatus, actor, now)
	return nil
}

// MarkDelivered transitions AssignedForDelivery -> Delivered on behalf of the
// assigned courier. Delivered does not release funds; it is the courier's
// attestation pending buyer acknowledgment.
func (o *Order) MarkDelivered(actor Actor, now time.Time) error {
	if err := actor.Validate(); err != nil {
		return err
	}
	if actor.Role() != RoleCourier {
		return fmt.Errorf("%w: only the assigned courier may mark delivery", ErrForbidden)
	}
	if o.courierID != nil && !actor.ID().IsEqual(*o.courierID) {
		return fmt.Errorf("%w: only the assigned courier may mark delivery", ErrForbidden)
	}

	newStatus, err := o.status.MarkDelivered()
	if err != nil {
		return err
	}

	o.changeStatus(newStatus, actor, now)
	return nil
}

// ConfirmReceipt transitions Delivered -> BuyerConfirmed on behalf of the
// buyer of record. This is the only edge that authorizes settlement; no other
// actor or timer may force it.
func (o *Order) ConfirmReceipt(actor Actor, now time.Time) error {
	if err := actor.Validate(); err != nil {
		return err
	}
	if actor.Role() != RoleBuyer || !actor.ID().IsEqual(o.buyerID) {
		return fmt.Errorf("%w: only the buyer of record may confirm receipt", ErrForbidden)
	}

	newStatus, err := o.status.ConfirmReceipt()
	if err != nil {
		return err
	}

	o.changeStatus(newStatus, actor, now)
	return nil
}

// Cancel transitions any pre-delivery status -> Cancelled. Permitted to the
// buyer of record, the seller of record, and admins.
func (o *Order) Cancel(actor Actor, now time.Time) error {
	if err := actor.Validate(); err != nil {
		return err
	}

	allowed := actor.Role() == RoleAdmin ||
		(actor.Role() == RoleBuyer && actor.ID().IsEqual(o.buyerID)) ||
		(actor.Role() == RoleSeller && actor.ID().IsEqual(o.sellerID))
	if !allowed {
		return fmt.Errorf("%w: cancellation requires the buyer, the seller, or an admin", ErrForbidden)
	}

	newStatus, err := o.status.Cancel()
	if err != nil {
		return err
	}

	o.changeStatus(newStatus, actor, now)
	return nil
}

func (o *Order) changeStatus(newStatus Status, actor Actor, now time.Time) {
	from := o.status
	o.status = newStatus
	o.statusUpdatedAt = now
	o.statusChanges = append(o.statusChanges, StatusChanged{
		OrderID:    o.id,
		From:       from,
		To:         newStatus,
		ActorID:    actor.ID(),
		OccurredAt: now,
	})
}
