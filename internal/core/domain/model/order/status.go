package order

import (
	"errors"
	"fmt"

	"marketplace/internal/pkg/errs"
)

// Transition taxonomy errors. Every failed operation on an Order unwraps to
// exactly one of these (or to errs.ErrObjectNotFound at the repository level),
// so callers can branch on kind instead of parsing messages.
var (
	// ErrForbidden is returned when the acting party is not the role the
	// requested transition belongs to.
	ErrForbidden = errors.New("actor is not authorized for this transition")

	// ErrInvalidState is returned when the (current status, requested event)
	// pair is not an edge of the fulfillment state machine.
	ErrInvalidState = errors.New("order status does not allow this transition")

	// ErrInvalidLineItems is returned at creation time for empty, malformed or
	// unresolvable line items.
	ErrInvalidLineItems = errors.New("line items are invalid")

	// ErrAlreadyAssigned is returned when a courier assignment loses the race
	// against another assignment for the same order.
	ErrAlreadyAssigned = errors.New("order is already assigned to a courier")

	// ErrPaymentNotVerified is returned when payment confirmation lacks a
	// reference, or the payment collaborator rejected or timed out.
	ErrPaymentNotVerified = errors.New("payment is not verified")
)

// Status is the state-machine variable of an order. The fulfillment workflow
// is a directed graph with no revisits:
//
//	Pending ──> PaymentConfirmed ──> AssignedForDelivery ──> Delivered ──> BuyerConfirmed
//	   │               │                      │
//	   └───────────────┴──────────────────────┴──> Cancelled
//
// Delivered is a courier attestation only; funds settlement is authorized
// solely by the Delivered -> BuyerConfirmed edge. BuyerConfirmed and Cancelled
// are terminal.
type Status int

const (
	// StatusUnknown is the invalid zero value; it catches uninitialized statuses.
	StatusUnknown Status = iota

	// StatusPending is the initial status after checkout, awaiting payment.
	StatusPending

	// StatusPaymentConfirmed means the seller acknowledged the payment.
	StatusPaymentConfirmed

	// StatusAssignedForDelivery means a courier holds the order.
	StatusAssignedForDelivery

	// StatusDelivered is the courier's attestation, pending buyer acknowledgment.
	StatusDelivered

	// StatusBuyerConfirmed is the terminal success state; it alone authorizes
	// downstream settlement.
	StatusBuyerConfirmed

	// StatusCancelled is the terminal failure state, reachable from any
	// pre-delivery status.
	StatusCancelled
)

func getStatusStrings() map[Status]string {
	return map[Status]string{
		StatusUnknown:             "unknown",
		StatusPending:             "pending",
		StatusPaymentConfirmed:    "payment_confirmed",
		StatusAssignedForDelivery: "assigned_for_delivery",
		StatusDelivered:           "delivered",
		StatusBuyerConfirmed:      "buyer_confirmed",
		StatusCancelled:           "cancelled",
	}
}

func getValidStatusStrings() map[Status]string {
	//nolint:exhaustive // StatusUnknown is intentionally excluded as it's invalid
	return map[Status]string{
		StatusPending:             "pending",
		StatusPaymentConfirmed:    "payment_confirmed",
		StatusAssignedForDelivery: "assigned_for_delivery",
		StatusDelivered:           "delivered",
		StatusBuyerConfirmed:      "buyer_confirmed",
		StatusCancelled:           "cancelled",
	}
}

// StatusFromString parses the wire form of a status.
func StatusFromString(s string) (Status, error) {
	for status, str := range getValidStatusStrings() {
		if str == s {
			return status, nil
		}
	}
	return StatusUnknown, errs.NewValueIsInvalidErrorWithCause("status",
		fmt.Errorf("%q is not a valid status", s))
}

// Validate reports whether the status is one of the enumerated states.
func (s Status) Validate() error {
	if _, ok := getValidStatusStrings()[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("status",
			fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

// String returns the wire form of the status ("pending", "delivered", ...).
func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "unknown"
}

// IsTerminal reports whether the status has no outgoing edges.
func (s Status) IsTerminal() bool {
	return s == StatusBuyerConfirmed || s == StatusCancelled
}

// ValidateCanHaveCourier checks the consistency between status and courier
// assignment: a courier is set if and only if the order reached
// AssignedForDelivery, with the one exception of orders cancelled after
// assignment, which keep their courier for audit.
func (s Status) ValidateCanHaveCourier(courier bool) error {
	switch {
	case courier && (s == StatusPending || s == StatusPaymentConfirmed):
		return errs.NewValueIsInvalidErrorWithCause("status",
			fmt.Errorf("%s is not a valid status to have a courier", s))
	case !courier && (s == StatusAssignedForDelivery || s == StatusDelivered || s == StatusBuyerConfirmed):
		return errs.NewValueIsInvalidErrorWithCause("status",
			fmt.Errorf("%s is not a valid status to have no courier", s))
	}
	return nil
}

// ConfirmPayment transitions Pending -> PaymentConfirmed.
func (s Status) ConfirmPayment() (Status, error) {
	if s != StatusPending {
		return 0, fmt.Errorf("%w: cannot confirm payment from %s", ErrInvalidState, s)
	}
	return StatusPaymentConfirmed, nil
}

// Assign transitions PaymentConfirmed -> AssignedForDelivery. There is no
// reassignment edge; a courier holds the order until delivery or cancellation.
func (s Status) Assign() (Status, error) {
	if s != StatusPaymentConfirmed {
		return 0, fmt.Errorf("%w: cannot assign a courier from %s", ErrInvalidState, s)
	}
	return StatusAssignedForDelivery, nil
}

// MarkDelivered transitions AssignedForDelivery -> Delivered.
func (s Status) MarkDelivered() (Status, error) {
	if s != StatusAssignedForDelivery {
		return 0, fmt.Errorf("%w: cannot mark delivered from %s", ErrInvalidState, s)
	}
	return StatusDelivered, nil
}

// ConfirmReceipt transitions Delivered -> BuyerConfirmed.
func (s Status) ConfirmReceipt() (Status, error) {
	if s != StatusDelivered {
		return 0, fmt.Errorf("%w: cannot confirm receipt from %s", ErrInvalidState, s)
	}
	return StatusBuyerConfirmed, nil
}

// Cancel transitions any pre-delivery status -> Cancelled. Once the courier
// attested delivery the order can no longer be aborted.
func (s Status) Cancel() (Status, error) {
	if s != StatusPending && s != StatusPaymentConfirmed && s != StatusAssignedForDelivery {
		return 0, fmt.Errorf("%w: cannot cancel from %s", ErrInvalidState, s)
	}
	return StatusCancelled, nil
}
