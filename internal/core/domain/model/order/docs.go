// Package order implements the order fulfillment aggregate: the canonical
// status of a marketplace purchase and the guarded transitions it goes through
// from checkout to settlement or cancellation.
//
// The package includes:
//   - Order: the aggregate root owning identity, parties, line items, the
//     frozen total and the status variable
//   - Status: the state machine (pending -> payment_confirmed ->
//     assigned_for_delivery -> delivered -> buyer_confirmed, with cancelled
//     reachable from any pre-delivery state)
//   - Actor/Role: the requesting party; each edge belongs to exactly one role
//   - LineItem, PaymentMethod, StatusChanged
//
// Key business rules:
//   - totals are computed once at creation and never recomputed
//   - delivered means courier attestation only; settlement requires the
//     buyer's explicit receipt confirmation
//   - courier assignment happens at most once; concurrent claims are resolved
//     by the repository's compare-and-set, the loser sees ErrAlreadyAssigned
package order
