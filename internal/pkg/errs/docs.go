// Package errs provides standardized error types for the marketplace
// fulfillment service.
//
// Each error type follows a consistent pattern:
//   - A sentinel error variable (e.g. ErrObjectNotFound) used with errors.Is
//   - A struct type carrying the error details
//   - Constructor functions with and without a cause
//   - Error() for formatting and Unwrap() returning the sentinel
//
// The concrete types cover the generic failure modes of the service: missing
// values, invalid values, out-of-range values, lookups that found nothing, and
// compare-and-set updates that lost a race to a concurrent actor. Domain
// specific failures (forbidden transitions, invalid order states) live next to
// the aggregates that raise them and follow the same sentinel pattern.
package errs
