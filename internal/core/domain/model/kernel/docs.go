// Package kernel provides shared value objects for the fulfillment domain.
//
// It contains:
//   - UUID: identity value object used for orders, parties and products
//   - Money: exact non-negative decimal amount used for prices and totals
//
// Both types are immutable and safe for concurrent use.
package kernel
