package order

import (
	"errors"
	"fmt"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/errs"
)

// ErrLineItemIsNotConstructed is returned when a LineItem was not created
// through the NewLineItem constructor.
var ErrLineItemIsNotConstructed = errors.New("LineItem must be created via NewLineItem constructor")

// LineItem is one position of an order: a product, how many units, and the
// unit price captured at checkout. Line items are immutable after order
// creation; price edits by the seller never reach existing orders.
type LineItem struct {
	productID kernel.UUID
	quantity  int
	unitPrice kernel.Money

	isConstructed bool
}

// NewLineItem creates a validated line item. Quantity must be positive.
func NewLineItem(productID kernel.UUID, quantity int, unitPrice kernel.Money) (LineItem, error) {
	if err := productID.Validate(); err != nil {
		return LineItem{}, err
	}
	if quantity <= 0 {
		return LineItem{}, errs.NewValueIsInvalidErrorWithCause("quantity",
			fmt.Errorf("%d is not greater than 0", quantity))
	}

	return LineItem{
		productID:     productID,
		quantity:      quantity,
		unitPrice:     unitPrice,
		isConstructed: true,
	}, nil
}

// Validate ensures the line item was created via NewLineItem.
func (li LineItem) Validate() error {
	if !li.isConstructed {
		return ErrLineItemIsNotConstructed
	}
	return nil
}

// ProductID returns the referenced product.
func (li LineItem) ProductID() kernel.UUID {
	return li.productID
}

// Quantity returns the number of units.
func (li LineItem) Quantity() int {
	return li.quantity
}

// UnitPrice returns the per-unit price captured at checkout.
func (li LineItem) UnitPrice() kernel.Money {
	return li.unitPrice
}

// Subtotal returns quantity times unit price.
func (li LineItem) Subtotal() kernel.Money {
	return li.unitPrice.MulInt(li.quantity)
}
