package queries

import (
	"errors"
	"time"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/pkg/guard"
)

var ErrGetOrderQueryIsNotConstructed = errors.New(
	"GetOrderQuery must be created via NewGetOrderQuery constructor",
)

// GetOrderQuery retrieves a single order with its line items.
type GetOrderQuery struct {
	orderID kernel.UUID

	guard guard.ConstructorGuard
}

// NewGetOrderQuery creates a query for one order.
func NewGetOrderQuery(orderID kernel.UUID) (GetOrderQuery, error) {
	if err := orderID.Validate(); err != nil {
		return GetOrderQuery{}, err
	}

	return GetOrderQuery{orderID: orderID, guard: guard.NewConstructorGuard()}, nil
}

// Validate ensures the query was created through the constructor.
func (q GetOrderQuery) Validate() error {
	return q.guard.Validate(ErrGetOrderQueryIsNotConstructed)
}

// OrderID returns the requested order identifier.
func (q GetOrderQuery) OrderID() kernel.UUID {
	return q.orderID
}

// LineItemView is one checkout position in a read model.
type LineItemView struct {
	ProductID kernel.UUID
	Quantity  int
	UnitPrice kernel.Money
}

// GetOrderQueryResponse is the full read model of one order.
type GetOrderQueryResponse struct {
	ID               kernel.UUID
	BuyerID          kernel.UUID
	SellerID         kernel.UUID
	CourierID        *kernel.UUID
	LineItems        []LineItemView
	TotalPrice       kernel.Money
	PaymentMethod    order.PaymentMethod
	PaymentReference *string
	Status           order.Status
	CreatedAt        time.Time
	StatusUpdatedAt  time.Time
}
