// Package orderrepo persists order aggregates with GORM, mapping between the
// domain model and its relational representation.
package orderrepo

import (
	"time"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"

	"github.com/google/uuid"
)

// OrderDTO is the database row for one order. Monetary amounts are stored as
// decimals in their string form to avoid float rounding.
type OrderDTO struct {
	ID               uuid.UUID     `gorm:"type:uuid;primaryKey"`
	BuyerID          uuid.UUID     `gorm:"type:uuid;index"`
	SellerID         uuid.UUID     `gorm:"type:uuid;index"`
	CourierID        *uuid.UUID    `gorm:"type:uuid;index"`
	LineItems        []LineItemDTO `gorm:"foreignKey:OrderID;references:ID"`
	TotalPrice       string        `gorm:"type:decimal(14,2)"`
	PaymentMethod    string        `gorm:"type:varchar(32)"`
	PaymentReference *string       `gorm:"type:varchar(128)"`
	Status           string        `gorm:"type:varchar(32);index"`
	CreatedAt        time.Time
	StatusUpdatedAt  time.Time
}

// TableName overrides GORM's default naming to use "orders".
func (OrderDTO) TableName() string {
	return "orders"
}

// LineItemDTO is one checkout position. Rows are written once at order
// creation and never updated.
type LineItemDTO struct {
	ID        int64     `gorm:"primaryKey;autoIncrement"`
	OrderID   uuid.UUID `gorm:"type:uuid;index"`
	ProductID uuid.UUID `gorm:"type:uuid"`
	Quantity  int
	UnitPrice string `gorm:"type:decimal(14,2)"`
}

// TableName overrides GORM's default naming to use "order_line_items".
func (LineItemDTO) TableName() string {
	return "order_line_items"
}

func fromDomain(aggregate *order.Order) OrderDTO {
	var courierID *uuid.UUID
	if id := aggregate.CourierID(); id != nil {
		raw := id.Bytes()
		courierID = &raw
	}

	items := make([]LineItemDTO, 0, len(aggregate.LineItems()))
	for _, item := range aggregate.LineItems() {
		items = append(items, LineItemDTO{
			OrderID:   aggregate.ID().Bytes(),
			ProductID: item.ProductID().Bytes(),
			Quantity:  item.Quantity(),
			UnitPrice: item.UnitPrice().String(),
		})
	}

	return OrderDTO{
		ID:               aggregate.ID().Bytes(),
		BuyerID:          aggregate.BuyerID().Bytes(),
		SellerID:         aggregate.SellerID().Bytes(),
		CourierID:        courierID,
		LineItems:        items,
		TotalPrice:       aggregate.TotalPrice().String(),
		PaymentMethod:    aggregate.PaymentMethod().String(),
		PaymentReference: aggregate.PaymentReference(),
		Status:           aggregate.Status().String(),
		CreatedAt:        aggregate.CreatedAt(),
		StatusUpdatedAt:  aggregate.StatusUpdatedAt(),
	}
}

func toDomain(dto OrderDTO) (*order.Order, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	buyerID, err := kernel.UUIDFromBytes(dto.BuyerID[:])
	if err != nil {
		return nil, err
	}
	sellerID, err := kernel.UUIDFromBytes(dto.SellerID[:])
	if err != nil {
		return nil, err
	}

	var courierID *kernel.UUID
	if dto.CourierID != nil {
		cID, courierErr := kernel.UUIDFromBytes((*dto.CourierID)[:])
		if courierErr != nil {
			return nil, courierErr
		}
		courierID = &cID
	}

	items := make([]order.LineItem, 0, len(dto.LineItems))
	for _, itemDTO := range dto.LineItems {
		productID, itemErr := kernel.UUIDFromBytes(itemDTO.ProductID[:])
		if itemErr != nil {
			return nil, itemErr
		}
		unitPrice, priceErr := kernel.MoneyFromString(itemDTO.UnitPrice)
		if priceErr != nil {
			return nil, priceErr
		}
		item, lineErr := order.NewLineItem(productID, itemDTO.Quantity, unitPrice)
		if lineErr != nil {
			return nil, lineErr
		}
		items = append(items, item)
	}

	totalPrice, err := kernel.MoneyFromString(dto.TotalPrice)
	if err != nil {
		return nil, err
	}
	paymentMethod, err := order.PaymentMethodFromString(dto.PaymentMethod)
	if err != nil {
		return nil, err
	}
	status, err := order.StatusFromString(dto.Status)
	if err != nil {
		return nil, err
	}

	return order.RestoreOrder(
		id, buyerID, sellerID, courierID,
		items, totalPrice, paymentMethod, dto.PaymentReference,
		status, dto.CreatedAt, dto.StatusUpdatedAt,
	)
}
