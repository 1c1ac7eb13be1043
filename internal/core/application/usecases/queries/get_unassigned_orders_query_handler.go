package queries

import (
	"context"
	"time"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GetUnassignedOrdersQueryHandler retrieves the courier assignment backlog
// from the database. Only payment-confirmed orders without a courier qualify.
type GetUnassignedOrdersQueryHandler struct {
	db *gorm.DB
}

// NewGetUnassignedOrdersQueryHandler creates a handler for backlog queries.
func NewGetUnassignedOrdersQueryHandler(db *gorm.DB) GetUnassignedOrdersQueryHandler {
	return GetUnassignedOrdersQueryHandler{db: db}
}

// Handle returns the backlog oldest-first, so couriers see the orders that
// have waited longest.
func (h GetUnassignedOrdersQueryHandler) Handle(
	ctx context.Context,
	query GetUnassignedOrdersQuery,
) ([]GetUnassignedOrdersQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	orders := make([]GetUnassignedOrdersQueryResponse, 0)

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			seller_id,
			total_price,
			created_at
		FROM orders
		WHERE status = ? AND courier_id IS NULL
		ORDER BY created_at
	`, order.StatusPaymentConfirmed.String()).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			id, sellerID uuid.UUID
			totalPrice   string
			createdAt    time.Time
		)
		if err = rows.Scan(&id, &sellerID, &totalPrice, &createdAt); err != nil {
			return nil, err
		}

		orderID, idErr := kernel.UUIDFromBytes(id[:])
		if idErr != nil {
			return nil, idErr
		}
		seller, sellerErr := kernel.UUIDFromBytes(sellerID[:])
		if sellerErr != nil {
			return nil, sellerErr
		}
		total, totalErr := kernel.MoneyFromString(totalPrice)
		if totalErr != nil {
			return nil, totalErr
		}

		orders = append(orders, GetUnassignedOrdersQueryResponse{
			ID:         orderID,
			SellerID:   seller,
			TotalPrice: total,
			CreatedAt:  createdAt,
		})
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return orders, nil
}
