package queries

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GetOrderQueryHandler reads one order straight from the database, bypassing
// the aggregate layer.
type GetOrderQueryHandler struct {
	db *gorm.DB
}

// NewGetOrderQueryHandler creates a handler for single-order reads.
func NewGetOrderQueryHandler(db *gorm.DB) GetOrderQueryHandler {
	return GetOrderQueryHandler{db: db}
}

// Handle loads the order row and its line items.
func (h GetOrderQueryHandler) Handle(ctx context.Context, query GetOrderQuery) (GetOrderQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetOrderQueryResponse{}, err
	}

	var (
		id, buyerID, sellerID uuid.UUID
		courierID             uuid.NullUUID
		totalPrice            string
		paymentMethod         string
		paymentReference      sql.NullString
		status                string
		createdAt             time.Time
		statusUpdatedAt       time.Time
	)

	row := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			buyer_id,
			seller_id,
			courier_id,
			total_price,
			payment_method,
			payment_reference,
			status,
			created_at,
			status_updated_at
		FROM orders
		WHERE id = ?
	`, query.OrderID().Bytes()).Row()

	err := row.Scan(
		&id, &buyerID, &sellerID, &courierID,
		&totalPrice, &paymentMethod, &paymentReference,
		&status, &createdAt, &statusUpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return GetOrderQueryResponse{}, errs.NewObjectNotFoundError("orderID", query.OrderID())
	}
	if err != nil {
		return GetOrderQueryResponse{}, err
	}

	resp, err := mapOrderRow(
		id, buyerID, sellerID, courierID,
		totalPrice, paymentMethod, paymentReference,
		status, createdAt, statusUpdatedAt,
	)
	if err != nil {
		return GetOrderQueryResponse{}, err
	}

	resp.LineItems, err = h.loadLineItems(ctx, query.OrderID())
	if err != nil {
		return GetOrderQueryResponse{}, err
	}

	return resp, nil
}

func (h GetOrderQueryHandler) loadLineItems(ctx context.Context, orderID kernel.UUID) ([]LineItemView, error) {
	items := make([]LineItemView, 0)

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			product_id,
			quantity,
			unit_price
		FROM order_line_items
		WHERE order_id = ?
		ORDER BY id
	`, orderID.Bytes()).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			productID uuid.UUID
			quantity  int
			unitPrice string
		)
		if err = rows.Scan(&productID, &quantity, &unitPrice); err != nil {
			return nil, err
		}

		pid, idErr := kernel.UUIDFromBytes(productID[:])
		if idErr != nil {
			return nil, idErr
		}
		price, priceErr := kernel.MoneyFromString(unitPrice)
		if priceErr != nil {
			return nil, priceErr
		}

		items = append(items, LineItemView{ProductID: pid, Quantity: quantity, UnitPrice: price})
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return items, nil
}

func mapOrderRow(
	id, buyerID, sellerID uuid.UUID,
	courierID uuid.NullUUID,
	totalPrice, paymentMethod string,
	paymentReference sql.NullString,
	status string,
	createdAt, statusUpdatedAt time.Time,
) (GetOrderQueryResponse, error) {
	var resp GetOrderQueryResponse

	orderID, err := kernel.UUIDFromBytes(id[:])
	if err != nil {
		return resp, err
	}
	buyer, err := kernel.UUIDFromBytes(buyerID[:])
	if err != nil {
		return resp, err
	}
	seller, err := kernel.UUIDFromBytes(sellerID[:])
	if err != nil {
		return resp, err
	}

	total, err := kernel.MoneyFromString(totalPrice)
	if err != nil {
		return resp, err
	}
	method, err := order.PaymentMethodFromString(paymentMethod)
	if err != nil {
		return resp, err
	}
	orderStatus, err := order.StatusFromString(status)
	if err != nil {
		return resp, err
	}

	resp = GetOrderQueryResponse{
		ID:              orderID,
		BuyerID:         buyer,
		SellerID:        seller,
		TotalPrice:      total,
		PaymentMethod:   method,
		Status:          orderStatus,
		CreatedAt:       createdAt,
		StatusUpdatedAt: statusUpdatedAt,
	}

	if courierID.Valid {
		courier, courierErr := kernel.UUIDFromBytes(courierID.UUID[:])
		if courierErr != nil {
			return resp, courierErr
		}
		resp.CourierID = &courier
	}
	if paymentReference.Valid {
		reference := paymentReference.String
		resp.PaymentReference = &reference
	}

	return resp, nil
}
