// Package http exposes the fulfillment ledger over REST. The adapter is
// thin: it parses requests into commands and queries, dispatches, and maps
// error kinds to stable HTTP responses.
package http

import (
	"errors"
	"net/http"
	"time"

	"marketplace/internal/core/application/usecases/commands"
	"marketplace/internal/core/application/usecases/queries"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

// Server wires the HTTP routes to the application layer.
type Server struct {
	createOrderHandler            commands.CreateOrderCommandHandler
	submitPaymentReferenceHandler commands.SubmitPaymentReferenceCommandHandler
	confirmPaymentHandler         commands.ConfirmPaymentCommandHandler
	assignCourierHandler          commands.AssignCourierCommandHandler
	markDeliveredHandler          commands.MarkDeliveredCommandHandler
	confirmReceiptHandler         commands.ConfirmReceiptCommandHandler
	cancelOrderHandler            commands.CancelOrderCommandHandler

	getOrderHandler            queries.GetOrderQueryHandler
	getUnassignedOrdersHandler queries.GetUnassignedOrdersQueryHandler
}

// NewServer creates an HTTP server with the required command and query
// handlers.
func NewServer(
	createOrderHandler commands.CreateOrderCommandHandler,
	submitPaymentReferenceHandler commands.SubmitPaymentReferenceCommandHandler,
	confirmPaymentHandler commands.ConfirmPaymentCommandHandler,
	assignCourierHandler commands.AssignCourierCommandHandler,
	markDeliveredHandler commands.MarkDeliveredCommandHandler,
	confirmReceiptHandler commands.ConfirmReceiptCommandHandler,
	cancelOrderHandler commands.CancelOrderCommandHandler,
	getOrderHandler queries.GetOrderQueryHandler,
	getUnassignedOrdersHandler queries.GetUnassignedOrdersQueryHandler,
) *Server {
	return &Server{
		createOrderHandler:            createOrderHandler,
		submitPaymentReferenceHandler: submitPaymentReferenceHandler,
		confirmPaymentHandler:         confirmPaymentHandler,
		assignCourierHandler:          assignCourierHandler,
		markDeliveredHandler:          markDeliveredHandler,
		confirmReceiptHandler:         confirmReceiptHandler,
		cancelOrderHandler:            cancelOrderHandler,
		getOrderHandler:               getOrderHandler,
		getUnassignedOrdersHandler:    getUnassignedOrdersHandler,
	}
}

// RegisterRoutes mounts all routes under /api/v1.
func (s *Server) RegisterRoutes(e *echo.Echo) {
	e.GET("/health", s.Health)

	v1 := e.Group("/api/v1")
	v1.POST("/orders", s.CreateOrder)
	v1.GET("/orders/unassigned", s.GetUnassignedOrders)
	v1.GET("/orders/:id", s.GetOrder)
	v1.POST("/orders/:id/payment-reference", s.SubmitPaymentReference)
	v1.PATCH("/orders/:id/confirm-payment", s.ConfirmPayment)
	v1.PATCH("/orders/:id/assign", s.AssignCourier)
	v1.PATCH("/orders/:id/complete", s.MarkDelivered)
	v1.POST("/orders/:id/buyer-confirm", s.ConfirmReceipt)
	v1.PATCH("/orders/:id/cancel", s.CancelOrder)
}

// Health handles GET /health.
func (s *Server) Health(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

type errorResponse struct {
	ErrorKind string `json:"errorKind"`
	Message   string `json:"message"`
}

type lineItemView struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
	UnitPrice string `json:"unitPrice"`
}

type orderView struct {
	ID               string         `json:"id"`
	BuyerID          string         `json:"buyerId"`
	SellerID         string         `json:"sellerId"`
	CourierID        *string        `json:"courierId,omitempty"`
	LineItems        []lineItemView `json:"lineItems"`
	TotalPrice       string         `json:"totalPrice"`
	PaymentMethod    string         `json:"paymentMethod"`
	PaymentReference *string        `json:"paymentReference,omitempty"`
	Status           string         `json:"status"`
	CreatedAt        time.Time      `json:"createdAt"`
	StatusUpdatedAt  time.Time      `json:"statusUpdatedAt"`
}

type orderEnvelope struct {
	Status string    `json:"status"`
	Order  orderView `json:"order"`
}

type createOrderRequest struct {
	SellerID      string `json:"sellerId"`
	PaymentMethod string `json:"paymentMethod"`
	LineItems     []struct {
		ProductID string `json:"productId"`
		Quantity  int    `json:"quantity"`
		UnitPrice string `json:"unitPrice"`
	} `json:"lineItems"`
}

type paymentReferenceRequest struct {
	Reference string `json:"reference"`
}

type assignCourierRequest struct {
	CourierID string `json:"courierId"`
}

// CreateOrder handles POST /api/v1/orders.
func (s *Server) CreateOrder(ctx echo.Context) error {
	actor, err := actorFromRequest(ctx)
	if err != nil {
		return badRequest(ctx, err)
	}

	var req createOrderRequest
	if err = ctx.Bind(&req); err != nil {
		return badRequest(ctx, err)
	}

	sellerID, err := kernel.UUIDFromString(req.SellerID)
	if err != nil {
		return badRequest(ctx, err)
	}
	method, err := order.PaymentMethodFromString(req.PaymentMethod)
	if err != nil {
		return badRequest(ctx, err)
	}

	items := make([]order.LineItem, 0, len(req.LineItems))
	for _, item := range req.LineItems {
		productID, itemErr := kernel.UUIDFromString(item.ProductID)
		if itemErr != nil {
			return badRequest(ctx, itemErr)
		}
		unitPrice, priceErr := kernel.MoneyFromString(item.UnitPrice)
		if priceErr != nil {
			return badRequest(ctx, priceErr)
		}
		lineItem, lineErr := order.NewLineItem(productID, item.Quantity, unitPrice)
		if lineErr != nil {
			return badRequest(ctx, lineErr)
		}
		items = append(items, lineItem)
	}

	cmd, err := commands.NewCreateOrderCommand(kernel.NewUUID(), actor, sellerID, items, method)
	if err != nil {
		return badRequest(ctx, err)
	}

	created, err := s.createOrderHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return writeError(ctx, err)
	}

	return ctx.JSON(http.StatusCreated, envelope(created))
}

// SubmitPaymentReference handles POST /api/v1/orders/:id/payment-reference.
func (s *Server) SubmitPaymentReference(ctx echo.Context) error {
	actor, orderID, err := actorAndOrderID(ctx)
	if err != nil {
		return badRequest(ctx, err)
	}

	var req paymentReferenceRequest
	if err = ctx.Bind(&req); err != nil {
		return badRequest(ctx, err)
	}

	cmd, err := commands.NewSubmitPaymentReferenceCommand(orderID, actor, req.Reference)
	if err != nil {
		return badRequest(ctx, err)
	}

	updated, err := s.submitPaymentReferenceHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return writeError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, envelope(updated))
}

// ConfirmPayment handles PATCH /api/v1/orders/:id/confirm-payment.
func (s *Server) ConfirmPayment(ctx echo.Context) error {
	actor, orderID, err := actorAndOrderID(ctx)
	if err != nil {
		return badRequest(ctx, err)
	}

	cmd, err := commands.NewConfirmPaymentCommand(orderID, actor)
	if err != nil {
		return badRequest(ctx, err)
	}

	confirmed, err := s.confirmPaymentHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return writeError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, envelope(confirmed))
}

// AssignCourier handles PATCH /api/v1/orders/:id/assign. Without a body the
// acting courier claims the order for themself; seller or admin push a
// specific courier id.
func (s *Server) AssignCourier(ctx echo.Context) error {
	actor, orderID, err := actorAndOrderID(ctx)
	if err != nil {
		return badRequest(ctx, err)
	}

	courierID := actor.ID()
	var req assignCourierRequest
	if bindErr := ctx.Bind(&req); bindErr == nil && req.CourierID != "" {
		courierID, err = kernel.UUIDFromString(req.CourierID)
		if err != nil {
			return badRequest(ctx, err)
		}
	}

	cmd, err := commands.NewAssignCourierCommand(orderID, actor, courierID)
	if err != nil {
		return badRequest(ctx, err)
	}

	assigned, err := s.assignCourierHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return writeError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, envelope(assigned))
}

// MarkDelivered handles PATCH /api/v1/orders/:id/complete.
func (s *Server) MarkDelivered(ctx echo.Context) error {
	actor, orderID, err := actorAndOrderID(ctx)
	if err != nil {
		return badRequest(ctx, err)
	}

	cmd, err := commands.NewMarkDeliveredCommand(orderID, actor)
	if err != nil {
		return badRequest(ctx, err)
	}

	delivered, err := s.markDeliveredHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return writeError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, envelope(delivered))
}

// ConfirmReceipt handles POST /api/v1/orders/:id/buyer-confirm.
func (s *Server) ConfirmReceipt(ctx echo.Context) error {
	actor, orderID, err := actorAndOrderID(ctx)
	if err != nil {
		return badRequest(ctx, err)
	}

	cmd, err := commands.NewConfirmReceiptCommand(orderID, actor)
	if err != nil {
		return badRequest(ctx, err)
	}

	confirmed, err := s.confirmReceiptHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return writeError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, envelope(confirmed))
}

// CancelOrder handles PATCH /api/v1/orders/:id/cancel.
func (s *Server) CancelOrder(ctx echo.Context) error {
	actor, orderID, err := actorAndOrderID(ctx)
	if err != nil {
		return badRequest(ctx, err)
	}

	cmd, err := commands.NewCancelOrderCommand(orderID, actor)
	if err != nil {
		return badRequest(ctx, err)
	}

	cancelled, err := s.cancelOrderHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return writeError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, envelope(cancelled))
}

// GetOrder handles GET /api/v1/orders/:id.
func (s *Server) GetOrder(ctx echo.Context) error {
	orderID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return badRequest(ctx, err)
	}

	query, err := queries.NewGetOrderQuery(orderID)
	if err != nil {
		return badRequest(ctx, err)
	}

	resp, err := s.getOrderHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return writeError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, orderEnvelope{
		Status: resp.Status.String(),
		Order:  viewFromQueryResponse(resp),
	})
}

type unassignedOrderView struct {
	ID         string    `json:"id"`
	SellerID   string    `json:"sellerId"`
	TotalPrice string    `json:"totalPrice"`
	CreatedAt  time.Time `json:"createdAt"`
}

// GetUnassignedOrders handles GET /api/v1/orders/unassigned.
func (s *Server) GetUnassignedOrders(ctx echo.Context) error {
	query := queries.NewGetUnassignedOrdersQuery()

	backlog, err := s.getUnassignedOrdersHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return writeError(ctx, err)
	}

	views := make([]unassignedOrderView, 0, len(backlog))
	for _, entry := range backlog {
		views = append(views, unassignedOrderView{
			ID:         entry.ID.String(),
			SellerID:   entry.SellerID.String(),
			TotalPrice: entry.TotalPrice.String(),
			CreatedAt:  entry.CreatedAt,
		})
	}

	return ctx.JSON(http.StatusOK, map[string][]unassignedOrderView{"orders": views})
}

func actorAndOrderID(ctx echo.Context) (order.Actor, kernel.UUID, error) {
	actor, err := actorFromRequest(ctx)
	if err != nil {
		return order.Actor{}, kernel.UUID{}, err
	}

	orderID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return order.Actor{}, kernel.UUID{}, err
	}

	return actor, orderID, nil
}

// actorFromRequest builds the acting party from the X-Actor-Id and
// X-Actor-Role headers. Identity is assumed authenticated upstream.
func actorFromRequest(ctx echo.Context) (order.Actor, error) {
	id, err := kernel.UUIDFromString(ctx.Request().Header.Get("X-Actor-Id"))
	if err != nil {
		return order.Actor{}, err
	}

	role, err := order.RoleFromString(ctx.Request().Header.Get("X-Actor-Role"))
	if err != nil {
		return order.Actor{}, err
	}

	return order.NewActor(id, role)
}

func envelope(aggregate *order.Order) orderEnvelope {
	return orderEnvelope{
		Status: aggregate.Status().String(),
		Order:  viewFromAggregate(aggregate),
	}
}

func viewFromAggregate(aggregate *order.Order) orderView {
	items := make([]lineItemView, 0, len(aggregate.LineItems()))
	for _, item := range aggregate.LineItems() {
		items = append(items, lineItemView{
			ProductID: item.ProductID().String(),
			Quantity:  item.Quantity(),
			UnitPrice: item.UnitPrice().String(),
		})
	}

	var courierID *string
	if id := aggregate.CourierID(); id != nil {
		s := id.String()
		courierID = &s
	}

	return orderView{
		ID:               aggregate.ID().String(),
		BuyerID:          aggregate.BuyerID().String(),
		SellerID:         aggregate.SellerID().String(),
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

func viewFromQueryResponse(resp queries.GetOrderQueryResponse) orderView {
	items := make([]lineItemView, 0, len(resp.LineItems))
	for _, item := range resp.LineItems {
		items = append(items, lineItemView{
			ProductID: item.ProductID.String(),
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice.String(),
		})
	}

	var courierID *string
	if resp.CourierID != nil {
		s := resp.CourierID.String()
		courierID = &s
	}

	return orderView{
		ID:               resp.ID.String(),
		BuyerID:          resp.BuyerID.String(),
		SellerID:         resp.SellerID.String(),
		CourierID:        courierID,
		LineItems:        items,
		TotalPrice:       resp.TotalPrice.String(),
		PaymentMethod:    resp.PaymentMethod.String(),
		PaymentReference: resp.PaymentReference,
		Status:           resp.Status.String(),
		CreatedAt:        resp.CreatedAt,
		StatusUpdatedAt:  resp.StatusUpdatedAt,
	}
}

func badRequest(ctx echo.Context, err error) error {
	return ctx.JSON(http.StatusBadRequest, errorResponse{
		ErrorKind: "BadRequest",
		Message:   err.Error(),
	})
}

// writeError maps the error taxonomy to stable errorKind strings and HTTP
// status codes. AlreadyAssigned is checked before InvalidState; a lost
// assignment race wraps both concerns but reports as AlreadyAssigned.
func writeError(ctx echo.Context, err error) error {
	var kind string
	var status int

	switch {
	case errors.Is(err, order.ErrForbidden):
		kind, status = "Forbidden", http.StatusForbidden
	case errors.Is(err, order.ErrAlreadyAssigned):
		kind, status = "AlreadyAssigned", http.StatusConflict
	case errors.Is(err, order.ErrInvalidState):
		kind, status = "InvalidState", http.StatusConflict
	case errors.Is(err, order.ErrInvalidLineItems):
		kind, status = "InvalidLineItems", http.StatusBadRequest
	case errors.Is(err, order.ErrPaymentNotVerified):
		kind, status = "PaymentNotVerified", http.StatusUnprocessableEntity
	case errors.Is(err, errs.ErrObjectNotFound):
		kind, status = "NotFound", http.StatusNotFound
	case errors.Is(err, errs.ErrValueIsInvalid),
		errors.Is(err, errs.ErrValueIsRequired),
		errors.Is(err, errs.ErrValueIsOutOfRange):
		kind, status = "BadRequest", http.StatusBadRequest
	default:
		kind, status = "Internal", http.StatusInternalServerError
	}

	return ctx.JSON(status, errorResponse{ErrorKind: kind, Message: err.Error()})
}
