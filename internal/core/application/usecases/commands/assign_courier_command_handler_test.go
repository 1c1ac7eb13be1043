package commands_test

import (
	"testing"

	"marketplace/internal/core/application/usecases/commands"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/pkg/errs"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestAssignCourierCommandHandler_Handle_SelfClaim(t *testing.T) {
	ctx := t.Context()
	parties := newTestParties(t)
	stored := storedOrder(t, parties, order.PaymentMethodCardGateway, order.StatusPaymentConfirmed, nil, nil)

	cmd, err := commands.NewAssignCourierCommand(stored.ID(), parties.courier, parties.courier.ID())
	require.NoError(t, err)

	directory := new(MockCourierDirectory)
	directory.On("IsEligible", mock.Anything, parties.courier.ID()).Return(true, nil).Once()

	repo := new(MockOrderRepository)
	outbox := new(MockOutboxRepository)
	uow := new(MockOrderUoW)
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(repo).Once(),
		repo.On("Get", mock.Anything, stored.ID()).Return(stored, nil).Once(),
		repo.On("Update", mock.Anything, stored, order.StatusPaymentConfirmed).Return(nil).Once(),
		uow.On("OutboxRepository").Return(outbox).Once(),
		outbox.On("Add", mock.Anything, mock.AnythingOfType("order.StatusChanged")).Return(nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := commands.NewAssignCourierCommandHandler(factory, directory)
	assigned, err := h.Handle(ctx, cmd)
	require.NoError(t, err)
	require.Equal(t, order.StatusAssignedForDelivery, assigned.Status())
	require.NotNil(t, assigned.CourierID())
	require.True(t, assigned.CourierID().IsEqual(parties.courier.ID()))

	directory.AssertExpectations(t)
	repo.AssertExpectations(t)
	uow.AssertExpectations(t)
}

func TestAssignCourierCommandHandler_Handle_IneligibleCourier(t *testing.T) {
	ctx := t.Context()
	parties := newTestParties(t)
	courierID := kernel.NewUUID()

	cmd, err := commands.NewAssignCourierCommand(kernel.NewUUID(), parties.admin, courierID)
	require.NoError(t, err)

	directory := new(MockCourierDirectory)
	directory.On("IsEligible", mock.Anything, courierID).Return(false, nil).Once()

	factory := new(MockOrderUoWFactory)
	h := commands.NewAssignCourierCommandHandler(factory, directory)
	_, err = h.Handle(ctx, cmd)
	require.ErrorIs(t, err, order.ErrForbidden)
	factory.AssertNotCalled(t, "Create")
}

func TestAssignCourierCommandHandler_Handle_LostRace(t *testing.T) {
	ctx := t.Context()
	parties := newTestParties(t)
	stored := storedOrder(t, parties, order.PaymentMethodCardGateway, order.StatusPaymentConfirmed, nil, nil)

	cmd, err := commands.NewAssignCourierCommand(stored.ID(), parties.courier, parties.courier.ID())
	require.NoError(t, err)

	directory := new(MockCourierDirectory)
	directory.On("IsEligible", mock.Anything, parties.courier.ID()).Return(true, nil).Once()

	repo := new(MockOrderRepository)
	uow := new(MockOrderUoW)
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(repo).Once(),
		repo.On("Get", mock.Anything, stored.ID()).Return(stored, nil).Once(),
		repo.On("Update", mock.Anything, stored, order.StatusPaymentConfirmed).
			Return(errs.NewConcurrencyConflictError("order", stored.ID().String())).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := commands.NewAssignCourierCommandHandler(factory, directory)
	_, err = h.Handle(ctx, cmd)
	require.ErrorIs(t, err, order.ErrAlreadyAssigned)
	uow.AssertNotCalled(t, "Commit")
}

func TestAssignCourierCommandHandler_Handle_AlreadyAssigned(t *testing.T) {
	ctx := t.Context()
	parties := newTestParties(t)
	firstCourier := parties.courier.ID()
	stored := storedOrder(t, parties, order.PaymentMethodCardGateway, order.StatusAssignedForDelivery, nil, &firstCourier)

	second, err := order.NewActor(kernel.NewUUID(), order.RoleCourier)
	require.NoError(t, err)
	cmd, err := commands.NewAssignCourierCommand(stored.ID(), second, second.ID())
	require.NoError(t, err)

	directory := new(MockCourierDirectory)
	directory.On("IsEligible", mock.Anything, second.ID()).Return(true, nil).Once()

	repo := new(MockOrderRepository)
	uow := new(MockOrderUoW)
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(repo).Once(),
		repo.On("Get", mock.Anything, stored.ID()).Return(stored, nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := commands.NewAssignCourierCommandHandler(factory, directory)
	_, err = h.Handle(ctx, cmd)
	require.ErrorIs(t, err, order.ErrAlreadyAssigned)
	repo.AssertNotCalled(t, "Update")
}

func TestAssignCourierCommandHandler_Handle_OrderNotFound(t *testing.T) {
	ctx := t.Context()
	parties := newTestParties(t)
	orderID := kernel.NewUUID()

	cmd, err := commands.NewAssignCourierCommand(orderID, parties.courier, parties.courier.ID())
	require.NoError(t, err)

	directory := new(MockCourierDirectory)
	directory.On("IsEligible", mock.Anything, parties.courier.ID()).Return(true, nil).Once()

	repo := new(MockOrderRepository)
	uow := new(MockOrderUoW)
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(repo).Once(),
		repo.On("Get", mock.Anything, orderID).
			Return(nil, errs.NewObjectNotFoundError("orderID", orderID.String())).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := commands.NewAssignCourierCommandHandler(factory, directory)
	_, err = h.Handle(ctx, cmd)
	require.ErrorIs(t, err, errs.ErrObjectNotFound)
}
