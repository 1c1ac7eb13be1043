package commands_test

import (
	"context"
	"testing"
	"time"

	"marketplace/internal/core/application/usecases/commands"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/core/ports"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockOrderRepository struct{ mock.Mock }

func (m *MockOrderRepository) Add(ctx context.Context, aggregate *order.Order) error {
	args := m.Called(ctx, aggregate)
	return args.Error(0)
}

func (m *MockOrderRepository) Update(
	ctx context.Context, aggregate *order.Order, expectedStatus order.Status,
) error {
	args := m.Called(ctx, aggregate, expectedStatus)
	return args.Error(0)
}

func (m *MockOrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderRepository) GetAllUnassigned(ctx context.Context) ([]*order.Order, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*order.Order), args.Error(1)
}

type MockOutboxRepository struct{ mock.Mock }

func (m *MockOutboxRepository) Add(ctx context.Context, event order.StatusChanged) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *MockOutboxRepository) GetUnpublished(ctx context.Context, limit int) ([]ports.OutboxEvent, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]ports.OutboxEvent), args.Error(1)
}

func (m *MockOutboxRepository) MarkPublished(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockOrderUoW struct{ mock.Mock }

func (m *MockOrderUoW) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockOrderUoW) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockOrderUoW) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockOrderUoW) OrderRepository() ports.OrderRepository {
	args := m.Called()
	return args.Get(0).(ports.OrderRepository)
}

func (m *MockOrderUoW) OutboxRepository() ports.OutboxRepository {
	args := m.Called()
	return args.Get(0).(ports.OutboxRepository)
}

type MockOrderUoWFactory struct{ mock.Mock }

func (m *MockOrderUoWFactory) Create() commands.OrderUoW {
	args := m.Called()
	return args.Get(0).(commands.OrderUoW)
}

type MockPaymentVerifier struct{ mock.Mock }

func (m *MockPaymentVerifier) Verify(
	ctx context.Context, method order.PaymentMethod, reference string,
) (bool, error) {
	args := m.Called(ctx, method, reference)
	return args.Bool(0), args.Error(1)
}

type MockCourierDirectory struct{ mock.Mock }

func (m *MockCourierDirectory) IsEligible(ctx context.Context, courierID kernel.UUID) (bool, error) {
	args := m.Called(ctx, courierID)
	return args.Bool(0), args.Error(1)
}

type MockProductCatalog struct{ mock.Mock }

func (m *MockProductCatalog) IsSellable(ctx context.Context, productID kernel.UUID) (bool, error) {
	args := m.Called(ctx, productID)
	return args.Bool(0), args.Error(1)
}

// testParties bundles the actors around one order.
type testParties struct {
	buyer   order.Actor
	seller  order.Actor
	courier order.Actor
	admin   order.Actor
}

func newTestParties(t *testing.T) testParties {
	t.Helper()
	mk := func(role order.Role) order.Actor {
		a, err := order.NewActor(kernel.NewUUID(), role)
		require.NoError(t, err)
		return a
	}
	return testParties{
		buyer:   mk(order.RoleBuyer),
		seller:  mk(order.RoleSeller),
		courier: mk(order.RoleCourier),
		admin:   mk(order.RoleAdmin),
	}
}

func testLineItems(t *testing.T) []order.LineItem {
	t.Helper()
	unit, err := kernel.MoneyFromString("50")
	require.NoError(t, err)
	item, err := order.NewLineItem(kernel.NewUUID(), 2, unit)
	require.NoError(t, err)
	return []order.LineItem{item}
}

// storedOrder reconstructs a persisted order in the given status for the
// given parties.
func storedOrder(
	t *testing.T,
	p testParties,
	method order.PaymentMethod,
	status order.Status,
	reference *string,
	courierID *kernel.UUID,
) *order.Order {
	t.Helper()

	total, err := kernel.MoneyFromString("100")
	require.NoError(t, err)
	now := time.Now().UTC()

	aggregate, err := order.RestoreOrder(
		kernel.NewUUID(), p.buyer.ID(), p.seller.ID(), courierID,
		testLineItems(t), total, method, reference, status, now, now)
	require.NoError(t, err)
	return aggregate
}
