package commands_test

import (
	"context"
	"testing"
	"time"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/model/shipment"
	"fulfillment/internal/core/ports"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockOrderRepository struct{ mock.Mock }

func (m *MockOrderRepository) Add(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOrderRepository) Update(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderRepository) GetAllAwaitingTrackingRefresh(
	ctx context.Context,
	updatedBefore time.Time,
) ([]*order.Order, error) {
	args := m.Called(ctx, updatedBefore)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*order.Order), args.Error(1)
}

type MockUoW struct{ mock.Mock }

func (m *MockUoW) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) OrderRepository() ports.OrderRepository {
	args := m.Called()
	return args.Get(0).(ports.OrderRepository)
}

type MockUoWFactory struct{ mock.Mock }

func (m *MockUoWFactory) Create() commands.UoW {
	args := m.Called()
	return args.Get(0).(commands.UoW)
}

type MockCarrierGateway struct{ mock.Mock }

func (m *MockCarrierGateway) CreateLabel(
	ctx context.Context,
	req ports.CreateLabelRequest,
) (ports.CreateLabelResponse, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(ports.CreateLabelResponse), args.Error(1)
}

func (m *MockCarrierGateway) FetchTracking(
	ctx context.Context,
	trackingNumber, carrier string,
) (shipment.TrackingSnapshot, error) {
	args := m.Called(ctx, trackingNumber, carrier)
	return args.Get(0).(shipment.TrackingSnapshot), args.Error(1)
}

func testAddress(t *testing.T) order.Address {
	t.Helper()
	addr, err := order.NewAddress("Jane Smith", "12 Market St", "", "Portland", "OR", "97201", "US", "+1-555-0100")
	require.NoError(t, err)
	return addr
}

func testCharges(t *testing.T) order.Charges {
	t.Helper()
	subtotal, err := kernel.NewMoney(12900)
	require.NoError(t, err)
	shipping, err := kernel.NewMoney(900)
	require.NoError(t, err)
	tax, err := kernel.NewMoney(1000)
	require.NoError(t, err)
	discount, err := kernel.NewMoney(0)
	require.NoError(t, err)
	total, err := kernel.NewMoney(14800)
	require.NoError(t, err)

	return order.Charges{
		Subtotal:     subtotal,
		ShippingCost: shipping,
		Tax:          tax,
		Discount:     discount,
		Total:        total,
	}
}

// newTestOrder builds a pending order with one line item.
func newTestOrder(t *testing.T, id kernel.UUID) *order.Order {
	t.Helper()

	unitPrice, err := kernel.NewMoney(12900)
	require.NoError(t, err)
	item, err := order.NewLineItem(kernel.NewUUID(), "Gold Band Ring", 1, unitPrice, unitPrice)
	require.NoError(t, err)

	o, err := order.NewOrder(
		id,
		"ORD-1042",
		[]order.LineItem{item},
		testAddress(t),
		testCharges(t),
		"card",
		"",
		time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC),
	)
	require.NoError(t, err)
	return o
}

// newTestShipment builds a pending shipment with a tracking number.
func newTestShipment(t *testing.T, trackingNumber string) *shipment.Shipment {
	t.Helper()

	s, err := shipment.NewShipment(
		kernel.NewUUID(),
		trackingNumber,
		"ups",
		"ground",
		"https://labels.example.com/1.pdf",
		nil,
		shipment.PackageDetails{},
		time.Date(2025, 3, 11, 10, 0, 0, 0, time.UTC),
	)
	require.NoError(t, err)
	return s
}

// newTestOrderWithShipment builds a processing order carrying a tracked shipment.
func newTestOrderWithShipment(t *testing.T, id kernel.UUID, trackingNumber string) *order.Order {
	t.Helper()

	o := newTestOrder(t, id)
	require.NoError(t, o.TransitionTo(order.Processing))
	require.NoError(t, o.AttachShipment(newTestShipment(t, trackingNumber)))
	return o
}
