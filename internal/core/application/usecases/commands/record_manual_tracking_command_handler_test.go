package commands_test

import (
	"testing"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/model/shipment"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/keymutex"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestRecordManualTrackingCommandHandler_Handle_Success(t *testing.T) {
	ctx := t.Context()
	orderID := kernel.NewUUID()
	testOrder := newTestOrder(t, orderID)

	cmd, err := commands.NewRecordManualTrackingCommand(
		orderID, "RR123456785NL", "international", "postnl", nil, shipment.PackageDetails{})
	require.NoError(t, err)

	repo := new(MockOrderRepository)
	uow := new(MockUoW)

	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(repo).Once(),
		repo.On("Get", ctx, orderID).Return(testOrder, nil).Once(),
		repo.On("Update", ctx, mock.AnythingOfType("*order.Order")).Return(nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockUoWFactory)
	factory.On("Create").Return(uow).Once()

	handler := commands.NewRecordManualTrackingCommandHandler(factory, keymutex.New())
	err = handler.Handle(ctx, cmd)

	require.NoError(t, err)
	require.NotNil(t, testOrder.Shipment())
	assert.Equal(t, "RR123456785NL", testOrder.Shipment().TrackingNumber())
	assert.Equal(t, "postnl", testOrder.Shipment().Carrier())
	assert.Equal(t, shipment.Pending, testOrder.Shipment().Status())
	assert.Empty(t, testOrder.Shipment().LabelURL())
	repo.AssertExpectations(t)
	uow.AssertExpectations(t)
}

func TestRecordManualTrackingCommandHandler_Handle_ShipmentAlreadyExists(t *testing.T) {
	ctx := t.Context()
	orderID := kernel.NewUUID()
	testOrder := newTestOrderWithShipment(t, orderID, "1Z999AA10123456784")

	cmd, err := commands.NewRecordManualTrackingCommand(
		orderID, "RR123456785NL", "international", "postnl", nil, shipment.PackageDetails{})
	require.NoError(t, err)

	repo := new(MockOrderRepository)
	uow := new(MockUoW)

	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(repo).Once(),
		repo.On("Get", ctx, orderID).Return(testOrder, nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockUoWFactory)
	factory.On("Create").Return(uow).Once()

	handler := commands.NewRecordManualTrackingCommandHandler(factory, keymutex.New())
	err = handler.Handle(ctx, cmd)

	require.Error(t, err)
	require.ErrorIs(t, err, order.ErrShipmentAlreadyExists)
	assert.Equal(t, "1Z999AA10123456784", testOrder.Shipment().TrackingNumber())
	repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestRecordManualTrackingCommandHandler_Handle_OrderNotFound(t *testing.T) {
	ctx := t.Context()
	orderID := kernel.NewUUID()

	cmd, err := commands.NewRecordManualTrackingCommand(
		orderID, "RR123456785NL", "international", "postnl", nil, shipment.PackageDetails{})
	require.NoError(t, err)

	repo := new(MockOrderRepository)
	uow := new(MockUoW)

	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(repo).Once(),
		repo.On("Get", ctx, orderID).Return(nil, errs.ErrObjectNotFound).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockUoWFactory)
	factory.On("Create").Return(uow).Once()

	handler := commands.NewRecordManualTrackingCommandHandler(factory, keymutex.New())
	err = handler.Handle(ctx, cmd)

	require.Error(t, err)
	require.ErrorIs(t, err, errs.ErrObjectNotFound)
}

func TestRecordManualTrackingCommandHandler_Handle_ValidationError(t *testing.T) {
	ctx := t.Context()
	cmd := commands.RecordManualTrackingCommand{} // not constructed properly

	factory := new(MockUoWFactory)
	handler := commands.NewRecordManualTrackingCommandHandler(factory, keymutex.New())
	err := handler.Handle(ctx, cmd)

	require.Error(t, err)
	require.ErrorIs(t, err, commands.ErrRecordManualTrackingCommandIsNotConstructed)
	factory.AssertNotCalled(t, "Create")
}
