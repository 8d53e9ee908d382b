package commands_test

import (
	"testing"
	"time"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/model/shipment"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/keymutex"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestCreateShipmentCommandHandler_Handle_Success(t *testing.T) {
	ctx := t.Context()
	orderID := kernel.NewUUID()
	testOrder := newTestOrder(t, orderID)
	require.NoError(t, testOrder.TransitionTo(order.Processing))

	cmd, err := commands.NewCreateShipmentCommand(orderID, "ground", shipment.PackageDetails{})
	require.NoError(t, err)

	eta := time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC)
	labelResp := ports.CreateLabelResponse{
		TrackingNumber:    "1Z999AA10123456784",
		Carrier:           "ups",
		LabelURL:          "https://labels.example.com/1z999.pdf",
		EstimatedDelivery: &eta,
	}

	repo := new(MockOrderRepository)
	readUoW := new(MockUoW)
	writeUoW := new(MockUoW)
	gateway := new(MockCarrierGateway)

	mock.InOrder(
		readUoW.On("Begin", ctx).Return(nil).Once(),
		readUoW.On("OrderRepository").Return(repo).Once(),
		repo.On("Get", ctx, orderID).Return(testOrder, nil).Once(),
		readUoW.On("Rollback", ctx).Return(nil).Once(),
		gateway.On("CreateLabel", ctx, mock.AnythingOfType("ports.CreateLabelRequest")).Return(labelResp, nil).Once(),
		writeUoW.On("Begin", ctx).Return(nil).Once(),
		writeUoW.On("OrderRepository").Return(repo).Once(),
		repo.On("Get", ctx, orderID).Return(testOrder, nil).Once(),
		repo.On("Update", ctx, mock.AnythingOfType("*order.Order")).Return(nil).Once(),
		writeUoW.On("Commit", ctx).Return(nil).Once(),
		writeUoW.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockUoWFactory)
	factory.On("Create").Return(readUoW).Once()
	factory.On("Create").Return(writeUoW).Once()

	handler := commands.NewCreateShipmentCommandHandler(factory, gateway, keymutex.New(), testAddress(t))
	err = handler.Handle(ctx, cmd)

	require.NoError(t, err)
	require.NotNil(t, testOrder.Shipment())
	assert.Equal(t, "1Z999AA10123456784", testOrder.Shipment().TrackingNumber())
	assert.Equal(t, "ups", testOrder.Shipment().Carrier())
	assert.Equal(t, shipment.Pending, testOrder.Shipment().Status())
	assert.Equal(t, order.Processing, testOrder.Status()) // shipping stays an explicit transition
	repo.AssertExpectations(t)
	gateway.AssertExpectations(t)
	factory.AssertExpectations(t)
}

func TestCreateShipmentCommandHandler_Handle_SendsOrderDestination(t *testing.T) {
	ctx := t.Context()
	orderID := kernel.NewUUID()
	testOrder := newTestOrder(t, orderID)

	cmd, err := commands.NewCreateShipmentCommand(orderID, "express", shipment.PackageDetails{})
	require.NoError(t, err)

	labelResp := ports.CreateLabelResponse{
		TrackingNumber: "9400100000000000000001",
		Carrier:        "usps",
		LabelURL:       "https://labels.example.com/usps.pdf",
	}

	repo := new(MockOrderRepository)
	readUoW := new(MockUoW)
	writeUoW := new(MockUoW)
	gateway := new(MockCarrierGateway)

	readUoW.On("Begin", ctx).Return(nil).Once()
	readUoW.On("OrderRepository").Return(repo).Once()
	readUoW.On("Rollback", ctx).Return(nil).Once()
	writeUoW.On("Begin", ctx).Return(nil).Once()
	writeUoW.On("OrderRepository").Return(repo).Once()
	writeUoW.On("Commit", ctx).Return(nil).Once()
	writeUoW.On("Rollback", ctx).Return(nil).Once()
	repo.On("Get", ctx, orderID).Return(testOrder, nil).Twice()
	repo.On("Update", ctx, mock.AnythingOfType("*order.Order")).Return(nil).Once()
	gateway.On("CreateLabel", ctx, mock.AnythingOfType("ports.CreateLabelRequest")).Return(labelResp, nil).Once()

	factory := new(MockUoWFactory)
	factory.On("Create").Return(readUoW).Once()
	factory.On("Create").Return(writeUoW).Once()

	shipFrom := testAddress(t)
	handler := commands.NewCreateShipmentCommandHandler(factory, gateway, keymutex.New(), shipFrom)
	err = handler.Handle(ctx, cmd)
	require.NoError(t, err)

	req := gateway.Calls[0].Arguments[1].(ports.CreateLabelRequest)
	assert.Equal(t, orderID, req.OrderID)
	assert.Equal(t, testOrder.OrderNumber(), req.OrderNumber)
	assert.Equal(t, "express", req.ServiceType)
	assert.Equal(t, shipFrom, req.ShipFrom)
	assert.Equal(t, testOrder.ShipTo(), req.ShipTo)
}

func TestCreateShipmentCommandHandler_Handle_ShipmentAlreadyExists(t *testing.T) {
	ctx := t.Context()
	orderID := kernel.NewUUID()
	testOrder := newTestOrderWithShipment(t, orderID, "1Z999AA10123456784")

	cmd, err := commands.NewCreateShipmentCommand(orderID, "ground", shipment.PackageDetails{})
	require.NoError(t, err)

	repo := new(MockOrderRepository)
	uow := new(MockUoW)
	gateway := new(MockCarrierGateway)

	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(repo).Once(),
		repo.On("Get", ctx, orderID).Return(testOrder, nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockUoWFactory)
	factory.On("Create").Return(uow).Once()

	handler := commands.NewCreateShipmentCommandHandler(factory, gateway, keymutex.New(), testAddress(t))
	err = handler.Handle(ctx, cmd)

	require.Error(t, err)
	require.ErrorIs(t, err, order.ErrShipmentAlreadyExists)
	// No money spent: the carrier is never called for a duplicate.
	gateway.AssertNotCalled(t, "CreateLabel", mock.Anything, mock.Anything)
}

func TestCreateShipmentCommandHandler_Handle_CarrierUnavailable(t *testing.T) {
	ctx := t.Context()
	orderID := kernel.NewUUID()
	testOrder := newTestOrder(t, orderID)

	cmd, err := commands.NewCreateShipmentCommand(orderID, "ground", shipment.PackageDetails{})
	require.NoError(t, err)

	repo := new(MockOrderRepository)
	uow := new(MockUoW)
	gateway := new(MockCarrierGateway)

	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(repo).Once(),
		repo.On("Get", ctx, orderID).Return(testOrder, nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
		gateway.On("CreateLabel", ctx, mock.AnythingOfType("ports.CreateLabelRequest")).
			Return(ports.CreateLabelResponse{}, ports.ErrCarrierUnavailable).
			Once(),
	)

	factory := new(MockUoWFactory)
	factory.On("Create").Return(uow).Once()

	handler := commands.NewCreateShipmentCommandHandler(factory, gateway, keymutex.New(), testAddress(t))
	err = handler.Handle(ctx, cmd)

	require.Error(t, err)
	require.ErrorIs(t, err, ports.ErrCarrierUnavailable)
	assert.Nil(t, testOrder.Shipment())
	repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestCreateShipmentCommandHandler_Handle_CarrierRejected(t *testing.T) {
	ctx := t.Context()
	orderID := kernel.NewUUID()
	testOrder := newTestOrder(t, orderID)

	cmd, err := commands.NewCreateShipmentCommand(orderID, "ground", shipment.PackageDetails{})
	require.NoError(t, err)

	repo := new(MockOrderRepository)
	uow := new(MockUoW)
	gateway := new(MockCarrierGateway)

	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(repo).Once(),
		repo.On("Get", ctx, orderID).Return(testOrder, nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
		gateway.On("CreateLabel", ctx, mock.AnythingOfType("ports.CreateLabelRequest")).
			Return(ports.CreateLabelResponse{}, ports.ErrCarrierRejected).
			Once(),
	)

	factory := new(MockUoWFactory)
	factory.On("Create").Return(uow).Once()

	handler := commands.NewCreateShipmentCommandHandler(factory, gateway, keymutex.New(), testAddress(t))
	err = handler.Handle(ctx, cmd)

	require.Error(t, err)
	require.ErrorIs(t, err, ports.ErrCarrierRejected)
	assert.Nil(t, testOrder.Shipment())
}

func TestCreateShipmentCommandHandler_Handle_OrderNotFound(t *testing.T) {
	ctx := t.Context()
	orderID := kernel.NewUUID()

	cmd, err := commands.NewCreateShipmentCommand(orderID, "ground", shipment.PackageDetails{})
	require.NoError(t, err)

	repo := new(MockOrderRepository)
	uow := new(MockUoW)
	gateway := new(MockCarrierGateway)

	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(repo).Once(),
		repo.On("Get", ctx, orderID).Return(nil, errs.ErrObjectNotFound).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockUoWFactory)
	factory.On("Create").Return(uow).Once()

	handler := commands.NewCreateShipmentCommandHandler(factory, gateway, keymutex.New(), testAddress(t))
	err = handler.Handle(ctx, cmd)

	require.Error(t, err)
	require.ErrorIs(t, err, errs.ErrObjectNotFound)
	gateway.AssertNotCalled(t, "CreateLabel", mock.Anything, mock.Anything)
}

func TestCreateShipmentCommandHandler_Handle_ValidationError(t *testing.T) {
	ctx := t.Context()
	cmd := commands.CreateShipmentCommand{} // not constructed properly

	factory := new(MockUoWFactory)
	gateway := new(MockCarrierGateway)
	handler := commands.NewCreateShipmentCommandHandler(factory, gateway, keymutex.New(), testAddress(t))
	err := handler.Handle(ctx, cmd)

	require.Error(t, err)
	require.ErrorIs(t, err, commands.ErrCreateShipmentCommandIsNotConstructed)
	factory.AssertNotCalled(t, "Create")
}
