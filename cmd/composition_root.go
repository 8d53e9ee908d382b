package cmd

import (
	"time"

	"fulfillment/internal/adapters/out/carrier"
	"fulfillment/internal/adapters/out/documents"
	"fulfillment/internal/adapters/out/postgres"
	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/application/usecases/queries"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/keymutex"

	"gorm.io/gorm"
)

type CompositionRoot struct {
	gormDB     *gorm.DB
	uowFactory postgres.GormUnitOfWorkFactory

	// One lock set for all command handlers; per-order serialization only
	// works when every writer goes through the same mutexes.
	orderLocks *keymutex.KeyMutex

	gateway  ports.CarrierGateway
	renderer ports.InvoiceRenderer
	shipFrom order.Address
}

func NewCompositionRoot(configs Config, gormDB *gorm.DB) (CompositionRoot, error) {
	shipFrom, err := order.NewAddress(
		configs.ShipFromName,
		configs.ShipFromLine1,
		configs.ShipFromLine2,
		configs.ShipFromCity,
		configs.ShipFromState,
		configs.ShipFromPostalCode,
		configs.ShipFromCountry,
		configs.ShipFromPhone,
	)
	if err != nil {
		return CompositionRoot{}, err
	}

	carrierTimeout := time.Duration(configs.CarrierTimeoutSeconds) * time.Second

	return CompositionRoot{
		gormDB:     gormDB,
		uowFactory: *postgres.NewGormUnitOfWorkFactory(gormDB),
		orderLocks: keymutex.New(),
		gateway:    carrier.NewGateway(configs.CarrierBaseURL, carrierTimeout),
		renderer:   documents.NewHTTPInvoiceRenderer(configs.InvoiceServiceURL, carrierTimeout),
		shipFrom:   shipFrom,
	}, nil
}

func (c *CompositionRoot) CreateUoWFactory() commands.UoWFactory {
	var f commands.UoWFactory = FuncUoWFactory(func() commands.UoW {
		return c.uowFactory.Create()
	})
	return f
}

func (c *CompositionRoot) CreateTransitionOrderStatusCommandHandler() commands.TransitionOrderStatusCommandHandler {
	return commands.NewTransitionOrderStatusCommandHandler(c.CreateUoWFactory(), c.orderLocks)
}

func (c *CompositionRoot) CreateCreateShipmentCommandHandler() commands.CreateShipmentCommandHandler {
	return commands.NewCreateShipmentCommandHandler(c.CreateUoWFactory(), c.gateway, c.orderLocks, c.shipFrom)
}

func (c *CompositionRoot) CreateRecordManualTrackingCommandHandler() commands.RecordManualTrackingCommandHandler {
	return commands.NewRecordManualTrackingCommandHandler(c.CreateUoWFactory(), c.orderLocks)
}

func (c *CompositionRoot) CreateRefreshTrackingCommandHandler() commands.RefreshTrackingCommandHandler {
	return commands.NewRefreshTrackingCommandHandler(c.CreateUoWFactory(), c.gateway, c.orderLocks)
}

func (c *CompositionRoot) CreateReconcileTrackingCommandHandler() commands.ReconcileTrackingCommandHandler {
	return commands.NewReconcileTrackingCommandHandler(c.CreateUoWFactory(), c.CreateRefreshTrackingCommandHandler())
}

func (c *CompositionRoot) CreateArchiveOrderCommandHandler() commands.ArchiveOrderCommandHandler {
	return commands.NewArchiveOrderCommandHandler(c.CreateUoWFactory(), c.orderLocks)
}

func (c *CompositionRoot) CreateGetOrderQueryHandler() queries.GetOrderQueryHandler {
	return queries.NewGetOrderQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetActiveOrdersQueryHandler() queries.GetActiveOrdersQueryHandler {
	return queries.NewGetActiveOrdersQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetTrackingHistoryQueryHandler() queries.GetTrackingHistoryQueryHandler {
	return queries.NewGetTrackingHistoryQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateInvoiceRenderer() ports.InvoiceRenderer {
	return c.renderer
}

type FuncUoWFactory func() commands.UoW

func (f FuncUoWFactory) Create() commands.UoW {
	return f()
}
