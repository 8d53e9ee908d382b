// Package http exposes the fulfillment use cases over a REST API.
// Handlers translate between JSON payloads and commands/queries; domain
// errors map to stable status codes so admin panel clients can branch on
// them without parsing messages.
package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/application/usecases/queries"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/model/shipment"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/errs"
)

// Server coordinates between HTTP handlers and application use cases.
type Server struct {
	// Command handlers
	transitionOrderStatusHandler commands.TransitionOrderStatusCommandHandler
	createShipmentHandler        commands.CreateShipmentCommandHandler
	recordManualTrackingHandler  commands.RecordManualTrackingCommandHandler
	refreshTrackingHandler       commands.RefreshTrackingCommandHandler
	reconcileTrackingHandler     commands.ReconcileTrackingCommandHandler
	archiveOrderHandler          commands.ArchiveOrderCommandHandler

	// Query handlers
	getOrderHandler        queries.GetOrderQueryHandler
	getActiveOrdersHandler queries.GetActiveOrdersQueryHandler
	getTrackingHandler     queries.GetTrackingHistoryQueryHandler

	// Invoice rendering reads the aggregate directly; documents are built
	// from the authoritative write model, not the read side.
	uowFactory commands.UoWFactory
	renderer   ports.InvoiceRenderer
}

// NewServer creates an HTTP server with the required command and query handlers.
func NewServer(
	transitionOrderStatusHandler commands.TransitionOrderStatusCommandHandler,
	createShipmentHandler commands.CreateShipmentCommandHandler,
	recordManualTrackingHandler commands.RecordManualTrackingCommandHandler,
	refreshTrackingHandler commands.RefreshTrackingCommandHandler,
	reconcileTrackingHandler commands.ReconcileTrackingCommandHandler,
	archiveOrderHandler commands.ArchiveOrderCommandHandler,
	getOrderHandler queries.GetOrderQueryHandler,
	getActiveOrdersHandler queries.GetActiveOrdersQueryHandler,
	getTrackingHandler queries.GetTrackingHistoryQueryHandler,
	uowFactory commands.UoWFactory,
	renderer ports.InvoiceRenderer,
) *Server {
	return &Server{
		transitionOrderStatusHandler: transitionOrderStatusHandler,
		createShipmentHandler:        createShipmentHandler,
		recordManualTrackingHandler:  recordManualTrackingHandler,
		refreshTrackingHandler:       refreshTrackingHandler,
		reconcileTrackingHandler:     reconcileTrackingHandler,
		archiveOrderHandler:          archiveOrderHandler,
		getOrderHandler:              getOrderHandler,
		getActiveOrdersHandler:       getActiveOrdersHandler,
		getTrackingHandler:           getTrackingHandler,
		uowFactory:                   uowFactory,
		renderer:                     renderer,
	}
}

// RegisterRoutes wires every endpoint into the echo instance.
func (s *Server) RegisterRoutes(e *echo.Echo) {
	api := e.Group("/api/v1")

	api.GET("/orders", s.GetActiveOrders)
	api.GET("/orders/active", s.GetActiveOrders)
	api.GET("/orders/:id", s.GetOrder)
	api.POST("/orders/:id/status", s.TransitionOrderStatus)
	api.POST("/orders/:id/archive", s.ArchiveOrder)
	api.POST("/orders/:id/shipment", s.CreateShipment)
	api.PUT("/orders/:id/shipment/tracking", s.RecordManualTracking)
	api.POST("/orders/:id/shipment/refresh", s.RefreshTracking)
	api.GET("/orders/:id/tracking", s.GetTrackingHistory)
	api.GET("/orders/:id/invoice", s.DownloadInvoice)
	api.GET("/orders/:id/label", s.DownloadLabel)
	api.POST("/shipments/reconcile", s.ReconcileTracking)

	e.GET("/health", s.Health)
}

// Error is the JSON error body returned by every failing endpoint.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// errorResponse maps domain and port errors onto stable status codes.
func errorResponse(ctx echo.Context, err error) error {
	code := http.StatusInternalServerError

	switch {
	case errors.Is(err, errs.ErrObjectNotFound),
		errors.Is(err, ports.ErrTrackingNotFound):
		code = http.StatusNotFound
	case errors.Is(err, order.ErrInvalidTransition),
		errors.Is(err, order.ErrShipmentRequired),
		errors.Is(err, order.ErrShipmentAlreadyExists):
		code = http.StatusConflict
	case errors.Is(err, ports.ErrCarrierRejected):
		code = http.StatusUnprocessableEntity
	case errors.Is(err, ports.ErrCarrierUnavailable):
		code = http.StatusBadGateway
	case errors.Is(err, errs.ErrValueIsInvalid),
		errors.Is(err, errs.ErrValueIsRequired),
		errors.Is(err, errs.ErrValueIsOutOfRange):
		code = http.StatusBadRequest
	}

	return ctx.JSON(code, Error{Code: code, Message: err.Error()})
}

func badRequest(ctx echo.Context, message string) error {
	return ctx.JSON(http.StatusBadRequest, Error{
		Code:    http.StatusBadRequest,
		Message: message,
	})
}

func parseOrderID(ctx echo.Context) (kernel.UUID, error) {
	return kernel.UUIDFromString(ctx.Param("id"))
}

// TransitionOrderStatusRequest is the body of POST /orders/{id}/status.
type TransitionOrderStatusRequest struct {
	Status string `json:"status"`
}

// TransitionOrderStatus handles POST /api/v1/orders/{id}/status.
func (s *Server) TransitionOrderStatus(ctx echo.Context) error {
	orderID, err := parseOrderID(ctx)
	if err != nil {
		return badRequest(ctx, "invalid order id")
	}

	var req TransitionOrderStatusRequest
	if err = ctx.Bind(&req); err != nil {
		return badRequest(ctx, "invalid request body")
	}

	target, err := order.StatusFromString(req.Status)
	if err != nil {
		return badRequest(ctx, "invalid order status: "+req.Status)
	}

	cmd, err := commands.NewTransitionOrderStatusCommand(orderID, target)
	if err != nil {
		return errorResponse(ctx, err)
	}

	if err = s.transitionOrderStatusHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return errorResponse(ctx, err)
	}

	return ctx.NoContent(http.StatusOK)
}

// ArchiveOrder handles POST /api/v1/orders/{id}/archive.
func (s *Server) ArchiveOrder(ctx echo.Context) error {
	orderID, err := parseOrderID(ctx)
	if err != nil {
		return badRequest(ctx, "invalid order id")
	}

	cmd, err := commands.NewArchiveOrderCommand(orderID)
	if err != nil {
		return errorResponse(ctx, err)
	}

	if err = s.archiveOrderHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return errorResponse(ctx, err)
	}

	return ctx.NoContent(http.StatusOK)
}

// PackageRequest carries optional package details for label purchase.
type PackageRequest struct {
	WeightGrams int    `json:"weight_grams"`
	LengthCm    int    `json:"length_cm"`
	WidthCm     int    `json:"width_cm"`
	HeightCm    int    `json:"height_cm"`
	Type        string `json:"type"`
	Count       int    `json:"count"`
}

func (p *PackageRequest) toDomain() (shipment.PackageDetails, error) {
	if p == nil {
		return shipment.PackageDetails{}, nil
	}
	count := p.Count
	if count == 0 {
		count = 1
	}
	return shipment.NewPackageDetails(
		p.WeightGrams, p.LengthCm, p.WidthCm, p.HeightCm, p.Type, count)
}

// CreateShipmentRequest is the body of POST /orders/{id}/shipment.
type CreateShipmentRequest struct {
	ServiceType string          `json:"service_type"`
	Package     *PackageRequest `json:"package"`
}

// CreateShipment handles POST /api/v1/orders/{id}/shipment.
func (s *Server) CreateShipment(ctx echo.Context) error {
	orderID, err := parseOrderID(ctx)
	if err != nil {
		return badRequest(ctx, "invalid order id")
	}

	var req CreateShipmentRequest
	if err = ctx.Bind(&req); err != nil {
		return badRequest(ctx, "invalid request body")
	}

	details, err := req.Package.toDomain()
	if err != nil {
		return errorResponse(ctx, err)
	}

	cmd, err := commands.NewCreateShipmentCommand(orderID, req.ServiceType, details)
	if err != nil {
		return errorResponse(ctx, err)
	}

	if err = s.createShipmentHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return errorResponse(ctx, err)
	}

	return ctx.NoContent(http.StatusCreated)
}

// RecordManualTrackingRequest is the body of PUT /orders/{id}/shipment/tracking.
type RecordManualTrackingRequest struct {
	TrackingNumber    string          `json:"tracking_number"`
	Carrier           string          `json:"carrier"`
	ServiceType       string          `json:"service_type"`
	EstimatedDelivery *time.Time      `json:"estimated_delivery"`
	Package           *PackageRequest `json:"package"`
}

// RecordManualTracking handles PUT /api/v1/orders/{id}/shipment/tracking.
func (s *Server) RecordManualTracking(ctx echo.Context) error {
	orderID, err := parseOrderID(ctx)
	if err != nil {
		return badRequest(ctx, "invalid order id")
	}

	var req RecordManualTrackingRequest
	if err = ctx.Bind(&req); err != nil {
		return badRequest(ctx, "invalid request body")
	}

	details, err := req.Package.toDomain()
	if err != nil {
		return errorResponse(ctx, err)
	}

	cmd, err := commands.NewRecordManualTrackingCommand(
		orderID, req.TrackingNumber, req.ServiceType, req.Carrier,
		req.EstimatedDelivery, details)
	if err != nil {
		return errorResponse(ctx, err)
	}

	if err = s.recordManualTrackingHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return errorResponse(ctx, err)
	}

	return ctx.NoContent(http.StatusCreated)
}

// RefreshTrackingResponse is the body of a successful refresh.
type RefreshTrackingResponse struct {
	EventsAppended int    `json:"events_appended"`
	ShipmentStatus string `json:"shipment_status"`
	OrderStatus    string `json:"order_status"`
	CascadeWarning string `json:"cascade_warning,omitempty"`
}

// RefreshTracking handles POST /api/v1/orders/{id}/shipment/refresh.
func (s *Server) RefreshTracking(ctx echo.Context) error {
	orderID, err := parseOrderID(ctx)
	if err != nil {
		return badRequest(ctx, "invalid order id")
	}

	cmd, err := commands.NewRefreshTrackingCommand(orderID)
	if err != nil {
		return errorResponse(ctx, err)
	}

	result, err := s.refreshTrackingHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return errorResponse(ctx, err)
	}

	resp := RefreshTrackingResponse{
		EventsAppended: result.EventsAppended,
		ShipmentStatus: result.ShipmentStatus.String(),
		OrderStatus:    result.OrderStatus.String(),
	}
	if result.CascadeErr != nil {
		resp.CascadeWarning = result.CascadeErr.Error()
	}

	return ctx.JSON(http.StatusOK, resp)
}

// ReconcileTrackingRequest is the body of POST /shipments/reconcile.
// Zero values fall back to the configured defaults.
type ReconcileTrackingRequest struct {
	StalenessMinutes int `json:"staleness_minutes"`
	Workers          int `json:"workers"`
}

// ReconcileFailureResponse reports one order that failed to refresh.
type ReconcileFailureResponse struct {
	OrderID string `json:"order_id"`
	Error   string `json:"error"`
}

// ReconcileTrackingResponse summarizes a reconciliation run.
type ReconcileTrackingResponse struct {
	Checked   int                        `json:"checked"`
	Refreshed int                        `json:"refreshed"`
	Failed    []ReconcileFailureResponse `json:"failed"`
}

const defaultStalenessMinutes = 30

// ReconcileTracking handles POST /api/v1/shipments/reconcile.
func (s *Server) ReconcileTracking(ctx echo.Context) error {
	req := ReconcileTrackingRequest{StalenessMinutes: defaultStalenessMinutes}
	if err := ctx.Bind(&req); err != nil {
		return badRequest(ctx, "invalid request body")
	}
	if req.StalenessMinutes <= 0 {
		req.StalenessMinutes = defaultStalenessMinutes
	}

	cmd, err := commands.NewReconcileTrackingCommand(
		time.Duration(req.StalenessMinutes)*time.Minute, req.Workers)
	if err != nil {
		return errorResponse(ctx, err)
	}

	result, err := s.reconcileTrackingHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return errorResponse(ctx, err)
	}

	resp := ReconcileTrackingResponse{
		Checked:   result.Checked,
		Refreshed: result.Refreshed,
		Failed:    make([]ReconcileFailureResponse, 0, len(result.Failures)),
	}
	for _, failure := range result.Failures {
		resp.Failed = append(resp.Failed, ReconcileFailureResponse{
			OrderID: failure.OrderID.String(),
			Error:   failure.Err.Error(),
		})
	}

	return ctx.JSON(http.StatusOK, resp)
}

// OrderSummaryResponse is one row of GET /orders/active.
type OrderSummaryResponse struct {
	ID             string    `json:"id"`
	OrderNumber    string    `json:"order_number"`
	Status         string    `json:"status"`
	PaymentStatus  string    `json:"payment_status"`
	TotalCents     int64     `json:"total_cents"`
	TrackingNumber string    `json:"tracking_number,omitempty"`
	NeedsAttention bool      `json:"needs_attention"`
	CreatedAt      time.Time `json:"created_at"`
}

// GetActiveOrders handles GET /api/v1/orders/active.
func (s *Server) GetActiveOrders(ctx echo.Context) error {
	query := queries.NewGetActiveOrdersQuery()

	rows, err := s.getActiveOrdersHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return errorResponse(ctx, err)
	}

	resp := make([]OrderSummaryResponse, 0, len(rows))
	for _, row := range rows {
		resp = append(resp, OrderSummaryResponse{
			ID:             row.ID.String(),
			OrderNumber:    row.OrderNumber,
			Status:         row.Status,
			PaymentStatus:  row.PaymentStatus,
			TotalCents:     row.TotalCents,
			TrackingNumber: row.TrackingNumber,
			NeedsAttention: row.NeedsAttention,
			CreatedAt:      row.CreatedAt,
		})
	}

	return ctx.JSON(http.StatusOK, resp)
}

// OrderResponse is the full order read model returned by GET /orders/{id}.
type OrderResponse struct {
	ID            string              `json:"id"`
	OrderNumber   string              `json:"order_number"`
	Status        string              `json:"status"`
	PaymentStatus string              `json:"payment_status"`
	PaymentMethod string              `json:"payment_method"`
	CouponCode    string              `json:"coupon_code,omitempty"`
	Charges       ChargesJSON         `json:"charges"`
	ShipTo        AddressJSON         `json:"ship_to"`
	Items         []LineItemJSON      `json:"items"`
	Shipment      *ShipmentInfoJSON   `json:"shipment,omitempty"`
	CreatedAt     time.Time           `json:"created_at"`
	Archived      bool                `json:"archived"`
}

// ChargesJSON is the money breakdown of an order in integer cents.
type ChargesJSON struct {
	SubtotalCents int64 `json:"subtotal_cents"`
	ShippingCents int64 `json:"shipping_cents"`
	TaxCents      int64 `json:"tax_cents"`
	DiscountCents int64 `json:"discount_cents"`
	TotalCents    int64 `json:"total_cents"`
}

// AddressJSON is a shipping destination.
type AddressJSON struct {
	Name       string `json:"name"`
	Line1      string `json:"line1"`
	Line2      string `json:"line2,omitempty"`
	City       string `json:"city"`
	State      string `json:"state,omitempty"`
	PostalCode string `json:"postal_code"`
	Country    string `json:"country"`
	Phone      string `json:"phone,omitempty"`
}

// LineItemJSON is one purchased product line.
type LineItemJSON struct {
	ProductID      string `json:"product_id"`
	Name           string `json:"name"`
	Quantity       int    `json:"quantity"`
	UnitPriceCents int64  `json:"unit_price_cents"`
	LineTotalCents int64  `json:"line_total_cents"`
}

// ShipmentInfoJSON is the shipment state attached to an order.
type ShipmentInfoJSON struct {
	TrackingNumber    string     `json:"tracking_number"`
	Carrier           string     `json:"carrier"`
	ServiceType       string     `json:"service_type"`
	Status            string     `json:"status"`
	LabelURL          string     `json:"label_url,omitempty"`
	EstimatedDelivery *time.Time `json:"estimated_delivery,omitempty"`
	ShippedAt         *time.Time `json:"shipped_at,omitempty"`
	DeliveredAt       *time.Time `json:"delivered_at,omitempty"`
	ReceivedBy        string     `json:"received_by,omitempty"`
	NeedsAttention    bool       `json:"needs_attention"`
}

// GetOrder handles GET /api/v1/orders/{id}.
func (s *Server) GetOrder(ctx echo.Context) error {
	orderID, err := parseOrderID(ctx)
	if err != nil {
		return badRequest(ctx, "invalid order id")
	}

	query, err := queries.NewGetOrderQuery(orderID)
	if err != nil {
		return errorResponse(ctx, err)
	}

	result, err := s.getOrderHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return errorResponse(ctx, err)
	}

	resp := OrderResponse{
		ID:            result.ID.String(),
		OrderNumber:   result.OrderNumber,
		Status:        result.Status,
		PaymentStatus: result.PaymentStatus,
		PaymentMethod: result.PaymentMethod,
		CouponCode:    result.CouponCode,
		Charges: ChargesJSON{
			SubtotalCents: result.Charges.SubtotalCents,
			ShippingCents: result.Charges.ShippingCostCents,
			TaxCents:      result.Charges.TaxCents,
			DiscountCents: result.Charges.DiscountCents,
			TotalCents:    result.Charges.TotalCents,
		},
		ShipTo: AddressJSON{
			Name:       result.ShipTo.Name,
			Line1:      result.ShipTo.Line1,
			Line2:      result.ShipTo.Line2,
			City:       result.ShipTo.City,
			State:      result.ShipTo.State,
			PostalCode: result.ShipTo.PostalCode,
			Country:    result.ShipTo.Country,
			Phone:      result.ShipTo.Phone,
		},
		CreatedAt: result.CreatedAt,
		Archived:  result.Archived,
	}

	for _, item := range result.Items {
		resp.Items = append(resp.Items, LineItemJSON{
			ProductID:      item.ProductID.String(),
			Name:           item.Name,
			Quantity:       item.Quantity,
			UnitPriceCents: item.UnitPriceCents,
			LineTotalCents: item.LineTotalCents,
		})
	}

	if result.Shipment != nil {
		resp.Shipment = &ShipmentInfoJSON{
			TrackingNumber:    result.Shipment.TrackingNumber,
			Carrier:           result.Shipment.Carrier,
			ServiceType:       result.Shipment.ServiceType,
			Status:            result.Shipment.Status,
			LabelURL:          result.Shipment.LabelURL,
			EstimatedDelivery: result.Shipment.EstimatedDelivery,
			ShippedAt:         result.Shipment.ShippedAt,
			DeliveredAt:       result.Shipment.DeliveredAt,
			ReceivedBy:        result.Shipment.ReceivedBy,
			NeedsAttention:    result.Shipment.NeedsAttention,
		}
	}

	return ctx.JSON(http.StatusOK, resp)
}

// TrackingEventJSON is one carrier tracking event.
type TrackingEventJSON struct {
	Timestamp     time.Time `json:"timestamp"`
	Status        string    `json:"status"`
	StatusDetails string    `json:"status_details,omitempty"`
	Location      string    `json:"location,omitempty"`
	IsException   bool      `json:"is_exception"`
}

// TrackingHistoryResponse is the body of GET /orders/{id}/tracking.
type TrackingHistoryResponse struct {
	TrackingNumber    string              `json:"tracking_number"`
	Carrier           string              `json:"carrier"`
	Status            string              `json:"status"`
	NeedsAttention    bool                `json:"needs_attention"`
	EstimatedDelivery *time.Time          `json:"estimated_delivery,omitempty"`
	Events            []TrackingEventJSON `json:"events"`
}

// GetTrackingHistory handles GET /api/v1/orders/{id}/tracking.
func (s *Server) GetTrackingHistory(ctx echo.Context) error {
	orderID, err := parseOrderID(ctx)
	if err != nil {
		return badRequest(ctx, "invalid order id")
	}

	query, err := queries.NewGetTrackingHistoryQuery(orderID)
	if err != nil {
		return errorResponse(ctx, err)
	}

	result, err := s.getTrackingHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return errorResponse(ctx, err)
	}

	resp := TrackingHistoryResponse{
		TrackingNumber:    result.TrackingNumber,
		Carrier:           result.Carrier,
		Status:            result.Status,
		NeedsAttention:    result.NeedsAttention,
		EstimatedDelivery: result.EstimatedDelivery,
		Events:            make([]TrackingEventJSON, 0, len(result.Events)),
	}
	for _, event := range result.Events {
		resp.Events = append(resp.Events, TrackingEventJSON{
			Timestamp:     event.Timestamp,
			Status:        event.Status,
			StatusDetails: event.StatusDetails,
			Location:      event.Location,
			IsException:   event.IsException,
		})
	}

	return ctx.JSON(http.StatusOK, resp)
}

// DownloadInvoice handles GET /api/v1/orders/{id}/invoice.
// The invoice is rendered from the aggregate on every request; invoices are
// not cached because shipment details may change between downloads.
func (s *Server) DownloadInvoice(ctx echo.Context) error {
	orderID, err := parseOrderID(ctx)
	if err != nil {
		return badRequest(ctx, "invalid order id")
	}

	aggregate, err := s.loadAggregate(ctx, orderID)
	if err != nil {
		return errorResponse(ctx, err)
	}

	pdf, err := s.renderer.RenderInvoice(ctx.Request().Context(), aggregate)
	if err != nil {
		return errorResponse(ctx, err)
	}

	ctx.Response().Header().Set(echo.HeaderContentDisposition,
		`attachment; filename="invoice-`+aggregate.OrderNumber()+`.pdf"`)

	return ctx.Blob(http.StatusOK, "application/pdf", pdf)
}

// DownloadLabel handles GET /api/v1/orders/{id}/label.
// Labels are stored at the carrier; the endpoint redirects to the label URL
// captured at purchase time.
func (s *Server) DownloadLabel(ctx echo.Context) error {
	orderID, err := parseOrderID(ctx)
	if err != nil {
		return badRequest(ctx, "invalid order id")
	}

	query, err := queries.NewGetOrderQuery(orderID)
	if err != nil {
		return errorResponse(ctx, err)
	}

	result, err := s.getOrderHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return errorResponse(ctx, err)
	}

	if result.Shipment == nil || result.Shipment.LabelURL == "" {
		return errorResponse(ctx, errs.NewObjectNotFoundError("label", orderID))
	}

	return ctx.Redirect(http.StatusFound, result.Shipment.LabelURL)
}

// Health handles GET /health.
func (s *Server) Health(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) loadAggregate(ctx echo.Context, orderID kernel.UUID) (*order.Order, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx.Request().Context()); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx.Request().Context())
	}()

	return uow.OrderRepository().Get(ctx.Request().Context(), orderID)
}
