// Package documents implements the invoice renderer port against the
// document rendering service. The adapter serializes an order snapshot,
// posts it, and hands back the rendered PDF bytes unmodified.
package documents

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/ports"
)

// HTTPInvoiceRenderer renders invoices through the rendering service's
// POST /render/invoice endpoint. All failures surface as
// ports.ErrDocumentRenderingFailed.
type HTTPInvoiceRenderer struct {
	baseURL string
	client  *http.Client
}

// NewHTTPInvoiceRenderer creates a renderer for the service at baseURL.
func NewHTTPInvoiceRenderer(baseURL string, timeout time.Duration) *HTTPInvoiceRenderer {
	return &HTTPInvoiceRenderer{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
	}
}

type invoicePayload struct {
	OrderID       string               `json:"order_id"`
	OrderNumber   string               `json:"order_number"`
	Status        string               `json:"status"`
	PaymentStatus string               `json:"payment_status"`
	PaymentMethod string               `json:"payment_method"`
	CouponCode    string               `json:"coupon_code,omitempty"`
	CreatedAt     time.Time            `json:"created_at"`
	ShipTo        invoiceAddress       `json:"ship_to"`
	Items         []invoiceLineItem    `json:"items"`
	Charges       invoiceCharges       `json:"charges"`
	Shipment      *invoiceShipmentInfo `json:"shipment,omitempty"`
}

type invoiceAddress struct {
	Name       string `json:"name"`
	Line1      string `json:"line1"`
	Line2      string `json:"line2,omitempty"`
	City       string `json:"city"`
	State      string `json:"state,omitempty"`
	PostalCode string `json:"postal_code"`
	Country    string `json:"country"`
}

type invoiceLineItem struct {
	Name           string `json:"name"`
	Quantity       int    `json:"quantity"`
	UnitPriceCents int64  `json:"unit_price_cents"`
	LineTotalCents int64  `json:"line_total_cents"`
}

type invoiceCharges struct {
	SubtotalCents int64 `json:"subtotal_cents"`
	ShippingCents int64 `json:"shipping_cents"`
	TaxCents      int64 `json:"tax_cents"`
	DiscountCents int64 `json:"discount_cents"`
	TotalCents    int64 `json:"total_cents"`
}

type invoiceShipmentInfo struct {
	TrackingNumber string `json:"tracking_number"`
	Carrier        string `json:"carrier"`
	ServiceType    string `json:"service_type"`
	Status         string `json:"status"`
}

// RenderInvoice renders the order into a PDF invoice.
func (r *HTTPInvoiceRenderer) RenderInvoice(ctx context.Context, aggregate *order.Order) ([]byte, error) {
	if err := aggregate.Validate(); err != nil {
		return nil, err
	}

	body, err := json.Marshal(buildPayload(aggregate))
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(
		ctx, http.MethodPost, r.baseURL+"/render/invoice", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/pdf")

	httpResp, err := r.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ports.ErrDocumentRenderingFailed, err)
	}
	defer httpResp.Body.Close()

	if httpResp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", ports.ErrDocumentRenderingFailed, httpResp.StatusCode)
	}

	pdf, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ports.ErrDocumentRenderingFailed, err)
	}
	if len(pdf) == 0 {
		return nil, fmt.Errorf("%w: empty document", ports.ErrDocumentRenderingFailed)
	}

	return pdf, nil
}

func buildPayload(aggregate *order.Order) invoicePayload {
	shipTo := aggregate.ShipTo()
	charges := aggregate.Charges()

	payload := invoicePayload{
		OrderID:       aggregate.ID().String(),
		OrderNumber:   aggregate.OrderNumber(),
		Status:        aggregate.Status().String(),
		PaymentStatus: aggregate.PaymentStatus().String(),
		PaymentMethod: aggregate.PaymentMethod(),
		CouponCode:    aggregate.CouponCode(),
		CreatedAt:     aggregate.CreatedAt(),
		ShipTo: invoiceAddress{
			Name:       shipTo.Name(),
			Line1:      shipTo.Line1(),
			Line2:      shipTo.Line2(),
			City:       shipTo.City(),
			State:      shipTo.State(),
			PostalCode: shipTo.PostalCode(),
			Country:    shipTo.Country(),
		},
		Charges: invoiceCharges{
			SubtotalCents: charges.Subtotal.Cents(),
			ShippingCents: charges.ShippingCost.Cents(),
			TaxCents:      charges.Tax.Cents(),
			DiscountCents: charges.Discount.Cents(),
			TotalCents:    charges.Total.Cents(),
		},
	}

	for _, item := range aggregate.Items() {
		payload.Items = append(payload.Items, invoiceLineItem{
			Name:           item.Name(),
			Quantity:       item.Quantity(),
			UnitPriceCents: item.UnitPrice().Cents(),
			LineTotalCents: item.LineTotal().Cents(),
		})
	}

	if s := aggregate.Shipment(); s != nil {
		payload.Shipment = &invoiceShipmentInfo{
			TrackingNumber: s.TrackingNumber(),
			Carrier:        s.Carrier(),
			ServiceType:    s.ServiceType(),
			Status:         s.Status().String(),
		}
	}

	return payload
}
