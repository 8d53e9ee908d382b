// Package carrier implements the carrier gateway port over the carrier
// aggregator's HTTP API. The gateway translates transport-level failures
// into the port's error taxonomy so the core never inspects HTTP statuses.
package carrier

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"fulfillment/internal/core/domain/model/shipment"
	"fulfillment/internal/core/ports"
)

// Gateway is an HTTP client for the carrier aggregator.
//
// Error mapping: timeouts, connection failures, and 5xx responses become
// ports.ErrCarrierUnavailable; 4xx on label purchase becomes
// ports.ErrCarrierRejected; 404 on tracking lookup becomes
// ports.ErrTrackingNotFound.
type Gateway struct {
	baseURL string
	client  *http.Client
}

// NewGateway creates a gateway for the aggregator at baseURL.
// The timeout bounds every request; an expired timeout is reported as
// ports.ErrCarrierUnavailable.
func NewGateway(baseURL string, timeout time.Duration) *Gateway {
	return &Gateway{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
	}
}

type labelRequest struct {
	OrderID     string        `json:"order_id"`
	OrderNumber string        `json:"order_number"`
	ServiceType string        `json:"service_type"`
	ShipFrom    addressJSON   `json:"ship_from"`
	ShipTo      addressJSON   `json:"ship_to"`
	Package     *packageJSON  `json:"package,omitempty"`
}

type addressJSON struct {
	Name       string `json:"name"`
	Line1      string `json:"line1"`
	Line2      string `json:"line2,omitempty"`
	City       string `json:"city"`
	State      string `json:"state,omitempty"`
	PostalCode string `json:"postal_code"`
	Country    string `json:"country"`
	Phone      string `json:"phone,omitempty"`
}

type packageJSON struct {
	WeightGrams int    `json:"weight_grams"`
	LengthCm    int    `json:"length_cm"`
	WidthCm     int    `json:"width_cm"`
	HeightCm    int    `json:"height_cm"`
	Type        string `json:"type"`
	Count       int    `json:"count"`
}

type labelResponse struct {
	TrackingNumber    string     `json:"tracking_number"`
	Carrier           string     `json:"carrier"`
	LabelURL          string     `json:"label_url"`
	EstimatedDelivery *time.Time `json:"estimated_delivery"`
}

type trackingResponse struct {
	Status            string     `json:"status"`
	EstimatedDelivery *time.Time `json:"estimated_delivery"`
	DeliveredAt       *time.Time `json:"delivered_at"`
	ReceivedBy        string     `json:"received_by"`
	Signature         string     `json:"signature"`
	Events            []struct {
		Timestamp   time.Time `json:"timestamp"`
		Status      string    `json:"status"`
		Details     string    `json:"details"`
		Location    string    `json:"location"`
		IsException bool      `json:"is_exception"`
	} `json:"events"`
}

// CreateLabel purchases a shipping label through the aggregator.
func (g *Gateway) CreateLabel(ctx context.Context, req ports.CreateLabelRequest) (ports.CreateLabelResponse, error) {
	payload := labelRequest{
		OrderID:     req.OrderID.String(),
		OrderNumber: req.OrderNumber,
		ServiceType: req.ServiceType,
		ShipFrom: addressJSON{
			Name:       req.ShipFrom.Name(),
			Line1:      req.ShipFrom.Line1(),
			Line2:      req.ShipFrom.Line2(),
			City:       req.ShipFrom.City(),
			State:      req.ShipFrom.State(),
			PostalCode: req.ShipFrom.PostalCode(),
			Country:    req.ShipFrom.Country(),
			Phone:      req.ShipFrom.Phone(),
		},
		ShipTo: addressJSON{
			Name:       req.ShipTo.Name(),
			Line1:      req.ShipTo.Line1(),
			Line2:      req.ShipTo.Line2(),
			City:       req.ShipTo.City(),
			State:      req.ShipTo.State(),
			PostalCode: req.ShipTo.PostalCode(),
			Country:    req.ShipTo.Country(),
			Phone:      req.ShipTo.Phone(),
		},
	}
	if !req.Package.IsZero() {
		payload.Package = &packageJSON{
			WeightGrams: req.Package.WeightGrams(),
			LengthCm:    req.Package.LengthCm(),
			WidthCm:     req.Package.WidthCm(),
			HeightCm:    req.Package.HeightCm(),
			Type:        req.Package.PackageType(),
			Count:       req.Package.PackageCount(),
		}
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return ports.CreateLabelResponse{}, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+"/labels", bytes.NewReader(body))
	if err != nil {
		return ports.CreateLabelResponse{}, err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	httpResp, err := g.client.Do(httpReq)
	if err != nil {
		return ports.CreateLabelResponse{}, fmt.Errorf("%w: %w", ports.ErrCarrierUnavailable, err)
	}
	defer httpResp.Body.Close()

	raw, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return ports.CreateLabelResponse{}, fmt.Errorf("%w: %w", ports.ErrCarrierUnavailable, err)
	}

	switch {
	case httpResp.StatusCode >= http.StatusInternalServerError:
		return ports.CreateLabelResponse{}, fmt.Errorf("%w: status %d", ports.ErrCarrierUnavailable, httpResp.StatusCode)
	case httpResp.StatusCode >= http.StatusBadRequest:
		return ports.CreateLabelResponse{}, fmt.Errorf("%w: status %d: %s",
			ports.ErrCarrierRejected, httpResp.StatusCode, truncate(raw))
	}

	var decoded labelResponse
	if err = json.Unmarshal(raw, &decoded); err != nil {
		return ports.CreateLabelResponse{}, fmt.Errorf("%w: malformed response: %w", ports.ErrCarrierUnavailable, err)
	}

	return ports.CreateLabelResponse{
		TrackingNumber:    decoded.TrackingNumber,
		Carrier:           decoded.Carrier,
		LabelURL:          decoded.LabelURL,
		EstimatedDelivery: decoded.EstimatedDelivery,
		RawResponse:       json.RawMessage(raw),
	}, nil
}

// FetchTracking retrieves the carrier's current view of a shipment.
func (g *Gateway) FetchTracking(
	ctx context.Context,
	trackingNumber, carrierCode string,
) (shipment.TrackingSnapshot, error) {
	endpoint := fmt.Sprintf("%s/tracking/%s?carrier=%s",
		g.baseURL, url.PathEscape(trackingNumber), url.QueryEscape(carrierCode))

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return shipment.TrackingSnapshot{}, err
	}

	httpResp, err := g.client.Do(httpReq)
	if err != nil {
		return shipment.TrackingSnapshot{}, fmt.Errorf("%w: %w", ports.ErrCarrierUnavailable, err)
	}
	defer httpResp.Body.Close()

	switch {
	case httpResp.StatusCode == http.StatusNotFound:
		return shipment.TrackingSnapshot{}, fmt.Errorf("%w: %s", ports.ErrTrackingNotFound, trackingNumber)
	case httpResp.StatusCode >= http.StatusBadRequest:
		return shipment.TrackingSnapshot{}, fmt.Errorf("%w: status %d", ports.ErrCarrierUnavailable, httpResp.StatusCode)
	}

	var decoded trackingResponse
	if err = json.NewDecoder(httpResp.Body).Decode(&decoded); err != nil {
		return shipment.TrackingSnapshot{}, fmt.Errorf("%w: malformed response: %w", ports.ErrCarrierUnavailable, err)
	}

	status, err := mapStatus(decoded.Status)
	if err != nil {
		return shipment.TrackingSnapshot{}, err
	}

	events := make([]shipment.TrackingEvent, 0, len(decoded.Events))
	for _, raw := range decoded.Events {
		event, eventErr := shipment.NewTrackingEvent(
			raw.Timestamp, raw.Status, raw.Details, raw.Location, raw.IsException)
		if eventErr != nil {
			return shipment.TrackingSnapshot{}, eventErr
		}
		events = append(events, event)
	}

	return shipment.TrackingSnapshot{
		Status:            status,
		Events:            events,
		EstimatedDelivery: decoded.EstimatedDelivery,
		DeliveredAt:       decoded.DeliveredAt,
		ReceivedBy:        decoded.ReceivedBy,
		Signature:         decoded.Signature,
	}, nil
}

// mapStatus parses the aggregator's status string, accepting the common
// aliases carriers use for the same stages.
func mapStatus(raw string) (shipment.Status, error) {
	if status, err := shipment.StatusFromString(raw); err == nil {
		return status, nil
	}

	switch raw {
	case "pre_transit", "label_created", "accepted":
		return shipment.Pending, nil
	case "transit", "in transit":
		return shipment.InTransit, nil
	case "out for delivery":
		return shipment.OutForDelivery, nil
	case "return_to_sender", "failure", "alert":
		return shipment.Exception, nil
	}

	return shipment.Unknown, errors.New("unrecognized carrier status: " + raw)
}

// truncate bounds an error payload echoed back into error messages.
func truncate(raw []byte) string {
	const max = 200
	if len(raw) > max {
		return string(raw[:max]) + "..."
	}
	return string(raw)
}
