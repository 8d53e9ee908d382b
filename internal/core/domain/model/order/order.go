package order

import (
	"errors"
	"fmt"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/shipment"
	"fulfillment/internal/pkg/errs"
)

var (
	// ErrOrderIsNotConstructed is returned when an Order instance was not
	// created through NewOrder or RestoreOrder.
	ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder or RestoreOrder constructor")

	// ErrShipmentRequired is returned when a transition to Shipped is
	// requested for an order without a tracked shipment. The state machine
	// never creates shipments implicitly; the caller must create one first.
	ErrShipmentRequired = errors.New("transition to shipped requires a shipment with a tracking number")

	// ErrShipmentAlreadyExists is returned when a shipment is attached to an
	// order that already carries a tracked shipment. Callers must use the
	// tracking update path instead of creating duplicates.
	ErrShipmentAlreadyExists = errors.New("order already has a shipment with a tracking number")
)

// totalToleranceCents is the currency rounding tolerance for the order total
// invariant: total == subtotal + shipping + tax - discount.
const totalToleranceCents = 1

// Charges groups the monetary components of an order.
type Charges struct {
	Subtotal     kernel.Money
	ShippingCost kernel.Money
	Tax          kernel.Money
	Discount     kernel.Money
	Total        kernel.Money
}

// Order is the aggregate root for order fulfillment. It owns the order
// status lifecycle, the line items, the shipping address, and at most one
// shipment.
//
// Order maintains these invariants:
//   - Status transitions follow the lifecycle graph (see Status)
//   - Moving to Shipped requires a shipment with a tracking number
//   - Total reconciles with subtotal + shipping + tax - discount within
//     currency rounding tolerance
//   - At most one shipment, attached explicitly and never replaced once
//     it carries a tracking number
//   - Orders are archived, never deleted
//
// All mutation goes through explicit methods; construction only through
// NewOrder/RestoreOrder.
type Order struct {
	id          kernel.UUID
	orderNumber string

	status        Status
	paymentStatus PaymentStatus
	paymentMethod string

	charges    Charges
	couponCode string

	items  []LineItem
	shipTo Address

	shipment *shipment.Shipment

	createdAt time.Time
	archived  bool

	isConstructed bool
}

// NewOrder creates an order in Pending status with payment pending.
//
// Orders enter the system at checkout (outside this core); this constructor
// is the single validated entry point for that hand-off.
func NewOrder(
	id kernel.UUID,
	orderNumber string,
	items []LineItem,
	shipTo Address,
	charges Charges,
	paymentMethod string,
	couponCode string,
	createdAt time.Time,
) (*Order, error) {
	o := &Order{
		status:        Pending,
		paymentStatus: PaymentPending,
		isConstructed: true,
	}

	if err := errors.Join(
		o.setID(id),
		o.setOrderNumber(orderNumber),
		o.setItems(items),
		o.setShipTo(shipTo),
		o.setCharges(charges),
	); err != nil {
		return nil, err
	}

	o.paymentMethod = paymentMethod
	o.couponCode = couponCode
	o.createdAt = createdAt
	return o, nil
}

// RestoreOrder reconstructs an order from persistence, including its current
// statuses, archival flag, and optional shipment.
func RestoreOrder(
	id kernel.UUID,
	orderNumber string,
	status Status,
	paymentStatus PaymentStatus,
	paymentMethod string,
	items []LineItem,
	shipTo Address,
	charges Charges,
	couponCode string,
	createdAt time.Time,
	archived bool,
	orderShipment *shipment.Shipment,
) (*Order, error) {
	o, err := NewOrder(id, orderNumber, items, shipTo, charges, paymentMethod, couponCode, createdAt)
	if err != nil {
		return nil, err
	}
	if err = status.Validate(); err != nil {
		return nil, err
	}
	if err = paymentStatus.Validate(); err != nil {
		return nil, err
	}
	if orderShipment != nil {
		if err = orderShipment.Validate(); err != nil {
			return nil, err
		}
	}

	o.status = status
	o.paymentStatus = paymentStatus
	o.archived = archived
	o.shipment = orderShipment
	return o, nil
}

// Validate ensures the Order instance was properly constructed.
func (o *Order) Validate() error {
	if o == nil || !o.isConstructed {
		return ErrOrderIsNotConstructed
	}
	return nil
}

// IsEqual compares two orders by their unique identifiers.
func (o *Order) IsEqual(other *Order) bool {
	return other != nil && o.id.IsEqual(other.id)
}

// ID returns the order's internal identifier.
func (o *Order) ID() kernel.UUID {
	return o.id
}

// OrderNumber returns the human-readable unique order number.
func (o *Order) OrderNumber() string {
	return o.orderNumber
}

// Status returns the current lifecycle status.
func (o *Order) Status() Status {
	return o.status
}

// PaymentStatus returns the externally managed payment state.
func (o *Order) PaymentStatus() PaymentStatus {
	return o.paymentStatus
}

// PaymentMethod returns the payment method label, e.g. "card".
func (o *Order) PaymentMethod() string {
	return o.paymentMethod
}

// Charges returns the monetary components of the order.
func (o *Order) Charges() Charges {
	return o.charges
}

// CouponCode returns the applied coupon code, empty if none.
func (o *Order) CouponCode() string {
	return o.couponCode
}

// Items returns a copy of the ordered line item sequence.
func (o *Order) Items() []LineItem {
	items := make([]LineItem, len(o.items))
	copy(items, o.items)
	return items
}

// ShipTo returns the shipping address.
func (o *Order) ShipTo() Address {
	return o.shipTo
}

// Shipment returns the attached shipment, or nil if none exists.
func (o *Order) Shipment() *shipment.Shipment {
	return o.shipment
}

// CreatedAt returns when the order was created at checkout.
func (o *Order) CreatedAt() time.Time {
	return o.createdAt
}

// IsArchived reports whether the order was soft-archived.
func (o *Order) IsArchived() bool {
	return o.archived
}

// HasTrackedShipment reports whether a shipment with a tracking number exists.
func (o *Order) HasTrackedShipment() bool {
	return o.shipment != nil && o.shipment.TrackingNumber() != ""
}

// TransitionTo moves the order to target along the lifecycle graph.
//
// Requesting the current status is a no-op success, so retried client
// requests do not fail. Illegal edges return an error wrapping
// ErrInvalidTransition and moving to Shipped without a tracked shipment
// returns ErrShipmentRequired; in both cases the order is left untouched.
func (o *Order) TransitionTo(target Status) error {
	if err := o.Validate(); err != nil {
		return err
	}
	if err := target.Validate(); err != nil {
		return err
	}

	if target == o.status {
		return nil
	}

	newStatus, err := o.status.TransitionTo(target)
	if err != nil {
		return err
	}

	if newStatus == Shipped && !o.HasTrackedShipment() {
		return ErrShipmentRequired
	}

	o.status = newStatus
	return nil
}

// AttachShipment attaches a shipment to the order.
//
// Fails with ErrShipmentAlreadyExists if the order already carries a
// shipment with a tracking number: duplicate labels must never be purchased,
// and updates go through the tracking reconciliation path instead.
func (o *Order) AttachShipment(s *shipment.Shipment) error {
	if err := o.Validate(); err != nil {
		return err
	}
	if s == nil {
		return errs.NewValueIsRequiredError("shipment")
	}
	if err := s.Validate(); err != nil {
		return err
	}
	if o.HasTrackedShipment() {
		return ErrShipmentAlreadyExists
	}

	o.shipment = s
	return nil
}

// Archive soft-archives the order. Orders are never deleted; archived
// orders disappear from active listings but remain addressable by id.
// Archiving an archived order is a no-op.
func (o *Order) Archive() {
	o.archived = true
}

func (o *Order) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	o.id = id
	return nil
}

func (o *Order) setOrderNumber(orderNumber string) error {
	if orderNumber == "" {
		return errs.NewValueIsRequiredError("order number")
	}
	o.orderNumber = orderNumber
	return nil
}

func (o *Order) setItems(items []LineItem) error {
	if len(items) == 0 {
		return errs.NewValueIsRequiredError("line items")
	}
	o.items = make([]LineItem, len(items))
	copy(o.items, items)
	return nil
}

func (o *Order) setShipTo(shipTo Address) error {
	if err := shipTo.Validate(); err != nil {
		return err
	}
	o.shipTo = shipTo
	return nil
}

func (o *Order) setCharges(charges Charges) error {
	beforeDiscount := charges.Subtotal.Add(charges.ShippingCost).Add(charges.Tax)
	expected, err := beforeDiscount.Sub(charges.Discount)
	if err != nil {
		return errs.NewValueIsInvalidErrorWithCause("order charges", err)
	}
	if !charges.Total.WithinTolerance(expected, totalToleranceCents) {
		return errs.NewValueIsInvalidErrorWithCause("order total",
			fmt.Errorf("%s does not reconcile with %s + %s + %s - %s",
				charges.Total, charges.Subtotal, charges.ShippingCost, charges.Tax, charges.Discount))
	}
	o.charges = charges
	return nil
}
