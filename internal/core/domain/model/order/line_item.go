package order

import (
	"fmt"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
)

// lineTotalToleranceCents absorbs per-line rounding done by the upstream
// checkout (e.g. percentage discounts applied per unit).
const lineTotalToleranceCents = 1

// LineItem is one product position within an order.
// Immutable after construction; the order owns the ordered sequence.
type LineItem struct {
	productID kernel.UUID
	name      string
	quantity  int
	unitPrice kernel.Money
	lineTotal kernel.Money
}

// NewLineItem creates a validated line item.
// Quantity must be positive and the line total must reconcile with
// quantity * unit price within rounding tolerance.
func NewLineItem(
	productID kernel.UUID,
	name string,
	quantity int,
	unitPrice kernel.Money,
	lineTotal kernel.Money,
) (LineItem, error) {
	if err := productID.Validate(); err != nil {
		return LineItem{}, err
	}
	if name == "" {
		return LineItem{}, errs.NewValueIsRequiredError("line item name")
	}
	if quantity <= 0 {
		return LineItem{}, errs.NewValueIsOutOfRangeError("line item quantity", quantity, 1, maxLineItemQuantity)
	}
	if quantity > maxLineItemQuantity {
		return LineItem{}, errs.NewValueIsOutOfRangeError("line item quantity", quantity, 1, maxLineItemQuantity)
	}
	if expected := unitPrice.MulQuantity(quantity); !lineTotal.WithinTolerance(expected, lineTotalToleranceCents) {
		return LineItem{}, errs.NewValueIsInvalidErrorWithCause("line total",
			fmt.Errorf("%s does not match %d x %s", lineTotal, quantity, unitPrice))
	}

	return LineItem{
		productID: productID,
		name:      name,
		quantity:  quantity,
		unitPrice: unitPrice,
		lineTotal: lineTotal,
	}, nil
}

const maxLineItemQuantity = 999

// ProductID returns the referenced product identifier.
func (li LineItem) ProductID() kernel.UUID {
	return li.productID
}

// Name returns the product name captured at order time.
func (li LineItem) Name() string {
	return li.name
}

// Quantity returns the ordered quantity.
func (li LineItem) Quantity() int {
	return li.quantity
}

// UnitPrice returns the per-unit price captured at order time.
func (li LineItem) UnitPrice() kernel.Money {
	return li.unitPrice
}

// LineTotal returns the extended line amount.
func (li LineItem) LineTotal() kernel.Money {
	return li.lineTotal
}
