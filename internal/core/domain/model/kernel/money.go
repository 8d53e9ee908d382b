package kernel

import (
	"fmt"

	"fulfillment/internal/pkg/errs"
)

// Money is a value object representing a monetary amount in integer cents.
// Storing cents avoids floating point drift when order totals are validated.
//
// The zero value is a valid amount of zero. Negative amounts cannot be
// constructed; subtraction that would go below zero returns an error instead.
//
// Money is immutable: arithmetic methods return new values.
type Money struct {
	cents int64
}

// NewMoney creates a Money amount from integer cents.
// Returns an error for negative amounts.
func NewMoney(cents int64) (Money, error) {
	if cents < 0 {
		return Money{}, errs.NewValueIsInvalidErrorWithCause("money",
			fmt.Errorf("%d cents is negative", cents))
	}
	return Money{cents: cents}, nil
}

// Cents returns the amount in integer cents.
func (m Money) Cents() int64 {
	return m.cents
}

// Add returns the sum of two amounts.
func (m Money) Add(other Money) Money {
	return Money{cents: m.cents + other.cents}
}

// Sub returns the difference of two amounts.
// Returns an error if the result would be negative.
func (m Money) Sub(other Money) (Money, error) {
	if other.cents > m.cents {
		return Money{}, errs.NewValueIsInvalidErrorWithCause("money",
			fmt.Errorf("subtracting %d cents from %d cents is negative", other.cents, m.cents))
	}
	return Money{cents: m.cents - other.cents}, nil
}

// MulQuantity returns the amount multiplied by a line quantity.
func (m Money) MulQuantity(quantity int) Money {
	return Money{cents: m.cents * int64(quantity)}
}

// IsEqual compares two amounts for exact equality.
func (m Money) IsEqual(other Money) bool {
	return m.cents == other.cents
}

// WithinTolerance reports whether two amounts differ by at most
// toleranceCents. Used for totals that upstream systems computed with
// per-line rounding.
func (m Money) WithinTolerance(other Money, toleranceCents int64) bool {
	diff := m.cents - other.cents
	if diff < 0 {
		diff = -diff
	}
	return diff <= toleranceCents
}

// String formats the amount as a decimal string, e.g. "12.34".
func (m Money) String() string {
	return fmt.Sprintf("%d.%02d", m.cents/100, m.cents%100)
}
