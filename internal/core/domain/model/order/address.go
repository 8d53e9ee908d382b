package order

import (
	"fulfillment/internal/pkg/errs"
)

// Address is the shipping destination value object owned by an order.
// Immutable after construction.
type Address struct {
	name       string
	line1      string
	line2      string
	city       string
	state      string
	postalCode string
	country    string
	phone      string
}

// NewAddress creates a validated shipping address.
// Name, first address line, city, postal code, and country are required;
// the second line, state, and phone are optional.
func NewAddress(name, line1, line2, city, state, postalCode, country, phone string) (Address, error) {
	switch {
	case name == "":
		return Address{}, errs.NewValueIsRequiredError("address name")
	case line1 == "":
		return Address{}, errs.NewValueIsRequiredError("address line1")
	case city == "":
		return Address{}, errs.NewValueIsRequiredError("address city")
	case postalCode == "":
		return Address{}, errs.NewValueIsRequiredError("address postal code")
	case country == "":
		return Address{}, errs.NewValueIsRequiredError("address country")
	}

	return Address{
		name:       name,
		line1:      line1,
		line2:      line2,
		city:       city,
		state:      state,
		postalCode: postalCode,
		country:    country,
		phone:      phone,
	}, nil
}

// Name returns the recipient name.
func (a Address) Name() string { return a.name }

// Line1 returns the first street address line.
func (a Address) Line1() string { return a.line1 }

// Line2 returns the optional second street address line.
func (a Address) Line2() string { return a.line2 }

// City returns the city.
func (a Address) City() string { return a.city }

// State returns the state or province, if applicable.
func (a Address) State() string { return a.state }

// PostalCode returns the postal code.
func (a Address) PostalCode() string { return a.postalCode }

// Country returns the ISO country code.
func (a Address) Country() string { return a.country }

// Phone returns the contact phone number, if provided.
func (a Address) Phone() string { return a.phone }

// Validate reports whether the address was constructed with its required
// fields. The zero value fails validation.
func (a Address) Validate() error {
	if a.name == "" || a.line1 == "" || a.city == "" || a.postalCode == "" || a.country == "" {
		return errs.NewValueIsRequiredError("address")
	}
	return nil
}
