package shipment

import (
	"fmt"

	"fulfillment/internal/pkg/errs"
)

// PackageDetails describes the physical package(s) of a shipment.
// Optional for manually recorded shipments: the zero value means
// "not provided" and is valid.
type PackageDetails struct {
	weightGrams  int
	lengthCm     int
	widthCm      int
	heightCm     int
	packageType  string
	packageCount int
}

// NewPackageDetails creates validated package details.
// Weight and dimensions must be positive, and there must be at least one package.
func NewPackageDetails(
	weightGrams, lengthCm, widthCm, heightCm int,
	packageType string,
	packageCount int,
) (PackageDetails, error) {
	if weightGrams <= 0 {
		return PackageDetails{}, errs.NewValueIsOutOfRangeError("package weight", weightGrams, 1, maxWeightGrams)
	}
	if weightGrams > maxWeightGrams {
		return PackageDetails{}, errs.NewValueIsOutOfRangeError("package weight", weightGrams, 1, maxWeightGrams)
	}
	if lengthCm <= 0 || widthCm <= 0 || heightCm <= 0 {
		return PackageDetails{}, errs.NewValueIsInvalidErrorWithCause("package dimensions",
			fmt.Errorf("%dx%dx%d cm is not a valid size", lengthCm, widthCm, heightCm))
	}
	if packageType == "" {
		return PackageDetails{}, errs.NewValueIsRequiredError("package type")
	}
	if packageCount < 1 {
		return PackageDetails{}, errs.NewValueIsOutOfRangeError("package count", packageCount, 1, maxPackageCount)
	}

	return PackageDetails{
		weightGrams:  weightGrams,
		lengthCm:     lengthCm,
		widthCm:      widthCm,
		heightCm:     heightCm,
		packageType:  packageType,
		packageCount: packageCount,
	}, nil
}

// Carrier-imposed limits for a single shipment.
const (
	maxWeightGrams  = 70_000
	maxPackageCount = 99
)

// IsZero reports whether details were never provided.
func (d PackageDetails) IsZero() bool {
	return d == PackageDetails{}
}

// WeightGrams returns the total package weight in grams.
func (d PackageDetails) WeightGrams() int {
	return d.weightGrams
}

// LengthCm returns the package length in centimeters.
func (d PackageDetails) LengthCm() int {
	return d.lengthCm
}

// WidthCm returns the package width in centimeters.
func (d PackageDetails) WidthCm() int {
	return d.widthCm
}

// HeightCm returns the package height in centimeters.
func (d PackageDetails) HeightCm() int {
	return d.heightCm
}

// PackageType returns the packaging kind, e.g. "parcel" or "envelope".
func (d PackageDetails) PackageType() string {
	return d.packageType
}

// PackageCount returns the number of physical packages in the shipment.
func (d PackageDetails) PackageCount() int {
	return d.packageCount
}
