package negotiation

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// InvalidInputError reports a resolver argument outside its allowed range.
// It is never retried.
type InvalidInputError struct {
	Field  string
	Value  decimal.Decimal
	Reason string
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("invalid negotiation input: %s %s (got %s)", e.Field, e.Reason, e.Value.String())
}

// Validate checks the ranges Resolve requires.
func Validate(offeredPrice, basePrice, maxDiscountPercentage decimal.Decimal) error {
	if !offeredPrice.IsPositive() {
		return &InvalidInputError{Field: "offered_price", Value: offeredPrice, Reason: "must be greater than zero"}
	}
	return ValidateFramework(basePrice, maxDiscountPercentage)
}

// ValidateFramework checks an enabler's pricing policy on its own.
func ValidateFramework(basePrice, maxDiscountPercentage decimal.Decimal) error {
	if basePrice.IsNegative() {
		return &InvalidInputError{Field: "base_price", Value: basePrice, Reason: "must not be negative"}
	}
	if maxDiscountPercentage.IsNegative() || maxDiscountPercentage.GreaterThan(hundred) {
		return &InvalidInputError{Field: "max_discount_percentage", Value: maxDiscountPercentage, Reason: "must be between 0 and 100"}
	}
	return nil
}
