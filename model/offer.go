package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Money is encoded as bare JSON numbers, the same shape as resolver outcomes.
func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

type PaymentPlan string

const (
	PaymentPlanFull         PaymentPlan = "full"
	PaymentPlanDeposit      PaymentPlan = "deposit"
	PaymentPlanInstallments PaymentPlan = "installments"
)

func (p PaymentPlan) Valid() bool {
	switch p {
	case PaymentPlanFull, PaymentPlanDeposit, PaymentPlanInstallments:
		return true
	}
	return false
}

// Offer is a host's proposed price and terms for an enabler's service.
type Offer struct {
	Price        decimal.Decimal `json:"price"`
	Date         time.Time       `json:"date"`
	GuestCount   int             `json:"guest_count"`
	PackageItems []string        `json:"package_items"`
	PaymentPlan  PaymentPlan     `json:"payment_plan"`
}

// PricingFramework bounds the prices an enabler accepts without review.
type PricingFramework struct {
	EnablerID             string          `json:"enabler_id"`
	BasePrice             decimal.Decimal `json:"base_price"`
	MaxDiscountPercentage decimal.Decimal `json:"max_discount_percentage"`
	AutoNegotiate         bool            `json:"auto_negotiate"`
	UpdatedAt             time.Time       `json:"updated_at"`
}
