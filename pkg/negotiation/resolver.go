// Package negotiation classifies a host's price offer against an enabler's
// pricing framework.
//
// Resolution is a pure computation: a Resolver holds only the currency it
// rounds to and may be shared by any number of goroutines.
package negotiation

import (
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
)

type Status string

const (
	StatusAgreed    Status = "agreed"
	StatusCountered Status = "countered"
)

// Outcome is produced fresh by every Resolve call.
// CounterPrice is nil unless Status is StatusCountered.
type Outcome struct {
	Status       Status
	CounterPrice *decimal.Decimal
	Conditions   []string
}

type outcomeJSON struct {
	Status       Status       `json:"status"`
	CounterPrice *json.Number `json:"counterPrice"`
	Conditions   []string     `json:"conditions"`
}

// MarshalJSON renders CounterPrice as a bare JSON number (or null).
func (o Outcome) MarshalJSON() ([]byte, error) {
	out := outcomeJSON{Status: o.Status, Conditions: o.Conditions}
	if out.Conditions == nil {
		out.Conditions = []string{}
	}
	if o.CounterPrice != nil {
		n := json.Number(o.CounterPrice.String())
		out.CounterPrice = &n
	}
	return json.Marshal(out)
}

var (
	hundred = decimal.NewFromInt(100)
	one     = decimal.NewFromInt(1)
)

var symbols = map[string]string{
	"USD": "$",
	"EUR": "€",
	"GBP": "£",
	"JPY": "¥",
}

type Resolver struct {
	unit   currency.Unit
	scale  int32
	symbol string
}

// NewResolver returns a Resolver that rounds to the minor unit of cur.
func NewResolver(cur currency.Unit) *Resolver {
	scale, _ := currency.Standard.Rounding(cur)
	symbol, ok := symbols[cur.String()]
	if !ok {
		symbol = cur.String() + " "
	}
	return &Resolver{unit: cur, scale: int32(scale), symbol: symbol}
}

var usd = NewResolver(currency.USD)

// Resolve classifies an offer using US dollar rounding.
func Resolve(offeredPrice, basePrice, maxDiscountPercentage decimal.Decimal) (Outcome, error) {
	return usd.Resolve(offeredPrice, basePrice, maxDiscountPercentage)
}

func (r *Resolver) Currency() currency.Unit {
	return r.unit
}

// MinAcceptable is basePrice discounted by maxDiscountPercentage, rounded to
// the currency's minor unit. It never exceeds basePrice truncated to that
// unit, even when basePrice carries sub-unit digits.
func (r *Resolver) MinAcceptable(basePrice, maxDiscountPercentage decimal.Decimal) decimal.Decimal {
	factor := one.Sub(maxDiscountPercentage.Div(hundred))
	floor := basePrice.Mul(factor).Round(r.scale)
	return decimal.Min(floor, basePrice.RoundFloor(r.scale))
}

// Resolve accepts offers at or above the discounted floor and counters
// everything below it with the floor itself. A zero basePrice means the
// enabler set no floor, so every valid offer is accepted.
func (r *Resolver) Resolve(offeredPrice, basePrice, maxDiscountPercentage decimal.Decimal) (Outcome, error) {
	if err := Validate(offeredPrice, basePrice, maxDiscountPercentage); err != nil {
		return Outcome{}, err
	}

	minAcceptable := r.MinAcceptable(basePrice, maxDiscountPercentage)

	if offeredPrice.GreaterThanOrEqual(basePrice) {
		return agreed(), nil
	}
	if offeredPrice.GreaterThanOrEqual(minAcceptable) {
		return agreed(), nil
	}

	return Outcome{
		Status:       StatusCountered,
		CounterPrice: &minAcceptable,
		Conditions: []string{
			fmt.Sprintf("Price is below minimum acceptable. Counter-offer: %s", r.Format(minAcceptable)),
		},
	}, nil
}

// Format renders an amount with the currency symbol and minor-unit digits.
func (r *Resolver) Format(amount decimal.Decimal) string {
	return r.symbol + amount.StringFixed(r.scale)
}

func agreed() Outcome {
	return Outcome{Status: StatusAgreed, Conditions: []string{}}
}
