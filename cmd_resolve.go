package main

import (
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"golang.org/x/text/currency"

	"enabler-backend/pkg/negotiation"
)

var (
	resolveOffer    string
	resolveBase     string
	resolveDiscount string
)

var resolveCmd = &cobra.Command{
	Use:     "resolve",
	Short:   "Resolve an offer against a pricing framework and print the outcome",
	Example: `  enabler resolve --offer 850 --base 1000 --discount 10`,
	RunE: func(cmd *cobra.Command, args []string) error {
		unit, err := cfg.CurrencyUnit()
		if err != nil {
			return err
		}
		out, err := resolveOutcome(unit, resolveOffer, resolveBase, resolveDiscount)
		if err != nil {
			return err
		}
		raw, err := json.MarshalIndent(out, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(raw))
		return nil
	},
}

func init() {
	resolveCmd.Flags().StringVar(&resolveOffer, "offer", "", "offered price")
	resolveCmd.Flags().StringVar(&resolveBase, "base", "0", "enabler base price")
	resolveCmd.Flags().StringVar(&resolveDiscount, "discount", "0", "maximum discount percentage")
	_ = resolveCmd.MarkFlagRequired("offer")
}

func resolveOutcome(unit currency.Unit, offer, base, discount string) (negotiation.Outcome, error) {
	values := make([]decimal.Decimal, 3)
	for i, raw := range []string{offer, base, discount} {
		v, err := decimal.NewFromString(raw)
		if err != nil {
			return negotiation.Outcome{}, fmt.Errorf("invalid number %q: %w", raw, err)
		}
		values[i] = v
	}
	return negotiation.NewResolver(unit).Resolve(values[0], values[1], values[2])
}
