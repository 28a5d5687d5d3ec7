package cli

import (
	"fmt"
	"io"

	"github.com/onestop-insurance/onestop/pkg/domain/pricing"
	"github.com/onestop-insurance/onestop/pkg/domain/receipt"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

var pricingFormat string

var pricingCmd = &cobra.Command{
	Use:   "pricing",
	Short: "Show or reset the pricing constants",
}

var pricingShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the next policy number and the pricing parameters",
	Long: `Show the constants used to price policies. A missing or damaged constants
file is replaced with the defaults first.

Examples:
  onestop pricing show
  onestop pricing show --format json`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := checkFormat(pricingFormat, formatText, formatJSON, formatYAML); err != nil {
			return err
		}
		services, err := loadServices(cmd, nil)
		if err != nil {
			return MapError(err)
		}
		// Load may repair the constants file.
		unlock, err := services.Workspace.Repo.Lock()
		if err != nil {
			return MapError(err)
		}
		defer func() { _ = unlock() }()

		cfg, err := services.Pricing.Load()
		if err != nil {
			return MapError(err)
		}
		if pricingFormat != formatText {
			return writeStructured(cmd.OutOrStdout(), pricingFormat, cfg)
		}
		printPricing(cmd.OutOrStdout(), cfg)
		return nil
	},
}

var pricingResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Restore the default pricing parameters",
	Long: `Restore the default pricing parameters. The next policy number is kept
so that policy numbers keep increasing.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		services, err := loadServices(cmd, nil)
		if err != nil {
			return MapError(err)
		}
		unlock, err := services.Workspace.Repo.Lock()
		if err != nil {
			return MapError(err)
		}
		defer func() { _ = unlock() }()

		cfg, err := services.Pricing.Reset()
		if err != nil {
			return MapError(err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Pricing parameters restored to defaults.")
		printPricing(cmd.OutOrStdout(), cfg)
		return nil
	},
}

func percent(rate decimal.Decimal) string {
	return rate.Mul(decimal.NewFromInt(100)).String() + "%"
}

func printPricing(w io.Writer, cfg pricing.Config) {
	rows := []struct{ label, value string }{
		{"Next policy number", fmt.Sprintf("%d", cfg.PolicyCounter)},
		{"Base premium", receipt.Money(cfg.BasePremium)},
		{"Additional car discount", percent(cfg.AdditionalCarDiscount)},
		{"Extra liability (per car)", receipt.Money(cfg.ExtraLiabilityCost)},
		{"Glass coverage (per car)", receipt.Money(cfg.GlassCoverageCost)},
		{"Loaner car (per car)", receipt.Money(cfg.LoanerCarCost)},
		{"Tax rate", percent(cfg.TaxRate)},
		{"Monthly processing fee", receipt.Money(cfg.ProcessingFee)},
	}
	for _, r := range rows {
		fmt.Fprintf(w, "%-27s %s\n", r.label+":", r.value)
	}
}

func init() {
	pricingShowCmd.Flags().StringVarP(&pricingFormat, "format", "f", formatText, "Output format: text, json or yaml")
	pricingCmd.AddCommand(pricingShowCmd, pricingResetCmd)
	RootCmd.AddCommand(pricingCmd)
}
