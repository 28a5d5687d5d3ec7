package pricing

import (
	"fmt"

	"github.com/onestop-insurance/onestop/pkg/domain/quote"
	"github.com/shopspring/decimal"
)

// Installments is the fixed number of monthly payments in a financing plan.
const Installments = 8

// Breakdown is the priced result for one request. Values keep full precision;
// rounding happens only when they are displayed or written to the ledger.
type Breakdown struct {
	Vehicles         int                 `json:"vehicles"`
	Payment          quote.PaymentOption `json:"payment"`
	TotalBasePremium decimal.Decimal     `json:"total_base_premium"`
	ExtraCosts       decimal.Decimal     `json:"extra_costs"`
	Subtotal         decimal.Decimal     `json:"subtotal"`
	Tax              decimal.Decimal     `json:"tax"`
	TotalWithTax     decimal.Decimal     `json:"total_with_tax"`
	DownPayment      decimal.Decimal     `json:"down_payment"`
	TotalOwing       decimal.Decimal     `json:"total_owing"`
	ProcessingFee    decimal.Decimal     `json:"processing_fee"`
	MonthlyPayment   decimal.Decimal     `json:"monthly_payment"`
}

// IsMonthly reports whether the breakdown includes a financing plan.
func (b Breakdown) IsMonthly() bool {
	return b.Payment == quote.Monthly
}

// Overpaid reports a down payment larger than the taxed total.
func (b Breakdown) Overpaid() bool {
	return b.TotalOwing.IsNegative()
}

// LedgerPreTax is the pre-tax figure recorded in the ledger: the total base
// premium divided by one plus the tax rate.
func LedgerPreTax(b Breakdown, cfg Config) decimal.Decimal {
	return b.TotalBasePremium.Div(decimal.NewFromInt(1).Add(cfg.TaxRate))
}

// Compute prices a request. The first vehicle pays the full base premium,
// each additional one is discounted, and every selected coverage option is
// charged once per vehicle.
func Compute(req quote.Request, cfg Config) (Breakdown, error) {
	if req.Vehicles < 1 {
		return Breakdown{}, fmt.Errorf("%w: got %d", ErrInvalidVehicleCount, req.Vehicles)
	}
	if !req.Payment.IsValid() {
		return Breakdown{}, fmt.Errorf("%w: %q", ErrUnknownPaymentOption, string(req.Payment))
	}

	n := decimal.NewFromInt(int64(req.Vehicles))
	additional := decimal.NewFromInt(int64(req.Vehicles - 1))
	discounted := cfg.BasePremium.Mul(decimal.NewFromInt(1).Sub(cfg.AdditionalCarDiscount))
	totalBase := cfg.BasePremium.Add(additional.Mul(discounted))

	extras := decimal.Zero
	if req.Coverage.ExtraLiability {
		extras = extras.Add(n.Mul(cfg.ExtraLiabilityCost))
	}
	if req.Coverage.Glass {
		extras = extras.Add(n.Mul(cfg.GlassCoverageCost))
	}
	if req.Coverage.LoanerCar {
		extras = extras.Add(n.Mul(cfg.LoanerCarCost))
	}

	subtotal := totalBase.Add(extras)
	tax := subtotal.Mul(cfg.TaxRate)
	totalWithTax := subtotal.Add(tax)

	b := Breakdown{
		Vehicles:         req.Vehicles,
		Payment:          req.Payment,
		TotalBasePremium: totalBase,
		ExtraCosts:       extras,
		Subtotal:         subtotal,
		Tax:              tax,
		TotalWithTax:     totalWithTax,
		DownPayment:      decimal.Zero,
		TotalOwing:       totalWithTax,
		ProcessingFee:    decimal.Zero,
		MonthlyPayment:   decimal.Zero,
	}

	if req.Payment == quote.Monthly {
		if req.DownPayment.IsNegative() {
			return Breakdown{}, ErrNegativeDownPayment
		}
		b.DownPayment = req.DownPayment
		b.TotalOwing = totalWithTax.Sub(req.DownPayment)
		b.ProcessingFee = cfg.ProcessingFee
		b.MonthlyPayment = b.TotalOwing.Add(cfg.ProcessingFee).Div(decimal.NewFromInt(Installments))
	}

	return b, nil
}
