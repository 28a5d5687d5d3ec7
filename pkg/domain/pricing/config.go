// Package pricing holds the persisted pricing constants and the premium
// calculation built on them.
package pricing

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var (
	ErrMalformedConfig      = errors.New("malformed pricing constants")
	ErrInvalidVehicleCount  = errors.New("vehicle count must be at least 1")
	ErrNegativeDownPayment  = errors.New("down payment must not be negative")
	ErrUnknownPaymentOption = errors.New("unknown payment option")
)

// FieldCount is the number of values stored in the constants file.
const FieldCount = 8

// Config carries the policy counter and the seven pricing parameters.
type Config struct {
	PolicyCounter         int64           `json:"policy_counter" yaml:"policy_counter"`
	BasePremium           decimal.Decimal `json:"base_premium" yaml:"base_premium"`
	AdditionalCarDiscount decimal.Decimal `json:"additional_car_discount" yaml:"additional_car_discount"`
	ExtraLiabilityCost    decimal.Decimal `json:"extra_liability_cost" yaml:"extra_liability_cost"`
	GlassCoverageCost     decimal.Decimal `json:"glass_coverage_cost" yaml:"glass_coverage_cost"`
	LoanerCarCost         decimal.Decimal `json:"loaner_car_cost" yaml:"loaner_car_cost"`
	TaxRate               decimal.Decimal `json:"tax_rate" yaml:"tax_rate"`
	ProcessingFee         decimal.Decimal `json:"processing_fee" yaml:"processing_fee"`
}

// DefaultConfig returns the constants seeded on first run or after corruption.
func DefaultConfig() Config {
	return Config{
		PolicyCounter:         1944,
		BasePremium:           decimal.RequireFromString("869.00"),
		AdditionalCarDiscount: decimal.RequireFromString("0.25"),
		ExtraLiabilityCost:    decimal.RequireFromString("130.00"),
		GlassCoverageCost:     decimal.RequireFromString("86.00"),
		LoanerCarCost:         decimal.RequireFromString("58.00"),
		TaxRate:               decimal.RequireFromString("0.15"),
		ProcessingFee:         decimal.RequireFromString("39.99"),
	}
}

// Values returns the constants in storage order.
func (c Config) Values() []decimal.Decimal {
	return []decimal.Decimal{
		decimal.NewFromInt(c.PolicyCounter),
		c.BasePremium,
		c.AdditionalCarDiscount,
		c.ExtraLiabilityCost,
		c.GlassCoverageCost,
		c.LoanerCarCost,
		c.TaxRate,
		c.ProcessingFee,
	}
}

// FromValues builds a Config from values in storage order and validates it.
func FromValues(values []decimal.Decimal) (Config, error) {
	if len(values) != FieldCount {
		return Config{}, fmt.Errorf("%w: expected %d values, got %d", ErrMalformedConfig, FieldCount, len(values))
	}
	if !values[0].IsInteger() {
		return Config{}, fmt.Errorf("%w: policy counter %s is not a whole number", ErrMalformedConfig, values[0])
	}
	cfg := Config{
		PolicyCounter:         values[0].IntPart(),
		BasePremium:           values[1],
		AdditionalCarDiscount: values[2],
		ExtraLiabilityCost:    values[3],
		GlassCoverageCost:     values[4],
		LoanerCarCost:         values[5],
		TaxRate:               values[6],
		ProcessingFee:         values[7],
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate enforces non-negative values and rates within [0,1].
func (c Config) Validate() error {
	if c.PolicyCounter < 0 {
		return fmt.Errorf("%w: policy counter is negative", ErrMalformedConfig)
	}
	for i, v := range c.Values()[1:] {
		if v.IsNegative() {
			return fmt.Errorf("%w: value %d is negative", ErrMalformedConfig, i+2)
		}
	}
	one := decimal.NewFromInt(1)
	if c.AdditionalCarDiscount.GreaterThan(one) {
		return fmt.Errorf("%w: additional car discount %s exceeds 1", ErrMalformedConfig, c.AdditionalCarDiscount)
	}
	if c.TaxRate.GreaterThan(one) {
		return fmt.Errorf("%w: tax rate %s exceeds 1", ErrMalformedConfig, c.TaxRate)
	}
	return nil
}

// Advance returns a copy with the policy counter moved to the next number.
func (c Config) Advance() Config {
	c.PolicyCounter++
	return c
}

// Repository persists the pricing constants.
type Repository interface {
	LoadPricing() (Config, error)
	SavePricing(cfg Config) error
}
