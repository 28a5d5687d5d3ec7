// Package quote holds the customer, vehicle and claim details collected for a
// single insurance quote.
package quote

import (
	"fmt"
	"strings"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"
)

// MaxVehicles caps the vehicle count; the receipt prints one row per vehicle.
const MaxVehicles = 99

// PaymentOption selects how the premium is settled.
type PaymentOption string

const (
	PayInFull PaymentOption = "F"
	Monthly   PaymentOption = "M"
)

// ParsePaymentOption accepts F/M as well as the spelled-out forms.
func ParsePaymentOption(value string) (PaymentOption, error) {
	switch strings.ToUpper(strings.TrimSpace(value)) {
	case "F", "FULL":
		return PayInFull, nil
	case "M", "MONTHLY":
		return Monthly, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidPayment, value)
}

// Label returns the receipt wording for the option.
func (p PaymentOption) Label() string {
	if p == Monthly {
		return "Monthly"
	}
	return "Full"
}

func (p PaymentOption) IsValid() bool {
	return p == PayInFull || p == Monthly
}

type Customer struct {
	FirstName  string `json:"first_name" yaml:"first_name"`
	LastName   string `json:"last_name" yaml:"last_name"`
	Address    string `json:"address" yaml:"address"`
	City       string `json:"city" yaml:"city"`
	Province   string `json:"province" yaml:"province"`
	PostalCode string `json:"postal_code" yaml:"postal_code"`
	Phone      string `json:"phone" yaml:"phone"`
}

// FullName joins first and last name with a single space.
func (c Customer) FullName() string {
	return strings.TrimSpace(c.FirstName + " " + c.LastName)
}

// Coverage flags apply to every vehicle on the policy.
type Coverage struct {
	ExtraLiability bool `json:"extra_liability" yaml:"extra_liability"`
	Glass          bool `json:"glass" yaml:"glass"`
	LoanerCar      bool `json:"loaner_car" yaml:"loaner_car"`
}

type Claim struct {
	Number string          `json:"number" yaml:"number"`
	Date   civil.Date      `json:"date" yaml:"date"`
	Amount decimal.Decimal `json:"amount" yaml:"amount"`
}

// Request is everything gathered from the operator for one policy.
type Request struct {
	Customer     Customer        `json:"customer" yaml:"customer"`
	Vehicles     int             `json:"vehicles" yaml:"vehicles"`
	Coverage     Coverage        `json:"coverage" yaml:"coverage"`
	InsuredValue bool            `json:"insured_value" yaml:"insured_value"`
	Payment      PaymentOption   `json:"payment" yaml:"payment"`
	DownPayment  decimal.Decimal `json:"down_payment" yaml:"down_payment"`
	Claim        Claim           `json:"claim" yaml:"claim"`
}

// Validate checks the structural rules a request must satisfy before pricing.
// Down payments larger than the premium are allowed.
func (r Request) Validate() error {
	if strings.TrimSpace(r.Customer.FirstName) == "" || strings.TrimSpace(r.Customer.LastName) == "" {
		return ErrMissingName
	}
	if !ValidProvince(r.Customer.Province) {
		return fmt.Errorf("%w: %q", ErrInvalidProvince, r.Customer.Province)
	}
	if _, err := NormalizePostalCode(r.Customer.PostalCode); err != nil {
		return err
	}
	if r.Vehicles < 1 || r.Vehicles > MaxVehicles {
		return fmt.Errorf("%w: got %d", ErrInvalidVehicles, r.Vehicles)
	}
	if !r.Payment.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidPayment, string(r.Payment))
	}
	if r.DownPayment.IsNegative() || r.Claim.Amount.IsNegative() {
		return ErrInvalidAmount
	}
	if strings.TrimSpace(r.Claim.Number) == "" {
		return ErrMissingClaimNumber
	}
	if !r.Claim.Date.IsValid() {
		return ErrInvalidDate
	}
	return nil
}
