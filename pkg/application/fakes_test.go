package application_test

import (
	"errors"
	"fmt"
	"io/fs"

	"cloud.google.com/go/civil"
	"github.com/onestop-insurance/onestop/pkg/domain/ledger"
	"github.com/onestop-insurance/onestop/pkg/domain/pricing"
	"github.com/onestop-insurance/onestop/pkg/domain/quote"
	"github.com/shopspring/decimal"
)

var errDiskFull = errors.New("disk full")

// fakePricingRepo holds constants in memory. A nil Config means no file.
type fakePricingRepo struct {
	Config    *pricing.Config
	LoadError error
	SaveError error
	Saves     int
}

func (f *fakePricingRepo) LoadPricing() (pricing.Config, error) {
	if f.LoadError != nil {
		return pricing.Config{}, f.LoadError
	}
	if f.Config == nil {
		return pricing.Config{}, fmt.Errorf("open const.dat: %w", fs.ErrNotExist)
	}
	return *f.Config, nil
}

func (f *fakePricingRepo) SavePricing(cfg pricing.Config) error {
	if f.SaveError != nil {
		return f.SaveError
	}
	f.Saves++
	f.LoadError = nil
	f.Config = &cfg
	return nil
}

type fakeLedgerRepo struct {
	Entries     []ledger.Entry
	AppendError error
	LastError   error
}

func (f *fakeLedgerRepo) AppendLedgerEntry(e ledger.Entry) error {
	if f.AppendError != nil {
		return f.AppendError
	}
	if n := len(f.Entries); n > 0 && e.PolicyNumber <= f.Entries[n-1].PolicyNumber {
		return ledger.ErrPolicyNumberNotIncreasing
	}
	f.Entries = append(f.Entries, e)
	return nil
}

func (f *fakeLedgerRepo) LoadLedger() ([]ledger.Entry, error) {
	return f.Entries, nil
}

func (f *fakeLedgerRepo) LastPolicyNumber() (int64, bool, error) {
	if f.LastError != nil {
		return 0, false, f.LastError
	}
	if len(f.Entries) == 0 {
		return 0, false, nil
	}
	return f.Entries[len(f.Entries)-1].PolicyNumber, true, nil
}

func sampleRequest() quote.Request {
	return quote.Request{
		Customer: quote.Customer{
			FirstName:  "John",
			LastName:   "Smith",
			Address:    "10 Main St",
			City:       "St. John's",
			Province:   "NL",
			PostalCode: "A1B 2C3",
			Phone:      "709-555-1234",
		},
		Vehicles: 3,
		Coverage: quote.Coverage{ExtraLiability: true, Glass: true, LoanerCar: true},
		Payment:  quote.PayInFull,
		Claim: quote.Claim{
			Number: "12345",
			Date:   civil.Date{Year: 2023, Month: 5, Day: 14},
			Amount: decimal.RequireFromString("1500.00"),
		},
	}
}
