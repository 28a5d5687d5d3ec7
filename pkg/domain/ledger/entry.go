// Package ledger defines the append-only policy record and its one-line text
// encoding.
package ledger

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/onestop-insurance/onestop/pkg/domain/quote"
	"github.com/shopspring/decimal"
)

var (
	ErrMalformedLine             = errors.New("malformed ledger line")
	ErrPolicyNumberNotIncreasing = errors.New("policy number must be greater than the last recorded policy")
)

// Separator joins fields on a ledger line.
const Separator = ", "

// Columns names the fields of a ledger line in order.
var Columns = []string{
	"policy_number", "first_name", "last_name", "address", "city", "province",
	"postal_code", "phone", "vehicles", "extra_liability", "glass_coverage",
	"loaner_car", "insured_value", "payment_option", "down_payment",
	"claim_number", "claim_date", "claim_amount", "pre_tax_total",
}

// Entry is one finalized policy.
type Entry struct {
	PolicyNumber int64           `json:"policy_number" yaml:"policy_number"`
	Request      quote.Request   `json:"request" yaml:"request"`
	PreTaxTotal  decimal.Decimal `json:"pre_tax_total" yaml:"pre_tax_total"`
	// Legacy marks a line in the older 18-field layout, which has no claim
	// amount column.
	Legacy       bool            `json:"legacy,omitempty" yaml:"legacy,omitempty"`
}

// clean strips characters that would break the line format.
func clean(s string) string {
	s = strings.ReplaceAll(s, "\n", " ")
	s = strings.ReplaceAll(s, "\r", " ")
	return strings.TrimSpace(strings.ReplaceAll(s, ",", " "))
}

func flag(v bool) string {
	if v {
		return "Y"
	}
	return "N"
}

// Fields returns the entry as ordered column values.
func (e Entry) Fields() []string {
	r := e.Request
	c := r.Customer
	return []string{
		strconv.FormatInt(e.PolicyNumber, 10),
		clean(c.FirstName),
		clean(c.LastName),
		clean(c.Address),
		clean(c.City),
		clean(c.Province),
		clean(c.PostalCode),
		clean(c.Phone),
		strconv.Itoa(r.Vehicles),
		flag(r.Coverage.ExtraLiability),
		flag(r.Coverage.Glass),
		flag(r.Coverage.LoanerCar),
		flag(r.InsuredValue),
		string(r.Payment),
		r.DownPayment.StringFixed(2),
		clean(r.Claim.Number),
		r.Claim.Date.String(),
		r.Claim.Amount.StringFixed(2),
		e.PreTaxTotal.StringFixed(2),
	}
}

// Line encodes the entry without a trailing newline.
func (e Entry) Line() string {
	return strings.Join(e.Fields(), Separator)
}

// ParseLine decodes a line written by Line. Lines in the older layout are
// accepted too: 18 fields, True/False coverage flags, a float policy number
// and a timestamp claim date. Their claim amount reads as zero.
func ParseLine(line string) (Entry, error) {
	parts := strings.Split(strings.TrimRight(line, "\r\n"), Separator)
	legacy := len(parts) == len(Columns)-1
	if len(parts) != len(Columns) && !legacy {
		return Entry{}, fmt.Errorf("%w: expected %d fields, got %d", ErrMalformedLine, len(Columns), len(parts))
	}
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	if legacy {
		parts = slices.Insert(parts, claimAmountColumn, "0")
	}

	e := Entry{Legacy: legacy}
	var err error
	fail := func(col int, err error) (Entry, error) {
		return Entry{}, fmt.Errorf("%w: %s: %v", ErrMalformedLine, Columns[col], err)
	}

	if e.PolicyNumber, err = ParsePolicyNumber(parts[0]); err != nil {
		return fail(0, err)
	}
	e.Request.Customer = quote.Customer{
		FirstName:  parts[1],
		LastName:   parts[2],
		Address:    parts[3],
		City:       parts[4],
		Province:   parts[5],
		PostalCode: parts[6],
		Phone:      parts[7],
	}
	if e.Request.Vehicles, err = strconv.Atoi(parts[8]); err != nil {
		return fail(8, err)
	}
	flags := []*bool{
		&e.Request.Coverage.ExtraLiability,
		&e.Request.Coverage.Glass,
		&e.Request.Coverage.LoanerCar,
		&e.Request.InsuredValue,
	}
	for i, dst := range flags {
		col := 9 + i
		if *dst, err = parseFlag(parts[col]); err != nil {
			return fail(col, err)
		}
	}
	if e.Request.Payment, err = quote.ParsePaymentOption(parts[13]); err != nil {
		return fail(13, err)
	}
	if e.Request.DownPayment, err = decimal.NewFromString(parts[14]); err != nil {
		return fail(14, err)
	}
	e.Request.Claim.Number = parts[15]
	claimDate, _, _ := strings.Cut(parts[16], " ")
	if e.Request.Claim.Date, err = quote.ParseDate(claimDate); err != nil {
		return fail(16, err)
	}
	if e.Request.Claim.Amount, err = decimal.NewFromString(parts[17]); err != nil {
		return fail(17, err)
	}
	if e.PreTaxTotal, err = decimal.NewFromString(parts[18]); err != nil {
		return fail(18, err)
	}
	return e, nil
}

const claimAmountColumn = 17

// ParsePolicyNumber reads a policy number, accepting the "1945.0" form that
// older ledgers wrote.
func ParsePolicyNumber(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil || !d.IsInteger() {
		return 0, fmt.Errorf("invalid policy number %q", s)
	}
	return d.IntPart(), nil
}

func parseFlag(s string) (bool, error) {
	switch strings.ToUpper(s) {
	case "Y", "TRUE":
		return true, nil
	case "N", "FALSE":
		return false, nil
	}
	return false, fmt.Errorf("invalid flag %q", s)
}

// CheckMonotonic returns a description of every entry whose policy number
// does not exceed its predecessor's.
func CheckMonotonic(entries []Entry) []string {
	var violations []string
	for i := 1; i < len(entries); i++ {
		prev, cur := entries[i-1].PolicyNumber, entries[i].PolicyNumber
		if cur <= prev {
			violations = append(violations, fmt.Sprintf("line %d: policy %d follows %d", i+1, cur, prev))
		}
	}
	return violations
}

// Repository persists ledger entries.
type Repository interface {
	AppendLedgerEntry(entry Entry) error
	LoadLedger() ([]Entry, error)
	// LastPolicyNumber reports the policy number on the final ledger line.
	LastPolicyNumber() (int64, bool, error)
}
