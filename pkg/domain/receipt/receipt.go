// Package receipt renders a priced quote as a fixed-width text receipt.
package receipt

import (
	"fmt"
	"strings"
	"time"

	"cloud.google.com/go/civil"
	"github.com/dustin/go-humanize"
	"github.com/onestop-insurance/onestop/pkg/domain/pricing"
	"github.com/onestop-insurance/onestop/pkg/domain/quote"
	"github.com/shopspring/decimal"
)

const (
	// Width is the number of columns between the left margin and the right edge.
	Width  = 64
	margin = "      "

	DefaultCompany = "ONE STOP INSURANCE COMPANY"
	DefaultFooter  = "Thank You For Choosing One Stop Insurance!"
)

// Input is everything needed to print one receipt.
type Input struct {
	Company      string
	Footer       string
	PolicyNumber int64
	IssueDate    civil.Date
	Request      quote.Request
	Breakdown    pricing.Breakdown
	Claims       []quote.Claim
}

// Money formats an amount as $1,234.56, rounding half away from zero.
func Money(amount decimal.Decimal) string {
	rounded := amount.Round(2)
	sign := ""
	if rounded.IsNegative() {
		sign = "-"
		rounded = rounded.Abs()
	}
	return sign + "$" + humanize.FormatFloat("#,###.##", rounded.InexactFloat64())
}

// FirstPaymentDue is the first day of the month after the issue date.
func FirstPaymentDue(issued civil.Date) civil.Date {
	return civil.DateOf(time.Date(issued.Year, issued.Month+1, 1, 0, 0, 0, 0, time.UTC))
}

func yn(v bool) string {
	if v {
		return "Y"
	}
	return "N"
}

func center(s string, width int) string {
	if len(s) >= width {
		return s
	}
	left := (width - len(s)) / 2
	return strings.Repeat(" ", left) + s + strings.Repeat(" ", width-len(s)-left)
}

// row left-aligns label and right-aligns value within Width.
func row(label, value string) string {
	pad := Width - len(label) - len(value)
	if pad < 1 {
		pad = 1
	}
	return margin + label + strings.Repeat(" ", pad) + value
}

// Render produces the receipt text. It performs no I/O.
func Render(in Input) string {
	company := in.Company
	if company == "" {
		company = DefaultCompany
	}
	footer := in.Footer
	if footer == "" {
		footer = DefaultFooter
	}

	var b strings.Builder
	line := func(s string) {
		b.WriteString(strings.TrimRight(s, " "))
		b.WriteByte('\n')
	}
	rule := margin + strings.Repeat("-", Width)
	heading := func(title string) {
		line(margin + center(title, Width))
		line("")
	}

	border := "     +" + strings.Repeat("-", Width) + "+"
	line("")
	line(border)
	line("     |" + center(company, Width) + "|")
	line(border)

	c := in.Request.Customer
	heading("CUSTOMER DETAILS")
	line(row(fmt.Sprintf("Policy #:   %d", in.PolicyNumber), "Date: "+in.IssueDate.String()))
	line("")
	line(row(c.FullName(), c.Phone))
	line(margin + c.Address + ", " + c.PostalCode)
	line(margin + c.City + ", " + c.Province)
	line("")

	heading("POLICY COVERAGE DETAILS")
	line(margin + fmt.Sprintf("%-10s%18s%18s%18s", "", "Extra", "Glass", "Loaner Car"))
	line(margin + fmt.Sprintf("%-10s%18s%18s%18s", "Car #", "Liability", "Coverage", "Coverage"))
	line(rule)
	cov := in.Request.Coverage
	// Coverage is chosen per policy, so every vehicle row repeats the same flags.
	for i := 1; i <= in.Request.Vehicles; i++ {
		line(margin + fmt.Sprintf("  %-8d%18s%18s%18s", i, yn(cov.ExtraLiability), yn(cov.Glass), yn(cov.LoanerCar)))
	}
	line(rule)

	bd := in.Breakdown
	sub := strings.Repeat("-", 25)
	subRule := row(sub, strings.Repeat("-", 12))
	heading("PAYMENT DETAILS")
	line(row(fmt.Sprintf("Premium for %d vehicle(s):", in.Request.Vehicles), Money(bd.TotalBasePremium)))
	line(row("Extra coverage costs:", Money(bd.ExtraCosts)))
	line(subRule)
	line(row("Subtotal:", Money(bd.Subtotal)))
	line(row("HST:", Money(bd.Tax)))
	line(subRule)
	line(row("Total:", Money(bd.TotalWithTax)))
	line(row("Payment Option:", in.Request.Payment.Label()))
	if bd.IsMonthly() {
		line(row("Down Payment:", "-"+Money(bd.DownPayment)))
		line(subRule)
		line(row("Total Owing:", Money(bd.TotalOwing)))
		line(row("Processing Fee:", Money(bd.ProcessingFee)))
		line(row("Monthly Payment:", Money(bd.MonthlyPayment)))
		line("")
		line(row("First Payment Due:", FirstPaymentDue(in.IssueDate).String()))
	}
	line(rule)

	heading("PREVIOUS CLAIMS")
	line(margin + fmt.Sprintf("%-22s%-22s%20s", "Claim #", "Claim Date", "Amount"))
	line(rule)
	for _, cl := range in.Claims {
		line(margin + fmt.Sprintf("%-22s%-22s%20s", cl.Number, cl.Date.String(), Money(cl.Amount)))
	}
	line(rule)
	line(margin + center(footer, Width))
	line("")

	return b.String()
}
