package quote

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
	"unicode"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Provinces lists the accepted two-letter province and territory codes.
var Provinces = []string{"AB", "BC", "MB", "NB", "NL", "NS", "NT", "NU", "ON", "PE", "QC", "SK", "YT"}

var titleCaser = cases.Title(language.English)

// FormatName trims and title-cases a name, city or address.
func FormatName(value string) string {
	return titleCaser.String(strings.TrimSpace(value))
}

func ValidProvince(code string) bool {
	return slices.Contains(Provinces, strings.ToUpper(strings.TrimSpace(code)))
}

// NormalizeProvince upper-cases the code and rejects unknown provinces.
func NormalizeProvince(code string) (string, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if !ValidProvince(code) {
		return "", fmt.Errorf("%w: %q", ErrInvalidProvince, code)
	}
	return code, nil
}

// NormalizePostalCode returns the code in "A1A 1A1" form.
func NormalizePostalCode(code string) (string, error) {
	compact := strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(code), " ", ""))
	if len(compact) != 6 {
		return "", fmt.Errorf("%w: %q", ErrInvalidPostalCode, code)
	}
	for i, r := range compact {
		if i%2 == 0 && !unicode.IsLetter(r) {
			return "", fmt.Errorf("%w: %q", ErrInvalidPostalCode, code)
		}
		if i%2 == 1 && !unicode.IsDigit(r) {
			return "", fmt.Errorf("%w: %q", ErrInvalidPostalCode, code)
		}
	}
	return compact[:3] + " " + compact[3:], nil
}

// NormalizePhone accepts any punctuation around ten digits and returns
// 999-999-9999.
func NormalizePhone(phone string) (string, error) {
	digits := make([]rune, 0, 10)
	for _, r := range phone {
		switch {
		case unicode.IsDigit(r):
			digits = append(digits, r)
		case r == '-' || r == ' ' || r == '(' || r == ')' || r == '.':
		default:
			return "", fmt.Errorf("%w: %q", ErrInvalidPhone, phone)
		}
	}
	if len(digits) != 10 {
		return "", fmt.Errorf("%w: %q", ErrInvalidPhone, phone)
	}
	s := string(digits)
	return s[:3] + "-" + s[3:6] + "-" + s[6:], nil
}

// ParseDate parses an ISO calendar date.
func ParseDate(value string) (civil.Date, error) {
	d, err := civil.ParseDate(strings.TrimSpace(value))
	if err != nil {
		return civil.Date{}, fmt.Errorf("%w: %q", ErrInvalidDate, value)
	}
	return d, nil
}

// ParseAmount parses a non-negative money amount, tolerating a leading "$"
// and thousands separators.
func ParseAmount(value string) (decimal.Decimal, error) {
	clean := strings.TrimSpace(value)
	clean = strings.TrimPrefix(clean, "$")
	clean = strings.ReplaceAll(clean, ",", "")
	if clean == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(clean)
	if err != nil || d.IsNegative() {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrInvalidAmount, value)
	}
	return d, nil
}

// ParseYesNo accepts Y, YES, N or NO in any case.
func ParseYesNo(value string) (bool, error) {
	switch strings.ToUpper(strings.TrimSpace(value)) {
	case "Y", "YES":
		return true, nil
	case "N", "NO":
		return false, nil
	}
	return false, fmt.Errorf("%w: %q", ErrNotYesNo, value)
}

// ParseVehicles parses a vehicle count between 1 and MaxVehicles.
func ParseVehicles(value string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil || n < 1 || n > MaxVehicles {
		return 0, fmt.Errorf("%w: %q", ErrInvalidVehicles, value)
	}
	return n, nil
}
