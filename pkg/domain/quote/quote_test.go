package quote

import (
	"errors"
	"testing"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"
)

func validRequest() Request {
	return Request{
		Customer: Customer{
			FirstName:  "Jane",
			LastName:   "Doe",
			Address:    "12 Water St",
			City:       "St. John's",
			Province:   "NL",
			PostalCode: "A1C 5M2",
			Phone:      "709-555-0100",
		},
		Vehicles: 2,
		Payment:  PayInFull,
		Claim: Claim{
			Number: "C-100",
			Date:   civil.Date{Year: 2023, Month: 5, Day: 14},
			Amount: decimal.RequireFromString("1250.00"),
		},
	}
}

func TestNormalizePostalCode(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"a1c5m2", "A1C 5M2", false},
		{" A1C 5M2 ", "A1C 5M2", false},
		{"a1c 5m", "", true},
		{"11c5m2", "", true},
		{"a1c5mm", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := NormalizePostalCode(tt.in)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidPostalCode) {
					t.Fatalf("expected ErrInvalidPostalCode, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("NormalizePostalCode(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestNormalizeProvince(t *testing.T) {
	if got, err := NormalizeProvince(" nl "); err != nil || got != "NL" {
		t.Errorf("NormalizeProvince(nl) = %q, %v", got, err)
	}
	if _, err := NormalizeProvince("XX"); !errors.Is(err, ErrInvalidProvince) {
		t.Errorf("expected ErrInvalidProvince, got %v", err)
	}
}

func TestNormalizePhone(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"7095550100", "709-555-0100", false},
		{"(709) 555-0100", "709-555-0100", false},
		{"709.555.0100", "709-555-0100", false},
		{"555-0100", "", true},
		{"709-555-01OO", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := NormalizePhone(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("NormalizePhone(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("NormalizePhone(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestParseAmount(t *testing.T) {
	got, err := ParseAmount("$1,500.25")
	if err != nil {
		t.Fatal(err)
	}
	if !got.Equal(decimal.RequireFromString("1500.25")) {
		t.Errorf("got %s", got)
	}

	if got, err := ParseAmount(""); err != nil || !got.IsZero() {
		t.Errorf("empty amount should be zero, got %s, %v", got, err)
	}
	if _, err := ParseAmount("-5"); !errors.Is(err, ErrInvalidAmount) {
		t.Errorf("expected ErrInvalidAmount, got %v", err)
	}
	if _, err := ParseAmount("abc"); !errors.Is(err, ErrInvalidAmount) {
		t.Errorf("expected ErrInvalidAmount, got %v", err)
	}
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2024-07-19")
	if err != nil {
		t.Fatal(err)
	}
	if d.String() != "2024-07-19" {
		t.Errorf("got %s", d)
	}
	if _, err := ParseDate("19/07/2024"); !errors.Is(err, ErrInvalidDate) {
		t.Errorf("expected ErrInvalidDate, got %v", err)
	}
}

func TestParsePaymentOption(t *testing.T) {
	for in, want := range map[string]PaymentOption{"f": PayInFull, "Full": PayInFull, "m": Monthly, "MONTHLY": Monthly} {
		got, err := ParsePaymentOption(in)
		if err != nil || got != want {
			t.Errorf("ParsePaymentOption(%q) = %q, %v", in, got, err)
		}
	}
	if _, err := ParsePaymentOption("x"); !errors.Is(err, ErrInvalidPayment) {
		t.Errorf("expected ErrInvalidPayment, got %v", err)
	}
	if Monthly.Label() != "Monthly" || PayInFull.Label() != "Full" {
		t.Error("unexpected labels")
	}
}

func TestFormatName(t *testing.T) {
	if got := FormatName("  jane doe "); got != "Jane Doe" {
		t.Errorf("FormatName = %q", got)
	}
}

func TestParseYesNo(t *testing.T) {
	tests := []struct {
		in      string
		want    bool
		wantErr bool
	}{
		{"y", true, false},
		{" Yes", true, false},
		{"n", false, false},
		{"NO", false, false},
		{"", false, true},
		{"maybe", false, true},
	}
	for _, tt := range tests {
		got, err := ParseYesNo(tt.in)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("ParseYesNo(%q) = %v, %v", tt.in, got, err)
		}
		if tt.wantErr && !errors.Is(err, ErrNotYesNo) {
			t.Errorf("ParseYesNo(%q) error = %v, want ErrNotYesNo", tt.in, err)
		}
	}
}

func TestParseVehicles(t *testing.T) {
	tests := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{"1", 1, false},
		{" 3 ", 3, false},
		{"99", 99, false},
		{"0", 0, true},
		{"100", 0, true},
		{"1000000000", 0, true},
		{"two", 0, true},
	}
	for _, tt := range tests {
		got, err := ParseVehicles(tt.in)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("ParseVehicles(%q) = %d, %v", tt.in, got, err)
		}
	}
}

func TestRequest_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Request)
		wantErr error
	}{
		{"valid", func(*Request) {}, nil},
		{"missing name", func(r *Request) { r.Customer.LastName = " " }, ErrMissingName},
		{"bad province", func(r *Request) { r.Customer.Province = "ZZ" }, ErrInvalidProvince},
		{"bad postal code", func(r *Request) { r.Customer.PostalCode = "123" }, ErrInvalidPostalCode},
		{"zero vehicles", func(r *Request) { r.Vehicles = 0 }, ErrInvalidVehicles},
		{"too many vehicles", func(r *Request) { r.Vehicles = MaxVehicles + 1 }, ErrInvalidVehicles},
		{"bad payment", func(r *Request) { r.Payment = "X" }, ErrInvalidPayment},
		{"negative down payment", func(r *Request) { r.DownPayment = decimal.NewFromInt(-1) }, ErrInvalidAmount},
		{"missing claim number", func(r *Request) { r.Claim.Number = "" }, ErrMissingClaimNumber},
		{"invalid claim date", func(r *Request) { r.Claim.Date = civil.Date{Year: 2023, Month: 2, Day: 30} }, ErrInvalidDate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := validRequest()
			tt.mutate(&r)
			err := r.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}
