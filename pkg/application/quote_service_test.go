package application_test

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"cloud.google.com/go/civil"
	"github.com/onestop-insurance/onestop/pkg/application"
	"github.com/onestop-insurance/onestop/pkg/domain/ledger"
	"github.com/onestop-insurance/onestop/pkg/domain/quote"
	"github.com/onestop-insurance/onestop/pkg/storage"
	"github.com/shopspring/decimal"
)

func newQuoteService(pr *fakePricingRepo, lr *fakeLedgerRepo) *application.QuoteService {
	return application.NewQuoteService(
		application.NewPricingService(pr, lr, nil),
		application.NewLedgerService(lr, nil),
		nil,
		application.WithClock(func() civil.Date { return civil.Date{Year: 2024, Month: 1, Day: 15} }),
	)
}

func TestQuoteService_Price(t *testing.T) {
	svc := newQuoteService(&fakePricingRepo{}, &fakeLedgerRepo{})
	cfg, err := svc.Constants()
	if err != nil {
		t.Fatal(err)
	}

	b, err := svc.Price(sampleRequest(), cfg)
	if err != nil {
		t.Fatal(err)
	}
	if !b.TotalWithTax.Equal(decimal.RequireFromString("3443.675")) {
		t.Errorf("TotalWithTax = %s", b.TotalWithTax)
	}

	bad := sampleRequest()
	bad.Customer.Province = "ZZ"
	if _, err := svc.Price(bad, cfg); !errors.Is(err, quote.ErrInvalidProvince) {
		t.Errorf("expected ErrInvalidProvince, got %v", err)
	}
}

func TestQuoteService_Receipt(t *testing.T) {
	svc := newQuoteService(&fakePricingRepo{}, &fakeLedgerRepo{})
	cfg, _ := svc.Constants()
	req := sampleRequest()
	b, err := svc.Price(req, cfg)
	if err != nil {
		t.Fatal(err)
	}

	out := svc.Receipt(cfg.PolicyCounter, req, b)
	for _, want := range []string{"Policy #:   1944", "2024-01-15", "$3,443.68", "12345"} {
		if !strings.Contains(out, want) {
			t.Errorf("receipt missing %q", want)
		}
	}
}

func TestQuoteService_IssueAdvancesAndRecords(t *testing.T) {
	pr := &fakePricingRepo{}
	lr := &fakeLedgerRepo{}
	svc := newQuoteService(pr, lr)

	cfg, _ := svc.Constants()
	req := sampleRequest()
	for i := 0; i < 3; i++ {
		b, err := svc.Price(req, cfg)
		if err != nil {
			t.Fatal(err)
		}
		res, err := svc.Issue(cfg, req, b)
		if err != nil {
			t.Fatal(err)
		}
		if res.LedgerErr != nil {
			t.Fatalf("unexpected ledger error %v", res.LedgerErr)
		}
		if res.PolicyNumber != 1944+int64(i) || res.Next.PolicyCounter != res.PolicyNumber+1 {
			t.Fatalf("issue %d: policy %d next %d", i, res.PolicyNumber, res.Next.PolicyCounter)
		}
		cfg = res.Next
	}

	if len(lr.Entries) != 3 {
		t.Fatalf("ledger has %d entries", len(lr.Entries))
	}
	if v := ledger.CheckMonotonic(lr.Entries); v != nil {
		t.Errorf("violations: %v", v)
	}
	if got := lr.Entries[0].PreTaxTotal.StringFixed(2); got != "1889.13" {
		t.Errorf("PreTaxTotal = %s, want 1889.13", got)
	}
	if pr.Config.PolicyCounter != 1947 {
		t.Errorf("stored counter = %d", pr.Config.PolicyCounter)
	}
}

func TestQuoteService_IssueLedgerFailureStillAdvances(t *testing.T) {
	pr := &fakePricingRepo{}
	lr := &fakeLedgerRepo{AppendError: errDiskFull}
	svc := newQuoteService(pr, lr)

	cfg, _ := svc.Constants()
	req := sampleRequest()
	b, _ := svc.Price(req, cfg)

	res, err := svc.Issue(cfg, req, b)
	if err != nil {
		t.Fatal(err)
	}
	if !errors.Is(res.LedgerErr, errDiskFull) {
		t.Errorf("LedgerErr = %v", res.LedgerErr)
	}
	if pr.Config.PolicyCounter != 1945 {
		t.Errorf("counter not advanced: %d", pr.Config.PolicyCounter)
	}
}

func TestQuoteService_WithFilesystem(t *testing.T) {
	dir := t.TempDir()
	repo := storage.NewFilesystemRepository(dir)
	svc := application.NewQuoteService(
		application.NewPricingService(repo, repo, nil),
		application.NewLedgerService(repo, nil),
		nil,
	)

	cfg, err := svc.Constants()
	if err != nil {
		t.Fatal(err)
	}
	req := sampleRequest()
	req.Payment = quote.Monthly
	req.DownPayment = decimal.NewFromInt(500)
	b, err := svc.Price(req, cfg)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Issue(cfg, req, b); err != nil {
		t.Fatal(err)
	}

	reloaded, err := repo.LoadPricing()
	if err != nil {
		t.Fatal(err)
	}
	if reloaded.PolicyCounter != 1945 {
		t.Errorf("stored counter = %d", reloaded.PolicyCounter)
	}
	entries, err := application.NewLedgerService(repo, nil).List()
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || entries[0].PolicyNumber != 1944 || entries[0].Request.Payment != quote.Monthly {
		t.Errorf("unexpected ledger %+v", entries)
	}
}

func TestQuoteService_DamagedConstantsKeepLedgerIncreasing(t *testing.T) {
	dir := t.TempDir()
	repo := storage.NewFilesystemRepository(dir)
	newService := func() *application.QuoteService {
		return application.NewQuoteService(
			application.NewPricingService(repo, repo, nil),
			application.NewLedgerService(repo, nil),
			nil,
		)
	}
	issue := func(svc *application.QuoteService, n int) {
		t.Helper()
		cfg, err := svc.Constants()
		if err != nil {
			t.Fatal(err)
		}
		for i := 0; i < n; i++ {
			b, err := svc.Price(sampleRequest(), cfg)
			if err != nil {
				t.Fatal(err)
			}
			res, err := svc.Issue(cfg, sampleRequest(), b)
			if err != nil {
				t.Fatal(err)
			}
			if res.LedgerErr != nil {
				t.Fatalf("policy %d not recorded: %v", res.PolicyNumber, res.LedgerErr)
			}
			cfg = res.Next
		}
	}

	issue(newService(), 3)
	if err := os.WriteFile(filepath.Join(dir, storage.ConstantsFile), []byte("garbage\n"), 0600); err != nil {
		t.Fatal(err)
	}
	issue(newService(), 3)

	entries, err := repo.LoadLedger()
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 6 {
		t.Fatalf("ledger has %d entries, want 6", len(entries))
	}
	if v := ledger.CheckMonotonic(entries); v != nil {
		t.Errorf("violations: %v", v)
	}
	if entries[3].PolicyNumber != 1947 || entries[5].PolicyNumber != 1949 {
		t.Errorf("policies after repair: %d..%d", entries[3].PolicyNumber, entries[5].PolicyNumber)
	}
	cfg, err := repo.LoadPricing()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.PolicyCounter != 1950 {
		t.Errorf("stored counter = %d, want 1950", cfg.PolicyCounter)
	}
}
