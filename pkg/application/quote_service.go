package application

import (
	"fmt"
	"log/slog"
	"time"

	"cloud.google.com/go/civil"
	"github.com/onestop-insurance/onestop/pkg/domain/pricing"
	"github.com/onestop-insurance/onestop/pkg/domain/quote"
	"github.com/onestop-insurance/onestop/pkg/domain/receipt"
)

// QuoteService prices requests, renders receipts and issues policies.
type QuoteService struct {
	pricing *PricingService
	ledger  *LedgerService
	logger  *slog.Logger
	company string
	footer  string
	today   func() civil.Date
}

type QuoteOption func(*QuoteService)

func WithCompany(name string) QuoteOption {
	return func(s *QuoteService) { s.company = name }
}

func WithFooter(text string) QuoteOption {
	return func(s *QuoteService) { s.footer = text }
}

// WithClock overrides the source of the receipt issue date.
func WithClock(today func() civil.Date) QuoteOption {
	return func(s *QuoteService) { s.today = today }
}

func NewQuoteService(pricingSvc *PricingService, ledgerSvc *LedgerService, logger *slog.Logger, opts ...QuoteOption) *QuoteService {
	if logger == nil {
		logger = slog.Default()
	}
	s := &QuoteService{
		pricing: pricingSvc,
		ledger:  ledgerSvc,
		logger:  logger,
		company: receipt.DefaultCompany,
		footer:  receipt.DefaultFooter,
		today:   func() civil.Date { return civil.DateOf(time.Now()) },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Constants returns the current pricing constants, seeding defaults if needed.
func (s *QuoteService) Constants() (pricing.Config, error) {
	return s.pricing.Load()
}

// Price validates req and computes its breakdown under cfg.
func (s *QuoteService) Price(req quote.Request, cfg pricing.Config) (pricing.Breakdown, error) {
	if err := req.Validate(); err != nil {
		return pricing.Breakdown{}, err
	}
	return pricing.Compute(req, cfg)
}

// Receipt renders the receipt for a priced request dated today.
func (s *QuoteService) Receipt(policyNumber int64, req quote.Request, b pricing.Breakdown) string {
	return receipt.Render(receipt.Input{
		Company:      s.company,
		Footer:       s.footer,
		PolicyNumber: policyNumber,
		IssueDate:    s.today(),
		Request:      req,
		Breakdown:    b,
		Claims:       []quote.Claim{req.Claim},
	})
}

// IssueResult describes a finalized policy.
type IssueResult struct {
	PolicyNumber int64
	Next         pricing.Config
	// LedgerErr is set when the ledger could not be written. The counter is
	// advanced regardless.
	LedgerErr error
}

// Issue records the policy in the ledger under cfg's counter and advances the
// counter. Only a failure to persist the counter is returned as an error.
func (s *QuoteService) Issue(cfg pricing.Config, req quote.Request, b pricing.Breakdown) (IssueResult, error) {
	result := IssueResult{PolicyNumber: cfg.PolicyCounter}

	if err := s.ledger.Append(cfg.PolicyCounter, req, pricing.LedgerPreTax(b, cfg)); err != nil {
		s.logger.Warn("ledger write failed", "policy_number", cfg.PolicyCounter, "error", err)
		result.LedgerErr = err
	}

	next, err := s.pricing.AdvancePolicyNumber(cfg)
	result.Next = next
	if err != nil {
		return result, fmt.Errorf("policy %d issued but counter not saved: %w", cfg.PolicyCounter, err)
	}

	s.logger.Info("policy issued",
		"policy_number", result.PolicyNumber,
		"recorded", result.LedgerErr == nil,
		"customer", req.Customer.FullName(),
		"payment", req.Payment.Label(),
		"total", b.TotalWithTax.StringFixed(2),
	)
	return result, nil
}
