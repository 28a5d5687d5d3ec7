package application

import (
	"fmt"
	"log/slog"

	"github.com/onestop-insurance/onestop/pkg/domain/ledger"
	"github.com/onestop-insurance/onestop/pkg/domain/quote"
	"github.com/shopspring/decimal"
)

type LedgerService struct {
	repo   ledger.Repository
	logger *slog.Logger
}

func NewLedgerService(repo ledger.Repository, logger *slog.Logger) *LedgerService {
	if logger == nil {
		logger = slog.Default()
	}
	return &LedgerService{repo: repo, logger: logger}
}

// Append records a finalized policy.
func (s *LedgerService) Append(policyNumber int64, req quote.Request, preTaxTotal decimal.Decimal) error {
	entry := ledger.Entry{
		PolicyNumber: policyNumber,
		Request:      req,
		PreTaxTotal:  preTaxTotal,
	}
	if err := s.repo.AppendLedgerEntry(entry); err != nil {
		return fmt.Errorf("failed to append policy %d to ledger: %w", policyNumber, err)
	}
	s.logger.Debug("ledger entry appended", "policy_number", policyNumber)
	return nil
}

func (s *LedgerService) List() ([]ledger.Entry, error) {
	entries, err := s.repo.LoadLedger()
	if err != nil {
		return nil, fmt.Errorf("failed to load ledger: %w", err)
	}
	return entries, nil
}

// Verify reports ledger lines that break policy number ordering.
func (s *LedgerService) Verify() ([]string, error) {
	entries, err := s.List()
	if err != nil {
		return nil, err
	}
	return ledger.CheckMonotonic(entries), nil
}
