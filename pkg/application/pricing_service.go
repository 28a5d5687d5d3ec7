package application

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"

	"github.com/onestop-insurance/onestop/pkg/domain/ledger"
	"github.com/onestop-insurance/onestop/pkg/domain/pricing"
)

// PricingService owns loading, self-healing and saving the pricing constants.
type PricingService struct {
	repo     pricing.Repository
	policies ledger.Repository
	logger   *slog.Logger
}

// NewPricingService builds the service. policies supplies the last recorded
// policy number so a repaired counter never falls behind the ledger; nil
// skips that check.
func NewPricingService(repo pricing.Repository, policies ledger.Repository, logger *slog.Logger) *PricingService {
	if logger == nil {
		logger = slog.Default()
	}
	return &PricingService{repo: repo, policies: policies, logger: logger}
}

// Load returns the stored constants. A missing or malformed constants file is
// replaced with the defaults, and a counter that is not above the last policy
// in the ledger is moved past it. Repairs are written back immediately.
func (s *PricingService) Load() (pricing.Config, error) {
	cfg, err := s.repo.LoadPricing()
	repaired := false
	if err != nil {
		var reason string
		switch {
		case errors.Is(err, fs.ErrNotExist):
			reason = "missing"
		case errors.Is(err, pricing.ErrMalformedConfig):
			reason = "malformed"
		default:
			return pricing.Config{}, fmt.Errorf("failed to load pricing constants: %w", err)
		}
		s.logger.Warn("pricing constants unusable, seeding defaults", "reason", reason, "error", err)
		cfg = pricing.DefaultConfig()
		repaired = true
	}

	next, err := s.nextAfterLedger()
	if err != nil {
		return pricing.Config{}, err
	}
	if cfg.PolicyCounter < next {
		s.logger.Warn("policy counter behind ledger, moving forward",
			"policy_counter", cfg.PolicyCounter,
			"next", next,
		)
		cfg.PolicyCounter = next
		repaired = true
	}

	if repaired {
		if err := s.repo.SavePricing(cfg); err != nil {
			return pricing.Config{}, fmt.Errorf("failed to seed pricing constants: %w", err)
		}
	}
	return cfg, nil
}

// nextAfterLedger returns the lowest policy number the ledger still accepts,
// or zero when there is no ledger to consult.
func (s *PricingService) nextAfterLedger() (int64, error) {
	if s.policies == nil {
		return 0, nil
	}
	last, found, err := s.policies.LastPolicyNumber()
	if err != nil {
		return 0, fmt.Errorf("failed to read last policy number: %w", err)
	}
	if !found {
		return 0, nil
	}
	return last + 1, nil
}

func (s *PricingService) Save(cfg pricing.Config) error {
	if err := s.repo.SavePricing(cfg); err != nil {
		return fmt.Errorf("failed to save pricing constants: %w", err)
	}
	return nil
}

// Reset restores the default pricing parameters but keeps the policy counter
// so policy numbers continue to increase.
func (s *PricingService) Reset() (pricing.Config, error) {
	current, err := s.Load()
	if err != nil {
		return pricing.Config{}, err
	}
	cfg := pricing.DefaultConfig()
	cfg.PolicyCounter = current.PolicyCounter
	if err := s.Save(cfg); err != nil {
		return pricing.Config{}, err
	}
	s.logger.Info("pricing parameters reset to defaults", "policy_counter", cfg.PolicyCounter)
	return cfg, nil
}

// AdvancePolicyNumber persists and returns cfg with the next policy number.
// On a save failure the advanced config is still returned alongside the error
// so the session does not reuse the number.
func (s *PricingService) AdvancePolicyNumber(cfg pricing.Config) (pricing.Config, error) {
	next := cfg.Advance()
	if err := s.Save(next); err != nil {
		return next, err
	}
	s.logger.Debug("policy counter advanced", "policy_counter", next.PolicyCounter)
	return next, nil
}
