package storage

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/onestop-insurance/onestop/pkg/domain/pricing"
	"github.com/shopspring/decimal"
)

var _ pricing.Repository = (*FilesystemRepository)(nil)

// LoadPricing reads the constants file. A missing file is returned as an
// fs.ErrNotExist error; any other content problem wraps
// pricing.ErrMalformedConfig.
func (r *FilesystemRepository) LoadPricing() (pricing.Config, error) {
	path, err := r.ConstantsPath()
	if err != nil {
		return pricing.Config{}, err
	}

	data, err := r.readFile(path)
	if err != nil {
		return pricing.Config{}, fmt.Errorf("failed to read constants file: %w", err)
	}

	return ParseConstants(data)
}

// SavePricing overwrites the constants file, one value per line.
func (r *FilesystemRepository) SavePricing(cfg pricing.Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := r.Initialize(); err != nil {
		return err
	}
	path, err := r.ConstantsPath()
	if err != nil {
		return err
	}

	// G306: Use 0600 for files
	if err := os.WriteFile(path, FormatConstants(cfg), 0600); err != nil {
		return fmt.Errorf("failed to write constants file: %w", err)
	}
	return nil
}

// ParseConstants decodes exactly pricing.FieldCount numeric lines.
func ParseConstants(data []byte) (pricing.Config, error) {
	text := strings.TrimRight(string(data), "\r\n")
	lines := strings.Split(text, "\n")
	if len(lines) != pricing.FieldCount {
		return pricing.Config{}, fmt.Errorf("%w: expected %d lines, got %d", pricing.ErrMalformedConfig, pricing.FieldCount, len(lines))
	}

	values := make([]decimal.Decimal, 0, len(lines))
	for i, line := range lines {
		v, err := decimal.NewFromString(strings.TrimSpace(line))
		if err != nil {
			return pricing.Config{}, fmt.Errorf("%w: line %d: %q is not a number", pricing.ErrMalformedConfig, i+1, strings.TrimSpace(line))
		}
		values = append(values, v)
	}

	return pricing.FromValues(values)
}

// FormatConstants encodes the config with the counter as a whole number and
// the remaining values in their shortest exact form.
func FormatConstants(cfg pricing.Config) []byte {
	var b strings.Builder
	b.WriteString(strconv.FormatInt(cfg.PolicyCounter, 10))
	b.WriteByte('\n')
	for _, v := range cfg.Values()[1:] {
		b.WriteString(v.String())
		b.WriteByte('\n')
	}
	return []byte(b.String())
}
