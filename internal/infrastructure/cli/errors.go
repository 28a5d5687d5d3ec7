package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/onestop-insurance/onestop/internal/infrastructure/config"
	"github.com/onestop-insurance/onestop/pkg/domain/ledger"
	"github.com/onestop-insurance/onestop/pkg/domain/pricing"
	"github.com/onestop-insurance/onestop/pkg/storage"
)

// CLIError wraps domain errors with user-facing messages and actionable hints.
type CLIError struct {
	Message  string
	Hint     string
	Err      error
	ExitCode int
}

func (e *CLIError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *CLIError) Unwrap() error {
	return e.Err
}

// NewCLIError creates a CLIError with a default exit code of 1.
func NewCLIError(msg, hint string, err error) *CLIError {
	return &CLIError{
		Message:  msg,
		Hint:     hint,
		Err:      err,
		ExitCode: 1,
	}
}

// MapError converts known domain errors into CLIErrors with actionable hints.
// Unmapped errors are returned as-is.
func MapError(err error) error {
	if err == nil {
		return nil
	}

	var cliErr *CLIError
	if errors.As(err, &cliErr) {
		return err
	}

	switch {
	case errors.Is(err, storage.ErrWorkspaceLocked):
		return &CLIError{
			Message:  "another session is using this workspace",
			Hint:     "Finish the other quoting session, or use --dir to pick another workspace",
			Err:      err,
			ExitCode: 2,
		}
	case errors.Is(err, ledger.ErrPolicyNumberNotIncreasing):
		return NewCLIError("policy number already used in the ledger",
			"Raise the first line of the constants file above the last ledger policy number", err)
	case errors.Is(err, ledger.ErrMalformedLine):
		return NewCLIError("ledger file is damaged",
			"Fix or remove the reported line, then retry", err)
	case errors.Is(err, pricing.ErrMalformedConfig):
		return NewCLIError("pricing constants are invalid",
			"Run 'onestop pricing reset' to restore the defaults", err)
	case errors.Is(err, config.ErrInvalidSettings):
		return NewCLIError("settings file is invalid",
			fmt.Sprintf("Check %s in the workspace", config.SettingsFile), err)
	}

	return err
}

// PrintError writes err and any hint for the operator.
func PrintError(w io.Writer, err error) int {
	mapped := MapError(err)
	fmt.Fprintf(w, "Error: %v\n", mapped)

	var cliErr *CLIError
	if errors.As(mapped, &cliErr) {
		if cliErr.Hint != "" {
			fmt.Fprintf(w, "Hint: %s\n", cliErr.Hint)
		}
		return cliErr.ExitCode
	}
	return 1
}
