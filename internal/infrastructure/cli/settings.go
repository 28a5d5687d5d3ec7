package cli

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/onestop-insurance/onestop/internal/infrastructure/config"
	"github.com/onestop-insurance/onestop/pkg/domain/quote"
	"github.com/spf13/cobra"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage workspace settings (onestop.toml)",
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective settings",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		root, err := getWorkspaceRoot()
		if err != nil {
			return err
		}
		settings, err := config.LoadSettings(root)
		if err != nil {
			return MapError(err)
		}
		printSettings(cmd.OutOrStdout(), settings)
		return nil
	},
}

var settingsWizardCmd = &cobra.Command{
	Use:   "wizard",
	Short: "Interactive wizard for onestop.toml",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		root, err := getWorkspaceRoot()
		if err != nil {
			return fmt.Errorf("resolve workspace path: %w", err)
		}

		existing, err := config.LoadSettings(root)
		if err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "Warning: %v; starting from defaults\n", err)
		}

		out := cmd.OutOrStdout()
		p := newPrompter(cmd.InOrStdin(), out)

		fmt.Fprintln(out, "\n--- One Stop Settings Wizard ---")
		fmt.Fprintln(out, "Press Enter to keep the value in brackets.")
		fmt.Fprintln(out)

		settings, err := runSettingsWizard(p, existing)
		if err != nil {
			return err
		}
		if err := config.SaveSettings(root, settings); err != nil {
			return MapError(fmt.Errorf("failed to save settings: %w", err))
		}
		fmt.Fprintf(out, "\nSettings saved to %s.\n", config.SettingsFile)
		return nil
	},
}

func runSettingsWizard(p *prompter, s config.Settings) (config.Settings, error) {
	var err error
	text := func(label string, dst *string) {
		if err == nil {
			*dst, err = p.askDefault(label, *dst)
		}
	}
	number := func(label string, dst *int) {
		if err != nil {
			return
		}
		var raw string
		if raw, err = p.askDefault(label, strconv.Itoa(*dst)); err == nil {
			n, convErr := strconv.Atoi(raw)
			if convErr != nil || n < 0 {
				err = fmt.Errorf("%w: %s must be a whole number, got %q", config.ErrInvalidSettings, label, raw)
				return
			}
			*dst = n
		}
	}
	duration := func(label string, dst *time.Duration) {
		if err != nil {
			return
		}
		var raw string
		if raw, err = p.askDefault(label, dst.String()); err == nil {
			d, parseErr := time.ParseDuration(raw)
			if parseErr != nil {
				err = fmt.Errorf("%w: %s: %v", config.ErrInvalidSettings, label, parseErr)
				return
			}
			*dst = d
		}
	}

	text("Company name on receipts", &s.Company)
	text("Receipt footer", &s.Footer)
	text("Log level (debug, info, warn, error)", &s.LogLevel)
	text("Constants file", &s.Files.Constants)
	text("Ledger file", &s.Files.Ledger)

	pacing := "Y"
	if !s.Display.Pacing {
		pacing = "N"
	}
	text("Show save progress and blinking confirmation (Y/N)", &pacing)
	if err == nil {
		s.Display.Pacing, err = quote.ParseYesNo(pacing)
	}
	duration("Progress step", &s.Display.Step)
	number("Progress frames", &s.Display.Frames)
	duration("Blink interval", &s.Display.BlinkInterval)
	number("Blinks", &s.Display.Blinks)

	if errors.Is(err, io.EOF) {
		err = nil
	}
	if err != nil {
		return config.Settings{}, MapError(err)
	}
	if err := s.Validate(); err != nil {
		return config.Settings{}, MapError(err)
	}
	return s, nil
}

func printSettings(w io.Writer, s config.Settings) {
	fmt.Fprintf(w, "company         = %q\n", s.Company)
	fmt.Fprintf(w, "footer          = %q\n", s.Footer)
	fmt.Fprintf(w, "log_level       = %q\n", s.LogLevel)
	fmt.Fprintf(w, "constants file  = %s\n", s.Files.Constants)
	fmt.Fprintf(w, "ledger file     = %s\n", s.Files.Ledger)
	fmt.Fprintf(w, "pacing          = %t\n", s.Display.Pacing)
	fmt.Fprintf(w, "progress        = %d frames every %s\n", s.Display.Frames, s.Display.Step)
	fmt.Fprintf(w, "blinks          = %d every %s\n", s.Display.Blinks, s.Display.BlinkInterval)
}

func init() {
	settingsCmd.AddCommand(settingsShowCmd, settingsWizardCmd)
	RootCmd.AddCommand(settingsCmd)
}
