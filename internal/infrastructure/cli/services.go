package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/onestop-insurance/onestop/internal/infrastructure/config"
	"github.com/onestop-insurance/onestop/internal/infrastructure/wiring"
	"github.com/onestop-insurance/onestop/pkg/application"
	"github.com/spf13/cobra"
)

func getWorkspaceRoot() (string, error) {
	if workspaceDir != "" {
		abs, err := filepath.Abs(workspaceDir)
		if err != nil {
			return "", fmt.Errorf("invalid workspace path %q: %w", workspaceDir, err)
		}
		info, err := os.Stat(abs)
		if err != nil {
			return "", fmt.Errorf("workspace path %q: %w", abs, err)
		}
		if !info.IsDir() {
			return "", fmt.Errorf("workspace path %q is not a directory", abs)
		}
		return abs, nil
	}
	return os.Getwd()
}

func newLogger(w io.Writer, level slog.Level) *slog.Logger {
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// loadServices wires the services for the workspace. Log lines go to the
// command's stderr and carry attrs.
func loadServices(cmd *cobra.Command, attrs []any, opts ...application.QuoteOption) (*wiring.AppServices, error) {
	root, err := getWorkspaceRoot()
	if err != nil {
		return nil, err
	}

	// Invalid settings are reported by NewWorkspace; only the level is needed here.
	settings, _ := config.LoadSettings(root)
	logger := newLogger(cmd.ErrOrStderr(), settings.Level()).With(attrs...)

	ws, err := wiring.NewWorkspace(root, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to open workspace: %w", err)
	}
	return wiring.BuildForWorkspace(ws, opts...), nil
}
