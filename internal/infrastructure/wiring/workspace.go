package wiring

import (
	"fmt"
	"log/slog"

	"github.com/onestop-insurance/onestop/internal/infrastructure/config"
	"github.com/onestop-insurance/onestop/pkg/storage"
)

// Workspace bundles the directory, its settings and its repository.
type Workspace struct {
	Root     string
	Settings config.Settings
	Repo     *storage.FilesystemRepository
	Logger   *slog.Logger
}

// NewWorkspace loads settings from root. Invalid settings are reported and
// replaced by the defaults so quoting can still proceed.
func NewWorkspace(root string, logger *slog.Logger) (*Workspace, error) {
	if logger == nil {
		logger = slog.Default()
	}

	settings, err := config.LoadSettings(root)
	if err != nil {
		logger.Warn("using default settings", "file", config.SettingsFile, "error", err)
	}

	repo := storage.NewFilesystemRepository(root,
		storage.WithConstantsFile(settings.Files.Constants),
		storage.WithLedgerFile(settings.Files.Ledger),
	)
	if _, err := repo.ConstantsPath(); err != nil {
		return nil, fmt.Errorf("constants file: %w", err)
	}
	if _, err := repo.LedgerPath(); err != nil {
		return nil, fmt.Errorf("ledger file: %w", err)
	}

	return &Workspace{
		Root:     root,
		Settings: settings,
		Repo:     repo,
		Logger:   logger,
	}, nil
}
