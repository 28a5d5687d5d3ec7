package config

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/onestop-insurance/onestop/pkg/domain/receipt"
	"github.com/onestop-insurance/onestop/pkg/storage"
)

// SettingsFile is the optional per-workspace settings file.
const SettingsFile = "onestop.toml"

var ErrInvalidSettings = errors.New("invalid settings")

// Settings holds presentation and file layout choices. Pricing constants live
// in the constants file, not here.
type Settings struct {
	Company  string          `toml:"company"`
	Footer   string          `toml:"footer"`
	LogLevel string          `toml:"log_level"`
	Files    FileSettings    `toml:"files"`
	Display  DisplaySettings `toml:"display"`
}

type FileSettings struct {
	Constants string `toml:"constants"`
	Ledger    string `toml:"ledger"`
}

type DisplaySettings struct {
	// Pacing turns on the save progress bar and blinking confirmation.
	Pacing        bool          `toml:"pacing"`
	Step          time.Duration `toml:"step"`
	Frames        int           `toml:"frames"`
	BlinkInterval time.Duration `toml:"blink_interval"`
	Blinks        int           `toml:"blinks"`
}

func DefaultSettings() Settings {
	return Settings{
		Company:  receipt.DefaultCompany,
		Footer:   receipt.DefaultFooter,
		LogLevel: "info",
		Files: FileSettings{
			Constants: storage.ConstantsFile,
			Ledger:    storage.LedgerFile,
		},
		Display: DisplaySettings{
			Pacing:        true,
			Step:          100 * time.Millisecond,
			Frames:        30,
			BlinkInterval: 500 * time.Millisecond,
			Blinks:        6,
		},
	}
}

func (s Settings) Validate() error {
	if strings.TrimSpace(s.Files.Constants) == "" || strings.TrimSpace(s.Files.Ledger) == "" {
		return fmt.Errorf("%w: file names must not be empty", ErrInvalidSettings)
	}
	if s.Files.Constants == s.Files.Ledger {
		return fmt.Errorf("%w: constants and ledger must be different files", ErrInvalidSettings)
	}
	if _, err := ParseLevel(s.LogLevel); err != nil {
		return err
	}
	d := s.Display
	if d.Step < 0 || d.BlinkInterval < 0 || d.Frames < 0 || d.Blinks < 0 {
		return fmt.Errorf("%w: display timings and counts must not be negative", ErrInvalidSettings)
	}
	return nil
}

// Level returns the configured log level.
func (s Settings) Level() slog.Level {
	level, _ := ParseLevel(s.LogLevel)
	return level
}

func ParseLevel(name string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("%w: unknown log level %q", ErrInvalidSettings, name)
}

// LoadSettings reads onestop.toml from root. A missing file yields defaults;
// keys present in the file override them.
func LoadSettings(root string) (Settings, error) {
	settings := DefaultSettings()

	repo := storage.NewFilesystemRepository(root)
	path, err := repo.ResolvePath(SettingsFile)
	if err != nil {
		return settings, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return settings, nil
		}
		return settings, fmt.Errorf("failed to read settings: %w", err)
	}

	md, err := toml.Decode(string(data), &settings)
	if err != nil {
		return DefaultSettings(), fmt.Errorf("%w: %v", ErrInvalidSettings, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return DefaultSettings(), fmt.Errorf("%w: unknown key %q", ErrInvalidSettings, undecoded[0].String())
	}
	if err := settings.Validate(); err != nil {
		return DefaultSettings(), err
	}
	return settings, nil
}

func SaveSettings(root string, settings Settings) error {
	if err := settings.Validate(); err != nil {
		return err
	}

	repo := storage.NewFilesystemRepository(root)
	path, err := repo.ResolvePath(SettingsFile)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(settings); err != nil {
		return fmt.Errorf("failed to encode settings: %w", err)
	}
	if err := repo.Initialize(); err != nil {
		return err
	}
	return os.WriteFile(path, buf.Bytes(), 0600)
}
