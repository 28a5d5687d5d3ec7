package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/felixgeelhaar/fortify/retry"
	"github.com/gofrs/flock"
)

const ConstantsFile = "const.dat"
const LedgerFile = "policy.dat"
const LockFile = "onestop.lock"

var ErrWorkspaceLocked = errors.New("workspace is in use by another onestop process")

// FilesystemRepository keeps the pricing constants and the policy ledger as
// flat files in a workspace directory.
type FilesystemRepository struct {
	root          string
	constantsFile string
	ledgerFile    string
	retryConfig   retry.Config
}

type Option func(*FilesystemRepository)

// WithConstantsFile overrides the constants file name.
func WithConstantsFile(name string) Option {
	return func(r *FilesystemRepository) {
		if name != "" {
			r.constantsFile = name
		}
	}
}

// WithLedgerFile overrides the ledger file name.
func WithLedgerFile(name string) Option {
	return func(r *FilesystemRepository) {
		if name != "" {
			r.ledgerFile = name
		}
	}
}

func NewFilesystemRepository(root string, opts ...Option) *FilesystemRepository {
	r := &FilesystemRepository{
		root:          root,
		constantsFile: ConstantsFile,
		ledgerFile:    LedgerFile,
		retryConfig: retry.Config{
			MaxAttempts:   3,
			InitialDelay:  10 * time.Millisecond,
			BackoffPolicy: retry.BackoffExponential,
		},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Root returns the workspace root directory.
func (r *FilesystemRepository) Root() string {
	return r.root
}

// ResolvePath ensures the path is a direct child of the workspace root.
func (r *FilesystemRepository) ResolvePath(filename string) (string, error) {
	if filename == "" {
		return "", fmt.Errorf("filename cannot be empty")
	}

	baseDir := filepath.Clean(r.root)
	cleanPath := filepath.Clean(filepath.Join(baseDir, filename))

	if !strings.HasPrefix(cleanPath, baseDir) || filepath.Dir(cleanPath) != baseDir {
		return "", fmt.Errorf("invalid file path: %s", filename)
	}

	return cleanPath, nil
}

// ConstantsPath returns the resolved path of the constants file.
func (r *FilesystemRepository) ConstantsPath() (string, error) {
	return r.ResolvePath(r.constantsFile)
}

// LedgerPath returns the resolved path of the ledger file.
func (r *FilesystemRepository) LedgerPath() (string, error) {
	return r.ResolvePath(r.ledgerFile)
}

func (r *FilesystemRepository) Initialize() error {
	// G301: Use 0700 for directories
	if err := os.MkdirAll(r.root, 0700); err != nil {
		return fmt.Errorf("failed to create workspace directory: %w", err)
	}
	return nil
}

// Lock takes the exclusive workspace lock without blocking. The returned
// function releases it.
func (r *FilesystemRepository) Lock() (func() error, error) {
	if err := r.Initialize(); err != nil {
		return nil, err
	}
	path, err := r.ResolvePath(LockFile)
	if err != nil {
		return nil, err
	}

	fl := flock.New(path)
	ok, err := fl.TryLock()
	if err != nil {
		return nil, fmt.Errorf("failed to acquire workspace lock: %w", err)
	}
	if !ok {
		return nil, ErrWorkspaceLocked
	}
	return fl.Unlock, nil
}

// readFile reads a workspace file, retrying transient failures. A missing file
// is reported immediately.
func (r *FilesystemRepository) readFile(path string) ([]byte, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, err
	}

	retryer := retry.New[[]byte](r.retryConfig)
	return retryer.Do(context.Background(), func(ctx context.Context) ([]byte, error) {
		// #nosec G304 -- Path is resolved and validated via ResolvePath
		return os.ReadFile(path)
	})
}
