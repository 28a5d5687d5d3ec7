package storage

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/onestop-insurance/onestop/pkg/domain/ledger"
)

var _ ledger.Repository = (*FilesystemRepository)(nil)

// AppendLedgerEntry writes one line to the ledger, creating the file when it
// does not exist. The policy number must exceed the last one on file.
func (r *FilesystemRepository) AppendLedgerEntry(entry ledger.Entry) (err error) {
	if err := r.Initialize(); err != nil {
		return err
	}
	path, err := r.LedgerPath()
	if err != nil {
		return err
	}

	last, found, err := r.LastPolicyNumber()
	if err != nil {
		return err
	}
	if found && entry.PolicyNumber <= last {
		return fmt.Errorf("%w: %d <= %d", ledger.ErrPolicyNumberNotIncreasing, entry.PolicyNumber, last)
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
	if err != nil {
		return fmt.Errorf("open ledger file: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close ledger file: %w", cerr)
		}
	}()

	if _, err := f.WriteString(entry.Line() + "\n"); err != nil {
		return fmt.Errorf("write ledger entry: %w", err)
	}
	return nil
}

// LoadLedger parses every line of the ledger. A missing ledger is empty.
func (r *FilesystemRepository) LoadLedger() ([]ledger.Entry, error) {
	path, err := r.LedgerPath()
	if err != nil {
		return nil, err
	}

	data, err := r.readFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []ledger.Entry{}, nil
		}
		return nil, fmt.Errorf("failed to read ledger file: %w", err)
	}

	return ParseLedger(data)
}

// ParseLedger decodes ledger text, skipping blank lines.
func ParseLedger(data []byte) ([]ledger.Entry, error) {
	entries := []ledger.Entry{}
	scanner := bufio.NewScanner(bytes.NewReader(data))
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		e, err := ledger.ParseLine(line)
		if err != nil {
			return nil, fmt.Errorf("ledger line %d: %w", lineNo, err)
		}
		entries = append(entries, e)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan ledger: %w", err)
	}
	return entries, nil
}

// LastPolicyNumber returns the policy number on the last non-blank ledger
// line. Only the first field is read.
func (r *FilesystemRepository) LastPolicyNumber() (int64, bool, error) {
	path, err := r.LedgerPath()
	if err != nil {
		return 0, false, err
	}

	data, err := r.readFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return 0, false, nil
		}
		return 0, false, fmt.Errorf("failed to read ledger file: %w", err)
	}

	lines := strings.Split(strings.TrimRight(string(data), "\r\n"), "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		line := strings.TrimSpace(lines[i])
		if line == "" {
			continue
		}
		head, _, _ := strings.Cut(line, ",")
		n, err := ledger.ParsePolicyNumber(head)
		if err != nil {
			return 0, false, fmt.Errorf("%w: last line has no policy number", ledger.ErrMalformedLine)
		}
		return n, true, nil
	}
	return 0, false, nil
}
