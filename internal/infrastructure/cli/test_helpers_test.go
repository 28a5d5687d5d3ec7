package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"cloud.google.com/go/civil"
	"github.com/onestop-insurance/onestop/internal/infrastructure/config"
)

// newWorkspace returns a directory with pacing disabled so sessions run
// without delays.
func newWorkspace(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()
	settings := config.DefaultSettings()
	settings.Display.Pacing = false
	if err := config.SaveSettings(dir, settings); err != nil {
		t.Fatalf("save settings: %v", err)
	}
	return dir
}

// runCLI executes the root command against dir with stdin as input.
func runCLI(t *testing.T, dir, stdin string, args ...string) (string, string, error) {
	t.Helper()

	oldDate := issueDate
	issueDate = func() civil.Date { return civil.Date{Year: 2024, Month: 1, Day: 15} }
	t.Cleanup(func() { issueDate = oldDate })

	workspaceDir, verbose = "", false
	pricingFormat, ledgerFormat = formatText, formatText
	ledgerInteractive, tailFollow, tailLines = false, false, 10
	if f := RootCmd.Flags().Lookup("help"); f != nil {
		_ = f.Value.Set("false")
	}

	var stdout, stderr bytes.Buffer
	RootCmd.SetIn(strings.NewReader(stdin))
	RootCmd.SetOut(&stdout)
	RootCmd.SetErr(&stderr)
	RootCmd.SetArgs(append(args, "--dir", dir))
	t.Cleanup(func() {
		RootCmd.SetIn(nil)
		RootCmd.SetOut(nil)
		RootCmd.SetErr(nil)
		RootCmd.SetArgs(nil)
	})

	err := Execute()
	return stdout.String(), stderr.String(), err
}

func readFile(t *testing.T, dir, name string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(dir, name))
	if err != nil {
		t.Fatalf("read %s: %v", name, err)
	}
	return string(data)
}

func firstLine(s string) string {
	line, _, _ := strings.Cut(s, "\n")
	return line
}

// answers joins prompt answers into stdin text.
func answers(lines ...string) string {
	return strings.Join(lines, "\n") + "\n"
}

// fullPayCustomer answers every prompt for three cars with all coverage,
// paid in full.
func fullPayCustomer() []string {
	return []string{
		"john", "smith", "10 Main St", "st. john's", "nl", "a1b2c3", "7095551234",
		"3", "y", "y", "y", "n", "f",
		"12345", "2023-05-14", "1500",
	}
}
