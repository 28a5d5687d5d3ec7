package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/onestop-insurance/onestop/pkg/storage"
)

// issueTwo runs a session that issues policies 1944 and 1945.
func issueTwo(t *testing.T, dir string) {
	t.Helper()
	var lines []string
	lines = append(lines, fullPayCustomer()...)
	lines = append(lines, "y")
	lines = append(lines, fullPayCustomer()...)
	lines = append(lines, "n")
	if _, _, err := runCLI(t, dir, answers(lines...), "quote"); err != nil {
		t.Fatalf("quote: %v", err)
	}
}

func TestLedgerList_Empty(t *testing.T) {
	out, _, err := runCLI(t, newWorkspace(t), "", "ledger", "list")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "No policies recorded yet.") {
		t.Errorf("unexpected output:\n%s", out)
	}
}

func TestLedgerList_Formats(t *testing.T) {
	dir := newWorkspace(t)
	issueTwo(t, dir)

	tests := []struct {
		format string
		want   []string
	}{
		{"text", []string{"Policy", "1944", "1945", "John Smith", "2 policies, $3,778.26 pre-tax"}},
		{"csv", []string{"policy_number,first_name,last_name", "1944,John,Smith,10 Main St,St. John's,NL,A1B 2C3"}},
		{"json", []string{`"policy_number": 1945`, `"first_name": "John"`, `"pre_tax_total": "1889.13"`}},
		{"yaml", []string{"- policy_number: 1944", "province: NL"}},
	}
	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			out, _, err := runCLI(t, dir, "", "ledger", "list", "--format", tt.format)
			if err != nil {
				t.Fatal(err)
			}
			for _, want := range tt.want {
				if !strings.Contains(out, want) {
					t.Errorf("output missing %q:\n%s", want, out)
				}
			}
		})
	}
}

func TestLedgerList_ReportsDamagedLine(t *testing.T) {
	dir := newWorkspace(t)
	if err := os.WriteFile(filepath.Join(dir, storage.LedgerFile), []byte("not, a, ledger\n"), 0600); err != nil {
		t.Fatal(err)
	}
	_, _, err := runCLI(t, dir, "", "ledger", "list")
	if err == nil || !strings.Contains(err.Error(), "ledger file is damaged") {
		t.Fatalf("expected damaged ledger error, got %v", err)
	}
}

func TestLedgerList_OlderLayout(t *testing.T) {
	dir := newWorkspace(t)
	older := "1944.0, Sam, Hill, 3 Bay Rd, Corner Brook, NL, A2H 1A1, 709-555-0199, 1, False, False, False, N, F, 0, 77, 2021-09-30 00:00:00, 755.65\n"
	if err := os.WriteFile(filepath.Join(dir, storage.LedgerFile), []byte(older), 0600); err != nil {
		t.Fatal(err)
	}

	out, _, err := runCLI(t, dir, "", "ledger", "list")
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"1944", "Sam Hill", "1 policy in the older ledger layout"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestLedgerTail_LastLines(t *testing.T) {
	dir := newWorkspace(t)
	issueTwo(t, dir)

	out, _, err := runCLI(t, dir, "", "ledger", "tail", "--lines", "1")
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 1 || !strings.HasPrefix(lines[0], "1945, John, Smith") {
		t.Errorf("tail output = %q", lines)
	}
}

func TestLastLines_MissingFile(t *testing.T) {
	lines, err := lastLines(filepath.Join(t.TempDir(), "none.dat"), 5)
	if err != nil || lines != nil {
		t.Errorf("lastLines = %v, %v", lines, err)
	}
}
