package cli

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/onestop-insurance/onestop/internal/infrastructure/display"
	"github.com/onestop-insurance/onestop/internal/infrastructure/watch"
	"github.com/onestop-insurance/onestop/pkg/domain/ledger"
	"github.com/spf13/cobra"
)

var (
	ledgerFormat      string
	ledgerInteractive bool
	tailLines         int
	tailFollow        bool
)

var ledgerCmd = &cobra.Command{
	Use:   "ledger",
	Short: "Inspect the policy ledger",
}

var ledgerListCmd = &cobra.Command{
	Use:   "list",
	Short: "List every recorded policy",
	Long: `List every policy in the ledger.

Examples:
  onestop ledger list
  onestop ledger list --format csv > policies.csv
  onestop ledger list --interactive`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := checkFormat(ledgerFormat, formatText, formatCSV, formatJSON, formatYAML); err != nil {
			return err
		}
		services, err := loadServices(cmd, nil)
		if err != nil {
			return MapError(err)
		}
		entries, err := services.Ledger.List()
		if err != nil {
			return MapError(err)
		}

		out := cmd.OutOrStdout()
		if ledgerInteractive {
			return display.Browse("Policy Ledger", entries, cmd.InOrStdin(), out)
		}

		switch ledgerFormat {
		case formatCSV:
			return writeLedgerCSV(out, entries)
		case formatJSON, formatYAML:
			return writeStructured(out, ledgerFormat, entries)
		}

		if len(entries) == 0 {
			fmt.Fprintln(out, "No policies recorded yet.")
			return nil
		}
		fmt.Fprintln(out, display.RenderLedger(entries))
		fmt.Fprintln(out, display.Summary(entries))
		if n := countLegacy(entries); n > 0 {
			fmt.Fprintf(out, "%d %s in the older ledger layout, claim amounts not recorded.\n", n, plural(n, "policy", "policies"))
		}
		if violations := ledger.CheckMonotonic(entries); len(violations) > 0 {
			display.Warn(out, strings.Join(violations, "\n"))
		}
		return nil
	},
}

func countLegacy(entries []ledger.Entry) int {
	n := 0
	for _, e := range entries {
		if e.Legacy {
			n++
		}
	}
	return n
}

func writeLedgerCSV(w io.Writer, entries []ledger.Entry) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(ledger.Columns); err != nil {
		return err
	}
	for _, e := range entries {
		if err := cw.Write(e.Fields()); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

var ledgerTailCmd = &cobra.Command{
	Use:   "tail",
	Short: "Print the last ledger lines, optionally following new policies",
	Long: `Print the last ledger lines. With --follow, keep running and print each
policy as another session records it. Stop with Ctrl+C.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		services, err := loadServices(cmd, nil)
		if err != nil {
			return MapError(err)
		}
		path, err := services.Workspace.Repo.LedgerPath()
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		lines, err := lastLines(path, tailLines)
		if err != nil {
			return err
		}
		for _, line := range lines {
			fmt.Fprintln(out, line)
		}
		if !tailFollow {
			return nil
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()

		logger := services.Workspace.Logger
		follower := watch.NewFollower(path, 100*time.Millisecond, func(lines []string) {
			for _, line := range lines {
				fmt.Fprintln(out, line)
			}
		})
		if err := follower.SeekEnd(); err != nil {
			return err
		}
		logger.Debug("following ledger", "path", path)
		return follower.Run(ctx, func(err error) {
			logger.Warn("ledger read failed", "error", err)
		})
	},
}

// lastLines returns up to n non-blank lines from the end of the file.
func lastLines(path string, n int) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read ledger file: %w", err)
	}
	var lines []string
	for _, line := range strings.Split(string(data), "\n") {
		if strings.TrimSpace(line) != "" {
			lines = append(lines, strings.TrimRight(line, "\r"))
		}
	}
	if n >= 0 && len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return lines, nil
}

func init() {
	ledgerListCmd.Flags().StringVarP(&ledgerFormat, "format", "f", formatText, "Output format: text, csv, json or yaml")
	ledgerListCmd.Flags().BoolVarP(&ledgerInteractive, "interactive", "i", false, "Browse the ledger in a table view")
	ledgerTailCmd.Flags().IntVarP(&tailLines, "lines", "n", 10, "Number of lines to print first")
	ledgerTailCmd.Flags().BoolVarP(&tailFollow, "follow", "f", false, "Keep printing new policies")
	ledgerCmd.AddCommand(ledgerListCmd, ledgerTailCmd)
	RootCmd.AddCommand(ledgerCmd)
}

