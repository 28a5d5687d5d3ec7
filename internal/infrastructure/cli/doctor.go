package cli

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/onestop-insurance/onestop/internal/infrastructure/config"
	"github.com/spf13/cobra"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check the health of the workspace files",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		fmt.Fprintln(out, "Running One Stop Doctor...")

		root, err := getWorkspaceRoot()
		if err != nil {
			return err
		}
		services, err := loadServices(cmd, nil)
		if err != nil {
			return MapError(err)
		}
		repo := services.Workspace.Repo

		hasIssues := false
		check := func(name string, fn func() error) {
			fmt.Fprintf(out, "Checking %s... ", name)
			if err := fn(); err != nil {
				fmt.Fprintf(out, "FAIL\n  Error: %v\n", err)
				hasIssues = true
			} else {
				fmt.Fprintf(out, "PASS\n")
			}
		}

		check("Settings", func() error {
			_, err := config.LoadSettings(root)
			return err
		})

		var counter int64
		check("Pricing Constants", func() error {
			cfg, err := repo.LoadPricing()
			if errors.Is(err, fs.ErrNotExist) {
				return fmt.Errorf("constants file not found (it is created with defaults on first quote)")
			}
			if err != nil {
				return err
			}
			counter = cfg.PolicyCounter
			return nil
		})

		check("Ledger", func() error {
			_, err := services.Ledger.List()
			return err
		})

		check("Policy Number Order", func() error {
			violations, err := services.Ledger.Verify()
			if err != nil {
				return err
			}
			if len(violations) > 0 {
				return fmt.Errorf("%d ordering violations, first: %s", len(violations), violations[0])
			}
			return nil
		})

		check("Next Policy Number", func() error {
			last, found, err := repo.LastPolicyNumber()
			if err != nil {
				return err
			}
			if found && counter != 0 && counter <= last {
				return fmt.Errorf("next policy number %d is not above the last recorded policy %d", counter, last)
			}
			return nil
		})

		check("Workspace Lock", func() error {
			unlock, err := repo.Lock()
			if err != nil {
				return err
			}
			return unlock()
		})

		if hasIssues {
			fmt.Fprintln(out, "\nIssues found! Please fix them before quoting.")
			return fmt.Errorf("doctor found issues")
		}
		fmt.Fprintln(out, "\nEverything looks good!")
		return nil
	},
}

func init() {
	RootCmd.AddCommand(doctorCmd)
}

