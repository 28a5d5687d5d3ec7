package cli

import (
	"github.com/spf13/cobra"
)

var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

var (
	workspaceDir string
	verbose      bool
)

// RootCmd represents the base command when called without any subcommands.
// On its own it starts a quoting session, as the quote command does.
var RootCmd = &cobra.Command{
	Use:     "onestop",
	Version: Version,
	Short:   "Car insurance quoting for One Stop Insurance",
	Long: `onestop prices car insurance policies and keeps the policy ledger.

Run without a command to start quoting. The workspace directory holds the
pricing constants (const.dat), the policy ledger (policy.dat) and optional
settings (onestop.toml).`,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runQuote(cmd)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the RootCmd.
func Execute() error {
	return RootCmd.Execute()
}

func init() {
	RootCmd.PersistentFlags().StringVarP(&workspaceDir, "dir", "d", "", "Workspace directory (default: current directory)")
	RootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log debug details to stderr")
}
