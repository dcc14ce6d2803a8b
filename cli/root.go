/*
Package cli wires the planner's cobra commands.

PURPOSE:
  Three entry points over the same store and engine:
    serve    Run the HTTP API
    suggest  One-shot optimizer run against the stored plan
    balance  Print the balance on a date

SEE ALSO:
  - cmd/planner/main.go: the binary
  - config: the TOML file every command reads
*/
package cli

import (
	"github.com/spf13/cobra"
)

// NewRootCommand creates the root CLI command with all subcommands
// registered.
func NewRootCommand() *cobra.Command {
	var configPath string

	rootCmd := &cobra.Command{
		Use:   "planner",
		Short: "PTO accrual ledger and day-off planner",
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to planner.toml")

	rootCmd.AddCommand(newServeCommand(&configPath))
	rootCmd.AddCommand(newSuggestCommand(&configPath))
	rootCmd.AddCommand(newBalanceCommand(&configPath))

	return rootCmd
}
