/*
main.go - Application entry point

PURPOSE:
  Starts the PTO planner CLI. All behavior lives in the cli package;
  this file only executes the root command.

EXAMPLES:
  # Run the HTTP API
  ./planner serve --config planner.toml

  # One-shot optimizer run
  ./planner suggest --strategy long-weekends --year 2026 --holiday 2026-07-03

  # Balance on a date
  ./planner balance --date 2026-06-01

SEE ALSO:
  - cli/root.go: Command wiring
  - api/server.go: Router configuration
*/
package main

import (
	"os"

	"github.com/warp/pto-planner/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
