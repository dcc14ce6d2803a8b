package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/warp/pto-planner/calendar"
	"github.com/warp/pto-planner/config"
	"github.com/warp/pto-planner/pto"
	"github.com/warp/pto-planner/store/sqlite"
)

func newBalanceCommand(configPath *string) *cobra.Command {
	var date string

	cmd := &cobra.Command{
		Use:   "balance",
		Short: "Print the balance on a date",
		RunE: func(cmd *cobra.Command, args []string) error {
			appCfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}

			day := calendar.Today()
			if date != "" {
				day, err = calendar.ParseKey(date)
				if err != nil {
					return fmt.Errorf("invalid date %q: %w", date, err)
				}
			}
			return runBalance(cmd, appCfg, day)
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "date to query (YYYY-MM-DD, default today)")

	return cmd
}

func runBalance(cmd *cobra.Command, appCfg config.Config, day calendar.Day) error {
	store, err := sqlite.New(appCfg.Storage.Path)
	if err != nil {
		return err
	}
	defer store.Close()

	ctx := cmd.Context()
	planCfg, err := store.LoadPlan(ctx, sqlite.DefaultPlanID)
	if err != nil {
		return err
	}
	selected, err := store.ListSelectedDays(ctx, sqlite.DefaultPlanID)
	if err != nil {
		return err
	}

	engine := pto.NewEngine(planCfg)
	ledger, warnings := engine.BuildLedger(selected)
	for _, w := range warnings {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: %s\n", w.Message)
	}

	balance := engine.BalanceOnDate(ledger, day)
	fmt.Fprintf(cmd.OutOrStdout(), "%s: %s %s\n", day.Key(), balance.String(), planCfg.BalanceUnit)
	return nil
}
