package cli

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/warp/pto-planner/calendar"
	"github.com/warp/pto-planner/config"
	"github.com/warp/pto-planner/optimize"
	"github.com/warp/pto-planner/pto"
	"github.com/warp/pto-planner/store/sqlite"
)

func newSuggestCommand(configPath *string) *cobra.Command {
	var strategy string
	var year int
	var holidays []string

	cmd := &cobra.Command{
		Use:   "suggest",
		Short: "Run the day-off optimizer against the stored plan",
		RunE: func(cmd *cobra.Command, args []string) error {
			appCfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			return runSuggest(cmd, appCfg, strategy, year, holidays)
		},
	}

	cmd.Flags().StringVar(&strategy, "strategy", string(optimize.StrategyBalanced),
		"balanced | long-weekends | mini-breaks | week-long | extended")
	cmd.Flags().IntVar(&year, "year", calendar.Today().Year(), "year to plan")
	cmd.Flags().StringSliceVar(&holidays, "holiday", nil, "holiday date (YYYY-MM-DD), repeatable")

	return cmd
}

func runSuggest(cmd *cobra.Command, appCfg config.Config, strategy string, year int, rawHolidays []string) error {
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

	holidays := make([]calendar.Day, 0, len(rawHolidays))
	for _, raw := range rawHolidays {
		d, err := calendar.ParseKey(raw)
		if err != nil {
			return fmt.Errorf("invalid holiday %q: %w", raw, err)
		}
		holidays = append(holidays, d)
	}

	engine := pto.NewEngine(planCfg)
	ledger, warnings := engine.BuildLedger(selected)
	for _, w := range warnings {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: %s\n", w.Message)
	}

	input := optimize.StrategyInput{
		Year:             year,
		Weekends:         calendar.DefaultWeekend(),
		Holidays:         holidays,
		PTOBalance:       engine.AvailableDays(ledger, calendar.EndOfYear(year)),
		AccrualRate:      planCfg.AccrualRate,
		AccrualFrequency: planCfg.AccrualFrequency,
	}
	oracle := func(d calendar.Day) decimal.Decimal {
		return engine.AvailableDays(ledger, d)
	}

	days, err := optimize.SuggestDays(optimize.Strategy(strategy), input, oracle)
	if err != nil {
		return err
	}

	run, err := store.RecordSuggestionRun(ctx, sqlite.SuggestionRun{
		PlanID:   sqlite.DefaultPlanID,
		Strategy: strategy,
		Days:     days,
	})
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Run %s (%s): %d suggested days\n", run.ID, strategy, len(days))
	for _, d := range days {
		fmt.Fprintf(out, "  %s (%s)\n", d.Key(), d.Weekday())
	}
	return nil
}
