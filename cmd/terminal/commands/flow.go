package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/idxlab/terminal/internal/external/idx"
	"github.com/idxlab/terminal/internal/flow"
	"github.com/idxlab/terminal/internal/report"
)

// flowCmd represents the flow command
var flowCmd = &cobra.Command{
	Use:   "flow",
	Short: "Foreign net-flow history",
	Long: `Manages the foreign transaction history behind the flow merge.

Subcommands:
  fetch  - download one day's foreign summary and store it
  show   - print the current market-wide flow state

Example:
  go run ./cmd/terminal flow fetch
  go run ./cmd/terminal flow fetch --date 2026-08-27
  go run ./cmd/terminal flow show`,
}

var (
	flowFetchCmd = &cobra.Command{
		Use:   "fetch",
		Short: "Download and store a day's foreign summary",
		RunE:  runFlowFetch,
	}

	flowShowCmd = &cobra.Command{
		Use:   "show",
		Short: "Print the market-wide flow state",
		RunE:  runFlowShow,
	}
)

var flowDate string

func init() {
	rootCmd.AddCommand(flowCmd)
	flowCmd.AddCommand(flowFetchCmd)
	flowCmd.AddCommand(flowShowCmd)

	flowFetchCmd.Flags().StringVar(&flowDate, "date", "", "trading date (YYYY-MM-DD, default today)")
}

func runFlowFetch(cmd *cobra.Command, args []string) error {
	cfg, log, err := setup()
	if err != nil {
		return err
	}

	repo, closeRepo, err := openFlowRepo(cfg, log)
	if err != nil {
		return err
	}
	defer closeRepo()
	if repo == nil {
		return fmt.Errorf("flow fetch requires DATABASE_URL")
	}

	date := time.Now()
	if flowDate != "" {
		date, err = time.Parse("2006-01-02", flowDate)
		if err != nil {
			return fmt.Errorf("parse date %q: %w", flowDate, err)
		}
	}

	ctx := cmd.Context()
	source := idx.New(cfg.Flow.BaseURL, cfg.Flow.Timeout, log)

	snaps, err := source.FetchDaily(ctx, date)
	if err != nil {
		return fmt.Errorf("fetch foreign summary: %w", err)
	}

	if err := repo.SaveSnapshots(ctx, snaps); err != nil {
		return fmt.Errorf("save snapshots: %w", err)
	}

	fmt.Printf("Saved %d foreign flow rows for %s\n", len(snaps), date.Format("2006-01-02"))
	return nil
}

func runFlowShow(cmd *cobra.Command, args []string) error {
	cfg, log, err := setup()
	if err != nil {
		return err
	}

	repo, closeRepo, err := openFlowRepo(cfg, log)
	if err != nil {
		return err
	}
	defer closeRepo()
	if repo == nil {
		return fmt.Errorf("flow show requires DATABASE_URL")
	}

	totals, err := repo.MarketTotals(cmd.Context(), 5)
	if err != nil {
		return fmt.Errorf("load market totals: %w", err)
	}

	engine := flow.NewEngine(flow.DefaultAccelThresholds(), flow.DefaultNetThresholds(), log)
	state := engine.MarketState(totals)

	fmt.Printf("Status: %s\n", state.Status)
	fmt.Printf("Net:    %s\n", report.Money(state.Net))
	fmt.Printf("Delta:  %s\n", report.Money(state.Delta))
	fmt.Printf("Accel:  %s\n", report.Money(state.Accel))
	return nil
}
