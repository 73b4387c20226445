package commands

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/idxlab/terminal/internal/external/idx"
	"github.com/idxlab/terminal/internal/flow"
	"github.com/idxlab/terminal/internal/report"
	"github.com/idxlab/terminal/internal/scheduler"
	"github.com/idxlab/terminal/internal/scheduler/jobs"
)

// scheduleCmd represents the schedule command
var scheduleCmd = &cobra.Command{
	Use:   "schedule",
	Short: "Run the scheduler daemon",
	Long: `Runs the daily job schedule:
  flow_snapshot - 18:00 weekdays, stores the day's foreign summary
  daily_scan    - 08:00 weekdays, full scan plus workbook and briefing

Failed runs are retried with a fixed pause. Ctrl+C stops the daemon
after in-flight jobs finish.

Example:
  go run ./cmd/terminal schedule
  go run ./cmd/terminal schedule --out-dir reports`,
	RunE: runSchedule,
}

var scheduleOutDir string

func init() {
	rootCmd.AddCommand(scheduleCmd)

	scheduleCmd.Flags().StringVar(&scheduleOutDir, "out-dir", "reports", "directory for daily workbooks")
}

func runSchedule(cmd *cobra.Command, args []string) error {
	cfg, log, err := setup()
	if err != nil {
		return err
	}

	prices, closePrices, err := newPriceSource(cfg, log)
	if err != nil {
		return err
	}
	defer closePrices()

	flows, closeFlows, err := openFlowRepo(cfg, log)
	if err != nil {
		return err
	}
	defer closeFlows()

	engine := flow.NewEngine(flow.DefaultAccelThresholds(), flow.DefaultNetThresholds(), log)
	sc, err := newScanner(cfg, log, prices, flows, engine)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(scheduleOutDir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	sched := scheduler.New(log)

	// The snapshot job needs somewhere to write; without a database the
	// daemon runs the scan alone.
	if flows != nil {
		source := idx.New(cfg.Flow.BaseURL, cfg.Flow.Timeout, log)
		if err := sched.AddJob(jobs.NewFlowSnapshotJob(source, flows, log)); err != nil {
			return err
		}
	}

	scanJob := jobs.NewDailyScanJob(
		sc,
		symbolsLoader(cfg),
		report.NewExcelWriter(log),
		report.NewTelegram(cfg.Telegram, log),
		nil,
		scheduleOutDir,
		cfg.Scan.WatchlistTopN,
		log,
	)
	if err := sched.AddJob(scanJob); err != nil {
		return err
	}

	sched.Start()

	fmt.Println("Scheduler started. Registered jobs:")
	for _, name := range sched.Jobs() {
		fmt.Printf("  - %s\n", name)
	}
	fmt.Println("Press Ctrl+C to stop")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	sched.Stop()
	return nil
}
