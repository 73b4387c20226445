package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/idxlab/terminal/internal/contracts"
	"github.com/idxlab/terminal/internal/flow"
	"github.com/idxlab/terminal/internal/report"
	"github.com/idxlab/terminal/internal/scanner"
)

// scanCmd represents the scan command
var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Run one full scan of the universe",
	Long: `Runs one complete scoring pass: price fetch, layered scoring,
foreign-flow merge, percentile ranking and regime read.

The watchlist is printed to stdout. Optionally the full report is
written to an Excel workbook and the morning briefing is pushed to
Telegram.

Example:
  go run ./cmd/terminal scan
  go run ./cmd/terminal scan --out reports/today.xlsx --notify`,
	RunE: runScan,
}

var (
	scanOut    string
	scanNotify bool
)

func init() {
	rootCmd.AddCommand(scanCmd)

	scanCmd.Flags().StringVar(&scanOut, "out", "", "write the Excel workbook to this path")
	scanCmd.Flags().BoolVar(&scanNotify, "notify", false, "send the morning report to Telegram")
}

func runScan(cmd *cobra.Command, args []string) error {
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

	symbols, err := symbolsLoader(cfg)()
	if err != nil {
		return fmt.Errorf("load universe: %w", err)
	}

	ctx := cmd.Context()
	rep, err := sc.Scan(ctx, symbols)
	if err != nil {
		return fmt.Errorf("scan: %w", err)
	}

	printReport(rep, cfg.Scan.WatchlistTopN)

	if scanOut != "" {
		if err := report.NewExcelWriter(log).Write(scanOut, rep); err != nil {
			return fmt.Errorf("write workbook: %w", err)
		}
		fmt.Printf("\nWorkbook written to %s\n", scanOut)
	}

	if scanNotify {
		telegram := report.NewTelegram(cfg.Telegram, log)
		if err := telegram.Send(ctx, report.MorningReport(rep, cfg.Scan.WatchlistTopN)); err != nil {
			log.WithError(err).Warn("Morning report delivery failed")
		}
		for _, r := range rep.Results {
			if scanner.ValueFlowAligned(r) {
				if err := telegram.Send(ctx, report.AlignmentAlert(r, rep.IndexRegime)); err != nil {
					log.WithError(err).Warn("Alignment alert delivery failed")
				}
			}
		}
	}

	return nil
}

func printReport(rep *scanner.Report, topN int) {
	fmt.Printf("=== IDX Terminal | %s %s ===\n\n", rep.Mode, rep.ModelVersion)
	fmt.Printf("Scanned %d, scored %d\n", rep.Scanned, rep.Scored)
	fmt.Printf("Index regime:  %s\n", rep.IndexRegime)
	fmt.Printf("Batch regime:  %s (%s)\n", rep.BatchRegime, rep.Insight)
	fmt.Printf("Market flow:   %s (net %s, accel %s)\n",
		rep.MarketFlow.Status, report.Money(rep.MarketFlow.Net), report.Money(rep.MarketFlow.Accel))
	fmt.Printf("Risk gauge:    %.0f%% of batch below score 50\n\n", rep.RiskGauge*100)

	fmt.Printf("%-4s %-10s %-6s %-5s %-15s %-14s %-10s %s\n",
		"#", "Symbol", "Stars", "Score", "Tier", "Entry", "SL", "Foreign")
	for i, r := range rep.Watchlist(topN) {
		fmt.Printf("%-4d %-10s %-6s %-5d %-15s %7.0f-%-6.0f %-10.0f %s\n",
			i+1, r.Symbol, report.Stars(r.Score), r.Score, contracts.ConvictionTier(r.Score),
			r.Levels.EntryLow, r.Levels.EntryHigh, r.Levels.StopLoss, report.Money(r.ForeignNet))
	}

	if len(rep.Alignments) > 0 {
		fmt.Printf("\nValue+flow aligned: %v\n", rep.Alignments)
	}

	if len(rep.SectorLeaders) > 0 {
		fmt.Println("\nMomentum leaders:")
		for i, m := range rep.SectorLeaders {
			if i == 3 {
				break
			}
			fmt.Printf("  %d. %-20s %+5.1f%% (%d members)\n", i+1, m.Sector, m.Momentum*100, m.Members)
		}
	}

	fmt.Println("\nAllocation:")
	for _, a := range rep.Allocations {
		fmt.Printf("  %-20s %d%%\n", a.Name, a.Weight)
	}
}
