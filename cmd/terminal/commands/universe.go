package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/idxlab/terminal/internal/universe"
)

// universeCmd represents the universe command
var universeCmd = &cobra.Command{
	Use:   "universe",
	Short: "Universe maintenance",
	Long: `Rebuilds the scan universe and its sector map from the exchange's
published stock list workbook.

Example:
  go run ./cmd/terminal universe build --workbook data/idx_stock_list.xlsx`,
}

var universeBuildCmd = &cobra.Command{
	Use:   "build",
	Short: "Build the universe file from a stock list workbook",
	RunE:  runUniverseBuild,
}

var universeWorkbook string

func init() {
	rootCmd.AddCommand(universeCmd)
	universeCmd.AddCommand(universeBuildCmd)

	universeBuildCmd.Flags().StringVar(&universeWorkbook, "workbook", "", "IDX stock list workbook (.xlsx)")
	_ = universeBuildCmd.MarkFlagRequired("workbook")
}

func runUniverseBuild(cmd *cobra.Command, args []string) error {
	cfg, log, err := setup()
	if err != nil {
		return err
	}

	builder := universe.NewBuilder(log)

	count, err := builder.BuildFromWorkbook(universeWorkbook, cfg.Scan.UniversePath)
	if err != nil {
		return fmt.Errorf("build universe: %w", err)
	}
	fmt.Printf("Universe written: %d symbols to %s\n", count, cfg.Scan.UniversePath)

	symbols, err := universe.Load(cfg.Scan.UniversePath)
	if err != nil {
		return fmt.Errorf("reload universe: %w", err)
	}

	// Known sector assignments survive; only new listings get the
	// heuristic fallback.
	known, err := universe.LoadSectorMap(cfg.Scan.SectorMapPath)
	if err != nil {
		return fmt.Errorf("load sector map: %w", err)
	}

	if err := builder.WriteSectorMap(cfg.Scan.SectorMapPath, symbols, known); err != nil {
		return fmt.Errorf("write sector map: %w", err)
	}
	fmt.Printf("Sector map written to %s\n", cfg.Scan.SectorMapPath)

	return nil
}
