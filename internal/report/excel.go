package report

import (
	"fmt"
	"sort"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/idxlab/terminal/internal/contracts"
	"github.com/idxlab/terminal/internal/fundamentals"
	"github.com/idxlab/terminal/internal/scanner"
	"github.com/idxlab/terminal/pkg/logger"
)

// Sheet names of the terminal workbook.
const (
	SheetDashboard     = "DASHBOARD"
	SheetWatchlist     = "WATCHLIST"
	SheetForeignFlow   = "FOREIGN_FLOW"
	SheetFundamental   = "FUNDAMENTAL_TOP"
	SheetUniverse      = "UNIVERSE"
	SheetSectorWinners = "TOP_SECTOR_WINNERS"
)

// ExcelWriter renders a scan report into the terminal workbook.
type ExcelWriter struct {
	logger *logger.Logger
}

// NewExcelWriter creates an Excel writer.
func NewExcelWriter(log *logger.Logger) *ExcelWriter {
	return &ExcelWriter{logger: log}
}

// Write renders the full workbook to path.
func (w *ExcelWriter) Write(path string, rep *scanner.Report) error {
	wb := excelize.NewFile()
	defer wb.Close()

	if err := wb.SetSheetName(wb.GetSheetName(0), SheetDashboard); err != nil {
		return err
	}
	if err := w.dashboard(wb, rep); err != nil {
		return fmt.Errorf("dashboard sheet: %w", err)
	}
	if err := w.watchlist(wb, rep); err != nil {
		return fmt.Errorf("watchlist sheet: %w", err)
	}
	if err := w.foreignFlow(wb, rep); err != nil {
		return fmt.Errorf("foreign flow sheet: %w", err)
	}
	if err := w.fundamental(wb, rep); err != nil {
		return fmt.Errorf("fundamental sheet: %w", err)
	}
	if err := w.universe(wb, rep); err != nil {
		return fmt.Errorf("universe sheet: %w", err)
	}
	if err := w.sectorWinners(wb, rep); err != nil {
		return fmt.Errorf("sector winners sheet: %w", err)
	}

	if err := wb.SaveAs(path); err != nil {
		return fmt.Errorf("save workbook: %w", err)
	}

	w.logger.WithFields(map[string]interface{}{
		"path":    path,
		"results": len(rep.Results),
	}).Info("Workbook written")
	return nil
}

func (w *ExcelWriter) dashboard(wb *excelize.File, rep *scanner.Report) error {
	title, err := wb.NewStyle(&excelize.Style{Font: &excelize.Font{Size: 20, Bold: true}})
	if err != nil {
		return err
	}

	var scoreSum float64
	leaders := 0
	var totalForeign float64
	for _, r := range rep.Results {
		scoreSum += float64(r.Score)
		if r.Score >= 95 {
			leaders++
		}
		totalForeign += r.ForeignNet
	}
	avg := 0.0
	if len(rep.Results) > 0 {
		avg = scoreSum / float64(len(rep.Results))
	}

	cells := []struct {
		cell  string
		value interface{}
	}{
		{"A1", "IDX HEDGE FUND TERMINAL"},
		{"A2", rep.GeneratedAt.Format("02 January 2006")},
		{"A4", "Average Score"},
		{"B4", avg},
		{"A5", "Leaders"},
		{"B5", leaders},
		{"A6", "Total Stocks"},
		{"B6", len(rep.Results)},
		{"D4", "Market Regime"},
		{"E4", rep.BatchRegime},
		{"D5", rep.Insight},
		{"D6", "Index Regime"},
		{"E6", rep.IndexRegime},
		{"A8", "Total Foreign Today"},
		{"B8", Money(rep.MarketFlow.Net)},
		{"A9", "Total Foreign Accum"},
		{"B9", Money(totalForeign)},
		{"D8", "Market Flow"},
		{"E8", rep.MarketFlow.Status},
		{"D9", "Risk Gauge"},
		{"E9", fmt.Sprintf("%.0f%% below P50", rep.RiskGauge*100)},
	}
	for _, c := range cells {
		if err := wb.SetCellValue(SheetDashboard, c.cell, c.value); err != nil {
			return err
		}
	}
	if err := wb.SetCellStyle(SheetDashboard, "A1", "A1", title); err != nil {
		return err
	}

	row := 11
	if err := wb.SetCellValue(SheetDashboard, fmt.Sprintf("A%d", row), "Top Foreign Sectors"); err != nil {
		return err
	}
	for i, sf := range rep.SectorFlows {
		if i == 5 {
			break
		}
		row++
		cell := fmt.Sprintf("A%d", row)
		if err := wb.SetSheetRow(SheetDashboard, cell, &[]interface{}{
			fmt.Sprintf("%d. %s", i+1, sf.Sector), Money(sf.Net),
		}); err != nil {
			return err
		}
	}

	row += 2
	if err := wb.SetCellValue(SheetDashboard, fmt.Sprintf("A%d", row), "Momentum Leaders"); err != nil {
		return err
	}
	for i, m := range rep.SectorLeaders {
		if i == 3 {
			break
		}
		row++
		cell := fmt.Sprintf("A%d", row)
		if err := wb.SetSheetRow(SheetDashboard, cell, &[]interface{}{
			fmt.Sprintf("%d. %s", i+1, m.Sector), fmt.Sprintf("%+.1f%%", m.Momentum*100),
		}); err != nil {
			return err
		}
	}

	row += 2
	if err := wb.SetCellValue(SheetDashboard, fmt.Sprintf("A%d", row), "Allocation"); err != nil {
		return err
	}
	for _, a := range rep.Allocations {
		row++
		cell := fmt.Sprintf("A%d", row)
		if err := wb.SetSheetRow(SheetDashboard, cell, &[]interface{}{a.Name, a.Weight}); err != nil {
			return err
		}
	}
	return nil
}

func (w *ExcelWriter) watchlist(wb *excelize.File, rep *scanner.Report) error {
	if _, err := wb.NewSheet(SheetWatchlist); err != nil {
		return err
	}
	header := []interface{}{
		"Rank", "Ticker", "Stars", "Score", "Tier", "Entry", "SL", "TP1", "TP2", "TP3",
		"Win20D", "Exp20D", "PF20", "Foreign", "Status",
	}
	if err := wb.SetSheetRow(SheetWatchlist, "A1", &header); err != nil {
		return err
	}

	for i, r := range rep.Watchlist(20) {
		win, exp, pf := "", "", ""
		if r.Exp20 != nil {
			win = fmt.Sprintf("%.0f%%", r.Exp20.WinRate*100)
			exp = fmt.Sprintf("%.2f%%", r.Exp20.Expectancy*100)
			pf = fmt.Sprintf("%.2f", r.Exp20.ProfitFactor)
		}
		row := []interface{}{
			i + 1, r.Symbol, Stars(r.Score), r.Score, contracts.ConvictionTier(r.Score),
			fmt.Sprintf("%.0f-%.0f", r.Levels.EntryLow, r.Levels.EntryHigh),
			r.Levels.StopLoss, r.Levels.TP1, r.Levels.TP2, r.Levels.TP3,
			win, exp, pf, r.ForeignNet, r.ForeignStatus,
		}
		cell := fmt.Sprintf("A%d", i+2)
		if err := wb.SetSheetRow(SheetWatchlist, cell, &row); err != nil {
			return err
		}
	}
	return nil
}

func (w *ExcelWriter) foreignFlow(wb *excelize.File, rep *scanner.Report) error {
	if _, err := wb.NewSheet(SheetForeignFlow); err != nil {
		return err
	}
	if err := wb.SetSheetRow(SheetForeignFlow, "A1", &[]interface{}{"Rank", "Ticker", "ForeignNet", "Tier"}); err != nil {
		return err
	}

	ranked := make([]*contracts.ScoreResult, len(rep.Results))
	copy(ranked, rep.Results)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].ForeignNet > ranked[j].ForeignNet
	})

	for i, r := range ranked {
		if i == 30 {
			break
		}
		cell := fmt.Sprintf("A%d", i+2)
		if err := wb.SetSheetRow(SheetForeignFlow, cell, &[]interface{}{
			i + 1, r.Symbol, r.ForeignNet, r.AccumTier,
		}); err != nil {
			return err
		}
	}
	return nil
}

func (w *ExcelWriter) fundamental(wb *excelize.File, rep *scanner.Report) error {
	if _, err := wb.NewSheet(SheetFundamental); err != nil {
		return err
	}
	if err := wb.SetSheetRow(SheetFundamental, "A1", &[]interface{}{
		"Rank", "Ticker", "FundScore", "Quality", "ROE", "RevenueGrowth",
		"Margin", "PE", "PBV", "DER", "EPS", "Styles",
	}); err != nil {
		return err
	}

	var covered []*contracts.ScoreResult
	for _, r := range rep.Results {
		if r.Fundamentals != nil {
			covered = append(covered, r)
		}
	}
	sort.SliceStable(covered, func(i, j int) bool {
		return covered[i].FundScore > covered[j].FundScore
	})

	for i, r := range covered {
		if i == 40 {
			break
		}
		f := r.Fundamentals
		cell := fmt.Sprintf("A%d", i+2)
		if err := wb.SetSheetRow(SheetFundamental, cell, &[]interface{}{
			i + 1, r.Symbol, r.FundScore, r.FundQuality,
			f.ROE, f.RevenueGrowth, f.Margin, f.PE, f.PBV, f.DebtToEquity, f.EPS,
			strings.Join(fundamentals.Styles(*f), ", "),
		}); err != nil {
			return err
		}
	}
	return nil
}

func (w *ExcelWriter) universe(wb *excelize.File, rep *scanner.Report) error {
	if _, err := wb.NewSheet(SheetUniverse); err != nil {
		return err
	}
	if err := wb.SetSheetRow(SheetUniverse, "A1", &[]interface{}{"Ticker", "Score", "RawScore", "Discount"}); err != nil {
		return err
	}
	for i, r := range rep.Results {
		cell := fmt.Sprintf("A%d", i+2)
		if err := wb.SetSheetRow(SheetUniverse, cell, &[]interface{}{
			r.Symbol, r.Score, r.RawScore, fmt.Sprintf("%.1f%%", r.Features.Discount52W*100),
		}); err != nil {
			return err
		}
	}
	return nil
}

func (w *ExcelWriter) sectorWinners(wb *excelize.File, rep *scanner.Report) error {
	if _, err := wb.NewSheet(SheetSectorWinners); err != nil {
		return err
	}
	if err := wb.SetSheetRow(SheetSectorWinners, "A1", &[]interface{}{
		"Sector", "Rank", "Ticker", "Score", "Entry", "TP", "Foreign",
	}); err != nil {
		return err
	}

	groups := make(map[string][]*contracts.ScoreResult)
	var sectors []string
	for _, r := range rep.Results {
		if _, seen := groups[r.Sector]; !seen {
			sectors = append(sectors, r.Sector)
		}
		groups[r.Sector] = append(groups[r.Sector], r)
	}
	sort.Strings(sectors)

	row := 2
	for _, sector := range sectors {
		members := groups[sector]
		for rank, r := range members {
			if rank == 5 {
				break
			}
			name := ""
			if rank == 0 {
				name = sector
			}
			cell := fmt.Sprintf("A%d", row)
			if err := wb.SetSheetRow(SheetSectorWinners, cell, &[]interface{}{
				name, rank + 1, r.Symbol, r.Score,
				fmt.Sprintf("%.0f-%.0f", r.Levels.EntryLow, r.Levels.EntryHigh),
				r.Levels.TP2, Money(r.ForeignNet),
			}); err != nil {
				return err
			}
			row++
		}
	}
	return nil
}
