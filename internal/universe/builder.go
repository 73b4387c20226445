package universe

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/idxlab/terminal/internal/contracts"
	"github.com/idxlab/terminal/pkg/logger"
)

// Builder turns the exchange's published stock-list workbook into the
// universe CSV and maintains the sector map next to it.
type Builder struct {
	logger *logger.Logger
}

// NewBuilder creates a universe builder.
func NewBuilder(log *logger.Logger) *Builder {
	return &Builder{logger: log}
}

// BuildFromWorkbook extracts tickers from the "Kode" column of the first
// sheet of the exchange stock list and writes them, one per line, to outPath.
func (b *Builder) BuildFromWorkbook(workbookPath, outPath string) (int, error) {
	wb, err := excelize.OpenFile(workbookPath)
	if err != nil {
		return 0, fmt.Errorf("open stock list: %w", err)
	}
	defer wb.Close()

	sheet := wb.GetSheetName(0)
	rows, err := wb.GetRows(sheet)
	if err != nil {
		return 0, fmt.Errorf("read sheet %s: %w", sheet, err)
	}
	if len(rows) == 0 {
		return 0, fmt.Errorf("sheet %s is empty", sheet)
	}

	kodeCol := -1
	for i, cell := range rows[0] {
		if strings.EqualFold(strings.TrimSpace(cell), "Kode") {
			kodeCol = i
			break
		}
	}
	if kodeCol < 0 {
		return 0, fmt.Errorf("column Kode not found in %s", workbookPath)
	}

	symbols := make([]string, 0, len(rows)-1)
	seen := make(map[string]bool)
	for _, row := range rows[1:] {
		if kodeCol >= len(row) {
			continue
		}
		symbol := Normalize(row[kodeCol])
		if symbol == "" || seen[symbol] {
			continue
		}
		seen[symbol] = true
		symbols = append(symbols, symbol)
	}
	if len(symbols) == 0 {
		return 0, fmt.Errorf("no tickers found in %s", workbookPath)
	}

	if err := writeLines(outPath, symbols); err != nil {
		return 0, err
	}

	b.logger.WithFields(map[string]interface{}{
		"source": workbookPath,
		"output": outPath,
		"count":  len(symbols),
	}).Info("Universe generated")

	return len(symbols), nil
}

// WriteSectorMap persists a Ticker,Sector CSV. Symbols absent from the map
// get a heuristic sector so downstream grouping never sees a hole.
func (b *Builder) WriteSectorMap(path string, symbols []string, known contracts.SectorMap) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create sector map dir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create sector map: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"Ticker", "Sector"}); err != nil {
		return err
	}
	for _, symbol := range symbols {
		sector := known.Sector(symbol)
		if sector == contracts.SectorUnknown {
			sector = heuristicSector(symbol)
		}
		if err := w.Write([]string{symbol, sector}); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

// heuristicSector is the last-resort proxy for symbols no public sector map
// covers, based on well-known IDX name patterns.
func heuristicSector(symbol string) string {
	bare := strings.TrimSuffix(symbol, YahooSuffix)
	switch {
	case strings.HasPrefix(bare, "BB"), bare == "BRIS", bare == "BTPS":
		return "BANKS"
	case bare == "ADRO", bare == "ITMG", bare == "PTBA", bare == "HRUM":
		return "ENERGY"
	case bare == "TLKM", bare == "EXCL", bare == "ISAT":
		return "TELCO"
	case bare == "ICBP", bare == "INDF", bare == "UNVR", bare == "MYOR":
		return "CONSUMER"
	case bare == "ANTM", bare == "MDKA", bare == "INCO":
		return "MATERIALS"
	default:
		return "OTHER"
	}
}

func writeLines(path string, lines []string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create universe dir: %w", err)
	}
	return os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0o644)
}
