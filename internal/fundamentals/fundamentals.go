package fundamentals

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/idxlab/terminal/internal/contracts"
	"github.com/idxlab/terminal/internal/universe"
)

// Book maps normalized tickers to their fundamentals row.
type Book map[string]contracts.Fundamentals

// Get returns the row for a symbol. A nil Book always misses.
func (b Book) Get(symbol string) (contracts.Fundamentals, bool) {
	f, ok := b[symbol]
	return f, ok
}

// Load reads the fundamentals CSV. The header row names the columns; order
// is free and unknown columns are ignored. A missing file is not an error:
// the scan simply runs without the fundamental overlay.
func Load(path string) (Book, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("open fundamentals: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse fundamentals: %w", err)
	}
	if len(records) < 2 {
		return nil, nil
	}

	cols := make(map[string]int, len(records[0]))
	for i, name := range records[0] {
		cols[strings.ToLower(strings.TrimSpace(name))] = i
	}
	symbolCol, ok := cols["symbol"]
	if !ok {
		if symbolCol, ok = cols["ticker"]; !ok {
			return nil, fmt.Errorf("fundamentals %s: no symbol column", path)
		}
	}

	book := make(Book, len(records)-1)
	for _, rec := range records[1:] {
		if symbolCol >= len(rec) {
			continue
		}
		symbol := universe.Normalize(rec[symbolCol])
		if symbol == "" {
			continue
		}

		field := func(names ...string) float64 {
			for _, name := range names {
				i, ok := cols[name]
				if !ok || i >= len(rec) {
					continue
				}
				v, err := strconv.ParseFloat(strings.TrimSpace(rec[i]), 64)
				if err == nil {
					return v
				}
			}
			return 0
		}

		book[symbol] = contracts.Fundamentals{
			ROE:           field("roe"),
			RevenueGrowth: field("revenue_growth", "growth"),
			EPSGrowth:     field("eps_growth"),
			Margin:        field("margin"),
			DebtToEquity:  field("debt_to_equity", "der"),
			PE:            field("pe", "per"),
			PBV:           field("pbv"),
			EPS:           field("eps"),
			DivYield:      field("div_yield"),
		}
	}
	if len(book) == 0 {
		return nil, nil
	}
	return book, nil
}
