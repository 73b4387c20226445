package universe

import (
	"encoding/csv"
	"fmt"
	"os"
	"strings"

	"github.com/idxlab/terminal/internal/contracts"
)

// YahooSuffix is appended to bare IDX tickers.
const YahooSuffix = ".JK"

// Load reads the universe CSV, one ticker per line with no header.
// Tickers are normalized to upper case with the Yahoo suffix.
func Load(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read universe: %w", err)
	}

	var symbols []string
	seen := make(map[string]bool)
	for _, line := range strings.Split(string(data), "\n") {
		symbol := Normalize(line)
		if symbol == "" || seen[symbol] {
			continue
		}
		seen[symbol] = true
		symbols = append(symbols, symbol)
	}
	if len(symbols) == 0 {
		return nil, fmt.Errorf("universe %s is empty", path)
	}
	return symbols, nil
}

// Normalize upper-cases a raw ticker and ensures the Yahoo suffix. Returns
// "" for blank lines and comments.
func Normalize(raw string) string {
	symbol := strings.ToUpper(strings.TrimSpace(raw))
	if symbol == "" || strings.HasPrefix(symbol, "#") {
		return ""
	}
	if !strings.HasSuffix(symbol, YahooSuffix) {
		symbol += YahooSuffix
	}
	return symbol
}

// LoadSectorMap reads a Ticker,Sector CSV into a SectorMap. A missing file
// is not an error: the scan runs with every sector Unknown rather than
// aborting.
func LoadSectorMap(path string) (contracts.SectorMap, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return contracts.SectorMap{}, nil
		}
		return nil, fmt.Errorf("open sector map: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse sector map: %w", err)
	}

	m := make(contracts.SectorMap, len(records))
	for i, rec := range records {
		if len(rec) < 2 {
			continue
		}
		// Header row, if present.
		if i == 0 && strings.EqualFold(strings.TrimSpace(rec[0]), "ticker") {
			continue
		}
		ticker := Normalize(rec[0])
		sector := strings.TrimSpace(rec[1])
		if ticker == "" || sector == "" {
			continue
		}
		m[ticker] = sector
	}
	return m, nil
}
