package contracts

import (
	"context"
	"time"
)

// PriceSource provides daily OHLCV history for one symbol. Implementations
// own retries, rate limiting and cache fallback; callers only see "series or
// error" and treat any error as skip-this-symbol.
type PriceSource interface {
	Daily(ctx context.Context, symbol string) (PriceSeries, error)
}

// FlowRepository persists and serves foreign-flow snapshots. The scoring
// core only ever reads the most recent handful of days.
type FlowRepository interface {
	SaveSnapshots(ctx context.Context, snaps []FlowSnapshot) error

	// MarketTotals returns the per-day market-wide net totals for the most
	// recent days, oldest first.
	MarketTotals(ctx context.Context, days int) ([]float64, error)

	// SymbolHistory returns recent per-day net values for one symbol,
	// oldest first.
	SymbolHistory(ctx context.Context, symbol string, days int) ([]float64, error)

	// LatestBySymbol returns the most recent day's net value per symbol.
	LatestBySymbol(ctx context.Context) (map[string]float64, error)
}

// FlowSource downloads one day's foreign transaction summary.
type FlowSource interface {
	FetchDaily(ctx context.Context, date time.Time) ([]FlowSnapshot, error)
}

// Notifier delivers a rendered report to a chat channel. Failures are logged
// and never fail a scan.
type Notifier interface {
	Send(ctx context.Context, text string) error
}
