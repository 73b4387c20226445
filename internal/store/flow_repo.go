package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/idxlab/terminal/internal/contracts"
)

// FlowRepo implements contracts.FlowRepository on Postgres. One row per
// symbol per trade date, upserted so a re-run of the snapshot job is
// harmless.
type FlowRepo struct {
	pool *pgxpool.Pool
}

// NewFlowRepo creates a flow repository.
func NewFlowRepo(pool *pgxpool.Pool) *FlowRepo {
	return &FlowRepo{pool: pool}
}

// SaveSnapshots upserts one day's snapshots in a single batch round trip.
func (r *FlowRepo) SaveSnapshots(ctx context.Context, snaps []contracts.FlowSnapshot) error {
	if len(snaps) == 0 {
		return nil
	}

	query := `
		INSERT INTO foreign_flow (symbol, trade_date, net_value)
		VALUES ($1, $2, $3)
		ON CONFLICT (symbol, trade_date) DO UPDATE SET
			net_value = EXCLUDED.net_value
	`

	batch := &pgx.Batch{}
	for _, snap := range snaps {
		batch.Queue(query, snap.Symbol, snap.Date, snap.Net)
	}

	results := r.pool.SendBatch(ctx, batch)
	defer results.Close()

	for range snaps {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("save flow snapshots: %w", err)
		}
	}
	return nil
}

// MarketTotals returns the market-wide net total per day for the most recent
// days, oldest first.
func (r *FlowRepo) MarketTotals(ctx context.Context, days int) ([]float64, error) {
	query := `
		SELECT SUM(net_value)
		FROM foreign_flow
		GROUP BY trade_date
		ORDER BY trade_date DESC
		LIMIT $1
	`

	rows, err := r.pool.Query(ctx, query, days)
	if err != nil {
		return nil, fmt.Errorf("market totals: %w", err)
	}
	defer rows.Close()

	var totals []float64
	for rows.Next() {
		var net float64
		if err := rows.Scan(&net); err != nil {
			return nil, err
		}
		totals = append(totals, net)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	reverse(totals)
	return totals, nil
}

// SymbolHistory returns recent per-day nets for one symbol, oldest first.
func (r *FlowRepo) SymbolHistory(ctx context.Context, symbol string, days int) ([]float64, error) {
	query := `
		SELECT net_value
		FROM foreign_flow
		WHERE symbol = $1
		ORDER BY trade_date DESC
		LIMIT $2
	`

	rows, err := r.pool.Query(ctx, query, symbol, days)
	if err != nil {
		return nil, fmt.Errorf("symbol history %s: %w", symbol, err)
	}
	defer rows.Close()

	var history []float64
	for rows.Next() {
		var net float64
		if err := rows.Scan(&net); err != nil {
			return nil, err
		}
		history = append(history, net)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	reverse(history)
	return history, nil
}

// LatestBySymbol returns the most recent trade date's net value per symbol.
func (r *FlowRepo) LatestBySymbol(ctx context.Context) (map[string]float64, error) {
	query := `
		SELECT symbol, net_value
		FROM foreign_flow
		WHERE trade_date = (SELECT MAX(trade_date) FROM foreign_flow)
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("latest flow: %w", err)
	}
	defer rows.Close()

	nets := make(map[string]float64)
	for rows.Next() {
		var symbol string
		var net float64
		if err := rows.Scan(&symbol, &net); err != nil {
			return nil, err
		}
		nets[symbol] = net
	}
	return nets, rows.Err()
}

func reverse(vals []float64) {
	for i, j := 0, len(vals)-1; i < j; i, j = i+1, j-1 {
		vals[i], vals[j] = vals[j], vals[i]
	}
}
