package contracts

// FeatureSet holds the scalar and boolean attributes derived from one
// symbol's PriceSeries at its most recent bar. Recomputed fresh on every
// scan, never persisted.
type FeatureSet struct {
	Close            float64 `json:"close"`
	VolToday         float64 `json:"vol_today"`
	AvgVol20         float64 `json:"avg_vol_20"`
	AvgValue20       float64 `json:"avg_value_20"`
	Discount52W      float64 `json:"discount_52w"`
	Undervalued      bool    `json:"undervalued"`
	Compression      bool    `json:"compression"`
	Capitulation     bool    `json:"capitulation"`
	Absorption       bool    `json:"absorption"`
	BreakoutConfirm  bool    `json:"breakout_confirm"`
	MultiAccum       bool    `json:"multi_accum"`
	LiquidityPenalty bool    `json:"liquidity_penalty"`
	BrokerAccum      bool    `json:"broker_accum"`
}

// TradeLevels carries the volatility-derived entry band, stop and targets.
// TP1 < TP2 < TP3 always holds; the take-profit engine reorders and clamps
// before returning.
type TradeLevels struct {
	EntryLow   float64 `json:"entry_low"`
	EntryHigh  float64 `json:"entry_high"`
	StopLoss   float64 `json:"stoploss"`
	TP1        float64 `json:"tp1"`
	TP2        float64 `json:"tp2"`
	TP3        float64 `json:"tp3"`
	Resistance float64 `json:"resistance"`
	ATR        float64 `json:"atr"`
}

// Expectancy summarizes forward-return statistics over a fixed horizon.
type Expectancy struct {
	WinRate      float64 `json:"win_rate"`
	AvgWin       float64 `json:"avg_win"`
	AvgLoss      float64 `json:"avg_loss"`
	Expectancy   float64 `json:"expectancy"`
	ProfitFactor float64 `json:"profit_factor"`
}

// ScoreResult is the per-symbol output of a scan: everything the watchlist,
// Excel terminal and Telegram reports need. Created once per symbol per run.
type ScoreResult struct {
	Symbol string `json:"symbol"`
	Sector string `json:"sector"`

	// RawScore is the pre-normalization additive score; Score is its
	// empirical percentile (0-100) within the scanned batch.
	RawScore float64 `json:"raw_score"`
	Score    int     `json:"score"`

	Features FeatureSet  `json:"features"`
	Levels   TradeLevels `json:"levels"`

	// Relative strength / quant overlay provenance.
	RelativeStrength float64 `json:"relative_strength"`
	TrendOK          bool    `json:"trend_ok"`
	Momentum3M       float64 `json:"momentum_3m"`
	Drawdown         float64 `json:"drawdown"`

	// Foreign flow merge.
	ForeignNet    float64 `json:"foreign_net"`
	ForeignStatus string  `json:"foreign_status"`
	FlowTier      string  `json:"flow_tier"`
	AccumTier     string  `json:"accum_tier"`
	Accumulation  bool    `json:"accumulation"`

	// Trailing returns feeding sector rotation.
	Ret5  float64 `json:"ret_5"`
	Ret20 float64 `json:"ret_20"`

	// Fundamental overlay. FundScore is already merged into RawScore at
	// 0.6 weight; Fundamentals is nil when the dataset has no row.
	FundScore    int           `json:"fund_score"`
	FundQuality  string        `json:"fund_quality,omitempty"`
	Fundamentals *Fundamentals `json:"fundamentals,omitempty"`

	Exp20 *Expectancy `json:"exp20,omitempty"`

	// ModelVersion records which cascade level produced the score.
	ModelVersion string `json:"model_version"`
}

// ConvictionTier maps a percentile score to a reporting tier.
func ConvictionTier(score int) string {
	switch {
	case score >= 85:
		return "TIER-1 ELITE"
	case score >= 70:
		return "TIER-2 STRONG"
	case score >= 55:
		return "TIER-3 EARLY"
	case score >= 40:
		return "TIER-4 WATCH"
	default:
		return "TIER-5 NO EDGE"
	}
}
