package contracts

// Fundamentals is one symbol's row from the valuation dataset. Zero fields
// mean the column was absent from the dataset, and every consumer treats
// zero as "unknown", never as a real reading.
type Fundamentals struct {
	ROE           float64 `json:"roe"`
	RevenueGrowth float64 `json:"revenue_growth"`
	EPSGrowth     float64 `json:"eps_growth"`
	Margin        float64 `json:"margin"`
	DebtToEquity  float64 `json:"debt_to_equity"`
	PE            float64 `json:"pe"`
	PBV           float64 `json:"pbv"`
	EPS           float64 `json:"eps"`
	DivYield      float64 `json:"div_yield"`
}
