package scanner

import "github.com/idxlab/terminal/internal/contracts"

// Market regimes. PANIC is never derived automatically; it exists for manual
// override when the operator wants survival-mode allocation.
const (
	RegimeRiskOn  = "RISK-ON"
	RegimeRiskOff = "RISK-OFF"
	RegimeNeutral = "NEUTRAL"
	RegimePanic   = "PANIC"
)

// IndexRegime classifies the market from the benchmark index's 5-day return.
// Too little history reads as NEUTRAL, never as an error.
func IndexRegime(index contracts.PriceSeries) string {
	last, ok := index.At(1)
	if !ok {
		return RegimeNeutral
	}
	base, ok := index.At(6)
	if !ok || base.Close <= 0 {
		return RegimeNeutral
	}

	ret5 := last.Close/base.Close - 1
	switch {
	case ret5 < -0.03:
		return RegimeRiskOff
	case ret5 > 0.02:
		return RegimeRiskOn
	default:
		return RegimeNeutral
	}
}

// BatchRegime reads the regime out of the scan itself: strong average scores
// with net foreign buying is risk-on, weak scores with foreign selling is
// risk-off. Complements IndexRegime, which only sees the benchmark.
func BatchRegime(results []*contracts.ScoreResult) (regime, insight string) {
	if len(results) == 0 {
		return RegimeNeutral, "No scored symbols."
	}

	var scoreSum, totalForeign float64
	for _, r := range results {
		scoreSum += float64(r.Score)
		totalForeign += r.ForeignNet
	}
	avg := scoreSum / float64(len(results))

	switch {
	case avg > 70 && totalForeign > 0:
		return RegimeRiskOn, "Institutions accumulating. Bullish bias."
	case avg < 45 && totalForeign < 0:
		return RegimeRiskOff, "Foreign distribution dominant. Defensive mode."
	default:
		return RegimeNeutral, "Sideways. Selective accumulation."
	}
}

// RiskGauge is the share of scored symbols below the 50th percentile, a
// quick breadth read for the dashboard.
func RiskGauge(results []*contracts.ScoreResult) float64 {
	if len(results) == 0 {
		return 0
	}
	weak := 0
	for _, r := range results {
		if r.Score < 50 {
			weak++
		}
	}
	return float64(weak) / float64(len(results))
}
