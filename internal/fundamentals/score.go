package fundamentals

import "github.com/idxlab/terminal/internal/contracts"

// Quality labels.
const (
	QualityHigh = "HIGH"
	QualityMid  = "MID"
	QualityLow  = "LOW"
)

// Score rates a fundamentals row on quality, growth, leverage and value.
// The result is clamped to [-10, 40]; the scan loop merges it into the raw
// score at 0.6 weight.
func Score(f contracts.Fundamentals) (int, string) {
	score := 0

	// Quality.
	switch {
	case f.ROE > 0.15:
		score += 8
	case f.ROE > 0.10:
		score += 5
	}
	if f.Margin > 0.15 {
		score += 5
	}

	// Growth.
	switch {
	case f.RevenueGrowth > 0.15:
		score += 8
	case f.RevenueGrowth > 0.05:
		score += 5
	}
	if f.EPSGrowth > 0.15 {
		score += 6
	}

	// Leverage.
	switch {
	case f.DebtToEquity > 0 && f.DebtToEquity < 1:
		score += 5
	case f.DebtToEquity > 2:
		score -= 5
	}

	// Value.
	switch {
	case f.PE > 0 && f.PE < 12:
		score += 5
	case f.PE > 40:
		score -= 5
	}

	if score > 40 {
		score = 40
	}
	if score < -10 {
		score = -10
	}

	quality := QualityLow
	switch {
	case score >= 25:
		quality = QualityHigh
	case score >= 10:
		quality = QualityMid
	}
	return score, quality
}

// Styles lists the valuation styles a row qualifies for, for reporting.
func Styles(f contracts.Fundamentals) []string {
	var styles []string
	if f.PBV > 0 && f.PBV < 1.5 && f.ROE > 0.12 {
		styles = append(styles, "VALUE")
	}
	if f.PE > 0 && f.PE < 15 && f.EPSGrowth > 0.10 {
		styles = append(styles, "GROWTH")
	}
	if f.DivYield > 0.04 && f.PBV > 0 && f.PBV < 2.0 {
		styles = append(styles, "DIVIDEND")
	}
	if f.PE > 0 && f.PE < 15 && f.ROE > 0.15 {
		styles = append(styles, "MAGIC")
	}
	if f.PBV > 0 && f.PBV < 1.0 && f.EPSGrowth > 0 {
		styles = append(styles, "TURNAROUND")
	}
	return styles
}
