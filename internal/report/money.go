package report

import "fmt"

// Money renders an IDR amount in trader shorthand: 1.25T, 60.0B, 3.5M, or
// the plain integer below a million.
func Money(v float64) string {
	abs := v
	if abs < 0 {
		abs = -abs
	}
	switch {
	case abs >= 1e12:
		return fmt.Sprintf("%.2fT", v/1e12)
	case abs >= 1e9:
		return fmt.Sprintf("%.1fB", v/1e9)
	case abs >= 1e6:
		return fmt.Sprintf("%.1fM", v/1e6)
	default:
		return fmt.Sprintf("%d", int64(v))
	}
}

// Stars renders the percentile score as a one-to-five star rating.
func Stars(score int) string {
	switch {
	case score >= 95:
		return "★★★★★"
	case score >= 85:
		return "★★★★"
	case score >= 70:
		return "★★★"
	case score >= 50:
		return "★★"
	default:
		return "★"
	}
}
