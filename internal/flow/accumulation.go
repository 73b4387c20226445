package flow

import "github.com/idxlab/terminal/internal/contracts"

// Accumulating reports whether price action looks like quiet institutional
// accumulation: positive foreign net while price holds below the recent high
// on elevated volume inside a tight range. All four must hold.
func Accumulating(series contracts.PriceSeries, foreignNet float64) bool {
	if foreignNet <= 0 || series.Len() < contracts.MinBarsFlow {
		return false
	}

	last, ok := series.At(1)
	if !ok || last.Close <= 0 {
		return false
	}

	high20 := 0.0
	n := series.Len()
	for i := n - 20; i < n; i++ {
		if series[i].High > high20 {
			high20 = series[i].High
		}
	}
	if high20 <= 0 || last.Close >= 0.98*high20 {
		return false
	}

	var volSum float64
	for i := n - 20; i < n; i++ {
		volSum += series[i].Volume
	}
	avgVol20 := volSum / 20
	if avgVol20 <= 0 || last.Volume <= 1.2*avgVol20 {
		return false
	}

	hi10, lo10 := series[n-10].High, series[n-10].Low
	for i := n - 10; i < n; i++ {
		if series[i].High > hi10 {
			hi10 = series[i].High
		}
		if series[i].Low < lo10 {
			lo10 = series[i].Low
		}
	}
	return (hi10-lo10)/last.Close < 0.08
}
