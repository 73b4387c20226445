package signals

import (
	"math"
	"sort"

	"github.com/idxlab/terminal/internal/contracts"
)

// atr computes the 14-period average true range at the latest bar. The true
// range is the widest of high-low, |high-prevClose| and |low-prevClose|.
func atr(series contracts.PriceSeries, period int) (float64, bool) {
	if series.Len() < period+1 {
		return 0, false
	}

	var sum float64
	n := series.Len()
	for i := n - period; i < n; i++ {
		b := series[i]
		prevClose := series[i-1].Close

		tr := b.High - b.Low
		if hc := math.Abs(b.High - prevClose); hc > tr {
			tr = hc
		}
		if lc := math.Abs(b.Low - prevClose); lc > tr {
			tr = lc
		}
		sum += tr
	}
	return sum / float64(period), true
}

// entryAndStop derives the entry band (close +/- 0.5*ATR) and the initial
// stop (close - 1.5*ATR).
func entryAndStop(series contracts.PriceSeries) (entryLow, entryHigh, stop float64, ok bool) {
	last, okLast := series.Last()
	if !okLast || last.Close <= 0 {
		return 0, 0, 0, false
	}

	a, okATR := atr(series, 14)
	if !okATR {
		return 0, 0, 0, false
	}

	return last.Close - 0.5*a, last.Close + 0.5*a, last.Close - 1.5*a, true
}

// takeProfit derives the three targets above the entry reference. Base
// targets are ATR multiples; when a 20-day resistance sits above entry, TP2
// is pulled toward it, on the view that a level the market has actually
// defended beats a pure volatility multiple. Targets always come back
// ordered with TP1 above entry.
func takeProfit(series contracts.PriceSeries, entry float64, levels *contracts.TradeLevels) {
	atrVal, ok := atr(series, 14)
	if !ok || atrVal <= 0 {
		// Volatility unavailable: assume 2% of entry.
		atrVal = entry * 0.02
	}

	tp1 := entry + 1.5*atrVal
	tp2 := entry + 3.0*atrVal
	tp3 := entry + 5.0*atrVal

	resistance, okRes := rollingMaxAt(highs(series), 20, 2)
	if okRes && resistance > entry {
		tp2 = math.Max(tp1*1.1, math.Min(tp2, resistance))
	}

	tps := []float64{tp1, tp2, tp3}
	sort.Float64s(tps)
	tp1, tp2, tp3 = tps[0], tps[1], tps[2]

	// Safety floor: fixed percentage steps when volatility targets collapse
	// onto or under the entry.
	if tp1 <= entry {
		tp1 = entry * 1.02
		tp2 = entry * 1.05
		tp3 = entry * 1.10
	}

	levels.TP1 = tp1
	levels.TP2 = tp2
	levels.TP3 = tp3
	levels.Resistance = resistance
	levels.ATR = atrVal
}
