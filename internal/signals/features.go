package signals

import (
	"math"

	"github.com/idxlab/terminal/internal/contracts"
)

// Extractor derives the FeatureSet from one symbol's price series. It holds
// no state across symbols; thresholds come from the mode configuration.
type Extractor struct {
	// MinAvgValue is the 20-day average traded value (IDR) under which the
	// liquidity penalty fires.
	MinAvgValue float64
	// DiscountLevel is the 52-week discount below which a symbol counts as
	// undervalued. Negative.
	DiscountLevel float64
}

// NewExtractor creates an extractor with the given mode thresholds.
func NewExtractor(minAvgValue, discountLevel float64) *Extractor {
	return &Extractor{MinAvgValue: minAvgValue, DiscountLevel: discountLevel}
}

// Extract computes the feature set at the most recent bar. Series shorter
// than 60 bars, or any underivable scalar along the way, yield
// ErrInsufficientData; no field is ever defaulted.
func (e *Extractor) Extract(series contracts.PriceSeries) (contracts.FeatureSet, error) {
	var fs contracts.FeatureSet

	if series.Len() < contracts.MinBarsFeatures {
		return fs, contracts.ErrInsufficientData
	}

	last, _ := series.Last()
	close := last.Close
	if close <= 0 {
		return fs, contracts.ErrInsufficientData
	}
	volToday := last.Volume

	closes := series.Closes()
	vols := volumes(series)

	// Volume and traded-value baselines end one bar back so today's spike
	// does not inflate its own reference.
	avgVol, ok := rollingMeanAt(vols, 20, 2)
	if !ok || avgVol <= 0 {
		return fs, contracts.ErrInsufficientData
	}

	avgValue, ok := rollingMeanAt(tradedValues(series), 20, 2)
	if !ok {
		return fs, contracts.ErrInsufficientData
	}

	// 52-week discount against the full-series close high.
	high52w, ok := rollingMaxAt(closes, len(closes), 1)
	if !ok || high52w == 0 {
		return fs, contracts.ErrInsufficientData
	}
	discount := close/high52w - 1

	// 20-day range compression.
	high20, okH := rollingMaxAt(highs(series), 20, 1)
	low20, okL := rollingMinAt(lows(series), 20, 1)
	if !okH || !okL || low20 == 0 {
		return fs, contracts.ErrInsufficientData
	}

	// Breakout confirms against the prior bar's 20-day close high.
	prevHigh20, ok := rollingMaxAt(closes, 20, 2)
	if !ok {
		return fs, contracts.ErrInsufficientData
	}

	candleRange := last.High - last.Low

	// Multi-day accumulation: how many of the last 5 bars out-traded the
	// 20-day baseline.
	accumDays := 0
	for _, v := range vols[len(vols)-5:] {
		if v > avgVol {
			accumDays++
		}
	}

	fs = contracts.FeatureSet{
		Close:            close,
		VolToday:         volToday,
		AvgVol20:         avgVol,
		AvgValue20:       avgValue,
		Discount52W:      discount,
		Undervalued:      discount < e.DiscountLevel,
		Compression:      high20/low20-1 < 0.15,
		Capitulation:     volToday > 2.0*avgVol,
		Absorption:       volToday > 1.7*avgVol && candleRange < close*0.025,
		BreakoutConfirm:  close > prevHigh20 && volToday > 2.0*avgVol,
		MultiAccum:       accumDays >= 2,
		LiquidityPenalty: avgValue < e.MinAvgValue,
		BrokerAccum:      brokerAccumulation(series),
	}
	return fs, nil
}

// brokerAccumulation detects quiet absorption: heavy sustained volume into a
// flat, tight-ranged week. Distinct from the single-bar absorption flag.
func brokerAccumulation(series contracts.PriceSeries) bool {
	if series.Len() < 21 {
		return false
	}

	avgVol20, ok := rollingMeanAt(volumes(series), 20, 1)
	if !ok || avgVol20 <= 0 {
		return false
	}

	last, _ := series.At(1)
	sixBack, ok := series.At(6)
	if !ok || sixBack.Close == 0 {
		return false
	}
	ret5 := last.Close/sixBack.Close - 1

	// Average candle range and volume over the last 5 bars.
	var rangeSum, volSum float64
	n := series.Len()
	for _, b := range series[n-5:] {
		if b.Close == 0 {
			return false
		}
		rangeSum += (b.High - b.Low) / b.Close
		volSum += b.Volume
	}
	tight := rangeSum/5 < 0.02
	volPressure := volSum/5 > 1.8*avgVol20

	return math.Abs(ret5) < 0.03 && tight && volPressure
}
