package signals

import (
	"math"

	"github.com/idxlab/terminal/internal/contracts"
)

// Rolling-window helpers. Every helper returns (value, ok) instead of
// defaulting on short windows; call sites decide between skipping the symbol
// and substituting a neutral value.
//
// The back parameter anchors the window at a negative offset from the end of
// the series: back=1 means the window ends at the latest bar, back=2 one bar
// earlier. Baselines that must not see the latest bar (average volume,
// average traded value) use back=2.

func rollingMeanAt(vals []float64, window, back int) (float64, bool) {
	end := len(vals) - back + 1
	if window <= 0 || back < 1 || end < window {
		return 0, false
	}
	var sum float64
	for _, v := range vals[end-window : end] {
		sum += v
	}
	return sum / float64(window), true
}

func rollingMaxAt(vals []float64, window, back int) (float64, bool) {
	end := len(vals) - back + 1
	if window <= 0 || back < 1 || end < window {
		return 0, false
	}
	max := vals[end-window]
	for _, v := range vals[end-window : end] {
		if v > max {
			max = v
		}
	}
	return max, true
}

func rollingMinAt(vals []float64, window, back int) (float64, bool) {
	end := len(vals) - back + 1
	if window <= 0 || back < 1 || end < window {
		return 0, false
	}
	min := vals[end-window]
	for _, v := range vals[end-window : end] {
		if v < min {
			min = v
		}
	}
	return min, true
}

func volumes(s contracts.PriceSeries) []float64 {
	out := make([]float64, len(s))
	for i, b := range s {
		out[i] = b.Volume
	}
	return out
}

func highs(s contracts.PriceSeries) []float64 {
	out := make([]float64, len(s))
	for i, b := range s {
		out[i] = b.High
	}
	return out
}

func lows(s contracts.PriceSeries) []float64 {
	out := make([]float64, len(s))
	for i, b := range s {
		out[i] = b.Low
	}
	return out
}

// tradedValues is close*volume per bar, the liquidity proxy input.
func tradedValues(s contracts.PriceSeries) []float64 {
	out := make([]float64, len(s))
	for i, b := range s {
		out[i] = b.Close * b.Volume
	}
	return out
}

// meanStd returns the mean and sample standard deviation.
func meanStd(vals []float64) (mean, std float64, ok bool) {
	if len(vals) < 2 {
		return 0, 0, false
	}
	for _, v := range vals {
		mean += v
	}
	mean /= float64(len(vals))

	var ss float64
	for _, v := range vals {
		d := v - mean
		ss += d * d
	}
	std = math.Sqrt(ss / float64(len(vals)-1))
	return mean, std, true
}
