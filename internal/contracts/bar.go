package contracts

import "time"

// Bar is one daily OHLCV observation.
type Bar struct {
	Date   time.Time `json:"date"`
	Open   float64   `json:"open"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Close  float64   `json:"close"`
	Volume float64   `json:"volume"`
}

// PriceSeries is a chronologically ordered sequence of daily bars for one
// symbol. Index 0 is the oldest bar, the last element the most recent.
type PriceSeries []Bar

// Minimum series lengths accepted by the pipeline.
const (
	// MinBarsFeatures is required for full feature extraction.
	MinBarsFeatures = 60
	// MinBarsFlow is required for flow and expectancy helpers.
	MinBarsFlow = 30
)

// Len returns the number of bars.
func (s PriceSeries) Len() int { return len(s) }

// Last returns the most recent bar. ok is false for an empty series.
func (s PriceSeries) Last() (Bar, bool) {
	if len(s) == 0 {
		return Bar{}, false
	}
	return s[len(s)-1], true
}

// At returns the bar at a negative offset from the end: At(1) is the latest
// bar, At(2) the one before it. ok is false when the offset runs off the
// start of the series.
func (s PriceSeries) At(back int) (Bar, bool) {
	i := len(s) - back
	if back < 1 || i < 0 {
		return Bar{}, false
	}
	return s[i], true
}

// Closes returns the close column.
func (s PriceSeries) Closes() []float64 {
	out := make([]float64, len(s))
	for i, b := range s {
		out[i] = b.Close
	}
	return out
}

// Returns computes simple day-over-day close returns. Bars with a zero prior
// close are skipped rather than producing an infinite value.
func (s PriceSeries) Returns() []float64 {
	if len(s) < 2 {
		return nil
	}
	out := make([]float64, 0, len(s)-1)
	for i := 1; i < len(s); i++ {
		prev := s[i-1].Close
		if prev == 0 {
			continue
		}
		out = append(out, s[i].Close/prev-1)
	}
	return out
}
