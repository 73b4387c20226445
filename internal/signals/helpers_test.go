package signals

import (
	"time"

	"github.com/idxlab/terminal/internal/contracts"
)

// testBar describes a synthetic bar; zero High/Low default to a tight band
// around Close.
type testBar struct {
	Close  float64
	High   float64
	Low    float64
	Volume float64
}

func makeSeries(bars []testBar) contracts.PriceSeries {
	s := make(contracts.PriceSeries, len(bars))
	day := time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)
	for i, b := range bars {
		high, low := b.High, b.Low
		if high == 0 {
			high = b.Close * 1.005
		}
		if low == 0 {
			low = b.Close * 0.995
		}
		s[i] = contracts.Bar{
			Date:   day.AddDate(0, 0, i),
			Open:   b.Close,
			High:   high,
			Low:    low,
			Close:  b.Close,
			Volume: b.Volume,
		}
	}
	return s
}

// flatSeries builds n identical bars.
func flatSeries(n int, close, volume float64) contracts.PriceSeries {
	bars := make([]testBar, n)
	for i := range bars {
		bars[i] = testBar{Close: close, Volume: volume}
	}
	return makeSeries(bars)
}

// breakoutSeries is 69 flat bars then a high-volume close above the prior
// 20-day high.
func breakoutSeries() contracts.PriceSeries {
	bars := make([]testBar, 70)
	for i := 0; i < 69; i++ {
		bars[i] = testBar{Close: 100, Volume: 1000}
	}
	// Wide candle so the absorption flag stays off.
	bars[69] = testBar{Close: 103, High: 106, Low: 100, Volume: 2500}
	return makeSeries(bars)
}
