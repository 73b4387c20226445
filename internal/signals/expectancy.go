package signals

import (
	"math"

	"github.com/idxlab/terminal/internal/contracts"
)

// Expectancy20 computes the 20-day forward-return expectancy used as a
// watchlist column.
func Expectancy20(series contracts.PriceSeries) (contracts.Expectancy, bool) {
	return expectancy(series, 20)
}

// expectancy measures how the symbol historically behaved over the given
// holding horizon: win rate, average win/loss, expectancy per trade and
// profit factor. ok is false when the series cannot support the horizon.
func expectancy(series contracts.PriceSeries, horizon int) (contracts.Expectancy, bool) {
	var out contracts.Expectancy

	closes := series.Closes()
	if len(closes) < horizon+contracts.MinBarsFlow {
		return out, false
	}

	var wins, losses []float64
	for i := 0; i+horizon < len(closes); i++ {
		if closes[i] == 0 {
			continue
		}
		fwd := closes[i+horizon]/closes[i] - 1
		if fwd > 0 {
			wins = append(wins, fwd)
		} else {
			losses = append(losses, fwd)
		}
	}

	total := len(wins) + len(losses)
	if total == 0 {
		return out, false
	}

	out.WinRate = float64(len(wins)) / float64(total)

	var gainSum, lossSum float64
	for _, w := range wins {
		gainSum += w
	}
	for _, l := range losses {
		lossSum += math.Abs(l)
	}

	if len(wins) > 0 {
		out.AvgWin = gainSum / float64(len(wins))
	}
	if len(losses) > 0 {
		out.AvgLoss = lossSum / float64(len(losses))
	}

	out.Expectancy = out.WinRate*out.AvgWin - (1-out.WinRate)*out.AvgLoss

	if lossSum == 0 {
		lossSum = 1e-9
	}
	out.ProfitFactor = gainSum / lossSum

	return out, true
}
