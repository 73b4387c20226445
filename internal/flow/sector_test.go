package flow

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/idxlab/terminal/internal/contracts"
)

func trendSeries(n int, step float64) contracts.PriceSeries {
	series := make(contracts.PriceSeries, 0, n)
	price := 100.0
	for i := 0; i < n; i++ {
		series = append(series, contracts.Bar{
			Open: price, High: price + 0.5, Low: price - 0.5, Close: price, Volume: 1000,
		})
		price += step
	}
	return series
}

func TestAggregateNetSortsBySector(t *testing.T) {
	sectors := contracts.SectorMap{
		"BBCA.JK": "Banking",
		"BMRI.JK": "Banking",
		"ADRO.JK": "Energy",
	}
	nets := map[string]float64{
		"BBCA.JK": 30 * b,
		"BMRI.JK": 20 * b,
		"ADRO.JK": 80 * b,
		"XXXX.JK": -5 * b,
	}

	flows := AggregateNet(nets, sectors)

	assert.Equal(t, []contracts.SectorFlow{
		{Sector: "Energy", Net: 80 * b},
		{Sector: "Banking", Net: 50 * b},
		{Sector: contracts.SectorUnknown, Net: -5 * b},
	}, flows)
}

func TestRotationLeadersRanksByBlendedMomentum(t *testing.T) {
	results := []*contracts.ScoreResult{
		{Symbol: "UPUP.JK", Sector: "Energy", Ret5: 0.05, Ret20: 0.20},
		{Symbol: "ALSO.JK", Sector: "Energy", Ret5: 0.03, Ret20: 0.10},
		{Symbol: "FLAT.JK", Sector: "Banking", Ret5: 0, Ret20: 0},
	}

	leaders := RotationLeaders(results)

	assert.Len(t, leaders, 2)
	assert.Equal(t, "Energy", leaders[0].Sector)
	// Blend of the sector averages: 0.6*0.15 + 0.4*0.04.
	assert.InDelta(t, 0.106, leaders[0].Momentum, 1e-9)
	assert.Equal(t, 2, leaders[0].Members)
	assert.Equal(t, "Banking", leaders[1].Sector)
	assert.InDelta(t, 0, leaders[1].Momentum, 1e-9)
}

func TestTrailingReturn(t *testing.T) {
	series := trendSeries(30, 1)

	// Last close 129, 20 days earlier 109, 5 days earlier 124.
	r20, ok := TrailingReturn(series, 20)
	assert.True(t, ok)
	assert.InDelta(t, 129.0/109.0-1, r20, 1e-9)

	r5, ok := TrailingReturn(series, 5)
	assert.True(t, ok)
	assert.InDelta(t, 129.0/124.0-1, r5, 1e-9)

	_, ok = TrailingReturn(trendSeries(10, 1), 20)
	assert.False(t, ok)
}

func TestLeaderShift(t *testing.T) {
	prev := []SectorMomentum{{Sector: "Banking"}, {Sector: "Energy"}, {Sector: "Telco"}}
	cur := []SectorMomentum{{Sector: "Metals"}, {Sector: "Banking"}, {Sector: "Energy"}}

	assert.Equal(t, []string{"Metals"}, LeaderShift(prev, cur, 3))
	assert.Nil(t, LeaderShift(cur, cur, 3))
	assert.Equal(t, []string{"Metals"}, LeaderShift(nil, cur, 1))
}
