package scanner

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/idxlab/terminal/internal/contracts"
)

func scored(symbol string, raw float64) *contracts.ScoreResult {
	return &contracts.ScoreResult{Symbol: symbol, RawScore: raw}
}

func TestRankMaximumIsAlways100(t *testing.T) {
	results := []*contracts.ScoreResult{
		scored("AAAA.JK", 12),
		scored("BBBB.JK", 55),
		scored("CCCC.JK", 3),
	}

	Rank(results)

	assert.Equal(t, "BBBB.JK", results[0].Symbol)
	assert.Equal(t, 100, results[0].Score)
}

func TestRankIsMonotonicInRawScore(t *testing.T) {
	results := []*contracts.ScoreResult{
		scored("AAAA.JK", 40),
		scored("BBBB.JK", 10),
		scored("CCCC.JK", 70),
		scored("DDDD.JK", 25),
	}

	Rank(results)

	assert.Equal(t, []int{100, 75, 50, 25}, []int{
		results[0].Score, results[1].Score, results[2].Score, results[3].Score,
	})
	for i := 1; i < len(results); i++ {
		assert.GreaterOrEqual(t, results[i-1].RawScore, results[i].RawScore)
	}
}

func TestRankTiesShareOnePercentile(t *testing.T) {
	results := []*contracts.ScoreResult{
		scored("AAAA.JK", 50),
		scored("BBBB.JK", 50),
		scored("CCCC.JK", 10),
	}

	Rank(results)

	assert.Equal(t, 100, results[0].Score)
	assert.Equal(t, 100, results[1].Score)
	assert.Equal(t, 33, results[2].Score)
	// Equal raw scores fall back to symbol order for a stable sort.
	assert.Equal(t, "AAAA.JK", results[0].Symbol)
}

func TestRankSingleResultScores100(t *testing.T) {
	results := []*contracts.ScoreResult{scored("AAAA.JK", 0)}

	Rank(results)

	assert.Equal(t, 100, results[0].Score)
}
