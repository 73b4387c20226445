package scanner

import (
	"sort"

	"github.com/idxlab/terminal/internal/contracts"
)

// Rank converts raw composite scores into empirical percentile scores and
// sorts results best first. The percentile is the share of batch members at
// or below each raw score, so the batch maximum is always 100 and a batch of
// one scores 100.
func Rank(results []*contracts.ScoreResult) {
	n := len(results)
	if n == 0 {
		return
	}

	raws := make([]float64, n)
	for i, r := range results {
		raws[i] = r.RawScore
	}

	for _, r := range results {
		count := 0
		for _, raw := range raws {
			if raw <= r.RawScore {
				count++
			}
		}
		r.Score = count * 100 / n
	}

	sort.SliceStable(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		if results[i].RawScore != results[j].RawScore {
			return results[i].RawScore > results[j].RawScore
		}
		return results[i].Symbol < results[j].Symbol
	})
}
