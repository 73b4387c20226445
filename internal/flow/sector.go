package flow

import (
	"sort"

	"github.com/idxlab/terminal/internal/contracts"
)

// SectorMomentum is one sector's blended price momentum across its members.
type SectorMomentum struct {
	Sector   string
	Ret5     float64
	Ret20    float64
	Momentum float64
	Members  int
}

// AggregateNet folds per-symbol foreign nets into per-sector totals, sorted
// strongest inflow first. Symbols without a sector mapping land in Unknown.
func AggregateNet(nets map[string]float64, sectors contracts.SectorMap) []contracts.SectorFlow {
	totals := make(map[string]float64)
	for symbol, net := range nets {
		totals[sectors.Sector(symbol)] += net
	}

	out := make([]contracts.SectorFlow, 0, len(totals))
	for sector, net := range totals {
		out = append(out, contracts.SectorFlow{Sector: sector, Net: net})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Net != out[j].Net {
			return out[i].Net > out[j].Net
		}
		return out[i].Sector < out[j].Sector
	})
	return out
}

// RotationLeaders ranks sectors by blended member momentum, averaged from
// the scanned results' trailing returns. The 20-day leg carries more weight
// than the 5-day leg so a two-day pop cannot flip the board.
func RotationLeaders(results []*contracts.ScoreResult) []SectorMomentum {
	type acc struct {
		ret5, ret20 float64
		n           int
	}
	bySector := make(map[string]*acc)

	for _, r := range results {
		a := bySector[r.Sector]
		if a == nil {
			a = &acc{}
			bySector[r.Sector] = a
		}
		a.ret5 += r.Ret5
		a.ret20 += r.Ret20
		a.n++
	}

	out := make([]SectorMomentum, 0, len(bySector))
	for sector, a := range bySector {
		r5 := a.ret5 / float64(a.n)
		r20 := a.ret20 / float64(a.n)
		out = append(out, SectorMomentum{
			Sector:   sector,
			Ret5:     r5,
			Ret20:    r20,
			Momentum: 0.6*r20 + 0.4*r5,
			Members:  a.n,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Momentum != out[j].Momentum {
			return out[i].Momentum > out[j].Momentum
		}
		return out[i].Sector < out[j].Sector
	})
	return out
}

// LeaderShift returns sectors present in the current top set but absent from
// the previous one. A non-empty result means rotation is underway.
func LeaderShift(prev, cur []SectorMomentum, topN int) []string {
	if topN > len(cur) {
		topN = len(cur)
	}
	was := make(map[string]bool, len(prev))
	for i, m := range prev {
		if i >= topN {
			break
		}
		was[m.Sector] = true
	}

	var entered []string
	for i := 0; i < topN; i++ {
		if !was[cur[i].Sector] {
			entered = append(entered, cur[i].Sector)
		}
	}
	return entered
}

// TrailingReturn is the close-to-close return over the last N trading days.
func TrailingReturn(series contracts.PriceSeries, days int) (float64, bool) {
	last, ok := series.At(1)
	if !ok {
		return 0, false
	}
	base, ok := series.At(days + 1)
	if !ok || base.Close <= 0 {
		return 0, false
	}
	return last.Close/base.Close - 1, true
}
