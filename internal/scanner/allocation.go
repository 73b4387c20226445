package scanner

import (
	"strings"

	"github.com/idxlab/terminal/internal/contracts"
)

// CashBucket is the allocation line item that is not a sector.
const CashBucket = "CASH"

// Allocation is one line of the regime-based portfolio split, in whole
// percent.
type Allocation struct {
	Name   string `json:"name"`
	Weight int    `json:"weight"`
}

var defensiveSectors = []string{
	"CONSUMER",
	"CONSUMER NON-CYCLICAL",
	"HEALTHCARE",
	"UTILITIES",
	"TELECOMMUNICATIONS",
	"TELCO",
}

// AllowedSectors filters rotation leaders by regime. PANIC admits only
// defensive sectors; RISK-OFF prefers two defensive names but falls back to
// the single strongest leader; anything else allows normal rotation.
func AllowedSectors(regime string, top []string) []string {
	switch regime {
	case RegimePanic:
		var out []string
		for _, s := range top {
			if isDefensive(s) {
				out = append(out, s)
			}
		}
		return out
	case RegimeRiskOff:
		var defensive []string
		for _, s := range top {
			if isDefensive(s) {
				defensive = append(defensive, s)
			}
		}
		if len(defensive) >= 2 {
			return defensive[:2]
		}
		if len(top) > 1 {
			return top[:1]
		}
		return top
	default:
		return top
	}
}

func isDefensive(sector string) bool {
	upper := strings.ToUpper(sector)
	for _, d := range defensiveSectors {
		if strings.Contains(upper, d) {
			return true
		}
	}
	return false
}

// PortfolioWeights splits 100% across the given sectors plus cash according
// to regime. NEUTRAL and RISK-ON give the leader an outsized slice; PANIC and
// RISK-OFF split the non-cash remainder evenly.
func PortfolioWeights(regime string, sectors []string) []Allocation {
	switch regime {
	case RegimePanic:
		return evenSplit(sectors, 70)
	case RegimeRiskOff:
		return evenSplit(sectors, 40)
	case RegimeNeutral:
		return leaderSplit(sectors, 20, 40, 25, 15)
	case RegimeRiskOn:
		return leaderSplit(sectors, 10, 50, 25, 15)
	default:
		return []Allocation{{Name: CashBucket, Weight: 100}}
	}
}

func evenSplit(sectors []string, cash int) []Allocation {
	out := make([]Allocation, 0, len(sectors)+1)
	if len(sectors) > 0 {
		per := (100 - cash) / len(sectors)
		for _, s := range sectors {
			out = append(out, Allocation{Name: s, Weight: per})
		}
	}
	return append(out, Allocation{Name: CashBucket, Weight: cash})
}

func leaderSplit(sectors []string, cash int, weights ...int) []Allocation {
	out := make([]Allocation, 0, len(weights)+1)
	for i, s := range sectors {
		if i >= len(weights) {
			break
		}
		out = append(out, Allocation{Name: s, Weight: weights[i]})
	}
	return append(out, Allocation{Name: CashBucket, Weight: cash})
}

// ValueFlowAligned flags the rare setup where smart-money absorption meets a
// deep value discount on an already high-scoring symbol.
func ValueFlowAligned(r *contracts.ScoreResult) bool {
	return r.Features.Absorption && r.Score >= 75 && r.Features.Undervalued
}
