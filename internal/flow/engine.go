package flow

import (
	"github.com/idxlab/terminal/internal/contracts"
	"github.com/idxlab/terminal/pkg/logger"
)

// AccelThresholds drive the market-level acceleration classifier (IDR).
type AccelThresholds struct {
	Strong float64
	Medium float64
}

// NetThresholds drive the per-symbol absolute-net classifier (IDR). The two
// classifiers use different statistics and different scales on purpose:
// market flow is judged by how fast it is changing, a single symbol by how
// much money actually moved. Keep them independently tunable.
type NetThresholds struct {
	Mega   float64
	Strong float64
}

// DefaultAccelThresholds are calibrated to realistic IDX market totals.
func DefaultAccelThresholds() AccelThresholds {
	return AccelThresholds{Strong: 100_000_000_000, Medium: 30_000_000_000}
}

// DefaultNetThresholds for per-symbol classification.
func DefaultNetThresholds() NetThresholds {
	return NetThresholds{Mega: 100_000_000_000, Strong: 30_000_000_000}
}

// Engine turns short net-flow histories into momentum states and
// classification labels.
type Engine struct {
	accel  AccelThresholds
	net    NetThresholds
	logger *logger.Logger
}

// NewEngine creates a flow engine.
func NewEngine(accel AccelThresholds, net NetThresholds, log *logger.Logger) *Engine {
	return &Engine{accel: accel, net: net, logger: log}
}

// MarketState derives the market-level flow state from per-day net totals,
// oldest first. Two snapshots give a raw delta; a third enables the discrete
// second difference. Fewer than two reports INSUFFICIENT_DATA explicitly,
// never a neutral guess.
func (e *Engine) MarketState(totals []float64) contracts.FlowState {
	if len(totals) < 2 {
		return contracts.FlowState{Status: contracts.FlowInsufficientData}
	}

	today := totals[len(totals)-1]
	yday := totals[len(totals)-2]
	delta := today - yday

	accel := delta
	if len(totals) >= 3 {
		prev := totals[len(totals)-3]
		accel = delta - (yday - prev)
	}

	state := contracts.FlowState{
		Net:    today,
		Delta:  delta,
		Accel:  accel,
		Status: e.classifyAccel(accel),
	}

	e.logger.WithFields(map[string]interface{}{
		"net":    today,
		"delta":  delta,
		"accel":  accel,
		"status": state.Status,
	}).Debug("Market flow state")

	return state
}

// SymbolState derives the same delta/accel momentum for one symbol, but
// classified by absolute net value rather than acceleration.
func (e *Engine) SymbolState(history []float64) contracts.FlowState {
	if len(history) < 2 {
		return contracts.FlowState{Status: contracts.FlowInsufficientData}
	}

	today := history[len(history)-1]
	yday := history[len(history)-2]
	delta := today - yday

	accel := delta
	if len(history) >= 3 {
		prev := history[len(history)-3]
		accel = delta - (yday - prev)
	}

	return contracts.FlowState{
		Net:    today,
		Delta:  delta,
		Accel:  accel,
		Status: e.ClassifyNet(today),
	}
}

func (e *Engine) classifyAccel(accel float64) string {
	switch {
	case accel > e.accel.Strong:
		return contracts.FlowStrongInflowAccel
	case accel >= e.accel.Medium:
		return contracts.FlowInflowAccel
	case accel < -e.accel.Strong:
		return contracts.FlowStrongOutflowAccel
	case accel <= -e.accel.Medium:
		return contracts.FlowOutflowAccel
	default:
		return contracts.FlowNeutral
	}
}

// ClassifyNet labels a single day's net value for one symbol.
func (e *Engine) ClassifyNet(net float64) string {
	switch {
	case net > e.net.Mega:
		return contracts.FlowMegaAccum
	case net > e.net.Strong:
		return contracts.FlowStrongAccum
	case net > 0:
		return contracts.FlowAccum
	case net < -e.net.Mega:
		return contracts.FlowMegaDistrib
	case net < -e.net.Strong:
		return contracts.FlowStrongDistrib
	case net < 0:
		return contracts.FlowDistrib
	default:
		return contracts.FlowNeutral
	}
}
