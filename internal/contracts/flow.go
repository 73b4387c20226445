package contracts

import "time"

// FlowSnapshot is one day's net foreign (institutional) buy-minus-sell value
// for a single symbol. Aggregated over all symbols it becomes a market-level
// snapshot.
type FlowSnapshot struct {
	Symbol string    `json:"symbol"`
	Date   time.Time `json:"date"`
	Net    float64   `json:"net"`
}

// Flow status labels. Market-level statuses come from the acceleration
// classifier, per-symbol statuses from the absolute net-value classifier.
// The two tiers use different scales on purpose; see flow.Engine.
const (
	FlowInsufficientData = "INSUFFICIENT_DATA"
	FlowNeutral          = "NEUTRAL"

	FlowStrongInflowAccel  = "STRONG_INFLOW_ACCEL"
	FlowInflowAccel        = "INFLOW_ACCEL"
	FlowStrongOutflowAccel = "STRONG_OUTFLOW_ACCEL"
	FlowOutflowAccel       = "OUTFLOW_ACCEL"

	FlowMegaAccum     = "MEGA_ACCUM"
	FlowStrongAccum   = "STRONG_ACCUM"
	FlowAccum         = "ACCUM"
	FlowMegaDistrib   = "MEGA_DISTRIB"
	FlowStrongDistrib = "STRONG_DISTRIB"
	FlowDistrib       = "DISTRIB"
)

// FlowState is the derived momentum state of a net-flow history: the most
// recent net value, its first difference and the discrete second difference,
// plus a classification label.
type FlowState struct {
	Net    float64 `json:"net"`
	Delta  float64 `json:"delta"`
	Accel  float64 `json:"accel"`
	Status string  `json:"status"`
}

// SectorFlow is aggregated net flow for one sector.
type SectorFlow struct {
	Sector string  `json:"sector"`
	Net    float64 `json:"net"`
}
