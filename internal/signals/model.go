package signals

import (
	"fmt"
	"math"

	"github.com/idxlab/terminal/internal/contracts"
	"github.com/idxlab/terminal/pkg/logger"
)

// Model versions. Each version runs the stages of everything below it plus
// its own: v2 is v1 + relative strength, v3 adds the quant overlay, v4 adds
// the noise filter.
const (
	V1 = "v1"
	V2 = "v2"
	V3 = "v3"
	V4 = "v4"
)

// Evaluation is the mutable accumulator the stages write into. Fields stay
// zero until the stage that owns them has run.
type Evaluation struct {
	Features contracts.FeatureSet
	Levels   contracts.TradeLevels
	Score    float64

	RelativeStrength float64
	TrendOK          bool
	Momentum3M       float64
	Drawdown         float64

	Version string
}

// stageFn mutates the evaluation from a series (plus the benchmark index for
// relative strength). Returning an error aborts the symbol.
type stageFn func(m *Model, series, index contracts.PriceSeries, ev *Evaluation) error

type stage struct {
	version string
	run     stageFn
}

// The cascade. Order matters: each stage is a strict input to the next,
// nothing is recomputed from scratch.
var stages = []stage{
	{V1, (*Model).technicalBase},
	{V2, (*Model).relativeStrength},
	{V3, (*Model).quantOverlay},
	{V4, (*Model).noiseFilter},
}

// Model is the layered scoring model. It is pure over its inputs: identical
// series and configuration always produce the identical evaluation.
type Model struct {
	version   string
	extractor *Extractor
	logger    *logger.Logger
}

// NewModel creates a model running the cascade up to version.
func NewModel(version string, extractor *Extractor, log *logger.Logger) (*Model, error) {
	switch version {
	case V1, V2, V3, V4:
	default:
		return nil, fmt.Errorf("unknown model version %q", version)
	}
	return &Model{version: version, extractor: extractor, logger: log}, nil
}

// Evaluate runs the configured stage prefix over the series. index may be
// empty; relative strength then degrades to zero. The error is
// ErrInsufficientData or ErrNoiseRejected when the symbol should be skipped.
func (m *Model) Evaluate(series, index contracts.PriceSeries) (*Evaluation, error) {
	ev := &Evaluation{Version: m.version}

	for _, st := range stages {
		if err := st.run(m, series, index, ev); err != nil {
			return nil, err
		}
		if st.version == m.version {
			break
		}
	}
	return ev, nil
}

// technicalBase is the v1 stage: the additive technical score and the
// entry/stop band.
func (m *Model) technicalBase(series, _ contracts.PriceSeries, ev *Evaluation) error {
	fs, err := m.extractor.Extract(series)
	if err != nil {
		return err
	}
	ev.Features = fs

	score := 0.0
	if fs.BreakoutConfirm {
		score += 40
	}
	if fs.Absorption {
		score += 20
	}
	if fs.MultiAccum {
		score += 15
	}
	if fs.Undervalued && fs.Compression {
		score += 20
	}
	if fs.BrokerAccum {
		score += 15
	}
	if fs.Capitulation && fs.Undervalued {
		score += 10
	}
	if fs.LiquidityPenalty {
		score -= 15
	}

	ev.Score = math.Max(score, 0)

	entryLow, entryHigh, stop, ok := entryAndStop(series)
	if !ok {
		return contracts.ErrInsufficientData
	}
	ev.Levels.EntryLow = entryLow
	ev.Levels.EntryHigh = entryHigh
	ev.Levels.StopLoss = stop

	return nil
}

// relativeStrength is the v2 stage: 21-bar return over the benchmark plus a
// trend-alignment bonus. A missing or short index never fails the symbol;
// the term just contributes nothing.
func (m *Model) relativeStrength(series, index contracts.PriceSeries, ev *Evaluation) error {
	score := ev.Score

	rs := 0.0
	stockNow, ok1 := series.At(1)
	stockPast, ok2 := series.At(21)
	idxNow, ok3 := index.At(1)
	idxPast, ok4 := index.At(21)
	if ok1 && ok2 && ok3 && ok4 && stockPast.Close != 0 && idxPast.Close != 0 {
		rs = (stockNow.Close/stockPast.Close - 1) - (idxNow.Close/idxPast.Close - 1)
	}

	// Both thresholds fire additively: a 8% leader gets +30.
	if rs > 0.03 {
		score += 10
	}
	if rs > 0.07 {
		score += 20
	}

	closes := series.Closes()
	ma20, ok20 := rollingMeanAt(closes, 20, 1)
	ma50, ok50 := rollingMeanAt(closes, 50, 1)
	trendOK := ok20 && ok50 && ma20 > ma50
	if trendOK {
		score += 10
	}

	ev.Score = math.Max(score, 0)
	ev.RelativeStrength = rs
	ev.TrendOK = trendOK
	return nil
}

// quantOverlay is the v3 stage: 60-bar momentum, a Sharpe-like proxy, a
// drawdown penalty, and the take-profit levels.
func (m *Model) quantOverlay(series, _ contracts.PriceSeries, ev *Evaluation) error {
	score := ev.Score

	ret3m := 0.0
	now, ok1 := series.At(1)
	past, ok2 := series.At(60)
	if ok1 && ok2 && past.Close != 0 {
		ret3m = now.Close/past.Close - 1
	}

	if ret3m > 0.25 {
		score += 20
	} else if ret3m > 0.10 {
		score += 10
	}

	// Sharpe proxy over daily returns; needs enough observations to mean
	// anything, otherwise contributes nothing.
	returns := series.Returns()
	if len(returns) > 30 {
		mean, std, ok := meanStd(returns)
		sharpe := 0.0
		if ok && std > 0 {
			sharpe = mean / std
		}
		if sharpe > 0.15 {
			score += 15
		} else if sharpe > 0.08 {
			score += 8
		}
	}

	peak, ok := rollingMaxAt(series.Closes(), series.Len(), 1)
	if !ok || peak == 0 {
		return contracts.ErrInsufficientData
	}
	dd := now.Close/peak - 1

	if dd < -0.50 {
		score -= 25
	} else if dd < -0.35 {
		score -= 15
	}

	ev.Score = math.Max(score, 0)
	ev.Momentum3M = ret3m
	ev.Drawdown = dd

	// Targets anchor on the top of the entry band.
	takeProfit(series, ev.Levels.EntryHigh, &ev.Levels)
	return nil
}

// noiseFilter is the v4 stage: reject abnormal single-day gaps. These are
// usually bad prints or manipulation spikes on illiquid names, not signal.
func (m *Model) noiseFilter(series, _ contracts.PriceSeries, ev *Evaluation) error {
	last, ok1 := series.At(1)
	prev, ok2 := series.At(2)
	if !ok1 || !ok2 || prev.Close == 0 {
		return contracts.ErrInsufficientData
	}

	if math.Abs(last.Close/prev.Close-1) > 0.15 {
		return contracts.ErrNoiseRejected
	}
	return nil
}
