package scanner

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/idxlab/terminal/internal/contracts"
	"github.com/idxlab/terminal/internal/flow"
	"github.com/idxlab/terminal/internal/fundamentals"
	"github.com/idxlab/terminal/internal/signals"
	"github.com/idxlab/terminal/pkg/config"
	"github.com/idxlab/terminal/pkg/logger"
)

// Scanner runs one full pass over the universe: price fetch, layered scoring,
// foreign-flow merge, percentile ranking and regime read. One Scan call is
// one self-contained batch with no state carried across runs.
type Scanner struct {
	prices     contracts.PriceSource
	flows      contracts.FlowRepository
	flowEngine *flow.Engine
	model      *signals.Model
	sectors    contracts.SectorMap
	funds      fundamentals.Book
	cfg        config.ScanConfig
	logger     *logger.Logger
}

// New creates a scanner. flows may be nil when no flow history is available;
// the scan then runs on technicals alone with neutral flow fields. funds may
// be nil when no fundamentals dataset exists.
func New(
	prices contracts.PriceSource,
	flows contracts.FlowRepository,
	flowEngine *flow.Engine,
	model *signals.Model,
	sectors contracts.SectorMap,
	funds fundamentals.Book,
	cfg config.ScanConfig,
	log *logger.Logger,
) *Scanner {
	return &Scanner{
		prices:     prices,
		flows:      flows,
		flowEngine: flowEngine,
		model:      model,
		sectors:    sectors,
		funds:      funds,
		cfg:        cfg,
		logger:     log,
	}
}

// Report is the complete output of one scan.
type Report struct {
	GeneratedAt   time.Time                `json:"generated_at"`
	Mode          string                   `json:"mode"`
	ModelVersion  string                   `json:"model_version"`
	Scanned       int                      `json:"scanned"`
	Scored        int                      `json:"scored"`
	IndexRegime   string                   `json:"index_regime"`
	BatchRegime   string                   `json:"batch_regime"`
	Insight       string                   `json:"insight"`
	RiskGauge     float64                  `json:"risk_gauge"`
	MarketFlow    contracts.FlowState      `json:"market_flow"`
	SectorFlows   []contracts.SectorFlow   `json:"sector_flows"`
	SectorLeaders []flow.SectorMomentum    `json:"sector_leaders"`
	Results       []*contracts.ScoreResult `json:"results"`
	Allocations   []Allocation             `json:"allocations"`
	Alignments    []string                 `json:"alignments"`
}

// Watchlist returns the top-N results per configuration.
func (r *Report) Watchlist(n int) []*contracts.ScoreResult {
	if n > len(r.Results) {
		n = len(r.Results)
	}
	return r.Results[:n]
}

// Scan evaluates every symbol with a bounded worker pool, waits for the whole
// batch, then ranks and derives the market read. Per-symbol failures are
// logged and skipped; only an entirely empty batch is an error.
func (s *Scanner) Scan(ctx context.Context, symbols []string) (*Report, error) {
	if s.cfg.BatchLimit > 0 && len(symbols) > s.cfg.BatchLimit {
		symbols = symbols[:s.cfg.BatchLimit]
	}

	s.logger.WithFields(map[string]interface{}{
		"symbols": len(symbols),
		"mode":    s.cfg.Mode,
		"version": s.cfg.ModelVersion,
		"workers": s.cfg.Workers,
	}).Info("Starting scan")

	index := s.fetchIndex(ctx)
	nets, marketFlow := s.fetchFlow(ctx)

	results := s.evaluateAll(ctx, symbols, index, nets)
	if len(results) == 0 {
		return nil, contracts.ErrNoResults
	}

	// Ranking needs the full batch; nothing below runs until every worker
	// has finished.
	Rank(results)

	batchRegime, insight := BatchRegime(results)
	report := &Report{
		GeneratedAt:   time.Now(),
		Mode:          s.cfg.Mode,
		ModelVersion:  s.cfg.ModelVersion,
		Scanned:       len(symbols),
		Scored:        len(results),
		IndexRegime:   IndexRegime(index),
		BatchRegime:   batchRegime,
		Insight:       insight,
		RiskGauge:     RiskGauge(results),
		MarketFlow:    marketFlow,
		SectorFlows:   flow.AggregateNet(nets, s.sectors),
		SectorLeaders: flow.RotationLeaders(results),
		Results:       results,
	}

	leaders := make([]string, 0, 3)
	for _, sf := range report.SectorFlows {
		if len(leaders) == 3 {
			break
		}
		leaders = append(leaders, sf.Sector)
	}
	report.Allocations = PortfolioWeights(report.IndexRegime, AllowedSectors(report.IndexRegime, leaders))

	for _, r := range results {
		if ValueFlowAligned(r) {
			report.Alignments = append(report.Alignments, r.Symbol)
		}
	}

	s.logger.WithFields(map[string]interface{}{
		"scored":  report.Scored,
		"skipped": report.Scanned - report.Scored,
		"regime":  report.IndexRegime,
	}).Info("Scan completed")

	return report, nil
}

func (s *Scanner) evaluateAll(ctx context.Context, symbols []string, index contracts.PriceSeries, nets map[string]float64) []*contracts.ScoreResult {
	var wg sync.WaitGroup
	symbolCh := make(chan string, len(symbols))
	resultCh := make(chan *contracts.ScoreResult, len(symbols))

	workers := s.cfg.Workers
	if workers < 1 {
		workers = 1
	}
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for symbol := range symbolCh {
				res, err := s.evaluate(ctx, symbol, index, nets)
				if err != nil {
					s.logSkip(symbol, err)
					continue
				}
				resultCh <- res
			}
		}()
	}

	for _, symbol := range symbols {
		symbolCh <- symbol
	}
	close(symbolCh)

	go func() {
		wg.Wait()
		close(resultCh)
	}()

	results := make([]*contracts.ScoreResult, 0, len(symbols))
	for res := range resultCh {
		results = append(results, res)
	}
	return results
}

// evaluate scores one symbol. Any error means skip, never abort the batch.
func (s *Scanner) evaluate(ctx context.Context, symbol string, index contracts.PriceSeries, nets map[string]float64) (*contracts.ScoreResult, error) {
	series, err := s.prices.Daily(ctx, symbol)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", symbol, err)
	}

	ev, err := s.model.Evaluate(series, index)
	if err != nil {
		return nil, err
	}

	raw := ev.Score
	net := nets[symbol]
	points, tier := flow.Score(net)
	raw += points

	accumulating := flow.Accumulating(series, net)
	if accumulating {
		raw += 5
	}

	// The fundamental overlay merges additively at 0.6 weight, like the
	// flow merge above.
	fundScore := 0
	fundQuality := ""
	var funds *contracts.Fundamentals
	if f, ok := s.funds.Get(symbol); ok {
		fundScore, fundQuality = fundamentals.Score(f)
		raw += float64(fundScore) * 0.6
		funds = &f
	}

	res := &contracts.ScoreResult{
		Symbol:           symbol,
		Sector:           s.sectors.Sector(symbol),
		RawScore:         raw,
		Features:         ev.Features,
		Levels:           ev.Levels,
		RelativeStrength: ev.RelativeStrength,
		TrendOK:          ev.TrendOK,
		Momentum3M:       ev.Momentum3M,
		Drawdown:         ev.Drawdown,
		ForeignNet:       net,
		ForeignStatus:    s.flowEngine.ClassifyNet(net),
		FlowTier:         tier,
		AccumTier:        flow.AccumTier(net),
		Accumulation:     accumulating,
		FundScore:        fundScore,
		FundQuality:      fundQuality,
		Fundamentals:     funds,
		ModelVersion:     ev.Version,
	}

	// Trailing returns for sector rotation; evaluation already required far
	// more history than the 20-day leg needs.
	if r5, ok := flow.TrailingReturn(series, 5); ok {
		res.Ret5 = r5
	}
	if r20, ok := flow.TrailingReturn(series, 20); ok {
		res.Ret20 = r20
	}

	if exp, ok := signals.Expectancy20(series); ok {
		res.Exp20 = &exp
	}
	return res, nil
}

func (s *Scanner) fetchIndex(ctx context.Context) contracts.PriceSeries {
	index, err := s.prices.Daily(ctx, s.cfg.IndexSymbol)
	if err != nil {
		s.logger.WithError(err).WithField("symbol", s.cfg.IndexSymbol).
			Warn("Index unavailable, relative strength disabled")
		return nil
	}
	return index
}

// fetchFlow loads the latest per-symbol nets and the market flow state.
// Either can be missing; the scan degrades to neutral flow instead of
// failing.
func (s *Scanner) fetchFlow(ctx context.Context) (map[string]float64, contracts.FlowState) {
	neutral := contracts.FlowState{Status: contracts.FlowInsufficientData}
	if s.flows == nil {
		return map[string]float64{}, neutral
	}

	nets, err := s.flows.LatestBySymbol(ctx)
	if err != nil {
		s.logger.WithError(err).Warn("Foreign flow unavailable")
		nets = map[string]float64{}
	}

	totals, err := s.flows.MarketTotals(ctx, 5)
	if err != nil {
		s.logger.WithError(err).Warn("Market flow totals unavailable")
		return nets, neutral
	}
	return nets, s.flowEngine.MarketState(totals)
}

func (s *Scanner) logSkip(symbol string, err error) {
	switch {
	case errors.Is(err, contracts.ErrInsufficientData):
		s.logger.WithField("symbol", symbol).Debug("Skipped: insufficient history")
	case errors.Is(err, contracts.ErrNoiseRejected):
		s.logger.WithField("symbol", symbol).Debug("Skipped: gap noise filter")
	default:
		s.logger.WithError(err).WithField("symbol", symbol).Warn("Skipped: evaluation failed")
	}
}
