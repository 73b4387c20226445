package jobs

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idxlab/terminal/internal/contracts"
	"github.com/idxlab/terminal/internal/flow"
	"github.com/idxlab/terminal/internal/scanner"
	"github.com/idxlab/terminal/pkg/logger"
)

type fakeFlowSource struct {
	snaps []contracts.FlowSnapshot
	err   error
}

func (f *fakeFlowSource) FetchDaily(ctx context.Context, date time.Time) ([]contracts.FlowSnapshot, error) {
	return f.snaps, f.err
}

type fakeFlowRepo struct {
	saved []contracts.FlowSnapshot
	err   error
}

func (f *fakeFlowRepo) SaveSnapshots(ctx context.Context, snaps []contracts.FlowSnapshot) error {
	if f.err != nil {
		return f.err
	}
	f.saved = append(f.saved, snaps...)
	return nil
}

func (f *fakeFlowRepo) MarketTotals(ctx context.Context, days int) ([]float64, error) {
	return nil, nil
}

func (f *fakeFlowRepo) SymbolHistory(ctx context.Context, symbol string, days int) ([]float64, error) {
	return nil, nil
}

func (f *fakeFlowRepo) LatestBySymbol(ctx context.Context) (map[string]float64, error) {
	return nil, nil
}

type fakeRunner struct {
	rep     *scanner.Report
	err     error
	symbols []string
}

func (f *fakeRunner) Scan(ctx context.Context, symbols []string) (*scanner.Report, error) {
	f.symbols = symbols
	return f.rep, f.err
}

type fakeNotifier struct {
	messages []string
}

func (f *fakeNotifier) Send(ctx context.Context, text string) error {
	f.messages = append(f.messages, text)
	return nil
}

type fakeSink struct {
	latest *scanner.Report
}

func (f *fakeSink) SetLatest(rep *scanner.Report) { f.latest = rep }

func TestFlowSnapshotJobSavesRows(t *testing.T) {
	source := &fakeFlowSource{snaps: []contracts.FlowSnapshot{
		{Symbol: "BBCA.JK", Net: 50e9},
		{Symbol: "TLKM.JK", Net: -20e9},
	}}
	repo := &fakeFlowRepo{}

	job := NewFlowSnapshotJob(source, repo, logger.Nop())
	require.NoError(t, job.Run(context.Background()))

	require.Len(t, repo.saved, 2)
	assert.Equal(t, "BBCA.JK", repo.saved[0].Symbol)
}

func TestFlowSnapshotJobHolidaySkipsSave(t *testing.T) {
	repo := &fakeFlowRepo{}
	job := NewFlowSnapshotJob(&fakeFlowSource{}, repo, logger.Nop())

	require.NoError(t, job.Run(context.Background()))
	assert.Empty(t, repo.saved)
}

func TestFlowSnapshotJobPropagatesErrors(t *testing.T) {
	job := NewFlowSnapshotJob(&fakeFlowSource{err: errors.New("timeout")}, &fakeFlowRepo{}, logger.Nop())
	err := job.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "fetch foreign flow")

	source := &fakeFlowSource{snaps: []contracts.FlowSnapshot{{Symbol: "BBCA.JK"}}}
	job = NewFlowSnapshotJob(source, &fakeFlowRepo{err: errors.New("db down")}, logger.Nop())
	err = job.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "save foreign flow")
}

func testScanReport() *scanner.Report {
	return &scanner.Report{
		GeneratedAt:  time.Now(),
		Mode:         "AGGRESSIVE",
		ModelVersion: "v4",
		Scanned:      2,
		Scored:       2,
		IndexRegime:  scanner.RegimeNeutral,
		BatchRegime:  scanner.RegimeNeutral,
		Results: []*contracts.ScoreResult{
			{
				Symbol:   "BBCA.JK",
				Sector:   "BANKS",
				RawScore: 12,
				Score:    100,
				Features: contracts.FeatureSet{Absorption: true, Undervalued: true},
			},
			{Symbol: "TLKM.JK", Sector: "TELCO", RawScore: 4, Score: 50},
		},
	}
}

func TestDailyScanJobNotifiesAndCachesReport(t *testing.T) {
	rep := testScanReport()
	runner := &fakeRunner{rep: rep}
	notifier := &fakeNotifier{}
	sink := &fakeSink{}

	job := NewDailyScanJob(
		runner,
		func() ([]string, error) { return []string{"BBCA.JK", "TLKM.JK"}, nil },
		nil,
		notifier,
		sink,
		t.TempDir(),
		10,
		logger.Nop(),
	)

	require.NoError(t, job.Run(context.Background()))

	assert.Equal(t, []string{"BBCA.JK", "TLKM.JK"}, runner.symbols)
	assert.Same(t, rep, sink.latest)

	// Morning report plus one alignment alert for BBCA.JK.
	require.Len(t, notifier.messages, 2)
	assert.True(t, strings.Contains(notifier.messages[0], "BBCA.JK"))
	assert.True(t, strings.Contains(notifier.messages[1], "BBCA.JK"))
}

func TestDailyScanJobAlertsOnSectorRotation(t *testing.T) {
	first := testScanReport()
	first.SectorLeaders = []flow.SectorMomentum{
		{Sector: "BANKS", Momentum: 0.05},
		{Sector: "TELCO", Momentum: 0.02},
	}
	second := testScanReport()
	second.SectorLeaders = []flow.SectorMomentum{
		{Sector: "ENERGY", Momentum: 0.08},
		{Sector: "BANKS", Momentum: 0.04},
	}

	runner := &fakeRunner{rep: first}
	notifier := &fakeNotifier{}
	job := NewDailyScanJob(
		runner,
		func() ([]string, error) { return []string{"BBCA.JK", "TLKM.JK"}, nil },
		nil,
		notifier,
		nil,
		t.TempDir(),
		10,
		logger.Nop(),
	)

	// The first run only seeds the leaderboard.
	require.NoError(t, job.Run(context.Background()))
	for _, msg := range notifier.messages {
		assert.NotContains(t, msg, "SECTOR ROTATION")
	}

	runner.rep = second
	require.NoError(t, job.Run(context.Background()))

	var shift string
	for _, msg := range notifier.messages {
		if strings.Contains(msg, "SECTOR ROTATION") {
			shift = msg
		}
	}
	require.NotEmpty(t, shift)
	assert.Contains(t, shift, "ENERGY")
	assert.NotContains(t, shift, "New leaders: BANKS")
}

func TestDailyScanJobFailsWhenUniverseMissing(t *testing.T) {
	job := NewDailyScanJob(
		&fakeRunner{},
		func() ([]string, error) { return nil, errors.New("no such file") },
		nil,
		nil,
		nil,
		t.TempDir(),
		10,
		logger.Nop(),
	)

	err := job.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "load universe")
}

func TestDailyScanJobPropagatesScanError(t *testing.T) {
	job := NewDailyScanJob(
		&fakeRunner{err: contracts.ErrNoResults},
		func() ([]string, error) { return []string{"BBCA.JK"}, nil },
		nil,
		nil,
		nil,
		t.TempDir(),
		10,
		logger.Nop(),
	)

	err := job.Run(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, contracts.ErrNoResults)
}
