package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idxlab/terminal/internal/api/handlers"
	"github.com/idxlab/terminal/internal/contracts"
	"github.com/idxlab/terminal/internal/flow"
	"github.com/idxlab/terminal/internal/scanner"
	"github.com/idxlab/terminal/pkg/logger"
)

type fakeRunner struct {
	report *scanner.Report
	err    error
}

func (f *fakeRunner) Scan(context.Context, []string) (*scanner.Report, error) {
	return f.report, f.err
}

type fakeFlowRepo struct {
	totals  map[string][]float64
	history map[string][]float64
}

func (f *fakeFlowRepo) SaveSnapshots(context.Context, []contracts.FlowSnapshot) error { return nil }

func (f *fakeFlowRepo) MarketTotals(context.Context, int) ([]float64, error) {
	return f.totals["market"], nil
}

func (f *fakeFlowRepo) SymbolHistory(_ context.Context, symbol string, _ int) ([]float64, error) {
	return f.history[symbol], nil
}

func (f *fakeFlowRepo) LatestBySymbol(context.Context) (map[string]float64, error) {
	return nil, nil
}

func testReport() *scanner.Report {
	return &scanner.Report{
		IndexRegime: scanner.RegimeNeutral,
		Results: []*contracts.ScoreResult{
			{Symbol: "BBCA.JK", Score: 100, RawScore: 48},
		},
	}
}

type fakeNotifier struct {
	messages []string
}

func (f *fakeNotifier) Send(_ context.Context, text string) error {
	f.messages = append(f.messages, text)
	return nil
}

func newTestRouter(runner handlers.Runner, feed *Feed) http.Handler {
	return newTestRouterWithNotifier(runner, feed, nil)
}

func newTestRouterWithNotifier(runner handlers.Runner, feed *Feed, notifier contracts.Notifier) http.Handler {
	log := logger.Nop()
	// A nil *Feed inside a non-nil Broadcaster interface would defeat the
	// handler's nil check, so only wrap it when a feed actually exists.
	var broadcaster handlers.Broadcaster
	if feed != nil {
		broadcaster = feed
	}
	scanHandler := handlers.NewScanHandler(runner, func() ([]string, error) {
		return []string{"BBCA.JK"}, nil
	}, broadcaster, notifier, log)
	engine := flow.NewEngine(flow.DefaultAccelThresholds(), flow.DefaultNetThresholds(), log)
	flowHandler := handlers.NewFlowHandler(&fakeFlowRepo{
		totals:  map[string][]float64{"market": {100e9, 150e9, 230e9}},
		history: map[string][]float64{"BBCA.JK": {10e9, 60e9}},
	}, engine, log)

	return NewRouter(scanHandler, flowHandler, feed, log)
}

func TestHealthEndpoint(t *testing.T) {
	srv := httptest.NewServer(newTestRouter(&fakeRunner{report: testReport()}, nil))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestScanRunThenLatestAndSymbol(t *testing.T) {
	srv := httptest.NewServer(newTestRouter(&fakeRunner{report: testReport()}, nil))
	defer srv.Close()

	// No scan yet.
	resp, err := http.Get(srv.URL + "/api/scan/latest")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, err = http.Post(srv.URL+"/api/scan/run", "application/json", nil)
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = http.Get(srv.URL + "/api/scan/latest")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var rep scanner.Report
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&rep))
	assert.Len(t, rep.Results, 1)

	resp, err = http.Get(srv.URL + "/api/scan/symbols/BBCA.JK")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = http.Get(srv.URL + "/api/scan/symbols/GONE.JK")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestScanRunAlertsNewHighConvictionSymbols(t *testing.T) {
	runner := &fakeRunner{report: testReport()}
	notifier := &fakeNotifier{}
	srv := httptest.NewServer(newTestRouterWithNotifier(runner, nil, notifier))
	defer srv.Close()

	// The first scan has nothing to compare against.
	resp, err := http.Post(srv.URL+"/api/scan/run", "application/json", nil)
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, notifier.messages)

	runner.report = &scanner.Report{
		IndexRegime: scanner.RegimeNeutral,
		Results: []*contracts.ScoreResult{
			{Symbol: "BBCA.JK", Score: 100, RawScore: 48},
			{Symbol: "TLKM.JK", Score: 96, RawScore: 41},
			{Symbol: "ASII.JK", Score: 70, RawScore: 22},
		},
	}
	resp, err = http.Post(srv.URL+"/api/scan/run", "application/json", nil)
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	// BBCA.JK was already on the board; only the newcomer pages.
	require.Len(t, notifier.messages, 1)
	assert.Contains(t, notifier.messages[0], "TLKM.JK")
	assert.Contains(t, notifier.messages[0], "INTRADAY SIGNAL")
}

func TestScanRunEmptyBatch(t *testing.T) {
	srv := httptest.NewServer(newTestRouter(&fakeRunner{err: contracts.ErrNoResults}, nil))
	defer srv.Close()

	resp, err := http.Post(srv.URL+"/api/scan/run", "application/json", nil)
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
}

func TestFlowEndpoints(t *testing.T) {
	srv := httptest.NewServer(newTestRouter(&fakeRunner{report: testReport()}, nil))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/api/flow/market")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var state contracts.FlowState
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&state))
	assert.Equal(t, contracts.FlowInflowAccel, state.Status)

	resp, err = http.Get(srv.URL + "/api/flow/market?days=99")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, err = http.Get(srv.URL + "/api/flow/symbols/BBCA.JK")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&state))
	assert.Equal(t, 60e9, state.Net)
}

func TestFeedBroadcastsScanResults(t *testing.T) {
	feed := NewFeed(logger.Nop())
	srv := httptest.NewServer(newTestRouter(&fakeRunner{report: testReport()}, feed))
	defer srv.Close()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/scan"
	conn, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	if resp != nil {
		resp.Body.Close()
	}
	defer conn.Close()

	// Registration happens after the handshake; wait for it.
	require.Eventually(t, func() bool {
		feed.mu.Lock()
		defer feed.mu.Unlock()
		return len(feed.clients) == 1
	}, time.Second, 10*time.Millisecond)

	feed.Broadcast(testReport())

	var rep scanner.Report
	require.NoError(t, conn.ReadJSON(&rep))
	assert.Equal(t, 100, rep.Results[0].Score)
}
