package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"

	"github.com/gorilla/mux"

	"github.com/idxlab/terminal/internal/contracts"
	"github.com/idxlab/terminal/internal/report"
	"github.com/idxlab/terminal/internal/scanner"
	"github.com/idxlab/terminal/pkg/logger"
)

// intradayScore is the conviction bar a symbol must clear to page the desk
// between scheduled scans.
const intradayScore = 95

// Runner is the slice of the scanner the API needs.
type Runner interface {
	Scan(ctx context.Context, symbols []string) (*scanner.Report, error)
}

// Broadcaster receives every fresh report, typically the websocket feed.
type Broadcaster interface {
	Broadcast(rep *scanner.Report)
}

// ScanHandler serves scan results and triggers fresh scans. The latest
// report is kept in memory only; restart means rescan.
type ScanHandler struct {
	runner   Runner
	symbols  func() ([]string, error)
	feed     Broadcaster
	notifier contracts.Notifier
	logger   *logger.Logger

	mu     sync.RWMutex
	latest *scanner.Report
}

// NewScanHandler creates a scan handler. feed and notifier may be nil.
func NewScanHandler(runner Runner, symbols func() ([]string, error), feed Broadcaster, notifier contracts.Notifier, log *logger.Logger) *ScanHandler {
	return &ScanHandler{
		runner:   runner,
		symbols:  symbols,
		feed:     feed,
		notifier: notifier,
		logger:   log,
	}
}

// SetLatest stores a report produced outside the API (scheduler, CLI).
func (h *ScanHandler) SetLatest(rep *scanner.Report) {
	h.mu.Lock()
	h.latest = rep
	h.mu.Unlock()

	if h.feed != nil {
		h.feed.Broadcast(rep)
	}
}

// GetLatest returns the most recent scan report.
// GET /api/scan/latest
func (h *ScanHandler) GetLatest(w http.ResponseWriter, _ *http.Request) {
	h.mu.RLock()
	rep := h.latest
	h.mu.RUnlock()

	if rep == nil {
		writeError(w, http.StatusNotFound, "no scan has completed yet")
		return
	}
	writeJSON(w, http.StatusOK, rep)
}

// Run triggers a synchronous scan over the configured universe.
// POST /api/scan/run
func (h *ScanHandler) Run(w http.ResponseWriter, r *http.Request) {
	symbols, err := h.symbols()
	if err != nil {
		h.logger.WithError(err).Error("Universe load failed")
		writeError(w, http.StatusInternalServerError, "universe unavailable")
		return
	}

	rep, err := h.runner.Scan(r.Context(), symbols)
	if err != nil {
		if errors.Is(err, contracts.ErrNoResults) {
			writeError(w, http.StatusUnprocessableEntity, "no symbols could be scored")
			return
		}
		h.logger.WithError(err).Error("Scan failed")
		writeError(w, http.StatusInternalServerError, "scan failed")
		return
	}

	h.mu.RLock()
	prev := h.latest
	h.mu.RUnlock()

	h.SetLatest(rep)
	h.alertNewSignals(r.Context(), prev, rep)
	writeJSON(w, http.StatusOK, rep)
}

// alertNewSignals pages symbols that crossed the intraday bar since the
// previous report. The first scan of the day stays silent; the morning
// briefing already covers it.
func (h *ScanHandler) alertNewSignals(ctx context.Context, prev, cur *scanner.Report) {
	if h.notifier == nil || prev == nil {
		return
	}

	wasHot := make(map[string]bool, len(prev.Results))
	for _, r := range prev.Results {
		if r.Score >= intradayScore {
			wasHot[r.Symbol] = true
		}
	}

	for _, r := range cur.Results {
		if r.Score < intradayScore || wasHot[r.Symbol] {
			continue
		}
		if err := h.notifier.Send(ctx, report.IntradayAlert(r)); err != nil {
			h.logger.WithError(err).Warn("Intraday alert delivery failed")
		}
	}
}

// GetSymbol returns one symbol's result from the latest scan.
// GET /api/scan/symbols/{symbol}
func (h *ScanHandler) GetSymbol(w http.ResponseWriter, r *http.Request) {
	symbol := mux.Vars(r)["symbol"]

	h.mu.RLock()
	rep := h.latest
	h.mu.RUnlock()

	if rep == nil {
		writeError(w, http.StatusNotFound, "no scan has completed yet")
		return
	}
	for _, res := range rep.Results {
		if res.Symbol == symbol {
			writeJSON(w, http.StatusOK, res)
			return
		}
	}
	writeError(w, http.StatusNotFound, "symbol not in latest scan")
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
