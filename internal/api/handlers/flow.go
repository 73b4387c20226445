package handlers

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/idxlab/terminal/internal/contracts"
	"github.com/idxlab/terminal/internal/flow"
	"github.com/idxlab/terminal/pkg/logger"
)

// FlowHandler serves foreign-flow state straight from the repository.
type FlowHandler struct {
	repo   contracts.FlowRepository
	engine *flow.Engine
	logger *logger.Logger
}

// NewFlowHandler creates a flow handler.
func NewFlowHandler(repo contracts.FlowRepository, engine *flow.Engine, log *logger.Logger) *FlowHandler {
	return &FlowHandler{repo: repo, engine: engine, logger: log}
}

// GetMarket returns the market-level flow state.
// GET /api/flow/market?days=5
func (h *FlowHandler) GetMarket(w http.ResponseWriter, r *http.Request) {
	if h.repo == nil {
		writeError(w, http.StatusServiceUnavailable, "flow history not configured")
		return
	}

	days := 5
	if v := r.URL.Query().Get("days"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 2 || n > 30 {
			writeError(w, http.StatusBadRequest, "days must be an integer between 2 and 30")
			return
		}
		days = n
	}

	totals, err := h.repo.MarketTotals(r.Context(), days)
	if err != nil {
		h.logger.WithError(err).Error("Market totals query failed")
		writeError(w, http.StatusInternalServerError, "flow history unavailable")
		return
	}
	writeJSON(w, http.StatusOK, h.engine.MarketState(totals))
}

// GetSymbol returns one symbol's flow state.
// GET /api/flow/symbols/{symbol}
func (h *FlowHandler) GetSymbol(w http.ResponseWriter, r *http.Request) {
	if h.repo == nil {
		writeError(w, http.StatusServiceUnavailable, "flow history not configured")
		return
	}

	symbol := mux.Vars(r)["symbol"]
	history, err := h.repo.SymbolHistory(r.Context(), symbol, 5)
	if err != nil {
		h.logger.WithError(err).WithField("symbol", symbol).Error("Flow history query failed")
		writeError(w, http.StatusInternalServerError, "flow history unavailable")
		return
	}
	writeJSON(w, http.StatusOK, h.engine.SymbolState(history))
}
