// Package handlers provides HTTP handlers for the trading journal.
package handlers

import (
	"net/http"

	"github.com/aristath/alpha/internal/domain"
	"github.com/aristath/alpha/internal/modules/trading"
	"github.com/aristath/alpha/internal/utils"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// Handler handles trading journal HTTP requests
type Handler struct {
	service *trading.JournalService
	log     zerolog.Logger
}

// NewHandler creates a new trading handler
func NewHandler(service *trading.JournalService, log zerolog.Logger) *Handler {
	return &Handler{
		service: service,
		log:     log.With().Str("handler", "trading").Logger(),
	}
}

// HandleListTrades handles GET /api/trading/trades
//
// Query: symbol, asset_type, trade_type, start, end, tag, limit, offset.
// Filters combine.
func (h *Handler) HandleListTrades(w http.ResponseWriter, r *http.Request) {
	dr, err := utils.ParseDateRange(r)
	if err != nil {
		utils.WriteError(w, h.log, err)
		return
	}
	page, err := utils.ParsePage(r)
	if err != nil {
		utils.WriteError(w, h.log, err)
		return
	}

	q := r.URL.Query()
	trades, err := h.service.Search(r.Context(), trading.Filter{
		Symbol:    q.Get("symbol"),
		AssetType: domain.AssetType(q.Get("asset_type")),
		TradeType: domain.TradeType(q.Get("trade_type")),
		Range:     dr,
		Tag:       q.Get("tag"),
	}, page)
	if err != nil {
		utils.WriteError(w, h.log, err)
		return
	}

	utils.WriteData(w, h.log, http.StatusOK, trades)
}

// HandleCreateTrade handles POST /api/trading/trades
func (h *Handler) HandleCreateTrade(w http.ResponseWriter, r *http.Request) {
	var req domain.Trade
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.WriteError(w, h.log, err)
		return
	}

	id, err := h.service.AddTrade(r.Context(), req)
	if err != nil {
		utils.WriteError(w, h.log, err)
		return
	}

	trade, err := h.service.GetTrade(r.Context(), id)
	if err != nil {
		utils.WriteError(w, h.log, err)
		return
	}
	utils.WriteData(w, h.log, http.StatusCreated, trade)
}

// HandleGetTrade handles GET /api/trading/trades/{id}
func (h *Handler) HandleGetTrade(w http.ResponseWriter, r *http.Request) {
	id, err := utils.ParseID(r, "id")
	if err != nil {
		utils.WriteError(w, h.log, err)
		return
	}

	trade, err := h.service.GetTrade(r.Context(), id)
	if err != nil {
		utils.WriteError(w, h.log, err)
		return
	}

	utils.WriteData(w, h.log, http.StatusOK, trade)
}

// HandleUpdateTrade handles PUT /api/trading/trades/{id}
func (h *Handler) HandleUpdateTrade(w http.ResponseWriter, r *http.Request) {
	id, err := utils.ParseID(r, "id")
	if err != nil {
		utils.WriteError(w, h.log, err)
		return
	}

	var patch trading.TradePatch
	if err := utils.DecodeJSON(r, &patch); err != nil {
		utils.WriteError(w, h.log, err)
		return
	}

	if err := h.service.UpdateTrade(r.Context(), id, patch); err != nil {
		utils.WriteError(w, h.log, err)
		return
	}

	h.HandleGetTrade(w, r)
}

// HandleDeleteTrade handles DELETE /api/trading/trades/{id}
func (h *Handler) HandleDeleteTrade(w http.ResponseWriter, r *http.Request) {
	id, err := utils.ParseID(r, "id")
	if err != nil {
		utils.WriteError(w, h.log, err)
		return
	}

	if err := h.service.DeleteTrade(r.Context(), id); err != nil {
		utils.WriteError(w, h.log, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// HandleGetSummary handles GET /api/trading/summary
func (h *Handler) HandleGetSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.service.Summary(r.Context())
	if err != nil {
		utils.WriteError(w, h.log, err)
		return
	}

	utils.WriteData(w, h.log, http.StatusOK, summary)
}

// HandleGetPerformance handles GET /api/trading/performance/{symbol}
func (h *Handler) HandleGetPerformance(w http.ResponseWriter, r *http.Request) {
	perf, err := h.service.SymbolPerformance(r.Context(), chi.URLParam(r, "symbol"))
	if err != nil {
		utils.WriteError(w, h.log, err)
		return
	}

	utils.WriteData(w, h.log, http.StatusOK, perf)
}
