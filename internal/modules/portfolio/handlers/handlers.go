// Package handlers provides HTTP handlers for positions and live P&L.
package handlers

import (
	"net/http"
	"strconv"

	"github.com/aristath/alpha/internal/domain"
	"github.com/aristath/alpha/internal/modules/portfolio"
	"github.com/aristath/alpha/internal/utils"
	"github.com/rs/zerolog"
)

// LatestSummaryProvider exposes the last summary computed in the background
type LatestSummaryProvider interface {
	Latest() (*portfolio.Summary, bool)
}

// Handler handles portfolio HTTP requests
type Handler struct {
	service *portfolio.Service
	latest  LatestSummaryProvider
	log     zerolog.Logger
}

// NewHandler creates a new portfolio handler. latest may be nil when no
// background refresh is running.
func NewHandler(service *portfolio.Service, latest LatestSummaryProvider, log zerolog.Logger) *Handler {
	return &Handler{
		service: service,
		latest:  latest,
		log:     log.With().Str("handler", "portfolio").Logger(),
	}
}

func exchangeParam(r *http.Request) string {
	return r.URL.Query().Get("exchange")
}

// HandleListPositions handles GET /api/portfolio/positions?asset_type=&symbol=
func (h *Handler) HandleListPositions(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	switch {
	case q.Get("symbol") != "":
		p, err := h.service.GetPositionBySymbol(r.Context(), q.Get("symbol"))
		if err != nil {
			utils.WriteError(w, h.log, err)
			return
		}
		positions := make([]domain.Position, 0, 1)
		if p != nil {
			positions = append(positions, *p)
		}
		utils.WriteData(w, h.log, http.StatusOK, positions)

	case q.Get("asset_type") != "":
		positions, err := h.service.PositionsByAssetType(r.Context(), q.Get("asset_type"))
		if err != nil {
			utils.WriteError(w, h.log, err)
			return
		}
		utils.WriteData(w, h.log, http.StatusOK, positions)

	default:
		positions, err := h.service.AllPositions(r.Context())
		if err != nil {
			utils.WriteError(w, h.log, err)
			return
		}
		utils.WriteData(w, h.log, http.StatusOK, positions)
	}
}

// HandleCreatePosition handles POST /api/portfolio/positions
func (h *Handler) HandleCreatePosition(w http.ResponseWriter, r *http.Request) {
	var req domain.Position
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.WriteError(w, h.log, err)
		return
	}

	id, err := h.service.AddPosition(r.Context(), req)
	if err != nil {
		utils.WriteError(w, h.log, err)
		return
	}

	p, err := h.service.GetPosition(r.Context(), id)
	if err != nil {
		utils.WriteError(w, h.log, err)
		return
	}
	utils.WriteData(w, h.log, http.StatusCreated, p)
}

// HandleGetPosition handles GET /api/portfolio/positions/{id}
func (h *Handler) HandleGetPosition(w http.ResponseWriter, r *http.Request) {
	id, err := utils.ParseID(r, "id")
	if err != nil {
		utils.WriteError(w, h.log, err)
		return
	}

	p, err := h.service.GetPosition(r.Context(), id)
	if err != nil {
		utils.WriteError(w, h.log, err)
		return
	}

	utils.WriteData(w, h.log, http.StatusOK, p)
}

// HandleUpdatePosition handles PUT /api/portfolio/positions/{id}
func (h *Handler) HandleUpdatePosition(w http.ResponseWriter, r *http.Request) {
	id, err := utils.ParseID(r, "id")
	if err != nil {
		utils.WriteError(w, h.log, err)
		return
	}

	var patch portfolio.PositionPatch
	if err := utils.DecodeJSON(r, &patch); err != nil {
		utils.WriteError(w, h.log, err)
		return
	}

	if err := h.service.UpdatePosition(r.Context(), id, patch); err != nil {
		utils.WriteError(w, h.log, err)
		return
	}

	h.HandleGetPosition(w, r)
}

// HandleDeletePosition handles DELETE /api/portfolio/positions/{id}
func (h *Handler) HandleDeletePosition(w http.ResponseWriter, r *http.Request) {
	id, err := utils.ParseID(r, "id")
	if err != nil {
		utils.WriteError(w, h.log, err)
		return
	}

	if err := h.service.DeletePosition(r.Context(), id); err != nil {
		utils.WriteError(w, h.log, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// HandleGetLivePosition handles GET /api/portfolio/positions/{id}/live
func (h *Handler) HandleGetLivePosition(w http.ResponseWriter, r *http.Request) {
	id, err := utils.ParseID(r, "id")
	if err != nil {
		utils.WriteError(w, h.log, err)
		return
	}

	enriched, err := h.service.EnrichByID(r.Context(), id, exchangeParam(r))
	if err != nil {
		utils.WriteError(w, h.log, err)
		return
	}

	utils.WriteData(w, h.log, http.StatusOK, enriched)
}

// HandleGetLive handles GET /api/portfolio/live
func (h *Handler) HandleGetLive(w http.ResponseWriter, r *http.Request) {
	enriched, err := h.service.EnrichAll(r.Context(), exchangeParam(r))
	if err != nil {
		utils.WriteError(w, h.log, err)
		return
	}

	utils.WriteData(w, h.log, http.StatusOK, enriched)
}

// HandleGetPnL handles GET /api/portfolio/pnl
func (h *Handler) HandleGetPnL(w http.ResponseWriter, r *http.Request) {
	summary, err := h.service.CalculatePnL(r.Context(), exchangeParam(r))
	if err != nil {
		utils.WriteError(w, h.log, err)
		return
	}

	utils.WriteData(w, h.log, http.StatusOK, summary)
}

// HandleGetTopPerformers handles GET /api/portfolio/top?limit=
func (h *Handler) HandleGetTopPerformers(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			utils.WriteError(w, h.log, domain.Invalid("limit", "limit must be a non-negative integer"))
			return
		}
		limit = n
	}

	top, err := h.service.TopPerformers(r.Context(), limit, exchangeParam(r))
	if err != nil {
		utils.WriteError(w, h.log, err)
		return
	}

	utils.WriteData(w, h.log, http.StatusOK, top)
}

// HandleGetSummary handles GET /api/portfolio/summary
func (h *Handler) HandleGetSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.service.Summary(r.Context(), exchangeParam(r))
	if err != nil {
		utils.WriteError(w, h.log, err)
		return
	}

	utils.WriteData(w, h.log, http.StatusOK, summary)
}

// HandleGetLatestSummary handles GET /api/portfolio/summary/latest
func (h *Handler) HandleGetLatestSummary(w http.ResponseWriter, r *http.Request) {
	if h.latest == nil {
		http.Error(w, "Background refresh is disabled", http.StatusServiceUnavailable)
		return
	}

	summary, ok := h.latest.Latest()
	if !ok {
		http.Error(w, "No summary computed yet", http.StatusNotFound)
		return
	}

	utils.WriteData(w, h.log, http.StatusOK, summary)
}
