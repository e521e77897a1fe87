package handlers

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers all portfolio routes
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/portfolio", func(r chi.Router) {
		r.Get("/positions", h.HandleListPositions)
		r.Post("/positions", h.HandleCreatePosition)
		r.Get("/positions/{id}", h.HandleGetPosition)
		r.Put("/positions/{id}", h.HandleUpdatePosition)
		r.Delete("/positions/{id}", h.HandleDeletePosition)
		r.Get("/positions/{id}/live", h.HandleGetLivePosition)

		// Live valuation (all accept ?exchange=)
		r.Get("/live", h.HandleGetLive)
		r.Get("/pnl", h.HandleGetPnL)
		r.Get("/top", h.HandleGetTopPerformers)
		r.Get("/summary", h.HandleGetSummary)
		r.Get("/summary/latest", h.HandleGetLatestSummary)
	})
}
