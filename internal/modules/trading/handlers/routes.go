package handlers

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers all trading journal routes
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/trading", func(r chi.Router) {
		r.Get("/trades", h.HandleListTrades)
		r.Post("/trades", h.HandleCreateTrade)
		r.Get("/trades/{id}", h.HandleGetTrade)
		r.Put("/trades/{id}", h.HandleUpdateTrade)
		r.Delete("/trades/{id}", h.HandleDeleteTrade)

		r.Get("/summary", h.HandleGetSummary)
		r.Get("/performance/{symbol}", h.HandleGetPerformance)
	})
}
