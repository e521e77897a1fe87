package handlers

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers all simulation routes
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/simulations", func(r chi.Router) {
		r.Post("/savings-growth", h.HandleSavingsGrowth)
		r.Post("/compound-interest", h.HandleCompoundInterest)
		r.Post("/retirement", h.HandleRetirement)
		r.Post("/loan", h.HandleLoan)
	})
}
