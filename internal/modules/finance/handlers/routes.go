package handlers

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers all finance routes
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/finance", func(r chi.Router) {
		r.Get("/expenses", h.HandleListExpenses)
		r.Post("/expenses", h.HandleCreateExpense)
		r.Get("/expenses/{id}", h.HandleGetExpense)
		r.Put("/expenses/{id}", h.HandleUpdateExpense)
		r.Delete("/expenses/{id}", h.HandleDeleteExpense)

		r.Get("/savings", h.HandleListSavings)
		r.Post("/savings", h.HandleCreateSavings)
		r.Get("/savings/{id}", h.HandleGetSavings)
		r.Put("/savings/{id}", h.HandleUpdateSavings)
		r.Delete("/savings/{id}", h.HandleDeleteSavings)

		// Analytics
		r.Get("/totals/expenses", h.HandleExpenseTotal)
		r.Get("/totals/savings", h.HandleSavingsTotal)
		r.Get("/net", h.HandleNetPosition)
		r.Get("/breakdown", h.HandleBreakdown)
	})
}
