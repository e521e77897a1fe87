// Package handlers provides HTTP handlers for the expense and savings ledger.
package handlers

import (
	"net/http"

	"github.com/aristath/alpha/internal/domain"
	"github.com/aristath/alpha/internal/modules/finance"
	"github.com/aristath/alpha/internal/utils"
	"github.com/rs/zerolog"
)

// Handler handles finance HTTP requests
type Handler struct {
	service *finance.Service
	log     zerolog.Logger
}

// NewHandler creates a new finance handler
func NewHandler(service *finance.Service, log zerolog.Logger) *Handler {
	return &Handler{
		service: service,
		log:     log.With().Str("handler", "finance").Logger(),
	}
}

type createdResponse struct {
	ID int64 `json:"id"`
}

type totalResponse struct {
	Total float64 `json:"total"`
}

// HandleListExpenses handles GET /api/finance/expenses
//
// Query: limit, offset, category, start, end. A date range takes precedence
// over a category; both ignore paging.
func (h *Handler) HandleListExpenses(w http.ResponseWriter, r *http.Request) {
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

	var expenses []domain.Expense
	switch category := r.URL.Query().Get("category"); {
	case !dr.IsZero():
		expenses, err = h.service.ExpensesByDateRange(r.Context(), dr)
	case category != "":
		expenses, err = h.service.ExpensesByCategory(r.Context(), category)
	default:
		expenses, err = h.service.ListExpenses(r.Context(), page)
	}
	if err != nil {
		utils.WriteError(w, h.log, err)
		return
	}

	utils.WriteData(w, h.log, http.StatusOK, expenses)
}

// HandleCreateExpense handles POST /api/finance/expenses
func (h *Handler) HandleCreateExpense(w http.ResponseWriter, r *http.Request) {
	var req domain.Expense
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.WriteError(w, h.log, err)
		return
	}

	id, err := h.service.AddExpense(r.Context(), req)
	if err != nil {
		utils.WriteError(w, h.log, err)
		return
	}

	utils.WriteData(w, h.log, http.StatusCreated, createdResponse{ID: id})
}

// HandleGetExpense handles GET /api/finance/expenses/{id}
func (h *Handler) HandleGetExpense(w http.ResponseWriter, r *http.Request) {
	id, err := utils.ParseID(r, "id")
	if err != nil {
		utils.WriteError(w, h.log, err)
		return
	}

	expense, err := h.service.GetExpense(r.Context(), id)
	if err != nil {
		utils.WriteError(w, h.log, err)
		return
	}

	utils.WriteData(w, h.log, http.StatusOK, expense)
}

// HandleUpdateExpense handles PUT /api/finance/expenses/{id}.
// Fields left out of the body (or sent as null) are not changed.
func (h *Handler) HandleUpdateExpense(w http.ResponseWriter, r *http.Request) {
	id, err := utils.ParseID(r, "id")
	if err != nil {
		utils.WriteError(w, h.log, err)
		return
	}

	var patch finance.ExpensePatch
	if err := utils.DecodeJSON(r, &patch); err != nil {
		utils.WriteError(w, h.log, err)
		return
	}

	if err := h.service.UpdateExpense(r.Context(), id, patch); err != nil {
		utils.WriteError(w, h.log, err)
		return
	}

	h.HandleGetExpense(w, r)
}

// HandleDeleteExpense handles DELETE /api/finance/expenses/{id}
func (h *Handler) HandleDeleteExpense(w http.ResponseWriter, r *http.Request) {
	id, err := utils.ParseID(r, "id")
	if err != nil {
		utils.WriteError(w, h.log, err)
		return
	}

	if err := h.service.DeleteExpense(r.Context(), id); err != nil {
		utils.WriteError(w, h.log, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// HandleListSavings handles GET /api/finance/savings
//
// Query: limit, offset, source, start, end.
func (h *Handler) HandleListSavings(w http.ResponseWriter, r *http.Request) {
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

	var savings []domain.Savings
	switch source := r.URL.Query().Get("source"); {
	case !dr.IsZero():
		savings, err = h.service.SavingsByDateRange(r.Context(), dr)
	case source != "":
		savings, err = h.service.SavingsBySource(r.Context(), source)
	default:
		savings, err = h.service.ListSavings(r.Context(), page)
	}
	if err != nil {
		utils.WriteError(w, h.log, err)
		return
	}

	utils.WriteData(w, h.log, http.StatusOK, savings)
}

// HandleCreateSavings handles POST /api/finance/savings
func (h *Handler) HandleCreateSavings(w http.ResponseWriter, r *http.Request) {
	var req domain.Savings
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.WriteError(w, h.log, err)
		return
	}

	id, err := h.service.AddSavings(r.Context(), req)
	if err != nil {
		utils.WriteError(w, h.log, err)
		return
	}

	utils.WriteData(w, h.log, http.StatusCreated, createdResponse{ID: id})
}

// HandleGetSavings handles GET /api/finance/savings/{id}
func (h *Handler) HandleGetSavings(w http.ResponseWriter, r *http.Request) {
	id, err := utils.ParseID(r, "id")
	if err != nil {
		utils.WriteError(w, h.log, err)
		return
	}

	rec, err := h.service.GetSavings(r.Context(), id)
	if err != nil {
		utils.WriteError(w, h.log, err)
		return
	}

	utils.WriteData(w, h.log, http.StatusOK, rec)
}

// HandleUpdateSavings handles PUT /api/finance/savings/{id}
func (h *Handler) HandleUpdateSavings(w http.ResponseWriter, r *http.Request) {
	id, err := utils.ParseID(r, "id")
	if err != nil {
		utils.WriteError(w, h.log, err)
		return
	}

	var patch finance.SavingsPatch
	if err := utils.DecodeJSON(r, &patch); err != nil {
		utils.WriteError(w, h.log, err)
		return
	}

	if err := h.service.UpdateSavings(r.Context(), id, patch); err != nil {
		utils.WriteError(w, h.log, err)
		return
	}

	h.HandleGetSavings(w, r)
}

// HandleDeleteSavings handles DELETE /api/finance/savings/{id}
func (h *Handler) HandleDeleteSavings(w http.ResponseWriter, r *http.Request) {
	id, err := utils.ParseID(r, "id")
	if err != nil {
		utils.WriteError(w, h.log, err)
		return
	}

	if err := h.service.DeleteSavings(r.Context(), id); err != nil {
		utils.WriteError(w, h.log, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// HandleExpenseTotal handles GET /api/finance/totals/expenses?category=&start=&end=
func (h *Handler) HandleExpenseTotal(w http.ResponseWriter, r *http.Request) {
	dr, err := utils.ParseDateRange(r)
	if err != nil {
		utils.WriteError(w, h.log, err)
		return
	}

	total, err := h.service.ExpenseTotal(r.Context(), finance.ExpenseFilter{
		Range:    dr,
		Category: r.URL.Query().Get("category"),
	})
	if err != nil {
		utils.WriteError(w, h.log, err)
		return
	}

	utils.WriteData(w, h.log, http.StatusOK, totalResponse{Total: total})
}

// HandleSavingsTotal handles GET /api/finance/totals/savings?source=&start=&end=
func (h *Handler) HandleSavingsTotal(w http.ResponseWriter, r *http.Request) {
	dr, err := utils.ParseDateRange(r)
	if err != nil {
		utils.WriteError(w, h.log, err)
		return
	}

	total, err := h.service.SavingsTotal(r.Context(), finance.SavingsFilter{
		Range:  dr,
		Source: r.URL.Query().Get("source"),
	})
	if err != nil {
		utils.WriteError(w, h.log, err)
		return
	}

	utils.WriteData(w, h.log, http.StatusOK, totalResponse{Total: total})
}

// HandleNetPosition handles GET /api/finance/net?start=&end=
func (h *Handler) HandleNetPosition(w http.ResponseWriter, r *http.Request) {
	dr, err := utils.ParseDateRange(r)
	if err != nil {
		utils.WriteError(w, h.log, err)
		return
	}

	net, err := h.service.NetPosition(r.Context(), dr)
	if err != nil {
		utils.WriteError(w, h.log, err)
		return
	}

	utils.WriteData(w, h.log, http.StatusOK, net)
}

// HandleBreakdown handles GET /api/finance/breakdown?start=&end=
func (h *Handler) HandleBreakdown(w http.ResponseWriter, r *http.Request) {
	dr, err := utils.ParseDateRange(r)
	if err != nil {
		utils.WriteError(w, h.log, err)
		return
	}

	breakdown, err := h.service.ExpenseBreakdown(r.Context(), dr)
	if err != nil {
		utils.WriteError(w, h.log, err)
		return
	}

	utils.WriteData(w, h.log, http.StatusOK, breakdown)
}
