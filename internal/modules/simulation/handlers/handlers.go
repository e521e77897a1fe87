// Package handlers exposes the simulation calculators over HTTP.
package handlers

import (
	"net/http"

	"github.com/aristath/alpha/internal/modules/simulation"
	"github.com/aristath/alpha/internal/utils"
	"github.com/rs/zerolog"
)

// Handler handles simulation HTTP requests
type Handler struct {
	log zerolog.Logger
}

// NewHandler creates a new simulation handler
func NewHandler(log zerolog.Logger) *Handler {
	return &Handler{
		log: log.With().Str("handler", "simulation").Logger(),
	}
}

// HandleSavingsGrowth handles POST /api/simulations/savings-growth
func (h *Handler) HandleSavingsGrowth(w http.ResponseWriter, r *http.Request) {
	var req simulation.SavingsGrowthInput
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.WriteError(w, h.log, err)
		return
	}

	values, err := simulation.SavingsGrowth(req.Initial, req.Monthly, req.AnnualRate, req.Periods)
	if err != nil {
		utils.WriteError(w, h.log, err)
		return
	}

	final := values[len(values)-1]
	h.log.Debug().
		Int("periods", req.Periods).
		Float64("initial", req.Initial).
		Float64("final", final).
		Msg("Simulated savings growth")

	utils.WriteData(w, h.log, http.StatusOK, simulation.SavingsGrowthResult{
		Values:     values,
		FinalValue: final,
	})
}

// HandleCompoundInterest handles POST /api/simulations/compound-interest
func (h *Handler) HandleCompoundInterest(w http.ResponseWriter, r *http.Request) {
	var req simulation.CompoundInterestInput
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.WriteError(w, h.log, err)
		return
	}

	amount, err := simulation.CompoundInterest(req.Principal, req.AnnualRate, req.TimesPerYear, req.Years)
	if err != nil {
		utils.WriteError(w, h.log, err)
		return
	}

	utils.WriteData(w, h.log, http.StatusOK, simulation.CompoundInterestResult{
		Amount:   amount,
		Interest: amount - req.Principal,
	})
}

// HandleRetirement handles POST /api/simulations/retirement
func (h *Handler) HandleRetirement(w http.ResponseWriter, r *http.Request) {
	var req simulation.RetirementInput
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.WriteError(w, h.log, err)
		return
	}

	result, err := simulation.Retirement(req)
	if err != nil {
		utils.WriteError(w, h.log, err)
		return
	}

	h.log.Debug().
		Int("retirement_age", req.RetirementAge).
		Float64("balance", result.RetirementBalance).
		Msg("Simulated retirement")

	utils.WriteData(w, h.log, http.StatusOK, result)
}

// HandleLoan handles POST /api/simulations/loan
func (h *Handler) HandleLoan(w http.ResponseWriter, r *http.Request) {
	var req simulation.LoanInput
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.WriteError(w, h.log, err)
		return
	}

	result, err := simulation.Loan(req.Amount, req.AnnualRate, req.Years)
	if err != nil {
		utils.WriteError(w, h.log, err)
		return
	}

	utils.WriteData(w, h.log, http.StatusOK, result)
}
