package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/aristath/alpha/internal/modules/simulation"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRouter() http.Handler {
	router := chi.NewRouter()
	router.Route("/api", NewHandler(zerolog.New(nil).Level(zerolog.Disabled)).RegisterRoutes)
	return router
}

func post(t *testing.T, path, body string, out interface{}) int {
	t.Helper()
	req := httptest.NewRequest("POST", path, strings.NewReader(body))
	w := httptest.NewRecorder()
	newRouter().ServeHTTP(w, req)

	if out != nil && w.Code == http.StatusOK {
		var response struct {
			Data json.RawMessage `json:"data"`
		}
		require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
		require.NoError(t, json.Unmarshal(response.Data, out))
	}
	return w.Code
}

func TestHandleSavingsGrowth(t *testing.T) {
	var result simulation.SavingsGrowthResult
	code := post(t, "/api/simulations/savings-growth",
		`{"initial":1000,"monthly":100,"annual_rate":0.12,"periods":2}`, &result)
	require.Equal(t, http.StatusOK, code)
	assert.Len(t, result.Values, 3)
	assert.InDelta(t, 1223.11, result.FinalValue, 1e-9)

	assert.Equal(t, http.StatusBadRequest, post(t, "/api/simulations/savings-growth",
		`{"initial":1000,"periods":0}`, nil))
}

func TestHandleCompoundInterest(t *testing.T) {
	var result simulation.CompoundInterestResult
	code := post(t, "/api/simulations/compound-interest",
		`{"principal":1000,"annual_rate":0.05,"times_per_year":12,"years":10}`, &result)
	require.Equal(t, http.StatusOK, code)
	assert.InDelta(t, 1647.01, result.Amount, 0.01)
	assert.InDelta(t, 647.01, result.Interest, 0.01)
}

func TestHandleRetirement(t *testing.T) {
	var result simulation.RetirementResult
	code := post(t, "/api/simulations/retirement",
		`{"current_age":64,"retirement_age":65,"current_savings":120000,"withdrawal_rate":1}`, &result)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, 1.0, result.EstimatedYearsLasting)

	assert.Equal(t, http.StatusBadRequest, post(t, "/api/simulations/retirement",
		`{"current_age":65,"retirement_age":60,"withdrawal_rate":0.04}`, nil))
}

func TestHandleLoan(t *testing.T) {
	var result simulation.LoanResult
	code := post(t, "/api/simulations/loan", `{"amount":12000,"annual_rate":0,"years":1}`, &result)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, 1000.0, result.MonthlyPayment)
	assert.Equal(t, 12, result.NumPayments)

	assert.Equal(t, http.StatusBadRequest, post(t, "/api/simulations/loan", `not json`, nil))
}
