package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/aristath/alpha/internal/modules/portfolio"
	testingpkg "github.com/aristath/alpha/internal/testing"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubLatest struct {
	summary *portfolio.Summary
}

func (s stubLatest) Latest() (*portfolio.Summary, bool) {
	return s.summary, s.summary != nil
}

func setup(t *testing.T, latest LatestSummaryProvider) (http.Handler, *testingpkg.MockPriceSource) {
	t.Helper()
	logger := zerolog.New(nil).Level(zerolog.Disabled)
	prices := testingpkg.NewMockPriceSource()
	repo := portfolio.NewPositionRepository(testingpkg.NewMemoryDB(t), logger)
	service := portfolio.NewService(repo, prices, "binance", logger)

	router := chi.NewRouter()
	router.Route("/api", NewHandler(service, latest, logger).RegisterRoutes)
	return router, prices
}

func call(h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	var response struct {
		Data json.RawMessage `json:"data"`
	}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
	require.NoError(t, json.Unmarshal(response.Data, v))
}

func TestLiveEndpoints(t *testing.T) {
	router, prices := setup(t, nil)
	prices.SetPrice("AAPL", 190)
	prices.SetError("ETH/USDT", errors.New("no ticker"))

	w := call(router, "POST", "/api/portfolio/positions",
		`{"symbol":"aapl","asset_type":"stock","entry_date":"2024-01-15","entry_price":180,"quantity":50}`)
	require.Equal(t, http.StatusCreated, w.Code)
	w = call(router, "POST", "/api/portfolio/positions",
		`{"symbol":"ETH/USDT","asset_type":"crypto","entry_date":"2024-01-20","entry_price":2500,"quantity":2}`)
	require.Equal(t, http.StatusCreated, w.Code)

	w = call(router, "GET", "/api/portfolio/positions/1/live?exchange=kraken", "")
	require.Equal(t, http.StatusOK, w.Code)
	var one map[string]interface{}
	decode(t, w, &one)
	assert.Equal(t, 9500.0, one["current_value"])
	assert.Equal(t, 500.0, one["unrealized_pnl"])
	assert.NotContains(t, one, "price_error")

	w = call(router, "GET", "/api/portfolio/live", "")
	require.Equal(t, http.StatusOK, w.Code)
	var live []map[string]interface{}
	decode(t, w, &live)
	require.Len(t, live, 2)
	assert.Nil(t, live[1]["current_value"], "missing data is null, not zero")
	assert.Equal(t, "no ticker", live[1]["price_error"])

	w = call(router, "GET", "/api/portfolio/pnl", "")
	require.Equal(t, http.StatusOK, w.Code)
	var pnl portfolio.PortfolioSummary
	decode(t, w, &pnl)
	assert.Equal(t, 14000.0, pnl.TotalEntryValue)
	assert.Equal(t, 9500.0, pnl.TotalCurrentValue)
	assert.Equal(t, 1, pnl.PositionsWithErrors)

	w = call(router, "GET", "/api/portfolio/summary?exchange=coinbase", "")
	require.Equal(t, http.StatusOK, w.Code)
	var summary portfolio.Summary
	decode(t, w, &summary)
	assert.Equal(t, "coinbase", summary.Exchange)
	assert.Len(t, summary.TopPerformers, 1)

	w = call(router, "GET", "/api/portfolio/top?limit=x", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPositionCRUDEndpoints(t *testing.T) {
	router, _ := setup(t, nil)

	w := call(router, "POST", "/api/portfolio/positions",
		`{"symbol":"VOO","asset_type":"etf","entry_date":"2024-01-20","entry_price":400,"quantity":-2}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = call(router, "POST", "/api/portfolio/positions",
		`{"symbol":"VOO","asset_type":"etf","entry_date":"2024-01-20","entry_price":400,"quantity":2}`)
	require.Equal(t, http.StatusCreated, w.Code)

	w = call(router, "PUT", "/api/portfolio/positions/1", `{"quantity":3}`)
	require.Equal(t, http.StatusOK, w.Code)
	var updated map[string]interface{}
	decode(t, w, &updated)
	assert.Equal(t, 3.0, updated["quantity"])

	w = call(router, "GET", "/api/portfolio/positions?symbol=voo", "")
	require.Equal(t, http.StatusOK, w.Code)
	var list []map[string]interface{}
	decode(t, w, &list)
	assert.Len(t, list, 1)

	assert.Equal(t, http.StatusNoContent, call(router, "DELETE", "/api/portfolio/positions/1", "").Code)
	assert.Equal(t, http.StatusNotFound, call(router, "GET", "/api/portfolio/positions/1", "").Code)
	assert.Equal(t, http.StatusNotFound, call(router, "GET", "/api/portfolio/positions/1/live", "").Code)
}

func TestLatestSummary(t *testing.T) {
	router, _ := setup(t, nil)
	assert.Equal(t, http.StatusServiceUnavailable, call(router, "GET", "/api/portfolio/summary/latest", "").Code)

	router, _ = setup(t, stubLatest{})
	assert.Equal(t, http.StatusNotFound, call(router, "GET", "/api/portfolio/summary/latest", "").Code)

	router, _ = setup(t, stubLatest{summary: &portfolio.Summary{Exchange: "binance", GeneratedAt: "2024-03-01T12:00:00Z"}})
	w := call(router, "GET", "/api/portfolio/summary/latest", "")
	require.Equal(t, http.StatusOK, w.Code)
	var summary portfolio.Summary
	decode(t, w, &summary)
	assert.Equal(t, "2024-03-01T12:00:00Z", summary.GeneratedAt)
}
