package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/aristath/alpha/internal/metrics"
	"github.com/aristath/alpha/internal/modules/finance"
	financehandlers "github.com/aristath/alpha/internal/modules/finance/handlers"
	"github.com/aristath/alpha/internal/modules/portfolio"
	"github.com/aristath/alpha/internal/modules/trading"
	"github.com/aristath/alpha/internal/pricing"
	"github.com/aristath/alpha/internal/reliability"
	"github.com/aristath/alpha/internal/reports"
	testingpkg "github.com/aristath/alpha/internal/testing"
)

type stubProber struct{}

func (stubProber) Connectivity(ctx context.Context) pricing.ConnectivityReport {
	return pricing.ConnectivityReport{
		Equity:   pricing.ProbeResult{Available: true},
		Crypto:   pricing.ProbeResult{Error: "exchange down"},
		Exchange: "binance",
	}
}

type fixture struct {
	handler http.Handler
	metrics *metrics.Metrics
	ledger  *finance.Service
}

func newFixture(t *testing.T, withSystem bool) fixture {
	t.Helper()
	log := zerolog.New(nil).Level(zerolog.Disabled)
	db := testingpkg.NewTestDB(t)

	ledger := finance.NewService(finance.NewExpenseRepository(db.Conn(), log), finance.NewSavingsRepository(db.Conn(), log), log)
	journal := trading.NewJournalService(trading.NewTradeRepository(db.Conn(), log), log)
	positions := portfolio.NewService(portfolio.NewPositionRepository(db.Conn(), log), testingpkg.NewMockPriceSource(), "binance", log)

	m := metrics.New()
	cfg := Config{
		Log:     log,
		DevMode: true,
		Metrics: m,
		Modules: []RouteRegistrar{financehandlers.NewHandler(ledger, log)},
	}
	if withSystem {
		cfg.System = NewSystemHandlers(SystemDeps{
			DB:       db,
			Backups:  reliability.NewBackupService(db.Conn(), t.TempDir(), log),
			Prober:   stubProber{},
			Exporter: reports.NewExporter(ledger, journal, positions, log),
		}, log)
	}

	return fixture{handler: New(cfg).Handler(), metrics: m, ledger: ledger}
}

func do(h http.Handler, method, path string, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decodeData(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	var envelope struct {
		Data json.RawMessage `json:"data"`
	}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&envelope))
	require.NoError(t, json.Unmarshal(envelope.Data, v))
}

func TestHealth(t *testing.T) {
	f := newFixture(t, true)

	w := do(f.handler, "GET", "/health", "")
	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
	assert.Equal(t, "healthy", body["status"])
	assert.Equal(t, "alpha", body["service"])
	assert.NotEmpty(t, w.Header().Get("X-Request-Id"))
}

func TestRequestID_KeepsClientValue(t *testing.T) {
	f := newFixture(t, false)

	req := httptest.NewRequest("GET", "/health", nil)
	req.Header.Set("X-Request-Id", "abc-123")
	w := httptest.NewRecorder()
	f.handler.ServeHTTP(w, req)

	assert.Equal(t, "abc-123", w.Header().Get("X-Request-Id"))
}

func TestModulesMountedUnderAPI(t *testing.T) {
	f := newFixture(t, false)

	w := do(f.handler, "POST", "/api/finance/expenses", `{"date":"2024-01-05","category":"Food","amount":12.5}`)
	require.Equal(t, http.StatusCreated, w.Code)

	assert.Equal(t, http.StatusOK, do(f.handler, "GET", "/api/finance/expenses/1", "").Code)
	assert.Equal(t, http.StatusNotFound, do(f.handler, "GET", "/api/finance/expenses/99", "").Code)
	assert.Equal(t, http.StatusNotFound, do(f.handler, "GET", "/api/system/stats", "").Code, "system routes absent when not configured")
}

func TestMetricsEndpoint(t *testing.T) {
	f := newFixture(t, false)
	do(f.handler, "GET", "/api/finance/expenses/7", "")

	w := do(f.handler, "GET", "/metrics", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `alpha_http_requests_total{method="GET",route="/api/finance/expenses/{id}",status="404"} 1`)
}

func TestSystemStats(t *testing.T) {
	f := newFixture(t, true)
	_, err := f.ledger.AddExpense(context.Background(), testingpkg.NewExpenseFixtures()[0])
	require.NoError(t, err)

	w := do(f.handler, "GET", "/api/system/stats", "")
	require.Equal(t, http.StatusOK, w.Code)

	var stats StatsResponse
	decodeData(t, w, &stats)
	assert.Equal(t, int64(1), stats.Tables["expenses"])
	assert.Equal(t, int64(0), stats.Tables["positions"])
	assert.Greater(t, stats.SchemaVersion, uint(0))
	assert.False(t, stats.SchemaDirty)
	assert.NotEmpty(t, stats.LastChecked)
}

func TestSystemBackup(t *testing.T) {
	f := newFixture(t, true)

	w := do(f.handler, "POST", "/api/system/backup", "")
	require.Equal(t, http.StatusCreated, w.Code)
	var created BackupResponse
	decodeData(t, w, &created)
	require.NotNil(t, created.Local)
	assert.True(t, strings.HasPrefix(created.Local.Filename, "alpha-backup-"))
	assert.NotEmpty(t, created.Local.Checksum)
	assert.Nil(t, created.Remote)

	w = do(f.handler, "GET", "/api/system/backups", "")
	require.Equal(t, http.StatusOK, w.Code)
	var list BackupListResponse
	decodeData(t, w, &list)
	require.Len(t, list.Local, 1)
	assert.Equal(t, created.Local.Filename, list.Local[0].Filename)
}

func TestSystemConnectivity(t *testing.T) {
	f := newFixture(t, true)

	w := do(f.handler, "GET", "/api/system/connectivity", "")
	require.Equal(t, http.StatusOK, w.Code)
	var report pricing.ConnectivityReport
	decodeData(t, w, &report)
	assert.True(t, report.Equity.Available)
	assert.False(t, report.Crypto.Available)
	assert.Equal(t, "exchange down", report.Crypto.Error)
}

func TestSystemExport(t *testing.T) {
	f := newFixture(t, true)
	for _, e := range testingpkg.NewExpenseFixtures() {
		_, err := f.ledger.AddExpense(context.Background(), e)
		require.NoError(t, err)
	}

	w := do(f.handler, "GET", "/api/system/export", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, xlsxContentType, w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "alpha-export-")

	book, err := excelize.OpenReader(w.Body)
	require.NoError(t, err)
	defer book.Close()
	rows, err := book.GetRows(reports.SheetExpenses)
	require.NoError(t, err)
	assert.Len(t, rows, 1+len(testingpkg.NewExpenseFixtures()))

	assert.Equal(t, http.StatusBadRequest, do(f.handler, "GET", "/api/system/export?live=maybe", "").Code)
}

func TestSystemHandlers_NotConfigured(t *testing.T) {
	log := zerolog.New(nil).Level(zerolog.Disabled)
	h := New(Config{Log: log, DevMode: true, System: NewSystemHandlers(SystemDeps{}, log)}).Handler()

	assert.Equal(t, http.StatusServiceUnavailable, do(h, "POST", "/api/system/backup", "").Code)
	assert.Equal(t, http.StatusServiceUnavailable, do(h, "GET", "/api/system/backups", "").Code)
	assert.Equal(t, http.StatusServiceUnavailable, do(h, "GET", "/api/system/connectivity", "").Code)
	assert.Equal(t, http.StatusServiceUnavailable, do(h, "GET", "/api/system/export", "").Code)
}

type deadlineRecorder struct {
	hadDeadline bool
}

func (d *deadlineRecorder) RegisterRoutes(r chi.Router) {
	r.Get("/live", func(w http.ResponseWriter, r *http.Request) {
		_, d.hadDeadline = r.Context().Deadline()
		w.WriteHeader(http.StatusNoContent)
	})
}

func TestRequestsHaveNoDeadline(t *testing.T) {
	rec := &deadlineRecorder{}
	h := New(Config{Log: zerolog.Nop(), DevMode: true, Modules: []RouteRegistrar{rec}}).Handler()

	w := do(h, "GET", "/api/live", "")
	require.Equal(t, http.StatusNoContent, w.Code)
	assert.False(t, rec.hadDeadline, "live routes enrich every position without a cutoff")
}
