package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/aristath/alpha/internal/pricing"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ pricing.FetchObserver = (*Metrics)(nil)

func TestObservePriceFetch(t *testing.T) {
	m := New()
	m.ObservePriceFetch(pricing.ProviderEquity, true)
	m.ObservePriceFetch(pricing.ProviderEquity, true)
	m.ObservePriceFetch(pricing.ProviderCrypto, false)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.priceFetches.WithLabelValues("equity", "success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.priceFetches.WithLabelValues("crypto", "error")))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.priceFetches.WithLabelValues("crypto", "success")))
}

func TestObserveJobRun(t *testing.T) {
	m := New()
	m.ObserveJobRun("price_refresh", true)
	m.ObserveJobRun("price_refresh", false)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.jobRuns.WithLabelValues("price_refresh", "success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.jobRuns.WithLabelValues("price_refresh", "error")))
}

func TestMiddleware_LabelsByRoutePattern(t *testing.T) {
	m := New()
	router := chi.NewRouter()
	router.Use(m.Middleware)
	router.Get("/api/items/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	router.Get("/ok", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})

	for _, path := range []string{"/api/items/1", "/api/items/2", "/ok"} {
		router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", path, nil))
	}

	assert.Equal(t, 2.0, testutil.ToFloat64(m.requests.WithLabelValues("GET", "/api/items/{id}", "404")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.requests.WithLabelValues("GET", "/ok", "200")))
}

func TestHandler_ExposesCounters(t *testing.T) {
	m := New()
	m.ObservePriceFetch(pricing.ProviderCrypto, true)

	w := httptest.NewRecorder()
	m.Handler().ServeHTTP(w, httptest.NewRequest("GET", "/metrics", nil))

	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.True(t, strings.Contains(body, `alpha_price_fetches_total{provider="crypto",result="success"} 1`))
	assert.Contains(t, body, "go_goroutines")
}
