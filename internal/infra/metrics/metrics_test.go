package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_ObserveRequest(t *testing.T) {
	m := NewWithNamespace("storefront")

	m.ObserveRequest(http.MethodGet, "/api/servicios/:id", http.StatusOK, 15*time.Millisecond)
	m.ObserveRequest(http.MethodGet, "/api/servicios/:id", http.StatusOK, 5*time.Millisecond)
	m.ObserveRequest(http.MethodGet, "", http.StatusNotFound, time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues("GET", "/api/servicios/:id", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues("GET", "unmatched", "404")))
}

func TestMetrics_RecordAuth(t *testing.T) {
	m := NewWithNamespace("storefront")

	m.RecordAuth("login", true)
	m.RecordAuth("login", false)
	m.RecordAuth("login", false)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.AuthAttemptsTotal.WithLabelValues("login", OutcomeSuccess)))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.AuthAttemptsTotal.WithLabelValues("login", OutcomeFailure)))
}

func TestMetrics_HandlerExposesNamespace(t *testing.T) {
	m := NewWithNamespace("storefront")
	m.RateLimitRejectedTotal.Inc()

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "storefront_rate_limit_rejected_total 1")
}

func TestNamespaceFor(t *testing.T) {
	assert.Equal(t, "tech_solutions", namespaceFor("Tech-Solutions"))
	assert.Equal(t, "storefront", namespaceFor(""))
}
