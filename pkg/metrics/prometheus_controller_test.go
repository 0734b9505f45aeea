package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestRequestMiddleware_CountsByRouteTemplate(t *testing.T) {
	router := mux.NewRouter()
	router.Use(RequestMiddleware())
	router.HandleFunc("/api/forestry/nodes/{level}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}).Methods(http.MethodGet)

	counter := requestsTotal.WithLabelValues(http.MethodGet, "/api/forestry/nodes/{level}")
	before := testutil.ToFloat64(counter)

	for i := 0; i < 2; i++ {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/forestry/nodes/3", nil))
		require.Equal(t, http.StatusOK, rec.Code)
	}

	require.InDelta(t, before+2, testutil.ToFloat64(counter), 1e-9)
}

func TestPrometheusController_ServesRegistry(t *testing.T) {
	router := mux.NewRouter()
	NewPrometheusController("/metrics").Register(router)

	ObserveRequest(http.MethodGet, "/api/forestry/nodes/{level}")

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "patrimony_http_requests_total")
}
