package metrics

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var requestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "patrimony_http_requests_total",
		Help: "Count of HTTP requests by method and route.",
	},
	[]string{"method", "route"},
)

// ObserveRequest increments the request counter for a handled route.
func ObserveRequest(method, route string) {
	requestsTotal.WithLabelValues(method, route).Inc()
}

// RequestMiddleware counts every handled request, labelled by the route
// template so path parameters do not explode the label set.
func RequestMiddleware() mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			route := r.URL.Path
			if current := mux.CurrentRoute(r); current != nil {
				if tpl, err := current.GetPathTemplate(); err == nil {
					route = tpl
				}
			}
			ObserveRequest(r.Method, route)
			next.ServeHTTP(w, r)
		})
	}
}

type PrometheusController struct {
	path string
}

func NewPrometheusController(path string) *PrometheusController {
	return &PrometheusController{path: path}
}

func (c *PrometheusController) Key() string {
	return c.path
}

func (c *PrometheusController) Register(r *mux.Router) {
	r.Handle(c.path, promhttp.Handler())
}
