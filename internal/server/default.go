package server

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/silvacore/patrimony/pkg/application"
	"github.com/silvacore/patrimony/pkg/configuration"
	"github.com/silvacore/patrimony/pkg/constants"
	"github.com/silvacore/patrimony/pkg/httpapi"
	"github.com/silvacore/patrimony/pkg/metrics"
	"github.com/silvacore/patrimony/pkg/middleware"
	"github.com/silvacore/patrimony/pkg/server"
)

type DefaultOptions struct {
	Configuration *configuration.Configuration
	Application   application.Application
}

// Default assembles the HTTP server: shared middleware first, then the
// middleware each module registered, then every module controller.
func Default(options *DefaultOptions) (*server.HTTPServer, error) {
	app := options.Application
	conf := options.Configuration

	middlewares := []mux.MiddlewareFunc{
		middleware.WithLogger(app.Logger()),
		metrics.RequestMiddleware(),
		middleware.Provide(constants.AppKey, app),
		middleware.Provide(constants.PoolKey, app.DB()),
		middleware.Cors(conf.Origin),
		middleware.RequestParams(),
	}
	middlewares = append(middlewares, app.Middleware()...)

	controllers := app.Controllers()
	if conf.Prometheus.Enabled {
		controllers = append(controllers, metrics.NewPrometheusController(conf.Prometheus.Path))
	}

	return server.NewHTTPServer(controllers, middlewares, notFound(), methodNotAllowed()), nil
}

func notFound() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = httpapi.WriteJSON(w, http.StatusNotFound, &httpapi.Envelope{
			Success: false,
			Error:   "not found",
		})
	})
}

func methodNotAllowed() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = httpapi.WriteJSON(w, http.StatusMethodNotAllowed, &httpapi.Envelope{
			Success: false,
			Error:   "method not allowed",
		})
	})
}
