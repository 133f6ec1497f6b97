// Package mockofbiz собирает приложение заглушки OFBiz: маршруты, реестр, сервис и HTTP-серверы.
package mockofbiz

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"
	"golang.org/x/time/rate"

	_ "github.com/selzcore/mock-ofbiz/docs"
	"github.com/selzcore/mock-ofbiz/internal/http/handlers/auth/token"
	"github.com/selzcore/mock-ofbiz/internal/http/handlers/health"
	"github.com/selzcore/mock-ofbiz/internal/http/handlers/notfound"
	"github.com/selzcore/mock-ofbiz/internal/http/handlers/services/createpartygroup"
	"github.com/selzcore/mock-ofbiz/internal/http/handlers/services/createuser"
	"github.com/selzcore/mock-ofbiz/internal/http/handlers/services/userinfo"
	"github.com/selzcore/mock-ofbiz/internal/http/handlers/users/list"
	"github.com/selzcore/mock-ofbiz/internal/http/middlewarectx"
	"github.com/selzcore/mock-ofbiz/internal/services/directory"
)

// RegisterRoutes регистрирует маршруты основного JSON API.
// limiter может быть nil, тогда ограничение частоты не применяется.
func RegisterRoutes(r chi.Router, logger *slog.Logger, service *directory.Service, metrics *middlewarectx.Metrics, limiter *rate.Limiter) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middlewarectx.RequestLogger(logger),
		metrics.Middleware,
		middlewarectx.CORS,
		middlewarectx.Recoverer(logger),
	)
	if limiter != nil {
		r.Use(middlewarectx.RateLimitMiddleware(logger, limiter))
	}

	notFound := notfound.New(logger)
	r.NotFound(notFound.ServeHTTP)
	r.MethodNotAllowed(notFound.ServeHTTP)

	healthHandler := health.New(logger)
	r.Get("/health", healthHandler.ServeHTTP)
	r.Get("/rest/health", healthHandler.ServeHTTP)

	listHandler := list.New(logger, service)
	r.Get("/users", listHandler.ServeHTTP)
	r.Get("/rest/users", listHandler.ServeHTTP)

	r.Post("/rest/auth/token", token.New(logger, service).ServeHTTP)

	r.Post("/rest/services/getUserInfo", userinfo.New(logger, service).ServeHTTP)
	r.Post("/rest/services/createUser", createuser.New(logger, service).ServeHTTP)
	r.Post("/rest/services/createPartyGroup", createpartygroup.New(logger, service).ServeHTTP)
}

// RegisterAdminRoutes регистрирует служебные маршруты: метрики Prometheus и Swagger UI.
func RegisterAdminRoutes(r chi.Router, gatherer prometheus.Gatherer) {
	r.Use(
		middleware.RequestID,
		middleware.Recoverer,
	)

	r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.Handler(httpSwagger.URL("/docs/doc.json")))
}
