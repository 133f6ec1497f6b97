package mockofbiz

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/time/rate"

	"github.com/selzcore/mock-ofbiz/internal/config"
	"github.com/selzcore/mock-ofbiz/internal/http/middlewarectx"
	"github.com/selzcore/mock-ofbiz/internal/services/directory"
	"github.com/selzcore/mock-ofbiz/internal/storage/memory"
)

const shutdownTimeout = 15 * time.Second

// App владеет реестром пользователей и HTTP-серверами одного экземпляра заглушки.
// Несколько App в одном процессе не разделяют состояние.
type App struct {
	server   *http.Server
	admin    *http.Server
	logger   *slog.Logger
	registry *memory.Registry
}

// New собирает приложение: загружает пользователей из seed-файла, создаёт сервис,
// метрики, ограничитель частоты и маршрутизатор. Служебный сервер создаётся,
// только если задан admin_server.address.
func New(cfg *config.Config, logger *slog.Logger) (*App, error) {
	registry, err := memory.NewSeeded(cfg.SeedFile)
	if err != nil {
		return nil, err
	}
	service := directory.NewService(registry)

	promRegistry := prometheus.NewRegistry()
	promRegistry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics := middlewarectx.NewMetrics(promRegistry, registry.Len)

	var limiter *rate.Limiter
	if cfg.RPS > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.RPS), cfg.Burst)
	}

	router := chi.NewRouter()
	RegisterRoutes(router, logger, service, metrics, limiter)

	app := &App{
		server: &http.Server{
			Addr:         cfg.AddressHTTP,
			Handler:      router,
			ReadTimeout:  cfg.TimeoutHTTP,
			WriteTimeout: cfg.TimeoutHTTP,
			IdleTimeout:  cfg.IdleTimeout,
		},
		logger:   logger,
		registry: registry,
	}

	if cfg.AddressAdmin != "" {
		adminRouter := chi.NewRouter()
		RegisterAdminRoutes(adminRouter, promRegistry)
		app.admin = &http.Server{
			Addr:         cfg.AddressAdmin,
			Handler:      adminRouter,
			ReadTimeout:  cfg.TimeoutHTTP,
			WriteTimeout: cfg.TimeoutHTTP,
			IdleTimeout:  cfg.IdleTimeout,
		}
	}

	return app, nil
}

// Handler возвращает обработчик основного API.
func (a *App) Handler() http.Handler {
	return a.server.Handler
}

// Run запускает серверы и блокируется до отмены ctx или ошибки одного из серверов.
// После отмены ctx серверы останавливаются, реестр не сохраняется.
func (a *App) Run(ctx context.Context) error {
	servers := []*http.Server{a.server}
	if a.admin != nil {
		servers = append(servers, a.admin)
	}

	listeners := make([]net.Listener, 0, len(servers))
	for _, srv := range servers {
		ln, err := net.Listen("tcp", srv.Addr)
		if err != nil {
			for _, l := range listeners {
				_ = l.Close()
			}
			return err
		}
		listeners = append(listeners, ln)
	}

	a.logBanner(listeners)

	errCh := make(chan error, len(servers))
	for i, srv := range servers {
		go func(srv *http.Server, ln net.Listener) {
			err := srv.Serve(ln)
			if errors.Is(err, http.ErrServerClosed) {
				errCh <- nil
			} else {
				errCh <- err
			}
		}(srv, listeners[i])
	}

	var runErr error
	select {
	case runErr = <-errCh:
	case <-ctx.Done():
	}

	timeoutCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	a.logger.Info("shutting down HTTP server gracefully")
	for _, srv := range servers {
		if err := srv.Shutdown(timeoutCtx); err != nil && runErr == nil {
			runErr = err
		}
	}
	return runErr
}

func (a *App) logBanner(listeners []net.Listener) {
	a.logger.Info("mock OFBiz REST API listening", slog.String("address", listeners[0].Addr().String()))
	if len(listeners) > 1 {
		a.logger.Info("admin server listening",
			slog.String("address", listeners[1].Addr().String()),
			slog.String("metrics", "/metrics"),
			slog.String("docs", "/docs/index.html"),
		)
	}

	users, err := a.registry.ListUsers(context.Background())
	if err != nil {
		return
	}
	for _, u := range users {
		a.logger.Info("seeded user",
			slog.String("user_login_id", u.UserLoginID),
			slog.String("email", u.Email),
			slog.String("tenant_id", u.TenantID),
			slog.Bool("enabled", u.Enabled),
		)
	}
	a.logger.Info("endpoints",
		slog.Any("routes", []string{
			"GET /health", "GET /rest/health",
			"GET /users", "GET /rest/users",
			"POST /rest/auth/token (Basic Auth)",
			"POST /rest/services/getUserInfo",
			"POST /rest/services/createUser",
			"POST /rest/services/createPartyGroup",
		}),
	)
}
