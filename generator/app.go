package generator

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/exp/slog"

	"github.com/alovak/cardforge/internal/metrics"
	"github.com/alovak/cardforge/internal/middleware"
)

// App is the main application, it wires the generator service to an HTTP
// server and is responsible for starting and stopping it.
type App struct {
	srv      *http.Server
	wg       *sync.WaitGroup
	Addr     string
	logger   *slog.Logger
	config   *Config
	registry *prometheus.Registry
	service  *Service
}

func NewApp(logger *slog.Logger, config *Config) *App {
	logger = logger.With(slog.String("app", "cardforge"))

	if config == nil {
		config = DefaultConfig()
	}

	a := &App{
		wg:       &sync.WaitGroup{},
		logger:   logger,
		config:   config,
		registry: prometheus.NewRegistry(),
	}
	a.service = NewService(NewBatchStore(), config).WithLogger(logger)
	if config.MetricsEnabled {
		a.registry.MustRegister(collectors.NewGoCollector())
		a.service.WithMetrics(metrics.New(a.registry))
	}
	return a
}

// Router builds the full HTTP handler; Start serves it. Every router
// shares the app's service and metrics registry.
func (a *App) Router() (http.Handler, error) {
	if err := a.config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	router := chi.NewRouter()
	router.Use(chimw.RequestID)
	router.Use(middleware.NewStructuredLogger(a.logger))
	router.Use(chimw.Recoverer)

	if a.config.MetricsEnabled {
		router.Handle("/metrics", promhttp.HandlerFor(a.registry, promhttp.HandlerOpts{}))
	}

	api := NewAPI(a.service)
	api.AppendRoutes(router)

	router.Get("/-/live", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })

	return router, nil
}

func (a *App) Start() error {
	a.logger.Info("starting app...")

	router, err := a.Router()
	if err != nil {
		return err
	}

	l, err := net.Listen("tcp", a.config.HTTPAddr)
	if err != nil {
		return fmt.Errorf("listening tcp port: %w", err)
	}

	a.Addr = l.Addr().String()

	a.srv = &http.Server{
		Handler: router,
	}

	a.wg.Add(1)
	go func() {
		a.logger.Info("http server started", slog.String("addr", a.Addr))

		if err := a.srv.Serve(l); err != nil {
			if err != http.ErrServerClosed {
				a.logger.Error("starting http server", "err", err)
			}

			a.logger.Info("http server stopped")
		}

		a.wg.Done()
	}()

	return nil
}

func (a *App) Shutdown(ctx context.Context) {
	a.logger.Info("shutting down app...")

	if a.srv != nil {
		if err := a.srv.Shutdown(ctx); err != nil {
			a.logger.Error("shutting down http server", "err", err)
		}
	}

	a.wg.Wait()

	a.logger.Info("app stopped")
}
