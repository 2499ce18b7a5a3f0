package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"golang.org/x/sync/errgroup"

	"safetypulse/internal/config"
	apierrors "safetypulse/internal/errors"
	"safetypulse/internal/exporter"
	"safetypulse/internal/infrastructure"
	"safetypulse/internal/ingestion"
	customMiddleware "safetypulse/internal/middleware"
	"safetypulse/internal/services"
	handlers "safetypulse/internal/transport/http"
	ws "safetypulse/internal/websocket"
	"safetypulse/pkg/contracts"
)

// AppName is the display name used in startup logs
const AppName = "SafetyPulse - Inspection Dashboard"

// Application represents the main application container
type Application struct {
	Config        *config.Config
	Router        *chi.Mux
	Server        *http.Server
	Logger        *slog.Logger
	OTelProviders *infrastructure.OTelProviders
	Paths         *config.Paths
	Hub           *ws.Hub
	Snapshots     *services.SnapshotService
	Refresher     *services.Refresher
	DataService   *services.DataService
	HealthService *services.HealthService
	Exporter      *exporter.Exporter
	ErrorHandler  *apierrors.ErrorHandler

	loader     services.Loader
	httpClient *http.Client
}

// Option customizes an Application before its services are built
type Option func(*Application)

// WithLoader replaces the configured spreadsheet source
func WithLoader(loader services.Loader) Option {
	return func(a *Application) { a.loader = loader }
}

// WithHTTPClient sets the client used by the gviz source
func WithHTTPClient(client *http.Client) Option {
	return func(a *Application) { a.httpClient = client }
}

// New loads configuration and logging, then builds the application
func New(opts ...Option) (*Application, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	return NewApplication(cfg, logger, opts...)
}

// NewApplication creates a new application instance with dependency injection
func NewApplication(cfg *config.Config, logger *slog.Logger, opts ...Option) (*Application, error) {
	if logger == nil {
		logger = infrastructure.GetLogger()
	}

	logger.Info("Application starting",
		slog.String("name", AppName),
		slog.String("version", contracts.Version),
		slog.String("source", cfg.Source.Kind),
		slog.String("sheet", cfg.Source.SheetName))

	app := &Application{
		Config: cfg,
		Logger: logger,
		Paths:  cfg.GetPaths(),
	}
	for _, opt := range opts {
		opt(app)
	}

	if err := app.Paths.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("failed to ensure directories: %w", err)
	}

	otelProviders, err := infrastructure.InitializeOTel(infrastructure.OTelConfigFrom(cfg.Telemetry), logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize OpenTelemetry: %w", err)
	}
	app.OTelProviders = otelProviders

	if err := app.initializeServices(); err != nil {
		return nil, fmt.Errorf("failed to initialize services: %w", err)
	}

	if err := app.setupRouter(); err != nil {
		return nil, fmt.Errorf("failed to set up router: %w", err)
	}
	app.createServer()

	return app, nil
}

// initializeServices wires ingestion, the snapshot and the live-update hub
func (a *Application) initializeServices() error {
	if a.loader == nil {
		ingester, err := ingestion.NewIngesterFromConfig(context.Background(), a.Config.Source, a.httpClient, a.Logger)
		if err != nil {
			return fmt.Errorf("failed to create ingester: %w", err)
		}
		a.loader = ingester
	}

	fetchMetrics, err := infrastructure.NewFetchMetrics(a.OTelProviders.Meter)
	if err != nil {
		return fmt.Errorf("failed to create fetch metrics: %w", err)
	}

	wsMetrics, err := ws.NewMetrics(a.OTelProviders.Meter)
	if err != nil {
		return fmt.Errorf("failed to create websocket metrics: %w", err)
	}

	a.Snapshots = services.NewSnapshotService(a.loader, services.RetryPolicyFrom(a.Config.Refresh), fetchMetrics, a.Logger)

	a.Hub = ws.NewHub(a.Config.WebSocket, wsMetrics, a.Logger)
	a.Hub.SetStatusProvider(a.Snapshots.Status)
	a.Snapshots.OnUpdate(a.Hub.OnSnapshot)

	a.Refresher = services.NewRefresher(a.Snapshots, a.Config.Refresh.Interval, a.Logger)
	a.Exporter = exporter.New(a.Paths, a.Logger)
	a.DataService = services.NewDataService(a.Snapshots, a.Logger)
	a.HealthService = services.NewHealthService(a.Snapshots, a.Hub, a.Paths, a.Logger)
	a.ErrorHandler = apierrors.NewErrorHandler(a.Logger, a.Config.Telemetry.Environment == "development")

	a.Logger.Info("Services initialized", slog.String("loader", a.loader.SourceName()))
	return nil
}

// setupRouter configures the HTTP router. The websocket endpoint sits outside
// the main group so the timeout and rate limiter never see the upgrade.
func (a *Application) setupRouter() error {
	r := chi.NewRouter()

	r.Use(customMiddleware.RequestID)
	r.Use(customMiddleware.RealIP)

	wsHandler := ws.NewHandler(a.Hub, a.Config.WebSocket, a.Config.Security.AllowedOrigins, a.Logger)
	r.Handle("/ws", wsHandler)

	if a.OTelProviders.PrometheusHTTP != nil {
		r.Handle("/metrics", a.OTelProviders.PrometheusHTTP)
	}

	otelMiddleware, err := customMiddleware.NewOTelMiddleware(a.OTelProviders)
	if err != nil {
		return err
	}

	r.Group(func(r chi.Router) {
		r.Use(otelMiddleware.Handler)
		r.Use(customMiddleware.StructuredLogger(a.Logger))
		r.Use(apierrors.RecoveryMiddleware(a.ErrorHandler))
		r.Use(customMiddleware.SecurityHeaders)

		if a.Config.Security.EnableCORS {
			r.Use(customMiddleware.CORS(a.getCORSConfig()))
		}

		if a.Config.Security.RateLimit.Enabled {
			r.Use(customMiddleware.NewRateLimiter(
				a.Config.Security.RateLimit.RPS,
				a.Config.Security.RateLimit.Burst,
				a.Logger,
			).Handler)
		}

		r.Use(customMiddleware.Timeout(a.Config.Server.RequestTimeout, a.Logger))

		a.setupAPIRoutes(r)
	})

	r.NotFound(a.ErrorHandler.NotFound)
	r.MethodNotAllowed(a.ErrorHandler.MethodNotAllowed)

	a.Router = r
	return nil
}

// setupAPIRoutes configures API endpoints
func (a *Application) setupAPIRoutes(r chi.Router) {
	r.Route("/api", func(r chi.Router) {
		r.Use(render.SetContentType(render.ContentTypeJSON))

		healthHandler := handlers.NewHealthHandler(a.HealthService, a.Logger)
		r.Mount("/health", healthHandler.Routes())
		r.Get("/version", healthHandler.Version)

		dataHandler := handlers.NewDataHandler(a.DataService, a.Snapshots, a.Exporter, a.Logger, a.ErrorHandler)
		r.Mount("/data", dataHandler.Routes())
	})
}

func (a *Application) getCORSConfig() customMiddleware.CORSConfig {
	return customMiddleware.CORSConfig{
		AllowedOrigins: a.Config.Security.AllowedOrigins,
		Logger:         a.Logger,
	}
}

// createServer creates the HTTP server
func (a *Application) createServer() {
	a.Server = &http.Server{
		Addr:           net.JoinHostPort("", strconv.Itoa(a.Config.Server.Port)),
		Handler:        a.Router,
		ReadTimeout:    a.Config.Server.ReadTimeout,
		WriteTimeout:   a.Config.Server.WriteTimeout,
		IdleTimeout:    a.Config.Server.IdleTimeout,
		MaxHeaderBytes: a.Config.Server.MaxHeaderBytes,
		ErrorLog:       slog.NewLogLogger(a.Logger.Handler(), slog.LevelWarn),
	}
}

// Run serves HTTP, performs the startup load and keeps the snapshot fresh
// until ctx is cancelled, then shuts everything down.
func (a *Application) Run(ctx context.Context) error {
	listener, err := net.Listen("tcp", a.Server.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", a.Server.Addr, err)
	}
	return a.Serve(ctx, listener)
}

// Serve is Run on an existing listener
func (a *Application) Serve(ctx context.Context, listener net.Listener) error {
	a.Hub.Start()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		a.Logger.Info("HTTP server listening", slog.String("addr", listener.Addr().String()))
		if err := a.Server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	if a.Config.Refresh.OnStartup {
		g.Go(func() error {
			// the viewer sees the failure through the status; the server keeps running
			if err := a.Snapshots.Load(gctx); err != nil && gctx.Err() == nil {
				a.Logger.Warn("Initial load failed", slog.String("error", err.Error()))
			}
			return nil
		})
	}

	if a.Config.Refresh.Interval > 0 {
		if err := a.Refresher.Start(); err != nil {
			a.Logger.Error("Failed to start background refresh", slog.String("error", err.Error()))
		}
	} else {
		a.Logger.Info("Background refresh disabled")
	}

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.Config.Server.ShutdownTimeout)
		defer cancel()
		return a.Stop(shutdownCtx)
	})

	return g.Wait()
}

// Stop gracefully stops the application
func (a *Application) Stop(ctx context.Context) error {
	a.Logger.Info("Shutting down application")

	var errs []error

	if a.Refresher != nil && a.Config.Refresh.Interval > 0 {
		if err := a.Refresher.Stop(ctx); err != nil {
			errs = append(errs, fmt.Errorf("refresher: %w", err))
		}
	}

	if a.Server != nil {
		if err := a.Server.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("server: %w", err))
		}
	}

	if a.Hub != nil {
		a.Hub.Stop()
	}

	if a.OTelProviders != nil {
		if err := a.OTelProviders.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("telemetry: %w", err))
		}
	}

	if err := errors.Join(errs...); err != nil {
		a.Logger.Error("Shutdown completed with errors", slog.String("error", err.Error()))
		return err
	}

	a.Logger.Info("Application stopped")
	return nil
}
