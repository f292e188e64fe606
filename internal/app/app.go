// Package app wires configuration, logging, services, and HTTP routing
// into a runnable server.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/jackc/pgx/v5/pgxpool"

	"bizval/internal/config"
	"bizval/internal/dataprocessing"
	"bizval/internal/extraction"
	"bizval/internal/infrastructure"
	customMiddleware "bizval/internal/middleware"
	"bizval/internal/reports"
	"bizval/internal/services"
	"bizval/internal/store"
	"bizval/internal/swot"
	transport "bizval/internal/transport/http"
	"bizval/internal/valuation"
	"bizval/pkg/contracts"
)

// Version is the application version, overridable at build time.
var Version = contracts.Version

// Application holds the wired components of the server.
type Application struct {
	Config *config.Config
	Logger *slog.Logger
	Router chi.Router
	Server *http.Server

	DBPool *pgxpool.Pool
	Users  store.UserRepository

	analysisService *services.AnalysisService
}

// NewApplication loads configuration and wires all components.
func NewApplication() (*Application, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	a := &Application{
		Config: cfg,
		Logger: logger,
	}

	if err := a.initializeServices(); err != nil {
		return nil, err
	}

	a.setupRouter()
	a.createServer()
	return a, nil
}

func (a *Application) initializeServices() error {
	parser := dataprocessing.NewParser(a.Logger)
	extractor := extraction.NewExtractor(a.Logger)
	engine := valuation.NewEngine(a.Logger)

	var generator swot.Generator
	if a.Config.AIEnabled() {
		generator = swot.NewClaudeGenerator(a.Config.AI.APIKey, a.Config.AI.Model, a.Logger)
		a.Logger.Info("AI analysis enabled", slog.String("model", a.Config.AI.Model))
	} else {
		a.Logger.Info("AI analysis disabled, using rule-based SWOT only")
	}
	analyzer := swot.NewAnalyzer(generator, a.Config.AI.Timeout, a.Logger)

	a.analysisService = services.NewAnalysisService(parser, extractor, engine, analyzer, a.Logger)

	if a.Config.DatabaseEnabled() {
		ctx, cancel := context.WithTimeout(context.Background(), a.Config.Database.ConnectTimeout)
		defer cancel()

		pool, err := store.NewPool(ctx, a.Config.Database)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		a.DBPool = pool
		a.Users = store.NewPostgresUserRepository(pool, a.Logger)
		a.Logger.Info("database connected")
	} else {
		a.Users = store.NewMemoryUserRepository()
		a.Logger.Info("no database configured, using in-memory user store")
	}

	return nil
}

func (a *Application) setupRouter() {
	r := chi.NewRouter()

	r.Use(customMiddleware.RequestID)
	r.Use(customMiddleware.RealIP)

	metrics := customMiddleware.NewMetrics()
	r.Handle("/metrics", metrics.Endpoint())

	r.Group(func(r chi.Router) {
		r.Use(metrics.Handler)
		r.Use(customMiddleware.StructuredLogger(a.Logger))
		r.Use(customMiddleware.Recoverer(a.Logger))
		r.Use(customMiddleware.SecurityHeaders)
		r.Use(customMiddleware.Compress(5))

		if a.Config.Security.EnableCORS {
			r.Use(customMiddleware.CORS(customMiddleware.CORSConfig{
				AllowedOrigins: a.Config.Security.AllowedOrigins,
				ExposedHeaders: []string{"X-Request-ID", "Content-Disposition"},
				Logger:         a.Logger,
			}))
		}

		if a.Config.Security.RateLimit.Enabled {
			r.Use(customMiddleware.NewRateLimiter(
				a.Config.Security.RateLimit.RPS,
				a.Config.Security.RateLimit.Burst,
				a.Logger,
			).Handler)
		}

		renderer := reports.NewRenderer(a.Logger)
		analysisHandler := transport.NewAnalysisHandler(a.analysisService, renderer, a.Config.Upload, a.Logger)
		healthHandler := transport.NewHealthHandler(Version, a.Config.AIEnabled(), a.Config.DatabaseEnabled(), a.Logger)

		r.Route("/api", func(api chi.Router) {
			api.Use(render.SetContentType(render.ContentTypeJSON))
			api.Get("/health", healthHandler.HealthCheck)
			api.Post("/extract", analysisHandler.Extract)
			api.Post("/valuation", analysisHandler.Valuation)
			api.Post("/swot", analysisHandler.Swot)
			api.Post("/analyze", analysisHandler.Analyze)
			api.Post("/report", analysisHandler.Report)
		})
	})

	a.Router = r
}

func (a *Application) createServer() {
	a.Server = &http.Server{
		Addr:         fmt.Sprintf(":%d", a.Config.Server.Port),
		Handler:      a.Router,
		ReadTimeout:  a.Config.Server.ReadTimeout,
		WriteTimeout: a.Config.Server.WriteTimeout,
		IdleTimeout:  a.Config.Server.IdleTimeout,
	}
}

// Start begins serving. It returns once the listener goroutine is running.
func (a *Application) Start(ctx context.Context, cancel context.CancelFunc) error {
	a.Logger.InfoContext(ctx, "starting server",
		slog.String("version", Version),
		slog.Int("port", a.Config.Server.Port),
		slog.String("level", a.Config.Logging.Level))

	go func() {
		if err := a.Server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			a.Logger.ErrorContext(ctx, "server error", slog.String("error", err.Error()))
			cancel()
		}
	}()

	return nil
}

// Stop gracefully shuts the server down.
func (a *Application) Stop(ctx context.Context) error {
	a.Logger.InfoContext(ctx, "shutting down")

	shutdownCtx, cancel := context.WithTimeout(ctx, a.Config.Server.ShutdownTimeout)
	defer cancel()

	if err := a.Server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown error: %w", err)
	}

	if a.DBPool != nil {
		a.DBPool.Close()
	}
	if err := infrastructure.CloseLogFile(); err != nil {
		a.Logger.Warn("failed to close log file", slog.String("error", err.Error()))
	}

	a.Logger.InfoContext(ctx, "shutdown complete")
	return nil
}

// Run serves until interrupted, then shuts down gracefully.
func (a *Application) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	if err := a.Start(ctx, cancel); err != nil {
		return err
	}

	select {
	case sig := <-sigChan:
		a.Logger.InfoContext(ctx, "received signal", slog.String("signal", sig.String()))
	case <-ctx.Done():
	}

	stopCtx, stopCancel := context.WithTimeout(context.Background(), 35*time.Second)
	defer stopCancel()
	return a.Stop(stopCtx)
}
