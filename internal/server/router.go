package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/Lixing-Zhang/api-versioning/internal/config"
	"github.com/Lixing-Zhang/api-versioning/internal/handlers"
	"github.com/Lixing-Zhang/api-versioning/internal/middleware"
	"github.com/Lixing-Zhang/api-versioning/internal/openapi"
	"github.com/Lixing-Zhang/api-versioning/internal/versioning"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Deps are the process-wide collaborators the router needs.
type Deps struct {
	Logger   *zap.Logger
	Registry *prometheus.Registry
	Version  string // build version reported by /health
}

// NewRouter wires middleware, the versioned order endpoint, docs, health
// and metrics for the strategy selected in cfg.
func NewRouter(ctx context.Context, cfg *config.Config, deps Deps) (http.Handler, error) {
	strategy, err := versioning.ParseStrategy(cfg.Versioning.Strategy)
	if err != nil {
		return nil, err
	}

	metrics := middleware.NewMetrics(deps.Registry)
	orderHandler := handlers.NewOrderHandler(metrics, deps.Logger)
	healthHandler := handlers.NewHealthHandler(deps.Version, deps.Logger)

	var reader versioning.Reader
	switch strategy {
	case versioning.StrategyHeader:
		reader = versioning.HeaderReader{Name: cfg.Versioning.HeaderName}
	case versioning.StrategyQuery:
		reader = versioning.QueryReader{Param: cfg.Versioning.QueryParam}
	case versioning.StrategyURL:
		reader = versioning.URLSegmentReader{Param: "version"}
	}

	orders, err := versioning.New(reader,
		versioning.WithDefaultVersion(cfg.Versioning.DefaultVersion),
		versioning.AssumeDefault(cfg.Versioning.AssumeDefault),
		versioning.ReportVersions(cfg.Versioning.ReportVersions),
	)
	if err != nil {
		return nil, fmt.Errorf("configure versioning: %w", err)
	}
	orders.HandleFunc("1", orderHandler.PostOrderV1)
	orders.HandleFunc("2", orderHandler.PostOrderV2)

	docs, err := openapi.NewRegistry(ctx, orders.Versions(), openapi.Options{
		Title:      "Order API",
		Strategy:   strategy,
		HeaderName: cfg.Versioning.HeaderName,
		QueryParam: cfg.Versioning.QueryParam,
	})
	if err != nil {
		return nil, fmt.Errorf("build openapi documents: %w", err)
	}

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logger(deps.Logger))
	r.Use(metrics.Handler)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(60 * time.Second))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORS.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "api_key", middleware.RequestIDHeader, cfg.Versioning.HeaderName},
		ExposedHeaders:   []string{versioning.SupportedVersionsHeader, middleware.RequestIDHeader},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Get("/health", healthHandler.ServeHTTP)
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{}))

	r.Get("/swagger", docs.ServeIndex)
	r.Get("/swagger/{version}/swagger.json", docs.ServeDocument)

	r.Group(func(r chi.Router) {
		r.Use(middleware.APIKeyAuth(cfg.Auth))

		if strategy == versioning.StrategyURL {
			r.Method(http.MethodPost, "/v{version}/orders", orders)
		} else {
			r.Method(http.MethodPost, "/orders", orders)
		}
	})

	deps.Logger.Info("api versioning configured",
		zap.String("strategy", string(strategy)),
		zap.String("default_version", cfg.Versioning.DefaultVersion),
		zap.Bool("assume_default", cfg.Versioning.AssumeDefault),
		zap.Int("documents", len(docs.Entries())),
	)

	return r, nil
}
