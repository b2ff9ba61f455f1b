package api

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/snarg/atc-engine/internal/config"
	"github.com/snarg/atc-engine/internal/database"
	"github.com/snarg/atc-engine/internal/filter"
	"github.com/snarg/atc-engine/internal/metrics"
	"github.com/snarg/atc-engine/internal/normalize"
	"github.com/snarg/atc-engine/internal/process"
)

type Server struct {
	http *http.Server
	log  zerolog.Logger
}

// Deps are the wired components the server exposes. DB and Watcher may be
// nil when persistence or ingest are not configured.
type Deps struct {
	DB         *database.DB
	Pool       *process.Pool
	Watcher    WatcherSource
	Filter     *filter.Filter
	NormConfig normalize.Config
}

func NewServer(cfg *config.Config, deps Deps, version string, startTime time.Time, log zerolog.Logger) *Server {
	r := chi.NewRouter()

	// Global middleware
	r.Use(RequestID)
	r.Use(Recoverer)
	r.Use(Logger(log))
	r.Use(metrics.InstrumentHandler)

	// Unauthenticated: health and metrics
	health := NewHealthHandler(deps.DB, deps.Pool, deps.Watcher, version, startTime)
	r.Get("/api/v1/health", health.ServeHTTP)
	r.Handle("/metrics", promhttp.Handler())

	// Authenticated routes
	h := NewHandlers(deps.DB, deps.Pool, deps.Filter, deps.NormConfig)
	r.Group(func(r chi.Router) {
		r.Use(BearerAuth(cfg.AuthToken))
		r.Post("/api/v1/normalize", h.Normalize)
		r.Post("/api/v1/filter", h.Filter)
		r.Post("/api/v1/filter/stats", h.FilterStats)
		r.Get("/api/v1/stats", h.Stats)
		r.Get("/api/v1/segments/{video_id}", h.Segments)
	})

	return &Server{
		http: &http.Server{
			Addr:         cfg.HTTPAddr,
			Handler:      r,
			ReadTimeout:  cfg.ReadTimeout,
			WriteTimeout: cfg.WriteTimeout,
			IdleTimeout:  cfg.IdleTimeout,
		},
		log: log,
	}
}

func (s *Server) Start() error {
	s.log.Info().Str("addr", s.http.Addr).Msg("http server starting")
	err := s.http.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info().Msg("http server shutting down")
	return s.http.Shutdown(ctx)
}
