// Package api exposes the table access layer over HTTP: a JSON surface for
// browsing database files, inspecting schema, and row-level CRUD. Every
// request opens its own database handle and closes it when the handler
// returns; the server holds no connections between requests.
package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/sqlitedesk/sqlitedesk/config"
	"github.com/sqlitedesk/sqlitedesk/daos"
)

// Version is the build version reported by /health, injected with -ldflags.
var Version = "dev"

// Server ties the router, the configuration, and the database store
// together.
type Server struct {
	cfg   config.Config
	log   *slog.Logger
	store *daos.Store
}

// NewServer builds a server over an initialized store.
func NewServer(cfg config.Config, log *slog.Logger, store *daos.Store) *Server {
	if log == nil {
		log = slog.Default()
	}
	return &Server{cfg: cfg, log: log, store: store}
}

// Routes builds the full router with the middleware chain applied.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(s.requestIDMiddleware)
	r.Use(s.loggingMiddleware)
	r.Use(s.recoverMiddleware)
	r.Use(s.corsMiddleware)
	r.Use(s.timeoutMiddleware)
	r.Use(s.bodyLimitMiddleware)

	r.Get("/health", s.handleHealth)

	r.Route("/api/databases", func(r chi.Router) {
		r.Get("/", s.handleListDatabases)
		r.Post("/", s.handleCreateDatabase)
		r.Post("/upload", s.handleUploadDatabase)

		r.Route("/{db}", func(r chi.Router) {
			r.Delete("/", s.handleDeleteDatabase)

			r.Route("/tables", func(r chi.Router) {
				r.Get("/", s.handleListTables())
				r.Post("/", s.handleCreateTable())

				r.Route("/{table}", func(r chi.Router) {
					r.Get("/", s.handleDescribeTable())
					r.Delete("/", s.handleDropTable())
					r.Get("/insights", s.handleInsights())

					r.Route("/rows", func(r chi.Router) {
						r.Get("/", s.handleFetchRows())
						r.Post("/", s.handleInsertRow())
						r.Put("/{key}", s.handleUpdateRow())
						r.Delete("/{key}", s.handleDeleteRow())
					})
				})
			})
		})
	})

	return r
}

// Run serves until ctx is canceled, then drains in-flight requests for the
// configured shutdown timeout.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:    s.cfg.Server.Addr(),
		Handler: s.Routes(),
	}

	errc := make(chan error, 1)
	go func() {
		errc <- srv.ListenAndServe()
	}()

	s.log.Info("server listening", "addr", srv.Addr, "version", Version)

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	s.log.Info("server shutting down")

	drain := time.Duration(s.cfg.Server.ShutdownTimeout) * time.Second
	shutdownCtx, cancel := context.WithTimeout(context.Background(), drain)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
