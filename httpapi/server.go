// Package httpapi exposes the catalog over HTTP under /api/v1.
//
// Children are addressed through their parents' ids; a child whose parent
// does not match the path is reported as not found. Errors are returned as
// {"detail": "..."} with 404 for missing entities, 400 for duplicate titles
// and malformed bodies, and 422 for invalid fields.
package httpapi

import (
	"context"
	"errors"
	"net/http"

	"github.com/dailyyoga/menuhub/importer"
	"github.com/dailyyoga/menuhub/logger"
	"github.com/dailyyoga/menuhub/routine"
	"github.com/dailyyoga/menuhub/service"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-playground/validator/v10"
	jsoniter "github.com/json-iterator/go"
	"go.uber.org/zap"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Synchronizer runs the catalog import on demand
type Synchronizer interface {
	Run(ctx context.Context, force bool) (*importer.Result, error)
}

// HealthCheck reports the state of one dependency
type HealthCheck func(ctx context.Context) error

// Server serves the catalog API
type Server struct {
	cfg      *Config
	catalog  *service.Catalog
	sync     Synchronizer
	checks   map[string]HealthCheck
	validate *validator.Validate
	log      logger.Logger
	handler  http.Handler
}

// Option configures a Server
type Option func(*Server)

// WithSynchronizer enables GET /api/v1/synchronize
func WithSynchronizer(sync Synchronizer) Option {
	return func(s *Server) { s.sync = sync }
}

// WithHealthCheck adds a dependency to GET /api/v1/health
func WithHealthCheck(name string, check HealthCheck) Option {
	return func(s *Server) { s.checks[name] = check }
}

// New creates the server and its router
func New(cfg *Config, catalog *service.Catalog, log logger.Logger, opts ...Option) (*Server, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	cfg.MergeDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	s := &Server{
		cfg:      cfg,
		catalog:  catalog,
		checks:   make(map[string]HealthCheck),
		validate: newValidator(),
		log:      log.Named("http"),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.handler = s.routes()
	return s, nil
}

// Handler returns the router
func (s *Server) Handler() http.Handler {
	return s.handler
}

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(accessLog(s.log))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   s.cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		s.writeJSON(w, http.StatusNotFound, errorOut{Detail: "Not Found"})
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		s.writeJSON(w, http.StatusMethodNotAllowed, errorOut{Detail: "Method Not Allowed"})
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", s.health)
		r.Get("/synchronize", s.synchronize)
		r.Get("/menus-full-list", s.fullList)

		r.Route("/menus", func(r chi.Router) {
			r.Get("/", s.listMenus)
			r.Post("/", s.createMenu)

			r.Route("/{menu_id}", func(r chi.Router) {
				r.Get("/", s.getMenu)
				r.Patch("/", s.updateMenu)
				r.Delete("/", s.deleteMenu)

				r.Route("/submenus", func(r chi.Router) {
					r.Get("/", s.listSubmenus)
					r.Post("/", s.createSubmenu)

					r.Route("/{submenu_id}", func(r chi.Router) {
						r.Get("/", s.getSubmenu)
						r.Patch("/", s.updateSubmenu)
						r.Delete("/", s.deleteSubmenu)

						r.Route("/dishes", func(r chi.Router) {
							r.Get("/", s.listDishes)
							r.Post("/", s.createDish)
							r.Get("/{dish_id}", s.getDish)
							r.Patch("/{dish_id}", s.updateDish)
							r.Delete("/{dish_id}", s.deleteDish)
						})
					})
				})
			})
		})
	})
	return r
}

// Serve listens until ctx is done, then shuts down gracefully
func (s *Server) Serve(ctx context.Context) error {
	srv := &http.Server{
		Addr:         s.cfg.Addr,
		Handler:      s.handler,
		ReadTimeout:  s.cfg.ReadTimeout,
		WriteTimeout: s.cfg.WriteTimeout,
	}

	errCh := routine.Async(s.log, "http-listener", srv.ListenAndServe)
	s.log.Info("http server listening", zap.String("addr", s.cfg.Addr))

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return ErrServe(err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return ErrServe(err)
	}
	s.log.Info("http server stopped")
	return nil
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log.Warn("response encode failed", zap.Error(err))
	}
}
