package server

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"time"

	"github.com/goliatone/go-ekonde/components/districts"
	"github.com/goliatone/go-ekonde/internal/logging"
	"github.com/goliatone/go-ekonde/internal/metrics"
	"github.com/goliatone/go-ekonde/pkg/auth"
	"github.com/goliatone/go-ekonde/pkg/catalog"
	"github.com/goliatone/go-ekonde/pkg/registry"
	"github.com/goliatone/go-ekonde/pkg/render"
	"github.com/goliatone/go-ekonde/pkg/session"
	"github.com/goliatone/go-ekonde/pkg/theme"
)

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the request and event logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithMetrics enables Prometheus recording and the /metrics route.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Server) {
		s.metrics = m
	}
}

// WithAuth sets the authentication collaborator.
func WithAuth(svc auth.Service) Option {
	return func(s *Server) {
		if svc != nil {
			s.auth = svc
		}
	}
}

// WithSessions sets the visitor session manager.
func WithSessions(m *session.Manager) Option {
	return func(s *Server) {
		if m != nil {
			s.sessions = m
		}
	}
}

// WithCatalog sets the static catalog behind the home page, the wizard and
// the registry lookups.
func WithCatalog(c *catalog.Catalog) Option {
	return func(s *Server) {
		if c != nil {
			s.catalog = c
		}
	}
}

// WithRenderers replaces the page renderer registry.
func WithRenderers(reg *render.Registry) Option {
	return func(s *Server) {
		if reg != nil {
			s.renderers = reg
		}
	}
}

// WithTheme selects the brand theme passed to templates.
func WithTheme(ctx theme.Context) Option {
	return func(s *Server) {
		s.theme = ctx
	}
}

// WithDistricts mounts the district search component.
func WithDistricts(c *districts.Component) Option {
	return func(s *Server) {
		if c != nil {
			s.districts = c
		}
	}
}

// WithAssets serves fsys under /assets/.
func WithAssets(fsys fs.FS) Option {
	return func(s *Server) {
		s.assets = fsys
	}
}

// Server is the eKonde web front-end: HTML pages, the JSON API and the
// operational endpoints.
type Server struct {
	logger    *slog.Logger
	metrics   *metrics.Metrics
	auth      auth.Service
	sessions  *session.Manager
	catalog   *catalog.Catalog
	registry  *registry.Registry
	renderers *render.Registry
	theme     theme.Context
	districts *districts.Component
	assets    fs.FS
	api       *apiValidator

	handler http.Handler
}

// New wires a server. Collaborators left unset get in-memory defaults so a
// zero-option server is usable in tests.
func New(opts ...Option) (*Server, error) {
	s := &Server{logger: logging.Discard()}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	if s.catalog == nil {
		c, err := catalog.Default()
		if err != nil {
			return nil, err
		}
		s.catalog = c
	}
	if s.auth == nil {
		s.auth = auth.NewMemory()
	}
	if s.sessions == nil {
		s.sessions = session.NewManager(session.WithSessionOptions(session.WithCatalog(s.catalog)))
	}
	if s.districts == nil {
		c, err := districts.New()
		if err != nil {
			return nil, fmt.Errorf("server: districts: %w", err)
		}
		s.districts = c
	}
	if s.renderers == nil {
		reg, err := defaultRenderers(s.theme)
		if err != nil {
			return nil, err
		}
		s.renderers = reg
	}
	s.registry = registry.New(s.catalog)

	api, err := newAPIValidator()
	if err != nil {
		return nil, err
	}
	s.api = api

	s.handler = s.routes()
	return s, nil
}

func defaultRenderers(th theme.Context) (*render.Registry, error) {
	html, err := render.NewHTML(render.WithGlobals(map[string]any{"theme": th}))
	if err != nil {
		return nil, fmt.Errorf("server: html renderer: %w", err)
	}
	reg := render.NewRegistry()
	if err := reg.Register(html); err != nil {
		return nil, err
	}
	if err := reg.Register(render.JSONRenderer{}); err != nil {
		return nil, err
	}
	return reg, nil
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}

func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /{$}", s.handleHome)
	mux.HandleFunc("GET /login", s.handleLoginPage)
	mux.HandleFunc("POST /login", s.handleLogin)
	mux.HandleFunc("POST /logout", s.handleLogout)
	mux.HandleFunc("GET /dashboard", s.handleDashboard)
	mux.HandleFunc("GET /track", s.handleTrack)
	mux.HandleFunc("GET /verify", s.handleVerify)

	mux.HandleFunc("GET /apply", s.handleApply)
	mux.HandleFunc("POST /apply/field", s.handleApplyField)
	mux.HandleFunc("POST /apply/next", s.handleApplyNext)
	mux.HandleFunc("POST /apply/back", s.handleApplyBack)
	mux.HandleFunc("POST /apply/submit", s.handleApplySubmit)
	mux.HandleFunc("POST /apply/restart", s.handleApplyRestart)
	mux.HandleFunc("POST /apply/location/device", s.handleLocationDevice)
	mux.HandleFunc("POST /apply/location/manual", s.handleLocationManual)

	s.registerAPI(mux)
	if _, err := s.districts.RegisterRoutes(mux, "/"); err != nil {
		s.logger.Error("register districts", slog.Any("error", err))
	}

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok\n"))
	})
	if s.metrics != nil {
		mux.Handle("GET /metrics", s.metrics.Handler())
	}
	if s.assets != nil {
		mux.Handle("GET /assets/", http.StripPrefix("/assets/", http.FileServerFS(s.assets)))
	}
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		s.writeError(w, r, StatusError{Code: http.StatusNotFound})
	})

	return s.observe(mux)
}

// ListenAndServe runs the server on addr until ctx is cancelled, then shuts
// down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string, readTimeout, writeTimeout time.Duration) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadTimeout:       readTimeout,
		ReadHeaderTimeout: readTimeout,
		WriteTimeout:      writeTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", slog.String("addr", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server: listen: %w", err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server: shutdown: %w", err)
		}
		return nil
	}
}
