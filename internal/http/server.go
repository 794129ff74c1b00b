package http

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	applog "eatsplit/internal/log"
	"eatsplit/internal/metrics"
	"eatsplit/internal/middleware/ratelimit"
	"eatsplit/internal/middleware/security"
	"eatsplit/internal/middleware/trace"
	"eatsplit/internal/session"
	appweb "eatsplit/web"
)

// Options configures optional collaborators of the server.
type Options struct {
	Logger             *applog.Logger
	Metrics            *metrics.Collector // nil disables /metrics
	RateLimitPerMinute int
}

// Server serves the ledger UI. The session is single-threaded; every
// handler takes mu before touching it.
type Server struct {
	http.Server
	templates *template.Template
	logger    *applog.Logger
	metrics   *metrics.Collector
	limiter   *ratelimit.Limiter
	detector  *security.Detector

	mu      sync.Mutex
	session *session.Session

	started      time.Time
	shutdownOnce sync.Once
}

// NewServer configures routes and templates, returning a ready-to-run server.
func NewServer(addr string, sess *session.Session, opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = applog.Discard()
	}

	s := &Server{
		logger:   logger.WithComponent(applog.ComponentHTTP),
		metrics:  opts.Metrics,
		limiter:  ratelimit.NewLimiter(ratelimit.Config{RequestsPerMinute: opts.RateLimitPerMinute}),
		detector: security.NewDetector(),
		session:  sess,
		started:  time.Now(),
	}

	t, err := template.ParseFS(appweb.TemplatesFS, "templates/*.html")
	if err != nil {
		s.logger.Warn("Failed parsing templates", applog.FieldError, err)
	}
	s.templates = t

	s.Server = http.Server{
		Addr:              addr,
		Handler:           s.routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()

	var observer trace.RequestObserver
	if s.metrics != nil {
		observer = s.metrics
	}

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(trace.NewMiddleware(s.logger, s.detector.ClientIP, observer).Handler)
	r.Use(s.detector.Middleware(s.logger.WithComponent(applog.ComponentSecurity).Logger))
	r.Use(security.Headers(security.DefaultHeadersConfig()))
	r.Use(s.limiter.Middleware(s.detector.ClientIP, s.onRateLimited, http.MethodPost))

	if sub, err := fs.Sub(appweb.StaticFS, "static"); err == nil {
		static := http.StripPrefix("/static/", http.FileServer(http.FS(sub)))
		r.With(security.StaticAssetMiddleware(3600)).Handle("/static/*", static)
	} else {
		s.logger.Warn("Failed to mount embedded static FS", applog.FieldError, err)
	}

	r.Get("/", s.handleIndex)
	r.Get("/healthz", s.handleHealth)
	r.Get("/readyz", s.handleReady)

	r.Post("/friends/form", s.handleToggleAddFriend)
	r.Post("/friends", s.handleAddFriend)
	r.Post("/friends/{id}/select", s.handleSelect)

	r.Route("/split", func(r chi.Router) {
		r.Post("/", s.handleSplit)
		r.Post("/input", s.handleSplitInput)
		r.Post("/cancel", s.handleCancelSplit)
	})

	if s.metrics != nil {
		r.Handle("/metrics", s.metrics.Handler())
	}
	return r
}

func (s *Server) onRateLimited(r *http.Request) {
	s.logger.WarnContext(r.Context(), "Rate limit exceeded",
		applog.FieldClientIP, s.detector.ClientIP(r),
		applog.FieldMethod, r.Method,
		applog.FieldPath, r.URL.Path)
	if s.metrics != nil {
		s.metrics.RateLimited()
	}
}

// render executes a named template into memory so a failure never leaves a
// half-written response.
func (s *Server) render(name string, data any) ([]byte, error) {
	if s.templates == nil {
		return nil, fmt.Errorf("templates not loaded")
	}
	var buf bytes.Buffer
	if err := s.templates.ExecuteTemplate(&buf, name, data); err != nil {
		return nil, fmt.Errorf("execute template %s: %w", name, err)
	}
	return buf.Bytes(), nil
}

// Shutdown gracefully shuts down the server and the limiter cleanup.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		s.limiter.Stop()
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}
