// Package trace logs and measures each HTTP request.
package trace

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	applog "eatsplit/internal/log"
)

// RequestObserver receives the outcome of every request.
type RequestObserver interface {
	ObserveRequest(method, route string, status int, d time.Duration)
}

// Middleware logs request start and completion with the chi request id and
// reports timings to an optional observer.
type Middleware struct {
	logger    *applog.Logger
	extractIP func(*http.Request) string
	observer  RequestObserver
}

func NewMiddleware(logger *applog.Logger, extractIP func(*http.Request) string, observer RequestObserver) *Middleware {
	return &Middleware{
		logger:    logger.WithComponent(applog.ComponentHTTP),
		extractIP: extractIP,
		observer:  observer,
	}
}

func (m *Middleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		clientIP := r.RemoteAddr
		if m.extractIP != nil {
			clientIP = m.extractIP(r)
		}

		logger := m.logger
		if id := middleware.GetReqID(r.Context()); id != "" {
			logger = logger.With(applog.FieldRequestID, id)
		}
		r = r.WithContext(applog.NewContext(r.Context(), logger))
		sl := applog.NewStructuredLogger(logger)
		sl.LogHTTPStart(r.Context(), r, clientIP)

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		duration := time.Since(start)
		sl.LogHTTPEnd(r.Context(), r, status, duration.Milliseconds(), clientIP)

		if m.observer != nil {
			m.observer.ObserveRequest(r.Method, routePattern(r), status, duration)
		}
	})
}

// routePattern returns the matched chi pattern, e.g. "/friends/{id}/select".
func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if p := rctx.RoutePattern(); p != "" {
			return p
		}
	}
	return "unmatched"
}
