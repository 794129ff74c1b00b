package trace

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	applog "eatsplit/internal/log"
)

type observed struct {
	method, route string
	status        int
}

type recorder struct{ calls []observed }

func (r *recorder) ObserveRequest(method, route string, status int, _ time.Duration) {
	r.calls = append(r.calls, observed{method, route, status})
}

func TestMiddlewareReportsRoutePattern(t *testing.T) {
	var buf bytes.Buffer
	logger := applog.New(applog.Config{Format: applog.FormatJSON, Output: &buf})
	rec := &recorder{}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(NewMiddleware(logger, nil, rec).Handler)
	r.Post("/friends/{id}/select", func(w http.ResponseWriter, r *http.Request) {
		applog.FromContext(r.Context()).Info("handler ran")
		w.WriteHeader(http.StatusAccepted)
	})
	r.Get("/quiet", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/friends/42/select", nil))
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/quiet", nil))

	if len(rec.calls) != 2 {
		t.Fatalf("observed %d requests", len(rec.calls))
	}
	if got := rec.calls[0]; got.route != "/friends/{id}/select" || got.status != http.StatusAccepted {
		t.Errorf("first = %+v", got)
	}
	if got := rec.calls[1]; got.status != http.StatusOK {
		t.Errorf("implicit status = %d, want 200", got.status)
	}

	out := buf.String()
	if !strings.Contains(out, "HTTP request completed") || !strings.Contains(out, `"request_id"`) {
		t.Errorf("log output missing request record: %s", out)
	}
	if !strings.Contains(out, `"msg":"handler ran"`) {
		t.Errorf("context logger not installed: %s", out)
	}
}
