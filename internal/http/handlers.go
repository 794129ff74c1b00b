package http

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	applog "eatsplit/internal/log"
	"eatsplit/internal/session"
)

// handleHealth performs basic liveness check
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "ok",
		"timestamp": time.Now().Format(time.RFC3339),
		"uptime":    time.Since(s.started).Round(time.Second).String(),
	})
}

// handleReady checks that templates are loaded and the store answers.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	status := "ready"
	httpStatus := http.StatusOK
	checks := make(map[string]any)

	if s.templates == nil {
		checks["templates"] = "failed: templates not loaded"
		status = "not_ready"
		httpStatus = http.StatusServiceUnavailable
	} else {
		checks["templates"] = "ok"
	}

	s.mu.Lock()
	view, err := s.session.Snapshot(ctx)
	s.mu.Unlock()
	if err != nil {
		checks["store"] = "failed: " + err.Error()
		status = "not_ready"
		httpStatus = http.StatusServiceUnavailable
	} else {
		checks["store"] = map[string]any{"friends": len(view.Friends), "status": "ok"}
	}

	checks["rate_limiter"] = map[string]any{
		"active_clients": s.limiter.ActiveClients(),
		"status":         "ok",
	}

	writeJSON(w, httpStatus, map[string]any{
		"status":    status,
		"timestamp": time.Now().Format(time.RFC3339),
		"checks":    checks,
	})
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	s.mu.Lock()
	view, err := s.session.Snapshot(ctx)
	s.mu.Unlock()
	if err != nil {
		s.fail(w, r, "Snapshot failed", err, applog.OpList)
		return
	}

	body, err := s.render("index.html", view)
	if err != nil {
		s.fail(w, r, "Index render failed", err, applog.OpRender)
		return
	}
	NewHTMXResponse().BodyHTML(body).Write(w)
}

// handleToggleAddFriend is the "Add friend" / "Close" button.
func (s *Server) handleToggleAddFriend(w http.ResponseWriter, r *http.Request) {
	s.apply(w, r, "toggle_add_friend", func(ctx context.Context, _ *HTMXResponseBuilder) (session.Outcome, error) {
		return s.session.ToggleAddFriend(ctx), nil
	})
}

func (s *Server) handleAddFriend(w http.ResponseWriter, r *http.Request) {
	p, ok := parseBody(w, r)
	if !ok {
		return
	}
	s.apply(w, r, applog.OpCreate, func(ctx context.Context, resp *HTMXResponseBuilder) (session.Outcome, error) {
		if p.Has("name") {
			s.session.SetFriendName(p.Get("name"))
		}
		if p.Has("image") {
			s.session.SetFriendImage(p.Get("image"))
		}
		outcome, err := s.session.SubmitFriend(ctx)
		if err != nil || outcome != session.Applied {
			return outcome, err
		}
		view, err := s.session.Snapshot(ctx)
		if err != nil {
			return outcome, err
		}
		if n := len(view.Friends); n > 0 {
			resp.TriggerFriendAdded(view.Friends[n-1].Friend).TriggerFormReset()
		}
		return outcome, nil
	})
}

func (s *Server) handleSelect(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	s.apply(w, r, applog.OpSelect, func(ctx context.Context, _ *HTMXResponseBuilder) (session.Outcome, error) {
		return s.session.Select(ctx, id)
	})
}

// handleSplitInput applies the split fields without submitting, so the
// friend's share and the expense clamp are re-rendered as the user types.
func (s *Server) handleSplitInput(w http.ResponseWriter, r *http.Request) {
	p, ok := parseBody(w, r)
	if !ok {
		return
	}
	s.apply(w, r, "split_input", func(_ context.Context, _ *HTMXResponseBuilder) (session.Outcome, error) {
		if s.session.Mode() != session.FriendSelected {
			return session.Ignored, nil
		}
		s.applySplitFields(p)
		return session.Applied, nil
	})
}

func (s *Server) handleSplit(w http.ResponseWriter, r *http.Request) {
	p, ok := parseBody(w, r)
	if !ok {
		return
	}
	s.apply(w, r, applog.OpSettle, func(ctx context.Context, resp *HTMXResponseBuilder) (session.Outcome, error) {
		before, err := s.session.Snapshot(ctx)
		if err != nil {
			return session.Ignored, err
		}
		s.applySplitFields(p)
		outcome, err := s.session.SubmitSplit(ctx)
		if err != nil || outcome != session.Applied || before.Selected == nil {
			return outcome, err
		}
		after, err := s.session.Snapshot(ctx)
		if err != nil {
			return outcome, err
		}
		for _, f := range after.Friends {
			if f.ID == before.Selected.ID {
				resp.TriggerBillSettled(f.Friend)
			}
		}
		return outcome, nil
	})
}

func (s *Server) handleCancelSplit(w http.ResponseWriter, r *http.Request) {
	s.apply(w, r, "cancel_split", func(ctx context.Context, _ *HTMXResponseBuilder) (session.Outcome, error) {
		return s.session.CancelSplit(ctx), nil
	})
}

// applySplitFields sets the bill before the expense so the clamp sees the
// new total. Absent fields are left alone.
func (s *Server) applySplitFields(p *RequestBodyParser) {
	if p.Has("bill") {
		s.session.SetBillTotal(p.Get("bill"))
	}
	if p.Has("user_expense") {
		s.session.SetUserExpense(p.Get("user_expense"))
	}
	if p.Has("payer") {
		s.session.SetPayer(p.Get("payer"))
	}
}

// apply runs fn against the session under the lock, then re-renders the app
// partial for htmx or redirects plain form posts back to the page. Rejected
// events get the same 200 and unchanged state as applied ones.
func (s *Server) apply(w http.ResponseWriter, r *http.Request, op string, fn func(context.Context, *HTMXResponseBuilder) (session.Outcome, error)) {
	ctx := r.Context()
	resp := NewHTMXResponse()
	partial := isHTMX(r)

	s.mu.Lock()
	outcome, err := fn(ctx, resp)
	mode := s.session.Mode()
	var view session.View
	if err == nil && partial {
		view, err = s.session.Snapshot(ctx)
	}
	s.mu.Unlock()

	if err != nil {
		s.fail(w, r, "Session event failed", err, op)
		return
	}
	applog.FromContext(ctx).DebugContext(ctx, "Session event",
		applog.FieldOperation, op,
		"outcome", outcome.String(),
		applog.FieldMode, mode.String())

	if !partial {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	body, err := s.render("app", view)
	if err != nil {
		s.fail(w, r, "App render failed", err, applog.OpRender)
		return
	}
	resp.BodyHTML(body).Write(w)
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, msg string, err error, op string) {
	applog.NewStructuredLogger(applog.FromContext(r.Context())).LogError(r.Context(), msg, err, op, nil)
	InternalServerError("Something went wrong").Write(w)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
