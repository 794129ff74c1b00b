package log

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"eatsplit/internal/core"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    slog.Level
		wantErr bool
	}{
		{"debug", slog.LevelDebug, false},
		{"INFO", slog.LevelInfo, false},
		{" warn ", slog.LevelWarn, false},
		{"error", slog.LevelError, false},
		{"loud", slog.LevelInfo, true},
	}
	for _, tt := range tests {
		got, err := ParseLevel(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseLevel(%q) err = %v", tt.in, err)
		}
		if got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestJSONHandlerCarriesComponent(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: slog.LevelInfo, Format: FormatJSON, Component: ComponentHTTP, Output: &buf})

	logger.WithComponent(ComponentLedger).Info("Friend added", NewFields().
		WithFriend(core.Friend{ID: "f1", Name: "Ada", Balance: core.FromUnits(2)}).
		ToSlice()...)

	var rec map[string]any
	if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
		t.Fatalf("output is not one JSON record: %v\n%s", err, buf.String())
	}
	if rec[FieldComponent] != ComponentLedger {
		t.Errorf("component = %v", rec[FieldComponent])
	}
	if rec[FieldFriendID] != "f1" || rec[FieldBalanceCents] != float64(200) {
		t.Errorf("friend fields = %v", rec)
	}
	if strings.Count(buf.String(), `"component"`) != 1 {
		t.Errorf("component repeated: %s", buf.String())
	}
}

func TestLevelFilters(t *testing.T) {
	for _, format := range []string{FormatText, FormatJSON, FormatTint} {
		var buf bytes.Buffer
		logger := New(Config{Level: slog.LevelWarn, Format: format, Output: &buf})
		logger.Info("hidden")
		logger.Warn("shown")
		if strings.Contains(buf.String(), "hidden") || !strings.Contains(buf.String(), "shown") {
			t.Errorf("%s: level filter broken: %q", format, buf.String())
		}
	}
}

func TestValidFormat(t *testing.T) {
	if !ValidFormat("tint") || ValidFormat("xml") {
		t.Fatal("ValidFormat mismatch")
	}
}

func TestRequestIDMiddleware(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Format: FormatJSON, Output: &buf})

	h := Middleware(logger)(RequestIDMiddleware(func(*http.Request) string { return "req_1" })(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			FromContext(r.Context()).Info("inside")
		})))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	if !strings.Contains(buf.String(), `"request_id":"req_1"`) {
		t.Fatalf("request id missing: %s", buf.String())
	}
}

func TestFromContextFallback(t *testing.T) {
	if l := FromContext(context.Background()); l == nil || l.Component() != "unknown" {
		t.Fatalf("fallback logger = %+v", l)
	}
}

func TestStructuredLoggerLevels(t *testing.T) {
	var buf bytes.Buffer
	sl := NewStructuredLogger(New(Config{Level: slog.LevelDebug, Format: FormatJSON, Output: &buf}))
	r := httptest.NewRequest(http.MethodPost, "/split", nil)

	sl.LogHTTPEnd(context.Background(), r, http.StatusTooManyRequests, 3, "10.0.0.1")
	sl.LogError(context.Background(), "boom", errors.New("bad"), OpSettle, nil)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("want 2 records, got %d: %s", len(lines), buf.String())
	}
	if !strings.Contains(lines[0], `"level":"WARN"`) {
		t.Errorf("4xx should log at warn: %s", lines[0])
	}
	if !strings.Contains(lines[1], `"error":"bad"`) || !strings.Contains(lines[1], `"operation":"settle"`) {
		t.Errorf("error record = %s", lines[1])
	}
}
