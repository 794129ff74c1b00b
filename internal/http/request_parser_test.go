package http

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestRequestBodyParser(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		ctype    string
		wantJSON bool
		want     map[string]string
		has      []string
		missing  []string
	}{
		{
			name:    "form data",
			body:    "name=Ada&image=https%3A%2F%2Fi.pravatar.cc%2F48&bill=",
			ctype:   "application/x-www-form-urlencoded",
			want:    map[string]string{"name": "Ada", "image": "https://i.pravatar.cc/48", "bill": ""},
			has:     []string{"name", "image", "bill"},
			missing: []string{"payer"},
		},
		{
			name:     "json with numbers",
			body:     `{"bill": 100, "user_expense": "12.5", "payer": "friend"}`,
			ctype:    "application/json",
			wantJSON: true,
			want:     map[string]string{"bill": "100", "user_expense": "12.5", "payer": "friend"},
			has:      []string{"bill", "payer"},
			missing:  []string{"name"},
		},
		{
			name:  "trims and strips control characters",
			body:  "name=%20Ada%01%20",
			ctype: "application/x-www-form-urlencoded",
			want:  map[string]string{"name": "Ada"},
		},
		{
			name:    "empty body",
			body:    "",
			want:    map[string]string{"name": ""},
			missing: []string{"name"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.body))
			if tt.ctype != "" {
				r.Header.Set("Content-Type", tt.ctype)
			}
			p := NewRequestBodyParser(r)
			if err := p.Parse(); err != nil {
				t.Fatalf("Parse() error = %v", err)
			}
			if p.IsJSON() != tt.wantJSON {
				t.Errorf("IsJSON() = %v, want %v", p.IsJSON(), tt.wantJSON)
			}
			for k, v := range tt.want {
				if got := p.Get(k); got != v {
					t.Errorf("Get(%q) = %q, want %q", k, got, v)
				}
			}
			for _, k := range tt.has {
				if !p.Has(k) {
					t.Errorf("Has(%q) = false", k)
				}
			}
			for _, k := range tt.missing {
				if p.Has(k) {
					t.Errorf("Has(%q) = true", k)
				}
			}
		})
	}
}

func TestRequestBodyParser_InvalidJSON(t *testing.T) {
	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":`))
	p := NewRequestBodyParser(r)
	if err := p.Parse(); err == nil {
		t.Fatal("expected error for truncated JSON")
	}
	if err := p.Parse(); err == nil {
		t.Fatal("second Parse() should return the cached error")
	}
}

func TestParseBodyWritesBadRequest(t *testing.T) {
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{bad`))
	if _, ok := parseBody(w, r); ok {
		t.Fatal("parseBody accepted invalid JSON")
	}
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d", w.Code)
	}
}

func TestSanitizeInput(t *testing.T) {
	tests := []struct {
		input, want string
	}{
		{"  hello  ", "hello"},
		{"tab\there", "tab\there"},
		{"bell\x07gone", "bellgone"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := sanitizeInput(tt.input); got != tt.want {
			t.Errorf("sanitizeInput(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}
