package cli

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"

	"eatsplit/internal/config"
	applog "eatsplit/internal/log"
	"eatsplit/internal/metrics"
	"eatsplit/internal/session"
)

func testConfig() *config.Config {
	return &config.Config{
		Port:               "8080",
		RateLimitPerMinute: 120,
		DataBackend:        config.BackendMemory,
		AMQPExchange:       "eatsplit",
		LogLevel:           "info",
		LogFormat:          applog.FormatJSON,
	}
}

func scrape(t *testing.T, c *metrics.Collector) string {
	t.Helper()
	rr := httptest.NewRecorder()
	c.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	return rr.Body.String()
}

func TestSetupLogger(t *testing.T) {
	var buf bytes.Buffer
	cfg := testConfig()
	cfg.LogLevel = "warn"

	logger := SetupLogger(cfg, &buf)
	logger.Info("dropped")
	logger.Warn("kept")

	out := buf.String()
	if strings.Contains(out, "dropped") {
		t.Error("info logged at warn level")
	}
	if !strings.Contains(out, `"msg":"kept"`) || !strings.Contains(out, `"component":"app"`) {
		t.Errorf("unexpected output: %s", out)
	}
}

func TestLoadAndValidateConfig(t *testing.T) {
	for _, key := range []string{"PORT", "SEED_FILE", "AMQP_URL", "LOG_LEVEL", "LOG_FORMAT", "RATE_LIMIT_PER_MINUTE"} {
		t.Setenv(key, "")
	}
	t.Setenv("DATA_BACKEND", "sheets")
	if _, err := LoadAndValidateConfig(); err == nil {
		t.Fatal("expected validation error for unknown backend")
	}

	t.Setenv("DATA_BACKEND", "sqlite")
	cfg, err := LoadAndValidateConfig()
	if err != nil {
		t.Fatalf("LoadAndValidateConfig() = %v", err)
	}
	if cfg.DataBackend != config.BackendSQLite {
		t.Errorf("DataBackend = %q", cfg.DataBackend)
	}
}

func TestBuildApp(t *testing.T) {
	ctx := context.Background()
	collector := metrics.New()

	app, err := BuildApp(ctx, testConfig(), applog.Discard(), collector)
	if err != nil {
		t.Fatalf("BuildApp: %v", err)
	}
	defer app.Close()

	if !strings.Contains(scrape(t, collector), "eatsplit_friends 3") {
		t.Error("friends gauge not initialized from the seed")
	}

	s := app.Session
	s.OpenAddFriend(ctx)
	s.SetFriendName("Ada")
	if o, err := s.SubmitFriend(ctx); err != nil || o != session.Applied {
		t.Fatalf("SubmitFriend = %v, %v", o, err)
	}

	v, err := s.Snapshot(ctx)
	if err != nil {
		t.Fatal(err)
	}
	ada := v.Friends[len(v.Friends)-1]
	if _, err := uuid.Parse(ada.ID); err != nil {
		t.Errorf("new friend id %q is not a UUID", ada.ID)
	}
	if !strings.Contains(scrape(t, collector), "eatsplit_friends 4") {
		t.Error("friends gauge not updated after add")
	}
}

func TestBuildAppWithoutMetrics(t *testing.T) {
	cfg := testConfig()
	cfg.SeedFile = "none"
	app, err := BuildApp(context.Background(), cfg, applog.Discard(), nil)
	if err != nil {
		t.Fatalf("BuildApp: %v", err)
	}
	defer app.Close()

	v, err := app.Session.Snapshot(context.Background())
	if err != nil || len(v.Friends) != 0 {
		t.Fatalf("Snapshot = %d friends, %v", len(v.Friends), err)
	}
}

func TestCommandTree(t *testing.T) {
	for _, name := range []string{"serve", "tui"} {
		cmd, _, err := rootCmd.Find([]string{name})
		if err != nil || cmd.Name() != name {
			t.Errorf("command %q not registered: %v", name, err)
		}
	}
	if serveCmd.Flags().Lookup("port") == nil {
		t.Error("serve has no --port flag")
	}
}
