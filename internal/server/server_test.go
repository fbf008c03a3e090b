package server

import (
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v3"

	"kfit/internal/cache"
	"kfit/internal/catalog"
	"kfit/internal/config"
	"kfit/internal/metrics"
	"kfit/internal/placeholder"
	"kfit/internal/resolver"
	"kfit/internal/testutil"
)

func newTestServer(t *testing.T, cfg *config.Config) *Server {
	t.Helper()

	metrics.Register()

	renderer, err := placeholder.NewRenderer()
	if err != nil {
		t.Fatalf("NewRenderer() error = %v", err)
	}
	cat := catalog.New(nil)
	r := resolver.New(catalog.NewNormalizer(cat), catalog.NewBrandPolicy(cat), testutil.NewSearcher(nil), cache.NewMemory(10))

	s := New(cfg)
	s.RegisterRoutes(r, renderer, nil)
	return s
}

func testConfig() *config.Config {
	return &config.Config{
		Env:          "test",
		Version:      "0.1.0",
		CORSOrigins:  "*",
		RateLimitMax: 600,
	}
}

func get(t *testing.T, app *fiber.App, target string, header map[string]string) (*http.Response, string) {
	t.Helper()
	req, _ := http.NewRequest(http.MethodGet, target, nil)
	for k, v := range header {
		req.Header.Set(k, v)
	}
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("GET %s failed: %v", target, err)
	}
	body, _ := io.ReadAll(resp.Body)
	return resp, string(body)
}

func TestRoutes(t *testing.T) {
	s := newTestServer(t, testConfig())

	tests := []struct {
		name       string
		target     string
		wantStatus int
		wantBody   string
	}{
		{"health", "/api/health", fiber.StatusOK, `"version":"0.1.0"`},
		{"liveness", "/healthz", fiber.StatusOK, `"status":"ok"`},
		{"readiness without database", "/readyz", fiber.StatusOK, `"status":"ok"`},
		{"image placeholder", "/api/placeholder/image?text=Hoodie&brand=SPAO", fiber.StatusOK, ">Hoodie</text>"},
		{"product info", "/api/placeholder/product-info?text=Hoodie", fiber.StatusOK, `"image":null`},
		{"metrics", "/metrics", fiber.StatusOK, "kfit_shared_resolutions_total"},
		{"unknown route", "/nope", fiber.StatusNotFound, `"status":"error"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, body := get(t, s.App, tt.target, nil)
			if resp.StatusCode != tt.wantStatus {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.wantStatus)
			}
			if !strings.Contains(body, tt.wantBody) {
				t.Errorf("body missing %q:\n%s", tt.wantBody, body)
			}
		})
	}
}

func TestCORSAllowsAnyOrigin(t *testing.T) {
	s := newTestServer(t, testConfig())

	resp, _ := get(t, s.App, "/api/health", map[string]string{"Origin": "https://kfit.example"})
	if got := resp.Header.Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("Access-Control-Allow-Origin = %q, want *", got)
	}
}

func TestRateLimit(t *testing.T) {
	cfg := testConfig()
	cfg.RateLimitMax = 2
	s := newTestServer(t, cfg)

	for i := 0; i < 2; i++ {
		if resp, _ := get(t, s.App, "/api/health", nil); resp.StatusCode != fiber.StatusOK {
			t.Fatalf("request %d status = %d, want 200", i, resp.StatusCode)
		}
	}

	resp, body := get(t, s.App, "/api/health", nil)
	if resp.StatusCode != fiber.StatusTooManyRequests {
		t.Errorf("status = %d, want 429", resp.StatusCode)
	}
	if !strings.Contains(body, "Rate limit exceeded") {
		t.Errorf("body = %s", body)
	}

	if resp, _ := get(t, s.App, "/healthz", nil); resp.StatusCode != fiber.StatusOK {
		t.Errorf("probe status = %d, probes should bypass the limiter", resp.StatusCode)
	}
}

func TestIsProbePath(t *testing.T) {
	tests := []struct {
		path     string
		expected bool
	}{
		{"/healthz", true},
		{"/readyz", true},
		{"/metrics", true},
		{"/api/health", false},
		{"/api/placeholder/image", false},
	}

	for _, tt := range tests {
		if got := isProbePath(tt.path); got != tt.expected {
			t.Errorf("isProbePath(%q) = %v, want %v", tt.path, got, tt.expected)
		}
	}
}
