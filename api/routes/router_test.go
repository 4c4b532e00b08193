package routes

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/angelmondragon/potionshop-backend/internal/catalog"
	"github.com/angelmondragon/potionshop-backend/internal/inventory"
	"github.com/angelmondragon/potionshop-backend/pkg/config"
	"github.com/angelmondragon/potionshop-backend/pkg/logger"
	"github.com/angelmondragon/potionshop-backend/pkg/metrics"
)

type stubPinger struct{}

func (stubPinger) Ping(context.Context) error {
	return nil
}

type stubInventory struct {
	inventory.Service
	resets int
}

func (s *stubInventory) Audit(context.Context) (*inventory.Audit, error) {
	return &inventory.Audit{Gold: 100}, nil
}

func (s *stubInventory) Reset(context.Context) error {
	s.resets++
	return nil
}

type stubCatalog struct {
	catalog.Service
}

func (stubCatalog) Storefront(context.Context) ([]catalog.StorefrontItem, error) {
	return []catalog.StorefrontItem{}, nil
}

func testRouter(t *testing.T) (http.Handler, *stubInventory) {
	t.Helper()
	cfg := &config.Config{}
	cfg.App.Env = "test"
	cfg.Auth.APIKey = "secret"
	cfg.Auth.Header = "access_token"

	logg := logger.New(logger.Options{ServiceName: "test", Level: logger.ParseLevel("debug"), Output: io.Discard})
	registry := prometheus.NewRegistry()
	inv := &stubInventory{}
	router := NewRouter(cfg, logg, stubPinger{}, nil, registry, metrics.NewShopMetrics(registry), Services{
		Inventory: inv,
		Catalog:   stubCatalog{},
	})
	return router, inv
}

func do(router http.Handler, method, path, key string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if key != "" {
		req.Header.Set("access_token", key)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestHealthRoutesArePublic(t *testing.T) {
	router, _ := testRouter(t)
	for _, path := range []string{"/health/live", "/health/ready"} {
		if rec := do(router, http.MethodGet, path, ""); rec.Code != http.StatusOK {
			t.Fatalf("%s: expected 200, got %d", path, rec.Code)
		}
	}
}

func TestCatalogIsPublic(t *testing.T) {
	router, _ := testRouter(t)
	rec := do(router, http.MethodGet, "/catalog", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if strings.TrimSpace(rec.Body.String()) != `{"data":[]}` {
		t.Fatalf("unexpected body %s", rec.Body.String())
	}
}

func TestProtectedRoutesRequireAPIKey(t *testing.T) {
	router, inv := testRouter(t)

	if rec := do(router, http.MethodGet, "/inventory/audit", ""); rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without key, got %d", rec.Code)
	}
	if rec := do(router, http.MethodGet, "/inventory/audit", "wrong"); rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 with wrong key, got %d", rec.Code)
	}
	if rec := do(router, http.MethodGet, "/inventory/audit", "secret"); rec.Code != http.StatusOK {
		t.Fatalf("expected 200 with key, got %d", rec.Code)
	}

	if rec := do(router, http.MethodPost, "/admin/reset", ""); rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for reset without key, got %d", rec.Code)
	}
	if inv.resets != 0 {
		t.Fatalf("reset should not run without a key")
	}
	if rec := do(router, http.MethodPost, "/admin/reset", "secret"); rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204 for reset, got %d", rec.Code)
	}
	if inv.resets != 1 {
		t.Fatalf("expected one reset, got %d", inv.resets)
	}
}

func TestMetricsEndpointExposesRouteLatency(t *testing.T) {
	router, _ := testRouter(t)
	do(router, http.MethodGet, "/inventory/audit", "secret")

	rec := do(router, http.MethodGet, "/metrics", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "http_request_duration_seconds") {
		t.Fatalf("missing request histogram in %s", body)
	}
	if !strings.Contains(body, `route="/inventory/audit"`) {
		t.Fatalf("expected route pattern label in %s", body)
	}
}

func TestUnknownRouteIs404(t *testing.T) {
	router, _ := testRouter(t)
	if rec := do(router, http.MethodGet, "/nope", "secret"); rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}
