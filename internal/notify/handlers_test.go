package notify

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"

	"github.com/darshan87986/cultural-explorer/internal/auth"
)

func newStreamApp(t *testing.T) *fiber.App {
	t.Helper()
	app := fiber.New()
	RegisterRoutes(app.Group("/notify"), NewHub(nil), auth.JWTMiddleware("test-secret"))
	return app
}

func TestStreamRouteRequiresToken(t *testing.T) {
	app := newStreamApp(t)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/notify/ws", nil))
	if err != nil || resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("anonymous subscriber must be rejected")
	}
}

func TestStreamRouteRequiresUpgrade(t *testing.T) {
	token, err := auth.NewIssuer("test-secret").Sign("user-1")
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	app := newStreamApp(t)
	req := httptest.NewRequest(http.MethodGet, "/notify/ws", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	// authenticated but plain HTTP: the route only speaks websocket
	resp, err := app.Test(req)
	if err != nil || resp.StatusCode != http.StatusUpgradeRequired {
		t.Fatalf("expected upgrade required, got %d", resp.StatusCode)
	}
}
