package auth

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
)

func TestSessionMiddleware(t *testing.T) {
	app := fiber.New()
	app.Get("/private", SessionMiddleware("secret"), func(c *fiber.Ctx) error {
		if SessionID(c) == "" {
			return fiber.NewError(fiber.StatusUnauthorized)
		}
		return c.SendString(SessionID(c))
	})

	svc := NewService("secret")

	req := httptest.NewRequest(http.MethodGet, "/private", nil)
	resp, _ := app.Test(req)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected unauthorized without token")
	}

	req = httptest.NewRequest(http.MethodGet, "/private", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	resp, _ = app.Test(req)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected unauthorized with garbage token")
	}

	token, _ := svc.Issue()
	req = httptest.NewRequest(http.MethodGet, "/private", nil)
	req.Header.Set("Authorization", "Bearer "+token.Token)
	resp, _ = app.Test(req)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected ok, got %d", resp.StatusCode)
	}
	body, _ := io.ReadAll(resp.Body)
	if string(body) != token.SessionID {
		t.Fatalf("expected session id in locals, got %q", body)
	}

	req = httptest.NewRequest(http.MethodGet, "/private?token="+token.Token, nil)
	resp, _ = app.Test(req)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected query token accepted, got %d", resp.StatusCode)
	}
}

func TestBearerFromHeader(t *testing.T) {
	if bearerFromHeader("Bearer abc") != "abc" {
		t.Fatalf("expected token")
	}
	if bearerFromHeader("bearer abc") != "abc" {
		t.Fatalf("expected case-insensitive scheme")
	}
	if bearerFromHeader("Basic abc") != "" || bearerFromHeader("abc") != "" {
		t.Fatalf("expected empty for other schemes")
	}
}

func TestSessionRoutes(t *testing.T) {
	app := fiber.New()
	RegisterRoutes(app.Group("/sessions"), NewService("secret"))

	resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/sessions", nil))
	if err != nil || resp.StatusCode != http.StatusCreated {
		t.Fatalf("issue status: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(body), `"session_id"`) {
		t.Fatalf("expected session id in body: %s", body)
	}

	resp, _ = app.Test(httptest.NewRequest(http.MethodGet, "/sessions/verify", nil))
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected unauthorized verify")
	}
}
