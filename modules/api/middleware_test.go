package api

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/example/task-tracker/modules/auth"
	"github.com/gofiber/fiber/v2"
)

// mockAuthPort implements auth.AuthPort for testing.
type mockAuthPort struct {
	auth.AuthPort
	validateTokenFunc func(ctx context.Context, token string) (*auth.Principal, error)
	getUserFunc       func(ctx context.Context, userID int64) (*auth.UserReply, error)
	registerFunc      func(ctx context.Context, req *auth.RegisterRequest) (*auth.UserReply, error)
	loginFunc         func(ctx context.Context, req *auth.LoginRequest) (*auth.TokenPair, error)
}

func (m *mockAuthPort) ValidateToken(ctx context.Context, token string) (*auth.Principal, error) {
	if m.validateTokenFunc != nil {
		return m.validateTokenFunc(ctx, token)
	}
	return nil, errors.New("not implemented")
}

func (m *mockAuthPort) GetUser(ctx context.Context, userID int64) (*auth.UserReply, error) {
	if m.getUserFunc != nil {
		return m.getUserFunc(ctx, userID)
	}
	return nil, errors.New("not implemented")
}

func (m *mockAuthPort) Register(ctx context.Context, req *auth.RegisterRequest) (*auth.UserReply, error) {
	if m.registerFunc != nil {
		return m.registerFunc(ctx, req)
	}
	return nil, errors.New("not implemented")
}

func (m *mockAuthPort) Login(ctx context.Context, req *auth.LoginRequest) (*auth.TokenPair, error) {
	if m.loginFunc != nil {
		return m.loginFunc(ctx, req)
	}
	return nil, errors.New("not implemented")
}

func validTokenAs(userID int64) *mockAuthPort {
	return &mockAuthPort{
		validateTokenFunc: func(_ context.Context, token string) (*auth.Principal, error) {
			if token != "valid-token" {
				return nil, auth.ErrInvalidToken
			}
			return &auth.Principal{UserID: userID, Email: "user@example.com"}, nil
		},
	}
}

func TestAuthMiddleware(t *testing.T) {
	tests := []struct {
		name           string
		authHeader     string
		expectedStatus int
		expectedBody   string
	}{
		{"missing authorization header", "", http.StatusUnauthorized, `"Authorization header is required"`},
		{"basic scheme", "Basic token123", http.StatusUnauthorized, `Invalid authorization header format`},
		{"bearer without token", "Bearer ", http.StatusUnauthorized, `unauthorized`},
		{"invalid token", "Bearer invalid-token", http.StatusUnauthorized, `"Invalid or expired token"`},
		{"valid token", "Bearer valid-token", http.StatusOK, `"authenticated"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := fiber.New()
			app.Use(AuthMiddleware(validTokenAs(1)))
			app.Get("/test", func(c *fiber.Ctx) error {
				return c.JSON(fiber.Map{"status": "authenticated"})
			})

			req := httptest.NewRequest("GET", "/test", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}

			resp, err := app.Test(req, -1)
			if err != nil {
				t.Fatalf("app.Test() error = %v", err)
			}
			defer resp.Body.Close()

			if resp.StatusCode != tt.expectedStatus {
				t.Errorf("status = %v, want %v", resp.StatusCode, tt.expectedStatus)
			}
			body, _ := io.ReadAll(resp.Body)
			if !strings.Contains(string(body), tt.expectedBody) {
				t.Errorf("body = %s, want to contain %s", body, tt.expectedBody)
			}
		})
	}
}

func TestAuthMiddleware_StoresPrincipal(t *testing.T) {
	app := fiber.New()
	app.Use(AuthMiddleware(validTokenAs(456)))

	var captured *auth.Principal
	app.Get("/test", func(c *fiber.Ctx) error {
		captured = principalFrom(c)
		return c.SendStatus(fiber.StatusOK)
	})

	req := httptest.NewRequest("GET", "/test", nil)
	req.Header.Set("Authorization", "Bearer valid-token")

	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("app.Test() error = %v", err)
	}
	resp.Body.Close()

	if captured == nil {
		t.Fatal("principal not set in context")
	}
	if captured.UserID != 456 {
		t.Errorf("principal.UserID = %v, want 456", captured.UserID)
	}
}
