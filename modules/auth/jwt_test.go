package auth

import (
	"errors"
	"testing"
	"time"
)

func testJWTConfig() JWTConfig {
	return JWTConfig{
		SecretKey:            "test-secret-key",
		AccessTokenDuration:  15 * time.Minute,
		RefreshTokenDuration: 7 * 24 * time.Hour,
		Issuer:               "test-issuer",
	}
}

func TestJWTManager_RoundTrip(t *testing.T) {
	manager := NewJWTManager(testJWTConfig())

	tests := []struct {
		name      string
		generate  func(int64, string) (string, error)
		validate  func(string) (*JWTClaims, error)
		tokenType string
	}{
		{"access", manager.GenerateAccessToken, manager.ValidateAccessToken, tokenTypeAccess},
		{"refresh", manager.GenerateRefreshToken, manager.ValidateRefreshToken, tokenTypeRefresh},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token, err := tt.generate(42, "test@example.com")
			if err != nil {
				t.Fatalf("generate error = %v", err)
			}

			claims, err := tt.validate(token)
			if err != nil {
				t.Fatalf("validate error = %v", err)
			}
			if claims.UserID != 42 {
				t.Errorf("claims.UserID = %v, want 42", claims.UserID)
			}
			if claims.Subject != "42" {
				t.Errorf("claims.Subject = %q, want %q", claims.Subject, "42")
			}
			if claims.TokenType != tt.tokenType {
				t.Errorf("claims.TokenType = %v, want %v", claims.TokenType, tt.tokenType)
			}
			if claims.ID == "" {
				t.Error("claims.ID is empty")
			}
		})
	}
}

func TestJWTManager_TokenTypesAreNotInterchangeable(t *testing.T) {
	manager := NewJWTManager(testJWTConfig())

	access, err := manager.GenerateAccessToken(1, "a@example.com")
	if err != nil {
		t.Fatal(err)
	}
	refresh, err := manager.GenerateRefreshToken(1, "a@example.com")
	if err != nil {
		t.Fatal(err)
	}

	if _, err := manager.ValidateRefreshToken(access); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("ValidateRefreshToken(access) error = %v, want ErrInvalidToken", err)
	}
	if _, err := manager.ValidateAccessToken(refresh); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("ValidateAccessToken(refresh) error = %v, want ErrInvalidToken", err)
	}
}

func TestJWTManager_Rejects(t *testing.T) {
	cfg := testJWTConfig()
	manager := NewJWTManager(cfg)

	otherSecret := cfg
	otherSecret.SecretKey = "another-secret"
	foreignToken, err := NewJWTManager(otherSecret).GenerateAccessToken(1, "a@example.com")
	if err != nil {
		t.Fatal(err)
	}

	otherIssuer := cfg
	otherIssuer.Issuer = "someone-else"
	issuerToken, err := NewJWTManager(otherIssuer).GenerateAccessToken(1, "a@example.com")
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name  string
		token string
	}{
		{"empty token", ""},
		{"random string", "not.a.valid.token"},
		{"malformed jwt", "eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9.invalid"},
		{"wrong secret", foreignToken},
		{"wrong issuer", issuerToken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := manager.ValidateToken(tt.token); !errors.Is(err, ErrInvalidToken) {
				t.Errorf("ValidateToken() error = %v, want ErrInvalidToken", err)
			}
		})
	}
}

func TestJWTManager_ExpiredToken(t *testing.T) {
	manager := NewJWTManager(testJWTConfig())
	manager.now = func() time.Time { return time.Now().Add(-time.Hour) }

	token, err := manager.GenerateAccessToken(1, "a@example.com")
	if err != nil {
		t.Fatal(err)
	}

	manager.now = time.Now
	if _, err := manager.ValidateToken(token); !errors.Is(err, ErrExpiredToken) {
		t.Errorf("ValidateToken() error = %v, want ErrExpiredToken", err)
	}
}

func TestJWTManager_AccessTokenDuration(t *testing.T) {
	cfg := testJWTConfig()
	cfg.AccessTokenDuration = 30 * time.Minute

	if got := NewJWTManager(cfg).AccessTokenDuration(); got != 1800 {
		t.Errorf("AccessTokenDuration() = %v, want 1800", got)
	}
}
