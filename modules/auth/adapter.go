package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
)

// AuthAdapter implements AuthPort using the service container.
type AuthAdapter struct {
	container mono.ServiceContainer
}

var _ AuthPort = (*AuthAdapter)(nil)

// NewAuthAdapter creates a new AuthAdapter.
func NewAuthAdapter(container mono.ServiceContainer) *AuthAdapter {
	return &AuthAdapter{
		container: container,
	}
}

func call[Req, Resp any](ctx context.Context, container mono.ServiceContainer, service string, req *Req, resp *Resp) error {
	if err := helper.CallRequestReplyService(
		ctx,
		container,
		service,
		json.Marshal,
		json.Unmarshal,
		req,
		resp,
	); err != nil {
		return fmt.Errorf("%s request failed: %w", service, err)
	}
	return nil
}

// Register creates a new account.
func (a *AuthAdapter) Register(ctx context.Context, req *RegisterRequest) (*UserReply, error) {
	var resp UserReply
	if err := call(ctx, a.container, "register", req, &resp); err != nil {
		return nil, err
	}
	if resp.Failure != nil {
		return nil, resp.Failure.Err()
	}
	return &resp, nil
}

// Login exchanges credentials for tokens.
func (a *AuthAdapter) Login(ctx context.Context, req *LoginRequest) (*TokenPair, error) {
	var resp TokenReply
	if err := call(ctx, a.container, "login", req, &resp); err != nil {
		return nil, err
	}
	if resp.Failure != nil {
		return nil, resp.Failure.Err()
	}
	return &resp.TokenPair, nil
}

// Refresh exchanges a refresh token for new tokens.
func (a *AuthAdapter) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	req := RefreshRequest{RefreshToken: refreshToken}
	var resp TokenReply
	if err := call(ctx, a.container, "refresh-token", &req, &resp); err != nil {
		return nil, err
	}
	if resp.Failure != nil {
		return nil, resp.Failure.Err()
	}
	return &resp.TokenPair, nil
}

// ValidateToken resolves an access token to a principal.
func (a *AuthAdapter) ValidateToken(ctx context.Context, token string) (*Principal, error) {
	req := ValidateTokenRequest{Token: token}
	var resp ValidateTokenResponse
	if err := call(ctx, a.container, "validate-token", &req, &resp); err != nil {
		return nil, err
	}
	if !resp.Valid {
		return nil, errors.New("token validation failed: " + resp.Error)
	}
	return &Principal{
		UserID:   resp.UserID,
		Email:    resp.Email,
		FullName: resp.FullName,
	}, nil
}

// GetUser retrieves a user by ID.
func (a *AuthAdapter) GetUser(ctx context.Context, userID int64) (*UserReply, error) {
	req := GetUserRequest{UserID: userID}
	var resp UserReply
	if err := call(ctx, a.container, "get-user", &req, &resp); err != nil {
		return nil, err
	}
	if resp.Failure != nil {
		return nil, resp.Failure.Err()
	}
	return &resp, nil
}
