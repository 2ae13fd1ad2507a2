package auth

import (
	"context"
	"errors"
	"time"
)

// RegisterRequest represents a user registration request.
type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"full_name"`
}

// UserReply carries a user account.
type UserReply struct {
	ID        int64     `json:"id"`
	Email     string    `json:"email"`
	FullName  string    `json:"full_name"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	Failure   *Failure  `json:"failure,omitempty"`
}

// LoginRequest represents a user login request.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RefreshRequest represents a token refresh request.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// TokenReply carries a token pair.
type TokenReply struct {
	TokenPair
	Failure *Failure `json:"failure,omitempty"`
}

// ValidateTokenRequest represents a token validation request.
type ValidateTokenRequest struct {
	Token string `json:"token"`
}

// ValidateTokenResponse represents a token validation response.
type ValidateTokenResponse struct {
	Valid    bool   `json:"valid"`
	UserID   int64  `json:"user_id,omitempty"`
	Email    string `json:"email,omitempty"`
	FullName string `json:"full_name,omitempty"`
	Error    string `json:"error,omitempty"`
}

// GetUserRequest represents a get user request.
type GetUserRequest struct {
	UserID int64 `json:"user_id"`
}

// Failure is a business error sent back in a reply.
type Failure struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

var failureCodes = map[string]error{
	"invalid_credentials": ErrInvalidCredentials,
	"inactive_user":       ErrInactiveUser,
	"invalid_email":       ErrInvalidEmail,
	"weak_password":       ErrWeakPassword,
	"password_too_long":   ErrPasswordTooLong,
	"full_name_too_long":  ErrFullNameTooLong,
	"user_exists":         ErrUserExists,
	"user_not_found":      ErrUserNotFound,
	"invalid_token":       ErrInvalidToken,
	"expired_token":       ErrExpiredToken,
}

// failureOf returns the reply form of a known auth error, or nil.
func failureOf(err error) *Failure {
	for code, sentinel := range failureCodes {
		if errors.Is(err, sentinel) {
			return &Failure{Code: code, Message: sentinel.Error()}
		}
	}
	return nil
}

// Err maps the failure back to its sentinel error.
func (f *Failure) Err() error {
	if f == nil {
		return nil
	}
	if sentinel, ok := failureCodes[f.Code]; ok {
		return sentinel
	}
	return errors.New(f.Message)
}

// AuthPort defines the interface other modules use to reach authentication.
type AuthPort interface {
	Register(ctx context.Context, req *RegisterRequest) (*UserReply, error)
	Login(ctx context.Context, req *LoginRequest) (*TokenPair, error)
	Refresh(ctx context.Context, refreshToken string) (*TokenPair, error)
	ValidateToken(ctx context.Context, token string) (*Principal, error)
	GetUser(ctx context.Context, userID int64) (*UserReply, error)
}
