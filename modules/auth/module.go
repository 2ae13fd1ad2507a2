package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"github.com/example/task-tracker/domain/task"
	"github.com/example/task-tracker/storage"
	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
	"gorm.io/gorm"
)

// Options configures the auth module.
type Options struct {
	JWT        JWTConfig
	BcryptCost int
}

// AuthModule provides authentication services.
type AuthModule struct {
	db      *gorm.DB
	opts    Options
	service *AuthService
}

// Compile-time interface checks.
var _ mono.Module = (*AuthModule)(nil)
var _ mono.ServiceProviderModule = (*AuthModule)(nil)
var _ mono.HealthCheckableModule = (*AuthModule)(nil)

// NewModule creates a new AuthModule on a migrated database.
func NewModule(db *gorm.DB, opts Options) *AuthModule {
	return &AuthModule{
		db:   db,
		opts: opts,
	}
}

// NewServiceFromOptions builds an AuthService without the module wrapper.
func NewServiceFromOptions(db *gorm.DB, opts Options) *AuthService {
	return NewAuthService(NewUserRepository(db), NewPasswordHasher(opts.BcryptCost), NewJWTManager(opts.JWT))
}

// Name returns the module name.
func (m *AuthModule) Name() string {
	return "auth"
}

// Start initializes the auth module.
func (m *AuthModule) Start(_ context.Context) error {
	if m.db == nil {
		return fmt.Errorf("database not set")
	}
	if m.service == nil {
		m.service = NewServiceFromOptions(m.db, m.opts)
	}
	log.Printf("[auth] Module started (issuer: %s)", m.opts.JWT.Issuer)
	return nil
}

// Stop shuts down the module. The database is owned by the caller.
func (m *AuthModule) Stop(_ context.Context) error {
	log.Println("[auth] Module stopped")
	return nil
}

// Health returns the health status of the module.
func (m *AuthModule) Health(_ context.Context) mono.HealthStatus {
	if err := storage.Ping(m.db); err != nil {
		return mono.HealthStatus{
			Healthy: false,
			Message: err.Error(),
		}
	}
	return mono.HealthStatus{
		Healthy: true,
		Message: "operational",
	}
}

// RegisterServices registers request-reply services in the service container.
func (m *AuthModule) RegisterServices(container mono.ServiceContainer) error {
	if m.service == nil {
		m.service = NewServiceFromOptions(m.db, m.opts)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container,
		"register",
		json.Unmarshal,
		json.Marshal,
		m.handleRegister,
	); err != nil {
		return fmt.Errorf("failed to register register service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container,
		"login",
		json.Unmarshal,
		json.Marshal,
		m.handleLogin,
	); err != nil {
		return fmt.Errorf("failed to register login service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container,
		"refresh-token",
		json.Unmarshal,
		json.Marshal,
		m.handleRefresh,
	); err != nil {
		return fmt.Errorf("failed to register refresh-token service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container,
		"validate-token",
		json.Unmarshal,
		json.Marshal,
		m.handleValidateToken,
	); err != nil {
		return fmt.Errorf("failed to register validate-token service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container,
		"get-user",
		json.Unmarshal,
		json.Marshal,
		m.handleGetUser,
	); err != nil {
		return fmt.Errorf("failed to register get-user service: %w", err)
	}

	log.Printf("[auth] Registered services: register, login, refresh-token, validate-token, get-user")
	return nil
}

func (m *AuthModule) handleRegister(ctx context.Context, req RegisterRequest, _ *mono.Msg) (UserReply, error) {
	user, err := m.service.Register(ctx, req.Email, req.Password, req.FullName)
	if err != nil {
		if f := failureOf(err); f != nil {
			return UserReply{Failure: f}, nil
		}
		return UserReply{}, err
	}
	return toUserReply(user), nil
}

func (m *AuthModule) handleLogin(ctx context.Context, req LoginRequest, _ *mono.Msg) (TokenReply, error) {
	tokens, err := m.service.Login(ctx, req.Email, req.Password)
	if err != nil {
		if f := failureOf(err); f != nil {
			return TokenReply{Failure: f}, nil
		}
		return TokenReply{}, err
	}
	return TokenReply{TokenPair: *tokens}, nil
}

func (m *AuthModule) handleRefresh(ctx context.Context, req RefreshRequest, _ *mono.Msg) (TokenReply, error) {
	tokens, err := m.service.RefreshTokens(ctx, req.RefreshToken)
	if err != nil {
		if f := failureOf(err); f != nil {
			return TokenReply{Failure: f}, nil
		}
		return TokenReply{}, err
	}
	return TokenReply{TokenPair: *tokens}, nil
}

func (m *AuthModule) handleValidateToken(ctx context.Context, req ValidateTokenRequest, _ *mono.Msg) (ValidateTokenResponse, error) {
	p, err := m.service.Authenticate(ctx, req.Token)
	if err != nil {
		errMsg := "invalid token"
		switch {
		case errors.Is(err, ErrExpiredToken):
			errMsg = "token expired"
		case errors.Is(err, ErrInactiveUser):
			errMsg = "user inactive"
		case failureOf(err) == nil:
			return ValidateTokenResponse{}, err
		}
		return ValidateTokenResponse{
			Valid: false,
			Error: errMsg,
		}, nil
	}

	return ValidateTokenResponse{
		Valid:    true,
		UserID:   p.UserID,
		Email:    p.Email,
		FullName: p.FullName,
	}, nil
}

func (m *AuthModule) handleGetUser(ctx context.Context, req GetUserRequest, _ *mono.Msg) (UserReply, error) {
	user, err := m.service.GetUser(ctx, req.UserID)
	if err != nil {
		if f := failureOf(err); f != nil {
			return UserReply{Failure: f}, nil
		}
		return UserReply{}, err
	}
	return toUserReply(user), nil
}

func toUserReply(u *task.User) UserReply {
	return UserReply{
		ID:        u.ID,
		Email:     u.Email,
		FullName:  u.FullName,
		IsActive:  u.IsActive,
		CreatedAt: u.CreatedAt,
	}
}
