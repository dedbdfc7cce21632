package service

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/resolvely/ticket-tracker/internal/auth"
	"github.com/resolvely/ticket-tracker/internal/config"
	"github.com/resolvely/ticket-tracker/internal/domain"
	"github.com/resolvely/ticket-tracker/internal/repository"
	apperrors "github.com/resolvely/ticket-tracker/pkg/util/errorutil"
)

const (
	avatarBaseURL       = "https://ui-avatars.com/api/"
	credentialsProvider = "credentials"
)

var providerNames = map[string]string{
	credentialsProvider: "Credentials",
	"google":            "Google",
	"github":            "GitHub",
	"discord":           "Discord",
}

// TokenRevoker invalidates access tokens before they expire.
type TokenRevoker interface {
	Revoke(ctx context.Context, tokenID string, ttl time.Duration) error
}

// AuthResult is returned by registration and login.
type AuthResult struct {
	User        *domain.User
	AccessToken string
	Token       domain.Token
}

// AuthService coordinates registration and login flows.
type AuthService struct {
	users      repository.UserRepository
	tokenMgr   *auth.TokenManager
	revoker    TokenRevoker
	logger     *zap.Logger
	bcryptCost int
	providers  []string
	now        func() time.Time
}

// AuthDependencies encapsulates requirements for auth service.
type AuthDependencies struct {
	UserRepo     repository.UserRepository
	TokenManager *auth.TokenManager
	Revoker      TokenRevoker
	Logger       *zap.Logger
}

// NewAuthService builds the service.
func NewAuthService(cfg config.AuthConfig, deps AuthDependencies) *AuthService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	tokens := deps.TokenManager
	if tokens == nil {
		tokens = auth.NewTokenManager(cfg.JWTSecret, cfg.AccessTokenTTL())
	}
	return &AuthService{
		users:      deps.UserRepo,
		tokenMgr:   tokens,
		revoker:    deps.Revoker,
		logger:     logger,
		bcryptCost: cfg.BcryptCost,
		providers:  cfg.Providers,
		now:        time.Now,
	}
}

// Register creates a credentials account and signs the new user in.
func (s *AuthService) Register(ctx context.Context, name, email, password string) (*AuthResult, error) {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(email)
	if name == "" || email == "" || password == "" {
		return nil, apperrors.NewValidationError("name, email and password are required", nil)
	}
	if !strings.Contains(email, "@") {
		return nil, apperrors.NewValidationError("invalid email", map[string]any{"field": "email"})
	}

	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil, apperrors.NewConflict("email already in use", map[string]any{"email": email})
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, storeFailure(s.logger, "user.get_by_email", err)
	}

	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	image := AvatarURL(name)
	user := &domain.User{
		Name:         &name,
		Email:        &email,
		Image:        &image,
		PasswordHash: hash,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if hasSQLState(err, uniqueViolation) {
			return nil, apperrors.NewConflict("email already in use", map[string]any{"email": email})
		}
		return nil, storeFailure(s.logger, "user.create", err)
	}
	s.logger.Info("user registered", zap.String("user_id", user.ID))

	return s.issue(user)
}

// Login verifies credentials and issues an access token.
func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, apperrors.NewValidationError("email and password are required", nil)
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewUnauthorized("invalid credentials")
		}
		return nil, storeFailure(s.logger, "user.get_by_email", err)
	}
	if user.PasswordHash == "" {
		return nil, apperrors.NewUnauthorized("invalid credentials")
	}
	if err := auth.ComparePassword(user.PasswordHash, password); err != nil {
		return nil, apperrors.NewUnauthorized("invalid credentials")
	}
	return s.issue(user)
}

// Logout revokes the token until it would have expired anyway.
func (s *AuthService) Logout(ctx context.Context, token domain.Token) error {
	if token.ID == "" {
		return apperrors.NewUnauthorized("authentication required")
	}
	if s.revoker == nil {
		return nil
	}
	ttl := token.ExpiresAt.Sub(s.now())
	if ttl <= 0 {
		return nil
	}
	if err := s.revoker.Revoke(ctx, token.ID, ttl); err != nil {
		return storeFailure(s.logger, "token.revoke", err)
	}
	return nil
}

// Providers lists the sign-in methods: credentials first, then configured identity
// providers in configuration order.
func (s *AuthService) Providers() []domain.Provider {
	providers := []domain.Provider{{ID: credentialsProvider, Name: providerNames[credentialsProvider], Type: "credentials"}}
	seen := map[string]bool{credentialsProvider: true}
	for _, raw := range s.providers {
		id := strings.ToLower(strings.TrimSpace(raw))
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		name, ok := providerNames[id]
		if !ok {
			name = raw
		}
		providers = append(providers, domain.Provider{ID: id, Name: name, Type: "oauth"})
	}
	return providers
}

// TokenManager exposes the underlying token manager for middleware usage.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}

// AvatarURL returns a generated avatar image for a display name.
func AvatarURL(name string) string {
	q := url.Values{}
	q.Set("background", "random")
	q.Set("name", name)
	return avatarBaseURL + "?" + q.Encode()
}

func (s *AuthService) issue(user *domain.User) (*AuthResult, error) {
	signed, token, err := s.tokenMgr.GenerateToken(user.ID)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return &AuthResult{User: user, AccessToken: signed, Token: token}, nil
}
