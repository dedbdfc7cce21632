package auth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/resolvely/ticket-tracker/internal/domain"
	apperrors "github.com/resolvely/ticket-tracker/pkg/util/errorutil"
)

type stubUsers struct {
	users map[string]*domain.User
}

func (s *stubUsers) Create(context.Context, *domain.User) error { return nil }

func (s *stubUsers) GetByID(_ context.Context, id string) (*domain.User, error) {
	if u, ok := s.users[id]; ok {
		return u, nil
	}
	return nil, pgx.ErrNoRows
}

func (s *stubUsers) GetByEmail(context.Context, string) (*domain.User, error) {
	return nil, pgx.ErrNoRows
}

func (s *stubUsers) List(context.Context) ([]domain.User, error) { return nil, nil }

func (s *stubUsers) Count(context.Context) (int, error) { return len(s.users), nil }

type stubRevocations struct {
	revoked map[string]bool
	err     error
}

func (s *stubRevocations) IsRevoked(_ context.Context, id string) (bool, error) {
	return s.revoked[id], s.err
}

func newTestApp(tm *TokenManager, revoked RevocationChecker) *fiber.App {
	users := &stubUsers{users: map[string]*domain.User{"user-1": {ID: "user-1"}}}
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return c.SendStatus(apperrors.ToDomainError(err).HTTPStatus)
		},
	})
	app.Get("/me", NewAuthMiddleware(tm, users, revoked, nil).Handle, func(c *fiber.Ctx) error {
		principal, ok := PrincipalFromContext(c)
		if !ok {
			return c.SendStatus(http.StatusTeapot)
		}
		return c.SendString(principal.User.ID)
	})
	return app
}

func request(t *testing.T, app *fiber.App, header string) int {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp.StatusCode
}

func TestAuthMiddleware(t *testing.T) {
	tm := NewTokenManager("secret", time.Hour)
	valid, _, err := tm.GenerateToken("user-1")
	require.NoError(t, err)
	ghost, _, err := tm.GenerateToken("user-404")
	require.NoError(t, err)

	app := newTestApp(tm, nil)

	assert.Equal(t, http.StatusUnauthorized, request(t, app, ""))
	assert.Equal(t, http.StatusUnauthorized, request(t, app, "Basic abc"))
	assert.Equal(t, http.StatusUnauthorized, request(t, app, "Bearer not-a-jwt"))
	assert.Equal(t, http.StatusUnauthorized, request(t, app, "Bearer "+ghost))
	assert.Equal(t, http.StatusOK, request(t, app, "Bearer "+valid))
}

func TestAuthMiddleware_Revocation(t *testing.T) {
	tm := NewTokenManager("secret", time.Hour)
	signed, token, err := tm.GenerateToken("user-1")
	require.NoError(t, err)

	revoked := newTestApp(tm, &stubRevocations{revoked: map[string]bool{token.ID: true}})
	assert.Equal(t, http.StatusUnauthorized, request(t, revoked, "Bearer "+signed))

	unavailable := newTestApp(tm, &stubRevocations{err: errors.New("connection refused")})
	assert.Equal(t, http.StatusOK, request(t, unavailable, "Bearer "+signed))
}
