package service

import (
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"

	"github.com/resolvely/ticket-tracker/internal/domain"
	apperrors "github.com/resolvely/ticket-tracker/pkg/util/errorutil"
)

// Limits accepted by listing operations.
const (
	MinListLimit = 1
	MaxListLimit = 50
)

// Postgres SQLSTATE codes the services translate.
const (
	uniqueViolation     = "23505"
	foreignKeyViolation = "23503"
)

// storeError maps a repository error: missing rows, and references to rows deleted
// concurrently, become NotFound for resource. Any other failure is logged and reported
// as a store failure.
func storeError(logger *zap.Logger, op, resource string, details map[string]any, err error) error {
	if errors.Is(err, pgx.ErrNoRows) || hasSQLState(err, foreignKeyViolation) {
		return apperrors.NewNotFound(resource, details)
	}
	return storeFailure(logger, op, err)
}

func hasSQLState(err error, code string) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == code
}

func storeFailure(logger *zap.Logger, op string, err error) error {
	logger.Error("store operation failed", zap.String("op", op), zap.Error(err))
	return apperrors.NewStoreFailure(err)
}

func requireCaller(caller *domain.User) error {
	if caller == nil || caller.ID == "" {
		return apperrors.NewUnauthorized("authentication required")
	}
	return nil
}

// resolveLimit applies fallback to an unset limit and rejects values outside 1..50.
func resolveLimit(limit, fallback int) (int, error) {
	if limit == 0 {
		limit = fallback
	}
	if limit < MinListLimit || limit > MaxListLimit {
		return 0, apperrors.NewValidationError("limit must be between 1 and 50", map[string]any{"limit": limit})
	}
	return limit, nil
}

func validateTitle(title string) error {
	if isBlank(title) {
		return apperrors.NewValidationError("title is required", map[string]any{"field": "title"})
	}
	if utf8.RuneCountInString(title) > domain.MaxTitleLength {
		return apperrors.NewValidationError("title exceeds 255 characters", map[string]any{
			"field":     "title",
			"maxLength": domain.MaxTitleLength,
		})
	}
	return nil
}

// isBlank treats whitespace-only input as empty. Titles and comments of only spaces are
// rejected rather than stored.
func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
