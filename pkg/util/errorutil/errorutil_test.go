package errorutil

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToDomainError_PassesThroughDomainErrors(t *testing.T) {
	original := NewValidationError("title required", map[string]any{"field": "title"})
	wrapped := fmt.Errorf("create ticket: %w", original)

	got := ToDomainError(wrapped)
	require.NotNil(t, got)
	assert.Equal(t, CodeValidation, got.Code)
	assert.Equal(t, http.StatusBadRequest, got.HTTPStatus)
	assert.Equal(t, "title", got.Details["field"])
}

func TestToDomainError_NoRowsBecomesNotFound(t *testing.T) {
	got := ToDomainError(fmt.Errorf("lookup: %w", pgx.ErrNoRows))
	assert.Equal(t, CodeNotFound, got.Code)
	assert.Equal(t, http.StatusNotFound, got.HTTPStatus)
}

func TestToDomainError_UnknownBecomesInternal(t *testing.T) {
	cause := errors.New("boom")
	got := ToDomainError(cause)
	assert.Equal(t, CodeInternal, got.Code)
	assert.ErrorIs(t, got, cause)
	assert.Nil(t, ToDomainError(nil))
}

func TestStoreFailure_HidesCauseFromMessage(t *testing.T) {
	cause := errors.New("pq: duplicate key value violates unique constraint")
	err := NewStoreFailure(cause)

	domainErr := ToDomainError(err)
	assert.Equal(t, "storage operation failed", domainErr.Message)
	assert.NotContains(t, domainErr.Message, "duplicate")
	assert.ErrorIs(t, err, cause)
	assert.True(t, IsStoreFailure(err))
}

func TestPredicates(t *testing.T) {
	assert.True(t, IsNotFound(NewNotFound("ticket", nil)))
	assert.True(t, IsValidation(NewValidationError("bad", nil)))
	assert.True(t, IsUnauthorized(NewUnauthorized("no caller")))
	assert.True(t, IsConflict(NewConflict("dup", nil)))
	assert.False(t, IsNotFound(errors.New("plain")))
	assert.Equal(t, "", CodeOf(nil))
}
