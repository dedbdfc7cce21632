package repository

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalogRepository(t *testing.T) {
	pool := setupTestPool(t)
	repo := NewCatalogRepository(pool)
	ctx := context.Background()

	statuses, err := repo.ListStatuses(ctx)
	require.NoError(t, err)
	assert.Len(t, statuses, 6)
	priorities, err := repo.ListPriorities(ctx)
	require.NoError(t, err)
	assert.Len(t, priorities, 5)

	status, err := repo.GetStatus(ctx, "IN_PROGRESS")
	require.NoError(t, err)
	assert.Equal(t, "IN PROGRESS", status.Name)

	_, err = repo.GetPriority(ctx, "SOMEDAY")
	assert.ErrorIs(t, err, pgx.ErrNoRows)
}
