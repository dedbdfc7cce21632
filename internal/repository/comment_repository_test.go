package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/resolvely/ticket-tracker/internal/domain"
)

func TestCommentRepository_ThreadOrderAndRecent(t *testing.T) {
	pool := setupTestPool(t)
	repo := NewCommentRepository(pool)
	ctx := context.Background()
	ada := createTestUser(t, pool, "ada")
	vpn := createTestTicket(t, pool, "vpn", ada)
	printer := createTestTicket(t, pool, "printer", ada)

	for _, c := range []struct {
		ticket  *domain.Ticket
		content string
	}{
		{vpn, "one"}, {printer, "two"}, {vpn, "three"},
	} {
		comment := &domain.Comment{TicketID: c.ticket.ID, Content: c.content, Author: ada}
		require.NoError(t, repo.Create(ctx, comment))
		require.NotEmpty(t, comment.ID)
	}

	thread, err := repo.ListByTicket(ctx, vpn.ID)
	require.NoError(t, err)
	require.Len(t, thread, 2)
	assert.Equal(t, "one", thread[0].Content)
	assert.Equal(t, "three", thread[1].Content)
	assert.Equal(t, ada.ID, thread[0].Author.ID)

	recent, err := repo.ListRecent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, "three", recent[0].Content)
	assert.Equal(t, "vpn", recent[0].TicketTitle)
	assert.Equal(t, "two", recent[1].Content)
	assert.Equal(t, "printer", recent[1].TicketTitle)
}

func TestCommentRepository_DeletedTicket(t *testing.T) {
	pool := setupTestPool(t)
	repo := NewCommentRepository(pool)
	ctx := context.Background()
	ticket := createTestTicket(t, pool, "x", nil)
	require.NoError(t, repo.Create(ctx, &domain.Comment{TicketID: ticket.ID, Content: "hello"}))

	require.NoError(t, NewTicketRepository(pool).Delete(ctx, ticket.ID))

	thread, err := repo.ListByTicket(ctx, ticket.ID)
	require.NoError(t, err)
	assert.Empty(t, thread)
	recent, err := repo.ListRecent(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, recent)

	err = repo.Create(ctx, &domain.Comment{TicketID: ticket.ID, Content: "late"})
	var pgErr *pgconn.PgError
	require.True(t, errors.As(err, &pgErr), "got %v", err)
	assert.Equal(t, "23503", pgErr.Code)

	assert.ErrorIs(t, repo.Create(ctx, &domain.Comment{TicketID: "not-a-uuid", Content: "x"}), pgx.ErrNoRows)
}
