package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/resolvely/ticket-tracker/internal/domain"
	"github.com/resolvely/ticket-tracker/internal/events"
	"github.com/resolvely/ticket-tracker/internal/repository/repotest"
	apperrors "github.com/resolvely/ticket-tracker/pkg/util/errorutil"
)

func strPtr(s string) *string { return &s }

func newTicketFixture(t *testing.T) (*TicketService, *repotest.Store, *domain.User) {
	t.Helper()
	store := repotest.NewStore()
	dispatcher := events.NewInMemoryDispatcher(zap.NewNop())
	NewAuditService(dispatcher, store.History(), zap.NewNop()).RegisterHandlers()

	svc := NewTicketService(TicketDependencies{
		TicketRepo:  store.Tickets(),
		CommentRepo: store.Comments(),
		CatalogRepo: store.Catalog(),
		UserRepo:    store.Users(),
		HistoryRepo: store.History(),
		Dispatcher:  dispatcher,
		Logger:      zap.NewNop(),
	})
	return svc, store, store.AddUser("Ada")
}

func TestCreateTicket_Defaults(t *testing.T) {
	svc, _, caller := newTicketFixture(t)

	ticket, err := svc.CreateTicket(context.Background(), caller, TicketCreateInput{Title: "x"})
	require.NoError(t, err)

	assert.NotEmpty(t, ticket.ID)
	assert.Equal(t, "NEW", ticket.Status.Name)
	assert.Equal(t, "NORMAL", ticket.Priority.Name)
	assert.Equal(t, caller.ID, ticket.CreatorID())
	assert.Nil(t, ticket.Assignee)

	fetched, err := svc.GetTicket(context.Background(), caller, ticket.ID)
	require.NoError(t, err)
	assert.Equal(t, "NEW", fetched.Status.Name)
	assert.Equal(t, "NORMAL", fetched.Priority.Name)
	assert.Empty(t, fetched.Comments)
}

func TestCreateTicket_Validation(t *testing.T) {
	svc, _, caller := newTicketFixture(t)
	ctx := context.Background()

	_, err := svc.CreateTicket(ctx, caller, TicketCreateInput{Title: ""})
	assert.True(t, apperrors.IsValidation(err))

	_, err = svc.CreateTicket(ctx, caller, TicketCreateInput{Title: "   "})
	assert.True(t, apperrors.IsValidation(err))

	_, err = svc.CreateTicket(ctx, caller, TicketCreateInput{Title: strings.Repeat("a", 256)})
	assert.True(t, apperrors.IsValidation(err))

	_, err = svc.CreateTicket(ctx, caller, TicketCreateInput{Title: strings.Repeat("a", 255)})
	assert.NoError(t, err)

	_, err = svc.CreateTicket(ctx, caller, TicketCreateInput{Title: strings.Repeat("é", 255)})
	assert.NoError(t, err)

	_, err = svc.CreateTicket(ctx, caller, TicketCreateInput{Title: "x", StatusID: strPtr("ARCHIVED")})
	assert.True(t, apperrors.IsValidation(err))

	_, err = svc.CreateTicket(ctx, caller, TicketCreateInput{Title: "x", PriorityID: strPtr("BLOCKER")})
	assert.True(t, apperrors.IsValidation(err))
}

func TestUpdateTicket_OnlyPatchedFieldsChange(t *testing.T) {
	svc, store, caller := newTicketFixture(t)
	ctx := context.Background()
	agent := store.AddUser("Grace")

	created, err := svc.CreateTicket(ctx, caller, TicketCreateInput{Title: "Printer on fire", Description: strPtr("third floor")})
	require.NoError(t, err)
	assigned, err := svc.UpdateTicket(ctx, caller, created.ID, domain.TicketPatch{
		Assignee: &domain.AssigneeChange{UserID: &agent.ID},
	})
	require.NoError(t, err)

	updated, err := svc.UpdateTicket(ctx, caller, created.ID, domain.TicketPatch{PriorityID: strPtr("HIGH")})
	require.NoError(t, err)

	assert.Equal(t, "HIGH", updated.Priority.Name)
	assert.Equal(t, assigned.Title, updated.Title)
	assert.Equal(t, assigned.Description, updated.Description)
	assert.Equal(t, assigned.Status, updated.Status)
	require.NotNil(t, updated.Assignee)
	assert.Equal(t, agent.ID, updated.Assignee.ID)
	assert.True(t, updated.UpdatedAt.After(assigned.UpdatedAt))
	assert.Equal(t, created.CreatedAt, updated.CreatedAt)
}

func TestUpdateTicket_EmptyPatchStillRefreshesUpdatedAt(t *testing.T) {
	svc, _, caller := newTicketFixture(t)
	ctx := context.Background()

	created, err := svc.CreateTicket(ctx, caller, TicketCreateInput{Title: "x"})
	require.NoError(t, err)
	updated, err := svc.UpdateTicket(ctx, caller, created.ID, domain.TicketPatch{})
	require.NoError(t, err)
	assert.True(t, updated.UpdatedAt.After(created.UpdatedAt))
}

func TestUpdateTicket_Unassign(t *testing.T) {
	svc, store, caller := newTicketFixture(t)
	ctx := context.Background()
	agent := store.AddUser("Grace")

	created, err := svc.CreateTicket(ctx, caller, TicketCreateInput{Title: "x"})
	require.NoError(t, err)
	_, err = svc.UpdateTicket(ctx, caller, created.ID, domain.TicketPatch{Assignee: &domain.AssigneeChange{UserID: &agent.ID}})
	require.NoError(t, err)

	updated, err := svc.UpdateTicket(ctx, caller, created.ID, domain.TicketPatch{Assignee: &domain.AssigneeChange{}})
	require.NoError(t, err)
	assert.Nil(t, updated.Assignee)
}

func TestUpdateTicket_Errors(t *testing.T) {
	svc, _, caller := newTicketFixture(t)
	ctx := context.Background()

	created, err := svc.CreateTicket(ctx, caller, TicketCreateInput{Title: "x"})
	require.NoError(t, err)

	_, err = svc.UpdateTicket(ctx, caller, "missing", domain.TicketPatch{PriorityID: strPtr("HIGH")})
	assert.True(t, apperrors.IsNotFound(err))

	_, err = svc.UpdateTicket(ctx, caller, created.ID, domain.TicketPatch{Title: strPtr("")})
	assert.True(t, apperrors.IsValidation(err))

	_, err = svc.UpdateTicket(ctx, caller, created.ID, domain.TicketPatch{StatusID: strPtr("ARCHIVED")})
	assert.True(t, apperrors.IsValidation(err))

	_, err = svc.UpdateTicket(ctx, caller, created.ID, domain.TicketPatch{Assignee: &domain.AssigneeChange{UserID: strPtr("nobody")}})
	assert.True(t, apperrors.IsValidation(err))
}

func TestDeleteTicket(t *testing.T) {
	svc, _, caller := newTicketFixture(t)
	ctx := context.Background()

	_, err := svc.DeleteTicket(ctx, caller, "does-not-exist")
	assert.True(t, apperrors.IsNotFound(err))

	created, err := svc.CreateTicket(ctx, caller, TicketCreateInput{Title: "x"})
	require.NoError(t, err)
	_, err = svc.AddComment(ctx, caller, created.ID, "first")
	require.NoError(t, err)

	deleted, err := svc.DeleteTicket(ctx, caller, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, deleted.ID)
	assert.Len(t, deleted.Comments, 1)

	_, err = svc.GetTicket(ctx, caller, created.ID)
	assert.True(t, apperrors.IsNotFound(err))

	_, err = svc.DeleteTicket(ctx, caller, created.ID)
	assert.True(t, apperrors.IsNotFound(err))
}

func TestAddComment(t *testing.T) {
	svc, _, caller := newTicketFixture(t)
	ctx := context.Background()

	created, err := svc.CreateTicket(ctx, caller, TicketCreateInput{Title: "x"})
	require.NoError(t, err)

	_, err = svc.AddComment(ctx, caller, created.ID, "")
	assert.True(t, apperrors.IsValidation(err))
	_, err = svc.AddComment(ctx, caller, created.ID, " \t\n")
	assert.True(t, apperrors.IsValidation(err))

	_, err = svc.AddComment(ctx, caller, "missing", "hello")
	assert.True(t, apperrors.IsNotFound(err))

	first, err := svc.AddComment(ctx, caller, created.ID, "first")
	require.NoError(t, err)
	assert.Equal(t, caller.ID, first.Author.ID)
	_, err = svc.AddComment(ctx, caller, created.ID, "second")
	require.NoError(t, err)

	ticket, err := svc.GetTicket(ctx, caller, created.ID)
	require.NoError(t, err)
	require.Len(t, ticket.Comments, 2)
	assert.Equal(t, "first", ticket.Comments[0].Content)
	assert.Equal(t, "second", ticket.Comments[1].Content)
}

func TestAddComment_TicketDeletedBeforeInsert(t *testing.T) {
	svc, store, caller := newTicketFixture(t)
	ctx := context.Background()

	created, err := svc.CreateTicket(ctx, caller, TicketCreateInput{Title: "x"})
	require.NoError(t, err)

	store.FailCommentsWith(&pgconn.PgError{Code: "23503", ConstraintName: "comments_ticket_id_fkey"})
	_, err = svc.AddComment(ctx, caller, created.ID, "hello")
	assert.True(t, apperrors.IsNotFound(err), "got %v", err)

	store.FailCommentsWith(&pgconn.PgError{Code: "53300"})
	_, err = svc.AddComment(ctx, caller, created.ID, "hello")
	assert.True(t, apperrors.IsStoreFailure(err), "got %v", err)

	store.FailCommentsWith(nil)
	_, err = svc.AddComment(ctx, caller, created.ID, "hello")
	assert.NoError(t, err)
}

func TestListings(t *testing.T) {
	svc, store, caller := newTicketFixture(t)
	ctx := context.Background()
	agent := store.AddUser("Grace")

	var ids []string
	for i := 0; i < 7; i++ {
		created, err := svc.CreateTicket(ctx, caller, TicketCreateInput{Title: "ticket"})
		require.NoError(t, err)
		ids = append(ids, created.ID)
	}
	_, err := svc.UpdateTicket(ctx, caller, ids[2], domain.TicketPatch{Assignee: &domain.AssigneeChange{UserID: &caller.ID}})
	require.NoError(t, err)
	_, err = svc.UpdateTicket(ctx, caller, ids[3], domain.TicketPatch{Assignee: &domain.AssigneeChange{UserID: &agent.ID}})
	require.NoError(t, err)

	all, err := svc.ListTickets(ctx, caller)
	require.NoError(t, err)
	require.Len(t, all, 7)
	assert.Equal(t, ids[6], all[0].ID)

	recent, err := svc.ListRecent(ctx, caller, 0)
	require.NoError(t, err)
	assert.Len(t, recent, DefaultRecentLimit)

	recent, err = svc.ListRecent(ctx, caller, 2)
	require.NoError(t, err)
	assert.Equal(t, []string{ids[6], ids[5]}, []string{recent[0].ID, recent[1].ID})

	for _, limit := range []int{-1, 51} {
		_, err = svc.ListRecent(ctx, caller, limit)
		assert.True(t, apperrors.IsValidation(err), "limit %d", limit)
	}

	mine, err := svc.ListAssigned(ctx, caller)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, ids[2], mine[0].ID)
}

func TestTimeline(t *testing.T) {
	svc, _, caller := newTicketFixture(t)
	ctx := context.Background()

	created, err := svc.CreateTicket(ctx, caller, TicketCreateInput{Title: "x"})
	require.NoError(t, err)

	timeline, err := svc.Timeline(ctx, caller, created.ID)
	require.NoError(t, err)
	assert.Len(t, timeline, 3)

	_, err = svc.AddComment(ctx, caller, created.ID, "hello")
	require.NoError(t, err)
	timeline, err = svc.Timeline(ctx, caller, created.ID)
	require.NoError(t, err)
	require.Len(t, timeline, 4)
	assert.Equal(t, domain.ActivityCommentAdded, timeline[0].Type)

	_, err = svc.Timeline(ctx, caller, "missing")
	assert.True(t, apperrors.IsNotFound(err))
}

func TestHistory_RecordsMutationsAndSurvivesDeletion(t *testing.T) {
	svc, _, caller := newTicketFixture(t)
	ctx := context.Background()

	created, err := svc.CreateTicket(ctx, caller, TicketCreateInput{Title: "x"})
	require.NoError(t, err)
	_, err = svc.UpdateTicket(ctx, caller, created.ID, domain.TicketPatch{PriorityID: strPtr("HIGH"), Title: strPtr("x")})
	require.NoError(t, err)
	_, err = svc.AddComment(ctx, caller, created.ID, "on it")
	require.NoError(t, err)
	_, err = svc.DeleteTicket(ctx, caller, created.ID)
	require.NoError(t, err)

	history, err := svc.History(ctx, caller, created.ID)
	require.NoError(t, err)

	var types []domain.TicketChangeType
	for _, entry := range history {
		types = append(types, entry.ChangeType)
		require.NotNil(t, entry.ActorID)
		assert.Equal(t, caller.ID, *entry.ActorID)
	}
	assert.Equal(t, []domain.TicketChangeType{
		domain.ChangeTypeCreated,
		domain.ChangeTypePriority,
		domain.ChangeTypeComment,
		domain.ChangeTypeDeleted,
	}, types)
	assert.Equal(t, map[string]any{"value": "NORMAL"}, history[1].OldValue)
	assert.Equal(t, map[string]any{"value": "HIGH"}, history[1].NewValue)

	_, err = svc.History(ctx, caller, "missing")
	assert.True(t, apperrors.IsNotFound(err))
}

func TestTicketService_RequiresCaller(t *testing.T) {
	svc, _, _ := newTicketFixture(t)
	ctx := context.Background()

	calls := map[string]func() error{
		"create": func() error { _, err := svc.CreateTicket(ctx, nil, TicketCreateInput{Title: "x"}); return err },
		"get":    func() error { _, err := svc.GetTicket(ctx, nil, "id"); return err },
		"list":   func() error { _, err := svc.ListTickets(ctx, nil); return err },
		"recent": func() error { _, err := svc.ListRecent(ctx, nil, 5); return err },
		"mine":   func() error { _, err := svc.ListAssigned(ctx, &domain.User{}); return err },
		"update": func() error { _, err := svc.UpdateTicket(ctx, nil, "id", domain.TicketPatch{}); return err },
		"delete": func() error { _, err := svc.DeleteTicket(ctx, nil, "id"); return err },
		"comment": func() error {
			_, err := svc.AddComment(ctx, nil, "id", "hi")
			return err
		},
		"timeline": func() error { _, err := svc.Timeline(ctx, nil, "id"); return err },
		"history":  func() error { _, err := svc.History(ctx, nil, "id"); return err },
	}
	for name, call := range calls {
		assert.True(t, apperrors.IsUnauthorized(call()), name)
	}
}

func TestTicketService_StoreFailure(t *testing.T) {
	svc, store, caller := newTicketFixture(t)
	failure := errors.New("connection reset")
	store.FailWith(failure)

	_, err := svc.ListTickets(context.Background(), caller)
	assert.True(t, apperrors.IsStoreFailure(err))

	_, err = svc.GetTicket(context.Background(), caller, "any")
	assert.True(t, apperrors.IsStoreFailure(err))
	assert.ErrorIs(t, err, failure)
}
