package repository

import (
	"context"
	"os"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/resolvely/ticket-tracker/internal/domain"
	"github.com/resolvely/ticket-tracker/internal/persistence"
)

const testDBURLKey = "TICKET_TRACKER_TEST_DATABASE_URL"

func getTestDatabaseURL(t *testing.T) string {
	t.Helper()
	connStr := os.Getenv(testDBURLKey)
	if connStr == "" {
		t.Skipf("set %s to a dedicated test database", testDBURLKey)
	}
	return connStr
}

// setupTestPool migrates the test database and empties every mutable table. The
// seeded status and priority catalog is kept.
func setupTestPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	connStr := getTestDatabaseURL(t)
	require.NoError(t, persistence.RunMigrations(connStr, zap.NewNop()))

	pool, err := pgxpool.New(context.Background(), connStr)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	_, err = pool.Exec(context.Background(), `TRUNCATE ticket_history, comments, tickets, users`)
	require.NoError(t, err)
	return pool
}

func createTestUser(t *testing.T, pool *pgxpool.Pool, name string) *domain.User {
	t.Helper()
	email := name + "@resolvely.test"
	user := &domain.User{Name: &name, Email: &email}
	require.NoError(t, NewUserRepository(pool).Create(context.Background(), user))
	return user
}

func createTestTicket(t *testing.T, pool *pgxpool.Pool, title string, creator *domain.User) *domain.Ticket {
	t.Helper()
	ticket := &domain.Ticket{
		Title:    title,
		Status:   domain.Status{ID: domain.DefaultStatusID},
		Priority: domain.Priority{ID: domain.DefaultPriorityID},
		Creator:  creator,
	}
	require.NoError(t, NewTicketRepository(pool).Create(context.Background(), ticket))
	return ticket
}

func strPtr(s string) *string { return &s }
