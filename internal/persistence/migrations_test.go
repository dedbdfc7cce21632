package persistence

import (
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrationURL(t *testing.T) {
	assert.Equal(t, "pgx5://u:p@localhost:5432/db?sslmode=disable", migrationURL("postgres://u:p@localhost:5432/db?sslmode=disable"))
	assert.Equal(t, "pgx5://localhost/db", migrationURL("postgresql://localhost/db"))
	assert.Equal(t, "pgx5://already", migrationURL("pgx5://already"))
}

func TestEmbeddedMigrationsArePaired(t *testing.T) {
	entries, err := fs.ReadDir(migrationFiles, "migrations")
	require.NoError(t, err)

	names := map[string]bool{}
	for _, e := range entries {
		names[e.Name()] = true
	}
	for _, base := range []string{"0001_init", "0002_seed_catalog", "0003_ticket_history"} {
		assert.True(t, names[base+".up.sql"], base+" up")
		assert.True(t, names[base+".down.sql"], base+" down")
	}
}
