package sqlstore_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Rrens/fitness-coach/internal/config"
	"github.com/Rrens/fitness-coach/internal/repository/repotest"
	"github.com/Rrens/fitness-coach/internal/repository/sqlstore"
)

func TestSQLiteStore(t *testing.T) {
	ctx := context.Background()

	store, err := sqlstore.Open(ctx, config.DatabaseConfig{Driver: "sqlite", Database: ":memory:"})
	require.NoError(t, err)
	defer store.Close(ctx)

	repotest.Run(t, store)
}

func TestSQLiteStore_File(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "coach.db")

	db, err := sqlstore.New(ctx, "sqlite", path)
	require.NoError(t, err)

	user := repotest.NewUser()
	require.NoError(t, db.Store().Users.Create(ctx, user))
	require.NoError(t, db.Close())

	// Reopening keeps data and tolerates the existing schema.
	db, err = sqlstore.New(ctx, "sqlite", path)
	require.NoError(t, err)
	defer db.Close()

	got, err := db.Store().Users.GetByEmail(ctx, user.Email)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, user.ID, got.ID)
}

func TestNew_UnsupportedDriver(t *testing.T) {
	_, err := sqlstore.New(context.Background(), "oracle", "")
	assert.ErrorContains(t, err, "unsupported")
}

// Requires a scratch schema, e.g.
// TEST_MYSQL_DSN=fitness:secret@tcp(localhost:3306)/fitness_test
func TestMySQLStore(t *testing.T) {
	dsn := os.Getenv("TEST_MYSQL_DSN")
	if dsn == "" {
		t.Skip("TEST_MYSQL_DSN not set")
	}

	ctx := context.Background()
	store, err := sqlstore.Open(ctx, config.DatabaseConfig{Driver: "mysql", URL: dsn})
	require.NoError(t, err)
	defer store.Close(ctx)

	repotest.Run(t, store)
}
