package metadata

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", "file:metadata_tests?mode=memory&cache=shared")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`
CREATE TABLE IF NOT EXISTS metadata (
  key   TEXT PRIMARY KEY,
  value BLOB NOT NULL
);
DELETE FROM metadata;
`)
	require.NoError(t, err)
	return db
}

func TestSetGetOverwrite(t *testing.T) {
	repo := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	require.NoError(t, repo.Set(ctx, "k", []byte("v1")))
	require.NoError(t, repo.Set(ctx, "k", []byte("v2")))

	got, err := repo.Get(ctx, "k")
	require.NoError(t, err)
	require.Equal(t, []byte("v2"), got)
}

func TestGet_MissingKeyReturnsNil(t *testing.T) {
	repo := NewSQLiteRepository(setupDB(t))

	got, err := repo.Get(context.Background(), "absent")
	require.NoError(t, err)
	require.Nil(t, got)
}

func TestDeleteAndClear(t *testing.T) {
	repo := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	require.NoError(t, repo.Set(ctx, "a", []byte("1")))
	require.NoError(t, repo.Set(ctx, "b", []byte("2")))

	require.NoError(t, repo.Delete(ctx, "a"))
	got, err := repo.Get(ctx, "a")
	require.NoError(t, err)
	require.Nil(t, got)

	require.NoError(t, repo.Clear(ctx))
	got, err = repo.Get(ctx, "b")
	require.NoError(t, err)
	require.Nil(t, got)
}
