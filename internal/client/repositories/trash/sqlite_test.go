package trash

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/dpetrovs/marksync/internal/client/models"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", "file:trash_tests?mode=memory&cache=shared")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`
CREATE TABLE IF NOT EXISTS trash_items (
  id TEXT PRIMARY KEY,
  url TEXT NOT NULL,
  title TEXT NOT NULL,
  description TEXT NOT NULL DEFAULT '',
  folder TEXT NOT NULL DEFAULT '',
  deleted_at TEXT NOT NULL,
  retention_days INTEGER NOT NULL DEFAULT 30
);
DELETE FROM trash_items;
`)
	require.NoError(t, err)
	return db
}

func TestReplaceAll_GetAll_RoundTrip(t *testing.T) {
	db := setupDB(t)
	repo := NewSQLiteRepository(db)
	ctx := context.Background()

	deleted := time.Date(2025, 3, 10, 14, 0, 0, 0, time.UTC)
	items := []models.TrashItem{
		{Id: "t-1", URL: "https://old.example", Title: "Old", DeletedAt: deleted, RetentionDays: 30},
		{Id: "t-2", URL: "https://older.example", Title: "Older", Folder: "misc", DeletedAt: deleted.Add(time.Hour), RetentionDays: 7},
	}

	require.NoError(t, repo.ReplaceAll(ctx, items))

	got, err := repo.GetAll(ctx)
	require.NoError(t, err)
	require.Equal(t, items, got)
}

func TestReplaceAll_EmptySliceClearsTable(t *testing.T) {
	db := setupDB(t)
	repo := NewSQLiteRepository(db)
	ctx := context.Background()

	now := time.Now().UTC().Truncate(time.Second)
	require.NoError(t, repo.ReplaceAll(ctx, []models.TrashItem{
		{Id: "t-1", URL: "https://old.example", Title: "Old", DeletedAt: now, RetentionDays: 30},
	}))
	require.NoError(t, repo.ReplaceAll(ctx, nil))

	got, err := repo.GetAll(ctx)
	require.NoError(t, err)
	require.Empty(t, got)
}
