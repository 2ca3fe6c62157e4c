package tombstones

import (
	"context"
	"database/sql"
	"testing"

	"github.com/dpetrovs/marksync/internal/client/models"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", "file:tombstones_tests?mode=memory&cache=shared")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`
CREATE TABLE IF NOT EXISTS pending_deletions (
  entity_type TEXT NOT NULL,
  entity_id TEXT NOT NULL,
  PRIMARY KEY (entity_type, entity_id)
);
DELETE FROM pending_deletions;
`)
	require.NoError(t, err)
	return db
}

func TestRecord_Idempotent(t *testing.T) {
	db := setupDB(t)
	repo := NewSQLiteRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Record(ctx, models.EntityTypeBookmark, "b-1"))
	require.NoError(t, repo.Record(ctx, models.EntityTypeBookmark, "b-1"))
	require.NoError(t, repo.Record(ctx, models.EntityTypeShortcut, "b-1"))

	got, err := repo.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, got, 2)
}

func TestClearProcessed_LeavesRestPending(t *testing.T) {
	db := setupDB(t)
	repo := NewSQLiteRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Record(ctx, models.EntityTypeBookmark, "b-1"))
	require.NoError(t, repo.Record(ctx, models.EntityTypeBookmark, "b-2"))
	require.NoError(t, repo.Record(ctx, models.EntityTypeTrash, "t-1"))

	require.NoError(t, repo.ClearProcessed(ctx, []models.Tombstone{
		{EntityType: models.EntityTypeBookmark, EntityID: "b-1"},
	}))

	got, err := repo.GetAll(ctx)
	require.NoError(t, err)
	require.ElementsMatch(t, []models.Tombstone{
		{EntityType: models.EntityTypeBookmark, EntityID: "b-2"},
		{EntityType: models.EntityTypeTrash, EntityID: "t-1"},
	}, got)
}

func TestClearAll(t *testing.T) {
	db := setupDB(t)
	repo := NewSQLiteRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Record(ctx, models.EntityTypeSchedule, "s-1"))
	require.NoError(t, repo.ClearAll(ctx))

	got, err := repo.GetAll(ctx)
	require.NoError(t, err)
	require.Empty(t, got)
}
