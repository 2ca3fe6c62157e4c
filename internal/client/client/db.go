package client

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dpetrovs/marksync/internal/client/migrations"
	"github.com/dpetrovs/marksync/internal/client/repositories/bookmarks"
	"github.com/dpetrovs/marksync/internal/client/repositories/metadata"
	"github.com/dpetrovs/marksync/internal/client/repositories/schedules"
	"github.com/dpetrovs/marksync/internal/client/repositories/shortcuts"
	"github.com/dpetrovs/marksync/internal/client/repositories/tombstones"
	"github.com/dpetrovs/marksync/internal/client/repositories/trash"
	"github.com/pressly/goose/v3"
)

// Repositories bundles the local store collections.
type Repositories struct {
	Bookmarks  bookmarks.Repository
	Trash      trash.Repository
	Shortcuts  shortcuts.Repository
	Schedules  schedules.Repository
	Tombstones tombstones.Repository
	Metadata   metadata.Repository
}

// RunMigrations brings the local schema up to date using the embedded
// goose migrations.
func RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)

	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}

	return goose.UpContext(ctx, db, ".")
}

// InitDatabase opens the local SQLite store at dsn, runs migrations and
// wires the repositories. onChange, when non-nil, is installed as the
// batch-write change notification hook on every entity collection.
func InitDatabase(ctx context.Context, dsn string, onChange func(ctx context.Context)) (*Repositories, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}

	if err := RunMigrations(ctx, db); err != nil {
		return nil, err
	}

	bookmarkRepo := bookmarks.NewSQLiteRepository(db)
	trashRepo := trash.NewSQLiteRepository(db)
	shortcutRepo := shortcuts.NewSQLiteRepository(db)
	scheduleRepo := schedules.NewSQLiteRepository(db)
	if onChange != nil {
		bookmarkRepo.OnChange = onChange
		trashRepo.OnChange = onChange
		shortcutRepo.OnChange = onChange
		scheduleRepo.OnChange = onChange
	}

	return &Repositories{
		Bookmarks:  bookmarkRepo,
		Trash:      trashRepo,
		Shortcuts:  shortcutRepo,
		Schedules:  scheduleRepo,
		Tombstones: tombstones.NewSQLiteRepository(db),
		Metadata:   metadata.NewSQLiteRepository(db),
	}, nil
}
