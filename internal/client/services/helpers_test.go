package services

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/dpetrovs/marksync/internal/client/client"
	"github.com/dpetrovs/marksync/internal/client/models"
	"github.com/dpetrovs/marksync/internal/client/repositories/bookmarks"
	"github.com/dpetrovs/marksync/internal/client/repositories/metadata"
	"github.com/dpetrovs/marksync/internal/client/repositories/schedules"
	"github.com/dpetrovs/marksync/internal/client/repositories/shortcuts"
	"github.com/dpetrovs/marksync/internal/client/repositories/tombstones"
	"github.com/dpetrovs/marksync/internal/client/repositories/trash"
	"github.com/dpetrovs/marksync/internal/logging"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

func testLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

// setupRepos opens a fresh in-memory store with the real schema. name must
// be unique per test so shared-cache databases do not leak between tests.
func setupRepos(t *testing.T, name string) *client.Repositories {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	db, err := sql.Open("sqlite", dsn)
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, client.RunMigrations(context.Background(), db))

	return &client.Repositories{
		Bookmarks:  bookmarks.NewSQLiteRepository(db),
		Trash:      trash.NewSQLiteRepository(db),
		Shortcuts:  shortcuts.NewSQLiteRepository(db),
		Schedules:  schedules.NewSQLiteRepository(db),
		Tombstones: tombstones.NewSQLiteRepository(db),
		Metadata:   metadata.NewSQLiteRepository(db),
	}
}

func rowKey(entityType models.EntityType, entityID string) string {
	return string(entityType) + "|" + entityID
}

// fakeRemote is an in-memory client.Client. Error hooks, when set, are
// consulted before the operation takes effect.
type fakeRemote struct {
	mu sync.Mutex

	user    *models.User
	userErr error

	rows       map[string]client.Row
	tombstones map[string]models.Tombstone

	upsertErr     func(row client.Row) error
	listErr       func(entityType models.EntityType) error
	deleteErr     func(entityType models.EntityType, entityID string) error
	tombUpsertErr func(t models.Tombstone) error
	tombListErr   error

	upserts int
}

func newFakeRemote() *fakeRemote {
	return &fakeRemote{
		user:       &models.User{Id: "user-1"},
		rows:       make(map[string]client.Row),
		tombstones: make(map[string]models.Tombstone),
	}
}

func (f *fakeRemote) Close() error { return nil }

func (f *fakeRemote) SetAccessToken(token string) {}

func (f *fakeRemote) CurrentUser(ctx context.Context) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.userErr != nil {
		return nil, f.userErr
	}
	return f.user, nil
}

func (f *fakeRemote) Upsert(ctx context.Context, row client.Row) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.upsertErr != nil {
		if err := f.upsertErr(row); err != nil {
			return err
		}
	}
	f.rows[rowKey(row.EntityType, row.EntityID)] = row
	f.upserts++
	return nil
}

func (f *fakeRemote) List(ctx context.Context, entityType models.EntityType) ([]client.Row, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		if err := f.listErr(entityType); err != nil {
			return nil, err
		}
	}
	var out []client.Row
	for _, row := range f.rows {
		if row.EntityType == entityType {
			out = append(out, row)
		}
	}
	return out, nil
}

func (f *fakeRemote) Delete(ctx context.Context, entityType models.EntityType, entityID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.deleteErr != nil {
		if err := f.deleteErr(entityType, entityID); err != nil {
			return err
		}
	}
	delete(f.rows, rowKey(entityType, entityID))
	return nil
}

func (f *fakeRemote) UpsertTombstone(ctx context.Context, t models.Tombstone) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.tombUpsertErr != nil {
		if err := f.tombUpsertErr(t); err != nil {
			return err
		}
	}
	f.tombstones[rowKey(t.EntityType, t.EntityID)] = t
	return nil
}

func (f *fakeRemote) ListTombstones(ctx context.Context) ([]models.Tombstone, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.tombListErr != nil {
		return nil, f.tombListErr
	}
	var out []models.Tombstone
	for _, t := range f.tombstones {
		out = append(out, t)
	}
	return out, nil
}

func (f *fakeRemote) hasRow(entityType models.EntityType, entityID string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.rows[rowKey(entityType, entityID)]
	return ok
}

// fakeScheduler records trigger installs and cancellations.
type fakeScheduler struct {
	mu        sync.Mutex
	scheduled []string
	cancelled []string
}

func (f *fakeScheduler) Schedule(ctx context.Context, id string, name string, at time.Time, recurrence models.Recurrence) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.scheduled = append(f.scheduled, id)
	return nil
}

func (f *fakeScheduler) Cancel(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cancelled = append(f.cancelled, id)
	return nil
}

func newTestEngine(t *testing.T, name string) (*engine, *fakeRemote, *fakeScheduler, *client.Repositories) {
	t.Helper()
	repos := setupRepos(t, name)
	remote := newFakeRemote()
	sched := &fakeScheduler{}
	e := &engine{
		remote: remote,
		repos:  repos,
		sched:  sched,
		logger: testLogger(),
		now:    time.Now,
	}
	return e, remote, sched, repos
}
