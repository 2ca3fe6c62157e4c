package cli

import (
	"bufio"
	"context"
	"os"

	"github.com/dpetrovs/marksync/internal/client/client"
	"github.com/dpetrovs/marksync/internal/client/config"
	"github.com/dpetrovs/marksync/internal/client/scheduler"
	"github.com/dpetrovs/marksync/internal/client/services"
	"github.com/dpetrovs/marksync/internal/logging"

	_ "modernc.org/sqlite"
)

// App holds the wired client services behind the REPL commands.
type App struct {
	config *config.Config
	remote client.Client
	logger logging.Logger

	syncService     services.SyncService
	bookmarkService services.BookmarkService
	shortcutService services.ShortcutService
	scheduleService services.ScheduleService

	userName string
	reader   *bufio.Reader
}

// NewApp opens the local store, connects the remote store client and wires
// the services.
func NewApp(c *config.Config, logger logging.Logger) (*App, error) {
	ctx := context.Background()

	repos, err := client.InitDatabase(ctx, c.DatabaseDSN, nil)
	if err != nil {
		logger.Error(ctx, "error initializing database", "error", err)
		return nil, err
	}

	remote := client.NewRESTClient(c.ServerEndpointURL, c.APIKey, c.RequestTimeout)
	sched := scheduler.Noop{}

	return &App{
		config:          c,
		remote:          remote,
		logger:          logger,
		syncService:     services.NewSyncService(remote, repos, sched, logger, c.MinAutoSyncInterval),
		bookmarkService: services.NewBookmarkService(repos),
		shortcutService: services.NewShortcutService(repos),
		scheduleService: services.NewScheduleService(repos, sched, logger),
		reader:          bufio.NewReader(os.Stdin),
	}, nil
}

func (a *App) Run(ctx context.Context) {
	defer a.remote.Close()
	a.Root(ctx)
}

func (a *App) isLoggedIn() bool {
	return a.userName != ""
}
