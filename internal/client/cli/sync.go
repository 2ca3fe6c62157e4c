package cli

import (
	"context"
	"fmt"

	"github.com/dpetrovs/marksync/internal/client/services"
)

func printResult(res services.Result) {
	if res.Blocked {
		fmt.Println("Sync blocked:", res.BlockReason)
		return
	}
	if res.Err != nil {
		fmt.Println("Sync failed:", res.Err)
		return
	}
	fmt.Printf("Done: %d uploaded, %d downloaded\n", res.Uploaded, res.Downloaded)
}

func (a *App) Sync(ctx context.Context) error {
	res := a.syncService.Sync(ctx, services.TriggerManual)
	printResult(res)
	return res.Err
}

func (a *App) Upload(ctx context.Context) error {
	res := a.syncService.Upload(ctx)
	printResult(res)
	return res.Err
}

func (a *App) Download(ctx context.Context) error {
	res := a.syncService.Download(ctx)
	printResult(res)
	return res.Err
}

func (a *App) ShowStatus(ctx context.Context) error {
	status, err := a.syncService.Status(ctx)
	if err != nil {
		fmt.Println("could not load sync status:", err)
		return err
	}

	if status.LastSyncAt == nil {
		fmt.Println("Never synced")
	} else {
		fmt.Printf("Last sync: %s (%d uploaded, %d downloaded)\n",
			status.LastSyncAt.Format("2006-01-02 15:04:05"), status.LastUploaded, status.LastDownloaded)
	}
	if status.Pending {
		fmt.Println("Pending:", status.PendingReason)
	}
	if status.LastFailureAt != nil {
		fmt.Println("Last failure:", status.LastFailureAt.Format("2006-01-02 15:04:05"))
	}
	return nil
}
