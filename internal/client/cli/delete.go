package cli

import (
	"context"
	"fmt"
	"os"
)

// Delete moves a bookmark to the trash.
func (a *App) Delete(ctx context.Context) error {
	id, err := GetSimpleText(a.reader, "Bookmark id", os.Stdout)
	if err != nil {
		return err
	}

	item, err := a.bookmarkService.MoveToTrash(ctx, id)
	if err != nil {
		fmt.Println(err)
		return err
	}
	fmt.Println("Moved to trash as", item.Id)
	return nil
}

// Purge permanently removes a trash item.
func (a *App) Purge(ctx context.Context) error {
	id, err := GetSimpleText(a.reader, "Trash item id", os.Stdout)
	if err != nil {
		return err
	}

	if err := a.bookmarkService.PurgeTrash(ctx, id); err != nil {
		fmt.Println(err)
		return err
	}
	fmt.Println("Purged", id)
	return nil
}
