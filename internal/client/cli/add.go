package cli

import (
	"context"
	"fmt"
	"os"
)

// Add interactively creates a bookmark.
func (a *App) Add(ctx context.Context) error {
	url, err := GetSimpleText(a.reader, "URL", os.Stdout)
	if err != nil {
		return err
	}
	title, err := GetSimpleText(a.reader, "Title (empty to reuse the URL)", os.Stdout)
	if err != nil {
		return err
	}
	folder, err := GetSimpleText(a.reader, "Folder (optional)", os.Stdout)
	if err != nil {
		return err
	}

	item, err := a.bookmarkService.Add(ctx, url, title, "", folder)
	if err != nil {
		fmt.Println(err)
		return err
	}
	fmt.Println("Added", item.Id)
	return nil
}
