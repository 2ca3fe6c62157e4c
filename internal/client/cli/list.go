package cli

import (
	"context"
	"fmt"
	"time"
)

func (a *App) List(ctx context.Context) error {
	items, err := a.bookmarkService.List(ctx)
	if err != nil {
		fmt.Println(err)
		return err
	}

	if len(items) == 0 {
		fmt.Println("No bookmarks")
		return nil
	}
	for _, item := range items {
		folder := ""
		if item.Folder != "" {
			folder = " [" + item.Folder + "]"
		}
		fmt.Printf("%s  %s%s  %s\n", item.Id, item.Title, folder, item.URL)
	}
	return nil
}

func (a *App) ListTrash(ctx context.Context) error {
	items, err := a.bookmarkService.ListTrash(ctx)
	if err != nil {
		fmt.Println(err)
		return err
	}

	if len(items) == 0 {
		fmt.Println("Trash is empty")
		return nil
	}
	now := time.Now()
	for _, item := range items {
		state := "expired"
		if item.Restorable(now) {
			state = "restorable"
		}
		fmt.Printf("%s  %s  %s (%s)\n", item.Id, item.Title, item.URL, state)
	}
	return nil
}

func (a *App) ListShortcuts(ctx context.Context) error {
	items, err := a.shortcutService.List(ctx)
	if err != nil {
		fmt.Println(err)
		return err
	}

	if len(items) == 0 {
		fmt.Println("No shortcuts")
		return nil
	}
	for _, item := range items {
		state := ""
		if item.Dormant {
			state = " (dormant)"
		}
		fmt.Printf("%s  %s %s%s\n", item.Id, item.Kind.Icon(), item.Label, state)
	}
	return nil
}

func (a *App) ListSchedules(ctx context.Context) error {
	items, err := a.scheduleService.List(ctx)
	if err != nil {
		fmt.Println(err)
		return err
	}

	if len(items) == 0 {
		fmt.Println("No scheduled actions")
		return nil
	}
	for _, item := range items {
		state := "disabled"
		if item.Enabled {
			state = "enabled"
		}
		fmt.Printf("%s  %s  %s %s (%s, %s)\n", item.Id, item.Name,
			item.TriggerAt.Format("2006-01-02 15:04"), string(item.Recurrence), string(item.Destination.Kind), state)
	}
	return nil
}
