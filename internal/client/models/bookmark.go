package models

import "time"

// Bookmark is a saved link. Id is generated on the device at creation time
// and is the only identity that ever crosses the device/remote boundary.
type Bookmark struct {
	Id          string    `json:"id"`
	URL         string    `json:"url"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Folder      string    `json:"folder,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// TrashItem is a soft-deleted bookmark. It has its own entity id and is
// fully independent of the bookmark it was created from: restoring or
// purging it never touches the bookmarks collection's sync state.
type TrashItem struct {
	Id            string    `json:"id"`
	URL           string    `json:"url"`
	Title         string    `json:"title"`
	Description   string    `json:"description,omitempty"`
	Folder        string    `json:"folder,omitempty"`
	DeletedAt     time.Time `json:"deleted_at"`
	RetentionDays int       `json:"retention_days"`
}

// Restorable reports whether the item is still within its retention window.
func (t TrashItem) Restorable(now time.Time) bool {
	if t.RetentionDays <= 0 {
		return false
	}
	return now.Before(t.DeletedAt.AddDate(0, 0, t.RetentionDays))
}
