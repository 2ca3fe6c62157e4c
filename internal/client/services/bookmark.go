package services

import (
	"context"
	"fmt"
	"time"

	"github.com/dpetrovs/marksync/internal/client/client"
	"github.com/dpetrovs/marksync/internal/client/models"
	"github.com/dpetrovs/marksync/internal/common"
	"github.com/google/uuid"
)

// DefaultRetentionDays is how long a trashed bookmark stays restorable.
const DefaultRetentionDays = 30

// BookmarkService covers the local bookmark/trash mutations. Permanent
// deletions record their tombstone synchronously, so the next sync cycle
// sees pending deletions as a closed snapshot.
type BookmarkService interface {
	Add(ctx context.Context, url, title, description, folder string) (*models.Bookmark, error)
	List(ctx context.Context) ([]models.Bookmark, error)

	// MoveToTrash permanently removes the bookmark from its collection,
	// records its tombstone and creates an independent trash item.
	MoveToTrash(ctx context.Context, id string) (*models.TrashItem, error)

	ListTrash(ctx context.Context) ([]models.TrashItem, error)

	// PurgeTrash permanently removes a trash item and records its tombstone.
	PurgeTrash(ctx context.Context, id string) error
}

type bookmarkService struct {
	repos *client.Repositories
	now   func() time.Time
}

func NewBookmarkService(repos *client.Repositories) BookmarkService {
	return &bookmarkService{repos: repos, now: time.Now}
}

func (s *bookmarkService) Add(ctx context.Context, url, title, description, folder string) (*models.Bookmark, error) {
	if url == "" {
		return nil, fmt.Errorf("bookmark url is required")
	}
	if title == "" {
		title = url
	}

	item := models.Bookmark{
		Id:          uuid.NewString(),
		URL:         url,
		Title:       title,
		Description: description,
		Folder:      folder,
		CreatedAt:   s.now().UTC(),
	}

	existing, err := s.repos.Bookmarks.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read bookmarks: %w", err)
	}
	if err := s.repos.Bookmarks.ReplaceAll(ctx, append(existing, item)); err != nil {
		return nil, fmt.Errorf("failed to save bookmark: %w", err)
	}
	return &item, nil
}

func (s *bookmarkService) List(ctx context.Context) ([]models.Bookmark, error) {
	return s.repos.Bookmarks.GetAll(ctx)
}

func (s *bookmarkService) MoveToTrash(ctx context.Context, id string) (*models.TrashItem, error) {
	existing, err := s.repos.Bookmarks.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read bookmarks: %w", err)
	}

	keep := existing[:0:0]
	var found *models.Bookmark
	for _, item := range existing {
		if item.Id == id {
			b := item
			found = &b
			continue
		}
		keep = append(keep, item)
	}
	if found == nil {
		return nil, common.ErrNotFound
	}

	trashItem := models.TrashItem{
		Id:            uuid.NewString(),
		URL:           found.URL,
		Title:         found.Title,
		Description:   found.Description,
		Folder:        found.Folder,
		DeletedAt:     s.now().UTC(),
		RetentionDays: DefaultRetentionDays,
	}

	trashItems, err := s.repos.Trash.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read trash: %w", err)
	}
	if err := s.repos.Trash.ReplaceAll(ctx, append(trashItems, trashItem)); err != nil {
		return nil, fmt.Errorf("failed to save trash item: %w", err)
	}

	if err := s.repos.Bookmarks.ReplaceAll(ctx, keep); err != nil {
		return nil, fmt.Errorf("failed to remove bookmark: %w", err)
	}
	// Recorded before the next sync cycle runs, so the remote row cannot
	// resurrect the bookmark.
	if err := s.repos.Tombstones.Record(ctx, models.EntityTypeBookmark, id); err != nil {
		return nil, err
	}

	return &trashItem, nil
}

func (s *bookmarkService) ListTrash(ctx context.Context) ([]models.TrashItem, error) {
	return s.repos.Trash.GetAll(ctx)
}

func (s *bookmarkService) PurgeTrash(ctx context.Context, id string) error {
	existing, err := s.repos.Trash.GetAll(ctx)
	if err != nil {
		return fmt.Errorf("failed to read trash: %w", err)
	}

	keep := existing[:0:0]
	found := false
	for _, item := range existing {
		if item.Id == id {
			found = true
			continue
		}
		keep = append(keep, item)
	}
	if !found {
		return common.ErrNotFound
	}

	if err := s.repos.Trash.ReplaceAll(ctx, keep); err != nil {
		return fmt.Errorf("failed to remove trash item: %w", err)
	}
	return s.repos.Tombstones.Record(ctx, models.EntityTypeTrash, id)
}
