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

// ShortcutService covers local shortcut mutations.
type ShortcutService interface {
	Add(ctx context.Context, shortcut models.Shortcut) (*models.Shortcut, error)
	List(ctx context.Context) ([]models.Shortcut, error)
	Delete(ctx context.Context, id string) error
}

type shortcutService struct {
	repos *client.Repositories
	now   func() time.Time
}

func NewShortcutService(repos *client.Repositories) ShortcutService {
	return &shortcutService{repos: repos, now: time.Now}
}

func (s *shortcutService) Add(ctx context.Context, shortcut models.Shortcut) (*models.Shortcut, error) {
	if _, err := shortcut.Unwrap(); err != nil {
		return nil, fmt.Errorf("invalid shortcut: %w", err)
	}

	shortcut.Id = uuid.NewString()
	shortcut.CreatedAt = s.now().UTC()

	existing, err := s.repos.Shortcuts.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read shortcuts: %w", err)
	}
	if err := s.repos.Shortcuts.ReplaceAll(ctx, append(existing, shortcut)); err != nil {
		return nil, fmt.Errorf("failed to save shortcut: %w", err)
	}
	return &shortcut, nil
}

func (s *shortcutService) List(ctx context.Context) ([]models.Shortcut, error) {
	return s.repos.Shortcuts.GetAll(ctx)
}

func (s *shortcutService) Delete(ctx context.Context, id string) error {
	existing, err := s.repos.Shortcuts.GetAll(ctx)
	if err != nil {
		return fmt.Errorf("failed to read shortcuts: %w", err)
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

	if err := s.repos.Shortcuts.ReplaceAll(ctx, keep); err != nil {
		return fmt.Errorf("failed to remove shortcut: %w", err)
	}
	return s.repos.Tombstones.Record(ctx, models.EntityTypeShortcut, id)
}
