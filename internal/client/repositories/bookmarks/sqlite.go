package bookmarks

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/dpetrovs/marksync/internal/client/models"
	"github.com/dpetrovs/marksync/internal/dbx"
)

// SQLiteRepository implements Repository on a local SQLite database.
type SQLiteRepository struct {
	db *sql.DB

	// OnChange, when set, is called after every committed batch write so
	// the UI layer can refresh.
	OnChange func(ctx context.Context)
}

func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) GetAll(ctx context.Context) ([]models.Bookmark, error) {
	query := `SELECT id, url, title, description, folder, created_at FROM bookmarks ORDER BY created_at`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to select bookmarks: %w", err)
	}
	defer rows.Close()

	var result []models.Bookmark
	for rows.Next() {
		var item models.Bookmark
		var createdAt string
		if err := rows.Scan(&item.Id, &item.URL, &item.Title, &item.Description, &item.Folder, &createdAt); err != nil {
			return nil, err
		}
		if item.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt); err != nil {
			return nil, fmt.Errorf("failed to parse bookmark created_at: %w", err)
		}
		result = append(result, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *SQLiteRepository) ReplaceAll(ctx context.Context, items []models.Bookmark) error {
	err := dbx.WithTx(ctx, r.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM bookmarks`); err != nil {
			return err
		}
		query := `INSERT INTO bookmarks (id, url, title, description, folder, created_at) VALUES (?, ?, ?, ?, ?, ?)`
		for _, item := range items {
			_, err := tx.ExecContext(ctx, query,
				item.Id, item.URL, item.Title, item.Description, item.Folder,
				item.CreatedAt.UTC().Format(time.RFC3339Nano))
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to replace bookmarks: %w", err)
	}
	if r.OnChange != nil {
		r.OnChange(ctx)
	}
	return nil
}
