package trash

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

	OnChange func(ctx context.Context)
}

func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) GetAll(ctx context.Context) ([]models.TrashItem, error) {
	query := `SELECT id, url, title, description, folder, deleted_at, retention_days FROM trash_items ORDER BY deleted_at`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to select trash items: %w", err)
	}
	defer rows.Close()

	var result []models.TrashItem
	for rows.Next() {
		var item models.TrashItem
		var deletedAt string
		if err := rows.Scan(&item.Id, &item.URL, &item.Title, &item.Description, &item.Folder, &deletedAt, &item.RetentionDays); err != nil {
			return nil, err
		}
		if item.DeletedAt, err = time.Parse(time.RFC3339Nano, deletedAt); err != nil {
			return nil, fmt.Errorf("failed to parse trash deleted_at: %w", err)
		}
		result = append(result, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *SQLiteRepository) ReplaceAll(ctx context.Context, items []models.TrashItem) error {
	err := dbx.WithTx(ctx, r.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM trash_items`); err != nil {
			return err
		}
		query := `INSERT INTO trash_items (id, url, title, description, folder, deleted_at, retention_days) VALUES (?, ?, ?, ?, ?, ?, ?)`
		for _, item := range items {
			_, err := tx.ExecContext(ctx, query,
				item.Id, item.URL, item.Title, item.Description, item.Folder,
				item.DeletedAt.UTC().Format(time.RFC3339Nano), item.RetentionDays)
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to replace trash items: %w", err)
	}
	if r.OnChange != nil {
		r.OnChange(ctx)
	}
	return nil
}
