package shortcuts

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

func (r *SQLiteRepository) GetAll(ctx context.Context) ([]models.Shortcut, error) {
	query := `SELECT id, kind, label, details, dormant, thumbnail, created_at FROM shortcuts ORDER BY created_at`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to select shortcuts: %w", err)
	}
	defer rows.Close()

	var result []models.Shortcut
	for rows.Next() {
		var item models.Shortcut
		var details, createdAt string
		var dormant int
		if err := rows.Scan(&item.Id, &item.Kind, &item.Label, &details, &dormant, &item.Thumbnail, &createdAt); err != nil {
			return nil, err
		}
		item.Details = []byte(details)
		item.Dormant = dormant != 0
		if item.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt); err != nil {
			return nil, fmt.Errorf("failed to parse shortcut created_at: %w", err)
		}
		result = append(result, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *SQLiteRepository) ReplaceAll(ctx context.Context, items []models.Shortcut) error {
	err := dbx.WithTx(ctx, r.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM shortcuts`); err != nil {
			return err
		}
		query := `INSERT INTO shortcuts (id, kind, label, details, dormant, thumbnail, created_at) VALUES (?, ?, ?, ?, ?, ?, ?)`
		for _, item := range items {
			dormant := 0
			if item.Dormant {
				dormant = 1
			}
			_, err := tx.ExecContext(ctx, query,
				item.Id, string(item.Kind), item.Label, string(item.Details), dormant, item.Thumbnail,
				item.CreatedAt.UTC().Format(time.RFC3339Nano))
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to replace shortcuts: %w", err)
	}
	if r.OnChange != nil {
		r.OnChange(ctx)
	}
	return nil
}
