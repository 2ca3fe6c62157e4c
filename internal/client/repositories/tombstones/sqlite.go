package tombstones

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dpetrovs/marksync/internal/client/models"
	"github.com/dpetrovs/marksync/internal/dbx"
)

// SQLiteRepository implements Repository on a local SQLite database.
type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Record(ctx context.Context, entityType models.EntityType, entityID string) error {
	query := `INSERT INTO pending_deletions (entity_type, entity_id) VALUES (?, ?)
		ON CONFLICT(entity_type, entity_id) DO NOTHING`
	if _, err := r.db.ExecContext(ctx, query, string(entityType), entityID); err != nil {
		return fmt.Errorf("failed to record pending deletion: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) GetAll(ctx context.Context) ([]models.Tombstone, error) {
	query := `SELECT entity_type, entity_id FROM pending_deletions ORDER BY entity_type, entity_id`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to select pending deletions: %w", err)
	}
	defer rows.Close()

	var result []models.Tombstone
	for rows.Next() {
		var item models.Tombstone
		if err := rows.Scan(&item.EntityType, &item.EntityID); err != nil {
			return nil, err
		}
		result = append(result, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *SQLiteRepository) ClearAll(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM pending_deletions`); err != nil {
		return fmt.Errorf("failed to clear pending deletions: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) ClearProcessed(ctx context.Context, processed []models.Tombstone) error {
	if len(processed) == 0 {
		return nil
	}
	err := dbx.WithTx(ctx, r.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		query := `DELETE FROM pending_deletions WHERE entity_type = ? AND entity_id = ?`
		for _, t := range processed {
			if _, err := tx.ExecContext(ctx, query, string(t.EntityType), t.EntityID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to clear processed deletions: %w", err)
	}
	return nil
}
