package schedules

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/dpetrovs/marksync/internal/client/models"
	"github.com/dpetrovs/marksync/internal/dbx"
)

// SQLiteRepository implements Repository on a local SQLite database.
// The destination union is stored as a JSON column.
type SQLiteRepository struct {
	db *sql.DB

	OnChange func(ctx context.Context)
}

func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) GetAll(ctx context.Context) ([]models.ScheduledAction, error) {
	query := `SELECT id, name, description, destination, trigger_at, recurrence, anchor, enabled, created_at
		FROM scheduled_actions ORDER BY created_at`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to select scheduled actions: %w", err)
	}
	defer rows.Close()

	var result []models.ScheduledAction
	for rows.Next() {
		var item models.ScheduledAction
		var destination, triggerAt, createdAt string
		var anchor sql.NullString
		var enabled int
		if err := rows.Scan(&item.Id, &item.Name, &item.Description, &destination,
			&triggerAt, &item.Recurrence, &anchor, &enabled, &createdAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(destination), &item.Destination); err != nil {
			return nil, fmt.Errorf("failed to decode destination: %w", err)
		}
		if item.TriggerAt, err = time.Parse(time.RFC3339Nano, triggerAt); err != nil {
			return nil, fmt.Errorf("failed to parse trigger_at: %w", err)
		}
		if anchor.Valid {
			parsed, err := time.Parse(time.RFC3339Nano, anchor.String)
			if err != nil {
				return nil, fmt.Errorf("failed to parse anchor: %w", err)
			}
			item.Anchor = &parsed
		}
		item.Enabled = enabled != 0
		if item.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt); err != nil {
			return nil, fmt.Errorf("failed to parse created_at: %w", err)
		}
		result = append(result, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *SQLiteRepository) ReplaceAll(ctx context.Context, items []models.ScheduledAction) error {
	err := dbx.WithTx(ctx, r.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM scheduled_actions`); err != nil {
			return err
		}
		query := `INSERT INTO scheduled_actions (id, name, description, destination, trigger_at, recurrence, anchor, enabled, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
		for _, item := range items {
			destination, err := json.Marshal(item.Destination)
			if err != nil {
				return fmt.Errorf("failed to encode destination: %w", err)
			}
			var anchor any
			if item.Anchor != nil {
				anchor = item.Anchor.UTC().Format(time.RFC3339Nano)
			}
			enabled := 0
			if item.Enabled {
				enabled = 1
			}
			_, err = tx.ExecContext(ctx, query,
				item.Id, item.Name, item.Description, string(destination),
				item.TriggerAt.UTC().Format(time.RFC3339Nano), string(item.Recurrence),
				anchor, enabled, item.CreatedAt.UTC().Format(time.RFC3339Nano))
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to replace scheduled actions: %w", err)
	}
	if r.OnChange != nil {
		r.OnChange(ctx)
	}
	return nil
}
