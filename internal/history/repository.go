package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"canteen-menu-planner/internal/menu"
)

// RetentionCount is the number of most-recent generation records kept per
// account.
const RetentionCount = 4

// Record is one persisted generation result.
type Record struct {
	ID        string
	AccountID string
	Menu      menu.WeekMenu
	Request   menu.GenerationRequest
	CreatedAt time.Time
}

// Repository is a database-backed store for generation records with a fixed
// retention window.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a new Repository.
func NewRepository(d *sql.DB) *Repository {
	return &Repository{db: d}
}

// Save inserts a new generation record.
func (r *Repository) Save(ctx context.Context, rec *Record) error {
	menuJSON, err := json.Marshal(rec.Menu)
	if err != nil {
		return fmt.Errorf("failed to marshal menu: %w", err)
	}
	reqJSON, err := json.Marshal(rec.Request)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO generated_menus (id, account_id, menu_json, request_json, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		rec.ID, rec.AccountID, string(menuJSON), string(reqJSON), rec.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to save generation record: %w", err)
	}
	return nil
}

// ListRecent retrieves up to limit records for an account, newest first.
func (r *Repository) ListRecent(ctx context.Context, accountID string, limit int) ([]Record, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, menu_json, request_json, created_at
		   FROM generated_menus
		  WHERE account_id = ?
		  ORDER BY created_at DESC, rowid DESC
		  LIMIT ?`, accountID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list records for account %s: %w", accountID, err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		rec := Record{AccountID: accountID}
		var menuJSON, reqJSON string
		if err := rows.Scan(&rec.ID, &menuJSON, &reqJSON, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan record: %w", err)
		}
		if err := json.Unmarshal([]byte(menuJSON), &rec.Menu); err != nil {
			return nil, fmt.Errorf("failed to unmarshal menu for record %s: %w", rec.ID, err)
		}
		if err := json.Unmarshal([]byte(reqJSON), &rec.Request); err != nil {
			return nil, fmt.Errorf("failed to unmarshal request for record %s: %w", rec.ID, err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// TrimRetention deletes every record for the account beyond the retention
// window, keeping only the newest ones by creation time (rowid breaks ties).
// Deleting already-deleted rows is a no-op, so the trim is idempotent and safe
// to run concurrently with another trim for the same account.
func (r *Repository) TrimRetention(ctx context.Context, accountID string) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM generated_menus
		  WHERE account_id = ?
		    AND id NOT IN (
		        SELECT id FROM generated_menus
		         WHERE account_id = ?
		         ORDER BY created_at DESC, rowid DESC
		         LIMIT ?)`,
		accountID, accountID, RetentionCount)
	if err != nil {
		return fmt.Errorf("failed to trim retention for account %s: %w", accountID, err)
	}
	return nil
}

// Count returns the number of stored records for an account.
func (r *Repository) Count(ctx context.Context, accountID string) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM generated_menus WHERE account_id = ?`, accountID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count records for account %s: %w", accountID, err)
	}
	return n, nil
}
