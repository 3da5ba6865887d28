package account

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"
)

// Repository is a database-backed store for account profiles.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a new Repository.
func NewRepository(d *sql.DB) *Repository {
	return &Repository{db: d}
}

// Get retrieves the profile for an account. Returns (nil, nil) when the
// account has no profile yet.
func (r *Repository) Get(ctx context.Context, accountID string) (*Profile, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT hot_dish_count, cold_dish_count, pools_json
		   FROM account_profiles WHERE account_id = ?`, accountID)

	p := Profile{AccountID: accountID}
	var poolsJSON string
	if err := row.Scan(&p.HotDishCount, &p.ColdDishCount, &poolsJSON); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get profile for account %s: %w", accountID, err)
	}

	if err := json.Unmarshal([]byte(poolsJSON), &p.Pools); err != nil {
		return nil, fmt.Errorf("failed to unmarshal pools for account %s: %w", accountID, err)
	}
	return &p, nil
}

// Save inserts or replaces the profile for an account.
func (r *Repository) Save(ctx context.Context, p *Profile) error {
	poolsJSON, err := json.Marshal(p.Pools)
	if err != nil {
		return fmt.Errorf("failed to marshal pools: %w", err)
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO account_profiles (account_id, hot_dish_count, cold_dish_count, pools_json, updated_at)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(account_id) DO UPDATE SET
		   hot_dish_count = excluded.hot_dish_count,
		   cold_dish_count = excluded.cold_dish_count,
		   pools_json = excluded.pools_json,
		   updated_at = excluded.updated_at`,
		p.AccountID, p.HotDishCount, p.ColdDishCount, string(poolsJSON), time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to save profile for account %s: %w", p.AccountID, err)
	}
	return nil
}

// UpdatePool replaces one historical pool (slot 0-3) of an existing profile.
func (r *Repository) UpdatePool(ctx context.Context, accountID string, slot int, dishes []string) error {
	if slot < 0 || slot >= PoolCount {
		return fmt.Errorf("pool slot %d out of range 0-%d", slot, PoolCount-1)
	}

	p, err := r.Get(ctx, accountID)
	if err != nil {
		return err
	}
	if p == nil {
		return fmt.Errorf("no profile exists for account %s", accountID)
	}

	for len(p.Pools) < PoolCount {
		p.Pools = append(p.Pools, []string{})
	}
	p.Pools[slot] = dishes
	return r.Save(ctx, p)
}
