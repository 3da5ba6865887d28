package account

import (
	"errors"
	"fmt"
	"strings"
)

// PoolCount is the fixed number of historical dish pools per account, one per
// uploaded reference menu.
const PoolCount = 4

// ErrProfileInvalid signals a profile that cannot drive a generation run.
var ErrProfileInvalid = errors.New("account profile invalid")

// Profile holds the per-account dish-count configuration and the historical
// dish pools. Read-only to the generation core.
type Profile struct {
	AccountID     string     `json:"account_id"`
	HotDishCount  int        `json:"hot_dish_count"`
	ColdDishCount int        `json:"cold_dish_count"`
	Pools         [][]string `json:"pools"`
}

// Validate checks the profile invariants: positive dish counts, exactly four
// pools, and every pool non-empty with non-blank dish names once trimmed.
func (p *Profile) Validate() error {
	if p.HotDishCount < 1 || p.ColdDishCount < 1 {
		return fmt.Errorf("%w: dish counts must be at least 1 (hot=%d cold=%d)",
			ErrProfileInvalid, p.HotDishCount, p.ColdDishCount)
	}
	if len(p.Pools) != PoolCount {
		return fmt.Errorf("%w: expected %d historical pools, got %d",
			ErrProfileInvalid, PoolCount, len(p.Pools))
	}
	for i, pool := range p.Pools {
		if len(pool) == 0 {
			return fmt.Errorf("%w: pool %d is empty", ErrProfileInvalid, i+1)
		}
		for _, dish := range pool {
			if strings.TrimSpace(dish) == "" {
				return fmt.Errorf("%w: pool %d contains a blank dish name", ErrProfileInvalid, i+1)
			}
		}
	}
	return nil
}

// TrimmedPools returns a copy of the pools with every dish name trimmed.
func (p *Profile) TrimmedPools() [][]string {
	out := make([][]string, len(p.Pools))
	for i, pool := range p.Pools {
		out[i] = make([]string, len(pool))
		for j, dish := range pool {
			out[i][j] = strings.TrimSpace(dish)
		}
	}
	return out
}
