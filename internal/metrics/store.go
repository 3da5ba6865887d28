package metrics

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// GenerationMetric records metadata for a single orchestrator run.
type GenerationMetric struct {
	Provider         string
	Model            string
	PromptTokens     int
	CompletionTokens int
	LatencyMS        int64
	Attempts         int
	Succeeded        bool
	Timestamp        time.Time
}

// Store handles persistence of generation metrics to SQLite.
type Store struct {
	db *sql.DB
}

// NewStore initializes the Store with an existing database connection.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// Record saves a metric to the database.
func (s *Store) Record(ctx context.Context, m GenerationMetric) error {
	ts := m.Timestamp
	if ts.IsZero() {
		ts = time.Now().UTC()
	}

	succeeded := 0
	if m.Succeeded {
		succeeded = 1
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO generation_metrics
		 (provider, model, prompt_tokens, completion_tokens, latency_ms, attempts, succeeded, timestamp)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		m.Provider, m.Model, m.PromptTokens, m.CompletionTokens, m.LatencyMS, m.Attempts, succeeded, ts)
	if err != nil {
		return fmt.Errorf("failed to record generation metric: %w", err)
	}
	return nil
}

// DailyUsage represents token totals for a single day.
type DailyUsage struct {
	Date            string
	TotalPrompt     int
	TotalCompletion int
	TotalRuns       int
	FailedRuns      int
}

// GetDailyUsage returns per-day token totals for the last N days.
func (s *Store) GetDailyUsage(ctx context.Context, days int) ([]DailyUsage, error) {
	since := time.Now().UTC().AddDate(0, 0, -days)
	rows, err := s.db.QueryContext(ctx,
		`SELECT date(timestamp), SUM(prompt_tokens), SUM(completion_tokens),
		        COUNT(*), SUM(1 - succeeded)
		   FROM generation_metrics
		  WHERE timestamp >= ?
		  GROUP BY date(timestamp)
		  ORDER BY date(timestamp) DESC`, since)
	if err != nil {
		return nil, fmt.Errorf("failed to query daily usage: %w", err)
	}
	defer rows.Close()

	var usage []DailyUsage
	for rows.Next() {
		var d DailyUsage
		if err := rows.Scan(&d.Date, &d.TotalPrompt, &d.TotalCompletion, &d.TotalRuns, &d.FailedRuns); err != nil {
			return nil, fmt.Errorf("failed to scan daily usage: %w", err)
		}
		usage = append(usage, d)
	}
	return usage, rows.Err()
}

// Cleanup removes metric records older than the given number of days and
// returns how many rows were deleted.
func (s *Store) Cleanup(ctx context.Context, days int) (int64, error) {
	cutoff := time.Now().UTC().AddDate(0, 0, -days)
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM generation_metrics WHERE timestamp < ?`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to clean up metrics: %w", err)
	}
	return res.RowsAffected()
}
