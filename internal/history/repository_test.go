package history

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"canteen-menu-planner/internal/database"
	"canteen-menu-planner/internal/menu"
)

func newTestRepo(t *testing.T) *Repository {
	t.Helper()
	db, err := database.NewDB(filepath.Join(t.TempDir(), "history_test.db"))
	if err != nil {
		t.Fatalf("Failed to initialize test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewRepository(db.SQL)
}

func testRecord(account string, n int) *Record {
	return &Record{
		ID:        fmt.Sprintf("rec-%d", n),
		AccountID: account,
		Menu:      menu.WeekMenu{Monday: []string{fmt.Sprintf("dish %d (main)", n)}},
		Request:   menu.GenerationRequest{HistoricalRatioPct: 30},
		CreatedAt: time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC).Add(time.Duration(n) * time.Hour),
	}
}

func TestSaveAndListRecent(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	for n := 1; n <= 3; n++ {
		if err := repo.Save(ctx, testRecord("acct", n)); err != nil {
			t.Fatalf("Save failed: %v", err)
		}
	}

	records, err := repo.ListRecent(ctx, "acct", 10)
	if err != nil {
		t.Fatalf("ListRecent failed: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("Expected 3 records, got %d", len(records))
	}
	if records[0].ID != "rec-3" {
		t.Errorf("Expected newest record first, got %s", records[0].ID)
	}
	if records[0].Menu.Monday[0] != "dish 3 (main)" {
		t.Errorf("Menu did not round-trip: %v", records[0].Menu.Monday)
	}
	if records[0].Request.HistoricalRatioPct != 30 {
		t.Errorf("Request did not round-trip: %+v", records[0].Request)
	}
}

func TestTrimRetention(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	// Six existing records, then a seventh new success.
	for n := 1; n <= 7; n++ {
		if err := repo.Save(ctx, testRecord("acct", n)); err != nil {
			t.Fatalf("Save failed: %v", err)
		}
	}

	if err := repo.TrimRetention(ctx, "acct"); err != nil {
		t.Fatalf("TrimRetention failed: %v", err)
	}

	records, err := repo.ListRecent(ctx, "acct", 10)
	if err != nil {
		t.Fatalf("ListRecent failed: %v", err)
	}
	if len(records) != RetentionCount {
		t.Fatalf("Expected %d records after trim, got %d", RetentionCount, len(records))
	}
	for i, wantID := range []string{"rec-7", "rec-6", "rec-5", "rec-4"} {
		if records[i].ID != wantID {
			t.Errorf("Expected record %d to be %s, got %s", i, wantID, records[i].ID)
		}
	}
}

func TestTrimRetentionIdempotent(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	for n := 1; n <= 6; n++ {
		if err := repo.Save(ctx, testRecord("acct", n)); err != nil {
			t.Fatalf("Save failed: %v", err)
		}
	}

	if err := repo.TrimRetention(ctx, "acct"); err != nil {
		t.Fatalf("First trim failed: %v", err)
	}
	countAfterFirst, err := repo.Count(ctx, "acct")
	if err != nil {
		t.Fatalf("Count failed: %v", err)
	}

	if err := repo.TrimRetention(ctx, "acct"); err != nil {
		t.Fatalf("Second trim failed: %v", err)
	}
	countAfterSecond, err := repo.Count(ctx, "acct")
	if err != nil {
		t.Fatalf("Count failed: %v", err)
	}

	if countAfterFirst != RetentionCount || countAfterSecond != RetentionCount {
		t.Errorf("Expected %d records after both trims, got %d then %d",
			RetentionCount, countAfterFirst, countAfterSecond)
	}
}

func TestTrimRetentionScopedToAccount(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	for n := 1; n <= 6; n++ {
		if err := repo.Save(ctx, testRecord("acct-a", n)); err != nil {
			t.Fatalf("Save failed: %v", err)
		}
	}
	other := testRecord("acct-b", 100)
	other.ID = "other-1"
	if err := repo.Save(ctx, other); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	if err := repo.TrimRetention(ctx, "acct-a"); err != nil {
		t.Fatalf("TrimRetention failed: %v", err)
	}

	n, err := repo.Count(ctx, "acct-b")
	if err != nil {
		t.Fatalf("Count failed: %v", err)
	}
	if n != 1 {
		t.Errorf("Expected the other account's record to survive, got %d", n)
	}
}
