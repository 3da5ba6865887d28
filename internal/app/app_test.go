package app

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"

	"canteen-menu-planner/internal/account"
	"canteen-menu-planner/internal/config"
	"canteen-menu-planner/internal/database"
	"canteen-menu-planner/internal/history"
	"canteen-menu-planner/internal/llm"
	"canteen-menu-planner/internal/menu"
	"canteen-menu-planner/internal/metrics"

	"github.com/rs/zerolog"
)

const stubMenuJSON = `{
	"monday": ["Braised pork belly (main) (classic)"],
	"tuesday": ["Kung pao chicken (main)"],
	"wednesday": ["Steamed fish (main)"],
	"thursday": ["Mapo tofu (half)"],
	"friday": ["Stir-fried greens (veg)"]
}`

type stubTextGenerator struct {
	calls      int
	failures   int
	alwaysFail bool
}

func (s *stubTextGenerator) GenerateContent(ctx context.Context, prompt string) (llm.ContentResponse, error) {
	s.calls++
	if s.alwaysFail || s.calls <= s.failures {
		return llm.ContentResponse{}, fmt.Errorf("upstream unavailable")
	}
	return llm.ContentResponse{
		Content: stubMenuJSON,
		Usage:   llm.TokenUsage{PromptTokens: 200, CompletionTokens: 80, Model: "stub"},
	}, nil
}

type fixture struct {
	app      *App
	profiles *account.Repository
	history  *history.Repository
	gen      *stubTextGenerator
}

func newFixture(t *testing.T, gen *stubTextGenerator) *fixture {
	t.Helper()
	db, err := database.NewDB(filepath.Join(t.TempDir(), "app_test.db"))
	if err != nil {
		t.Fatalf("Failed to initialize test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	profiles := account.NewRepository(db.SQL)
	historyRepo := history.NewRepository(db.SQL)
	metricsStore := metrics.NewStore(db.SQL)
	generator := menu.NewGenerator(gen, zerolog.Nop())
	cfg := &config.Config{LLMProvider: config.ProviderGemini}

	profile := &account.Profile{
		AccountID:     "acct",
		HotDishCount:  8,
		ColdDishCount: 3,
		Pools: [][]string{
			{"Braised pork belly", "Tea egg"},
			{"Cucumber salad"},
			{"Mapo tofu"},
			{"Steamed fish"},
		},
	}
	if err := profiles.Save(context.Background(), profile); err != nil {
		t.Fatalf("Failed to seed profile: %v", err)
	}

	return &fixture{
		app:      NewApp(profiles, historyRepo, metricsStore, generator, cfg, zerolog.Nop()),
		profiles: profiles,
		history:  historyRepo,
		gen:      gen,
	}
}

func testGenRequest() menu.GenerationRequest {
	return menu.GenerationRequest{
		MainMeatCount:       4,
		HalfMeatCount:       2,
		VegetarianCount:     2,
		StaffSituation:      menu.StaffScarce,
		HistoricalRatioPct:  30,
		SpicyLevel:          menu.SpicyNone,
		FlavorDiversity:     true,
		WorkRatio:           menu.NoRequirement,
		IngredientDiversity: menu.NoRequirement,
	}
}

func TestGenerateWeekMenuSuccess(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, &stubTextGenerator{})

	rec, err := f.app.GenerateWeekMenu(ctx, "acct", testGenRequest())
	if err != nil {
		t.Fatalf("GenerateWeekMenu failed: %v", err)
	}
	if rec.ID == "" {
		t.Error("Expected a record ID")
	}
	if rec.Menu.DishCount() != 5 {
		t.Errorf("Expected the stub menu to round-trip, got %d dishes", rec.Menu.DishCount())
	}

	records, err := f.app.History(ctx, "acct")
	if err != nil {
		t.Fatalf("History failed: %v", err)
	}
	if len(records) != 1 || records[0].ID != rec.ID {
		t.Errorf("Expected the new record persisted, got %v", records)
	}
}

func TestGenerateWeekMenuRetriesThenSucceeds(t *testing.T) {
	f := newFixture(t, &stubTextGenerator{failures: 2})

	if _, err := f.app.GenerateWeekMenu(context.Background(), "acct", testGenRequest()); err != nil {
		t.Fatalf("GenerateWeekMenu failed: %v", err)
	}
	if f.gen.calls != 3 {
		t.Errorf("Expected 3 upstream calls, got %d", f.gen.calls)
	}
}

func TestGenerateWeekMenuExhaustion(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, &stubTextGenerator{alwaysFail: true})

	_, err := f.app.GenerateWeekMenu(ctx, "acct", testGenRequest())
	if !errors.Is(err, menu.ErrGenerationFailed) {
		t.Fatalf("Expected ErrGenerationFailed, got %v", err)
	}

	n, err := f.history.Count(ctx, "acct")
	if err != nil {
		t.Fatalf("Count failed: %v", err)
	}
	if n != 0 {
		t.Errorf("Expected no record persisted on failure, got %d", n)
	}
}

func TestGenerateWeekMenuRetention(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, &stubTextGenerator{})

	for i := 0; i < 6; i++ {
		if _, err := f.app.GenerateWeekMenu(ctx, "acct", testGenRequest()); err != nil {
			t.Fatalf("GenerateWeekMenu %d failed: %v", i+1, err)
		}
	}

	n, err := f.history.Count(ctx, "acct")
	if err != nil {
		t.Fatalf("Count failed: %v", err)
	}
	if n != history.RetentionCount {
		t.Errorf("Expected %d retained records, got %d", history.RetentionCount, n)
	}
}

func TestGenerateWeekMenuSubtotalMismatch(t *testing.T) {
	f := newFixture(t, &stubTextGenerator{})

	req := testGenRequest()
	req.MainMeatCount = 5 // 5+2+2 != 8

	_, err := f.app.GenerateWeekMenu(context.Background(), "acct", req)
	if !errors.Is(err, ErrRequestInvalid) {
		t.Fatalf("Expected ErrRequestInvalid, got %v", err)
	}
	if f.gen.calls != 0 {
		t.Errorf("Expected no upstream calls for an invalid request, got %d", f.gen.calls)
	}
}

func TestGenerateWeekMenuUnknownConstraintFailsFast(t *testing.T) {
	f := newFixture(t, &stubTextGenerator{})

	req := testGenRequest()
	req.EquipmentShortage = []menu.Equipment{"microwave"}

	_, err := f.app.GenerateWeekMenu(context.Background(), "acct", req)
	if !errors.Is(err, menu.ErrUnknownOption) {
		t.Fatalf("Expected ErrUnknownOption, got %v", err)
	}
	if f.gen.calls != 0 {
		t.Errorf("Expected the configuration error before any upstream call, got %d calls", f.gen.calls)
	}
}

func TestGenerateWeekMenuMissingProfile(t *testing.T) {
	f := newFixture(t, &stubTextGenerator{})

	_, err := f.app.GenerateWeekMenu(context.Background(), "nobody", testGenRequest())
	if !errors.Is(err, ErrRequestInvalid) {
		t.Fatalf("Expected ErrRequestInvalid for a missing profile, got %v", err)
	}
}
