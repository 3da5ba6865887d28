package app

import (
	"context"
	"errors"
	"fmt"

	"canteen-menu-planner/internal/account"
	"canteen-menu-planner/internal/config"
	"canteen-menu-planner/internal/history"
	"canteen-menu-planner/internal/menu"
	"canteen-menu-planner/internal/metrics"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// ErrRequestInvalid signals a request that fails pre-generation validation.
var ErrRequestInvalid = errors.New("generation request invalid")

// App wires the generation core to its stores and drives the full
// generate-validate-persist-trim path.
type App struct {
	profiles     *account.Repository
	historyRepo  *history.Repository
	metricsStore *metrics.Store
	mapper       *menu.Mapper
	generator    *menu.Generator
	cfg          *config.Config
	log          zerolog.Logger
}

// NewApp creates and initializes a new App instance.
func NewApp(
	profiles *account.Repository,
	historyRepo *history.Repository,
	metricsStore *metrics.Store,
	generator *menu.Generator,
	cfg *config.Config,
	log zerolog.Logger,
) *App {
	return &App{
		profiles:     profiles,
		historyRepo:  historyRepo,
		metricsStore: metricsStore,
		mapper:       menu.NewMapper(),
		generator:    generator,
		cfg:          cfg,
		log:          log.With().Str("component", "app").Logger(),
	}
}

// GenerateWeekMenu runs one full generation for the account: validate inputs,
// compute the quota plan, compose the instruction, drive the orchestrator, and
// on success persist the record and trim the retention window. Everything that
// can fail from bad input fails before the first network call.
func (a *App) GenerateWeekMenu(ctx context.Context, accountID string, req menu.GenerationRequest) (*history.Record, error) {
	profile, err := a.profiles.Get(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, fmt.Errorf("%w: no profile configured for account %s", ErrRequestInvalid, accountID)
	}
	if err := profile.Validate(); err != nil {
		return nil, err
	}
	if err := validateRequest(profile, req); err != nil {
		return nil, err
	}

	fragments, err := a.mapper.MapRequest(req)
	if err != nil {
		// Configuration error: a constraint value outside the enumerated
		// domain. Fail fast, nothing has been sent upstream yet.
		return nil, err
	}

	plan := menu.ComputeQuotaPlan(profile.HotDishCount, profile.ColdDishCount, req.HistoricalRatioPct)

	instruction, err := menu.ComposeInstruction(menu.ComposeInput{
		HotCount:  profile.HotDishCount,
		ColdCount: profile.ColdDishCount,
		Request:   req,
		Plan:      plan,
		Fragments: fragments,
		Pools:     profile.TrimmedPools(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to compose instruction: %w", err)
	}

	result, stats, genErr := a.generator.Generate(ctx, instruction, plan)

	if err := a.metricsStore.Record(ctx, metrics.GenerationMetric{
		Provider:         a.cfg.LLMProvider,
		Model:            stats.Usage.Model,
		PromptTokens:     stats.Usage.PromptTokens,
		CompletionTokens: stats.Usage.CompletionTokens,
		LatencyMS:        stats.Latency.Milliseconds(),
		Attempts:         stats.Attempts,
		Succeeded:        genErr == nil,
	}); err != nil {
		a.log.Warn().Err(err).Msg("failed to record generation metric")
	}

	if genErr != nil {
		return nil, genErr
	}

	rec := &history.Record{
		ID:        uuid.NewString(),
		AccountID: accountID,
		Menu:      *result,
		Request:   req,
	}
	if err := a.historyRepo.Save(ctx, rec); err != nil {
		return nil, fmt.Errorf("generated menu could not be persisted: %w", err)
	}

	// The trim is best effort: the successful record is already saved, and a
	// briefly oversized retention window self-corrects on the next run.
	if err := a.historyRepo.TrimRetention(ctx, accountID); err != nil {
		a.log.Warn().Err(err).Str("account", accountID).Msg("retention trim failed")
	}

	return rec, nil
}

// Profile returns the stored profile for the account, or nil when none exists.
func (a *App) Profile(ctx context.Context, accountID string) (*account.Profile, error) {
	return a.profiles.Get(ctx, accountID)
}

// History returns the retained generation records for the account.
func (a *App) History(ctx context.Context, accountID string) ([]history.Record, error) {
	return a.historyRepo.ListRecent(ctx, accountID, history.RetentionCount)
}

// validateRequest rejects requests whose hot-dish subtotals do not reconcile
// with the profile, or whose scalar fields are out of range. The enumerated
// constraint fields are checked later by the Mapper.
func validateRequest(profile *account.Profile, req menu.GenerationRequest) error {
	if req.MainMeatCount < 1 || req.HalfMeatCount < 1 || req.VegetarianCount < 1 {
		return fmt.Errorf("%w: category counts must be at least 1", ErrRequestInvalid)
	}
	if sum := req.MainMeatCount + req.HalfMeatCount + req.VegetarianCount; sum != profile.HotDishCount {
		return fmt.Errorf("%w: main+half+vegetarian = %d, profile expects %d hot dishes",
			ErrRequestInvalid, sum, profile.HotDishCount)
	}
	if req.HistoricalRatioPct < 0 || req.HistoricalRatioPct > 100 {
		return fmt.Errorf("%w: historical ratio %d%% outside 0-100", ErrRequestInvalid, req.HistoricalRatioPct)
	}
	return nil
}
