package menu

import (
	"context"
	"errors"
	"strings"
	"time"

	"canteen-menu-planner/internal/llm"

	"github.com/rs/zerolog"
)

// defaultMaxAttempts is the shared budget for transport and malformed-output
// failures within one generation run.
const defaultMaxAttempts = 3

// ErrGenerationFailed is the single terminal error surfaced to callers once
// every attempt is consumed. Upstream detail stays in the logs.
var ErrGenerationFailed = errors.New("menu generation failed, please retry later")

// GenerationStats summarizes one orchestrator run for the metrics store.
type GenerationStats struct {
	Attempts int
	Usage    llm.TokenUsage
	Latency  time.Duration
}

// Generator drives the retry loop around the text-generation call and the
// response parser. Attempts are strictly sequential; an issued call is always
// awaited to completion or to the client's own timeout.
type Generator struct {
	textGen     llm.TextGenerator
	maxAttempts int
	log         zerolog.Logger
}

// NewGenerator creates a Generator with the default attempt budget.
func NewGenerator(textGen llm.TextGenerator, log zerolog.Logger) *Generator {
	return &Generator{
		textGen:     textGen,
		maxAttempts: defaultMaxAttempts,
		log:         log.With().Str("component", "generator").Logger(),
	}
}

// Generate runs up to maxAttempts generation calls against the instruction
// and returns the first response that parses into a structurally valid
// WeekMenu. Transport failures and malformed output consume attempts from the
// same budget. No partial result is ever returned: the caller gets a menu or
// ErrGenerationFailed.
func (g *Generator) Generate(ctx context.Context, instruction string, plan QuotaPlan) (*WeekMenu, GenerationStats, error) {
	start := time.Now()
	var stats GenerationStats

	for attempt := 1; attempt <= g.maxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			stats.Latency = time.Since(start)
			return nil, stats, err
		}
		stats.Attempts = attempt

		resp, err := g.textGen.GenerateContent(ctx, instruction)
		stats.Usage.Add(resp.Usage)
		if err != nil {
			g.log.Warn().Err(err).Int("attempt", attempt).Msg("generation call failed")
			continue
		}

		result, err := ExtractWeekMenu(resp.Content)
		if err != nil {
			g.log.Warn().Err(err).Int("attempt", attempt).Msg("generator returned malformed output")
			continue
		}

		stats.Latency = time.Since(start)
		g.auditQuota(result, plan)
		return result, stats, nil
	}

	stats.Latency = time.Since(start)
	g.log.Error().Int("attempts", stats.Attempts).Msg("generation attempts exhausted")
	return nil, stats, ErrGenerationFailed
}

// auditQuota compares the accepted menu against the numeric targets and logs
// any drift. The quotas are advisory to the generator, so drift is reported
// but never rejected.
func (g *Generator) auditQuota(m *WeekMenu, plan QuotaPlan) {
	total := m.DishCount()
	classics := 0
	for _, day := range m.Days() {
		for _, dish := range day {
			if strings.Contains(dish, "(classic)") {
				classics++
			}
		}
	}

	if total != plan.TotalDishes || classics != plan.HistoricalDishes {
		g.log.Warn().
			Int("total", total).
			Int("want_total", plan.TotalDishes).
			Int("classics", classics).
			Int("want_classics", plan.HistoricalDishes).
			Msg("accepted menu drifts from quota targets")
	}
}
