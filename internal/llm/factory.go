package llm

import (
	"context"
	"fmt"

	"canteen-menu-planner/internal/config"
)

// NewFromConfig returns the TextGenerator selected by the configuration.
// Callers should close it via the Closer interface when the provider holds
// resources (Gemini does, Groq does not).
func NewFromConfig(ctx context.Context, cfg *config.Config) (TextGenerator, error) {
	switch cfg.LLMProvider {
	case config.ProviderGemini:
		return NewGeminiClient(ctx, cfg)
	case config.ProviderGroq:
		return NewGroqClient(cfg), nil
	default:
		return nil, fmt.Errorf("unsupported provider %q", cfg.LLMProvider)
	}
}
