package llm

import "context"

// TokenUsage tracks the tokens consumed by one generation call.
type TokenUsage struct {
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
	Model            string
}

// Add accumulates usage from another call, keeping the most recent model name.
func (u *TokenUsage) Add(other TokenUsage) {
	u.PromptTokens += other.PromptTokens
	u.CompletionTokens += other.CompletionTokens
	u.TotalTokens += other.TotalTokens
	if other.Model != "" {
		u.Model = other.Model
	}
}

// ContentResponse contains the generated text and metadata like token usage.
type ContentResponse struct {
	Content string
	Usage   TokenUsage
}

// TextGenerator is an interface for generating text from an instruction
// payload. Implementations issue exactly one upstream call and never retry;
// the retry policy lives in the orchestrator so it stays uniform no matter
// which provider is plugged in.
type TextGenerator interface {
	GenerateContent(ctx context.Context, prompt string) (ContentResponse, error)
}

// Closer is an interface for closing resources.
type Closer interface {
	Close() error
}

// Sampling parameters shared by every provider. The temperature balances
// variety against constraint adherence; the output budget comfortably fits a
// full five-day menu.
const (
	samplingTemperature = 0.7
	maxOutputTokens     = 4000
)
