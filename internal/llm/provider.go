package llm

import "context"

// Role values used in chat requests
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is one entry in the ordered instruction sequence
type Message struct {
	Role    string
	Content string
}

// Request contains chat completion parameters
type Request struct {
	Messages    []Message
	Temperature float64
	MaxTokens   int
}

// Response contains LLM generation result
type Response struct {
	Content    string
	Model      string
	TokensUsed int
	LatencyMs  int64
}

// Provider defines the interface for LLM providers
type Provider interface {
	// Name returns the provider identifier
	Name() string

	// AvailableModels returns list of supported models
	AvailableModels() []string

	// DefaultModel returns the default model
	DefaultModel() string

	// IsConfigured checks if provider has valid credentials
	IsConfigured() bool

	// Complete runs a single chat completion. Implementations never retry.
	Complete(ctx context.Context, req Request, model string) (*Response, error)
}

// SplitSystem separates system instructions from the conversation turns,
// for providers that take the system prompt out of band.
func SplitSystem(messages []Message) (system []string, turns []Message) {
	for _, m := range messages {
		if m.Role == RoleSystem {
			system = append(system, m.Content)
			continue
		}
		turns = append(turns, m)
	}
	return system, turns
}
