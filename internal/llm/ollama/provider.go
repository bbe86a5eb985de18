package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/Rrens/fitness-coach/internal/llm"
)

// Provider implements llm.Provider for a local Ollama server
type Provider struct {
	host         string
	defaultModel string
	client       *http.Client
}

// NewProvider creates a new Ollama provider
func NewProvider(host, defaultModel string) *Provider {
	if defaultModel == "" {
		defaultModel = "llama3"
	}
	return &Provider{
		host:         strings.TrimRight(host, "/"),
		defaultModel: defaultModel,
		client:       &http.Client{Timeout: 300 * time.Second},
	}
}

// Name returns the provider identifier
func (p *Provider) Name() string {
	return "ollama"
}

// AvailableModels returns list of supported models
func (p *Provider) AvailableModels() []string {
	return []string{
		"llama3",
		"llama3.1",
		"llama3.2",
		"mistral",
		"mixtral",
		"phi3",
		"qwen2",
	}
}

// DefaultModel returns the default model
func (p *Provider) DefaultModel() string {
	return p.defaultModel
}

// IsConfigured reports whether a host is set
func (p *Provider) IsConfigured() bool {
	return p.host != ""
}

type chatRequest struct {
	Model    string          `json:"model"`
	Messages []ollamaMessage `json:"messages"`
	Stream   bool            `json:"stream"`
	Options  map[string]any  `json:"options,omitempty"`
}

type ollamaMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Model           string        `json:"model"`
	Message         ollamaMessage `json:"message"`
	Done            bool          `json:"done"`
	PromptEvalCount int           `json:"prompt_eval_count"`
	EvalCount       int           `json:"eval_count"`
}

// Complete runs a non-streaming chat request against /api/chat
func (p *Provider) Complete(ctx context.Context, req llm.Request, model string) (*llm.Response, error) {
	if model == "" {
		model = p.defaultModel
	}

	options := map[string]any{"temperature": req.Temperature}
	if req.MaxTokens > 0 {
		options["num_predict"] = req.MaxTokens
	}

	ollamaReq := chatRequest{
		Model:    model,
		Messages: make([]ollamaMessage, 0, len(req.Messages)),
		Stream:   false,
		Options:  options,
	}
	for _, m := range req.Messages {
		ollamaReq.Messages = append(ollamaReq.Messages, ollamaMessage{Role: m.Role, Content: m.Content})
	}

	body, err := json.Marshal(ollamaReq)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	start := time.Now()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.host+"/api/chat", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("ollama returned status %d", resp.StatusCode)
	}

	var ollamaResp chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&ollamaResp); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	if strings.TrimSpace(ollamaResp.Message.Content) == "" {
		return nil, fmt.Errorf("empty response from ollama")
	}

	return &llm.Response{
		Content:    ollamaResp.Message.Content,
		Model:      model,
		TokensUsed: ollamaResp.PromptEvalCount + ollamaResp.EvalCount,
		LatencyMs:  time.Since(start).Milliseconds(),
	}, nil
}
