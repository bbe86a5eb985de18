package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/Rrens/fitness-coach/internal/llm"
)

const defaultBaseURL = "https://api.openai.com/v1"

// Provider implements llm.Provider for OpenAI and for APIs that speak the
// same chat completions protocol.
type Provider struct {
	name         string
	apiKey       string
	defaultModel string
	client       *http.Client
	baseURL      string
}

// NewProvider creates a new OpenAI provider. An empty baseURL targets the
// public API.
func NewProvider(apiKey, defaultModel, baseURL string) *Provider {
	if defaultModel == "" {
		defaultModel = "gpt-4"
	}
	return NewCompatible("openai", apiKey, defaultModel, baseURL)
}

// NewCompatible creates a provider for an OpenAI compatible endpoint
func NewCompatible(name, apiKey, defaultModel, baseURL string) *Provider {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Provider{
		name:         name,
		apiKey:       apiKey,
		defaultModel: defaultModel,
		client:       &http.Client{Timeout: 120 * time.Second},
		baseURL:      strings.TrimRight(baseURL, "/"),
	}
}

// Name returns the provider identifier
func (p *Provider) Name() string {
	return p.name
}

// AvailableModels returns list of supported models
func (p *Provider) AvailableModels() []string {
	return []string{
		"gpt-4",
		"gpt-4-turbo",
		"gpt-4o",
		"gpt-4o-mini",
		"gpt-3.5-turbo",
	}
}

// DefaultModel returns the default model
func (p *Provider) DefaultModel() string {
	return p.defaultModel
}

// IsConfigured checks if provider has valid credentials
func (p *Provider) IsConfigured() bool {
	return p.apiKey != ""
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Model   string `json:"model"`
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Usage struct {
		TotalTokens int `json:"total_tokens"`
	} `json:"usage"`
}

// Complete sends the messages to the chat completions endpoint
func (p *Provider) Complete(ctx context.Context, req llm.Request, model string) (*llm.Response, error) {
	if model == "" {
		model = p.defaultModel
	}

	chatReq := chatRequest{
		Model:       model,
		Messages:    make([]chatMessage, 0, len(req.Messages)),
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
	}
	for _, m := range req.Messages {
		chatReq.Messages = append(chatReq.Messages, chatMessage{Role: m.Role, Content: m.Content})
	}

	body, err := json.Marshal(chatReq)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	start := time.Now()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+p.apiKey)

	resp, err := p.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("%s returned status %d: %s", p.name, resp.StatusCode, strings.TrimSpace(string(snippet)))
	}

	var chatResp chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&chatResp); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	if len(chatResp.Choices) == 0 {
		return nil, fmt.Errorf("no response from %s", p.name)
	}

	if chatResp.Model != "" {
		model = chatResp.Model
	}

	return &llm.Response{
		Content:    chatResp.Choices[0].Message.Content,
		Model:      model,
		TokensUsed: chatResp.Usage.TotalTokens,
		LatencyMs:  time.Since(start).Milliseconds(),
	}, nil
}
