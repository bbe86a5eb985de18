package gemini

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/Rrens/fitness-coach/internal/config"
	"github.com/Rrens/fitness-coach/internal/llm"
)

type Provider struct {
	apiKey string
	model  string
}

func NewProvider(cfg config.GeminiConfig) *Provider {
	return &Provider{
		apiKey: cfg.APIKey,
		model:  cfg.Model,
	}
}

func (p *Provider) Name() string {
	return "gemini"
}

func (p *Provider) AvailableModels() []string {
	return []string{
		"gemini-2.5-flash",
		"gemini-1.5-flash",
		"gemini-1.5-pro",
	}
}

func (p *Provider) DefaultModel() string {
	if p.model != "" {
		return p.model
	}
	return "gemini-2.5-flash"
}

func (p *Provider) IsConfigured() bool {
	return p.apiKey != ""
}

func (p *Provider) Complete(ctx context.Context, req llm.Request, model string) (*llm.Response, error) {
	if !p.IsConfigured() {
		return nil, fmt.Errorf("gemini provider is not configured (missing API key)")
	}

	if model == "" {
		model = p.DefaultModel()
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(p.apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}
	defer client.Close()

	system, turns := llm.SplitSystem(req.Messages)
	if len(turns) == 0 {
		return nil, fmt.Errorf("gemini request has no user turn")
	}

	generativeModel := client.GenerativeModel(model)
	generativeModel.SetTemperature(float32(req.Temperature))
	if req.MaxTokens > 0 {
		generativeModel.SetMaxOutputTokens(int32(req.MaxTokens))
	}
	if len(system) > 0 {
		generativeModel.SystemInstruction = genai.NewUserContent(genai.Text(strings.Join(system, "\n\n")))
	}

	// Earlier turns become chat history; the last one is sent.
	session := generativeModel.StartChat()
	for _, m := range turns[:len(turns)-1] {
		role := "user"
		if m.Role == llm.RoleAssistant {
			role = "model"
		}
		session.History = append(session.History, &genai.Content{Role: role, Parts: []genai.Part{genai.Text(m.Content)}})
	}

	start := time.Now()
	resp, err := session.SendMessage(ctx, genai.Text(turns[len(turns)-1].Content))
	latency := time.Since(start).Milliseconds()

	if err != nil {
		return nil, fmt.Errorf("gemini generation error: %w", err)
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return nil, fmt.Errorf("empty response from gemini")
	}

	var output strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			output.WriteString(string(text))
		}
	}

	tokensUsed := 0
	if resp.UsageMetadata != nil {
		tokensUsed = int(resp.UsageMetadata.TotalTokenCount)
	}

	return &llm.Response{
		Content:    output.String(),
		Model:      model,
		TokensUsed: tokensUsed,
		LatencyMs:  latency,
	}, nil
}
