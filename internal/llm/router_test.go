package llm_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Rrens/fitness-coach/internal/llm"
)

type fakeProvider struct {
	name       string
	configured bool
}

func (f fakeProvider) Name() string              { return f.name }
func (f fakeProvider) AvailableModels() []string { return []string{f.name + "-model"} }
func (f fakeProvider) DefaultModel() string      { return f.name + "-model" }
func (f fakeProvider) IsConfigured() bool        { return f.configured }
func (f fakeProvider) Complete(context.Context, llm.Request, string) (*llm.Response, error) {
	return &llm.Response{Content: "ok"}, nil
}

func TestRouter(t *testing.T) {
	router := llm.NewRouter("openai")
	router.RegisterProvider(fakeProvider{name: "openai", configured: true})
	router.RegisterProvider(fakeProvider{name: "anthropic", configured: false})
	router.RegisterProvider(fakeProvider{name: "ollama", configured: true})

	t.Run("default", func(t *testing.T) {
		p, err := router.Default()
		require.NoError(t, err)
		assert.Equal(t, "openai", p.Name())
	})

	t.Run("unconfigured", func(t *testing.T) {
		_, err := router.GetProvider("anthropic")
		assert.ErrorContains(t, err, "not configured")
	})

	t.Run("unknown", func(t *testing.T) {
		_, err := router.GetProvider("mistral")
		assert.ErrorContains(t, err, "not found")
	})

	t.Run("list", func(t *testing.T) {
		assert.Equal(t, []string{"ollama", "openai"}, router.ListProviders())
	})

	t.Run("info", func(t *testing.T) {
		infos := router.GetProvidersInfo()
		require.Len(t, infos, 3)
		assert.Equal(t, "anthropic", infos[0].Name)
		assert.False(t, infos[0].Configured)
		assert.True(t, infos[2].Default)
	})
}
