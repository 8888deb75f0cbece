package llmfactory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iotrisk/orchestrator/internal/model"
	"github.com/iotrisk/orchestrator/internal/providers"
)

type fakeProvider struct {
	name, model string
}

func (f *fakeProvider) Invoke(ctx context.Context, prompt string) (string, error) { return "ok", nil }
func (f *fakeProvider) Name() string                                              { return f.name }
func (f *fakeProvider) Model() string                                             { return f.model }

func newTestRegistry(t *testing.T, withOpenAI bool) *providers.Registry {
	t.Helper()
	t.Setenv("TEST_OPENAI_KEY", "x")
	t.Setenv("TEST_ANTHROPIC_KEY", "x")

	families := map[string]providers.FamilyConfig{
		"anthropic": {
			APIKeyEnv: "TEST_ANTHROPIC_KEY",
			New: func(modelName string, temperature float64, timeout time.Duration) (providers.Provider, error) {
				return &fakeProvider{name: "anthropic", model: modelName}, nil
			},
		},
	}
	if withOpenAI {
		families["openai"] = providers.FamilyConfig{
			APIKeyEnv: "TEST_OPENAI_KEY",
			New: func(modelName string, temperature float64, timeout time.Duration) (providers.Provider, error) {
				return &fakeProvider{name: "openai", model: modelName}, nil
			},
		}
	}
	return providers.NewRegistry(families)
}

func TestFactory_Create_PrimarySucceeds(t *testing.T) {
	f := New(newTestRegistry(t, true), false)

	client, actualProvider, actualModel, usedFallback, err := f.Create(
		"anthropic", "claude-3-5-sonnet-latest", 0.0, time.Second, "openai", "gpt-4o", "aggregator",
	)
	require.NoError(t, err)
	assert.Equal(t, "anthropic", actualProvider)
	assert.Equal(t, "claude-3-5-sonnet-latest", actualModel)
	assert.False(t, usedFallback)
	assert.NotNil(t, client)
	assert.Empty(t, f.FallbackEvents())
}

func TestFactory_Create_FallsBackToConfiguredFallback(t *testing.T) {
	f := New(newTestRegistry(t, true), false)

	// "deepseek" is not registered at all: falls through to the
	// caller-configured fallback, here "openai".
	client, actualProvider, actualModel, usedFallback, err := f.Create(
		"deepseek", "deepseek-chat", 0.2, time.Second, "openai", "gpt-4o", "challenger_b",
	)
	require.NoError(t, err)
	assert.Equal(t, "openai", actualProvider)
	assert.Equal(t, "gpt-4o", actualModel)
	assert.True(t, usedFallback)
	assert.NotNil(t, client)
	require.Len(t, f.FallbackEvents(), 1)
	assert.Equal(t, "deepseek", f.FallbackEvents()[0].IntendedProvider)
}

func TestFactory_Create_FallsBackToUniversalOpenAI(t *testing.T) {
	f := New(newTestRegistry(t, true), false)

	// No configured fallback given at all, and the requested provider
	// ("groq") is not registered: must still land on the universal
	// OpenAI fallback.
	_, actualProvider, actualModel, usedFallback, err := f.Create(
		"groq", "llama-3.3-70b-versatile", 0.2, time.Second, "", "", "challenger_c",
	)
	require.NoError(t, err)
	assert.Equal(t, "openai", actualProvider)
	assert.Equal(t, "gpt-4o", actualModel)
	assert.True(t, usedFallback)
}

func TestFactory_Create_ExhaustsToNoProviderAvailable(t *testing.T) {
	f := New(newTestRegistry(t, false), false) // openai unregistered entirely

	_, _, _, _, err := f.Create("groq", "llama-3.3-70b-versatile", 0.2, time.Second, "mistral", "mistral-large-latest", "generator")
	require.Error(t, err)
	assert.ErrorIs(t, err, model.ErrNoProviderAvailable)
}

func TestFactory_ResetLog(t *testing.T) {
	f := New(newTestRegistry(t, true), false)
	_, _, _, _, err := f.Create("anthropic", "claude-3-5-sonnet-latest", 0.0, time.Second, "", "", "verifier")
	require.NoError(t, err)
	assert.NotEmpty(t, f.InstantiationLog())

	f.ResetLog()
	assert.Empty(t, f.InstantiationLog())
	assert.Empty(t, f.FallbackEvents())
}

func TestFactory_HeterogeneityReport(t *testing.T) {
	f := New(newTestRegistry(t, true), false)
	_, _, _, _, err := f.Create("anthropic", "claude-3-5-sonnet-latest", 0.0, time.Second, "", "", "generator:anthropic")
	require.NoError(t, err)
	_, _, _, _, err = f.Create("deepseek", "deepseek-chat", 0.0, time.Second, "openai", "gpt-4o", "generator:deepseek")
	require.NoError(t, err)

	report := f.HeterogeneityReport([]string{"anthropic", "deepseek", "mistral"})
	assert.ElementsMatch(t, []string{"anthropic", "openai"}, report.ActualProviders)
	assert.InDelta(t, 2.0/3.0, report.DiversityScore, 0.001)
	assert.Len(t, report.FallbackEvents, 1)
}

func TestFactory_HeterogeneityReport_ExcludesNonGeneratorNodes(t *testing.T) {
	f := New(newTestRegistry(t, true), false)
	_, _, _, _, err := f.Create("anthropic", "claude-3-5-sonnet-latest", 0.0, time.Second, "", "", "generator:anthropic")
	require.NoError(t, err)

	// The aggregator and verifier dispatch through the same factory but
	// are not part of the generator ensemble's intended coverage; their
	// provider must not inflate the heterogeneity score.
	_, _, _, _, err = f.Create("openai", "gpt-4o", 0.0, time.Second, "", "", "aggregator")
	require.NoError(t, err)
	_, _, _, _, err = f.Create("openai", "gpt-4o", 0.0, time.Second, "", "", "verifier")
	require.NoError(t, err)

	report := f.HeterogeneityReport([]string{"anthropic"})
	assert.ElementsMatch(t, []string{"anthropic"}, report.ActualProviders)
	assert.InDelta(t, 1.0, report.DiversityScore, 0.001)
}
