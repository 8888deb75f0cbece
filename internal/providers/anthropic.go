package providers

import (
	"context"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/iotrisk/orchestrator/internal/model"
)

type anthropicProvider struct {
	client      anthropic.Client
	model       string
	temperature float64
}

func newAnthropic(apiKeyEnv string) Constructor {
	return func(modelName string, temperature float64, timeout time.Duration) (Provider, error) {
		apiKey := lookupEnv(apiKeyEnv)
		if apiKey == "" {
			return nil, missingCredential("anthropic", modelName, apiKeyEnv)
		}
		return &anthropicProvider{
			client: anthropic.NewClient(
				option.WithAPIKey(apiKey),
				option.WithRequestTimeout(timeout),
			),
			model:       modelName,
			temperature: temperature,
		}, nil
	}
}

func (p *anthropicProvider) Invoke(ctx context.Context, prompt string) (string, error) {
	resp, err := p.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(p.model),
		MaxTokens: 4096,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
		Temperature: anthropic.Float(p.temperature),
	})
	if err != nil {
		return "", model.NewProviderError(model.KindProviderTransport, "anthropic", p.model, err)
	}
	if len(resp.Content) == 0 {
		return "", model.NewProviderError(model.KindProviderTransport, "anthropic", p.model, errEmptyResponse)
	}
	return resp.Content[0].Text, nil
}

func (p *anthropicProvider) Name() string  { return "anthropic" }
func (p *anthropicProvider) Model() string { return p.model }
