package providers

import (
	"context"
	"time"

	mistral "github.com/gage-technologies/mistral-go"

	"github.com/iotrisk/orchestrator/internal/model"
)

type mistralProvider struct {
	client      *mistral.MistralClient
	model       string
	temperature float64
}

func newMistral(apiKeyEnv string) Constructor {
	return func(modelName string, temperature float64, timeout time.Duration) (Provider, error) {
		apiKey := lookupEnv(apiKeyEnv)
		if apiKey == "" {
			return nil, missingCredential("mistral", modelName, apiKeyEnv)
		}
		return &mistralProvider{
			client:      mistral.NewMistralClientDefault(apiKey),
			model:       modelName,
			temperature: temperature,
		}, nil
	}
}

func (p *mistralProvider) Invoke(ctx context.Context, prompt string) (string, error) {
	resp, err := p.client.Chat(p.model, []mistral.ChatMessage{
		{Role: "user", Content: prompt},
	}, &mistral.ChatRequestParams{
		Temperature: p.temperature,
	})
	if err != nil {
		return "", model.NewProviderError(model.KindProviderTransport, "mistral", p.model, err)
	}
	if len(resp.Choices) == 0 {
		return "", model.NewProviderError(model.KindProviderTransport, "mistral", p.model, errEmptyResponse)
	}
	return resp.Choices[0].Message.Content, nil
}

func (p *mistralProvider) Name() string  { return "mistral" }
func (p *mistralProvider) Model() string { return p.model }
