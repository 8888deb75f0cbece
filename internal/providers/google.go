package providers

import (
	"context"
	"time"

	genai "github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/iotrisk/orchestrator/internal/model"
)

type googleProvider struct {
	apiKey      string
	model       string
	temperature float64
}

func newGoogle(apiKeyEnv string) Constructor {
	return func(modelName string, temperature float64, timeout time.Duration) (Provider, error) {
		apiKey := lookupEnv(apiKeyEnv)
		if apiKey == "" {
			return nil, missingCredential("google", modelName, apiKeyEnv)
		}
		return &googleProvider{apiKey: apiKey, model: modelName, temperature: temperature}, nil
	}
}

func (p *googleProvider) Invoke(ctx context.Context, prompt string) (string, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(p.apiKey))
	if err != nil {
		return "", model.NewProviderError(model.KindProviderTransport, "google", p.model, err)
	}
	defer client.Close()

	genModel := client.GenerativeModel(p.model)
	temp := float32(p.temperature)
	genModel.Temperature = &temp

	resp, err := genModel.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", model.NewProviderError(model.KindProviderTransport, "google", p.model, err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", model.NewProviderError(model.KindProviderTransport, "google", p.model, errEmptyResponse)
	}
	if text, ok := resp.Candidates[0].Content.Parts[0].(genai.Text); ok {
		return string(text), nil
	}
	return "", model.NewProviderError(model.KindProviderTransport, "google", p.model, errEmptyResponse)
}

func (p *googleProvider) Name() string  { return "google" }
func (p *googleProvider) Model() string { return p.model }
