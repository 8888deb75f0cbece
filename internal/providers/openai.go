package providers

import (
	"context"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/iotrisk/orchestrator/internal/model"
)

// openAIProvider backs the openai family directly, and the deepseek and
// groq families via a custom base URL: both expose OpenAI-compatible
// chat-completions endpoints.
type openAIProvider struct {
	client      openai.Client
	model       string
	family      string
	temperature float64
}

func newOpenAICompatible(apiKeyEnv, baseURL string) Constructor {
	family := "openai"
	switch baseURL {
	case "https://api.deepseek.com/v1":
		family = "deepseek"
	case "https://api.groq.com/openai/v1":
		family = "groq"
	}
	return func(modelName string, temperature float64, timeout time.Duration) (Provider, error) {
		apiKey := lookupEnv(apiKeyEnv)
		if apiKey == "" {
			return nil, missingCredential(family, modelName, apiKeyEnv)
		}
		opts := []option.RequestOption{
			option.WithAPIKey(apiKey),
			option.WithRequestTimeout(timeout),
		}
		if baseURL != "" {
			opts = append(opts, option.WithBaseURL(baseURL))
		}
		return &openAIProvider{
			client:      openai.NewClient(opts...),
			model:       modelName,
			family:      family,
			temperature: temperature,
		}, nil
	}
}

func (p *openAIProvider) Invoke(ctx context.Context, prompt string) (string, error) {
	resp, err := p.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: p.model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
		Temperature: openai.Float(p.temperature),
	})
	if err != nil {
		return "", model.NewProviderError(model.KindProviderTransport, p.family, p.model, err)
	}
	if len(resp.Choices) == 0 {
		return "", model.NewProviderError(model.KindProviderTransport, p.family, p.model, errEmptyResponse)
	}
	return resp.Choices[0].Message.Content, nil
}

func (p *openAIProvider) Name() string  { return p.family }
func (p *openAIProvider) Model() string { return p.model }
