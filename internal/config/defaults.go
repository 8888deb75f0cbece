package config

import "time"

const (
	defaultMaxRevisions      = 3
	defaultLLMRequestTimeout = 60 * time.Second
)

// Default returns the system's baseline configuration: the reference
// nine-entry generator ensemble spanning all six provider families, and
// the default timing/temperature knobs from the configuration surface
// table.
func Default() *Config {
	return &Config{
		MaxRevisions:              defaultMaxRevisions,
		LLMRequestTimeout:         defaultLLMRequestTimeout,
		GeneratorTemperature:      0.0,
		ChallengerTemperature:     0.2,
		AggregatorTemperature:     0.0,
		VerifierTemperature:       0.0,
		LogFallbackEvents:         true,
		ReportHeterogeneityStatus: true,

		GeneratorModels: []GeneratorSpec{
			{Provider: "openai", Model: "gpt-4o"},
			{Provider: "openai", Model: "gpt-4o-mini"},
			{Provider: "anthropic", Model: "claude-3-5-sonnet-latest"},
			{Provider: "anthropic", Model: "claude-3-opus-20240229"},
			{Provider: "google", Model: "gemini-1.5-pro"},
			{Provider: "deepseek", Model: "deepseek-chat"},
			{Provider: "groq", Model: "llama-3.3-70b-versatile"},
			{Provider: "mistral", Model: "mistral-large-latest"},
			{Provider: "openai", Model: "o1-mini"},
		},

		AggregatorProvider: "anthropic",
		AggregatorModel:    "claude-3-5-sonnet-latest",

		ChallengerAProvider: "openai",
		ChallengerAModel:    "gpt-4o",
		ChallengerBProvider: "deepseek",
		ChallengerBModel:    "deepseek-chat",
		ChallengerCProvider: "openai",
		ChallengerCModel:    "gpt-4o",

		VerifierProvider: "anthropic",
		VerifierModel:    "claude-3-5-sonnet-latest",

		Credentials: map[string]ProviderCredential{
			"openai":    {APIKeyEnv: "OPENAI_API_KEY"},
			"anthropic": {APIKeyEnv: "ANTHROPIC_API_KEY"},
			"google":    {APIKeyEnv: "GOOGLE_API_KEY"},
			"deepseek":  {APIKeyEnv: "DEEPSEEK_API_KEY", BaseURL: "https://api.deepseek.com/v1"},
			"groq":      {APIKeyEnv: "GROQ_API_KEY", BaseURL: "https://api.groq.com/openai/v1"},
			"mistral":   {APIKeyEnv: "MISTRAL_API_KEY"},
		},

		SearchAPIKeyEnv: "TAVILY_API_KEY",
		SearchBaseURL:   "https://api.tavily.com/search",

		OutputDir: "results",
	}
}
