// Package config loads and validates the orchestrator's runtime
// configuration: provider families, generator ensemble spec, and the
// timing/temperature knobs named in the system's configuration surface.
package config

import "time"

// GeneratorSpec names one entry in the generator ensemble's spec list: a
// (provider, model) pair to instantiate via the LLM factory, with an
// optional per-entry fallback.
type GeneratorSpec struct {
	Provider         string `yaml:"provider"`
	Model            string `yaml:"model"`
	FallbackProvider string `yaml:"fallback_provider,omitempty"`
	FallbackModel    string `yaml:"fallback_model,omitempty"`
}

// ProviderCredential names the environment variable holding one provider
// family's API key, and any base-URL override for OpenAI-compatible
// endpoints (DeepSeek, Groq).
type ProviderCredential struct {
	APIKeyEnv string `yaml:"api_key_env"`
	BaseURL   string `yaml:"base_url,omitempty"`
}

// Config is the full set of recognized configuration options from the
// system's configuration surface table.
type Config struct {
	MaxRevisions              int     `yaml:"max_revisions"`
	LLMRequestTimeout         time.Duration `yaml:"llm_request_timeout"`
	GeneratorTemperature      float64 `yaml:"generator_temperature"`
	ChallengerTemperature     float64 `yaml:"challenger_temperature"`
	AggregatorTemperature     float64 `yaml:"aggregator_temperature"`
	VerifierTemperature       float64 `yaml:"verifier_temperature"`
	LogFallbackEvents         bool    `yaml:"log_fallback_events"`
	ReportHeterogeneityStatus bool    `yaml:"report_heterogeneity_status"`

	GeneratorModels []GeneratorSpec `yaml:"generator_models_with_providers"`

	AggregatorProvider string `yaml:"aggregator_provider"`
	AggregatorModel    string `yaml:"aggregator_model"`

	ChallengerAProvider string `yaml:"challenger_a_provider"`
	ChallengerAModel    string `yaml:"challenger_a_model"`
	ChallengerBProvider string `yaml:"challenger_b_provider"`
	ChallengerBModel    string `yaml:"challenger_b_model"`
	ChallengerCProvider string `yaml:"challenger_c_provider"`
	ChallengerCModel    string `yaml:"challenger_c_model"`

	VerifierProvider string `yaml:"verifier_provider"`
	VerifierModel    string `yaml:"verifier_model"`

	Credentials map[string]ProviderCredential `yaml:"credentials"`

	SearchAPIKeyEnv string `yaml:"search_api_key_env"`
	SearchBaseURL   string `yaml:"search_base_url"`

	OutputDir string `yaml:"output_dir"`
}
