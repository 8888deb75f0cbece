// Package providers implements the narrow Provider capability over the
// six supported LLM families (openai, anthropic, google, deepseek, groq,
// mistral), plus the registry of per-family constructors that LLMFactory
// dispatches through.
package providers

import (
	"context"
	"os"
	"sync"
	"time"

	"github.com/iotrisk/orchestrator/internal/config"
	"github.com/iotrisk/orchestrator/internal/model"
)

// Provider is the narrow capability every family implementation exposes:
// issue one prompt, get back text. Concrete transports (HTTP, gRPC, SDK
// client internals) live entirely behind this boundary.
type Provider interface {
	Invoke(ctx context.Context, prompt string) (string, error)
	Name() string
	Model() string
}

// Constructor builds a Provider for one family given a model name,
// sampling temperature, and per-request timeout.
type Constructor func(modelName string, temperature float64, timeout time.Duration) (Provider, error)

// FamilyConfig describes one provider family: how to tell whether it is
// available, and how to construct a client for it.
type FamilyConfig struct {
	APIKeyEnv string
	BaseURL   string
	New       Constructor
}

// Available reports whether this family's credential is present in the
// environment.
func (f FamilyConfig) Available() bool {
	return os.Getenv(f.APIKeyEnv) != ""
}

// Registry is a thread-safe map of provider family name to FamilyConfig,
// mirroring the defensive-copy registry idiom used for provider
// configuration elsewhere in this codebase's ancestry.
type Registry struct {
	mu        sync.RWMutex
	families  map[string]FamilyConfig
}

// NewRegistry builds a Registry from a map of family name to FamilyConfig,
// defensively copying the input so later external mutation of the map
// passed in cannot affect the registry.
func NewRegistry(families map[string]FamilyConfig) *Registry {
	copied := make(map[string]FamilyConfig, len(families))
	for k, v := range families {
		copied[k] = v
	}
	return &Registry{families: copied}
}

// Get retrieves a family's configuration by name.
func (r *Registry) Get(name string) (FamilyConfig, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	f, ok := r.families[name]
	return f, ok
}

// GetAll returns a defensive copy of every registered family.
func (r *Registry) GetAll() map[string]FamilyConfig {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make(map[string]FamilyConfig, len(r.families))
	for k, v := range r.families {
		out[k] = v
	}
	return out
}

// Has reports whether a family is registered.
func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.families[name]
	return ok
}

// Len returns the number of registered families.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.families)
}

// Default builds the Registry wiring the six reference families to their
// concrete SDK-backed constructors (openai.go, anthropic.go, google.go,
// mistral.go), with DeepSeek and Groq dispatched through the OpenAI
// constructor against their OpenAI-compatible endpoints.
func Default(credentials map[string]config.ProviderCredential) *Registry {
	families := make(map[string]FamilyConfig, len(credentials))
	for name, cred := range credentials {
		cred := cred
		var ctor Constructor
		switch name {
		case "openai", "deepseek", "groq":
			ctor = newOpenAICompatible(cred.APIKeyEnv, cred.BaseURL)
		case "anthropic":
			ctor = newAnthropic(cred.APIKeyEnv)
		case "google":
			ctor = newGoogle(cred.APIKeyEnv)
		case "mistral":
			ctor = newMistral(cred.APIKeyEnv)
		default:
			continue
		}
		families[name] = FamilyConfig{APIKeyEnv: cred.APIKeyEnv, BaseURL: cred.BaseURL, New: ctor}
	}
	return NewRegistry(families)
}

// missingCredential builds the ProviderUnavailable-tagged error returned
// by a family's Constructor when its credential environment variable is
// unset, matching the error taxonomy's ProviderUnavailable kind (§7):
// missing credentials trigger LLMFactory's fallback chain.
func missingCredential(provider, modelName, apiKeyEnv string) error {
	return model.NewProviderError(model.KindProviderUnavailable, provider, modelName,
		errMissingEnv(apiKeyEnv))
}
