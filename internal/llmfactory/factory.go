// Package llmfactory implements the provider-agnostic dispatch layer: given
// a requested (provider, model), it returns a working client, falling back
// transparently through a configured fallback and finally a universal
// OpenAI fallback, recording every outcome for later audit.
package llmfactory

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/iotrisk/orchestrator/internal/model"
	"github.com/iotrisk/orchestrator/internal/providers"
)

// InstantiationRecord is one outcome of a Create call, independent of
// whether it succeeded via the primary path or a fallback.
type InstantiationRecord struct {
	ContextLabel     string
	IntendedProvider string
	IntendedModel    string
	ActualProvider   string
	ActualModel      string
	FallbackUsed     bool
	Timestamp        time.Time
}

// universalFallbackProvider, universalFallbackModel is the last-resort
// substitution used when neither the requested provider nor any
// configured fallback is available.
const (
	universalFallbackProvider = "openai"
	universalFallbackModel    = "gpt-4o"
)

// Factory resolves (provider, model) requests to working Provider clients,
// applying the resolution order: requested -> configured fallback ->
// universal OpenAI fallback -> ErrNoProviderAvailable.
type Factory struct {
	registry *providers.Registry

	// logFallbackEvents gates the slog.Warn console notice emitted on
	// each fallback substitution, realizing the LOG_FALLBACK_EVENTS
	// configuration option (default true).
	logFallbackEvents bool

	mu            sync.Mutex
	log           []InstantiationRecord
	fallbackEvents []model.FallbackEvent
}

// New builds a Factory dispatching over the given provider registry.
// logFallbackEvents enables a slog.Warn notice on every fallback
// substitution recorded by Create, matching LOG_FALLBACK_EVENTS.
func New(registry *providers.Registry, logFallbackEvents bool) *Factory {
	return &Factory{registry: registry, logFallbackEvents: logFallbackEvents}
}

// Create resolves and constructs a Provider per the factory's resolution
// order, returning the actual (provider, model) used and whether a
// fallback substitution occurred.
func (f *Factory) Create(
	requestedProvider, requestedModel string,
	temperature float64,
	timeout time.Duration,
	fallbackProvider, fallbackModel string,
	contextLabel string,
) (providers.Provider, string, string, bool, error) {
	now := time.Now()

	if fam, ok := f.registry.Get(requestedProvider); ok && fam.Available() {
		if client, err := fam.New(requestedModel, temperature, timeout); err == nil {
			f.append(contextLabel, requestedProvider, requestedModel, requestedProvider, requestedModel, false, now)
			return client, requestedProvider, requestedModel, false, nil
		}
	}

	if fallbackProvider != "" {
		if fam, ok := f.registry.Get(fallbackProvider); ok && fam.Available() {
			if client, err := fam.New(fallbackModel, temperature, timeout); err == nil {
				reason := "configured fallback used: requested provider unavailable"
				f.recordFallback(requestedProvider, requestedModel, fallbackProvider, fallbackModel, reason, now)
				f.append(contextLabel, requestedProvider, requestedModel, fallbackProvider, fallbackModel, true, now)
				f.warnFallback(requestedProvider, requestedModel, fallbackProvider, fallbackModel, reason)
				return client, fallbackProvider, fallbackModel, true, nil
			}
		}
	}

	if requestedProvider != universalFallbackProvider {
		if fam, ok := f.registry.Get(universalFallbackProvider); ok && fam.Available() {
			if client, err := fam.New(universalFallbackModel, temperature, timeout); err == nil {
				reason := "universal fallback used: no requested or configured-fallback provider available"
				f.recordFallback(requestedProvider, requestedModel, universalFallbackProvider, universalFallbackModel, reason, now)
				f.append(contextLabel, requestedProvider, requestedModel, universalFallbackProvider, universalFallbackModel, true, now)
				f.warnFallback(requestedProvider, requestedModel, universalFallbackProvider, universalFallbackModel, reason)
				return client, universalFallbackProvider, universalFallbackModel, true, nil
			}
		}
	}

	f.append(contextLabel, requestedProvider, requestedModel, "", "", false, now)
	providerErr := model.NewProviderError(model.KindProviderUnavailable, requestedProvider, requestedModel, model.ErrNoProviderAvailable)
	return nil, "", "", false, fmt.Errorf("%w: context %s", providerErr, contextLabel)
}

// warnFallback emits the LOG_FALLBACK_EVENTS console notice, matching
// challenger_c.py's `if Config.LOG_FALLBACK_EVENTS: print(...)`.
func (f *Factory) warnFallback(intendedProvider, intendedModel, actualProvider, actualModel, reason string) {
	if !f.logFallbackEvents {
		return
	}
	slog.Warn("provider fallback used",
		"intended", intendedProvider+"/"+intendedModel,
		"actual", actualProvider+"/"+actualModel,
		"reason", reason,
	)
}

func (f *Factory) append(contextLabel, intendedProvider, intendedModel, actualProvider, actualModel string, fallbackUsed bool, ts time.Time) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.log = append(f.log, InstantiationRecord{
		ContextLabel:     contextLabel,
		IntendedProvider: intendedProvider,
		IntendedModel:    intendedModel,
		ActualProvider:   actualProvider,
		ActualModel:      actualModel,
		FallbackUsed:     fallbackUsed,
		Timestamp:        ts,
	})
}

func (f *Factory) recordFallback(intendedProvider, intendedModel, actualProvider, actualModel, reason string, ts time.Time) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fallbackEvents = append(f.fallbackEvents, model.FallbackEvent{
		Timestamp:        ts,
		IntendedProvider: intendedProvider,
		IntendedModel:    intendedModel,
		ActualProvider:   actualProvider,
		ActualModel:      actualModel,
		Reason:           reason,
	})
}

// InstantiationLog returns a snapshot of every Create outcome so far.
func (f *Factory) InstantiationLog() []InstantiationRecord {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]InstantiationRecord, len(f.log))
	copy(out, f.log)
	return out
}

// FallbackEvents returns a snapshot of every fallback substitution so far.
func (f *Factory) FallbackEvents() []model.FallbackEvent {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]model.FallbackEvent, len(f.fallbackEvents))
	copy(out, f.fallbackEvents)
	return out
}

// ResetLog clears the instantiation log and fallback events, for test
// isolation between scenarios.
func (f *Factory) ResetLog() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.log = nil
	f.fallbackEvents = nil
}

// HeterogeneityReport summarizes provider diversity across a set of
// intended providers (e.g. the generator ensemble's spec list) against
// the providers actually used, as recorded in the instantiation log.
type HeterogeneityReport struct {
	IntendedProviders []string
	ActualProviders   []string
	DiversityScore    float64
	FallbackEvents    []model.FallbackEvent
}

// generatorContextPrefix tags the context label every GeneratorEnsemble
// Create call uses, distinguishing generator-ensemble instantiations from
// every other node's (aggregator, challengers, verifier) dispatch in the
// shared instantiation log.
const generatorContextPrefix = "generator:"

// HeterogeneityReport builds a report from intendedProviders (typically
// the distinct provider names in the generator ensemble's spec list) and
// the factory's own instantiation log, scoped to generator-ensemble
// Create calls only: the aggregator, challengers, and verifier dispatch
// through the same factory but are not part of the generator ensemble's
// intended coverage, and including them could otherwise push
// DiversityScore above 1.0.
func (f *Factory) HeterogeneityReport(intendedProviders []string) HeterogeneityReport {
	f.mu.Lock()
	seen := make(map[string]bool, len(f.log))
	for _, rec := range f.log {
		if rec.ActualProvider != "" && strings.HasPrefix(rec.ContextLabel, generatorContextPrefix) {
			seen[rec.ActualProvider] = true
		}
	}
	events := make([]model.FallbackEvent, len(f.fallbackEvents))
	copy(events, f.fallbackEvents)
	f.mu.Unlock()

	actual := make([]string, 0, len(seen))
	for p := range seen {
		actual = append(actual, p)
	}

	intended := make(map[string]bool, len(intendedProviders))
	for _, p := range intendedProviders {
		intended[p] = true
	}

	diversity := 0.0
	if len(intended) > 0 {
		diversity = float64(len(actual)) / float64(len(intended))
	}

	return HeterogeneityReport{
		IntendedProviders: intendedProviders,
		ActualProviders:   actual,
		DiversityScore:    diversity,
		FallbackEvents:    events,
	}
}
