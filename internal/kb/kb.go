// Package kb defines the optional retrieval-augmented knowledge base
// capability. When absent, or when it returns an empty result, callers
// fall back to a fixed baseline reference string.
package kb

import "context"

// KB is the optional knowledge-base capability consumed by prompt
// assembly. Prompt content itself stays out of scope for this module;
// only the retrieval/fallback mechanism is implemented here.
type KB interface {
	Retrieve(ctx context.Context, topic string, n int) (string, error)
}

// baseline is a short, opaque placeholder standing in for the reference
// corpus used when no KB is configured or it returns nothing: the
// original reference-source text is out of scope for this module per the
// system's purpose and scope (prompt/rubric/reference-corpus text is
// treated as an opaque string template owned by the caller).
const baseline = "baseline reference sources (no knowledge base configured)"

// Baseline returns the fixed fallback text used when retrieval is
// unavailable or empty.
func Baseline() string {
	return baseline
}

// Resolve retrieves from kb if non-nil, falling back to Baseline() when kb
// is nil, the call errors, or the result is empty.
func Resolve(ctx context.Context, k KB, topic string, n int) string {
	if k == nil {
		return Baseline()
	}
	text, err := k.Retrieve(ctx, topic, n)
	if err != nil || text == "" {
		return Baseline()
	}
	return text
}
