package search

import "strings"

// BuildQuery constructs a type-specific search query for one citation,
// based on a cheap shape check (no regex re-parse): CVE identifiers get
// a vulnerability-database-flavored query, ISO citations a standards
// query, everything else (Acts, regulations, directives) a
// legislation-flavored query.
func BuildQuery(citation string) string {
	upper := strings.ToUpper(citation)
	switch {
	case strings.HasPrefix(upper, "CVE-"):
		return citation + " vulnerability details NVD"
	case strings.HasPrefix(upper, "ISO "):
		return citation + " international standard scope"
	default:
		return citation + " official text regulation requirements"
	}
}
