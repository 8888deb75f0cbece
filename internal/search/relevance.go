package search

import (
	"net/url"
	"strings"
)

// officialDomains receive a confidence boost: results hosted here are
// treated as authoritative sources for regulatory/technical citations.
var officialDomains = []string{
	"gov.uk", "legislation.gov.uk", "cve.org", "nvd.nist.gov",
	"iso.org", "bsi-group.com", "europa.eu",
}

// Verification is the outcome of scoring a set of search results against
// one citation.
type Verification struct {
	Confidence float64
	Verified   bool
	TopURLs    []string
}

// Score implements the relevance-scoring algorithm: whole-citation match
// scores 0.9; otherwise score is 0.6 times the fraction of citation
// tokens matched in title+content; an official-domain host adds +0.3,
// capped at 1.0. Confidence is the max score across results; verified is
// confidence >= 0.70; the top 3 URLs scoring >= 0.5 are retained.
func Score(citation string, results []Result) Verification {
	normalized := strings.ToLower(strings.TrimSpace(citation))
	tokens := strings.Fields(normalized)

	type scored struct {
		url   string
		score float64
	}
	var all []scored

	for _, r := range results {
		haystack := strings.ToLower(r.Title + " " + r.Content)

		var score float64
		if normalized != "" && strings.Contains(haystack, normalized) {
			score = 0.9
		} else if len(tokens) > 0 {
			matched := 0
			for _, t := range tokens {
				if strings.Contains(haystack, t) {
					matched++
				}
			}
			score = 0.6 * (float64(matched) / float64(len(tokens)))
		}

		if isOfficialDomain(r.URL) {
			score += 0.3
			if score > 1.0 {
				score = 1.0
			}
		}

		all = append(all, scored{url: r.URL, score: score})
	}

	confidence := 0.0
	for _, s := range all {
		if s.score > confidence {
			confidence = s.score
		}
	}

	var topURLs []string
	for _, s := range all {
		if s.score >= 0.5 {
			topURLs = append(topURLs, s.url)
			if len(topURLs) == 3 {
				break
			}
		}
	}

	return Verification{
		Confidence: confidence,
		Verified:   confidence >= 0.70,
		TopURLs:    topURLs,
	}
}

func isOfficialDomain(rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	host := strings.ToLower(u.Hostname())
	for _, d := range officialDomains {
		if host == d || strings.HasSuffix(host, "."+d) {
			return true
		}
	}
	return false
}
