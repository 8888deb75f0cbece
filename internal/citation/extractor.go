// Package citation implements deterministic, I/O-free extraction of
// regulatory and technical citations (CVEs, the PSTI Act, other UK/EU/US
// regulations, ISO standards) from free text.
package citation

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	cvePattern = regexp.MustCompile(`(?i)CVE[-\s]?(\d{4})[-\s]?(\d{4,7})`)
	pstiPattern = regexp.MustCompile(`(?i)product security and telecommunications infrastructure act|psti\s*act`)
	regulationPattern = regexp.MustCompile(`(?i)\b(GDPR|NIS2?|UK\s+Regulation|EU\s+Regulation|Directive)\s*(?:\(?(?:EU|UK)?\)?\s*)?(\d{4}[/-]\d+|\d+/\d{4})?`)
	isoPattern = regexp.MustCompile(`(?i)ISO[/\s]?(\d{4,5})(?:[-/](\d+))?`)
)

// Citations is the de-duplicated set of citations found in one text,
// grouped by category.
type Citations struct {
	CVEs        []string
	Regulations []string
	Standards   []string
}

// Extract scans text for citation patterns and returns the de-duplicated,
// normalized results per category. It performs no I/O.
func Extract(text string) Citations {
	return Citations{
		CVEs:        dedupe(extractCVEs(text)),
		Regulations: dedupe(extractRegulations(text)),
		Standards:   dedupe(extractStandards(text)),
	}
}

func extractCVEs(text string) []string {
	var out []string
	for _, m := range cvePattern.FindAllStringSubmatch(text, -1) {
		out = append(out, fmt.Sprintf("CVE-%s-%s", m[1], m[2]))
	}
	return out
}

func extractRegulations(text string) []string {
	var out []string
	if pstiPattern.MatchString(text) {
		out = append(out, "PSTI Act 2022")
	}
	for _, m := range regulationPattern.FindAllStringSubmatch(text, -1) {
		label := strings.TrimSpace(m[1])
		if label == "" {
			continue
		}
		id := strings.TrimSpace(m[2])
		if id != "" {
			out = append(out, fmt.Sprintf("%s %s", label, id))
		} else {
			out = append(out, label)
		}
	}
	return out
}

func extractStandards(text string) []string {
	var out []string
	for _, m := range isoPattern.FindAllStringSubmatch(text, -1) {
		number := m[1]
		part := m[2]
		if part != "" {
			out = append(out, fmt.Sprintf("ISO %s-%s", number, part))
		} else {
			out = append(out, fmt.Sprintf("ISO %s", number))
		}
	}
	return out
}

func dedupe(items []string) []string {
	if len(items) == 0 {
		return nil
	}
	seen := make(map[string]bool, len(items))
	out := make([]string, 0, len(items))
	for _, item := range items {
		if !seen[item] {
			seen[item] = true
			out = append(out, item)
		}
	}
	return out
}

// Union merges the citations across multiple Citations values (e.g. from
// explicit reasoning fields and from regex-extracted free text) into one
// de-duplicated, flattened list, preserving category order: CVEs, then
// regulations, then standards.
func Union(sets ...Citations) []string {
	var cves, regs, stds []string
	for _, s := range sets {
		cves = append(cves, s.CVEs...)
		regs = append(regs, s.Regulations...)
		stds = append(stds, s.Standards...)
	}
	out := dedupe(cves)
	out = append(out, dedupe(regs)...)
	out = append(out, dedupe(stds)...)
	return out
}
