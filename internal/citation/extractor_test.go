package citation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtract(t *testing.T) {
	text := `The device is affected by CVE-2023-12345 and cve 2024-0001, and must
	comply with the Product Security and Telecommunications Infrastructure Act
	as well as GDPR and ISO 27001-1. See also CVE-2023-12345 again.`

	got := Extract(text)

	assert.Equal(t, []string{"CVE-2023-12345", "CVE-2024-0001"}, got.CVEs)
	assert.Contains(t, got.Regulations, "PSTI Act 2022")
	assert.Contains(t, got.Regulations, "GDPR")
	assert.Equal(t, []string{"ISO 27001-1"}, got.Standards)
}

func TestExtract_NoCitations(t *testing.T) {
	got := Extract("a perfectly ordinary smart thermostat with no regulatory references")
	assert.Empty(t, got.CVEs)
	assert.Empty(t, got.Regulations)
	assert.Empty(t, got.Standards)
}

func TestUnion_DeduplicatesAcrossSets(t *testing.T) {
	a := Citations{CVEs: []string{"CVE-2023-1"}, Regulations: []string{"GDPR"}}
	b := Citations{CVEs: []string{"CVE-2023-1"}, Standards: []string{"ISO 27001"}}

	got := Union(a, b)

	assert.Equal(t, []string{"CVE-2023-1", "GDPR", "ISO 27001"}, got)
}

func TestUnion_Empty(t *testing.T) {
	assert.Empty(t, Union())
	assert.Empty(t, Union(Citations{}, Citations{}))
}
