package dedup

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeTitle(t *testing.T) {
	tests := []struct {
		name  string
		title string
		want  string
	}{
		{"strips seniority prefix", "Senior Backend Engineer", "backend engineer"},
		{"strips parenthesized remote", "Backend Engineer (Remote)", "backend engineer"},
		{"strips level suffix", "Software Engineer II", "software engineer"},
		{"collapses whitespace", "  Backend   Engineer ", "backend engineer"},
		{"keeps meaningful words", "Data Platform Engineer", "data platform engineer"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeTitle(tt.title))
		})
	}
}

func TestDescriptionSimilarity_Identical(t *testing.T) {
	text := "We are looking for a backend engineer with Go and PostgreSQL experience"
	assert.InDelta(t, 1.0, DescriptionSimilarity(text, text), 0.001)
}

func TestDescriptionSimilarity_Disjoint(t *testing.T) {
	sim := DescriptionSimilarity(
		"frontend react typescript css styling components",
		"embedded firmware rust microcontroller drivers",
	)
	assert.Equal(t, 0.0, sim)
}

func TestDescriptionSimilarity_TruncatedCopy(t *testing.T) {
	full := "We build payment infrastructure in Go. You will design APIs, operate PostgreSQL, and own reliability for our transaction pipeline end to end."
	truncated := "We build payment infrastructure in Go. You will design APIs, operate PostgreSQL."

	// The shorter side is fully contained, so similarity stays high.
	assert.Greater(t, DescriptionSimilarity(full, truncated), 0.85)
}

func TestDescriptionSimilarity_Symmetric(t *testing.T) {
	a := "distributed systems engineer working on consensus and replication"
	b := "engineer working on replication for storage systems"
	assert.Equal(t, DescriptionSimilarity(a, b), DescriptionSimilarity(b, a))
}

func TestDescriptionSimilarity_Empty(t *testing.T) {
	assert.Equal(t, 0.0, DescriptionSimilarity("", "anything"))
	assert.Equal(t, 0.0, DescriptionSimilarity("anything", ""))
}
