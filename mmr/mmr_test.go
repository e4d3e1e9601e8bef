package mmr

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/elchemista/vettore/collection/kernel"
)

func vectorsFixture() map[string][]float32 {
	return map[string][]float32{
		"a": {1, 0},
		"b": {0, 1},
		"c": {1, 1},
	}
}

func TestRerank_InvalidAlpha(t *testing.T) {
	vecs := vectorsFixture()
	_, err := RerankWithVectors(
		[]Candidate{{Value: "a", Score: 1}},
		vecs, kernel.Euclidean, 1.5, 1,
	)
	require.Error(t, err)
}

func TestRerank_InvalidK(t *testing.T) {
	vecs := vectorsFixture()
	_, err := RerankWithVectors(
		[]Candidate{{Value: "a", Score: 1}},
		vecs, kernel.Euclidean, 0.5, 0,
	)
	require.Error(t, err)
}

func TestRerank_DiversityPenalizesSimilarPicks(t *testing.T) {
	// Given: "c" is more relevant than "b" but near-identical to "a" on
	// the diversity axis, while "b" is less relevant but orthogonal to "a"
	vecs := map[string][]float32{
		"a": {1, 0},
		"c": {0.99, 0.01},
		"b": {0, 1},
	}
	initial := []Candidate{
		{Value: "a", Score: 1.0},
		{Value: "c", Score: 0.95},
		{Value: "b", Score: 0.5},
	}

	// When: re-ranking with a balanced alpha after "a" is already picked
	results, err := RerankWithVectors(initial, vecs, kernel.Cosine, 0.5, 2)

	// Then: the second pick favors the diverse "b" over the redundant "c"
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "a", results[0].Value)
	assert.Equal(t, "b", results[1].Value)
}

func TestRerank_KCappedToAvailableCandidates(t *testing.T) {
	vecs := vectorsFixture()
	initial := []Candidate{
		{Value: "a", Score: 1.0},
		{Value: "b", Score: 0.5},
	}
	results, err := RerankWithVectors(initial, vecs, kernel.Euclidean, 0.5, 10)
	require.NoError(t, err)
	assert.Len(t, results, 2)
}

func TestRerank_UnsupportedMetric(t *testing.T) {
	vecs := vectorsFixture()
	_, err := RerankWithVectors(
		[]Candidate{{Value: "a", Score: 1}},
		vecs, kernel.HNSW, 0.5, 1,
	)
	require.Error(t, err)
}
