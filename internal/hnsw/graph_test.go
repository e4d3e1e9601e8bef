package hnsw

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func cosine(a, b []float32) float32 {
	var dot, na, nb float32
	for i := range a {
		dot += a[i] * b[i]
		na += a[i] * a[i]
		nb += b[i] * b[i]
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / float32(math.Sqrt(float64(na))*math.Sqrt(float64(nb)))
}

func euclideanSimilarity(a, b []float32) float32 {
	var sq float32
	for i := range a {
		d := a[i] - b[i]
		sq += d * d
	}
	return 1 / (1 + float32(math.Sqrt(float64(sq))))
}

func randomVector(rng *rand.Rand, dim int) []float32 {
	v := make([]float32, dim)
	for i := range v {
		v[i] = rng.Float32()*2 - 1
	}
	return v
}

func TestGraph_EmptySearchReturnsNil(t *testing.T) {
	g := NewGraph(DefaultConfig(), cosine)
	assert.Nil(t, g.Search([]float32{1, 0}, 3))
}

func TestGraph_SingleNodeSearch(t *testing.T) {
	g := NewGraph(DefaultConfig(), cosine)
	g.Add(1, []float32{1, 0, 0})

	results := g.Search([]float32{1, 0, 0}, 5)
	require.Len(t, results, 1)
	assert.Equal(t, 1, results[0].ID)
}

func TestGraph_SearchKLargerThanCount(t *testing.T) {
	g := NewGraph(DefaultConfig(), cosine)
	g.Add(1, []float32{1, 0})
	g.Add(2, []float32{0, 1})

	results := g.Search([]float32{0.5, 0.5}, 10)
	assert.Len(t, results, 2)
}

func TestGraph_FindsExactMatch(t *testing.T) {
	cfg := DefaultConfig()
	g := NewGraph(cfg, euclideanSimilarity)

	target := []float32{3, 4, 0, 0}
	g.Add(1, target)
	g.Add(2, []float32{10, 10, 10, 10})
	g.Add(3, []float32{-5, -5, -5, -5})
	g.Add(4, []float32{1, 1, 1, 1})

	results := g.Search(target, 1)
	require.Len(t, results, 1)
	assert.Equal(t, 1, results[0].ID)
}

func TestGraph_RecallAgainstBruteForce(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	const dim = 16
	const n = 200

	g := NewGraph(DefaultConfig(), cosine)
	vectors := make(map[int][]float32, n)
	for i := 0; i < n; i++ {
		v := randomVector(rng, dim)
		vectors[i] = v
		g.Add(i, v)
	}

	const queries = 30
	hits := 0
	for q := 0; q < queries; q++ {
		query := randomVector(rng, dim)

		bestID, bestSim := -1, float32(-2)
		for id, v := range vectors {
			s := cosine(query, v)
			if s > bestSim {
				bestID, bestSim = id, s
			}
		}

		results := g.Search(query, 1)
		if len(results) == 1 && results[0].ID == bestID {
			hits++
		}
	}

	recall := float64(hits) / float64(queries)
	assert.GreaterOrEqual(t, recall, 0.8, "HNSW top-1 recall vs brute force too low: %v", recall)
}

func TestGraph_CountTracksInserts(t *testing.T) {
	g := NewGraph(DefaultConfig(), cosine)
	assert.Equal(t, 0, g.Count())
	g.Add(1, []float32{1, 0})
	g.Add(2, []float32{0, 1})
	assert.Equal(t, 2, g.Count())
}

func TestDefaultConfig_Values(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, 16, cfg.M)
	assert.Equal(t, 200, cfg.EfConstruction)
	assert.Equal(t, 50, cfg.EfSearch)
}

func TestMaxHeap_OrdersByScoreDescending(t *testing.T) {
	h := &maxHeap{}
	h.push(item{id: 1, score: 0.5})
	h.push(item{id: 2, score: 0.9})
	h.push(item{id: 3, score: 0.1})

	assert.Equal(t, 3, h.Len())
	top := h.pop()
	assert.Equal(t, 2, top.id)
}

func TestMaxHeap_PopWorstReturnsLowestScore(t *testing.T) {
	h := &maxHeap{}
	h.push(item{id: 1, score: 0.5})
	h.push(item{id: 2, score: 0.9})
	h.push(item{id: 3, score: 0.1})

	worst := h.popWorst()
	assert.Equal(t, 3, worst.id)
	assert.Equal(t, 2, h.Len())
}
