// Package mmr implements Maximal Marginal Relevance re-ranking: given an
// initial ranked candidate list, greedily build a final list that trades
// off relevance against diversity from what's already been picked.
//
// No reference implementation in the pack shares this control flow; it is
// built directly from the algorithm's definition.
package mmr

import (
	"github.com/elchemista/vettore/collection/kernel"
	"github.com/elchemista/vettore/internal/dberr"
)

// Candidate is one entry of the initial ranked list: a value plus its
// pre-computed relevance score.
type Candidate struct {
	Value string
	Score float32
}

// Result is one entry of the re-ranked output.
type Result struct {
	Value    string
	MMRScore float32
}

// RerankWithVectors is the standalone mmr_rerank entry point from spec §6:
// an explicit value→vector map instead of a collection-bound resolver.
func RerankWithVectors(candidates []Candidate, vectors map[string][]float32, metric kernel.Metric, alpha float32, k int) ([]Result, error) {
	dim := 0
	for _, v := range vectors {
		dim = len(v)
		break
	}
	vectorOf := func(value string) ([]float32, bool) {
		v, ok := vectors[value]
		return v, ok
	}
	return Rerank(candidates, vectorOf, metric, dim, alpha, k)
}

// Rerank runs the greedy MMR algorithm over candidates. vectorOf resolves
// a candidate's value to its vector; candidates it cannot resolve are
// skipped. metric selects the similarity formula used for the diversity
// term (via kernel.Score); dim is the vectors' dimension.
func Rerank(candidates []Candidate, vectorOf func(value string) ([]float32, bool), metric kernel.Metric, dim int, alpha float32, k int) ([]Result, error) {
	if alpha < 0 || alpha > 1 {
		return nil, dberr.New(dberr.InvalidArgument, "alpha must be in [0,1], got %v", alpha)
	}
	if k <= 0 {
		return nil, dberr.New(dberr.InvalidArgument, "k must be positive, got %d", k)
	}
	switch metric {
	case kernel.Euclidean, kernel.Cosine, kernel.Dot, kernel.Binary:
	default:
		return nil, dberr.New(dberr.InvalidMetric, "mmr: unsupported metric %s", metric)
	}

	type working struct {
		value  string
		score  float32
		vector []float32
		sig    []uint64 // only populated/used when metric == kernel.Binary
	}

	remaining := make([]working, 0, len(candidates))
	for _, c := range candidates {
		v, ok := vectorOf(c.Value)
		if !ok {
			continue
		}
		w := working{value: c.Value, score: c.Score, vector: v}
		if metric == kernel.Binary {
			w.sig = kernel.Compress(v)
		}
		remaining = append(remaining, w)
	}

	if k >= len(remaining) {
		k = len(remaining)
	}

	type picked struct {
		value  string
		vector []float32
		sig    []uint64
		mmr    float32
	}
	output := make([]picked, 0, k)

	for len(output) < k && len(remaining) > 0 {
		bestIdx := -1
		var bestMMR float32

		for i, cand := range remaining {
			div := float32(0)
			for _, p := range output {
				sim, err := kernel.Score(cand.vector, p.vector, p.sig, metric, dim)
				if err != nil {
					return nil, err
				}
				if sim > div {
					div = sim
				}
			}
			score := alpha*cand.score - (1-alpha)*div
			if bestIdx == -1 || score > bestMMR {
				bestIdx = i
				bestMMR = score
			}
		}

		chosen := remaining[bestIdx]
		output = append(output, picked{value: chosen.value, vector: chosen.vector, sig: chosen.sig, mmr: bestMMR})
		remaining = append(remaining[:bestIdx], remaining[bestIdx+1:]...)
	}

	out := make([]Result, len(output))
	for i, p := range output {
		out[i] = Result{Value: p.value, MMRScore: p.mmr}
	}
	return out, nil
}
