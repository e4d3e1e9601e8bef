package collection

import (
	"github.com/elchemista/vettore/mmr"
)

// MMRRerank re-ranks an initial candidate list using this collection's
// stored vectors and configured metric (its underlying metric, for HNSW
// collections). Candidates whose value is not present in the collection
// are skipped.
func (c *Collection) MMRRerank(initial []Candidate, alpha float32, k int) ([]MMRResult, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	cands := make([]mmr.Candidate, len(initial))
	for i, ic := range initial {
		cands[i] = mmr.Candidate{Value: ic.Value, Score: ic.Score}
	}

	vectorOf := func(value string) ([]float32, bool) {
		id, ok := c.byValue[value]
		if !ok {
			return nil, false
		}
		rec := c.rows[id]
		if rec == nil || rec.vector == nil {
			return nil, false
		}
		return rec.vector, true
	}

	results, err := mmr.Rerank(cands, vectorOf, c.underlyingMetric, c.dim, alpha, k)
	if err != nil {
		return nil, err
	}

	out := make([]MMRResult, len(results))
	for i, r := range results {
		out[i] = MMRResult{Value: r.Value, MMRScore: r.MMRScore}
	}
	return out, nil
}
