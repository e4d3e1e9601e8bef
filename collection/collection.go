// Package collection implements the per-collection storage layout: a
// columnar slab of records with value/signature lookup maps, free-list
// slot recycling, and an optional HNSW graph. Grounded on the
// map-plus-free-list idiom of the teacher's session store, generalized
// from named per-kind maps to the by_value/by_signature pair this engine's
// data model calls for.
package collection

import (
	"sync"

	"github.com/elchemista/vettore/collection/kernel"
	"github.com/elchemista/vettore/internal/dberr"
	"github.com/elchemista/vettore/internal/hnsw"
	"github.com/elchemista/vettore/internal/vecpool"
)

// Collection is a single named bucket of fixed-dimension embeddings under
// one similarity metric. All exported methods are safe for concurrent
// use: reads take a read lock for their entire duration, writes take an
// exclusive lock, matching the per-collection RWMutex discipline of the
// teacher's SessionStore.
type Collection struct {
	mu sync.RWMutex

	dim     int
	metric  kernel.Metric
	keepRaw bool

	// underlyingMetric is the formula actually used to score vectors.
	// Equal to metric for every metric except HNSW, which defaults to
	// Euclidean (spec §4.3: "euclidean by default").
	underlyingMetric kernel.Metric

	rows        []*record
	byValue     map[string]int
	bySignature map[string]int
	freeList    []int

	graph *hnsw.Graph // non-nil iff metric == kernel.HNSW

	pool *vecpool.Pool
}

// New creates an empty collection. dim must be positive and metric must
// be a recognized kernel.Metric.
func New(dim int, metric kernel.Metric, opts Options) (*Collection, error) {
	if dim <= 0 {
		return nil, dberr.New(dberr.InvalidArgument, "dimension must be positive, got %d", dim)
	}
	switch metric {
	case kernel.Euclidean, kernel.Cosine, kernel.Dot, kernel.HNSW, kernel.Binary:
	default:
		return nil, dberr.New(dberr.InvalidMetric, "unknown metric %s", metric)
	}

	c := &Collection{
		dim:              dim,
		metric:           metric,
		keepRaw:          opts.KeepRaw || metric != kernel.Binary,
		underlyingMetric: metric,
		byValue:          make(map[string]int),
		bySignature:      make(map[string]int),
		pool:             vecpool.New(),
	}

	if metric == kernel.HNSW {
		c.underlyingMetric = kernel.Euclidean
		cfg := hnsw.Config{M: opts.M, EfConstruction: opts.EfConstruction, Seed: opts.Seed}
		c.graph = hnsw.NewGraph(cfg, c.similarityFunc())
	}

	return c, nil
}

// Dim returns the collection's fixed dimension.
func (c *Collection) Dim() int { return c.dim }

// Metric returns the collection's configured metric.
func (c *Collection) Metric() kernel.Metric { return c.metric }

// similarityFunc closes over the collection's underlying metric for use
// as the HNSW graph's injected Similarity function.
func (c *Collection) similarityFunc() hnsw.Similarity {
	return func(query, v []float32) float32 {
		s, err := kernel.Score(query, v, nil, c.underlyingMetric, c.dim)
		if err != nil {
			// query/v are always equal-length here: both come from this
			// collection's own rows slab or a pre-validated caller input.
			panic("collection: similarity on mismatched vectors: " + err.Error())
		}
		return s
	}
}
