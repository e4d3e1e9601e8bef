package collection

// Record is the value returned to callers for a stored embedding. Vector
// is empty when the collection was created with KeepRaw=false and
// Metric=Binary (the raw vector was discarded after the signature was
// computed).
type Record struct {
	Value    string
	Vector   []float32
	Metadata map[string]string
}

// Options configures a collection at creation time.
type Options struct {
	// KeepRaw, when false and Metric is Binary, discards the raw vector
	// after its signature is computed. Ignored for every other metric,
	// which always retain the raw vector.
	KeepRaw bool

	// M and EfConstruction tune the HNSW graph; both are ignored unless
	// Metric is HNSW. Zero means "use the spec default" (16 / 200).
	M              int
	EfConstruction int

	// Seed fixes the HNSW level-assignment RNG so the graph is
	// reproducible across runs given the same insert order. Zero means
	// "seed from the current time" (non-reproducible). Ignored unless
	// Metric is HNSW.
	Seed int64
}

// SearchResult is one row of a similarity_search response: Value plus the
// per-metric numeric described in spec §4.4 (raw distance for
// euclidean/binary, normalized score for cosine/hnsw, raw inner product
// for dot).
type SearchResult struct {
	Value  string
	Number float32
}

// Candidate is one entry of an MMR initial ranked list.
type Candidate struct {
	Value string
	Score float32
}

// MMRResult is one row of an mmr_rerank response.
type MMRResult struct {
	Value    string
	MMRScore float32
}

// record is the internal slab entry. A nil entry in Collection.rows marks
// a freed slot.
type record struct {
	value     string
	vector    []float32 // may be nil when KeepRaw=false && Metric=Binary
	signature []uint64
	metadata  map[string]string
}

func cloneMeta(m map[string]string) map[string]string {
	if m == nil {
		return nil
	}
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func cloneVec(v []float32) []float32 {
	if v == nil {
		return nil
	}
	out := make([]float32, len(v))
	copy(out, v)
	return out
}
