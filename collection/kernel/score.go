package kernel

import "github.com/elchemista/vettore/internal/dberr"

// Score normalizes a query/candidate pair to [0, 1], larger is better, per
// metric; the one exception is Dot, which returns the raw inner product
// without clamping. metric must be one of Euclidean, Cosine, Dot, Binary — HNSW is
// not a distinct formula (spec: "the index is a search accelerator, not a
// distinct metric"); callers scoring an HNSW collection resolve it to the
// collection's configured underlying metric before calling Score.
//
// vec is the candidate's raw vector (already normalized at insert time for
// Cosine collections); sig is its packed signature, used only for Binary.
// bitCount is the collection's dimension, used as the Hamming distance
// denominator.
func Score(query, vec []float32, sig []uint64, metric Metric, bitCount int) (float32, error) {
	switch metric {
	case Euclidean:
		d, err := Euclidean(query, vec)
		if err != nil {
			return 0, err
		}
		return 1 / (1 + d), nil
	case Cosine:
		qn := Normalize(query)
		d, err := Dot(qn, vec)
		if err != nil {
			return 0, err
		}
		return (d + 1) / 2, nil
	case Dot:
		d, err := Dot(query, vec)
		if err != nil {
			return 0, err
		}
		return d, nil
	case Binary:
		qsig := Compress(query)
		h, err := Hamming(qsig, sig)
		if err != nil {
			return 0, err
		}
		return 1 - float32(h)/float32(bitCount), nil
	default:
		return 0, dberr.New(dberr.InvalidMetric, "score: unsupported metric %s", metric)
	}
}

// RawDistance returns the output reported to callers of similarity_search
// for metrics whose contract is "raw distance, ascending" (euclidean,
// binary), rather than the normalized [0,1] score.
func RawDistance(query, vec []float32, sig []uint64, metric Metric, bitCount int) (float32, error) {
	switch metric {
	case Euclidean:
		return Euclidean(query, vec)
	case Binary:
		qsig := Compress(query)
		h, err := Hamming(qsig, sig)
		if err != nil {
			return 0, err
		}
		return float32(h), nil
	default:
		return 0, dberr.New(dberr.InvalidMetric, "raw_distance: metric %s does not report raw distance", metric)
	}
}
