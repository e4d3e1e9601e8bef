// Package kernel implements the distance and score formulas shared by the
// collection store, the HNSW graph, and the MMR re-ranker.
package kernel

import "fmt"

// Metric identifies which similarity function a collection is configured
// with. It is parsed from user-facing text exactly once, at
// CreateCollection, and carried as this typed value everywhere inside the
// engine.
type Metric int

const (
	Euclidean Metric = iota
	Cosine
	Dot
	HNSW
	Binary
)

// String renders the metric the way it is accepted by ParseMetric.
func (m Metric) String() string {
	switch m {
	case Euclidean:
		return "euclidean"
	case Cosine:
		return "cosine"
	case Dot:
		return "dot"
	case HNSW:
		return "hnsw"
	case Binary:
		return "binary"
	default:
		return fmt.Sprintf("metric(%d)", int(m))
	}
}

// ParseMetric converts a user-supplied metric name into the enumerated
// Metric type. ok is false for any unrecognized identifier.
func ParseMetric(s string) (Metric, bool) {
	switch s {
	case "euclidean":
		return Euclidean, true
	case "cosine":
		return Cosine, true
	case "dot":
		return Dot, true
	case "hnsw":
		return HNSW, true
	case "binary":
		return Binary, true
	default:
		return 0, false
	}
}
