package kernel

import (
	"math"

	"github.com/viterin/vek/vek32"

	"github.com/elchemista/vettore/internal/dberr"
	"github.com/elchemista/vettore/internal/simd"
)

// vekThreshold is the minimum vector length for which the vek32
// SIMD-accelerated backend is worth the call overhead; shorter vectors use
// the hand-rolled unrolled-loop kernel in internal/simd directly.
const vekThreshold = 16

// dot computes the inner product of a and b, preferring the vek32
// SIMD backend for vectors long enough to benefit from it.
func dot(a, b []float32) float32 {
	if len(a) >= vekThreshold {
		return vek32.Dot(a, b)
	}
	return simd.DotProduct(a, b)
}

// Dot returns the raw inner product of a and b.
func Dot(a, b []float32) (float32, error) {
	if len(a) != len(b) {
		return 0, dberr.New(dberr.LengthMismatch, "dot: length mismatch (%d vs %d)", len(a), len(b))
	}
	return dot(a, b), nil
}

// Euclidean returns the L2 distance between a and b. For vectors long
// enough to use the vek32 backend it is derived from the dot-product
// identity |a-b|^2 = dot(a,a) + dot(b,b) - 2*dot(a,b); shorter vectors use
// the direct unrolled kernel, which is numerically steadier at small N and
// avoids three separate calls into vek32.
func Euclidean(a, b []float32) (float32, error) {
	if len(a) != len(b) {
		return 0, dberr.New(dberr.LengthMismatch, "euclidean: length mismatch (%d vs %d)", len(a), len(b))
	}
	if len(a) >= vekThreshold {
		aa := vek32.Dot(a, a)
		bb := vek32.Dot(b, b)
		ab := vek32.Dot(a, b)
		sq := aa + bb - 2*ab
		if sq < 0 {
			sq = 0
		}
		return float32(math.Sqrt(float64(sq))), nil
	}
	sq := simd.SquaredL2(a, b)
	return float32(math.Sqrt(float64(sq))), nil
}

// Cosine returns the cosine similarity between a and b (not a distance):
// dot(a,b) / (||a|| * ||b||). Callers wanting the [0,1] score use Score
// with Metric Cosine, which assumes b is already unit-normalized.
func Cosine(a, b []float32) (float32, error) {
	if len(a) != len(b) {
		return 0, dberr.New(dberr.LengthMismatch, "cosine: length mismatch (%d vs %d)", len(a), len(b))
	}
	na := float32(math.Sqrt(float64(dot(a, a))))
	nb := float32(math.Sqrt(float64(dot(b, b))))
	if na == 0 || nb == 0 {
		return 0, nil
	}
	return dot(a, b) / (na * nb), nil
}

// Normalize returns v / ||v||_2. If ||v|| == 0 it returns a copy of v
// unchanged (spec behavior: the zero vector has no direction to project).
func Normalize(v []float32) []float32 {
	out := make([]float32, len(v))
	NormalizeInto(out, v)
	return out
}

// NormalizeInto writes v / ||v||_2 into dst, which must have the same
// length as v. Used on the insert hot path with a pooled scratch buffer
// to avoid Normalize's allocation.
func NormalizeInto(dst, v []float32) {
	norm := float32(math.Sqrt(float64(dot(v, v))))
	if norm == 0 {
		copy(dst, v)
		return
	}
	for i, x := range v {
		dst[i] = x / norm
	}
}
