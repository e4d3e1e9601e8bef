// Package simd provides a portable, allocation-free vector-arithmetic
// kernel used by the distance functions in collection/kernel. DotProduct
// unrolls the hot loop into 8 lanes with a 4-lane and scalar tail so the
// common case (length divisible by 8) never falls back to a single-element
// loop; SquaredL2 unrolls into 4 lanes with a scalar tail.
//
// This is the baseline tier: collection/kernel additionally wires a real
// SIMD-accelerated backend (viterin/vek) for vectors of 16 or more
// elements and uses the functions here only for shorter vectors.
package simd

// DotProduct returns the inner product of a and b. Both slices must have
// equal length; callers pre-check (see collection/kernel).
func DotProduct(a, b []float32) float32 {
	n := len(a)
	var sum0, sum1, sum2, sum3, sum4, sum5, sum6, sum7 float32

	i := 0
	for ; i+8 <= n; i += 8 {
		sum0 += a[i] * b[i]
		sum1 += a[i+1] * b[i+1]
		sum2 += a[i+2] * b[i+2]
		sum3 += a[i+3] * b[i+3]
		sum4 += a[i+4] * b[i+4]
		sum5 += a[i+5] * b[i+5]
		sum6 += a[i+6] * b[i+6]
		sum7 += a[i+7] * b[i+7]
	}

	sum := sum0 + sum1 + sum2 + sum3 + sum4 + sum5 + sum6 + sum7

	for ; i+4 <= n; i += 4 {
		sum += a[i]*b[i] + a[i+1]*b[i+1] + a[i+2]*b[i+2] + a[i+3]*b[i+3]
	}

	for ; i < n; i++ {
		sum += a[i] * b[i]
	}

	return sum
}

// SquaredL2 returns the squared Euclidean distance between a and b.
func SquaredL2(a, b []float32) float32 {
	n := len(a)
	var sum0, sum1, sum2, sum3 float32

	i := 0
	for ; i+4 <= n; i += 4 {
		d0 := a[i] - b[i]
		d1 := a[i+1] - b[i+1]
		d2 := a[i+2] - b[i+2]
		d3 := a[i+3] - b[i+3]
		sum0 += d0 * d0
		sum1 += d1 * d1
		sum2 += d2 * d2
		sum3 += d3 * d3
	}

	sum := sum0 + sum1 + sum2 + sum3

	for ; i < n; i++ {
		d := a[i] - b[i]
		sum += d * d
	}

	return sum
}

