package kernel

import (
	"math/bits"

	"github.com/elchemista/vettore/internal/dberr"
)

// wordBits is the width of one packed signature word.
const wordBits = 64

// Compress produces the sign-bit signature of v: bit i is 1 iff v[i] is
// strictly positive, packed into 64-bit words with the lowest-index bit of
// each word as its least-significant bit.
func Compress(v []float32) []uint64 {
	words := (len(v) + wordBits - 1) / wordBits
	sig := make([]uint64, words)
	for i, x := range v {
		if x > 0 {
			sig[i/wordBits] |= 1 << uint(i%wordBits)
		}
	}
	return sig
}

// Hamming returns the number of differing bits between two signatures.
// Both must come from Compress (or equal-length zero-padding), so trailing
// padding bits beyond the original dimension are always 0 in both operands
// and never contribute to the count.
func Hamming(x, y []uint64) (uint32, error) {
	if len(x) != len(y) {
		return 0, dberr.New(dberr.LengthMismatch, "hamming: signature length mismatch (%d vs %d)", len(x), len(y))
	}
	var total uint32
	for i := range x {
		total += uint32(bits.OnesCount64(x[i] ^ y[i]))
	}
	return total, nil
}

// SignatureKey encodes a packed signature as a comparable, collision-free
// string for use as a map key (Go slices cannot be map keys directly).
func SignatureKey(sig []uint64) string {
	buf := make([]byte, len(sig)*8)
	for i, w := range sig {
		off := i * 8
		buf[off+0] = byte(w)
		buf[off+1] = byte(w >> 8)
		buf[off+2] = byte(w >> 16)
		buf[off+3] = byte(w >> 24)
		buf[off+4] = byte(w >> 32)
		buf[off+5] = byte(w >> 40)
		buf[off+6] = byte(w >> 48)
		buf[off+7] = byte(w >> 56)
	}
	return string(buf)
}
