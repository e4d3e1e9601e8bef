package vecpool

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGet_ReturnsZeroedVectorOfRequestedDimension(t *testing.T) {
	p := New()
	v := p.Get(4)
	assert.Len(t, v, 4)
	for _, x := range v {
		assert.Equal(t, float32(0), x)
	}
}

func TestGet_AfterPutReturnsZeroedBuffer(t *testing.T) {
	p := New()
	v := p.Get(3)
	v[0], v[1], v[2] = 1, 2, 3
	p.Put(v)

	reused := p.Get(3)
	assert.Len(t, reused, 3)
	// a pooled-and-reset buffer must never leak a previous caller's data
	assert.Equal(t, []float32{0, 0, 0}, reused)
}

func TestGet_DistinctDimensionsDoNotShareAPool(t *testing.T) {
	p := New()
	a := p.Get(2)
	b := p.Get(5)
	assert.Len(t, a, 2)
	assert.Len(t, b, 5)
}
