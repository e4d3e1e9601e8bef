package collection

import (
	"github.com/elchemista/vettore/collection/kernel"
	"github.com/elchemista/vettore/internal/dberr"
)

// Insert adds a new embedding. See spec §4.2's algorithm: dimension check,
// cosine normalization, signature computation, duplicate checks, slot
// acquisition, and (for HNSW collections) graph insertion.
func (c *Collection) Insert(value string, vec []float32, meta map[string]string) (string, error) {
	if value == "" {
		return "", dberr.New(dberr.InvalidArgument, "value must not be empty")
	}
	if len(vec) != c.dim {
		return "", dberr.New(dberr.DimensionMismatch, "expected dimension %d, got %d", c.dim, len(vec))
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	stored := vec
	if c.metric == kernel.Cosine {
		scratch := c.pool.Get(c.dim)
		kernel.NormalizeInto(scratch, vec)
		stored = scratch
		defer c.pool.Put(scratch)
	}

	sig := kernel.Compress(stored)

	if _, exists := c.byValue[value]; exists {
		return "", dberr.New(dberr.AlreadyExists, "duplicate value %q", value)
	}
	sigKey := kernel.SignatureKey(sig)
	if _, exists := c.bySignature[sigKey]; exists {
		return "", dberr.New(dberr.AlreadyExists, "duplicate vector (signature collision)")
	}

	id := c.acquireSlot()

	rec := &record{
		value:     value,
		signature: sig,
		metadata:  cloneMeta(meta),
	}
	if c.metric != kernel.Binary || c.keepRaw {
		rec.vector = cloneVec(stored)
	}
	c.rows[id] = rec

	c.byValue[value] = id
	c.bySignature[sigKey] = id

	if c.graph != nil {
		c.graph.Add(id, stored)
	}

	return value, nil
}

// acquireSlot pops a recycled row id from the free list, or appends a new
// slot. Must be called with c.mu held.
func (c *Collection) acquireSlot() int {
	if n := len(c.freeList); n > 0 {
		id := c.freeList[n-1]
		c.freeList = c.freeList[:n-1]
		return id
	}
	c.rows = append(c.rows, nil)
	return len(c.rows) - 1
}

// GetByValue retrieves the record stored under value.
func (c *Collection) GetByValue(value string) (Record, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	id, ok := c.byValue[value]
	if !ok {
		return Record{}, dberr.New(dberr.NotFound, "value %q not found", value)
	}
	rec := c.rows[id]
	return Record{Value: rec.value, Vector: cloneVec(rec.vector), Metadata: cloneMeta(rec.metadata)}, nil
}

// GetByVector retrieves the record whose signature matches vec's sign
// pattern exactly (the same duplicate-detection check used by Insert).
func (c *Collection) GetByVector(vec []float32) (Record, error) {
	if len(vec) != c.dim {
		return Record{}, dberr.New(dberr.DimensionMismatch, "expected dimension %d, got %d", c.dim, len(vec))
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	probe := vec
	if c.metric == kernel.Cosine {
		probe = kernel.Normalize(vec)
	}
	sigKey := kernel.SignatureKey(kernel.Compress(probe))
	id, ok := c.bySignature[sigKey]
	if !ok {
		return Record{}, dberr.New(dberr.NotFound, "no record matches the given vector")
	}
	rec := c.rows[id]
	return Record{Value: rec.value, Vector: cloneVec(rec.vector), Metadata: cloneMeta(rec.metadata)}, nil
}

// GetAll returns every live record in the collection, in row-id order.
func (c *Collection) GetAll() []Record {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]Record, 0, len(c.byValue))
	for _, rec := range c.rows {
		if rec == nil {
			continue
		}
		out = append(out, Record{Value: rec.value, Vector: cloneVec(rec.vector), Metadata: cloneMeta(rec.metadata)})
	}
	return out
}

// Delete removes the record stored under value. The HNSW graph, if any,
// is left untouched (spec §4.2 step 4 / §4.3: insert-only index); its
// node becomes an orphan that Search filters via liveness.
//
// For HNSW collections the freed row id is retired rather than returned
// to the free list: free-list reuse would let a later insert resurrect
// the deleted vector's stale graph node under a new value, since the
// graph has no way to know the slot changed hands.
func (c *Collection) Delete(value string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	id, ok := c.byValue[value]
	if !ok {
		return "", dberr.New(dberr.NotFound, "value %q not found", value)
	}

	rec := c.rows[id]
	delete(c.byValue, value)
	delete(c.bySignature, kernel.SignatureKey(rec.signature))
	c.rows[id] = nil

	if c.graph == nil {
		c.freeList = append(c.freeList, id)
	}

	return value, nil
}
