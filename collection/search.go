package collection

import (
	"context"
	"runtime"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/elchemista/vettore/collection/kernel"
	"github.com/elchemista/vettore/internal/dberr"
)

// parallelScanThreshold is the live-row count above which the brute-force
// scan partitions the row range across a bounded worker pool instead of
// scanning single-threaded (spec §4.4 "Parallelism").
const parallelScanThreshold = 10_000

// heapThreshold is the live-row count above which each scan shard keeps a
// bounded top-k result instead of collecting then sorting every score.
const heapThreshold = 1_024

// SimilaritySearch finds the k nearest rows to query under the
// collection's configured metric, per spec §4.4's dispatch policy.
func (c *Collection) SimilaritySearch(query []float32, k int, filter map[string]string) ([]SearchResult, error) {
	if len(query) != c.dim {
		return nil, dberr.New(dberr.DimensionMismatch, "expected dimension %d, got %d", c.dim, len(query))
	}
	if k <= 0 {
		return nil, dberr.New(dberr.InvalidArgument, "k must be positive, got %d", k)
	}
	if filter != nil && c.metric == kernel.HNSW {
		return nil, dberr.New(dberr.InvalidArgument, "filter unsupported for hnsw")
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.metric == kernel.HNSW {
		return c.hnswSearch(query, k)
	}
	return c.bruteForceSearch(query, k, filter)
}

// hnswSearch runs the graph search and filters out orphan row ids left
// behind by deletions (the graph is never physically pruned).
func (c *Collection) hnswSearch(query []float32, k int) ([]SearchResult, error) {
	hits := c.graph.Search(query, k)

	out := make([]SearchResult, 0, len(hits))
	for _, h := range hits {
		if h.ID >= len(c.rows) || c.rows[h.ID] == nil {
			continue // orphan: row was deleted after being indexed
		}
		out = append(out, SearchResult{Value: c.rows[h.ID].value, Number: h.Score})
	}
	return out, nil
}

// matchesFilter reports whether meta contains every (k, v) pair in filter.
func matchesFilter(meta, filter map[string]string) bool {
	for k, v := range filter {
		if meta[k] != v {
			return false
		}
	}
	return true
}

// scanRow scores one live row against query under the collection's
// metric, returning the number reported to callers (raw distance for
// euclidean/binary, normalized score for cosine, raw inner product for
// dot). The sort direction comes from ascending.
func (c *Collection) scanRow(query []float32, rec *record) (float32, error) {
	switch c.metric {
	case kernel.Euclidean, kernel.Binary:
		return kernel.RawDistance(query, rec.vector, rec.signature, c.metric, c.dim)
	default:
		return kernel.Score(query, rec.vector, rec.signature, c.metric, c.dim)
	}
}

// ascending reports the sort direction for the collection's metric, per
// spec §4.4 step 5.
func (c *Collection) ascending() bool {
	return c.metric == kernel.Euclidean || c.metric == kernel.Binary
}

func (c *Collection) bruteForceSearch(query []float32, k int, filter map[string]string) ([]SearchResult, error) {
	live := 0
	for _, rec := range c.rows {
		if rec != nil {
			live++
		}
	}

	var results []SearchResult
	var err error
	if live > parallelScanThreshold {
		results, err = c.parallelScan(query, k, filter)
	} else {
		results, err = c.serialScan(query, k, filter, live > heapThreshold)
	}
	if err != nil {
		return nil, err
	}

	asc := c.ascending()
	sort.Slice(results, func(i, j int) bool {
		if asc {
			return results[i].Number < results[j].Number
		}
		return results[i].Number > results[j].Number
	})
	if len(results) > k {
		results = results[:k]
	}
	return results, nil
}

// serialScan scans the full rows slab in the calling goroutine. When
// useHeap is set it keeps only a bounded top-k instead of accumulating
// every match, matching spec §4.4's "bounded min-heap above ~1024 rows".
func (c *Collection) serialScan(query []float32, k int, filter map[string]string, useHeap bool) ([]SearchResult, error) {
	if !useHeap {
		out := make([]SearchResult, 0, len(c.rows))
		for _, rec := range c.rows {
			if rec == nil || (filter != nil && !matchesFilter(rec.metadata, filter)) {
				continue
			}
			n, err := c.scanRow(query, rec)
			if err != nil {
				return nil, err
			}
			out = append(out, SearchResult{Value: rec.value, Number: n})
		}
		return out, nil
	}

	h := newBoundedHeap(k, c.ascending())
	for _, rec := range c.rows {
		if rec == nil || (filter != nil && !matchesFilter(rec.metadata, filter)) {
			continue
		}
		n, err := c.scanRow(query, rec)
		if err != nil {
			return nil, err
		}
		h.offer(SearchResult{Value: rec.value, Number: n})
	}
	return h.drain(), nil
}

// parallelScan partitions the rows slab into shards scanned concurrently
// by a bounded worker pool, then merges each shard's bounded top-k.
// Grounded on the errgroup+semaphore fan-out shape used for sub-query
// search in the reference pack's multi-query searcher.
func (c *Collection) parallelScan(query []float32, k int, filter map[string]string) ([]SearchResult, error) {
	workers := runtime.NumCPU()
	if workers < 1 {
		workers = 1
	}
	if workers > 16 {
		workers = 16
	}

	n := len(c.rows)
	shardSize := (n + workers - 1) / workers
	if shardSize < 1 {
		shardSize = 1
	}

	g, _ := errgroup.WithContext(context.Background())
	sem := make(chan struct{}, workers)
	partials := make([][]SearchResult, workers)

	for w := 0; w < workers; w++ {
		w := w
		start := w * shardSize
		end := start + shardSize
		if end > n {
			end = n
		}
		if start >= end {
			continue
		}

		g.Go(func() error {
			sem <- struct{}{}
			defer func() { <-sem }()

			h := newBoundedHeap(k, c.ascending())
			for i := start; i < end; i++ {
				rec := c.rows[i]
				if rec == nil || (filter != nil && !matchesFilter(rec.metadata, filter)) {
					continue
				}
				num, err := c.scanRow(query, rec)
				if err != nil {
					return err
				}
				h.offer(SearchResult{Value: rec.value, Number: num})
			}
			partials[w] = h.drain()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	merged := make([]SearchResult, 0, k*workers)
	for _, p := range partials {
		merged = append(merged, p...)
	}
	return merged, nil
}
