// Package hnsw implements a hierarchical navigable small-world graph over
// opaque integer row ids. It is insert-only: nodes are never removed, since
// the owning collection never physically deletes HNSW graph state (orphan
// rows are filtered by the caller after Search returns).
package hnsw

import (
	"math"
	"math/rand"
	"sort"
	"time"
)

// Config holds the tunable HNSW parameters. Zero-valued fields are
// replaced by DefaultConfig's values by NewGraph.
type Config struct {
	M              int // neighbors per node per layer; M*2 at layer 0
	EfConstruction int // beam width used while inserting
	EfSearch       int // minimum beam width used while searching
	MaxLevel       int // hard cap on the geometric level draw

	// Seed drives level assignment's RNG. Zero means "pick one from the
	// current time", so two graphs built with the same non-zero Seed and
	// the same insert order assign identical levels.
	Seed int64
}

// DefaultConfig returns the spec defaults: M=16, EfConstruction=200,
// EfSearch=50 (the per-query floor; actual search width is
// max(k, EfSearch)).
func DefaultConfig() Config {
	return Config{
		M:              16,
		EfConstruction: 200,
		EfSearch:       50,
		MaxLevel:       16,
	}
}

// Similarity scores b against query, larger is better. The graph is metric
// agnostic: the owning collection supplies this closure bound to its
// configured underlying metric via collection/kernel.Score.
type Similarity func(query, b []float32) float32

type node struct {
	id      int
	vector  []float32
	level   int
	friends [][]int // friends[level] = neighbor ids at that level
}

// Graph is a single-metric HNSW index over []float32 vectors keyed by
// caller-assigned integer row ids.
type Graph struct {
	cfg        Config
	ml         float64 // 1/ln(M), the level-assignment scale
	similarity Similarity
	rng        *rand.Rand

	nodes    map[int]*node
	entryID  int
	maxLevel int
}

// NewGraph creates an empty graph. sim must be a larger-is-better
// similarity/score function consistent across every call (it is what the
// graph uses both to build and to search).
func NewGraph(cfg Config, sim Similarity) *Graph {
	if cfg.M <= 0 {
		cfg.M = DefaultConfig().M
	}
	if cfg.EfConstruction <= 0 {
		cfg.EfConstruction = DefaultConfig().EfConstruction
	}
	if cfg.EfSearch <= 0 {
		cfg.EfSearch = DefaultConfig().EfSearch
	}
	if cfg.MaxLevel <= 0 {
		cfg.MaxLevel = DefaultConfig().MaxLevel
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Graph{
		cfg:        cfg,
		ml:         1.0 / math.Log(float64(cfg.M)),
		similarity: sim,
		rng:        rand.New(rand.NewSource(seed)),
		nodes:      make(map[int]*node),
		maxLevel:   -1,
	}
}

// Count returns the number of live nodes in the graph.
func (g *Graph) Count() int { return len(g.nodes) }

func (g *Graph) randomLevel() int {
	level := math.Floor(-math.Log(g.rng.Float64()) * g.ml)
	if level > float64(g.cfg.MaxLevel) {
		return g.cfg.MaxLevel
	}
	return int(level)
}

// Add inserts a new node under id with the given vector. id must not
// already be present.
func (g *Graph) Add(id int, vector []float32) {
	level := g.randomLevel()
	n := &node{
		id:      id,
		vector:  append([]float32(nil), vector...),
		level:   level,
		friends: make([][]int, level+1),
	}
	for i := range n.friends {
		n.friends[i] = make([]int, 0, g.cfg.M)
	}

	if len(g.nodes) == 0 {
		g.nodes[id] = n
		g.entryID = id
		g.maxLevel = level
		return
	}

	curr := g.entryID
	for l := g.maxLevel; l > level; l-- {
		curr = g.searchLayerClosest(vector, curr, l)
	}

	for l := min(level, g.maxLevel); l >= 0; l-- {
		candidates := g.searchLayer(vector, curr, g.cfg.EfConstruction, l)
		cap := g.cfg.M
		if l == 0 {
			cap = g.cfg.M * 2
		}
		selected := g.selectNeighbors(vector, candidates, cap)
		n.friends[l] = selected

		for _, nbID := range selected {
			nb := g.nodes[nbID]
			if nb == nil || l >= len(nb.friends) {
				continue
			}
			nb.friends[l] = append(nb.friends[l], id)
			nbCap := g.cfg.M
			if l == 0 {
				nbCap = g.cfg.M * 2
			}
			if len(nb.friends[l]) > nbCap {
				nb.friends[l] = g.selectNeighbors(nb.vector, nb.friends[l], nbCap)
			}
		}

		if len(selected) > 0 {
			curr = selected[0]
		}
	}

	g.nodes[id] = n
	if level > g.maxLevel {
		g.entryID = id
		g.maxLevel = level
	}
}

// searchLayerClosest greedily walks toward the node most similar to query
// within a single layer, starting from entry.
func (g *Graph) searchLayerClosest(query []float32, entry int, level int) int {
	curr := entry
	currSim := g.similarity(query, g.nodes[curr].vector)

	changed := true
	for changed {
		changed = false
		currNode := g.nodes[curr]
		if currNode == nil || level >= len(currNode.friends) {
			break
		}
		for _, fid := range currNode.friends[level] {
			fn := g.nodes[fid]
			if fn == nil {
				continue
			}
			s := g.similarity(query, fn.vector)
			if s > currSim {
				curr, currSim = fid, s
				changed = true
			}
		}
	}
	return curr
}

// searchLayer runs a beam search of width ef within one layer, returning
// up to ef candidate ids ordered by the underlying priority queue (not
// necessarily sorted — callers re-sort).
func (g *Graph) searchLayer(query []float32, entry int, ef int, level int) []int {
	visited := map[int]bool{entry: true}
	candidates := &maxHeap{}
	result := &maxHeap{}

	entryNode := g.nodes[entry]
	if entryNode == nil {
		return nil
	}
	d := g.similarity(query, entryNode.vector)
	candidates.push(item{id: entry, score: d})
	result.push(item{id: entry, score: d})

	// worstScore returns the lowest score held in result; result is a
	// max-heap, so its root is the best entry, not the worst.
	worstScore := func() float32 {
		w := result.items[0].score
		for _, it := range result.items[1:] {
			if it.score < w {
				w = it.score
			}
		}
		return w
	}

	for candidates.Len() > 0 {
		curr := candidates.pop()
		currNode := g.nodes[curr.id]
		if currNode == nil {
			continue
		}

		if result.Len() >= ef && curr.score < worstScore() {
			break
		}

		if level >= len(currNode.friends) {
			continue
		}
		for _, fid := range currNode.friends[level] {
			if visited[fid] {
				continue
			}
			visited[fid] = true

			fn := g.nodes[fid]
			if fn == nil {
				continue
			}
			s := g.similarity(query, fn.vector)
			if result.Len() < ef || s > worstScore() {
				candidates.push(item{id: fid, score: s})
				result.push(item{id: fid, score: s})
				if result.Len() > ef {
					result.popWorst()
				}
			}
		}
	}

	ids := make([]int, 0, result.Len())
	for result.Len() > 0 {
		ids = append(ids, result.pop().id)
	}
	return ids
}

// selectNeighbors implements the HNSW neighbor heuristic: candidates are
// walked in order of decreasing similarity to query, and each is kept only
// if it is closer to query than it is to every neighbor already selected.
// This spreads friends across directions instead of clustering them all on
// query's closest side, which is what keeps the graph navigable. Candidates
// the heuristic rejects are kept as a leftover pool and used to pad the
// result up to cap if the heuristic alone does not fill it.
func (g *Graph) selectNeighbors(query []float32, candidates []int, cap int) []int {
	if len(candidates) <= cap {
		return candidates
	}
	type scored struct {
		id    int
		score float32
	}
	sc := make([]scored, 0, len(candidates))
	for _, id := range candidates {
		if n := g.nodes[id]; n != nil {
			sc = append(sc, scored{id: id, score: g.similarity(query, n.vector)})
		}
	}
	sort.Slice(sc, func(i, j int) bool { return sc[i].score > sc[j].score })

	selected := make([]int, 0, cap)
	selectedVecs := make([][]float32, 0, cap)
	leftover := make([]int, 0, len(sc))

	for _, c := range sc {
		if len(selected) >= cap {
			break
		}
		n := g.nodes[c.id]
		keep := true
		for _, sv := range selectedVecs {
			if g.similarity(n.vector, sv) > c.score {
				keep = false
				break
			}
		}
		if keep {
			selected = append(selected, c.id)
			selectedVecs = append(selectedVecs, n.vector)
		} else {
			leftover = append(leftover, c.id)
		}
	}

	for i := 0; len(selected) < cap && i < len(leftover); i++ {
		selected = append(selected, leftover[i])
	}
	return selected
}

// Result is one hit from Search.
type Result struct {
	ID    int
	Score float32
}

// Search returns up to k nodes most similar to query. ef is
// max(k, EfSearch); k must be positive.
func (g *Graph) Search(query []float32, k int) []Result {
	if len(g.nodes) == 0 {
		return nil
	}

	curr := g.entryID
	for l := g.maxLevel; l > 0; l-- {
		curr = g.searchLayerClosest(query, curr, l)
	}

	ef := g.cfg.EfSearch
	if k > ef {
		ef = k
	}
	ids := g.searchLayer(query, curr, ef, 0)

	type scored struct {
		id    int
		score float32
	}
	sc := make([]scored, 0, len(ids))
	for _, id := range ids {
		if n := g.nodes[id]; n != nil {
			sc = append(sc, scored{id: id, score: g.similarity(query, n.vector)})
		}
	}
	sort.Slice(sc, func(i, j int) bool { return sc[i].score > sc[j].score })

	if k > len(sc) {
		k = len(sc)
	}
	out := make([]Result, k)
	for i := 0; i < k; i++ {
		out[i] = Result{ID: sc[i].id, Score: sc[i].score}
	}
	return out
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
