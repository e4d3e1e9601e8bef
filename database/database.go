// Package database implements the thread-safe collection-name container
// described (at interface level only) by spec §6. Grounded on the
// teacher's Engine.sessions map: one coarse RWMutex guarding a
// map[string]*collection.Collection, with named lookup helpers mirroring
// getOrCreateSession/getSession.
package database

import (
	"sync"

	"github.com/elchemista/vettore/collection"
	"github.com/elchemista/vettore/collection/kernel"
	"github.com/elchemista/vettore/internal/dberr"
	"github.com/elchemista/vettore/pkg/version"
)

// Version is the module's semantic version string.
var Version = version.Version

// Database maps collection names to collection handles.
type Database struct {
	mu          sync.RWMutex
	collections map[string]*collection.Collection
}

// New creates an empty database.
func New() *Database {
	return &Database{collections: make(map[string]*collection.Collection)}
}

// CreateCollection creates a new, empty collection under name. metric must
// be one of "euclidean", "cosine", "dot", "hnsw", "binary".
func (db *Database) CreateCollection(name string, dim int, metric string, opts collection.Options) (string, error) {
	if name == "" {
		return "", dberr.New(dberr.InvalidArgument, "collection name must not be empty")
	}
	m, ok := kernel.ParseMetric(metric)
	if !ok {
		return "", dberr.New(dberr.InvalidMetric, "unknown metric %q", metric)
	}

	db.mu.Lock()
	defer db.mu.Unlock()

	if _, exists := db.collections[name]; exists {
		return "", dberr.New(dberr.AlreadyExists, "collection %q already exists", name)
	}

	c, err := collection.New(dim, m, opts)
	if err != nil {
		return "", err
	}
	db.collections[name] = c
	return name, nil
}

// DeleteCollection removes a collection and all of its data.
func (db *Database) DeleteCollection(name string) (string, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	if _, exists := db.collections[name]; !exists {
		return "", dberr.New(dberr.NotFound, "collection %q not found", name)
	}
	delete(db.collections, name)
	return name, nil
}

// get resolves name to its collection handle without holding it across the
// caller's own operation (that collection-level lock is acquired inside
// the Collection methods themselves).
func (db *Database) get(name string) (*collection.Collection, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	c, ok := db.collections[name]
	if !ok {
		return nil, dberr.New(dberr.NotFound, "collection %q not found", name)
	}
	return c, nil
}

// Insert adds a single embedding to the named collection.
func (db *Database) Insert(name, value string, vec []float32, meta map[string]string) (string, error) {
	c, err := db.get(name)
	if err != nil {
		return "", err
	}
	return c.Insert(value, vec, meta)
}

// BatchRecord is one entry of a BatchInsert call.
type BatchRecord struct {
	Value    string
	Vector   []float32
	Metadata map[string]string
}

// BatchInsert inserts every record in order, skipping (not aborting on)
// individual failures and returning the values that succeeded. This
// matches the teacher's own bulk-insert family (MSetEntities et al.); see
// DESIGN.md for the rationale behind choosing this over all-or-nothing.
func (db *Database) BatchInsert(name string, records []BatchRecord) ([]string, error) {
	c, err := db.get(name)
	if err != nil {
		return nil, err
	}

	values := make([]string, 0, len(records))
	for _, r := range records {
		v, err := c.Insert(r.Value, r.Vector, r.Metadata)
		if err != nil {
			continue
		}
		values = append(values, v)
	}
	return values, nil
}

// GetByValue retrieves a record by its value key.
func (db *Database) GetByValue(name, value string) (collection.Record, error) {
	c, err := db.get(name)
	if err != nil {
		return collection.Record{}, err
	}
	return c.GetByValue(value)
}

// GetByVector retrieves the record matching vec's sign pattern.
func (db *Database) GetByVector(name string, vec []float32) (collection.Record, error) {
	c, err := db.get(name)
	if err != nil {
		return collection.Record{}, err
	}
	return c.GetByVector(vec)
}

// GetAll returns every live record in the named collection.
func (db *Database) GetAll(name string) ([]collection.Record, error) {
	c, err := db.get(name)
	if err != nil {
		return nil, err
	}
	return c.GetAll(), nil
}

// Delete removes the record stored under value.
func (db *Database) Delete(name, value string) (string, error) {
	c, err := db.get(name)
	if err != nil {
		return "", err
	}
	return c.Delete(value)
}

// SimilaritySearch finds the k nearest rows to query in the named
// collection.
func (db *Database) SimilaritySearch(name string, query []float32, k int, filter map[string]string) ([]collection.SearchResult, error) {
	c, err := db.get(name)
	if err != nil {
		return nil, err
	}
	return c.SimilaritySearch(query, k, filter)
}

// MMRRerank re-ranks an initial candidate list using the named
// collection's stored vectors.
func (db *Database) MMRRerank(name string, initial []collection.Candidate, alpha float32, k int) ([]collection.MMRResult, error) {
	c, err := db.get(name)
	if err != nil {
		return nil, err
	}
	return c.MMRRerank(initial, alpha, k)
}
