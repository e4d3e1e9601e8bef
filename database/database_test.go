package database

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/elchemista/vettore/collection"
	"github.com/elchemista/vettore/internal/dberr"
)

func TestCreateCollection_DuplicateName(t *testing.T) {
	db := New()
	_, err := db.CreateCollection("docs", 3, "cosine", collection.Options{})
	require.NoError(t, err)

	_, err = db.CreateCollection("docs", 3, "cosine", collection.Options{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, dberr.ErrAlreadyExists))
}

func TestCreateCollection_UnknownMetric(t *testing.T) {
	db := New()
	_, err := db.CreateCollection("docs", 3, "manhattan", collection.Options{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, dberr.ErrInvalidMetric))
}

func TestOperations_UnknownCollection(t *testing.T) {
	db := New()

	_, err := db.Insert("missing", "v", []float32{1}, nil)
	assert.True(t, errors.Is(err, dberr.ErrNotFound))

	_, err = db.GetByValue("missing", "v")
	assert.True(t, errors.Is(err, dberr.ErrNotFound))

	_, err = db.SimilaritySearch("missing", []float32{1}, 1, nil)
	assert.True(t, errors.Is(err, dberr.ErrNotFound))
}

func TestDeleteCollection_RemovesItsData(t *testing.T) {
	db := New()
	_, err := db.CreateCollection("docs", 2, "euclidean", collection.Options{})
	require.NoError(t, err)
	_, err = db.Insert("docs", "a", []float32{1, 1}, nil)
	require.NoError(t, err)

	_, err = db.DeleteCollection("docs")
	require.NoError(t, err)

	_, err = db.GetByValue("docs", "a")
	require.Error(t, err)
	assert.True(t, errors.Is(err, dberr.ErrNotFound))
}

func TestBatchInsert_ContinuesPastFailures(t *testing.T) {
	db := New()
	_, err := db.CreateCollection("docs", 2, "euclidean", collection.Options{})
	require.NoError(t, err)

	records := []BatchRecord{
		{Value: "a", Vector: []float32{1, 1}},
		{Value: "b", Vector: []float32{2}}, // wrong dimension, should be skipped
		{Value: "c", Vector: []float32{-3, 3}},
	}
	inserted, err := db.BatchInsert("docs", records)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "c"}, inserted)

	all, err := db.GetAll("docs")
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestIndependentCollectionsDoNotShareState(t *testing.T) {
	db := New()
	_, err := db.CreateCollection("left", 2, "euclidean", collection.Options{})
	require.NoError(t, err)
	_, err = db.CreateCollection("right", 2, "euclidean", collection.Options{})
	require.NoError(t, err)

	_, err = db.Insert("left", "shared-name", []float32{1, 1}, nil)
	require.NoError(t, err)
	_, err = db.Insert("right", "shared-name", []float32{9, 9}, nil)
	require.NoError(t, err)

	left, err := db.GetByValue("left", "shared-name")
	require.NoError(t, err)
	right, err := db.GetByValue("right", "shared-name")
	require.NoError(t, err)

	assert.Equal(t, []float32{1, 1}, left.Vector)
	assert.Equal(t, []float32{9, 9}, right.Vector)
}

func TestMMRRerank_WiredThroughDatabase(t *testing.T) {
	db := New()
	_, err := db.CreateCollection("docs", 2, "euclidean", collection.Options{})
	require.NoError(t, err)
	_, err = db.Insert("docs", "a", []float32{1, 0}, nil)
	require.NoError(t, err)
	_, err = db.Insert("docs", "b", []float32{0, 1}, nil)
	require.NoError(t, err)

	results, err := db.MMRRerank("docs", []collection.Candidate{
		{Value: "a", Score: 0.9},
		{Value: "b", Score: 0.2},
	}, 1.0, 2)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "a", results[0].Value)
}

func TestVersionIsNonEmpty(t *testing.T) {
	assert.NotEmpty(t, Version)
}
