package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/w-h-a/demo/storer"
)

func TestAddSearchCount(t *testing.T) {
	ctx := context.Background()
	s := NewStorer()
	defer s.Close()

	require.NoError(t, s.CreateCollection(ctx, "docs"))
	require.NoError(t, s.CreateCollection(ctx, "docs"))

	records := []storer.Record{
		{Id: "x", Document: "east", Metadata: map[string]string{"dir": "e"}, Embedding: []float32{1, 0}},
		{Id: "y", Document: "north", Metadata: map[string]string{"dir": "n"}, Embedding: []float32{0, 1}},
		{Id: "z", Document: "north east", Embedding: []float32{1, 1}},
	}
	require.NoError(t, s.Add(ctx, "docs", records))

	n, err := s.Count(ctx, "docs")
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	out, err := s.Search(ctx, "docs", []float32{1, 0.1}, 2)
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, "x", out[0].Id)
	assert.Equal(t, "east", out[0].Document)
	assert.Equal(t, map[string]string{"dir": "e"}, out[0].Metadata)
	assert.Equal(t, "z", out[1].Id)
	assert.Equal(t, map[string]string{}, out[1].Metadata)
	assert.LessOrEqual(t, out[0].Distance, out[1].Distance)
}

func TestDuplicateIds(t *testing.T) {
	ctx := context.Background()
	s := NewStorer()
	defer s.Close()

	require.NoError(t, s.CreateCollection(ctx, "docs"))
	require.NoError(t, s.Add(ctx, "docs", []storer.Record{{Id: "a", Embedding: []float32{1}}}))

	err := s.Add(ctx, "docs", []storer.Record{{Id: "b", Embedding: []float32{1}}, {Id: "a", Embedding: []float32{1}}})
	assert.ErrorIs(t, err, storer.ErrDuplicateId)

	err = s.Add(ctx, "docs", []storer.Record{{Id: "c", Embedding: []float32{1}}, {Id: "c", Embedding: []float32{1}}})
	assert.ErrorIs(t, err, storer.ErrDuplicateId)

	n, err := s.Count(ctx, "docs")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestEmptyAndMissingCollections(t *testing.T) {
	ctx := context.Background()
	s := NewStorer()
	defer s.Close()

	_, err := s.Search(ctx, "missing", []float32{1}, 1)
	assert.ErrorIs(t, err, storer.ErrCollectionNotFound)

	require.NoError(t, s.CreateCollection(ctx, "empty"))
	out, err := s.Search(ctx, "empty", []float32{1}, 4)
	require.NoError(t, err)
	assert.Empty(t, out)

	require.NoError(t, s.DeleteCollection(ctx, "empty"))
	assert.ErrorIs(t, s.DeleteCollection(ctx, "empty"), storer.ErrCollectionNotFound)
}

func TestPersistsToFile(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "records.db")

	s := NewStorer(storer.WithLocation(path))
	require.NoError(t, s.CreateCollection(ctx, "docs"))
	require.NoError(t, s.Add(ctx, "docs", []storer.Record{{Id: "a", Document: "kept", Embedding: []float32{0.5, 0.5}}}))
	require.NoError(t, s.Close())

	reopened := NewStorer(storer.WithLocation(path))
	defer reopened.Close()

	out, err := reopened.Search(ctx, "docs", []float32{0.5, 0.5}, 1)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "kept", out[0].Document)
	assert.Equal(t, []float32{0.5, 0.5}, out[0].Embedding)
}

func TestCorruptMetadataSurfaces(t *testing.T) {
	ctx := context.Background()
	s := NewStorer()
	defer s.Close()

	require.NoError(t, s.CreateCollection(ctx, "docs"))
	require.NoError(t, s.Add(ctx, "docs", []storer.Record{{Id: "a", Metadata: map[string]string{"k": "v"}, Embedding: []float32{1}}}))

	_, err := s.(*sqliteStorer).db.ExecContext(ctx, `UPDATE records SET metadata = '{not json' WHERE id = 'a'`)
	require.NoError(t, err)

	_, err = s.Search(ctx, "docs", []float32{1}, 1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode metadata of a")
}
