package iomap

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeEngine returns canned vectors, keyed by text. Unknown texts get
// the fallback vector.
type fakeEngine struct {
	vecs      map[string][]float32
	fallback  []float32
	healthErr error
	embedErr  error
}

func (e *fakeEngine) Embed(
	_ context.Context, text string,
) ([]float32, error) {
	if e.embedErr != nil {
		return nil, e.embedErr
	}
	if v, ok := e.vecs[text]; ok {
		return v, nil
	}
	return e.fallback, nil
}

func (e *fakeEngine) EmbedBatch(
	ctx context.Context, texts []string,
) ([][]float32, error) {
	res := make([][]float32, len(texts))
	for i, t := range texts {
		v, err := e.Embed(ctx, t)
		if err != nil {
			return nil, err
		}
		res[i] = v
	}
	return res, nil
}

func (e *fakeEngine) Dimensions() int { return 2 }
func (e *fakeEngine) Name() string    { return "fake:test" }

func (e *fakeEngine) HealthCheck(_ context.Context) error {
	return e.healthErr
}

var taxPaths = []string{
	"Mathematics > Numbers > Counting",
	"Mathematics > Numbers > Place Value",
	"Literacy > Reading > Main Idea",
}

func TestIndexDegradedWithoutEngine(t *testing.T) {
	idx, err := NewIndex(context.Background(), taxPaths, nil)
	require.NoError(t, err)
	assert.True(t, idx.Degraded())
	assert.Equal(t, 3, idx.Size())

	hits, err := idx.Query(context.Background(), "counting numbers", 2)
	require.NoError(t, err)
	require.Len(t, hits, 2)
	assert.Equal(t, "Mathematics > Numbers > Counting", hits[0].Path)
	assert.Greater(t, hits[0].Score, hits[1].Score)
}

func TestIndexDegradedOnFailedHealthCheck(t *testing.T) {
	eng := &fakeEngine{
		fallback:  []float32{1, 0},
		healthErr: errors.New("connection refused"),
	}
	idx, err := NewIndex(context.Background(), taxPaths, eng)
	require.NoError(t, err)
	assert.True(t, idx.Degraded())

	// lexical queries still work
	hits, err := idx.Query(context.Background(), "main idea", 1)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "Literacy > Reading > Main Idea", hits[0].Path)
}

func TestIndexEmbeddingQuery(t *testing.T) {
	eng := &fakeEngine{
		vecs: map[string][]float32{
			"Mathematics > Numbers > Counting":    {1, 0},
			"Mathematics > Numbers > Place Value": {0.9, 0.1},
			"Literacy > Reading > Main Idea":      {0, 1},
			"count to one hundred":                {1, 0.05},
		},
		fallback: []float32{0.5, 0.5},
	}
	idx, err := NewIndex(context.Background(), taxPaths, eng)
	require.NoError(t, err)
	assert.False(t, idx.Degraded())

	hits, err := idx.Query(
		context.Background(), "count to one hundred", 2)
	require.NoError(t, err)
	require.Len(t, hits, 2)
	assert.Equal(t, "Mathematics > Numbers > Counting", hits[0].Path)
	assert.Equal(t, "Mathematics > Numbers > Place Value", hits[1].Path)
}

func TestIndexEqualScoresResolveLexicographically(t *testing.T) {
	// constant vectors make every candidate score identical
	eng := &fakeEngine{fallback: []float32{1, 1}}
	idx, err := NewIndex(context.Background(), taxPaths, eng)
	require.NoError(t, err)

	hits, err := idx.Query(context.Background(), "anything", 3)
	require.NoError(t, err)
	require.Len(t, hits, 3)
	assert.Equal(t, "Literacy > Reading > Main Idea", hits[0].Path)
	assert.Equal(t, "Mathematics > Numbers > Counting", hits[1].Path)
	assert.Equal(t, "Mathematics > Numbers > Place Value", hits[2].Path)
}

func TestIndexQueryErrorPropagates(t *testing.T) {
	eng := &fakeEngine{fallback: []float32{1, 0}}
	idx, err := NewIndex(context.Background(), taxPaths, eng)
	require.NoError(t, err)

	eng.embedErr = errors.New("quota exceeded")
	_, err = idx.Query(context.Background(), "anything", 3)
	assert.Error(t, err)
}

func TestLeafName(t *testing.T) {
	assert.Equal(t, "Counting",
		leafName("Mathematics > Numbers > Counting"))
	assert.Equal(t, "Mathematics", leafName("Mathematics"))
}
