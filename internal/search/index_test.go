package search

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/calarcon/aulabot/internal/model"
	appErr "github.com/calarcon/aulabot/internal/pkg/errors"
)

type fakeEmbedder struct {
	vectors map[string][]float32
	fail    bool
}

func (f *fakeEmbedder) Embed(ctx context.Context, text string, taskType string) ([]float32, error) {
	if f.fail {
		return nil, fmt.Errorf("embedder down")
	}
	if v, ok := f.vectors[text]; ok {
		return v, nil
	}
	return []float32{0, 0}, nil
}

func (f *fakeEmbedder) ModelName() string {
	return "fake-embedder"
}

func TestSearchOrdersByScore(t *testing.T) {
	embedder := &fakeEmbedder{vectors: map[string][]float32{
		"near":  {1, 0},
		"mid":   {2, 0},
		"far":   {5, 0},
		"query": {0, 0},
	}}
	index := New(embedder)
	require.NoError(t, index.Add(context.Background(), []model.Fragment{
		{Text: "far"}, {Text: "near"}, {Text: "mid"},
	}))

	results, err := index.Search(context.Background(), "query", 5)
	require.NoError(t, err)
	require.Len(t, results, 3)
	require.Equal(t, "near", results[0].Fragment.Text)
	require.Equal(t, "mid", results[1].Fragment.Text)
	require.Equal(t, "far", results[2].Fragment.Text)
	// Squared distances 1, 4, 25 through 1/(1+d).
	require.InDelta(t, 0.5, results[0].Score, 1e-9)
	require.InDelta(t, 0.2, results[1].Score, 1e-9)
	require.InDelta(t, 1.0/26.0, results[2].Score, 1e-9)
}

func TestSearchExactMatchScoresOne(t *testing.T) {
	embedder := &fakeEmbedder{vectors: map[string][]float32{
		"examen": {3, 4},
	}}
	index := New(embedder)
	require.NoError(t, index.Add(context.Background(), []model.Fragment{{Text: "examen"}}))

	results, err := index.Search(context.Background(), "examen", 1)
	require.NoError(t, err)
	require.Len(t, results, 1)
	require.InDelta(t, 1.0, results[0].Score, 1e-9)
}

func TestSearchClampsK(t *testing.T) {
	embedder := &fakeEmbedder{vectors: map[string][]float32{}}
	index := New(embedder)
	require.NoError(t, index.Add(context.Background(), []model.Fragment{
		{Text: "one"}, {Text: "two"},
	}))

	results, err := index.Search(context.Background(), "anything", 2)
	require.NoError(t, err)
	require.Len(t, results, 2)
}

func TestSearchEmptyIndex(t *testing.T) {
	// The embedder fails on contact; an empty index must not touch it.
	index := New(&fakeEmbedder{fail: true})
	results, err := index.Search(context.Background(), "query", 5)
	require.NoError(t, err)
	require.NotNil(t, results)
	require.Empty(t, results)
}

func TestSearchTieBreakKeepsInsertionOrder(t *testing.T) {
	embedder := &fakeEmbedder{vectors: map[string][]float32{}}
	index := New(embedder)
	require.NoError(t, index.Add(context.Background(), []model.Fragment{
		{Text: "first"}, {Text: "second"}, {Text: "third"},
	}))

	results, err := index.Search(context.Background(), "query", 3)
	require.NoError(t, err)
	require.Equal(t, "first", results[0].Fragment.Text)
	require.Equal(t, "second", results[1].Fragment.Text)
	require.Equal(t, "third", results[2].Fragment.Text)
}

func TestClearEmptiesIndex(t *testing.T) {
	embedder := &fakeEmbedder{vectors: map[string][]float32{}}
	index := New(embedder)
	require.NoError(t, index.Add(context.Background(), []model.Fragment{{Text: "one"}}))
	require.Equal(t, 1, index.Size())

	index.Clear()
	index.Clear()
	require.Equal(t, 0, index.Size())

	results, err := index.Search(context.Background(), "query", 5)
	require.NoError(t, err)
	require.Empty(t, results)
}

func TestAddEmbedFailure(t *testing.T) {
	index := New(&fakeEmbedder{fail: true})
	err := index.Add(context.Background(), []model.Fragment{{Text: "one"}})
	require.Error(t, err)
	require.ErrorIs(t, err, appErr.ErrEmbedding)
}
