package search

import (
	"context"
	"fmt"
	"sort"

	"github.com/calarcon/aulabot/internal/ai"
	"github.com/calarcon/aulabot/internal/model"
	appErr "github.com/calarcon/aulabot/internal/pkg/errors"
)

// Index is an ephemeral vector index over a query's fragment set. It is
// rebuilt for every query (Clear then Add) and must not be shared across
// concurrent queries.
type Index struct {
	embedder ai.IEmbedder
	entries  []entry
}

type entry struct {
	fragment model.Fragment
	vector   []float32
}

func New(embedder ai.IEmbedder) *Index {
	return &Index{embedder: embedder}
}

// Clear discards all indexed entries. Idempotent.
func (idx *Index) Clear() {
	idx.entries = idx.entries[:0]
}

// Size returns the number of entries added since the last Clear.
func (idx *Index) Size() int {
	return len(idx.entries)
}

// Add embeds each fragment text and appends it to the index in input order.
// Partial additions are not rolled back on failure; callers should Clear
// and retry when exactness matters.
func (idx *Index) Add(ctx context.Context, fragments []model.Fragment) error {
	for _, fragment := range fragments {
		vector, err := idx.embedder.Embed(ctx, fragment.Text, "RETRIEVAL_DOCUMENT")
		if err != nil {
			return fmt.Errorf("%w: %v", appErr.ErrEmbedding, err)
		}
		idx.entries = append(idx.entries, entry{fragment: fragment, vector: vector})
	}
	return nil
}

// Search embeds the query and returns the k nearest entries ordered by
// non-increasing score, ties broken by insertion order. Scores derive from
// squared euclidean distance as 1/(1+d), so an exact match scores 1.0. An
// empty index yields an empty result without error; k is clamped to the
// index size.
func (idx *Index) Search(ctx context.Context, query string, k int) ([]model.SearchResult, error) {
	if len(idx.entries) == 0 || k <= 0 {
		return []model.SearchResult{}, nil
	}
	queryVector, err := idx.embedder.Embed(ctx, query, "RETRIEVAL_QUERY")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", appErr.ErrEmbedding, err)
	}

	results := make([]model.SearchResult, 0, len(idx.entries))
	for _, e := range idx.entries {
		dist := squaredDistance(queryVector, e.vector)
		results = append(results, model.SearchResult{
			Fragment: e.fragment,
			Score:    1 / (1 + dist),
		})
	}
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
	if k > len(results) {
		k = len(results)
	}
	return results[:k], nil
}

// squaredDistance is the flat-L2 metric: no square root, matching the
// squared distances an L2 flat index reports.
func squaredDistance(a, b []float32) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var sum float64
	for i := 0; i < n; i++ {
		d := float64(a[i]) - float64(b[i])
		sum += d * d
	}
	// Dimension mismatch counts the missing components as distance.
	for i := n; i < len(a); i++ {
		sum += float64(a[i]) * float64(a[i])
	}
	for i := n; i < len(b); i++ {
		sum += float64(b[i]) * float64(b[i])
	}
	return sum
}
