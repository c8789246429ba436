// Package iomap implements the taxonomy mapping assistant and its
// batch orchestrator. Mapping is a two-stage process: retrieval of
// top-K candidate taxonomy paths from an in-memory index, followed by
// an inference call that picks the best path. With no inference
// endpoint configured a deterministic offline chooser replaces the
// remote call, so the pipeline stays runnable end to end without
// network access.
package iomap

import (
	"context"
	"log/slog"
	"slices"
	"strings"

	"github.com/edugraph/skillmap/pkg/embed"
	"github.com/edugraph/skillmap/pkg/schema"
	"github.com/edugraph/skillmap/pkg/similarity"
)

// Candidate is one retrieval result: a taxonomy leaf path with its
// similarity to the query.
type Candidate struct {
	Path  string
	Score float64
}

// Index answers top-K queries over the taxonomy leaf paths. It is
// built once per run and queried in memory. With an embedding engine
// the scores are rescaled cosine similarities; without one (or when
// the engine's health check fails) the index degrades to lexical
// scoring over the same paths.
type Index struct {
	paths    []string
	vectors  [][]float32
	engine   embed.Engine
	degraded bool
}

// NewIndex builds a retrieval index over the given taxonomy leaf
// paths. Paths are sorted, so equal-score candidates always come back
// in lexicographic order. A nil engine or a failed health check
// yields a degraded, lexical-only index rather than an error.
func NewIndex(
	ctx context.Context,
	paths []string,
	engine embed.Engine,
) (*Index, error) {
	sorted := slices.Clone(paths)
	slices.Sort(sorted)

	idx := &Index{paths: sorted, engine: engine}

	if engine == nil {
		idx.degraded = true
		return idx, nil
	}

	if hc, ok := engine.(embed.HealthChecker); ok {
		if err := hc.HealthCheck(ctx); err != nil {
			slog.Warn("Embedding engine unavailable, "+
				"falling back to lexical retrieval",
				"engine", engine.Name(), "error", err)
			idx.degraded = true
			idx.engine = nil
			return idx, nil
		}
	}

	vectors, err := engine.EmbedBatch(ctx, sorted)
	if err != nil {
		return nil, IndexError(err)
	}
	idx.vectors = vectors
	return idx, nil
}

// Degraded reports whether the index runs on lexical scoring instead
// of embeddings. Callers must check it: mapping records of a degraded
// index carry the lexical score as the similarity signal.
func (idx *Index) Degraded() bool {
	return idx.degraded
}

// Size returns the number of indexed paths.
func (idx *Index) Size() int {
	return len(idx.paths)
}

// Query returns the k paths most similar to the given text, best
// first. Equal scores resolve to the lexicographically first path.
func (idx *Index) Query(
	ctx context.Context,
	text string,
	k int,
) ([]Candidate, error) {
	var hits []similarity.Hit
	if idx.degraded {
		hits = similarity.TopKLexical(text, idx.paths, k)
	} else {
		vec, err := idx.engine.Embed(ctx, text)
		if err != nil {
			return nil, IndexError(err)
		}
		hits = similarity.TopK(vec, idx.vectors, k)
	}

	res := make([]Candidate, len(hits))
	for i, h := range hits {
		res[i] = Candidate{Path: idx.paths[h.Index], Score: h.Score}
	}
	return res, nil
}

// leafName returns the last level of a taxonomy path.
func leafName(path string) string {
	i := strings.LastIndex(path, schema.PathSeparator)
	if i < 0 {
		return path
	}
	return path[i+len(schema.PathSeparator):]
}
