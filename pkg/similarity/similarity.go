// Package similarity provides the pure scoring functions of the
// pipeline: normalization, lexical name similarity for explainable
// duplicate detection, and cosine/top-K scoring over embedding
// vectors. No I/O happens here.
package similarity

import (
	"math"
	"sort"
	"strings"
	"unicode"

	"github.com/agnivade/levenshtein"
)

// Normalize lower-cases a name, strips punctuation and collapses
// whitespace. All lexical comparisons run over normalized names.
func Normalize(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	space := false
	for _, r := range strings.ToLower(s) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			if space && b.Len() > 0 {
				b.WriteByte(' ')
			}
			space = false
			b.WriteRune(r)
		default:
			space = true
		}
	}
	return b.String()
}

// Tokens splits a normalized name into its word tokens.
func Tokens(normalized string) []string {
	if normalized == "" {
		return nil
	}
	return strings.Fields(normalized)
}

// Ratio is the edit-distance similarity of two normalized names:
// 1 - levenshtein/maxLen, in [0,1].
func Ratio(a, b string) float64 {
	if a == b {
		return 1
	}
	maxLen := len([]rune(a))
	if l := len([]rune(b)); l > maxLen {
		maxLen = l
	}
	if maxLen == 0 {
		return 1
	}
	dist := levenshtein.ComputeDistance(a, b)
	return 1 - float64(dist)/float64(maxLen)
}

// TokenOverlap is the Jaccard similarity of the token sets of two
// normalized names, in [0,1].
func TokenOverlap(a, b string) float64 {
	ta, tb := Tokens(a), Tokens(b)
	if len(ta) == 0 && len(tb) == 0 {
		return 1
	}
	if len(ta) == 0 || len(tb) == 0 {
		return 0
	}
	set := make(map[string]struct{}, len(ta))
	for _, t := range ta {
		set[t] = struct{}{}
	}
	inter := 0
	union := len(set)
	seen := make(map[string]struct{}, len(tb))
	for _, t := range tb {
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		if _, ok := set[t]; ok {
			inter++
		} else {
			union++
		}
	}
	return float64(inter) / float64(union)
}

// NameScore blends edit-distance ratio and token overlap into the
// single lexical score used by the classifier and the validator.
// The blend weighs character-level similarity slightly higher
// because skill statements reuse long shared phrases.
func NameScore(a, b string) float64 {
	return 0.6*Ratio(a, b) + 0.4*TokenOverlap(a, b)
}

// Cosine computes the cosine similarity of two embedding vectors,
// rescaled into [0,1]. Returns 0 for mismatched or zero vectors.
func Cosine(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, ma, mb float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		ma += float64(a[i]) * float64(a[i])
		mb += float64(b[i]) * float64(b[i])
	}
	if ma == 0 || mb == 0 {
		return 0
	}
	cos := dot / (math.Sqrt(ma) * math.Sqrt(mb))
	// rescale [-1,1] -> [0,1] so all similarity signals share a range
	return (cos + 1) / 2
}

// Hit is one result of a top-K query.
type Hit struct {
	// Index points into the corpus the query ran over.
	Index int

	// Score is the similarity of the corpus entry to the query.
	Score float64
}

// TopK returns the k corpus vectors most similar to the query,
// best first. Ties are broken by corpus index so results are
// deterministic.
func TopK(query []float32, corpus [][]float32, k int) []Hit {
	if k <= 0 || len(corpus) == 0 {
		return nil
	}
	hits := make([]Hit, 0, len(corpus))
	for i, vec := range corpus {
		hits = append(hits, Hit{Index: i, Score: Cosine(query, vec)})
	}
	sort.Slice(hits, func(i, j int) bool {
		if hits[i].Score != hits[j].Score {
			return hits[i].Score > hits[j].Score
		}
		return hits[i].Index < hits[j].Index
	})
	if len(hits) > k {
		hits = hits[:k]
	}
	return hits
}

// TopKLexical answers a top-K query with lexical scores only. It is
// the degraded mode of the retrieval index when no embedding engine
// is available.
func TopKLexical(query string, corpus []string, k int) []Hit {
	if k <= 0 || len(corpus) == 0 {
		return nil
	}
	qn := Normalize(query)
	hits := make([]Hit, 0, len(corpus))
	for i, s := range corpus {
		hits = append(hits, Hit{Index: i, Score: NameScore(qn, Normalize(s))})
	}
	sort.Slice(hits, func(i, j int) bool {
		if hits[i].Score != hits[j].Score {
			return hits[i].Score > hits[j].Score
		}
		return hits[i].Index < hits[j].Index
	})
	if len(hits) > k {
		hits = hits[:k]
	}
	return hits
}
