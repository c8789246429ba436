package iomap

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/edugraph/skillmap/pkg/config"
	"github.com/edugraph/skillmap/pkg/schema"
	"github.com/edugraph/skillmap/pkg/similarity"
)

// Assistant maps one skill to a taxonomy path: retrieval over the
// index, then either an inference call or, with no endpoint
// configured, a deterministic offline chooser.
type Assistant struct {
	cfg    *config.MappingConfig
	index  *Index
	client *InferenceClient
}

// NewAssistant creates an Assistant over the given retrieval index.
// An empty cfg.Endpoint selects offline mode.
func NewAssistant(cfg *config.MappingConfig, idx *Index) *Assistant {
	a := &Assistant{cfg: cfg, index: idx}
	if cfg.Endpoint != "" {
		a.client = NewInferenceClient(cfg)
	}
	return a
}

// Offline reports whether the assistant uses the offline chooser
// instead of a remote inference call.
func (a *Assistant) Offline() bool {
	return a.client == nil
}

// MapSkill produces a mapping record for one skill. Failures never
// propagate as a missing record: exhausted retries and unparseable
// replies yield a status=error record with the raw response preserved,
// and the returned error only feeds the caller's failure accounting.
func (a *Assistant) MapSkill(
	ctx context.Context,
	skill schema.Skill,
) (schema.TaxonomyMapping, error) {
	rec := schema.TaxonomyMapping{
		SkillID:   skill.ID,
		Status:    schema.StatusSuccess,
		CreatedAt: time.Now(),
	}

	desc := skillDescription(skill)
	candidates, err := a.index.Query(ctx, desc, a.cfg.TopK)
	if err != nil {
		rec.Status = schema.StatusError
		rec.Error = err.Error()
		return rec, err
	}
	if len(candidates) == 0 {
		rec.Status = schema.StatusNoSuggestions
		return rec, nil
	}

	if a.client == nil {
		a.chooseOffline(&rec, skill, candidates)
		return rec, nil
	}

	sug, raw, err := a.client.Suggest(ctx, buildPrompt(desc, candidates))
	if err != nil {
		rec.Status = schema.StatusError
		if raw != "" {
			rec.Error = raw
		} else {
			rec.Error = err.Error()
		}
		return rec, err
	}

	rec.Path = sug.BestPath
	rec.Confidence = parseConfidence(sug.Confidence)
	rec.Rationale = sug.Rationale
	rec.Similarity = candidateScore(candidates, sug.BestPath)
	if len(sug.Alternatives) > 0 {
		rec.Alternative1 = sug.Alternatives[0]
	}
	if len(sug.Alternatives) > 1 {
		rec.Alternative2 = sug.Alternatives[1]
	}
	a.markReview(&rec)
	return rec, nil
}

// chooseOffline picks the best candidate deterministically: the
// top-scored path (lexicographically first on ties), High confidence
// only on an exact normalized leaf-name match, Medium at or above the
// review threshold, Low otherwise.
func (a *Assistant) chooseOffline(
	rec *schema.TaxonomyMapping,
	skill schema.Skill,
	candidates []Candidate,
) {
	best := candidates[0]
	rec.Path = best.Path
	rec.Similarity = best.Score

	switch {
	case similarity.Normalize(skill.Name) ==
		similarity.Normalize(leafName(best.Path)):
		rec.Confidence = schema.ConfidenceHigh
	case best.Score >= a.cfg.ReviewSimilarity:
		rec.Confidence = schema.ConfidenceMedium
	default:
		rec.Confidence = schema.ConfidenceLow
	}
	rec.Rationale = fmt.Sprintf(
		"offline chooser: best of %d candidates, retrieval score %.3f",
		len(candidates), best.Score)

	if len(candidates) > 1 {
		rec.Alternative1 = candidates[1].Path
	}
	if len(candidates) > 2 {
		rec.Alternative2 = candidates[2].Path
	}
	a.markReview(rec)
}

// markReview flags records for human review: Low confidence, or
// similarity below the review threshold. The rule applies to
// successful mappings only; error and no_suggestions records carry
// no path to review and stay unflagged.
func (a *Assistant) markReview(rec *schema.TaxonomyMapping) {
	rec.NeedsReview = rec.Confidence == schema.ConfidenceLow ||
		rec.Similarity < a.cfg.ReviewSimilarity
}

// skillDescription composes the retrieval query and prompt subject
// for one skill. The composition is fixed; changing it invalidates
// cached embeddings and reproducibility of past runs.
func skillDescription(s schema.Skill) string {
	var sb strings.Builder
	sb.WriteString(s.Name)
	sb.WriteString("; content area: ")
	sb.WriteString(s.ContentArea)
	if s.GradeLabel != "" {
		sb.WriteString("; grade: ")
		sb.WriteString(s.GradeLabel)
	}
	if s.SkillArea != "" {
		sb.WriteString("; skill area: ")
		sb.WriteString(s.SkillArea)
	}
	return sb.String()
}

// buildPrompt renders the inference prompt: the skill description and
// the numbered candidate list the model must choose from.
func buildPrompt(desc string, candidates []Candidate) string {
	var sb strings.Builder
	sb.WriteString("Map the following educational skill to the best ")
	sb.WriteString("matching taxonomy path.\n\nSkill: ")
	sb.WriteString(desc)
	sb.WriteString("\n\nCandidate paths:\n")
	for i, c := range candidates {
		fmt.Fprintf(&sb, "%d. %s\n", i+1, c.Path)
	}
	sb.WriteString("\nPick the single best path from the candidates, ")
	sb.WriteString("state your confidence (High, Medium or Low), give ")
	sb.WriteString("a one-sentence rationale, and list up to two ")
	sb.WriteString("alternative paths.")
	return sb.String()
}

// parseConfidence normalizes the model's confidence string to the
// three-valued enum. Anything unrecognized degrades to Low.
func parseConfidence(s string) schema.Confidence {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "high":
		return schema.ConfidenceHigh
	case "medium":
		return schema.ConfidenceMedium
	default:
		return schema.ConfidenceLow
	}
}

// candidateScore returns the retrieval score of the chosen path, or
// zero when the model picked a path outside the candidate list.
func candidateScore(candidates []Candidate, path string) float64 {
	for _, c := range candidates {
		if c.Path == path {
			return c.Score
		}
	}
	return 0
}
