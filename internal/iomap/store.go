package iomap

import (
	"context"
	"fmt"
	"strings"

	"github.com/edugraph/skillmap/pkg/schema"
)

// loadLeafPaths reads every leaf path of the reference taxonomy.
func (m *mapper) loadLeafPaths(ctx context.Context) ([]string, error) {
	q := `
SELECT path
FROM taxonomy_nodes
WHERE is_leaf
ORDER BY path`

	rows, err := m.operator.Pool().Query(ctx, q)
	if err != nil {
		return nil, LoadError(err)
	}
	defer rows.Close()

	var res []string
	for rows.Next() {
		var p string
		if err = rows.Scan(&p); err != nil {
			return nil, LoadError(err)
		}
		res = append(res, p)
	}
	if err = rows.Err(); err != nil {
		return nil, LoadError(err)
	}
	return res, nil
}

// loadPendingSkills reads the skills without a mapping record, in
// stable ID order, together with the count of already mapped skills.
func (m *mapper) loadPendingSkills(
	ctx context.Context,
) ([]schema.Skill, int, error) {
	pool := m.operator.Pool()

	var mapped int
	err := pool.QueryRow(ctx,
		"SELECT count(*) FROM taxonomy_mappings").Scan(&mapped)
	if err != nil {
		return nil, 0, LoadError(err)
	}

	q := `
SELECT s.id, s.name, s.name_normalized, s.content_area,
       s.grade_label, s.grade_rank, s.skill_area, s.authority
FROM skills s
LEFT JOIN taxonomy_mappings tm ON tm.skill_id = s.id
WHERE tm.skill_id IS NULL
ORDER BY s.id`

	rows, err := pool.Query(ctx, q)
	if err != nil {
		return nil, 0, LoadError(err)
	}
	defer rows.Close()

	var res []schema.Skill
	for rows.Next() {
		var s schema.Skill
		err = rows.Scan(&s.ID, &s.Name, &s.NameNormalized, &s.ContentArea,
			&s.GradeLabel, &s.GradeRank, &s.SkillArea, &s.Authority)
		if err != nil {
			return nil, 0, LoadError(err)
		}
		res = append(res, s)
	}
	if err = rows.Err(); err != nil {
		return nil, 0, LoadError(err)
	}
	return res, mapped, nil
}

// insertMappings persists one checkpoint batch. The conflict clause
// keeps mapping records append-only: an already mapped skill is never
// overwritten, which makes re-runs idempotent.
func (m *mapper) insertMappings(
	ctx context.Context,
	recs []schema.TaxonomyMapping,
) error {
	if len(recs) == 0 {
		return nil
	}

	params := make([]any, 0, len(recs)*11)
	values := make([]string, 0, len(recs))
	for i, rec := range recs {
		base := i * 11
		values = append(values, fmt.Sprintf(
			"($%d,$%d,$%d,$%d,$%d,$%d,$%d,$%d,$%d,$%d,$%d)",
			base+1, base+2, base+3, base+4, base+5, base+6,
			base+7, base+8, base+9, base+10, base+11))
		params = append(params,
			rec.SkillID, rec.Path, string(rec.Confidence), rec.Rationale,
			rec.Similarity, rec.Alternative1, rec.Alternative2,
			rec.NeedsReview, string(rec.Status), rec.Error, rec.CreatedAt)
	}

	q := fmt.Sprintf(`
INSERT INTO taxonomy_mappings
  (skill_id, path, confidence, rationale, similarity,
   alternative1, alternative2, needs_review, status, error, created_at)
VALUES %s
ON CONFLICT (skill_id) DO NOTHING`,
		strings.Join(values, ","))

	if _, err := m.operator.Pool().Exec(ctx, q, params...); err != nil {
		return SaveError(err)
	}
	return nil
}
