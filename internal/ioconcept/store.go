package ioconcept

import (
	"context"
	"database/sql"
	"encoding/csv"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/edugraph/skillmap/pkg/schema"
)

// loadGroups reads every state-variant group with its member skills,
// their mapping records and optional metadata, in stable group order.
func (a *aggregator) loadGroups(
	ctx context.Context,
) ([]groupInput, error) {
	q := `
SELECT em.group_id,
       s.id, s.name, s.name_normalized, s.content_area,
       s.grade_label, s.grade_rank, s.skill_area, s.authority,
       tm.path, tm.confidence, tm.status,
       sm.text_type, sm.text_mode, sm.skill_domain
FROM equivalence_members em
JOIN equivalence_groups eg ON eg.id = em.group_id
JOIN skills s ON s.id = em.skill_id
LEFT JOIN taxonomy_mappings tm ON tm.skill_id = s.id
LEFT JOIN skill_metadata sm ON sm.skill_id = s.id
WHERE eg.relation_type = $1
ORDER BY em.group_id, s.id`

	rows, err := a.operator.Pool().Query(ctx, q,
		string(schema.RelationStateVariant))
	if err != nil {
		return nil, LoadError(err)
	}
	defer rows.Close()

	byGroup := make(map[string][]member)
	for rows.Next() {
		var groupID string
		var m member
		var path, conf, status sql.NullString
		var textType, textMode, domain sql.NullString

		err = rows.Scan(&groupID,
			&m.skill.ID, &m.skill.Name, &m.skill.NameNormalized,
			&m.skill.ContentArea, &m.skill.GradeLabel, &m.skill.GradeRank,
			&m.skill.SkillArea, &m.skill.Authority,
			&path, &conf, &status,
			&textType, &textMode, &domain)
		if err != nil {
			return nil, LoadError(err)
		}

		if status.Valid {
			m.mapping = &schema.TaxonomyMapping{
				SkillID:    m.skill.ID,
				Path:       path.String,
				Confidence: schema.Confidence(conf.String),
				Status:     schema.MappingStatus(status.String),
			}
		}
		if textType.Valid || textMode.Valid || domain.Valid {
			m.meta = &schema.SkillMetadata{
				SkillID:     m.skill.ID,
				TextType:    textType.String,
				TextMode:    textMode.String,
				SkillDomain: domain.String,
			}
		}
		byGroup[groupID] = append(byGroup[groupID], m)
	}
	if err = rows.Err(); err != nil {
		return nil, LoadError(err)
	}

	ids := make([]string, 0, len(byGroup))
	for id := range byGroup {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	res := make([]groupInput, len(ids))
	for i, id := range ids {
		res[i] = groupInput{groupID: id, members: byGroup[id]}
	}
	return res, nil
}

// saveConcepts rewrites the derived tables wholesale.
func (a *aggregator) saveConcepts(
	ctx context.Context,
	concepts []schema.MasterConcept,
	bridge []schema.ConceptSkill,
) error {
	pool := a.operator.Pool()

	_, err := pool.Exec(ctx, "TRUNCATE master_concepts, concept_skills")
	if err != nil {
		return SaveError(err)
	}

	batchSize := a.cfg.Database.BatchSize
	if batchSize <= 0 || batchSize > 5_000 {
		batchSize = 5_000
	}

	for i := 0; i < len(concepts); i += batchSize {
		end := min(i+batchSize, len(concepts))
		if err := a.insertConceptBatch(ctx, concepts[i:end]); err != nil {
			return err
		}
	}
	for i := 0; i < len(bridge); i += batchSize {
		end := min(i+batchSize, len(bridge))
		if err := a.insertBridgeBatch(ctx, bridge[i:end]); err != nil {
			return err
		}
	}
	return nil
}

func (a *aggregator) insertConceptBatch(
	ctx context.Context,
	concepts []schema.MasterConcept,
) error {
	params := make([]any, 0, len(concepts)*9)
	values := make([]string, 0, len(concepts))
	for i, c := range concepts {
		base := i * 9
		values = append(values, fmt.Sprintf(
			"($%d,$%d,$%d,$%d,$%d,$%d,$%d,$%d,$%d)",
			base+1, base+2, base+3, base+4, base+5,
			base+6, base+7, base+8, base+9))
		params = append(params,
			c.ID, c.GroupID, c.Name, c.Path, c.ComplexityBand,
			c.TextType, c.TextMode, c.SkillDomain, c.MemberCount)
	}

	q := fmt.Sprintf(`
INSERT INTO master_concepts
  (id, group_id, name, path, complexity_band,
   text_type, text_mode, skill_domain, member_count)
VALUES %s
ON CONFLICT (id) DO NOTHING`,
		strings.Join(values, ","))

	if _, err := a.operator.Pool().Exec(ctx, q, params...); err != nil {
		return SaveError(err)
	}
	return nil
}

func (a *aggregator) insertBridgeBatch(
	ctx context.Context,
	bridge []schema.ConceptSkill,
) error {
	params := make([]any, 0, len(bridge)*2)
	values := make([]string, 0, len(bridge))
	for i, b := range bridge {
		values = append(values,
			fmt.Sprintf("($%d,$%d)", i*2+1, i*2+2))
		params = append(params, b.ConceptID, b.SkillID)
	}

	q := fmt.Sprintf(`
INSERT INTO concept_skills (concept_id, skill_id)
VALUES %s
ON CONFLICT (concept_id, skill_id) DO NOTHING`,
		strings.Join(values, ","))

	if _, err := a.operator.Pool().Exec(ctx, q, params...); err != nil {
		return SaveError(err)
	}
	return nil
}

// exportConcepts writes the master concept set as CSV.
func exportConcepts(
	path string,
	concepts []schema.MasterConcept,
) error {
	f, err := os.Create(path)
	if err != nil {
		return ExportError(path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	header := []string{
		"id", "group_id", "name", "path", "complexity_band",
		"text_type", "text_mode", "skill_domain", "member_count",
	}
	if err = w.Write(header); err != nil {
		return ExportError(path, err)
	}
	for _, c := range concepts {
		row := []string{
			c.ID, c.GroupID, c.Name, c.Path, c.ComplexityBand,
			c.TextType, c.TextMode, c.SkillDomain,
			strconv.Itoa(c.MemberCount),
		}
		if err = w.Write(row); err != nil {
			return ExportError(path, err)
		}
	}
	w.Flush()
	if err = w.Error(); err != nil {
		return ExportError(path, err)
	}
	return nil
}

// exportBridge writes the concept-to-skill bridge as CSV.
func exportBridge(path string, bridge []schema.ConceptSkill) error {
	f, err := os.Create(path)
	if err != nil {
		return ExportError(path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err = w.Write([]string{"concept_id", "skill_id"}); err != nil {
		return ExportError(path, err)
	}
	for _, b := range bridge {
		if err = w.Write([]string{b.ConceptID, b.SkillID}); err != nil {
			return ExportError(path, err)
		}
	}
	w.Flush()
	if err = w.Error(); err != nil {
		return ExportError(path, err)
	}
	return nil
}
