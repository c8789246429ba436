package ioclassify

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/edugraph/skillmap/pkg/schema"
)

// loadSkills reads the whole skill corpus into memory. A few hundred
// thousand short records fit comfortably; the classifier needs random
// access within content areas anyway.
func (c *classifier) loadSkills(
	ctx context.Context,
) ([]schema.Skill, error) {
	q := `
SELECT id, name, name_normalized, content_area,
       grade_label, grade_rank, skill_area, authority
FROM skills
ORDER BY id`

	rows, err := c.operator.Pool().Query(ctx, q)
	if err != nil {
		return nil, LoadError(err)
	}
	defer rows.Close()

	var res []schema.Skill
	for rows.Next() {
		var s schema.Skill
		err = rows.Scan(&s.ID, &s.Name, &s.NameNormalized, &s.ContentArea,
			&s.GradeLabel, &s.GradeRank, &s.SkillArea, &s.Authority)
		if err != nil {
			return nil, LoadError(err)
		}
		res = append(res, s)
	}
	if err = rows.Err(); err != nil {
		return nil, LoadError(err)
	}
	return res, nil
}

// saveGroups replaces the stored relationship set wholesale: truncate
// both tables, then batch-insert the new groups and members.
func (c *classifier) saveGroups(
	ctx context.Context,
	groups []group,
) error {
	pool := c.operator.Pool()

	_, err := pool.Exec(ctx,
		"TRUNCATE equivalence_groups, equivalence_members")
	if err != nil {
		return SaveError(err)
	}

	var grpRecs []schema.EquivalenceGroup
	var memRecs []schema.EquivalenceMember
	for i := range groups {
		grp, members := groups[i].records()
		grpRecs = append(grpRecs, grp)
		memRecs = append(memRecs, members...)
	}

	batchSize := c.cfg.Database.BatchSize
	if batchSize <= 0 || batchSize > 10_000 {
		batchSize = 10_000
	}

	for i := 0; i < len(grpRecs); i += batchSize {
		end := slices.Min([]int{i + batchSize, len(grpRecs)})
		if err := c.insertGroupBatch(ctx, grpRecs[i:end]); err != nil {
			return err
		}
	}
	for i := 0; i < len(memRecs); i += batchSize {
		end := slices.Min([]int{i + batchSize, len(memRecs)})
		if err := c.insertMemberBatch(ctx, memRecs[i:end]); err != nil {
			return err
		}
	}
	return nil
}

func (c *classifier) insertGroupBatch(
	ctx context.Context,
	batch []schema.EquivalenceGroup,
) error {
	var valueStrings []string
	var valueArgs []any
	argIdx := 1
	for _, g := range batch {
		valueStrings = append(valueStrings, fmt.Sprintf(
			"($%d, $%d, $%d, $%d)",
			argIdx, argIdx+1, argIdx+2, argIdx+3))
		valueArgs = append(valueArgs,
			g.ID, g.RelationType, g.Authorities, g.MemberCount)
		argIdx += 4
	}

	q := fmt.Sprintf(
		`INSERT INTO equivalence_groups
		 (id, relation_type, authorities, member_count)
		 VALUES %s
		 ON CONFLICT (id) DO NOTHING`,
		strings.Join(valueStrings, ", "),
	)
	if _, err := c.operator.Pool().Exec(ctx, q, valueArgs...); err != nil {
		return SaveError(err)
	}
	return nil
}

func (c *classifier) insertMemberBatch(
	ctx context.Context,
	batch []schema.EquivalenceMember,
) error {
	var valueStrings []string
	var valueArgs []any
	argIdx := 1
	for _, m := range batch {
		valueStrings = append(valueStrings, fmt.Sprintf(
			"($%d, $%d, $%d, $%d)",
			argIdx, argIdx+1, argIdx+2, argIdx+3))
		var prereq any
		if m.PrerequisiteID != "" {
			prereq = m.PrerequisiteID
		}
		valueArgs = append(valueArgs,
			m.SkillID, m.GroupID, prereq, m.ComplexityLevel)
		argIdx += 4
	}

	q := fmt.Sprintf(
		`INSERT INTO equivalence_members
		 (skill_id, group_id, prerequisite_id, complexity_level)
		 VALUES %s
		 ON CONFLICT (skill_id) DO NOTHING`,
		strings.Join(valueStrings, ", "),
	)
	if _, err := c.operator.Pool().Exec(ctx, q, valueArgs...); err != nil {
		return SaveError(err)
	}
	return nil
}

// exportGroups writes the full relationship set as CSV for offline
// inspection.
func exportGroups(path string, groups []group) error {
	f, err := os.Create(path)
	if err != nil {
		return ExportError(path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	header := []string{
		"group_id", "relation_type", "skill_id", "skill_name",
		"authority", "grade", "complexity_level", "prerequisite_id",
	}
	if err = w.Write(header); err != nil {
		return ExportError(path, err)
	}

	for i := range groups {
		grp, members := groups[i].records()
		for j, m := range members {
			rec := []string{
				grp.ID,
				string(grp.RelationType),
				m.SkillID,
				groups[i].members[j].Name,
				groups[i].members[j].Authority,
				groups[i].members[j].GradeLabel,
				strconv.Itoa(m.ComplexityLevel),
				m.PrerequisiteID,
			}
			if err = w.Write(rec); err != nil {
				return ExportError(path, err)
			}
		}
	}
	w.Flush()
	if err = w.Error(); err != nil {
		return ExportError(path, err)
	}
	return nil
}
