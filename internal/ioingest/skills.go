package ioingest

import (
	"context"
	"database/sql"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/cheggaaa/pb/v3"
	"github.com/edugraph/skillmap/pkg/schema"
	"github.com/edugraph/skillmap/pkg/similarity"
	"github.com/gnames/gn"

	_ "modernc.org/sqlite"
)

// skillColumns is the expected column order of the skill inventory,
// both in CSV files and in the `skills` table of SQLite snapshots.
var skillColumns = []string{
	"id", "name", "content_area", "grade", "skill_area", "authority",
}

// readSkills loads the skill inventory from a CSV file or a SQLite
// snapshot, recognized by the .sqlite/.db extension.
func readSkills(ctx context.Context, path string) ([]schema.Skill, error) {
	if path == "" {
		return nil, MissingInputError("skills file")
	}
	ext := strings.ToLower(filepath.Ext(path))
	if ext == ".sqlite" || ext == ".db" {
		return readSkillsSQLite(ctx, path)
	}
	return readSkillsCSV(path)
}

func readSkillsCSV(path string) ([]schema.Skill, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, OpenInputError(path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = len(skillColumns)

	// header row
	if _, err := r.Read(); err != nil {
		return nil, ParseInputError(path, 1, err)
	}

	var res []schema.Skill
	line := 1
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, ParseInputError(path, line, err)
		}
		res = append(res, newSkill(rec))
	}
	return res, nil
}

func readSkillsSQLite(
	ctx context.Context,
	path string,
) ([]schema.Skill, error) {
	sdb, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, OpenInputError(path, err)
	}
	defer sdb.Close()

	q := fmt.Sprintf(
		"SELECT %s FROM skills ORDER BY id",
		strings.Join(skillColumns, ", "),
	)
	rows, err := sdb.QueryContext(ctx, q)
	if err != nil {
		return nil, ParseInputError(path, 0, err)
	}
	defer rows.Close()

	var res []schema.Skill
	for rows.Next() {
		var id, name, area, grade, skillArea, authority sql.NullString
		err = rows.Scan(&id, &name, &area, &grade, &skillArea, &authority)
		if err != nil {
			return nil, ParseInputError(path, 0, err)
		}
		res = append(res, newSkill([]string{
			id.String, name.String, area.String,
			grade.String, skillArea.String, authority.String,
		}))
	}
	if err = rows.Err(); err != nil {
		return nil, ParseInputError(path, 0, err)
	}
	return res, nil
}

func newSkill(rec []string) schema.Skill {
	name := strings.TrimSpace(rec[1])
	return schema.Skill{
		ID:             strings.TrimSpace(rec[0]),
		Name:           name,
		NameNormalized: similarity.Normalize(name),
		ContentArea:    strings.TrimSpace(rec[2]),
		GradeLabel:     strings.TrimSpace(rec[3]),
		GradeRank:      schema.GradeRank(rec[3]),
		SkillArea:      strings.TrimSpace(rec[4]),
		Authority:      strings.TrimSpace(rec[5]),
	}
}

// validateSkills fails fast on integrity problems: duplicate IDs and
// missing required fields. Unknown grade labels are tolerated (the
// skill gets the ungraded rank) but reported, since they weaken both
// classification and complexity banding.
func validateSkills(skills []schema.Skill) error {
	if len(skills) == 0 {
		return EmptyInputError("skills file")
	}

	seen := make(map[string]struct{}, len(skills))
	ungraded := 0
	for i, s := range skills {
		switch {
		case s.ID == "":
			return ValidationError(i+1, "id is empty")
		case s.Name == "":
			return ValidationError(i+1,
				fmt.Sprintf("skill %s: name is empty", s.ID))
		case s.ContentArea == "":
			return ValidationError(i+1,
				fmt.Sprintf("skill %s: content_area is empty", s.ID))
		case s.Authority == "":
			return ValidationError(i+1,
				fmt.Sprintf("skill %s: authority is empty", s.ID))
		}
		if _, ok := seen[s.ID]; ok {
			return ValidationError(i+1,
				fmt.Sprintf("duplicate skill id %s", s.ID))
		}
		seen[s.ID] = struct{}{}
		if s.GradeLabel != "" && s.GradeRank == schema.UngradedRank {
			ungraded++
		}
	}
	if ungraded > 0 {
		gn.Warn("<em>%d</em> skills have unrecognized grade labels", ungraded)
	}
	return nil
}

// insertSkills bulk-inserts skills with ON CONFLICT DO NOTHING so a
// re-import of the same inventory is idempotent.
func (ing *ingestor) insertSkills(
	ctx context.Context,
	skills []schema.Skill,
) (int, error) {
	// PostgreSQL has a limit of 65535 parameters per query.
	// 8 parameters per row keeps 8000 rows safely under it.
	batchSize := ing.cfg.Database.BatchSize
	if batchSize <= 0 || batchSize > 8_000 {
		batchSize = 8_000
	}

	var total int

	bar := pb.Full.Start(len(skills))
	bar.Set("prefix", "Importing skills: ")
	bar.Set(pb.CleanOnFinish, true)

	for i := 0; i < len(skills); i += batchSize {
		end := slices.Min([]int{i + batchSize, len(skills)})
		batch := skills[i:end]

		var valueStrings []string
		var valueArgs []any
		argIdx := 1

		for _, s := range batch {
			valueStrings = append(valueStrings, fmt.Sprintf(
				"($%d, $%d, $%d, $%d, $%d, $%d, $%d, $%d)",
				argIdx, argIdx+1, argIdx+2, argIdx+3,
				argIdx+4, argIdx+5, argIdx+6, argIdx+7,
			))
			valueArgs = append(valueArgs,
				s.ID, s.Name, s.NameNormalized, s.ContentArea,
				s.GradeLabel, s.GradeRank, s.SkillArea, s.Authority,
			)
			argIdx += 8
		}

		insertQuery := fmt.Sprintf(
			`INSERT INTO skills
			 (id, name, name_normalized, content_area,
			  grade_label, grade_rank, skill_area, authority)
			 VALUES %s
			 ON CONFLICT (id) DO NOTHING`,
			strings.Join(valueStrings, ", "),
		)

		result, err := ing.operator.Pool().Exec(ctx, insertQuery, valueArgs...)
		if err != nil {
			return 0, InsertError("skills", err)
		}
		total += int(result.RowsAffected())
		bar.Add(len(batch))
	}
	bar.Finish()

	return total, nil
}
