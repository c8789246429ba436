package ioingest

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"testing"

	"github.com/edugraph/skillmap/pkg/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestReadSkillsCSV(t *testing.T) {
	csvData := `id,name,content_area,grade,skill_area,authority
TX-001,Identify main idea,ELA,3,Reading Comprehension,TX
CA-001,Identify the main idea,ELA,Grade 3,Reading Comprehension,CA
CC-001,Count to 100 by ones,Math,K,Counting,CCSS
`
	path := writeFile(t, "skills.csv", csvData)

	skills, err := readSkillsCSV(path)
	require.NoError(t, err)
	require.Len(t, skills, 3)

	assert.Equal(t, "TX-001", skills[0].ID)
	assert.Equal(t, "Identify main idea", skills[0].Name)
	assert.Equal(t, "identify main idea", skills[0].NameNormalized)
	assert.Equal(t, 3, skills[0].GradeRank)
	assert.Equal(t, "TX", skills[0].Authority)

	// "Grade 3" label resolves to the same rank as "3"
	assert.Equal(t, 3, skills[1].GradeRank)
	// kindergarten
	assert.Equal(t, 0, skills[2].GradeRank)
}

func TestReadSkillsCSV_MissingFile(t *testing.T) {
	_, err := readSkillsCSV("/nonexistent/skills.csv")
	assert.Error(t, err)
}

func TestReadSkillsSQLite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "skills.sqlite")

	sdb, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	_, err = sdb.Exec(`CREATE TABLE skills (
		id TEXT, name TEXT, content_area TEXT,
		grade TEXT, skill_area TEXT, authority TEXT)`)
	require.NoError(t, err)
	_, err = sdb.Exec(`INSERT INTO skills VALUES
		('NY-001', 'Add within 20', 'Math', '1', 'Addition', 'NY'),
		('NY-002', 'Add within 100', 'Math', '2', 'Addition', 'NY')`)
	require.NoError(t, err)
	require.NoError(t, sdb.Close())

	skills, err := readSkills(context.Background(), path)
	require.NoError(t, err)
	require.Len(t, skills, 2)
	assert.Equal(t, "NY-001", skills[0].ID)
	assert.Equal(t, "add within 20", skills[0].NameNormalized)
	assert.Equal(t, 2, skills[1].GradeRank)
}

func TestValidateSkills(t *testing.T) {
	valid := schema.Skill{
		ID: "A-1", Name: "Skill", ContentArea: "Math", Authority: "TX",
	}

	tests := []struct {
		msg     string
		mutate  func(s *schema.Skill)
		wantErr bool
	}{
		{"valid record", func(s *schema.Skill) {}, false},
		{"empty id", func(s *schema.Skill) { s.ID = "" }, true},
		{"empty name", func(s *schema.Skill) { s.Name = "" }, true},
		{"empty content area",
			func(s *schema.Skill) { s.ContentArea = "" }, true},
		{"empty authority",
			func(s *schema.Skill) { s.Authority = "" }, true},
	}

	for _, tt := range tests {
		s := valid
		tt.mutate(&s)
		err := validateSkills([]schema.Skill{s})
		if tt.wantErr {
			assert.Error(t, err, tt.msg)
		} else {
			assert.NoError(t, err, tt.msg)
		}
	}
}

func TestValidateSkills_DuplicateID(t *testing.T) {
	skills := []schema.Skill{
		{ID: "A-1", Name: "Skill one", ContentArea: "Math", Authority: "TX"},
		{ID: "A-1", Name: "Skill two", ContentArea: "Math", Authority: "CA"},
	}
	err := validateSkills(skills)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate")
}

func TestValidateSkills_Empty(t *testing.T) {
	assert.Error(t, validateSkills(nil))
}
