package iomap_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/edugraph/skillmap/internal/iodb"
	"github.com/edugraph/skillmap/internal/iomap"
	"github.com/edugraph/skillmap/internal/ioschema"
	"github.com/edugraph/skillmap/internal/iotesting"
	"github.com/edugraph/skillmap/pkg/config"
	"github.com/edugraph/skillmap/pkg/db"
	"github.com/edugraph/skillmap/pkg/schema"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Note: These are integration tests that require PostgreSQL.
//
// Configuration is loaded from SKILLMAP_DATABASE_* environment
// variables on top of built-in defaults. The database name is
// always forced to "skillmap_test" for safety.
//
// Option 1: Use .envrc (recommended for local development):
//   export SKILLMAP_DATABASE_USER=your_user
//   export SKILLMAP_DATABASE_PASSWORD=your_password
//
// Option 2: Use Docker with default credentials:
//   docker run -d --name skillmap-test -e POSTGRES_PASSWORD=postgres -p 5432:5432 postgres:15
//
// Skip these tests in CI without a database using:
//   go test -short (these tests will be skipped)

var resumeSkills = []schema.Skill{
	{ID: "CA-1", Name: "Count to ten", NameNormalized: "count to ten",
		ContentArea: "Math", GradeLabel: "K", GradeRank: 0,
		SkillArea: "Counting", Authority: "CA"},
	{ID: "CA-2", Name: "Identify place value", NameNormalized: "identify place value",
		ContentArea: "Math", GradeLabel: "2", GradeRank: 2,
		SkillArea: "Numbers", Authority: "CA"},
	{ID: "TX-1", Name: "Count to twenty", NameNormalized: "count to twenty",
		ContentArea: "Math", GradeLabel: "K", GradeRank: 0,
		SkillArea: "Counting", Authority: "TX"},
	{ID: "TX-2", Name: "Determine the main idea", NameNormalized: "determine the main idea",
		ContentArea: "ELA", GradeLabel: "3", GradeRank: 3,
		SkillArea: "Reading", Authority: "TX"},
}

var resumePaths = []string{
	"Mathematics > Numbers > Counting",
	"Mathematics > Numbers > Place Value",
	"Literacy > Reading > Main Idea",
}

// setupMappingDB connects to the test database, rebuilds the schema
// and seeds the taxonomy and skill fixtures. Mapping runs offline in
// degraded lexical mode, so no embedding or inference service is
// needed.
func setupMappingDB(t *testing.T) (*config.Config, db.Operator) {
	t.Helper()
	ctx := context.Background()

	cfg := iotesting.GetTestConfig()
	cfg.Update([]config.Option{
		config.OptMappingOutputDir(t.TempDir()),
		config.OptMappingCheckpointSize(2),
		config.OptJobsNumber(2),
	})

	op := iodb.NewPgxOperator()
	err := op.Connect(ctx, &cfg.Database)
	require.NoError(t, err, "Connect should succeed with valid config")
	t.Cleanup(func() { op.Close() })

	require.NoError(t, op.DropAllTables(ctx))
	require.NoError(t, ioschema.NewManager(op).Create(ctx, cfg))

	for _, path := range resumePaths {
		_, err = op.Pool().Exec(ctx,
			`INSERT INTO taxonomy_nodes (id, level, name, parent_id, path, is_leaf)
			 VALUES ($1, 3, $2, NULL, $3, true)`,
			uuid.NewString(), leafOf(path), path)
		require.NoError(t, err)
	}
	for _, s := range resumeSkills {
		_, err = op.Pool().Exec(ctx,
			`INSERT INTO skills
			 (id, name, name_normalized, content_area, grade_label,
			  grade_rank, skill_area, authority)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			s.ID, s.Name, s.NameNormalized, s.ContentArea,
			s.GradeLabel, s.GradeRank, s.SkillArea, s.Authority)
		require.NoError(t, err)
	}

	return cfg, op
}

func leafOf(path string) string {
	parts := strings.Split(path, schema.PathSeparator)
	return parts[len(parts)-1]
}

func mappingCounts(
	t *testing.T, ctx context.Context, op db.Operator,
) map[string]int {
	t.Helper()
	rows, err := op.Pool().Query(ctx,
		"SELECT skill_id, count(*) FROM taxonomy_mappings GROUP BY skill_id")
	require.NoError(t, err)
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var id string
		var n int
		require.NoError(t, rows.Scan(&id, &n))
		counts[id] = n
	}
	require.NoError(t, rows.Err())
	return counts
}

func TestMap_RerunIsIdempotent(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}
	ctx := context.Background()
	cfg, op := setupMappingDB(t)

	m := iomap.New(cfg, op)
	require.NoError(t, m.Map(ctx), "First mapping run should succeed")

	counts := mappingCounts(t, ctx, op)
	require.Len(t, counts, len(resumeSkills),
		"Every skill should be mapped after the first run")

	// a second run finds nothing pending and changes nothing
	require.NoError(t, m.Map(ctx), "Re-run should be a no-op")

	counts = mappingCounts(t, ctx, op)
	assert.Len(t, counts, len(resumeSkills))
	for _, s := range resumeSkills {
		assert.Equal(t, 1, counts[s.ID],
			"Skill %s should have exactly one mapping record", s.ID)
	}
}

func TestMap_ResumeKeepsEarlierRecords(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}
	ctx := context.Background()
	cfg, op := setupMappingDB(t)

	// simulate an interrupted run: the first two skills already have
	// checkpointed records
	seededAt := time.Date(2026, 1, 15, 10, 0, 0, 0, time.UTC)
	for _, s := range resumeSkills[:2] {
		_, err := op.Pool().Exec(ctx,
			`INSERT INTO taxonomy_mappings
			 (skill_id, path, confidence, rationale, similarity,
			  needs_review, status, created_at)
			 VALUES ($1, $2, $3, 'seeded by earlier run', 0.9,
			  false, $4, $5)`,
			s.ID, resumePaths[0], string(schema.ConfidenceHigh),
			string(schema.StatusSuccess), seededAt)
		require.NoError(t, err)
	}

	require.NoError(t, iomap.New(cfg, op).Map(ctx),
		"Resumed run should succeed")

	counts := mappingCounts(t, ctx, op)
	require.Len(t, counts, len(resumeSkills),
		"Resume should map only the pending skills")
	for _, s := range resumeSkills {
		assert.Equal(t, 1, counts[s.ID],
			"Skill %s should have exactly one mapping record", s.ID)
	}

	// records of the earlier run are untouched
	for _, s := range resumeSkills[:2] {
		var path, rationale string
		var createdAt time.Time
		err := op.Pool().QueryRow(ctx,
			`SELECT path, rationale, created_at
			 FROM taxonomy_mappings WHERE skill_id = $1`,
			s.ID).Scan(&path, &rationale, &createdAt)
		require.NoError(t, err)
		assert.Equal(t, resumePaths[0], path)
		assert.Equal(t, "seeded by earlier run", rationale)
		assert.True(t, createdAt.Equal(seededAt),
			"Earlier records should keep their timestamp")
	}
}
