package ioingest

import (
	"testing"

	"github.com/edugraph/skillmap/pkg/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadTaxonomyCSV(t *testing.T) {
	csvData := `strand,pillar,domain,skill_area,skill_set,skill_subset
Language,Reading,Comprehension,Main Idea,,
Language,Reading,Comprehension,Inference,,
Language,Writing,,,,
`
	path := writeFile(t, "taxonomy.csv", csvData)

	nodes, err := readTaxonomy(path)
	require.NoError(t, err)

	// Language, Reading, Comprehension, Main Idea, Inference, Writing
	require.Len(t, nodes, 6)

	byPath := make(map[string]schema.TaxonomyNode)
	for _, n := range nodes {
		byPath[n.Path] = n
	}

	root := byPath["Language"]
	assert.Equal(t, 1, root.Level)
	assert.Empty(t, root.ParentID)
	assert.False(t, root.IsLeaf)

	leaf := byPath["Language > Reading > Comprehension > Main Idea"]
	require.NotEmpty(t, leaf.ID)
	assert.Equal(t, 4, leaf.Level)
	assert.Equal(t, "Main Idea", leaf.Name)
	assert.True(t, leaf.IsLeaf)
	assert.Equal(t,
		byPath["Language > Reading > Comprehension"].ID, leaf.ParentID)

	// a branch cut short by empty trailing levels is itself a leaf
	assert.True(t, byPath["Language > Writing"].IsLeaf)
}

func TestReadTaxonomyYAML(t *testing.T) {
	yamlData := `Language:
  Reading:
    Comprehension:
      Main Idea:
      Inference:
  Writing:
Math:
  Number Sense:
`
	path := writeFile(t, "taxonomy.yaml", yamlData)

	nodes, err := readTaxonomy(path)
	require.NoError(t, err)

	byPath := make(map[string]schema.TaxonomyNode)
	for _, n := range nodes {
		byPath[n.Path] = n
	}

	require.Contains(t, byPath, "Language > Reading > Comprehension > Inference")
	require.Contains(t, byPath, "Math > Number Sense")

	assert.True(t, byPath["Language > Writing"].IsLeaf)
	assert.False(t, byPath["Language > Reading"].IsLeaf)
	assert.Equal(t, 2, byPath["Math > Number Sense"].Level)
}

func TestBuildNodes_DeterministicIDs(t *testing.T) {
	leaves := [][]string{
		{"Language", "Reading", "Phonics"},
		{"Language", "Reading", "Fluency"},
	}

	nodes1, err := buildNodes("test", leaves)
	require.NoError(t, err)
	nodes2, err := buildNodes("test", leaves)
	require.NoError(t, err)

	require.Equal(t, len(nodes1), len(nodes2))
	for i := range nodes1 {
		assert.Equal(t, nodes1[i].ID, nodes2[i].ID)
	}

	// path-derived IDs match the public helper
	assert.Equal(t, schema.NodeID("Language"), nodes1[0].ID)
}

func TestBuildNodes_DuplicateLeavesCollapse(t *testing.T) {
	leaves := [][]string{
		{"Language", "Reading"},
		{"Language", "Reading"},
	}
	nodes, err := buildNodes("test", leaves)
	require.NoError(t, err)
	assert.Len(t, nodes, 2)
}

func TestBuildNodes_TooDeep(t *testing.T) {
	leaves := [][]string{
		{"a", "b", "c", "d", "e", "f", "g"},
	}
	_, err := buildNodes("test", leaves)
	assert.Error(t, err)
}

func TestBuildNodes_EmptyRow(t *testing.T) {
	_, err := buildNodes("test", [][]string{{"", "", ""}})
	assert.Error(t, err)
}
