package schema_test

import (
	"testing"

	"github.com/edugraph/skillmap/pkg/schema"
	"github.com/stretchr/testify/assert"
)

func TestAllModels(t *testing.T) {
	models := schema.AllModels()
	assert.Len(t, models, 8)
}

func TestGradeRank(t *testing.T) {
	tests := []struct {
		msg, label string
		rank       int
	}{
		{"prek", "PreK", -1},
		{"prek dash", "Pre-K", -1},
		{"kindergarten", "K", 0},
		{"kindergarten word", "Kindergarten", 0},
		{"numeric", "3", 3},
		{"grade prefix", "Grade 7", 7},
		{"g prefix", "G12", 12},
		{"too high", "13", schema.UngradedRank},
		{"empty", "", schema.UngradedRank},
		{"garbage", "Adult Ed", schema.UngradedRank},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.rank, schema.GradeRank(tt.label), tt.msg)
	}
}

func TestBandForRanks(t *testing.T) {
	tests := []struct {
		msg   string
		ranks []int
		band  string
	}{
		{"single band", []int{0, 1, 2}, schema.BandK2},
		{"prek folds into K-2", []int{-1, 0}, schema.BandK2},
		{"mid band", []int{3, 4, 5}, schema.Band35},
		{"high band", []int{9, 12}, schema.Band912},
		{"mixed", []int{2, 3}, schema.BandMixed},
		{"ungraded ignored", []int{schema.UngradedRank, 6}, schema.Band68},
		{"all ungraded", []int{schema.UngradedRank}, schema.BandUnknown},
		{"empty", nil, schema.BandUnknown},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.band, schema.BandForRanks(tt.ranks), tt.msg)
	}
}

func TestGroupIDDeterminism(t *testing.T) {
	a := schema.GroupID([]string{"s2", "s1", "s3"})
	b := schema.GroupID([]string{"s3", "s1", "s2"})
	assert.Equal(t, a, b, "order of members must not matter")

	c := schema.GroupID([]string{"s1", "s2"})
	assert.NotEqual(t, a, c, "different membership, different ID")
}

func TestIDNamespaces(t *testing.T) {
	group := schema.GroupID([]string{"s1"})
	concept := schema.ConceptID(group)
	node := schema.NodeID("Strand A > Pillar B")
	assert.NotEqual(t, group, concept)
	assert.NotEqual(t, concept, node)
}
