package iomap

import (
	"context"
	"testing"

	"github.com/edugraph/skillmap/pkg/config"
	"github.com/edugraph/skillmap/pkg/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func offlineAssistant(t *testing.T, eng *fakeEngine) *Assistant {
	t.Helper()
	idx, err := NewIndex(context.Background(), taxPaths, eng)
	require.NoError(t, err)
	cfg := config.New()
	return NewAssistant(&cfg.Mapping, idx)
}

func TestOfflineHighOnExactLeafMatch(t *testing.T) {
	skill := schema.Skill{
		ID:          "CCSS-1",
		Name:        "Counting",
		ContentArea: "Mathematics",
		GradeLabel:  "K",
	}
	eng := &fakeEngine{
		vecs: map[string][]float32{
			"Mathematics > Numbers > Counting":    {1, 0},
			"Mathematics > Numbers > Place Value": {0.9, 0.1},
			"Literacy > Reading > Main Idea":      {0, 1},
			skillDescription(skill):               {1, 0},
		},
		fallback: []float32{0.5, 0.5},
	}
	a := offlineAssistant(t, eng)
	require.True(t, a.Offline())

	rec, err := a.MapSkill(context.Background(), skill)
	require.NoError(t, err)
	assert.Equal(t, schema.StatusSuccess, rec.Status)
	assert.Equal(t, "Mathematics > Numbers > Counting", rec.Path)
	assert.Equal(t, schema.ConfidenceHigh, rec.Confidence)
	assert.False(t, rec.NeedsReview)
	assert.InDelta(t, 1.0, rec.Similarity, 0.001)
}

func TestOfflineMediumAboveReviewThreshold(t *testing.T) {
	skill := schema.Skill{
		ID:          "CCSS-2",
		Name:        "Count objects",
		ContentArea: "Mathematics",
		GradeLabel:  "K",
	}
	eng := &fakeEngine{
		vecs: map[string][]float32{
			"Mathematics > Numbers > Counting":    {1, 0},
			"Mathematics > Numbers > Place Value": {0.1, 0.9},
			"Literacy > Reading > Main Idea":      {0, 1},
			skillDescription(skill):               {0.8, 0.2},
		},
		fallback: []float32{0.5, 0.5},
	}
	a := offlineAssistant(t, eng)

	rec, err := a.MapSkill(context.Background(), skill)
	require.NoError(t, err)
	assert.Equal(t, "Mathematics > Numbers > Counting", rec.Path)
	assert.Equal(t, schema.ConfidenceMedium, rec.Confidence)
	assert.False(t, rec.NeedsReview)
	// runner-up candidates come along as alternatives
	assert.Equal(t,
		"Mathematics > Numbers > Place Value", rec.Alternative1)
	assert.NotEmpty(t, rec.Alternative2)
}

func TestOfflineLowBelowReviewThreshold(t *testing.T) {
	skill := schema.Skill{
		ID:          "TX-9",
		Name:        "Photosynthesis",
		ContentArea: "Science",
	}
	eng := &fakeEngine{
		vecs: map[string][]float32{
			"Mathematics > Numbers > Counting":    {1, 0},
			"Mathematics > Numbers > Place Value": {0.9, 0.1},
			"Literacy > Reading > Main Idea":      {0, 1},
			skillDescription(skill):               {-1, -0.1},
		},
		fallback: []float32{0.5, 0.5},
	}
	a := offlineAssistant(t, eng)

	rec, err := a.MapSkill(context.Background(), skill)
	require.NoError(t, err)
	assert.Equal(t, schema.ConfidenceLow, rec.Confidence)
	assert.True(t, rec.NeedsReview)
	assert.Less(t, rec.Similarity, 0.5)
}

func TestReviewFlagConsistency(t *testing.T) {
	cfg := config.New()
	a := &Assistant{cfg: &cfg.Mapping}

	tests := []struct {
		msg  string
		conf schema.Confidence
		sim  float64
		want bool
	}{
		{"high and similar", schema.ConfidenceHigh, 0.9, false},
		{"medium and similar", schema.ConfidenceMedium, 0.6, false},
		{"low always reviewed", schema.ConfidenceLow, 0.9, true},
		{"dissimilar always reviewed", schema.ConfidenceHigh, 0.2, true},
	}
	for _, tt := range tests {
		rec := schema.TaxonomyMapping{
			Confidence: tt.conf, Similarity: tt.sim,
		}
		a.markReview(&rec)
		assert.Equal(t, tt.want, rec.NeedsReview, tt.msg)
	}
}

func TestNoSuggestionsOnEmptyIndex(t *testing.T) {
	idx, err := NewIndex(context.Background(), nil, nil)
	require.NoError(t, err)
	cfg := config.New()
	a := NewAssistant(&cfg.Mapping, idx)

	rec, err := a.MapSkill(context.Background(),
		schema.Skill{ID: "CCSS-1", Name: "Counting"})
	require.NoError(t, err)
	assert.Equal(t, schema.StatusNoSuggestions, rec.Status)
	assert.Empty(t, rec.Path)
	assert.False(t, rec.NeedsReview)
}

func TestOfflineChooserIsDeterministic(t *testing.T) {
	skill := schema.Skill{
		ID:          "CA-5",
		Name:        "Identify main idea",
		ContentArea: "Literacy",
		GradeLabel:  "3",
	}
	a := offlineAssistant(t, nil)

	first, err := a.MapSkill(context.Background(), skill)
	require.NoError(t, err)
	second, err := a.MapSkill(context.Background(), skill)
	require.NoError(t, err)

	first.CreatedAt = second.CreatedAt
	assert.Equal(t, first, second)
}

func TestSkillDescription(t *testing.T) {
	full := schema.Skill{
		Name:        "Counting",
		ContentArea: "Mathematics",
		GradeLabel:  "K",
		SkillArea:   "Number Sense",
	}
	assert.Equal(t,
		"Counting; content area: Mathematics; grade: K; "+
			"skill area: Number Sense",
		skillDescription(full))

	sparse := schema.Skill{Name: "Counting", ContentArea: "Mathematics"}
	assert.Equal(t,
		"Counting; content area: Mathematics",
		skillDescription(sparse))
}

func TestParseConfidence(t *testing.T) {
	assert.Equal(t, schema.ConfidenceHigh, parseConfidence("High"))
	assert.Equal(t, schema.ConfidenceMedium, parseConfidence(" medium "))
	assert.Equal(t, schema.ConfidenceLow, parseConfidence("low"))
	assert.Equal(t, schema.ConfidenceLow, parseConfidence("certain"))
}
