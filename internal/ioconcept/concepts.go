// Package ioconcept generates master concepts: canonical competencies
// derived from state-variant equivalence groups. Concepts are a pure
// re-derivation of upstream tables; every run wipes and rewrites the
// whole set, so regeneration from unchanged inputs reproduces
// identical output.
package ioconcept

import (
	"sort"
	"strings"

	"github.com/edugraph/skillmap/pkg/schema"
)

// member is one skill of a state-variant group together with its
// optional mapping and metadata records.
type member struct {
	skill   schema.Skill
	mapping *schema.TaxonomyMapping
	meta    *schema.SkillMetadata
}

// groupInput is everything needed to derive one concept.
type groupInput struct {
	groupID string
	members []member
}

// buildConcept derives one master concept and its skill bridge rows
// from a state-variant group. All choices are deterministic.
func buildConcept(
	in groupInput,
) (schema.MasterConcept, []schema.ConceptSkill) {
	path := representativePath(in.members)

	concept := schema.MasterConcept{
		ID:             schema.ConceptID(in.groupID),
		GroupID:        in.groupID,
		Path:           path,
		ComplexityBand: complexityBand(in.members),
		MemberCount:    len(in.members),
	}

	if path != "" {
		concept.Name = leafName(path)
	} else {
		var names []string
		for _, m := range in.members {
			names = append(names, m.skill.Name)
		}
		concept.Name = majorityVote(names)
	}

	var textTypes, textModes, domains []string
	for _, m := range in.members {
		if m.meta == nil {
			continue
		}
		textTypes = append(textTypes, m.meta.TextType)
		textModes = append(textModes, m.meta.TextMode)
		domains = append(domains, m.meta.SkillDomain)
	}
	concept.TextType = majorityVote(textTypes)
	concept.TextMode = majorityVote(textModes)
	concept.SkillDomain = majorityVote(domains)

	bridge := make([]schema.ConceptSkill, len(in.members))
	for i, m := range in.members {
		bridge[i] = schema.ConceptSkill{
			ConceptID: concept.ID,
			SkillID:   m.skill.ID,
		}
	}
	sort.Slice(bridge, func(i, j int) bool {
		return bridge[i].SkillID < bridge[j].SkillID
	})

	return concept, bridge
}

// confidenceOrder ranks tiers for the representative-path choice.
var confidenceOrder = []schema.Confidence{
	schema.ConfidenceHigh,
	schema.ConfidenceMedium,
	schema.ConfidenceLow,
}

// representativePath picks the modal mapped path of the group,
// restricted to the highest confidence tier present. Ties resolve by
// count, then to the lexicographically first path. Groups without a
// usable mapping get an empty path.
func representativePath(members []member) string {
	byTier := make(map[schema.Confidence][]string)
	for _, m := range members {
		if m.mapping == nil ||
			m.mapping.Status != schema.StatusSuccess ||
			m.mapping.Path == "" {
			continue
		}
		c := m.mapping.Confidence
		byTier[c] = append(byTier[c], m.mapping.Path)
	}

	for _, tier := range confidenceOrder {
		paths := byTier[tier]
		if len(paths) == 0 {
			continue
		}
		return modal(paths)
	}
	return ""
}

// modal returns the most frequent value; equal counts resolve to the
// lexicographically first one.
func modal(values []string) string {
	counts := make(map[string]int)
	for _, v := range values {
		counts[v]++
	}
	var best string
	var bestCount int
	for v, n := range counts {
		if n > bestCount || (n == bestCount && v < best) {
			best, bestCount = v, n
		}
	}
	return best
}

// majorityVote is modal over non-empty values only; an empty result
// means no usable input existed.
func majorityVote(values []string) string {
	var filtered []string
	for _, v := range values {
		if v != "" {
			filtered = append(filtered, v)
		}
	}
	if len(filtered) == 0 {
		return ""
	}
	return modal(filtered)
}

// complexityBand derives the developmental band of the group from the
// members' grade ranks.
func complexityBand(members []member) string {
	ranks := make([]int, len(members))
	for i, m := range members {
		ranks[i] = m.skill.GradeRank
	}
	return schema.BandForRanks(ranks)
}

// leafName returns the last level of a taxonomy path.
func leafName(path string) string {
	i := strings.LastIndex(path, schema.PathSeparator)
	if i < 0 {
		return path
	}
	return path[i+len(schema.PathSeparator):]
}
