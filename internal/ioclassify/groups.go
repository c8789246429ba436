package ioclassify

import (
	"sort"
	"strings"

	"github.com/edugraph/skillmap/pkg/config"
	"github.com/edugraph/skillmap/pkg/schema"
	"github.com/edugraph/skillmap/pkg/similarity"
)

// group is one equivalence class before it is written out. Members
// are ordered: progression chains by grade rank, other relations by
// skill ID.
type group struct {
	relation schema.RelationType
	members  []schema.Skill
}

// edge is one qualifying pairwise relationship inside a content area.
type edge struct {
	a, b     int // indices into the area's skill slice
	relation schema.RelationType
}

// classifyArea partitions the skills of one content area into
// equivalence groups. The result is deterministic for a given input
// set regardless of input order.
func classifyArea(
	skills []schema.Skill,
	cfg *config.ClassifyConfig,
) []group {
	// Deterministic scan order regardless of load order.
	sorted := make([]schema.Skill, len(skills))
	copy(sorted, skills)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].NameNormalized != sorted[j].NameNormalized {
			return sorted[i].NameNormalized < sorted[j].NameNormalized
		}
		return sorted[i].ID < sorted[j].ID
	})

	edges := collectEdges(sorted, cfg)

	// State-variant components claim their skills first; progression
	// chains form among the rest; leftovers are unique.
	inVariant := components(len(sorted), edges, schema.RelationStateVariant)
	taken := make([]bool, len(sorted))
	var res []group

	for _, comp := range inVariant {
		if len(comp) < 2 {
			continue
		}
		g := group{relation: schema.RelationStateVariant}
		for _, idx := range comp {
			taken[idx] = true
			g.members = append(g.members, sorted[idx])
		}
		sortByID(g.members)
		res = append(res, g)
	}

	progEdges := make([]edge, 0)
	for _, e := range edges {
		if e.relation == schema.RelationGradeProgression &&
			!taken[e.a] && !taken[e.b] {
			progEdges = append(progEdges, e)
		}
	}
	for _, comp := range components(len(sorted), progEdges,
		schema.RelationGradeProgression) {
		if len(comp) < 2 {
			continue
		}
		g := group{relation: schema.RelationGradeProgression}
		for _, idx := range comp {
			taken[idx] = true
			g.members = append(g.members, sorted[idx])
		}
		// chain order: grade rank, ties by skill ID
		sort.Slice(g.members, func(i, j int) bool {
			if g.members[i].GradeRank != g.members[j].GradeRank {
				return g.members[i].GradeRank < g.members[j].GradeRank
			}
			return g.members[i].ID < g.members[j].ID
		})
		res = append(res, g)
	}

	for i, s := range sorted {
		if !taken[i] {
			res = append(res, group{
				relation: schema.RelationUnique,
				members:  []schema.Skill{s},
			})
		}
	}

	// stable group order for output and export
	sort.Slice(res, func(i, j int) bool {
		return res[i].members[0].ID < res[j].members[0].ID
	})
	return res
}

// collectEdges finds qualifying pairs. Small areas are compared with
// a full cross-product; areas above MaxPairwise use a sorted
// neighborhood over the already name-sorted slice, comparing each
// skill with its next Window neighbors.
func collectEdges(
	sorted []schema.Skill,
	cfg *config.ClassifyConfig,
) []edge {
	var res []edge
	n := len(sorted)

	compare := func(i, j int) {
		rel, ok := relate(&sorted[i], &sorted[j], cfg)
		if ok {
			res = append(res, edge{a: i, b: j, relation: rel})
		}
	}

	if n <= cfg.MaxPairwise {
		for i := 0; i < n; i++ {
			for j := i + 1; j < n; j++ {
				compare(i, j)
			}
		}
		return res
	}

	window := cfg.Window
	if window < 1 {
		window = 1
	}
	for i := 0; i < n; i++ {
		for j := i + 1; j < n && j <= i+window; j++ {
			compare(i, j)
		}
	}
	return res
}

// relate decides the relationship of one pair, if any. State-variant
// wins over grade-progression when both rules match.
func relate(
	a, b *schema.Skill,
	cfg *config.ClassifyConfig,
) (schema.RelationType, bool) {
	score := similarity.NameScore(a.NameNormalized, b.NameNormalized)
	gradeDiff := a.GradeRank - b.GradeRank
	if gradeDiff < 0 {
		gradeDiff = -gradeDiff
	}

	if score >= cfg.StateVariantMin &&
		gradeDiff <= 1 &&
		a.Authority != b.Authority {
		return schema.RelationStateVariant, true
	}

	if score >= cfg.ProgressionMin && score < cfg.ProgressionMax &&
		gradeDiff == 1 &&
		a.GradeRank != schema.UngradedRank &&
		b.GradeRank != schema.UngradedRank &&
		progressionAuthorities(a.Authority, b.Authority, cfg) {
		return schema.RelationGradeProgression, true
	}

	return "", false
}

// progressionAuthorities allows a progression link within one
// authority or between any authority and a universal one.
func progressionAuthorities(
	a, b string,
	cfg *config.ClassifyConfig,
) bool {
	if a == b {
		return true
	}
	for _, u := range cfg.UniversalAuthorities {
		if a == u || b == u {
			return true
		}
	}
	return false
}

// components builds connected components over edges of one relation
// type with an iterative depth-first search.
func components(n int, edges []edge, rel schema.RelationType) [][]int {
	adj := make(map[int][]int)
	for _, e := range edges {
		if e.relation != rel {
			continue
		}
		adj[e.a] = append(adj[e.a], e.b)
		adj[e.b] = append(adj[e.b], e.a)
	}

	visited := make([]bool, n)
	var res [][]int
	for i := 0; i < n; i++ {
		if visited[i] || len(adj[i]) == 0 {
			continue
		}
		var comp []int
		stack := []int{i}
		visited[i] = true
		for len(stack) > 0 {
			cur := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			comp = append(comp, cur)
			for _, next := range adj[cur] {
				if !visited[next] {
					visited[next] = true
					stack = append(stack, next)
				}
			}
		}
		sort.Ints(comp)
		res = append(res, comp)
	}
	return res
}

func sortByID(skills []schema.Skill) {
	sort.Slice(skills, func(i, j int) bool {
		return skills[i].ID < skills[j].ID
	})
}

// records converts a group into its database rows. Progression
// members receive ordinal complexity levels and prerequisite links.
func (g *group) records() (schema.EquivalenceGroup, []schema.EquivalenceMember) {
	ids := make([]string, len(g.members))
	authSet := make(map[string]struct{})
	for i, m := range g.members {
		ids[i] = m.ID
		authSet[m.Authority] = struct{}{}
	}
	groupID := schema.GroupID(ids)

	auths := make([]string, 0, len(authSet))
	for a := range authSet {
		auths = append(auths, a)
	}
	sort.Strings(auths)

	grp := schema.EquivalenceGroup{
		ID:           groupID,
		RelationType: g.relation,
		Authorities:  strings.Join(auths, ","),
		MemberCount:  len(g.members),
	}

	members := make([]schema.EquivalenceMember, len(g.members))
	for i, m := range g.members {
		rec := schema.EquivalenceMember{
			SkillID: m.ID,
			GroupID: groupID,
		}
		if g.relation == schema.RelationGradeProgression {
			rec.ComplexityLevel = i + 1
			if i > 0 {
				rec.PrerequisiteID = g.members[i-1].ID
			}
		}
		members[i] = rec
	}
	return grp, members
}
