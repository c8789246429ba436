// Package iovalidate checks the structural quality of the reference
// taxonomy: duplicate and near-duplicate node names per level,
// single-child nodes, summary statistics, and coverage of leaf paths
// by the mapping results. Findings are reported, never auto-fixed.
package iovalidate

import (
	"fmt"
	"sort"
	"time"

	"github.com/edugraph/skillmap/pkg/schema"
	"github.com/edugraph/skillmap/pkg/similarity"
)

// Issue severities.
const (
	SeverityError = "error"
	SeverityInfo  = "info"
)

// Issue kinds.
const (
	KindExactDuplicate = "exact_duplicate"
	KindNearDuplicate  = "near_duplicate"
	KindSingleChild    = "single_child"
)

// Issue is one finding of the validator.
type Issue struct {
	Severity string   `json:"severity"`
	Kind     string   `json:"kind"`
	Level    int      `json:"level"`
	Message  string   `json:"message"`
	Paths    []string `json:"paths"`
}

// Stats summarizes the taxonomy shape.
type Stats struct {
	TotalNodes    int         `json:"total_nodes"`
	LeafNodes     int         `json:"leaf_nodes"`
	MaxDepth      int         `json:"max_depth"`
	AvgBranching  float64     `json:"avg_branching"`
	NodesPerLevel map[int]int `json:"nodes_per_level"`
}

// Coverage cross-references taxonomy leaves with mapping results.
type Coverage struct {
	LeafPaths   int      `json:"leaf_paths"`
	UsedPaths   int      `json:"used_paths"`
	UnusedPaths []string `json:"unused_paths"`
}

// Report is the complete validation result.
type Report struct {
	GeneratedAt time.Time `json:"generated_at"`
	Errors      int       `json:"errors"`
	Infos       int       `json:"infos"`
	Issues      []Issue   `json:"issues"`
	Stats       Stats     `json:"stats"`

	// Coverage is nil when no mappings exist yet.
	Coverage *Coverage `json:"coverage,omitempty"`
}

// buildReport runs every check over the taxonomy. usedPaths may be
// nil when the mapping phase has not run yet.
func buildReport(
	nodes []schema.TaxonomyNode,
	usedPaths []string,
	nearDupMin float64,
) *Report {
	rep := &Report{
		GeneratedAt: time.Now(),
		Stats:       buildStats(nodes),
	}

	byLevel := make(map[int][]schema.TaxonomyNode)
	for _, n := range nodes {
		byLevel[n.Level] = append(byLevel[n.Level], n)
	}
	levels := make([]int, 0, len(byLevel))
	for l := range byLevel {
		levels = append(levels, l)
	}
	sort.Ints(levels)

	for _, l := range levels {
		rep.Issues = append(rep.Issues,
			exactDuplicates(byLevel[l], l)...)
		rep.Issues = append(rep.Issues,
			nearDuplicates(byLevel[l], l, nearDupMin)...)
	}
	rep.Issues = append(rep.Issues, singleChildren(nodes)...)

	for _, iss := range rep.Issues {
		if iss.Severity == SeverityError {
			rep.Errors++
		} else {
			rep.Infos++
		}
	}

	if usedPaths != nil {
		rep.Coverage = buildCoverage(nodes, usedPaths)
	}
	return rep
}

// exactDuplicates finds nodes of one level whose normalized names are
// identical.
func exactDuplicates(
	nodes []schema.TaxonomyNode,
	level int,
) []Issue {
	byName := make(map[string][]string)
	for _, n := range nodes {
		key := similarity.Normalize(n.Name)
		byName[key] = append(byName[key], n.Path)
	}

	names := make([]string, 0, len(byName))
	for name, paths := range byName {
		if len(paths) > 1 {
			names = append(names, name)
		}
	}
	sort.Strings(names)

	var res []Issue
	for _, name := range names {
		paths := byName[name]
		sort.Strings(paths)
		res = append(res, Issue{
			Severity: SeverityError,
			Kind:     KindExactDuplicate,
			Level:    level,
			Message: fmt.Sprintf(
				"%d nodes at level %d share the name %q",
				len(paths), level, name),
			Paths: paths,
		})
	}
	return res
}

// nearDuplicates finds pairs of distinct names at one level whose
// lexical similarity reaches the threshold.
func nearDuplicates(
	nodes []schema.TaxonomyNode,
	level int,
	minScore float64,
) []Issue {
	sorted := make([]schema.TaxonomyNode, len(nodes))
	copy(sorted, nodes)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Path < sorted[j].Path
	})

	var res []Issue
	for i := range sorted {
		ni := similarity.Normalize(sorted[i].Name)
		for j := i + 1; j < len(sorted); j++ {
			nj := similarity.Normalize(sorted[j].Name)
			if ni == nj {
				continue
			}
			score := similarity.NameScore(ni, nj)
			if score < minScore {
				continue
			}
			res = append(res, Issue{
				Severity: SeverityInfo,
				Kind:     KindNearDuplicate,
				Level:    level,
				Message: fmt.Sprintf(
					"%q and %q at level %d are %.2f similar",
					sorted[i].Name, sorted[j].Name, level, score),
				Paths: []string{sorted[i].Path, sorted[j].Path},
			})
		}
	}
	return res
}

// singleChildren finds nodes with exactly one child: a level that
// adds depth without adding a distinction.
func singleChildren(nodes []schema.TaxonomyNode) []Issue {
	children := make(map[string][]string)
	byID := make(map[string]schema.TaxonomyNode)
	for _, n := range nodes {
		byID[n.ID] = n
		if n.ParentID != "" {
			children[n.ParentID] = append(children[n.ParentID], n.Path)
		}
	}

	var parents []string
	for id, ch := range children {
		if len(ch) == 1 {
			parents = append(parents, id)
		}
	}
	sort.Slice(parents, func(i, j int) bool {
		return byID[parents[i]].Path < byID[parents[j]].Path
	})

	var res []Issue
	for _, id := range parents {
		parent := byID[id]
		res = append(res, Issue{
			Severity: SeverityInfo,
			Kind:     KindSingleChild,
			Level:    parent.Level,
			Message: fmt.Sprintf(
				"%q has a single child %q",
				parent.Path, children[id][0]),
			Paths: []string{parent.Path},
		})
	}
	return res
}

func buildStats(nodes []schema.TaxonomyNode) Stats {
	st := Stats{NodesPerLevel: make(map[int]int)}
	childCounts := make(map[string]int)
	for _, n := range nodes {
		st.TotalNodes++
		st.NodesPerLevel[n.Level]++
		if n.Level > st.MaxDepth {
			st.MaxDepth = n.Level
		}
		if n.IsLeaf {
			st.LeafNodes++
		}
		if n.ParentID != "" {
			childCounts[n.ParentID]++
		}
	}

	var totalChildren int
	for _, c := range childCounts {
		totalChildren += c
	}
	if len(childCounts) > 0 {
		st.AvgBranching = float64(totalChildren) /
			float64(len(childCounts))
	}
	return st
}

// buildCoverage counts leaf paths that no mapping record uses.
func buildCoverage(
	nodes []schema.TaxonomyNode,
	usedPaths []string,
) *Coverage {
	used := make(map[string]bool, len(usedPaths))
	for _, p := range usedPaths {
		used[p] = true
	}

	cov := &Coverage{}
	for _, n := range nodes {
		if !n.IsLeaf {
			continue
		}
		cov.LeafPaths++
		if used[n.Path] {
			cov.UsedPaths++
		} else {
			cov.UnusedPaths = append(cov.UnusedPaths, n.Path)
		}
	}
	sort.Strings(cov.UnusedPaths)
	return cov
}
