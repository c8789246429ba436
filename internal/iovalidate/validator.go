package iovalidate

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/edugraph/skillmap/pkg/config"
	"github.com/edugraph/skillmap/pkg/db"
	"github.com/edugraph/skillmap/pkg/lifecycle"
	"github.com/edugraph/skillmap/pkg/schema"
	"github.com/gnames/gn"
	"github.com/gnames/gnfmt"
	"github.com/gnames/gnsys"
)

// reportFile is the JSON form of the validation report.
const reportFile = "validation_report.json"

// validator implements the lifecycle.Validator interface.
type validator struct {
	cfg      *config.Config
	operator db.Operator
}

// New creates a new Validator.
func New(cfg *config.Config, op db.Operator) lifecycle.Validator {
	return &validator{cfg: cfg, operator: op}
}

// Validate checks the stored taxonomy and writes the report to the
// console and to validation_report.json in the output directory.
// Findings never fail the run; only I/O problems do.
func (v *validator) Validate(ctx context.Context) error {
	if v.operator.Pool() == nil {
		return NotConnectedError()
	}

	start := time.Now()
	nodes, err := v.loadNodes(ctx)
	if err != nil {
		return err
	}
	if len(nodes) == 0 {
		return NoTaxonomyError()
	}

	usedPaths, hasMappings, err := v.loadUsedPaths(ctx)
	if err != nil {
		return err
	}
	if !hasMappings {
		usedPaths = nil
	} else if usedPaths == nil {
		usedPaths = []string{}
	}

	slog.Info("Validating taxonomy",
		"nodes", len(nodes), "mapped_paths", len(usedPaths))
	rep := buildReport(nodes, usedPaths, v.cfg.Validate.NearDupMin)

	outDir := v.cfg.OutDir()
	if err = gnsys.MakeDir(outDir); err != nil {
		return ReportError(outDir, err)
	}
	path := filepath.Join(outDir, reportFile)
	if err = writeReport(path, rep); err != nil {
		return err
	}

	v.printReport(rep, path, start)
	return nil
}

// loadNodes reads the whole taxonomy.
func (v *validator) loadNodes(
	ctx context.Context,
) ([]schema.TaxonomyNode, error) {
	q := `
SELECT id, level, name, parent_id, path, is_leaf
FROM taxonomy_nodes
ORDER BY path`

	rows, err := v.operator.Pool().Query(ctx, q)
	if err != nil {
		return nil, LoadError(err)
	}
	defer rows.Close()

	var res []schema.TaxonomyNode
	for rows.Next() {
		var n schema.TaxonomyNode
		err = rows.Scan(&n.ID, &n.Level, &n.Name, &n.ParentID,
			&n.Path, &n.IsLeaf)
		if err != nil {
			return nil, LoadError(err)
		}
		res = append(res, n)
	}
	if err = rows.Err(); err != nil {
		return nil, LoadError(err)
	}
	return res, nil
}

// loadUsedPaths reads the distinct paths of successful mappings and
// reports whether any mapping records exist at all. Coverage is only
// meaningful after the mapping phase ran.
func (v *validator) loadUsedPaths(
	ctx context.Context,
) ([]string, bool, error) {
	pool := v.operator.Pool()

	var total int
	err := pool.QueryRow(ctx,
		"SELECT count(*) FROM taxonomy_mappings").Scan(&total)
	if err != nil {
		return nil, false, LoadError(err)
	}
	if total == 0 {
		return nil, false, nil
	}

	q := `
SELECT DISTINCT path
FROM taxonomy_mappings
WHERE status = $1 AND path <> ''`

	rows, err := pool.Query(ctx, q, string(schema.StatusSuccess))
	if err != nil {
		return nil, false, LoadError(err)
	}
	defer rows.Close()

	var res []string
	for rows.Next() {
		var p string
		if err = rows.Scan(&p); err != nil {
			return nil, false, LoadError(err)
		}
		res = append(res, p)
	}
	if err = rows.Err(); err != nil {
		return nil, false, LoadError(err)
	}
	return res, true, nil
}

// writeReport saves the report as indented JSON.
func writeReport(path string, rep *Report) error {
	data, err := json.MarshalIndent(rep, "", "  ")
	if err != nil {
		return ReportError(path, err)
	}
	if err = os.WriteFile(path, data, 0644); err != nil {
		return ReportError(path, err)
	}
	return nil
}

// printReport renders the findings for the console.
func (v *validator) printReport(
	rep *Report,
	path string,
	start time.Time,
) {
	levels := make([]int, 0, len(rep.Stats.NodesPerLevel))
	for l := range rep.Stats.NodesPerLevel {
		levels = append(levels, l)
	}
	sort.Ints(levels)

	gn.Info("Taxonomy: <em>%s</em> nodes, <em>%s</em> leaves, "+
		"depth <em>%d</em>, average branching <em>%.1f</em>",
		humanize.Comma(int64(rep.Stats.TotalNodes)),
		humanize.Comma(int64(rep.Stats.LeafNodes)),
		rep.Stats.MaxDepth,
		rep.Stats.AvgBranching,
	)
	for _, l := range levels {
		name := "?"
		if l >= 1 && l <= len(schema.LevelNames) {
			name = schema.LevelNames[l-1]
		}
		gn.Info("  level %d (%s): <em>%s</em> nodes",
			l, name,
			humanize.Comma(int64(rep.Stats.NodesPerLevel[l])))
	}

	for _, iss := range rep.Issues {
		switch iss.Severity {
		case SeverityError:
			gn.Warn("[%s] %s", iss.Severity, iss.Message)
		default:
			gn.Info("[%s] %s", iss.Severity, iss.Message)
		}
	}

	if rep.Coverage != nil {
		gn.Info("Coverage: <em>%s</em> of <em>%s</em> leaf paths "+
			"used by mappings, <em>%s</em> unused",
			humanize.Comma(int64(rep.Coverage.UsedPaths)),
			humanize.Comma(int64(rep.Coverage.LeafPaths)),
			humanize.Comma(int64(len(rep.Coverage.UnusedPaths))),
		)
	}

	gn.Info("Validation finished: <em>%d</em> errors, <em>%d</em> "+
		"notes in <em>%s</em>.\nReport: <em>%s</em>",
		rep.Errors, rep.Infos,
		gnfmt.TimeString(time.Since(start).Seconds()),
		path,
	)
	slog.Info("Validation finished",
		"errors", rep.Errors,
		"notes", rep.Infos,
		"report", path,
		"duration", time.Since(start).String(),
	)
}
