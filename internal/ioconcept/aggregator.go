package ioconcept

import (
	"context"
	"log/slog"
	"path/filepath"
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

// aggregator implements the lifecycle.Aggregator interface.
type aggregator struct {
	cfg      *config.Config
	operator db.Operator
}

// New creates a new Aggregator.
func New(cfg *config.Config, op db.Operator) lifecycle.Aggregator {
	return &aggregator{cfg: cfg, operator: op}
}

// Aggregate derives master concepts from the state-variant groups and
// rewrites master_concepts and concept_skills wholesale. Upstream
// tables are never touched; re-running over unchanged inputs
// reproduces identical concepts.
func (a *aggregator) Aggregate(ctx context.Context) error {
	if a.operator.Pool() == nil {
		return NotConnectedError()
	}

	start := time.Now()
	groups, err := a.loadGroups(ctx)
	if err != nil {
		return err
	}
	if len(groups) == 0 {
		return NoGroupsError()
	}

	slog.Info("Generating master concepts",
		"state_variant_groups", len(groups))

	var concepts []schema.MasterConcept
	var bridge []schema.ConceptSkill
	var enriched int
	for _, in := range groups {
		concept, rows := buildConcept(in)
		concepts = append(concepts, concept)
		bridge = append(bridge, rows...)
		if concept.TextType != "" || concept.TextMode != "" ||
			concept.SkillDomain != "" {
			enriched++
		}
	}

	if err = a.saveConcepts(ctx, concepts, bridge); err != nil {
		return err
	}

	outDir := a.cfg.OutDir()
	if err = gnsys.MakeDir(outDir); err != nil {
		return ExportError(outDir, err)
	}
	conceptsFile := filepath.Join(outDir, "master_concepts.csv")
	if err = exportConcepts(conceptsFile, concepts); err != nil {
		return err
	}
	bridgeFile := filepath.Join(outDir, "concept_skills.csv")
	if err = exportBridge(bridgeFile, bridge); err != nil {
		return err
	}

	gn.Info("Concept generation finished: <em>%s</em> concepts over "+
		"<em>%s</em> member skills (<em>%s</em> enriched) in <em>%s</em>.\n"+
		"Exports: <em>%s</em>, <em>%s</em>",
		humanize.Comma(int64(len(concepts))),
		humanize.Comma(int64(len(bridge))),
		humanize.Comma(int64(enriched)),
		gnfmt.TimeString(time.Since(start).Seconds()),
		conceptsFile, bridgeFile,
	)
	slog.Info("Concept generation finished",
		"concepts", len(concepts),
		"member_skills", len(bridge),
		"enriched", enriched,
		"duration", time.Since(start).String(),
	)
	return nil
}
