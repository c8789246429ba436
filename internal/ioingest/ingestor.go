// Package ioingest implements the Ingestor interface for importing
// the skill inventory, the reference taxonomy and optional enrichment
// metadata into PostgreSQL.
// This is an impure I/O package that reads input files and performs
// bulk inserts.
package ioingest

import (
	"context"
	"log/slog"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/edugraph/skillmap/pkg/config"
	"github.com/edugraph/skillmap/pkg/db"
	"github.com/edugraph/skillmap/pkg/lifecycle"
	"github.com/gnames/gn"
	"github.com/gnames/gnfmt"
)

// ingestor implements the lifecycle.Ingestor interface.
type ingestor struct {
	cfg      *config.Config
	operator db.Operator
}

// New creates a new Ingestor.
func New(cfg *config.Config, op db.Operator) lifecycle.Ingestor {
	return &ingestor{cfg: cfg, operator: op}
}

// Import reads the configured input files, validates them fail-fast,
// and loads skills, taxonomy nodes and optional metadata into the
// database. Validation happens before any write, so a bad input file
// never leaves a half-imported corpus behind.
func (ing *ingestor) Import(ctx context.Context) error {
	pool := ing.operator.Pool()
	if pool == nil {
		return NotConnectedError()
	}

	start := time.Now()
	slog.Info("Starting import",
		"skills", ing.cfg.Ingest.SkillsFile,
		"taxonomy", ing.cfg.Ingest.TaxonomyFile,
		"metadata", ing.cfg.Ingest.MetadataFile,
	)

	// Read and validate everything before the first insert.
	skills, err := readSkills(ctx, ing.cfg.Ingest.SkillsFile)
	if err != nil {
		return err
	}
	if err = validateSkills(skills); err != nil {
		return err
	}

	nodes, err := readTaxonomy(ing.cfg.Ingest.TaxonomyFile)
	if err != nil {
		return err
	}

	var metadata []metadataRecord
	if ing.cfg.Ingest.MetadataFile != "" {
		metadata, err = readMetadata(ing.cfg.Ingest.MetadataFile)
		if err != nil {
			return err
		}
	}

	inserted, err := ing.insertSkills(ctx, skills)
	if err != nil {
		return err
	}
	gn.Info("Imported <em>%s</em> skills", humanize.Comma(int64(inserted)))

	nodeCount, err := ing.insertNodes(ctx, nodes)
	if err != nil {
		return err
	}
	gn.Info("Imported <em>%s</em> taxonomy nodes",
		humanize.Comma(int64(nodeCount)))

	if len(metadata) > 0 {
		metaCount, err := ing.insertMetadata(ctx, metadata)
		if err != nil {
			return err
		}
		gn.Info("Imported <em>%s</em> metadata records",
			humanize.Comma(int64(metaCount)))
	}

	slog.Info("Import finished",
		"skills", inserted,
		"taxonomy_nodes", nodeCount,
		"metadata", len(metadata),
		"duration", time.Since(start).String(),
	)
	gn.Info("Import took <em>%s</em>",
		gnfmt.TimeString(time.Since(start).Seconds()))

	return nil
}
