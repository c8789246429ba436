package iomap

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/cheggaaa/pb/v3"
	"github.com/dustin/go-humanize"
	"github.com/edugraph/skillmap/internal/ioembed"
	"github.com/edugraph/skillmap/pkg/config"
	"github.com/edugraph/skillmap/pkg/db"
	"github.com/edugraph/skillmap/pkg/embed"
	"github.com/edugraph/skillmap/pkg/lifecycle"
	"github.com/edugraph/skillmap/pkg/schema"
	"github.com/gnames/gn"
	"github.com/gnames/gnfmt"
	"github.com/gnames/gnsys"
	"golang.org/x/sync/errgroup"
)

// mapper implements the lifecycle.Mapper interface. It drives the
// mapping assistant over all unmapped skills with checkpointed,
// resumable progress.
type mapper struct {
	cfg      *config.Config
	operator db.Operator
}

// New creates a new Mapper.
func New(cfg *config.Config, op db.Operator) lifecycle.Mapper {
	return &mapper{cfg: cfg, operator: op}
}

// mapResult is the outcome of mapping one skill. The failed flag
// feeds the consecutive-failure accounting; the record is persisted
// either way.
type mapResult struct {
	rec    schema.TaxonomyMapping
	failed bool
}

// Map processes every skill that has no mapping record yet. Results
// are flushed to the database and to a timestamped CSV snapshot every
// cfg.Mapping.CheckpointSize records; re-running the command resumes
// where the previous run stopped. Records flagged for review are
// additionally appended to review_queue.csv.
func (m *mapper) Map(ctx context.Context) error {
	if m.operator.Pool() == nil {
		return NotConnectedError()
	}

	start := time.Now()
	paths, err := m.loadLeafPaths(ctx)
	if err != nil {
		return err
	}
	if len(paths) == 0 {
		return NoTaxonomyError()
	}

	pending, mapped, err := m.loadPendingSkills(ctx)
	if err != nil {
		return err
	}
	if mapped > 0 {
		slog.Info("Resuming mapping run",
			"already_mapped", mapped, "pending", len(pending))
	}
	if len(pending) == 0 {
		gn.Info("All skills are already mapped, nothing to do.")
		return nil
	}
	if lim := m.cfg.Mapping.Limit; lim > 0 && len(pending) > lim {
		pending = pending[:lim]
	}

	engine, closeEngine, err := m.buildEngine()
	if err != nil {
		return err
	}
	defer closeEngine()

	idx, err := NewIndex(ctx, paths, engine)
	if err != nil {
		return err
	}
	if idx.Degraded() {
		gn.Warn("No embedding engine available: retrieval runs in " +
			"degraded lexical mode.")
	}
	assistant := NewAssistant(&m.cfg.Mapping, idx)
	if assistant.Offline() {
		gn.Info("No inference endpoint configured: using the " +
			"deterministic offline chooser.")
	}

	outDir := m.cfg.OutDir()
	if err := gnsys.MakeDir(outDir); err != nil {
		return CheckpointError(outDir, err)
	}

	slog.Info("Starting mapping",
		"pending", len(pending), "taxonomy_paths", len(paths),
		"degraded", idx.Degraded(), "offline", assistant.Offline())

	ck := newCheckpointer(outDir, m.cfg.Mapping.CheckpointSize,
		m.insertMappings)
	if err := m.run(ctx, assistant, pending, ck); err != nil {
		return err
	}

	m.summary(ck, assistant.Offline(), start)
	return nil
}

// run feeds the pending skills through a bounded worker pool. A
// single collector goroutine owns the checkpointer, so flushes and
// failure accounting never race.
func (m *mapper) run(
	ctx context.Context,
	assistant *Assistant,
	pending []schema.Skill,
	ck *checkpointer,
) error {
	bar := pb.Full.Start(len(pending))
	bar.Set("prefix", "Mapping: ")
	bar.Set(pb.CleanOnFinish, true)
	defer bar.Finish()

	chIn := make(chan schema.Skill)
	chOut := make(chan mapResult)

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		defer close(chIn)
		for _, s := range pending {
			select {
			case <-gCtx.Done():
				return gCtx.Err()
			case chIn <- s:
			}
		}
		return nil
	})

	var wg sync.WaitGroup
	for range m.cfg.JobsNumber {
		wg.Add(1)
		g.Go(func() error {
			defer wg.Done()
			for s := range chIn {
				rec, err := assistant.MapSkill(gCtx, s)
				if err != nil {
					slog.Warn("Mapping failed",
						"skill", s.ID, "error", err)
				}
				select {
				case <-gCtx.Done():
					return gCtx.Err()
				case chOut <- mapResult{rec: rec, failed: err != nil}:
				}
			}
			return nil
		})
	}

	// single collector: checkpoints reflect only completed work
	g.Go(func() error {
		var failStreak int
		for res := range chOut {
			bar.Increment()
			if err := ck.add(gCtx, res.rec); err != nil {
				return err
			}
			if !res.failed {
				failStreak = 0
				continue
			}
			failStreak++
			if failStreak >= m.cfg.Mapping.MaxFailStreak {
				// keep the completed tail before halting
				if err := ck.flush(gCtx); err != nil {
					return err
				}
				return ServiceLostError(failStreak)
			}
		}
		return ck.flush(gCtx)
	})

	go func() {
		wg.Wait()
		close(chOut)
	}()

	return g.Wait()
}

// buildEngine creates the configured embedding engine wrapped in the
// persistent BadgerDB vector cache. Provider "none" yields a nil
// engine and a degraded index.
func (m *mapper) buildEngine() (embed.Engine, func(), error) {
	engine, err := ioembed.NewEngine(&m.cfg.Embed)
	if err != nil {
		return nil, nil, err
	}
	if engine == nil {
		return nil, func() {}, nil
	}

	cache, err := ioembed.NewCache(config.EmbedCacheDir(m.cfg.HomeDir))
	if err != nil {
		return nil, nil, err
	}
	if err = cache.Open(); err != nil {
		return nil, nil, err
	}
	closeCache := func() {
		if err := cache.Close(); err != nil {
			slog.Warn("Cannot close embedding cache", "error", err)
		}
	}
	return ioembed.WithCache(engine, cache), closeCache, nil
}

func (m *mapper) summary(ck *checkpointer, offline bool, start time.Time) {
	byStatus := ck.statusCounts()
	byConf := ck.confidenceCounts()
	processed := ck.processed()

	cost := float64(processed) * m.cfg.Mapping.CostPerCall
	if offline {
		cost = 0
	}

	gn.Info("Mapping finished: <em>%s</em> skills processed "+
		"(<em>%s</em> mapped, <em>%s</em> errors, <em>%s</em> without "+
		"suggestions), <em>%s</em> queued for review, estimated cost "+
		"<em>$%.2f</em>, elapsed <em>%s</em>",
		humanize.Comma(int64(processed)),
		humanize.Comma(int64(byStatus[schema.StatusSuccess])),
		humanize.Comma(int64(byStatus[schema.StatusError])),
		humanize.Comma(int64(byStatus[schema.StatusNoSuggestions])),
		humanize.Comma(int64(ck.reviewCount())),
		cost,
		gnfmt.TimeString(time.Since(start).Seconds()),
	)
	slog.Info("Mapping finished",
		"processed", processed,
		"success", byStatus[schema.StatusSuccess],
		"errors", byStatus[schema.StatusError],
		"no_suggestions", byStatus[schema.StatusNoSuggestions],
		"high", byConf[schema.ConfidenceHigh],
		"medium", byConf[schema.ConfidenceMedium],
		"low", byConf[schema.ConfidenceLow],
		"needs_review", ck.reviewCount(),
		"estimated_cost_usd", cost,
		"duration", time.Since(start).String(),
	)
}
