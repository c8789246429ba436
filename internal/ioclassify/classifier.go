// Package ioclassify implements the variant classifier. It partitions
// the imported skill corpus into equivalence relationships
// (state-variant, grade-progression, unique) and replaces the stored
// relationship set wholesale.
package ioclassify

import (
	"context"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/cheggaaa/pb/v3"
	"github.com/dustin/go-humanize"
	"github.com/edugraph/skillmap/pkg/config"
	"github.com/edugraph/skillmap/pkg/db"
	"github.com/edugraph/skillmap/pkg/lifecycle"
	"github.com/edugraph/skillmap/pkg/schema"
	"github.com/gnames/gn"
	"github.com/gnames/gnfmt"
	"golang.org/x/sync/errgroup"
)

// classifier implements the lifecycle.Classifier interface.
type classifier struct {
	cfg      *config.Config
	operator db.Operator
}

// New creates a new Classifier.
func New(cfg *config.Config, op db.Operator) lifecycle.Classifier {
	return &classifier{cfg: cfg, operator: op}
}

// areaJob is one content area waiting for classification.
type areaJob struct {
	area   string
	skills []schema.Skill
}

// areaResult is the classified output of one content area.
type areaResult struct {
	area   string
	groups []group
}

// Classify loads the skill corpus, classifies every content area
// concurrently, and replaces the equivalence relationship set
// wholesale. Group identifiers are deterministic, so an unchanged
// corpus reproduces identical output.
func (c *classifier) Classify(ctx context.Context) error {
	pool := c.operator.Pool()
	if pool == nil {
		return NotConnectedError()
	}

	start := time.Now()
	skills, err := c.loadSkills(ctx)
	if err != nil {
		return err
	}
	if len(skills) == 0 {
		return NoSkillsError()
	}

	areas := partition(skills)
	slog.Info("Starting classification",
		"skills", len(skills), "content_areas", len(areas))

	bar := pb.Full.Start(len(skills))
	bar.Set("prefix", "Classifying: ")
	bar.Set(pb.CleanOnFinish, true)

	chIn := make(chan areaJob)
	chOut := make(chan areaResult)

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		defer close(chIn)
		for _, job := range areas {
			select {
			case <-gCtx.Done():
				return gCtx.Err()
			case chIn <- job:
			}
		}
		return nil
	})

	var wg sync.WaitGroup
	for range c.cfg.JobsNumber {
		wg.Add(1)
		g.Go(func() error {
			defer wg.Done()
			for job := range chIn {
				res := areaResult{
					area:   job.area,
					groups: classifyArea(job.skills, &c.cfg.Classify),
				}
				select {
				case <-gCtx.Done():
					return gCtx.Err()
				case chOut <- res:
					bar.Add(len(job.skills))
				}
			}
			return nil
		})
	}

	// single collector keeps the output deterministic after a sort
	var results []areaResult
	g.Go(func() error {
		for res := range chOut {
			results = append(results, res)
		}
		return nil
	})

	go func() {
		wg.Wait()
		close(chOut)
	}()

	if err := g.Wait(); err != nil {
		bar.Finish()
		return err
	}
	bar.Finish()

	sort.Slice(results, func(i, j int) bool {
		return results[i].area < results[j].area
	})
	var groups []group
	for _, res := range results {
		groups = append(groups, res.groups...)
	}

	if err := c.saveGroups(ctx, groups); err != nil {
		return err
	}

	if c.cfg.Classify.ExportFile != "" {
		if err := exportGroups(c.cfg.Classify.ExportFile, groups); err != nil {
			return err
		}
		gn.Info("Relationship set exported to <em>%s</em>",
			c.cfg.Classify.ExportFile)
	}

	c.summary(groups, start)
	return nil
}

// partition splits the corpus by content area into deterministic
// job order.
func partition(skills []schema.Skill) []areaJob {
	byArea := make(map[string][]schema.Skill)
	for _, s := range skills {
		byArea[s.ContentArea] = append(byArea[s.ContentArea], s)
	}
	areas := make([]string, 0, len(byArea))
	for a := range byArea {
		areas = append(areas, a)
	}
	sort.Strings(areas)

	res := make([]areaJob, len(areas))
	for i, a := range areas {
		res[i] = areaJob{area: a, skills: byArea[a]}
	}
	return res
}

func (c *classifier) summary(groups []group, start time.Time) {
	counts := make(map[schema.RelationType]int)
	for _, g := range groups {
		counts[g.relation]++
	}
	gn.Info("Classification finished: <em>%s</em> groups "+
		"(<em>%s</em> state-variant, <em>%s</em> grade-progression, "+
		"<em>%s</em> unique) in <em>%s</em>",
		humanize.Comma(int64(len(groups))),
		humanize.Comma(int64(counts[schema.RelationStateVariant])),
		humanize.Comma(int64(counts[schema.RelationGradeProgression])),
		humanize.Comma(int64(counts[schema.RelationUnique])),
		gnfmt.TimeString(time.Since(start).Seconds()),
	)
	slog.Info("Classification finished",
		"groups", len(groups),
		"state_variant", counts[schema.RelationStateVariant],
		"grade_progression", counts[schema.RelationGradeProgression],
		"unique", counts[schema.RelationUnique],
		"duration", time.Since(start).String(),
	)
}
