package iomap

import (
	"context"
	"encoding/csv"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/edugraph/skillmap/pkg/schema"
)

// reviewQueueFile collects mappings flagged for human review. It is
// appended to across runs; a side effect, never a gate.
const reviewQueueFile = "review_queue.csv"

// insertFunc persists one batch of mapping records. Records whose
// skill is already mapped are skipped, never overwritten.
type insertFunc func(ctx context.Context, recs []schema.TaxonomyMapping) error

// checkpointer buffers mapping results and flushes them every `size`
// records: a database insert, a timestamped CSV snapshot of all
// results of the run, and the review-queue append. A crash loses at
// most one unflushed buffer.
type checkpointer struct {
	outDir string
	size   int
	insert insertFunc

	buf []schema.TaxonomyMapping
	all []schema.TaxonomyMapping
}

func newCheckpointer(outDir string, size int, insert insertFunc) *checkpointer {
	if size <= 0 {
		size = 50
	}
	return &checkpointer{outDir: outDir, size: size, insert: insert}
}

// add buffers one record, flushing when the checkpoint size is
// reached.
func (ck *checkpointer) add(
	ctx context.Context,
	rec schema.TaxonomyMapping,
) error {
	ck.buf = append(ck.buf, rec)
	if len(ck.buf) >= ck.size {
		return ck.flush(ctx)
	}
	return nil
}

// flush persists the buffered records. The CSV snapshot always
// contains every record of the run so far, so the newest checkpoint
// file is self-sufficient.
func (ck *checkpointer) flush(ctx context.Context) error {
	if len(ck.buf) == 0 {
		return nil
	}

	if err := ck.insert(ctx, ck.buf); err != nil {
		return err
	}

	var review []schema.TaxonomyMapping
	for _, rec := range ck.buf {
		if rec.NeedsReview {
			review = append(review, rec)
		}
	}

	ck.all = append(ck.all, ck.buf...)
	ck.buf = nil

	path := filepath.Join(ck.outDir, checkpointFileName(time.Now()))
	if err := writeSnapshot(path, ck.all); err != nil {
		return err
	}
	if err := appendReviewQueue(ck.outDir, review); err != nil {
		return err
	}

	slog.Info("Checkpoint flushed",
		"records", len(ck.all), "queued_for_review", len(review),
		"snapshot", path)
	return nil
}

func (ck *checkpointer) processed() int {
	return len(ck.all)
}

func (ck *checkpointer) reviewCount() int {
	var n int
	for _, rec := range ck.all {
		if rec.NeedsReview {
			n++
		}
	}
	return n
}

func (ck *checkpointer) statusCounts() map[schema.MappingStatus]int {
	res := make(map[schema.MappingStatus]int)
	for _, rec := range ck.all {
		res[rec.Status]++
	}
	return res
}

func (ck *checkpointer) confidenceCounts() map[schema.Confidence]int {
	res := make(map[schema.Confidence]int)
	for _, rec := range ck.all {
		if rec.Status == schema.StatusSuccess {
			res[rec.Confidence]++
		}
	}
	return res
}

func checkpointFileName(t time.Time) string {
	return "mappings_checkpoint_" + t.UTC().Format(time.RFC3339) + ".csv"
}

var snapshotHeader = []string{
	"skill_id", "path", "confidence", "similarity", "needs_review",
	"status", "rationale", "alternative1", "alternative2", "error",
}

// writeSnapshot rewrites one checkpoint CSV file.
func writeSnapshot(path string, recs []schema.TaxonomyMapping) error {
	f, err := os.Create(path)
	if err != nil {
		return CheckpointError(path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err = w.Write(snapshotHeader); err != nil {
		return CheckpointError(path, err)
	}
	for _, rec := range recs {
		row := []string{
			rec.SkillID,
			rec.Path,
			string(rec.Confidence),
			strconv.FormatFloat(rec.Similarity, 'f', 4, 64),
			strconv.FormatBool(rec.NeedsReview),
			string(rec.Status),
			rec.Rationale,
			rec.Alternative1,
			rec.Alternative2,
			rec.Error,
		}
		if err = w.Write(row); err != nil {
			return CheckpointError(path, err)
		}
	}
	w.Flush()
	if err = w.Error(); err != nil {
		return CheckpointError(path, err)
	}
	return nil
}

// appendReviewQueue appends review-flagged records to the persistent
// review queue, creating the file with a header on first use.
func appendReviewQueue(
	outDir string,
	recs []schema.TaxonomyMapping,
) error {
	if len(recs) == 0 {
		return nil
	}
	path := filepath.Join(outDir, reviewQueueFile)

	_, statErr := os.Stat(path)
	isNew := os.IsNotExist(statErr)

	f, err := os.OpenFile(path,
		os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return ReviewQueueError(path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if isNew {
		header := []string{
			"skill_id", "path", "confidence", "similarity", "rationale",
		}
		if err = w.Write(header); err != nil {
			return ReviewQueueError(path, err)
		}
	}
	for _, rec := range recs {
		row := []string{
			rec.SkillID,
			rec.Path,
			string(rec.Confidence),
			strconv.FormatFloat(rec.Similarity, 'f', 4, 64),
			rec.Rationale,
		}
		if err = w.Write(row); err != nil {
			return ReviewQueueError(path, err)
		}
	}
	w.Flush()
	if err = w.Error(); err != nil {
		return ReviewQueueError(path, err)
	}
	return nil
}
