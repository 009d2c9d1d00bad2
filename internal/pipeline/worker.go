package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/spark-sse/liaexport/internal/course"
	"github.com/spark-sse/liaexport/internal/export"
	"github.com/spark-sse/liaexport/internal/mediastore"
)

// Worker processes a single export job: decode the snapshot, resolve media
// references against the mediastore, run the export engine, store the result.
type Worker struct {
	media *mediastore.Client
	stats *ExportStats
	log   *slog.Logger
}

func NewWorker(media *mediastore.Client, stats *ExportStats, log *slog.Logger) *Worker {
	return &Worker{
		media: media,
		stats: stats,
		log:   log,
	}
}

// Process runs the full export pipeline for a job.
func (w *Worker) Process(ctx context.Context, job *Job) {
	start := time.Now()
	log := w.log.With("job_id", job.ID)

	// Phase 1: Decode
	job.SetStatus(StatusDecoding, "decoding")
	snap, err := course.DecodeSnapshotJSON(bytes.NewReader(job.Payload()))
	if err != nil {
		log.Error("decode failed", "error", err)
		job.AddError(fmt.Sprintf("decode: %s", err))
		job.SetStatus(StatusFailed, "decoding")
		return
	}
	job.SetCourseTitle(snap.Course.Title)
	job.SetCounts(len(snap.Course.Content), len(snap.Lessons))

	// Phase 2: Resolve media references. Failures degrade to the original
	// reference with a warning; they never abort the export.
	job.SetStatus(StatusResolving, "resolving")
	w.resolveMedia(ctx, job, snap)

	// Phase 3: Build and serialize. The engine itself cannot fail.
	job.SetStatus(StatusBuilding, "building")
	opts := job.Options()
	if opts.Date == "" {
		opts.Date = time.Now().Format("02.01.2006")
	}
	doc, rep := export.Export(snap, opts)
	job.SetDocument(doc)
	job.SetReport(rep)

	w.stats.Record(time.Since(start))

	snapshot := job.Snapshot()
	if len(snapshot.Progress.Warnings) > 0 {
		log.Info("export completed with warnings",
			"course", snap.Course.Title,
			"warnings", len(snapshot.Progress.Warnings),
		)
		job.SetStatus(StatusPartial, "done")
		return
	}
	log.Info("export completed", "course", snap.Course.Title, "bytes", len(doc))
	job.SetStatus(StatusCompleted, "done")
}

// resolveMedia rewrites every media reference of the snapshot to a public
// URL. The worker owns the decoded snapshot, so mutating it here is safe.
func (w *Worker) resolveMedia(ctx context.Context, job *Job, snap *course.Snapshot) {
	snap.Course.ImgURL = w.resolveRef(ctx, job, snap.Course.ImgURL)
	for i := range snap.Lessons {
		lesson := &snap.Lessons[i]
		for j := range lesson.Content {
			item := &lesson.Content[j]
			if item.URL != "" {
				item.URL = w.resolveRef(ctx, job, item.URL)
			}
		}
	}
}

func (w *Worker) resolveRef(ctx context.Context, job *Job, ref string) string {
	if ref == "" {
		return ref
	}
	var lastErr error
	for attempt := 0; attempt < MaxRetries; attempt++ {
		resolved, err := w.media.ResolveURL(ctx, ref)
		if err == nil {
			return resolved
		}
		lastErr = err
		if !IsRetryable(err) {
			break
		}
		w.log.Warn("retryable resolve error", "ref", ref, "attempt", attempt, "error", err)
		select {
		case <-time.After(Backoff(attempt)):
		case <-ctx.Done():
			job.AddWarning(fmt.Sprintf("media %s: resolution canceled", ref))
			return ref
		}
	}
	job.AddWarning(fmt.Sprintf("media %s: not resolved: %s", ref, lastErr))
	return ref
}
