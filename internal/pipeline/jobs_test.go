package pipeline

import (
	"testing"
	"time"

	"github.com/spark-sse/liaexport/internal/export"
)

func TestJob_StateTransitions(t *testing.T) {
	job := NewJob("test-1", nil, export.DefaultOptions())
	if job.Status != StatusQueued {
		t.Fatalf("expected queued job, got %q", job.Status)
	}

	transitions := []struct {
		status JobStatus
		phase  string
	}{
		{StatusDecoding, "decoding"},
		{StatusResolving, "resolving"},
		{StatusBuilding, "building"},
		{StatusCompleted, "done"},
	}

	for _, tr := range transitions {
		before := job.UpdatedAt
		// Small sleep to ensure time difference is detectable.
		time.Sleep(time.Millisecond)
		job.SetStatus(tr.status, tr.phase)

		if job.Status != tr.status {
			t.Errorf("expected status %q, got %q", tr.status, job.Status)
		}
		if job.Phase != tr.phase {
			t.Errorf("expected phase %q, got %q", tr.phase, job.Phase)
		}
		if !job.UpdatedAt.After(before) {
			t.Errorf("expected UpdatedAt to advance after SetStatus(%q)", tr.status)
		}
	}
}

func TestJob_ReportMergesWithWarnings(t *testing.T) {
	job := NewJob("test-2", nil, export.DefaultOptions())
	job.AddWarning("media logo.png: not resolved")

	rep := &export.Report{}
	rep.Warnf("question of type %q produces no output", "programming")
	rep.SkippedQuestions = 1
	job.SetReport(rep)

	snap := job.Snapshot()
	if len(snap.Progress.Warnings) != 2 {
		t.Fatalf("expected resolution and report warnings merged, got %v", snap.Progress.Warnings)
	}
	if snap.Progress.SkippedQuestions != 1 {
		t.Errorf("expected skipped question count, got %d", snap.Progress.SkippedQuestions)
	}
}

func TestJob_SnapshotNeverNilSlices(t *testing.T) {
	job := NewJob("test-3", nil, export.DefaultOptions())
	snap := job.Snapshot()
	if snap.Progress.Warnings == nil || snap.Progress.Errors == nil {
		t.Error("expected JSON-safe empty slices in snapshot")
	}
}

func TestJob_Document(t *testing.T) {
	job := NewJob("test-4", []byte(`{}`), export.DefaultOptions())
	if job.Document() != "" {
		t.Error("expected empty document before completion")
	}
	job.SetDocument("# Kurs\n")
	if job.Document() != "# Kurs\n" {
		t.Errorf("expected stored document, got %q", job.Document())
	}
	if string(job.Payload()) != "{}" {
		t.Errorf("expected payload kept, got %q", job.Payload())
	}
}

func TestJobStore_PutGet(t *testing.T) {
	store := NewJobStore(time.Hour)
	job := NewJob("abc", nil, export.DefaultOptions())
	store.Put(job)

	if got := store.Get("abc"); got != job {
		t.Error("expected stored job back")
	}
	if got := store.Get("missing"); got != nil {
		t.Errorf("expected nil for unknown id, got %+v", got)
	}
}

func TestJobStore_Cleanup(t *testing.T) {
	store := NewJobStore(10 * time.Millisecond)
	job := NewJob("old", nil, export.DefaultOptions())
	store.Put(job)

	time.Sleep(20 * time.Millisecond)
	store.Cleanup()

	if store.Get("old") != nil {
		t.Error("expected expired job evicted")
	}
}

func TestBackoff_Bounded(t *testing.T) {
	for attempt := 0; attempt < 10; attempt++ {
		d := Backoff(attempt)
		if d < time.Second {
			t.Errorf("attempt %d: backoff %v below base", attempt, d)
		}
		if d > 45*time.Second {
			t.Errorf("attempt %d: backoff %v above cap+jitter", attempt, d)
		}
	}
}
