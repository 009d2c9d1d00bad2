package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/spark-sse/liaexport/internal/config"
	"github.com/spark-sse/liaexport/internal/mediastore"
	"github.com/spark-sse/liaexport/internal/pipeline"
)

const testSnapshotJSON = `{
  "course": {
    "title": "Testkurs",
    "authors": [{"displayName": "Ada Lovelace", "user": {"email": "ada@example.com"}}],
    "content": [{"title": "Kapitel 1", "content": [{"lessonId": "l-1"}]}]
  },
  "lessons": [
    {
      "lessonId": "l-1",
      "title": "Lektion 1",
      "content": [{"type": "video", "value": {"url": "https://cdn.example.com/v.mp4"}}]
    }
  ],
  "options": {"language": "en", "narrator": "male"}
}`

func testServer(t *testing.T) (*Server, *pipeline.Orchestrator) {
	t.Helper()
	cfg := config.Config{
		APIKey:          "test-key",
		WorkerCount:     1,
		MaxQueueSize:    10,
		MaxBodyBytes:    1 << 20,
		JobTTL:          time.Hour,
		DefaultLanguage: "de",
		DefaultNarrator: "female",
	}
	log := slog.New(slog.NewTextHandler(testWriter{t}, nil))

	media := mediastore.NewClient("http://unused.invalid", "")
	orch := pipeline.NewOrchestrator(cfg, media, log)
	ctx, cancel := context.WithCancel(context.Background())
	orch.Start(ctx)
	t.Cleanup(func() {
		cancel()
		orch.Stop()
	})

	return NewServer(orch, log, cfg), orch
}

type testWriter struct{ t *testing.T }

func (w testWriter) Write(p []byte) (int, error) {
	w.t.Log(strings.TrimSpace(string(p)))
	return len(p), nil
}

func TestHealth(t *testing.T) {
	srv, _ := testServer(t)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
}

func TestAuthRequired(t *testing.T) {
	srv, _ := testServer(t)

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/export", strings.NewReader(testSnapshotJSON)))
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 without token, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/export", strings.NewReader(testSnapshotJSON))
	req.Header.Set("Authorization", "Bearer wrong-key")
	srv.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 with wrong token, got %d", rec.Code)
	}
}

func TestExportFlow(t *testing.T) {
	srv, orch := testServer(t)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/export", strings.NewReader(testSnapshotJSON))
	req.Header.Set("Authorization", "Bearer test-key")
	req.Header.Set("Content-Type", "application/json")
	srv.ServeHTTP(rec, req)

	if rec.Code != http.StatusAccepted {
		t.Fatalf("expected 202, got %d: %s", rec.Code, rec.Body.String())
	}
	var submitted struct {
		JobID string `json:"job_id"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&submitted); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if submitted.JobID == "" {
		t.Fatal("expected a job id")
	}

	// Wait for the worker to finish the export.
	deadline := time.Now().Add(2 * time.Second)
	for {
		job := orch.GetJob(submitted.JobID)
		if job == nil {
			t.Fatal("job disappeared")
		}
		status := job.Snapshot().Status
		if status == pipeline.StatusCompleted || status == pipeline.StatusPartial {
			break
		}
		if status == pipeline.StatusFailed {
			t.Fatalf("job failed: %+v", job.Snapshot())
		}
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for job, status %q", status)
		}
		time.Sleep(10 * time.Millisecond)
	}

	rec = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/api/export/"+submitted.JobID+"/status", nil)
	req.Header.Set("Authorization", "Bearer test-key")
	srv.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 status, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"course_title":"Testkurs"`) {
		t.Errorf("expected course title in status, got %s", rec.Body.String())
	}

	rec = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/api/export/"+submitted.JobID+"/document", nil)
	req.Header.Set("Authorization", "Bearer test-key")
	srv.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 document, got %d", rec.Code)
	}
	doc := rec.Body.String()
	// Options from the request body override the configured defaults.
	if !strings.Contains(doc, "narrator: English Male") {
		t.Errorf("expected request narrator in document, got:\n%s", doc)
	}
	if !strings.Contains(doc, "# Testkurs") {
		t.Errorf("expected title section, got:\n%s", doc)
	}
	if !strings.Contains(doc, "!?[Video](https://cdn.example.com/v.mp4)") {
		t.Errorf("expected video embed, got:\n%s", doc)
	}
}

func TestExport_InvalidSnapshot(t *testing.T) {
	srv, _ := testServer(t)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/export", strings.NewReader(`{"course": {}}`))
	req.Header.Set("Authorization", "Bearer test-key")
	srv.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}

func TestExportStatus_NotFound(t *testing.T) {
	srv, _ := testServer(t)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/export/nope/status", nil)
	req.Header.Set("Authorization", "Bearer test-key")
	srv.ServeHTTP(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rec.Code)
	}
}

func TestExportStats(t *testing.T) {
	srv, _ := testServer(t)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/stats/exports", nil)
	req.Header.Set("Authorization", "Bearer test-key")
	srv.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "queue_depth") {
		t.Errorf("expected queue depth in stats, got %s", rec.Body.String())
	}
}
