package api

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/spark-sse/liaexport/internal/course"
	"github.com/spark-sse/liaexport/internal/export"
	"github.com/spark-sse/liaexport/internal/pipeline"
)

// exportRequest is the POST /api/export body. The options block is optional;
// omitted fields fall back to the platform defaults.
type exportRequest struct {
	Options *struct {
		AddTitlePage        *bool  `json:"addTitlePage"`
		Language            string `json:"language"`
		Narrator            string `json:"narrator"`
		ConsiderTopics      *bool  `json:"considerTopics"`
		ExportMailAddresses *bool  `json:"exportMailAddresses"`
	} `json:"options"`
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxBodyBytes)

	body, err := io.ReadAll(r.Body)
	if err != nil {
		jsonError(w, "failed to read request body: "+err.Error(), http.StatusRequestEntityTooLarge)
		return
	}

	// Reject undecodable snapshots up front; the worker decodes again when
	// the job runs.
	snap, err := course.DecodeSnapshotJSON(bytes.NewReader(body))
	if err != nil {
		jsonError(w, "invalid snapshot: "+err.Error(), http.StatusBadRequest)
		return
	}

	var req exportRequest
	if err := json.Unmarshal(body, &req); err != nil {
		jsonError(w, "invalid request: "+err.Error(), http.StatusBadRequest)
		return
	}
	opts := s.exportOptions(req)

	job := pipeline.NewJob(uuid.NewString(), body, opts)
	job.SetCourseTitle(snap.Course.Title)
	if err := s.orchestrator.Submit(job); err != nil {
		jsonError(w, err.Error(), http.StatusServiceUnavailable)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusAccepted)
	json.NewEncoder(w).Encode(map[string]any{
		"job_id": job.ID,
		"status": pipeline.StatusQueued,
	})
}

// exportOptions merges the request's options block over the configured
// defaults.
func (s *Server) exportOptions(req exportRequest) export.Options {
	opts := export.DefaultOptions()
	opts.Language = s.cfg.DefaultLanguage
	opts.Narrator = export.Narrator(s.cfg.DefaultNarrator)

	o := req.Options
	if o == nil {
		return opts
	}
	if o.AddTitlePage != nil {
		opts.AddTitlePage = *o.AddTitlePage
	}
	if o.Language != "" {
		opts.Language = o.Language
	}
	if o.Narrator != "" {
		opts.Narrator = export.Narrator(o.Narrator)
	}
	if o.ConsiderTopics != nil {
		opts.ConsiderTopics = *o.ConsiderTopics
	}
	if o.ExportMailAddresses != nil {
		opts.ExportMailAddresses = *o.ExportMailAddresses
	}
	return opts
}

func (s *Server) handleExportStatus(w http.ResponseWriter, r *http.Request) {
	job := s.orchestrator.GetJob(chi.URLParam(r, "jobID"))
	if job == nil {
		jsonError(w, "job not found", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(job.Snapshot())
}

func (s *Server) handleExportDocument(w http.ResponseWriter, r *http.Request) {
	job := s.orchestrator.GetJob(chi.URLParam(r, "jobID"))
	if job == nil {
		jsonError(w, "job not found", http.StatusNotFound)
		return
	}
	snapshot := job.Snapshot()
	if snapshot.Status != pipeline.StatusCompleted && snapshot.Status != pipeline.StatusPartial {
		jsonError(w, "document not ready: "+string(snapshot.Status), http.StatusConflict)
		return
	}
	w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
	io.WriteString(w, job.Document())
}

func (s *Server) handleExportStats(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"exports":     s.orchestrator.Stats(),
		"queue_depth": s.orchestrator.QueueDepth(),
	})
}

func jsonError(w http.ResponseWriter, msg string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
