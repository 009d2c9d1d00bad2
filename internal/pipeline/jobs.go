package pipeline

import (
	"sync"
	"time"

	"github.com/spark-sse/liaexport/internal/export"
)

// JobStatus represents the state of an export job.
type JobStatus string

const (
	StatusQueued    JobStatus = "queued"
	StatusDecoding  JobStatus = "decoding"
	StatusResolving JobStatus = "resolving"
	StatusBuilding  JobStatus = "building"
	StatusCompleted JobStatus = "completed"
	StatusPartial   JobStatus = "partial"
	StatusFailed    JobStatus = "failed"
)

// Job tracks the state of a single course export.
type Job struct {
	mu sync.Mutex

	ID          string    `json:"job_id"`
	CourseTitle string    `json:"course_title"`
	Status      JobStatus `json:"status"`
	Phase       string    `json:"phase"`

	Progress Progress `json:"progress"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Internal: not serialized.
	payload  []byte
	options  export.Options
	document string
	errors   []string
}

// Progress tracks export progress and the accumulated non-fatal issues.
type Progress struct {
	Chapters         int      `json:"chapters"`
	Lessons          int      `json:"lessons"`
	MissingLessons   int      `json:"missing_lessons"`
	SkippedQuestions int      `json:"skipped_questions"`
	Warnings         []string `json:"warnings"`
	Errors           []string `json:"errors"`
}

// NewJob creates a queued job holding the raw snapshot payload.
func NewJob(id string, payload []byte, opts export.Options) *Job {
	now := time.Now()
	return &Job{
		ID:        id,
		Status:    StatusQueued,
		Phase:     "queued",
		CreatedAt: now,
		UpdatedAt: now,
		payload:   payload,
		options:   opts,
	}
}

// JobStore is a thread-safe in-memory job registry with TTL eviction.
type JobStore struct {
	mu   sync.Mutex
	jobs map[string]*Job
	ttl  time.Duration
}

func NewJobStore(ttl time.Duration) *JobStore {
	return &JobStore{
		jobs: make(map[string]*Job),
		ttl:  ttl,
	}
}

func (s *JobStore) Put(job *Job) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs[job.ID] = job
}

func (s *JobStore) Get(id string) *Job {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.jobs[id]
}

// Cleanup removes expired jobs.
func (s *JobStore) Cleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	for id, job := range s.jobs {
		if now.Sub(job.UpdatedAt) > s.ttl {
			delete(s.jobs, id)
		}
	}
}

// SetStatus updates job status atomically.
func (j *Job) SetStatus(status JobStatus, phase string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Status = status
	j.Phase = phase
	j.UpdatedAt = time.Now()
}

// SetCourseTitle records the decoded course title.
func (j *Job) SetCourseTitle(title string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.CourseTitle = title
	j.UpdatedAt = time.Now()
}

// AddError records a fatal error.
func (j *Job) AddError(err string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.errors = append(j.errors, err)
	j.Progress.Errors = j.errors
	j.UpdatedAt = time.Now()
}

// SetCounts records snapshot dimensions.
func (j *Job) SetCounts(chapters, lessons int) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Progress.Chapters = chapters
	j.Progress.Lessons = lessons
	j.UpdatedAt = time.Now()
}

// SetReport copies the export report onto the job progress.
func (j *Job) SetReport(rep *export.Report) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Progress.MissingLessons = rep.MissingLessons
	j.Progress.SkippedQuestions = rep.SkippedQuestions
	j.Progress.Warnings = append(j.Progress.Warnings, rep.Warnings...)
	j.UpdatedAt = time.Now()
}

// AddWarning records a non-fatal issue raised outside the export core.
func (j *Job) AddWarning(warning string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Progress.Warnings = append(j.Progress.Warnings, warning)
	j.UpdatedAt = time.Now()
}

// SetDocument stores the serialized export result.
func (j *Job) SetDocument(doc string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.document = doc
	j.UpdatedAt = time.Now()
}

// Document returns the serialized export result, empty until completion.
func (j *Job) Document() string {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.document
}

// Payload returns the raw snapshot bytes.
func (j *Job) Payload() []byte {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.payload
}

// Options returns the export options the job was submitted with.
func (j *Job) Options() export.Options {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.options
}

// JobSnapshot is a read-only, JSON-safe copy of job state.
type JobSnapshot struct {
	ID          string    `json:"job_id"`
	CourseTitle string    `json:"course_title"`
	Status      JobStatus `json:"status"`
	Phase       string    `json:"phase"`
	Progress    Progress  `json:"progress"`
}

// Snapshot returns a JSON-safe copy of the job state.
func (j *Job) Snapshot() JobSnapshot {
	j.mu.Lock()
	defer j.mu.Unlock()
	warnings := j.Progress.Warnings
	if warnings == nil {
		warnings = []string{}
	}
	errs := j.Progress.Errors
	if errs == nil {
		errs = []string{}
	}
	return JobSnapshot{
		ID:          j.ID,
		CourseTitle: j.CourseTitle,
		Status:      j.Status,
		Phase:       j.Phase,
		Progress: Progress{
			Chapters:         j.Progress.Chapters,
			Lessons:          j.Progress.Lessons,
			MissingLessons:   j.Progress.MissingLessons,
			SkippedQuestions: j.Progress.SkippedQuestions,
			Warnings:         warnings,
			Errors:           errs,
		},
	}
}
