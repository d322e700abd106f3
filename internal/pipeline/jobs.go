package pipeline

import (
	"crypto/sha256"
	"fmt"
	"sync"
	"time"
)

// JobStatus represents the state of a translation job.
type JobStatus string

const (
	StatusQueued      JobStatus = "queued"
	StatusParsing     JobStatus = "parsing"
	StatusTranslating JobStatus = "translating"
	StatusWriting     JobStatus = "writing"
	StatusCompleted   JobStatus = "completed"
	StatusFailed      JobStatus = "failed"
	StatusPartial     JobStatus = "partial"
)

// Done reports whether the job will not change any more.
func (s JobStatus) Done() bool {
	return s == StatusCompleted || s == StatusFailed || s == StatusPartial
}

// Job tracks the state of a single document translation.
type Job struct {
	mu sync.Mutex

	ID     string
	Status JobStatus
	Phase  string

	Filename   string // Original upload name
	InputPath  string // Where the upload was stored
	OutputPath string // Where the translation is written
	Source     string
	Target     string

	Progress Progress

	ContentHash string
	CreatedAt   time.Time
	UpdatedAt   time.Time

	errors []string
}

// Progress tracks processing progress.
type Progress struct {
	TotalPages          int      `json:"total_pages"`
	PagesProcessed      int      `json:"pages_processed"`
	FallbackPages       int      `json:"fallback_pages"`
	SentencesTranslated int      `json:"sentences_translated"`
	SentencesFailed     int      `json:"sentences_failed"`
	Images              int      `json:"images"`
	ImagesSkipped       int      `json:"images_skipped"`
	Errors              []string `json:"errors"`
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

// Len returns the number of tracked jobs.
func (s *JobStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.jobs)
}

// FindCompleted returns a finished job, other than exclude, that
// translated the same content into the same language.
func (s *JobStore) FindCompleted(hash, source, target, exclude string) *Job {
	s.mu.Lock()
	jobs := make([]*Job, 0, len(s.jobs))
	for _, j := range s.jobs {
		jobs = append(jobs, j)
	}
	s.mu.Unlock()

	for _, j := range jobs {
		if j.ID == exclude {
			continue
		}
		snap := j.Snapshot()
		if snap.Status == StatusCompleted && j.ContentHash == hash && j.Source == source && j.Target == target {
			return j
		}
	}
	return nil
}

// Cleanup removes expired jobs.
func (s *JobStore) Cleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	for id, job := range s.jobs {
		job.mu.Lock()
		updated := job.UpdatedAt
		job.mu.Unlock()
		if now.Sub(updated) > s.ttl {
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

// AddError records an error.
func (j *Job) AddError(err string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.errors = append(j.errors, err)
	j.Progress.Errors = j.errors
	j.UpdatedAt = time.Now()
}

// SetPages records page progress.
func (j *Job) SetPages(processed, total int) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Progress.PagesProcessed = processed
	j.Progress.TotalPages = total
	j.UpdatedAt = time.Now()
}

// SetSummary copies the final document counts into the job.
func (j *Job) SetSummary(s Summary) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Progress.PagesProcessed = s.Pages
	j.Progress.FallbackPages = s.FallbackPages
	j.Progress.SentencesTranslated = s.Translated
	j.Progress.SentencesFailed = s.Failed
	j.Progress.Images = s.Images
	j.Progress.ImagesSkipped = s.ImagesSkipped
	j.UpdatedAt = time.Now()
}

// SetOutputPath records where the result is stored.
func (j *Job) SetOutputPath(path string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.OutputPath = path
}

// JobSnapshot is a read-only, JSON-safe copy of job state.
type JobSnapshot struct {
	ID        string    `json:"job_id"`
	Status    JobStatus `json:"status"`
	Phase     string    `json:"phase"`
	Filename  string    `json:"filename"`
	Source    string    `json:"source_lang"`
	Target    string    `json:"target_lang"`
	Output    string    `json:"output,omitempty"`
	Progress  Progress  `json:"progress"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Snapshot returns a JSON-safe copy of the job state.
func (j *Job) Snapshot() JobSnapshot {
	j.mu.Lock()
	defer j.mu.Unlock()
	progress := j.Progress
	progress.Errors = append([]string{}, j.Progress.Errors...)
	return JobSnapshot{
		ID:        j.ID,
		Status:    j.Status,
		Phase:     j.Phase,
		Filename:  j.Filename,
		Source:    j.Source,
		Target:    j.Target,
		Output:    j.OutputPath,
		Progress:  progress,
		CreatedAt: j.CreatedAt,
		UpdatedAt: j.UpdatedAt,
	}
}

// ContentHashHex computes SHA-256 of content and returns hex string.
func ContentHashHex(data []byte) string {
	h := sha256.Sum256(data)
	return fmt.Sprintf("%x", h[:])
}
