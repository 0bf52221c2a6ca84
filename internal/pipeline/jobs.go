package pipeline

import (
	"crypto/sha256"
	"fmt"
	"sync"
	"time"

	"github.com/dgallion1/cvoutline/internal/outline"
	"github.com/google/uuid"
)

// JobStatus represents the state of a render job.
type JobStatus string

const (
	StatusQueued    JobStatus = "queued"
	StatusParsing   JobStatus = "parsing"
	StatusRendering JobStatus = "rendering"
	StatusWriting   JobStatus = "writing"
	StatusCompleted JobStatus = "completed"
	StatusFailed    JobStatus = "failed"
)

// Job tracks the state of a single asynchronous render.
type Job struct {
	mu sync.Mutex

	ID string `json:"job_id"`

	Status   JobStatus `json:"status"`
	Phase    string    `json:"phase"`
	Filename string    `json:"filename"`
	Title    string    `json:"title"`

	Progress Progress `json:"progress"`

	ContentHash string    `json:"content_hash,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// Internal: not serialized.
	req    Request
	output *Output
	errors []string
}

// Progress summarises what the render produced so far.
type Progress struct {
	Records      int      `json:"records"`
	Instructions int      `json:"instructions"`
	Issues       int      `json:"issues"`
	Errors       []string `json:"errors"`
}

// NewJob creates a queued job for req.
func NewJob(req Request) *Job {
	now := time.Now()
	return &Job{
		ID:          uuid.New().String(),
		Status:      StatusQueued,
		Phase:       "queued",
		Filename:    req.Filename,
		ContentHash: ContentHashHex(req.Data),
		CreatedAt:   now,
		UpdatedAt:   now,
		req:         req,
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

// Len returns the number of tracked jobs.
func (s *JobStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.jobs)
}

// Cleanup removes expired jobs.
func (s *JobStore) Cleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	for id, job := range s.jobs {
		if now.Sub(job.updatedAt()) > s.ttl {
			delete(s.jobs, id)
		}
	}
}

func (j *Job) updatedAt() time.Time {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.UpdatedAt
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

// SetTitle records the source title once it is known.
func (j *Job) SetTitle(title string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Title = title
	j.UpdatedAt = time.Now()
}

// SetResult records the outline counts.
func (j *Job) SetResult(res outline.Result) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Progress.Records = res.Records
	j.Progress.Instructions = len(res.Instructions)
	j.Progress.Issues = len(res.Issues)
	j.UpdatedAt = time.Now()
}

// SetOutput stores the finished document.
func (j *Job) SetOutput(out Output) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.output = &out
	j.UpdatedAt = time.Now()
}

// Output returns the finished document, if any.
func (j *Job) Output() (Output, bool) {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.output == nil {
		return Output{}, false
	}
	return *j.output, true
}

// Request returns the render request the job was created with.
func (j *Job) Request() Request {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.req
}

// releaseSource drops the source bytes once they are no longer needed.
func (j *Job) releaseSource() {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.req.Data = nil
}

// JobSnapshot is a read-only, JSON-safe copy of job state.
type JobSnapshot struct {
	ID          string          `json:"job_id"`
	Status      JobStatus       `json:"status"`
	Phase       string          `json:"phase"`
	Filename    string          `json:"filename"`
	Title       string          `json:"title"`
	Progress    Progress        `json:"progress"`
	Issues      []outline.Issue `json:"issues"`
	ContentHash string          `json:"content_hash,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// Snapshot returns a JSON-safe copy of the job state.
func (j *Job) Snapshot() JobSnapshot {
	j.mu.Lock()
	defer j.mu.Unlock()
	errs := append([]string{}, j.Progress.Errors...)
	issues := []outline.Issue{}
	if j.output != nil {
		issues = append(issues, j.output.Result.Issues...)
	}
	return JobSnapshot{
		ID:       j.ID,
		Status:   j.Status,
		Phase:    j.Phase,
		Filename: j.Filename,
		Title:    j.Title,
		Progress: Progress{
			Records:      j.Progress.Records,
			Instructions: j.Progress.Instructions,
			Issues:       j.Progress.Issues,
			Errors:       errs,
		},
		Issues:      issues,
		ContentHash: j.ContentHash,
		CreatedAt:   j.CreatedAt,
		UpdatedAt:   j.UpdatedAt,
	}
}

// ContentHashHex computes SHA-256 of content and returns hex string.
func ContentHashHex(data []byte) string {
	h := sha256.Sum256(data)
	return fmt.Sprintf("%x", h[:])
}
