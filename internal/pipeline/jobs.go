package pipeline

import (
	"sync"
	"time"

	"github.com/jaehyuk-choi/papertrans/internal/fetch"
)

// JobStatus represents the state of a paper processing job.
type JobStatus string

const (
	StatusQueued      JobStatus = "queued"
	StatusFetching    JobStatus = "fetching"
	StatusExtracting  JobStatus = "extracting"
	StatusSegmenting  JobStatus = "segmenting"
	StatusTranslating JobStatus = "translating"
	StatusSummarizing JobStatus = "summarizing"
	StatusCompleted   JobStatus = "completed"
	StatusFailed      JobStatus = "failed"
	StatusPartial     JobStatus = "partial"
)

// Job tracks the state of a single paper through the pipeline.
type Job struct {
	mu sync.Mutex

	ID   string `json:"job_id"`
	Mode Mode   `json:"mode"`

	Status   JobStatus `json:"status"`
	Phase    string    `json:"phase"`
	Filename string    `json:"filename,omitempty"`
	Title    string    `json:"title,omitempty"`

	Progress Progress `json:"progress"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Internal: not serialized.
	source    fetch.Source
	maxPages  int
	pdfData   []byte
	result    *TranslateResult
	summary   *SummaryResult
	fromCache bool
	errors    []string
}

// Progress tracks per-section and per-chunk processing counts.
type Progress struct {
	TotalSections     int      `json:"total_sections"`
	SectionsProcessed int      `json:"sections_processed"`
	TotalChunks       int      `json:"total_chunks"`
	ChunksTranslated  int      `json:"chunks_translated"`
	ChunkFailures     int      `json:"chunk_failures"`
	Errors            []string `json:"errors"`
}

// NewJob creates a queued job for the given mode.
func NewJob(mode Mode) *Job {
	now := time.Now()
	return &Job{
		ID:        newJobID(),
		Mode:      mode,
		Status:    StatusQueued,
		Phase:     "queued",
		CreatedAt: now,
		UpdatedAt: now,
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

// AddError records an error.
func (j *Job) AddError(err string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.errors = append(j.errors, err)
	j.Progress.Errors = j.errors
	j.UpdatedAt = time.Now()
}

// SetTitle stores the extracted paper title.
func (j *Job) SetTitle(title string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Title = title
	j.UpdatedAt = time.Now()
}

// SetTotalSections records how many sections segmentation produced.
func (j *Job) SetTotalSections(n int) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Progress.TotalSections = n
	j.UpdatedAt = time.Now()
}

// IncrSectionsProcessed atomically increments processed section count.
func (j *Job) IncrSectionsProcessed() {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Progress.SectionsProcessed++
	j.UpdatedAt = time.Now()
}

// AddChunks records chunks queued for translation.
func (j *Job) AddChunks(n int) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Progress.TotalChunks += n
	j.UpdatedAt = time.Now()
}

// IncrChunksTranslated atomically increments translated chunk count.
func (j *Job) IncrChunksTranslated() {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Progress.ChunksTranslated++
	j.UpdatedAt = time.Now()
}

// AddChunkFailures records chunks whose translation ultimately failed.
func (j *Job) AddChunkFailures(n int) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Progress.ChunkFailures += n
	j.UpdatedAt = time.Now()
}

// SetSource sets the remote source to fetch the PDF from.
func (j *Job) SetSource(src fetch.Source) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.source = src
}

// Source returns the job's fetch source.
func (j *Job) Source() fetch.Source {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.source
}

// SetMaxPages sets a per-job page limit override.
func (j *Job) SetMaxPages(n int) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.maxPages = n
}

// MaxPages returns the per-job page limit, 0 when the caller did not ask for
// one.
func (j *Job) MaxPages() int {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.maxPages
}

// SetPDFData sets the raw PDF bytes for processing.
func (j *Job) SetPDFData(data []byte) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.pdfData = data
}

// PDFData returns the raw PDF bytes.
func (j *Job) PDFData() []byte {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.pdfData
}

// SetResult stores the completed translate output.
func (j *Job) SetResult(r *TranslateResult, fromCache bool) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.result = r
	j.fromCache = fromCache
	j.UpdatedAt = time.Now()
}

// Result returns the translate output, nil until the job completes.
func (j *Job) Result() *TranslateResult {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.result
}

// SetSummary stores the completed summarize output.
func (j *Job) SetSummary(r *SummaryResult, fromCache bool) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.summary = r
	j.fromCache = fromCache
	j.UpdatedAt = time.Now()
}

// Summary returns the summarize output, nil until the job completes.
func (j *Job) Summary() *SummaryResult {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.summary
}

// FromCache reports whether the job's output was served from the result cache.
func (j *Job) FromCache() bool {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.fromCache
}

// JobSnapshot is a read-only, JSON-safe copy of job state.
type JobSnapshot struct {
	ID        string    `json:"job_id"`
	Mode      Mode      `json:"mode"`
	Status    JobStatus `json:"status"`
	Phase     string    `json:"phase"`
	Filename  string    `json:"filename,omitempty"`
	Title     string    `json:"title,omitempty"`
	FromCache bool      `json:"from_cache"`
	Progress  Progress  `json:"progress"`
}

// Snapshot returns a JSON-safe copy of the job state.
func (j *Job) Snapshot() JobSnapshot {
	j.mu.Lock()
	defer j.mu.Unlock()
	errs := j.Progress.Errors
	if errs == nil {
		errs = []string{}
	}
	return JobSnapshot{
		ID:        j.ID,
		Mode:      j.Mode,
		Status:    j.Status,
		Phase:     j.Phase,
		Filename:  j.Filename,
		Title:     j.Title,
		FromCache: j.fromCache,
		Progress: Progress{
			TotalSections:     j.Progress.TotalSections,
			SectionsProcessed: j.Progress.SectionsProcessed,
			TotalChunks:       j.Progress.TotalChunks,
			ChunksTranslated:  j.Progress.ChunksTranslated,
			ChunkFailures:     j.Progress.ChunkFailures,
			Errors:            errs,
		},
	}
}
