package models

import (
	"sync"
	"time"
)

// JobStatus is the lifecycle state of a bulk screening job. Transitions
// are monotone: SUBMITTED -> RUNNING -> COMPLETED | FAILED, and the two
// terminal states are final.
type JobStatus string

const (
	JobSubmitted JobStatus = "SUBMITTED"
	JobRunning   JobStatus = "RUNNING"
	JobCompleted JobStatus = "COMPLETED"
	JobFailed    JobStatus = "FAILED"
)

// Terminal reports whether the status permits no further transitions.
func (s JobStatus) Terminal() bool {
	return s == JobCompleted || s == JobFailed
}

// BulkItem is one record pulled from an inline submission or an NDJSON
// stream line.
type BulkItem struct {
	RequestID  string `json:"requestId"`
	Name       string `json:"name"`
	EntityType string `json:"entityType"`
	Source     string `json:"source,omitempty"`
}

// BulkMatch is one (input record x matched entity) row written to
// matches.json.
type BulkMatch struct {
	CustomerID string  `json:"customerId"`
	Name       string  `json:"name"`
	EntityID   string  `json:"entityId"`
	MatchScore float64 `json:"matchScore"`
	Source     string  `json:"source"`
}

// BulkJob is the in-memory lifecycle entity for one bulk screening run.
// A single worker goroutine owns all mutations; other goroutines only ever
// read value snapshots via Snapshot, taken under the job's own lock so the
// counters and status are mutually consistent.
type BulkJob struct {
	mu sync.Mutex

	JobID       string
	JobName     string
	MinMatch    float64
	Limit       int
	Status      JobStatus
	TotalItems  int
	Processed   int
	Matched     int
	ParseErrors int
	SubmittedAt time.Time
	StartedAt   time.Time
	CompletedAt *time.Time
	ResultPath  string
	ErrMessage  string

	// matches is append-only while RUNNING and owned by the worker.
	matches []BulkMatch

	// throughput is a rolling window of recent chunk completions used for
	// the time-remaining estimate.
	throughput []throughputSample
}

type throughputSample struct {
	at    time.Time
	items int
}

// NewBulkJob creates a job in SUBMITTED state.
func NewBulkJob(jobID, jobName string, minMatch float64, limit int) *BulkJob {
	return &BulkJob{
		JobID:       jobID,
		JobName:     jobName,
		MinMatch:    minMatch,
		Limit:       limit,
		Status:      JobSubmitted,
		SubmittedAt: time.Now(),
	}
}

// throughputWindow is how many chunk completions feed the ETA estimate.
const throughputWindow = 5

// JobSnapshot is an immutable copy of a job's observable state.
type JobSnapshot struct {
	JobID                  string      `json:"jobId"`
	JobName                string      `json:"jobName"`
	Status                 JobStatus   `json:"status"`
	TotalItems             int         `json:"totalItems"`
	ProcessedItems         int         `json:"processedItems"`
	MatchedItems           int         `json:"matchedItems"`
	ParseErrors            int         `json:"parseErrors,omitempty"`
	PercentComplete        int         `json:"percentComplete"`
	EstimatedTimeRemaining string      `json:"estimatedTimeRemaining,omitempty"`
	SubmittedAt            time.Time   `json:"submittedAt"`
	CompletedAt            *time.Time  `json:"completedAt,omitempty"`
	ResultPath             string      `json:"resultPath,omitempty"`
	ErrorMessage           string      `json:"errorMessage,omitempty"`
	Matches                []BulkMatch `json:"matches,omitempty"`
}

// Snapshot returns a consistent copy of the job's observable state.
// includeMatches controls whether the match buffer is copied out.
func (j *BulkJob) Snapshot(includeMatches bool) JobSnapshot {
	j.mu.Lock()
	defer j.mu.Unlock()

	snap := JobSnapshot{
		JobID:           j.JobID,
		JobName:         j.JobName,
		Status:          j.Status,
		TotalItems:      j.TotalItems,
		ProcessedItems:  j.Processed,
		MatchedItems:    j.Matched,
		ParseErrors:     j.ParseErrors,
		PercentComplete: percentComplete(j.Processed, j.TotalItems),
		SubmittedAt:     j.SubmittedAt,
		CompletedAt:     j.CompletedAt,
		ResultPath:      j.ResultPath,
		ErrorMessage:    j.ErrMessage,
	}
	if eta := j.estimateRemainingLocked(); eta > 0 {
		snap.EstimatedTimeRemaining = eta.Round(time.Second).String()
	}
	if includeMatches && len(j.matches) > 0 {
		snap.Matches = make([]BulkMatch, len(j.matches))
		copy(snap.Matches, j.matches)
	}
	return snap
}

// Start transitions SUBMITTED -> RUNNING. Returns false if the job is not
// in SUBMITTED (a cancelled job, for instance).
func (j *BulkJob) Start() bool {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.Status != JobSubmitted {
		return false
	}
	j.Status = JobRunning
	j.StartedAt = time.Now()
	return true
}

// SetTotal records the item count discovered from the input stream.
func (j *BulkJob) SetTotal(total int) {
	j.mu.Lock()
	j.TotalItems = total
	j.mu.Unlock()
}

// RecordParseError counts one malformed input line.
func (j *BulkJob) RecordParseError() {
	j.mu.Lock()
	j.ParseErrors++
	j.mu.Unlock()
}

// RecordChunk applies one completed chunk's results: processed count,
// how many of those items had at least one match, the match rows in
// chunk order, and a throughput sample for the ETA. The caller counts
// matched items because only it knows the item boundaries within the
// rows.
func (j *BulkJob) RecordChunk(processed, matched int, matches []BulkMatch) {
	j.mu.Lock()
	defer j.mu.Unlock()

	j.Processed += processed
	if j.TotalItems > 0 && j.Processed > j.TotalItems {
		j.Processed = j.TotalItems
	}
	j.Matched += matched
	if len(matches) > 0 {
		j.matches = append(j.matches, matches...)
	}

	j.throughput = append(j.throughput, throughputSample{at: time.Now(), items: processed})
	if len(j.throughput) > throughputWindow {
		j.throughput = j.throughput[len(j.throughput)-throughputWindow:]
	}
}

// Complete transitions RUNNING -> COMPLETED at most once.
func (j *BulkJob) Complete(resultPath string) bool {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.Status.Terminal() {
		return false
	}
	now := time.Now()
	j.Status = JobCompleted
	j.CompletedAt = &now
	j.ResultPath = resultPath
	return true
}

// Fail transitions to FAILED at most once, recording the cause.
func (j *BulkJob) Fail(message string) bool {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.Status.Terminal() {
		return false
	}
	now := time.Now()
	j.Status = JobFailed
	j.CompletedAt = &now
	j.ErrMessage = message
	return true
}

// Matches returns a copy of the accumulated match buffer.
func (j *BulkJob) Matches() []BulkMatch {
	j.mu.Lock()
	defer j.mu.Unlock()
	out := make([]BulkMatch, len(j.matches))
	copy(out, j.matches)
	return out
}

// Duration is the wall time from submission to completion, or to now for
// a live job.
func (j *BulkJob) Duration() time.Duration {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.CompletedAt != nil {
		return j.CompletedAt.Sub(j.SubmittedAt)
	}
	return time.Since(j.SubmittedAt)
}

func (j *BulkJob) estimateRemainingLocked() time.Duration {
	if j.Status != JobRunning || len(j.throughput) == 0 || j.TotalItems == 0 {
		return 0
	}
	remaining := j.TotalItems - j.Processed
	if remaining <= 0 {
		return 0
	}

	items := 0
	oldest := j.throughput[0].at
	for _, s := range j.throughput {
		items += s.items
	}
	elapsed := time.Since(oldest)
	if items == 0 || elapsed <= 0 {
		return 0
	}
	perItem := elapsed / time.Duration(items)
	return perItem * time.Duration(remaining)
}

func percentComplete(processed, total int) int {
	if total <= 0 {
		return 0
	}
	return int(100 * int64(processed) / int64(total))
}
