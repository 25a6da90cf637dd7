// Package jobs implements the bulk screening job manager: submission,
// in-memory lifecycle tracking, and the chunked worker that drives the
// search service over large inputs.
package jobs

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/vigil/internal/common"
	"github.com/ternarybob/vigil/internal/interfaces"
	"github.com/ternarybob/vigil/internal/models"
	"github.com/ternarybob/vigil/internal/services/search"
	"github.com/ternarybob/vigil/internal/storage/s3"
)

// ErrJobNotFound is returned by GetJobStatus for unknown job IDs.
var ErrJobNotFound = errors.New("job not found")

// ErrInvalidInput marks submit-time validation failures; surfaced
// synchronously as 4xx, never retried.
var ErrInvalidInput = errors.New("invalid input")

// ErrStorageUnavailable marks object-store failures. A job that hits one
// fails with the cause on its status; it is never retried automatically.
var ErrStorageUnavailable = errors.New("storage unavailable")

// Config tunes the bulk pipeline.
type Config struct {
	// ResultsBucket receives {jobId}/matches.json and {jobId}/summary.json.
	ResultsBucket string `toml:"results_bucket"`

	// ChunkSize is the number of records screened per chunk.
	ChunkSize int `toml:"chunk_size"`

	// ChunkConcurrency bounds parallel screenings within one chunk.
	ChunkConcurrency int `toml:"chunk_concurrency"`

	// MaxWorkers bounds how many jobs run concurrently; submissions past
	// the bound queue on the worker semaphore.
	MaxWorkers int `toml:"max_workers"`
}

func (c Config) withDefaults() Config {
	if c.ResultsBucket == "" {
		c.ResultsBucket = "watchman-results"
	}
	if c.ChunkSize <= 0 {
		c.ChunkSize = 1000
	}
	if c.ChunkConcurrency <= 0 {
		c.ChunkConcurrency = 8
	}
	if c.MaxWorkers <= 0 {
		c.MaxWorkers = 4
	}
	return c
}

// Manager owns the jobId -> BulkJob map and the worker pool. Jobs live for
// the process lifetime; per-job mutations happen only on the owning worker
// goroutine.
type Manager struct {
	mu   sync.Mutex
	jobs map[string]*models.BulkJob

	search *search.Service
	store  interfaces.ObjectStore
	cfg    Config
	logger arbor.ILogger

	workerSem chan struct{}
	wg        sync.WaitGroup
	ctx       context.Context
	cancel    context.CancelFunc
}

// NewManager creates a bulk job manager.
func NewManager(searchSvc *search.Service, store interfaces.ObjectStore, cfg Config, logger arbor.ILogger) *Manager {
	ctx, cancel := context.WithCancel(context.Background())
	cfg = cfg.withDefaults()
	return &Manager{
		jobs:      make(map[string]*models.BulkJob),
		search:    searchSvc,
		store:     store,
		cfg:       cfg,
		logger:    logger,
		workerSem: make(chan struct{}, cfg.MaxWorkers),
		ctx:       ctx,
		cancel:    cancel,
	}
}

// SubmitJob validates and registers an inline-items job, enqueues its
// worker, and returns immediately with the SUBMITTED snapshot. No
// screening happens before the return.
func (m *Manager) SubmitJob(name string, items []models.BulkItem, minMatch float64, limit int) (models.JobSnapshot, error) {
	if len(items) == 0 {
		return models.JobSnapshot{}, fmt.Errorf("%w: items must not be empty", ErrInvalidInput)
	}
	for i, item := range items {
		if item.Name == "" {
			return models.JobSnapshot{}, fmt.Errorf("%w: item %d has no name", ErrInvalidInput, i)
		}
	}
	if err := validateJobParams(minMatch, limit); err != nil {
		return models.JobSnapshot{}, err
	}

	job := m.register(name, minMatch, limit)
	job.SetTotal(len(items))
	m.spawn(job, &inlineSource{items: items})
	return job.Snapshot(false), nil
}

// SubmitJobFromS3 validates the input path and registers a streaming job.
// The object is not touched until the worker runs.
func (m *Manager) SubmitJobFromS3(name, s3Path string, minMatch float64, limit int) (models.JobSnapshot, error) {
	if m.store == nil {
		return models.JobSnapshot{}, fmt.Errorf("%w: s3 input requires a configured object store", ErrInvalidInput)
	}
	bucket, key, err := s3.ParsePath(s3Path)
	if err != nil {
		return models.JobSnapshot{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if err := validateJobParams(minMatch, limit); err != nil {
		return models.JobSnapshot{}, err
	}

	job := m.register(name, minMatch, limit)
	m.spawn(job, &streamSource{store: m.store, bucket: bucket, key: key})
	return job.Snapshot(false), nil
}

// GetJobStatus returns a consistent snapshot of the job, or ErrJobNotFound.
func (m *Manager) GetJobStatus(jobID string, includeMatches bool) (models.JobSnapshot, error) {
	m.mu.Lock()
	job, ok := m.jobs[jobID]
	m.mu.Unlock()
	if !ok {
		return models.JobSnapshot{}, ErrJobNotFound
	}
	return job.Snapshot(includeMatches), nil
}

// Cancel transitions a live job to FAILED with a "cancelled" message. The
// owning worker observes the terminal state at the next chunk boundary.
func (m *Manager) Cancel(jobID string) (models.JobSnapshot, error) {
	m.mu.Lock()
	job, ok := m.jobs[jobID]
	m.mu.Unlock()
	if !ok {
		return models.JobSnapshot{}, ErrJobNotFound
	}
	job.Fail("cancelled")
	return job.Snapshot(false), nil
}

// JobCounts reports jobs per status for the status endpoint.
func (m *Manager) JobCounts() map[models.JobStatus]int {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[models.JobStatus]int, 4)
	for _, job := range m.jobs {
		out[job.Snapshot(false).Status]++
	}
	return out
}

// Stop cancels the worker context and waits for running workers to settle.
func (m *Manager) Stop() {
	m.cancel()
	m.wg.Wait()
}

func (m *Manager) register(name string, minMatch float64, limit int) *models.BulkJob {
	job := models.NewBulkJob(common.NewJobID(), name, minMatch, limit)

	m.mu.Lock()
	m.jobs[job.JobID] = job
	m.mu.Unlock()

	m.logger.Info().
		Str("job_id", job.JobID).
		Str("job_name", name).
		Msg("Bulk job submitted")
	return job
}

func (m *Manager) spawn(job *models.BulkJob, source itemSource) {
	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		select {
		case m.workerSem <- struct{}{}:
			defer func() { <-m.workerSem }()
		case <-m.ctx.Done():
			job.Fail("shutting down")
			return
		}
		m.runJob(job, source)
	}()
}

func validateJobParams(minMatch float64, limit int) error {
	if minMatch < 0 || minMatch > 1 {
		return fmt.Errorf("%w: minMatch must be in [0,1]", ErrInvalidInput)
	}
	if limit < 0 {
		return fmt.Errorf("%w: limit must be >= 0", ErrInvalidInput)
	}
	return nil
}
