package jobs

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"runtime/debug"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/ternarybob/vigil/internal/interfaces"
	"github.com/ternarybob/vigil/internal/models"
	"github.com/ternarybob/vigil/internal/services/search"
	"github.com/ternarybob/vigil/internal/storage/s3"
)

// maxLineBytes bounds one NDJSON line; anything longer counts as a parse
// error.
const maxLineBytes = 1 << 20

// itemSource yields the job's input records. Inline submissions already
// hold them; S3 submissions stream and parse NDJSON.
type itemSource interface {
	// Items returns all records. Malformed lines are reported through
	// onParseError and skipped; only unreadable input fails the source.
	Items(ctx context.Context, onParseError func()) ([]models.BulkItem, error)
}

type inlineSource struct {
	items []models.BulkItem
}

func (s *inlineSource) Items(ctx context.Context, onParseError func()) ([]models.BulkItem, error) {
	return s.items, nil
}

// streamSource reads NDJSON from the object store: one JSON object per
// line, blank lines skipped, malformed lines counted and skipped.
type streamSource struct {
	store  interfaces.ObjectStore
	bucket string
	key    string
}

func (s *streamSource) Items(ctx context.Context, onParseError func()) ([]models.BulkItem, error) {
	reader, err := s.store.Read(ctx, s.bucket, s.key)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}
	defer reader.Close()

	var items []models.BulkItem
	scanner := bufio.NewScanner(reader)
	scanner.Buffer(make([]byte, 64*1024), maxLineBytes)

	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 || isBlank(line) {
			continue
		}
		var item models.BulkItem
		if err := json.Unmarshal(line, &item); err != nil || item.Name == "" {
			onParseError()
			continue
		}
		items = append(items, item)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading %s/%s: %w", s.bucket, s.key, err)
	}
	return items, nil
}

func isBlank(line []byte) bool {
	for _, b := range line {
		if b != ' ' && b != '\t' && b != '\r' {
			return false
		}
	}
	return true
}

// runJob is the single-owner worker protocol: RUNNING transition, item
// collection, chunked screening, artifact writes, terminal transition.
// Any panic leaves the job FAILED rather than wedged.
func (m *Manager) runJob(job *models.BulkJob, source itemSource) {
	defer func() {
		if r := recover(); r != nil {
			m.logger.Error().
				Str("job_id", job.JobID).
				Str("panic", fmt.Sprintf("%v", r)).
				Str("stack", string(debug.Stack())).
				Msg("Bulk job worker panicked")
			job.Fail(fmt.Sprintf("worker panic: %v", r))
		}
	}()

	if !job.Start() {
		// Cancelled between submit and pickup.
		return
	}

	m.logger.Info().
		Str("job_id", job.JobID).
		Msg("Bulk job running")

	items, err := source.Items(m.ctx, job.RecordParseError)
	if err != nil {
		m.logger.Error().
			Err(err).
			Str("job_id", job.JobID).
			Msg("Bulk job input unavailable")
		job.Fail(err.Error())
		return
	}
	job.SetTotal(len(items))

	for chunkIdx, offset := 0, 0; offset < len(items); chunkIdx, offset = chunkIdx+1, offset+m.cfg.ChunkSize {
		if job.Snapshot(false).Status.Terminal() {
			// Cancelled mid-run; partial counters stay observable.
			m.logger.Warn().
				Str("job_id", job.JobID).
				Int("chunk", chunkIdx).
				Msg("Bulk job stopped before chunk")
			return
		}

		end := offset + m.cfg.ChunkSize
		if end > len(items) {
			end = len(items)
		}
		chunk := items[offset:end]

		matches, matched, err := m.screenChunk(chunk, job.MinMatch, job.Limit)
		if err != nil {
			job.Fail(err.Error())
			return
		}
		job.RecordChunk(len(chunk), matched, matches)
	}

	// Without an object store the job completes in memory only; matches
	// remain available through the status endpoint.
	resultPath := ""
	if m.store != nil {
		if err := m.writeArtifacts(job); err != nil {
			m.logger.Error().
				Err(err).
				Str("job_id", job.JobID).
				Msg("Bulk job artifact write failed")
			// The in-memory matches stay observable for post-mortem.
			job.Fail(err.Error())
			return
		}
		resultPath = s3.BuildPath(m.cfg.ResultsBucket, job.JobID)
	}
	job.Complete(resultPath)

	snap := job.Snapshot(false)
	m.logger.Info().
		Str("job_id", job.JobID).
		Int("total", snap.TotalItems).
		Int("matched", snap.MatchedItems).
		Str("result_path", resultPath).
		Msg("Bulk job completed")
}

// screenChunk screens one chunk with bounded parallelism, preserving the
// in-stream item order in the returned matches. The second return is the
// number of chunk items with at least one match. A record that fails to
// score is treated as zero matches; only context cancellation aborts the
// chunk.
func (m *Manager) screenChunk(chunk []models.BulkItem, minMatch float64, limit int) ([]models.BulkMatch, int, error) {
	perItem := make([][]models.BulkMatch, len(chunk))

	g, ctx := errgroup.WithContext(m.ctx)
	g.SetLimit(m.cfg.ChunkConcurrency)

	for i, item := range chunk {
		g.Go(func() error {
			result, err := m.search.Search(ctx, search.Query{
				Name:     item.Name,
				Source:   models.SourceList(item.Source),
				Type:     models.ParseEntityType(item.EntityType),
				Limit:    limit,
				MinMatch: minMatch,
			})
			if err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				// Scoring failure: zero matches, job continues.
				m.logger.Warn().
					Err(err).
					Str("request_id", item.RequestID).
					Msg("Screening failed for record")
				return nil
			}

			if len(result.Matches) == 0 {
				return nil
			}
			rows := make([]models.BulkMatch, 0, len(result.Matches))
			for _, match := range result.Matches {
				rows = append(rows, models.BulkMatch{
					CustomerID: item.RequestID,
					Name:       item.Name,
					EntityID:   match.Entity.ID,
					MatchScore: match.Score,
					Source:     string(match.Entity.Source),
				})
			}
			perItem[i] = rows
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, 0, err
	}

	var matches []models.BulkMatch
	matched := 0
	for _, rows := range perItem {
		if len(rows) > 0 {
			matched++
		}
		matches = append(matches, rows...)
	}
	return matches, matched, nil
}

// jobSummary is the summary.json artifact.
type jobSummary struct {
	JobID          string    `json:"jobId"`
	Status         string    `json:"status"`
	TotalItems     int       `json:"totalItems"`
	ProcessedItems int       `json:"processedItems"`
	MatchedItems   int       `json:"matchedItems"`
	ParseErrors    int       `json:"parseErrors,omitempty"`
	SubmittedAt    time.Time `json:"submittedAt"`
	CompletedAt    time.Time `json:"completedAt"`
	Duration       string    `json:"duration"`
	ResultPath     string    `json:"resultPath"`
}

// writeArtifacts publishes matches.json and summary.json under {jobId}/.
func (m *Manager) writeArtifacts(job *models.BulkJob) error {
	matches := job.Matches()
	if matches == nil {
		matches = []models.BulkMatch{}
	}
	matchesKey := job.JobID + "/matches.json"
	if err := m.store.WriteJSON(m.ctx, m.cfg.ResultsBucket, matchesKey, matches); err != nil {
		return fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}

	snap := job.Snapshot(false)
	completedAt := time.Now()
	summary := jobSummary{
		JobID:          job.JobID,
		Status:         string(models.JobCompleted),
		TotalItems:     snap.TotalItems,
		ProcessedItems: snap.ProcessedItems,
		MatchedItems:   snap.MatchedItems,
		ParseErrors:    snap.ParseErrors,
		SubmittedAt:    snap.SubmittedAt,
		CompletedAt:    completedAt,
		Duration:       completedAt.Sub(snap.SubmittedAt).Round(time.Millisecond).String(),
		ResultPath:     s3.BuildPath(m.cfg.ResultsBucket, job.JobID),
	}
	summaryKey := job.JobID + "/summary.json"
	if err := m.store.WriteJSON(m.ctx, m.cfg.ResultsBucket, summaryKey, summary); err != nil {
		return fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}
	return nil
}
