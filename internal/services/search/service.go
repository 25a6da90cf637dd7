// Package search orchestrates the screening pipeline for one query:
// candidate selection, phonetic pre-filter, scoring, threshold filter, and
// top-N ranking.
package search

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/vigil/internal/index"
	"github.com/ternarybob/vigil/internal/models"
	"github.com/ternarybob/vigil/internal/normalize"
	"github.com/ternarybob/vigil/internal/scorer"
)

// Query is one screening request.
type Query struct {
	// Name is the raw name to screen. An empty name yields no results.
	Name string

	// Entity optionally carries the full query record (IDs, addresses,
	// dates, ...). When nil a name-only entity is built from Name.
	Entity *models.Entity

	// Source and Type filter the candidate pool; empty means all.
	Source models.SourceList
	Type   models.EntityType

	// Limit caps the result count; negative means unlimited. MinMatch
	// filters by final score; a negative MinMatch means "use the
	// configured default".
	Limit    int
	MinMatch float64

	// Trace enables scoring trace collection for this query.
	Trace bool
}

// Match is one ranked candidate.
type Match struct {
	Entity    *models.Entity
	Score     float64
	Breakdown scorer.Breakdown
}

// Result is the outcome of one screening request.
type Result struct {
	Matches []Match
	Scored  int
	Skipped int
	Tracer  *scorer.Tracer
}

// Service runs screening queries against the shared index under the
// current scoring configuration snapshot.
type Service struct {
	index  *index.Index
	config *scorer.Holder
	logger arbor.ILogger
}

// NewService creates a search service.
func NewService(idx *index.Index, config *scorer.Holder, logger arbor.ILogger) *Service {
	return &Service{
		index:  idx,
		config: config,
		logger: logger,
	}
}

// Search screens the query against the index snapshot and returns matches
// ordered by descending score, ties broken by ascending sourceId. The
// configuration snapshot is read once, so concurrent admin edits cannot
// produce mixed-weight scores within one call.
func (s *Service) Search(ctx context.Context, q Query) (*Result, error) {
	cfg := s.config.Get()

	var tracer *scorer.Tracer
	if q.Trace {
		tracer = scorer.NewTracer()
		tracer.Meta("query", q.Name)
	}

	result := &Result{Tracer: tracer}

	query := q.Entity
	if query == nil {
		query = &models.Entity{Name: q.Name, Type: q.Type}
	}
	if query.Name == "" {
		return result, nil
	}

	prepStart := time.Now()
	query.EnsurePrepared()
	queryLead := leadToken(query)
	tracer.Phase("prepare", prepStart)

	minMatch := q.MinMatch
	if minMatch < 0 {
		minMatch = cfg.Weights.MinMatch
	}

	selectStart := time.Now()
	candidates := s.index.Candidates(q.Source, q.Type)
	tracer.Phase("select", selectStart)

	scoreStart := time.Now()
	matches := make([]Match, 0, 16)
	phoneticFilter := !cfg.Similarity.PhoneticFilteringDisabled && queryLead != ""

	for _, candidate := range candidates {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		if phoneticFilter && !phoneticallyReachable(queryLead, candidate) {
			result.Skipped++
			tracer.SkippedCandidate(candidate.ID, candidate.SourceID, "phonetic filter")
			continue
		}

		breakdown := scorer.Score(query, candidate, cfg, tracer)
		result.Scored++
		if breakdown.TotalWeightedScore >= minMatch {
			matches = append(matches, Match{
				Entity:    candidate,
				Score:     breakdown.TotalWeightedScore,
				Breakdown: breakdown,
			})
		}
	}
	tracer.Phase("score", scoreStart)

	rankStart := time.Now()
	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].Score != matches[j].Score {
			return matches[i].Score > matches[j].Score
		}
		return matches[i].Entity.SourceID < matches[j].Entity.SourceID
	})
	if q.Limit >= 0 && len(matches) > q.Limit {
		matches = matches[:q.Limit]
	}
	result.Matches = matches
	tracer.Phase("rank", rankStart)

	if s.logger != nil {
		s.logger.Debug().
			Str("name", q.Name).
			Int("scored", result.Scored).
			Int("skipped", result.Skipped).
			Int("matches", len(result.Matches)).
			Msg("Search completed")
	}

	return result, nil
}

// leadToken is the first folded token of the query's primary name.
func leadToken(query *models.Entity) string {
	if query.Prepared == nil || len(query.Prepared.NormalizedNames) == 0 {
		return ""
	}
	fields := strings.Fields(query.Prepared.NormalizedNames[0])
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}

// phoneticallyReachable reports whether any of the candidate's names
// (primary or alt) could phonetically begin like the query. Alt names must
// be consulted: "El Chapo" has to reach a record whose primary name starts
// with a J.
func phoneticallyReachable(queryLead string, candidate *models.Entity) bool {
	if candidate.Prepared == nil {
		return true
	}
	for _, name := range candidate.Prepared.NormalizedNames {
		fields := strings.Fields(name)
		if len(fields) > 0 && normalize.PhoneticallyCompatible(queryLead, fields[0]) {
			return true
		}
	}
	return false
}
