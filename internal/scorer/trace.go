package scorer

import "time"

// Tracer collects per-candidate score pieces and per-phase timings for a
// single search. A nil *Tracer is the disabled mode: every method is
// nil-safe and compiles down to a pointer check, so the hot path pays
// nothing when tracing is off.
type Tracer struct {
	Candidates []CandidateTrace `json:"candidates"`
	Phases     []PhaseTiming    `json:"phases,omitempty"`
	Metadata   map[string]any   `json:"metadata,omitempty"`
}

// CandidateTrace is the full scoring record for one candidate.
type CandidateTrace struct {
	EntityID string    `json:"entityId"`
	SourceID string    `json:"sourceId"`
	Pieces   []Piece   `json:"pieces"`
	Final    Breakdown `json:"breakdown"`
	Skipped  string    `json:"skipped,omitempty"`
}

// PhaseTiming records one pipeline phase's wall time.
type PhaseTiming struct {
	Phase    string        `json:"phase"`
	Duration time.Duration `json:"durationNs"`
}

// NewTracer returns an enabled tracer.
func NewTracer() *Tracer {
	return &Tracer{Metadata: map[string]any{}}
}

// Enabled reports whether trace collection is on.
func (t *Tracer) Enabled() bool {
	return t != nil
}

// Candidate records the scored pieces and final breakdown for one
// candidate entity.
func (t *Tracer) Candidate(entityID, sourceID string, pieces []Piece, final Breakdown) {
	if t == nil {
		return
	}
	copied := make([]Piece, len(pieces))
	copy(copied, pieces)
	t.Candidates = append(t.Candidates, CandidateTrace{
		EntityID: entityID,
		SourceID: sourceID,
		Pieces:   copied,
		Final:    final,
	})
}

// SkippedCandidate records a candidate culled before scoring.
func (t *Tracer) SkippedCandidate(entityID, sourceID, reason string) {
	if t == nil {
		return
	}
	t.Candidates = append(t.Candidates, CandidateTrace{
		EntityID: entityID,
		SourceID: sourceID,
		Skipped:  reason,
	})
}

// Phase records one phase duration.
func (t *Tracer) Phase(name string, start time.Time) {
	if t == nil {
		return
	}
	t.Phases = append(t.Phases, PhaseTiming{Phase: name, Duration: time.Since(start)})
}

// Meta attaches a metadata key to the trace.
func (t *Tracer) Meta(key string, value any) {
	if t == nil {
		return
	}
	t.Metadata[key] = value
}
