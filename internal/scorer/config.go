// Package scorer implements the multi-factor weighted comparison of a
// query entity against a watchlist candidate: per-factor score pieces, the
// aggregator with its short-circuits and coverage penalties, and the
// opt-in scoring trace.
package scorer

import (
	"fmt"
	"sync/atomic"

	"github.com/go-playground/validator/v10"

	"github.com/ternarybob/vigil/internal/similarity"
)

// Weights are the factor weights and result thresholds. All tunable at
// runtime through the admin config endpoints.
type Weights struct {
	NameWeight           float64 `json:"nameWeight" toml:"name_weight" validate:"gte=0"`
	AddressWeight        float64 `json:"addressWeight" toml:"address_weight" validate:"gte=0"`
	CriticalIDWeight     float64 `json:"criticalIdWeight" toml:"critical_id_weight" validate:"gte=0"`
	SupportingInfoWeight float64 `json:"supportingInfoWeight" toml:"supporting_info_weight" validate:"gte=0"`
	MinMatch             float64 `json:"minMatch" toml:"min_match" validate:"gte=0,lte=1"`
	ExactMatchThreshold  float64 `json:"exactMatchThreshold" toml:"exact_match_threshold" validate:"gte=0,lte=1"`
}

// Similarity tunes the name-comparison kernels.
type Similarity struct {
	JaroWinklerPrefixSize         int     `json:"jaroWinklerPrefixSize" toml:"jaro_winkler_prefix_size" validate:"gte=1,lte=10"`
	LengthDifferencePenaltyWeight float64 `json:"lengthDifferencePenaltyWeight" toml:"length_difference_penalty_weight" validate:"gte=0,lte=1"`
	LengthDifferenceCutoffFactor  float64 `json:"lengthDifferenceCutoffFactor" toml:"length_difference_cutoff_factor" validate:"gte=0,lte=1"`
	UnmatchedIndexTokenWeight     float64 `json:"unmatchedIndexTokenWeight" toml:"unmatched_index_token_weight" validate:"gte=0,lte=1"`
	PhoneticFilteringDisabled     bool    `json:"phoneticFilteringDisabled" toml:"phonetic_filtering_disabled"`
	KeepStopwords                 bool    `json:"keepStopwords" toml:"keep_stopwords"`
}

// PieceToggles enables or disables individual factors.
type PieceToggles struct {
	Name       bool `json:"name" toml:"name"`
	AltName    bool `json:"altName" toml:"alt_name"`
	Address    bool `json:"address" toml:"address"`
	GovIDs     bool `json:"govIds" toml:"gov_ids"`
	Crypto     bool `json:"crypto" toml:"crypto"`
	Contact    bool `json:"contact" toml:"contact"`
	Dates      bool `json:"dates" toml:"dates"`
	SourceList bool `json:"sourceList" toml:"source_list"`
}

// Config is one immutable snapshot of the scoring configuration. Scoring
// reads a snapshot once per call, so concurrent admin edits never produce
// a half-old half-new comparison.
type Config struct {
	Weights    Weights      `json:"weights" toml:"weights"`
	Similarity Similarity   `json:"similarity" toml:"similarity"`
	Enabled    PieceToggles `json:"enabled" toml:"enabled"`
}

// DefaultConfig returns the compile-time defaults.
func DefaultConfig() Config {
	return Config{
		Weights: Weights{
			NameWeight:           35,
			AddressWeight:        25,
			CriticalIDWeight:     50,
			SupportingInfoWeight: 15,
			MinMatch:             0.88,
			ExactMatchThreshold:  0.99,
		},
		Similarity: Similarity{
			JaroWinklerPrefixSize:         4,
			LengthDifferencePenaltyWeight: 0.3,
			LengthDifferenceCutoffFactor:  0.9,
			UnmatchedIndexTokenWeight:     0.15,
		},
		Enabled: PieceToggles{
			Name:       true,
			AltName:    true,
			Address:    true,
			GovIDs:     true,
			Crypto:     true,
			Contact:    true,
			Dates:      true,
			SourceList: true,
		},
	}
}

// tokenSetOptions converts the snapshot into similarity options.
func (c *Config) tokenSetOptions() similarity.Options {
	return similarity.Options{
		PhoneticFilter:       !c.Similarity.PhoneticFilteringDisabled,
		PrefixSize:           c.Similarity.JaroWinklerPrefixSize,
		LengthPenaltyWeight:  c.Similarity.LengthDifferencePenaltyWeight,
		LengthCutoffFactor:   c.Similarity.LengthDifferenceCutoffFactor,
		UnmatchedTokenWeight: c.Similarity.UnmatchedIndexTokenWeight,
	}
}

var validate = validator.New()

// Validate checks the configuration ranges.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// Holder is the process-wide atomically swappable configuration snapshot.
type Holder struct {
	current atomic.Pointer[Config]
}

// NewHolder returns a holder initialized with cfg.
func NewHolder(cfg Config) *Holder {
	h := &Holder{}
	h.current.Store(&cfg)
	return h
}

// Get returns the current snapshot. Callers must read it once and use that
// pointer for the whole operation.
func (h *Holder) Get() *Config {
	return h.current.Load()
}

// SetWeights validates and applies new weights atomically.
func (h *Holder) SetWeights(w Weights) error {
	next := *h.current.Load()
	next.Weights = w
	if err := next.Validate(); err != nil {
		return err
	}
	h.current.Store(&next)
	return nil
}

// SetSimilarity validates and applies new similarity settings atomically.
func (h *Holder) SetSimilarity(s Similarity) error {
	next := *h.current.Load()
	next.Similarity = s
	if err := next.Validate(); err != nil {
		return err
	}
	h.current.Store(&next)
	return nil
}

// Reset restores the compile-time defaults.
func (h *Holder) Reset() {
	cfg := DefaultConfig()
	h.current.Store(&cfg)
}
