package scorer

import (
	"strings"

	"github.com/ternarybob/vigil/internal/models"
	"github.com/ternarybob/vigil/internal/similarity"
)

// nameMatchedThreshold is the score at which a name factor counts as
// matched for coverage purposes.
const nameMatchedThreshold = 0.5

// namePiece scores the query's primary name against every prepared variant
// of the candidate's primary name, taking the best.
func namePiece(query, candidate *models.Entity, cfg *Config) Piece {
	score := bestNameScore(queryNameTokens(query, cfg), candidate.Prepared.NameVariants(), cfg)
	return Piece{
		Kind:           KindName,
		Score:          score,
		Weight:         cfg.Weights.NameWeight,
		FieldsCompared: 1,
		Required:       true,
		Matched:        score >= nameMatchedThreshold,
		Exact:          score >= cfg.Weights.ExactMatchThreshold,
	}
}

// altNamePiece takes the max over all candidate alt-name variants. The
// aggregator treats it as competing with the primary name piece, never
// additive.
func altNamePiece(query, candidate *models.Entity, cfg *Config) Piece {
	prepared := candidate.Prepared
	qTokens := queryNameTokens(query, cfg)

	best := 0.0
	for i := 0; i < prepared.AltNameCount(); i++ {
		if s := bestNameScore(qTokens, prepared.AltNameVariants(i), cfg); s > best {
			best = s
		}
	}

	return Piece{
		Kind:           KindAltName,
		Score:          best,
		Weight:         cfg.Weights.NameWeight,
		FieldsCompared: prepared.AltNameCount(),
		Matched:        best >= nameMatchedThreshold,
		Exact:          best >= cfg.Weights.ExactMatchThreshold,
	}
}

// bestNameScore runs the token-set comparison against each candidate
// variant and keeps the maximum.
func bestNameScore(qTokens []string, variants []string, cfg *Config) float64 {
	if len(qTokens) == 0 {
		return 0
	}
	opts := cfg.tokenSetOptions()

	best := 0.0
	for _, variant := range variants {
		s := similarity.TokenSetScore(qTokens, strings.Fields(variant), opts)
		if s > best {
			best = s
		}
		if best >= 1 {
			break
		}
	}
	return best
}

// queryNameTokens returns the folded primary-name tokens of the query,
// stopword-stripped unless the config keeps them.
func queryNameTokens(query *models.Entity, cfg *Config) []string {
	prepared := query.Prepared
	if prepared == nil || len(prepared.NormalizedNames) == 0 {
		return nil
	}
	if !cfg.Similarity.KeepStopwords && len(prepared.NormalizedNamesNoStopwords) > 0 {
		return strings.Fields(prepared.NormalizedNamesNoStopwords[0])
	}
	return strings.Fields(prepared.NormalizedNames[0])
}
