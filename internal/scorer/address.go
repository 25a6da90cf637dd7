package scorer

import (
	"github.com/ternarybob/vigil/internal/models"
	"github.com/ternarybob/vigil/internal/similarity"
)

// Address matched/exact thresholds. The matched threshold doubles as the
// normalized-address acceptance bar.
const (
	addressMatchedThreshold = 0.5
	addressExactThreshold   = 0.99
)

// addressPrefixSize is the Winkler boost length for address comparison,
// independent of the tunable name prefix size.
const addressPrefixSize = 4

// addressPiece compares every query address against every candidate
// address as folded formatted strings with Jaro-Winkler, keeping the best
// pair. Omitted when either side has no comparable address.
func addressPiece(query, candidate *models.Entity, cfg *Config) Piece {
	qAddrs := normalizedAddresses(query)
	cAddrs := normalizedAddresses(candidate)
	if len(qAddrs) == 0 || len(cAddrs) == 0 {
		return Piece{Kind: KindAddress, Weight: cfg.Weights.AddressWeight}
	}

	best := 0.0
	for _, qa := range qAddrs {
		for _, ca := range cAddrs {
			if s := similarity.JaroWinkler(qa, ca, addressPrefixSize); s > best {
				best = s
			}
		}
		if best >= 1 {
			break
		}
	}

	return Piece{
		Kind:           KindAddress,
		Score:          best,
		Weight:         cfg.Weights.AddressWeight,
		FieldsCompared: len(qAddrs),
		Matched:        best > addressMatchedThreshold,
		Exact:          best > addressExactThreshold,
	}
}

func normalizedAddresses(e *models.Entity) []string {
	if e.Prepared != nil && len(e.Prepared.NormalizedAddresses) > 0 {
		return e.Prepared.NormalizedAddresses
	}
	if len(e.Addresses) == 0 {
		return nil
	}
	out := make([]string, 0, len(e.Addresses))
	for _, a := range e.Addresses {
		if n := a.Normalized(); n != "" {
			out = append(out, n)
		}
	}
	return out
}
