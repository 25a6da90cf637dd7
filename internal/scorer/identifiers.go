package scorer

import (
	"strings"

	"github.com/ternarybob/vigil/internal/models"
)

// govIDPiece checks each query government ID for an exactly equal candidate
// ID under normalization. Score is the fraction of query IDs matched. The
// piece is omitted (FieldsCompared 0) when either side carries no IDs.
func govIDPiece(query, candidate *models.Entity, cfg *Config) Piece {
	if !query.HasGovernmentIDs() || !candidate.HasGovernmentIDs() {
		return Piece{Kind: KindGovIDs, Weight: cfg.Weights.CriticalIDWeight}
	}

	total := 0
	matched := 0
	for _, qid := range query.GovernmentIDs {
		if qid.NormalizedIdentifier() == "" {
			continue
		}
		total++
		for _, cid := range candidate.GovernmentIDs {
			if qid.Equal(cid) {
				matched++
				break
			}
		}
	}
	if total == 0 {
		return Piece{Kind: KindGovIDs, Weight: cfg.Weights.CriticalIDWeight}
	}

	score := float64(matched) / float64(total)
	return Piece{
		Kind:           KindGovIDs,
		Score:          score,
		Weight:         cfg.Weights.CriticalIDWeight,
		FieldsCompared: total,
		Matched:        matched > 0,
		Exact:          score >= cfg.Weights.ExactMatchThreshold,
	}
}

// cryptoPiece intersects crypto addresses case-sensitively on
// (currency, address).
func cryptoPiece(query, candidate *models.Entity, cfg *Config) Piece {
	if len(query.CryptoAddresses) == 0 || len(candidate.CryptoAddresses) == 0 {
		return Piece{Kind: KindCrypto, Weight: cfg.Weights.CriticalIDWeight}
	}

	candidateSet := make(map[models.CryptoAddress]struct{}, len(candidate.CryptoAddresses))
	for _, c := range candidate.CryptoAddresses {
		candidateSet[c] = struct{}{}
	}

	matched := 0
	for _, q := range query.CryptoAddresses {
		if _, ok := candidateSet[q]; ok {
			matched++
		}
	}

	score := float64(matched) / float64(len(query.CryptoAddresses))
	return Piece{
		Kind:           KindCrypto,
		Score:          score,
		Weight:         cfg.Weights.CriticalIDWeight,
		FieldsCompared: len(query.CryptoAddresses),
		Matched:        matched > 0,
		Exact:          score >= cfg.Weights.ExactMatchThreshold,
	}
}

// contactPiece compares email, phone and fax independently and averages
// over the sub-fields present on both sides. Phones and faxes are reduced
// to digits before comparison, emails compared case-insensitively.
func contactPiece(query, candidate *models.Entity, cfg *Config) Piece {
	if !query.HasContact() || !candidate.HasContact() {
		return Piece{Kind: KindContact, Weight: cfg.Weights.CriticalIDWeight}
	}

	qc, cc := query.Contact, candidate.Contact
	compared := 0
	sum := 0.0

	if qc.Email != "" && cc.Email != "" {
		compared++
		if strings.EqualFold(strings.TrimSpace(qc.Email), strings.TrimSpace(cc.Email)) {
			sum++
		}
	}
	if qc.Phone != "" && cc.Phone != "" {
		compared++
		if digitsOf(qc.Phone) == digitsOf(cc.Phone) && digitsOf(qc.Phone) != "" {
			sum++
		}
	}
	if qc.Fax != "" && cc.Fax != "" {
		compared++
		if digitsOf(qc.Fax) == digitsOf(cc.Fax) && digitsOf(qc.Fax) != "" {
			sum++
		}
	}

	if compared == 0 {
		return Piece{Kind: KindContact, Weight: cfg.Weights.CriticalIDWeight}
	}

	score := sum / float64(compared)
	return Piece{
		Kind:           KindContact,
		Score:          score,
		Weight:         cfg.Weights.CriticalIDWeight,
		FieldsCompared: compared,
		Matched:        sum > 0,
		Exact:          score >= cfg.Weights.ExactMatchThreshold,
	}
}

// sourceListPiece injects a zero-score piece at critical weight when the
// query and candidate belong to different lists but both carry source IDs.
// It keeps a strong ID match on one list from pulling up an unrelated
// entity on another.
func sourceListPiece(query, candidate *models.Entity, cfg *Config) (Piece, bool) {
	if query.Source == "" || candidate.Source == "" || query.Source == candidate.Source {
		return Piece{}, false
	}
	if query.SourceID == "" || candidate.SourceID == "" || query.SourceID == candidate.SourceID {
		return Piece{}, false
	}
	return Piece{
		Kind:           KindSourceList,
		Score:          0,
		Weight:         cfg.Weights.CriticalIDWeight,
		FieldsCompared: 1,
	}, true
}

func digitsOf(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
