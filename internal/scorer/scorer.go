package scorer

import (
	"github.com/ternarybob/vigil/internal/models"
)

// Score compares a query entity against a watchlist candidate under one
// configuration snapshot and returns the per-factor breakdown. Both
// entities must carry prepared fields; Score computes them lazily for the
// transient query side only. The candidate is never mutated.
func Score(query, candidate *models.Entity, cfg *Config, tracer *Tracer) Breakdown {
	query.EnsurePrepared()

	// Short-circuit: same stable ID on the same list is the same record.
	if query.SourceID != "" && query.SourceID == candidate.SourceID {
		breakdown := perfectBreakdown()
		tracer.Candidate(candidate.ID, candidate.SourceID, nil, breakdown)
		return breakdown
	}

	pieces := collectPieces(query, candidate, cfg)
	breakdown := aggregate(pieces, computeCoverage(pieces, candidate))
	tracer.Candidate(candidate.ID, candidate.SourceID, pieces, breakdown)
	return breakdown
}

// collectPieces runs every enabled factor comparator. Omitted pieces
// (FieldsCompared 0) are kept in the slice for the trace but carry no
// weight in aggregation.
func collectPieces(query, candidate *models.Entity, cfg *Config) []Piece {
	pieces := make([]Piece, 0, 8)

	if cfg.Enabled.Name {
		pieces = append(pieces, namePiece(query, candidate, cfg))
	}
	if cfg.Enabled.AltName {
		pieces = append(pieces, altNamePiece(query, candidate, cfg))
	}
	if cfg.Enabled.GovIDs {
		pieces = append(pieces, govIDPiece(query, candidate, cfg))
	}
	if cfg.Enabled.Crypto {
		pieces = append(pieces, cryptoPiece(query, candidate, cfg))
	}
	if cfg.Enabled.Contact {
		pieces = append(pieces, contactPiece(query, candidate, cfg))
	}
	if cfg.Enabled.Address {
		pieces = append(pieces, addressPiece(query, candidate, cfg))
	}
	if cfg.Enabled.Dates {
		pieces = append(pieces, datePiece(query, candidate, cfg))
	}
	if cfg.Enabled.SourceList {
		if p, ok := sourceListPiece(query, candidate, cfg); ok {
			pieces = append(pieces, p)
		}
	}

	return pieces
}

// computeCoverage derives the coverage ratios from the candidate's
// available evidence versus the pieces actually compared. "Available"
// means present on the candidate regardless of the query, distinguishing
// absent fields from present-but-empty ones.
func computeCoverage(pieces []Piece, candidate *models.Entity) coverage {
	available := 1 // the name is always available
	criticalAvailable := 0

	if len(candidate.Addresses) > 0 {
		available++
	}
	if candidate.HasGovernmentIDs() {
		available++
		criticalAvailable++
	}
	if len(candidate.CryptoAddresses) > 0 {
		available++
		criticalAvailable++
	}
	if candidate.HasContact() {
		available++
		criticalAvailable++
	}
	if candidateHasDates(candidate) {
		available++
	}

	compared := 0
	criticalCompared := 0
	requiredCompared := 0
	nameCompared := false

	for _, p := range pieces {
		if p.FieldsCompared == 0 {
			continue
		}
		switch p.Kind {
		case KindName, KindAltName:
			// The two name pieces cover one available field.
			if !nameCompared {
				compared++
				nameCompared = true
			}
		case KindSourceList:
			// Synthetic dilution piece, not evidence coverage.
		default:
			compared++
		}
		if p.Kind.critical() {
			criticalCompared++
		}
		if p.Required {
			requiredCompared++
		}
	}

	cov := coverage{
		ratio:            float64(compared) / float64(available),
		criticalRatio:    1,
		requiredCompared: requiredCompared,
	}
	if criticalAvailable > 0 {
		cov.criticalRatio = float64(criticalCompared) / float64(criticalAvailable)
	}
	return cov
}

func candidateHasDates(e *models.Entity) bool {
	switch e.Type {
	case models.EntityPerson:
		return e.Person != nil && (e.Person.BirthDate != nil || e.Person.DeathDate != nil)
	case models.EntityBusiness:
		return e.Business != nil && (e.Business.Created != nil || e.Business.Dissolved != nil)
	case models.EntityOrganization:
		return e.Organization != nil && (e.Organization.Created != nil || e.Organization.Dissolved != nil)
	case models.EntityVessel:
		return e.Vessel != nil && e.Vessel.Built != nil
	case models.EntityAircraft:
		return e.Aircraft != nil && e.Aircraft.Built != nil
	}
	return false
}
