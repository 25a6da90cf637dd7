package scorer

import (
	"time"

	"github.com/ternarybob/vigil/internal/models"
)

// Date component weights. Year dominates because list data frequently
// carries transcribed or approximate month/day values.
const (
	dateYearWeight  = 0.40
	dateMonthWeight = 0.30
	dateDayWeight   = 0.30
)

// yearToleranceYears is the window over which year similarity decays to 0.
const yearToleranceYears = 5

// datePiece dispatches on entity type: persons compare birth and death
// dates, businesses and organizations compare created and dissolved,
// vessels and aircraft compare built only. Omitted when the type carries
// no comparable date on both sides.
func datePiece(query, candidate *models.Entity, cfg *Config) Piece {
	type datePair struct {
		q, c *time.Time
	}
	var pairs []datePair

	switch candidate.Type {
	case models.EntityPerson:
		if query.Person != nil && candidate.Person != nil {
			pairs = append(pairs,
				datePair{query.Person.BirthDate, candidate.Person.BirthDate},
				datePair{query.Person.DeathDate, candidate.Person.DeathDate})
		}
	case models.EntityBusiness:
		if query.Business != nil && candidate.Business != nil {
			pairs = append(pairs,
				datePair{query.Business.Created, candidate.Business.Created},
				datePair{query.Business.Dissolved, candidate.Business.Dissolved})
		}
	case models.EntityOrganization:
		if query.Organization != nil && candidate.Organization != nil {
			pairs = append(pairs,
				datePair{query.Organization.Created, candidate.Organization.Created},
				datePair{query.Organization.Dissolved, candidate.Organization.Dissolved})
		}
	case models.EntityVessel:
		if query.Vessel != nil && candidate.Vessel != nil {
			pairs = append(pairs, datePair{query.Vessel.Built, candidate.Vessel.Built})
		}
	case models.EntityAircraft:
		if query.Aircraft != nil && candidate.Aircraft != nil {
			pairs = append(pairs, datePair{query.Aircraft.Built, candidate.Aircraft.Built})
		}
	}

	compared := 0
	sum := 0.0
	for _, p := range pairs {
		if p.q == nil || p.c == nil {
			continue
		}
		compared++
		sum += compareDates(*p.q, *p.c)
	}

	if compared == 0 {
		return Piece{Kind: KindDate, Weight: cfg.Weights.SupportingInfoWeight}
	}

	score := sum / float64(compared)

	// Lifespan sanity for persons: when both records carry birth and death
	// dates, the spans must agree within 20% and birth must precede death.
	if candidate.Type == models.EntityPerson && !lifespanConsistent(query.Person, candidate.Person) {
		score *= 0.5
	}

	return Piece{
		Kind:           KindDate,
		Score:          score,
		Weight:         cfg.Weights.SupportingInfoWeight,
		FieldsCompared: compared,
		Matched:        score >= 0.5,
		Exact:          score >= cfg.Weights.ExactMatchThreshold,
	}
}

// compareDates scores two dates over weighted year, month, and day
// components, each tolerant of the transcription errors seen in list data.
func compareDates(a, b time.Time) float64 {
	return dateYearWeight*yearScore(a.Year(), b.Year()) +
		dateMonthWeight*monthScore(int(a.Month()), int(b.Month())) +
		dateDayWeight*dayScore(a.Day(), b.Day())
}

func yearScore(a, b int) float64 {
	diff := a - b
	if diff < 0 {
		diff = -diff
	}
	s := 1 - float64(diff)/yearToleranceYears
	if s < 0 {
		return 0
	}
	return s
}

func monthScore(a, b int) float64 {
	diff := a - b
	if diff < 0 {
		diff = -diff
	}
	switch {
	case diff == 0:
		return 1.0
	case diff == 1:
		return 0.9
	case monthTypo(a, b):
		return 0.7
	default:
		s := 1 - float64(diff)/11
		if s < 0 {
			return 0
		}
		return s
	}
}

// monthTypo recognizes the 1<->10, 1<->11, 1<->12 keying slips where a
// digit was dropped or doubled.
func monthTypo(a, b int) bool {
	if a > b {
		a, b = b, a
	}
	return a == 1 && b >= 10 && b <= 12
}

func dayScore(a, b int) float64 {
	diff := a - b
	if diff < 0 {
		diff = -diff
	}
	switch {
	case diff == 0:
		return 1.0
	case diff <= 3:
		return 0.9
	case similarDays(a, b):
		return 0.7
	default:
		s := 1 - float64(diff)/30
		if s < 0 {
			return 0
		}
		return s
	}
}

// similarDays recognizes repeated-digit slips (1 vs 11, 2 vs 22) and
// digit swaps (12 vs 21, 13 vs 31).
func similarDays(a, b int) bool {
	// Repeated digit: d vs dd.
	if a >= 1 && a <= 9 && b == a*11 {
		return true
	}
	if b >= 1 && b <= 9 && a == b*11 {
		return true
	}
	// Digit swap on two-digit days.
	if a >= 10 && b >= 10 {
		swapped := (a%10)*10 + a/10
		return swapped == b
	}
	return false
}

// lifespanConsistent reports whether two person records with full
// birth/death information could describe the same life.
func lifespanConsistent(q, c *models.PersonDetail) bool {
	if q == nil || c == nil {
		return true
	}
	if q.BirthDate == nil || q.DeathDate == nil || c.BirthDate == nil || c.DeathDate == nil {
		return true
	}
	if q.DeathDate.Before(*q.BirthDate) || c.DeathDate.Before(*c.BirthDate) {
		return false
	}

	qSpan := q.DeathDate.Sub(*q.BirthDate)
	cSpan := c.DeathDate.Sub(*c.BirthDate)
	if qSpan == 0 || cSpan == 0 {
		return qSpan == cSpan
	}
	longer, shorter := qSpan, cSpan
	if shorter > longer {
		longer, shorter = shorter, longer
	}
	return float64(shorter) >= 0.8*float64(longer)
}
