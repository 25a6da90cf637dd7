package scorer

// Coverage thresholds and multipliers. All multiplicative, applied in a
// fixed order, result clamped to [0, 1].
const (
	coverageRatioFloor      = 0.35
	coverageRatioPenalty    = 0.95
	criticalRatioFloor      = 0.70
	criticalRatioPenalty    = 0.90
	requiredComparedFloor   = 2
	requiredComparedPenalty = 0.90
	nameOnlyPenalty         = 0.95
	highConfidenceBonus     = 1.15
	bonusBaseFloor          = 0.85
	bonusCoverageFloor      = 0.70
)

// exactIDFloor and exactIDNameShare define the exact-critical-identifier
// short-circuit: score = exactIDFloor + exactIDNameShare * bestName.
const (
	exactIDFloor     = 0.70
	exactIDNameShare = 0.30
)

// coverage summarizes how much of the candidate's available evidence the
// comparison actually exercised.
type coverage struct {
	ratio            float64
	criticalRatio    float64
	requiredCompared int
}

// aggregate combines score pieces into the final breakdown. The sourceId
// identity short-circuit lives in Score; this function applies the
// exact-identifier short-circuit, the weighted mean, and the coverage
// adjustments.
func aggregate(pieces []Piece, cov coverage) Breakdown {
	var breakdown Breakdown
	for _, p := range pieces {
		breakdown.apply(p)
	}

	effectiveName := breakdown.NameScore
	if breakdown.AltNamesScore > effectiveName {
		effectiveName = breakdown.AltNamesScore
	}

	// Short-circuit: an exact critical identifier guarantees a floor of
	// exactIDFloor regardless of name noise.
	for _, p := range pieces {
		if p.Kind.critical() && p.Exact && p.FieldsCompared > 0 {
			total := exactIDFloor + exactIDNameShare*effectiveName
			if total > 1 {
				total = 1
			}
			breakdown.TotalWeightedScore = total
			return breakdown
		}
	}

	// Weighted mean with max(name, altName) as the single effective name
	// contribution.
	weightedSum := 0.0
	totalWeight := 0.0
	nameCounted := false
	nameWeight := 0.0

	for _, p := range pieces {
		if p.Weight <= 0 || p.FieldsCompared == 0 {
			continue
		}
		switch p.Kind {
		case KindName, KindAltName:
			if p.Weight > nameWeight {
				nameWeight = p.Weight
			}
			nameCounted = true
		default:
			weightedSum += p.Score * p.Weight
			totalWeight += p.Weight
		}
	}
	if nameCounted {
		weightedSum += effectiveName * nameWeight
		totalWeight += nameWeight
	}

	base := 0.0
	if totalWeight > 0 {
		base = weightedSum / totalWeight
	}

	// Exact-name short-circuit: an exact primary or alt-name match is
	// definitive evidence, so the sparse-coverage dampeners do not apply.
	// An identical name against a name-only record must score 1.0.
	if exactName(pieces) {
		breakdown.TotalWeightedScore = clamp01(base)
		return breakdown
	}

	final := base
	if cov.ratio < coverageRatioFloor {
		final *= coverageRatioPenalty
	}
	if cov.criticalRatio < criticalRatioFloor {
		final *= criticalRatioPenalty
	}
	if cov.requiredCompared < requiredComparedFloor {
		final *= requiredComparedPenalty
	}
	if nameOnly(pieces) {
		final *= nameOnlyPenalty
	}
	if qualifiesForBonus(base, pieces, cov) {
		final *= highConfidenceBonus
	}

	breakdown.TotalWeightedScore = clamp01(final)
	return breakdown
}

// exactName reports whether the primary or an alt name matched exactly.
func exactName(pieces []Piece) bool {
	for _, p := range pieces {
		if (p.Kind == KindName || p.Kind == KindAltName) && p.Exact && p.FieldsCompared > 0 {
			return true
		}
	}
	return false
}

// nameOnly reports whether the match rests on the name alone: no
// identifier matched and no address matched.
func nameOnly(pieces []Piece) bool {
	for _, p := range pieces {
		switch p.Kind {
		case KindGovIDs, KindCrypto, KindContact, KindAddress:
			if p.Matched {
				return false
			}
		}
	}
	return true
}

// qualifiesForBonus checks the high-confidence bonus gate: strong base,
// matched name, matched identifier, a critical factor compared, and broad
// coverage.
func qualifiesForBonus(base float64, pieces []Piece, cov coverage) bool {
	if base < bonusBaseFloor || cov.ratio < bonusCoverageFloor {
		return false
	}
	hasName := false
	hasID := false
	hasCritical := false
	for _, p := range pieces {
		switch p.Kind {
		case KindName, KindAltName:
			hasName = hasName || p.Matched
		case KindGovIDs, KindCrypto:
			hasID = hasID || p.Matched
		}
		if p.Kind.critical() && p.FieldsCompared > 0 {
			hasCritical = true
		}
	}
	return hasName && hasID && hasCritical
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
