package models

import (
	"strings"

	"github.com/ternarybob/vigil/internal/normalize"
)

// PreparedFields caches the normalized derivations of an entity's
// name-related fields. The struct is either nil or fully consistent with
// the entity's current Name and AltNames; Normalize replaces it atomically.
type PreparedFields struct {
	// NormalizedNames is the primary name followed by alt names, folded.
	NormalizedNames []string

	// NormalizedNamesNoStopwords strips language stopwords per name.
	NormalizedNamesNoStopwords []string

	// NormalizedNamesNoCompanyTitles strips legal suffixes; only populated
	// for business-like entity types.
	NormalizedNamesNoCompanyTitles []string

	// WordCombinations holds short-particle merge variants per name, in the
	// same order as NormalizedNames. Each inner slice starts with the
	// unmerged form.
	WordCombinations [][]string

	// NormalizedAddresses are the folded formatted address strings.
	NormalizedAddresses []string

	// DetectedLanguage is a two-letter code, or "" when undecided.
	DetectedLanguage string
}

// Normalize computes PreparedFields from the entity's current names and
// addresses, collapsing case-insensitive duplicate alt names along the
// way. It is idempotent and must run before the entity is indexed or
// scored; Score falls back to a lazy call for transient query entities.
func (e *Entity) Normalize() {
	e.AltNames = dedupeNamesFold(e.Name, e.AltNames)

	names := make([]string, 0, 1+len(e.AltNames))
	if folded := normalize.Fold(e.Name); folded != "" {
		names = append(names, folded)
	}
	for _, alt := range e.AltNames {
		if folded := normalize.Fold(alt); folded != "" {
			names = append(names, folded)
		}
	}

	prepared := &PreparedFields{
		NormalizedNames: names,
	}

	allTokens := make([]string, 0, 8)
	for _, n := range names {
		allTokens = append(allTokens, strings.Fields(n)...)
	}
	prepared.DetectedLanguage = normalize.DetectLanguage(allTokens)

	prepared.NormalizedNamesNoStopwords = make([]string, len(names))
	for i, n := range names {
		tokens := strings.Fields(n)
		prepared.NormalizedNamesNoStopwords[i] = strings.Join(
			normalize.StripStopwords(tokens, prepared.DetectedLanguage), " ")
	}

	if e.IsBusinessLike() {
		prepared.NormalizedNamesNoCompanyTitles = make([]string, len(names))
		for i, n := range names {
			tokens := strings.Fields(n)
			prepared.NormalizedNamesNoCompanyTitles[i] = strings.Join(
				normalize.StripCompanySuffixes(tokens), " ")
		}
	}

	prepared.WordCombinations = make([][]string, len(names))
	for i, n := range names {
		prepared.WordCombinations[i] = normalize.Combinations(strings.Fields(n))
	}

	if len(e.Addresses) > 0 {
		prepared.NormalizedAddresses = make([]string, 0, len(e.Addresses))
		for _, addr := range e.Addresses {
			if n := addr.Normalized(); n != "" {
				prepared.NormalizedAddresses = append(prepared.NormalizedAddresses, n)
			}
		}
	}

	e.Prepared = prepared
}

// EnsurePrepared normalizes the entity if no prepared fields are attached
// yet. Used for transient query entities built from raw requests.
func (e *Entity) EnsurePrepared() {
	if e.Prepared == nil {
		e.Normalize()
	}
}

// NameVariants returns every prepared comparison variant for the entity's
// primary name: word combinations first, then the stopword-stripped and
// suffix-stripped forms. Index 0 of the result is always the plain folded
// primary name when one exists.
func (p *PreparedFields) NameVariants() []string {
	return p.variantsAt(0)
}

// AltNameVariants returns the comparison variants for alt name i (0-based
// over the alt names that survived folding).
func (p *PreparedFields) AltNameVariants(i int) []string {
	return p.variantsAt(i + 1)
}

// AltNameCount is the number of alt names with prepared variants.
func (p *PreparedFields) AltNameCount() int {
	if len(p.NormalizedNames) <= 1 {
		return 0
	}
	return len(p.NormalizedNames) - 1
}

func (p *PreparedFields) variantsAt(idx int) []string {
	if idx >= len(p.NormalizedNames) {
		return nil
	}

	variants := make([]string, 0, 4)
	if idx < len(p.WordCombinations) {
		variants = append(variants, p.WordCombinations[idx]...)
	} else {
		variants = append(variants, p.NormalizedNames[idx])
	}
	if idx < len(p.NormalizedNamesNoStopwords) {
		variants = appendUnique(variants, p.NormalizedNamesNoStopwords[idx])
	}
	if idx < len(p.NormalizedNamesNoCompanyTitles) {
		variants = appendUnique(variants, p.NormalizedNamesNoCompanyTitles[idx])
	}
	return variants
}

func appendUnique(list []string, s string) []string {
	if s == "" {
		return list
	}
	for _, existing := range list {
		if existing == s {
			return list
		}
	}
	return append(list, s)
}

// dedupeNamesFold collapses alt names that duplicate each other or the
// primary name case-insensitively, preserving first-seen order.
func dedupeNamesFold(primary string, alts []string) []string {
	if len(alts) == 0 {
		return alts
	}
	seen := map[string]struct{}{}
	if p := strings.ToLower(strings.TrimSpace(primary)); p != "" {
		seen[p] = struct{}{}
	}
	out := make([]string, 0, len(alts))
	for _, alt := range alts {
		key := strings.ToLower(strings.TrimSpace(alt))
		if key == "" {
			continue
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, alt)
	}
	return out
}
