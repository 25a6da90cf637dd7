package normalize

import "strings"

// Stopword tables per supported language. These are deliberately small:
// watchlist names carry particles and articles, not prose, so only the
// particles that actually appear in list data are worth stripping.
var stopwords = map[string]map[string]struct{}{
	"en": toSet("the", "of", "and", "a", "an", "in", "on", "for", "to", "at", "by"),
	"es": toSet("el", "la", "los", "las", "de", "del", "y", "en", "un", "una", "al", "por"),
	"fr": toSet("le", "la", "les", "de", "du", "des", "et", "en", "un", "une", "au", "aux"),
	"de": toSet("der", "die", "das", "und", "von", "zu", "den", "ein", "eine", "im", "am"),
	"pt": toSet("o", "a", "os", "as", "de", "do", "da", "dos", "das", "e", "em", "um", "uma"),
}

// companySuffixes is the configured set of legal-form suffixes stripped from
// business names before comparison.
var companySuffixes = toSet(
	"inc", "incorporated", "ltd", "limited", "llc", "llp", "lp",
	"corp", "corporation", "co", "company", "companies",
	"gmbh", "ag", "sa", "sarl", "srl", "spa", "bv", "nv", "oy", "ab",
	"plc", "pty", "pvt", "kk", "pte", "sdn", "bhd", "trading",
)

func toSet(words ...string) map[string]struct{} {
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}

// StripStopwords removes language-specific stopwords from tokens. Unknown or
// empty lang falls back to English. The input slice is not modified.
func StripStopwords(tokens []string, lang string) []string {
	set, ok := stopwords[lang]
	if !ok {
		set = stopwords["en"]
	}

	out := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		if _, stop := set[tok]; !stop {
			out = append(out, tok)
		}
	}

	// Stripping everything would leave nothing to compare; keep the
	// original tokens instead.
	if len(out) == 0 {
		return tokens
	}
	return out
}

// StripCompanySuffixes removes legal-form suffixes (inc, ltd, gmbh, ...)
// from tokens. The input slice is not modified.
func StripCompanySuffixes(tokens []string) []string {
	out := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		trimmed := strings.TrimSuffix(tok, ".")
		if _, suffix := companySuffixes[trimmed]; !suffix {
			out = append(out, tok)
		}
	}
	if len(out) == 0 {
		return tokens
	}
	return out
}

// DetectLanguage guesses a two-letter language code by counting stopword
// hits across the supported tables. Returns "" when no table scores at
// least two hits, or when the best score is tied.
func DetectLanguage(tokens []string) string {
	best := ""
	bestHits := 0
	tied := false

	for lang, set := range stopwords {
		hits := 0
		for _, tok := range tokens {
			if _, ok := set[tok]; ok {
				hits++
			}
		}
		switch {
		case hits > bestHits:
			best, bestHits, tied = lang, hits, false
		case hits == bestHits && hits > 0:
			tied = true
		}
	}

	if bestHits < 2 || tied {
		return ""
	}
	return best
}
