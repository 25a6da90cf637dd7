package similarity

import (
	"sort"

	"github.com/ternarybob/vigil/internal/normalize"
)

// Options tunes the token-set comparison. Zero values mean "use default"
// for the numeric knobs; DefaultOptions returns the production settings.
type Options struct {
	// PhoneticFilter short-circuits to 0 when the leading tokens of the two
	// names are not phonetically compatible.
	PhoneticFilter bool

	// PrefixSize is the Winkler prefix boost length.
	PrefixSize int

	// LengthPenaltyWeight scales the penalty applied for differing overall
	// name lengths.
	LengthPenaltyWeight float64

	// LengthCutoffFactor gates individual token pairs: pairs whose length
	// ratio falls below it have their contribution clamped by that ratio.
	LengthCutoffFactor float64

	// UnmatchedTokenWeight is subtracted once per candidate token left
	// without an assigned query token.
	UnmatchedTokenWeight float64
}

// DefaultOptions returns the production token-set settings.
func DefaultOptions() Options {
	return Options{
		PhoneticFilter:       true,
		PrefixSize:           4,
		LengthPenaltyWeight:  0.3,
		LengthCutoffFactor:   0.9,
		UnmatchedTokenWeight: 0.15,
	}
}

// tokenPair is one (query token, candidate token) comparison.
type tokenPair struct {
	q, c  int
	score float64
}

// TokenSetScore compares two tokenized names independent of word order.
// Each token is used at most once; assignment is greedy by descending
// Jaro-Winkler score. Length mismatches are gated per pair and penalised
// overall, and candidate tokens left unmatched dilute the result. The
// returned score is clamped to [0, 1].
func TokenSetScore(qTokens, cTokens []string, opts Options) float64 {
	if len(qTokens) == 0 || len(cTokens) == 0 {
		return 0
	}

	if opts.PhoneticFilter && !normalize.PhoneticallyCompatible(qTokens[0], cTokens[0]) {
		return 0
	}

	pairs := make([]tokenPair, 0, len(qTokens)*len(cTokens))
	for qi, q := range qTokens {
		for ci, c := range cTokens {
			s := JaroWinkler(q, c, opts.PrefixSize)
			if s <= 0 {
				continue
			}
			// Length-difference gate: a 1-char initial against a full
			// name must not claim the pair's full similarity.
			ratio := lengthRatio(runeLen(q), runeLen(c))
			if ratio < opts.LengthCutoffFactor {
				s *= ratio
			}
			pairs = append(pairs, tokenPair{q: qi, c: ci, score: s})
		}
	}

	// Greedy best-pair assignment, deterministic on score ties.
	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i].score != pairs[j].score {
			return pairs[i].score > pairs[j].score
		}
		if pairs[i].q != pairs[j].q {
			return pairs[i].q < pairs[j].q
		}
		return pairs[i].c < pairs[j].c
	})

	qUsed := make([]bool, len(qTokens))
	cUsed := make([]bool, len(cTokens))
	total := 0.0
	assigned := 0
	for _, p := range pairs {
		if qUsed[p.q] || cUsed[p.c] {
			continue
		}
		qUsed[p.q] = true
		cUsed[p.c] = true
		total += p.score
		assigned++
		if assigned == len(qTokens) || assigned == len(cTokens) {
			break
		}
	}

	score := total / float64(len(qTokens))

	// Overall length-difference penalty across the whole names.
	if opts.LengthPenaltyWeight > 0 {
		ratio := lengthRatio(joinedLength(qTokens), joinedLength(cTokens))
		score -= (1 - ratio) * opts.LengthPenaltyWeight * score
	}

	// Unmatched-index-token penalty: extra candidate words dilute.
	if opts.UnmatchedTokenWeight > 0 {
		unmatched := 0
		for _, used := range cUsed {
			if !used {
				unmatched++
			}
		}
		score -= opts.UnmatchedTokenWeight * float64(unmatched)
	}

	return clamp01(score)
}

// lengthRatio returns min/max over two lengths, 0 when either is empty.
func lengthRatio(la, lb int) float64 {
	if la == 0 || lb == 0 {
		return 0
	}
	if la > lb {
		la, lb = lb, la
	}
	return float64(la) / float64(lb)
}

func runeLen(s string) int {
	n := 0
	for range s {
		n++
	}
	return n
}

func joinedLength(tokens []string) int {
	n := 0
	for _, t := range tokens {
		n += runeLen(t)
	}
	return n
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
