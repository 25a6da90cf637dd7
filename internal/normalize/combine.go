package normalize

import "strings"

// shortTokenMax is the length at or below which a token is treated as a
// particle that may have been written joined to its neighbour in source
// data ("de la cruz" vs "dela cruz" vs "delacruz").
const shortTokenMax = 3

// maxCombinations caps the variants generated for pathological inputs with
// many short particles.
const maxCombinations = 32

// Combinations generates name variants by merging runs of contiguous short
// tokens, optionally absorbing the token that follows the run. The original
// joined form is always first, token order is always preserved, and merges
// only ever apply to contiguous tokens.
//
//	Combinations(["jean","de","la","cruz"]) ->
//	  ["jean de la cruz", "jean dela cruz", "jean delacruz"]
func Combinations(tokens []string) []string {
	if len(tokens) == 0 {
		return nil
	}

	original := strings.Join(tokens, " ")
	if len(tokens) == 1 {
		return []string{original}
	}

	runs := shortRuns(tokens)
	if len(runs) == 0 {
		return []string{original}
	}

	variants := []string{original}
	seen := map[string]struct{}{original: {}}

	// Per run: leave it alone, merge the run itself, or merge the run into
	// the token that follows it. Variants are the product across runs. pos
	// tracks how many source tokens the variant under construction covers.
	var expand func(runIdx, pos int, current []string)
	expand = func(runIdx, pos int, current []string) {
		if len(variants) >= maxCombinations {
			return
		}
		if runIdx == len(runs) {
			joined := strings.Join(append(current, tokens[pos:]...), " ")
			if _, dup := seen[joined]; !dup {
				seen[joined] = struct{}{}
				variants = append(variants, joined)
			}
			return
		}

		run := runs[runIdx]
		prefix := append(append([]string{}, current...), tokens[pos:run.start]...)

		// Unchanged.
		expand(runIdx+1, run.end, append(append([]string{}, prefix...), tokens[run.start:run.end]...))
		// Run merged: "de la" -> "dela".
		expand(runIdx+1, run.end, append(append([]string{}, prefix...), strings.Join(tokens[run.start:run.end], "")))
		// Run merged into the following token: "de la cruz" -> "delacruz".
		if run.end < len(tokens) {
			expand(runIdx+1, run.end+1, append(prefix, strings.Join(tokens[run.start:run.end+1], "")))
		}
	}
	expand(0, 0, nil)

	return variants
}

// tokenRun marks a maximal run of consecutive short tokens [start, end).
type tokenRun struct {
	start, end int
}

func shortRuns(tokens []string) []tokenRun {
	var runs []tokenRun
	i := 0
	for i < len(tokens) {
		if len(tokens[i]) > shortTokenMax {
			i++
			continue
		}
		start := i
		for i < len(tokens) && len(tokens[i]) <= shortTokenMax {
			i++
		}
		// A lone short token at the end has nothing to merge into.
		if i-start > 1 || i < len(tokens) {
			runs = append(runs, tokenRun{start: start, end: i})
		}
	}
	return runs
}
