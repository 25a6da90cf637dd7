// Package similarity implements the string-distance kernels the scorer is
// built on: Jaro-Winkler over single tokens and a penalised token-set
// comparison over whole names. The functions are pure and safe for
// concurrent use.
package similarity

// JaroWinkler computes the Jaro similarity of a and b with the Winkler
// prefix boost applied over up to prefixSize leading matching characters.
// Inputs are expected to be folded already; the result is in [0, 1].
func JaroWinkler(a, b string, prefixSize int) float64 {
	jaro := Jaro(a, b)
	if jaro == 0 {
		return 0
	}
	if prefixSize <= 0 {
		return jaro
	}

	ra := []rune(a)
	rb := []rune(b)
	prefix := 0
	for prefix < len(ra) && prefix < len(rb) && prefix < prefixSize && ra[prefix] == rb[prefix] {
		prefix++
	}

	const winklerScaling = 0.1
	return jaro + float64(prefix)*winklerScaling*(1-jaro)
}

// Jaro computes the plain Jaro similarity of a and b in [0, 1].
func Jaro(a, b string) float64 {
	if a == b {
		if a == "" {
			return 0
		}
		return 1
	}

	ra := []rune(a)
	rb := []rune(b)
	if len(ra) == 0 || len(rb) == 0 {
		return 0
	}

	window := max(len(ra), len(rb))/2 - 1
	if window < 0 {
		window = 0
	}

	aMatched := make([]bool, len(ra))
	bMatched := make([]bool, len(rb))
	matches := 0

	for i, r := range ra {
		lo := i - window
		if lo < 0 {
			lo = 0
		}
		hi := i + window + 1
		if hi > len(rb) {
			hi = len(rb)
		}
		for j := lo; j < hi; j++ {
			if bMatched[j] || rb[j] != r {
				continue
			}
			aMatched[i] = true
			bMatched[j] = true
			matches++
			break
		}
	}

	if matches == 0 {
		return 0
	}

	// Count transpositions among matched characters in order.
	transpositions := 0
	j := 0
	for i := range ra {
		if !aMatched[i] {
			continue
		}
		for !bMatched[j] {
			j++
		}
		if ra[i] != rb[j] {
			transpositions++
		}
		j++
	}

	m := float64(matches)
	t := float64(transpositions) / 2
	return (m/float64(len(ra)) + m/float64(len(rb)) + (m-t)/m) / 3
}
