package normalize

import "unicode"

// soundexCode returns the classic Soundex digit for a letter, or 0 for
// vowels and the ignored letters h/w/y.
func soundexCode(r rune) byte {
	switch r {
	case 'b', 'f', 'p', 'v':
		return '1'
	case 'c', 'g', 'j', 'k', 'q', 's', 'x', 'z':
		return '2'
	case 'd', 't':
		return '3'
	case 'l':
		return '4'
	case 'm', 'n':
		return '5'
	case 'r':
		return '6'
	default:
		return 0
	}
}

// Soundex computes the classic 4-character Soundex code of word: first
// letter kept, consonants mapped to digit classes, vowels and h/w/y
// dropped, consecutive duplicates collapsed, padded with '0'. The word is
// folded first, so "Guzmán" and "guzman" encode identically. Empty or
// non-alphabetic input yields "".
func Soundex(word string) string {
	folded := Fold(word)

	var first rune
	var rest string
	for i, r := range folded {
		if unicode.IsLetter(r) {
			first = r
			rest = folded[i+1:]
			break
		}
	}
	if first == 0 {
		return ""
	}

	code := make([]byte, 0, 4)
	code = append(code, byte(unicode.ToUpper(first)))
	prev := soundexCode(first)

	for _, r := range rest {
		if !unicode.IsLetter(r) {
			// Separators reset the duplicate-collapse state.
			prev = 0
			continue
		}
		d := soundexCode(r)
		switch {
		case d == 0:
			// h and w do not reset duplicate collapsing; vowels and y do.
			if r != 'h' && r != 'w' {
				prev = 0
			}
		case d != prev:
			code = append(code, d)
			prev = d
		}
		if len(code) == 4 {
			break
		}
	}

	for len(code) < 4 {
		code = append(code, '0')
	}
	return string(code)
}

// phoneticPairs lists letter pairs treated as interchangeable when checking
// whether two names could plausibly be the same despite a spelling shift.
var phoneticPairs = map[[2]rune]struct{}{
	{'c', 'k'}: {},
	{'c', 's'}: {},
	{'s', 'z'}: {},
	{'f', 'p'}: {},
	{'j', 'g'}: {},
}

// PhoneticallyCompatible reports whether the first folded characters of a
// and b are equal, listed as phonetic equivalents, or both digits. It is
// the pre-filter gate applied before any scoring work.
func PhoneticallyCompatible(a, b string) bool {
	ra := firstFoldedRune(a)
	rb := firstFoldedRune(b)
	if ra == 0 || rb == 0 {
		return false
	}
	if ra == rb {
		return true
	}
	if unicode.IsDigit(ra) && unicode.IsDigit(rb) {
		return true
	}
	if _, ok := phoneticPairs[[2]rune{ra, rb}]; ok {
		return true
	}
	if _, ok := phoneticPairs[[2]rune{rb, ra}]; ok {
		return true
	}
	return false
}

func firstFoldedRune(s string) rune {
	for _, r := range Fold(s) {
		return r
	}
	return 0
}
