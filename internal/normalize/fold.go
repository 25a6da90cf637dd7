// Package normalize provides the string folding, tokenization, and phonetic
// primitives the screening pipeline is built on. Everything here is pure and
// allocation-conscious: these functions run once per indexed entity and once
// per query, and the scorer calls nothing else for text preparation.
package normalize

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// diacriticStripper decomposes to NFD and removes combining marks, so
// "Guzmán" folds to "guzman" and "Müller" to "muller".
var diacriticStripper = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// specialLetters maps letters that NFD decomposition leaves untouched.
var specialLetters = map[rune]string{
	'ð': "d",
	'þ': "th",
	'ø': "o",
	'ß': "ss",
	'æ': "ae",
	'œ': "oe",
	'ł': "l",
	'đ': "d",
}

// Fold lowercases s, strips diacritics, maps special letters, drops
// punctuation except hyphens, and collapses whitespace. Fold is idempotent:
// Fold(Fold(s)) == Fold(s).
func Fold(s string) string {
	if s == "" {
		return ""
	}

	lower := strings.ToLower(s)
	stripped, _, err := transform.String(diacriticStripper, lower)
	if err != nil {
		// Malformed UTF-8 - fold what we can from the lowercased input.
		stripped = lower
	}

	var b strings.Builder
	b.Grow(len(stripped))
	pendingSpace := false
	wrote := false

	writeSpace := func() {
		if wrote {
			pendingSpace = true
		}
	}
	writeRune := func(r rune) {
		if pendingSpace {
			b.WriteByte(' ')
			pendingSpace = false
		}
		b.WriteRune(r)
		wrote = true
	}
	writeString := func(s string) {
		if pendingSpace {
			b.WriteByte(' ')
			pendingSpace = false
		}
		b.WriteString(s)
		wrote = true
	}

	for _, r := range stripped {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			if mapped, ok := specialLetters[r]; ok {
				writeString(mapped)
			} else {
				writeRune(r)
			}
		case r == '-':
			writeRune(r)
		case unicode.IsSpace(r):
			writeSpace()
		default:
			// Punctuation is dropped entirely: "O'Brien" -> "obrien".
		}
	}

	return b.String()
}

// Tokenize folds s and splits it on whitespace. Empty input yields nil.
func Tokenize(s string) []string {
	folded := Fold(s)
	if folded == "" {
		return nil
	}
	return strings.Fields(folded)
}
