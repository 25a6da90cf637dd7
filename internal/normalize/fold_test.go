package normalize

import (
	"testing"
)

func TestFold(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"lowercase", "ACME CORP", "acme corp"},
		{"diacritics", "Guzmán Loera", "guzman loera"},
		{"cedilla", "François", "francois"},
		{"umlaut", "Müller", "muller"},
		{"eth", "Guðmundur", "gudmundur"},
		{"thorn", "Þórður", "thordur"},
		{"eszett", "Straße", "strasse"},
		{"o-stroke", "Sørensen", "sorensen"},
		{"l-stroke", "Wałęsa", "walesa"},
		{"punctuation dropped", "O'Brien, Jr.", "obrien jr"},
		{"hyphen kept", "Jean-Pierre", "jean-pierre"},
		{"whitespace collapsed", "  a   b  ", "a b"},
		{"digits kept", "Unit 42", "unit 42"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Fold(tt.input)
			if got != tt.want {
				t.Errorf("Fold(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestFoldIdempotent(t *testing.T) {
	inputs := []string{"Guzmán Loera", "Þórður", "  O'Brien, Jr. ", "ACME–CORP"}
	for _, in := range inputs {
		once := Fold(in)
		twice := Fold(once)
		if once != twice {
			t.Errorf("Fold not idempotent on %q: %q != %q", in, once, twice)
		}
	}
}

func TestTokenize(t *testing.T) {
	tests := []struct {
		input string
		want  []string
	}{
		{"Joaquín Guzmán Loera", []string{"joaquin", "guzman", "loera"}},
		{"", nil},
		{"   ", nil},
		{"single", []string{"single"}},
	}

	for _, tt := range tests {
		got := Tokenize(tt.input)
		if len(got) != len(tt.want) {
			t.Fatalf("Tokenize(%q) = %v, want %v", tt.input, got, tt.want)
		}
		for i := range got {
			if got[i] != tt.want[i] {
				t.Errorf("Tokenize(%q)[%d] = %q, want %q", tt.input, i, got[i], tt.want[i])
			}
		}
	}
}
