package normalize

import (
	"reflect"
	"strings"
	"testing"
)

func TestCombinations(t *testing.T) {
	tests := []struct {
		name   string
		tokens []string
		want   []string
	}{
		{
			name:   "short particle run",
			tokens: []string{"jean", "de", "la", "cruz"},
			want:   []string{"jean de la cruz", "jean dela cruz", "jean delacruz"},
		},
		{
			name:   "single short token absorbed forward",
			tokens: []string{"de", "gaulle"},
			want:   []string{"de gaulle", "degaulle"},
		},
		{
			name:   "no short tokens",
			tokens: []string{"vladimir", "petrov"},
			want:   []string{"vladimir petrov"},
		},
		{
			name:   "trailing short token alone",
			tokens: []string{"acme", "co"},
			want:   []string{"acme co"},
		},
		{
			name:   "single token",
			tokens: []string{"madonna"},
			want:   []string{"madonna"},
		},
		{
			name:   "empty",
			tokens: nil,
			want:   nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Combinations(tt.tokens)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Combinations(%v) = %v, want %v", tt.tokens, got, tt.want)
			}
		})
	}
}

func TestCombinationsOriginalFirst(t *testing.T) {
	tokens := []string{"abu", "al", "din", "rahman"}
	got := Combinations(tokens)
	if len(got) == 0 || got[0] != strings.Join(tokens, " ") {
		t.Fatalf("first variant must be the original joined form, got %v", got)
	}
}

func TestCombinationsCapped(t *testing.T) {
	// Many alternating short runs explode combinatorially without the cap.
	tokens := []string{"a", "bcde", "fg", "hijk", "lm", "nopq", "rs", "tuvw", "xy", "zabc", "de", "fghi"}
	got := Combinations(tokens)
	if len(got) > maxCombinations {
		t.Errorf("got %d variants, cap is %d", len(got), maxCombinations)
	}
}

func TestCombinationsPreserveOrder(t *testing.T) {
	tokens := []string{"jean", "de", "la", "cruz"}
	for _, v := range Combinations(tokens) {
		if !strings.HasPrefix(v, "jean") || !strings.HasSuffix(v, "cruz") {
			t.Errorf("variant %q reorders tokens", v)
		}
	}
}
