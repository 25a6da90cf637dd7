package normalize

import (
	"reflect"
	"testing"
)

func TestStripStopwords(t *testing.T) {
	tests := []struct {
		name   string
		tokens []string
		lang   string
		want   []string
	}{
		{
			name:   "english articles",
			tokens: []string{"the", "bank", "of", "commerce"},
			lang:   "en",
			want:   []string{"bank", "commerce"},
		},
		{
			name:   "spanish particles",
			tokens: []string{"banco", "de", "la", "nacion"},
			lang:   "es",
			want:   []string{"banco", "nacion"},
		},
		{
			name:   "unknown lang falls back to english",
			tokens: []string{"the", "zenith"},
			lang:   "xx",
			want:   []string{"zenith"},
		},
		{
			name:   "all stopwords keeps original",
			tokens: []string{"the", "of"},
			lang:   "en",
			want:   []string{"the", "of"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := StripStopwords(tt.tokens, tt.lang)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("StripStopwords(%v, %q) = %v, want %v", tt.tokens, tt.lang, got, tt.want)
			}
		})
	}
}

func TestStripCompanySuffixes(t *testing.T) {
	got := StripCompanySuffixes([]string{"acme", "trading", "ltd"})
	want := []string{"acme"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}

	// Trailing dots on abbreviations are tolerated.
	got = StripCompanySuffixes([]string{"globex", "corp."})
	want = []string{"globex"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}

	// A name that is nothing but suffixes keeps its tokens.
	got = StripCompanySuffixes([]string{"co", "ltd"})
	want = []string{"co", "ltd"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestDetectLanguage(t *testing.T) {
	tests := []struct {
		name   string
		tokens []string
		want   string
	}{
		{"spanish", []string{"banco", "del", "sur", "de", "la", "republica"}, "es"},
		{"too few hits", []string{"vladimir", "petrov"}, ""},
		{"single hit not enough", []string{"bank", "of", "place"}, ""},
		{"german", []string{"bank", "der", "arbeit", "und", "wirtschaft"}, "de"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DetectLanguage(tt.tokens); got != tt.want {
				t.Errorf("DetectLanguage(%v) = %q, want %q", tt.tokens, got, tt.want)
			}
		})
	}
}
