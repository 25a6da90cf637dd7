package normalize

import "testing"

func TestSoundex(t *testing.T) {
	tests := []struct {
		word string
		want string
	}{
		{"Robert", "R163"},
		{"Rupert", "R163"},
		{"Ashcraft", "A261"},
		{"Ashcroft", "A261"},
		{"Tymczak", "T522"},
		{"Pfister", "P236"},
		{"Honeyman", "H555"},
		{"Jackson", "J250"},
		{"Guzman", "G255"},
		{"Guzmán", "G255"},
		{"", ""},
		{"---", ""},
		{"a", "A000"},
	}

	for _, tt := range tests {
		if got := Soundex(tt.word); got != tt.want {
			t.Errorf("Soundex(%q) = %q, want %q", tt.word, got, tt.want)
		}
	}
}

func TestSoundexAlwaysFourChars(t *testing.T) {
	for _, w := range []string{"x", "xy", "Schwarzenegger", "Lee", "O"} {
		got := Soundex(w)
		if got != "" && len(got) != 4 {
			t.Errorf("Soundex(%q) = %q, want 4 characters", w, got)
		}
	}
}

func TestPhoneticallyCompatible(t *testing.T) {
	tests := []struct {
		a, b string
		want bool
	}{
		{"catherine", "katherine", true},
		{"kim", "carl", true},
		{"cedric", "sergio", true},
		{"smith", "zmith", true},
		{"felipe", "philip", true},
		{"jose", "george", true},
		{"42nd", "7th", true},
		{"adam", "adam", true},
		{"Álvarez", "alvarez", true},
		{"bob", "tom", false},
		{"", "adam", false},
		{"adam", "", false},
	}

	for _, tt := range tests {
		if got := PhoneticallyCompatible(tt.a, tt.b); got != tt.want {
			t.Errorf("PhoneticallyCompatible(%q, %q) = %v, want %v", tt.a, tt.b, got, tt.want)
		}
	}
}
