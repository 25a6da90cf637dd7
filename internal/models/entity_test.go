package models

import "testing"

func TestParseEntityType(t *testing.T) {
	tests := []struct {
		in   string
		want EntityType
	}{
		{"PERSON", EntityPerson},
		{"INDIVIDUAL", EntityPerson},
		{"individual", EntityPerson},
		{"Business", EntityBusiness},
		{"ORGANIZATION", EntityOrganization},
		{"ORGANISATION", EntityOrganization},
		{"VESSEL", EntityVessel},
		{"aircraft", EntityAircraft},
		{" person ", EntityPerson},
		{"COMPANY", EntityUnknown},
		{"", EntityUnknown},
	}
	for _, tt := range tests {
		if got := ParseEntityType(tt.in); got != tt.want {
			t.Errorf("ParseEntityType(%q) = %s, want %s", tt.in, got, tt.want)
		}
	}
}

func TestGovernmentIDNormalizedIdentifier(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"AB 123-456", "AB123456"},
		{"ab123456", "AB123456"},
		{"X-99.21/7", "X99217"},
		{"  ", ""},
		{"", ""},
	}
	for _, tt := range tests {
		id := GovernmentID{Identifier: tt.in}
		if got := id.NormalizedIdentifier(); got != tt.want {
			t.Errorf("NormalizedIdentifier(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestGovernmentIDEqual(t *testing.T) {
	base := GovernmentID{Country: "VE", Type: "PASSPORT", Identifier: "AB 123-456"}

	tests := []struct {
		name  string
		other GovernmentID
		want  bool
	}{
		{"formatting differs", GovernmentID{Country: "VE", Type: "PASSPORT", Identifier: "ab123456"}, true},
		{"case-insensitive country and type", GovernmentID{Country: "ve", Type: "passport", Identifier: "AB123456"}, true},
		{"different country", GovernmentID{Country: "CO", Type: "PASSPORT", Identifier: "AB123456"}, false},
		{"different type", GovernmentID{Country: "VE", Type: "TAX_ID", Identifier: "AB123456"}, false},
		{"different identifier", GovernmentID{Country: "VE", Type: "PASSPORT", Identifier: "AB123457"}, false},
	}
	for _, tt := range tests {
		if got := base.Equal(tt.other); got != tt.want {
			t.Errorf("%s: Equal = %v, want %v", tt.name, got, tt.want)
		}
	}

	// Two empty identifiers never match.
	empty := GovernmentID{Country: "VE", Type: "PASSPORT"}
	if empty.Equal(empty) {
		t.Error("Equal with empty identifiers = true, want false")
	}
}

func TestAddressFormat(t *testing.T) {
	addr := Address{Line1: "1 Main St", City: "Springfield", State: "IL", Country: "US"}
	if got := addr.Format(); got != "1 Main St Springfield IL US" {
		t.Errorf("Format = %q", got)
	}
	if got := (Address{}).Format(); got != "" {
		t.Errorf("Format(empty) = %q, want empty", got)
	}
}

func TestAddressNormalized(t *testing.T) {
	addr := Address{Line1: "Calle Bolívar 12", City: "CARACAS", Country: "VE"}
	if got := addr.Normalized(); got != "calle bolivar 12 caracas ve" {
		t.Errorf("Normalized = %q", got)
	}
}

func TestEntityIsBusinessLike(t *testing.T) {
	tests := []struct {
		typ  EntityType
		want bool
	}{
		{EntityBusiness, true},
		{EntityOrganization, true},
		{EntityPerson, false},
		{EntityVessel, false},
		{EntityUnknown, false},
	}
	for _, tt := range tests {
		e := Entity{Type: tt.typ}
		if got := e.IsBusinessLike(); got != tt.want {
			t.Errorf("IsBusinessLike(%s) = %v, want %v", tt.typ, got, tt.want)
		}
	}
}

func TestEntityHasGovernmentIDs(t *testing.T) {
	e := Entity{GovernmentIDs: []GovernmentID{{Country: "VE", Type: "PASSPORT"}}}
	if e.HasGovernmentIDs() {
		t.Error("HasGovernmentIDs with empty identifier = true, want false")
	}
	e.GovernmentIDs = append(e.GovernmentIDs, GovernmentID{Country: "VE", Type: "PASSPORT", Identifier: "AB123456"})
	if !e.HasGovernmentIDs() {
		t.Error("HasGovernmentIDs = false, want true")
	}
}

func TestEntityHasContact(t *testing.T) {
	var e Entity
	if e.HasContact() {
		t.Error("HasContact(nil) = true, want false")
	}
	e.Contact = &Contact{Website: "https://example.com"}
	if e.HasContact() {
		t.Error("HasContact(website only) = true, want false")
	}
	e.Contact.Email = "a@example.com"
	if !e.HasContact() {
		t.Error("HasContact(email) = false, want true")
	}
}
