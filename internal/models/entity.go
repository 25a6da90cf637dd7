// Package models defines the watchlist entity model, the bulk-job
// lifecycle entity, and the wire shapes shared by services and handlers.
package models

import (
	"strings"
	"time"

	"github.com/ternarybob/vigil/internal/normalize"
)

// SourceList identifies the consolidated list an entity came from.
type SourceList string

const (
	SourceOFACSDN SourceList = "OFAC_SDN"
	SourceUSCSL   SourceList = "US_CSL"
	SourceUKCSL   SourceList = "UK_CSL"
	SourceEUCSL   SourceList = "EU_CSL"
)

// EntityType classifies what kind of party an entity record describes.
type EntityType string

const (
	EntityPerson       EntityType = "PERSON"
	EntityBusiness     EntityType = "BUSINESS"
	EntityOrganization EntityType = "ORGANIZATION"
	EntityVessel       EntityType = "VESSEL"
	EntityAircraft     EntityType = "AIRCRAFT"
	EntityUnknown      EntityType = "UNKNOWN"
)

// ParseEntityType maps wire spellings (including "INDIVIDUAL") onto an
// EntityType, defaulting to UNKNOWN.
func ParseEntityType(s string) EntityType {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "PERSON", "INDIVIDUAL":
		return EntityPerson
	case "BUSINESS":
		return EntityBusiness
	case "ORGANIZATION", "ORGANISATION":
		return EntityOrganization
	case "VESSEL":
		return EntityVessel
	case "AIRCRAFT":
		return EntityAircraft
	default:
		return EntityUnknown
	}
}

// Entity is one normalized watchlist record. Entities are owned by the
// index and treated as immutable once Normalize has run; the scorer only
// borrows references.
type Entity struct {
	ID       string     `json:"id"`
	SourceID string     `json:"sourceId"`
	Source   SourceList `json:"source"`
	Type     EntityType `json:"type"`

	Name     string   `json:"name"`
	AltNames []string `json:"altNames,omitempty"`

	// Exactly one detail pointer is populated for a typed entity; all are
	// nil for UNKNOWN.
	Person       *PersonDetail       `json:"person,omitempty"`
	Business     *BusinessDetail     `json:"business,omitempty"`
	Organization *OrganizationDetail `json:"organization,omitempty"`
	Vessel       *VesselDetail       `json:"vessel,omitempty"`
	Aircraft     *AircraftDetail     `json:"aircraft,omitempty"`

	Contact         *Contact        `json:"contact,omitempty"`
	Addresses       []Address       `json:"addresses,omitempty"`
	CryptoAddresses []CryptoAddress `json:"cryptoAddresses,omitempty"`
	GovernmentIDs   []GovernmentID  `json:"governmentIds,omitempty"`
	SanctionsInfo   *SanctionsInfo  `json:"sanctionsInfo,omitempty"`
	Remarks         string          `json:"remarks,omitempty"`

	Prepared *PreparedFields `json:"-"`
}

// PersonDetail carries person-specific fields.
type PersonDetail struct {
	Titles      []string   `json:"titles,omitempty"`
	Gender      string     `json:"gender,omitempty"`
	BirthDate   *time.Time `json:"birthDate,omitempty"`
	DeathDate   *time.Time `json:"deathDate,omitempty"`
	Nationality []string   `json:"nationality,omitempty"`
}

// BusinessDetail carries business-specific fields.
type BusinessDetail struct {
	Created   *time.Time `json:"created,omitempty"`
	Dissolved *time.Time `json:"dissolved,omitempty"`
}

// OrganizationDetail carries organization-specific fields.
type OrganizationDetail struct {
	Created   *time.Time `json:"created,omitempty"`
	Dissolved *time.Time `json:"dissolved,omitempty"`
}

// VesselDetail carries vessel-specific fields.
type VesselDetail struct {
	IMONumber string     `json:"imoNumber,omitempty"`
	FlagState string     `json:"flagState,omitempty"`
	CallSign  string     `json:"callSign,omitempty"`
	Built     *time.Time `json:"built,omitempty"`
	Tonnage   int        `json:"tonnage,omitempty"`
}

// AircraftDetail carries aircraft-specific fields.
type AircraftDetail struct {
	SerialNumber string     `json:"serialNumber,omitempty"`
	Model        string     `json:"model,omitempty"`
	FlagState    string     `json:"flagState,omitempty"`
	Built        *time.Time `json:"built,omitempty"`
}

// Contact holds the directly comparable contact points of an entity.
type Contact struct {
	Email   string `json:"email,omitempty"`
	Phone   string `json:"phone,omitempty"`
	Fax     string `json:"fax,omitempty"`
	Website string `json:"website,omitempty"`
}

// Address is one structured address attached to an entity.
type Address struct {
	Line1      string `json:"line1,omitempty"`
	Line2      string `json:"line2,omitempty"`
	City       string `json:"city,omitempty"`
	State      string `json:"state,omitempty"`
	PostalCode string `json:"postalCode,omitempty"`
	Country    string `json:"country,omitempty"`
}

// Format joins the populated address fields into one comparable string.
func (a Address) Format() string {
	parts := make([]string, 0, 6)
	for _, p := range []string{a.Line1, a.Line2, a.City, a.State, a.PostalCode, a.Country} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, " ")
}

// Normalized returns the folded formatted address.
func (a Address) Normalized() string {
	return normalize.Fold(a.Format())
}

// CryptoAddress is a currency/address pair. Comparison is case-sensitive
// on both fields.
type CryptoAddress struct {
	Currency string `json:"currency"`
	Address  string `json:"address"`
}

// GovernmentID is one issued identifier (passport, tax ID, ...).
type GovernmentID struct {
	Country    string `json:"country"`
	Type       string `json:"type"`
	Identifier string `json:"identifier"`
}

// NormalizedIdentifier strips spaces, hyphens and any other
// non-alphanumeric characters and uppercases: "AB 123-456" -> "AB123456".
func (g GovernmentID) NormalizedIdentifier() string {
	var b strings.Builder
	b.Grow(len(g.Identifier))
	for _, r := range g.Identifier {
		switch {
		case r >= 'a' && r <= 'z':
			b.WriteRune(r - 'a' + 'A')
		case (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9'):
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Equal reports whether two government IDs refer to the same issued
// identifier: country and type match case-insensitively, identifiers match
// after normalization.
func (g GovernmentID) Equal(other GovernmentID) bool {
	return strings.EqualFold(strings.TrimSpace(g.Country), strings.TrimSpace(other.Country)) &&
		strings.EqualFold(strings.TrimSpace(g.Type), strings.TrimSpace(other.Type)) &&
		g.NormalizedIdentifier() == other.NormalizedIdentifier() &&
		g.NormalizedIdentifier() != ""
}

// SanctionsInfo carries list-level sanction metadata.
type SanctionsInfo struct {
	Programs    []string `json:"programs,omitempty"`
	Secondary   bool     `json:"secondary,omitempty"`
	Description string   `json:"description,omitempty"`
}

// IsBusinessLike reports whether company-suffix stripping applies to the
// entity's names.
func (e *Entity) IsBusinessLike() bool {
	return e.Type == EntityBusiness || e.Type == EntityOrganization
}

// HasGovernmentIDs reports whether any government ID carries an identifier.
func (e *Entity) HasGovernmentIDs() bool {
	for _, id := range e.GovernmentIDs {
		if id.NormalizedIdentifier() != "" {
			return true
		}
	}
	return false
}

// HasContact reports whether any comparable contact sub-field is set.
func (e *Entity) HasContact() bool {
	return e.Contact != nil && (e.Contact.Email != "" || e.Contact.Phone != "" || e.Contact.Fax != "")
}
