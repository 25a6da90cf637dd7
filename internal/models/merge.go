package models

import (
	"strings"

	"github.com/ternarybob/vigil/internal/normalize"
)

// MergeEntities collapses duplicate rows produced by source-list parsers.
// Rows are keyed by (source, sourceId); the first occurrence of a key wins
// field-wise and later duplicates only fill sub-fields the first left
// empty. Order of distinct keys is preserved and the operation is
// idempotent: MergeEntities(MergeEntities(L)) == MergeEntities(L).
func MergeEntities(entities []*Entity) []*Entity {
	if len(entities) == 0 {
		return entities
	}

	type mergeKey struct {
		source   SourceList
		sourceID string
	}

	out := make([]*Entity, 0, len(entities))
	index := make(map[mergeKey]*Entity, len(entities))

	for _, e := range entities {
		if e == nil {
			continue
		}
		key := mergeKey{source: e.Source, sourceID: e.SourceID}
		if e.SourceID == "" {
			// Rows without a stable ID cannot be safely collapsed.
			out = append(out, e)
			continue
		}
		existing, dup := index[key]
		if !dup {
			index[key] = e
			out = append(out, e)
			continue
		}
		mergeInto(existing, e)
	}

	return out
}

// mergeInto folds the duplicate row into dst. dst's populated fields win;
// sequences are unioned with dedupe.
func mergeInto(dst, src *Entity) {
	if dst.Name == "" {
		dst.Name = src.Name
	} else if src.Name != "" && !strings.EqualFold(dst.Name, src.Name) {
		dst.AltNames = append(dst.AltNames, src.Name)
	}
	dst.AltNames = dedupeNamesFold(dst.Name, append(dst.AltNames, src.AltNames...))

	if dst.Type == EntityUnknown && src.Type != EntityUnknown {
		dst.Type = src.Type
	}
	if dst.Person == nil {
		dst.Person = src.Person
	}
	if dst.Business == nil {
		dst.Business = src.Business
	}
	if dst.Organization == nil {
		dst.Organization = src.Organization
	}
	if dst.Vessel == nil {
		dst.Vessel = src.Vessel
	}
	if dst.Aircraft == nil {
		dst.Aircraft = src.Aircraft
	}

	dst.Contact = mergeContact(dst.Contact, src.Contact)
	dst.Addresses = mergeAddresses(dst.Addresses, src.Addresses)
	dst.CryptoAddresses = mergeCrypto(dst.CryptoAddresses, src.CryptoAddresses)
	dst.GovernmentIDs = mergeGovernmentIDs(dst.GovernmentIDs, src.GovernmentIDs)

	if dst.SanctionsInfo == nil {
		dst.SanctionsInfo = src.SanctionsInfo
	} else if src.SanctionsInfo != nil {
		dst.SanctionsInfo.Programs = dedupeStringsFold(append(dst.SanctionsInfo.Programs, src.SanctionsInfo.Programs...))
		dst.SanctionsInfo.Secondary = dst.SanctionsInfo.Secondary || src.SanctionsInfo.Secondary
		if dst.SanctionsInfo.Description == "" {
			dst.SanctionsInfo.Description = src.SanctionsInfo.Description
		}
	}
	if dst.Remarks == "" {
		dst.Remarks = src.Remarks
	}

	// Names or addresses may have changed; stale derivations must not
	// survive a merge.
	dst.Prepared = nil
}

func mergeContact(dst, src *Contact) *Contact {
	if dst == nil {
		return src
	}
	if src == nil {
		return dst
	}
	if dst.Email == "" {
		dst.Email = src.Email
	}
	if dst.Phone == "" {
		dst.Phone = src.Phone
	}
	if dst.Fax == "" {
		dst.Fax = src.Fax
	}
	if dst.Website == "" {
		dst.Website = src.Website
	}
	return dst
}

// mergeAddresses folds src addresses into dst. A src address that matches
// an existing one field-wise is a duplicate: the first occurrence wins but
// its empty sub-fields are filled from the duplicate. Anything else is
// appended.
func mergeAddresses(dst, src []Address) []Address {
	for _, a := range src {
		if a.Normalized() == "" {
			continue
		}
		merged := false
		for i := range dst {
			if addressesMatch(dst[i], a) {
				dst[i] = fillAddress(dst[i], a)
				merged = true
				break
			}
		}
		if !merged {
			dst = append(dst, a)
		}
	}
	return dst
}

// addressesMatch reports whether two addresses describe the same place:
// every sub-field populated on both sides matches after folding, with
// empty sub-fields acting as wildcards. At least one sub-field must have
// been comparable, so two addresses with disjoint fields never collapse.
func addressesMatch(a, b Address) bool {
	pairs := [][2]string{
		{a.Line1, b.Line1},
		{a.Line2, b.Line2},
		{a.City, b.City},
		{a.State, b.State},
		{a.PostalCode, b.PostalCode},
		{a.Country, b.Country},
	}
	compared := false
	for _, p := range pairs {
		if p[0] == "" || p[1] == "" {
			continue
		}
		if normalize.Fold(p[0]) != normalize.Fold(p[1]) {
			return false
		}
		compared = true
	}
	return compared
}

func fillAddress(dst, src Address) Address {
	if dst.Line1 == "" {
		dst.Line1 = src.Line1
	}
	if dst.Line2 == "" {
		dst.Line2 = src.Line2
	}
	if dst.City == "" {
		dst.City = src.City
	}
	if dst.State == "" {
		dst.State = src.State
	}
	if dst.PostalCode == "" {
		dst.PostalCode = src.PostalCode
	}
	if dst.Country == "" {
		dst.Country = src.Country
	}
	return dst
}

// mergeCrypto unions case-sensitively on (currency, address).
func mergeCrypto(dst, src []CryptoAddress) []CryptoAddress {
	if len(src) == 0 {
		return dst
	}
	seen := make(map[CryptoAddress]struct{}, len(dst))
	for _, c := range dst {
		seen[c] = struct{}{}
	}
	for _, c := range src {
		if _, dup := seen[c]; dup {
			continue
		}
		seen[c] = struct{}{}
		dst = append(dst, c)
	}
	return dst
}

func mergeGovernmentIDs(dst, src []GovernmentID) []GovernmentID {
	for _, id := range src {
		dup := false
		for _, existing := range dst {
			if existing.Equal(id) {
				dup = true
				break
			}
		}
		if !dup {
			dst = append(dst, id)
		}
	}
	return dst
}

func dedupeStringsFold(list []string) []string {
	seen := make(map[string]struct{}, len(list))
	out := make([]string, 0, len(list))
	for _, s := range list {
		key := strings.ToLower(strings.TrimSpace(s))
		if key == "" {
			continue
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, s)
	}
	return out
}
