package scorer

// Kind tags which factor produced a score piece. The aggregator dispatches
// on it.
type Kind string

const (
	KindName       Kind = "name"
	KindAltName    Kind = "altName"
	KindAddress    Kind = "address"
	KindGovIDs     Kind = "govIdsExact"
	KindCrypto     Kind = "crypto"
	KindContact    Kind = "contact"
	KindDate       Kind = "date"
	KindSourceList Kind = "sourceList"
)

// critical reports whether the kind is a critical identifier factor, which
// participates in the exact-match short-circuit and the critical coverage
// ratio.
func (k Kind) critical() bool {
	return k == KindGovIDs || k == KindCrypto || k == KindContact
}

// Piece is one factor's contribution to a final score.
type Piece struct {
	Kind           Kind    `json:"kind"`
	Score          float64 `json:"score"`
	Weight         float64 `json:"weight"`
	FieldsCompared int     `json:"fieldsCompared"`
	Required       bool    `json:"required"`
	Matched        bool    `json:"matched"`
	Exact          bool    `json:"exact"`
}

// Breakdown is the per-factor score summary returned with each match.
// Field names are part of the API contract.
type Breakdown struct {
	NameScore          float64 `json:"nameScore"`
	AltNamesScore      float64 `json:"altNamesScore"`
	AddressScore       float64 `json:"addressScore"`
	GovIDScore         float64 `json:"govIdScore"`
	CryptoScore        float64 `json:"cryptoScore"`
	ContactScore       float64 `json:"contactScore"`
	DateScore          float64 `json:"dateScore"`
	TotalWeightedScore float64 `json:"totalWeightedScore"`
}

// perfectBreakdown is returned by the sourceId identity short-circuit.
func perfectBreakdown() Breakdown {
	return Breakdown{
		NameScore:          1,
		AltNamesScore:      1,
		AddressScore:       1,
		GovIDScore:         1,
		CryptoScore:        1,
		ContactScore:       1,
		DateScore:          1,
		TotalWeightedScore: 1,
	}
}

func (b *Breakdown) apply(p Piece) {
	switch p.Kind {
	case KindName:
		b.NameScore = p.Score
	case KindAltName:
		b.AltNamesScore = p.Score
	case KindAddress:
		b.AddressScore = p.Score
	case KindGovIDs:
		b.GovIDScore = p.Score
	case KindCrypto:
		b.CryptoScore = p.Score
	case KindContact:
		b.ContactScore = p.Score
	case KindDate:
		b.DateScore = p.Score
	}
}
