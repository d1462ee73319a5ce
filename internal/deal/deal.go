// Package deal models the read-only deal snapshot fetched from the deal
// registry and the chronology of its lifecycle statuses.
package deal

import (
	"time"

	"github.com/shopspring/decimal"
)

// Type is the legal form of the transaction.
type Type string

const (
	TypeSale                Type = "SALE"
	TypeEquityParticipation Type = "EQUITY_PARTICIPATION"
	TypeAssignment          Type = "ASSIGNMENT"
)

// Valid reports whether t is one of the known deal types.
func (t Type) Valid() bool {
	switch t {
	case TypeSale, TypeEquityParticipation, TypeAssignment:
		return true
	}
	return false
}

// Attribute names a deal field consumed by compliance rules.
type Attribute string

const (
	AttrType            Attribute = "dealType"
	AttrFamilyCapital   Attribute = "familyCapital"
	AttrDownPayment     Attribute = "downPayment"
	AttrMinorsOnTitle   Attribute = "minorsOnTitle"
	AttrMortgage        Attribute = "mortgage"
	AttrSharedOwnership Attribute = "sharedOwnership"
)

// Deal is a snapshot owned by the deal registry. Rule attributes are pointers
// because the registry may omit them; a nil attribute is "unknown", not false.
type Deal struct {
	ID         string
	Status     Status
	ModifiedAt string

	Type            *Type
	FamilyCapital   *bool
	DownPayment     *decimal.Decimal
	MinorsOnTitle   *bool
	Mortgage        *bool
	SharedOwnership *bool

	FetchedAt time.Time
}

// Has reports whether the attribute was supplied by the registry.
func (d Deal) Has(a Attribute) bool {
	switch a {
	case AttrType:
		return d.Type != nil && *d.Type != ""
	case AttrFamilyCapital:
		return d.FamilyCapital != nil
	case AttrDownPayment:
		return d.DownPayment != nil
	case AttrMinorsOnTitle:
		return d.MinorsOnTitle != nil
	case AttrMortgage:
		return d.Mortgage != nil
	case AttrSharedOwnership:
		return d.SharedOwnership != nil
	default:
		return false
	}
}

// Missing returns the attributes from attrs that the deal lacks, in input order.
func (d Deal) Missing(attrs ...Attribute) []Attribute {
	var missing []Attribute
	for _, a := range attrs {
		if !d.Has(a) {
			missing = append(missing, a)
		}
	}
	return missing
}

// The accessors below must only be called after Missing returned nothing for
// the attribute; they dereference unconditionally.

func (d Deal) IsType(t Type) bool       { return *d.Type == t }
func (d Deal) UsesFamilyCapital() bool  { return *d.FamilyCapital }
func (d Deal) HasMinorsOnTitle() bool   { return *d.MinorsOnTitle }
func (d Deal) UsesMortgage() bool       { return *d.Mortgage }
func (d Deal) HasSharedOwnership() bool { return *d.SharedOwnership }

// HasDownPayment is true for a strictly positive down payment.
func (d Deal) HasDownPayment() bool {
	return d.DownPayment.IsPositive()
}

// Ptr is a small helper for building snapshots in adapters and tests.
func Ptr[T any](v T) *T {
	return &v
}
