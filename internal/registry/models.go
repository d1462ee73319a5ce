package registry

import (
	"github.com/shopspring/decimal"

	"dealchecker/internal/deal"
)

type dealEnvelope struct {
	Deal *dealPayload `json:"deal"`
}

// dealPayload is the registry's wire shape. Everything but the id is optional.
type dealPayload struct {
	ID              string           `json:"id"`
	DealStatus      string           `json:"dealStatus"`
	ModifiedAt      string           `json:"modifiedAt,omitempty"`
	DealType        *string          `json:"dealType,omitempty"`
	FamilyCapital   *bool            `json:"familyCapital,omitempty"`
	DownPayment     *decimal.Decimal `json:"downPayment,omitempty"`
	MinorsOnTitle   *bool            `json:"minorsOnTitle,omitempty"`
	Mortgage        *bool            `json:"mortgage,omitempty"`
	SharedOwnership *bool            `json:"sharedOwnership,omitempty"`
}

type errorPayload struct {
	Code    string `json:"code"`
	Details string `json:"details"`
}

type rejectPayload struct {
	Comment string `json:"comment,omitempty"`
}

// toDomain keeps unknown status values as-is; the chronology guard reports
// them when it is consulted.
func (p dealPayload) toDomain() deal.Deal {
	d := deal.Deal{
		ID:              p.ID,
		Status:          deal.Status(p.DealStatus),
		ModifiedAt:      p.ModifiedAt,
		FamilyCapital:   p.FamilyCapital,
		DownPayment:     p.DownPayment,
		MinorsOnTitle:   p.MinorsOnTitle,
		Mortgage:        p.Mortgage,
		SharedOwnership: p.SharedOwnership,
	}
	if p.DealType != nil {
		t := deal.Type(*p.DealType)
		d.Type = &t
	}
	return d
}
