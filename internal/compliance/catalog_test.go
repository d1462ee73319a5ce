package compliance

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dealchecker/internal/deal"
	dErrors "dealchecker/pkg/domain-errors"
)

func TestRulesFor(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*deal.Deal)
		want   map[Category][]RuleType
	}{
		{
			name:   "plain sale",
			modify: func(*deal.Deal) {},
			want: map[Category][]RuleType{
				CategoryContract:           {RuleContractSignatures, RuleContractPriceMatches},
				CategoryStamp:              {RuleStampRegistrationPresent},
				CategoryEGRN:               {RuleEGRNOwnerMatches, RuleEGRNFreshness},
				CategoryCertificateAbsence: {RuleCertificateAbsenceRegistered},
				CategoryAbsenceOfArrears:   {RuleAbsenceOfArrearsUtilities},
			},
		},
		{
			name: "equity participation with mortgage and down payment",
			modify: func(d *deal.Deal) {
				d.Type = deal.Ptr(deal.TypeEquityParticipation)
				d.Mortgage = deal.Ptr(true)
				d.DownPayment = deal.Ptr(decimal.RequireFromString("500000"))
			},
			want: map[Category][]RuleType{
				CategoryContract:              {RuleContractSignatures, RuleContractPriceMatches, RuleContractMortgageClause},
				CategoryStamp:                 {RuleStampRegistrationPresent, RuleStampMortgageEncumbrance},
				CategoryEGRN:                  {RuleEGRNOwnerMatches, RuleEGRNFreshness},
				CategoryDownPayment:           {RuleDownPaymentReceipt, RuleDownPaymentAmountMatches},
				CategoryAcceptanceCertificate: {RuleAcceptanceCertificateSigned},
			},
		},
		{
			name: "assignment with family capital and minors",
			modify: func(d *deal.Deal) {
				d.Type = deal.Ptr(deal.TypeAssignment)
				d.FamilyCapital = deal.Ptr(true)
				d.MinorsOnTitle = deal.Ptr(true)
			},
			want: map[Category][]RuleType{
				CategoryContract: {
					RuleContractSignatures,
					RuleContractPriceMatches,
					RuleContractFamilyCapitalClause,
					RuleContractUnderageConsent,
				},
				CategoryStamp:                  {RuleStampRegistrationPresent},
				CategoryEGRN:                   {RuleEGRNOwnerMatches, RuleEGRNFreshness},
				CategoryFamilyCapital:          {RuleFamilyCapitalCertificate, RuleFamilyCapitalPensionApproval},
				CategoryRegistrationOfUnderage: {RuleUnderageGuardianship, RuleUnderageRegistrationExtract},
				CategoryAllocationOfPart:       {RuleAllocationOfPartAgreement},
			},
		},
		{
			name: "shared ownership alone needs allocation agreement",
			modify: func(d *deal.Deal) {
				d.Type = deal.Ptr(deal.TypeAssignment)
				d.SharedOwnership = deal.Ptr(true)
			},
			want: map[Category][]RuleType{
				CategoryContract:         {RuleContractSignatures, RuleContractPriceMatches},
				CategoryStamp:            {RuleStampRegistrationPresent},
				CategoryEGRN:             {RuleEGRNOwnerMatches, RuleEGRNFreshness, RuleEGRNSharesMatch},
				CategoryAllocationOfPart: {RuleAllocationOfPartAgreement},
			},
		},
		{
			name: "negative down payment is no down payment",
			modify: func(d *deal.Deal) {
				d.DownPayment = deal.Ptr(decimal.NewFromInt(-1))
			},
			want: map[Category][]RuleType{
				CategoryContract:           {RuleContractSignatures, RuleContractPriceMatches},
				CategoryStamp:              {RuleStampRegistrationPresent},
				CategoryEGRN:               {RuleEGRNOwnerMatches, RuleEGRNFreshness},
				CategoryCertificateAbsence: {RuleCertificateAbsenceRegistered},
				CategoryAbsenceOfArrears:   {RuleAbsenceOfArrearsUtilities},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := completeDeal("D")
			tt.modify(&d)

			rules, err := RulesFor(d)
			require.NoError(t, err)
			require.Len(t, rules, len(Categories()))

			for _, cat := range Categories() {
				want := tt.want[cat]
				if want == nil {
					want = []RuleType{}
				}
				assert.Equal(t, want, RuleTypes(rules[cat]), cat.String())
				for _, r := range rules[cat] {
					assert.Equal(t, cat, r.Category)
				}
			}
		})
	}
}

func TestRulesFor_MissingAttributes(t *testing.T) {
	d := completeDeal("D")
	d.Type = nil

	_, err := RulesFor(d)
	var malformed *MalformedDealError
	require.ErrorAs(t, err, &malformed)
	assert.Equal(t, []deal.Attribute{deal.AttrType}, malformed.Missing)
}

func TestRulesFor_UnrecognizedDealType(t *testing.T) {
	d := completeDeal("D")
	d.Type = deal.Ptr(deal.Type("SALES"))

	rules, err := RulesFor(d)
	assert.Nil(t, rules)
	var malformed *MalformedDealError
	require.ErrorAs(t, err, &malformed)
	assert.Empty(t, malformed.Missing)
	assert.Equal(t, map[deal.Attribute]string{deal.AttrType: "SALES"}, malformed.Unrecognized)
	assert.Equal(t, dErrors.CodeMalformedDeal, dErrors.CodeOf(err))
	assert.Equal(t, map[string]string{"dealType": "SALES"}, malformed.ErrorDetails()["unrecognizedAttributes"])
	assert.Contains(t, err.Error(), `unrecognized dealType "SALES"`)
}

func TestDealTypeValid(t *testing.T) {
	for _, typ := range []deal.Type{deal.TypeSale, deal.TypeEquityParticipation, deal.TypeAssignment} {
		assert.True(t, typ.Valid(), typ)
	}
	for _, typ := range []deal.Type{"SALES", "sale", ""} {
		assert.False(t, typ.Valid(), typ)
	}
}

func TestRequiredAttributes(t *testing.T) {
	assert.ElementsMatch(t, []deal.Attribute{
		deal.AttrType,
		deal.AttrFamilyCapital,
		deal.AttrDownPayment,
		deal.AttrMinorsOnTitle,
		deal.AttrMortgage,
		deal.AttrSharedOwnership,
	}, RequiredAttributes())
}

func TestCatalogCoversEveryCategory(t *testing.T) {
	assert.Len(t, catalog, len(Categories()))
	for _, cat := range Categories() {
		assert.NotEmpty(t, catalog[cat], cat.String())
	}
}
