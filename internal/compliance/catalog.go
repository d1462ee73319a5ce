package compliance

import "dealchecker/internal/deal"

// RuleType is the stable identifier of a validation rule.
type RuleType string

const (
	RuleContractSignatures           RuleType = "CONTRACT_SIGNATURES"
	RuleContractPriceMatches         RuleType = "CONTRACT_PRICE_MATCHES"
	RuleContractMortgageClause       RuleType = "CONTRACT_MORTGAGE_CLAUSE"
	RuleContractFamilyCapitalClause  RuleType = "CONTRACT_FAMILY_CAPITAL_CLAUSE"
	RuleContractUnderageConsent      RuleType = "CONTRACT_UNDERAGE_CONSENT"
	RuleStampRegistrationPresent     RuleType = "STAMP_REGISTRATION_PRESENT"
	RuleStampMortgageEncumbrance     RuleType = "STAMP_MORTGAGE_ENCUMBRANCE"
	RuleEGRNOwnerMatches             RuleType = "EGRN_OWNER_MATCHES"
	RuleEGRNFreshness                RuleType = "EGRN_FRESHNESS"
	RuleEGRNSharesMatch              RuleType = "EGRN_SHARES_MATCH"
	RuleFamilyCapitalCertificate     RuleType = "FAMILY_CAPITAL_CERTIFICATE"
	RuleFamilyCapitalPensionApproval RuleType = "FAMILY_CAPITAL_PENSION_FUND_APPROVAL"
	RuleDownPaymentReceipt           RuleType = "DOWN_PAYMENT_RECEIPT"
	RuleDownPaymentAmountMatches     RuleType = "DOWN_PAYMENT_AMOUNT_MATCHES"
	RuleCertificateAbsenceRegistered RuleType = "CERTIFICATE_ABSENCE_OF_REGISTERED"
	RuleAcceptanceCertificateSigned  RuleType = "ACCEPTANCE_CERTIFICATE_SIGNED"
	RuleAbsenceOfArrearsUtilities    RuleType = "ABSENCE_OF_ARREARS_UTILITIES"
	RuleUnderageGuardianship         RuleType = "UNDERAGE_GUARDIANSHIP_PERMISSION"
	RuleUnderageRegistrationExtract  RuleType = "UNDERAGE_REGISTRATION_EXTRACT"
	RuleAllocationOfPartAgreement    RuleType = "ALLOCATION_OF_PART_AGREEMENT"
)

// Rule is a static validation rule definition. Applies may only read the
// attributes listed in Requires.
type Rule struct {
	Type     RuleType
	Category Category
	Requires []deal.Attribute
	Applies  func(deal.Deal) bool
}

func always(deal.Deal) bool { return true }

func mortgage(d deal.Deal) bool        { return d.UsesMortgage() }
func familyCapital(d deal.Deal) bool   { return d.UsesFamilyCapital() }
func minors(d deal.Deal) bool          { return d.HasMinorsOnTitle() }
func sharedOwnership(d deal.Deal) bool { return d.HasSharedOwnership() }
func downPayment(d deal.Deal) bool     { return d.HasDownPayment() }

func dealType(t deal.Type) func(deal.Deal) bool {
	return func(d deal.Deal) bool { return d.IsType(t) }
}

func needs(attrs ...deal.Attribute) []deal.Attribute { return attrs }

// catalog holds each category's rules in evaluation order.
var catalog = map[Category][]Rule{
	CategoryContract: {
		{Type: RuleContractSignatures, Applies: always},
		{Type: RuleContractPriceMatches, Applies: always},
		{Type: RuleContractMortgageClause, Requires: needs(deal.AttrMortgage), Applies: mortgage},
		{Type: RuleContractFamilyCapitalClause, Requires: needs(deal.AttrFamilyCapital), Applies: familyCapital},
		{Type: RuleContractUnderageConsent, Requires: needs(deal.AttrMinorsOnTitle), Applies: minors},
	},
	CategoryStamp: {
		{Type: RuleStampRegistrationPresent, Applies: always},
		{Type: RuleStampMortgageEncumbrance, Requires: needs(deal.AttrMortgage), Applies: mortgage},
	},
	CategoryEGRN: {
		{Type: RuleEGRNOwnerMatches, Applies: always},
		{Type: RuleEGRNFreshness, Applies: always},
		{Type: RuleEGRNSharesMatch, Requires: needs(deal.AttrSharedOwnership), Applies: sharedOwnership},
	},
	CategoryFamilyCapital: {
		{Type: RuleFamilyCapitalCertificate, Requires: needs(deal.AttrFamilyCapital), Applies: familyCapital},
		{Type: RuleFamilyCapitalPensionApproval, Requires: needs(deal.AttrFamilyCapital), Applies: familyCapital},
	},
	CategoryDownPayment: {
		{Type: RuleDownPaymentReceipt, Requires: needs(deal.AttrDownPayment), Applies: downPayment},
		{Type: RuleDownPaymentAmountMatches, Requires: needs(deal.AttrDownPayment), Applies: downPayment},
	},
	CategoryCertificateAbsence: {
		{Type: RuleCertificateAbsenceRegistered, Requires: needs(deal.AttrType), Applies: dealType(deal.TypeSale)},
	},
	CategoryAcceptanceCertificate: {
		{Type: RuleAcceptanceCertificateSigned, Requires: needs(deal.AttrType), Applies: dealType(deal.TypeEquityParticipation)},
	},
	CategoryAbsenceOfArrears: {
		{Type: RuleAbsenceOfArrearsUtilities, Requires: needs(deal.AttrType), Applies: dealType(deal.TypeSale)},
	},
	CategoryRegistrationOfUnderage: {
		{Type: RuleUnderageGuardianship, Requires: needs(deal.AttrMinorsOnTitle), Applies: minors},
		{Type: RuleUnderageRegistrationExtract, Requires: needs(deal.AttrMinorsOnTitle), Applies: minors},
	},
	CategoryAllocationOfPart: {
		{
			Type:     RuleAllocationOfPartAgreement,
			Requires: needs(deal.AttrFamilyCapital, deal.AttrSharedOwnership),
			Applies:  func(d deal.Deal) bool { return d.UsesFamilyCapital() || d.HasSharedOwnership() },
		},
	},
}

func init() {
	for cat, rules := range catalog {
		for i := range rules {
			rules[i].Category = cat
		}
	}
}

// RequiredAttributes lists every attribute some rule predicate reads, in
// first-use order across the catalog.
func RequiredAttributes() []deal.Attribute {
	seen := make(map[deal.Attribute]bool)
	var out []deal.Attribute
	for _, cat := range categories {
		for _, r := range catalog[cat] {
			for _, a := range r.Requires {
				if !seen[a] {
					seen[a] = true
					out = append(out, a)
				}
			}
		}
	}
	return out
}

// RulesFor returns, for every category, the rules applicable to d in catalog
// order. It fails with MalformedDealError before evaluating any predicate if
// d lacks an attribute a rule requires.
func RulesFor(d deal.Deal) (map[Category][]Rule, error) {
	if missing := d.Missing(RequiredAttributes()...); len(missing) > 0 {
		return nil, &MalformedDealError{DealID: d.ID, Missing: missing}
	}
	if !d.Type.Valid() {
		return nil, &MalformedDealError{
			DealID:       d.ID,
			Unrecognized: map[deal.Attribute]string{deal.AttrType: string(*d.Type)},
		}
	}

	out := make(map[Category][]Rule, len(categories))
	for _, cat := range categories {
		applicable := []Rule{}
		for _, r := range catalog[cat] {
			if r.Applies(d) {
				applicable = append(applicable, r)
			}
		}
		out[cat] = applicable
	}
	return out, nil
}

// RuleTypes projects rules onto their identifiers.
func RuleTypes(rules []Rule) []RuleType {
	out := make([]RuleType, 0, len(rules))
	for _, r := range rules {
		out = append(out, r.Type)
	}
	return out
}
