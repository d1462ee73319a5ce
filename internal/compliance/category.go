// Package compliance classifies submitted deal files into document categories
// and decides which validation rules apply to a deal.
package compliance

// Category is one of the ten fixed document categories.
type Category string

const (
	CategoryContract               Category = "contract"
	CategoryStamp                  Category = "stamp"
	CategoryEGRN                   Category = "egrn"
	CategoryFamilyCapital          Category = "family_capital"
	CategoryDownPayment            Category = "down_payment"
	CategoryCertificateAbsence     Category = "certificate_absence"
	CategoryAcceptanceCertificate  Category = "acceptance_certificate"
	CategoryAbsenceOfArrears       Category = "absence_of_arrears"
	CategoryRegistrationOfUnderage Category = "registration_of_underage"
	CategoryAllocationOfPart       Category = "allocation_of_part"
)

// categories is the closed set in presentation order.
var categories = [...]Category{
	CategoryContract,
	CategoryStamp,
	CategoryEGRN,
	CategoryFamilyCapital,
	CategoryDownPayment,
	CategoryCertificateAbsence,
	CategoryAcceptanceCertificate,
	CategoryAbsenceOfArrears,
	CategoryRegistrationOfUnderage,
	CategoryAllocationOfPart,
}

// labelAliases maps legacy storage labels onto category keys.
var labelAliases = map[string]Category{
	"egrn_extract":           CategoryEGRN,
	"certificate_of_absence": CategoryCertificateAbsence,
}

// Categories returns every category in presentation order.
func Categories() []Category {
	out := make([]Category, len(categories))
	copy(out, categories[:])
	return out
}

// ParseCategory resolves a raw storage label. Matching is exact.
func ParseCategory(label string) (Category, bool) {
	if c := Category(label); c.Valid() {
		return c, true
	}
	c, ok := labelAliases[label]
	return c, ok
}

func (c Category) String() string {
	return string(c)
}

// Valid reports whether c is one of the fixed categories.
func (c Category) Valid() bool {
	for _, known := range categories {
		if c == known {
			return true
		}
	}
	return false
}
