package compliance

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"dealchecker/internal/deal"
	dErrors "dealchecker/pkg/domain-errors"
)

// MalformedDealError means the registry snapshot lacks attributes that rule
// predicates read, or carries values no predicate recognizes. Neither case is
// defaulted.
type MalformedDealError struct {
	DealID  string
	Missing []deal.Attribute
	// Unrecognized holds attribute values outside their known set, such as a
	// deal type the catalog has no rules for.
	Unrecognized map[deal.Attribute]string
}

func (e *MalformedDealError) Error() string {
	var parts []string
	if len(e.Missing) > 0 {
		parts = append(parts, "missing attributes: "+strings.Join(e.missingNames(), ", "))
	}
	for _, a := range slices.Sorted(maps.Keys(e.Unrecognized)) {
		parts = append(parts, fmt.Sprintf("unrecognized %s %q", a, e.Unrecognized[a]))
	}
	return fmt.Sprintf("deal %s is malformed: %s", e.DealID, strings.Join(parts, "; "))
}

func (e *MalformedDealError) ErrorCode() dErrors.Code {
	return dErrors.CodeMalformedDeal
}

func (e *MalformedDealError) ErrorDetails() map[string]any {
	details := map[string]any{
		"dealId":            e.DealID,
		"missingAttributes": e.missingNames(),
	}
	if len(e.Unrecognized) > 0 {
		unrecognized := make(map[string]string, len(e.Unrecognized))
		for a, v := range e.Unrecognized {
			unrecognized[string(a)] = v
		}
		details["unrecognizedAttributes"] = unrecognized
	}
	return details
}

func (e *MalformedDealError) missingNames() []string {
	names := make([]string, len(e.Missing))
	for i, a := range e.Missing {
		names[i] = string(a)
	}
	return names
}
