package registry

import (
	"fmt"

	dErrors "dealchecker/pkg/domain-errors"
)

// CodeNotFound is the registry's code for an unknown deal.
const CodeNotFound = "NOT_FOUND"

// ServiceError is a failure reported by the deal registry. NOT_FOUND maps to
// not_found; every other code is an upstream failure carrying the registry's
// code and details.
type ServiceError struct {
	DealID  string
	Code    string
	Details string
}

func (e *ServiceError) Error() string {
	if e.Code == CodeNotFound {
		return fmt.Sprintf("deal %s not found", e.DealID)
	}
	return fmt.Sprintf("deal registry error for deal %s: %s %s", e.DealID, e.Code, e.Details)
}

func (e *ServiceError) ErrorCode() dErrors.Code {
	if e.Code == CodeNotFound {
		return dErrors.CodeNotFound
	}
	return dErrors.CodeUpstream
}

func (e *ServiceError) ErrorDetails() map[string]any {
	if e.Code == CodeNotFound {
		return map[string]any{"dealId": e.DealID}
	}
	return map[string]any{
		"dealId":  e.DealID,
		"code":    e.Code,
		"details": e.Details,
	}
}
