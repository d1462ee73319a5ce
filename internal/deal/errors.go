package deal

import (
	"fmt"

	dErrors "dealchecker/pkg/domain-errors"
)

// PreconditionFailedError is returned when a deal has not progressed far
// enough for the requested operation. It is never retried automatically.
type PreconditionFailedError struct {
	DealID         string
	RequiredStatus Status
	ActualStatus   Status
}

func (e *PreconditionFailedError) Error() string {
	return fmt.Sprintf("deal %s is in status %s, requires %s or later", e.DealID, e.ActualStatus, e.RequiredStatus)
}

func (e *PreconditionFailedError) ErrorCode() dErrors.Code {
	return dErrors.CodePreconditionFailed
}

func (e *PreconditionFailedError) ErrorDetails() map[string]any {
	return map[string]any{
		"dealId":         e.DealID,
		"requiredStatus": string(e.RequiredStatus),
		"actualStatus":   string(e.ActualStatus),
	}
}

// UnknownStatusError means the registry sent a status missing from the
// lifecycle table. The table must be exhaustive, so this is an internal error.
type UnknownStatusError struct {
	Status string
}

func (e *UnknownStatusError) Error() string {
	return fmt.Sprintf("unknown deal status %q", e.Status)
}

func (e *UnknownStatusError) ErrorCode() dErrors.Code {
	return dErrors.CodeInternal
}
