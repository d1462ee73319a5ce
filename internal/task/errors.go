package task

import dErrors "dealchecker/pkg/domain-errors"

// InvalidResolutionError is a caller input error on task creation or resolution.
type InvalidResolutionError struct {
	Reason string
}

func (e *InvalidResolutionError) Error() string {
	return "invalid resolution: " + e.Reason
}

func (e *InvalidResolutionError) ErrorCode() dErrors.Code {
	return dErrors.CodeValidation
}

func (e *InvalidResolutionError) ErrorDetails() map[string]any {
	return map[string]any{"reason": e.Reason}
}
