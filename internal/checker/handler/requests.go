package handler

import (
	"strings"
	"unicode/utf8"

	"dealchecker/internal/task"
	dErrors "dealchecker/pkg/domain-errors"
)

const maxCommentLength = 4000

// ResolutionRequest is the body of POST /deal/{id}/task and
// POST /deal/{id}/task/{taskId}/resolve.
type ResolutionRequest struct {
	Resolution *ResolutionPayload `json:"resolution"`
}

type ResolutionPayload struct {
	Type    string `json:"type"`
	Comment string `json:"comment,omitempty"`
}

// Validate implements httputil.Validatable.
func (r *ResolutionRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	if utf8.RuneCountInString(r.resolutionComment()) > maxCommentLength {
		return dErrors.New(dErrors.CodeValidation, "comment must be at most 4000 characters")
	}
	return r.Parsed().Validate()
}

// Parsed returns the domain resolution; nil when the body had none.
func (r *ResolutionRequest) Parsed() *task.Resolution {
	if r.Resolution == nil {
		return nil
	}
	return &task.Resolution{
		Type:    task.ResolutionType(strings.TrimSpace(r.Resolution.Type)),
		Comment: strings.TrimSpace(r.Resolution.Comment),
	}
}

func (r *ResolutionRequest) resolutionComment() string {
	if r.Resolution == nil {
		return ""
	}
	return r.Resolution.Comment
}
