// Package task records review decisions on deals: human accept/reject checks
// and system checks opened by compliance runs.
package task

import (
	"strings"
	"time"

	"dealchecker/internal/compliance"
)

type Status string

const (
	StatusOpen Status = "OPEN"
	StatusDone Status = "DONE"
)

type CheckType string

const (
	CheckTypeSystem CheckType = "SYSTEM_CHECK"
	CheckTypeHuman  CheckType = "HUMAN_CHECK"
)

type ResolutionType string

const (
	ResolutionAccept ResolutionType = "ACCEPT"
	ResolutionReject ResolutionType = "REJECT"
)

// IssueMissingDocuments marks a system task opened for a category that has
// applicable rules but no submitted files.
const IssueMissingDocuments = "missing_documents"

// Resolution is a reviewer decision. Comment is optional and only carried by
// rejections.
type Resolution struct {
	Type    ResolutionType
	Comment string
}

// Validate requires exactly ACCEPT or REJECT.
func (r *Resolution) Validate() error {
	if r == nil {
		return &InvalidResolutionError{Reason: "resolution is required"}
	}
	switch r.Type {
	case ResolutionAccept:
		if strings.TrimSpace(r.Comment) != "" {
			return &InvalidResolutionError{Reason: "comment is only allowed for REJECT"}
		}
		return nil
	case ResolutionReject:
		return nil
	case "":
		return &InvalidResolutionError{Reason: "resolution type is required"}
	default:
		return &InvalidResolutionError{Reason: "unknown resolution type " + string(r.Type)}
	}
}

// Task is one review unit. Human checks are created DONE; system checks are
// created OPEN and move to DONE once.
type Task struct {
	ID             string
	DealID         string
	Status         Status
	CheckType      CheckType
	Resolution     *Resolution
	Category       compliance.Category
	Issue          string
	IdempotencyKey string
	ActorID        string
	CreatedAt      time.Time
	ResolvedAt     *time.Time
}

// CanResolve reports whether the OPEN->DONE transition is allowed.
func (t *Task) CanResolve() bool {
	return t.Status == StatusOpen && t.CheckType == CheckTypeSystem
}
