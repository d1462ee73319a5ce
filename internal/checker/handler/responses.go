package handler

import (
	"time"

	"github.com/shopspring/decimal"

	"dealchecker/internal/checker"
	"dealchecker/internal/compliance"
	"dealchecker/internal/deal"
	"dealchecker/internal/task"
)

type DealResponse struct {
	ID              string           `json:"id"`
	DealStatus      string           `json:"dealStatus"`
	ModifiedAt      string           `json:"modifiedAt,omitempty"`
	DealType        *deal.Type       `json:"dealType,omitempty"`
	FamilyCapital   *bool            `json:"familyCapital,omitempty"`
	DownPayment     *decimal.Decimal `json:"downPayment,omitempty"`
	MinorsOnTitle   *bool            `json:"minorsOnTitle,omitempty"`
	Mortgage        *bool            `json:"mortgage,omitempty"`
	SharedOwnership *bool            `json:"sharedOwnership,omitempty"`
}

type ResolutionResponse struct {
	Type    string `json:"type"`
	Comment string `json:"comment,omitempty"`
}

type TaskResponse struct {
	ID         string              `json:"id"`
	DealID     string              `json:"dealId"`
	Status     string              `json:"status"`
	CheckType  string              `json:"checkType"`
	Resolution *ResolutionResponse `json:"resolution,omitempty"`
	Category   string              `json:"category,omitempty"`
	Issue      string              `json:"issue,omitempty"`
	ActorID    string              `json:"actorId,omitempty"`
	CreatedAt  time.Time           `json:"createdAt"`
	ResolvedAt *time.Time          `json:"resolvedAt,omitempty"`
}

type FileResponse struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Category   string    `json:"category"`
	Label      string    `json:"label"`
	Size       int64     `json:"size"`
	UploadedAt time.Time `json:"uploadedAt"`
}

type OverviewResponse struct {
	ID       string         `json:"id"`
	Status   string         `json:"status"`
	Deal     DealResponse   `json:"deal"`
	Tasks    []TaskResponse `json:"tasks"`
	Revision string         `json:"revision"`
}

type ComplianceResponse struct {
	OverviewResponse
	Files  []FileResponse            `json:"files"`
	Checks map[string][]string       `json:"checks"`
	Groups map[string][]FileResponse `json:"groups"`
}

func toDealResponse(d deal.Deal) DealResponse {
	return DealResponse{
		ID:              d.ID,
		DealStatus:      string(d.Status),
		ModifiedAt:      d.ModifiedAt,
		DealType:        d.Type,
		FamilyCapital:   d.FamilyCapital,
		DownPayment:     d.DownPayment,
		MinorsOnTitle:   d.MinorsOnTitle,
		Mortgage:        d.Mortgage,
		SharedOwnership: d.SharedOwnership,
	}
}

func toTaskResponse(t *task.Task) TaskResponse {
	resp := TaskResponse{
		ID:         t.ID,
		DealID:     t.DealID,
		Status:     string(t.Status),
		CheckType:  string(t.CheckType),
		Category:   string(t.Category),
		Issue:      t.Issue,
		ActorID:    t.ActorID,
		CreatedAt:  t.CreatedAt,
		ResolvedAt: t.ResolvedAt,
	}
	if t.Resolution != nil {
		resp.Resolution = &ResolutionResponse{Type: string(t.Resolution.Type), Comment: t.Resolution.Comment}
	}
	return resp
}

func toTaskResponses(tasks []*task.Task) []TaskResponse {
	out := make([]TaskResponse, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, toTaskResponse(t))
	}
	return out
}

func toFileResponses(files []compliance.File) []FileResponse {
	out := make([]FileResponse, 0, len(files))
	for _, f := range files {
		out = append(out, FileResponse{
			ID:         f.ID,
			Name:       f.Name,
			Category:   string(f.Category),
			Label:      f.Label,
			Size:       f.Size,
			UploadedAt: f.UploadedAt,
		})
	}
	return out
}

func toOverviewResponse(dealID string, o checker.Overview) OverviewResponse {
	id := o.Deal.ID
	if id == "" {
		id = dealID
	}
	return OverviewResponse{
		ID:       id,
		Status:   string(o.Label),
		Deal:     toDealResponse(o.Deal),
		Tasks:    toTaskResponses(o.Tasks),
		Revision: o.Revision,
	}
}

func toComplianceResponse(dealID string, v *checker.ComplianceView) ComplianceResponse {
	checks := make(map[string][]string, len(v.Result.Rules))
	for cat, types := range v.Result.Checks() {
		names := make([]string, len(types))
		for i, t := range types {
			names[i] = string(t)
		}
		checks[string(cat)] = names
	}
	groups := make(map[string][]FileResponse, len(v.Result.Files))
	for cat, files := range v.Result.Files {
		groups[string(cat)] = toFileResponses(files)
	}
	return ComplianceResponse{
		OverviewResponse: toOverviewResponse(dealID, v.Overview),
		Files:            toFileResponses(v.Result.FlatFiles()),
		Checks:           checks,
		Groups:           groups,
	}
}
