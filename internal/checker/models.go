package checker

import (
	"dealchecker/internal/compliance"
	"dealchecker/internal/deal"
	"dealchecker/internal/task"
)

// Overview is the reviewer's landing view of a deal.
type Overview struct {
	Deal     deal.Deal
	Label    deal.Label
	Tasks    []*task.Task
	Revision string
}

// ComplianceView adds the compliance result to the overview. Tasks include
// any system checks opened by this request.
type ComplianceView struct {
	Overview
	Result *compliance.Result
	Opened []*task.Task
}

func newOverview(d deal.Deal, tasks []*task.Task) Overview {
	if tasks == nil {
		tasks = []*task.Task{}
	}
	return Overview{
		Deal:     d,
		Label:    deal.LabelFor(d.Status),
		Tasks:    tasks,
		Revision: d.ModifiedAt,
	}
}
