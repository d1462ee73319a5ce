package deal

import (
	"context"
	"fmt"

	"github.com/cucumber/godog"
)

// TestContext interface defines the methods needed from the main test context
type TestContext interface {
	GET(path string, headers map[string]string) error
	POST(path string, body any, headers map[string]string) error
	GetResponseField(field string) (any, error)
	Save(name, value string)
	Saved(name string) (string, error)
}

// RegisterSteps registers deal review step definitions
func RegisterSteps(ctx *godog.ScenarioContext, tc TestContext) {
	steps := &dealSteps{tc: tc}

	// Reads
	ctx.Step(`^I open deal "([^"]*)"$`, steps.openDeal)
	ctx.Step(`^I run the compliance check for deal "([^"]*)"$`, steps.runCompliance)
	ctx.Step(`^I download file "([^"]*)" of deal "([^"]*)"$`, steps.downloadFile)

	// Task lifecycle
	ctx.Step(`^I record resolution "([^"]*)" for deal "([^"]*)"$`, steps.recordResolution)
	ctx.Step(`^I record resolution "([^"]*)" with comment "([^"]*)" for deal "([^"]*)"$`, steps.recordResolutionWithComment)
	ctx.Step(`^I record resolution "([^"]*)" for deal "([^"]*)" with idempotency key "([^"]*)"$`, steps.recordResolutionWithKey)
	ctx.Step(`^I save the task id as "([^"]*)"$`, steps.saveTaskID)
	ctx.Step(`^I save the first open system check as "([^"]*)"$`, steps.saveFirstOpenSystemCheck)
	ctx.Step(`^I resolve task "([^"]*)" of deal "([^"]*)" with "([^"]*)"$`, steps.resolveTask)
	ctx.Step(`^I fetch task "([^"]*)" of deal "([^"]*)"$`, steps.fetchTask)

	// Assertions
	ctx.Step(`^the task id should equal "([^"]*)"$`, steps.taskIDShouldEqual)
}

type dealSteps struct {
	tc TestContext
}

func (s *dealSteps) openDeal(ctx context.Context, dealID string) error {
	return s.tc.GET("/deal/"+dealID, nil)
}

func (s *dealSteps) runCompliance(ctx context.Context, dealID string) error {
	return s.tc.GET("/deal/"+dealID+"/compliance", nil)
}

func (s *dealSteps) downloadFile(ctx context.Context, fileID, dealID string) error {
	return s.tc.GET("/deal/"+dealID+"/files/"+fileID, nil)
}

func resolutionBody(resolution, comment string) map[string]any {
	res := map[string]any{"type": resolution}
	if comment != "" {
		res["comment"] = comment
	}
	return map[string]any{"resolution": res}
}

func (s *dealSteps) recordResolution(ctx context.Context, resolution, dealID string) error {
	return s.tc.POST("/deal/"+dealID+"/task", resolutionBody(resolution, ""), nil)
}

func (s *dealSteps) recordResolutionWithComment(ctx context.Context, resolution, comment, dealID string) error {
	return s.tc.POST("/deal/"+dealID+"/task", resolutionBody(resolution, comment), nil)
}

func (s *dealSteps) recordResolutionWithKey(ctx context.Context, resolution, dealID, key string) error {
	return s.tc.POST("/deal/"+dealID+"/task", resolutionBody(resolution, ""), map[string]string{"Idempotency-Key": key})
}

func (s *dealSteps) saveTaskID(ctx context.Context, name string) error {
	id, err := s.tc.GetResponseField("id")
	if err != nil {
		return err
	}
	s.tc.Save(name, fmt.Sprint(id))
	return nil
}

func (s *dealSteps) saveFirstOpenSystemCheck(ctx context.Context, name string) error {
	raw, err := s.tc.GetResponseField("tasks")
	if err != nil {
		return err
	}
	tasks, ok := raw.([]any)
	if !ok {
		return fmt.Errorf("tasks is not a list")
	}
	for _, item := range tasks {
		t, ok := item.(map[string]any)
		if !ok {
			continue
		}
		if t["checkType"] == "SYSTEM_CHECK" && t["status"] == "OPEN" {
			s.tc.Save(name, fmt.Sprint(t["id"]))
			return nil
		}
	}
	return fmt.Errorf("no open system check in response")
}

func (s *dealSteps) resolveTask(ctx context.Context, name, dealID, resolution string) error {
	id, err := s.tc.Saved(name)
	if err != nil {
		return err
	}
	return s.tc.POST("/deal/"+dealID+"/task/"+id+"/resolve", resolutionBody(resolution, ""), nil)
}

func (s *dealSteps) fetchTask(ctx context.Context, name, dealID string) error {
	id, err := s.tc.Saved(name)
	if err != nil {
		return err
	}
	return s.tc.GET("/deal/"+dealID+"/task/"+id, nil)
}

func (s *dealSteps) taskIDShouldEqual(ctx context.Context, name string) error {
	want, err := s.tc.Saved(name)
	if err != nil {
		return err
	}
	got, err := s.tc.GetResponseField("id")
	if err != nil {
		return err
	}
	if fmt.Sprint(got) != want {
		return fmt.Errorf("expected task %s, got %v", want, got)
	}
	return nil
}
