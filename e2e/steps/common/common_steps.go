package common

import (
	"context"
	"fmt"
	"strings"

	"github.com/cucumber/godog"
)

// TestContext interface defines the methods needed from the main test context
type TestContext interface {
	GET(path string, headers map[string]string) error
	Authenticate(userID, role string, permissions []string) error
	ClearToken()
	GetLastStatusCode() int
	GetLastBody() []byte
	GetResponseField(field string) (any, error)
}

// RegisterSteps registers the steps shared by every feature
func RegisterSteps(ctx *godog.ScenarioContext, tc TestContext) {
	steps := &commonSteps{tc: tc}

	// Background steps
	ctx.Step(`^the deal checker is running$`, steps.serviceIsRunning)
	ctx.Step(`^I am employee "([^"]*)" with permissions "([^"]*)"$`, steps.authenticateEmployee)
	ctx.Step(`^I am "([^"]*)" with role "([^"]*)" and permissions "([^"]*)"$`, steps.authenticateWithRole)
	ctx.Step(`^I am not authenticated$`, steps.notAuthenticated)

	// Assertions
	ctx.Step(`^the response status should be (\d+)$`, steps.statusShouldBe)
	ctx.Step(`^the response field "([^"]*)" should be "([^"]*)"$`, steps.fieldShouldBe)
	ctx.Step(`^the response field "([^"]*)" should not be empty$`, steps.fieldShouldNotBeEmpty)
	ctx.Step(`^the error should be "([^"]*)"$`, steps.errorShouldBe)
}

type commonSteps struct {
	tc TestContext
}

func (s *commonSteps) serviceIsRunning(ctx context.Context) error {
	if err := s.tc.GET("/health", nil); err != nil {
		return err
	}
	if s.tc.GetLastStatusCode() != 200 {
		return fmt.Errorf("health returned %d: %s", s.tc.GetLastStatusCode(), s.tc.GetLastBody())
	}
	return nil
}

func (s *commonSteps) authenticateEmployee(ctx context.Context, userID, permissions string) error {
	return s.tc.Authenticate(userID, "EMPLOYEE", splitList(permissions))
}

func (s *commonSteps) authenticateWithRole(ctx context.Context, userID, role, permissions string) error {
	return s.tc.Authenticate(userID, role, splitList(permissions))
}

func (s *commonSteps) notAuthenticated(ctx context.Context) error {
	s.tc.ClearToken()
	return nil
}

func (s *commonSteps) statusShouldBe(ctx context.Context, expected int) error {
	if actual := s.tc.GetLastStatusCode(); actual != expected {
		return fmt.Errorf("expected status %d, got %d: %s", expected, actual, s.tc.GetLastBody())
	}
	return nil
}

func (s *commonSteps) fieldShouldBe(ctx context.Context, field, expected string) error {
	value, err := s.tc.GetResponseField(field)
	if err != nil {
		return err
	}
	if actual := fmt.Sprint(value); actual != expected {
		return fmt.Errorf("expected %s to be %q, got %q", field, expected, actual)
	}
	return nil
}

func (s *commonSteps) fieldShouldNotBeEmpty(ctx context.Context, field string) error {
	value, err := s.tc.GetResponseField(field)
	if err != nil {
		return err
	}
	switch v := value.(type) {
	case nil:
		return fmt.Errorf("%s is null", field)
	case string:
		if v == "" {
			return fmt.Errorf("%s is empty", field)
		}
	case []any:
		if len(v) == 0 {
			return fmt.Errorf("%s is empty", field)
		}
	case map[string]any:
		if len(v) == 0 {
			return fmt.Errorf("%s is empty", field)
		}
	}
	return nil
}

func (s *commonSteps) errorShouldBe(ctx context.Context, code string) error {
	return s.fieldShouldBe(ctx, "error", code)
}

func splitList(raw string) []string {
	var out []string
	for _, p := range strings.Split(raw, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
