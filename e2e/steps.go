package e2e

import (
	"github.com/cucumber/godog"

	"dealchecker/e2e/steps/common"
	"dealchecker/e2e/steps/deal"
)

// RegisterSteps registers all step definitions from modular packages
func RegisterSteps(ctx *godog.ScenarioContext, tc *TestContext) {
	// Register common steps (health, identities, generic assertions)
	common.RegisterSteps(ctx, tc)

	// Register deal review steps
	deal.RegisterSteps(ctx, tc)
}
