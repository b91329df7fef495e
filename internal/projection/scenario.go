package projection

import (
	"fmt"

	"github.com/theirongolddev/runway/internal/model"
)

// factorLookup maps each scenario to the adjustments it reads.
// Scenario factors scale income and expenses only; debt interest and
// investment return are the same in every scenario.
var factorLookup = map[model.Scenario]func(model.ScenarioAdjustments) model.Factors{
	model.ScenarioBase:  func(model.ScenarioAdjustments) model.Factors { return model.IdentityFactors() },
	model.ScenarioBest:  func(a model.ScenarioAdjustments) model.Factors { return a.Best },
	model.ScenarioWorst: func(a model.ScenarioAdjustments) model.Factors { return a.Worst },
}

// FactorsFor resolves the income/expense factors for a scenario.
func FactorsFor(adj model.ScenarioAdjustments, scenario model.Scenario) (model.Factors, error) {
	lookup, ok := factorLookup[scenario]
	if !ok {
		return model.Factors{}, fmt.Errorf("unknown scenario %v", scenario)
	}
	return lookup(adj), nil
}
