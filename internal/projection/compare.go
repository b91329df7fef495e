package projection

import (
	"github.com/theirongolddev/runway/internal/model"

	"github.com/shopspring/decimal"
)

var decimalHundred = decimal.NewFromInt(100)

// Diff is one row of a current-vs-simulated comparison table.
type Diff struct {
	Field         string          `json:"field"`
	Current       decimal.Decimal `json:"current"`
	Simulated     decimal.Decimal `json:"simulated"`
	Delta         decimal.Decimal `json:"delta"`
	PercentChange decimal.Decimal `json:"percent_change"`
}

// ScenarioDiff compares one scenario's final month against base.
type ScenarioDiff struct {
	Scenario model.Scenario `json:"scenario"`
	Diffs    []Diff         `json:"diffs"`
}

// PercentChange returns (current - previous) / |previous| * 100.
// A zero previous value reports 0 rather than failing.
func PercentChange(previous, current decimal.Decimal) decimal.Decimal {
	if previous.IsZero() {
		return decimal.Zero
	}
	return current.Sub(previous).Div(previous.Abs()).Mul(decimalHundred).Round(2)
}

func newDiff(field string, current, simulated decimal.Decimal) Diff {
	return Diff{
		Field:         field,
		Current:       current,
		Simulated:     simulated,
		Delta:         simulated.Sub(current),
		PercentChange: PercentChange(current, simulated),
	}
}

// CompareMonths lists field-level differences between two projection points.
func CompareMonths(current, simulated model.ProjectionMonth) []Diff {
	return []Diff{
		newDiff("income", current.Income, simulated.Income),
		newDiff("expenses", current.Expenses, simulated.Expenses),
		newDiff("debt_payment", current.DebtPayment, simulated.DebtPayment),
		newDiff("net_cash_flow", current.NetCashFlow, simulated.NetCashFlow),
		newDiff("cumulative_cash", current.CumulativeCash, simulated.CumulativeCash),
		newDiff("debt_balance", current.DebtBalance, simulated.DebtBalance),
		newDiff("investment_value", current.InvestmentValue, simulated.InvestmentValue),
		newDiff("net_worth", current.NetWorth(), simulated.NetWorth()),
	}
}

// CompareScenarios diffs the final month of best and worst against base.
// Scenarios missing from results, or with no months, are skipped.
func CompareScenarios(results map[model.Scenario][]model.ProjectionMonth) []ScenarioDiff {
	base, ok := results[model.ScenarioBase]
	if !ok || len(base) == 0 {
		return nil
	}
	baseLast := base[len(base)-1]

	var out []ScenarioDiff
	for _, sc := range model.AllScenarios {
		if sc == model.ScenarioBase {
			continue
		}
		months := results[sc]
		if len(months) == 0 {
			continue
		}
		out = append(out, ScenarioDiff{
			Scenario: sc,
			Diffs:    CompareMonths(baseLast, months[len(months)-1]),
		})
	}
	return out
}

// MonthOverMonth returns the percent change in cumulative cash from each month
// to the next. Entry 0 compares against openingBalance.
func MonthOverMonth(openingBalance decimal.Decimal, months []model.ProjectionMonth) []decimal.Decimal {
	out := make([]decimal.Decimal, len(months))
	prev := openingBalance
	for i, m := range months {
		out[i] = PercentChange(prev, m.CumulativeCash)
		prev = m.CumulativeCash
	}
	return out
}
