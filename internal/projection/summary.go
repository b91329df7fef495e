package projection

import (
	"github.com/theirongolddev/runway/internal/model"

	"github.com/shopspring/decimal"
)

// Summarize reduces a projection to its headline figures. settings supplies
// the opening debt so interest can be derived from the first month.
func Summarize(settings model.ProjectionSettings, scenario model.Scenario, months []model.ProjectionMonth) model.ProjectionSummary {
	sum := model.ProjectionSummary{
		Scenario:         scenario,
		Months:           len(months),
		EndingCash:       settings.CurrentBalance,
		LowestCash:       settings.CurrentBalance,
		EndingDebt:       settings.TotalDebt(),
		EndingInvestment: settings.InvestmentBalance,
	}
	if len(months) == 0 {
		sum.EndingNetWorth = sum.EndingCash.Add(sum.EndingInvestment).Sub(sum.EndingDebt)
		return sum
	}

	openingDebt := settings.TotalDebt()
	prevDebt := openingDebt
	hadDebt := openingDebt.IsPositive()

	for i, m := range months {
		sum.TotalIncome = sum.TotalIncome.Add(m.Income)
		sum.TotalExpenses = sum.TotalExpenses.Add(m.Expenses)
		sum.TotalDebtPaid = sum.TotalDebtPaid.Add(m.DebtPayment)

		// paid = interest + principal reduction
		principal := prevDebt.Sub(m.DebtBalance)
		sum.InterestAccrued = sum.InterestAccrued.Add(m.DebtPayment.Sub(principal))
		prevDebt = m.DebtBalance

		if i == 0 || m.CumulativeCash.LessThan(sum.LowestCash) {
			sum.LowestCash = m.CumulativeCash
			sum.LowestCashMonth = m.Label
		}
		if sum.InsolventMonth == "" && m.CumulativeCash.IsNegative() {
			sum.InsolventMonth = m.Label
		}
		if hadDebt && sum.DebtFreeMonth == "" && m.DebtBalance.IsZero() {
			sum.DebtFreeMonth = m.Label
		}
	}

	last := months[len(months)-1]
	sum.EndingCash = last.CumulativeCash
	sum.EndingDebt = last.DebtBalance
	sum.EndingInvestment = last.InvestmentValue
	sum.EndingNetWorth = last.NetWorth()

	return sum
}

// SummarizeAll summarizes every scenario present in results, in display order.
func SummarizeAll(settings model.ProjectionSettings, results map[model.Scenario][]model.ProjectionMonth) []model.ProjectionSummary {
	out := make([]model.ProjectionSummary, 0, len(results))
	for _, sc := range model.AllScenarios {
		months, ok := results[sc]
		if !ok {
			continue
		}
		out = append(out, Summarize(settings, sc, months))
	}
	return out
}

// CashSeries extracts cumulative cash as float64 for charting.
func CashSeries(months []model.ProjectionMonth) []float64 {
	return series(months, func(m model.ProjectionMonth) decimal.Decimal { return m.CumulativeCash })
}

// DebtSeries extracts total debt balance as float64 for charting.
func DebtSeries(months []model.ProjectionMonth) []float64 {
	return series(months, func(m model.ProjectionMonth) decimal.Decimal { return m.DebtBalance })
}

// InvestmentSeries extracts investment value as float64 for charting.
func InvestmentSeries(months []model.ProjectionMonth) []float64 {
	return series(months, func(m model.ProjectionMonth) decimal.Decimal { return m.InvestmentValue })
}

// Labels returns the month labels of a projection.
func Labels(months []model.ProjectionMonth) []string {
	out := make([]string, len(months))
	for i, m := range months {
		out[i] = m.Label
	}
	return out
}

func series(months []model.ProjectionMonth, pick func(model.ProjectionMonth) decimal.Decimal) []float64 {
	out := make([]float64, len(months))
	for i, m := range months {
		out[i] = pick(m).InexactFloat64()
	}
	return out
}
