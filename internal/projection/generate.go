// Package projection walks a household's settings forward month by month and
// produces the cash, debt and investment series for each scenario.
package projection

import (
	"sync"
	"time"

	"github.com/theirongolddev/runway/internal/model"

	"github.com/shopspring/decimal"
)

var (
	decimalOne    = decimal.NewFromInt(1)
	decimalTwelve = decimal.NewFromInt(12)
)

// centPlaces is the precision growing balances are rounded to each month.
const centPlaces = 2

// Generate projects settings under scenario starting from the current month.
func Generate(settings model.ProjectionSettings, scenario model.Scenario) ([]model.ProjectionMonth, error) {
	return GenerateFrom(settings, scenario, time.Now())
}

// GenerateFrom projects settings under scenario with month 0 being the
// calendar month containing start. Invalid settings are rejected before any
// month is produced.
func GenerateFrom(settings model.ProjectionSettings, scenario model.Scenario, start time.Time) ([]model.ProjectionMonth, error) {
	if err := settings.Validate(); err != nil {
		return nil, err
	}
	factors, err := FactorsFor(settings.ScenarioAdjustments, scenario)
	if err != nil {
		return nil, err
	}
	return simulate(settings, factors, monthStart(start)), nil
}

// GenerateAll runs every scenario concurrently. Each run owns its accumulator
// state and only reads settings.
func GenerateAll(settings model.ProjectionSettings, start time.Time) (map[model.Scenario][]model.ProjectionMonth, error) {
	if err := settings.Validate(); err != nil {
		return nil, err
	}

	first := monthStart(start)
	results := make([][]model.ProjectionMonth, len(model.AllScenarios))

	var wg sync.WaitGroup
	for i, sc := range model.AllScenarios {
		factors, err := FactorsFor(settings.ScenarioAdjustments, sc)
		if err != nil {
			return nil, err
		}
		wg.Add(1)
		go func(i int, f model.Factors) {
			defer wg.Done()
			results[i] = simulate(settings, f, first)
		}(i, factors)
	}
	wg.Wait()

	out := make(map[model.Scenario][]model.ProjectionMonth, len(results))
	for i, sc := range model.AllScenarios {
		out[sc] = results[i]
	}
	return out, nil
}

func simulate(s model.ProjectionSettings, f model.Factors, first time.Time) []model.ProjectionMonth {
	months := make([]model.ProjectionMonth, 0, s.HorizonMonths)

	cumulativeCash := s.CurrentBalance
	investmentValue := s.InvestmentBalance

	debtBalances := make([]decimal.Decimal, len(s.Debts))
	debtGrowth := make([]decimal.Decimal, len(s.Debts))
	for j, d := range s.Debts {
		debtBalances[j] = d.Balance
		debtGrowth[j] = monthlyGrowth(d.InterestRateAnnual)
	}
	investmentGrowth := monthlyGrowth(s.InvestmentReturnAnnual)

	income := s.MonthlyIncome.Mul(f.Income)
	expenses := s.TotalMonthlyExpenses().Mul(f.Expense)

	for i := 0; i < s.HorizonMonths; i++ {
		debtPayment := decimal.Zero
		debtTotal := decimal.Zero
		for j, d := range s.Debts {
			bal := debtBalances[j]
			if bal.IsPositive() {
				bal = bal.Mul(debtGrowth[j]).Round(centPlaces)
				paid := decimal.Min(d.MonthlyPayment, bal)
				bal = bal.Sub(paid)
				if bal.IsNegative() {
					bal = decimal.Zero
				}
				debtPayment = debtPayment.Add(paid)
			}
			debtBalances[j] = bal
			debtTotal = debtTotal.Add(bal)
		}

		net := income.Sub(expenses).Sub(debtPayment)
		cumulativeCash = cumulativeCash.Add(net)

		investmentValue = investmentValue.Add(s.InvestmentContributionMonthly).
			Mul(investmentGrowth).
			Round(centPlaces)

		month := first.AddDate(0, i, 0)
		pm := model.ProjectionMonth{
			Index:           i,
			Month:           month,
			Label:           month.Format(model.MonthLabelLayout),
			Income:          income,
			Expenses:        expenses,
			DebtPayment:     debtPayment,
			NetCashFlow:     net,
			DebtBalance:     debtTotal,
			InvestmentValue: investmentValue,
			CumulativeCash:  cumulativeCash,
		}
		if len(debtBalances) > 0 {
			pm.DebtBalances = append([]decimal.Decimal(nil), debtBalances...)
		}
		months = append(months, pm)
	}

	return months
}

// monthlyGrowth converts an annual rate into the 1 + rate/12 multiplier.
func monthlyGrowth(annual decimal.Decimal) decimal.Decimal {
	return decimalOne.Add(annual.Div(decimalTwelve))
}

func monthStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}
