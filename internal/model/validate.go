package model

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// ErrInvalidSettings is matched by every ValidationErrors value.
var ErrInvalidSettings = errors.New("invalid projection settings")

// ValidationError describes one rejected field.
type ValidationError struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

func (e ValidationError) Error() string {
	return e.Field + ": " + e.Reason
}

// ValidationErrors collects every problem found in a settings record.
type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	parts := make([]string, len(v))
	for i, e := range v {
		parts[i] = e.Error()
	}
	return fmt.Sprintf("%s: %s", ErrInvalidSettings, strings.Join(parts, "; "))
}

// Is lets errors.Is(err, ErrInvalidSettings) match.
func (v ValidationErrors) Is(target error) bool {
	return target == ErrInvalidSettings
}

var minusOne = decimal.NewFromInt(-1)

// Validate checks the record before it is projected or saved.
// CurrentBalance is unconstrained; an overdraft is a valid starting point.
func (s ProjectionSettings) Validate() error {
	var errs ValidationErrors

	nonNegative := func(field string, v decimal.Decimal) {
		if v.IsNegative() {
			errs = append(errs, ValidationError{Field: field, Reason: "must not be negative"})
		}
	}

	nonNegative("monthly_income", s.MonthlyIncome)
	nonNegative("monthly_fixed_expenses", s.MonthlyFixedExpenses)
	nonNegative("monthly_variable_expenses", s.MonthlyVariableExpenses)
	nonNegative("investment_balance", s.InvestmentBalance)
	nonNegative("investment_contribution_monthly", s.InvestmentContributionMonthly)

	if s.InvestmentReturnAnnual.LessThan(minusOne) {
		errs = append(errs, ValidationError{Field: "investment_return_annual", Reason: "must be at least -1"})
	}

	switch {
	case s.HorizonMonths < 1:
		errs = append(errs, ValidationError{Field: "horizon_months", Reason: "must be at least 1"})
	case s.HorizonMonths > MaxHorizonMonths:
		errs = append(errs, ValidationError{
			Field:  "horizon_months",
			Reason: fmt.Sprintf("must be at most %d", MaxHorizonMonths),
		})
	}

	for i, d := range s.Debts {
		prefix := fmt.Sprintf("debts[%d].", i)
		nonNegative(prefix+"balance", d.Balance)
		nonNegative(prefix+"monthly_payment", d.MonthlyPayment)
		nonNegative(prefix+"interest_rate_annual", d.InterestRateAnnual)
	}

	nonNegative("scenario_adjustments.best.income", s.ScenarioAdjustments.Best.Income)
	nonNegative("scenario_adjustments.best.expense", s.ScenarioAdjustments.Best.Expense)
	nonNegative("scenario_adjustments.worst.income", s.ScenarioAdjustments.Worst.Income)
	nonNegative("scenario_adjustments.worst.expense", s.ScenarioAdjustments.Worst.Expense)

	if len(errs) > 0 {
		return errs
	}
	return nil
}
