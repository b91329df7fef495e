// Package model defines the household finance types shared by the projection
// engine, the settings store and the renderers.
package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// MaxHorizonMonths caps how far a projection may run (100 years).
const MaxHorizonMonths = 1200

// Debt is one amortizing liability.
type Debt struct {
	Name               string          `json:"name,omitempty" toml:"name,omitempty" yaml:"name,omitempty"`
	Balance            decimal.Decimal `json:"balance" toml:"balance" yaml:"balance"`
	MonthlyPayment     decimal.Decimal `json:"monthly_payment" toml:"monthly_payment" yaml:"monthly_payment"`
	InterestRateAnnual decimal.Decimal `json:"interest_rate_annual" toml:"interest_rate_annual" yaml:"interest_rate_annual"`
}

// Factors are multiplicative adjustments applied to income and expenses.
type Factors struct {
	Income  decimal.Decimal `json:"income" toml:"income" yaml:"income"`
	Expense decimal.Decimal `json:"expense" toml:"expense" yaml:"expense"`
}

// IdentityFactors leaves income and expenses untouched.
func IdentityFactors() Factors {
	return Factors{Income: decimal.NewFromInt(1), Expense: decimal.NewFromInt(1)}
}

// ScenarioAdjustments holds the best/worst factors. Base is always identity.
type ScenarioAdjustments struct {
	Best  Factors `json:"best" toml:"best" yaml:"best"`
	Worst Factors `json:"worst" toml:"worst" yaml:"worst"`
}

// ProjectionSettings is the household's current financial snapshot plus the
// knobs that drive a projection. There is one record per household.
type ProjectionSettings struct {
	CurrentBalance          decimal.Decimal `json:"current_balance" toml:"current_balance" yaml:"current_balance"`
	MonthlyIncome           decimal.Decimal `json:"monthly_income" toml:"monthly_income" yaml:"monthly_income"`
	MonthlyFixedExpenses    decimal.Decimal `json:"monthly_fixed_expenses" toml:"monthly_fixed_expenses" yaml:"monthly_fixed_expenses"`
	MonthlyVariableExpenses decimal.Decimal `json:"monthly_variable_expenses" toml:"monthly_variable_expenses" yaml:"monthly_variable_expenses"`

	Debts []Debt `json:"debts" toml:"debts" yaml:"debts"`

	InvestmentBalance             decimal.Decimal `json:"investment_balance" toml:"investment_balance" yaml:"investment_balance"`
	InvestmentContributionMonthly decimal.Decimal `json:"investment_contribution_monthly" toml:"investment_contribution_monthly" yaml:"investment_contribution_monthly"`
	InvestmentReturnAnnual        decimal.Decimal `json:"investment_return_annual" toml:"investment_return_annual" yaml:"investment_return_annual"`

	HorizonMonths       int                 `json:"horizon_months" toml:"horizon_months" yaml:"horizon_months"`
	ScenarioAdjustments ScenarioAdjustments `json:"scenario_adjustments" toml:"scenario_adjustments" yaml:"scenario_adjustments"`

	// UpdatedAt is stamped by the store on save.
	UpdatedAt time.Time `json:"updated_at,omitempty" toml:"-" yaml:"-"`
}

// DefaultSettings returns the record used for a household that has never saved one.
func DefaultSettings() ProjectionSettings {
	return ProjectionSettings{
		HorizonMonths: 12,
		ScenarioAdjustments: ScenarioAdjustments{
			Best:  Factors{Income: decimal.RequireFromString("1.1"), Expense: decimal.RequireFromString("0.9")},
			Worst: Factors{Income: decimal.RequireFromString("0.9"), Expense: decimal.RequireFromString("1.1")},
		},
	}
}

// TotalMonthlyExpenses is fixed plus variable expenses before scenario factors.
func (s ProjectionSettings) TotalMonthlyExpenses() decimal.Decimal {
	return s.MonthlyFixedExpenses.Add(s.MonthlyVariableExpenses)
}

// TotalDebt sums the opening balance of every debt.
func (s ProjectionSettings) TotalDebt() decimal.Decimal {
	total := decimal.Zero
	for _, d := range s.Debts {
		total = total.Add(d.Balance)
	}
	return total
}

// Clone returns a copy that shares no slices with s.
func (s ProjectionSettings) Clone() ProjectionSettings {
	out := s
	if s.Debts != nil {
		out.Debts = make([]Debt, len(s.Debts))
		copy(out.Debts, s.Debts)
	}
	return out
}
