package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// MonthLabelLayout formats ProjectionMonth.Label.
const MonthLabelLayout = "2006-01"

// ProjectionMonth is one simulated month. Values are never modified after the
// engine emits them.
type ProjectionMonth struct {
	Index int       `json:"index"`
	Month time.Time `json:"month"`
	Label string    `json:"label"`

	Income      decimal.Decimal `json:"income"`
	Expenses    decimal.Decimal `json:"expenses"`
	DebtPayment decimal.Decimal `json:"debt_payment"`
	NetCashFlow decimal.Decimal `json:"net_cash_flow"`

	DebtBalance  decimal.Decimal   `json:"debt_balance"`
	DebtBalances []decimal.Decimal `json:"debt_balances,omitempty"`

	InvestmentValue decimal.Decimal `json:"investment_value"`
	CumulativeCash  decimal.Decimal `json:"cumulative_cash"`
}

// NetWorth is cash plus investments minus outstanding debt.
func (m ProjectionMonth) NetWorth() decimal.Decimal {
	return m.CumulativeCash.Add(m.InvestmentValue).Sub(m.DebtBalance)
}

// ProjectionSummary condenses a projection into the figures the tables and
// the daemon report.
type ProjectionSummary struct {
	Scenario Scenario `json:"scenario"`
	Months   int      `json:"months"`

	EndingCash       decimal.Decimal `json:"ending_cash"`
	LowestCash       decimal.Decimal `json:"lowest_cash"`
	LowestCashMonth  string          `json:"lowest_cash_month"`
	InsolventMonth   string          `json:"insolvent_month,omitempty"`
	DebtFreeMonth    string          `json:"debt_free_month,omitempty"`
	EndingDebt       decimal.Decimal `json:"ending_debt"`
	EndingInvestment decimal.Decimal `json:"ending_investment"`
	EndingNetWorth   decimal.Decimal `json:"ending_net_worth"`

	TotalIncome     decimal.Decimal `json:"total_income"`
	TotalExpenses   decimal.Decimal `json:"total_expenses"`
	TotalDebtPaid   decimal.Decimal `json:"total_debt_paid"`
	InterestAccrued decimal.Decimal `json:"interest_accrued"`
}

// ProjectionRun is a summary recorded in the run history.
type ProjectionRun struct {
	ID          int64
	Household   string
	GeneratedAt time.Time
	Summary     ProjectionSummary
}
