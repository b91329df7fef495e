// Package export writes projections to an .xlsx workbook.
package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/theirongolddev/runway/internal/model"
	"github.com/theirongolddev/runway/internal/projection"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

// SummarySheet and SettingsSheet are the fixed sheet names; each scenario
// gets a sheet named after it ("Base", "Best", "Worst").
const (
	SummarySheet  = "Summary"
	SettingsSheet = "Settings"
)

const moneyFormat = "#,##0.00;[Red]-#,##0.00"

var summaryHeaders = []any{
	"Scenario", "Months", "Ending cash", "Lowest cash", "Lowest cash month", "Insolvent from",
	"Debt free", "Ending debt", "Ending investments", "Ending net worth",
	"Total income", "Total expenses", "Debt paid", "Interest",
}

// ScenarioSheet returns the sheet name used for a scenario.
func ScenarioSheet(sc model.Scenario) string {
	name := sc.String()
	return strings.ToUpper(name[:1]) + name[1:]
}

type workbook struct {
	f          *excelize.File
	headStyle  int
	moneyStyle int
}

// Workbook builds a workbook with a summary sheet, the settings that produced
// it, and one sheet of monthly rows per scenario in results.
func Workbook(settings model.ProjectionSettings, results map[model.Scenario][]model.ProjectionMonth) (*excelize.File, error) {
	f := excelize.NewFile()
	wb := &workbook{f: f}

	var err error
	if wb.headStyle, err = f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}}); err != nil {
		return nil, err
	}
	format := moneyFormat
	if wb.moneyStyle, err = f.NewStyle(&excelize.Style{CustomNumFmt: &format}); err != nil {
		return nil, err
	}

	if err := f.SetSheetName("Sheet1", SummarySheet); err != nil {
		return nil, err
	}
	if err := wb.writeSummary(projection.SummarizeAll(settings, results)); err != nil {
		return nil, fmt.Errorf("writing summary: %w", err)
	}
	if err := wb.writeSettings(settings); err != nil {
		return nil, fmt.Errorf("writing settings: %w", err)
	}
	for _, sc := range model.AllScenarios {
		months, ok := results[sc]
		if !ok {
			continue
		}
		if err := wb.writeScenario(sc, settings.Debts, months); err != nil {
			return nil, fmt.Errorf("writing %s sheet: %w", sc, err)
		}
	}

	f.SetActiveSheet(0)
	return f, nil
}

// WriteFile builds the workbook and saves it to path.
func WriteFile(path string, settings model.ProjectionSettings, results map[model.Scenario][]model.ProjectionMonth) error {
	f, err := Workbook(settings, results)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()
	return f.SaveAs(path)
}

// Write builds the workbook and streams it to w.
func Write(w io.Writer, settings model.ProjectionSettings, results map[model.Scenario][]model.ProjectionMonth) error {
	f, err := Workbook(settings, results)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()
	return f.Write(w)
}

func (wb *workbook) writeSummary(sums []model.ProjectionSummary) error {
	if err := wb.header(SummarySheet, summaryHeaders); err != nil {
		return err
	}
	for i, s := range sums {
		row := []any{
			s.Scenario.String(), s.Months,
			money(s.EndingCash), money(s.LowestCash), s.LowestCashMonth, s.InsolventMonth,
			s.DebtFreeMonth, money(s.EndingDebt), money(s.EndingInvestment), money(s.EndingNetWorth),
			money(s.TotalIncome), money(s.TotalExpenses), money(s.TotalDebtPaid), money(s.InterestAccrued),
		}
		if err := wb.row(SummarySheet, i+2, row); err != nil {
			return err
		}
	}
	if err := wb.moneyColumns(SummarySheet, len(sums)+1, 3, 4, 8, 9, 10, 11, 12, 13, 14); err != nil {
		return err
	}
	return wb.f.SetColWidth(SummarySheet, "A", "N", 16)
}

func (wb *workbook) writeSettings(s model.ProjectionSettings) error {
	if _, err := wb.f.NewSheet(SettingsSheet); err != nil {
		return err
	}
	rows := [][]any{
		{"Field", "Value"},
		{"current_balance", money(s.CurrentBalance)},
		{"monthly_income", money(s.MonthlyIncome)},
		{"monthly_fixed_expenses", money(s.MonthlyFixedExpenses)},
		{"monthly_variable_expenses", money(s.MonthlyVariableExpenses)},
		{"investment_balance", money(s.InvestmentBalance)},
		{"investment_contribution_monthly", money(s.InvestmentContributionMonthly)},
		{"investment_return_annual", s.InvestmentReturnAnnual.InexactFloat64()},
		{"horizon_months", s.HorizonMonths},
		{"best.income", s.ScenarioAdjustments.Best.Income.InexactFloat64()},
		{"best.expense", s.ScenarioAdjustments.Best.Expense.InexactFloat64()},
		{"worst.income", s.ScenarioAdjustments.Worst.Income.InexactFloat64()},
		{"worst.expense", s.ScenarioAdjustments.Worst.Expense.InexactFloat64()},
	}
	for i, d := range s.Debts {
		label := debtLabel(i, d)
		rows = append(rows,
			[]any{label + ".balance", money(d.Balance)},
			[]any{label + ".monthly_payment", money(d.MonthlyPayment)},
			[]any{label + ".interest_rate_annual", d.InterestRateAnnual.InexactFloat64()},
		)
	}

	for i, r := range rows {
		if err := wb.row(SettingsSheet, i+1, r); err != nil {
			return err
		}
	}
	if err := wb.f.SetCellStyle(SettingsSheet, "A1", "B1", wb.headStyle); err != nil {
		return err
	}
	return wb.f.SetColWidth(SettingsSheet, "A", "A", 34)
}

func (wb *workbook) writeScenario(sc model.Scenario, debts []model.Debt, months []model.ProjectionMonth) error {
	sheet := ScenarioSheet(sc)
	if _, err := wb.f.NewSheet(sheet); err != nil {
		return err
	}

	headers := []any{
		"Month", "Income", "Expenses", "Debt payment", "Net cash flow",
		"Cumulative cash", "Debt balance", "Investments", "Net worth",
	}
	for i, d := range debts {
		headers = append(headers, debtLabel(i, d))
	}
	if err := wb.header(sheet, headers); err != nil {
		return err
	}

	for i, m := range months {
		row := []any{
			m.Label, money(m.Income), money(m.Expenses), money(m.DebtPayment), money(m.NetCashFlow),
			money(m.CumulativeCash), money(m.DebtBalance), money(m.InvestmentValue), money(m.NetWorth()),
		}
		for _, b := range m.DebtBalances {
			row = append(row, money(b))
		}
		if err := wb.row(sheet, i+2, row); err != nil {
			return err
		}
	}

	cols := make([]int, 0, len(headers)-1)
	for c := 2; c <= len(headers); c++ {
		cols = append(cols, c)
	}
	if err := wb.moneyColumns(sheet, len(months)+1, cols...); err != nil {
		return err
	}

	last, err := excelize.ColumnNumberToName(len(headers))
	if err != nil {
		return err
	}
	if err := wb.f.SetColWidth(sheet, "A", last, 15); err != nil {
		return err
	}
	return wb.f.SetPanes(sheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})
}

func (wb *workbook) header(sheet string, headers []any) error {
	if err := wb.row(sheet, 1, headers); err != nil {
		return err
	}
	last, err := excelize.ColumnNumberToName(len(headers))
	if err != nil {
		return err
	}
	return wb.f.SetCellStyle(sheet, "A1", last+"1", wb.headStyle)
}

func (wb *workbook) row(sheet string, n int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, n)
	if err != nil {
		return err
	}
	return wb.f.SetSheetRow(sheet, cell, &values)
}

// moneyColumns applies the currency format to rows 2..lastRow of cols.
func (wb *workbook) moneyColumns(sheet string, lastRow int, cols ...int) error {
	if lastRow < 2 {
		return nil
	}
	for _, c := range cols {
		top, err := excelize.CoordinatesToCellName(c, 2)
		if err != nil {
			return err
		}
		bottom, err := excelize.CoordinatesToCellName(c, lastRow)
		if err != nil {
			return err
		}
		if err := wb.f.SetCellStyle(sheet, top, bottom, wb.moneyStyle); err != nil {
			return err
		}
	}
	return nil
}

func debtLabel(i int, d model.Debt) string {
	if d.Name != "" {
		return d.Name
	}
	return fmt.Sprintf("debt %d", i+1)
}

// money rounds to cents for the sheet. Spreadsheet cells are float64.
func money(d decimal.Decimal) float64 {
	return d.Round(2).InexactFloat64()
}
