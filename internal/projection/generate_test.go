package projection

import (
	"errors"
	"testing"
	"time"

	"github.com/theirongolddev/runway/internal/model"

	"github.com/shopspring/decimal"
)

var testStart = time.Date(2026, time.October, 16, 9, 30, 0, 0, time.UTC)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func assertDec(t *testing.T, name string, got decimal.Decimal, want string) {
	t.Helper()
	if !got.Equal(dec(want)) {
		t.Fatalf("%s = %s, want %s", name, got, want)
	}
}

func baseSettings() model.ProjectionSettings {
	s := model.DefaultSettings()
	s.CurrentBalance = dec("1000")
	s.MonthlyIncome = dec("3000")
	s.MonthlyFixedExpenses = dec("1500")
	s.MonthlyVariableExpenses = dec("800")
	s.HorizonMonths = 3
	return s
}

func TestGenerate_CashOnlyScenario(t *testing.T) {
	months, err := GenerateFrom(baseSettings(), model.ScenarioBase, testStart)
	if err != nil {
		t.Fatalf("GenerateFrom: %v", err)
	}
	if len(months) != 3 {
		t.Fatalf("len = %d, want 3", len(months))
	}

	wantCash := []string{"1700", "2400", "3100"}
	for i, m := range months {
		assertDec(t, "NetCashFlow", m.NetCashFlow, "700")
		assertDec(t, "CumulativeCash", m.CumulativeCash, wantCash[i])
		if m.DebtBalances != nil {
			t.Fatalf("month %d DebtBalances = %v, want nil with no debts", i, m.DebtBalances)
		}
		assertDec(t, "DebtPayment", m.DebtPayment, "0")
	}
}

func TestGenerate_DebtPaymentCappedAtBalance(t *testing.T) {
	s := model.DefaultSettings()
	s.HorizonMonths = 3
	s.Debts = []model.Debt{{Balance: dec("1200"), MonthlyPayment: dec("500"), InterestRateAnnual: dec("0")}}

	months, err := GenerateFrom(s, model.ScenarioBase, testStart)
	if err != nil {
		t.Fatalf("GenerateFrom: %v", err)
	}

	wantBalance := []string{"700", "200", "0"}
	wantPayment := []string{"500", "500", "200"}
	for i, m := range months {
		assertDec(t, "DebtBalance", m.DebtBalance, wantBalance[i])
		assertDec(t, "DebtPayment", m.DebtPayment, wantPayment[i])
		assertDec(t, "NetCashFlow", m.NetCashFlow, "-"+wantPayment[i])
	}
	assertDec(t, "final CumulativeCash", months[2].CumulativeCash, "-1200")
}

func TestGenerate_PayoffWithInterestStaysAtZero(t *testing.T) {
	s := model.DefaultSettings()
	s.HorizonMonths = 6
	s.Debts = []model.Debt{{Balance: dec("1000"), MonthlyPayment: dec("300"), InterestRateAnnual: dec("0.12")}}

	months, err := GenerateFrom(s, model.ScenarioBase, testStart)
	if err != nil {
		t.Fatalf("GenerateFrom: %v", err)
	}

	wantBalance := []string{"710", "417.1", "121.27", "0", "0", "0"}
	wantPayment := []string{"300", "300", "300", "122.48", "0", "0"}
	for i, m := range months {
		assertDec(t, "DebtBalances[0]", m.DebtBalances[0], wantBalance[i])
		assertDec(t, "DebtPayment", m.DebtPayment, wantPayment[i])
	}

	// ceil(1000 / (300 - 10)) = 4
	if !months[3].DebtBalance.IsZero() {
		t.Fatalf("debt not paid off by month 4: %s", months[3].DebtBalance)
	}
}

func TestGenerate_PaymentBelowInterestGrowsBalance(t *testing.T) {
	s := model.DefaultSettings()
	s.HorizonMonths = 2
	s.Debts = []model.Debt{{Balance: dec("1000"), MonthlyPayment: dec("5"), InterestRateAnnual: dec("0.12")}}

	months, err := GenerateFrom(s, model.ScenarioBase, testStart)
	if err != nil {
		t.Fatalf("GenerateFrom: %v", err)
	}
	assertDec(t, "month 1 debt", months[0].DebtBalance, "1005")
	assertDec(t, "month 2 debt", months[1].DebtBalance, "1010.05")
}

func TestGenerate_NoCarryOverBetweenDebts(t *testing.T) {
	s := model.DefaultSettings()
	s.HorizonMonths = 3
	s.Debts = []model.Debt{
		{Name: "small", Balance: dec("100"), MonthlyPayment: dec("100")},
		{Name: "large", Balance: dec("1000"), MonthlyPayment: dec("100")},
	}

	months, err := GenerateFrom(s, model.ScenarioBase, testStart)
	if err != nil {
		t.Fatalf("GenerateFrom: %v", err)
	}

	assertDec(t, "month 1 small", months[0].DebtBalances[0], "0")
	assertDec(t, "month 2 large", months[1].DebtBalances[1], "800")
	assertDec(t, "month 2 payment", months[1].DebtPayment, "100")
	assertDec(t, "month 3 total", months[2].DebtBalance, "700")
}

func TestGenerate_CumulativeCashTelescopes(t *testing.T) {
	s := baseSettings()
	s.HorizonMonths = 24
	s.InvestmentContributionMonthly = dec("250")
	s.InvestmentReturnAnnual = dec("0.07")
	s.Debts = []model.Debt{
		{Balance: dec("5400"), MonthlyPayment: dec("320"), InterestRateAnnual: dec("0.199")},
		{Balance: dec("12000"), MonthlyPayment: dec("410.55"), InterestRateAnnual: dec("0.045")},
	}

	for _, sc := range model.AllScenarios {
		months, err := GenerateFrom(s, sc, testStart)
		if err != nil {
			t.Fatalf("GenerateFrom(%v): %v", sc, err)
		}
		running := s.CurrentBalance
		for i, m := range months {
			running = running.Add(m.NetCashFlow)
			if !m.CumulativeCash.Equal(running) {
				t.Fatalf("%v month %d CumulativeCash = %s, want %s", sc, i, m.CumulativeCash, running)
			}
			want := m.Income.Sub(m.Expenses).Sub(m.DebtPayment)
			if !m.NetCashFlow.Equal(want) {
				t.Fatalf("%v month %d NetCashFlow = %s, want %s", sc, i, m.NetCashFlow, want)
			}
			if m.DebtBalance.IsNegative() {
				t.Fatalf("%v month %d DebtBalance negative: %s", sc, i, m.DebtBalance)
			}
		}
	}
}

func TestGenerate_LabelsStrictlyIncreasing(t *testing.T) {
	s := baseSettings()
	s.HorizonMonths = 15

	start := time.Date(2027, time.January, 31, 23, 0, 0, 0, time.UTC)
	months, err := GenerateFrom(s, model.ScenarioBase, start)
	if err != nil {
		t.Fatalf("GenerateFrom: %v", err)
	}
	if len(months) != 15 {
		t.Fatalf("len = %d, want 15", len(months))
	}
	if months[0].Label != "2027-01" {
		t.Fatalf("first label = %q, want 2027-01", months[0].Label)
	}
	if months[1].Label != "2027-02" {
		t.Fatalf("second label = %q, want 2027-02 (no day overflow)", months[1].Label)
	}
	if months[14].Label != "2028-03" {
		t.Fatalf("last label = %q, want 2028-03", months[14].Label)
	}
	for i := 1; i < len(months); i++ {
		if months[i].Label <= months[i-1].Label {
			t.Fatalf("label %d %q not after %q", i, months[i].Label, months[i-1].Label)
		}
		if months[i].Index != i {
			t.Fatalf("Index = %d, want %d", months[i].Index, i)
		}
	}
}

func TestGenerate_BaseUsesIdentityFactors(t *testing.T) {
	s := baseSettings()
	s.HorizonMonths = 6
	s.Debts = []model.Debt{{Balance: dec("900"), MonthlyPayment: dec("200"), InterestRateAnnual: dec("0.05")}}

	got, err := GenerateFrom(s, model.ScenarioBase, testStart)
	if err != nil {
		t.Fatalf("GenerateFrom: %v", err)
	}
	want := simulate(s, model.IdentityFactors(), monthStart(testStart))

	for i := range want {
		if !got[i].CumulativeCash.Equal(want[i].CumulativeCash) || !got[i].DebtBalance.Equal(want[i].DebtBalance) {
			t.Fatalf("month %d differs from identity run: got %s/%s want %s/%s",
				i, got[i].CumulativeCash, got[i].DebtBalance, want[i].CumulativeCash, want[i].DebtBalance)
		}
	}
}

func TestGenerate_ScenarioFactorsOnlyTouchIncomeAndExpenses(t *testing.T) {
	s := baseSettings()
	s.HorizonMonths = 4
	s.InvestmentContributionMonthly = dec("100")
	s.InvestmentReturnAnnual = dec("0.06")
	s.Debts = []model.Debt{{Balance: dec("2000"), MonthlyPayment: dec("150"), InterestRateAnnual: dec("0.18")}}

	results, err := GenerateAll(s, testStart)
	if err != nil {
		t.Fatalf("GenerateAll: %v", err)
	}

	best := results[model.ScenarioBest][0]
	assertDec(t, "best income", best.Income, "3300")
	assertDec(t, "best expenses", best.Expenses, "2070")

	worst := results[model.ScenarioWorst][0]
	assertDec(t, "worst income", worst.Income, "2700")
	assertDec(t, "worst expenses", worst.Expenses, "2530")

	base := results[model.ScenarioBase]
	for _, sc := range []model.Scenario{model.ScenarioBest, model.ScenarioWorst} {
		for i, m := range results[sc] {
			if !m.DebtBalance.Equal(base[i].DebtBalance) {
				t.Fatalf("%v month %d debt %s differs from base %s", sc, i, m.DebtBalance, base[i].DebtBalance)
			}
			if !m.InvestmentValue.Equal(base[i].InvestmentValue) {
				t.Fatalf("%v month %d investment %s differs from base %s", sc, i, m.InvestmentValue, base[i].InvestmentValue)
			}
		}
	}
}

func TestGenerate_InvestmentCompounds(t *testing.T) {
	s := model.DefaultSettings()
	s.HorizonMonths = 3
	s.InvestmentContributionMonthly = dec("100")
	s.InvestmentReturnAnnual = dec("0.12")

	months, err := GenerateFrom(s, model.ScenarioBase, testStart)
	if err != nil {
		t.Fatalf("GenerateFrom: %v", err)
	}

	want := []string{"101", "203.01", "306.04"}
	for i, m := range months {
		assertDec(t, "InvestmentValue", m.InvestmentValue, want[i])
		// contributions do not leave the cash line
		assertDec(t, "NetCashFlow", m.NetCashFlow, "0")
	}
}

func TestGenerate_StartingInvestmentBalance(t *testing.T) {
	s := model.DefaultSettings()
	s.HorizonMonths = 1
	s.InvestmentBalance = dec("1000")

	months, err := GenerateFrom(s, model.ScenarioBase, testStart)
	if err != nil {
		t.Fatalf("GenerateFrom: %v", err)
	}
	assertDec(t, "InvestmentValue", months[0].InvestmentValue, "1000")
}

func TestGenerate_NegativeCashIsNotClamped(t *testing.T) {
	s := model.DefaultSettings()
	s.CurrentBalance = dec("100")
	s.MonthlyFixedExpenses = dec("500")
	s.HorizonMonths = 2

	months, err := GenerateFrom(s, model.ScenarioBase, testStart)
	if err != nil {
		t.Fatalf("GenerateFrom: %v", err)
	}
	assertDec(t, "month 1 cash", months[0].CumulativeCash, "-400")
	assertDec(t, "month 2 cash", months[1].CumulativeCash, "-900")
}

func TestGenerate_RejectsInvalidSettings(t *testing.T) {
	s := baseSettings()
	s.HorizonMonths = 0

	months, err := GenerateFrom(s, model.ScenarioBase, testStart)
	if !errors.Is(err, model.ErrInvalidSettings) {
		t.Fatalf("err = %v, want ErrInvalidSettings", err)
	}
	if months != nil {
		t.Fatalf("months = %v, want nil", months)
	}

	if _, err := GenerateAll(s, testStart); !errors.Is(err, model.ErrInvalidSettings) {
		t.Fatalf("GenerateAll err = %v, want ErrInvalidSettings", err)
	}
}

func TestGenerate_UnknownScenario(t *testing.T) {
	if _, err := GenerateFrom(baseSettings(), model.Scenario(9), testStart); err == nil {
		t.Fatal("expected error for unknown scenario")
	}
}

func TestGenerate_IsReproducibleAndDoesNotMutateSettings(t *testing.T) {
	s := baseSettings()
	s.HorizonMonths = 12
	s.Debts = []model.Debt{{Balance: dec("3000"), MonthlyPayment: dec("275"), InterestRateAnnual: dec("0.22")}}

	first, err := GenerateFrom(s, model.ScenarioWorst, testStart)
	if err != nil {
		t.Fatalf("GenerateFrom: %v", err)
	}
	second, err := GenerateFrom(s, model.ScenarioWorst, testStart)
	if err != nil {
		t.Fatalf("GenerateFrom: %v", err)
	}

	for i := range first {
		if !first[i].CumulativeCash.Equal(second[i].CumulativeCash) || first[i].Label != second[i].Label {
			t.Fatalf("month %d not reproducible", i)
		}
	}
	assertDec(t, "settings debt balance", s.Debts[0].Balance, "3000")

	// mutating the output must not reach a later run
	first[0].DebtBalances[0] = dec("1")
	third, _ := GenerateFrom(s, model.ScenarioWorst, testStart)
	if third[0].DebtBalances[0].Equal(dec("1")) {
		t.Fatal("DebtBalances slice shared between runs")
	}
}

func TestGenerateAll_MatchesSingleRuns(t *testing.T) {
	s := baseSettings()
	s.HorizonMonths = 18
	s.Debts = []model.Debt{{Balance: dec("4000"), MonthlyPayment: dec("250"), InterestRateAnnual: dec("0.15")}}

	all, err := GenerateAll(s, testStart)
	if err != nil {
		t.Fatalf("GenerateAll: %v", err)
	}
	if len(all) != len(model.AllScenarios) {
		t.Fatalf("GenerateAll returned %d scenarios, want %d", len(all), len(model.AllScenarios))
	}

	for _, sc := range model.AllScenarios {
		single, err := GenerateFrom(s, sc, testStart)
		if err != nil {
			t.Fatalf("GenerateFrom(%v): %v", sc, err)
		}
		for i := range single {
			if !single[i].CumulativeCash.Equal(all[sc][i].CumulativeCash) {
				t.Fatalf("%v month %d: GenerateAll %s, GenerateFrom %s", sc, i, all[sc][i].CumulativeCash, single[i].CumulativeCash)
			}
		}
	}
}
