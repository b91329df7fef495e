package config

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/theirongolddev/runway/internal/model"

	"github.com/shopspring/decimal"
)

func TestFormatForPath(t *testing.T) {
	tests := []struct {
		path    string
		want    SettingsFormat
		wantErr bool
	}{
		{"household.yaml", FormatYAML, false},
		{"household.YML", FormatYAML, false},
		{"/tmp/x.toml", FormatTOML, false},
		{"x.json", FormatJSON, false},
		{"x.csv", "", true},
		{"noext", "", true},
	}

	for _, tt := range tests {
		got, err := FormatForPath(tt.path)
		if (err != nil) != tt.wantErr {
			t.Fatalf("FormatForPath(%q) err = %v, wantErr %v", tt.path, err, tt.wantErr)
		}
		if got != tt.want {
			t.Fatalf("FormatForPath(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}

func TestDecodeSettings_HandWrittenYAML(t *testing.T) {
	doc := []byte(`
current_balance: 1000
monthly_income: 3000
monthly_fixed_expenses: 1500.50
debts:
  - name: card
    balance: 1200
    monthly_payment: 500
    interest_rate_annual: 0.199
horizon_months: 24
`)

	s, err := DecodeSettings(doc, FormatYAML)
	if err != nil {
		t.Fatalf("DecodeSettings: %v", err)
	}
	if !s.MonthlyFixedExpenses.Equal(decimal.RequireFromString("1500.5")) {
		t.Fatalf("MonthlyFixedExpenses = %s, want 1500.5", s.MonthlyFixedExpenses)
	}
	if len(s.Debts) != 1 || !s.Debts[0].InterestRateAnnual.Equal(decimal.RequireFromString("0.199")) {
		t.Fatalf("Debts = %+v", s.Debts)
	}
	if s.HorizonMonths != 24 {
		t.Fatalf("HorizonMonths = %d, want 24", s.HorizonMonths)
	}
	// missing keys keep their defaults
	if !s.ScenarioAdjustments.Best.Income.Equal(decimal.RequireFromString("1.1")) {
		t.Fatalf("best income = %s, want default 1.1", s.ScenarioAdjustments.Best.Income)
	}
}

func TestDecodeSettings_HandWrittenTOML(t *testing.T) {
	doc := []byte(`
current_balance = "-40.25"
monthly_income = 2500
horizon_months = 6

[scenario_adjustments.worst]
income = "0.5"
expense = "1.5"

[[debts]]
balance = "800"
monthly_payment = "100"
interest_rate_annual = "0"
`)

	s, err := DecodeSettings(doc, FormatTOML)
	if err != nil {
		t.Fatalf("DecodeSettings: %v", err)
	}
	if !s.CurrentBalance.Equal(decimal.RequireFromString("-40.25")) {
		t.Fatalf("CurrentBalance = %s", s.CurrentBalance)
	}
	if !s.MonthlyIncome.Equal(decimal.NewFromInt(2500)) {
		t.Fatalf("MonthlyIncome = %s", s.MonthlyIncome)
	}
	if !s.ScenarioAdjustments.Worst.Expense.Equal(decimal.RequireFromString("1.5")) {
		t.Fatalf("worst expense = %s", s.ScenarioAdjustments.Worst.Expense)
	}
	if len(s.Debts) != 1 {
		t.Fatalf("len(Debts) = %d, want 1", len(s.Debts))
	}
}

func TestDecodeSettings_JSONRejectsUnknownFields(t *testing.T) {
	_, err := DecodeSettings([]byte(`{"monthly_incme": "10"}`), FormatJSON)
	if err == nil {
		t.Fatal("expected unknown field error")
	}
}

func TestSettingsFile_WriteThenRead(t *testing.T) {
	s := model.DefaultSettings()
	s.MonthlyIncome = decimal.RequireFromString("5100.25")
	s.Debts = []model.Debt{{Name: "loan", Balance: decimal.NewFromInt(9000), MonthlyPayment: decimal.NewFromInt(250)}}

	for _, name := range []string{"s.yaml", "s.toml", "s.json"} {
		path := filepath.Join(t.TempDir(), "out", name)
		if err := WriteSettingsFile(path, s); err != nil {
			t.Fatalf("WriteSettingsFile(%s): %v", name, err)
		}
		got, err := ReadSettingsFile(path)
		if err != nil {
			t.Fatalf("ReadSettingsFile(%s): %v", name, err)
		}
		if !got.MonthlyIncome.Equal(s.MonthlyIncome) || len(got.Debts) != 1 || got.Debts[0].Name != "loan" {
			t.Fatalf("%s: got %+v", name, got)
		}
		if err := got.Validate(); err != nil {
			t.Fatalf("%s: decoded settings invalid: %v", name, err)
		}
	}
}

func TestReadSettingsFile_ImportedValuesAreValidated(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	s := model.DefaultSettings()
	s.HorizonMonths = 0
	if err := WriteSettingsFile(path, s); err != nil {
		t.Fatalf("WriteSettingsFile: %v", err)
	}

	got, err := ReadSettingsFile(path)
	if err != nil {
		t.Fatalf("ReadSettingsFile: %v", err)
	}
	if err := got.Validate(); !errors.Is(err, model.ErrInvalidSettings) {
		t.Fatalf("Validate = %v, want ErrInvalidSettings", err)
	}
}
