package model

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
)

func TestParseScenario(t *testing.T) {
	tests := []struct {
		in      string
		want    Scenario
		wantErr bool
	}{
		{"base", ScenarioBase, false},
		{"BEST", ScenarioBest, false},
		{" worst ", ScenarioWorst, false},
		{"optimistic", ScenarioBase, true},
		{"", ScenarioBase, true},
	}

	for _, tt := range tests {
		got, err := ParseScenario(tt.in)
		if (err != nil) != tt.wantErr {
			t.Fatalf("ParseScenario(%q) err = %v, wantErr %v", tt.in, err, tt.wantErr)
		}
		if got != tt.want {
			t.Errorf("ParseScenario(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestScenarioJSONRejectsUnknown(t *testing.T) {
	var payload struct {
		Scenario Scenario `json:"scenario"`
	}
	if err := json.Unmarshal([]byte(`{"scenario":"worst"}`), &payload); err != nil {
		t.Fatalf("unmarshal worst: %v", err)
	}
	if payload.Scenario != ScenarioWorst {
		t.Fatalf("Scenario = %v, want worst", payload.Scenario)
	}

	if err := json.Unmarshal([]byte(`{"scenario":"sideways"}`), &payload); err == nil {
		t.Fatal("expected error for unknown scenario")
	}

	if _, err := Scenario(7).MarshalText(); err == nil {
		t.Fatal("expected MarshalText error for out-of-range scenario")
	}
}

func TestValidate_DefaultsAreValid(t *testing.T) {
	if err := DefaultSettings().Validate(); err != nil {
		t.Fatalf("DefaultSettings().Validate() = %v", err)
	}
}

func TestValidate_CollectsEveryField(t *testing.T) {
	s := DefaultSettings()
	s.HorizonMonths = 0
	s.MonthlyIncome = decimal.NewFromInt(-1)
	s.InvestmentReturnAnnual = decimal.RequireFromString("-1.5")
	s.Debts = []Debt{{Balance: decimal.NewFromInt(100), MonthlyPayment: decimal.NewFromInt(-5)}}

	err := s.Validate()
	if err == nil {
		t.Fatal("expected validation error")
	}
	if !errors.Is(err, ErrInvalidSettings) {
		t.Fatalf("errors.Is(err, ErrInvalidSettings) = false for %v", err)
	}

	var verrs ValidationErrors
	if !errors.As(err, &verrs) {
		t.Fatalf("error is %T, want ValidationErrors", err)
	}
	if len(verrs) != 4 {
		t.Fatalf("got %d validation errors, want 4: %v", len(verrs), verrs)
	}

	msg := err.Error()
	for _, field := range []string{"horizon_months", "monthly_income", "investment_return_annual", "debts[0].monthly_payment"} {
		if !strings.Contains(msg, field) {
			t.Errorf("error %q does not mention %s", msg, field)
		}
	}
}

func TestValidate_AllowsOverdraftAndHorizonCap(t *testing.T) {
	s := DefaultSettings()
	s.CurrentBalance = decimal.NewFromInt(-2500)
	if err := s.Validate(); err != nil {
		t.Fatalf("negative current balance rejected: %v", err)
	}

	s.HorizonMonths = MaxHorizonMonths + 1
	if err := s.Validate(); err == nil {
		t.Fatal("expected horizon cap error")
	}
}

func TestCloneDoesNotShareDebts(t *testing.T) {
	s := DefaultSettings()
	s.Debts = []Debt{{Name: "card", Balance: decimal.NewFromInt(500)}}

	c := s.Clone()
	c.Debts[0].Balance = decimal.NewFromInt(1)

	if !s.Debts[0].Balance.Equal(decimal.NewFromInt(500)) {
		t.Fatalf("original debt balance changed to %s", s.Debts[0].Balance)
	}
}
