package cmd

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/theirongolddev/runway/internal/model"
	"github.com/theirongolddev/runway/internal/projection"
	"github.com/theirongolddev/runway/internal/store"

	"github.com/shopspring/decimal"
)

var testNow = time.Date(2026, 10, 16, 12, 0, 0, 0, time.UTC)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func resetSetFlags(t *testing.T) {
	t.Helper()
	for _, f := range []*decimalFlag{
		&setBalance, &setIncome, &setFixed, &setVariable, &setInvestment, &setContribution,
		&setReturn, &setBestIncome, &setBestExpense, &setWorstIncome, &setWorstExpense,
	} {
		*f = decimalFlag{}
	}
	flagSetHorizon = 0
	flagSetDebts = nil
	flagSetClearDebts = false
	t.Cleanup(func() {
		flagSetHorizon = 0
		flagSetDebts = nil
		flagSetClearDebts = false
	})
}

func TestDecimalFlag(t *testing.T) {
	var f decimalFlag
	if f.String() != "" {
		t.Fatalf("unset String() = %q, want empty", f.String())
	}
	if err := f.Set("$1,250.50"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if !f.value.Equal(dec("1250.5")) || !f.set {
		t.Fatalf("value = %s set=%v, want 1250.5 set", f.value, f.set)
	}
	if f.Type() != "decimal" {
		t.Fatalf("Type() = %q, want decimal", f.Type())
	}
	if err := f.Set("lots"); err == nil {
		t.Fatal("Set(lots) should fail")
	}

	var neg decimalFlag
	if err := neg.Set("-300"); err != nil || !neg.value.Equal(dec("-300")) {
		t.Fatalf("Set(-300) = %s, %v", neg.value, err)
	}
}

func TestParseDebt(t *testing.T) {
	tests := []struct {
		entry    string
		want    model.Debt
		wantErr bool
	}{
		{"car:8400:310:0.069", model.Debt{Name: "car", Balance: dec("8400"), MonthlyPayment: dec("310"), InterestRateAnnual: dec("0.069")}, false},
		{"card:1,200:150", model.Debt{Name: "card", Balance: dec("1200"), MonthlyPayment: dec("150")}, false},
		{":500:50:0", model.Debt{Balance: dec("500"), MonthlyPayment: dec("50")}, false},
		{"car:8400", model.Debt{}, true},
		{"car:1:2:3:4", model.Debt{}, true},
		{"car:abc:310:0.05", model.Debt{}, true},
	}

	for _, tt := range tests {
		got, err := parseDebt(tt.entry)
		if (err != nil) != tt.wantErr {
			t.Fatalf("parseDebt(%q) err = %v, wantErr %v", tt.entry, err, tt.wantErr)
		}
		if tt.wantErr {
			continue
		}
		if got.Name != tt.want.Name ||
			!got.Balance.Equal(tt.want.Balance) ||
			!got.MonthlyPayment.Equal(tt.want.MonthlyPayment) ||
			!got.InterestRateAnnual.Equal(tt.want.InterestRateAnnual) {
			t.Fatalf("parseDebt(%q) = %+v, want %+v", tt.entry, got, tt.want)
		}
	}
}

func TestApplySettingsFlags(t *testing.T) {
	resetSetFlags(t)

	s := model.DefaultSettings()
	s.MonthlyIncome = dec("3000")
	s.Debts = []model.Debt{{Name: "old", Balance: dec("100"), MonthlyPayment: dec("10")}}

	if err := setFixed.Set("1800"); err != nil {
		t.Fatal(err)
	}
	if err := setWorstIncome.Set("0.75"); err != nil {
		t.Fatal(err)
	}
	flagSetHorizon = 24
	flagSetClearDebts = true
	flagSetDebts = []string{"card:1200:150:0.2"}

	if err := applySettingsFlags(&s); err != nil {
		t.Fatalf("applySettingsFlags: %v", err)
	}

	if !s.MonthlyIncome.Equal(dec("3000")) {
		t.Fatalf("income = %s, want untouched 3000", s.MonthlyIncome)
	}
	if !s.MonthlyFixedExpenses.Equal(dec("1800")) {
		t.Fatalf("fixed = %s, want 1800", s.MonthlyFixedExpenses)
	}
	if !s.ScenarioAdjustments.Worst.Income.Equal(dec("0.75")) {
		t.Fatalf("worst income = %s, want 0.75", s.ScenarioAdjustments.Worst.Income)
	}
	if s.HorizonMonths != 24 {
		t.Fatalf("horizon = %d, want 24", s.HorizonMonths)
	}
	if len(s.Debts) != 1 || s.Debts[0].Name != "card" {
		t.Fatalf("debts = %+v, want only card", s.Debts)
	}
}

func TestApplySettingsFlags_AppendsWithoutClear(t *testing.T) {
	resetSetFlags(t)

	s := model.DefaultSettings()
	s.Debts = []model.Debt{{Name: "old", Balance: dec("100"), MonthlyPayment: dec("10")}}
	flagSetDebts = []string{"new:50:5"}

	if err := applySettingsFlags(&s); err != nil {
		t.Fatalf("applySettingsFlags: %v", err)
	}
	if len(s.Debts) != 2 || s.Debts[1].Name != "new" {
		t.Fatalf("debts = %+v, want old then new", s.Debts)
	}

	flagSetDebts = []string{"broken"}
	if err := applySettingsFlags(&s); err == nil {
		t.Fatal("bad --debt should fail")
	}
}

func testSettings() model.ProjectionSettings {
	s := model.DefaultSettings()
	s.CurrentBalance = dec("1000")
	s.MonthlyIncome = dec("3000")
	s.MonthlyFixedExpenses = dec("1500")
	s.MonthlyVariableExpenses = dec("800")
	s.HorizonMonths = 3
	s.Debts = []model.Debt{{Name: "card", Balance: dec("1000"), MonthlyPayment: dec("500")}}
	return s
}

func TestLoadProjection_HorizonOverride(t *testing.T) {
	oldHorizon, oldQuiet := flagHorizon, flagQuiet
	t.Cleanup(func() { flagHorizon, flagQuiet = oldHorizon, oldQuiet })
	flagQuiet = true

	seed := testSettings()
	repo := store.NewMemory(&seed)

	flagHorizon = 6
	run, err := loadProjection(context.Background(), repo)
	if err != nil {
		t.Fatalf("loadProjection: %v", err)
	}
	if got := len(run.results[model.ScenarioBase]); got != 6 {
		t.Fatalf("base months = %d, want 6", got)
	}

	stored, _ := repo.Load(context.Background())
	if stored.HorizonMonths != 3 {
		t.Fatalf("stored horizon = %d, want 3 (override must not persist)", stored.HorizonMonths)
	}

	flagHorizon = -1
	_, err = loadProjection(context.Background(), repo)
	if !errors.Is(err, model.ErrInvalidSettings) {
		t.Fatalf("negative horizon err = %v, want ErrInvalidSettings", err)
	}
}

func TestCashByScenarioTable(t *testing.T) {
	s := testSettings()
	s.HorizonMonths = 5
	results, err := projection.GenerateAll(s, testNow)
	if err != nil {
		t.Fatal(err)
	}

	tbl := cashByScenarioTable(results, 2)
	if len(tbl.Headers) != 4 || tbl.Headers[1] != "base" {
		t.Fatalf("headers = %v", tbl.Headers)
	}
	// months 0, 2, 4
	if len(tbl.Rows) != 3 {
		t.Fatalf("rows = %d, want 3", len(tbl.Rows))
	}
	if tbl.Rows[0][0] != "2026-10" || tbl.Rows[2][0] != "2027-02" {
		t.Fatalf("row labels = %s..%s, want 2026-10..2027-02", tbl.Rows[0][0], tbl.Rows[2][0])
	}

	tbl = cashByScenarioTable(results, 3)
	// months 0, 3 and the final month 4
	if len(tbl.Rows) != 3 || tbl.Rows[2][0] != "2027-02" {
		t.Fatalf("step 3 rows = %d, want 3 ending at 2027-02", len(tbl.Rows))
	}
}

func TestHorizonDiffTable(t *testing.T) {
	results, err := projection.GenerateAll(testSettings(), testNow)
	if err != nil {
		t.Fatal(err)
	}

	tbl := horizonDiffTable(results)
	if len(tbl.Headers) != 8 {
		t.Fatalf("headers = %v, want label + base + 3 per scenario", tbl.Headers)
	}
	if len(tbl.Rows) != 8 {
		t.Fatalf("rows = %d, want 8", len(tbl.Rows))
	}
	if tbl.Rows[4][0] != "Cash" {
		t.Fatalf("row 4 = %q, want Cash", tbl.Rows[4][0])
	}

	empty := horizonDiffTable(nil)
	if len(empty.Rows) != 0 {
		t.Fatalf("empty results rows = %d, want 0", len(empty.Rows))
	}
}

func TestProjectionWarnings(t *testing.T) {
	s := testSettings()
	sum := model.ProjectionSummary{InsolventMonth: "2027-01", EndingDebt: dec("1200")}

	got := projectionWarnings(s, sum)
	if len(got) != 2 {
		t.Fatalf("warnings = %v, want 2", got)
	}
	if !strings.Contains(got[0], "2027-01") {
		t.Fatalf("warning = %q, want month", got[0])
	}

	if got := projectionWarnings(s, model.ProjectionSummary{EndingDebt: dec("0")}); len(got) != 0 {
		t.Fatalf("healthy warnings = %v, want none", got)
	}
}

func TestActiveScenario(t *testing.T) {
	old, oldCfg := flagScenario, appConfig
	t.Cleanup(func() { flagScenario, appConfig = old, oldCfg })

	flagScenario = ""
	appConfig.General.DefaultScenario = "worst"
	if sc, err := activeScenario(); err != nil || sc != model.ScenarioWorst {
		t.Fatalf("config default = %v, %v; want worst", sc, err)
	}

	flagScenario = "best"
	if sc, err := activeScenario(); err != nil || sc != model.ScenarioBest {
		t.Fatalf("flag = %v, %v; want best", sc, err)
	}

	flagScenario = "sideways"
	if _, err := activeScenario(); err == nil {
		t.Fatal("unknown scenario should fail")
	}
}

func TestDaemonConfigPrefersFlags(t *testing.T) {
	oldCfg := appConfig
	oldAddr, oldSched, oldBuf := flagDaemonAddr, flagDaemonSchedule, flagDaemonEventsBuffer
	t.Cleanup(func() {
		appConfig = oldCfg
		flagDaemonAddr, flagDaemonSchedule, flagDaemonEventsBuffer = oldAddr, oldSched, oldBuf
	})

	appConfig.Daemon.Addr = "127.0.0.1:9000"
	appConfig.Daemon.RefreshSchedule = "@every 1m"
	appConfig.Daemon.EventsBuffer = 50
	flagDaemonAddr, flagDaemonSchedule, flagDaemonEventsBuffer = "", "", 0

	cfg := daemonConfig()
	if cfg.Addr != "127.0.0.1:9000" || cfg.RefreshSchedule != "@every 1m" || cfg.EventsBuffer != 50 {
		t.Fatalf("config values = %+v", cfg)
	}

	flagDaemonAddr = "127.0.0.1:9100"
	flagDaemonEventsBuffer = 5
	cfg = daemonConfig()
	if cfg.Addr != "127.0.0.1:9100" || cfg.EventsBuffer != 5 {
		t.Fatalf("flag values = %+v", cfg)
	}
}

func TestFilterDetachArg(t *testing.T) {
	got := filterDetachArg([]string{"daemon", "--detach", "--addr", "x", "--detach=true"})
	want := []string{"daemon", "--addr", "x"}
	if strings.Join(got, " ") != strings.Join(want, " ") {
		t.Fatalf("filterDetachArg = %v, want %v", got, want)
	}
}

func TestPIDAndStateFiles(t *testing.T) {
	pidFile := t.TempDir() + "/runwayd.pid"

	if err := writePID(pidFile, 4242); err != nil {
		t.Fatalf("writePID: %v", err)
	}
	pid, err := readPID(pidFile)
	if err != nil || pid != 4242 {
		t.Fatalf("readPID = %d, %v; want 4242", pid, err)
	}

	st := daemonRuntimeState{PID: 4242, Addr: "127.0.0.1:8791", Household: "home"}
	if err := writeState(statePath(pidFile), st); err != nil {
		t.Fatalf("writeState: %v", err)
	}
	got, err := readState(statePath(pidFile))
	if err != nil || got.Household != "home" || got.Addr != st.Addr {
		t.Fatalf("readState = %+v, %v", got, err)
	}
}
