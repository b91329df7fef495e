package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/theirongolddev/runway/internal/model"

	"github.com/shopspring/decimal"
)

func TestMemory_SaveIsolatesCallerSlices(t *testing.T) {
	ctx := context.Background()
	m := NewMemory(nil)
	m.now = func() time.Time { return time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC) }

	in := sampleSettings()
	saved, err := m.Save(ctx, in)
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if !saved.UpdatedAt.Equal(time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC)) {
		t.Fatalf("UpdatedAt = %v", saved.UpdatedAt)
	}

	in.Debts[0].Balance = decimal.Zero
	saved.Debts[1].Balance = decimal.Zero

	got, _ := m.Load(ctx)
	if !got.Debts[0].Balance.Equal(decimal.RequireFromString("3100")) {
		t.Fatalf("caller mutation reached store: %s", got.Debts[0].Balance)
	}
	if !got.Debts[1].Balance.Equal(decimal.RequireFromString("14000")) {
		t.Fatalf("returned copy shares store slice: %s", got.Debts[1].Balance)
	}
}

func TestMemory_RejectsInvalid(t *testing.T) {
	m := NewMemory(nil)
	bad := model.DefaultSettings()
	bad.HorizonMonths = model.MaxHorizonMonths + 1

	if _, err := m.Save(context.Background(), bad); !errors.Is(err, model.ErrInvalidSettings) {
		t.Fatalf("Save err = %v, want ErrInvalidSettings", err)
	}
	got, _ := m.Load(context.Background())
	if got.HorizonMonths != 12 {
		t.Fatalf("HorizonMonths = %d, want default 12", got.HorizonMonths)
	}
}

func TestMemory_RecentRunsNewestFirst(t *testing.T) {
	ctx := context.Background()
	m := NewMemory(nil)
	for _, sc := range model.AllScenarios {
		if _, err := m.RecordRun(ctx, model.ProjectionSummary{Scenario: sc}); err != nil {
			t.Fatalf("RecordRun: %v", err)
		}
	}

	runs, _ := m.RecentRuns(ctx, 0)
	if len(runs) != 3 {
		t.Fatalf("len(runs) = %d, want 3", len(runs))
	}
	if runs[0].Summary.Scenario != model.ScenarioWorst || runs[0].ID != 3 {
		t.Fatalf("first run = %+v, want worst with id 3", runs[0])
	}
}
