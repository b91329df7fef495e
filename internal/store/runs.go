package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/theirongolddev/runway/internal/model"
)

// RecordRun appends a projection summary to the household's history.
func (s *SQLite) RecordRun(ctx context.Context, summary model.ProjectionSummary) (model.ProjectionRun, error) {
	id, err := ensureHousehold(ctx, s.db, s.household)
	if err != nil {
		return model.ProjectionRun{}, err
	}

	run := model.ProjectionRun{
		Household:   s.household,
		GeneratedAt: time.Now().UTC(),
		Summary:     summary,
	}

	res, err := s.db.ExecContext(ctx, `INSERT INTO projection_runs
		(household_id, scenario, horizon_months, ending_cash, lowest_cash, lowest_cash_month,
		 insolvent_month, debt_free_month, ending_debt, ending_net_worth, generated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, summary.Scenario.String(), summary.Months, summary.EndingCash, summary.LowestCash,
		summary.LowestCashMonth, summary.InsolventMonth, summary.DebtFreeMonth,
		summary.EndingDebt, summary.EndingNetWorth, run.GeneratedAt.Format(timeLayout),
	)
	if err != nil {
		return model.ProjectionRun{}, fmt.Errorf("recording run: %w", err)
	}
	run.ID, _ = res.LastInsertId()
	return run, nil
}

// RecentRuns returns up to limit recorded runs, newest first.
func (s *SQLite) RecentRuns(ctx context.Context, limit int) ([]model.ProjectionRun, error) {
	id, err := householdID(ctx, s.db, s.household)
	if errors.Is(err, ErrHouseholdNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.QueryContext(ctx, `SELECT
		id, scenario, horizon_months, ending_cash, lowest_cash, lowest_cash_month,
		insolvent_month, debt_free_month, ending_debt, ending_net_worth, generated_at
		FROM projection_runs WHERE household_id = ?
		ORDER BY generated_at DESC, id DESC LIMIT ?`, id, limit)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []model.ProjectionRun
	for rows.Next() {
		run := model.ProjectionRun{Household: s.household}
		sum := &run.Summary
		var scenario, generated string
		var lowestMonth, insolvent, debtFree sql.NullString

		err := rows.Scan(&run.ID, &scenario, &sum.Months, &sum.EndingCash, &sum.LowestCash, &lowestMonth,
			&insolvent, &debtFree, &sum.EndingDebt, &sum.EndingNetWorth, &generated)
		if err != nil {
			return nil, err
		}

		sum.Scenario, err = model.ParseScenario(scenario)
		if err != nil {
			return nil, fmt.Errorf("run %d: %w", run.ID, err)
		}
		sum.LowestCashMonth = lowestMonth.String
		sum.InsolventMonth = insolvent.String
		sum.DebtFreeMonth = debtFree.String
		run.GeneratedAt, _ = time.Parse(timeLayout, generated)
		out = append(out, run)
	}
	return out, rows.Err()
}
