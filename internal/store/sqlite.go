package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/theirongolddev/runway/internal/model"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // register sqlite driver
)

var (
	_ Repository  = (*SQLite)(nil)
	_ RunRecorder = (*SQLite)(nil)
)

// timeLayout is fixed width so TEXT columns sort chronologically.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// SQLite stores one household's settings in a SQLite database. Several
// households may share the same file.
type SQLite struct {
	db        *sql.DB
	household string
}

// Household is a row of the households table.
type Household struct {
	ID        string
	Name      string
	CreatedAt time.Time
}

// queryer is satisfied by *sql.DB and *sql.Tx.
type queryer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Open opens or creates the database at dbPath and binds it to household.
func Open(dbPath, household string) (*SQLite, error) {
	if household == "" {
		household = DefaultHousehold
	}

	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("creating data dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=synchronous(normal)&_pragma=foreign_keys(on)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening settings db: %w", err)
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &SQLite{db: db, household: household}, nil
}

// Close closes the database.
func (s *SQLite) Close() error {
	return s.db.Close()
}

// HouseholdName returns the household this store reads and writes.
func (s *SQLite) HouseholdName() string {
	return s.household
}

// Load implements Repository.
func (s *SQLite) Load(ctx context.Context) (model.ProjectionSettings, error) {
	id, err := householdID(ctx, s.db, s.household)
	if errors.Is(err, ErrHouseholdNotFound) {
		return model.DefaultSettings(), nil
	}
	if err != nil {
		return model.ProjectionSettings{}, err
	}

	var (
		out       model.ProjectionSettings
		updatedAt string
		adj       = &out.ScenarioAdjustments
	)
	err = s.db.QueryRowContext(ctx, `SELECT
		current_balance, monthly_income, monthly_fixed_expenses, monthly_variable_expenses,
		investment_balance, investment_contribution_monthly, investment_return_annual,
		horizon_months, best_income, best_expense, worst_income, worst_expense, updated_at
		FROM projection_settings WHERE household_id = ?`, id).Scan(
		&out.CurrentBalance, &out.MonthlyIncome, &out.MonthlyFixedExpenses, &out.MonthlyVariableExpenses,
		&out.InvestmentBalance, &out.InvestmentContributionMonthly, &out.InvestmentReturnAnnual,
		&out.HorizonMonths, &adj.Best.Income, &adj.Best.Expense, &adj.Worst.Income, &adj.Worst.Expense,
		&updatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return model.DefaultSettings(), nil
	}
	if err != nil {
		return model.ProjectionSettings{}, fmt.Errorf("reading settings: %w", err)
	}
	out.UpdatedAt, _ = time.Parse(timeLayout, updatedAt)

	debts, err := s.loadDebts(ctx, id)
	if err != nil {
		return model.ProjectionSettings{}, err
	}
	out.Debts = debts

	return out, nil
}

func (s *SQLite) loadDebts(ctx context.Context, householdID string) ([]model.Debt, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT name, balance, monthly_payment, interest_rate_annual
		FROM debts WHERE household_id = ? ORDER BY position`, householdID)
	if err != nil {
		return nil, fmt.Errorf("reading debts: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var debts []model.Debt
	for rows.Next() {
		var d model.Debt
		var name sql.NullString
		if err := rows.Scan(&name, &d.Balance, &d.MonthlyPayment, &d.InterestRateAnnual); err != nil {
			return nil, err
		}
		d.Name = name.String
		debts = append(debts, d)
	}
	return debts, rows.Err()
}

// Save implements Repository.
func (s *SQLite) Save(ctx context.Context, settings model.ProjectionSettings) (model.ProjectionSettings, error) {
	if err := settings.Validate(); err != nil {
		return model.ProjectionSettings{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return model.ProjectionSettings{}, err
	}
	defer func() { _ = tx.Rollback() }()

	id, err := ensureHousehold(ctx, tx, s.household)
	if err != nil {
		return model.ProjectionSettings{}, err
	}

	out := settings.Clone()
	out.UpdatedAt = time.Now().UTC()
	adj := out.ScenarioAdjustments

	_, err = tx.ExecContext(ctx, `INSERT OR REPLACE INTO projection_settings
		(household_id, current_balance, monthly_income, monthly_fixed_expenses, monthly_variable_expenses,
		 investment_balance, investment_contribution_monthly, investment_return_annual,
		 horizon_months, best_income, best_expense, worst_income, worst_expense, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, out.CurrentBalance, out.MonthlyIncome, out.MonthlyFixedExpenses, out.MonthlyVariableExpenses,
		out.InvestmentBalance, out.InvestmentContributionMonthly, out.InvestmentReturnAnnual,
		out.HorizonMonths, adj.Best.Income, adj.Best.Expense, adj.Worst.Income, adj.Worst.Expense,
		out.UpdatedAt.Format(timeLayout),
	)
	if err != nil {
		return model.ProjectionSettings{}, fmt.Errorf("writing settings: %w", err)
	}

	// Debts are replaced wholesale so positions stay dense
	if _, err := tx.ExecContext(ctx, "DELETE FROM debts WHERE household_id = ?", id); err != nil {
		return model.ProjectionSettings{}, err
	}
	for i, d := range out.Debts {
		_, err = tx.ExecContext(ctx, `INSERT INTO debts
			(household_id, position, name, balance, monthly_payment, interest_rate_annual)
			VALUES (?, ?, ?, ?, ?, ?)`,
			id, i, d.Name, d.Balance, d.MonthlyPayment, d.InterestRateAnnual,
		)
		if err != nil {
			return model.ProjectionSettings{}, fmt.Errorf("writing debt %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return model.ProjectionSettings{}, err
	}
	return out, nil
}

// Households lists every household in the database, oldest first.
func (s *SQLite) Households(ctx context.Context) ([]Household, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT id, name, created_at FROM households ORDER BY created_at, name")
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []Household
	for rows.Next() {
		var h Household
		var created string
		if err := rows.Scan(&h.ID, &h.Name, &created); err != nil {
			return nil, err
		}
		h.CreatedAt, _ = time.Parse(timeLayout, created)
		out = append(out, h)
	}
	return out, rows.Err()
}

func householdID(ctx context.Context, q queryer, name string) (string, error) {
	var id string
	err := q.QueryRowContext(ctx, "SELECT id FROM households WHERE name = ?", name).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("%w: %s", ErrHouseholdNotFound, name)
	}
	if err != nil {
		return "", fmt.Errorf("looking up household: %w", err)
	}
	return id, nil
}

func ensureHousehold(ctx context.Context, q queryer, name string) (string, error) {
	id, err := householdID(ctx, q, name)
	if err == nil || !errors.Is(err, ErrHouseholdNotFound) {
		return id, err
	}

	id = uuid.New().String()
	_, err = q.ExecContext(ctx, "INSERT INTO households (id, name, created_at) VALUES (?, ?, ?)",
		id, name, time.Now().UTC().Format(timeLayout))
	if err != nil {
		return "", fmt.Errorf("creating household: %w", err)
	}
	return id, nil
}
