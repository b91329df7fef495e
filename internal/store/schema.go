package store

const schemaSQL = `
CREATE TABLE IF NOT EXISTS households (
    id                   TEXT PRIMARY KEY,
    name                 TEXT NOT NULL UNIQUE,
    created_at           TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS projection_settings (
    household_id                    TEXT PRIMARY KEY REFERENCES households(id) ON DELETE CASCADE,
    current_balance                 TEXT NOT NULL,
    monthly_income                  TEXT NOT NULL,
    monthly_fixed_expenses          TEXT NOT NULL,
    monthly_variable_expenses       TEXT NOT NULL,
    investment_balance              TEXT NOT NULL,
    investment_contribution_monthly TEXT NOT NULL,
    investment_return_annual        TEXT NOT NULL,
    horizon_months                  INTEGER NOT NULL,
    best_income                     TEXT NOT NULL,
    best_expense                    TEXT NOT NULL,
    worst_income                    TEXT NOT NULL,
    worst_expense                   TEXT NOT NULL,
    updated_at                      TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS debts (
    household_id         TEXT NOT NULL REFERENCES households(id) ON DELETE CASCADE,
    position             INTEGER NOT NULL,
    name                 TEXT,
    balance              TEXT NOT NULL,
    monthly_payment      TEXT NOT NULL,
    interest_rate_annual TEXT NOT NULL,
    PRIMARY KEY (household_id, position)
);

CREATE TABLE IF NOT EXISTS projection_runs (
    id                   INTEGER PRIMARY KEY AUTOINCREMENT,
    household_id         TEXT NOT NULL REFERENCES households(id) ON DELETE CASCADE,
    scenario             TEXT NOT NULL,
    horizon_months       INTEGER NOT NULL,
    ending_cash          TEXT NOT NULL,
    lowest_cash          TEXT NOT NULL,
    lowest_cash_month    TEXT,
    insolvent_month      TEXT,
    debt_free_month      TEXT,
    ending_debt          TEXT NOT NULL,
    ending_net_worth     TEXT NOT NULL,
    generated_at         TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_runs_household ON projection_runs(household_id, generated_at);
`
