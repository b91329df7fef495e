// Package store persists a household's projection settings and the history of
// generated projections.
package store

import (
	"context"
	"errors"

	"github.com/theirongolddev/runway/internal/model"
)

// ErrHouseholdNotFound is returned when a household has never been saved.
var ErrHouseholdNotFound = errors.New("household not found")

// DefaultHousehold is used when no household name is configured.
const DefaultHousehold = "default"

// Repository loads and saves the settings record of one household.
type Repository interface {
	// Load returns the stored settings, or model.DefaultSettings when the
	// household has never saved any.
	Load(ctx context.Context) (model.ProjectionSettings, error)

	// Save validates settings, persists them atomically and returns the
	// stored copy with UpdatedAt set. Invalid settings are rejected with a
	// model.ValidationErrors and nothing is written.
	Save(ctx context.Context, settings model.ProjectionSettings) (model.ProjectionSettings, error)
}

// RunRecorder keeps a history of projection summaries.
type RunRecorder interface {
	RecordRun(ctx context.Context, summary model.ProjectionSummary) (model.ProjectionRun, error)
	RecentRuns(ctx context.Context, limit int) ([]model.ProjectionRun, error)
}
