package store

import (
	"context"
	"sync"
	"time"

	"github.com/theirongolddev/runway/internal/model"
)

var (
	_ Repository  = (*Memory)(nil)
	_ RunRecorder = (*Memory)(nil)
)

// Memory is an in-process Repository. Nothing survives the process.
type Memory struct {
	mu       sync.RWMutex
	settings *model.ProjectionSettings
	runs     []model.ProjectionRun
	now      func() time.Time
}

// NewMemory returns an empty store. A nil seed starts from defaults.
func NewMemory(seed *model.ProjectionSettings) *Memory {
	m := &Memory{now: time.Now}
	if seed != nil {
		s := seed.Clone()
		m.settings = &s
	}
	return m
}

// Load implements Repository.
func (m *Memory) Load(_ context.Context) (model.ProjectionSettings, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.settings == nil {
		return model.DefaultSettings(), nil
	}
	return m.settings.Clone(), nil
}

// Save implements Repository.
func (m *Memory) Save(_ context.Context, settings model.ProjectionSettings) (model.ProjectionSettings, error) {
	if err := settings.Validate(); err != nil {
		return model.ProjectionSettings{}, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	stored := settings.Clone()
	stored.UpdatedAt = m.now().UTC()
	m.settings = &stored
	return stored.Clone(), nil
}

// RecordRun implements RunRecorder.
func (m *Memory) RecordRun(_ context.Context, summary model.ProjectionSummary) (model.ProjectionRun, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	run := model.ProjectionRun{
		ID:          int64(len(m.runs) + 1),
		Household:   DefaultHousehold,
		GeneratedAt: m.now().UTC(),
		Summary:     summary,
	}
	m.runs = append(m.runs, run)
	return run, nil
}

// RecentRuns implements RunRecorder.
func (m *Memory) RecentRuns(_ context.Context, limit int) ([]model.ProjectionRun, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if limit <= 0 || limit > len(m.runs) {
		limit = len(m.runs)
	}
	out := make([]model.ProjectionRun, 0, limit)
	for i := len(m.runs) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, m.runs[i])
	}
	return out, nil
}
