// Package daemon keeps projections for one household warm and serves them over
// HTTP, with an SSE stream that fires whenever the settings change.
package daemon

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/theirongolddev/runway/internal/model"
	"github.com/theirongolddev/runway/internal/projection"
	"github.com/theirongolddev/runway/internal/store"

	"github.com/robfig/cron/v3"
	"github.com/shopspring/decimal"
)

// Event types.
const (
	EventSnapshot        = "snapshot"
	EventSettingsChanged = "settings_changed"
	EventMonthRolled     = "month_rolled"
)

// Config controls the daemon runtime behavior.
type Config struct {
	Addr            string
	Household       string
	RefreshSchedule string
	EventsBuffer    int
	Location        *time.Location
}

// Snapshot is the projection state published in status and event payloads.
type Snapshot struct {
	At                time.Time                 `json:"at"`
	StartMonth        string                    `json:"start_month"`
	SettingsUpdatedAt time.Time                 `json:"settings_updated_at"`
	Summaries         []model.ProjectionSummary `json:"summaries"`
}

func (s Snapshot) summary(sc model.Scenario) (model.ProjectionSummary, bool) {
	for _, sum := range s.Summaries {
		if sum.Scenario == sc {
			return sum, true
		}
	}
	return model.ProjectionSummary{}, false
}

// Delta captures how the base scenario moved between two snapshots.
type Delta struct {
	EndingCash     decimal.Decimal `json:"ending_cash"`
	LowestCash     decimal.Decimal `json:"lowest_cash"`
	EndingDebt     decimal.Decimal `json:"ending_debt"`
	EndingNetWorth decimal.Decimal `json:"ending_net_worth"`
}

// Event is emitted whenever the projection snapshot updates.
type Event struct {
	ID        int64     `json:"id"`
	Type      string    `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Snapshot  Snapshot  `json:"snapshot"`
	Delta     Delta     `json:"delta"`
}

// Status is served at /v1/status.
type Status struct {
	StartedAt       time.Time `json:"started_at"`
	LastRefreshAt   time.Time `json:"last_refresh_at"`
	RefreshSchedule string    `json:"refresh_schedule"`
	RefreshCount    int64     `json:"refresh_count"`
	Household       string    `json:"household"`
	Summary         Snapshot  `json:"summary"`
	LastError       string    `json:"last_error,omitempty"`
	EventCount      int       `json:"event_count"`
	SubscriberCount int       `json:"subscriber_count"`
}

// Service provides the daemon runtime and HTTP API.
type Service struct {
	cfg     Config
	repo    store.Repository
	log     *slog.Logger
	now     func() time.Time
	metrics *metrics

	// refreshMu serializes refreshOnce between cron and PUT /v1/settings.
	refreshMu sync.Mutex

	mu            sync.RWMutex
	startedAt     time.Time
	lastRefreshAt time.Time
	refreshCount  int64
	lastError     string
	hasSnapshot   bool
	snapshot      Snapshot
	settings      model.ProjectionSettings
	results       map[model.Scenario][]model.ProjectionMonth
	nextEventID   int64
	events        []Event

	nextSubID int
	subs      map[int]chan Event
}

// New returns a daemon service reading settings from repo.
func New(cfg Config, repo store.Repository, logger *slog.Logger) *Service {
	if cfg.RefreshSchedule == "" {
		cfg.RefreshSchedule = "@every 15s"
	}
	if cfg.EventsBuffer < 1 {
		cfg.EventsBuffer = 200
	}
	if cfg.Addr == "" {
		cfg.Addr = "127.0.0.1:8791"
	}
	if cfg.Household == "" {
		cfg.Household = store.DefaultHousehold
	}
	if cfg.Location == nil {
		cfg.Location = time.Local
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Service{
		cfg:       cfg,
		repo:      repo,
		log:       logger.With("component", "daemon", "household", cfg.Household),
		now:       time.Now,
		metrics:   newMetrics(),
		startedAt: time.Now(),
		subs:      make(map[int]chan Event),
	}
}

// Run starts HTTP endpoints and the refresh schedule until ctx is canceled.
func (s *Service) Run(ctx context.Context) error {
	sched := cron.New(cron.WithLocation(s.cfg.Location))
	if _, err := sched.AddFunc(s.cfg.RefreshSchedule, func() { s.refreshOnce(ctx) }); err != nil {
		return fmt.Errorf("invalid refresh schedule %q: %w", s.cfg.RefreshSchedule, err)
	}

	server := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	// Seed the snapshot so status is useful immediately.
	s.refreshOnce(ctx)
	sched.Start()
	s.log.Info("daemon started", "addr", s.cfg.Addr, "schedule", s.cfg.RefreshSchedule)

	select {
	case <-ctx.Done():
		<-sched.Stop().Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	case err := <-errCh:
		<-sched.Stop().Done()
		return fmt.Errorf("daemon http server: %w", err)
	}
}

// refreshOnce reloads settings and recomputes every scenario when the
// settings changed or the calendar month rolled over.
func (s *Service) refreshOnce(ctx context.Context) {
	s.refreshMu.Lock()
	defer s.refreshMu.Unlock()

	settings, err := s.repo.Load(ctx)
	if err != nil {
		s.recordError(fmt.Errorf("loading settings: %w", err))
		return
	}

	now := s.now().In(s.cfg.Location)
	startMonth := now.Format(model.MonthLabelLayout)

	s.mu.RLock()
	unchanged := s.hasSnapshot &&
		s.snapshot.SettingsUpdatedAt.Equal(settings.UpdatedAt) &&
		s.snapshot.StartMonth == startMonth
	s.mu.RUnlock()

	if unchanged {
		s.mu.Lock()
		s.lastRefreshAt = now
		s.refreshCount++
		s.lastError = ""
		s.mu.Unlock()
		return
	}

	results, err := s.generate(settings, now)
	if err != nil {
		s.recordError(err)
		return
	}

	snap := Snapshot{
		At:                now,
		StartMonth:        startMonth,
		SettingsUpdatedAt: settings.UpdatedAt,
		Summaries:         projection.SummarizeAll(settings, results),
	}

	s.mu.Lock()
	prev := s.snapshot
	prevExists := s.hasSnapshot

	s.hasSnapshot = true
	s.snapshot = snap
	s.settings = settings
	s.results = results
	s.lastRefreshAt = now
	s.refreshCount++
	s.lastError = ""

	s.nextEventID++
	ev := Event{
		ID:        s.nextEventID,
		Type:      EventSnapshot,
		Timestamp: now,
		Snapshot:  snap,
	}
	if prevExists {
		ev.Delta = diffSnapshots(prev, snap)
		ev.Type = EventSettingsChanged
		if prev.SettingsUpdatedAt.Equal(snap.SettingsUpdatedAt) {
			ev.Type = EventMonthRolled
		}
	}
	s.mu.Unlock()

	s.log.Info("projection refreshed", "event", ev.Type, "start_month", startMonth)
	s.publishEvent(ev)
}

func (s *Service) generate(settings model.ProjectionSettings, start time.Time) (map[model.Scenario][]model.ProjectionMonth, error) {
	began := time.Now()
	results, err := projection.GenerateAll(settings, start)
	if err != nil {
		return nil, fmt.Errorf("generating projection: %w", err)
	}
	s.metrics.duration.Observe(time.Since(began).Seconds())
	for sc := range results {
		s.metrics.runs.WithLabelValues(sc.String()).Inc()
	}
	return results, nil
}

func (s *Service) recordError(err error) {
	s.metrics.reloadErrors.Inc()
	s.log.Error("refresh failed", "err", err)

	s.mu.Lock()
	s.lastError = err.Error()
	s.lastRefreshAt = s.now()
	s.refreshCount++
	s.mu.Unlock()
}

func diffSnapshots(prev, curr Snapshot) Delta {
	p, _ := prev.summary(model.ScenarioBase)
	c, _ := curr.summary(model.ScenarioBase)
	return Delta{
		EndingCash:     c.EndingCash.Sub(p.EndingCash),
		LowestCash:     c.LowestCash.Sub(p.LowestCash),
		EndingDebt:     c.EndingDebt.Sub(p.EndingDebt),
		EndingNetWorth: c.EndingNetWorth.Sub(p.EndingNetWorth),
	}
}

func (s *Service) publishEvent(ev Event) {
	s.mu.Lock()
	s.events = append(s.events, ev)
	if len(s.events) > s.cfg.EventsBuffer {
		s.events = s.events[len(s.events)-s.cfg.EventsBuffer:]
	}

	for _, ch := range s.subs {
		select {
		case ch <- ev:
		default:
		}
	}
	s.mu.Unlock()
}

func (s *Service) snapshotStatus() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return Status{
		StartedAt:       s.startedAt,
		LastRefreshAt:   s.lastRefreshAt,
		RefreshSchedule: s.cfg.RefreshSchedule,
		RefreshCount:    s.refreshCount,
		Household:       s.cfg.Household,
		Summary:         s.snapshot,
		LastError:       s.lastError,
		EventCount:      len(s.events),
		SubscriberCount: len(s.subs),
	}
}

func (s *Service) addSubscriber(ch chan Event) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextSubID++
	id := s.nextSubID
	s.subs[id] = ch
	return id
}

func (s *Service) removeSubscriber(id int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.subs, id)
}
