package daemon

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/theirongolddev/runway/internal/export"
	"github.com/theirongolddev/runway/internal/model"
	"github.com/theirongolddev/runway/internal/projection"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// maxSettingsBody bounds PUT /v1/settings payloads.
const maxSettingsBody = 1 << 20

// ProjectionResponse is served at /v1/projection.
type ProjectionResponse struct {
	Scenario          model.Scenario          `json:"scenario"`
	SettingsUpdatedAt time.Time               `json:"settings_updated_at"`
	Summary           model.ProjectionSummary `json:"summary"`
	Months            []model.ProjectionMonth `json:"months"`
}

// ScenariosResponse is served at /v1/scenarios.
type ScenariosResponse struct {
	Summaries   []model.ProjectionSummary `json:"summaries"`
	Comparisons []projection.ScenarioDiff `json:"comparisons"`
}

// ErrorResponse is the body of every non-2xx JSON reply.
type ErrorResponse struct {
	Error  string                  `json:"error"`
	Fields []model.ValidationError `json:"fields,omitempty"`
}

// Handler returns the HTTP API.
func (s *Service) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", s.handleHealth)
	mux.HandleFunc("/v1/status", s.handleStatus)
	mux.HandleFunc("/v1/settings", s.handleSettings)
	mux.HandleFunc("/v1/projection", s.handleProjection)
	mux.HandleFunc("/v1/scenarios", s.handleScenarios)
	mux.HandleFunc("/v1/export.xlsx", s.handleExport)
	mux.HandleFunc("/v1/events", s.handleEvents)
	mux.HandleFunc("/v1/stream", s.handleStream)
	mux.Handle("/metrics", promhttp.HandlerFor(s.metrics.registry, promhttp.HandlerOpts{}))
	return mux
}

func (s *Service) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok\n"))
}

func (s *Service) handleStatus(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.snapshotStatus())
}

func (s *Service) handleSettings(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		settings, err := s.repo.Load(r.Context())
		if err != nil {
			writeError(w, http.StatusInternalServerError, err)
			return
		}
		writeJSON(w, http.StatusOK, settings)

	case http.MethodPut:
		in := model.DefaultSettings()
		dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxSettingsBody))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&in); err != nil {
			writeError(w, http.StatusBadRequest, fmt.Errorf("decoding settings: %w", err))
			return
		}

		saved, err := s.repo.Save(r.Context(), in)
		if errors.Is(err, model.ErrInvalidSettings) {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		if err != nil {
			writeError(w, http.StatusInternalServerError, err)
			return
		}

		s.log.Info("settings updated over http", "updated_at", saved.UpdatedAt)
		s.refreshOnce(r.Context())
		writeJSON(w, http.StatusOK, saved)

	default:
		w.Header().Set("Allow", "GET, PUT")
		writeError(w, http.StatusMethodNotAllowed, errors.New("method not allowed"))
	}
}

func (s *Service) handleProjection(w http.ResponseWriter, r *http.Request) {
	sc := model.ScenarioBase
	if q := r.URL.Query().Get("scenario"); q != "" {
		parsed, err := model.ParseScenario(q)
		if err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		sc = parsed
	}

	s.mu.RLock()
	ready := s.hasSnapshot
	months := s.results[sc]
	settings := s.settings
	s.mu.RUnlock()

	if !ready {
		writeError(w, http.StatusServiceUnavailable, errors.New("projection not computed yet"))
		return
	}

	writeJSON(w, http.StatusOK, ProjectionResponse{
		Scenario:          sc,
		SettingsUpdatedAt: settings.UpdatedAt,
		Summary:           projection.Summarize(settings, sc, months),
		Months:            months,
	})
}

func (s *Service) handleScenarios(w http.ResponseWriter, _ *http.Request) {
	s.mu.RLock()
	ready := s.hasSnapshot
	results := s.results
	summaries := s.snapshot.Summaries
	s.mu.RUnlock()

	if !ready {
		writeError(w, http.StatusServiceUnavailable, errors.New("projection not computed yet"))
		return
	}

	writeJSON(w, http.StatusOK, ScenariosResponse{
		Summaries:   summaries,
		Comparisons: projection.CompareScenarios(results),
	})
}

func (s *Service) handleExport(w http.ResponseWriter, _ *http.Request) {
	s.mu.RLock()
	ready := s.hasSnapshot
	results := s.results
	settings := s.settings
	s.mu.RUnlock()

	if !ready {
		writeError(w, http.StatusServiceUnavailable, errors.New("projection not computed yet"))
		return
	}

	var buf bytes.Buffer
	if err := export.Write(&buf, settings, results); err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="runway.xlsx"`)
	_, _ = w.Write(buf.Bytes())
}

func (s *Service) handleEvents(w http.ResponseWriter, _ *http.Request) {
	s.mu.RLock()
	events := make([]Event, len(s.events))
	copy(events, s.events)
	s.mu.RUnlock()

	writeJSON(w, http.StatusOK, events)
}

func (s *Service) handleStream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ch := make(chan Event, 16)
	id := s.addSubscriber(ch)
	defer s.removeSubscriber(id)

	// Send current snapshot immediately.
	current := Event{
		Type:      EventSnapshot,
		Timestamp: s.now(),
		Snapshot:  s.snapshotStatus().Summary,
	}
	writeSSE(w, current)
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case ev := <-ch:
			writeSSE(w, ev)
			flusher.Flush()
		}
	}
}

func writeSSE(w http.ResponseWriter, ev Event) {
	data, err := json.Marshal(ev)
	if err != nil {
		return
	}
	if ev.ID > 0 {
		_, _ = fmt.Fprintf(w, "id: %d\n", ev.ID)
	}
	_, _ = fmt.Fprintf(w, "event: %s\n", ev.Type)
	_, _ = fmt.Fprintf(w, "data: %s\n\n", data)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	resp := ErrorResponse{Error: err.Error()}
	var verrs model.ValidationErrors
	if errors.As(err, &verrs) {
		resp.Fields = verrs
	}
	writeJSON(w, status, resp)
}
