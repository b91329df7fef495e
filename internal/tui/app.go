// Package tui provides the interactive Bubble Tea dashboard for runway.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/theirongolddev/runway/internal/model"
	"github.com/theirongolddev/runway/internal/projection"
	"github.com/theirongolddev/runway/internal/store"
	"github.com/theirongolddev/runway/internal/tui/components"
	"github.com/theirongolddev/runway/internal/tui/theme"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

const (
	tabOverview = iota
	tabScenarios
	tabDebts
	tabSettings
)

const (
	minTerminalWidth = 80
	compactWidth     = 120
	maxContentWidth  = 160
	minContentHeight = 5

	loadTimeout = 10 * time.Second
)

// Options configure a dashboard session.
type Options struct {
	Household   string
	Scenario    model.Scenario
	ChartHeight int
	// FirstRun opens the setup wizard when the household has never saved settings.
	FirstRun bool
	// SaveTheme persists a theme picked in the dashboard. Optional.
	SaveTheme func(name string) error
}

// projectionLoadedMsg carries a fresh load-and-generate pass.
type projectionLoadedMsg struct {
	settings model.ProjectionSettings
	results  map[model.Scenario][]model.ProjectionMonth
	took     time.Duration
	err      error
}

// settingsSavedMsg reports a save from the settings tab or the wizard.
type settingsSavedMsg struct {
	settings model.ProjectionSettings
	results  map[model.Scenario][]model.ProjectionMonth
	err      error
}

// App is the root Bubble Tea model.
type App struct {
	repo store.Repository
	opts Options
	now  func() time.Time

	// Data
	settings  model.ProjectionSettings
	results   map[model.Scenario][]model.ProjectionMonth
	summaries []model.ProjectionSummary
	loaded    bool
	loadErr   error
	loadTime  time.Duration

	// UI state
	width       int
	height      int
	activeTab   int
	scenario    model.Scenario
	showHelp    bool
	refreshing  bool
	tableOffset int

	status    string
	statusErr bool

	edit settingsState

	setupForm *huh.Form
	setupVals *SetupValues

	spinner spinner.Model
}

// NewApp creates the dashboard model over repo.
func NewApp(repo store.Repository, opts Options) App {
	if opts.ChartHeight < 4 {
		opts.ChartHeight = 12
	}
	if !opts.Scenario.Valid() {
		opts.Scenario = model.ScenarioBase
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Active.Accent).Background(theme.Active.Surface)

	return App{
		repo:     repo,
		opts:     opts,
		now:      time.Now,
		scenario: opts.Scenario,
		spinner:  sp,
	}
}

// Init implements tea.Model.
func (a App) Init() tea.Cmd {
	return tea.Batch(
		tea.EnableMouseCellMotion,
		a.spinner.Tick,
		loadProjectionCmd(a.repo, a.now()),
	)
}

// Update implements tea.Model.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		if a.setupForm != nil {
			a.setupForm = a.setupForm.WithWidth(msg.Width).WithHeight(msg.Height)
		}
		return a, nil

	case tea.MouseMsg:
		return a.updateMouse(msg)

	case tea.KeyMsg:
		return a.updateKey(msg)

	case projectionLoadedMsg:
		a.loaded = true
		a.refreshing = false
		if msg.err != nil {
			a.loadErr = msg.err
			return a, nil
		}
		a.loadErr = nil
		a.loadTime = msg.took
		a.apply(msg.settings, msg.results)
		a.setStatus(fmt.Sprintf("loaded in %s", msg.took.Round(time.Millisecond)), false)

		if a.opts.FirstRun && msg.settings.UpdatedAt.IsZero() {
			return a.startSetup()
		}
		return a, nil

	case settingsSavedMsg:
		if msg.err != nil {
			a.setStatus(msg.err.Error(), true)
			return a, nil
		}
		a.apply(msg.settings, msg.results)
		a.setStatus("settings saved", false)
		return a, nil

	case spinner.TickMsg:
		if !a.loaded {
			var cmd tea.Cmd
			a.spinner, cmd = a.spinner.Update(msg)
			return a, cmd
		}
		return a, nil
	}

	// Cursor blinks and the like for the wizard.
	if a.setupForm != nil {
		return a.updateSetupForm(msg)
	}
	return a, nil
}

func (a *App) apply(settings model.ProjectionSettings, results map[model.Scenario][]model.ProjectionMonth) {
	a.settings = settings
	a.results = results
	a.summaries = projection.SummarizeAll(settings, results)
	if a.tableOffset >= settings.HorizonMonths {
		a.tableOffset = 0
	}
}

func (a *App) setStatus(msg string, isErr bool) {
	a.status = msg
	a.statusErr = isErr
}

func (a App) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	if key == "ctrl+c" {
		return a, tea.Quit
	}
	if a.setupForm != nil {
		return a.updateSetupForm(msg)
	}
	if !a.loaded {
		if key == "q" {
			return a, tea.Quit
		}
		return a, nil
	}
	if a.edit.editing {
		return a.updateSettingsInput(msg)
	}

	if key == "?" {
		a.showHelp = !a.showHelp
		return a, nil
	}
	if a.showHelp {
		a.showHelp = false
		return a, nil
	}

	switch a.activeTab {
	case tabOverview:
		switch key {
		case "j", "down":
			a.scrollTable(1)
			return a, nil
		case "k", "up":
			a.scrollTable(-1)
			return a, nil
		case "g":
			a.tableOffset = 0
			return a, nil
		}
	case tabSettings:
		switch key {
		case "j", "down":
			if a.edit.cursor < len(settingsFields)-1 {
				a.edit.cursor++
			}
			return a, nil
		case "k", "up":
			if a.edit.cursor > 0 {
				a.edit.cursor--
			}
			return a, nil
		case "enter":
			return a.settingsStartEdit()
		case "t":
			return a.cycleTheme()
		case "w":
			return a.startSetup()
		}
	}

	switch key {
	case "q":
		return a, tea.Quit
	case "r":
		if !a.refreshing {
			a.refreshing = true
			return a, loadProjectionCmd(a.repo, a.now())
		}
	case "s", "]":
		a.scenario = stepScenario(a.scenario, 1)
	case "[":
		a.scenario = stepScenario(a.scenario, -1)
	case "right", "tab":
		a.activeTab = (a.activeTab + 1) % len(components.Tabs)
	case "left", "shift+tab":
		a.activeTab = (a.activeTab - 1 + len(components.Tabs)) % len(components.Tabs)
	default:
		if len(msg.Runes) == 1 {
			if idx := components.TabIdxByKey(msg.Runes[0]); idx >= 0 {
				a.activeTab = idx
			}
		}
	}
	return a, nil
}

func (a App) updateMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if !a.loaded || a.showHelp || a.setupForm != nil || a.edit.editing {
		return a, nil
	}

	switch msg.Button {
	case tea.MouseButtonWheelUp:
		if a.activeTab == tabOverview {
			a.scrollTable(-1)
		}
	case tea.MouseButtonWheelDown:
		if a.activeTab == tabOverview {
			a.scrollTable(1)
		}
	case tea.MouseButtonLeft:
		if msg.Action == tea.MouseActionPress && msg.Y == 0 {
			if tab := a.tabAtX(msg.X); tab >= 0 {
				a.activeTab = tab
			}
		}
	}
	return a, nil
}

func (a *App) scrollTable(delta int) {
	a.tableOffset += delta
	if limit := len(a.results[a.scenario]) - 1; a.tableOffset > limit {
		a.tableOffset = limit
	}
	if a.tableOffset < 0 {
		a.tableOffset = 0
	}
}

func stepScenario(sc model.Scenario, step int) model.Scenario {
	n := len(model.AllScenarios)
	for i, s := range model.AllScenarios {
		if s == sc {
			return model.AllScenarios[((i+step)%n+n)%n]
		}
	}
	return model.ScenarioBase
}

func (a App) startSetup() (tea.Model, tea.Cmd) {
	a.setupVals = SetupValuesFrom(a.settings, theme.Active.Name)
	a.setupForm = NewSetupForm(a.setupVals)
	if a.width > 0 {
		a.setupForm = a.setupForm.WithWidth(a.width).WithHeight(a.height)
	}
	return a, a.setupForm.Init()
}

func (a App) updateSetupForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	form, cmd := a.setupForm.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		a.setupForm = f
	}

	switch a.setupForm.State {
	case huh.StateCompleted:
		vals := *a.setupVals
		a.setupForm = nil
		a.setupVals = nil

		next, err := vals.Apply(a.settings)
		if err != nil {
			a.setStatus(err.Error(), true)
			return a, nil
		}
		if vals.Theme != "" && vals.Theme != theme.Active.Name {
			a.applyTheme(vals.Theme)
		}
		return a, saveSettingsCmd(a.repo, next, a.now())

	case huh.StateAborted:
		a.setupForm = nil
		a.setupVals = nil
		return a, nil
	}
	return a, cmd
}

func (a App) cycleTheme() (tea.Model, tea.Cmd) {
	names := theme.Names()
	next := names[0]
	for i, name := range names {
		if name == theme.Active.Name {
			next = names[(i+1)%len(names)]
			break
		}
	}
	a.applyTheme(next)
	return a, nil
}

func (a *App) applyTheme(name string) {
	theme.SetActive(name)
	a.spinner.Style = a.spinner.Style.Foreground(theme.Active.Accent).Background(theme.Active.Surface)
	if a.opts.SaveTheme == nil {
		a.setStatus("theme "+name, false)
		return
	}
	if err := a.opts.SaveTheme(name); err != nil {
		a.setStatus("theme not saved: "+err.Error(), true)
		return
	}
	a.setStatus("theme "+name+" saved", false)
}

func (a App) contentWidth() int {
	if a.width > maxContentWidth {
		return maxContentWidth
	}
	return a.width
}

func (a App) isCompactLayout() bool {
	return a.contentWidth() < compactWidth
}

// View implements tea.Model.
func (a App) View() string {
	if a.width == 0 {
		return ""
	}
	if a.width < minTerminalWidth {
		return a.viewTooNarrow()
	}
	if a.setupForm != nil {
		return a.setupForm.View()
	}
	if !a.loaded {
		return a.viewLoading()
	}
	if a.loadErr != nil {
		return a.viewLoadError()
	}
	if a.showHelp {
		return a.viewHelp()
	}
	return a.viewMain()
}

func (a App) viewTooNarrow() string {
	h := max(a.height, 5)
	msg := fmt.Sprintf("\n  Terminal too narrow (%d cols)\n\n  runway needs at least %d columns.\n",
		a.width, minTerminalWidth)
	return padHeight(truncateHeight(msg, h), h)
}

func overlayCard(body string, w, h int) string {
	t := theme.Active
	card := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.BorderAccent).
		Background(t.Surface).
		Padding(1, 3).
		Render(body)
	return lipgloss.Place(w, h, lipgloss.Center, lipgloss.Center, card,
		lipgloss.WithWhitespaceBackground(t.Background))
}

func (a App) viewLoading() string {
	t := theme.Active
	logo := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.Surface).Bold(true)
	sub := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)

	body := logo.Render("◈ runway") + sub.Render(" · cash-flow projections") + "\n\n" +
		a.spinner.View() + sub.Render(" Projecting "+a.householdLabel()+"...")
	return overlayCard(body, a.width, a.height)
}

func (a App) viewLoadError() string {
	t := theme.Active
	title := lipgloss.NewStyle().Foreground(t.Loss).Background(t.Surface).Bold(true)
	text := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	dim := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)

	body := title.Render("Could not build the projection") + "\n\n"
	var verrs model.ValidationErrors
	if errors.As(a.loadErr, &verrs) {
		for _, v := range verrs {
			body += text.Render("  "+v.Error()) + "\n"
		}
	} else {
		body += text.Render(a.loadErr.Error()) + "\n"
	}
	body += "\n" + dim.Render("Fix it with `runway settings set` or `runway setup`, then press r. q quits.")
	return overlayCard(body, a.width, a.height)
}

func (a App) viewHelp() string {
	t := theme.Active
	title := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.Surface).Bold(true)
	section := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)
	keyStyle := lipgloss.NewStyle().Foreground(t.BaseLine).Background(t.Surface).Bold(true)
	desc := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	dim := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)

	var b strings.Builder
	b.WriteString(title.Render("◈ Keyboard Shortcuts"))
	b.WriteString("\n\n")

	groups := []struct {
		name     string
		bindings [][2]string
	}{
		{"Navigation", [][2]string{
			{"o c d x", "Jump to tab"},
			{"← → tab", "Previous / next tab"},
			{"s ] [", "Next / previous scenario"},
			{"j k g", "Scroll the month table"},
		}},
		{"Settings tab", [][2]string{
			{"Enter", "Edit field / save"},
			{"Esc", "Cancel edit"},
			{"t", "Cycle theme"},
			{"w", "Open the setup wizard"},
		}},
		{"General", [][2]string{
			{"r", "Reload settings"},
			{"?", "Toggle help"},
			{"q", "Quit"},
		}},
	}
	for i, g := range groups {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(section.Render(g.name))
		b.WriteString("\n")
		for _, bind := range g.bindings {
			b.WriteString("  " + keyStyle.Render(fmt.Sprintf("%-10s", bind[0])) + "  " + desc.Render(bind[1]) + "\n")
		}
	}
	b.WriteString("\n")
	b.WriteString(dim.Render("Press any key to close"))
	return overlayCard(b.String(), a.width, a.height)
}

func (a App) householdLabel() string {
	if a.opts.Household == "" {
		return store.DefaultHousehold
	}
	return a.opts.Household
}

func (a App) viewMain() string {
	t := theme.Active
	w := a.width
	cw := a.contentWidth()

	header := components.RenderTabBar(a.activeTab, w) + "\n" + a.renderContextLine(w)

	statusBar := components.RenderStatusBar(w, components.StatusInfo{
		Household: a.householdLabel(),
		Scenario:  a.scenario.String(),
		Message:   a.status,
		Error:     a.statusErr,
	})

	contentH := a.height - lipgloss.Height(header) - lipgloss.Height(statusBar)
	if contentH < minContentHeight {
		contentH = minContentHeight
	}

	var content string
	switch a.activeTab {
	case tabOverview:
		content = a.renderOverviewTab(cw, contentH)
	case tabScenarios:
		content = a.renderScenariosTab(cw)
	case tabDebts:
		content = a.renderDebtsTab(cw)
	case tabSettings:
		content = a.renderSettingsTab(cw)
	}

	content = padHeight(truncateHeight(content, contentH), contentH)
	content = fillLinesWithBackground(content, cw, t.Background)
	content = lipgloss.Place(w, contentH, lipgloss.Center, lipgloss.Top, content,
		lipgloss.WithWhitespaceBackground(t.Background))

	out := lipgloss.JoinVertical(lipgloss.Left, header, content, statusBar)
	return lipgloss.Place(w, a.height, lipgloss.Left, lipgloss.Top, out,
		lipgloss.WithWhitespaceBackground(t.Background))
}

// renderContextLine shows the projection window under the tab bar.
func (a App) renderContextLine(w int) string {
	t := theme.Active
	dim := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	accent := lipgloss.NewStyle().Foreground(t.Scenario(a.scenario)).Background(t.Surface).Bold(true)

	line := dim.Render(" ") + accent.Render(a.scenario.String())
	if months := a.results[a.scenario]; len(months) > 0 {
		line += dim.Render(fmt.Sprintf(" │ %s → %s │ %d months",
			months[0].Label, months[len(months)-1].Label, len(months)))
	}
	if !a.settings.UpdatedAt.IsZero() {
		line += dim.Render(" │ saved " + a.settings.UpdatedAt.Local().Format("Jan 2 15:04"))
	} else {
		line += dim.Render(" │ defaults (never saved)")
	}
	return lipgloss.NewStyle().Background(t.Surface).Width(w).Render(line)
}

// tabAtX returns the tab under column x, or -1. It mirrors the widths
// RenderTabBar draws, with one separator column between tabs.
func (a App) tabAtX(x int) int {
	pos := 0
	for i, tab := range components.Tabs {
		w := components.TabVisualWidth(tab, i == a.activeTab)
		if x >= pos && x < pos+w {
			return i
		}
		pos += w + 1
	}
	return -1
}

// loadProjectionCmd loads the settings and runs every scenario from start.
func loadProjectionCmd(repo store.Repository, start time.Time) tea.Cmd {
	return func() tea.Msg {
		began := time.Now()
		ctx, cancel := context.WithTimeout(context.Background(), loadTimeout)
		defer cancel()

		settings, err := repo.Load(ctx)
		if err != nil {
			return projectionLoadedMsg{err: fmt.Errorf("loading settings: %w", err)}
		}
		results, err := projection.GenerateAll(settings, start)
		if err != nil {
			return projectionLoadedMsg{settings: settings, err: err}
		}
		return projectionLoadedMsg{settings: settings, results: results, took: time.Since(began)}
	}
}

// saveSettingsCmd saves settings and regenerates the projections from them.
func saveSettingsCmd(repo store.Repository, settings model.ProjectionSettings, start time.Time) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), loadTimeout)
		defer cancel()

		saved, err := repo.Save(ctx, settings)
		if err != nil {
			return settingsSavedMsg{err: err}
		}
		results, err := projection.GenerateAll(saved, start)
		if err != nil {
			return settingsSavedMsg{err: err}
		}
		return settingsSavedMsg{settings: saved, results: results}
	}
}

func truncateHeight(s string, limit int) string {
	lines := strings.Split(s, "\n")
	if len(lines) <= limit {
		return s
	}
	return strings.Join(lines[:limit], "\n")
}

func padHeight(s string, h int) string {
	n := strings.Count(s, "\n") + 1
	if n >= h {
		return s
	}
	return s + strings.Repeat("\n", h-n)
}

// fillLinesWithBackground pads every line to w so gaps between cards are painted.
func fillLinesWithBackground(s string, w int, bg lipgloss.Color) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = lipgloss.PlaceHorizontal(w, lipgloss.Left, line, lipgloss.WithWhitespaceBackground(bg))
	}
	return strings.Join(lines, "\n")
}
