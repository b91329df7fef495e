// Package theme defines the color themes for the runway dashboard.
package theme

import (
	"github.com/theirongolddev/runway/internal/model"

	"github.com/charmbracelet/lipgloss"
)

// Theme maps the dashboard's color roles to concrete colors.
type Theme struct {
	Name string

	Background    lipgloss.Color
	Surface       lipgloss.Color // cards and panels
	SurfaceBright lipgloss.Color // selected row
	Border        lipgloss.Color
	BorderAccent  lipgloss.Color // focused card, help overlay

	TextDim     lipgloss.Color
	TextMuted   lipgloss.Color
	TextPrimary lipgloss.Color

	Accent       lipgloss.Color
	AccentBright lipgloss.Color

	Gain    lipgloss.Color // cash growth, paid-off debt
	Loss    lipgloss.Color // shortfall, insolvency
	Warning lipgloss.Color

	// Scenario series, in base/best/worst order.
	BaseLine  lipgloss.Color
	BestLine  lipgloss.Color
	WorstLine lipgloss.Color

	Debt       lipgloss.Color
	Investment lipgloss.Color
}

// Scenario returns the series color for sc.
func (t Theme) Scenario(sc model.Scenario) lipgloss.Color {
	switch sc {
	case model.ScenarioBest:
		return t.BestLine
	case model.ScenarioWorst:
		return t.WorstLine
	default:
		return t.BaseLine
	}
}

// Signed picks Gain for non-negative values and Loss otherwise.
func (t Theme) Signed(negative bool) lipgloss.Color {
	if negative {
		return t.Loss
	}
	return t.Gain
}

// Active is the currently selected theme.
var Active = FlexokiDark

// FlexokiDark is the default warm dark theme.
var FlexokiDark = Theme{
	Name:          "flexoki-dark",
	Background:    "#100F0F",
	Surface:       "#1C1B1A",
	SurfaceBright: "#343331",
	Border:        "#403E3C",
	BorderAccent:  "#3AA99F",
	TextDim:       "#575653",
	TextMuted:     "#878580",
	TextPrimary:   "#FFFCF0",
	Accent:        "#3AA99F",
	AccentBright:  "#5BC8BE",
	Gain:          "#879A39",
	Loss:          "#D14D41",
	Warning:       "#DA702C",
	BaseLine:      "#4385BE",
	BestLine:      "#A3B859",
	WorstLine:     "#D14D41",
	Debt:          "#D0A215",
	Investment:    "#CE5D97",
}

// CatppuccinMocha is a soft pastel theme.
var CatppuccinMocha = Theme{
	Name:          "catppuccin-mocha",
	Background:    "#1E1E2E",
	Surface:       "#313244",
	SurfaceBright: "#585B70",
	Border:        "#585B70",
	BorderAccent:  "#89B4FA",
	TextDim:       "#6C7086",
	TextMuted:     "#A6ADC8",
	TextPrimary:   "#CDD6F4",
	Accent:        "#89B4FA",
	AccentBright:  "#B4D0FB",
	Gain:          "#A6E3A1",
	Loss:          "#F38BA8",
	Warning:       "#FAB387",
	BaseLine:      "#89B4FA",
	BestLine:      "#A6E3A1",
	WorstLine:     "#F38BA8",
	Debt:          "#F9E2AF",
	Investment:    "#F5C2E7",
}

// TokyoNight is a cool blue and purple theme.
var TokyoNight = Theme{
	Name:          "tokyo-night",
	Background:    "#1A1B26",
	Surface:       "#24283B",
	SurfaceBright: "#414868",
	Border:        "#565F89",
	BorderAccent:  "#7AA2F7",
	TextDim:       "#565F89",
	TextMuted:     "#A9B1D6",
	TextPrimary:   "#C0CAF5",
	Accent:        "#7AA2F7",
	AccentBright:  "#A9C1FF",
	Gain:          "#9ECE6A",
	Loss:          "#F7768E",
	Warning:       "#FF9E64",
	BaseLine:      "#7DCFFF",
	BestLine:      "#9ECE6A",
	WorstLine:     "#F7768E",
	Debt:          "#E0AF68",
	Investment:    "#BB9AF7",
}

// Terminal sticks to the 16 ANSI colors.
var Terminal = Theme{
	Name:          "terminal",
	Background:    "0",
	Surface:       "0",
	SurfaceBright: "8",
	Border:        "8",
	BorderAccent:  "6",
	TextDim:       "8",
	TextMuted:     "7",
	TextPrimary:   "15",
	Accent:        "6",
	AccentBright:  "14",
	Gain:          "2",
	Loss:          "1",
	Warning:       "3",
	BaseLine:      "4",
	BestLine:      "10",
	WorstLine:     "9",
	Debt:          "3",
	Investment:    "5",
}

// All available themes.
var All = []Theme{FlexokiDark, CatppuccinMocha, TokyoNight, Terminal}

// Names lists the theme names in display order.
func Names() []string {
	out := make([]string, len(All))
	for i, t := range All {
		out[i] = t.Name
	}
	return out
}

// Lookup returns the theme called name.
func Lookup(name string) (Theme, bool) {
	for _, t := range All {
		if t.Name == name {
			return t, true
		}
	}
	return Theme{}, false
}

// ByName returns a theme by its name, defaulting to FlexokiDark.
func ByName(name string) Theme {
	if t, ok := Lookup(name); ok {
		return t
	}
	return FlexokiDark
}

// SetActive sets the active theme by name.
func SetActive(name string) {
	Active = ByName(name)
}
