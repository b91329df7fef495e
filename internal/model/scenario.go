package model

import (
	"fmt"
	"strings"
)

// Scenario selects one of the three projection variants.
type Scenario int

const (
	ScenarioBase Scenario = iota
	ScenarioBest
	ScenarioWorst
)

// AllScenarios lists every scenario in display order.
var AllScenarios = []Scenario{ScenarioBase, ScenarioBest, ScenarioWorst}

var scenarioNames = [...]string{
	ScenarioBase:  "base",
	ScenarioBest:  "best",
	ScenarioWorst: "worst",
}

func (s Scenario) String() string {
	if s.Valid() {
		return scenarioNames[s]
	}
	return fmt.Sprintf("Scenario(%d)", int(s))
}

// Valid reports whether s is one of the known scenarios.
func (s Scenario) Valid() bool {
	return s >= ScenarioBase && s <= ScenarioWorst
}

// ParseScenario resolves a scenario name (case-insensitive).
func ParseScenario(name string) (Scenario, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	for i, candidate := range scenarioNames {
		if candidate == n {
			return Scenario(i), nil
		}
	}
	return ScenarioBase, fmt.Errorf("unknown scenario %q (want base, best or worst)", name)
}

// MarshalText implements encoding.TextMarshaler.
func (s Scenario) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("invalid scenario %d", int(s))
	}
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Scenario) UnmarshalText(text []byte) error {
	parsed, err := ParseScenario(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}
