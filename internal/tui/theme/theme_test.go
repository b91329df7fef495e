package theme

import (
	"testing"

	"github.com/theirongolddev/runway/internal/model"
)

func TestByNameFallsBack(t *testing.T) {
	if got := ByName("tokyo-night").Name; got != "tokyo-night" {
		t.Fatalf("ByName(tokyo-night) = %q", got)
	}
	if got := ByName("nope").Name; got != FlexokiDark.Name {
		t.Fatalf("ByName(nope) = %q, want %q", got, FlexokiDark.Name)
	}
	if _, ok := Lookup("nope"); ok {
		t.Fatal("Lookup(nope) reported a theme")
	}
}

func TestScenarioColorsAreDistinct(t *testing.T) {
	for _, th := range All {
		base := th.Scenario(model.ScenarioBase)
		best := th.Scenario(model.ScenarioBest)
		worst := th.Scenario(model.ScenarioWorst)
		if base == best || best == worst || base == worst {
			t.Fatalf("%s: scenario colors collide: %s %s %s", th.Name, base, best, worst)
		}
	}
}

func TestSetActive(t *testing.T) {
	defer SetActive(FlexokiDark.Name)

	SetActive("terminal")
	if Active.Name != "terminal" {
		t.Fatalf("Active = %q, want terminal", Active.Name)
	}
	if len(Names()) != len(All) || Names()[0] != "flexoki-dark" {
		t.Fatalf("Names = %v", Names())
	}
}
