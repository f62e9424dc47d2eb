package engine

import (
	"testing"

	"github.com/caengine/core/lifelike"
)

func glider(e *Engine, x, y int) {
	pts := [][2]int{{1, 0}, {2, 1}, {0, 2}, {1, 2}, {2, 2}}
	for _, p := range pts {
		e.Seed(x+p[0], y+p[1], cellAlive)
	}
}

const cellAlive = 64 // cellgrid.AliveStart, avoided import cycle concern by literal

func TestStepAdvancesGenerationAndPopulation(t *testing.T) {
	rule := lifelike.New(lifelike.Params{
		Birth:   [9]bool{2: false, 3: true},
		Survive: [9]bool{2: true, 3: true},
	})
	e := New(64, 64, rule)
	glider(e, 10, 10)

	stats := e.Step()
	if e.Gen != 1 {
		t.Fatalf("Gen = %d, want 1", e.Gen)
	}
	if stats.Population == 0 {
		t.Errorf("expected non-zero population after stepping a glider")
	}
}

func TestHistoryAccumulatesAcrossSteps(t *testing.T) {
	rule := lifelike.New(lifelike.Params{
		Birth:   [9]bool{2: false, 3: true},
		Survive: [9]bool{2: true, 3: true},
	})
	e := New(64, 64, rule)
	glider(e, 10, 10)
	e.Step()
	e.Step()

	if !e.History.Touched(0, 0) {
		t.Errorf("history should have recorded the seeded tile as touched")
	}
}
