package identify

import (
	"context"
	"testing"

	"github.com/caengine/core/cellgrid"
	"github.com/caengine/core/tile"
)

func box(w, h int) tile.Box {
	return tile.Box{Left: 0, Right: w - 1, Bottom: 0, Top: h - 1}
}

func TestCellCountsTwoState(t *testing.T) {
	g := cellgrid.New(32, 32)
	g.Set(1, 1, cellgrid.AliveStart)

	c := NewCellCounts(box(4, 4))
	c.UpdateTwoState(g, cellgrid.AliveStart)
	c.UpdateTwoState(g, cellgrid.AliveStart)

	if got := c.Counts[c.index(1, 1)]; got != 2 {
		t.Errorf("counts at (1,1) = %d, want 2", got)
	}
	if got := c.Counts[c.index(0, 0)]; got != 0 {
		t.Errorf("counts at (0,0) = %d, want 0", got)
	}
}

func TestHashTwoStateDeterministic(t *testing.T) {
	g := cellgrid.New(32, 32)
	g.Set(2, 2, cellgrid.AliveStart)
	g.Set(5, 3, cellgrid.AliveStart+10)

	b := box(16, 16)
	h1 := HashTwoState(g, b, cellgrid.AliveStart)
	h2 := HashTwoState(g, b, cellgrid.AliveStart)
	if h1 != h2 {
		t.Errorf("hash not deterministic: %d != %d", h1, h2)
	}

	g.Set(9, 9, cellgrid.AliveStart)
	h3 := HashTwoState(g, b, cellgrid.AliveStart)
	if h3 == h1 {
		t.Errorf("hash did not change after adding a live cell")
	}
}

func TestOccupancyRingRotorStator(t *testing.T) {
	g := cellgrid.New(32, 32)
	b := box(16, 16)
	ring := NewOccupancyRing(b, 2)

	g.Set(0, 0, cellgrid.AliveStart) // stator: always alive
	g.Set(3, 3, cellgrid.AliveStart) // rotor: toggles
	ring.Record(g, 0, cellgrid.AliveStart)

	g.Set(3, 3, 0)
	ring.Record(g, 1, cellgrid.AliveStart)

	rotor, stator := ring.RotorStator()

	statorBit := func(x, y int) bool {
		col := x - b.Left
		row := y - b.Bottom
		return stator[row*ring.Width+col/16]&(1<<uint(15-(col%16))) != 0
	}
	rotorBit := func(x, y int) bool {
		col := x - b.Left
		row := y - b.Bottom
		return rotor[row*ring.Width+col/16]&(1<<uint(15-(col%16))) != 0
	}

	if !statorBit(0, 0) {
		t.Errorf("(0,0) should be stator")
	}
	if !rotorBit(3, 3) {
		t.Errorf("(3,3) should be rotor")
	}
}

func TestHashAllIdenticalJobsAgree(t *testing.T) {
	g := cellgrid.New(32, 32)
	g.Set(1, 1, cellgrid.AliveStart)
	b := box(16, 16)

	jobs := []Job{
		{Fn: func() uint32 { return HashTwoState(g, b, cellgrid.AliveStart) }},
		{Fn: func() uint32 { return HashTwoState(g, b, cellgrid.AliveStart) }},
	}
	out, err := HashAll(context.Background(), jobs)
	if err != nil {
		t.Fatalf("HashAll: %v", err)
	}
	if out[0] != out[1] {
		t.Errorf("identical jobs produced different hashes: %d != %d", out[0], out[1])
	}
}
