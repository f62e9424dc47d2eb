package generations

import (
	"testing"

	"github.com/caengine/core/cellgrid"
	"github.com/caengine/core/tile"
)

func allSetTiles(tx, ty int) *tile.Bitmap {
	b := tile.NewBitmap(tx*tile.Size, ty*tile.Size)
	for y := 0; y < ty; y++ {
		for x := 0; x < tx; x++ {
			b.Set(x, y, true)
		}
	}
	return b
}

func testParams() Params {
	var birth, survive [9]bool
	birth[3] = true
	survive[2] = true
	survive[3] = true
	return Params{Birth: birth, Survive: survive, MaxGenState: 3, DeadState: 0, MinDeadState: 0}
}

func TestBirthEntersAtMaxGenState(t *testing.T) {
	e := New(testParams())
	const size = 32
	cur := cellgrid.New(size, size)
	next := cellgrid.New(size, size)

	// three neighbours around (16,16) at MaxGenState to trigger birth
	cur.Set(15, 15, 3)
	cur.Set(16, 15, 3)
	cur.Set(17, 15, 3)

	tiles := allSetTiles(size/tile.Size, size/tile.Size)
	nextTiles := tile.NewBitmap(size, size)
	e.NextGeneration(cur, next, tiles, nextTiles, 0)

	if got := next.At(16, 16); got != 3 {
		t.Errorf("expected birth to MaxGenState=3, got %d", got)
	}
}

func TestDecayIsUnconditional(t *testing.T) {
	e := New(testParams())
	const size = 32
	cur := cellgrid.New(size, size)
	next := cellgrid.New(size, size)

	// isolated decaying cell with no neighbours at all
	cur.Set(16, 16, 2)

	tiles := allSetTiles(size/tile.Size, size/tile.Size)
	nextTiles := tile.NewBitmap(size, size)
	e.NextGeneration(cur, next, tiles, nextTiles, 0)

	if got := next.At(16, 16); got != 1 {
		t.Errorf("expected decay from 2 to 1, got %d", got)
	}
}

func TestDecayStopsAtMinDeadState(t *testing.T) {
	e := New(testParams())
	const size = 32
	cur := cellgrid.New(size, size)
	next := cellgrid.New(size, size)

	cur.Set(16, 16, 1)
	tiles := allSetTiles(size/tile.Size, size/tile.Size)
	nextTiles := tile.NewBitmap(size, size)
	e.NextGeneration(cur, next, tiles, nextTiles, 0)

	if got := next.At(16, 16); got != 0 {
		t.Errorf("expected decay from 1 to 0, got %d", got)
	}
}

func TestStatsCountMaxGenStateOnly(t *testing.T) {
	e := New(testParams())
	const size = 32
	cur := cellgrid.New(size, size)
	next := cellgrid.New(size, size)

	cur.Set(5, 5, 3)
	cur.Set(6, 6, 2)

	tiles := allSetTiles(size/tile.Size, size/tile.Size)
	nextTiles := tile.NewBitmap(size, size)
	stats := e.NextGeneration(cur, next, tiles, nextTiles, 0)

	if stats.Population != 0 {
		// neither cell is at MaxGenState next generation: (5,5) starts
		// decaying (too few alive neighbours to survive), (6,6) was already
		// decaying and isn't eligible for birth from state 2.
		t.Errorf("expected population 0, got %d", stats.Population)
	}
}
