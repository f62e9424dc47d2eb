package lifelike

import (
	"testing"

	"github.com/caengine/core/cellgrid"
	"github.com/caengine/core/rules"
	"github.com/caengine/core/tile"
)

func conwayParams() Params {
	var birth, survive [9]bool
	birth[3] = true
	survive[2] = true
	survive[3] = true
	return Params{Birth: birth, Survive: survive}
}

func allSetTiles(tx, ty int) *tile.Bitmap {
	b := tile.NewBitmap(tx*tile.Size, ty*tile.Size)
	for y := 0; y < ty; y++ {
		for x := 0; x < tx; x++ {
			b.Set(x, y, true)
		}
	}
	return b
}

func TestBlinkerOscillates(t *testing.T) {
	e := New(conwayParams())

	const size = 32
	cur := cellgrid.New(size, size)
	next := cellgrid.New(size, size)

	// vertical blinker at (16,15),(16,16),(16,17)
	cur.Set(16, 15, cellgrid.AliveStart)
	cur.Set(16, 16, cellgrid.AliveStart)
	cur.Set(16, 17, cellgrid.AliveStart)

	tiles := allSetTiles(size/tile.Size, size/tile.Size)
	nextTiles := tile.NewBitmap(size, size)

	e.NextGeneration(cur, next, tiles, nextTiles, 0)

	wantAlive := map[[2]int]bool{
		{15, 16}: true, {16, 16}: true, {17, 16}: true,
	}
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			got := next.At(x, y) >= cellgrid.AliveStart
			want := wantAlive[[2]int{x, y}]
			if got != want {
				t.Fatalf("cell (%d,%d): got alive=%v want=%v", x, y, got, want)
			}
		}
	}
}

func TestBlockIsStill(t *testing.T) {
	e := New(conwayParams())

	const size = 32
	cur := cellgrid.New(size, size)
	next := cellgrid.New(size, size)

	for _, p := range [][2]int{{10, 10}, {11, 10}, {10, 11}, {11, 11}} {
		cur.Set(p[0], p[1], cellgrid.AliveStart)
	}

	tiles := allSetTiles(size/tile.Size, size/tile.Size)
	nextTiles := tile.NewBitmap(size, size)

	stats := e.NextGeneration(cur, next, tiles, nextTiles, 0)
	if stats.Births != 0 || stats.Deaths != 0 {
		t.Errorf("still life should have zero births/deaths, got births=%d deaths=%d", stats.Births, stats.Deaths)
	}
	for _, p := range [][2]int{{10, 10}, {11, 10}, {10, 11}, {11, 11}} {
		if next.At(p[0], p[1]) < cellgrid.AliveStart {
			t.Errorf("cell %v should stay alive", p)
		}
	}
}

func TestDeadTileDropsOutOfNextTiles(t *testing.T) {
	e := New(conwayParams())

	const size = 32
	cur := cellgrid.New(size, size)
	next := cellgrid.New(size, size)
	// a single isolated cell dies of underpopulation and nothing is born
	// nearby, so every tile in this grid should end up empty.
	cur.Set(5, 5, cellgrid.AliveStart)

	tiles := allSetTiles(size/tile.Size, size/tile.Size)
	nextTiles := tile.NewBitmap(size, size)

	e.NextGeneration(cur, next, tiles, nextTiles, 0)

	if nextTiles.Get(0, 0) {
		t.Errorf("tile (0,0) went fully empty and should have dropped out of nextTiles")
	}
}

func TestRegisteredUnderRulesPackage(t *testing.T) {
	e, err := rules.New(rules.KindLifeLike, conwayParams())
	if err != nil {
		t.Fatalf("rules.New: %v", err)
	}
	if e.Kind() != rules.KindLifeLike {
		t.Errorf("got kind %q", e.Kind())
	}
}

func TestToCellGridPalette(t *testing.T) {
	bg := cellgrid.NewBitGrid(32, 32)
	bg.Set(5, 5, true)
	dst := cellgrid.New(32, 32)
	ToCellGrid(bg, dst)
	if dst.At(5, 5) != cellgrid.AliveStart {
		t.Errorf("got %d want AliveStart", dst.At(5, 5))
	}
	if dst.At(0, 0) != cellgrid.DeadForever {
		t.Errorf("got %d want DeadForever", dst.At(0, 0))
	}
}
