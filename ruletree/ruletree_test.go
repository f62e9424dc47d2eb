package ruletree

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

// buildAlwaysDeadTree constructs a degenerate tree where every path ends
// at state 0, to exercise the traversal shape without modelling a real
// rule.
func buildAlwaysDeadTree(levels int) Tree {
	// one offset per level, base 0; A maps any input to the next flat
	// offset, ending in B, all zero.
	a := make([]uint32, 256)
	b := make([]uint8, 256)
	return Tree{A: a, B: b, Base: 0}
}

func TestEvalWalksNeighboursThenCentre(t *testing.T) {
	// Build a tiny tree: two levels (one neighbour, then centre), where
	// A[0+n] = n*2 (spreads into distinct regions), B[n*2+c] = n+c.
	a := make([]uint32, 16)
	for n := 0; n < 8; n++ {
		a[n] = uint32(n * 2)
	}
	b := make([]uint8, 32)
	for n := 0; n < 8; n++ {
		for c := 0; c < 2; c++ {
			b[n*2+c] = uint8(n + c)
		}
	}
	tr := Tree{A: a, B: b, Base: 0}

	got := tr.Eval(Moore, []uint8{3}, 1)
	if want := uint8(4); got != want {
		t.Errorf("got %d want %d", got, want)
	}
}

func TestNextGenerationRunsWithoutPanicking(t *testing.T) {
	tr := buildAlwaysDeadTree(9)
	e := New(Params{Tree: tr, Kind: Moore})

	const size = 32
	cur := cellgrid.New(size, size)
	next := cellgrid.New(size, size)
	cur.Set(5, 5, cellgrid.AliveStart)

	tiles := allSetTiles(size/tile.Size, size/tile.Size)
	nextTiles := tile.NewBitmap(size, size)
	stats := e.NextGeneration(cur, next, tiles, nextTiles, 0)

	if stats.Deaths != 1 {
		t.Errorf("expected the seeded cell to die under the always-dead tree, got deaths=%d", stats.Deaths)
	}
}
