package hrot

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

// conwayCombo reproduces B3/S23 as a comboList: bit1=birth, bit0=survive.
func conwayCombo() []byte {
	c := make([]byte, 9)
	c[3] = 0x2 | 0x1 // birth on 3, and survive on 3
	c[2] = 0x1       // survive on 2
	return c
}

func TestMooreRange1MatchesConway(t *testing.T) {
	m := NewMoore(MooreParams{
		Params: Params{ComboList: conwayCombo()},
		Range:  1,
	})

	const size = 32
	cur := cellgrid.New(size, size)
	next := cellgrid.New(size, size)
	for _, p := range [][2]int{{10, 10}, {11, 10}, {10, 11}, {11, 11}} {
		cur.Set(p[0], p[1], cellgrid.AliveStart)
	}

	tiles := allSetTiles(size/tile.Size, size/tile.Size)
	nextTiles := tile.NewBitmap(size, size)
	stats := m.NextGeneration(cur, next, tiles, nextTiles, 0)

	if stats.Births != 0 || stats.Deaths != 0 {
		t.Errorf("block should be a still life under B3/S23, got births=%d deaths=%d", stats.Births, stats.Deaths)
	}
}

func TestMooreUnderpopulationDeath(t *testing.T) {
	m := NewMoore(MooreParams{
		Params: Params{ComboList: conwayCombo()},
		Range:  1,
	})

	const size = 16
	cur := cellgrid.New(size, size)
	next := cellgrid.New(size, size)
	cur.Set(8, 8, cellgrid.AliveStart)

	tiles := allSetTiles(size/tile.Size, size/tile.Size)
	nextTiles := tile.NewBitmap(size, size)
	stats := m.NextGeneration(cur, next, tiles, nextTiles, 0)

	if stats.Deaths != 1 {
		t.Errorf("isolated cell should die of underpopulation, got deaths=%d", stats.Deaths)
	}
	if next.At(8, 8) >= cellgrid.AliveStart {
		t.Errorf("cell should be dead")
	}
}

func TestVonNeumannDiamondNeighbourCount(t *testing.T) {
	// a rule that survives only at count==4 (no births) lets us check the
	// diamond shape directly: a centre cell with exactly its four
	// range-1 orthogonal neighbours alive should survive.
	combo := make([]byte, 13)
	combo[4] = 0x1

	v := NewVonNeumann(VonNeumannParams{Params: Params{ComboList: combo}, Range: 1})

	const size = 16
	cur := cellgrid.New(size, size)
	next := cellgrid.New(size, size)
	cur.Set(8, 8, cellgrid.AliveStart)
	cur.Set(7, 8, cellgrid.AliveStart)
	cur.Set(9, 8, cellgrid.AliveStart)
	cur.Set(8, 7, cellgrid.AliveStart)
	cur.Set(8, 9, cellgrid.AliveStart)

	tiles := allSetTiles(size/tile.Size, size/tile.Size)
	nextTiles := tile.NewBitmap(size, size)
	v.NextGeneration(cur, next, tiles, nextTiles, 0)

	if next.At(8, 8) < cellgrid.AliveStart {
		t.Errorf("centre cell should survive with exactly 4 diamond neighbours")
	}
}

func TestShapedCrossOffsetsAreAxisAligned(t *testing.T) {
	offs := ShapeOffsets(ShapeCross, 2, 0, 0)
	for _, o := range offs {
		if o.DX != 0 && o.DY != 0 {
			t.Errorf("cross offset %+v is not axis-aligned", o)
		}
	}
	if len(offs) != 8 {
		t.Errorf("range-2 cross should have 8 offsets, got %d", len(offs))
	}
}

func TestShapedSaltireOffsetsAreDiagonal(t *testing.T) {
	offs := ShapeOffsets(ShapeSaltire, 2, 0, 0)
	for _, o := range offs {
		if o.DX != o.DY && o.DX != -o.DY {
			t.Errorf("saltire offset %+v is not diagonal", o)
		}
	}
}

func TestShapedWeightedUsesCustomOffsets(t *testing.T) {
	combo := make([]byte, 5)
	combo[2] = 0x1
	s := NewShaped(ShapedParams{
		Params: Params{ComboList: combo},
		Offsets: []Offset{
			{DX: 1, DY: 0, Weight: 1},
			{DX: -1, DY: 0, Weight: 1},
		},
	})
	if len(s.offsets) != 2 {
		t.Fatalf("expected explicit offsets to be used verbatim, got %d", len(s.offsets))
	}
}
