package super

import (
	"testing"

	"github.com/caengine/core/cellgrid"
	"github.com/caengine/core/tile"
)

func TestSuperBirthEntersStateOne(t *testing.T) {
	p := Params{}
	p.Birth[3] = true
	p.Survive[2] = true
	p.Survive[3] = true
	e := New(p)

	cur := cellgrid.New(32, 32)
	next := cellgrid.New(32, 32)
	tiles := tile.NewBitmap(32, 32)
	nextTiles := tile.NewBitmap(32, 32)
	tiles.Set(0, 0, true)

	// three LSB-live neighbours around (5,5) -> birth into state 1.
	cur.Set(4, 5, 1)
	cur.Set(6, 5, 1)
	cur.Set(5, 4, 1)

	e.NextGeneration(cur, next, tiles, nextTiles, 0)

	if got := next.At(5, 5); got != 1 {
		t.Errorf("birth cell = %d, want 1", got)
	}
}

func TestSuperDyingCellFollowsAgeingSequence(t *testing.T) {
	p := Params{}
	e := New(p)

	cur := cellgrid.New(32, 32)
	next := cellgrid.New(32, 32)
	tiles := tile.NewBitmap(32, 32)
	nextTiles := tile.NewBitmap(32, 32)
	tiles.Set(0, 0, true)

	cur.Set(5, 5, 1) // alive, no birth/survive rule matches -> dies, 1->2
	e.NextGeneration(cur, next, tiles, nextTiles, 0)

	if got := next.At(5, 5); got != 2 {
		t.Errorf("dying state 1 = %d, want 2 (ageing sequence)", got)
	}
}

func TestInvestigatorNextTableAppliesAboveState2(t *testing.T) {
	p := InvestigatorParams{}
	p.NextTable[5] = 7
	e := NewInvestigator(p)

	cur := cellgrid.New(32, 32)
	next := cellgrid.New(32, 32)
	tiles := tile.NewBitmap(32, 32)
	nextTiles := tile.NewBitmap(32, 32)
	tiles.Set(0, 0, true)
	cur.Set(3, 3, 5)

	e.NextGeneration(cur, next, tiles, nextTiles, 0)

	if got := next.At(3, 3); got != 7 {
		t.Errorf("state 5 -> %d, want 7 via NextTable", got)
	}
}

func TestRelabelOverlayHistoryRules(t *testing.T) {
	cases := []struct {
		marker uint8
		live   bool
		want   uint8
	}{
		{4, true, 3},
		{6, true, 3},
		{3, true, 4},
		{5, true, 4},
		{4, false, 4},
		{7, true, 7},
	}
	for _, c := range cases {
		if got := RelabelOverlay(c.marker, c.live); got != c.want {
			t.Errorf("RelabelOverlay(%d, %v) = %d, want %d", c.marker, c.live, got, c.want)
		}
	}
}

func TestHistoryAccumulatesMonotonically(t *testing.T) {
	h := NewHistory(32, 32)
	a := tile.NewBitmap(32, 32)
	a.Set(0, 0, true)
	h.Accumulate(a)

	b := tile.NewBitmap(32, 32)
	b.Set(1, 1, true)
	h.Accumulate(b)

	if !h.Touched(0, 0) || !h.Touched(1, 1) {
		t.Errorf("history should retain every tile ever touched")
	}
}
