// Package engine orchestrates one simulation: the double-buffered cell
// grid, the double-buffered tile-dirty bitmap that tracks it, the
// monotonic history bitmap, and whichever rules.Engine advances a
// generation. It is the thin coordination layer spec §2/§5 describe
// sitting above the rule families — each Step call hands the current
// generation's grid and tile bitmap to the configured rule, folds the
// tiles it reports active into history, and advances the generation
// counter.
package engine

import (
	"github.com/caengine/core/cellgrid"
	"github.com/caengine/core/rules"
	"github.com/caengine/core/super"
	"github.com/caengine/core/tile"
)

// Engine holds everything one running pattern needs between
// generations.
type Engine struct {
	Width, Height int
	Pair          *cellgrid.Pair
	tiles         [2]*tile.Bitmap
	History       *super.History
	Rule          rules.Engine
	Gen           uint64
}

// New allocates an Engine over a width x height grid, advanced by rule.
func New(width, height int, rule rules.Engine) *Engine {
	return &Engine{
		Width: width, Height: height,
		Pair:    cellgrid.NewPair(width, height),
		tiles:   [2]*tile.Bitmap{tile.NewBitmap(width, height), tile.NewBitmap(width, height)},
		History: super.NewHistory(width, height),
		Rule:    rule,
	}
}

func (e *Engine) currentTiles() *tile.Bitmap { return e.tiles[e.Gen%2] }
func (e *Engine) nextTiles() *tile.Bitmap    { return e.tiles[(e.Gen+1)%2] }

// Seed writes state at (x, y) in the current generation's grid and
// marks its tile active, for building an initial pattern before the
// first Step.
func (e *Engine) Seed(x, y int, state uint8) {
	e.Pair.Current(e.Gen).Set(x, y, state)
	e.currentTiles().Set(x/tile.Size, y/tile.Size, true)
}

// Step advances one generation: it clears the tile bitmap the next
// generation will write into, runs the configured rule, folds the
// resulting active tiles into History, and advances Gen.
func (e *Engine) Step() rules.Stats {
	cur := e.Pair.Current(e.Gen)
	next := e.Pair.Next(e.Gen)
	curTiles := e.currentTiles()
	nextTiles := e.nextTiles()
	nextTiles.Clear()

	stats := e.Rule.NextGeneration(cur, next, curTiles, nextTiles, e.Gen)

	// Kill-empty-tiles post-pass (spec §4.1): a tile active in curTiles
	// but absent from nextTiles just died. next already holds zeros for
	// it (the rule walked it this generation), but cur — the buffer this
	// generation read from, due to be written again two generations from
	// now — still has its pre-death cells. Clear them now so a
	// neighbouring tile's cross-tile neighbour count never reads stale
	// state out of a tile nothing will revisit.
	tile.KillEmpty(cur, curTiles, nextTiles)

	e.History.Accumulate(nextTiles)
	e.Gen++
	return stats
}

// Current returns the grid and active-tile bitmap for the generation
// about to be rendered (i.e. the generation Step last produced, or the
// seeded generation before any Step).
func (e *Engine) Current() (*cellgrid.Grid, *tile.Bitmap) {
	return e.Pair.Current(e.Gen), e.currentTiles()
}
