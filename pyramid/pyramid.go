// Package pyramid builds the multi-resolution colour pyramid used when a
// view is zoomed out far enough that many cells fall inside one screen
// pixel: five block sizes (2, 4, 8, 16, 32), each holding the per-block
// maximum of the full-resolution cell values, so the rasteriser can pick
// whichever level matches the current zoom without re-walking every cell
// (spec §4.8).
package pyramid

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/caengine/core/cellgrid"
	"github.com/caengine/core/tile"
)

// Blocks is the fixed set of block edge lengths the source's
// create2x2/4x4/8x8/16x16/32x32ColourGrid functions build, in order from
// finest to coarsest.
var Blocks = [5]int{2, 4, 8, 16, 32}

// Level holds one block size's reduction of the full-resolution grid: a
// dense Width x Height buffer where every cell within a Block x Block
// block carries that block's maximum value.
type Level struct {
	Block         int
	Width, Height int
	Data          []uint8
}

func newLevel(block, width, height int) Level {
	return Level{Block: block, Width: width, Height: height, Data: make([]uint8, width*height)}
}

func (l *Level) at(x, y int) uint8     { return l.Data[y*l.Width+x] }
func (l *Level) set(x, y int, v uint8) { l.Data[y*l.Width+x] = v }

// Pyramid is the full set of levels for one grid size.
type Pyramid struct {
	Width, Height int
	Levels        [5]Level
}

// New allocates a pyramid covering a grid of the given logical size.
func New(width, height int) *Pyramid {
	p := &Pyramid{Width: width, Height: height}
	for i, b := range Blocks {
		p.Levels[i] = newLevel(b, width, height)
	}
	return p
}

// Build recomputes every level from src, limited to the tiles set in
// dirty, using one goroutine per level (golang.org/x/sync/errgroup) since
// each level's reduction reads src and writes its own buffer
// independently (spec §3's concurrency rationale; grounded on render.c's
// five independent createNxNColourGrid passes, which the source itself
// runs back-to-back over the same dirty-tile list).
func (p *Pyramid) Build(ctx context.Context, src *cellgrid.Grid, dirty *tile.Bitmap) error {
	positions := dirty.Select()
	g, _ := errgroup.WithContext(ctx)
	for i := range p.Levels {
		lvl := &p.Levels[i]
		g.Go(func() error {
			buildLevel(lvl, src, positions)
			return nil
		})
	}
	return g.Wait()
}

// buildLevel recomputes every block-max that overlaps a dirty tile.
// Blocks smaller than a tile (2,4,8) are wholly contained in one tile's
// pixel span; Block==16 aligns exactly; Block==32 can span up to four
// tiles, so the reduction walks block-aligned coordinates rather than
// tile-aligned ones and may touch a neighbour tile's cells — harmless
// since those cells are read-only here.
func buildLevel(lvl *Level, src *cellgrid.Grid, positions []tile.Pos) {
	block := lvl.Block
	seen := make(map[[2]int]bool, len(positions))
	for _, pos := range positions {
		left := (pos.TX * tile.Size) / block * block
		bottom := (pos.TY * tile.Size) / block * block
		for by := bottom; by < bottom+tile.Size+block; by += block {
			if by >= lvl.Height {
				continue
			}
			for bx := left; bx < left+tile.Size+block; bx += block {
				if bx >= lvl.Width {
					continue
				}
				key := [2]int{bx, by}
				if seen[key] {
					continue
				}
				seen[key] = true
				reduceBlock(lvl, src, bx, by, block)
			}
		}
	}
}

// reduceBlock fills the block x,y .. x+block-1,y+block-1 region of lvl
// with the maximum cell value found in that region of src (clamped at
// the grid edge), mirroring the row-pair-then-column-pair max reduction
// create2x2ColourGrid performs, generalized from a fixed 2-wide SIMD
// lane width to an arbitrary block size.
func reduceBlock(lvl *Level, src *cellgrid.Grid, x, y, block int) {
	maxX, maxY := x+block, y+block
	if maxX > lvl.Width {
		maxX = lvl.Width
	}
	if maxY > lvl.Height {
		maxY = lvl.Height
	}
	var max uint8
	for cy := y; cy < maxY; cy++ {
		for cx := x; cx < maxX; cx++ {
			if v := src.At(cx, cy); v > max {
				max = v
			}
		}
	}
	for cy := y; cy < maxY; cy++ {
		for cx := x; cx < maxX; cx++ {
			lvl.set(cx, cy, max)
		}
	}
}

// LevelFor picks the coarsest level whose block size does not exceed the
// requested cells-per-pixel ratio, so the
// rasteriser samples the pyramid instead of the full grid once the view
// is zoomed out past 1:1.
func (p *Pyramid) LevelFor(cellsPerPixel int) *Level {
	best := -1
	for i, b := range Blocks {
		if b <= cellsPerPixel {
			best = i
		}
	}
	if best < 0 {
		return nil
	}
	return &p.Levels[best]
}
