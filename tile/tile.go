// Package tile implements the dirty-region scheduler: which 16x16 tiles a
// rule engine must evaluate this generation, how that set grows when a
// tile's edge cells change, and the bounding-box bookkeeping derived from
// the per-generation touched-column/touched-row vectors (spec §4.1).
package tile

import (
	"github.com/caengine/core/cellgrid"
	"github.com/caengine/core/simd"
)

const (
	// Size is the tile edge length in cells.
	Size = 16
)

// Bitmap is a bitmap of 16x16 tiles, one bit per tile, packed 16 tiles to
// a word with the MSB as the leftmost tile (same convention as
// cellgrid.BitGrid, spec §3).
type Bitmap struct {
	TilesX, TilesY int
	Stride         int // words per tile row = ceil(TilesX/16)
	Words          []uint16
}

// NewBitmap allocates a tile bitmap covering a grid of the given cell
// width and height (both must be multiples of 16).
func NewBitmap(cellWidth, cellHeight int) *Bitmap {
	tx := cellWidth / Size
	ty := cellHeight / Size
	stride := (tx + 15) / 16
	return &Bitmap{
		TilesX: tx,
		TilesY: ty,
		Stride: stride,
		Words:  make([]uint16, stride*ty),
	}
}

func (b *Bitmap) wordIndex(tx, ty int) (word int, bit uint) {
	return ty*b.Stride + tx/16, 15 - uint(tx%16)
}

// Get reports whether tile (tx, ty) is set.
func (b *Bitmap) Get(tx, ty int) bool {
	if tx < 0 || ty < 0 || tx >= b.TilesX || ty >= b.TilesY {
		return false
	}
	w, bit := b.wordIndex(tx, ty)
	return b.Words[w]&(1<<bit) != 0
}

// Set stores the bit for tile (tx, ty).
func (b *Bitmap) Set(tx, ty int, v bool) {
	if tx < 0 || ty < 0 || tx >= b.TilesX || ty >= b.TilesY {
		return
	}
	w, bit := b.wordIndex(tx, ty)
	if v {
		b.Words[w] |= 1 << bit
	} else {
		b.Words[w] &^= 1 << bit
	}
}

// Clear zeroes every bit.
func (b *Bitmap) Clear() {
	for i := range b.Words {
		b.Words[i] = 0
	}
}

// Or sets every bit that is set in either b or other (used to build the
// monotonic history bitmap, spec §3).
func (b *Bitmap) Or(other *Bitmap) {
	for i := range b.Words {
		b.Words[i] |= other.Words[i]
	}
}

// Pos identifies one set tile.
type Pos struct{ TX, TY int }

// Select returns every set tile position, in row-major tile-row order;
// within a word the highest-index bit (leftmost tile) is produced first,
// via leading-zero count (spec §4.1).
func (b *Bitmap) Select() []Pos {
	var out []Pos
	for ty := 0; ty < b.TilesY; ty++ {
		row := b.Words[ty*b.Stride : ty*b.Stride+b.Stride]
		for wx, word := range row {
			w := word
			for w != 0 {
				lead := simd.LeadingZeros16(w)
				bitPos := lead // bit index from MSB, 0 = leftmost
				tx := wx*16 + bitPos
				if tx < b.TilesX {
					out = append(out, Pos{TX: tx, TY: ty})
				}
				w &^= 1 << uint(15-bitPos)
			}
		}
	}
	return out
}

// edgeNeighbour is one of the eight directions a tile edge-change expands
// into (spec §4.1 "eight neighbour relations").
var edgeNeighbour = [8][2]int{
	{-1, -1}, {0, -1}, {1, -1},
	{-1, 0} /*      */, {1, 0},
	{-1, 1}, {0, 1}, {1, 1},
}

// ExpandOnEdgeChange sets, in next, the bit of every tile neighbouring a
// changed tile (tx,ty) in all eight directions, clipped (not wrapped) at
// grid edges (spec §4.1). It also sets (tx,ty) itself, since a tile that
// changed is still active.
func ExpandOnEdgeChange(next *Bitmap, tx, ty int) {
	next.Set(tx, ty, true)
	for _, d := range edgeNeighbour {
		next.Set(tx+d[0], ty+d[1], true)
	}
}

// Touched is a column-touched or row-touched vector: one bit per cell
// column / cell row, packed 16 to a word; UpdateBox reads set bit i as
// cell coordinate i (spec §3).
type Touched struct {
	Words []uint16 // word i covers columns (or rows) [16i, 16i+15]
}

// NewTouched allocates a touched vector covering n cells (n must be a
// multiple of 16).
func NewTouched(n int) *Touched {
	return &Touched{Words: make([]uint16, n/16)}
}

// Set marks column (or row) i as touched (0-15 within a word, MSB-leftmost).
func (t *Touched) Set(i int) {
	t.Words[i/16] |= 1 << uint(15-(i%16))
}

// Box is an inclusive cell-space bounding box; it is an alias of
// cellgrid.Rect so scheduler and grid code share one rectangle type.
type Box = cellgrid.Rect

// Boxes bundles the two boxes every rule engine emits: the occupied box
// (any non-zero cell) and the alive box (any cell >= aliveStart, or
// == maxGenState for N-state rules), spec §3/§8.
type Boxes struct {
	Occupied, Alive Box
}

// UpdateBox derives the tight bounding box for a touched-column/row pair
// by finding the extremal set words, then refining to exact pixel
// coordinates via leading/trailing zero counts within those words, and
// finally clamping to the grid extents. If no bit is set the box collapses
// to the grid centre (spec §4.1, §8 "Empty grid").
func UpdateBox(cols, rows *Touched, width, height int) Box {
	minC, maxC, anyC := extremalWord(cols.Words)
	minR, maxR, anyR := extremalWord(rows.Words)
	if !anyC || !anyR {
		cx, cy := width/2, height/2
		return Box{Left: cx, Right: cx, Bottom: cy, Top: cy}
	}

	left := minC*16 + simd.LeadingZeros16(cols.Words[minC])
	right := maxC*16 + (15 - simd.TrailingZeros16(cols.Words[maxC]))
	bottom := minR*16 + simd.LeadingZeros16(rows.Words[minR])
	top := maxR*16 + (15 - simd.TrailingZeros16(rows.Words[maxR]))

	if left < 0 {
		left = 0
	}
	if right >= width {
		right = width - 1
	}
	if bottom < 0 {
		bottom = 0
	}
	if top >= height {
		top = height - 1
	}
	return Box{Left: left, Right: right, Bottom: bottom, Top: top}
}

func extremalWord(words []uint16) (min, max int, any bool) {
	min, max = -1, -1
	for i, w := range words {
		if w == 0 {
			continue
		}
		if min == -1 {
			min = i
		}
		max = i
		any = true
	}
	return
}

// KillEmpty clears the cell-grid region of every tile set in before but
// not in after — the spec §4.1 post-pass that keeps the double-buffered
// grid consistent: a tile that goes empty this generation was still
// walked (so the buffer just written is already correctly zeroed for
// it), but the *other* buffer — the one this generation read from, next
// due to be written again two generations from now — still holds that
// tile's pre-death cells, and nothing will revisit them once the tile
// drops out of the active set. Left alone, a neighbouring tile's
// cross-tile neighbour count would read those stale cells as alive.
// KillEmpty zeroes them immediately instead, via the same
// cellgrid.ZeroRect clearing ClearDeadTiles uses for HROT's border clear.
func KillEmpty(g *cellgrid.Grid, before, after *Bitmap) {
	for ty := 0; ty < before.TilesY; ty++ {
		died := NewDiedRow(before.TilesX)
		any := false
		for tx := 0; tx < before.TilesX; tx++ {
			if before.Get(tx, ty) && !after.Get(tx, ty) {
				died.Mark(tx)
				any = true
			}
		}
		if any {
			ClearDeadTiles(g, died, ty)
		}
	}
}

// DiedRow is the per-row "died" mask for §4.1's kill-empty-tiles pass: bit
// tx is set iff tile (tx, row) was occupied before this generation and is
// empty after it.
type DiedRow struct {
	Words []uint16
}

// NewDiedRow allocates a died-tile mask for one tile row.
func NewDiedRow(tilesX int) *DiedRow {
	return &DiedRow{Words: make([]uint16, (tilesX+15)/16)}
}

// Mark records that tile tx died this generation.
func (d *DiedRow) Mark(tx int) {
	d.Words[tx/16] |= 1 << uint(15-(tx%16))
}

// ClearDeadTiles zeroes the cell-grid region of every tile marked dead in
// died, for tile row ty, keeping double-buffering consistent (spec §4.1
// "a post-pass clears the source buffer for those tiles").
func ClearDeadTiles(g *cellgrid.Grid, died *DiedRow, ty int) {
	for wx, word := range died.Words {
		w := word
		for w != 0 {
			lead := simd.LeadingZeros16(w)
			tx := wx*16 + lead
			left := tx * Size
			bottom := ty * Size
			g.ZeroRect(cellgrid.Rect{
				Left: left, Right: left + Size - 1,
				Bottom: bottom, Top: bottom + Size - 1,
			})
			w &^= 1 << uint(15-lead)
		}
	}
}
