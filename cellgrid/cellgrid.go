// Package cellgrid implements the engine's shared data model: the
// double-buffered byte grid every rule engine mutates, and the 16-bit
// packed bit grid the Life-like family mirrors alongside it.
package cellgrid

import "fmt"

// Pen-encoding constants for two-state rules (spec §3, §9).
const (
	DeadForever = 0
	DeadMin     = 1
	DeadMax     = 63
	AliveStart  = 64
	AliveMax    = 127
)

// Rect is an inclusive axis-aligned cell rectangle: [Left, Right] x [Bottom, Top].
type Rect struct {
	Left, Bottom, Right, Top int
}

// Empty reports whether r contains no cells.
func (r Rect) Empty() bool {
	return r.Right < r.Left || r.Top < r.Bottom
}

// Grid is a dense, row-major, power-of-two-dimensioned byte grid with an
// explicit row stride so rows can be padded for unconditional edge loads.
type Grid struct {
	Width, Height int
	Stride        int // >= Width, power of two
	Cells         []uint8
}

// New allocates a grid of the given logical size with padding tiles (16
// cells) on every side, as required by spec §5/§6 (unconditional edge
// loads in hot loops).
func New(width, height int) *Grid {
	if !isPowerOfTwo(width) || !isPowerOfTwo(height) {
		panic(fmt.Sprintf("cellgrid: width=%d height=%d must be powers of two", width, height))
	}
	// smallest power of two leaving at least one tile (16 cells) of
	// padding on each side
	stride := 1
	for stride < width+32 {
		stride <<= 1
	}
	rows := height + 32
	return &Grid{
		Width:  width,
		Height: height,
		Stride: stride,
		Cells:  make([]uint8, stride*rows),
	}
}

func isPowerOfTwo(n int) bool {
	return n > 0 && n&(n-1) == 0
}

// padOffset is the index of logical (0,0) inside Cells; 16 rows/columns of
// padding precede the logical grid on every side.
func (g *Grid) padOffset() int {
	return 16*g.Stride + 16
}

// Index returns the offset into Cells of logical cell (x, y).
func (g *Grid) Index(x, y int) int {
	return g.padOffset() + y*g.Stride + x
}

// At returns the cell state at logical (x, y).
func (g *Grid) At(x, y int) uint8 {
	return g.Cells[g.Index(x, y)]
}

// Set stores the cell state at logical (x, y).
func (g *Grid) Set(x, y int, v uint8) {
	g.Cells[g.Index(x, y)] = v
}

// Row returns the slice of Cells covering the full padded row y (including
// left/right padding), for kernels that want to operate on contiguous
// 16-cell chunks without bounds checks.
func (g *Grid) Row(y int) []uint8 {
	start := (16+y)*g.Stride
	return g.Cells[start : start+g.Stride]
}

// ZeroRect clears every cell in the inclusive rectangle r (grounded on
// HROT.c's clearTopAndLeft / clearHROTOutside border clears, and reused by
// the tile scheduler's kill-empty-tile post-pass, spec §4.1).
func (g *Grid) ZeroRect(r Rect) {
	if r.Empty() {
		return
	}
	for y := r.Bottom; y <= r.Top; y++ {
		row := g.Row(y)
		base := 16 + r.Left
		for x := base; x <= 16+r.Right; x++ {
			row[x] = 0
		}
	}
}

// Pair is the engine's double buffer: two grids swapped by generation
// parity (spec §3 "Double-buffered... swaps roles each generation by
// parity of a generation counter").
type Pair struct {
	a, b *Grid
}

// NewPair allocates a double-buffered grid pair of the given logical size.
func NewPair(width, height int) *Pair {
	return &Pair{a: New(width, height), b: New(width, height)}
}

// Current returns the read-only "this generation" grid for the given
// generation counter.
func (p *Pair) Current(gen uint64) *Grid {
	if gen%2 == 0 {
		return p.a
	}
	return p.b
}

// Next returns the "being written" grid for the given generation counter.
func (p *Pair) Next(gen uint64) *Grid {
	if gen%2 == 0 {
		return p.b
	}
	return p.a
}

// BitGrid packs one bit of cell occupancy per cell into 16-bit words: word
// column c = x>>4, bit index 15-(x&15) so the MSB is the leftmost cell
// (spec §3).
type BitGrid struct {
	WidthWords, Height int
	Words              []uint16
}

// NewBitGrid allocates a bit grid covering width (must be a multiple of
// 16) by height cells.
func NewBitGrid(width, height int) *BitGrid {
	if width%16 != 0 {
		panic(fmt.Sprintf("cellgrid: bit grid width %d must be a multiple of 16", width))
	}
	ww := width / 16
	return &BitGrid{
		WidthWords: ww,
		Height:     height,
		Words:      make([]uint16, ww*height),
	}
}

// Get reports whether cell (x, y) is set.
func (b *BitGrid) Get(x, y int) bool {
	w := b.Words[y*b.WidthWords+(x>>4)]
	return w&(1<<(15-uint(x&15))) != 0
}

// Set stores the occupancy bit for cell (x, y).
func (b *BitGrid) Set(x, y int, v bool) {
	idx := y*b.WidthWords + (x >> 4)
	mask := uint16(1) << (15 - uint(x&15))
	if v {
		b.Words[idx] |= mask
	} else {
		b.Words[idx] &^= mask
	}
}

// FromGrid rebuilds b from g's "is this cell live?" predicate (cell state
// >= aliveStart), used whenever a rule-family change requires resyncing the
// bit grid from the cell grid (spec §3).
func (b *BitGrid) FromGrid(g *Grid, aliveStart uint8) {
	for y := 0; y < g.Height; y++ {
		for x := 0; x < g.Width; x++ {
			b.Set(x, y, g.At(x, y) >= aliveStart)
		}
	}
}
