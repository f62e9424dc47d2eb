// Package lifelike implements the two-state outer-totalistic Moore
// engine (spec-speak: "Life-like"), operating on 16-bit bit-packed chunk
// rows instead of the byte-per-cell grid so a whole tile row updates with
// one table lookup per quartet of cells.
//
// The lookup-table construction mirrors the bit-field accessor style of
// ppu/loopy.go: everything is built from shifts and masks over a single
// packed word, just applied to a rule table instead of a PPU scroll
// register.
package lifelike

import (
	"fmt"

	"github.com/caengine/core/cellgrid"
	"github.com/caengine/core/rules"
	"github.com/caengine/core/simd"
	"github.com/caengine/core/tile"
)

func init() {
	rules.Register(rules.KindLifeLike, func(params any) (rules.Engine, error) {
		p, ok := params.(Params)
		if !ok {
			return nil, fmt.Errorf("lifelike: New wants lifelike.Params, got %T", params)
		}
		return New(p), nil
	})
}

// Params describes a two-state outer-totalistic rule by its birth and
// survival sets, indexed by Moore neighbour count 0..8. AltBirth and
// AltSurvive, if non-nil, give a second table used on odd generations
// (the "altSpecified" table of anti-glide-symmetric rules).
type Params struct {
	Birth      [9]bool
	Survive    [9]bool
	AltBirth   *[9]bool
	AltSurvive *[9]bool
}

const tableSize = 1 << 18

// Engine advances a single rule built from Params. It holds one or two
// 256KiB lookup tables (main, and optionally alt for odd generations).
type Engine struct {
	table    []byte
	altTable []byte // nil unless Params specified an alt rule
}

// New builds the lookup table(s) for p. Table construction is O(2^18)
// and happens once, not per generation.
func New(p Params) *Engine {
	e := &Engine{table: buildTable(p.Birth, p.Survive)}
	if p.AltBirth != nil || p.AltSurvive != nil {
		birth, survive := p.Birth, p.Survive
		if p.AltBirth != nil {
			birth = *p.AltBirth
		}
		if p.AltSurvive != nil {
			survive = *p.AltSurvive
		}
		e.altTable = buildTable(birth, survive)
	}
	return e
}

func (e *Engine) Kind() rules.Kind { return rules.KindLifeLike }

// buildTable fills the 2^18-entry table. Index bits 17..12 are the
// previous row's 6-bit slice, bits 11..6 the current row's, bits 5..0
// the next row's; each slice is [left-margin, q0, q1, q2, q3,
// right-margin] with q0 the leftmost of the four quartet cells. The
// table value is a nibble holding the four quartet cells' next states,
// q0 in bit 3 down to q3 in bit 0.
func buildTable(birth, survive [9]bool) []byte {
	table := make([]byte, tableSize)
	for idx := 0; idx < tableSize; idx++ {
		prev := byte(idx>>12) & 0x3F
		cur := byte(idx>>6) & 0x3F
		next := byte(idx) & 0x3F
		table[idx] = quartetNextStates(prev, cur, next, birth, survive)
	}
	return table
}

func sliceBit(slice byte, pos uint) int {
	return int((slice >> pos) & 1)
}

func quartetNextStates(prev, cur, next byte, birth, survive [9]bool) byte {
	var out byte
	for p := uint(0); p < 4; p++ {
		center := 4 - p
		left := center + 1
		right := center - 1

		count := sliceBit(prev, left) + sliceBit(prev, center) + sliceBit(prev, right)
		count += sliceBit(cur, left) + sliceBit(cur, right)
		count += sliceBit(next, left) + sliceBit(next, center) + sliceBit(next, right)

		alive := sliceBit(cur, center) == 1
		var next bool
		if alive {
			next = survive[count]
		} else {
			next = birth[count]
		}
		if next {
			out |= 1 << (center - 1)
		}
	}
	return out
}

// window builds the 18-bit (prev/cur/next use the low 18 bits of a
// uint32) row representation: bit 17 is the chunk's left neighbour cell,
// bits 16..1 are the chunk itself (bit16 = chunk's leftmost cell), bit 0
// is the chunk's right neighbour cell.
func window(leftChunk, chunk, rightChunk uint16) uint32 {
	leftBit := uint32(leftChunk & 1)
	rightBit := uint32((rightChunk >> 15) & 1)
	return (leftBit << 17) | (uint32(chunk) << 1) | rightBit
}

func quartetIndex(prevWin, curWin, nextWin uint32, q uint) uint32 {
	shift := 12 - 4*q
	mask := uint32(0x3F)
	return ((prevWin >> shift) & mask << 12) | ((curWin >> shift) & mask << 6) | ((nextWin >> shift) & mask)
}

// advanceChunk computes the new 16-bit chunk at word column wc of row y
// given the bit grid's previous generation.
func (e *Engine) advanceChunk(bg *cellgrid.BitGrid, y, wc int, table []byte) uint16 {
	get := func(yy, wcc int) uint16 {
		if yy < 0 || yy >= bg.Height || wcc < 0 || wcc >= bg.WidthWords {
			return 0
		}
		return bg.Words[yy*bg.WidthWords+wcc]
	}

	prevChunk, curChunk, nextChunk := get(y-1, wc), get(y, wc), get(y+1, wc)
	prevLeft, prevRight := get(y-1, wc-1), get(y-1, wc+1)
	curLeft, curRight := get(y, wc-1), get(y, wc+1)
	nextLeft, nextRight := get(y+1, wc-1), get(y+1, wc+1)

	prevWin := window(prevLeft, prevChunk, prevRight)
	curWin := window(curLeft, curChunk, curRight)
	nextWin := window(nextLeft, nextChunk, nextRight)

	var out uint16
	for q := uint(0); q < 4; q++ {
		idx := quartetIndex(prevWin, curWin, nextWin, q)
		out |= uint16(table[idx]) << (12 - 4*q)
	}
	return out
}

// NextGeneration implements rules.Engine. It derives a bit grid from cur,
// computes the next bit grid tile-by-tile (a tile's width exactly
// matches one 16-bit chunk, so each tile row is one table-driven chunk
// update), writes the new states back into next with the plain
// new-cells-get-AliveStart palette, and grows nextTiles to cover any tile
// whose edge column changed.
func (e *Engine) NextGeneration(cur, next *cellgrid.Grid, tiles, nextTiles *tile.Bitmap, gen uint64) rules.Stats {
	table := e.table
	if e.altTable != nil && gen%2 == 1 {
		table = e.altTable
	}

	oldBits := cellgrid.NewBitGrid(cur.Width, cur.Height)
	oldBits.FromGrid(cur, cellgrid.AliveStart)

	var stats rules.Stats
	occCols := tile.NewTouched(cur.Width)
	occRows := tile.NewTouched(cur.Height)
	aliveCols := tile.NewTouched(cur.Width)
	aliveRows := tile.NewTouched(cur.Height)

	for _, pos := range tiles.Select() {
		wc := pos.TX
		tileOccupied, tileAlive := false, false
		for row := 0; row < tile.Size; row++ {
			y := pos.TY*tile.Size + row
			if y >= cur.Height {
				continue
			}
			newChunk := e.advanceChunk(oldBits, y, wc, table)
			oldChunk := oldBits.Words[y*oldBits.WidthWords+wc]

			births := simd.PopCount16(newChunk &^ oldChunk)
			deaths := simd.PopCount16(oldChunk &^ newChunk)
			stats.Births += uint32(births)
			stats.Deaths += uint32(deaths)
			stats.Population += uint32(simd.PopCount16(newChunk))

			for bit := 0; bit < 16; bit++ {
				mask := uint16(1) << uint(15-bit)
				x := pos.TX*tile.Size + bit
				if newChunk&mask != 0 {
					next.Set(x, y, cellgrid.AliveStart)
				} else {
					next.Set(x, y, cellgrid.DeadForever)
				}
			}

			if newChunk != 0 {
				tileOccupied = true
				tileAlive = true
			}

			if newChunk != oldChunk && (newChunk&0x8001 != 0 || oldChunk&0x8001 != 0) {
				tile.ExpandOnEdgeChange(nextTiles, pos.TX, pos.TY)
			}
		}
		if tileOccupied {
			occCols.Set(pos.TX)
			occRows.Set(pos.TY)
			nextTiles.Set(pos.TX, pos.TY, true)
		}
		if tileAlive {
			aliveCols.Set(pos.TX)
			aliveRows.Set(pos.TY)
		}
	}

	stats.Occupied = tile.UpdateBox(occCols, occRows, cur.Width, cur.Height)
	stats.Alive = tile.UpdateBox(aliveCols, aliveRows, cur.Width, cur.Height)
	return stats
}

// ToCellGrid rewrites dst from bg using the plain palette: a live bit
// becomes cellgrid.AliveStart, a dead bit becomes cellgrid.DeadForever.
func ToCellGrid(bg *cellgrid.BitGrid, dst *cellgrid.Grid) {
	for y := 0; y < dst.Height; y++ {
		for x := 0; x < dst.Width; x++ {
			if bg.Get(x, y) {
				dst.Set(x, y, cellgrid.AliveStart)
			} else {
				dst.Set(x, y, cellgrid.DeadForever)
			}
		}
	}
}

// ToCellGridAged rewrites dst from bg using the ageing palette: live
// cells count up from AliveStart to AliveMax, dead cells count down from
// DeadMax to DeadMin and stay there; only cells that were never alive
// stay at DeadForever.
func ToCellGridAged(bg *cellgrid.BitGrid, dst *cellgrid.Grid) {
	for y := 0; y < dst.Height; y++ {
		for x := 0; x < dst.Width; x++ {
			old := dst.At(x, y)
			if bg.Get(x, y) {
				if old >= cellgrid.AliveStart && old < cellgrid.AliveMax {
					dst.Set(x, y, old+1)
				} else {
					dst.Set(x, y, cellgrid.AliveStart)
				}
				continue
			}
			switch {
			case old >= cellgrid.AliveStart:
				dst.Set(x, y, cellgrid.DeadMax)
			case old > cellgrid.DeadMin:
				dst.Set(x, y, old-1)
			case old == cellgrid.DeadMin:
				dst.Set(x, y, cellgrid.DeadMin)
			default:
				dst.Set(x, y, cellgrid.DeadForever)
			}
		}
	}
}

// densityKernel is the 3x3 neighbour-density weighting used for the
// shaded palette: corners weight 1, edges weight 5, centre excluded.
var densityKernel = [3][3]int{
	{1, 5, 1},
	{5, 0, 5},
	{1, 5, 1},
}

// ToCellGridShaded rewrites dst using a neighbour-density shading: each
// live cell's brightness is the weighted sum of its 8 neighbours (under
// densityKernel) offset by AliveStart, clamped to AliveMax. Dead cells
// are written as DeadForever.
func ToCellGridShaded(bg *cellgrid.BitGrid, dst *cellgrid.Grid) {
	safeGet := func(x, y int) bool {
		if x < 0 || y < 0 || x >= dst.Width || y >= dst.Height {
			return false
		}
		return bg.Get(x, y)
	}
	for y := 0; y < dst.Height; y++ {
		for x := 0; x < dst.Width; x++ {
			if !safeGet(x, y) {
				dst.Set(x, y, cellgrid.DeadForever)
				continue
			}
			sum := int(cellgrid.AliveStart)
			for dy := -1; dy <= 1; dy++ {
				for dx := -1; dx <= 1; dx++ {
					w := densityKernel[dy+1][dx+1]
					if w == 0 {
						continue
					}
					if safeGet(x+dx, y+dy) {
						sum += w
					}
				}
			}
			if sum > int(cellgrid.AliveMax) {
				sum = int(cellgrid.AliveMax)
			}
			dst.Set(x, y, uint8(sum))
		}
	}
}
