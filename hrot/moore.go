package hrot

import (
	"fmt"

	"github.com/caengine/core/cellgrid"
	"github.com/caengine/core/rules"
	"github.com/caengine/core/simd"
	"github.com/caengine/core/tile"
)

func init() {
	rules.Register(rules.KindHROTMoore, func(params any) (rules.Engine, error) {
		p, ok := params.(MooreParams)
		if !ok {
			return nil, fmt.Errorf("hrot: New wants hrot.MooreParams, got %T", params)
		}
		return NewMoore(p), nil
	})
}

// MooreParams is Params plus the Moore neighbourhood range.
type MooreParams struct {
	Params
	Range int
}

// Moore advances an HROT rule on the square Moore neighbourhood using
// the two-pass cumulative-count algorithm of spec §4.4: a summed-area
// table over "is this cell alive" is built once per generation, then
// each cell's neighbourhood sum is four corner lookups into it.
type Moore struct {
	p MooreParams
}

func NewMoore(p MooreParams) *Moore { return &Moore{p: p} }

func (m *Moore) Kind() rules.Kind { return rules.KindHROTMoore }

// buildCounts fills counts[y][x] = number of alive cells in rectangle
// [0,x] x [0,y], the summed-area table spec §4.4 calls
// cumulativeMooreCounts.
func (m *Moore) buildCounts(cur *cellgrid.Grid) [][]int32 {
	w, h := cur.Width, cur.Height
	counts := make([][]int32, h)
	for y := range counts {
		counts[y] = make([]int32, w)
	}
	alive := m.p.aliveStart()
	for y := 0; y < h; y++ {
		var rowSum int32
		for x := 0; x < w; x++ {
			if cur.At(x, y) >= alive {
				rowSum++
			}
			above := int32(0)
			if y > 0 {
				above = counts[y-1][x]
			}
			counts[y][x] = above + rowSum
		}
	}
	return counts
}

// rectSum returns the sum over [x0,x1] x [y0,y1] (inclusive), clamped to
// the grid, via the four-corner summed-area difference (spec §4.4).
func rectSum(counts [][]int32, w, h, x0, y0, x1, y1 int) int32 {
	if x1 >= w {
		x1 = w - 1
	}
	if y1 >= h {
		y1 = h - 1
	}
	if x0 < 0 {
		x0 = 0
	}
	if y0 < 0 {
		y0 = 0
	}
	if x1 < 0 || y1 < 0 || x0 >= w || y0 >= h {
		return 0
	}

	at := func(x, y int) int32 {
		if x < 0 || y < 0 {
			return 0
		}
		return counts[y][x]
	}
	return at(x1, y1) - at(x0-1, y1) - at(x1, y0-1) + at(x0-1, y0-1)
}

func (m *Moore) NextGeneration(cur, next *cellgrid.Grid, tiles, nextTiles *tile.Bitmap, gen uint64) rules.Stats {
	counts := m.buildCounts(cur)
	r := m.p.Range
	w, h := cur.Width, cur.Height
	alive := m.p.aliveStart()

	var stats rules.Stats
	occCols := tile.NewTouched(w)
	occRows := tile.NewTouched(h)
	aliveCols := tile.NewTouched(w)
	aliveRows := tile.NewTouched(h)

	for _, pos := range tiles.Select() {
		tileOccupied, tileAlive := false, false
		// A full 16-wide row lines up exactly with a simd.Lane16, the
		// common case the spec §4.4 SIMD update pass targets; the last
		// partial tile in a non-multiple-of-16 grid width falls back to
		// the scalar per-cell path below.
		rowIsFull := pos.TX*tile.Size+tile.Size <= w
		for row := 0; row < tile.Size; row++ {
			y := pos.TY*tile.Size + row
			if y >= h {
				continue
			}

			if m.p.MaxGenState == 0 && rowIsFull {
				left := pos.TX * tile.Size
				var oldRow, combos simd.Lane16
				for col := 0; col < tile.Size; col++ {
					x := left + col
					total := rectSum(counts, w, h, x-r, y-r, x+r, y+r)
					self := int32(0)
					if cur.At(x, y) >= alive {
						self = 1
					}
					oldRow[col] = cur.At(x, y)
					combos[col] = combo(m.p.ComboList, int(total-self))
				}

				nextRow, born, died := rowUpdateTwoState(m.p.Params, oldRow, combos)
				stats.Births += uint32(born)
				stats.Deaths += uint32(died)

				for col := 0; col < tile.Size; col++ {
					x := left + col
					nv := nextRow[col]
					old := oldRow[col]
					next.Set(x, y, nv)

					isAlive := nv >= alive
					if isAlive {
						stats.Population++
						tileAlive = true
					}
					if nv != 0 {
						tileOccupied = true
					}
					if nv != old && (col == 0 || col == tile.Size-1 || row == 0 || row == tile.Size-1) {
						tile.ExpandOnEdgeChange(nextTiles, pos.TX, pos.TY)
					}
				}
				continue
			}

			for col := 0; col < tile.Size; col++ {
				x := pos.TX*tile.Size + col
				if x >= w {
					continue
				}

				total := rectSum(counts, w, h, x-r, y-r, x+r, y+r)
				self := int32(0)
				if cur.At(x, y) >= alive {
					self = 1
				}
				count := int(total - self)

				old := cur.At(x, y)
				nv, born, died := m.p.next(old, count)
				next.Set(x, y, nv)

				if born {
					stats.Births++
				}
				if died {
					stats.Deaths++
				}
				isAlive := nv >= alive
				if isAlive {
					stats.Population++
					tileAlive = true
				}
				if nv != 0 {
					tileOccupied = true
				}
				if nv != old && (col == 0 || col == tile.Size-1 || row == 0 || row == tile.Size-1) {
					tile.ExpandOnEdgeChange(nextTiles, pos.TX, pos.TY)
				}
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

	stats.Occupied = tile.UpdateBox(occCols, occRows, w, h)
	stats.Alive = tile.UpdateBox(aliveCols, aliveRows, w, h)
	return stats
}
