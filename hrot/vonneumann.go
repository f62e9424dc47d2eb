package hrot

import (
	"fmt"

	"github.com/caengine/core/cellgrid"
	"github.com/caengine/core/rules"
	"github.com/caengine/core/simd"
	"github.com/caengine/core/tile"
)

func init() {
	rules.Register(rules.KindHROTVonNeumann, func(params any) (rules.Engine, error) {
		p, ok := params.(VonNeumannParams)
		if !ok {
			return nil, fmt.Errorf("hrot: New wants hrot.VonNeumannParams, got %T", params)
		}
		return NewVonNeumann(p), nil
	})
}

// VonNeumannParams is Params plus the diamond (L1) neighbourhood range.
type VonNeumannParams struct {
	Params
	Range int
}

// VonNeumann advances an HROT rule on the diamond (|dx|+|dy| <= range,
// excluding the centre) neighbourhood.
//
// Spec §4.4 describes a skewed triangular summed-area table for this
// shape (recurrence C(i,j) = C(i-1,j-1) + C(i-1,j+1) - C(i-2,j) +
// live(i,j) with boundary clauses for negative coordinates and the
// reflected right half of the diamond). That table only pays for itself
// at large ranges; this implementation evaluates the diamond directly
// per cell (see DESIGN.md) — same neighbourhood sum, O(range^2) instead
// of O(1) per cell.
type VonNeumann struct {
	p VonNeumannParams
}

func NewVonNeumann(p VonNeumannParams) *VonNeumann { return &VonNeumann{p: p} }

func (v *VonNeumann) Kind() rules.Kind { return rules.KindHROTVonNeumann }

func (v *VonNeumann) count(cur *cellgrid.Grid, x, y int) int {
	r := v.p.Range
	alive := v.p.aliveStart()
	n := 0
	for dy := -r; dy <= r; dy++ {
		maxDX := r - abs(dy)
		for dx := -maxDX; dx <= maxDX; dx++ {
			if dx == 0 && dy == 0 {
				continue
			}
			nx, ny := x+dx, y+dy
			if nx < 0 || ny < 0 || nx >= cur.Width || ny >= cur.Height {
				continue
			}
			if cur.At(nx, ny) >= alive {
				n++
			}
		}
	}
	return n
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

func (v *VonNeumann) NextGeneration(cur, next *cellgrid.Grid, tiles, nextTiles *tile.Bitmap, gen uint64) rules.Stats {
	w, h := cur.Width, cur.Height
	alive := v.p.aliveStart()

	var stats rules.Stats
	occCols := tile.NewTouched(w)
	occRows := tile.NewTouched(h)
	aliveCols := tile.NewTouched(w)
	aliveRows := tile.NewTouched(h)

	for _, pos := range tiles.Select() {
		tileOccupied, tileAlive := false, false
		rowIsFull := pos.TX*tile.Size+tile.Size <= w
		for row := 0; row < tile.Size; row++ {
			y := pos.TY*tile.Size + row
			if y >= h {
				continue
			}

			if v.p.MaxGenState == 0 && rowIsFull {
				left := pos.TX * tile.Size
				var oldRow, combos simd.Lane16
				for col := 0; col < tile.Size; col++ {
					x := left + col
					oldRow[col] = cur.At(x, y)
					combos[col] = combo(v.p.ComboList, v.count(cur, x, y))
				}

				nextRow, born, died := rowUpdateTwoState(v.p.Params, oldRow, combos)
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

				count := v.count(cur, x, y)
				old := cur.At(x, y)
				nv, born, died := v.p.next(old, count)
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
