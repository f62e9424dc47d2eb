// Package ruletable implements the compressed rule-matrix transition
// function (spec §4.5): for each neighbour position, a per-state bitmask
// says which candidate rules still match; ANDing the masks for the
// actual neighbour states narrows to the matching rule, whose output
// state is the next state.
package ruletable

import (
	"fmt"
	"math/bits"

	"github.com/caengine/core/cellgrid"
	"github.com/caengine/core/rules"
	"github.com/caengine/core/tile"
)

func init() {
	rules.Register(rules.KindRuleTable, func(params any) (rules.Engine, error) {
		p, ok := params.(Params)
		if !ok {
			return nil, fmt.Errorf("ruletable: New wants ruletable.Params, got %T", params)
		}
		return New(p), nil
	})
}

// Neighbourhood selects how many positions (and which offsets) a Table
// is evaluated over: 9 for Moore, 7 for Hex, 5 for von Neumann.
type Neighbourhood int

const (
	Moore Neighbourhood = iota
	Hex
	VonNeumann
)

var mooreOffsets = [9][2]int{{0, 0}, {0, 1}, {1, 1}, {1, 0}, {1, -1}, {0, -1}, {-1, -1}, {-1, 0}, {-1, 1}}
var hexOffsets = [7][2]int{{0, 0}, {1, 0}, {0, 1}, {-1, 1}, {-1, 0}, {0, -1}, {1, -1}}
var vnOffsets = [5][2]int{{0, 0}, {0, 1}, {1, 0}, {0, -1}, {-1, 0}}

func offsetsFor(n Neighbourhood) [][2]int {
	switch n {
	case Hex:
		return hexOffsets[:]
	case VonNeumann:
		return vnOffsets[:]
	default:
		return mooreOffsets[:]
	}
}

// Table is the compressed rule matrix: LUT[position][state] is a bitmask
// over the NumCompressed candidate rules that still match at that
// position with that neighbour state. Output[r] is the state a fully
// matched rule r transitions to.
type Table struct {
	NumCompressed int
	LUT           [][]uint32 // len(LUT) == neighbourhood position count
	Output        []uint8
}

// Eval ANDs the per-position masks for states (one per neighbourhood
// position, position 0 conventionally the centre) and returns the
// output state of the lowest-numbered matching rule.
func (t Table) Eval(states []uint8) uint8 {
	mask := uint32(1)<<uint(t.NumCompressed) - 1
	for i, s := range states {
		mask &= t.LUT[i][s]
		if mask == 0 {
			break
		}
	}
	if mask == 0 {
		panic("ruletable: no candidate rule matched — malformed table")
	}
	r := bits.TrailingZeros32(mask)
	return t.Output[r]
}

// Params configures an Engine.
type Params struct {
	Table Table
	Kind  Neighbourhood
	Alive uint8 // 0 defaults to cellgrid.AliveStart
}

func (p Params) alive() uint8 {
	if p.Alive == 0 {
		return cellgrid.AliveStart
	}
	return p.Alive
}

// Engine advances a single RuleTable.
type Engine struct {
	p       Params
	offsets [][2]int
}

func New(p Params) *Engine {
	return &Engine{p: p, offsets: offsetsFor(p.Kind)}
}

func (e *Engine) Kind() rules.Kind { return rules.KindRuleTable }

func (e *Engine) positionStates(cur *cellgrid.Grid, x, y int) []uint8 {
	ns := make([]uint8, len(e.offsets))
	for i, o := range e.offsets {
		nx, ny := x+o[0], y+o[1]
		if nx < 0 || ny < 0 || nx >= cur.Width || ny >= cur.Height {
			continue
		}
		ns[i] = cur.At(nx, ny)
	}
	return ns
}

func (e *Engine) NextGeneration(cur, next *cellgrid.Grid, tiles, nextTiles *tile.Bitmap, gen uint64) rules.Stats {
	alive := e.p.alive()
	w, h := cur.Width, cur.Height

	var stats rules.Stats
	occCols := tile.NewTouched(w)
	occRows := tile.NewTouched(h)
	aliveCols := tile.NewTouched(w)
	aliveRows := tile.NewTouched(h)

	for _, pos := range tiles.Select() {
		tileOccupied, tileAlive := false, false
		for row := 0; row < tile.Size; row++ {
			y := pos.TY*tile.Size + row
			if y >= h {
				continue
			}
			for col := 0; col < tile.Size; col++ {
				x := pos.TX*tile.Size + col
				if x >= w {
					continue
				}

				old := cur.At(x, y)
				states := e.positionStates(cur, x, y)
				nv := e.p.Table.Eval(states)
				next.Set(x, y, nv)

				if nv >= alive && old < alive {
					stats.Births++
				} else if old >= alive && nv < alive {
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
