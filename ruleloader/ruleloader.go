// Package ruleloader implements the bit-packed lookup-table transition
// function (spec §4.5): centre state and neighbour states are packed k
// bits each (k in 1..5) into a flat index, which is looked up directly
// in a precomputed byte array to yield the next state.
package ruleloader

import (
	"fmt"

	"github.com/caengine/core/cellgrid"
	"github.com/caengine/core/rules"
	"github.com/caengine/core/tile"
)

func init() {
	rules.Register(rules.KindRuleLoader, func(params any) (rules.Engine, error) {
		p, ok := params.(Params)
		if !ok {
			return nil, fmt.Errorf("ruleloader: New wants ruleloader.Params, got %T", params)
		}
		return New(p), nil
	})
}

// Neighbourhood selects the offsets packed alongside the centre state.
type Neighbourhood int

const (
	Moore Neighbourhood = iota
	VonNeumann
	Hex
)

var mooreOffsets = [8][2]int{{0, 1}, {1, 1}, {1, 0}, {1, -1}, {0, -1}, {-1, -1}, {-1, 0}, {-1, 1}}
var vnOffsets = [4][2]int{{0, 1}, {1, 0}, {0, -1}, {-1, 0}}
var hexOffsets = [6][2]int{{1, 0}, {0, 1}, {-1, 1}, {-1, 0}, {0, -1}, {1, -1}}

func offsetsFor(n Neighbourhood) [][2]int {
	switch n {
	case VonNeumann:
		return vnOffsets[:]
	case Hex:
		return hexOffsets[:]
	default:
		return mooreOffsets[:]
	}
}

// PackIndex packs centre, then each of neighbours in order, k bits each,
// centre occupying the low k bits (spec §4.5's k=1 formula `s | (c<<1) |
// (n<<2) | ...`, generalized to k bits per field for k in 1..5).
func PackIndex(k int, centre uint8, neighbours []uint8) uint64 {
	idx := uint64(centre)
	shift := uint(k)
	for _, n := range neighbours {
		idx |= uint64(n) << shift
		shift += uint(k)
	}
	return idx
}

// Params configures an Engine: K is the per-cell bit width (1..5), Kind
// the neighbourhood the index is packed from, and Table the flat
// lookup array indexed by PackIndex's result.
type Params struct {
	K     int
	Kind  Neighbourhood
	Table []uint8
	Alive uint8 // 0 defaults to cellgrid.AliveStart
}

func (p Params) alive() uint8 {
	if p.Alive == 0 {
		return cellgrid.AliveStart
	}
	return p.Alive
}

// Engine advances a single RuleLoader lookup table.
type Engine struct {
	p       Params
	offsets [][2]int
}

func New(p Params) *Engine {
	return &Engine{p: p, offsets: offsetsFor(p.Kind)}
}

func (e *Engine) Kind() rules.Kind { return rules.KindRuleLoader }

func (e *Engine) neighbourStates(cur *cellgrid.Grid, x, y int) []uint8 {
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
				ns := e.neighbourStates(cur, x, y)
				idx := PackIndex(e.p.K, old, ns)
				nv := e.p.Table[idx]
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
