// Package ruletree implements the decision-tree transition function
// (spec §4.5): a tree flattened into two arrays, `A` (offsets) and `B`
// (output states), walked once per neighbour and finally indexed by the
// centre cell's own state.
package ruletree

import (
	"fmt"

	"github.com/caengine/core/cellgrid"
	"github.com/caengine/core/rules"
	"github.com/caengine/core/tile"
)

func init() {
	rules.Register(rules.KindRuleTree, func(params any) (rules.Engine, error) {
		p, ok := params.(Params)
		if !ok {
			return nil, fmt.Errorf("ruletree: New wants ruletree.Params, got %T", params)
		}
		return New(p), nil
	})
}

// Neighbourhood selects the compass order Eval walks the tree in.
type Neighbourhood int

const (
	// Moore walks N, NE, E, SE, S, SW, W, NW.
	Moore Neighbourhood = iota
	// VonNeumann walks N, E, S, W.
	VonNeumann
)

var mooreOffsets = [8][2]int{{0, 1}, {1, 1}, {1, 0}, {1, -1}, {0, -1}, {-1, -1}, {-1, 0}, {-1, 1}}
var vnOffsets = [4][2]int{{0, 1}, {1, 0}, {0, -1}, {-1, 0}}

func offsetsFor(n Neighbourhood) [][2]int {
	if n == VonNeumann {
		return vnOffsets[:]
	}
	return mooreOffsets[:]
}

// Tree is the flattened decision tree: next state =
// B[A[A[...A[Base + n1] + n2]...] + centre] (spec §4.5).
type Tree struct {
	A    []uint32
	B    []uint8
	Base uint32
}

// Eval walks neighbours in the order offsetsFor(kind) expects, then
// indexes the final offset by centre.
func (t Tree) Eval(kind Neighbourhood, neighbours []uint8, centre uint8) uint8 {
	idx := t.Base
	for _, n := range neighbours {
		idx = t.A[idx+uint32(n)]
	}
	return t.B[idx+uint32(centre)]
}

// Params configures an Engine.
type Params struct {
	Tree  Tree
	Kind  Neighbourhood
	Alive uint8 // threshold for stats bookkeeping; 0 defaults to cellgrid.AliveStart
}

func (p Params) alive() uint8 {
	if p.Alive == 0 {
		return cellgrid.AliveStart
	}
	return p.Alive
}

// Engine advances a single RuleTree.
type Engine struct {
	p       Params
	offsets [][2]int
}

func New(p Params) *Engine {
	return &Engine{p: p, offsets: offsetsFor(p.Kind)}
}

func (e *Engine) Kind() rules.Kind { return rules.KindRuleTree }

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
				nv := e.p.Tree.Eval(e.p.Kind, ns, old)
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
