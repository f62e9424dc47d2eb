// Package generations implements the N-state ageing engine: cells leave
// state 0 (dead) by being born into maxGenState (alive), then decay one
// state per generation regardless of neighbourhood until they reach
// state 0 again.
package generations

import (
	"fmt"

	"github.com/caengine/core/cellgrid"
	"github.com/caengine/core/rules"
	"github.com/caengine/core/tile"
)

func init() {
	rules.Register(rules.KindGenerations, func(params any) (rules.Engine, error) {
		p, ok := params.(Params)
		if !ok {
			return nil, fmt.Errorf("generations: New wants generations.Params, got %T", params)
		}
		return New(p), nil
	})
}

// Params describes a Generations rule: birth/survival sets indexed by
// Moore neighbour count of cells currently in state MaxGenState, the
// number of states (state MaxGenState is alive, 1..MaxGenState-1 decay,
// 0 is dead), and the two thresholds spec §4.3 names deadState (at or
// below which a cell is eligible for birth) and minDeadState (above
// which a decaying cell keeps decaying).
type Params struct {
	Birth        [9]bool
	Survive      [9]bool
	MaxGenState  uint8
	DeadState    uint8
	MinDeadState uint8
}

// Engine advances a single Generations rule.
type Engine struct {
	p Params
}

// New returns an Engine for p. DeadState and MinDeadState default to 0
// (the conventional single dead state) when left zero.
func New(p Params) *Engine {
	return &Engine{p: p}
}

func (e *Engine) Kind() rules.Kind { return rules.KindGenerations }

func (e *Engine) mooreAliveCount(cur *cellgrid.Grid, x, y int) int {
	n := 0
	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			if dx == 0 && dy == 0 {
				continue
			}
			nx, ny := x+dx, y+dy
			if nx < 0 || ny < 0 || nx >= cur.Width || ny >= cur.Height {
				continue
			}
			if cur.At(nx, ny) == e.p.MaxGenState {
				n++
			}
		}
	}
	return n
}

// nextState implements the spec §4.3 transition: birth from a dead-range
// state, survival at MaxGenState, otherwise decay by one down to
// MinDeadState, otherwise unchanged.
func (e *Engine) nextState(state uint8, count int) uint8 {
	p := e.p
	switch {
	case state <= p.DeadState && p.Birth[count]:
		return p.MaxGenState
	case state == p.MaxGenState && p.Survive[count]:
		return p.MaxGenState
	case state > p.MinDeadState:
		return state - 1
	default:
		return state
	}
}

// NextGeneration implements rules.Engine. It walks every cell of every
// active tile (a decaying cell must stay in the active set until it
// reaches state 0 even with an unchanged neighbourhood, since decay is
// unconditional), and keeps any tile with a non-zero cell active next
// generation.
func (e *Engine) NextGeneration(cur, next *cellgrid.Grid, tiles, nextTiles *tile.Bitmap, gen uint64) rules.Stats {
	var stats rules.Stats
	occCols := tile.NewTouched(cur.Width)
	occRows := tile.NewTouched(cur.Height)
	aliveCols := tile.NewTouched(cur.Width)
	aliveRows := tile.NewTouched(cur.Height)

	for _, pos := range tiles.Select() {
		tileOccupied, tileAlive := false, false
		for row := 0; row < tile.Size; row++ {
			y := pos.TY*tile.Size + row
			if y >= cur.Height {
				continue
			}
			for col := 0; col < tile.Size; col++ {
				x := pos.TX*tile.Size + col
				if x >= cur.Width {
					continue
				}
				old := cur.At(x, y)
				count := e.mooreAliveCount(cur, x, y)
				nv := e.nextState(old, count)
				next.Set(x, y, nv)

				wasAlive := old == e.p.MaxGenState
				isAlive := nv == e.p.MaxGenState
				if isAlive && !wasAlive {
					stats.Births++
				} else if wasAlive && !isAlive {
					stats.Deaths++
				}
				if isAlive {
					stats.Population++
				}
				if nv != 0 {
					tileOccupied = true
				}
				if isAlive {
					tileAlive = true
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

	stats.Occupied = tile.UpdateBox(occCols, occRows, cur.Width, cur.Height)
	stats.Alive = tile.UpdateBox(aliveCols, aliveRows, cur.Width, cur.Height)
	return stats
}
