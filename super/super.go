// Package super implements the three state-6/label-propagation
// automata spec §4.6 groups together: Super (a 26-state bookkeeping
// rule where state-6 markers force neighbouring transitions and dying
// cells step through a fixed ageing sequence), Investigator (a 21-state
// machine whose states >= 2 use a flat lookup table and whose states 0
// and 1 consult per-neighbour alive/dead forcing masks), and the History
// overlay relabelling rule used purely at render time.
//
// No original_source file for Super or Investigator's full transition
// tables was retrieved (only HROT.c, identify.c and render.c were); the
// verbatim rules spec §4.6 gives (the ageing sequence, the overlay
// relabelling pairs) are hardcoded, and the remainder — which states
// state-6 forces and how, which states propagate a label, Investigator's
// NextTable / forcer masks — are caller-supplied tables the engine
// applies mechanically, the same "caller prepares the table, kernel
// executes it" shape as ruletree/ruletable/ruleloader.
package super

import (
	"fmt"

	"github.com/caengine/core/cellgrid"
	"github.com/caengine/core/rules"
	"github.com/caengine/core/tile"
)

func init() {
	rules.Register(rules.KindSuper, func(params any) (rules.Engine, error) {
		p, ok := params.(Params)
		if !ok {
			return nil, fmt.Errorf("super: New wants super.Params, got %T", params)
		}
		return New(p), nil
	})
	rules.Register(rules.KindInvestigator, func(params any) (rules.Engine, error) {
		p, ok := params.(InvestigatorParams)
		if !ok {
			return nil, fmt.Errorf("super: NewInvestigator wants super.InvestigatorParams, got %T", params)
		}
		return NewInvestigator(p), nil
	})
}

// forcedMarker is the state-6 "past contact" marker spec §4.6 names.
const forcedMarker = 6

// defaultDyingNext is the verbatim ageing sequence from spec §4.6:
// 1->2, 3->4 (or 9), 5->4 (or 9), 7->8, 9->10, 11->12. Any dying state
// not listed here falls back to plain death (state 0) unless the caller
// overrides it in Params.DyingNext.
var defaultDyingNext = map[uint8]uint8{
	1: 2, 3: 4, 5: 4, 7: 8, 9: 10, 11: 12,
}

// Params configures the Super engine. "Alive" for birth/survival
// counting purposes is LSB-live (state&1==1, spec line 160's "Super /
// RuleLoader" convention), not a threshold.
type Params struct {
	Birth, Survive [9]bool

	// DyingNext overrides a dying cell's next state; states absent here
	// fall back to defaultDyingNext, then to plain death.
	DyingNext map[uint8]uint8

	// ForceNine names which ambiguous states (conventionally 3 and 5)
	// route to 9 instead of 4 when forced, per a caller-supplied
	// condition over the cell's neighbourhood (spec: "3->4 (or 9)").
	ForceNine func(cur *cellgrid.Grid, x, y int) bool

	// ForceTable gives the next state a state-6 neighbour imposes on a
	// given current state, overriding the normal birth/survive/decay
	// transition for that cell this generation (spec: "state 6 cells
	// force neighbouring cells through a prescribed transition table").
	ForceTable map[uint8]uint8

	// LabelStates are the states that, once reached, persist unchanged
	// while the cell stays alive — "specific states propagate labels
	// along live trails" (spec §4.6's example list is 14,16,18,20,22,24).
	LabelStates []uint8
}

// SuperEngine advances a single Super rule.
type SuperEngine struct {
	p          Params
	labelState map[uint8]bool
}

func New(p Params) *SuperEngine {
	labels := make(map[uint8]bool, len(p.LabelStates))
	for _, s := range p.LabelStates {
		labels[s] = true
	}
	return &SuperEngine{p: p, labelState: labels}
}

func (e *SuperEngine) Kind() rules.Kind { return rules.KindSuper }

func alive(state uint8) bool { return state&1 == 1 }

func (e *SuperEngine) mooreCount(cur *cellgrid.Grid, x, y int) (aliveCount int, touchesSix bool) {
	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			if dx == 0 && dy == 0 {
				continue
			}
			nx, ny := x+dx, y+dy
			if nx < 0 || ny < 0 || nx >= cur.Width || ny >= cur.Height {
				continue
			}
			v := cur.At(nx, ny)
			if alive(v) {
				aliveCount++
			}
			if v == forcedMarker {
				touchesSix = true
			}
		}
	}
	return
}

func (e *SuperEngine) dyingNext(old uint8, cur *cellgrid.Grid, x, y int) uint8 {
	if next, ok := e.p.DyingNext[old]; ok {
		return next
	}
	next, ok := defaultDyingNext[old]
	if !ok {
		return 0
	}
	if (old == 3 || old == 5) && e.p.ForceNine != nil && e.p.ForceNine(cur, x, y) {
		return 9
	}
	return next
}

func (e *SuperEngine) nextState(cur *cellgrid.Grid, x, y int, old uint8, count int, touchesSix bool) uint8 {
	if touchesSix && e.p.ForceTable != nil {
		if forced, ok := e.p.ForceTable[old]; ok {
			return forced
		}
	}
	if e.labelState[old] && alive(old) {
		return old
	}
	switch {
	case !alive(old) && e.p.Birth[count]:
		return 1
	case alive(old) && e.p.Survive[count]:
		return old
	case alive(old):
		return e.dyingNext(old, cur, x, y)
	default:
		return old
	}
}

// NextGeneration implements rules.Engine with the same tile-walk shape
// every other rule family in this module uses.
func (e *SuperEngine) NextGeneration(cur, next *cellgrid.Grid, tiles, nextTiles *tile.Bitmap, gen uint64) rules.Stats {
	w, h := cur.Width, cur.Height
	var stats rules.Stats
	occCols, occRows := tile.NewTouched(w), tile.NewTouched(h)
	aliveCols, aliveRows := tile.NewTouched(w), tile.NewTouched(h)

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
				count, touchesSix := e.mooreCount(cur, x, y)
				nv := e.nextState(cur, x, y, old, count, touchesSix)
				next.Set(x, y, nv)

				wasAlive, isAlive := alive(old), alive(nv)
				if isAlive && !wasAlive {
					stats.Births++
				} else if wasAlive && !isAlive {
					stats.Deaths++
				}
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

// Neighbourhood selects Investigator's neighbour set.
type Neighbourhood int

const (
	Moore Neighbourhood = iota
	Hex
	VonNeumann
)

var (
	mooreOffsets = [8][2]int{{-1, -1}, {0, -1}, {1, -1}, {-1, 0}, {1, 0}, {-1, 1}, {0, 1}, {1, 1}}
	hexOffsets   = [6][2]int{{-1, 0}, {1, 0}, {0, -1}, {0, 1}, {-1, 1}, {1, -1}}
	vnOffsets    = [4][2]int{{0, -1}, {0, 1}, {-1, 0}, {1, 0}}
)

func offsetsFor(k Neighbourhood) [][2]int {
	switch k {
	case Hex:
		return hexOffsets[:]
	case VonNeumann:
		return vnOffsets[:]
	default:
		return mooreOffsets[:]
	}
}

// InvestigatorParams configures the Investigator engine (spec §4.6).
// States >= 2 transition unconditionally via NextTable. States 0 and 1
// classify each neighbour as "treat as alive" via TreatAsAlive, pack the
// classification into a bitmask in neighbour order, and look that
// pattern up in DeadForcer/BirthForcer to decide the outcome.
type InvestigatorParams struct {
	Kind         Neighbourhood
	NextTable    [21]uint8
	TreatAsAlive [21]bool
	DeadForcer   map[uint32]bool
	BirthForcer  map[uint32]bool
}

// InvestigatorEngine advances a single Investigator rule.
type InvestigatorEngine struct {
	p       InvestigatorParams
	offsets [][2]int
}

func NewInvestigator(p InvestigatorParams) *InvestigatorEngine {
	return &InvestigatorEngine{p: p, offsets: offsetsFor(p.Kind)}
}

func (e *InvestigatorEngine) Kind() rules.Kind { return rules.KindInvestigator }

func (e *InvestigatorEngine) pattern(cur *cellgrid.Grid, x, y int) uint32 {
	var pat uint32
	for _, off := range e.offsets {
		nx, ny := x+off[0], y+off[1]
		var state uint8
		if nx >= 0 && ny >= 0 && nx < cur.Width && ny < cur.Height {
			state = cur.At(nx, ny)
		}
		pat <<= 1
		if int(state) < len(e.p.TreatAsAlive) && e.p.TreatAsAlive[state] {
			pat |= 1
		}
	}
	return pat
}

func (e *InvestigatorEngine) nextState(cur *cellgrid.Grid, x, y int, old uint8) uint8 {
	if old >= 2 {
		return e.p.NextTable[old]
	}
	pat := e.pattern(cur, x, y)
	if old == 1 {
		if e.p.DeadForcer[pat] {
			return 0
		}
		return 1
	}
	if e.p.BirthForcer[pat] {
		return 1
	}
	return 0
}

func (e *InvestigatorEngine) NextGeneration(cur, next *cellgrid.Grid, tiles, nextTiles *tile.Bitmap, gen uint64) rules.Stats {
	w, h := cur.Width, cur.Height
	var stats rules.Stats
	occCols, occRows := tile.NewTouched(w), tile.NewTouched(h)
	aliveCols, aliveRows := tile.NewTouched(w), tile.NewTouched(h)

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
				nv := e.nextState(cur, x, y, old)
				next.Set(x, y, nv)

				wasAlive, isAlive := old >= 1, nv >= 1
				if isAlive && !wasAlive {
					stats.Births++
				} else if wasAlive && !isAlive {
					stats.Deaths++
				}
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

// RelabelOverlay implements the History overlay's display-time
// relabelling: a marker combined with a live underlying cell is
// re-labelled so the rasteriser can show it in a distinct colour from a
// bare marker (spec §4.6: "marker 4 or 6 + live -> 3; marker 3 or 5 +
// live -> 4"). A marker over a dead cell, or any other marker value,
// passes through unchanged.
func RelabelOverlay(marker uint8, live bool) uint8 {
	if !live {
		return marker
	}
	switch marker {
	case 4, 6:
		return 3
	case 3, 5:
		return 4
	default:
		return marker
	}
}

// History is the monotonic "every tile this pattern has ever touched"
// bitmap rendering reads to decide which tiles to fade (spec data-model
// table: "Monotonic OR of every tile bitmap ever produced since the
// pattern was loaded").
type History struct {
	bitmap *tile.Bitmap
}

// NewHistory allocates an empty history bitmap the same size as a grid's
// tile bitmap.
func NewHistory(cellWidth, cellHeight int) *History {
	return &History{bitmap: tile.NewBitmap(cellWidth, cellHeight)}
}

// Accumulate folds this generation's active tiles into the running
// history.
func (h *History) Accumulate(active *tile.Bitmap) {
	h.bitmap.Or(active)
}

// Touched reports whether tile (tx, ty) has ever been active.
func (h *History) Touched(tx, ty int) bool {
	return h.bitmap.Get(tx, ty)
}
