// Package hrot implements the Higher-Range Outer Totalistic family: for
// every cell, sum the (possibly weighted) neighbour states under a named
// neighbourhood shape, and look the sum up in a comboList whose low two
// bits encode survival and birth (spec §4.4).
//
// Rather than one hand-specialized kernel per named shape (the source's
// nextGenerationHROT{Moore,VN,Hexagonal,Cross,...}), this package
// follows the spec's own redesign guidance: Moore keeps its dedicated
// summed-area-table fast path (Engine implementation Moore), von Neumann
// has its own engine (VonNeumann) that sums each cell's diamond directly
// with no prefix table, and every other named shape (Hexagonal, Cross,
// Saltire, Star, Hash, Asterisk, Tripod, CornerEdge, Triangular,
// Checkerboard, AlignedCheckerboard, Gaussian, Weighted, WeightedStates,
// Custom) is one direct-sum evaluator (Shaped) parameterized by a
// neighbour-offset generator.
package hrot

import "github.com/caengine/core/cellgrid"

// Params is shared by every HROT engine: the birth/survival combo table
// and, for N-state (Generations-style) rules, the ageing thresholds.
// MaxGenState == 0 selects the two-state variant (ageing toward
// cellgrid.AliveMax / cellgrid.DeadMin).
type Params struct {
	// ComboList[count] bit 1 (0x2) means "birth on this count", bit 0
	// (0x1) means "survive on this count" (spec §4.4).
	ComboList []byte

	AliveStart uint8 // defaults to cellgrid.AliveStart when zero
	DeadStart  uint8 // defaults to cellgrid.DeadForever

	MaxGenState  uint8
	DeadState    uint8
	MinDeadState uint8
}

func (p Params) aliveStart() uint8 {
	if p.AliveStart == 0 {
		return cellgrid.AliveStart
	}
	return p.AliveStart
}

func combo(list []byte, count int) byte {
	if count < 0 || count >= len(list) {
		return 0
	}
	return list[count]
}

func births(b byte) bool   { return b&2 != 0 }
func survives(b byte) bool { return b&1 != 0 }

// nextTwoState applies the spec §4.4 "common state-update rule" for the
// two-state variant, returning the new cell state and whether it counts
// as a birth/death for the Stats the caller accumulates.
func nextTwoState(p Params, state uint8, count int) (next uint8, born, died bool) {
	c := combo(p.ComboList, count)
	alive := state >= p.aliveStart()
	deadStart := p.DeadStart

	switch {
	case !alive && births(c):
		return p.aliveStart(), true, false
	case alive && !survives(c):
		return deadStart, false, true
	case alive:
		if state < cellgrid.AliveMax {
			return state + 1, false, false
		}
		return state, false, false
	default:
		if state > deadStart && state > cellgrid.DeadMin {
			return state - 1, false, false
		}
		if state < deadStart {
			return state + 1, false, false
		}
		return state, false, false
	}
}

// nextNState applies the spec §4.4 N-state variant: birth/survival move
// to MaxGenState, everything else decays by one toward MinDeadState.
func nextNState(p Params, state uint8, count int) (next uint8, born, died bool) {
	c := combo(p.ComboList, count)
	switch {
	case state <= p.DeadState && births(c):
		return p.MaxGenState, true, false
	case state == p.MaxGenState && survives(c):
		return p.MaxGenState, false, false
	case state == p.MaxGenState:
		return state - 1, false, true
	case state > p.MinDeadState:
		return state - 1, false, false
	default:
		return state, false, false
	}
}

func (p Params) next(state uint8, count int) (uint8, bool, bool) {
	if p.MaxGenState != 0 {
		return nextNState(p, state, count)
	}
	return nextTwoState(p, state, count)
}
