package hrot

import (
	"github.com/caengine/core/cellgrid"
	"github.com/caengine/core/simd"
)

// rowUpdateTwoState advances one full 16-cell row — a tile's width,
// which matches simd.Lane16 exactly — under Params' two-state
// transition. This is the spec §4.4 SIMD note's update pass: the only
// per-cell step is gathering each cell's comboList entry (an
// unavoidable table lookup); deriving the birth/survive/ageing masks
// and both candidate next-state vectors, then blending them together
// in the same priority order as nextTwoState's switch, is done with
// plain Lane16 ops.
func rowUpdateTwoState(p Params, oldRow, combos simd.Lane16) (next simd.Lane16, births, deaths int) {
	aliveStart, deadStart := p.aliveStart(), p.DeadStart

	aliveMask := oldRow.GreaterEq(aliveStart)
	notAlive := aliveMask.Not()

	var bornMask, surviveMask simd.Lane16
	for i, c := range combos {
		if births(c) {
			bornMask[i] = 0xFF
		}
		if survives(c) {
			surviveMask[i] = 0xFF
		}
	}

	birthCase := notAlive.And(bornMask)
	deathCase := aliveMask.And(surviveMask.Not())
	ageUpCase := aliveMask.And(surviveMask)

	atMax := oldRow.GreaterEq(cellgrid.AliveMax)
	agedUp := oldRow.Blend(oldRow.SaturatingAdd(1), atMax)

	deadCandidate := deadAgeing(oldRow, deadStart)

	next = simd.Splat(aliveStart).Blend(
		simd.Splat(deadStart).Blend(
			agedUp.Blend(deadCandidate, ageUpCase),
			deathCase,
		),
		birthCase,
	)

	aliveAfter := next.GreaterEq(aliveStart)
	births = simd.PopCount16(aliveAfter.And(notAlive).Bitmask())
	deaths = simd.PopCount16(aliveMask.And(aliveAfter.Not()).Bitmask())
	return next, births, deaths
}

// deadAgeing vectorizes nextTwoState's "remains dead" branch: a dead
// cell steps one state toward deadStart (up or down), saturating at
// cellgrid.DeadMin, and holds once it reaches deadStart.
func deadAgeing(old simd.Lane16, deadStart uint8) simd.Lane16 {
	gtDeadStart := old.GreaterEq(deadStart + 1)
	gtDeadMin := old.GreaterEq(cellgrid.DeadMin + 1)
	decrCond := gtDeadStart.And(gtDeadMin)
	ltDeadStart := old.GreaterEq(deadStart).Not()

	decr := old.SaturatingSub(1)
	incr := old.SaturatingAdd(1)
	rest := incr.Blend(old, ltDeadStart)
	return decr.Blend(rest, decrCond)
}
