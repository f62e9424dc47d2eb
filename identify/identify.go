// Package identify implements the pattern-identification support code:
// per-cell alive-frequency counting (for strict-volatility statistics),
// an occupancy-frame ring used to separate rotor cells from stator cells
// in a suspected oscillator, and the rule-family-specific hash functions
// used to detect repeated generations (spec §4.9).
package identify

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/caengine/core/cellgrid"
	"github.com/caengine/core/tile"
)

const (
	hashSeed   = 31415962
	hashFactor = 1000003
)

// CellCounts accumulates, per cell in a bounding box, the number of
// generations that cell was alive — the basis for strict-volatility
// ("every cell is either always dead, always alive, or changes every
// generation") statistics. Grounded on identify.c's updateCellCounts /
// updateCellCountsSuperOrRuleTree.
type CellCounts struct {
	Box    tile.Box
	Width  int
	Counts []uint32
}

// NewCellCounts allocates a zeroed counter array covering box.
func NewCellCounts(box tile.Box) *CellCounts {
	w := box.Right - box.Left + 1
	h := box.Top - box.Bottom + 1
	return &CellCounts{Box: box, Width: w, Counts: make([]uint32, w*h)}
}

func (c *CellCounts) index(x, y int) int {
	return (y-c.Box.Bottom)*c.Width + (x - c.Box.Left)
}

// UpdateTwoState increments the counter of every cell whose state is
// >= aliveStart, mirroring updateCellCounts's two-state predicate.
func (c *CellCounts) UpdateTwoState(g *cellgrid.Grid, aliveStart uint8) {
	for y := c.Box.Bottom; y <= c.Box.Top; y++ {
		for x := c.Box.Left; x <= c.Box.Right; x++ {
			if g.At(x, y) >= aliveStart {
				c.Counts[c.index(x, y)]++
			}
		}
	}
}

// UpdateBitPlane increments the counter of every cell whose state has
// bit 0 set, mirroring updateCellCountsSuperOrRuleTree's predicate for
// the Super and RuleTree families (where "alive" is the low state bit,
// not a threshold).
func (c *CellCounts) UpdateBitPlane(g *cellgrid.Grid) {
	for y := c.Box.Bottom; y <= c.Box.Top; y++ {
		for x := c.Box.Left; x <= c.Box.Right; x++ {
			if g.At(x, y)&1 != 0 {
				c.Counts[c.index(x, y)]++
			}
		}
	}
}

// OccupancyRing is a ring of bit-packed occupancy snapshots over a
// bounding box, one slot per generation modulo the ring size, used to
// tell a cycling pattern's rotor cells (which change within the cycle)
// from its stator cells (which don't) — grounded on
// updateOccupancyStrict's per-generation bit-packed frame.
type OccupancyRing struct {
	Box        tile.Box
	Width      int // words per row = ceil(box width / 16)
	Rows       int
	Frames     [][]uint16 // Frames[slot] is one full bit-packed frame
}

// NewOccupancyRing allocates a ring of the given size (the suspected
// oscillator's period) covering box.
func NewOccupancyRing(box tile.Box, ringSize int) *OccupancyRing {
	width := (box.Right - box.Left + 1 + 15) / 16
	rows := box.Top - box.Bottom + 1
	frames := make([][]uint16, ringSize)
	for i := range frames {
		frames[i] = make([]uint16, width*rows)
	}
	return &OccupancyRing{Box: box, Width: width, Rows: rows, Frames: frames}
}

// Record packs box's alive/dead state at the given generation into the
// frame slot generation % len(Frames), MSB-leftmost per cell (same
// convention as cellgrid.BitGrid and tile.Bitmap).
func (r *OccupancyRing) Record(g *cellgrid.Grid, generation uint64, aliveStart uint8) {
	frame := r.Frames[int(generation)%len(r.Frames)]
	for i := range frame {
		frame[i] = 0
	}
	for y := r.Box.Bottom; y <= r.Box.Top; y++ {
		row := y - r.Box.Bottom
		for x := r.Box.Left; x <= r.Box.Right; x++ {
			if g.At(x, y) < aliveStart {
				continue
			}
			col := x - r.Box.Left
			frame[row*r.Width+col/16] |= 1 << uint(15-(col%16))
		}
	}
}

// RotorStator computes, across every recorded frame, the cells that are
// alive in every frame or dead in every frame (stator) versus the cells
// that differ between at least two frames (rotor). A cell's bit is set
// in and iff it's alive in every frame, in or iff it's alive in at least
// one; stator is wherever and == or, rotor is the complement.
func (r *OccupancyRing) RotorStator() (rotor, stator []uint16) {
	n := len(r.Frames[0])
	and := make([]uint16, n)
	or := make([]uint16, n)
	for i := range and {
		and[i] = 0xFFFF
	}
	for _, frame := range r.Frames {
		for i, w := range frame {
			and[i] &= w
			or[i] |= w
		}
	}
	rotor = make([]uint16, n)
	stator = make([]uint16, n)
	for i := range and {
		stator[i] = ^(and[i] ^ or[i])
		rotor[i] = and[i] ^ or[i]
	}
	return rotor, stator
}

// hashCells walks box in row-major, bottom-to-top / left-to-right order
// — the same order the source's 16-wide SIMD chunks produce once their
// per-chunk bitmask is unpacked low-bit first — calling emit for every
// cell the predicate selects. HashTwoState uses this walk; the other four
// variants below repeat the same loop inline, differing only in their
// predicate and extra per-cell hash terms.
func hashCells(box tile.Box, predicate func(x, y int) bool, emit func(hash uint32, xshift, yshift uint32) uint32) uint32 {
	hash := uint32(hashSeed)
	for y := box.Bottom; y <= box.Top; y++ {
		yshift := uint32(y - box.Bottom)
		for x := box.Left; x <= box.Right; x++ {
			if !predicate(x, y) {
				continue
			}
			xshift := uint32(x - box.Left)
			hash = emit(hash, xshift, yshift)
		}
	}
	return hash
}

// HashTwoState hashes every cell >= aliveStart. Grounded on
// identify.c's getHashTwoState.
func HashTwoState(g *cellgrid.Grid, box tile.Box, aliveStart uint8) uint32 {
	return hashCells(box,
		func(x, y int) bool { return g.At(x, y) >= aliveStart },
		func(hash uint32, xshift, yshift uint32) uint32 {
			hash = hash*hashFactor ^ yshift
			hash = hash*hashFactor ^ xshift
			return hash
		})
}

// HashSuper hashes cells with the low state bit set, or at state 6,
// adding an extra term for state-6 cells. Grounded on getHashSuper.
func HashSuper(g *cellgrid.Grid, box tile.Box) uint32 {
	hash := uint32(hashSeed)
	for y := box.Bottom; y <= box.Top; y++ {
		yshift := uint32(y - box.Bottom)
		for x := box.Left; x <= box.Right; x++ {
			v := g.At(x, y)
			if v&1 != 1 && v != 6 {
				continue
			}
			xshift := uint32(x - box.Left)
			hash = hash*hashFactor ^ yshift
			hash = hash*hashFactor ^ xshift
			if v == 6 {
				hash = hash*hashFactor ^ 6
			}
		}
	}
	return hash
}

// HashLifeHistory hashes cells alive in base or overlaid with state6 in
// overlay, adding an extra term for the overlay-state6 cells. Grounded
// on getHashLifeHistory.
func HashLifeHistory(base, overlay *cellgrid.Grid, box tile.Box, aliveStart, state6 uint8) uint32 {
	hash := uint32(hashSeed)
	for y := box.Bottom; y <= box.Top; y++ {
		yshift := uint32(y - box.Bottom)
		for x := box.Left; x <= box.Right; x++ {
			alive := base.At(x, y) >= aliveStart
			ov6 := overlay.At(x, y) == state6
			if !alive && !ov6 {
				continue
			}
			xshift := uint32(x - box.Left)
			hash = hash*hashFactor ^ yshift
			hash = hash*hashFactor ^ xshift
			if ov6 {
				hash = hash*hashFactor ^ 6
			}
		}
	}
	return hash
}

// HashRuleLoader hashes cells strictly above historyStates, folding in
// the cell's value offset by historyStates. Grounded on
// getHashRuleLoaderOrPCAOrExtended (shared by RuleLoader, PCA and
// Extended two-state rule families).
func HashRuleLoader(g *cellgrid.Grid, box tile.Box, historyStates uint8) uint32 {
	hash := uint32(hashSeed)
	for y := box.Bottom; y <= box.Top; y++ {
		yshift := uint32(y - box.Bottom)
		for x := box.Left; x <= box.Right; x++ {
			v := g.At(x, y)
			if v <= historyStates {
				continue
			}
			xshift := uint32(x - box.Left)
			hash = hash*hashFactor ^ yshift
			hash = hash*hashFactor ^ xshift
			hash = hash*hashFactor ^ uint32(v-historyStates)
		}
	}
	return hash
}

// HashGenerations hashes cells strictly above historyStates, folding in
// the cell's remaining lifetime (numStates - (value - historyStates))
// rather than its raw value, so ageing cells with the same remaining
// countdown hash identically regardless of which generation they were
// born. Grounded on getHashGenerations.
func HashGenerations(g *cellgrid.Grid, box tile.Box, historyStates uint8, numStates uint32) uint32 {
	hash := uint32(hashSeed)
	for y := box.Bottom; y <= box.Top; y++ {
		yshift := uint32(y - box.Bottom)
		for x := box.Left; x <= box.Right; x++ {
			v := g.At(x, y)
			if v <= historyStates {
				continue
			}
			xshift := uint32(x - box.Left)
			hash = hash*hashFactor ^ yshift
			hash = hash*hashFactor ^ xshift
			hash = hash*hashFactor ^ (numStates - uint32(v-historyStates))
		}
	}
	return hash
}

// Job is one independent hash computation for HashAll.
type Job struct {
	Fn func() uint32
}

// HashAll runs every job concurrently (golang.org/x/sync/errgroup) and
// returns their results in the same order, used when a caller needs
// several disjoint boxes' hashes at once — e.g. confirming a suspected
// period by hashing several candidate generations in parallel instead of
// one after another (spec §3's rationale for this dependency).
func HashAll(ctx context.Context, jobs []Job) ([]uint32, error) {
	out := make([]uint32, len(jobs))
	g, _ := errgroup.WithContext(ctx)
	for i, job := range jobs {
		i, job := i, job
		g.Go(func() error {
			out[i] = job.Fn()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
