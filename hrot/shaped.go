package hrot

import (
	"fmt"

	"github.com/caengine/core/cellgrid"
	"github.com/caengine/core/rules"
	"github.com/caengine/core/simd"
	"github.com/caengine/core/tile"
)

func init() {
	rules.Register(rules.KindHROTShaped, func(params any) (rules.Engine, error) {
		p, ok := params.(ShapedParams)
		if !ok {
			return nil, fmt.Errorf("hrot: New wants hrot.ShapedParams, got %T", params)
		}
		return NewShaped(p), nil
	})
}

// ShapeKind names one of the non-Moore, non-von-Neumann neighbourhood
// shapes spec §4.4 lists.
type ShapeKind int

const (
	ShapeHexagonal ShapeKind = iota
	ShapeCross
	ShapeSaltire
	ShapeStar
	ShapeHash
	ShapeAsterisk
	ShapeTripod
	ShapeCornerEdge
	ShapeTriangular
	ShapeCheckerboard
	ShapeAlignedCheckerboard
	ShapeGaussian
	ShapeCustom
)

// Offset is one neighbour cell relative to the centre, with its weight
// (1 for plain outer-totalistic shapes, arbitrary for Weighted/Gaussian).
type Offset struct {
	DX, DY int
	Weight int
}

// ShapedParams configures the Shaped engine: either a named Kind with a
// range (Offsets is built for you), or an explicit Offsets list for
// Weighted/WeightedStates/Custom rules.
type ShapedParams struct {
	Params
	Kind ShapeKind

	// Range is used by every named Kind except ShapeCustom.
	Range int
	// CornerRange/EdgeRange are extra parameters ShapeCornerEdge needs
	// (spec §4.4's "Corner/Edge" shape).
	CornerRange, EdgeRange int

	// Offsets, when non-nil, is used verbatim instead of generating one
	// from Kind/Range — this is how Weighted (arbitrary int8 kernel),
	// Custom (sparse neighbour list), and WeightedStates (kernel x
	// per-state weight, see WeightedStates below) are expressed.
	Offsets []Offset

	// WeightedStates, when true, multiplies each neighbour's weight by
	// its own cell state (not just its alive/dead indicator) — spec
	// §4.4 "Weighted × per-state weights".
	WeightedStates bool
}

// Shaped evaluates a fixed neighbour-offset list directly (no
// summed-area table): for every cell it walks Offsets and accumulates a
// weighted sum, the same comboList lookup as Moore/VonNeumann.
type Shaped struct {
	p       ShapedParams
	offsets []Offset
}

func NewShaped(p ShapedParams) *Shaped {
	offs := p.Offsets
	if offs == nil {
		offs = ShapeOffsets(p.Kind, p.Range, p.CornerRange, p.EdgeRange)
	}
	return &Shaped{p: p, offsets: offs}
}

func (s *Shaped) Kind() rules.Kind { return rules.KindHROTShaped }

func (s *Shaped) weightedCount(cur *cellgrid.Grid, x, y int) int {
	alive := s.p.aliveStart()
	// Triangular neighbourhoods invert their row-index list when the
	// cell's parity flips, turning the kernel upside-down (spec §4.4).
	flip := s.p.Kind == ShapeTriangular && (x+y)&1 == 1
	sum := 0
	for _, off := range s.offsets {
		dy := off.DY
		if flip {
			dy = -dy
		}
		nx, ny := x+off.DX, y+dy
		if nx < 0 || ny < 0 || nx >= cur.Width || ny >= cur.Height {
			continue
		}
		state := cur.At(nx, ny)
		switch {
		case s.p.WeightedStates:
			sum += off.Weight * int(state)
		case state >= alive:
			sum += off.Weight
		}
	}
	// Negative weighted sums (e.g. an unbalanced custom kernel) have no
	// natural comboList index; clamp to zero rather than index
	// negatively (open question resolved in DESIGN.md).
	if sum < 0 {
		sum = 0
	}
	return sum
}

func (s *Shaped) NextGeneration(cur, next *cellgrid.Grid, tiles, nextTiles *tile.Bitmap, gen uint64) rules.Stats {
	w, h := cur.Width, cur.Height
	alive := s.p.aliveStart()

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

			if s.p.MaxGenState == 0 && rowIsFull {
				left := pos.TX * tile.Size
				var oldRow, combos simd.Lane16
				for col := 0; col < tile.Size; col++ {
					x := left + col
					oldRow[col] = cur.At(x, y)
					combos[col] = combo(s.p.ComboList, s.weightedCount(cur, x, y))
				}

				nextRow, born, died := rowUpdateTwoState(s.p.Params, oldRow, combos)
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

				count := s.weightedCount(cur, x, y)
				old := cur.At(x, y)
				nv, born, died := s.p.next(old, count)
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

// ShapeOffsets builds the neighbour-offset list for a named shape and
// range. Hexagonal, Tripod and Asterisk follow the geometric predicates
// of the retrieved nextGenerationHexagonal2/Tripod2/Asterisk2 kernels
// directly; the remaining shapes are expressed the same way the source
// groups them (axis-aligned arms, diagonal arms, or their union).
func ShapeOffsets(kind ShapeKind, r, cornerRange, edgeRange int) []Offset {
	var offs []Offset
	add := func(dx, dy int) { offs = append(offs, Offset{DX: dx, DY: dy, Weight: 1}) }

	switch kind {
	case ShapeHexagonal:
		for j := -r; j < 0; j++ {
			for i := -r; i <= r+j; i++ {
				add(i, j)
			}
		}
		for j := 0; j <= r; j++ {
			for i := -r + j; i <= r; i++ {
				if i == 0 && j == 0 {
					continue
				}
				add(i, j)
			}
		}

	case ShapeTripod:
		for j := -r; j < 0; j++ {
			add(0, j)
		}
		for i := -r; i <= 0; i++ {
			if i == 0 {
				continue
			}
			add(i, 0)
		}
		for j := 1; j <= r; j++ {
			add(j, j)
		}

	case ShapeAsterisk:
		for j := -r; j < 0; j++ {
			add(0, j)
			add(j, j)
		}
		for i := -r; i <= r; i++ {
			if i == 0 {
				continue
			}
			add(i, 0)
		}
		for j := 1; j <= r; j++ {
			add(0, j)
			add(j, j)
		}

	case ShapeCornerEdge:
		if cornerRange <= 0 {
			cornerRange = r
		}
		if edgeRange <= 0 {
			edgeRange = r
		}
		add(-cornerRange, -cornerRange)
		add(cornerRange, -cornerRange)
		add(-cornerRange, cornerRange)
		add(cornerRange, cornerRange)
		add(0, -edgeRange)
		add(0, edgeRange)
		add(-edgeRange, 0)
		add(edgeRange, 0)

	case ShapeCross:
		for i := -r; i <= r; i++ {
			if i != 0 {
				add(i, 0)
			}
		}
		for j := -r; j <= r; j++ {
			if j != 0 {
				add(0, j)
			}
		}

	case ShapeSaltire:
		for i := 1; i <= r; i++ {
			add(i, i)
			add(-i, i)
			add(i, -i)
			add(-i, -i)
		}

	case ShapeStar:
		offs = append(offs, ShapeOffsets(ShapeCross, r, 0, 0)...)
		offs = append(offs, ShapeOffsets(ShapeSaltire, r, 0, 0)...)

	case ShapeHash:
		for i := -r; i <= r; i++ {
			if i != 0 {
				add(i, -1)
				add(i, 1)
			}
		}
		for j := -r; j <= r; j++ {
			if j != 0 {
				add(-1, j)
				add(1, j)
			}
		}

	case ShapeTriangular:
		for dy := -r; dy <= r; dy++ {
			for dx := -r; dx <= r; dx++ {
				if dx == 0 && dy == 0 {
					continue
				}
				if dx+dy <= r && dx+dy >= -r {
					add(dx, dy)
				}
			}
		}

	case ShapeCheckerboard:
		for dy := -r; dy <= r; dy++ {
			for dx := -r; dx <= r; dx++ {
				if dx == 0 && dy == 0 {
					continue
				}
				if (dx+dy)&1 == 0 {
					add(dx, dy)
				}
			}
		}

	case ShapeAlignedCheckerboard:
		for dy := -r; dy <= r; dy++ {
			for dx := -r; dx <= r; dx++ {
				if dx == 0 && dy == 0 {
					continue
				}
				if dx&1 == 0 && dy&1 == 0 {
					add(dx, dy)
				}
			}
		}

	case ShapeGaussian:
		for dy := -r; dy <= r; dy++ {
			for dx := -r; dx <= r; dx++ {
				if dx == 0 && dy == 0 {
					continue
				}
				w := (r + 1 - absInt(dx)) * (r + 1 - absInt(dy))
				offs = append(offs, Offset{DX: dx, DY: dy, Weight: w})
			}
		}
	}

	return offs
}

func absInt(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
