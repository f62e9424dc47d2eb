// Package boundedgrid implements the two bounded-grid edge policies spec
// §4.7 describes: torus wrap (the padding strip mirrors the opposite
// edge of the active rectangle) and clip (the padding strip reads as
// background). Either runs immediately before the rule engine that
// expects a padded neighbourhood, so that engine's inner loop can load
// r cells beyond the logical edge unconditionally.
package boundedgrid

import "github.com/caengine/core/cellgrid"

// WrapTorus copies the edges of the active rectangle box into the
// padding strips rx+1 columns / ry rows wide, including the four corner
// blocks, so neighbour reads up to (rx, ry) cells beyond box wrap to the
// opposite edge. Translated directly from HROT.c's wrapTorusHROT (the
// same six copy passes: bottom->top, top->bottom, left<->right,
// bottom-left<->top-right, top-left<->bottom-right) onto
// cellgrid.Grid.At/Set instead of raw row pointers.
func WrapTorus(g *cellgrid.Grid, box cellgrid.Rect, rx, ry int) {
	lx, by, rx1, ty := box.Left, box.Bottom, box.Right, box.Top
	extended := rx + 1

	// bottom rows -> top padding
	for y := 0; y < ry; y++ {
		for x := lx; x <= rx1; x++ {
			g.Set(x, ty+y+1, g.At(x, by+y))
		}
	}
	// top rows -> bottom padding
	for y := 0; y < ry; y++ {
		for x := lx; x <= rx1; x++ {
			g.Set(x, by-y-1, g.At(x, ty-y))
		}
	}
	// left columns -> right padding, right columns -> left padding
	for y := by; y <= ty; y++ {
		for i := 0; i < extended; i++ {
			g.Set(rx1+1+i, y, g.At(lx+i, y))
			g.Set(lx-rx-1+i, y, g.At(rx1-rx+i, y))
		}
	}
	// bottom-left -> top-right, bottom-right -> top-left
	for y := 0; y < ry; y++ {
		for i := 0; i < extended; i++ {
			g.Set(rx1+1+i, ty+y+1, g.At(lx+i, by+y))
			g.Set(lx-rx-1+i, ty+y+1, g.At(rx1-rx+i, by+y))
		}
	}
	// top-left -> bottom-right, top-right -> bottom-left
	for y := 0; y < ry; y++ {
		for i := 0; i < extended; i++ {
			g.Set(rx1+1+i, by-y-1, g.At(lx+i, ty-y))
			g.Set(lx-rx-1+i, by-y-1, g.At(rx1-rx+i, ty-y))
		}
	}
}

// Clip zeroes every cell in the padding strips rx+1 columns / ry rows wide
// around box, including the corner blocks, so an unshaped-neighbourhood
// kernel can treat "just off the active rectangle" as background without
// special-casing it in the inner loop. Translated from HROT.c's
// clearHROTOutside, expressed with cellgrid.Grid.ZeroRect instead of the
// four hand-walked pointer loops the source uses for top/bottom/left/
// right (each source loop pair collapses to one ZeroRect call once the
// rectangle is extended by the corner amount on both ends).
func Clip(g *cellgrid.Grid, box cellgrid.Rect, rx, ry int) {
	lx, by, rx1, ty := box.Left, box.Bottom, box.Right, box.Top

	g.ZeroRect(cellgrid.Rect{Left: lx - rx - 1, Right: rx1 + rx + 1, Bottom: ty + 1, Top: ty + ry})
	g.ZeroRect(cellgrid.Rect{Left: lx - rx - 1, Right: rx1 + rx + 1, Bottom: by - ry, Top: by - 1})
	g.ZeroRect(cellgrid.Rect{Left: lx - rx - 1, Right: lx - 1, Bottom: by, Top: ty})
	g.ZeroRect(cellgrid.Rect{Left: rx1 + 1, Right: rx1 + rx + 1, Bottom: by, Top: ty})
}
