// Package raster projects the cell grid through a camera transform and
// a palette onto an RGBA framebuffer (spec §4.10). It covers the four
// paths the source keeps separate for speed — no-clip, clip, and their
// overlay (History) variants — translating each row/column gather into
// a scalar Go loop instead of the source's 8-wide SIMD gather.
package raster

import (
	"image/color"

	"golang.org/x/image/math/f64"

	"github.com/caengine/core/cellgrid"
	"github.com/caengine/core/super"
)

// Palette maps a cell state (0-255) to a packed RGBA colour.
type Palette struct {
	Colours [256]uint32
}

// NewPalette returns a palette with every entry black/transparent.
func NewPalette() *Palette { return &Palette{} }

// Set stores the colour for state, packed as 0xRRGGBBAA.
func (p *Palette) Set(state uint8, r, g, b, a uint8) {
	p.Colours[state] = uint32(r)<<24 | uint32(g)<<16 | uint32(b)<<8 | uint32(a)
}

// Camera holds the screen-to-grid affine transform every render path
// shares: a uniform zoom, an optional Y-axis squash factor (non-square
// cells), and a pixel offset. Transform is kept as a
// golang.org/x/image/math/f64.Aff3 so a future rotated render path has
// somewhere to put the off-diagonal terms without changing this type —
// the no-rotate paths below only ever use its diagonal and translation
// terms, mirroring the fact that only *NoRotate render functions were
// retrieved from the source.
type Camera struct {
	Zoom, YFactor  float64
	OffsetX, OffsetY float64
	Transform      f64.Aff3
}

// NewCamera builds a camera from zoom/yFactor/offset, deriving Transform
// the way renderGridNoClipNoRotate derives its dyx/dyy step sizes.
func NewCamera(zoom, yFactor, offsetX, offsetY float64) *Camera {
	dyx := 1.0 / zoom
	dyy := dyx / yFactor
	return &Camera{
		Zoom: zoom, YFactor: yFactor, OffsetX: offsetX, OffsetY: offsetY,
		Transform: f64.Aff3{dyx, 0, offsetX, 0, dyy, offsetY},
	}
}

func (c *Camera) step() (dyx, dyy float64) { return c.Transform[0], c.Transform[4] }

// RenderNoClip fills dst (a tightly packed width*height*4 RGBA buffer)
// from g sampled through cam and coloured via pal, wrapping any
// off-grid sample to the opposite edge — the torus render counterpart
// of boundedgrid.WrapTorus. Grounded on renderGridNoClipNoRotate's
// per-row sy/per-column sx stepping and mask-based wraparound, with the
// 8-wide SIMD gather collapsed to one pixel at a time.
func RenderNoClip(g *cellgrid.Grid, pal *Palette, cam *Camera, dst []byte, width, height int) {
	dyx, dyy := cam.step()
	sy := -float64(height)/2*dyy + cam.OffsetY
	sx0 := -float64(width)/2*dyx + cam.OffsetX
	wMask := g.Width - 1
	hMask := g.Height - 1

	for h := 0; h < height; h++ {
		gy := int(sy) & hMask
		sx := sx0
		rowOff := h * width * 4
		for w := 0; w < width; w++ {
			gx := int(sx) & wMask
			colour := pal.Colours[g.At(gx, gy)]
			putPixel(dst, rowOff+w*4, colour)
			sx += dyx
		}
		sy += dyy
	}
}

// RenderClip behaves like RenderNoClip but treats any screen pixel that
// maps outside the grid as background rather than wrapping it to the
// opposite edge — the rendering counterpart of boundedgrid.Clip.
// Grounded on renderGridClipNoRotate's three-way pixel classification:
// maxGrid is the full width/height of the padded universe the grid is
// centred inside of (spec §4.10's "ring beyond the torus expansion"); a
// pixel that lands on the grid is palette-coloured, one that lands
// inside maxGrid but outside the grid gets offGrid, and one outside
// maxGrid entirely gets offMaxGrid. The source's offGridValue/
// offMaxGridValue sentinel indices become a three-way switch here
// instead of a vector compare-and-blend.
func RenderClip(g *cellgrid.Grid, pal *Palette, cam *Camera, dst []byte, width, height, maxGrid int, offGrid, offMaxGrid color.RGBA) {
	dyx, dyy := cam.step()
	sy := -float64(height)/2*dyy + cam.OffsetY
	sx0 := -float64(width)/2*dyx + cam.OffsetX

	cx, cy := g.Width/2, g.Height/2
	maxHalf := maxGrid / 2
	offGridColour := packRGBA(offGrid)
	offMaxGridColour := packRGBA(offMaxGrid)

	for h := 0; h < height; h++ {
		gy := int(sy)
		sx := sx0
		rowOff := h * width * 4
		onRow := gy >= 0 && gy < g.Height
		rowInMax := absInt(gy-cy) < maxHalf
		for w := 0; w < width; w++ {
			gx := int(sx)
			var colour uint32
			switch {
			case onRow && gx >= 0 && gx < g.Width:
				colour = pal.Colours[g.At(gx, gy)]
			case rowInMax && absInt(gx-cx) < maxHalf:
				colour = offGridColour
			default:
				colour = offMaxGridColour
			}
			putPixel(dst, rowOff+w*4, colour)
			sx += dyx
		}
		sy += dyy
	}
}

func absInt(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

// packRGBA packs a color.RGBA into this package's 0xRRGGBBAA convention.
func packRGBA(c color.RGBA) uint32 {
	return uint32(c.R)<<24 | uint32(c.G)<<16 | uint32(c.B)<<8 | uint32(c.A)
}

// RenderOverlayNoClip is RenderNoClip plus a secondary History overlay
// grid: a non-zero overlay state at a sampled cell is relabelled via
// super.RelabelOverlay against that cell's liveness before indexing the
// palette, so markers render in their "combined with a live cell" colour
// when appropriate (spec §4.6, §4.10's overlay path).
func RenderOverlayNoClip(g, overlay *cellgrid.Grid, pal *Palette, cam *Camera, aliveStart uint8, dst []byte, width, height int) {
	dyx, dyy := cam.step()
	sy := -float64(height)/2*dyy + cam.OffsetY
	sx0 := -float64(width)/2*dyx + cam.OffsetX
	wMask := g.Width - 1
	hMask := g.Height - 1

	for h := 0; h < height; h++ {
		gy := int(sy) & hMask
		sx := sx0
		rowOff := h * width * 4
		for w := 0; w < width; w++ {
			gx := int(sx) & wMask
			base := g.At(gx, gy)
			marker := overlay.At(gx, gy)
			state := base
			if marker != 0 {
				state = super.RelabelOverlay(marker, base >= aliveStart)
			}
			putPixel(dst, rowOff+w*4, pal.Colours[state])
			sx += dyx
		}
		sy += dyy
	}
}

// RenderOverlayClip is RenderClip plus the same overlay relabelling
// RenderOverlayNoClip applies, and the same three-way off-grid /
// off-max-grid classification.
func RenderOverlayClip(g, overlay *cellgrid.Grid, pal *Palette, cam *Camera, aliveStart uint8, dst []byte, width, height, maxGrid int, offGrid, offMaxGrid color.RGBA) {
	dyx, dyy := cam.step()
	sy := -float64(height)/2*dyy + cam.OffsetY
	sx0 := -float64(width)/2*dyx + cam.OffsetX

	cx, cy := g.Width/2, g.Height/2
	maxHalf := maxGrid / 2
	offGridColour := packRGBA(offGrid)
	offMaxGridColour := packRGBA(offMaxGrid)

	for h := 0; h < height; h++ {
		gy := int(sy)
		sx := sx0
		rowOff := h * width * 4
		onRow := gy >= 0 && gy < g.Height
		rowInMax := absInt(gy-cy) < maxHalf
		for w := 0; w < width; w++ {
			gx := int(sx)
			var colour uint32
			switch {
			case onRow && gx >= 0 && gx < g.Width:
				base := g.At(gx, gy)
				marker := overlay.At(gx, gy)
				state := base
				if marker != 0 {
					state = super.RelabelOverlay(marker, base >= aliveStart)
				}
				colour = pal.Colours[state]
			case rowInMax && absInt(gx-cx) < maxHalf:
				colour = offGridColour
			default:
				colour = offMaxGridColour
			}
			putPixel(dst, rowOff+w*4, colour)
			sx += dyx
		}
		sy += dyy
	}
}

func putPixel(dst []byte, off int, rgba uint32) {
	dst[off] = byte(rgba >> 24)
	dst[off+1] = byte(rgba >> 16)
	dst[off+2] = byte(rgba >> 8)
	dst[off+3] = byte(rgba)
}
