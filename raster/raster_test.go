package raster

import (
	"image/color"
	"testing"

	"github.com/caengine/core/cellgrid"
)

func solidPalette() *Palette {
	p := NewPalette()
	p.Set(0, 0, 0, 0, 255)
	p.Set(1, 255, 0, 0, 255)
	return p
}

func TestRenderNoClipSamplesCentreCell(t *testing.T) {
	g := cellgrid.New(32, 32)
	g.Set(16, 16, 1)
	pal := solidPalette()
	cam := NewCamera(1, 1, 16, 16)

	width, height := 32, 32
	dst := make([]byte, width*height*4)
	RenderNoClip(g, pal, cam, dst, width, height)

	off := (height/2)*width*4 + (width/2)*4
	if dst[off] != 255 {
		t.Errorf("centre pixel red channel = %d, want 255", dst[off])
	}
}

func TestRenderNoClipWrapsAtEdge(t *testing.T) {
	g := cellgrid.New(32, 32)
	g.Set(0, 0, 1)
	pal := solidPalette()
	cam := NewCamera(1, 1, -16, -16)

	width, height := 32, 32
	dst := make([]byte, width*height*4)
	RenderNoClip(g, pal, cam, dst, width, height)

	off := 0
	if dst[off] != 255 {
		t.Errorf("wrapped pixel red channel = %d, want 255 (grid wraps at edge)", dst[off])
	}
}

func TestRenderClipBackgroundOffMaxGrid(t *testing.T) {
	g := cellgrid.New(32, 32)
	pal := solidPalette()
	cam := NewCamera(1, 1, 1000, 1000) // far beyond any reasonable max grid

	width, height := 8, 8
	dst := make([]byte, width*height*4)
	offGrid := color.RGBA{G: 255, A: 255}
	offMaxGrid := color.RGBA{B: 255, A: 255}
	RenderClip(g, pal, cam, dst, width, height, 256, offGrid, offMaxGrid)

	if dst[2] != 255 { // blue channel of off-max-grid colour
		t.Errorf("far off-grid pixel blue = %d, want 255 (off-max-grid)", dst[2])
	}
}

// TestRenderClipThreeWayClassification is the mandatory S6 scenario (spec
// §8): a 32x32 grid padded to a 256x256 max grid, rendered at zoom 1 to a
// 320x240 framebuffer centred on the grid's own centre. The ring
// |x-16|∈[16,128) must be the off-grid colour, and |x-16|>=128 the
// off-max-grid colour.
func TestRenderClipThreeWayClassification(t *testing.T) {
	g := cellgrid.New(32, 32)
	g.Set(16, 16, 1)
	pal := solidPalette()
	cam := NewCamera(1, 1, 16, 16) // grid centre (16,16) at screen centre

	width, height := 320, 240
	dst := make([]byte, width*height*4)
	offGrid := color.RGBA{G: 255, A: 255}
	offMaxGrid := color.RGBA{B: 255, A: 255}
	RenderClip(g, pal, cam, dst, width, height, 256, offGrid, offMaxGrid)

	pixelAt := func(px, py int) []byte {
		off := py*width*4 + px*4
		return dst[off : off+4]
	}

	cxPx, cyPx := width/2, height/2

	onGrid := pixelAt(cxPx+15, cyPx) // grid half-width 16, centre cell alive
	if onGrid[0] != 0 || onGrid[3] != 255 {
		t.Errorf("on-grid pixel = %v, want background palette colour", onGrid)
	}

	ringPixel := pixelAt(cxPx+64, cyPx) // |x-16| == 64, inside [16,128)
	if ringPixel[1] != 255 {
		t.Errorf("off-grid ring pixel green = %d, want 255 (off-grid)", ringPixel[1])
	}

	farPixel := pixelAt(cxPx+150, cyPx) // |x-16| == 150, past maxGrid/2=128
	if farPixel[2] != 255 {
		t.Errorf("off-max-grid pixel blue = %d, want 255 (off-max-grid)", farPixel[2])
	}
}
