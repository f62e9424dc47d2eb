// Command caview is a thin ebiten host for the simulation engine: it
// seeds a pattern, steps the engine once per frame, and rasterises the
// current generation to the screen. Structurally grounded on the
// teacher's gintendo.go (flag-parsed input, ebiten.RunGame; the engine
// is stepped in Update rather than by a background goroutine) with the
// pixel-buffer Draw path taken from
// go-llca's Game.Draw (WritePixels into a persistent *ebiten.Image
// instead of the teacher's per-pixel screen.Set).
package main

import (
	"flag"
	"log"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/caengine/core/engine"
	"github.com/caengine/core/lifelike"
	"github.com/caengine/core/raster"
)

var (
	gridSize   = flag.Int("grid_size", 256, "Width and height of the cell grid (must be a power of two).")
	zoom       = flag.Int("zoom", 2, "Screen pixels per cell at 1:1 zoom.")
	ruleBirth  = flag.String("birth", "3", "Comma-separated birth neighbour counts (Life-like).")
	ruleSurvive = flag.String("survive", "23", "Comma-separated survival neighbour counts (Life-like).")
)

func parseCounts(s string) [9]bool {
	var set [9]bool
	for _, c := range s {
		if c < '0' || c > '8' {
			continue
		}
		set[c-'0'] = true
	}
	return set
}

type Game struct {
	eng   *engine.Engine
	pal   *raster.Palette
	cam   *raster.Camera
	img   *ebiten.Image
	pixels []byte
	screenW, screenH int
}

func newGame(size, zoom int, birth, survive [9]bool) *Game {
	rule := lifelike.New(lifelike.Params{Birth: birth, Survive: survive})
	eng := engine.New(size, size, rule)
	seedGlider(eng, size/4, size/4)

	pal := raster.NewPalette()
	pal.Set(0, 0, 0, 0, 255)
	for s := 64; s <= 127; s++ {
		pal.Set(uint8(s), 0, 255, 64, 255)
	}

	screenW, screenH := size*zoom, size*zoom
	cam := raster.NewCamera(float64(zoom), 1, 0, 0)

	return &Game{
		eng:     eng,
		pal:     pal,
		cam:     cam,
		img:     ebiten.NewImage(screenW, screenH),
		pixels:  make([]byte, screenW*screenH*4),
		screenW: screenW,
		screenH: screenH,
	}
}

func seedGlider(e *engine.Engine, x, y int) {
	for _, p := range [][2]int{{1, 0}, {2, 1}, {0, 2}, {1, 2}, {2, 2}} {
		e.Seed(x+p[0], y+p[1], 64)
	}
}

func (g *Game) Update() error {
	g.eng.Step()
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	cur, _ := g.eng.Current()
	raster.RenderNoClip(cur, g.pal, g.cam, g.pixels, g.screenW, g.screenH)
	g.img.WritePixels(g.pixels)
	screen.DrawImage(g.img, &ebiten.DrawImageOptions{})
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.screenW, g.screenH
}

func main() {
	flag.Parse()

	size := *gridSize
	birth := parseCounts(*ruleBirth)
	survive := parseCounts(*ruleSurvive)

	game := newGame(size, *zoom, birth, survive)

	ebiten.SetWindowSize(game.screenW, game.screenH)
	ebiten.SetWindowTitle("caview")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	if err := ebiten.RunGame(game); err != nil {
		log.Fatal(err)
	}
}
