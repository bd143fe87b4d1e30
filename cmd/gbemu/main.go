package main

import (
	"flag"
	"fmt"
	"image/color"
	"log"
	"os"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/brg-dev/gbcore/internal/emu"
)

type cliFlags struct {
	ROMPath string
	Scale   int
	Title   string
	Trace   bool
}

func parseFlags() cliFlags {
	var f cliFlags
	flag.StringVar(&f.ROMPath, "rom", "", "path to ROM (.gb)")
	flag.IntVar(&f.Scale, "scale", 3, "window scale")
	flag.StringVar(&f.Title, "title", "gbemu", "window title")
	flag.BoolVar(&f.Trace, "trace", false, "CPU trace log")
	flag.Parse()
	return f
}

// shade maps a two-bit DMG color index to the classic four-tone green
// palette.
func shade(ci byte) color.RGBA {
	switch ci {
	case 0:
		return color.RGBA{0x9B, 0xBC, 0x0F, 0xFF}
	case 1:
		return color.RGBA{0x8B, 0xAC, 0x0F, 0xFF}
	case 2:
		return color.RGBA{0x30, 0x62, 0x30, 0xFF}
	default:
		return color.RGBA{0x0F, 0x38, 0x0F, 0xFF}
	}
}

// game implements ebiten.Game and bridges the emulator's GraphicsSink and
// InputHandler trait contracts to an on-screen window.
type game struct {
	emu *emu.Emulator
	tex *ebiten.Image

	// latest holds the most recently emitted frame; Output copies into it
	// since the emulator reuses its own framebuffer across frames.
	latest emu.Frame
	hasNew bool
	pixbuf []byte
	scale  int
}

// Output implements emu.GraphicsSink.
func (g *game) Output(f *emu.Frame) {
	g.latest = *f
	g.hasNew = true
}

// GetNewInputs implements emu.InputHandler.
func (g *game) GetNewInputs() emu.GbInputs {
	return emu.GbInputs{
		Right:  ebiten.IsKeyPressed(ebiten.KeyRight),
		Left:   ebiten.IsKeyPressed(ebiten.KeyLeft),
		Up:     ebiten.IsKeyPressed(ebiten.KeyUp),
		Down:   ebiten.IsKeyPressed(ebiten.KeyDown),
		A:      ebiten.IsKeyPressed(ebiten.KeyZ),
		B:      ebiten.IsKeyPressed(ebiten.KeyX),
		Start:  ebiten.IsKeyPressed(ebiten.KeyEnter),
		Select: ebiten.IsKeyPressed(ebiten.KeyShiftRight),
	}
}

func (g *game) Update() error {
	dt := 1.0 / float64(ebiten.TPS())
	if _, err := g.emu.Step(dt); err != nil {
		return fmt.Errorf("step: %w", err)
	}
	return nil
}

func (g *game) Draw(screen *ebiten.Image) {
	if g.hasNew {
		for y := 0; y < 144; y++ {
			for x := 0; x < 160; x++ {
				c := shade(g.latest[y][x])
				i := (y*160 + x) * 4
				g.pixbuf[i+0] = c.R
				g.pixbuf[i+1] = c.G
				g.pixbuf[i+2] = c.B
				g.pixbuf[i+3] = c.A
			}
		}
		g.tex.WritePixels(g.pixbuf)
		g.hasNew = false
	}
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(float64(g.scale), float64(g.scale))
	screen.DrawImage(g.tex, op)
}

func (g *game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return 160 * g.scale, 144 * g.scale
}

func main() {
	f := parseFlags()
	if f.ROMPath == "" {
		log.Fatal("-rom is required")
	}

	reader, err := emu.OpenROM(f.ROMPath)
	if err != nil {
		log.Fatalf("open rom: %v", err)
	}
	defer reader.Close()

	g := &game{pixbuf: make([]byte, 160*144*4), scale: f.Scale}
	e, err := emu.New(reader, g, g, emu.Config{Trace: f.Trace})
	if err != nil {
		log.Fatalf("init emulator: %v", err)
	}
	g.emu = e
	g.tex = ebiten.NewImage(160, 144)

	ebiten.SetWindowTitle(f.Title)
	ebiten.SetWindowSize(160*f.Scale, 144*f.Scale)
	if err := ebiten.RunGame(g); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
