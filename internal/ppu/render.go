package ppu

// LineRegs captures the window state latched for one scanline at the
// moment its Draw phase began, so a host (or test) can inspect what the
// fetcher actually saw without racing the live PPU.
type LineRegs struct {
	WinLine     byte
	WinYReached bool
}

// LineRegs returns the captured window state for scanline ly, or the zero
// value if ly is out of range. A line whose Draw phase hasn't begun yet
// this frame still holds the previous frame's capture (zero before the
// first frame).
func (p *PPU) LineRegs(ly int) LineRegs {
	if ly < 0 || ly >= 144 {
		return LineRegs{}
	}
	return p.lineRegs[ly]
}

// Read implements VRAMReader over the PPU's own VRAM, bypassing the CPU
// access-gating CPURead applies during modes 2/3. Rendering happens
// outside the CPU's view of the bus, so it always sees the true contents.
func (p *PPU) Read(addr uint16) byte {
	if addr >= 0x8000 && addr <= 0x9FFF {
		return p.vram[addr-0x8000]
	}
	return 0xFF
}

// Framebuffer returns the most recently completed frame's shades, a 144
// (rows) by 160 (columns) grid of four-color monochrome values (0-3).
func (p *PPU) Framebuffer() [144][160]byte { return p.fb }

// SetFrameSink installs a callback invoked with the completed framebuffer
// once per VBlank entry. The callback must not retain the pointer beyond
// the call.
func (p *PPU) SetFrameSink(f func(fb *[144][160]byte)) { p.frameEmit = f }

func applyPalette(palette, ci byte) byte {
	return (palette >> (ci * 2)) & 0x03
}

// resetFrameWindowState clears the window-activation latch and line
// counter at the start of a new frame (LCD turning on, or LY wrapping from
// 153 back to 0).
func (p *PPU) resetFrameWindowState() {
	p.winYReached = false
	p.winLineCounter = 0
}

// The actual per-scanline composition (background, window, objects) now
// happens incrementally, one pixel per Draw T-cycle, in draw.go's
// stepDraw/emitPixel rather than as a single call here. scanline.go's
// RenderBGScanlineUsingFetcher and RenderWindowScanlineUsingFetcher remain
// as directly-tested one-shot building blocks, but the live PPU no longer
// calls them batch-wise mid-frame.
