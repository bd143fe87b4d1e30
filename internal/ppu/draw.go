package ppu

// fetchPhase is one step of the background/window pixel fetcher. Real
// hardware spends 2 T-cycles in each phase before advancing.
type fetchPhase int

const (
	phaseFetchTile fetchPhase = iota
	phaseFetchLow
	phaseFetchHigh
	phaseSleep
	phasePush
)

// drawState drives mode 3 one T-cycle at a time. Its duration isn't fixed:
// it lasts until 160 pixels have been pushed out, and pushing a pixel can
// stall for several T-cycles at a time, either because the fetcher hasn't
// filled its FIFO yet or because an object's tile row needs fetching first.
// That stalling is what makes real mode-3 length vary line to line with
// how many objects are on it.
type drawState struct {
	active bool
	ly     byte
	x      int // next screen column to emit, 0..160

	fifo fifo
	fch  bgFetcher

	bgWinEnabled bool
	tileX        uint16
	mapY         uint16
	fineY        byte

	phase      fetchPhase
	phaseTicks int
	discard    int

	winEnabled bool
	winVisible bool
	winActive  bool
	winMapBase uint16
	wxStart    int
	winLine    byte

	sprites   []Sprite
	spriteIdx int
	objStall  int
	picks     [160]spritePick
}

// objFetchCycles is how long an object's tile row fetch stalls the
// background fetcher. Real hardware pays 6-11 T-cycles per object
// depending on fetcher phase alignment; 6 is the common case and is what
// we charge for every object here.
const objFetchCycles = 6

// beginDraw starts the Draw phase for scanline ly. It snapshots the
// registers a real fetcher latches at mode-2 exit (SCX/SCY, tilemap
// selects, the OAM-scan results) so a mid-line LCDC write can't
// retroactively change a line already underway.
func (p *PPU) beginDraw(ly byte) {
	d := &p.draw
	*d = drawState{active: true, ly: ly, winLine: p.winLineCounter}
	p.lineRegs[ly] = LineRegs{WinLine: p.winLineCounter, WinYReached: p.winYReached}

	d.fch.mem = p
	d.fch.fifo = &d.fifo

	d.bgWinEnabled = p.lcdc&0x01 != 0
	if d.bgWinEnabled {
		mapBase := uint16(0x9800)
		if p.lcdc&0x08 != 0 {
			mapBase = 0x9C00
		}
		d.fch.mapBase = mapBase
		d.fch.tileData8000 = p.lcdc&0x10 != 0
		bgY := uint16(ly) + uint16(p.scy)
		d.fineY = byte(bgY & 7)
		d.mapY = (bgY >> 3) & 31
		d.tileX = (uint16(p.scx) >> 3) & 31
		d.discard = int(p.scx & 7)
		d.fch.fineY = d.fineY
		d.fch.tileIndexAddr = mapBase + d.mapY*32 + d.tileX

		d.winEnabled = p.lcdc&0x20 != 0
		d.wxStart = int(p.wx) - 7
		d.winVisible = d.winEnabled && p.winYReached && d.wxStart < 166
		d.winMapBase = 0x9800
		if p.lcdc&0x40 != 0 {
			d.winMapBase = 0x9C00
		}
	}

	if p.lcdc&0x02 != 0 {
		d.sprites = p.scanOAM(ly)
		sortSpritesByX(d.sprites)
		d.picks = computeSpritePicks(p, d.sprites, ly, p.lcdc&0x04 != 0)
	}
}

// stepDraw advances the Draw phase by exactly one T-cycle.
func (p *PPU) stepDraw() {
	d := &p.draw
	if !d.active {
		return
	}

	if d.objStall > 0 {
		d.objStall--
		return
	}

	if d.spriteIdx < len(d.sprites) {
		sx := d.sprites[d.spriteIdx].X
		if sx < 0 {
			sx = 0
		}
		if sx == d.x {
			d.spriteIdx++
			d.objStall = objFetchCycles
			return
		}
	}

	if !d.bgWinEnabled {
		p.emitPixel(d, 0)
		return
	}

	d.phaseTicks++
	if d.phaseTicks >= 2 {
		d.phaseTicks = 0
		switch d.phase {
		case phaseFetchTile:
			d.fch.FetchTileNum()
			d.phase = phaseFetchLow
		case phaseFetchLow:
			d.fch.FetchDataLow()
			d.phase = phaseFetchHigh
		case phaseFetchHigh:
			d.fch.FetchDataHigh()
			d.phase = phaseSleep
		case phaseSleep:
			d.phase = phasePush
		case phasePush:
			if d.fch.PushRow() {
				d.tileX = (d.tileX + 1) & 31
				d.fch.tileIndexAddr = d.fch.mapBase + d.mapY*32 + d.tileX
				d.phase = phaseFetchTile
			}
			// else: FIFO hasn't drained, retry Push next slot.
		}
	}

	if d.fifo.Len() == 0 {
		return
	}
	ci, _ := d.fifo.Pop()
	if d.discard > 0 {
		d.discard--
		return
	}
	p.emitPixel(d, ci)
}

// emitPixel composes and writes one output pixel, then checks whether the
// window takes over the fetch source starting at the next column, and
// whether the line is complete.
func (p *PPU) emitPixel(d *drawState, bgci byte) {
	if d.x < 160 {
		shade := applyPalette(p.bgp, bgci)
		pk := d.picks[d.x]
		if pk.ci != 0 && !(pk.attr&0x80 != 0 && bgci != 0) {
			pal := p.obp0
			if pk.attr&0x10 != 0 {
				pal = p.obp1
			}
			shade = applyPalette(pal, pk.ci)
		}
		p.fb[d.ly][d.x] = shade
		d.x++
	}

	if d.bgWinEnabled && !d.winActive && d.winVisible && d.x >= d.wxStart {
		d.winActive = true
		d.fifo.Clear()
		d.fch.mapBase = d.winMapBase
		d.mapY = (uint16(d.winLine) >> 3) & 31
		d.fineY = d.winLine & 7
		d.fch.fineY = d.fineY
		d.tileX = 0
		d.fch.tileIndexAddr = d.winMapBase + d.mapY*32
		d.phase = phaseFetchTile
		d.phaseTicks = 0
	}

	if d.x >= 160 {
		d.active = false
		if d.winActive {
			p.lineRegs[d.ly] = LineRegs{WinLine: d.winLine, WinYReached: true}
			p.winLineCounter++
		} else {
			p.lineRegs[d.ly] = LineRegs{WinLine: p.winLineCounter, WinYReached: p.winYReached}
		}
	}
}
