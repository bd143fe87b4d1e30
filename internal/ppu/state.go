package ppu

import (
	"bytes"
	"encoding/gob"
)

type ppuState struct {
	VRAM [0x2000]byte
	OAM  [0xA0]byte

	LCDC, STAT, SCY, SCX, LY, LYC byte
	BGP, OBP0, OBP1, WY, WX       byte

	Dot int

	WinYReached    bool
	WinLineCounter byte
	LineRegsArr    [144]LineRegs
}

// SaveState serializes VRAM, OAM, every PPU register, and the in-flight
// window-activation bookkeeping with encoding/gob, matching the save-state
// convention used throughout this core.
func (p *PPU) SaveState() []byte {
	var buf bytes.Buffer
	s := ppuState{
		VRAM: p.vram, OAM: p.oam,
		LCDC: p.lcdc, STAT: p.stat, SCY: p.scy, SCX: p.scx, LY: p.ly, LYC: p.lyc,
		BGP: p.bgp, OBP0: p.obp0, OBP1: p.obp1, WY: p.wy, WX: p.wx,
		Dot:            p.dot,
		WinYReached:    p.winYReached,
		WinLineCounter: p.winLineCounter,
		LineRegsArr:    p.lineRegs,
	}
	_ = gob.NewEncoder(&buf).Encode(s)
	return buf.Bytes()
}

func (p *PPU) LoadState(data []byte) {
	var s ppuState
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&s); err != nil {
		return
	}
	p.vram, p.oam = s.VRAM, s.OAM
	p.lcdc, p.stat, p.scy, p.scx, p.ly, p.lyc = s.LCDC, s.STAT, s.SCY, s.SCX, s.LY, s.LYC
	p.bgp, p.obp0, p.obp1, p.wy, p.wx = s.BGP, s.OBP0, s.OBP1, s.WY, s.WX
	p.dot = s.Dot
	p.winYReached = s.WinYReached
	p.winLineCounter = s.WinLineCounter
	p.lineRegs = s.LineRegsArr
}
