package cart

// ROMOnly implements the no-mapper cartridge: a fully resident 32 KiB ROM
// image and an optional, fully resident external RAM region sized from
// the header's declared RAM size. Writes to ROM are silently ignored.
type ROMOnly struct {
	rom []byte
	ram []byte
}

// NewROMOnly constructs a no-mapper cartridge. ramSize is the declared
// external RAM size in bytes (0 if the cartridge has none).
func NewROMOnly(rom []byte, ramSize int) *ROMOnly {
	c := &ROMOnly{rom: rom}
	if ramSize > 0 {
		c.ram = make([]byte, ramSize)
	}
	return c
}

func (c *ROMOnly) Read(addr uint16) (byte, error) {
	switch {
	case addr < 0x8000:
		if int(addr) < len(c.rom) {
			return c.rom[addr], nil
		}
		return 0xFF, nil
	case addr >= 0xA000 && addr <= 0xBFFF:
		off := int(addr - 0xA000)
		if off < len(c.ram) {
			return c.ram[off], nil
		}
		return 0xFF, nil
	default:
		return 0xFF, nil
	}
}

func (c *ROMOnly) Write(addr uint16, value byte) error {
	if addr >= 0xA000 && addr <= 0xBFFF {
		off := int(addr - 0xA000)
		if off < len(c.ram) {
			c.ram[off] = value
		}
	}
	// Writes to 0x0000-0x7FFF are no-ops: there is no mapper register.
	return nil
}

func (c *ROMOnly) SaveState() []byte {
	out := make([]byte, len(c.ram))
	copy(out, c.ram)
	return out
}

func (c *ROMOnly) LoadState(data []byte) error {
	copy(c.ram, data)
	return nil
}

func (c *ROMOnly) SaveRAM() []byte { return c.SaveState() }
func (c *ROMOnly) LoadRAM(data []byte) { _ = c.LoadState(data) }
