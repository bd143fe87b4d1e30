package cart

import "fmt"

// Cartridge is the memory controller's view of the cartridge slot: ROM
// reads/writes for 0x0000-0x7FFF and external RAM reads/writes for
// 0xA000-0xBFFF. Mapper-specific register writes land in the 0x0000-0x7FFF
// write path.
type Cartridge interface {
	Read(addr uint16) (byte, error)
	Write(addr uint16, value byte) error
	SaveState() []byte
	LoadState(data []byte) error
}

// BatteryBacked is an optional interface for cartridges with external RAM
// a host may want to persist across runs. The core performs no I/O of its
// own; a host calls these explicitly.
type BatteryBacked interface {
	SaveRAM() []byte
	LoadRAM(data []byte)
}

// RomReader fills buf with bytes starting at the given absolute offset
// into the ROM image. Implementations must fill buf exactly; short reads
// (a bank that runs past end-of-file) are zero-padded by the caller's
// RomReader, not by the mapper.
type RomReader interface {
	ReadInto(buf []byte, offset int64) error
}

// UnsupportedMapperError reports a cartridge hardware byte this core does
// not implement (only no-mapper and MBC1 are in scope).
type UnsupportedMapperError struct {
	CartType byte
}

func (e *UnsupportedMapperError) Error() string {
	return fmt.Sprintf("cart: unsupported mapper (cartridge type 0x%02X)", e.CartType)
}

// NewCartridge selects a mapper implementation from the ROM header's
// cartridge-hardware byte (offset 0x0147). rom must hold at least the
// header; NewROMOnly keeps it fully resident as the cartridge image. MBC1
// reads only the header from rom and loads its two initial resident banks,
// and every later bank, through reader.
func NewCartridge(rom []byte, reader RomReader) (Cartridge, error) {
	h, err := ParseHeader(rom)
	if err != nil {
		return nil, err
	}
	switch h.CartType {
	case 0x00:
		return NewROMOnly(rom, h.RAMSizeBytes), nil
	case 0x01, 0x02, 0x03:
		return NewMBC1(reader, h.ROMBanks, h.RAMSizeBytes)
	default:
		return nil, &UnsupportedMapperError{CartType: h.CartType}
	}
}
