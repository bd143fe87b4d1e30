package cart

import "github.com/brg-dev/gbcore/internal/alloc"

const bankSize = 0x4000 // 16 KiB

// MBC1 implements the MBC1 mapper the way real hardware does it: only two
// 16 KiB ROM banks are ever resident at once (the "bank 0" window and the
// switchable window). Crossing into a bank that isn't one of the two
// resident ones triggers a call back into the host's RomReader to refill
// the corresponding buffer, rather than holding the whole ROM in memory.
type MBC1 struct {
	reader   RomReader
	numBanks int

	bank0Buf  []byte // resident copy of whatever bank backs 0x0000-0x3FFF
	bank0Idx  int
	bankNBuf  []byte // resident copy of whatever bank backs 0x4000-0x7FFF
	bankNIdx  int

	ram        []byte
	ramEnabled bool

	primary   byte // 5-bit ROM bank register, 0x2000-0x3FFF writes
	secondary byte // 2-bit secondary register, 0x4000-0x5FFF writes
	mode      byte // 0: simple (ROM) banking, 1: advanced (RAM) banking
}

// NewMBC1 constructs an MBC1 mapper using a plain EagerAllocator for its
// resident bank buffers. See NewMBC1WithAllocator for callers that want to
// pool those buffers (e.g. a host juggling many cartridges at once).
func NewMBC1(reader RomReader, numBanks int, ramSize int) (*MBC1, error) {
	return NewMBC1WithAllocator(reader, numBanks, ramSize, alloc.EagerAllocator{})
}

// NewMBC1WithAllocator constructs an MBC1 mapper. numBanks is the total ROM
// bank count decoded from the header; ramSize is the declared external RAM
// size in bytes. The two resident windows are loaded immediately: bank 0
// and bank 1, both backed by buffers from a.
func NewMBC1WithAllocator(reader RomReader, numBanks int, ramSize int, a alloc.Allocator) (*MBC1, error) {
	if numBanks <= 0 {
		numBanks = 2
	}
	m := &MBC1{
		reader:   reader,
		numBanks: numBanks,
		bank0Buf: a.NewBuffer(bankSize),
		bankNBuf: a.NewBuffer(bankSize),
		bank0Idx: -1,
		bankNIdx: -1,
		primary:  1,
	}
	if ramSize > 0 {
		m.ram = a.NewBuffer(ramSize)
	}
	if err := m.loadBank(m.bank0Buf, 0); err != nil {
		return nil, err
	}
	m.bank0Idx = 0
	if err := m.loadBank(m.bankNBuf, 1); err != nil {
		return nil, err
	}
	m.bankNIdx = 1
	return m, nil
}

func (m *MBC1) loadBank(buf []byte, bank int) error {
	return m.reader.ReadInto(buf, int64(bank)*int64(bankSize))
}

// lowWindowBank is the bank number backing 0x0000-0x3FFF: fixed bank 0 in
// simple mode, or the secondary register's high bits alone in advanced
// mode (used by >=1MiB ROMs to bank-switch the low window too).
func (m *MBC1) lowWindowBank() int {
	if m.mode == 0 {
		return 0
	}
	return (int(m.secondary) << 5) % m.numBanks
}

// highWindowBank is the bank number backing 0x4000-0x7FFF in either mode.
func (m *MBC1) highWindowBank() int {
	bank := (int(m.secondary)<<5 | int(m.primary)) % m.numBanks
	return bank
}

func (m *MBC1) ensureLowWindow() error {
	want := m.lowWindowBank()
	if want == m.bank0Idx {
		return nil
	}
	if err := m.loadBank(m.bank0Buf, want); err != nil {
		return err
	}
	m.bank0Idx = want
	return nil
}

func (m *MBC1) ensureHighWindow() error {
	want := m.highWindowBank()
	if want == m.bankNIdx {
		return nil
	}
	if err := m.loadBank(m.bankNBuf, want); err != nil {
		return err
	}
	m.bankNIdx = want
	return nil
}

func (m *MBC1) Read(addr uint16) (byte, error) {
	switch {
	case addr < 0x4000:
		if err := m.ensureLowWindow(); err != nil {
			return 0, err
		}
		return m.bank0Buf[addr], nil
	case addr < 0x8000:
		if err := m.ensureHighWindow(); err != nil {
			return 0, err
		}
		return m.bankNBuf[addr-0x4000], nil
	case addr >= 0xA000 && addr <= 0xBFFF:
		if !m.ramEnabled || len(m.ram) == 0 {
			return 0xFF, nil
		}
		off := m.ramOffset(addr)
		if off < len(m.ram) {
			return m.ram[off], nil
		}
		return 0xFF, nil
	default:
		return 0xFF, nil
	}
}

func (m *MBC1) Write(addr uint16, value byte) error {
	switch {
	case addr < 0x2000:
		m.ramEnabled = value&0x0F == 0x0A
	case addr < 0x4000:
		bank := value & 0x1F
		if bank == 0 {
			bank = 1
		}
		m.primary = bank
	case addr < 0x6000:
		m.secondary = value & 0x03
	case addr < 0x8000:
		m.mode = value & 0x01
	case addr >= 0xA000 && addr <= 0xBFFF:
		if !m.ramEnabled || len(m.ram) == 0 {
			return nil
		}
		off := m.ramOffset(addr)
		if off < len(m.ram) {
			m.ram[off] = value
		}
	}
	return nil
}

func (m *MBC1) ramOffset(addr uint16) int {
	ramBank := 0
	if m.mode == 1 && len(m.ram) > 0x2000 {
		ramBank = int(m.secondary)
	}
	return ramBank*0x2000 + int(addr-0xA000)
}

type mbc1State struct {
	RAM        []byte
	RAMEnabled bool
	Primary    byte
	Secondary  byte
	Mode       byte
	Bank0Idx   int
	BankNIdx   int
}

func (m *MBC1) SaveState() []byte {
	s := mbc1State{
		RAM:        append([]byte(nil), m.ram...),
		RAMEnabled: m.ramEnabled,
		Primary:    m.primary,
		Secondary:  m.secondary,
		Mode:       m.mode,
		Bank0Idx:   m.bank0Idx,
		BankNIdx:   m.bankNIdx,
	}
	return encodeGob(s)
}

func (m *MBC1) LoadState(data []byte) error {
	var s mbc1State
	if err := decodeGob(data, &s); err != nil {
		return err
	}
	m.ram = s.RAM
	m.ramEnabled = s.RAMEnabled
	m.primary = s.Primary
	m.secondary = s.Secondary
	m.mode = s.Mode
	if err := m.loadBank(m.bank0Buf, s.Bank0Idx); err != nil {
		return err
	}
	m.bank0Idx = s.Bank0Idx
	if err := m.loadBank(m.bankNBuf, s.BankNIdx); err != nil {
		return err
	}
	m.bankNIdx = s.BankNIdx
	return nil
}

func (m *MBC1) SaveRAM() []byte {
	return append([]byte(nil), m.ram...)
}

func (m *MBC1) LoadRAM(data []byte) {
	copy(m.ram, data)
}
