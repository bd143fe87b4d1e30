package cart

import (
	"testing"

	"github.com/brg-dev/gbcore/internal/alloc"
)

func TestMBC1_ROMBanking(t *testing.T) {
	// Build a 128KiB ROM (8 banks) with a distinct byte at the start of
	// each bank so reads identify which bank is resident.
	rom := make([]byte, 128*1024)
	for bank := 0; bank < 8; bank++ {
		rom[bank*0x4000] = byte(bank)
	}
	m, err := NewMBC1(SliceRomReader{ROM: rom}, 8, 0)
	if err != nil {
		t.Fatalf("NewMBC1: %v", err)
	}

	if got, err := m.Read(0x0000); err != nil || got != 0x00 {
		t.Fatalf("bank0 read got %02X, err %v, want 00", got, err)
	}
	if got, err := m.Read(0x4000); err != nil || got != 0x01 {
		t.Fatalf("bank1 read got %02X, err %v, want 01", got, err)
	}

	if err := m.Write(0x2000, 0x03); err != nil {
		t.Fatalf("select bank 3: %v", err)
	}
	if got, err := m.Read(0x4000); err != nil || got != 0x03 {
		t.Fatalf("bank3 read got %02X, err %v, want 03", got, err)
	}

	if err := m.Write(0x2000, 0x00); err != nil {
		t.Fatalf("select bank 0: %v", err)
	}
	if got, err := m.Read(0x4000); err != nil || got != 0x01 {
		t.Fatalf("bank0->1 remap got %02X, err %v", got, err)
	}
}

func TestMBC1_RAMBanking_Mode1(t *testing.T) {
	rom := make([]byte, 128*1024)
	m, err := NewMBC1(SliceRomReader{ROM: rom}, 8, 32*1024)
	if err != nil {
		t.Fatalf("NewMBC1: %v", err)
	}

	if err := m.Write(0x0000, 0x0A); err != nil {
		t.Fatalf("enable RAM: %v", err)
	}
	if err := m.Write(0x6000, 0x01); err != nil {
		t.Fatalf("select mode 1: %v", err)
	}
	if err := m.Write(0x4000, 0x02); err != nil {
		t.Fatalf("select RAM bank 2: %v", err)
	}

	if err := m.Write(0xA000, 0x77); err != nil {
		t.Fatalf("write RAM: %v", err)
	}
	if got, err := m.Read(0xA000); err != nil || got != 0x77 {
		t.Fatalf("RAM bank2 RW got %02X, err %v, want 77", got, err)
	}
}

func TestMBC1_WithPooledAllocator(t *testing.T) {
	pool := alloc.NewPooledAllocator()
	rom := make([]byte, 128*1024)
	for bank := 0; bank < 8; bank++ {
		rom[bank*0x4000] = byte(bank)
	}
	m, err := NewMBC1WithAllocator(SliceRomReader{ROM: rom}, 8, 8*1024, pool)
	if err != nil {
		t.Fatalf("NewMBC1WithAllocator: %v", err)
	}
	if got, err := m.Read(0x0000); err != nil || got != 0x00 {
		t.Fatalf("bank0 read got %02X, err %v, want 00", got, err)
	}
	if err := m.Write(0x2000, 0x05); err != nil {
		t.Fatalf("select bank 5: %v", err)
	}
	if got, err := m.Read(0x4000); err != nil || got != 0x05 {
		t.Fatalf("bank5 read got %02X, err %v, want 05", got, err)
	}
	pool.Put(m.bank0Buf)
	pool.Put(m.bankNBuf)
	if buf := pool.NewBuffer(bankSize); len(buf) != bankSize {
		t.Fatalf("pooled buffer size got %d want %d", len(buf), bankSize)
	}
}

func TestMBC1_RAMDisabledReadsFF(t *testing.T) {
	rom := make([]byte, 64*1024)
	m, err := NewMBC1(SliceRomReader{ROM: rom}, 4, 8*1024)
	if err != nil {
		t.Fatalf("NewMBC1: %v", err)
	}
	if got, err := m.Read(0xA000); err != nil || got != 0xFF {
		t.Fatalf("disabled RAM read got %02X, err %v, want FF", got, err)
	}
}
