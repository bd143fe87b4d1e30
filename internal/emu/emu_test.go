package emu

import (
	"errors"
	"testing"

	"github.com/brg-dev/gbcore/internal/cart"
)

type failingRomReader struct{}

func (failingRomReader) ReadInto(buf []byte, offset int64) error {
	return errors.New("boom")
}

type countingSink struct {
	frames int
}

func (s *countingSink) Output(f *Frame) { s.frames++ }

func minimalROM() []byte {
	rom := make([]byte, 0x8000)
	// An infinite JP loop at the entry point so the CPU has somewhere
	// to run without falling off into uninitialized memory.
	rom[0x0100] = 0xC3
	rom[0x0101] = 0x00
	rom[0x0102] = 0x01
	return rom
}

func TestNewSurfacesRomReaderFailureAsInitError(t *testing.T) {
	if _, err := New(failingRomReader{}, nil, nil, Config{}); err == nil {
		t.Fatalf("expected InitError when the RomReader fails")
	} else if _, ok := err.(*InitError); !ok {
		t.Fatalf("expected *InitError, got %T: %v", err, err)
	}
}

func TestNewRejectsUnsupportedMapper(t *testing.T) {
	rom := make([]byte, 0x8000)
	rom[0x0147] = 0xFF // no mapper implements cartridge type 0xFF
	reader := cart.SliceRomReader{ROM: rom}
	if _, err := New(reader, nil, nil, Config{}); err == nil {
		t.Fatalf("expected InitError for an unsupported mapper byte")
	}
}

func TestStepRunsRequestedCyclesAndEmitsOneFramePer70224(t *testing.T) {
	reader := cart.SliceRomReader{ROM: minimalROM()}
	sink := &countingSink{}
	e, err := New(reader, sink, nil, Config{})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	// The LCD starts off; turn it on so the frame starts at LY=0.
	e.Bus().Write(0xFF40, 0x80)

	// One frame's worth of wall-clock time in one Step call.
	ran, err := e.Step(70224.0 / cyclesPerSecond)
	if err != nil {
		t.Fatalf("Step: %v", err)
	}
	if ran != 70224 {
		t.Fatalf("ran = %d, want 70224", ran)
	}
	if sink.frames != 1 {
		t.Fatalf("frames emitted = %d, want 1", sink.frames)
	}
}

func TestStepCarriesFractionalCyclesAcrossCalls(t *testing.T) {
	reader := cart.SliceRomReader{ROM: minimalROM()}
	e, err := New(reader, nil, nil, Config{})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	// dt chosen so that cyclesPerSecond*dt is not a whole number; the
	// fractional remainder must accumulate rather than vanish.
	dt := 1.5 / cyclesPerSecond
	var total uint64
	for i := 0; i < 4; i++ {
		ran, err := e.Step(dt)
		if err != nil {
			t.Fatalf("Step: %v", err)
		}
		total += ran
	}
	if total != 6 {
		t.Fatalf("total cycles = %d, want 6 (4 * 1.5 accumulated)", total)
	}
}

func TestGbInputsMask(t *testing.T) {
	in := GbInputs{Right: true, A: true, Start: true}
	got := in.mask()
	want := byte(0x01 | 0x10 | 0x80)
	if got != want {
		t.Fatalf("mask() = %#02x, want %#02x", got, want)
	}
}
