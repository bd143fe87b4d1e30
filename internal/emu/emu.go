package emu

import (
	"log"

	"github.com/brg-dev/gbcore/internal/bus"
	"github.com/brg-dev/gbcore/internal/cart"
	"github.com/brg-dev/gbcore/internal/cpu"
)

// cyclesPerSecond is the DMG's fixed T-cycle clock rate.
const cyclesPerSecond = 4194304

// Frame is one completed picture: 144 rows of 160 two-bit shades (0-3),
// already palette-mapped. It mirrors the PPU's own framebuffer layout so a
// sink can blit it directly.
type Frame [144][160]byte

// GraphicsSink receives a frame once per VBlank entry. Output must not
// retain the pointer past the call; implementations that need the pixels
// later copy them out.
type GraphicsSink interface {
	Output(f *Frame)
}

// GbInputs is the flattened joypad state, read once per T-cycle by Step.
type GbInputs struct {
	Up, Down, Left, Right bool
	A, B, Start, Select   bool
}

// InputHandler supplies the current button state. Step polls it once per
// T-cycle it runs, not once per Step call.
type InputHandler interface {
	GetNewInputs() GbInputs
}

// NopInputHandler reports every button released. Useful for headless
// test-ROM runners that don't drive the joypad at all.
type NopInputHandler struct{}

func (NopInputHandler) GetNewInputs() GbInputs { return GbInputs{} }

func (in GbInputs) mask() byte {
	var m byte
	if in.Right {
		m |= bus.JoypRight
	}
	if in.Left {
		m |= bus.JoypLeft
	}
	if in.Up {
		m |= bus.JoypUp
	}
	if in.Down {
		m |= bus.JoypDown
	}
	if in.A {
		m |= bus.JoypA
	}
	if in.B {
		m |= bus.JoypB
	}
	if in.Select {
		m |= bus.JoypSelectBtn
	}
	if in.Start {
		m |= bus.JoypStart
	}
	return m
}

// InitError wraps a failure constructing an Emulator: a bad ROM read, a
// malformed header, or an unsupported mapper byte.
type InitError struct {
	Err error
}

func (e *InitError) Error() string { return "emu: init failed: " + e.Err.Error() }
func (e *InitError) Unwrap() error { return e.Err }

// Emulator owns the CPU, bus, and PPU for one running DMG session and
// drives them forward in whole T-cycle steps.
type Emulator struct {
	cfg   Config
	bus   *bus.Bus
	cpu   *cpu.CPU
	sink  GraphicsSink
	input InputHandler

	// accum carries fractional T-cycles across Step calls so a host
	// that calls Step with a non-exact dt (e.g. a variable frame time)
	// never silently drops cycles.
	accum float64
}

// headerProbeSize is how much of the ROM New reads up front: enough to
// cover ParseHeader's 0x0000-0x014F window and to seed a ROM-only
// cartridge's full resident image (32 KiB, the largest size a CartType
// 0x00 header ever declares). For MBC1 only the header is taken from this
// slice; the mapper loads every bank, banks 0 and 1 included, through
// romReader.
const headerProbeSize = 0x8000

// New reads the cartridge header through romReader, selects a mapper, and
// wires a fresh CPU/bus/PPU around it. Frames are pushed to sink as they
// complete; joypad state is pulled from input once per T-cycle in Step.
func New(romReader cart.RomReader, sink GraphicsSink, input InputHandler, cfg Config) (*Emulator, error) {
	if input == nil {
		input = NopInputHandler{}
	}
	buf := make([]byte, headerProbeSize)
	if err := romReader.ReadInto(buf, 0); err != nil {
		return nil, &InitError{Err: err}
	}
	c, err := cart.NewCartridge(buf, romReader)
	if err != nil {
		return nil, &InitError{Err: err}
	}

	b := bus.NewWithCartridge(c)
	cc := cpu.New(b)
	e := &Emulator{cfg: cfg, bus: b, cpu: cc, sink: sink, input: input}
	if sink != nil {
		b.PPU().SetFrameSink(func(fb *[144][160]byte) {
			f := Frame(*fb)
			e.sink.Output(&f)
		})
	}
	return e, nil
}

// Bus exposes the underlying bus for hosts that need direct access (boot
// ROM loading, serial capture, save states).
func (e *Emulator) Bus() *bus.Bus { return e.bus }

// CPU exposes the underlying CPU, mainly for trace/debug hosts.
func (e *Emulator) CPU() *cpu.CPU { return e.cpu }

// Step converts dtSeconds to T-cycles at the DMG's fixed clock rate,
// carrying any fractional remainder into the next call, and runs that
// many CPU cycles. It returns the number of T-cycles actually executed.
func (e *Emulator) Step(dtSeconds float64) (uint64, error) {
	e.accum += dtSeconds * cyclesPerSecond
	n := uint64(e.accum)
	e.accum -= float64(n)

	var ran uint64
	for ; ran < n; ran++ {
		// Joypad state is read fresh every T-cycle, not once per Step:
		// a Step covering a whole frame must not run on a single stale
		// input snapshot.
		e.bus.SetJoypadState(e.input.GetNewInputs().mask())
		if e.cfg.Trace {
			log.Printf("emu: PC=0x%04X", e.cpu.PC)
		}
		if err := e.cpu.RunCycle(); err != nil {
			return ran, err
		}
	}
	return ran, nil
}
