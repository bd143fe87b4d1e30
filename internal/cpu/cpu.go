// Package cpu implements the Sharp LR35902 fetch-decode-execute engine:
// register file, flags, interrupt handling, and the per-T-cycle budget
// that drives instruction timing.
package cpu

import (
	"fmt"
	"log"

	"github.com/brg-dev/gbcore/internal/bus"
	"github.com/brg-dev/gbcore/internal/isa"
)

// CpuError wraps a memory-layer failure encountered while decoding or
// executing an instruction, with enough context (PC, opcode) to report
// to a host.
type CpuError struct {
	PC  uint16
	Err error
}

func (e *CpuError) Error() string {
	return fmt.Sprintf("cpu: fault at PC=0x%04X: %v", e.PC, e.Err)
}

func (e *CpuError) Unwrap() error { return e.Err }

// IllegalOpcodeError is returned when the decoder reaches one of the
// eleven undefined opcodes. The core never recovers from this; the host
// is expected to stop calling Step.
type IllegalOpcodeError struct {
	Opcode byte
	PC     uint16
}

func (e *IllegalOpcodeError) Error() string {
	return fmt.Sprintf("cpu: illegal opcode 0x%02X at PC=0x%04X", e.Opcode, e.PC)
}

// CPU is the register file plus the cycle-budgeting state machine
// described by the per-cycle contract: each call to RunCycle represents
// exactly one T-cycle.
type CPU struct {
	A, F byte
	B, C byte
	D, E byte
	H, L byte

	SP uint16
	PC uint16

	IME      bool
	eiQueued bool
	halted   bool

	// cyclesRemaining is the number of T-cycles left before the next
	// fetch-decode-execute boundary.
	cyclesRemaining int

	bus *bus.Bus
}

// New creates a CPU with PC at zero, ready to run a boot ROM.
func New(b *bus.Bus) *CPU {
	return &CPU{bus: b, SP: 0xFFFE, PC: 0x0000}
}

// SetPC allows tests or a boot stub to set the program counter.
func (c *CPU) SetPC(pc uint16) { c.PC = pc }

// Bus exposes the underlying bus for tests/tools.
func (c *CPU) Bus() *bus.Bus { return c.bus }

// Halted reports whether the CPU is currently sleeping in HALT.
func (c *CPU) Halted() bool { return c.halted }

// AtInstructionBoundary reports whether the next RunCycle call will begin a
// new fetch-decode-execute rather than continue consuming T-cycles left
// over from the instruction in progress.
func (c *CPU) AtInstructionBoundary() bool { return c.cyclesRemaining == 0 }

// ResetNoBoot sets registers to typical DMG post-boot state, for hosts
// that skip running the boot ROM image.
func (c *CPU) ResetNoBoot() {
	c.A, c.F = 0x01, 0xB0
	c.B, c.C = 0x00, 0x13
	c.D, c.E = 0x00, 0xD8
	c.H, c.L = 0x01, 0x4D
	c.SP = 0xFFFE
	c.PC = 0x0100
	c.IME = false
	c.halted = false
	c.eiQueued = false
	c.cyclesRemaining = 0
}

const (
	flagZ byte = 1 << 7
	flagN byte = 1 << 6
	flagH byte = 1 << 5
	flagC byte = 1 << 4
)

func (c *CPU) setZNHC(z, n, h, carry bool) {
	var f byte
	if z {
		f |= flagZ
	}
	if n {
		f |= flagN
	}
	if h {
		f |= flagH
	}
	if carry {
		f |= flagC
	}
	c.F = f
}

func (c *CPU) flagSet(mask byte) bool { return c.F&mask != 0 }

func add8(a, b byte) (res byte, z, h, cy bool) {
	r := uint16(a) + uint16(b)
	res = byte(r)
	z = res == 0
	h = ((a & 0x0F) + (b & 0x0F)) > 0x0F
	cy = r > 0xFF
	return
}

func adc8(a, b byte, carryIn bool) (res byte, z, h, cy bool) {
	ci := byte(0)
	if carryIn {
		ci = 1
	}
	r := uint16(a) + uint16(b) + uint16(ci)
	res = byte(r)
	z = res == 0
	h = ((a & 0x0F) + (b & 0x0F) + ci) > 0x0F
	cy = r > 0xFF
	return
}

func sub8(a, b byte) (res byte, z, h, cy bool) {
	r := int16(a) - int16(b)
	res = byte(r)
	z = res == 0
	h = (a & 0x0F) < (b & 0x0F)
	cy = int16(a) < int16(b)
	return
}

func sbc8(a, b byte, carryIn bool) (res byte, z, h, cy bool) {
	ci := int16(0)
	if carryIn {
		ci = 1
	}
	r := int16(a) - int16(b) - ci
	res = byte(r)
	z = res == 0
	h = int16(a&0x0F) < int16(b&0x0F)+ci
	cy = int16(a) < int16(b)+ci
	return
}

func (c *CPU) read8(addr uint16) byte     { return c.bus.Read(addr) }
func (c *CPU) write8(addr uint16, v byte) { c.bus.Write(addr, v) }

func (c *CPU) read16(addr uint16) uint16 {
	lo := uint16(c.read8(addr))
	hi := uint16(c.read8(addr + 1))
	return lo | (hi << 8)
}

func (c *CPU) write16(addr uint16, v uint16) {
	c.write8(addr, byte(v&0x00FF))
	c.write8(addr+1, byte(v>>8))
}

func (c *CPU) getAF() uint16  { return uint16(c.A)<<8 | uint16(c.F&0xF0) }
func (c *CPU) setAF(v uint16) { c.A = byte(v >> 8); c.F = byte(v) & 0xF0 }
func (c *CPU) getBC() uint16  { return uint16(c.B)<<8 | uint16(c.C) }
func (c *CPU) setBC(v uint16) { c.B = byte(v >> 8); c.C = byte(v) }
func (c *CPU) getDE() uint16  { return uint16(c.D)<<8 | uint16(c.E) }
func (c *CPU) setDE(v uint16) { c.D = byte(v >> 8); c.E = byte(v) }
func (c *CPU) getHL() uint16  { return uint16(c.H)<<8 | uint16(c.L) }
func (c *CPU) setHL(v uint16) { c.H = byte(v >> 8); c.L = byte(v) }

func (c *CPU) getReg16(r isa.Reg16) uint16 {
	switch r {
	case isa.BC:
		return c.getBC()
	case isa.DE:
		return c.getDE()
	case isa.HL:
		return c.getHL()
	case isa.SP:
		return c.SP
	case isa.AF:
		return c.getAF()
	}
	return 0
}

func (c *CPU) setReg16(r isa.Reg16, v uint16) {
	switch r {
	case isa.BC:
		c.setBC(v)
	case isa.DE:
		c.setDE(v)
	case isa.HL:
		c.setHL(v)
	case isa.SP:
		c.SP = v
	case isa.AF:
		c.setAF(v)
	}
}

func (c *CPU) getReg8(r isa.Reg8) byte {
	switch r {
	case isa.A:
		return c.A
	case isa.B:
		return c.B
	case isa.C:
		return c.C
	case isa.D:
		return c.D
	case isa.E:
		return c.E
	case isa.H:
		return c.H
	case isa.L:
		return c.L
	}
	return 0
}

func (c *CPU) setReg8(r isa.Reg8, v byte) {
	switch r {
	case isa.A:
		c.A = v
	case isa.B:
		c.B = v
	case isa.C:
		c.C = v
	case isa.D:
		c.D = v
	case isa.E:
		c.E = v
	case isa.H:
		c.H = v
	case isa.L:
		c.L = v
	}
}

func (c *CPU) push16(v uint16) {
	c.SP -= 2
	c.write16(c.SP, v)
}

func (c *CPU) pop16() uint16 {
	v := c.read16(c.SP)
	c.SP += 2
	return v
}

// busByteSource adapts *bus.Bus to isa.ByteSource, surfacing any
// mapper-layer error the bus recorded during the read.
type busByteSource struct{ b *bus.Bus }

func (s busByteSource) ReadByte(addr uint16) (byte, error) {
	v := s.b.Read(addr)
	if err := s.b.Err(); err != nil {
		return 0, err
	}
	return v, nil
}

// RunCycle advances the CPU by exactly one T-cycle, per the per-cycle
// contract: the timer always advances; if an instruction is already in
// flight its budget is decremented; otherwise a new instruction (or a
// pending interrupt) is serviced.
func (c *CPU) RunCycle() error {
	c.bus.Tick(1)

	if c.cyclesRemaining > 0 {
		c.cyclesRemaining--
		return nil
	}
	if c.halted {
		return c.tryWakeFromHalt()
	}
	return c.fetchDecodeExecute()
}

func (c *CPU) pendingInterruptBit() (uint, bool) {
	ie := c.bus.Read(0xFFFF)
	ifReg := c.bus.Read(0xFF0F) & 0x1F
	pending := ie & ifReg
	if pending == 0 {
		return 0, false
	}
	for bit := uint(0); bit < 5; bit++ {
		if pending&(1<<bit) != 0 {
			return bit, true
		}
	}
	return 0, false
}

// serviceInterrupt pushes PC and jumps to the handler for bit, charging
// the fixed 20 T-cycle dispatch cost (one of which is the current cycle).
func (c *CPU) serviceInterrupt(bit uint) {
	ifReg := c.bus.Read(0xFF0F) & 0x1F
	c.bus.Write(0xFF0F, ifReg&^(1<<bit))
	c.IME = false
	c.push16(c.PC)
	c.PC = 0x0040 + uint16(bit)*8
	c.cyclesRemaining = 19
}

// tryWakeFromHalt implements HALT without the hardware halt-bug: while
// asleep, a pending-and-enabled interrupt is serviced immediately; a
// pending-but-masked (IME=0) interrupt simply wakes the CPU to resume
// normal fetching, with no corruption of the next fetched byte.
func (c *CPU) tryWakeFromHalt() error {
	bit, has := c.pendingInterruptBit()
	if !has {
		return nil
	}
	c.halted = false
	if c.IME {
		c.serviceInterrupt(bit)
	}
	return nil
}

func (c *CPU) fetchDecodeExecute() error {
	instr, err := isa.Decode(busByteSource{c.bus}, c.PC)
	if err != nil {
		return &CpuError{PC: c.PC, Err: err}
	}
	if instr.Op == isa.OpIllegal {
		return &IllegalOpcodeError{Opcode: instr.Imm8, PC: c.PC}
	}

	eiWasQueued := c.eiQueued
	jumped, err := c.execute(instr)
	if err != nil {
		return err
	}
	if eiWasQueued {
		c.eiQueued = false
		c.IME = true
	}
	if !jumped {
		c.PC += uint16(instr.Length)
	}

	if c.IME {
		if bit, has := c.pendingInterruptBit(); has {
			c.serviceInterrupt(bit)
			return nil
		}
	}
	c.cyclesRemaining = int(instr.Cycles(jumped)) - 1
	return nil
}

func (c *CPU) readLd8(op isa.Ld8Operand) byte {
	switch op.Kind {
	case isa.Ld8Reg:
		return c.getReg8(op.Reg)
	case isa.Ld8Imm:
		return op.Imm
	case isa.Ld8MemBC:
		return c.read8(c.getBC())
	case isa.Ld8MemDE:
		return c.read8(c.getDE())
	case isa.Ld8MemHL:
		return c.read8(c.getHL())
	case isa.Ld8MemImm16:
		return c.read8(op.Addr)
	case isa.Ld8MemHighC:
		return c.read8(0xFF00 | uint16(c.C))
	case isa.Ld8MemHighImm:
		return c.read8(0xFF00 | uint16(op.Imm))
	}
	return 0xFF
}

func (c *CPU) writeLd8(op isa.Ld8Operand, v byte) {
	switch op.Kind {
	case isa.Ld8Reg:
		c.setReg8(op.Reg, v)
	case isa.Ld8MemBC:
		c.write8(c.getBC(), v)
	case isa.Ld8MemDE:
		c.write8(c.getDE(), v)
	case isa.Ld8MemHL:
		c.write8(c.getHL(), v)
	case isa.Ld8MemImm16:
		c.write8(op.Addr, v)
	case isa.Ld8MemHighC:
		c.write8(0xFF00|uint16(c.C), v)
	case isa.Ld8MemHighImm:
		c.write8(0xFF00|uint16(op.Imm), v)
	}
}

func (c *CPU) readArith(src isa.ArithSrc) byte {
	switch src.Kind {
	case isa.ArithImm:
		return src.Imm
	case isa.ArithMemHL:
		return c.read8(c.getHL())
	default:
		return c.getReg8(src.Reg)
	}
}

func (c *CPU) readPref(t isa.PrefArithTarget) byte {
	if t.Kind == isa.PrefMemHL {
		return c.read8(c.getHL())
	}
	return c.getReg8(t.Reg)
}

func (c *CPU) writePref(t isa.PrefArithTarget, v byte) {
	if t.Kind == isa.PrefMemHL {
		c.write8(c.getHL(), v)
		return
	}
	c.setReg8(t.Reg, v)
}

// execute performs the semantics of instr and reports whether it
// performed a jump/branch (so the caller skips the normal PC advance).
func (c *CPU) execute(instr isa.Instruction) (jumped bool, err error) {
	switch instr.Op {
	case isa.OpNop:
		// nothing

	case isa.OpLD8:
		c.writeLd8(instr.Ld8Dst, c.readLd8(instr.Ld8Src))

	case isa.OpLD16:
		switch instr.Ld16Dst.Kind {
		case isa.Ld16Reg:
			c.setReg16(instr.Ld16Dst.Reg, instr.Ld16Src.Imm)
		case isa.Ld16MemImm16:
			c.write16(instr.Ld16Dst.Addr, c.getReg16(instr.Ld16Src.Reg))
		}

	case isa.OpLDHLSPi8:
		res, h, cy := addSPSigned(c.SP, instr.SImm8)
		c.setHL(res)
		c.setZNHC(false, false, h, cy)

	case isa.OpLDSPHL:
		c.SP = c.getHL()

	case isa.OpLoadAtoHLI:
		c.write8(c.getHL(), c.A)
		c.setHL(c.getHL() + 1)
	case isa.OpLoadHLItoA:
		c.A = c.read8(c.getHL())
		c.setHL(c.getHL() + 1)
	case isa.OpLoadAtoHLD:
		c.write8(c.getHL(), c.A)
		c.setHL(c.getHL() - 1)
	case isa.OpLoadHLDtoA:
		c.A = c.read8(c.getHL())
		c.setHL(c.getHL() - 1)

	case isa.OpPush:
		c.push16(c.getReg16(instr.Reg16))
	case isa.OpPop:
		v := c.pop16()
		if instr.Reg16 == isa.AF {
			v &^= 0x000F
		}
		c.setReg16(instr.Reg16, v)

	case isa.OpAdd:
		v := c.readArith(instr.Arith)
		res, z, h, cy := add8(c.A, v)
		c.A = res
		c.setZNHC(z, false, h, cy)
	case isa.OpAdc:
		v := c.readArith(instr.Arith)
		res, z, h, cy := adc8(c.A, v, c.flagSet(flagC))
		c.A = res
		c.setZNHC(z, false, h, cy)
	case isa.OpSub:
		v := c.readArith(instr.Arith)
		res, z, h, cy := sub8(c.A, v)
		c.A = res
		c.setZNHC(z, true, h, cy)
	case isa.OpSbc:
		v := c.readArith(instr.Arith)
		res, z, h, cy := sbc8(c.A, v, c.flagSet(flagC))
		c.A = res
		c.setZNHC(z, true, h, cy)
	case isa.OpAnd:
		v := c.readArith(instr.Arith)
		c.A &= v
		c.setZNHC(c.A == 0, false, true, false)
	case isa.OpOr:
		v := c.readArith(instr.Arith)
		c.A |= v
		c.setZNHC(c.A == 0, false, false, false)
	case isa.OpXor:
		v := c.readArith(instr.Arith)
		c.A ^= v
		c.setZNHC(c.A == 0, false, false, false)
	case isa.OpCp:
		v := c.readArith(instr.Arith)
		_, z, h, cy := sub8(c.A, v)
		c.setZNHC(z, true, h, cy)

	case isa.OpAddHL:
		hl := c.getHL()
		v := c.getReg16(instr.Reg16)
		r := uint32(hl) + uint32(v)
		h := ((hl & 0x0FFF) + (v & 0x0FFF)) > 0x0FFF
		cy := r > 0xFFFF
		c.setHL(uint16(r))
		c.F = (c.F & flagZ) | boolFlag(h, flagH) | boolFlag(cy, flagC)
	case isa.OpAddSPi8:
		res, h, cy := addSPSigned(c.SP, instr.SImm8)
		c.SP = res
		c.setZNHC(false, false, h, cy)

	case isa.OpInc:
		switch instr.IncDec.Kind {
		case isa.IncDecReg8:
			v := c.getReg8(instr.IncDec.Reg8)
			res := v + 1
			c.setReg8(instr.IncDec.Reg8, res)
			c.F = boolFlag(res == 0, flagZ) | (c.F & flagC) | boolFlag((v&0x0F) == 0x0F, flagH)
		case isa.IncDecMemHL:
			v := c.read8(c.getHL())
			res := v + 1
			c.write8(c.getHL(), res)
			c.F = boolFlag(res == 0, flagZ) | (c.F & flagC) | boolFlag((v&0x0F) == 0x0F, flagH)
		case isa.IncDecReg16:
			c.setReg16(instr.IncDec.Reg16, c.getReg16(instr.IncDec.Reg16)+1)
		}
	case isa.OpDec:
		switch instr.IncDec.Kind {
		case isa.IncDecReg8:
			v := c.getReg8(instr.IncDec.Reg8)
			res := v - 1
			c.setReg8(instr.IncDec.Reg8, res)
			c.F = boolFlag(res == 0, flagZ) | flagN | (c.F & flagC) | boolFlag((v&0x0F) == 0x00, flagH)
		case isa.IncDecMemHL:
			v := c.read8(c.getHL())
			res := v - 1
			c.write8(c.getHL(), res)
			c.F = boolFlag(res == 0, flagZ) | flagN | (c.F & flagC) | boolFlag((v&0x0F) == 0x00, flagH)
		case isa.IncDecReg16:
			c.setReg16(instr.IncDec.Reg16, c.getReg16(instr.IncDec.Reg16)-1)
		}

	case isa.OpRLCA:
		c.A, c.F = rlc(c.A)
		c.F &^= flagZ
	case isa.OpRRCA:
		c.A, c.F = rrc(c.A)
		c.F &^= flagZ
	case isa.OpRLA:
		c.A, c.F = rl(c.A, c.flagSet(flagC))
		c.F &^= flagZ
	case isa.OpRRA:
		c.A, c.F = rr(c.A, c.flagSet(flagC))
		c.F &^= flagZ
	case isa.OpDAA:
		c.daa()
	case isa.OpCPL:
		c.A = ^c.A
		c.F |= flagN | flagH
	case isa.OpSCF:
		c.F = (c.F & flagZ) | flagC
	case isa.OpCCF:
		wasC := c.flagSet(flagC)
		c.F = (c.F & flagZ) | boolFlag(!wasC, flagC)

	case isa.OpRLC:
		v, f := rlc(c.readPref(instr.Pref))
		c.writePref(instr.Pref, v)
		c.F = f
	case isa.OpRRC:
		v, f := rrc(c.readPref(instr.Pref))
		c.writePref(instr.Pref, v)
		c.F = f
	case isa.OpRL:
		v, f := rl(c.readPref(instr.Pref), c.flagSet(flagC))
		c.writePref(instr.Pref, v)
		c.F = f
	case isa.OpRR:
		v, f := rr(c.readPref(instr.Pref), c.flagSet(flagC))
		c.writePref(instr.Pref, v)
		c.F = f
	case isa.OpSLA:
		x := c.readPref(instr.Pref)
		res := x << 1
		c.writePref(instr.Pref, res)
		c.F = boolFlag(res == 0, flagZ) | boolFlag(x&0x80 != 0, flagC)
	case isa.OpSRA:
		x := c.readPref(instr.Pref)
		res := (x >> 1) | (x & 0x80)
		c.writePref(instr.Pref, res)
		c.F = boolFlag(res == 0, flagZ) | boolFlag(x&0x01 != 0, flagC)
	case isa.OpSwap:
		x := c.readPref(instr.Pref)
		res := (x << 4) | (x >> 4)
		c.writePref(instr.Pref, res)
		c.F = boolFlag(res == 0, flagZ)
	case isa.OpSRL:
		x := c.readPref(instr.Pref)
		res := x >> 1
		c.writePref(instr.Pref, res)
		c.F = boolFlag(res == 0, flagZ) | boolFlag(x&0x01 != 0, flagC)

	case isa.OpBit:
		x := c.readPref(instr.Pref)
		c.F = boolFlag(x&(1<<instr.Bit) == 0, flagZ) | flagH | (c.F & flagC)
	case isa.OpRes:
		x := c.readPref(instr.Pref)
		c.writePref(instr.Pref, x&^(1<<instr.Bit))
	case isa.OpSet:
		x := c.readPref(instr.Pref)
		c.writePref(instr.Pref, x|(1<<instr.Bit))

	case isa.OpJP:
		c.PC = instr.Imm16
		jumped = true
	case isa.OpJPCond:
		if c.condTrue(instr.Cond) {
			c.PC = instr.Imm16
			jumped = true
		}
	case isa.OpJR:
		c.PC = uint16(int32(c.PC) + int32(instr.Length) + int32(instr.SImm8))
		jumped = true
	case isa.OpJRCond:
		if c.condTrue(instr.Cond) {
			c.PC = uint16(int32(c.PC) + int32(instr.Length) + int32(instr.SImm8))
			jumped = true
		}
	case isa.OpJPHL:
		c.PC = c.getHL()
		jumped = true

	case isa.OpCall:
		c.push16(c.PC + uint16(instr.Length))
		c.PC = instr.Imm16
		jumped = true
	case isa.OpCallCond:
		if c.condTrue(instr.Cond) {
			c.push16(c.PC + uint16(instr.Length))
			c.PC = instr.Imm16
			jumped = true
		}
	case isa.OpRet:
		c.PC = c.pop16()
		jumped = true
	case isa.OpRetCond:
		if c.condTrue(instr.Cond) {
			c.PC = c.pop16()
			jumped = true
		}
	case isa.OpReti:
		c.PC = c.pop16()
		c.IME = true
		jumped = true
	case isa.OpRst:
		c.push16(c.PC + uint16(instr.Length))
		c.PC = uint16(instr.Rst)
		jumped = true

	case isa.OpEI:
		c.eiQueued = true
	case isa.OpDI:
		c.IME = false
		c.eiQueued = false
	case isa.OpHalt:
		c.halted = true
	case isa.OpStop:
		log.Printf("cpu: STOP executed at PC=0x%04X; treated as a no-op", c.PC)

	case isa.OpIllegal:
		// Unreachable: fetchDecodeExecute intercepts this before calling
		// execute.
	}
	return jumped, nil
}

func (c *CPU) condTrue(cond isa.Condition) bool {
	switch cond {
	case isa.CondZ:
		return c.flagSet(flagZ)
	case isa.CondNZ:
		return !c.flagSet(flagZ)
	case isa.CondC:
		return c.flagSet(flagC)
	case isa.CondNC:
		return !c.flagSet(flagC)
	}
	return false
}

func boolFlag(b bool, mask byte) byte {
	if b {
		return mask
	}
	return 0
}

func addSPSigned(sp uint16, imm int8) (res uint16, h, cy bool) {
	res = uint16(int32(sp) + int32(imm))
	// Half-carry/carry are computed on the low byte as an unsigned 8-bit add,
	// matching hardware's treatment of SP+i8 regardless of imm's sign.
	lo := byte(sp)
	b := byte(imm)
	h = ((lo & 0x0F) + (b & 0x0F)) > 0x0F
	cy = (uint16(lo) + uint16(b)) > 0xFF
	return
}

func rlc(x byte) (res, f byte) {
	cy := x&0x80 != 0
	res = (x << 1) | (x >> 7)
	f = boolFlag(res == 0, flagZ) | boolFlag(cy, flagC)
	return
}

func rrc(x byte) (res, f byte) {
	cy := x&0x01 != 0
	res = (x >> 1) | (x << 7)
	f = boolFlag(res == 0, flagZ) | boolFlag(cy, flagC)
	return
}

func rl(x byte, carryIn bool) (res, f byte) {
	cy := x&0x80 != 0
	var ci byte
	if carryIn {
		ci = 1
	}
	res = (x << 1) | ci
	f = boolFlag(res == 0, flagZ) | boolFlag(cy, flagC)
	return
}

func rr(x byte, carryIn bool) (res, f byte) {
	cy := x&0x01 != 0
	var ci byte
	if carryIn {
		ci = 0x80
	}
	res = (x >> 1) | ci
	f = boolFlag(res == 0, flagZ) | boolFlag(cy, flagC)
	return
}

// daa performs BCD correction on A after an 8-bit add/sub, using the
// Subtract/HalfCarry/Carry flags left by the previous instruction.
func (c *CPU) daa() {
	a := int(c.A)
	carry := c.flagSet(flagC)
	half := c.flagSet(flagH)
	if !c.flagSet(flagN) {
		if carry || a > 0x99 {
			a += 0x60
			carry = true
		}
		if half || (a&0x0F) > 0x09 {
			a += 0x06
		}
	} else {
		if carry {
			a -= 0x60
		}
		if half {
			a -= 0x06
		}
	}
	c.A = byte(a)
	c.F = boolFlag(c.A == 0, flagZ) | (c.F & flagN) | boolFlag(carry, flagC)
}
