// Package emu provides functional R32 emulation.
package emu

import (
	"fmt"
	"io"
	"math"

	"github.com/sarchlab/r32sim/insts"
)

// Control register bits.
const (
	CtrlZero     uint32 = 1 << 0
	CtrlCarry    uint32 = 1 << 1 // reserved
	CtrlNeg      uint32 = 1 << 2
	CtrlTestTrue uint32 = 1 << 3
	CtrlExtFnc   uint32 = 1 << 31
)

// RegFile represents the R32 register file.
type RegFile struct {
	// A, B and X are the general-purpose registers.
	A, B, X uint32

	// FA, FB and FX are the floating-point registers.
	FA, FB, FX float64

	// SP is the stack pointer.
	SP uint32

	// RA holds the return address of the last CALL_FN_I.
	RA uint32

	// PC is the program counter.
	PC uint32

	// Ctrl holds the condition flags and the extended-mode bit.
	Ctrl uint32

	// zero backs both z and the float register at index 0. It must stay 0.
	zero uint64
}

// Z returns the zero register.
func (r *RegFile) Z() uint32 {
	return uint32(r.zero)
}

// ZeroIntact reports whether the zero register still holds 0.
func (r *RegFile) ZeroIntact() bool {
	return r.zero == 0
}

// ReadInt reads an integer register slot.
func (r *RegFile) ReadInt(reg insts.Reg) uint32 {
	if reg.IsZero() {
		return uint32(r.zero)
	}

	switch reg.Index {
	case insts.IndexA:
		return r.A
	case insts.IndexB:
		return r.B
	case insts.IndexX:
		return r.X
	case insts.IndexSP:
		return r.SP
	case insts.IndexRA:
		return r.RA
	default:
		return 0
	}
}

// WriteInt writes an integer register slot. Writing z is not prevented
// here; the emulator checks the zero register before every tick.
func (r *RegFile) WriteInt(reg insts.Reg, value uint32) {
	if reg.IsZero() {
		r.zero = uint64(value)
		return
	}

	switch reg.Index {
	case insts.IndexA:
		r.A = value
	case insts.IndexB:
		r.B = value
	case insts.IndexX:
		r.X = value
	case insts.IndexSP:
		r.SP = value
	case insts.IndexRA:
		r.RA = value
	}
}

// ReadFloat reads a float register slot.
func (r *RegFile) ReadFloat(reg insts.Reg) float64 {
	if reg.IsZero() {
		return math.Float64frombits(r.zero)
	}

	switch reg.Index {
	case insts.IndexFA:
		return r.FA
	case insts.IndexFB:
		return r.FB
	case insts.IndexFX:
		return r.FX
	default:
		return 0
	}
}

// WriteFloat writes a float register slot. Index 0 aliases z, so any value
// other than +0.0 breaks the zero register.
func (r *RegFile) WriteFloat(reg insts.Reg, value float64) {
	if reg.IsZero() {
		r.zero = math.Float64bits(value)
		return
	}

	switch reg.Index {
	case insts.IndexFA:
		r.FA = value
	case insts.IndexFB:
		r.FB = value
	case insts.IndexFX:
		r.FX = value
	}
}

// Flag reports whether any bit of mask is set in Ctrl.
func (r *RegFile) Flag(mask uint32) bool {
	return r.Ctrl&mask != 0
}

// SetFlag sets the bits of mask in Ctrl.
func (r *RegFile) SetFlag(mask uint32) {
	r.Ctrl |= mask
}

// ClearFlag clears the bits of mask in Ctrl.
func (r *RegFile) ClearFlag(mask uint32) {
	r.Ctrl &^= mask
}

// SetFlagTo sets or clears the bits of mask.
func (r *RegFile) SetFlagTo(mask uint32, on bool) {
	if on {
		r.SetFlag(mask)
	} else {
		r.ClearFlag(mask)
	}
}

// Reset restores the power-on register state.
func (r *RegFile) Reset(pc, sp uint32) {
	*r = RegFile{PC: pc, SP: sp}
}

// Dump writes a human-readable listing of all registers.
func (r *RegFile) Dump(w io.Writer) error {
	_, err := fmt.Fprintf(w,
		"====== Processor Registers ======\n"+
			"| GP Registers\n"+
			"|   a = %#x  b = %#x  x = %#x\n"+
			"| FP Registers\n"+
			"|   fa = %.5g  fb = %.5g  fx = %.5g\n"+
			"| Special Registers\n"+
			"|   sp = %#x  ra = %#x  pc = %#x\n"+
			"| Zero\n"+
			"|   z = %d\n"+
			"| CTRL Register\n"+
			"|   ctrl = %#x\n"+
			"=================================\n",
		r.A, r.B, r.X,
		r.FA, r.FB, r.FX,
		r.SP, r.RA, r.PC,
		r.Z(),
		r.Ctrl)
	return err
}
