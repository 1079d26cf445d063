// Package emu provides functional R32 emulation.
package emu

import (
	"math"
	"math/bits"

	"github.com/sarchlab/r32sim/insts"
)

// Flag policy constants. Results are judged as 24-bit signed magnitudes
// regardless of the 32-bit register width.
const (
	maxPositive24 uint32 = 0x7FFFFF
	span24        uint32 = 0x1000000
)

// NeededCtrl applies the flag policy to a value. Values above 0x7FFFFF are
// negative and are rewritten as value - 0x1000000 (modulo 2^32).
func NeededCtrl(value uint32) (adjusted uint32, zero, negative bool) {
	switch {
	case value > maxPositive24:
		return value - span24, false, true
	case value == 0:
		return 0, true, false
	default:
		return value, false, false
	}
}

// ALU implements R32 integer arithmetic and logic operations.
type ALU struct {
	regFile *RegFile
}

// NewALU creates a new ALU connected to the given register file.
func NewALU(regFile *RegFile) *ALU {
	return &ALU{regFile: regFile}
}

// SetNeededCtrl applies the flag policy to the value held in reg, rewriting
// the register and updating ZERO and NEG. A negative result sets NEG and
// leaves ZERO as it was.
func (a *ALU) SetNeededCtrl(reg insts.Reg) {
	adjusted, zero, negative := NeededCtrl(a.regFile.ReadInt(reg))
	if negative {
		a.regFile.WriteInt(reg, adjusted)
		a.regFile.SetFlag(CtrlNeg)
		return
	}
	a.regFile.SetFlagTo(CtrlZero, zero)
	a.regFile.ClearFlag(CtrlNeg)
}

// result writes value to rd and updates the flags.
func (a *ALU) result(rd insts.Reg, value uint32) {
	a.regFile.WriteInt(rd, value)
	a.SetNeededCtrl(rd)
}

// AND performs rd = rn & op2.
func (a *ALU) AND(rd, rn insts.Reg, op2 uint32) {
	a.result(rd, a.regFile.ReadInt(rn)&op2)
}

// OR performs rd = rn | op2.
func (a *ALU) OR(rd, rn insts.Reg, op2 uint32) {
	a.result(rd, a.regFile.ReadInt(rn)|op2)
}

// XOR performs rd = rn ^ op2.
func (a *ALU) XOR(rd, rn insts.Reg, op2 uint32) {
	a.result(rd, a.regFile.ReadInt(rn)^op2)
}

// NOT performs rd = ^rn.
func (a *ALU) NOT(rd, rn insts.Reg) {
	a.result(rd, ^a.regFile.ReadInt(rn))
}

// MOVE performs rd = rn.
func (a *ALU) MOVE(rd, rn insts.Reg) {
	a.result(rd, a.regFile.ReadInt(rn))
}

// LLSH performs a logical left shift. Shifts of 32 or more yield 0.
func (a *ALU) LLSH(rd, rn insts.Reg, amount uint32) {
	a.result(rd, a.regFile.ReadInt(rn)<<amount)
}

// ALSH performs an arithmetic left shift, which in two's complement has
// the same bits as a logical left shift.
func (a *ALU) ALSH(rd, rn insts.Reg, amount uint32) {
	a.result(rd, uint32(int32(a.regFile.ReadInt(rn))<<amount))
}

// LRSH performs a logical right shift.
func (a *ALU) LRSH(rd, rn insts.Reg, amount uint32) {
	a.result(rd, a.regFile.ReadInt(rn)>>amount)
}

// ARSH performs an arithmetic right shift, replicating bit 31.
func (a *ALU) ARSH(rd, rn insts.Reg, amount uint32) {
	a.result(rd, uint32(int32(a.regFile.ReadInt(rn))>>amount))
}

// ADD performs rd = rn + op2 (wrapping).
func (a *ALU) ADD(rd, rn insts.Reg, op2 uint32) {
	a.result(rd, a.regFile.ReadInt(rn)+op2)
}

// SUB performs rd = rn - op2 (wrapping).
func (a *ALU) SUB(rd, rn insts.Reg, op2 uint32) {
	a.result(rd, a.regFile.ReadInt(rn)-op2)
}

// MULT performs rd = rn * op2, keeping the low 32 bits.
func (a *ALU) MULT(rd, rn insts.Reg, op2 uint32) {
	a.result(rd, a.regFile.ReadInt(rn)*op2)
}

// INC performs rd = rd + 1.
func (a *ALU) INC(rd insts.Reg) {
	a.result(rd, a.regFile.ReadInt(rd)+1)
}

// LoadImm performs rd = lit.
func (a *ALU) LoadImm(rd insts.Reg, lit uint32) {
	a.result(rd, lit)
}

// POPCNT performs rd = popcount(rn). Flags are left untouched.
func (a *ALU) POPCNT(rd, rn insts.Reg) {
	a.regFile.WriteInt(rd, uint32(bits.OnesCount32(a.regFile.ReadInt(rn))))
}

// SQRT replaces rd with its integer square root.
func (a *ALU) SQRT(rd insts.Reg) {
	a.result(rd, isqrt(a.regFile.ReadInt(rd)))
}

// isqrt returns floor(sqrt(v)).
func isqrt(v uint32) uint32 {
	r := uint32(math.Sqrt(float64(v)))
	// float64 is exact for 32-bit inputs, but guard the boundary anyway.
	for uint64(r)*uint64(r) > uint64(v) {
		r--
	}
	for uint64(r+1)*uint64(r+1) <= uint64(v) {
		r++
	}
	return r
}
