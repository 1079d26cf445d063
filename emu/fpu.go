// Package emu provides functional R32 emulation.
package emu

import (
	"math"

	"github.com/sarchlab/r32sim/insts"
)

// FPU implements the extended floating-point operations. None of them
// touch the integer condition flags.
type FPU struct {
	regFile *RegFile
}

// NewFPU creates a new FPU connected to the given register file.
func NewFPU(regFile *RegFile) *FPU {
	return &FPU{regFile: regFile}
}

// FADD performs fd = fn + op2.
func (f *FPU) FADD(fd, fn insts.Reg, op2 float64) {
	f.regFile.WriteFloat(fd, f.regFile.ReadFloat(fn)+op2)
}

// FSUB performs fd = fn - op2.
func (f *FPU) FSUB(fd, fn insts.Reg, op2 float64) {
	f.regFile.WriteFloat(fd, f.regFile.ReadFloat(fn)-op2)
}

// FMULT performs fd = fn * op2.
func (f *FPU) FMULT(fd, fn insts.Reg, op2 float64) {
	f.regFile.WriteFloat(fd, f.regFile.ReadFloat(fn)*op2)
}

// FSQRT replaces fd with its square root. Negative inputs give NaN.
func (f *FPU) FSQRT(fd insts.Reg) {
	f.regFile.WriteFloat(fd, math.Sqrt(f.regFile.ReadFloat(fd)))
}

// LoadImm performs fd = value.
func (f *FPU) LoadImm(fd insts.Reg, value float64) {
	f.regFile.WriteFloat(fd, value)
}
