// Package emu provides functional R32 emulation.
package emu

import "github.com/sarchlab/r32sim/insts"

// JumpOffset decodes the displacement of JMP_WITH_OFFSET. When bit 23 is
// set the remaining 23 bits are a forward displacement; otherwise the whole
// literal is a backward displacement.
func JumpOffset(lit uint32) int32 {
	lit = insts.Literal(lit, 24)
	if lit&0x800000 != 0 {
		return int32(lit &^ 0x800000)
	}
	return -int32(lit)
}

// BranchUnit implements R32 control flow and comparisons.
type BranchUnit struct {
	regFile *RegFile
}

// NewBranchUnit creates a new BranchUnit connected to the given register file.
func NewBranchUnit(regFile *RegFile) *BranchUnit {
	return &BranchUnit{regFile: regFile}
}

// JMP jumps to an absolute address.
func (b *BranchUnit) JMP(addr uint32) {
	b.regFile.PC = addr
}

// JMPOffset moves the PC by the displacement encoded in lit. The PC has
// already been advanced past the jump instruction.
func (b *BranchUnit) JMPOffset(lit uint32) {
	b.regFile.PC += uint32(JumpOffset(lit))
}

// Taken reports whether the last comparison was true.
func (b *BranchUnit) Taken() bool {
	return b.regFile.Flag(CtrlTestTrue)
}

// BNCH jumps to addr when the last comparison was true.
func (b *BranchUnit) BNCH(addr uint32) bool {
	if !b.Taken() {
		return false
	}
	b.JMP(addr)
	return true
}

// BNCHOffset performs JMPOffset when the last comparison was true.
func (b *BranchUnit) BNCHOffset(lit uint32) bool {
	if !b.Taken() {
		return false
	}
	b.JMPOffset(lit)
	return true
}

// CALL saves the PC in ra and jumps to addr. There is a single return slot;
// nested calls must save ra themselves.
func (b *BranchUnit) CALL(addr uint32) {
	b.regFile.RA = b.regFile.PC
	b.regFile.PC = addr
}

// RET jumps to ra.
func (b *BranchUnit) RET() {
	b.regFile.PC = b.regFile.RA
}

// TestEQ sets TEST_TRUE when lhs == rhs.
func (b *BranchUnit) TestEQ(lhs, rhs insts.Reg) {
	b.regFile.SetFlagTo(CtrlTestTrue, b.regFile.ReadInt(lhs) == b.regFile.ReadInt(rhs))
}

// TestNEQ sets TEST_TRUE when lhs != rhs.
func (b *BranchUnit) TestNEQ(lhs, rhs insts.Reg) {
	b.regFile.SetFlagTo(CtrlTestTrue, b.regFile.ReadInt(lhs) != b.regFile.ReadInt(rhs))
}

// TestCtrlNeg copies NEG into TEST_TRUE.
func (b *BranchUnit) TestCtrlNeg() {
	b.regFile.SetFlagTo(CtrlTestTrue, b.regFile.Flag(CtrlNeg))
}
