// Package emu provides functional R32 emulation.
package emu

import "github.com/sarchlab/r32sim/insts"

// LoadStoreUnit implements R32 memory access and stack operations.
type LoadStoreUnit struct {
	regFile *RegFile
	memory  Memory
}

// NewLoadStoreUnit creates a new LoadStoreUnit connected to the given
// register file and memory.
func NewLoadStoreUnit(regFile *RegFile, memory Memory) *LoadStoreUnit {
	return &LoadStoreUnit{
		regFile: regFile,
		memory:  memory,
	}
}

// LoadByte performs rd = mem[rn] with zero extension.
func (lsu *LoadStoreUnit) LoadByte(rd, rn insts.Reg) error {
	value, err := lsu.memory.Read8(lsu.regFile.ReadInt(rn))
	if err != nil {
		return err
	}
	lsu.regFile.WriteInt(rd, uint32(value))
	return nil
}

// StoreByte performs mem[rd] = rs[7:0].
func (lsu *LoadStoreUnit) StoreByte(rd, rs insts.Reg) error {
	return lsu.memory.Write8(lsu.regFile.ReadInt(rd), uint8(lsu.regFile.ReadInt(rs)))
}

// Push stores reg as a big-endian word at sp, then advances sp by 4.
func (lsu *LoadStoreUnit) Push(reg insts.Reg) error {
	if err := lsu.memory.Write32(lsu.regFile.SP, lsu.regFile.ReadInt(reg)); err != nil {
		return err
	}
	lsu.regFile.SP += 4
	return nil
}

// Pop loads the word at sp-4 into reg, then moves sp back by 4. Popping
// into sp leaves sp at the loaded value minus 4.
func (lsu *LoadStoreUnit) Pop(reg insts.Reg) error {
	value, err := lsu.memory.Read32(lsu.regFile.SP - 4)
	if err != nil {
		return err
	}
	lsu.regFile.WriteInt(reg, value)
	lsu.regFile.SP -= 4
	return nil
}
