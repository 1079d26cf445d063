// Package insts provides R32 instruction definitions and decoding.
//
// Every instruction is a 32-bit big-endian word. The most significant byte
// is the opcode; the low 24 bits hold the operands in one of the layouts
// described by Format. A second opcode table (ExtOp) is used for the single
// instruction that follows EXT_INSTR.
//
// Usage:
//
//	decoder := insts.NewDecoder()
//	inst := decoder.Decode(0x81010203) // ADD_DSS a, b, x
//	d, s1, s2, err := insts.DecodeDSS(inst.Word, insts.ClassInt)
package insts
