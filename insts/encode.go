package insts

import "encoding/binary"

// EncodeDSS builds a [op][dest][src1][src2] word.
func EncodeDSS(opcode uint8, dest, src1, src2 uint8) uint32 {
	return uint32(opcode)<<24 | uint32(dest)<<16 | uint32(src1)<<8 | uint32(src2)
}

// EncodeDSI builds a [op][dest][src][imm] word.
func EncodeDSI(opcode uint8, dest, src uint8, imm uint8) uint32 {
	return EncodeDSS(opcode, dest, src, imm)
}

// EncodePair builds a comparison word with lhs in bits [15:8] and rhs in
// bits [7:0].
func EncodePair(opcode uint8, lhs, rhs uint8) uint32 {
	return EncodeDSS(opcode, 0, lhs, rhs)
}

// EncodeSingle builds a word naming one register in bits [7:0].
func EncodeSingle(opcode uint8, reg uint8) uint32 {
	return EncodeDSS(opcode, 0, 0, reg)
}

// EncodeLiteral builds a [op][lit24] word. Bits above 24 of lit are dropped.
func EncodeLiteral(opcode uint8, lit uint32) uint32 {
	return uint32(opcode)<<24 | Literal(lit, 24)
}

// Bytes serializes words in big-endian memory order.
func Bytes(words ...uint32) []byte {
	out := make([]byte, 4*len(words))
	for i, w := range words {
		binary.BigEndian.PutUint32(out[4*i:], w)
	}
	return out
}
