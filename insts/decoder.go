package insts

import "math"

// Instruction represents a decoded R32 instruction word. Register fields
// hold raw indices; DecodeDSS and friends resolve them to slots of a class.
type Instruction struct {
	Word     uint32 // Raw instruction word
	Opcode   uint8  // Top byte of Word
	Extended bool   // Decoded against the extended table

	Op     Op     // Normal table opcode (when !Extended)
	ExtOp  ExtOp  // Extended table opcode (when Extended)
	Format Format // Operand layout, FormatUnknown for unknown opcodes

	Dest uint8 // bits [23:16]
	Src1 uint8 // bits [15:8]
	Src2 uint8 // bits [7:0]

	Imm8  uint32 // bits [7:0]
	Lit24 uint32 // bits [23:0]
}

// Known reports whether the opcode exists in the table it was decoded with.
func (inst *Instruction) Known() bool {
	return inst.Format != FormatUnknown
}

// Err returns an *OpcodeError for an unknown instruction, nil otherwise.
func (inst *Instruction) Err() error {
	if inst.Known() {
		return nil
	}
	return &OpcodeError{Opcode: inst.Opcode, Word: inst.Word, Extended: inst.Extended}
}

// Name returns the mnemonic of the instruction.
func (inst *Instruction) Name() string {
	if inst.Extended {
		return inst.ExtOp.String()
	}
	return inst.Op.String()
}

// Decoder decodes R32 instruction words.
type Decoder struct{}

// NewDecoder creates a new instruction decoder.
func NewDecoder() *Decoder {
	return &Decoder{}
}

// Decode decodes a word against the normal opcode table.
func (d *Decoder) Decode(word uint32) *Instruction {
	inst := d.fields(word)
	inst.Op = Op(inst.Opcode)
	inst.Format = inst.Op.Format()
	if !inst.Op.Valid() {
		inst.Op = OpUnknown
	}
	return inst
}

// DecodeExtended decodes a word against the extended opcode table.
func (d *Decoder) DecodeExtended(word uint32) *Instruction {
	inst := d.fields(word)
	inst.Extended = true
	inst.ExtOp = ExtOp(inst.Opcode)
	inst.Format = inst.ExtOp.Format()
	if !inst.ExtOp.Valid() {
		inst.ExtOp = ExtOpUnknown
	}
	return inst
}

func (d *Decoder) fields(word uint32) *Instruction {
	dest, src1, src2 := DSSFields(word)
	return &Instruction{
		Word:   word,
		Opcode: OpcodeOf(word),
		Dest:   dest,
		Src1:   src1,
		Src2:   src2,
		Imm8:   Literal(word, 8),
		Lit24:  Literal(word, 24),
	}
}

// OpcodeOf returns the top 8 bits of an instruction word.
func OpcodeOf(word uint32) uint8 {
	return uint8(word >> 24)
}

// DSSFields extracts the three register indices of the DSS layout.
func DSSFields(word uint32) (dest, src1, src2 uint8) {
	return uint8(word >> 16), uint8(word >> 8), uint8(word)
}

// Literal returns the low n bits of word.
func Literal(word uint32, n uint) uint32 {
	if n >= 32 {
		return word
	}
	return word & (uint32(1)<<n - 1)
}

// FloatLiteral returns the low n bits of word shifted into the top of a
// float32 bit pattern, widened to float64. An 8-bit literal therefore
// carries the sign, exponent and first mantissa bit; a 24-bit literal
// carries all but the last 8 mantissa bits.
func FloatLiteral(word uint32, n uint) float64 {
	if n > 32 {
		n = 32
	}
	bits := Literal(word, n) << (32 - n)
	return float64(math.Float32frombits(bits))
}

// DecodeDSS resolves the [dest][src1][src2] fields of word.
func DecodeDSS(word uint32, class RegClass) (dest, src1, src2 Reg, err error) {
	d, s1, s2 := DSSFields(word)
	if dest, err = Resolve(class, d); err != nil {
		return
	}
	if src1, err = Resolve(class, s1); err != nil {
		return
	}
	src2, err = Resolve(class, s2)
	return
}

// DecodeDSI resolves the [dest][src] fields of word. The low byte is the
// immediate and is read with Literal(word, 8).
func DecodeDSI(word uint32, class RegClass) (dest, src Reg, err error) {
	d, s, _ := DSSFields(word)
	if dest, err = Resolve(class, d); err != nil {
		return
	}
	src, err = Resolve(class, s)
	return
}

// DecodePair resolves the two compared registers: lhs from bits [15:8] and
// rhs from bits [7:0].
func DecodePair(word uint32, class RegClass) (lhs, rhs Reg, err error) {
	_, l, r := DSSFields(word)
	if lhs, err = Resolve(class, l); err != nil {
		return
	}
	rhs, err = Resolve(class, r)
	return
}

// DecodeSingle resolves the register in bits [7:0].
func DecodeSingle(word uint32, class RegClass) (Reg, error) {
	return Resolve(class, uint8(word))
}
