package insts_test

import (
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/r32sim/insts"
)

var _ = Describe("Decoder", func() {
	var decoder *insts.Decoder

	BeforeEach(func() {
		decoder = insts.NewDecoder()
	})

	Describe("Decode", func() {
		// LD_IM_A 0x102030 -> 0xA5102030
		It("should decode LD_IM_A with a 24-bit literal", func() {
			inst := decoder.Decode(0xA5102030)

			Expect(inst.Op).To(Equal(insts.OpLDIMA))
			Expect(inst.Opcode).To(Equal(uint8(0xA5)))
			Expect(inst.Format).To(Equal(insts.FormatLiteral))
			Expect(inst.Lit24).To(Equal(uint32(0x102030)))
			Expect(inst.Word).To(Equal(uint32(0xA5102030)))
		})

		// XOR_R a, a, z -> 0x05010100
		It("should decode XOR_R register fields", func() {
			inst := decoder.Decode(0x05010100)

			Expect(inst.Op).To(Equal(insts.OpXORR))
			Expect(inst.Format).To(Equal(insts.FormatDSS))
			Expect(inst.Dest).To(Equal(uint8(1)))
			Expect(inst.Src1).To(Equal(uint8(1)))
			Expect(inst.Src2).To(Equal(uint8(0)))
		})

		// ADD_DSI sp, sp, 4 -> 0x91040404
		It("should decode ADD_DSI with an 8-bit immediate", func() {
			inst := decoder.Decode(0x91040404)

			Expect(inst.Op).To(Equal(insts.OpADDDSI))
			Expect(inst.Format).To(Equal(insts.FormatDSI))
			Expect(inst.Dest).To(Equal(insts.IndexSP))
			Expect(inst.Src1).To(Equal(insts.IndexSP))
			Expect(inst.Imm8).To(Equal(uint32(4)))
		})

		It("should flag reserved opcodes as unknown", func() {
			inst := decoder.Decode(0x14000000)

			Expect(inst.Known()).To(BeFalse())
			Expect(inst.Op).To(Equal(insts.OpUnknown))
			Expect(inst.Opcode).To(Equal(uint8(0x14)))

			err := inst.Err()
			Expect(errors.Is(err, insts.ErrUnknownOpcode)).To(BeTrue())

			var opErr *insts.OpcodeError
			Expect(errors.As(err, &opErr)).To(BeTrue())
			Expect(opErr.Opcode).To(Equal(uint8(0x14)))
			Expect(opErr.Word).To(Equal(uint32(0x14000000)))
			Expect(opErr.Extended).To(BeFalse())
		})

		It("should not error for known instructions", func() {
			Expect(decoder.Decode(0x10000000).Err()).To(BeNil())
		})
	})

	Describe("DecodeExtended", func() {
		It("should decode FADD_DSS against the extended table", func() {
			inst := decoder.DecodeExtended(0x81010203)

			Expect(inst.Extended).To(BeTrue())
			Expect(inst.ExtOp).To(Equal(insts.ExtOpFADDDSS))
			Expect(inst.Format).To(Equal(insts.FormatDSS))
			Expect(inst.Name()).To(Equal("FADD_DSS"))
		})

		It("should not accept normal-only opcodes", func() {
			// JMP only exists in the normal table.
			inst := decoder.DecodeExtended(0xE2000010)

			Expect(inst.Known()).To(BeFalse())
			var opErr *insts.OpcodeError
			Expect(errors.As(inst.Err(), &opErr)).To(BeTrue())
			Expect(opErr.Extended).To(BeTrue())
		})
	})

	Describe("Register fields", func() {
		It("should resolve DSS to a, b, x", func() {
			d, s1, s2, err := insts.DecodeDSS(0x00010203, insts.ClassInt)

			Expect(err).NotTo(HaveOccurred())
			Expect(d).To(Equal(insts.RegA))
			Expect(s1).To(Equal(insts.RegB))
			Expect(s2).To(Equal(insts.RegX))
		})

		It("should resolve DSI and ignore the immediate byte", func() {
			d, s, err := insts.DecodeDSI(0x000301FF, insts.ClassInt)

			Expect(err).NotTo(HaveOccurred())
			Expect(d).To(Equal(insts.RegX))
			Expect(s).To(Equal(insts.RegA))
		})

		It("should resolve a pair from the two low bytes", func() {
			lhs, rhs, err := insts.DecodePair(0x00030102, insts.ClassInt)

			Expect(err).NotTo(HaveOccurred())
			Expect(lhs).To(Equal(insts.RegA))
			Expect(rhs).To(Equal(insts.RegB))
		})

		It("should resolve a single register from the low byte", func() {
			r, err := insts.DecodeSingle(0x00030101, insts.ClassInt)

			Expect(err).NotTo(HaveOccurred())
			Expect(r).To(Equal(insts.RegA))
		})

		It("should resolve float registers from the float table", func() {
			d, s1, s2, err := insts.DecodeDSS(0x00010203, insts.ClassFloat)

			Expect(err).NotTo(HaveOccurred())
			Expect(d).To(Equal(insts.RegFA))
			Expect(s1).To(Equal(insts.RegFB))
			Expect(s2).To(Equal(insts.RegFX))
		})

		It("should reject sp as a float register", func() {
			_, err := insts.DecodeSingle(0x00000004, insts.ClassFloat)

			Expect(errors.Is(err, insts.ErrInvalidRegister)).To(BeTrue())
		})

		It("should reject indices past the integer table", func() {
			_, _, _, err := insts.DecodeDSS(0x00010206, insts.ClassInt)

			var regErr *insts.RegisterError
			Expect(errors.As(err, &regErr)).To(BeTrue())
			Expect(regErr.Index).To(Equal(uint8(6)))
			Expect(regErr.Class).To(Equal(insts.ClassInt))
		})

		It("should accept ra as the last integer register", func() {
			r, err := insts.DecodeSingle(0x00000005, insts.ClassInt)

			Expect(err).NotTo(HaveOccurred())
			Expect(r).To(Equal(insts.RegRA))
		})
	})

	Describe("Literals", func() {
		It("should mask the low bits", func() {
			Expect(insts.Literal(0xE1ABCDEF, 24)).To(Equal(uint32(0xABCDEF)))
			Expect(insts.Literal(0xE1ABCDEF, 8)).To(Equal(uint32(0xEF)))
			Expect(insts.Literal(0xE1ABCDEF, 32)).To(Equal(uint32(0xE1ABCDEF)))
		})

		It("should decode an 8-bit float literal from the high bits", func() {
			Expect(insts.FloatLiteral(0x91010140, 8)).To(Equal(2.0))
			Expect(insts.FloatLiteral(0x9101013F, 8)).To(Equal(0.5))
			Expect(insts.FloatLiteral(0x910101C0, 8)).To(Equal(-2.0))
		})

		It("should decode a 24-bit float literal", func() {
			// 1.5f = 0x3FC00000
			Expect(insts.FloatLiteral(0x103FC000, 24)).To(Equal(1.5))
			// 3.25f = 0x40500000
			Expect(insts.FloatLiteral(0x11405000, 24)).To(Equal(3.25))
		})
	})

	Describe("Encoding", func() {
		It("should place fields where the decoder reads them", func() {
			word := insts.EncodeDSS(uint8(insts.OpADDDSS), 3, 1, 2)
			inst := decoder.Decode(word)

			Expect(inst.Op).To(Equal(insts.OpADDDSS))
			Expect(inst.Dest).To(Equal(uint8(3)))
			Expect(inst.Src1).To(Equal(uint8(1)))
			Expect(inst.Src2).To(Equal(uint8(2)))
		})

		It("should encode pairs with rhs in the low byte", func() {
			word := insts.EncodePair(uint8(insts.OpTESTEQ), insts.IndexB, insts.IndexZ)
			Expect(word).To(Equal(uint32(0xB1000200)))
		})

		It("should serialize big-endian", func() {
			Expect(insts.Bytes(0x10000000, 0xA5000040)).To(Equal(
				[]byte{0x10, 0x00, 0x00, 0x00, 0xA5, 0x00, 0x00, 0x40}))
		})
	})
})
