package emu_test

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/r32sim/emu"
	"github.com/sarchlab/r32sim/insts"
)

var _ = Describe("FPU", func() {
	var (
		regFile *emu.RegFile
		fpu     *emu.FPU
	)

	BeforeEach(func() {
		regFile = &emu.RegFile{FA: 1.5, FB: 2}
		fpu = emu.NewFPU(regFile)
	})

	It("should add, subtract and multiply", func() {
		fpu.FADD(insts.RegFX, insts.RegFA, 2)
		Expect(regFile.FX).To(Equal(3.5))

		fpu.FSUB(insts.RegFX, insts.RegFA, 2)
		Expect(regFile.FX).To(Equal(-0.5))

		fpu.FMULT(insts.RegFX, insts.RegFA, regFile.FB)
		Expect(regFile.FX).To(Equal(3.0))
	})

	It("should not touch the condition flags", func() {
		fpu.FSUB(insts.RegFA, insts.RegFA, 1.5)
		Expect(regFile.FA).To(BeZero())
		Expect(regFile.Ctrl).To(BeZero())
	})

	It("should take square roots in place", func() {
		regFile.FB = 2.25
		fpu.FSQRT(insts.RegFB)
		Expect(regFile.FB).To(Equal(1.5))

		regFile.FB = -1
		fpu.FSQRT(insts.RegFB)
		Expect(math.IsNaN(regFile.FB)).To(BeTrue())
	})

	It("should load immediates", func() {
		fpu.LoadImm(insts.RegFA, 0.25)
		Expect(regFile.FA).To(Equal(0.25))
	})
})
