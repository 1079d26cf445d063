package emu_test

import (
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/r32sim/emu"
)

func describeMemory(name string, newMemory func() emu.Memory) {
	Describe(name, func() {
		var m emu.Memory

		BeforeEach(func() {
			m = newMemory()
		})

		It("should hold 128 pages of 512 bytes", func() {
			Expect(m.Capacity()).To(Equal(uint64(0x10000)))
		})

		It("should reject 0x10000 and accept 0xFFFF", func() {
			err := m.CheckAddr(0x10000)
			Expect(errors.Is(err, emu.ErrAddressOutOfRange)).To(BeTrue())
			Expect(m.CheckAddr(0x10000 - 1)).To(Succeed())
		})

		It("should read zero from never-written addresses", func() {
			b, err := m.Read8(0x1234)
			Expect(err).NotTo(HaveOccurred())
			Expect(b).To(BeZero())

			w, err := m.Read32(0xFFFC)
			Expect(err).NotTo(HaveOccurred())
			Expect(w).To(BeZero())
		})

		It("should store words big-endian", func() {
			Expect(m.Write32(0x100, 0xDEADBEEF)).To(Succeed())

			for i, want := range []byte{0xDE, 0xAD, 0xBE, 0xEF} {
				b, err := m.Read8(uint32(0x100 + i))
				Expect(err).NotTo(HaveOccurred())
				Expect(b).To(Equal(want))
			}
			Expect(m.Read32(0x100)).To(Equal(uint32(0xDEADBEEF)))
		})

		It("should read words across page boundaries", func() {
			Expect(m.Load(0x1FE, []byte{1, 2, 3, 4})).To(Succeed())
			Expect(m.Read32(0x1FE)).To(Equal(uint32(0x01020304)))
		})

		It("should reject a word that straddles the end", func() {
			_, err := m.Read32(0xFFFD)
			var addrErr *emu.AddressError
			Expect(errors.As(err, &addrErr)).To(BeTrue())
			Expect(addrErr.Addr).To(Equal(uint64(0xFFFD)))
			Expect(addrErr.Size).To(Equal(uint64(4)))
		})

		It("should not partially write a word that straddles the end", func() {
			Expect(m.Write32(0xFFFD, 0x11223344)).NotTo(Succeed())

			for addr := uint32(0xFFFD); addr <= 0xFFFF; addr++ {
				Expect(m.Read8(addr)).To(BeZero())
			}
		})

		It("should not partially apply an oversized load", func() {
			Expect(m.Load(0xFFFE, []byte{9, 9, 9})).NotTo(Succeed())

			Expect(m.Read8(0xFFFE)).To(BeZero())
			Expect(m.Read8(0xFFFF)).To(BeZero())
		})

		It("should accept a load that ends exactly at capacity", func() {
			Expect(m.Load(0xFFFE, []byte{7, 8})).To(Succeed())
			Expect(m.Read8(0xFFFF)).To(Equal(byte(8)))
		})

		It("should reject single bytes past the end", func() {
			Expect(m.Write8(0x10000, 1)).NotTo(Succeed())
			_, err := m.Read8(0xFFFFFFFF)
			Expect(err).To(HaveOccurred())
		})
	})
}

var _ = Describe("Memory", func() {
	describeMemory("FlatMemory", func() emu.Memory {
		return emu.NewMemory(emu.DefaultCapacity)
	})

	describeMemory("PagedMemory", func() emu.Memory {
		return emu.NewPagedMemory(emu.DefaultPages, emu.DefaultPageSize)
	})

	Describe("PagedMemory allocation", func() {
		var m *emu.PagedMemory

		BeforeEach(func() {
			m = emu.NewPagedMemory(emu.DefaultPages, emu.DefaultPageSize)
		})

		It("should start with no pages allocated", func() {
			Expect(m.AllocatedPages()).To(BeZero())
			_, err := m.Read32(0x4000)
			Expect(err).NotTo(HaveOccurred())
			Expect(m.AllocatedPages()).To(BeZero())
		})

		It("should allocate every page a write touches", func() {
			Expect(m.Write32(0x3FE, 0xAABBCCDD)).To(Succeed())

			Expect(m.Allocated(1)).To(BeTrue())
			Expect(m.Allocated(2)).To(BeTrue())
			Expect(m.Allocated(0)).To(BeFalse())
			Expect(m.AllocatedPages()).To(Equal(2))
		})

		It("should not allocate on a rejected write", func() {
			Expect(m.Write32(0xFFFE, 1)).NotTo(Succeed())
			Expect(m.AllocatedPages()).To(BeZero())
		})

		It("should split addresses into page and offset", func() {
			page, offset := m.Location(0xF004)
			Expect(page).To(Equal(uint64(0x78)))
			Expect(offset).To(Equal(uint64(4)))
			Expect(m.PageSize()).To(Equal(uint64(512)))
		})

		It("should match a flat memory after the same writes", func() {
			flat := emu.NewMemory(emu.DefaultCapacity)
			for _, mem := range []emu.Memory{flat, m} {
				Expect(mem.Load(0xF000, []byte{0x10, 0, 0, 0})).To(Succeed())
				Expect(mem.Write8(0x3000, 'h')).To(Succeed())
				Expect(mem.Write32(0x0100, 0x12345678)).To(Succeed())
			}

			for _, addr := range []uint32{0, 0xFC, 0x100, 0x2FFE, 0x3000, 0xF000, 0xFFFC} {
				Expect(m.Read32(addr)).To(Equal(must32(flat.Read32(addr))), "addr 0x%X", addr)
			}
		})
	})
})

func must32(v uint32, err error) uint32 {
	Expect(err).NotTo(HaveOccurred())
	return v
}
