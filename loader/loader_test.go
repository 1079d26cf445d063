package loader_test

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/r32sim/loader"
)

var _ = Describe("Program Loader", func() {
	var tempDir string

	BeforeEach(func() {
		var err error
		tempDir, err = os.MkdirTemp("", "r32-loader-test")
		Expect(err).NotTo(HaveOccurred())
	})

	AfterEach(func() {
		_ = os.RemoveAll(tempDir)
	})

	write := func(name string, data []byte) string {
		path := filepath.Join(tempDir, name)
		Expect(os.WriteFile(path, data, 0644)).To(Succeed())
		return path
	}

	Describe("ParseSpec", func() {
		It("should parse entries sorted by path", func() {
			entries, err := loader.ParseSpec(strings.NewReader(
				"# program layout\n" +
					"main.bin = F000\n" +
					"\n" +
					"  data.bin=0x3000   # strings\n"))
			Expect(err).NotTo(HaveOccurred())
			Expect(entries).To(HaveLen(2))
			Expect(entries[0]).To(Equal(loader.SpecEntry{Path: "data.bin", Addr: 0x3000, Line: 4}))
			Expect(entries[1]).To(Equal(loader.SpecEntry{Path: "main.bin", Addr: 0xF000, Line: 2}))
		})

		It("should keep the last address of a repeated file", func() {
			entries, err := loader.ParseSpec(strings.NewReader(
				"main.bin = F000\n" +
					"data.bin = 1000\n" +
					"main.bin = 2000\n"))
			Expect(err).NotTo(HaveOccurred())
			Expect(entries).To(Equal([]loader.SpecEntry{
				{Path: "data.bin", Addr: 0x1000, Line: 2},
				{Path: "main.bin", Addr: 0x2000, Line: 3},
			}))
		})

		It("should accept an empty container", func() {
			entries, err := loader.ParseSpec(strings.NewReader("# nothing\n\n"))
			Expect(err).NotTo(HaveOccurred())
			Expect(entries).To(BeEmpty())
		})

		It("should reject a line without '='", func() {
			_, err := loader.ParseSpec(strings.NewReader("main.bin F000\n"))
			var specErr *loader.SpecError
			Expect(errors.As(err, &specErr)).To(BeTrue())
			Expect(specErr.Line).To(Equal(1))
		})

		It("should reject a bad address", func() {
			_, err := loader.ParseSpec(strings.NewReader("main.bin = zz\n"))
			Expect(err).To(MatchError(ContainSubstring("bad hex address")))
		})

		It("should reject an address wider than 32 bits", func() {
			_, err := loader.ParseSpec(strings.NewReader("main.bin = 100000000\n"))
			Expect(err).To(HaveOccurred())
		})

		It("should reject a missing file name", func() {
			_, err := loader.ParseSpec(strings.NewReader(" = 10\n"))
			Expect(err).To(MatchError(ContainSubstring("missing file name")))
		})
	})

	Describe("LoadSpec", func() {
		It("should load every binary relative to the container", func() {
			write("code.bin", []byte{0x10, 0x00, 0x00, 0x00})
			write("data.bin", []byte("hi"))
			spec := write("prog.spec", []byte("code.bin = f000\ndata.bin = 3000\n"))

			prog, err := loader.Load(spec)
			Expect(err).NotTo(HaveOccurred())
			Expect(prog.HasEntryPoint).To(BeFalse())
			Expect(prog.HasInitialSP).To(BeFalse())
			Expect(prog.Segments).To(HaveLen(2))
			Expect(prog.Segments[0].Addr).To(Equal(uint32(0xF000)))
			Expect(prog.Segments[0].Data).To(Equal([]byte{0x10, 0x00, 0x00, 0x00}))
			Expect(prog.Segments[1].Addr).To(Equal(uint32(0x3000)))
			Expect(prog.Segments[1].End()).To(Equal(uint64(0x3002)))
			Expect(prog.Size()).To(Equal(6))
		})

		It("should order overlapping segments by path", func() {
			write("b.bin", []byte{1, 1, 1, 1})
			write("a.bin", []byte{2, 2})
			spec := write("prog.spec", []byte("b.bin = 1000\na.bin = 1002\n"))

			prog, err := loader.LoadSpec(spec)
			Expect(err).NotTo(HaveOccurred())
			Expect(prog.Segments).To(HaveLen(2))
			Expect(prog.Segments[0].Name).To(Equal("a.bin"))
			Expect(prog.Segments[1].Name).To(Equal("b.bin"))
		})

		It("should report the line of a missing binary", func() {
			spec := write("prog.spec", []byte("# header\nmissing.bin = 0\n"))

			_, err := loader.LoadSpec(spec)
			Expect(err).To(MatchError(ContainSubstring(":2:")))
			Expect(errors.Is(err, os.ErrNotExist)).To(BeTrue())
		})
	})

	Describe("LoadProg", func() {
		It("should place the body at 0x3000 behind a bootstrap jump", func() {
			path := write("hello.prog", []byte{0x10, 0x00, 0x00, 0x00})

			prog, err := loader.Load(path)
			Expect(err).NotTo(HaveOccurred())
			Expect(prog.HasEntryPoint).To(BeTrue())
			Expect(prog.EntryPoint).To(Equal(uint32(loader.BootAddress)))
			Expect(prog.HasInitialSP).To(BeFalse())
			Expect(prog.Segments).To(HaveLen(2))
			Expect(prog.Segments[0].Addr).To(Equal(uint32(0xF000)))
			Expect(prog.Segments[0].Data).To(Equal([]byte{0xE1, 0x00, 0xC0, 0x04}))
			Expect(prog.Segments[1].Addr).To(Equal(uint32(0x3000)))
		})

		It("should not alias the shared bootstrap bytes", func() {
			path := write("hello.prog", nil)

			prog, err := loader.LoadProg(path)
			Expect(err).NotTo(HaveOccurred())
			prog.Segments[0].Data[0] = 0
			Expect(loader.Bootstrap[0]).To(Equal(byte(0xE1)))
		})
	})

	Describe("LoadRaw", func() {
		It("should load a.out at address 0", func() {
			path := write("a.out", []byte{1, 2, 3})

			prog, err := loader.Load(path)
			Expect(err).NotTo(HaveOccurred())
			Expect(prog.Segments).To(HaveLen(1))
			Expect(prog.Segments[0].Addr).To(Equal(uint32(0)))
			Expect(prog.HasEntryPoint).To(BeFalse())
		})
	})

	Describe("Load", func() {
		It("should reject unknown file types", func() {
			path := write("program.exe", nil)

			_, err := loader.Load(path)
			Expect(err).To(MatchError(ContainSubstring("unknown program type")))
		})

		It("should return error for non-existent file", func() {
			_, err := loader.Load(filepath.Join(tempDir, "none.prog"))
			Expect(err).To(HaveOccurred())
		})
	})
})
