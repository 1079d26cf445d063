package config_test

import (
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/sirupsen/logrus"

	"github.com/sarchlab/r32sim/config"
)

var _ = Describe("Config", func() {
	var dir string

	BeforeEach(func() {
		dir = GinkgoT().TempDir()
	})

	Describe("Default", func() {
		It("should describe a 64K machine booting at 0xF000", func() {
			c := config.Default()
			Expect(c.Capacity()).To(Equal(uint64(0x10000)))
			Expect(c.BootAddress).To(Equal(uint32(0xF000)))
			Expect(c.StackPointer).To(Equal(uint32(0x0100)))
			Expect(c.Seed).To(Equal(int64(1)))
			Expect(c.Paged).To(BeFalse())
			Expect(c.Validate()).To(Succeed())
		})
	})

	Describe("Load", func() {
		It("should keep defaults for fields missing from JSON", func() {
			path := filepath.Join(dir, "machine.json")
			Expect(os.WriteFile(path, []byte(`{"paged": true, "seed": 7}`), 0644)).To(Succeed())

			c, err := config.Load(path)
			Expect(err).NotTo(HaveOccurred())
			Expect(c.Paged).To(BeTrue())
			Expect(c.Seed).To(Equal(int64(7)))
			Expect(c.Pages).To(Equal(uint64(128)))
		})

		It("should read YAML by extension", func() {
			path := filepath.Join(dir, "machine.yaml")
			data := "pages: 256\npage_size: 256\nboot_address: 0x100\nlog_level: debug\n"
			Expect(os.WriteFile(path, []byte(data), 0644)).To(Succeed())

			c, err := config.Load(path)
			Expect(err).NotTo(HaveOccurred())
			Expect(c.Pages).To(Equal(uint64(256)))
			Expect(c.BootAddress).To(Equal(uint32(0x100)))
			level, err := c.Level()
			Expect(err).NotTo(HaveOccurred())
			Expect(level).To(Equal(logrus.DebugLevel))
		})

		It("should fail on a missing file", func() {
			_, err := config.Load(filepath.Join(dir, "nope.json"))
			Expect(err).To(HaveOccurred())
		})

		It("should fail on malformed content", func() {
			path := filepath.Join(dir, "bad.json")
			Expect(os.WriteFile(path, []byte(`{"pages": "many"}`), 0644)).To(Succeed())

			_, err := config.Load(path)
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("Save", func() {
		It("should round-trip through JSON and YAML", func() {
			c := config.Default()
			c.Paged = true
			c.MaxInstructions = 1000

			for _, name := range []string{"out.json", "out.yml"} {
				path := filepath.Join(dir, name)
				Expect(c.Save(path)).To(Succeed())

				loaded, err := config.Load(path)
				Expect(err).NotTo(HaveOccurred())
				Expect(loaded).To(Equal(c))
			}
		})
	})

	Describe("Validate", func() {
		It("should reject empty memory", func() {
			c := config.Default()
			c.Pages = 0
			Expect(c.Validate()).To(MatchError(ContainSubstring("pages")))
		})

		It("should reject a boot address outside memory", func() {
			c := config.Default()
			c.BootAddress = 0xFFFE
			Expect(c.Validate()).To(MatchError(ContainSubstring("boot_address")))
		})

		It("should reject an unknown log level", func() {
			c := config.Default()
			c.LogLevel = "chatty"
			Expect(c.Validate()).To(HaveOccurred())
		})
	})

	Describe("ApplyEnv", func() {
		It("should switch to trace when DEBUGGING=true", func() {
			c := config.Default()
			c.ApplyEnv(func(key string) string {
				if key == config.DebugEnv {
					return "true"
				}
				return ""
			})
			Expect(c.LogLevel).To(Equal("trace"))
		})

		It("should leave the level alone otherwise", func() {
			c := config.Default()
			c.ApplyEnv(func(string) string { return "" })
			Expect(c.LogLevel).To(Equal("info"))
		})
	})

	Describe("Clone", func() {
		It("should not share state with the receiver", func() {
			c := config.Default()
			clone := c.Clone()
			clone.Seed = 99
			Expect(c.Seed).To(Equal(int64(1)))
		})
	})
})
