package config_test

import (
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/rvemu/config"
)

var _ = Describe("MachineConfig", func() {
	Describe("Defaults", func() {
		It("should allocate 64 KiB of memory", func() {
			Expect(config.DefaultConfig().MemorySize).To(Equal(uint64(64 * 1024)))
		})

		It("should reset sp to the top of a 128 MiB address space", func() {
			c := config.DefaultConfig()
			Expect(c.StackPointer).To(Equal(uint64(0x7FFFFFF)))
			Expect(c.StackPointer).To(BeNumerically(">", c.MemorySize))
		})

		It("should not limit the instruction count", func() {
			Expect(config.DefaultConfig().MaxInstructions).To(BeZero())
		})

		It("should enable the decode cache", func() {
			c := config.DefaultConfig()
			Expect(c.DecodeCache.Enabled()).To(BeTrue())
			Expect(c.Validate()).To(Succeed())
		})
	})

	Describe("Validation", func() {
		It("should reject a zero memory size", func() {
			c := config.DefaultConfig()
			c.MemorySize = 0
			Expect(c.Validate()).To(HaveOccurred())
		})

		It("should accept a disabled decode cache", func() {
			c := config.DefaultConfig()
			c.DecodeCache = config.CacheConfig{}
			Expect(c.DecodeCache.Enabled()).To(BeFalse())
			Expect(c.Validate()).To(Succeed())
		})

		It("should reject a negative cache size", func() {
			c := config.DefaultConfig()
			c.DecodeCache.Size = -64
			Expect(c.Validate()).To(HaveOccurred())
		})

		It("should reject zero associativity", func() {
			c := config.DefaultConfig()
			c.DecodeCache.Associativity = 0
			Expect(c.Validate()).To(HaveOccurred())
		})

		It("should reject a block size that is not word aligned", func() {
			c := config.DefaultConfig()
			c.DecodeCache.BlockSize = 6
			Expect(c.Validate()).To(HaveOccurred())
		})

		It("should reject a size that does not fill whole sets", func() {
			c := config.DefaultConfig()
			c.DecodeCache.Size = 4*1024 + 64
			Expect(c.Validate()).To(HaveOccurred())
		})
	})

	Describe("Clone", func() {
		It("should create independent copy", func() {
			original := config.DefaultConfig()
			clone := original.Clone()

			clone.MemorySize = 1024
			clone.DecodeCache.Size = 0

			Expect(original.MemorySize).To(Equal(uint64(64 * 1024)))
			Expect(original.DecodeCache.Size).To(Equal(4 * 1024))
		})
	})

	Describe("File Operations", func() {
		var tempDir string

		BeforeEach(func() {
			var err error
			tempDir, err = os.MkdirTemp("", "config-test")
			Expect(err).NotTo(HaveOccurred())
		})

		AfterEach(func() {
			_ = os.RemoveAll(tempDir)
		})

		It("should save and load config", func() {
			original := config.DefaultConfig()
			original.MemorySize = 1 << 20
			original.MaxInstructions = 500

			path := filepath.Join(tempDir, "machine.json")
			Expect(original.SaveConfig(path)).To(Succeed())

			loaded, err := config.LoadConfig(path)
			Expect(err).NotTo(HaveOccurred())
			Expect(loaded).To(Equal(original))
		})

		It("should keep defaults for fields missing from the file", func() {
			path := filepath.Join(tempDir, "partial.json")
			err := os.WriteFile(path, []byte(`{"memory_size": 4096}`), 0644)
			Expect(err).NotTo(HaveOccurred())

			loaded, err := config.LoadConfig(path)
			Expect(err).NotTo(HaveOccurred())
			Expect(loaded.MemorySize).To(Equal(uint64(4096)))
			Expect(loaded.StackPointer).To(Equal(uint64(config.DefaultStackPointer)))
			Expect(loaded.DecodeCache).To(Equal(config.DefaultCacheConfig()))
		})

		It("should return error for non-existent file", func() {
			_, err := config.LoadConfig("/nonexistent/path/machine.json")
			Expect(err).To(HaveOccurred())
		})

		It("should return error for invalid JSON", func() {
			path := filepath.Join(tempDir, "invalid.json")
			err := os.WriteFile(path, []byte("not valid json"), 0644)
			Expect(err).NotTo(HaveOccurred())

			_, err = config.LoadConfig(path)
			Expect(err).To(HaveOccurred())
		})
	})
})
