package icache_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/rvemu/config"
	"github.com/sarchlab/rvemu/icache"
	"github.com/sarchlab/rvemu/insts"
)

var _ = Describe("Cache", func() {
	var (
		c       *icache.Cache
		decoder *insts.Decoder
	)

	BeforeEach(func() {
		decoder = insts.NewDecoder()
		// Small cache for testing: 512B, 2-way, 64B lines -> 4 sets
		c = icache.New(config.CacheConfig{
			Size:          512,
			Associativity: 2,
			BlockSize:     64,
		})
	})

	Describe("Lookup", func() {
		It("should miss on cold cache", func() {
			inst, ok := c.Lookup(0x100)

			Expect(ok).To(BeFalse())
			Expect(inst).To(BeNil())

			stats := c.Stats()
			Expect(stats.Lookups).To(Equal(uint64(1)))
			Expect(stats.Misses).To(Equal(uint64(1)))
			Expect(stats.Hits).To(BeZero())
		})

		It("should hit after a fill", func() {
			addi := decoder.Decode(insts.ADDI(1, 0, 1))
			c.Fill(0x100, addi)

			inst, ok := c.Lookup(0x100)

			Expect(ok).To(BeTrue())
			Expect(inst).To(BeIdenticalTo(addi))
			Expect(c.Stats().Hits).To(Equal(uint64(1)))
		})

		It("should miss on other slots of a filled block", func() {
			c.Fill(0x100, decoder.Decode(insts.ADDI(1, 0, 1)))

			_, ok := c.Lookup(0x104)

			Expect(ok).To(BeFalse())
		})

		It("should not cache misaligned addresses", func() {
			c.Fill(0x102, decoder.Decode(insts.ADDI(1, 0, 1)))

			_, ok := c.Lookup(0x102)

			Expect(ok).To(BeFalse())
			Expect(c.Stats().Fills).To(BeZero())
		})
	})

	Describe("Replacement", func() {
		It("should evict the least recently used block of a set", func() {
			// 0x000, 0x100 and 0x200 all map to set 0.
			a := decoder.Decode(insts.ADDI(1, 0, 1))
			b := decoder.Decode(insts.ADDI(2, 0, 2))
			d := decoder.Decode(insts.ADDI(3, 0, 3))

			c.Fill(0x000, a)
			c.Fill(0x100, b)
			_, ok := c.Lookup(0x000)
			Expect(ok).To(BeTrue())

			c.Fill(0x200, d)

			_, ok = c.Lookup(0x100)
			Expect(ok).To(BeFalse())
			inst, ok := c.Lookup(0x000)
			Expect(ok).To(BeTrue())
			Expect(inst).To(BeIdenticalTo(a))
			inst, ok = c.Lookup(0x200)
			Expect(ok).To(BeTrue())
			Expect(inst).To(BeIdenticalTo(d))
			Expect(c.Stats().Evictions).To(Equal(uint64(1)))
		})
	})

	Describe("Invalidate", func() {
		It("should drop the block covering a written word", func() {
			c.Fill(0x100, decoder.Decode(insts.ADDI(1, 0, 1)))
			c.Fill(0x13C, decoder.Decode(insts.ADDI(2, 0, 1)))

			c.Invalidate(0x13C, 4)

			_, ok := c.Lookup(0x100)
			Expect(ok).To(BeFalse())
			_, ok = c.Lookup(0x13C)
			Expect(ok).To(BeFalse())
			Expect(c.Stats().Invalidations).To(Equal(uint64(1)))
		})

		It("should drop every block a write straddles", func() {
			c.Fill(0x13C, decoder.Decode(insts.ADDI(1, 0, 1)))
			c.Fill(0x140, decoder.Decode(insts.ADDI(2, 0, 1)))

			c.Invalidate(0x13E, 4)

			_, ok := c.Lookup(0x13C)
			Expect(ok).To(BeFalse())
			_, ok = c.Lookup(0x140)
			Expect(ok).To(BeFalse())
		})

		It("should leave other blocks alone", func() {
			keep := decoder.Decode(insts.ADDI(1, 0, 1))
			c.Fill(0x000, keep)

			c.Invalidate(0x100, 4)

			inst, ok := c.Lookup(0x000)
			Expect(ok).To(BeTrue())
			Expect(inst).To(BeIdenticalTo(keep))
		})

		It("should handle writes larger than the cache", func() {
			c.Fill(0x000, decoder.Decode(insts.ADDI(1, 0, 1)))
			c.Fill(0x1040, decoder.Decode(insts.ADDI(2, 0, 1)))
			c.Fill(0x8080, decoder.Decode(insts.ADDI(3, 0, 1)))

			c.Invalidate(0, 0x2000)

			_, ok := c.Lookup(0x000)
			Expect(ok).To(BeFalse())
			_, ok = c.Lookup(0x1040)
			Expect(ok).To(BeFalse())
			_, ok = c.Lookup(0x8080)
			Expect(ok).To(BeTrue())
		})

		It("should ignore empty writes", func() {
			c.Fill(0x000, decoder.Decode(insts.ADDI(1, 0, 1)))

			c.Invalidate(0x000, 0)

			_, ok := c.Lookup(0x000)
			Expect(ok).To(BeTrue())
		})
	})

	Describe("Reset", func() {
		It("should drop all entries and statistics", func() {
			c.Fill(0x000, decoder.Decode(insts.ADDI(1, 0, 1)))
			c.Lookup(0x000)

			c.Reset()

			Expect(c.Stats()).To(Equal(icache.Statistics{}))
			_, ok := c.Lookup(0x000)
			Expect(ok).To(BeFalse())
		})
	})
})
