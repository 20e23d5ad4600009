// Package icache caches decoded instructions by address using the Akita
// cache directory.
//
// The cache is purely a host-side shortcut around Decode: a hit returns the
// same *insts.Instruction that decoding the word in memory would produce.
// Writes to guest memory must be reported through Invalidate so that
// modified code is decoded again.
package icache

import (
	akitacache "github.com/sarchlab/akita/v4/mem/cache"

	"github.com/sarchlab/rvemu/config"
	"github.com/sarchlab/rvemu/insts"
)

// instBytes is the size of one instruction slot.
const instBytes = 4

// Statistics holds cache statistics.
type Statistics struct {
	Lookups       uint64
	Hits          uint64
	Misses        uint64
	Fills         uint64
	Evictions     uint64
	Invalidations uint64
}

// Cache maps instruction addresses to decoded instructions.
type Cache struct {
	config config.CacheConfig

	// Akita cache directory for tag/state management
	directory *akitacache.DirectoryImpl

	// Decoded slots, indexed by (setID * associativity + wayID), one entry
	// per 4-byte slot of the block.
	slots [][]*insts.Instruction

	stats Statistics
}

// New creates a cache with the given geometry. The geometry must have
// passed config.CacheConfig.Validate and be enabled.
func New(cfg config.CacheConfig) *Cache {
	numSets := cfg.Size / (cfg.Associativity * cfg.BlockSize)
	totalBlocks := numSets * cfg.Associativity

	slots := make([][]*insts.Instruction, totalBlocks)
	for i := range slots {
		slots[i] = make([]*insts.Instruction, cfg.BlockSize/instBytes)
	}

	return &Cache{
		config: cfg,
		directory: akitacache.NewDirectory(
			numSets,
			cfg.Associativity,
			cfg.BlockSize,
			akitacache.NewLRUVictimFinder(),
		),
		slots: slots,
	}
}

// Config returns the cache geometry.
func (c *Cache) Config() config.CacheConfig {
	return c.config
}

// Stats returns cache statistics.
func (c *Cache) Stats() Statistics {
	return c.stats
}

func (c *Cache) blockAddr(addr uint64) uint64 {
	return (addr / uint64(c.config.BlockSize)) * uint64(c.config.BlockSize)
}

func (c *Cache) blockIndex(block *akitacache.Block) int {
	return block.SetID*c.config.Associativity + block.WayID
}

func (c *Cache) slot(addr uint64) int {
	return int(addr%uint64(c.config.BlockSize)) / instBytes
}

// Lookup returns the decoded instruction at pc, if cached.
func (c *Cache) Lookup(pc uint64) (*insts.Instruction, bool) {
	c.stats.Lookups++

	if pc%instBytes != 0 {
		c.stats.Misses++
		return nil, false
	}

	block := c.directory.Lookup(0, c.blockAddr(pc))
	if block == nil || !block.IsValid {
		c.stats.Misses++
		return nil, false
	}

	inst := c.slots[c.blockIndex(block)][c.slot(pc)]
	if inst == nil {
		c.stats.Misses++
		return nil, false
	}

	c.stats.Hits++
	c.directory.Visit(block)
	return inst, true
}

// Fill records the decoded instruction at pc. Misaligned addresses are
// not cached.
func (c *Cache) Fill(pc uint64, inst *insts.Instruction) {
	if pc%instBytes != 0 {
		return
	}

	blockAddr := c.blockAddr(pc)
	block := c.directory.Lookup(0, blockAddr)

	if block == nil || !block.IsValid {
		block = c.directory.FindVictim(blockAddr)
		if block == nil {
			return
		}
		if block.IsValid {
			c.stats.Evictions++
		}
		clear(c.slots[c.blockIndex(block)])
		block.Tag = blockAddr
		block.IsValid = true
		block.IsDirty = false
	}

	c.slots[c.blockIndex(block)][c.slot(pc)] = inst
	c.directory.Visit(block)
	c.stats.Fills++
}

// Invalidate drops every cached instruction overlapping [addr, addr+n).
func (c *Cache) Invalidate(addr, n uint64) {
	if n == 0 {
		return
	}

	blockSize := uint64(c.config.BlockSize)
	first := c.blockAddr(addr)
	last := c.blockAddr(addr + n - 1)
	if addr+n-1 < addr {
		last = c.blockAddr(^uint64(0))
	}

	// A large write covers every block; scan the directory instead.
	if (last-first)/blockSize >= uint64(c.config.Size/c.config.BlockSize) {
		c.invalidateRange(first, last)
		return
	}

	for blockAddr := first; ; blockAddr += blockSize {
		block := c.directory.Lookup(0, blockAddr)
		if block != nil && block.IsValid {
			c.drop(block)
		}
		if blockAddr == last {
			break
		}
	}
}

func (c *Cache) invalidateRange(first, last uint64) {
	for _, set := range c.directory.GetSets() {
		for _, block := range set.Blocks {
			if block.IsValid && block.Tag >= first && block.Tag <= last {
				c.drop(block)
			}
		}
	}
}

func (c *Cache) drop(block *akitacache.Block) {
	block.IsValid = false
	block.IsDirty = false
	clear(c.slots[c.blockIndex(block)])
	c.stats.Invalidations++
}

// Reset invalidates every entry and clears statistics.
func (c *Cache) Reset() {
	c.directory.Reset()
	for _, s := range c.slots {
		clear(s)
	}
	c.stats = Statistics{}
}
