// Package config holds the machine configuration of the emulator.
package config

import (
	"encoding/json"
	"fmt"
	"os"
)

// DRAMSize is the architectural size of the address space (128 MiB). The
// reset value of the stack pointer is derived from it, independently of how
// much memory is actually allocated.
const DRAMSize = 128 * 1024 * 1024

// DefaultMemorySize is the default size of the allocated memory buffer.
const DefaultMemorySize = 64 * 1024

// DefaultStackPointer is the reset value of sp (x2): top of DRAM minus one.
const DefaultStackPointer = DRAMSize - 1

// CacheConfig describes the geometry of the decoded-instruction cache.
// Sizes are in bytes of guest code. A zero Size disables the cache.
type CacheConfig struct {
	// Size is the amount of guest code covered, in bytes.
	Size int `json:"size"`
	// Associativity is the number of ways per set.
	Associativity int `json:"associativity"`
	// BlockSize is the line size in bytes. It must be a multiple of 4.
	BlockSize int `json:"block_size"`
}

// Enabled reports whether the cache is in use.
func (c CacheConfig) Enabled() bool {
	return c.Size != 0
}

// MachineConfig holds the parameters of one emulated machine.
type MachineConfig struct {
	// MemorySize is the size of the allocated memory buffer in bytes.
	// Default: 64 KiB.
	MemorySize uint64 `json:"memory_size"`

	// StackPointer is the reset value of sp. It is not required to lie
	// inside MemorySize. Default: DRAMSize - 1.
	StackPointer uint64 `json:"stack_pointer"`

	// MaxInstructions stops Run after this many instructions.
	// Default: 0 (no limit).
	MaxInstructions uint64 `json:"max_instructions"`

	// DecodeCache configures the decoded-instruction cache.
	DecodeCache CacheConfig `json:"decode_cache"`
}

// DefaultCacheConfig returns the default decode cache geometry:
// 4 KiB of code, 4-way, 64-byte lines.
func DefaultCacheConfig() CacheConfig {
	return CacheConfig{
		Size:          4 * 1024,
		Associativity: 4,
		BlockSize:     64,
	}
}

// DefaultConfig returns a MachineConfig with the default values.
func DefaultConfig() *MachineConfig {
	return &MachineConfig{
		MemorySize:      DefaultMemorySize,
		StackPointer:    DefaultStackPointer,
		MaxInstructions: 0,
		DecodeCache:     DefaultCacheConfig(),
	}
}

// LoadConfig loads a MachineConfig from a JSON file. Fields missing from
// the file keep their default values.
func LoadConfig(path string) (*MachineConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read machine config file: %w", err)
	}

	config := DefaultConfig()
	if err := json.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse machine config: %w", err)
	}

	return config, nil
}

// SaveConfig writes a MachineConfig to a JSON file.
func (c *MachineConfig) SaveConfig(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize machine config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write machine config file: %w", err)
	}

	return nil
}

// Validate checks that the configuration describes a usable machine.
func (c *MachineConfig) Validate() error {
	if c.MemorySize == 0 {
		return fmt.Errorf("memory_size must be > 0")
	}
	return c.DecodeCache.Validate()
}

// Validate checks the cache geometry. A disabled cache is always valid.
func (c CacheConfig) Validate() error {
	if !c.Enabled() {
		return nil
	}
	if c.Size < 0 {
		return fmt.Errorf("decode_cache.size must not be negative")
	}
	if c.Associativity <= 0 {
		return fmt.Errorf("decode_cache.associativity must be > 0")
	}
	if c.BlockSize <= 0 || c.BlockSize%4 != 0 {
		return fmt.Errorf("decode_cache.block_size must be a positive multiple of 4")
	}
	if c.Size%(c.Associativity*c.BlockSize) != 0 {
		return fmt.Errorf("decode_cache.size must be a multiple of associativity * block_size")
	}
	return nil
}

// Clone returns a deep copy of the MachineConfig.
func (c *MachineConfig) Clone() *MachineConfig {
	return &MachineConfig{
		MemorySize:      c.MemorySize,
		StackPointer:    c.StackPointer,
		MaxInstructions: c.MaxInstructions,
		DecodeCache:     c.DecodeCache,
	}
}
