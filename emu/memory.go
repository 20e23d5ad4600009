package emu

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/sarchlab/rvemu/loader"
)

// WriteObserver is notified after bytes [addr, addr+n) have been written.
type WriteObserver func(addr, n uint64)

// Memory is a flat, zero-initialized, byte-addressable store. Every access
// must lie entirely inside [0, Size()).
type Memory struct {
	data     []byte
	watchers []WriteObserver
}

// NewMemory creates a zeroed memory of size bytes.
func NewMemory(size uint64) *Memory {
	return &Memory{data: make([]byte, size)}
}

// NewMemoryFromImage creates a memory of size bytes and loads the raw image
// at path to address 0.
func NewMemoryFromImage(size uint64, path string) (*Memory, error) {
	m := NewMemory(size)
	if err := m.LoadImage(path); err != nil {
		return nil, err
	}
	return m, nil
}

// Size returns the size of the memory in bytes.
func (m *Memory) Size() uint64 {
	return uint64(len(m.data))
}

// Watch registers an observer called after every successful write.
func (m *Memory) Watch(fn WriteObserver) {
	m.watchers = append(m.watchers, fn)
}

func (m *Memory) notify(addr, n uint64) {
	for _, fn := range m.watchers {
		fn(addr, n)
	}
}

func (m *Memory) check(addr, n uint64) error {
	size := m.Size()
	if addr > size || n > size-addr {
		return &AccessError{Addr: addr, Len: n, Size: size}
	}
	return nil
}

// Load returns a copy of the n bytes starting at addr.
func (m *Memory) Load(addr, n uint64) ([]byte, error) {
	if err := m.check(addr, n); err != nil {
		return nil, err
	}
	out := make([]byte, n)
	copy(out, m.data[addr:addr+n])
	return out, nil
}

// Store writes the first n bytes of data at addr.
func (m *Memory) Store(addr, n uint64, data []byte) error {
	if err := m.check(addr, n); err != nil {
		return err
	}
	if uint64(len(data)) < n {
		return fmt.Errorf("%w: have %d bytes, need %d", ErrShortData, len(data), n)
	}
	copy(m.data[addr:addr+n], data[:n])
	m.notify(addr, n)
	return nil
}

// Read32 reads a little-endian 32-bit word.
func (m *Memory) Read32(addr uint64) (uint32, error) {
	b, err := m.Load(addr, 4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

// Write32 writes a little-endian 32-bit word.
func (m *Memory) Write32(addr uint64, value uint32) error {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], value)
	return m.Store(addr, 4, b[:])
}

// LoadImage copies the raw binary at path to address 0. Bytes beyond the
// end of memory are dropped. Each call overwrites from address 0 again.
func (m *Memory) LoadImage(path string) error {
	img, err := loader.Load(path)
	if err != nil {
		return err
	}
	m.place(img)
	return nil
}

// LoadImageFrom is LoadImage for an already open reader.
func (m *Memory) LoadImageFrom(r io.Reader) error {
	img, err := loader.Read(r)
	if err != nil {
		return fmt.Errorf("failed to read image: %w", err)
	}
	m.place(img)
	return nil
}

func (m *Memory) place(img *loader.Image) {
	data := img.Truncate(m.Size())
	n := copy(m.data[loader.LoadAddress:], data)
	m.notify(loader.LoadAddress, uint64(n))
}
