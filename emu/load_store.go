package emu

import "encoding/binary"

// Access widths in bytes.
const (
	WidthWord = 4
)

// LoadStoreUnit implements RISC-V load and store operations.
type LoadStoreUnit struct {
	regFile *RegFile
	memory  *Memory
}

// NewLoadStoreUnit creates a new LoadStoreUnit connected to the given
// register file and memory.
func NewLoadStoreUnit(regFile *RegFile, memory *Memory) *LoadStoreUnit {
	return &LoadStoreUnit{
		regFile: regFile,
		memory:  memory,
	}
}

func (lsu *LoadStoreUnit) effectiveAddr(rs1 uint8, offset uint64) (uint64, error) {
	base, err := lsu.regFile.Read(rs1)
	if err != nil {
		return 0, err
	}
	return base + offset, nil
}

// LW loads a word with sign extension: rd = sext(mem32[rs1 + offset]).
func (lsu *LoadStoreUnit) LW(rd, rs1 uint8, offset uint64) error {
	addr, err := lsu.effectiveAddr(rs1, offset)
	if err != nil {
		return err
	}
	b, err := lsu.memory.Load(addr, WidthWord)
	if err != nil {
		return err
	}
	value := int64(int32(binary.LittleEndian.Uint32(b)))
	return lsu.regFile.Write(rd, uint64(value))
}

// SW stores the low word of rs2: mem32[rs1 + offset] = rs2[31:0].
func (lsu *LoadStoreUnit) SW(rs2, rs1 uint8, offset uint64) error {
	addr, err := lsu.effectiveAddr(rs1, offset)
	if err != nil {
		return err
	}
	value, err := lsu.regFile.Read(rs2)
	if err != nil {
		return err
	}
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], value)
	return lsu.memory.Store(addr, WidthWord, b[:])
}
