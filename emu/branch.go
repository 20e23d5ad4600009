package emu

// BranchUnit implements RISC-V branches and jumps.
//
// The emulator advances the PC past an instruction before executing it, so
// every method here receives pc already pointing at the next instruction.
// Targets are computed relative to the instruction itself, pc - 4, and link
// values are pc unchanged.
type BranchUnit struct {
	regFile *RegFile
}

// NewBranchUnit creates a new BranchUnit connected to the given register file.
func NewBranchUnit(regFile *RegFile) *BranchUnit {
	return &BranchUnit{regFile: regFile}
}

// BEQ returns the next pc: pc + offset - 4 if rs1 == rs2, pc otherwise.
func (b *BranchUnit) BEQ(pc uint64, rs1, rs2 uint8, offset uint64) (uint64, error) {
	op1, err := b.regFile.Read(rs1)
	if err != nil {
		return pc, err
	}
	op2, err := b.regFile.Read(rs2)
	if err != nil {
		return pc, err
	}
	if op1 == op2 {
		return pc + offset - 4, nil
	}
	return pc, nil
}

// JAL links rd = pc and returns pc + offset - 4.
func (b *BranchUnit) JAL(pc uint64, rd uint8, offset uint64) (uint64, error) {
	if err := b.regFile.Write(rd, pc); err != nil {
		return pc, err
	}
	return pc + offset - 4, nil
}

// JALR links rd = pc and returns (rs1 + offset) &^ 1. rs1 is read before rd
// is written, so rd == rs1 is allowed.
func (b *BranchUnit) JALR(pc uint64, rd, rs1 uint8, offset uint64) (uint64, error) {
	base, err := b.regFile.Read(rs1)
	if err != nil {
		return pc, err
	}
	target := (base + offset) &^ 1
	if err := b.regFile.Write(rd, pc); err != nil {
		return pc, err
	}
	return target, nil
}
