// Package insts provides RISC-V instruction definitions and decoding.
//
// This package implements decoding of 32-bit RISC-V machine code into
// structured instruction representations. It supports the subset executed by
// the emulator:
//   - Integer arithmetic: ADDI (I-type), ADD (R-type)
//   - Memory: LW (I-type), SW (S-type)
//   - Control flow: BEQ (B-type), JAL (J-type), JALR (I-type)
//
// Every other encoding decodes to OpUnknown.
//
// Usage:
//
//	decoder := insts.NewDecoder()
//	inst := decoder.Decode(0x00100093) // addi ra, zero, 1
//	fmt.Printf("Op: %v, Rd: %d, Rs1: %d, Imm: %d\n", inst.Op, inst.Rd, inst.Rs1, inst.Imm)
package insts
