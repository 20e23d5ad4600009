package insts

// Encoding helpers build instruction words from fields. They are used to
// construct test programs; immediates are truncated to their encoded width.

// EncodeR encodes an R-type instruction.
func EncodeR(opcode, rd, funct3, rs1, rs2, funct7 uint32) uint32 {
	return funct7<<25 | rs2<<20 | rs1<<15 | funct3<<12 | rd<<7 | opcode
}

// EncodeI encodes an I-type instruction.
func EncodeI(opcode, rd, funct3, rs1 uint32, imm int32) uint32 {
	return (uint32(imm)&0xfff)<<20 | rs1<<15 | funct3<<12 | rd<<7 | opcode
}

// EncodeS encodes an S-type instruction.
func EncodeS(opcode, funct3, rs1, rs2 uint32, imm int32) uint32 {
	u := uint32(imm)
	return ((u>>5)&0x7f)<<25 | rs2<<20 | rs1<<15 | funct3<<12 | (u&0x1f)<<7 | opcode
}

// EncodeB encodes a B-type instruction. imm is a byte offset and must be
// even.
func EncodeB(opcode, funct3, rs1, rs2 uint32, imm int32) uint32 {
	u := uint32(imm)
	return ((u>>12)&0x1)<<31 |
		((u>>5)&0x3f)<<25 |
		rs2<<20 | rs1<<15 | funct3<<12 |
		((u>>1)&0xf)<<8 |
		((u>>11)&0x1)<<7 |
		opcode
}

// EncodeJ encodes a J-type instruction. imm is a byte offset and must be
// even.
func EncodeJ(opcode, rd uint32, imm int32) uint32 {
	u := uint32(imm)
	return ((u>>20)&0x1)<<31 |
		((u>>1)&0x3ff)<<21 |
		((u>>11)&0x1)<<20 |
		((u>>12)&0xff)<<12 |
		rd<<7 | opcode
}

// ADDI encodes addi rd, rs1, imm.
func ADDI(rd, rs1 uint32, imm int32) uint32 {
	return EncodeI(OpcodeOpImm, rd, 0x0, rs1, imm)
}

// ADD encodes add rd, rs1, rs2.
func ADD(rd, rs1, rs2 uint32) uint32 {
	return EncodeR(OpcodeOp, rd, 0x0, rs1, rs2, 0x00)
}

// LW encodes lw rd, imm(rs1).
func LW(rd, rs1 uint32, imm int32) uint32 {
	return EncodeI(OpcodeLoad, rd, 0x2, rs1, imm)
}

// SW encodes sw rs2, imm(rs1).
func SW(rs2, rs1 uint32, imm int32) uint32 {
	return EncodeS(OpcodeStore, 0x2, rs1, rs2, imm)
}

// BEQ encodes beq rs1, rs2, imm.
func BEQ(rs1, rs2 uint32, imm int32) uint32 {
	return EncodeB(OpcodeBranch, 0x0, rs1, rs2, imm)
}

// JALR encodes jalr rd, imm(rs1).
func JALR(rd, rs1 uint32, imm int32) uint32 {
	return EncodeI(OpcodeJALR, rd, 0x0, rs1, imm)
}

// JAL encodes jal rd, imm.
func JAL(rd uint32, imm int32) uint32 {
	return EncodeJ(OpcodeJAL, rd, imm)
}
