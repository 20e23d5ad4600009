package emu

// ALU implements RISC-V integer arithmetic. Results wrap modulo 2^64.
type ALU struct {
	regFile *RegFile
}

// NewALU creates a new ALU connected to the given register file.
func NewALU(regFile *RegFile) *ALU {
	return &ALU{regFile: regFile}
}

// ADD performs rd = rs1 + rs2.
func (a *ALU) ADD(rd, rs1, rs2 uint8) error {
	op1, err := a.regFile.Read(rs1)
	if err != nil {
		return err
	}
	op2, err := a.regFile.Read(rs2)
	if err != nil {
		return err
	}
	return a.regFile.Write(rd, op1+op2)
}

// ADDI performs rd = rs1 + imm, where imm is already sign-extended.
func (a *ALU) ADDI(rd, rs1 uint8, imm uint64) error {
	op1, err := a.regFile.Read(rs1)
	if err != nil {
		return err
	}
	return a.regFile.Write(rd, op1+imm)
}
