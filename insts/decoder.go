// Package insts provides RISC-V instruction definitions and decoding.
package insts

import "fmt"

// Op represents a supported RISC-V operation.
type Op uint16

// RISC-V operations.
const (
	OpUnknown Op = iota
	OpADDI
	OpADD
	OpLW
	OpSW
	OpBEQ
	OpJALR
	OpJAL
)

var opNames = [...]string{
	OpUnknown: "unknown",
	OpADDI:    "addi",
	OpADD:     "add",
	OpLW:      "lw",
	OpSW:      "sw",
	OpBEQ:     "beq",
	OpJALR:    "jalr",
	OpJAL:     "jal",
}

func (op Op) String() string {
	if int(op) < len(opNames) {
		return opNames[op]
	}
	return fmt.Sprintf("Op(%d)", uint16(op))
}

// Format represents an instruction encoding format.
type Format uint8

// Instruction formats.
const (
	FormatUnknown Format = iota
	FormatR              // Register-register
	FormatI              // Immediate, loads, JALR
	FormatS              // Stores
	FormatB              // Conditional branches
	FormatJ              // Jump and link
)

// Major opcodes (bits [6:0]).
const (
	OpcodeLoad   = 0x03
	OpcodeOpImm  = 0x13
	OpcodeStore  = 0x23
	OpcodeOp     = 0x33
	OpcodeBranch = 0x63
	OpcodeJALR   = 0x67
	OpcodeJAL    = 0x6f
)

// Instruction represents a decoded RISC-V instruction.
type Instruction struct {
	Op     Op     // Operation
	Format Format // Encoding format
	Word   uint32 // Raw instruction word

	// Raw fields
	Opcode uint8 // bits [6:0]
	Rd     uint8 // bits [11:7]
	Funct3 uint8 // bits [14:12]
	Rs1    uint8 // bits [19:15]
	Rs2    uint8 // bits [24:20]
	Funct7 uint8 // bits [31:25]

	// Imm is the format-specific immediate, sign-extended to 64 bits.
	Imm uint64
}

// Decoder decodes RISC-V machine code into instructions.
type Decoder struct{}

// NewDecoder creates a new RISC-V instruction decoder.
func NewDecoder() *Decoder {
	return &Decoder{}
}

// Decode decodes a 32-bit RISC-V instruction word. Encodings outside the
// supported subset yield an Instruction with Op == OpUnknown and the raw
// fields still populated.
func (d *Decoder) Decode(word uint32) *Instruction {
	inst := &Instruction{
		Op:     OpUnknown,
		Format: FormatUnknown,
		Word:   word,
		Opcode: uint8(word & 0x7f),
		Rd:     uint8((word >> 7) & 0x1f),
		Funct3: uint8((word >> 12) & 0x7),
		Rs1:    uint8((word >> 15) & 0x1f),
		Rs2:    uint8((word >> 20) & 0x1f),
		Funct7: uint8((word >> 25) & 0x7f),
	}

	switch inst.Opcode {
	case OpcodeOpImm:
		if inst.Funct3 == 0x0 {
			d.setI(inst, OpADDI)
		}
	case OpcodeOp:
		if inst.Funct3 == 0x0 && inst.Funct7 == 0x00 {
			inst.Op = OpADD
			inst.Format = FormatR
		}
	case OpcodeLoad:
		if inst.Funct3 == 0x2 {
			d.setI(inst, OpLW)
		}
	case OpcodeStore:
		if inst.Funct3 == 0x2 {
			inst.Op = OpSW
			inst.Format = FormatS
			inst.Imm = ImmS(word)
		}
	case OpcodeBranch:
		if inst.Funct3 == 0x0 {
			inst.Op = OpBEQ
			inst.Format = FormatB
			inst.Imm = ImmB(word)
		}
	case OpcodeJALR:
		if inst.Funct3 == 0x0 {
			d.setI(inst, OpJALR)
		}
	case OpcodeJAL:
		inst.Op = OpJAL
		inst.Format = FormatJ
		inst.Imm = ImmJ(word)
	}

	return inst
}

func (d *Decoder) setI(inst *Instruction, op Op) {
	inst.Op = op
	inst.Format = FormatI
	inst.Imm = ImmI(inst.Word)
}

// String renders the instruction in assembler syntax with numeric
// registers.
func (i *Instruction) String() string {
	imm := int64(i.Imm)
	switch i.Op {
	case OpADDI:
		return fmt.Sprintf("addi x%d, x%d, %d", i.Rd, i.Rs1, imm)
	case OpADD:
		return fmt.Sprintf("add x%d, x%d, x%d", i.Rd, i.Rs1, i.Rs2)
	case OpLW:
		return fmt.Sprintf("lw x%d, %d(x%d)", i.Rd, imm, i.Rs1)
	case OpSW:
		return fmt.Sprintf("sw x%d, %d(x%d)", i.Rs2, imm, i.Rs1)
	case OpBEQ:
		return fmt.Sprintf("beq x%d, x%d, %d", i.Rs1, i.Rs2, imm)
	case OpJALR:
		return fmt.Sprintf("jalr x%d, %d(x%d)", i.Rd, imm, i.Rs1)
	case OpJAL:
		return fmt.Sprintf("jal x%d, %d", i.Rd, imm)
	default:
		return fmt.Sprintf("unknown 0x%08x", i.Word)
	}
}
