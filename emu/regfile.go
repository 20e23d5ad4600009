// Package emu provides functional RISC-V emulation.
package emu

import (
	"fmt"
	"io"
	"strings"
)

// NumRegs is the number of general-purpose integer registers.
const NumRegs = 32

// Register indices with a fixed architectural role.
const (
	RegZero uint8 = 0
	RegRA   uint8 = 1
	RegSP   uint8 = 2
)

var abiNames = [NumRegs]string{
	"zero", "ra", "sp", "gp", "tp", "t0", "t1", "t2",
	"s0", "s1", "a0", "a1", "a2", "a3", "a4", "a5",
	"a6", "a7", "s2", "s3", "s4", "s5", "s6", "s7",
	"s8", "s9", "s10", "s11", "t3", "t4", "t5", "t6",
}

// RegFile represents the RISC-V integer register file: 32 registers of 64
// bits, x0 hard-wired to zero.
type RegFile struct {
	x [NumRegs]uint64
}

// Read reads a register value. Register 0 always reads as 0.
func (r *RegFile) Read(reg uint8) (uint64, error) {
	if reg >= NumRegs {
		return 0, &RegisterError{Index: int(reg)}
	}
	if reg == RegZero {
		return 0, nil
	}
	return r.x[reg], nil
}

// Write writes a value to a register. Writes to register 0 are discarded.
func (r *RegFile) Write(reg uint8, value uint64) error {
	if reg >= NumRegs {
		return &RegisterError{Index: int(reg)}
	}
	if reg == RegZero {
		return nil
	}
	r.x[reg] = value
	return nil
}

// Name returns the ABI name of a register, or "" if out of range.
func (r *RegFile) Name(reg uint8) string {
	if reg >= NumRegs {
		return ""
	}
	return abiNames[reg]
}

const dumpWidth = 110

// Dump writes all registers, four per line, preceded by a header.
func (r *RegFile) Dump(w io.Writer) error {
	_, err := io.WriteString(w, r.String())
	return err
}

// String renders the register file the way Dump prints it.
func (r *RegFile) String() string {
	var sb strings.Builder

	sb.WriteString(center("registers", dumpWidth, '-'))
	sb.WriteByte('\n')

	for i := 0; i < NumRegs; i += 4 {
		for j := i; j < i+4; j++ {
			if j > i {
				sb.WriteByte(' ')
			}
			v, _ := r.Read(uint8(j))
			fmt.Fprintf(&sb, "%-3s(%s) = %-18s",
				fmt.Sprintf("x%d", j), center(abiNames[j], 4, ' '), fmt.Sprintf("%#x", v))
		}
		sb.WriteByte('\n')
	}

	return sb.String()
}

// center pads s on both sides to width, putting the odd fill on the right.
func center(s string, width int, fill byte) string {
	pad := width - len(s)
	if pad <= 0 {
		return s
	}
	left := pad / 2
	fillStr := string(fill)
	return strings.Repeat(fillStr, left) + s + strings.Repeat(fillStr, pad-left)
}
