package emu

import (
	"errors"

	"github.com/sarchlab/rvemu/translate"
)

var f = translate.From

var (
	// ErrRegisterIndex reports a register index outside [0, 31].
	ErrRegisterIndex = errors.New(f("register index out of range"))
	// ErrMemoryBounds reports an access that leaves the memory buffer.
	ErrMemoryBounds = errors.New(f("memory access out of bounds"))
	// ErrShortData reports a store whose data is shorter than its width.
	ErrShortData = errors.New(f("store data shorter than access width"))
	// ErrUnsupportedInstruction reports an encoding outside the supported
	// subset. It is the only error that halts Run cleanly.
	ErrUnsupportedInstruction = errors.New(f("unsupported instruction"))
	// ErrHalted reports a Step on an emulator that has already halted.
	ErrHalted = errors.New(f("emulator halted"))
	// ErrInstructionLimit reports that the instruction limit was reached.
	ErrInstructionLimit = errors.New(f("max instructions reached"))
)

// RegisterError reports an out-of-range register index.
type RegisterError struct {
	Index int
}

func (err *RegisterError) Error() string {
	return f("register x%v: %v", err.Index, ErrRegisterIndex)
}

func (err *RegisterError) Unwrap() error {
	return ErrRegisterIndex
}

// AccessError reports a memory access outside [0, Size).
type AccessError struct {
	Addr uint64
	Len  uint64
	Size uint64
}

func (err *AccessError) Error() string {
	return f("%v: [0x%x, +0x%x) exceeds 0x%x bytes", ErrMemoryBounds, err.Addr, err.Len, err.Size)
}

func (err *AccessError) Unwrap() error {
	return ErrMemoryBounds
}

// UnsupportedError reports the instruction that stopped execution.
type UnsupportedError struct {
	// PC is the address of the instruction.
	PC uint64
	// Word is the raw instruction word.
	Word uint32
}

func (err *UnsupportedError) Error() string {
	return f("unsupported instruction 0x%08x at pc 0x%x", err.Word, err.PC)
}

func (err *UnsupportedError) Unwrap() error {
	return ErrUnsupportedInstruction
}
