package emu

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/go-logr/logr"

	"github.com/sarchlab/rvemu/config"
	"github.com/sarchlab/rvemu/icache"
	"github.com/sarchlab/rvemu/insts"
)

// StepResult represents the result of executing a single instruction.
type StepResult struct {
	// Halted is true if the emulator stopped on an unsupported
	// instruction. Err then holds an *UnsupportedError, or ErrHalted if
	// the emulator had already stopped.
	Halted bool

	// Inst is the instruction fetched in this step, if any.
	Inst *insts.Instruction

	// Err is set if the step failed.
	Err error
}

// Emulator executes RISC-V instructions functionally. It owns its register
// file and memory and is not safe for concurrent use.
type Emulator struct {
	config  *config.MachineConfig
	regFile *RegFile
	memory  *Memory
	decoder *insts.Decoder
	cache   *icache.Cache

	// Execution units
	alu        *ALU
	lsu        *LoadStoreUnit
	branchUnit *BranchUnit

	// I/O
	stdout io.Writer
	logger logr.Logger

	// Execution state
	pc               uint64
	halted           bool
	instructionCount uint64
}

// EmulatorOption is a functional option for configuring the Emulator.
type EmulatorOption func(*Emulator)

// WithConfig replaces the machine configuration. Options that tweak single
// fields should come after it.
func WithConfig(cfg *config.MachineConfig) EmulatorOption {
	return func(e *Emulator) {
		e.config = cfg.Clone()
	}
}

// WithMemory uses an existing memory instead of allocating one. The
// configured memory size is ignored.
func WithMemory(m *Memory) EmulatorOption {
	return func(e *Emulator) {
		e.memory = m
	}
}

// WithStdout sets where the halt report and register dump are written.
func WithStdout(w io.Writer) EmulatorOption {
	return func(e *Emulator) {
		e.stdout = w
	}
}

// WithLogger sets the logger. Each executed instruction is traced at
// verbosity 1.
func WithLogger(logger logr.Logger) EmulatorOption {
	return func(e *Emulator) {
		e.logger = logger
	}
}

// WithStackPointer sets the reset value of sp.
func WithStackPointer(sp uint64) EmulatorOption {
	return func(e *Emulator) {
		e.config.StackPointer = sp
	}
}

// WithMaxInstructions sets the maximum number of instructions to execute.
// A value of 0 means no limit.
func WithMaxInstructions(max uint64) EmulatorOption {
	return func(e *Emulator) {
		e.config.MaxInstructions = max
	}
}

// WithDecodeCache sets the decode cache geometry. A zero Size disables it.
func WithDecodeCache(cfg config.CacheConfig) EmulatorOption {
	return func(e *Emulator) {
		e.config.DecodeCache = cfg
	}
}

// NewEmulator creates a new emulator with pc = 0 and sp at its reset value.
func NewEmulator(opts ...EmulatorOption) (*Emulator, error) {
	e := &Emulator{
		config:  config.DefaultConfig(),
		regFile: &RegFile{},
		decoder: insts.NewDecoder(),
		stdout:  os.Stdout,
		logger:  logr.Discard(),
	}

	for _, opt := range opts {
		opt(e)
	}

	if e.memory == nil {
		if e.config.MemorySize == 0 {
			return nil, fmt.Errorf("invalid machine config: memory_size must be > 0")
		}
		e.memory = NewMemory(e.config.MemorySize)
	}

	if err := e.config.DecodeCache.Validate(); err != nil {
		return nil, fmt.Errorf("invalid machine config: %w", err)
	}
	if e.config.DecodeCache.Enabled() {
		e.cache = icache.New(e.config.DecodeCache)
		e.memory.Watch(e.cache.Invalidate)
	}

	// Create execution units
	e.alu = NewALU(e.regFile)
	e.lsu = NewLoadStoreUnit(e.regFile, e.memory)
	e.branchUnit = NewBranchUnit(e.regFile)

	if err := e.regFile.Write(RegSP, e.config.StackPointer); err != nil {
		return nil, err
	}

	return e, nil
}

// RegFile returns the emulator's register file.
func (e *Emulator) RegFile() *RegFile {
	return e.regFile
}

// Memory returns the emulator's memory.
func (e *Emulator) Memory() *Memory {
	return e.memory
}

// Config returns a copy of the machine configuration in use.
func (e *Emulator) Config() *config.MachineConfig {
	return e.config.Clone()
}

// PC returns the program counter.
func (e *Emulator) PC() uint64 {
	return e.pc
}

// SetPC sets the program counter.
func (e *Emulator) SetPC(pc uint64) {
	e.pc = pc
}

// Halted reports whether the emulator stopped on an unsupported
// instruction.
func (e *Emulator) Halted() bool {
	return e.halted
}

// InstructionCount returns the number of instructions executed.
func (e *Emulator) InstructionCount() uint64 {
	return e.instructionCount
}

// CacheStats returns decode cache statistics. They are zero when the cache
// is disabled.
func (e *Emulator) CacheStats() icache.Statistics {
	if e.cache == nil {
		return icache.Statistics{}
	}
	return e.cache.Stats()
}

// Fetch reads the 32-bit little-endian instruction word at pc.
func (e *Emulator) Fetch() (uint32, error) {
	return e.memory.Read32(e.pc)
}

// fetchDecode returns the decoded instruction at pc, going through the
// decode cache when it is enabled.
func (e *Emulator) fetchDecode() (*insts.Instruction, error) {
	if e.cache != nil {
		if inst, ok := e.cache.Lookup(e.pc); ok {
			return inst, nil
		}
	}

	word, err := e.Fetch()
	if err != nil {
		return nil, err
	}
	inst := e.decoder.Decode(word)

	if e.cache != nil && inst.Op != insts.OpUnknown {
		e.cache.Fill(e.pc, inst)
	}

	return inst, nil
}

// Step fetches, decodes and executes a single instruction.
func (e *Emulator) Step() StepResult {
	if e.halted {
		return StepResult{Halted: true, Err: ErrHalted}
	}

	// Check instruction limit before executing
	if e.config.MaxInstructions > 0 && e.instructionCount >= e.config.MaxInstructions {
		return StepResult{Err: ErrInstructionLimit}
	}

	// 1. Fetch and decode
	pc := e.pc
	inst, err := e.fetchDecode()
	if err != nil {
		return StepResult{Err: fmt.Errorf("fetch at pc 0x%x: %w", pc, err)}
	}

	e.logger.V(1).Info("step",
		"pc", fmt.Sprintf("0x%x", pc),
		"inst", fmt.Sprintf("0x%08x", inst.Word),
		"asm", inst.String())

	// 2. Advance pc before executing; branch targets compensate with -4.
	e.pc += 4

	// 3. Execute
	if err := e.execute(inst); err != nil {
		var unsupported *UnsupportedError
		if errors.As(err, &unsupported) {
			e.halted = true
			return StepResult{Halted: true, Inst: inst, Err: err}
		}
		return StepResult{Inst: inst, Err: fmt.Errorf("%v at pc 0x%x: %w", inst.Op, pc, err)}
	}

	e.instructionCount++

	return StepResult{Inst: inst}
}

// Run executes instructions until one is unsupported or an error occurs.
// An unsupported instruction is a clean stop: it is reported together with
// a register dump on stdout and Run returns nil. Any other error is
// returned after the dump.
func (e *Emulator) Run() error {
	for {
		result := e.Step()
		if errors.Is(result.Err, ErrHalted) {
			return result.Err
		}
		if result.Halted {
			_, _ = fmt.Fprintln(e.stdout, result.Err)
			return e.regFile.Dump(e.stdout)
		}
		if result.Err != nil {
			_ = e.regFile.Dump(e.stdout)
			return result.Err
		}
	}
}

// execute dispatches and executes a decoded instruction. pc has already
// been advanced past inst.
func (e *Emulator) execute(inst *insts.Instruction) error {
	switch inst.Op {
	case insts.OpADDI:
		return e.alu.ADDI(inst.Rd, inst.Rs1, inst.Imm)
	case insts.OpADD:
		return e.alu.ADD(inst.Rd, inst.Rs1, inst.Rs2)
	case insts.OpLW:
		return e.lsu.LW(inst.Rd, inst.Rs1, inst.Imm)
	case insts.OpSW:
		return e.lsu.SW(inst.Rs2, inst.Rs1, inst.Imm)
	case insts.OpBEQ:
		return e.jump(e.branchUnit.BEQ(e.pc, inst.Rs1, inst.Rs2, inst.Imm))
	case insts.OpJAL:
		return e.jump(e.branchUnit.JAL(e.pc, inst.Rd, inst.Imm))
	case insts.OpJALR:
		return e.jump(e.branchUnit.JALR(e.pc, inst.Rd, inst.Rs1, inst.Imm))
	default:
		return &UnsupportedError{PC: e.pc - 4, Word: inst.Word}
	}
}

func (e *Emulator) jump(target uint64, err error) error {
	if err != nil {
		return err
	}
	e.pc = target
	return nil
}
