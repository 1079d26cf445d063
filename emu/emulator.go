// Package emu provides functional R32 emulation.
package emu

import (
	"fmt"
	"io"
	"math/rand"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/sarchlab/r32sim/config"
	"github.com/sarchlab/r32sim/insts"
	"github.com/sarchlab/r32sim/loader"
)

// StepResult represents the result of a single tick.
type StepResult struct {
	// Halted is true once the machine executed HALT.
	Halted bool

	// Err is set if an error occurred during the tick.
	Err error
}

// Emulator executes R32 instructions functionally.
type Emulator struct {
	regFile *RegFile
	memory  Memory
	decoder *insts.Decoder
	console Console
	logger  *logrus.Logger
	rng     *rand.Rand

	// Execution units
	alu        *ALU
	lsu        *LoadStoreUnit
	branchUnit *BranchUnit
	fpu        *FPU

	// I/O
	output io.Writer
	input  io.Reader

	// Power-on state
	bootAddress uint32
	initialSP   uint32
	seed        int64

	// Execution state
	halted           bool
	cycles           uint64
	instructionCount uint64
	maxInstructions  uint64 // 0 means no limit
}

// EmulatorOption is a functional option for configuring the Emulator.
type EmulatorOption func(*Emulator)

// WithOutput sets the sink of PRINT_I_R and PUTC_R.
func WithOutput(w io.Writer) EmulatorOption {
	return func(e *Emulator) {
		e.output = w
	}
}

// WithInput sets the source of GETC_R.
func WithInput(r io.Reader) EmulatorOption {
	return func(e *Emulator) {
		e.input = r
	}
}

// WithConsole replaces the console built from WithOutput and WithInput.
func WithConsole(c Console) EmulatorOption {
	return func(e *Emulator) {
		e.console = c
	}
}

// WithLogger sets the logger used for tracing and diagnostics.
func WithLogger(logger *logrus.Logger) EmulatorOption {
	return func(e *Emulator) {
		e.logger = logger
	}
}

// WithMemory sets the memory the emulator runs against.
func WithMemory(m Memory) EmulatorOption {
	return func(e *Emulator) {
		e.memory = m
	}
}

// WithBootAddress sets the reset value of pc.
func WithBootAddress(addr uint32) EmulatorOption {
	return func(e *Emulator) {
		e.bootAddress = addr
	}
}

// WithStackPointer sets the reset value of sp.
func WithStackPointer(sp uint32) EmulatorOption {
	return func(e *Emulator) {
		e.initialSP = sp
	}
}

// WithSeed sets the initial seed of the random number generator.
func WithSeed(seed int64) EmulatorOption {
	return func(e *Emulator) {
		e.seed = seed
	}
}

// WithMaxInstructions sets the maximum number of instructions to execute.
// A value of 0 means no limit.
func WithMaxInstructions(max uint64) EmulatorOption {
	return func(e *Emulator) {
		e.maxInstructions = max
	}
}

// WithConfig applies a machine configuration. Options given after it
// override the matching fields.
func WithConfig(c *config.Config) EmulatorOption {
	return func(e *Emulator) {
		if c.Paged {
			e.memory = NewPagedMemory(c.Pages, c.PageSize)
		} else {
			e.memory = NewMemory(c.Capacity())
		}
		e.bootAddress = c.BootAddress
		e.initialSP = c.StackPointer
		e.seed = c.Seed
		e.maxInstructions = c.MaxInstructions
	}
}

// NewEmulator creates a new R32 emulator in its power-on state.
func NewEmulator(opts ...EmulatorOption) *Emulator {
	e := &Emulator{
		regFile:     &RegFile{},
		decoder:     insts.NewDecoder(),
		output:      io.Discard,
		bootAddress: loader.BootAddress,
		initialSP:   loader.DefaultStackPointer,
		seed:        1,
	}

	for _, opt := range opts {
		opt(e)
	}

	if e.memory == nil {
		e.memory = NewMemory(DefaultCapacity)
	}
	if e.logger == nil {
		e.logger = logrus.New()
	}
	if e.console == nil {
		e.console = NewDefaultConsole(e.output, e.input)
	}

	e.alu = NewALU(e.regFile)
	e.lsu = NewLoadStoreUnit(e.regFile, e.memory)
	e.branchUnit = NewBranchUnit(e.regFile)
	e.fpu = NewFPU(e.regFile)
	e.rng = rand.New(rand.NewSource(e.seed))

	e.regFile.Reset(e.bootAddress, e.initialSP)

	return e
}

// RegFile returns the emulator's register file.
func (e *Emulator) RegFile() *RegFile {
	return e.regFile
}

// Memory returns the emulator's memory.
func (e *Emulator) Memory() Memory {
	return e.memory
}

// Halted reports whether the machine executed HALT.
func (e *Emulator) Halted() bool {
	return e.halted
}

// Cycles returns the number of ticks since the last reset.
func (e *Emulator) Cycles() uint64 {
	return e.cycles
}

// InstructionCount returns the number of instructions executed.
func (e *Emulator) InstructionCount() uint64 {
	return e.instructionCount
}

// Reset restores registers, flags and counters to their power-on values.
// Memory is left untouched.
func (e *Emulator) Reset() {
	e.regFile.Reset(e.bootAddress, e.initialSP)
	e.halted = false
	e.cycles = 0
	e.instructionCount = 0
	e.rng.Seed(e.seed)
}

// Load copies data into memory at addr.
func (e *Emulator) Load(data []byte, addr uint32) error {
	if err := e.memory.Load(addr, data); err != nil {
		return fmt.Errorf("load %d bytes at 0x%X: %w", len(data), addr, err)
	}

	e.logger.WithFields(logrus.Fields{
		"addr": fmt.Sprintf("0x%04X", addr),
		"size": len(data),
	}).Debug("loaded")

	return nil
}

// LoadProgram loads every segment of prog and points pc and sp at the
// program's entry point and stack, falling back to the configured boot
// address and stack pointer when the image names none.
func (e *Emulator) LoadProgram(prog *loader.Program) error {
	for _, seg := range prog.Segments {
		if err := e.Load(seg.Data, seg.Addr); err != nil {
			return fmt.Errorf("segment %s: %w", seg.Name, err)
		}
	}

	e.regFile.PC = e.bootAddress
	if prog.HasEntryPoint {
		e.regFile.PC = prog.EntryPoint
	}
	e.regFile.SP = e.initialSP
	if prog.HasInitialSP {
		e.regFile.SP = prog.InitialSP
	}
	return nil
}

// DumpRegisters writes the register file to w.
func (e *Emulator) DumpRegisters(w io.Writer) error {
	return e.regFile.Dump(w)
}

// FetchNext reads the word at pc and advances pc by 4.
func (e *Emulator) FetchNext() (uint32, error) {
	word, err := e.memory.Read32(e.regFile.PC)
	if err != nil {
		return 0, err
	}
	e.regFile.PC += 4
	return word, nil
}

// checkZero aborts the process through the logger when z is not 0. If the
// logger's exit function returns, ErrZeroRegister is reported instead.
func (e *Emulator) checkZero() error {
	if e.regFile.ZeroIntact() {
		return nil
	}

	e.logger.WithFields(logrus.Fields{
		"pc": fmt.Sprintf("0x%04X", e.regFile.PC),
		"z":  fmt.Sprintf("0x%X", e.regFile.zero),
	}).Fatal("zero register modified")

	return ErrZeroRegister
}

// Tick runs one machine cycle: check the zero register, then fetch, decode
// and execute one instruction unless the machine is halted.
func (e *Emulator) Tick() StepResult {
	e.cycles++

	if err := e.checkZero(); err != nil {
		return StepResult{Err: err}
	}

	if e.halted {
		return StepResult{Halted: true}
	}

	if e.maxInstructions > 0 && e.instructionCount >= e.maxInstructions {
		return StepResult{
			Err: fmt.Errorf("%w (%d)", ErrMaxInstructions, e.maxInstructions),
		}
	}

	pc := e.regFile.PC
	word, err := e.FetchNext()
	if err != nil {
		return StepResult{Err: fmt.Errorf("fetch at pc=0x%X: %w", pc, err)}
	}

	var inst *insts.Instruction
	if e.regFile.Flag(CtrlExtFnc) {
		e.regFile.ClearFlag(CtrlExtFnc)
		inst = e.decoder.DecodeExtended(word)
	} else {
		inst = e.decoder.Decode(word)
	}

	if e.logger.IsLevelEnabled(logrus.TraceLevel) {
		e.logger.WithFields(logrus.Fields{
			"pc":   fmt.Sprintf("0x%04X", pc),
			"op":   inst.Name(),
			"word": fmt.Sprintf("0x%08X", word),
		}).Trace("tick")
	}

	e.instructionCount++

	if err := e.execute(inst); err != nil {
		return StepResult{Err: fmt.Errorf("pc=0x%X: %w", pc, err)}
	}

	return StepResult{Halted: e.halted}
}

// Run ticks until the machine halts or an error occurs.
func (e *Emulator) Run() error {
	start := time.Now()

	for {
		result := e.Tick()
		if result.Err != nil {
			return result.Err
		}
		if result.Halted {
			break
		}
	}

	if err := e.checkZero(); err != nil {
		return err
	}

	e.logger.WithFields(logrus.Fields{
		"cycles":       e.cycles,
		"instructions": e.instructionCount,
		"elapsed":      time.Since(start),
	}).Debug("halted")

	return nil
}

// execute dispatches and executes a decoded instruction.
func (e *Emulator) execute(inst *insts.Instruction) error {
	if err := inst.Err(); err != nil {
		return err
	}

	if inst.Extended {
		return e.executeExtended(inst)
	}

	switch inst.Format {
	case insts.FormatNone:
		e.executeNone(inst)
		return nil
	case insts.FormatDSS:
		return e.executeDSS(inst)
	case insts.FormatDSI:
		return e.executeDSI(inst)
	case insts.FormatPair:
		return e.executePair(inst)
	case insts.FormatSingle:
		return e.executeSingle(inst)
	case insts.FormatLiteral:
		e.executeLiteral(inst)
		return nil
	default:
		return fmt.Errorf("unimplemented format %s for %s", inst.Format, inst.Name())
	}
}

// executeNone executes instructions without operands.
func (e *Emulator) executeNone(inst *insts.Instruction) {
	switch inst.Op {
	case insts.OpHALT:
		e.halted = true
		e.logger.WithField("pc", fmt.Sprintf("0x%04X", e.regFile.PC-4)).Debug("halting")
	case insts.OpRET:
		e.branchUnit.RET()
	case insts.OpINCA:
		e.alu.INC(insts.RegA)
	case insts.OpINCB:
		e.alu.INC(insts.RegB)
	case insts.OpINCX:
		e.alu.INC(insts.RegX)
	case insts.OpTESTCTRLNEG:
		e.branchUnit.TestCtrlNeg()
	case insts.OpEXTINSTR:
		e.regFile.SetFlag(CtrlExtFnc)
	}
}

// executeDSS executes register-register instructions.
func (e *Emulator) executeDSS(inst *insts.Instruction) error {
	rd, rn, rm, err := insts.DecodeDSS(inst.Word, insts.ClassInt)
	if err != nil {
		return err
	}
	op2 := e.regFile.ReadInt(rm)

	switch inst.Op {
	case insts.OpANDR:
		e.alu.AND(rd, rn, op2)
	case insts.OpORR:
		e.alu.OR(rd, rn, op2)
	case insts.OpXORR:
		e.alu.XOR(rd, rn, op2)
	case insts.OpLLSHR:
		e.alu.LLSH(rd, rn, op2)
	case insts.OpALSHR:
		e.alu.ALSH(rd, rn, op2)
	case insts.OpLRSHR:
		e.alu.LRSH(rd, rn, op2)
	case insts.OpARSHR:
		e.alu.ARSH(rd, rn, op2)
	case insts.OpADDDSS:
		e.alu.ADD(rd, rn, op2)
	case insts.OpSUBDSS:
		e.alu.SUB(rd, rn, op2)
	case insts.OpMULTDSS:
		e.alu.MULT(rd, rn, op2)
	}
	return nil
}

// executeDSI executes register-immediate and two-register instructions.
func (e *Emulator) executeDSI(inst *insts.Instruction) error {
	rd, rn, err := insts.DecodeDSI(inst.Word, insts.ClassInt)
	if err != nil {
		return err
	}
	imm := inst.Imm8

	switch inst.Op {
	case insts.OpANDI:
		e.alu.AND(rd, rn, imm)
	case insts.OpORI:
		e.alu.OR(rd, rn, imm)
	case insts.OpXORI:
		e.alu.XOR(rd, rn, imm)
	case insts.OpLLSHI:
		e.alu.LLSH(rd, rn, imm)
	case insts.OpALSHI:
		e.alu.ALSH(rd, rn, imm)
	case insts.OpLRSHI:
		e.alu.LRSH(rd, rn, imm)
	case insts.OpARSHI:
		e.alu.ARSH(rd, rn, imm)
	case insts.OpADDDSI:
		e.alu.ADD(rd, rn, imm)
	case insts.OpSUBDSI:
		e.alu.SUB(rd, rn, imm)
	case insts.OpMULTDSI:
		e.alu.MULT(rd, rn, imm)
	case insts.OpMOVE:
		e.alu.MOVE(rd, rn)
	case insts.OpNOTR:
		e.alu.NOT(rd, rn)
	case insts.OpPOPCNT:
		e.alu.POPCNT(rd, rn)
	case insts.OpLOADATADDR:
		if err := e.lsu.LoadByte(rd, rn); err != nil {
			return err
		}
		e.alu.SetNeededCtrl(rd)
	case insts.OpSTOREATADDR:
		return e.lsu.StoreByte(rd, rn)
	case insts.OpGETCR:
		c, err := e.console.GetChar()
		if err != nil {
			return err
		}
		e.alu.LoadImm(rd, c)
	}
	return nil
}

// executePair executes comparisons.
func (e *Emulator) executePair(inst *insts.Instruction) error {
	lhs, rhs, err := insts.DecodePair(inst.Word, insts.ClassInt)
	if err != nil {
		return err
	}

	switch inst.Op {
	case insts.OpTESTEQ:
		e.branchUnit.TestEQ(lhs, rhs)
	case insts.OpTESTNEQ:
		e.branchUnit.TestNEQ(lhs, rhs)
	}
	return nil
}

// executeSingle executes instructions naming one register.
func (e *Emulator) executeSingle(inst *insts.Instruction) error {
	reg, err := insts.DecodeSingle(inst.Word, insts.ClassInt)
	if err != nil {
		return err
	}

	switch inst.Op {
	case insts.OpSQRTRI:
		e.alu.SQRT(reg)
	case insts.OpPRINTIR:
		return e.console.PrintInt(e.regFile.ReadInt(reg))
	case insts.OpPUTCR:
		return e.console.PutChar(e.regFile.ReadInt(reg))
	case insts.OpREGPUSH:
		return e.lsu.Push(reg)
	case insts.OpREGPOP:
		return e.lsu.Pop(reg)
	case insts.OpRNDSEED:
		e.rng.Seed(int64(e.regFile.ReadInt(reg)))
	case insts.OpRNDNUM:
		e.alu.LoadImm(reg, uint32(e.rng.Int31()))
	}
	return nil
}

// executeLiteral executes instructions carrying a 24-bit literal.
func (e *Emulator) executeLiteral(inst *insts.Instruction) {
	lit := inst.Lit24

	switch inst.Op {
	case insts.OpLDIMA:
		e.alu.LoadImm(insts.RegA, lit)
	case insts.OpLDIMB:
		e.alu.LoadImm(insts.RegB, lit)
	case insts.OpLDIMX:
		e.alu.LoadImm(insts.RegX, lit)
	case insts.OpJMP:
		e.branchUnit.JMP(lit)
	case insts.OpJMPWITHOFF:
		e.branchUnit.JMPOffset(lit)
	case insts.OpBNCH:
		e.traceBranch(e.branchUnit.BNCH(lit))
	case insts.OpBNCHWITHOFF:
		e.traceBranch(e.branchUnit.BNCHOffset(lit))
	case insts.OpCALLFNI:
		e.branchUnit.CALL(lit)
	}
}

func (e *Emulator) traceBranch(taken bool) {
	if e.logger.IsLevelEnabled(logrus.TraceLevel) {
		e.logger.WithFields(logrus.Fields{
			"taken": taken,
			"pc":    fmt.Sprintf("0x%04X", e.regFile.PC),
		}).Trace("branch")
	}
}

// executeExtended executes instructions from the extended table. EXT_FNC
// has already been cleared.
func (e *Emulator) executeExtended(inst *insts.Instruction) error {
	switch inst.Format {
	case insts.FormatDSS:
		fd, fn, fm, err := insts.DecodeDSS(inst.Word, insts.ClassFloat)
		if err != nil {
			return err
		}
		op2 := e.regFile.ReadFloat(fm)
		switch inst.ExtOp {
		case insts.ExtOpFADDDSS:
			e.fpu.FADD(fd, fn, op2)
		case insts.ExtOpFSUBDSS:
			e.fpu.FSUB(fd, fn, op2)
		case insts.ExtOpFMULTDSS:
			e.fpu.FMULT(fd, fn, op2)
		}
	case insts.FormatDSI:
		fd, fn, err := insts.DecodeDSI(inst.Word, insts.ClassFloat)
		if err != nil {
			return err
		}
		op2 := insts.FloatLiteral(inst.Word, 8)
		switch inst.ExtOp {
		case insts.ExtOpFADDDSI:
			e.fpu.FADD(fd, fn, op2)
		case insts.ExtOpFSUBDSI:
			e.fpu.FSUB(fd, fn, op2)
		case insts.ExtOpFMULTDSI:
			e.fpu.FMULT(fd, fn, op2)
		}
	case insts.FormatSingle:
		fd, err := insts.DecodeSingle(inst.Word, insts.ClassFloat)
		if err != nil {
			return err
		}
		e.fpu.FSQRT(fd)
	case insts.FormatLiteral:
		value := insts.FloatLiteral(inst.Word, 24)
		switch inst.ExtOp {
		case insts.ExtOpLOADFIMA:
			e.fpu.LoadImm(insts.RegFA, value)
		case insts.ExtOpLOADFIMB:
			e.fpu.LoadImm(insts.RegFB, value)
		}
	default:
		return fmt.Errorf("unimplemented format %s for %s", inst.Format, inst.Name())
	}
	return nil
}
