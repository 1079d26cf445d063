package benchmarks

import (
	"bytes"
	"fmt"

	"github.com/sarchlab/r32sim/emu"
	"github.com/sarchlab/r32sim/insts"
	"github.com/sarchlab/r32sim/loader"
)

// Microbenchmarks returns the built-in programs, each stressing one part
// of the machine.
func Microbenchmarks() []Benchmark {
	return []Benchmark{
		arithmeticLoop(),
		functionCalls(),
		memoryCopy(),
		stackChurn(),
		floatMultiply(),
		putsString(),
	}
}

// Register indices used by the programs below.
const (
	z  = insts.IndexZ
	a  = insts.IndexA
	b  = insts.IndexB
	x  = insts.IndexX
	fa = insts.IndexFA
)

func none(op insts.Op) uint32 {
	return insts.EncodeLiteral(uint8(op), 0)
}

func lit(op insts.Op, value uint32) uint32 {
	return insts.EncodeLiteral(uint8(op), value)
}

func single(op insts.Op, reg uint8) uint32 {
	return insts.EncodeSingle(uint8(op), reg)
}

func dss(op insts.Op, dest, src1, src2 uint8) uint32 {
	return insts.EncodeDSS(uint8(op), dest, src1, src2)
}

func dsi(op insts.Op, dest, src, imm uint8) uint32 {
	return insts.EncodeDSI(uint8(op), dest, src, imm)
}

func pair(op insts.Op, lhs, rhs uint8) uint32 {
	return insts.EncodePair(uint8(op), lhs, rhs)
}

func ext(op insts.ExtOp, dest, src1, src2 uint8) uint32 {
	return insts.EncodeDSS(uint8(op), dest, src1, src2)
}

func extLit(op insts.ExtOp, value uint32) uint32 {
	return insts.EncodeLiteral(uint8(op), value)
}

// back encodes a backward displacement for the *_WITH_OFFSET jumps.
func back(n uint32) uint32 { return n }

// forward encodes a forward displacement for the *_WITH_OFFSET jumps.
func forward(n uint32) uint32 { return 0x800000 | n }

func program(segments ...loader.Segment) *loader.Program {
	prog := &loader.Program{Segments: segments}
	prog.SetEntryPoint(loader.BootAddress)
	prog.SetInitialSP(loader.DefaultStackPointer)
	return prog
}

func boot(words ...uint32) loader.Segment {
	return loader.Segment{Name: "boot", Addr: loader.BootAddress, Data: insts.Bytes(words...)}
}

// arithmeticLoop counts a up to 1000 while adding 3 to x each round.
func arithmeticLoop() Benchmark {
	return Benchmark{
		Name:        "arithmetic_loop",
		Description: "1000 iterations of INC/ADD with a register compare",
		Program: program(boot(
			lit(insts.OpLDIMB, 1000),           // F000
			none(insts.OpINCA),                 // F004
			dsi(insts.OpADDDSI, x, x, 3),       // F008
			pair(insts.OpTESTNEQ, a, b),        // F00C
			lit(insts.OpBNCHWITHOFF, back(16)), // F010 -> F004
			single(insts.OpPRINTIR, x),
			none(insts.OpHALT),
		)),
		ExpectedOutput: "3000",
	}
}

// functionCalls calls a one-instruction function 100 times.
func functionCalls() Benchmark {
	fn := loader.Segment{
		Name: "inc_b",
		Addr: 0x6000,
		Data: insts.Bytes(
			none(insts.OpINCB),
			none(insts.OpRET),
		),
	}

	return Benchmark{
		Name:        "function_calls",
		Description: "100 CALL_FN_I/RET round trips",
		Program: program(boot(
			lit(insts.OpLDIMX, 100),            // F000
			lit(insts.OpCALLFNI, fn.Addr),      // F004
			dsi(insts.OpSUBDSI, x, x, 1),       // F008
			pair(insts.OpTESTNEQ, x, z),        // F00C
			lit(insts.OpBNCHWITHOFF, back(16)), // F010 -> F004
			single(insts.OpPRINTIR, b),
			none(insts.OpHALT),
		), fn),
		ExpectedOutput: "100",
	}
}

const (
	copySrc  = 0x1000
	copyDst  = 0x2000
	copySize = 64
)

func copyPayload() []byte {
	data := make([]byte, copySize)
	for i := range data {
		data[i] = byte(i*7 + 1)
	}
	return data
}

// memoryCopy copies a 64-byte block one byte at a time.
func memoryCopy() Benchmark {
	payload := copyPayload()

	return Benchmark{
		Name:        "memory_copy",
		Description: "byte-wise copy of a 64-byte block",
		Program: program(boot(
			lit(insts.OpLDIMA, copySrc),          // F000
			lit(insts.OpLDIMB, copyDst),          // F004
			dsi(insts.OpLOADATADDR, x, a, 0),     // F008
			dsi(insts.OpSTOREATADDR, b, x, 0),    // F00C
			none(insts.OpINCA),                   // F010
			none(insts.OpINCB),                   // F014
			lit(insts.OpLDIMX, copySrc+copySize), // F018
			pair(insts.OpTESTNEQ, a, x),          // F01C
			lit(insts.OpBNCHWITHOFF, back(0x1C)), // F020 -> F008
			none(insts.OpHALT),
		), loader.Segment{Name: "payload", Addr: copySrc, Data: payload}),
		Validate: func(e *emu.Emulator) error {
			got := make([]byte, copySize)
			for i := range got {
				v, err := e.Memory().Read8(copyDst + uint32(i))
				if err != nil {
					return err
				}
				got[i] = v
			}
			if !bytes.Equal(got, payload) {
				return fmt.Errorf("copied block differs: % X", got)
			}
			return nil
		},
	}
}

// stackChurn pushes and pops 50 values and sums them.
func stackChurn() Benchmark {
	return Benchmark{
		Name:        "stack_churn",
		Description: "50 REG_PUSH/REG_POP pairs feeding an accumulator",
		Program: program(boot(
			lit(insts.OpLDIMX, 50),             // F000
			single(insts.OpREGPUSH, x),         // F004
			single(insts.OpREGPOP, a),          // F008
			dss(insts.OpADDDSS, b, b, a),       // F00C
			dsi(insts.OpSUBDSI, x, x, 1),       // F010
			pair(insts.OpTESTNEQ, x, z),        // F014
			lit(insts.OpBNCHWITHOFF, back(24)), // F018 -> F004
			single(insts.OpPRINTIR, b),
			none(insts.OpHALT),
		)),
		ExpectedOutput: "1275",
		Validate: func(e *emu.Emulator) error {
			if sp := e.RegFile().SP; sp != loader.DefaultStackPointer {
				return fmt.Errorf("sp = 0x%X after balanced push/pop", sp)
			}
			return nil
		},
	}
}

// floatMultiply doubles fa ten times through the extended table.
func floatMultiply() Benchmark {
	return Benchmark{
		Name:        "float_multiply",
		Description: "10 extended FMULT_DSI instructions",
		Program: program(boot(
			lit(insts.OpLDIMX, 10),                 // F000
			none(insts.OpEXTINSTR),                 // F004
			extLit(insts.ExtOpLOADFIMA, 0x3FC000),  // F008 fa = 1.5
			none(insts.OpEXTINSTR),                 // F00C
			ext(insts.ExtOpFMULTDSI, fa, fa, 0x40), // F010 fa *= 2.0
			dsi(insts.OpSUBDSI, x, x, 1),           // F014
			pair(insts.OpTESTNEQ, x, z),            // F018
			lit(insts.OpBNCHWITHOFF, back(0x14)),   // F01C -> F00C
			none(insts.OpHALT),
		)),
		Validate: func(e *emu.Emulator) error {
			if got := e.RegFile().ReadFloat(insts.RegFA); got != 1536 {
				return fmt.Errorf("fa = %v, want 1536", got)
			}
			return nil
		},
	}
}

const putsAddr = 0x5000

// Puts returns a routine that pops a string address and prints bytes up to
// the terminating NUL.
func Puts() loader.Segment {
	return loader.Segment{
		Name: "puts",
		Addr: putsAddr,
		Data: insts.Bytes(
			single(insts.OpREGPOP, a),             // 5000
			dsi(insts.OpLOADATADDR, b, a, 0),      // 5004
			pair(insts.OpTESTEQ, z, b),            // 5008
			lit(insts.OpBNCHWITHOFF, forward(12)), // 500C -> 501C
			single(insts.OpPUTCR, b),              // 5010
			none(insts.OpINCA),                    // 5014
			lit(insts.OpJMPWITHOFF, back(24)),     // 5018 -> 5004
			none(insts.OpRET),                     // 501C
		),
	}
}

// putsString prints a NUL-terminated string through Puts.
func putsString() Benchmark {
	const text = "hello, world\n"

	return Benchmark{
		Name:        "puts",
		Description: "NUL-terminated string output through a puts routine",
		Program: program(boot(
			lit(insts.OpLDIMA, 0x1000),
			single(insts.OpREGPUSH, a),
			lit(insts.OpCALLFNI, putsAddr),
			none(insts.OpHALT),
		), Puts(), loader.Segment{Name: "text", Addr: 0x1000, Data: []byte(text + "\x00")}),
		ExpectedOutput: text,
	}
}
