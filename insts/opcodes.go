package insts

import "fmt"

// Op is an opcode of the normal instruction table.
type Op uint8

// Normal table opcodes. Values are the encoded opcode byte.
const (
	OpUnknown      Op = 0x00
	OpMOVE         Op = 0x01
	OpANDR         Op = 0x02
	OpORR          Op = 0x03
	OpNOTR         Op = 0x04
	OpXORR         Op = 0x05
	OpLLSHR        Op = 0x06
	OpALSHR        Op = 0x07
	OpLRSHR        Op = 0x08
	OpARSHR        Op = 0x09
	OpHALT         Op = 0x10
	OpANDI         Op = 0x12
	OpORI          Op = 0x13
	OpXORI         Op = 0x15
	OpLLSHI        Op = 0x16
	OpALSHI        Op = 0x17
	OpLRSHI        Op = 0x18
	OpARSHI        Op = 0x19
	OpLOADATADDR   Op = 0x21
	OpSTOREATADDR  Op = 0x22
	OpRET          Op = 0x30
	OpCALLFNI      Op = 0x40
	OpINCA         Op = 0x61
	OpINCB         Op = 0x62
	OpINCX         Op = 0x63
	OpADDDSS       Op = 0x81
	OpSUBDSS       Op = 0x82
	OpMULTDSS      Op = 0x84
	OpADDDSI       Op = 0x91
	OpSUBDSI       Op = 0x92
	OpMULTDSI      Op = 0x94
	OpSQRTRI       Op = 0x9A
	OpLDIMA        Op = 0xA5
	OpLDIMB        Op = 0xA6
	OpLDIMX        Op = 0xA7
	OpTESTEQ       Op = 0xB1
	OpTESTNEQ      Op = 0xB2
	OpTESTCTRLNEG  Op = 0xB3
	OpPRINTIR      Op = 0xC1
	OpPUTCR        Op = 0xCC
	OpGETCR        Op = 0xCF
	OpREGPUSH      Op = 0xD1
	OpREGPOP       Op = 0xD2
	OpPOPCNT       Op = 0xD9
	OpJMPWITHOFF   Op = 0xE1
	OpJMP          Op = 0xE2
	OpBNCHWITHOFF  Op = 0xEA
	OpRNDSEED      Op = 0xEB
	OpRNDNUM       Op = 0xEC
	OpBNCH         Op = 0xEE
	OpEXTINSTR     Op = 0xF0
)

// ExtOp is an opcode of the extended (floating-point) table.
type ExtOp uint8

// Extended table opcodes.
const (
	ExtOpUnknown  ExtOp = 0x00
	ExtOpLOADFIMA ExtOp = 0x10
	ExtOpLOADFIMB ExtOp = 0x11
	ExtOpFADDDSS  ExtOp = 0x81
	ExtOpFSUBDSS  ExtOp = 0x82
	ExtOpFMULTDSS ExtOp = 0x84
	ExtOpFADDDSI  ExtOp = 0x91
	ExtOpFSUBDSI  ExtOp = 0x92
	ExtOpFMULTDSI ExtOp = 0x94
	ExtOpFSQRTRI  ExtOp = 0xA2
)

// Format represents an operand layout.
type Format uint8

// Operand layouts.
const (
	FormatUnknown Format = iota
	FormatNone           // no operands
	FormatDSS            // [dest:8][src1:8][src2:8]
	FormatDSI            // [dest:8][src:8][imm:8]
	FormatPair           // [-:8][lhs:8][rhs:8]
	FormatSingle         // [-:16][reg:8]
	FormatLiteral        // [lit:24]
)

var formatNames = [...]string{
	FormatUnknown: "unknown",
	FormatNone:    "none",
	FormatDSS:     "dss",
	FormatDSI:     "dsi",
	FormatPair:    "pair",
	FormatSingle:  "single",
	FormatLiteral: "literal",
}

func (f Format) String() string {
	if int(f) < len(formatNames) {
		return formatNames[f]
	}
	return fmt.Sprintf("format(%d)", uint8(f))
}

type opInfo struct {
	name   string
	format Format
}

var opTable = [256]opInfo{
	OpMOVE:        {"MOVE", FormatDSI},
	OpANDR:        {"AND_R", FormatDSS},
	OpORR:         {"OR_R", FormatDSS},
	OpNOTR:        {"NOT_R", FormatDSI},
	OpXORR:        {"XOR_R", FormatDSS},
	OpLLSHR:       {"LLSH_R", FormatDSS},
	OpALSHR:       {"ALSH_R", FormatDSS},
	OpLRSHR:       {"LRSH_R", FormatDSS},
	OpARSHR:       {"ARSH_R", FormatDSS},
	OpHALT:        {"HALT", FormatNone},
	OpANDI:        {"AND_I", FormatDSI},
	OpORI:         {"OR_I", FormatDSI},
	OpXORI:        {"XOR_I", FormatDSI},
	OpLLSHI:       {"LLSH_I", FormatDSI},
	OpALSHI:       {"ALSH_I", FormatDSI},
	OpLRSHI:       {"LRSH_I", FormatDSI},
	OpARSHI:       {"ARSH_I", FormatDSI},
	OpLOADATADDR:  {"LOAD_AT_ADDR", FormatDSI},
	OpSTOREATADDR: {"STORE_AT_ADDR", FormatDSI},
	OpRET:         {"RET", FormatNone},
	OpCALLFNI:     {"CALL_FN_I", FormatLiteral},
	OpINCA:        {"INC_A", FormatNone},
	OpINCB:        {"INC_B", FormatNone},
	OpINCX:        {"INC_X", FormatNone},
	OpADDDSS:      {"ADD_DSS", FormatDSS},
	OpSUBDSS:      {"SUB_DSS", FormatDSS},
	OpMULTDSS:     {"MULT_DSS", FormatDSS},
	OpADDDSI:      {"ADD_DSI", FormatDSI},
	OpSUBDSI:      {"SUB_DSI", FormatDSI},
	OpMULTDSI:     {"MULT_DSI", FormatDSI},
	OpSQRTRI:      {"SQRT_R_I", FormatSingle},
	OpLDIMA:       {"LD_IM_A", FormatLiteral},
	OpLDIMB:       {"LD_IM_B", FormatLiteral},
	OpLDIMX:       {"LD_IM_X", FormatLiteral},
	OpTESTEQ:      {"TEST_EQ", FormatPair},
	OpTESTNEQ:     {"TEST_NEQ", FormatPair},
	OpTESTCTRLNEG: {"TEST_CTRL_NEG", FormatNone},
	OpPRINTIR:     {"PRINT_I_R", FormatSingle},
	OpPUTCR:       {"PUTC_R", FormatSingle},
	OpGETCR:       {"GETC_R", FormatDSI},
	OpREGPUSH:     {"REG_PUSH", FormatSingle},
	OpREGPOP:      {"REG_POP", FormatSingle},
	OpPOPCNT:      {"POPCNT", FormatDSI},
	OpJMPWITHOFF:  {"JMP_WITH_OFFSET", FormatLiteral},
	OpJMP:         {"JMP", FormatLiteral},
	OpBNCHWITHOFF: {"BNCH_WITH_OFFSET", FormatLiteral},
	OpRNDSEED:     {"RND_SEED", FormatSingle},
	OpRNDNUM:      {"RND_NUM", FormatSingle},
	OpBNCH:        {"BNCH", FormatLiteral},
	OpEXTINSTR:    {"EXT_INSTR", FormatNone},
}

var extOpTable = [256]opInfo{
	ExtOpLOADFIMA: {"LOAD_FIM_FA", FormatLiteral},
	ExtOpLOADFIMB: {"LOAD_FIM_FB", FormatLiteral},
	ExtOpFADDDSS:  {"FADD_DSS", FormatDSS},
	ExtOpFSUBDSS:  {"FSUB_DSS", FormatDSS},
	ExtOpFMULTDSS: {"FMULT_DSS", FormatDSS},
	ExtOpFADDDSI:  {"FADD_DSI", FormatDSI},
	ExtOpFSUBDSI:  {"FSUB_DSI", FormatDSI},
	ExtOpFMULTDSI: {"FMULT_DSI", FormatDSI},
	ExtOpFSQRTRI:  {"FSQRT_R_I", FormatSingle},
}

// String returns the mnemonic of the opcode.
func (op Op) String() string {
	if info := opTable[op]; info.name != "" {
		return info.name
	}
	return fmt.Sprintf("op(0x%02X)", uint8(op))
}

// Format returns the operand layout of the opcode, or FormatUnknown when
// the opcode is not part of the normal table.
func (op Op) Format() Format {
	return opTable[op].format
}

// Valid reports whether the opcode exists in the normal table.
func (op Op) Valid() bool {
	return opTable[op].format != FormatUnknown
}

// String returns the mnemonic of the extended opcode.
func (op ExtOp) String() string {
	if info := extOpTable[op]; info.name != "" {
		return info.name
	}
	return fmt.Sprintf("extop(0x%02X)", uint8(op))
}

// Format returns the operand layout of the extended opcode.
func (op ExtOp) Format() Format {
	return extOpTable[op].format
}

// Valid reports whether the opcode exists in the extended table.
func (op ExtOp) Valid() bool {
	return extOpTable[op].format != FormatUnknown
}
