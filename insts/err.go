package insts

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownOpcode is returned when an opcode has no entry in the
	// active table.
	ErrUnknownOpcode = errors.New("unknown opcode")
	// ErrInvalidRegister is returned when a register index is beyond the
	// table of its class.
	ErrInvalidRegister = errors.New("invalid register")
)

// OpcodeError carries the offending opcode and the full instruction word.
type OpcodeError struct {
	Opcode   uint8
	Word     uint32
	Extended bool
}

func (err *OpcodeError) Error() string {
	table := "normal"
	if err.Extended {
		table = "extended"
	}
	return fmt.Sprintf("no such opcode 0x%02X in %s table (instruction 0x%08X)",
		err.Opcode, table, err.Word)
}

func (err *OpcodeError) Unwrap() error {
	return ErrUnknownOpcode
}

// RegisterError carries the register index that failed to resolve.
type RegisterError struct {
	Class RegClass
	Index uint8
}

func (err *RegisterError) Error() string {
	return fmt.Sprintf("no %v register with index %d", err.Class, err.Index)
}

func (err *RegisterError) Unwrap() error {
	return ErrInvalidRegister
}
