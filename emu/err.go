// Package emu provides functional R32 emulation.
package emu

import (
	"errors"
	"fmt"
)

var (
	// ErrAddressOutOfRange is returned for any access outside memory.
	ErrAddressOutOfRange = errors.New("address out of range")
	// ErrZeroRegister is returned when the zero register was modified and
	// the logger's exit function did not terminate the process.
	ErrZeroRegister = errors.New("zero register modified")
	// ErrMaxInstructions is returned when the instruction limit is hit.
	ErrMaxInstructions = errors.New("max instructions reached")
)

// AddressError describes a rejected memory access. Size is the number of
// bytes the access covered.
type AddressError struct {
	Addr     uint64
	Size     uint64
	Capacity uint64
}

func (err *AddressError) Error() string {
	if err.Size <= 1 {
		return fmt.Sprintf("address 0x%X is out of range (capacity 0x%X)", err.Addr, err.Capacity)
	}
	return fmt.Sprintf("range 0x%X+%d is out of range (capacity 0x%X)", err.Addr, err.Size, err.Capacity)
}

func (err *AddressError) Unwrap() error {
	return ErrAddressOutOfRange
}

// checkRange validates that [addr, addr+size) fits in capacity.
func checkRange(capacity, addr, size uint64) error {
	if size == 0 {
		size = 1
	}
	if addr >= capacity || size > capacity-addr {
		return &AddressError{Addr: addr, Size: size, Capacity: capacity}
	}
	return nil
}
