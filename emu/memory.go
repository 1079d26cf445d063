// Package emu provides functional R32 emulation.
package emu

import "encoding/binary"

// Default memory geometry: 128 pages of 512 bytes.
const (
	DefaultPages    = 128
	DefaultPageSize = 512
	DefaultCapacity = DefaultPages * DefaultPageSize
)

// Memory is the byte-addressable store the emulator fetches from and
// loads/stores to. Every access is bounds checked; a rejected access never
// mutates memory. Bytes that were never written read as zero.
type Memory interface {
	// Capacity returns the number of addressable bytes.
	Capacity() uint64
	// CheckAddr validates a single address.
	CheckAddr(addr uint64) error
	// Read8 reads one byte.
	Read8(addr uint32) (byte, error)
	// Write8 writes one byte.
	Write8(addr uint32, value byte) error
	// Read32 reads a big-endian word from addr..addr+3.
	Read32(addr uint32) (uint32, error)
	// Write32 writes a big-endian word to addr..addr+3.
	Write32(addr uint32, value uint32) error
	// Load copies data to addr after validating the whole range.
	Load(addr uint32, data []byte) error
}

// FlatMemory is a contiguous, eagerly zeroed Memory.
type FlatMemory struct {
	data []byte
}

// NewMemory creates a flat memory of the given capacity.
func NewMemory(capacity uint64) *FlatMemory {
	return &FlatMemory{data: make([]byte, capacity)}
}

// Capacity returns the number of addressable bytes.
func (m *FlatMemory) Capacity() uint64 {
	return uint64(len(m.data))
}

// CheckAddr validates a single address.
func (m *FlatMemory) CheckAddr(addr uint64) error {
	return checkRange(m.Capacity(), addr, 1)
}

// Read8 reads a byte.
func (m *FlatMemory) Read8(addr uint32) (byte, error) {
	if err := m.CheckAddr(uint64(addr)); err != nil {
		return 0, err
	}
	return m.data[addr], nil
}

// Write8 writes a byte.
func (m *FlatMemory) Write8(addr uint32, value byte) error {
	if err := m.CheckAddr(uint64(addr)); err != nil {
		return err
	}
	m.data[addr] = value
	return nil
}

// Read32 reads a big-endian word.
func (m *FlatMemory) Read32(addr uint32) (uint32, error) {
	if err := checkRange(m.Capacity(), uint64(addr), 4); err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint32(m.data[addr:]), nil
}

// Write32 writes a big-endian word.
func (m *FlatMemory) Write32(addr uint32, value uint32) error {
	if err := checkRange(m.Capacity(), uint64(addr), 4); err != nil {
		return err
	}
	binary.BigEndian.PutUint32(m.data[addr:], value)
	return nil
}

// Load copies data into memory starting at addr.
func (m *FlatMemory) Load(addr uint32, data []byte) error {
	if len(data) == 0 {
		return nil
	}
	if err := checkRange(m.Capacity(), uint64(addr), uint64(len(data))); err != nil {
		return err
	}
	copy(m.data[addr:], data)
	return nil
}
