// Package emu provides functional R32 emulation.
package emu

import (
	"encoding/binary"
	"fmt"

	akitamem "github.com/sarchlab/akita/v4/mem/mem"
)

// PagedMemory is a lazily allocated Memory for sparse address spaces.
// Bytes live in an akita storage; a page bitmap records which pages have
// been written. Reads of pages never written return zero, exactly like
// FlatMemory.
type PagedMemory struct {
	pages     uint64
	pageSize  uint64
	storage   *akitamem.Storage
	allocated []bool
}

// NewPagedMemory creates a paged memory of pages × pageSize bytes.
func NewPagedMemory(pages, pageSize uint64) *PagedMemory {
	return &PagedMemory{
		pages:     pages,
		pageSize:  pageSize,
		storage:   akitamem.NewStorage(pages * pageSize),
		allocated: make([]bool, pages),
	}
}

// Capacity returns the number of addressable bytes.
func (m *PagedMemory) Capacity() uint64 {
	return m.pages * m.pageSize
}

// PageSize returns the page size in bytes.
func (m *PagedMemory) PageSize() uint64 {
	return m.pageSize
}

// Location splits an address into its page index and offset.
func (m *PagedMemory) Location(addr uint64) (page, offset uint64) {
	if m.pageSize == 0 {
		return 0, addr
	}
	return addr / m.pageSize, addr % m.pageSize
}

// Allocated reports whether a page has been written.
func (m *PagedMemory) Allocated(page uint64) bool {
	return page < m.pages && m.allocated[page]
}

// AllocatedPages returns the number of pages that have been written.
func (m *PagedMemory) AllocatedPages() int {
	n := 0
	for _, a := range m.allocated {
		if a {
			n++
		}
	}
	return n
}

// CheckAddr validates a single address.
func (m *PagedMemory) CheckAddr(addr uint64) error {
	return checkRange(m.Capacity(), addr, 1)
}

// Read8 reads a byte.
func (m *PagedMemory) Read8(addr uint32) (byte, error) {
	data, err := m.read(uint64(addr), 1)
	if err != nil {
		return 0, err
	}
	return data[0], nil
}

// Write8 writes a byte.
func (m *PagedMemory) Write8(addr uint32, value byte) error {
	return m.write(uint64(addr), []byte{value})
}

// Read32 reads a big-endian word.
func (m *PagedMemory) Read32(addr uint32) (uint32, error) {
	data, err := m.read(uint64(addr), 4)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint32(data), nil
}

// Write32 writes a big-endian word.
func (m *PagedMemory) Write32(addr uint32, value uint32) error {
	var buf [4]byte
	binary.BigEndian.PutUint32(buf[:], value)
	return m.write(uint64(addr), buf[:])
}

// Load copies data into memory starting at addr.
func (m *PagedMemory) Load(addr uint32, data []byte) error {
	if len(data) == 0 {
		return nil
	}
	return m.write(uint64(addr), data)
}

func (m *PagedMemory) read(addr, size uint64) ([]byte, error) {
	if err := checkRange(m.Capacity(), addr, size); err != nil {
		return nil, err
	}

	// Untouched pages are served without asking the storage to create
	// units for them.
	if !m.touched(addr, size) {
		return make([]byte, size), nil
	}

	data, err := m.storage.Read(addr, size)
	if err != nil {
		return nil, fmt.Errorf("paged read at 0x%X: %w", addr, err)
	}
	return data, nil
}

func (m *PagedMemory) write(addr uint64, data []byte) error {
	size := uint64(len(data))
	if err := checkRange(m.Capacity(), addr, size); err != nil {
		return err
	}

	if err := m.storage.Write(addr, data); err != nil {
		return fmt.Errorf("paged write at 0x%X: %w", addr, err)
	}

	first, _ := m.Location(addr)
	last, _ := m.Location(addr + size - 1)
	for p := first; p <= last; p++ {
		m.allocated[p] = true
	}
	return nil
}

func (m *PagedMemory) touched(addr, size uint64) bool {
	first, _ := m.Location(addr)
	last, _ := m.Location(addr + size - 1)
	for p := first; p <= last; p++ {
		if m.allocated[p] {
			return true
		}
	}
	return false
}
