// Package loader reads R32 program images from disk.
package loader

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Fixed addresses of the R32 memory map.
const (
	// BootAddress is where pc points after reset.
	BootAddress = 0xF000
	// ProgAddress is where the body of a .prog file is placed.
	ProgAddress = 0x3000
	// DefaultStackPointer is the reset value of sp.
	DefaultStackPointer = 0x0100
)

// Bootstrap is the word placed at BootAddress for .prog files. It is a
// JMP_WITH_OFFSET that lands on ProgAddress.
var Bootstrap = []byte{0xE1, 0x00, 0xC0, 0x04}

// Segment is a run of bytes to be copied into memory.
type Segment struct {
	// Addr is the first address the segment occupies.
	Addr uint32
	// Data contains the segment contents.
	Data []byte
	// Name identifies where the segment came from.
	Name string
}

// End returns the address one past the last byte of the segment.
func (s Segment) End() uint64 {
	return uint64(s.Addr) + uint64(len(s.Data))
}

// Program represents a program image ready to be loaded into a machine.
// Images that do not name an entry point or stack run from the machine's
// configured boot address and stack pointer.
type Program struct {
	// EntryPoint is the address execution starts at when HasEntryPoint is set.
	EntryPoint    uint32
	HasEntryPoint bool
	// Segments are copied into memory in order.
	Segments []Segment
	// InitialSP is the initial stack pointer value when HasInitialSP is set.
	InitialSP    uint32
	HasInitialSP bool
}

// SetEntryPoint makes the image start at addr.
func (p *Program) SetEntryPoint(addr uint32) {
	p.EntryPoint = addr
	p.HasEntryPoint = true
}

// SetInitialSP makes the image start with sp set to addr.
func (p *Program) SetInitialSP(addr uint32) {
	p.InitialSP = addr
	p.HasInitialSP = true
}

// Size returns the total number of bytes in all segments.
func (p *Program) Size() int {
	n := 0
	for _, seg := range p.Segments {
		n += len(seg.Data)
	}
	return n
}

func newProgram() *Program {
	return &Program{}
}

// Load reads a program image, picking the format from the file name:
// *.spec containers, *.prog files, and a.out or any other file as a raw
// image loaded at address 0.
func Load(path string) (*Program, error) {
	switch {
	case strings.HasSuffix(path, ".spec"):
		return LoadSpec(path)
	case strings.HasSuffix(path, ".prog"):
		return LoadProg(path)
	case filepath.Base(path) == "a.out":
		return LoadRaw(path, 0)
	default:
		return nil, fmt.Errorf("unknown program type %q: expected a.out, *.spec or *.prog", path)
	}
}

// LoadProg reads a .prog file. The file body is placed at ProgAddress and
// a bootstrap jump to it is placed at BootAddress, which becomes the entry
// point of the image.
func LoadProg(path string) (*Program, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read program file: %w", err)
	}

	prog := newProgram()
	prog.SetEntryPoint(BootAddress)
	prog.Segments = append(prog.Segments,
		Segment{Addr: BootAddress, Data: append([]byte(nil), Bootstrap...), Name: "bootstrap"},
		Segment{Addr: ProgAddress, Data: data, Name: path},
	)
	return prog, nil
}

// LoadRaw reads a file as a single segment at addr. Execution starts at the
// machine's boot address.
func LoadRaw(path string, addr uint32) (*Program, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read binary file: %w", err)
	}

	prog := newProgram()
	prog.Segments = append(prog.Segments, Segment{Addr: addr, Data: data, Name: path})
	return prog, nil
}
