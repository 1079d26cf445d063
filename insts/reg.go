package insts

import "fmt"

// RegClass selects which register table an operand index refers to.
type RegClass uint8

// Register classes.
const (
	ClassInt   RegClass = iota // z, a, b, x, sp, ra
	ClassFloat                 // zero, fa, fb, fx
)

// Register table sizes.
const (
	IntRegCount   = 6
	FloatRegCount = 4
)

// Integer register indices.
const (
	IndexZ  uint8 = 0
	IndexA  uint8 = 1
	IndexB  uint8 = 2
	IndexX  uint8 = 3
	IndexSP uint8 = 4
	IndexRA uint8 = 5
)

// Float register indices. Index 0 aliases the zero register.
const (
	IndexFZero uint8 = 0
	IndexFA    uint8 = 1
	IndexFB    uint8 = 2
	IndexFX    uint8 = 3
)

func (c RegClass) String() string {
	switch c {
	case ClassInt:
		return "int"
	case ClassFloat:
		return "float"
	default:
		return fmt.Sprintf("class(%d)", uint8(c))
	}
}

// Size returns the number of addressable registers in the class.
func (c RegClass) Size() int {
	switch c {
	case ClassInt:
		return IntRegCount
	case ClassFloat:
		return FloatRegCount
	default:
		return 0
	}
}

// Reg identifies a register slot. Two Regs that compare equal name the same
// storage.
type Reg struct {
	Class RegClass
	Index uint8
}

// Named register slots.
var (
	RegZ  = Reg{ClassInt, IndexZ}
	RegA  = Reg{ClassInt, IndexA}
	RegB  = Reg{ClassInt, IndexB}
	RegX  = Reg{ClassInt, IndexX}
	RegSP = Reg{ClassInt, IndexSP}
	RegRA = Reg{ClassInt, IndexRA}

	RegFZero = Reg{ClassFloat, IndexFZero}
	RegFA    = Reg{ClassFloat, IndexFA}
	RegFB    = Reg{ClassFloat, IndexFB}
	RegFX    = Reg{ClassFloat, IndexFX}
)

var (
	intRegNames   = [IntRegCount]string{"z", "a", "b", "x", "sp", "ra"}
	floatRegNames = [FloatRegCount]string{"fz", "fa", "fb", "fx"}
)

func (r Reg) String() string {
	switch {
	case r.Class == ClassInt && int(r.Index) < IntRegCount:
		return intRegNames[r.Index]
	case r.Class == ClassFloat && int(r.Index) < FloatRegCount:
		return floatRegNames[r.Index]
	default:
		return fmt.Sprintf("%v[%d]", r.Class, r.Index)
	}
}

// IsZero reports whether the slot is backed by the zero register.
func (r Reg) IsZero() bool {
	return r.Index == 0
}

// Resolve maps a register index of the given class to a slot. Integer and
// float tables have different sizes and never fall back to each other.
func Resolve(class RegClass, index uint8) (Reg, error) {
	if int(index) >= class.Size() {
		return Reg{}, &RegisterError{Class: class, Index: index}
	}
	return Reg{Class: class, Index: index}, nil
}
