package intcode

import "fmt"

// Op represents a raw Intcode instruction cell: a two digit opcode with
// one addressing mode digit per parameter packed above it.
type Op int64

// Code returns the opcode held in the low two decimal digits of the cell.
func (o Op) Code() Opcode { return Opcode(o % 100) }

// Mode returns the addressing mode of parameter i (counting from zero).
func (o Op) Mode(i int) Mode {
	v := int64(o) / 100
	for ; i > 0; i-- {
		v /= 10
	}
	return Mode(v % 10)
}

func (o Op) String() string {
	c := o.Code()
	if !c.Valid() {
		return fmt.Sprintf("?%d", int64(o))
	}
	return c.String()
}

// Opcode identifies an Intcode operation.
type Opcode int64

const (
	ADD Opcode = 1  // a + b -> c
	MUL Opcode = 2  // a * b -> c
	IN  Opcode = 3  // input -> a
	OUT Opcode = 4  // a -> output
	JNZ Opcode = 5  // jump to b if a != 0
	JZ  Opcode = 6  // jump to b if a == 0
	LT  Opcode = 7  // a < b -> c
	EQ  Opcode = 8  // a == b -> c
	ARB Opcode = 9  // base += a
	HLT Opcode = 99 // stop
)

var opcodes = map[Opcode]struct {
	name   string
	params int
	write  int // index of the written parameter, or -1
}{
	ADD: {"ADD", 3, 2},
	MUL: {"MUL", 3, 2},
	IN:  {"IN", 1, 0},
	OUT: {"OUT", 1, -1},
	JNZ: {"JNZ", 2, -1},
	JZ:  {"JZ", 2, -1},
	LT:  {"LT", 3, 2},
	EQ:  {"EQ", 3, 2},
	ARB: {"ARB", 1, -1},
	HLT: {"HLT", 0, -1},
}

// Valid reports whether c is a known opcode.
func (c Opcode) Valid() bool {
	_, ok := opcodes[c]
	return ok
}

// Params returns the number of parameters taken by the opcode.
func (c Opcode) Params() int { return opcodes[c].params }

// Writes reports whether parameter i is a write destination,
// in which case it may not be in Immediate mode.
func (c Opcode) Writes(i int) bool {
	o, ok := opcodes[c]
	return ok && o.write == i
}

func (c Opcode) String() string {
	if o, ok := opcodes[c]; ok {
		return o.name
	}
	return fmt.Sprintf("Opcode(%d)", int64(c))
}

// Mode is a parameter addressing mode.
type Mode int64

const (
	Position  Mode = 0 // the parameter is an address
	Immediate Mode = 1 // the parameter is the value
	Relative  Mode = 2 // the parameter plus Base is an address
)

func (m Mode) String() string {
	switch m {
	case Position:
		return "position"
	case Immediate:
		return "immediate"
	case Relative:
		return "relative"
	}
	return fmt.Sprintf("Mode(%d)", int64(m))
}
