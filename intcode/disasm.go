package intcode

import (
	"fmt"
	"io"
	"strings"
)

// Instr is a decoded instruction.
type Instr struct {
	Addr   int64
	Op     Op
	Params []Param
}

// Param is a decoded instruction parameter.
type Param struct {
	Mode  Mode
	Value int64 // the literal value stored after the opcode
}

func (p Param) String() string {
	switch p.Mode {
	case Immediate:
		return fmt.Sprint(p.Value)
	case Relative:
		if p.Value < 0 {
			return fmt.Sprintf("[b%d]", p.Value)
		}
		return fmt.Sprintf("[b+%d]", p.Value)
	default:
		return fmt.Sprintf("[%d]", p.Value)
	}
}

// Len returns the number of cells the instruction occupies.
func (in Instr) Len() int64 { return int64(len(in.Params)) + 1 }

func (in Instr) String() string {
	var b strings.Builder
	b.WriteString(in.Op.Code().String())
	for i, p := range in.Params {
		if i == 0 {
			b.WriteByte(' ')
		} else {
			b.WriteString(", ")
		}
		b.WriteString(p.String())
	}
	return b.String()
}

// Decode decodes the instruction at addr without executing it.
// It returns a HaltError if the cell at addr is not a valid instruction.
func (m *Machine) Decode(addr int64) (Instr, error) {
	op := Op(m.Peek(addr))
	in := Instr{Addr: addr, Op: op}
	code := op.Code()
	if addr < 0 || !code.Valid() {
		return in, HaltError{HaltCode: BadOpcode, Op: op, Addr: addr}
	}
	for i := 0; i < code.Params(); i++ {
		mode := op.Mode(i)
		if mode < Position || mode > Relative || mode == Immediate && code.Writes(i) {
			return in, HaltError{HaltCode: BadMode, Op: op, Addr: addr}
		}
		in.Params = append(in.Params, Param{Mode: mode, Value: m.Peek(addr + 1 + int64(i))})
	}
	return in, nil
}

// Disasm writes a listing of m's memory to w. Cells that do not decode
// as instructions are listed as data.
func Disasm(w io.Writer, m *Machine) error {
	for addr := int64(0); addr < int64(len(m.Mem)); {
		in, err := m.Decode(addr)
		if err != nil {
			if _, err := fmt.Fprintf(w, "%6d  %d\n", addr, m.Mem[addr]); err != nil {
				return err
			}
			addr++
			continue
		}
		if _, err := fmt.Fprintf(w, "%6d  %s\n", addr, in); err != nil {
			return err
		}
		addr += in.Len()
	}
	return nil
}
