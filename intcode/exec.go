package intcode

import (
	"errors"
	"fmt"
)

var (
	// ErrHalt is returned by Exec when the instruction at PC is HLT.
	ErrHalt = errors.New("HLT")

	// ErrInput is returned by Exec when the instruction at PC is IN
	// and the input queue is empty.
	ErrInput = errors.New("waiting for input")
)

// Run executes instructions until the program halts or waits for input,
// and reports which of those happened. A Machine that has halted stays
// halted. If an instruction cannot be executed Run returns a HaltError
// and the Machine is left Halted.
func (m *Machine) Run() (State, error) {
	if m.state == Halted {
		return Halted, nil
	}
	m.state = Running
	for {
		switch err := m.Exec(); err {
		case nil:
		case ErrInput:
			m.state = Suspended
			return m.state, nil
		case ErrHalt:
			m.state = Halted
			return m.state, nil
		default:
			m.state = Halted
			return m.state, err
		}
	}
}

// Exec executes the instruction at m.PC. It returns ErrHalt if that
// instruction is HLT and ErrInput if it is an IN with no input queued;
// in both cases the Machine is unchanged. Otherwise it only returns a
// non-nil error, a HaltError, if the instruction is invalid.
func (m *Machine) Exec() (err error) {
	var (
		op   Op
		opPC = m.PC
	)
	defer func() {
		if e := recover(); e != nil {
			if code, ok := e.(HaltCode); ok {
				err = HaltError{
					HaltCode: code,
					Op:       op,
					Addr:     opPC,
				}
			} else {
				panic(e)
			}
		}
	}()

	op = Op(m.load(m.PC))
	code := op.Code()
	if !code.Valid() {
		panic(BadOpcode)
	}
	for i := 0; i < code.Params(); i++ {
		if mode := op.Mode(i); mode > Relative || mode < Position ||
			mode == Immediate && code.Writes(i) {
			panic(BadMode)
		}
	}

	switch code {
	case HLT:
		return ErrHalt
	case IN:
		addr := m.addr(op, 0)
		if len(m.In) == 0 {
			return ErrInput
		}
		v := m.In[0]
		m.In = m.In[1:]
		m.Poke(addr, v)
	case OUT:
		m.Out = append(m.Out, m.param(op, 0))
	case ADD:
		m.Poke(m.addr(op, 2), m.param(op, 0)+m.param(op, 1))
	case MUL:
		m.Poke(m.addr(op, 2), m.param(op, 0)*m.param(op, 1))
	case LT:
		m.Poke(m.addr(op, 2), boolInt(m.param(op, 0) < m.param(op, 1)))
	case EQ:
		m.Poke(m.addr(op, 2), boolInt(m.param(op, 0) == m.param(op, 1)))
	case JNZ, JZ:
		if (m.param(op, 0) != 0) == (code == JNZ) {
			m.PC = m.param(op, 1)
			return nil
		}
	case ARB:
		m.Base += m.param(op, 0)
	}
	m.PC += int64(code.Params()) + 1
	return nil
}

// load reads memory as an instruction operand would.
func (m *Machine) load(addr int64) int64 {
	if addr < 0 {
		panic(BadAddress)
	}
	return m.Peek(addr)
}

// addr returns the address referred to by parameter i of op.
// It must not be called for Immediate parameters.
func (m *Machine) addr(op Op, i int) int64 {
	v := m.load(m.PC + 1 + int64(i))
	if op.Mode(i) == Relative {
		v += m.Base
	}
	if v < 0 {
		panic(BadAddress)
	}
	return v
}

// param returns the value of parameter i of op.
func (m *Machine) param(op Op, i int) int64 {
	if op.Mode(i) == Immediate {
		return m.load(m.PC + 1 + int64(i))
	}
	return m.load(m.addr(op, i))
}

func boolInt(b bool) int64 {
	if b {
		return 1
	}
	return 0
}

// HaltError is returned by Exec and Run if the program cannot continue.
type HaltError struct {
	HaltCode
	Op   Op
	Addr int64
}

func (e HaltError) Error() string {
	return fmt.Sprintf("%s executing %d at %d", e.HaltCode, int64(e.Op), e.Addr)
}

// HaltCode signifies the type of condition that halted execution.
type HaltCode byte

const (
	BadOpcode  HaltCode = 0x01
	BadMode    HaltCode = 0x02
	BadAddress HaltCode = 0x03
)

func (c HaltCode) String() string {
	if s, ok := map[HaltCode]string{
		BadOpcode:  "invalid opcode",
		BadMode:    "invalid parameter mode",
		BadAddress: "invalid address",
	}[c]; ok {
		return s
	}
	return fmt.Sprintf("unknown (%.2x)", byte(c))
}
