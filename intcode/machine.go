// Package intcode provides an implementation of an Intcode computer,
// called Machine, that can be used to execute Intcode programs.
package intcode

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/exp/slices"
)

// Machine is an Intcode computer.
//
// Mem grows as the program writes past its end; reads past the end
// yield zero. In is consumed oldest first by IN instructions and Out
// holds values in the order OUT produced them.
type Machine struct {
	Mem  []int64
	PC   int64
	Base int64
	In   []int64
	Out  []int64

	state State
}

// State describes where a Machine is in its lifecycle.
type State byte

const (
	Ready     State = iota // constructed, not yet run
	Running                // inside Run
	Suspended              // waiting for input
	Halted                 // finished; Run does nothing more
)

func (s State) String() string {
	switch s {
	case Ready:
		return "ready"
	case Running:
		return "running"
	case Suspended:
		return "suspended"
	case Halted:
		return "halted"
	}
	return fmt.Sprintf("State(%d)", byte(s))
}

// ErrSyntax is wrapped by the errors returned from Parse.
var ErrSyntax = errors.New("invalid program text")

// New returns a Machine loaded with a copy of program.
func New(program []int64) *Machine {
	return &Machine{Mem: slices.Clone(program)}
}

// Parse returns a Machine loaded with the comma separated program text.
func Parse(text string) (*Machine, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, fmt.Errorf("%w: empty program", ErrSyntax)
	}
	fields := strings.Split(text, ",")
	prog := make([]int64, len(fields))
	for i, f := range fields {
		v, err := strconv.ParseInt(strings.TrimSpace(f), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: value %d: %q", ErrSyntax, i, strings.TrimSpace(f))
		}
		prog[i] = v
	}
	return &Machine{Mem: prog}, nil
}

// State reports the state the Machine was left in by Run.
func (m *Machine) State() State { return m.state }

// Peek returns the value at addr, or zero if addr is outside memory.
func (m *Machine) Peek(addr int64) int64 {
	if addr < 0 || addr >= int64(len(m.Mem)) {
		return 0
	}
	return m.Mem[addr]
}

// MaxMem is the largest number of cells a program may grow memory to.
const MaxMem = 1 << 24

// Poke writes v at addr, growing memory if necessary.
// It panics with BadAddress if addr is negative or not below MaxMem.
func (m *Machine) Poke(addr, v int64) {
	if addr < 0 || addr >= MaxMem {
		panic(BadAddress)
	}
	if n := int(addr) + 1; n > len(m.Mem) {
		m.Mem = append(m.Mem, make([]int64, n-len(m.Mem))...)
	}
	m.Mem[addr] = v
}

// Push appends values to the input queue.
func (m *Machine) Push(v ...int64) {
	m.In = append(m.In, v...)
}

// PushString appends the character codes of s to the input queue.
func (m *Machine) PushString(s string) {
	for _, r := range s {
		m.In = append(m.In, int64(r))
	}
}

// TakeOutput returns the output produced so far and clears it.
func (m *Machine) TakeOutput() []int64 {
	out := m.Out
	m.Out = nil
	return out
}

// OutputString renders the output queue as text. Values 0-255 are
// character codes; others are written in decimal on a line of their own.
func (m *Machine) OutputString() string {
	return Text(m.Out)
}

// Text renders values as text, as OutputString does.
func Text(values []int64) string {
	var b strings.Builder
	for _, v := range values {
		if v >= 0 && v <= 0xff {
			b.WriteRune(rune(v))
			continue
		}
		if b.Len() > 0 && !strings.HasSuffix(b.String(), "\n") {
			b.WriteByte('\n')
		}
		b.WriteString(strconv.FormatInt(v, 10))
		b.WriteByte('\n')
	}
	return b.String()
}

// Clone returns an independent copy of the Machine.
func (m *Machine) Clone() *Machine {
	return &Machine{
		Mem:   slices.Clone(m.Mem),
		PC:    m.PC,
		Base:  m.Base,
		In:    slices.Clone(m.In),
		Out:   slices.Clone(m.Out),
		state: m.state,
	}
}
