package intcode

import (
	"bytes"
	"testing"
)

func TestOpDecode(t *testing.T) {
	for _, c := range []struct {
		op    Op
		code  Opcode
		modes [3]Mode
	}{
		{1, ADD, [3]Mode{Position, Position, Position}},
		{1002, MUL, [3]Mode{Position, Immediate, Position}},
		{21107, LT, [3]Mode{Immediate, Immediate, Relative}},
		{204, OUT, [3]Mode{Relative, Position, Position}},
		{99, HLT, [3]Mode{}},
		{22209, ARB, [3]Mode{Relative, Relative, Relative}},
	} {
		if g := c.op.Code(); g != c.code {
			t.Errorf("Op(%d).Code() = %v, want %v", int64(c.op), g, c.code)
		}
		for i, w := range c.modes {
			if g := c.op.Mode(i); g != w {
				t.Errorf("Op(%d).Mode(%d) = %v, want %v", int64(c.op), i, g, w)
			}
		}
	}
}

// Check that every opcode has a name and a parameter count,
// and that only opcodes that store a result have a write parameter.
func TestOpcodes(t *testing.T) {
	for c, n := range map[Opcode]int{
		ADD: 3, MUL: 3, IN: 1, OUT: 1, JNZ: 2, JZ: 2, LT: 3, EQ: 3, ARB: 1, HLT: 0,
	} {
		if !c.Valid() {
			t.Errorf("%v not valid", c)
		}
		if g := c.Params(); g != n {
			t.Errorf("%v.Params() = %d, want %d", c, g, n)
		}
		writes := false
		for i := 0; i < 3; i++ {
			writes = writes || c.Writes(i)
		}
		if w := c == ADD || c == MUL || c == IN || c == LT || c == EQ; writes != w {
			t.Errorf("%v writes = %v, want %v", c, writes, w)
		}
	}
	for _, c := range []Opcode{0, 10, 42, 98, -1} {
		if c.Valid() {
			t.Errorf("Opcode(%d) is valid", int64(c))
		}
	}
}

func TestDecode(t *testing.T) {
	m := New([]int64{1002, 4, 3, 4, 33, 204, -1, 109, 19, 1105, 1, 0, 77, 11103, 0})
	for _, c := range []struct {
		addr int64
		want string
		len  int64
	}{
		{0, "MUL [4], 3, [4]", 4},
		{5, "OUT [b-1]", 2},
		{7, "ARB 19", 2},
		{9, "JNZ 1, 0", 3},
	} {
		in, err := m.Decode(c.addr)
		if err != nil {
			t.Errorf("Decode(%d): %v", c.addr, err)
			continue
		}
		if g := in.String(); g != c.want {
			t.Errorf("Decode(%d) = %q, want %q", c.addr, g, c.want)
		}
		if g := in.Len(); g != c.len {
			t.Errorf("Decode(%d).Len() = %d, want %d", c.addr, g, c.len)
		}
	}
	if _, err := m.Decode(12); err != (HaltError{HaltCode: BadOpcode, Op: 77, Addr: 12}) {
		t.Errorf("Decode(12) error = %v", err)
	}
	if _, err := m.Decode(13); err != (HaltError{HaltCode: BadMode, Op: 11103, Addr: 13}) {
		t.Errorf("Decode(13) error = %v", err)
	}
}

func TestDisasm(t *testing.T) {
	m := New([]int64{1, 0, 0, 0, 99, 42, 21101, 2, 3, -4})
	var b bytes.Buffer
	if err := Disasm(&b, m); err != nil {
		t.Fatal(err)
	}
	want := "" +
		"     0  ADD [0], [0], [0]\n" +
		"     4  HLT\n" +
		"     5  42\n" +
		"     6  ADD 2, 3, [b-4]\n"
	if g := b.String(); g != want {
		t.Errorf("Disasm wrote\n%s\nwant\n%s", g, want)
	}
}
