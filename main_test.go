package main

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/nf/icx/intcode"
)

func TestParseValues(t *testing.T) {
	for _, c := range []struct {
		in   string
		want []int64
		err  bool
	}{
		{"", nil, false},
		{"  ", nil, false},
		{"5", []int64{5}, false},
		{"3, -4,5", []int64{3, -4, 5}, false},
		{"1,x", nil, true},
		{"1,,2", nil, true},
	} {
		got, err := parseValues(c.in)
		if (err != nil) != c.err {
			t.Errorf("parseValues(%q) error = %v", c.in, err)
			continue
		}
		if !reflect.DeepEqual(got, c.want) {
			t.Errorf("parseValues(%q) = %v, want %v", c.in, got, c.want)
		}
	}
}

func TestParseSet(t *testing.T) {
	addr, v, err := parseSet("1=12")
	if err != nil || addr != 1 || v != 12 {
		t.Errorf("parseSet(1=12) = %d, %d, %v", addr, v, err)
	}
	addr, v, err = parseSet(" 10 = -2 ")
	if err != nil || addr != 10 || v != -2 {
		t.Errorf("parseSet(10=-2) = %d, %d, %v", addr, v, err)
	}
	for _, s := range []string{"5", "x=1", "-1=2", "1=y", "16777216=0"} {
		if _, _, err := parseSet(s); err == nil {
			t.Errorf("parseSet(%q) succeeded", s)
		}
	}
}

func TestLoad(t *testing.T) {
	file := filepath.Join(t.TempDir(), "prog.ic")
	if err := os.WriteFile(file, []byte("1,0,0,0,99\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	m, err := load(file, &config{
		input: []int64{7},
		sets:  [][2]int64{{1, 4}, {2, 4}},
	})
	if err != nil {
		t.Fatal(err)
	}
	if g, w := m.Mem, []int64{1, 4, 4, 0, 99}; !reflect.DeepEqual(g, w) {
		t.Errorf("Mem = %v, want %v", g, w)
	}
	if g, w := m.In, []int64{7}; !reflect.DeepEqual(g, w) {
		t.Errorf("In = %v, want %v", g, w)
	}
	if _, err := m.Run(); err != nil {
		t.Fatal(err)
	}
	if m.Mem[0] != 198 {
		t.Errorf("Mem[0] = %d, want 198", m.Mem[0])
	}

	if err := os.WriteFile(file, []byte("1,0,nope"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := load(file, &config{}); !errors.Is(err, intcode.ErrSyntax) {
		t.Errorf("load error = %v, want ErrSyntax", err)
	}
	if _, err := load(filepath.Join(t.TempDir(), "missing"), &config{}); err == nil {
		t.Error("load of missing file succeeded")
	}
}

func TestRunBatch(t *testing.T) {
	var b strings.Builder
	m, _ := intcode.Parse("104,7,104,-8,99")
	if err := runBatch(&b, m); err != nil {
		t.Fatal(err)
	}
	if g, w := b.String(), "7\n-8\n"; g != w {
		t.Errorf("output = %q, want %q", g, w)
	}

	b.Reset()
	m, _ = intcode.Parse("104,1,3,0,99")
	if err := runBatch(&b, m); err != errWaiting {
		t.Errorf("runBatch error = %v, want %v", err, errWaiting)
	}
	if g, w := b.String(), "1\n"; g != w {
		t.Errorf("output = %q, want %q", g, w)
	}

	m, _ = intcode.Parse("104,1,42")
	if err := runBatch(&b, m); err == nil {
		t.Error("runBatch of invalid program succeeded")
	}
}

const series = "3,15,3,16,1002,16,10,16,1,16,15,15,4,15,99,0,0"

func TestRunAmp(t *testing.T) {
	cfg := &config{logf: t.Logf}
	for _, c := range []struct {
		phases string
		best   bool
		input  []int64
		want   string
	}{
		{"4,3,2,1,0", false, nil, "43210\n"},
		{"1,2", false, []int64{3}, "312\n"},
		{"0,1,2,3,4", true, nil, "43210 4,3,2,1,0\n"},
	} {
		m, _ := intcode.Parse(series)
		m.Push(c.input...)
		var b strings.Builder
		if err := runAmp(&b, m, c.phases, c.best, cfg); err != nil {
			t.Errorf("runAmp(%q): %v", c.phases, err)
			continue
		}
		if g := b.String(); g != c.want {
			t.Errorf("runAmp(%q) = %q, want %q", c.phases, g, c.want)
		}
	}
	m, _ := intcode.Parse(series)
	if err := runAmp(new(strings.Builder), m, "1,a", false, cfg); err == nil {
		t.Error("runAmp with bad phases succeeded")
	}
	m, _ = intcode.Parse(series)
	m.Push(3, 4)
	var b strings.Builder
	if err := runAmp(&b, m, "1,2", false, cfg); err == nil {
		t.Errorf("runAmp with two input values succeeded: %q", b.String())
	}
}

// nic sends (7, 8) from node 0 to node 1, and each node forwards the
// packets it receives to the NAT with its address added to Y.
const nic = "3,100,1005,100,11,104,1,104,7,104,8,3,101,1008,101,-1,103,1005,103,11," +
	"3,102,1,102,100,102,104,255,4,101,4,102,1105,1,11"

func TestRunNet(t *testing.T) {
	m, _ := intcode.Parse(nic)
	var b strings.Builder
	if err := runNet(&b, m, 2, &config{logf: t.Logf}); err != nil {
		t.Fatal(err)
	}
	want := "first NAT packet: 7, 9\nrepeated NAT packet: 7, 9\n"
	if g := b.String(); g != want {
		t.Errorf("output = %q, want %q", g, want)
	}
}

func TestRunNetSize(t *testing.T) {
	m, _ := intcode.Parse(nic)
	var b strings.Builder
	if err := runNet(&b, m, 256, &config{logf: t.Logf}); err == nil {
		t.Errorf("runNet with 256 nodes succeeded: %q", b.String())
	}
	if b.Len() != 0 {
		t.Errorf("runNet with 256 nodes wrote %q", b.String())
	}
}
