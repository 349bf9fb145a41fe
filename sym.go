package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"
)

type symbols []symbol

func (s symbols) forAddr(addr int64) (ss []symbol) {
	i := sort.Search(len(s), func(i int) bool { return s[i].addr >= addr })
	for ; i < len(s); i++ {
		if s[i].addr == addr {
			ss = append(ss, s[i])
		}
	}
	return ss
}

// resolve returns the symbol named by arg, which is either a label or
// a decimal address.
func (s symbols) resolve(arg string) (symbol, bool) {
	for _, sym := range s {
		if sym.label == arg {
			return sym, true
		}
	}
	addr, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || addr < 0 {
		return symbol{}, false
	}
	if ss := s.forAddr(addr); len(ss) > 0 {
		return ss[0], true
	}
	return symbol{addr: addr, label: arg}, true
}

func (s symbols) withLabelPrefix(prefix string) (ss []symbol) {
	for _, sym := range s {
		if strings.HasPrefix(sym.label, prefix) {
			ss = append(ss, sym)
		}
	}
	return ss
}

type symbol struct {
	addr  int64
	label string
}

func (s symbol) String() string { return fmt.Sprintf("%s (%d)", s.label, s.addr) }

func readSymbols(file string) (symbols, error) {
	f, err := os.Open(file)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	ss, err := parseSymbols(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %v", file, err)
	}
	return ss, nil
}

// parseSymbols reads lines of the form "addr label", separated by
// spaces or tabs. Blank lines and lines starting with # are ignored.
func parseSymbols(r io.Reader) (symbols, error) {
	var (
		ss   symbols
		sc   = bufio.NewScanner(r)
		line = 0
	)
	for sc.Scan() {
		line++
		t := strings.TrimSpace(sc.Text())
		if t == "" || strings.HasPrefix(t, "#") {
			continue
		}
		f := strings.Fields(t)
		if len(f) != 2 {
			return nil, fmt.Errorf("line %d: want address and label, got %q", line, t)
		}
		a, label := f[0], f[1]
		addr, err := strconv.ParseInt(a, 10, 64)
		if err != nil || addr < 0 {
			return nil, fmt.Errorf("line %d: invalid address %q", line, a)
		}
		ss = append(ss, symbol{addr: addr, label: label})
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	sort.SliceStable(ss, func(i, j int) bool {
		return ss[i].addr < ss[j].addr
	})
	return ss, nil
}
