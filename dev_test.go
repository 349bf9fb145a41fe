package main

import (
	"path/filepath"
	"testing"
)

func TestWatched(t *testing.T) {
	for _, c := range []struct {
		name          string
		file, symFile string
		want          bool
	}{
		{"./prog.ic", "prog.ic", "", true},
		{"prog.ic", "prog.ic", "", true},
		{"./prog.sym", "prog.ic", "prog.sym", true},
		{"progs/day9.ic", "./progs/day9.ic", "", true},
		{"/tmp/x/prog.ic", "/tmp/x/prog.ic", "", true},
		{"./other.ic", "prog.ic", "prog.sym", false},
		{"./prog.ic.swp", "prog.ic", "", false},
		{".", "prog.ic", "", false},
	} {
		if g := watched(c.name, c.file, c.symFile); g != c.want {
			t.Errorf("watched(%q, %q, %q) = %v, want %v", c.name, c.file, c.symFile, g, c.want)
		}
	}

	// Events arrive as the watched directory joined with the base name.
	for _, file := range []string{"prog.ic", "./prog.ic", "progs/prog.ic", "/abs/prog.ic"} {
		file = filepath.Clean(file)
		name := filepath.Dir(file) + "/" + filepath.Base(file)
		if !watched(name, file) {
			t.Errorf("event %q for watched %q not matched", name, file)
		}
	}
}
