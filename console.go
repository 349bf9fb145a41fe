package main

import (
	"bufio"
	"fmt"
	"io"

	"github.com/nf/icx/intcode"
)

// console runs m as a text program. Its output is written to w as text
// and, whenever it waits for input, a line is read from r and queued
// with its newline.
func console(m *intcode.Machine, r io.Reader, w io.Writer) error {
	in := bufio.NewScanner(r)
	for {
		s, err := m.Run()
		if _, werr := io.WriteString(w, intcode.Text(m.TakeOutput())); werr != nil {
			return werr
		}
		if err != nil || s == intcode.Halted {
			return err
		}
		if !in.Scan() {
			if err := in.Err(); err != nil {
				return fmt.Errorf("reading input: %v", err)
			}
			return errWaiting
		}
		m.PushString(in.Text() + "\n")
	}
}
