// Package circuit connects Intcode machines to each other.
//
// The machines themselves know nothing about their peers; a Chain or
// Network owns a set of machines, runs them in turn, and moves values
// from the output of one to the input of another.
package circuit

import (
	"errors"
	"fmt"

	"github.com/nf/icx/intcode"
)

var (
	// ErrNoOutput is returned when a machine that is expected to produce
	// a value stops without producing one.
	ErrNoOutput = errors.New("no output")

	// ErrRounds is returned when a circuit does not finish within
	// MaxRounds rounds.
	ErrRounds = errors.New("too many rounds")
)

// MaxRounds bounds the number of rounds run by Chain.Run and the
// Network drivers.
const MaxRounds = 1 << 20

// Nopf is a logf function that does nothing.
func Nopf(string, ...any) {}

// Chain is a series of amplifiers, each running its own copy of a
// program. The output of each amplifier is the input of the next, and
// the output of the last is fed back to the first until it halts.
type Chain struct {
	Amps []*intcode.Machine
	Logf func(format string, args ...any)
}

// NewChain returns a Chain with one amplifier per phase setting. Each
// amplifier is a clone of prog with its phase setting queued as input.
func NewChain(prog *intcode.Machine, phases []int64) *Chain {
	c := &Chain{Logf: Nopf}
	for _, p := range phases {
		m := prog.Clone()
		m.Push(p)
		c.Amps = append(c.Amps, m)
	}
	return c
}

// Run sends signal into the first amplifier and returns the last value
// produced by the final amplifier once it halts.
func (c *Chain) Run(signal int64) (int64, error) {
	if len(c.Amps) == 0 {
		return 0, errors.New("empty chain")
	}
	logf := c.Logf
	if logf == nil {
		logf = Nopf
	}
	last := c.Amps[len(c.Amps)-1]
	for round := 0; round < MaxRounds; round++ {
		for i, m := range c.Amps {
			m.Push(signal)
			if _, err := m.Run(); err != nil {
				return 0, fmt.Errorf("amplifier %d: %w", i, err)
			}
			out := m.TakeOutput()
			if len(out) == 0 {
				return 0, fmt.Errorf("amplifier %d: %w", i, ErrNoOutput)
			}
			signal = out[len(out)-1]
			logf("round %d: amplifier %d -> %d", round, i, signal)
		}
		if last.State() == intcode.Halted {
			return signal, nil
		}
	}
	return 0, ErrRounds
}

// BestPhases tries every ordering of phases and returns the largest
// signal produced by the chain, and the ordering that produced it.
func BestPhases(prog *intcode.Machine, phases []int64, signal int64) (best int64, order []int64, err error) {
	for _, p := range Permutations(phases) {
		v, err := NewChain(prog, p).Run(signal)
		if err != nil {
			return 0, nil, fmt.Errorf("phases %v: %w", p, err)
		}
		if order == nil || v > best {
			best, order = v, p
		}
	}
	return best, order, nil
}

// Permutations returns every ordering of vals.
func Permutations(vals []int64) [][]int64 {
	var (
		perms [][]int64
		a     = append([]int64(nil), vals...)
		gen   func(k int)
	)
	gen = func(k int) {
		if k <= 1 {
			perms = append(perms, append([]int64(nil), a...))
			return
		}
		gen(k - 1)
		for i := 0; i < k-1; i++ {
			if k%2 == 0 {
				a[i], a[k-1] = a[k-1], a[i]
			} else {
				a[0], a[k-1] = a[k-1], a[0]
			}
			gen(k - 1)
		}
	}
	gen(len(a))
	return perms
}
