package main

import (
	"fmt"
	"log"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/nf/icx/intcode"
)

// stateKind describes why the debugger stopped executing.
type stateKind int

const (
	stepState stateKind = iota
	breakState
	pauseState
	waitState
	haltState
)

func (k stateKind) String() string {
	switch k {
	case breakState:
		return "[break]"
	case pauseState:
		return "[pause]"
	case waitState:
		return "[input]"
	case haltState:
		return "[HALT!]"
	}
	return "       "
}

// contChunk is the number of instructions executed per lock hold
// while continuing.
const contChunk = 10000

type debugger struct {
	log   *tview.TextView
	watch *tview.TextView
	state *tview.TextView
	input *tview.InputField
	cols  *tview.Flex
	rows  *tview.Flex
	app   *tview.Application

	running atomic.Bool
	pause   atomic.Bool

	mu      sync.Mutex
	m, orig *intcode.Machine
	halted  bool
	syms    symbols
	brk     *symbol
	watches []symbol
}

func newDebugger(m *intcode.Machine, syms symbols) *debugger {
	d := &debugger{
		log: tview.NewTextView().
			SetMaxLines(1000),
		watch: tview.NewTextView().
			SetWrap(false).
			SetTextAlign(tview.AlignRight),
		state: tview.NewTextView().
			SetWrap(false),
		input: tview.NewInputField(),
		cols:  tview.NewFlex(),
		rows: tview.NewFlex().
			SetDirection(tview.FlexRow),
		app: tview.NewApplication(),

		m:    m,
		orig: m.Clone(),
		syms: syms,
	}
	d.log.SetChangedFunc(func() { d.app.Draw() })
	d.watch.SetBackgroundColor(tcell.ColorDarkBlue)
	d.state.SetBackgroundColor(tcell.ColorDarkGrey)
	d.cols.
		AddItem(d.watch, 0, 1, false).
		AddItem(d.log, 0, 2, false)
	d.rows.
		AddItem(d.cols, 0, 1, false).
		AddItem(d.state, 3, 0, false).
		AddItem(d.input, 1, 0, true)
	d.app.SetRoot(d.rows, true)

	d.input.SetAutocompleteFunc(func(t string) (entries []string) {
		if cmd, arg, ok := strings.Cut(t, " "); ok {
			switch cmd {
			case "b", "break", "w", "watch":
				for _, s := range d.symbols().withLabelPrefix(arg) {
					entries = append(entries, cmd+" "+s.label)
				}
			}
		}
		return
	})
	d.input.SetAutocompletedFunc(func(t string, index, src int) bool {
		if src != tview.AutocompletedNavigate {
			d.input.SetText(t)
		}
		return src == tview.AutocompletedEnter || src == tview.AutocompletedClick
	})
	d.input.SetDoneFunc(func(key tcell.Key) {
		if key != tcell.KeyEnter {
			return
		}
		cmd := d.input.GetText()
		if cmd == "" {
			return
		}
		d.input.SetText("")
		if cmd == "exit" {
			d.pause.Store(true)
			d.app.Stop()
			return
		}
		d.command(cmd)
	})
	return d
}

// Run shows the debugger and blocks until the user exits.
func (d *debugger) Run() error {
	d.showState(stepState)
	log.Printf("commands: s [n], c, p, b [addr], w addr, i values, t text, reset, exit")
	return d.app.Run()
}

func (d *debugger) symbols() symbols {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.syms
}

func (d *debugger) setSymbols(s symbols) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.syms = s
}

// command runs a single debugger command.
func (d *debugger) command(line string) {
	cmd, arg, _ := strings.Cut(strings.TrimSpace(line), " ")
	arg = strings.TrimSpace(arg)
	switch cmd {
	case "s", "step":
		n := 1
		if arg != "" {
			v, err := strconv.Atoi(arg)
			if err != nil || v < 1 {
				log.Printf("invalid step count %q", arg)
				return
			}
			n = v
		}
		if d.running.Load() {
			log.Print("running; pause first")
			return
		}
		d.pause.Store(false)
		d.showState(d.exec(n, true))
	case "c", "cont", "continue":
		d.cont()
	case "p", "pause":
		d.pause.Store(true)
	case "b", "break":
		if arg == "" {
			d.mu.Lock()
			d.brk = nil
			d.mu.Unlock()
			log.Print("cleared break")
			d.showState(stepState)
			return
		}
		s, ok := d.symbols().resolve(arg)
		if !ok {
			log.Printf("invalid addr %q", arg)
			return
		}
		d.mu.Lock()
		d.brk = &s
		d.mu.Unlock()
		log.Printf("set break %d", s.addr)
		d.showState(stepState)
	case "w", "watch":
		s, ok := d.symbols().resolve(arg)
		if !ok {
			log.Printf("invalid address %q", arg)
			return
		}
		d.mu.Lock()
		d.watches = append(d.watches, s)
		d.mu.Unlock()
		log.Printf("watching %d", s.addr)
		d.showState(stepState)
	case "i", "in", "input":
		vs, err := parseValues(arg)
		if err != nil {
			log.Printf("input: %v", err)
			return
		}
		d.mu.Lock()
		d.m.Push(vs...)
		d.mu.Unlock()
		d.showState(stepState)
	case "t", "text":
		d.mu.Lock()
		d.m.PushString(arg + "\n")
		d.mu.Unlock()
		d.showState(stepState)
	case "reset":
		d.mu.Lock()
		m := d.orig
		d.mu.Unlock()
		d.reset(m)
		d.showState(stepState)
	default:
		log.Printf("unknown command %q", cmd)
	}
}

// exec executes at most n instructions and logs any output produced.
// It stops early if PC reaches the break address, the program halts or
// waits for input, or a pause is requested. With leave set, a break at
// the starting PC is ignored so that execution can move past it.
func (d *debugger) exec(n int, leave bool) stateKind {
	d.mu.Lock()
	k, err := d.execLocked(n, leave)
	out := d.m.TakeOutput()
	d.mu.Unlock()
	if len(out) > 0 {
		log.Printf("out: %s", formatOutput(out))
	}
	if err != nil {
		log.Print(err)
	}
	return k
}

func (d *debugger) execLocked(n int, leave bool) (stateKind, error) {
	if d.halted {
		return haltState, nil
	}
	for i := 0; i < n; i++ {
		if d.brk != nil && d.m.PC == d.brk.addr && !(i == 0 && leave) {
			return breakState, nil
		}
		if d.pause.Load() {
			return pauseState, nil
		}
		switch err := d.m.Exec(); err {
		case nil:
		case intcode.ErrInput:
			return waitState, nil
		case intcode.ErrHalt:
			d.halted = true
			return haltState, nil
		default:
			d.halted = true
			return haltState, err
		}
	}
	return stepState, nil
}

// cont executes instructions in the background until exec stops.
func (d *debugger) cont() {
	if !d.running.CompareAndSwap(false, true) {
		log.Print("already running")
		return
	}
	d.pause.Store(false)
	go func() {
		defer d.running.Store(false)
		leave := true
		for {
			if k := d.exec(contChunk, leave); k != stepState {
				d.queueState(k)
				return
			}
			leave = false
		}
	}()
}

// reset replaces the machine being debugged with a copy of m,
// pausing it if it is running.
func (d *debugger) reset(m *intcode.Machine) {
	d.pause.Store(true)
	d.mu.Lock()
	d.orig = m.Clone()
	d.m = m.Clone()
	d.halted = false
	d.mu.Unlock()
	log.Print("reset")
}

// queueState shows the machine state from outside the UI goroutine.
func (d *debugger) queueState(k stateKind) {
	d.app.QueueUpdateDraw(func() { d.showState(k) })
}

// showState updates the state and watch views. It must only be called
// from the UI goroutine or before Run.
func (d *debugger) showState(k stateKind) {
	d.mu.Lock()
	var (
		watch = watchContent(d.m, d.brk, d.watches)
		state = stateMsg(d.syms, d.m, k)
	)
	d.mu.Unlock()
	switch k {
	case stepState:
		d.state.SetTextColor(tcell.ColorBlack)
		d.state.SetBackgroundColor(tcell.ColorDarkGrey)
	case breakState:
		d.state.SetTextColor(tcell.ColorYellow)
		d.state.SetBackgroundColor(tcell.ColorDarkBlue)
	case pauseState, waitState:
		d.state.SetTextColor(tcell.ColorWhite)
		d.state.SetBackgroundColor(tcell.ColorDarkBlue)
	case haltState:
		d.state.SetTextColor(tcell.ColorWhite)
		d.state.SetBackgroundColor(tcell.ColorDarkRed)
	}
	d.watch.SetText(watch)
	d.state.SetText(state)
}

func stateMsg(syms symbols, m *intcode.Machine, k stateKind) string {
	var (
		instr = strconv.FormatInt(m.Peek(m.PC), 10)
		pcSym string
		sym   string
	)
	if s := syms.forAddr(m.PC); len(s) > 0 {
		pcSym = s[0].String() + " -> "
	}
	if in, err := m.Decode(m.PC); err == nil {
		instr = in.String()
		seen := map[int64]bool{}
		for _, p := range in.Params {
			addr := p.Value
			switch p.Mode {
			case intcode.Immediate:
				continue
			case intcode.Relative:
				addr += m.Base
			}
			if seen[addr] {
				continue
			}
			seen[addr] = true
			for _, s := range syms.forAddr(addr) {
				if sym != "" {
					sym += " "
				}
				sym += s.String()
			}
		}
	}
	return fmt.Sprintf("%6d %-24s %s %s%s\nbase: %d\nin: %v\n",
		m.PC, instr, k, pcSym, sym, m.Base, m.In)
}

func watchContent(m *intcode.Machine, brk *symbol, watches []symbol) string {
	var b strings.Builder
	if s := brk; s != nil {
		fmt.Fprintf(&b, "%s [%d] brk!\n", s.label, s.addr)
	}
	for i, w := range watches {
		if i > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "%s [%d] %d", w.label, w.addr, m.Peek(w.addr))
	}
	return b.String()
}

// formatOutput quotes output that is entirely printable text and
// otherwise lists the values.
func formatOutput(out []int64) string {
	for _, v := range out {
		if (v < ' ' || v > '~') && v != '\n' && v != '\t' {
			return fmt.Sprint(out)
		}
	}
	return strconv.Quote(intcode.Text(out))
}
