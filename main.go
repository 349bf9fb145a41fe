// Command icx executes Intcode programs.
package main

import (
	"errors"
	"fmt"
	"image/png"
	"io"
	"log"
	"os"
	"runtime/pprof"
	"strconv"
	"strings"

	"github.com/spf13/pflag"

	"github.com/nf/icx/circuit"
	"github.com/nf/icx/display"
	"github.com/nf/icx/intcode"
)

// config holds the settings applied to a program before it runs.
type config struct {
	input []int64
	sets  [][2]int64
	ascii bool
	logf  func(string, ...any)
}

func main() {
	log.SetPrefix("icx: ")
	log.SetFlags(0)

	var (
		inputFlag   = pflag.StringP("input", "i", "", "queue comma-separated `values` as input (with --amp, the one initial signal)")
		setFlag     = pflag.StringArrayP("set", "s", nil, "write `addr=value` to memory before running (repeatable)")
		asciiFlag   = pflag.BoolP("ascii", "a", false, "run as a text console, reading input lines from stdin")
		verboseFlag = pflag.BoolP("verbose", "v", false, "log amplifier and network traffic")
		disasmFlag  = pflag.Bool("disasm", false, "print a program listing and exit")

		debugFlag = pflag.BoolP("debug", "d", false, "run the program in the debugger")
		watchFlag = pflag.BoolP("watch", "w", false, "re-run the program whenever its file changes")
		symFlag   = pflag.String("sym", "", "read debugger labels from `file`")

		ampFlag  = pflag.String("amp", "", "run an amplifier chain with comma-separated `phases`")
		bestFlag = pflag.Bool("best", false, "with --amp, find the phase order giving the largest signal")
		netFlag  = pflag.Int("net", 0, "run a network of `n` nodes (at most 255) and report NAT packets")

		guiFlag       = pflag.BoolP("gui", "g", false, "draw arcade output in a window")
		autopilotFlag = pflag.Bool("autopilot", false, "steer the arcade paddle toward the ball")
		pngFlag       = pflag.String("png", "", "run as an arcade program and write the final screen to `file`")

		cpuProfileFlag = pflag.String("cpu_profile", "", "write CPU profile to `file`")
	)

	pflag.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: %s [flags] <program.ic>\n", os.Args[0])
		pflag.PrintDefaults()
		os.Exit(2)
	}
	pflag.Parse()
	if pflag.NArg() != 1 {
		pflag.Usage()
	}
	file := pflag.Arg(0)

	cfg := &config{ascii: *asciiFlag, logf: circuit.Nopf}
	if *verboseFlag {
		cfg.logf = log.Printf
	}
	var err error
	if cfg.input, err = parseValues(*inputFlag); err != nil {
		log.Fatalf("--input: %v", err)
	}
	for _, s := range *setFlag {
		addr, v, err := parseSet(s)
		if err != nil {
			log.Fatalf("--set: %v", err)
		}
		cfg.sets = append(cfg.sets, [2]int64{addr, v})
	}

	if *watchFlag {
		if err := devMode(*debugFlag, file, *symFlag, cfg); err != nil {
			log.Fatal(err)
		}
		return
	}

	var syms symbols
	if *symFlag != "" {
		if syms, err = readSymbols(*symFlag); err != nil {
			log.Fatal(err)
		}
	}

	m, err := load(file, cfg)
	if err != nil {
		log.Fatal(err)
	}

	if *debugFlag {
		d := newDebugger(m, syms)
		log.SetPrefix("")
		log.SetOutput(d.log)
		err := d.Run()
		log.SetOutput(os.Stderr)
		log.SetPrefix("icx: ")
		if err != nil {
			log.Fatalf("debug: %v", err)
		}
		return
	}

	var cpuProfile io.Closer
	if prof := *cpuProfileFlag; prof != "" {
		f, err := os.Create(prof)
		if err != nil {
			log.Fatalf("creating CPU profile file: %v", err)
		}
		pprof.StartCPUProfile(f)
		cpuProfile = f
	}

	switch {
	case *disasmFlag:
		err = intcode.Disasm(os.Stdout, m)
	case *ampFlag != "":
		err = runAmp(os.Stdout, m, *ampFlag, *bestFlag, cfg)
	case *netFlag > 0:
		err = runNet(os.Stdout, m, *netFlag, cfg)
	case *guiFlag:
		scr := display.NewScreen()
		g := display.NewGUI(m, scr)
		g.Autopilot = *autopilotFlag
		if err = g.Run(); err == nil && *pngFlag != "" {
			err = writePNG(*pngFlag, scr)
		}
	case *pngFlag != "":
		err = runArcade(os.Stdout, m, *pngFlag)
	case cfg.ascii:
		err = console(m, os.Stdin, os.Stdout)
	default:
		err = runBatch(os.Stdout, m)
	}

	if f := cpuProfile; f != nil {
		pprof.StopCPUProfile()
		f.Close()
	}

	if err != nil {
		log.Fatal(err)
	}
}

// load reads a program from file and applies cfg to it.
func load(file string, cfg *config) (*intcode.Machine, error) {
	b, err := os.ReadFile(file)
	if err != nil {
		return nil, err
	}
	m, err := intcode.Parse(string(b))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", file, err)
	}
	for _, s := range cfg.sets {
		m.Poke(s[0], s[1])
	}
	m.Push(cfg.input...)
	return m, nil
}

var errWaiting = errors.New("program waiting for input")

// runBatch runs m to completion and writes its output one value per line.
func runBatch(w io.Writer, m *intcode.Machine) error {
	s, err := m.Run()
	for _, v := range m.TakeOutput() {
		fmt.Fprintln(w, v)
	}
	if err != nil {
		return err
	}
	if s == intcode.Suspended {
		return errWaiting
	}
	return nil
}

func runAmp(w io.Writer, m *intcode.Machine, phaseList string, best bool, cfg *config) error {
	phases, err := parseValues(phaseList)
	if err != nil {
		return fmt.Errorf("--amp: %w", err)
	}
	// Input queued with --input belongs to the chain, not to every amplifier.
	var signal int64
	switch len(m.In) {
	case 0:
	case 1:
		signal = m.In[0]
		m.In = nil
	default:
		return fmt.Errorf("--amp: want at most one --input value as the signal, got %d", len(m.In))
	}
	if best {
		v, order, err := circuit.BestPhases(m, phases, signal)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "%d %s\n", v, formatValues(order))
		return nil
	}
	c := circuit.NewChain(m, phases)
	c.Logf = cfg.logf
	v, err := c.Run(signal)
	if err != nil {
		return err
	}
	fmt.Fprintln(w, v)
	return nil
}

func runNet(w io.Writer, m *intcode.Machine, size int, cfg *config) error {
	// Address NAT is never delivered to a node.
	if size > circuit.NAT {
		return fmt.Errorf("--net: at most %d nodes, got %d", circuit.NAT, size)
	}
	n := circuit.NewNetwork(m, size)
	n.Logf = cfg.logf
	first, err := n.FirstNAT()
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "first NAT packet: %d, %d\n", first.X, first.Y)

	n = circuit.NewNetwork(m, size)
	n.Logf = cfg.logf
	rep, err := n.RepeatedNAT()
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "repeated NAT packet: %d, %d\n", rep.X, rep.Y)
	return nil
}

// runArcade plays an arcade program with the autopilot steering,
// reports the blocks left and the score, and writes the screen to file.
func runArcade(w io.Writer, m *intcode.Machine, file string) error {
	scr := display.NewScreen()
	g := display.NewGUI(m, scr)
	g.Autopilot = true
	for {
		halted, err := g.Step()
		if err != nil {
			return err
		}
		if halted {
			break
		}
	}
	fmt.Fprintf(w, "blocks: %d\nscore: %d\n", scr.Count(display.Block), scr.Score)
	return writePNG(file, scr)
}

func writePNG(file string, scr *display.Screen) error {
	f, err := os.Create(file)
	if err != nil {
		return err
	}
	if err := png.Encode(f, scr.Image(8)); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// parseValues parses comma-separated integers. An empty string is no values.
func parseValues(s string) ([]int64, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	var vs []int64
	for _, f := range strings.Split(s, ",") {
		v, err := strconv.ParseInt(strings.TrimSpace(f), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("bad value %q", f)
		}
		vs = append(vs, v)
	}
	return vs, nil
}

func formatValues(vs []int64) string {
	s := make([]string, len(vs))
	for i, v := range vs {
		s[i] = strconv.FormatInt(v, 10)
	}
	return strings.Join(s, ",")
}

// parseSet parses an addr=value pair.
func parseSet(s string) (addr, v int64, err error) {
	a, b, ok := strings.Cut(s, "=")
	if !ok {
		return 0, 0, fmt.Errorf("%q is not addr=value", s)
	}
	if addr, err = strconv.ParseInt(strings.TrimSpace(a), 10, 64); err != nil || addr < 0 || addr >= intcode.MaxMem {
		return 0, 0, fmt.Errorf("bad address in %q", s)
	}
	if v, err = strconv.ParseInt(strings.TrimSpace(b), 10, 64); err != nil {
		return 0, 0, fmt.Errorf("bad value in %q", s)
	}
	return addr, v, nil
}
