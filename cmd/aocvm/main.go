// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"slices"
	"strings"

	"github.com/sirupsen/logrus"
	"golang.org/x/text/language"

	"github.com/matzsoft/adventofcode-sub002/assembunny"
	"github.com/matzsoft/adventofcode-sub002/circuit"
	"github.com/matzsoft/adventofcode-sub002/coprocessor"
	"github.com/matzsoft/adventofcode-sub002/debugger"
	"github.com/matzsoft/adventofcode-sub002/emulator"
	"github.com/matzsoft/adventofcode-sub002/intcode"
	vmio "github.com/matzsoft/adventofcode-sub002/io"
	"github.com/matzsoft/adventofcode-sub002/translate"
	"github.com/matzsoft/adventofcode-sub002/turing"
	"github.com/matzsoft/adventofcode-sub002/vm"
	"github.com/matzsoft/adventofcode-sub002/wrist"
)

type options struct {
	skipInvalid bool
	sound       bool
}

type loader func(input io.Reader, opts options) ([]*vm.Machine, error)

func single(parse func(io.Reader) (*vm.Program, error), set func(opts options) vm.InstructionSet) loader {
	return func(input io.Reader, opts options) (machines []*vm.Machine, err error) {
		prog, err := parse(input)
		if err != nil {
			return
		}
		machines = []*vm.Machine{vm.New(set(opts), prog)}
		return
	}
}

var families = map[string]loader{
	"intcode": single(intcode.Parse, func(options) vm.InstructionSet {
		return intcode.NewSet()
	}),
	"assembunny": single(assembunny.Parse, func(opts options) vm.InstructionSet {
		set := assembunny.NewSet()
		set.SkipInvalid = opts.skipInvalid
		return set
	}),
	"coprocessor": single(coprocessor.Parse, func(opts options) vm.InstructionSet {
		return coprocessor.NewSet(opts.sound)
	}),
	"duet": func(input io.Reader, opts options) (machines []*vm.Machine, err error) {
		prog, err := coprocessor.Parse(input)
		if err != nil {
			return
		}
		m0, m1 := coprocessor.NewPair(prog)
		machines = []*vm.Machine{m0, m1}
		return
	},
	"wrist": single(wrist.Parse, func(options) vm.InstructionSet {
		return wrist.NewSet()
	}),
	"turing": single(turing.Parse, func(options) vm.InstructionSet {
		return turing.NewSet()
	}),
}

func familyNames() string {
	names := []string{"circuit"}
	for name := range families {
		names = append(names, name)
	}
	slices.Sort(names)
	return strings.Join(names, ", ")
}

func openInput(name string) (inf io.ReadCloser, err error) {
	if name == "-" {
		return io.NopCloser(os.Stdin), nil
	}
	return os.Open(name)
}

func openOutput(name string) (ouf io.WriteCloser, err error) {
	if name == "-" {
		return os.Stdout, nil
	}
	return os.Create(name)
}

func runCircuit(inf io.Reader, wire string, overrides debugger.Registers, dump bool, verbose bool) {
	board, err := circuit.Parse[uint16](inf)
	if err != nil {
		log.Fatal(err)
	}
	board.Verbose = verbose

	for name, value := range overrides {
		board.Override(name, uint16(value))
	}

	if dump {
		fmt.Fprint(os.Stderr, board.Dump())
	}

	if len(wire) != 0 {
		value, err := board.Signal(wire)
		if err != nil {
			log.Fatal(err)
		}
		fmt.Println(value)
	}
}

func main() {
	var family string
	var program string
	var input string
	var output string
	var ascii bool
	var dump bool
	var verbose bool
	var opts options
	var wire string
	var lang string

	regs := debugger.Registers{}
	var breakpoints debugger.Breakpoints
	var traces debugger.TraceWindows

	flag.StringVar(&family, "family", "intcode", "Machine family: "+familyNames())
	flag.StringVar(&program, "p", "", "Program file")
	flag.Var(regs, "r", "Register seeds, or circuit wire overrides (a=1,c=1)")
	flag.Var(&breakpoints, "b", "Breakpoint, address[:expression] (repeatable)")
	flag.Var(&traces, "t", "Trace window, cycle|address:start[:stop] (repeatable)")
	flag.StringVar(&input, "i", "-", "Tape input")
	flag.StringVar(&output, "o", "-", "Tape output")
	flag.BoolVar(&ascii, "ascii", false, "ASCII tape mode")
	flag.BoolVar(&dump, "dump", false, "Dump machine state on exit and at breakpoints")
	flag.BoolVar(&opts.skipInvalid, "skip-invalid", false, "Assembunny: skip writes to literals")
	flag.BoolVar(&opts.sound, "sound", false, "Coprocessor: sound mode")
	flag.StringVar(&wire, "wire", "", "Circuit: wire to evaluate")
	flag.StringVar(&lang, "lang", "", "Message language, as a BCP 47 tag (default from locale)")
	flag.BoolVar(&verbose, "v", false, "Verbose mode")

	flag.Parse()

	if flag.NArg() != 0 {
		log.Fatalf("%v: Unknown arguments: %v", os.Args[0], flag.Args())
	}

	if len(program) == 0 {
		log.Fatalf("%v: -p program file required", os.Args[0])
	}

	if len(lang) != 0 {
		tag, err := language.Parse(lang)
		if err != nil {
			log.Fatalf("-lang %v: %v", lang, err)
		}
		translate.SetLanguage(tag)
	}

	if verbose {
		logrus.SetLevel(logrus.DebugLevel)
	}

	inf, err := os.Open(program)
	if err != nil {
		log.Fatalf("%v: %v", program, err)
	}
	defer inf.Close()

	if family == "circuit" {
		runCircuit(inf, wire, regs, dump, verbose)
		return
	}

	load, ok := families[family]
	if !ok {
		log.Fatalf("%v: unknown family '%v', expected one of %v", os.Args[0], family, familyNames())
	}

	machines, err := load(inf, opts)
	if err != nil {
		log.Fatalf("%v: %v", program, err)
	}

	for _, m := range machines {
		m.Verbose = verbose
		regs.Apply(m)
		breakpoints.Apply(m)
		traces.Apply(m)
	}

	tapeIn, err := openInput(input)
	if err != nil {
		log.Fatalf("%v: %v", input, err)
	}
	defer tapeIn.Close()

	tapeOut, err := openOutput(output)
	if err != nil {
		log.Fatalf("%v: %v", output, err)
	}
	defer tapeOut.Close()

	net := emulator.NewNetwork(machines...)
	net.Verbose = verbose

	// Duet machines talk to each other, and sound mode keeps its output
	// queue for recovery.
	if family != "duet" && !opts.sound {
		tape := &vmio.Tape{Input: tapeIn, Output: tapeOut, ASCII: ascii}
		_, err = net.Attach(tape)
		if err != nil {
			log.Fatalf("%v: %v", input, err)
		}
	}

	for {
		state, err := net.Run()
		switch {
		case state == vm.PAUSED:
			for index, m := range machines {
				if m.State != vm.PAUSED {
					continue
				}
				fmt.Fprintf(os.Stderr, "machine %d: %s\n", index, m.TraceLine())
				if dump {
					fmt.Fprint(os.Stderr, m.Dump())
				}
				m.Resume()
			}
			continue
		case errors.Is(err, emulator.ErrDeadlock) && family != "duet":
			log.Fatalf("%v: waiting for input", program)
		case err != nil && !errors.Is(err, emulator.ErrDeadlock):
			log.Fatal(err)
		}
		break
	}

	for index, m := range machines {
		if dump {
			fmt.Fprint(os.Stderr, m.Dump())
		}
		if family == "duet" {
			fmt.Fprintf(os.Stderr, "machine %d sent %d values\n", index, m.Emitted)
		}
	}

	if family == "coprocessor" && opts.sound {
		if value, ok := coprocessor.Recovered(machines[0]); ok {
			fmt.Fprintf(os.Stderr, "recovered %d\n", value)
		}
	}
}
