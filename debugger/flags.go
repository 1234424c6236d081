package debugger

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/matzsoft/adventofcode-sub002/internal"
	"github.com/matzsoft/adventofcode-sub002/vm"
)

// Breakpoint is a parsed breakpoint flag.
type Breakpoint struct {
	Address int
	Expr    *Expr // nil for an unconditional breakpoint.
}

// ParseBreakpoint parses "address" or "address:expression".
func ParseBreakpoint(text string) (bp Breakpoint, err error) {
	addr, source, conditional := strings.Cut(text, ":")

	bp.Address, err = strconv.Atoi(strings.TrimSpace(addr))
	if err != nil {
		err = errors.Join(ErrBreakpointFormat, err)
		return
	}

	if !conditional {
		return
	}

	bp.Expr, err = Compile(source)
	return
}

// Guard returns the breakpoint guard.
func (bp Breakpoint) Guard() vm.Guard {
	if bp.Expr == nil {
		return nil
	}
	return bp.Expr.Guard()
}

func (bp Breakpoint) String() string {
	if bp.Expr == nil {
		return strconv.Itoa(bp.Address)
	}
	return fmt.Sprintf("%d:%s", bp.Address, bp.Expr.Source)
}

// Breakpoints is a repeatable flag.Value of breakpoints.
type Breakpoints []Breakpoint

func (bps *Breakpoints) String() string {
	var words []string
	for _, bp := range *bps {
		words = append(words, bp.String())
	}
	return strings.Join(words, " ")
}

func (bps *Breakpoints) Set(text string) (err error) {
	bp, err := ParseBreakpoint(text)
	if err != nil {
		return
	}
	*bps = append(*bps, bp)
	return
}

// Apply sets every breakpoint on a machine.
func (bps Breakpoints) Apply(m *vm.Machine) {
	for _, bp := range bps {
		m.SetBreakpoint(bp.Address, bp.Guard())
	}
}

var traceKinds = map[string]vm.TraceKind{
	vm.TRACE_CYCLE.String():   vm.TRACE_CYCLE,
	vm.TRACE_ADDRESS.String(): vm.TRACE_ADDRESS,
}

// ParseTraceWindow parses "kind:start:stop", where kind is cycle or
// address. The stop may be omitted to trace a single cycle or address.
func ParseTraceWindow(text string) (tw vm.TraceWindow, err error) {
	words := strings.Split(text, ":")
	if len(words) < 2 || len(words) > 3 {
		err = ErrTraceFormat
		return
	}

	kind, ok := traceKinds[words[0]]
	if !ok {
		err = ErrTraceFormat
		return
	}
	tw.Kind = kind

	tw.Start, err = strconv.Atoi(words[1])
	if err != nil {
		err = errors.Join(ErrTraceFormat, err)
		return
	}

	tw.Stop = tw.Start
	if len(words) == 3 {
		tw.Stop, err = strconv.Atoi(words[2])
		if err != nil {
			err = errors.Join(ErrTraceFormat, err)
			return
		}
	}

	if tw.Stop < tw.Start {
		err = ErrTraceFormat
	}

	return
}

// TraceWindows is a repeatable flag.Value of trace windows.
type TraceWindows []vm.TraceWindow

func (tws *TraceWindows) String() string {
	var words []string
	for _, tw := range *tws {
		words = append(words, fmt.Sprintf("%v:%d:%d", tw.Kind, tw.Start, tw.Stop))
	}
	return strings.Join(words, " ")
}

func (tws *TraceWindows) Set(text string) (err error) {
	tw, err := ParseTraceWindow(text)
	if err != nil {
		return
	}
	*tws = append(*tws, tw)
	return
}

// Apply adds every trace window to a machine.
func (tws TraceWindows) Apply(m *vm.Machine) {
	for _, tw := range tws {
		m.AddTraceWindow(tw)
	}
}

// Registers is a flag.Value of register seeds, "a=1,c=7".
type Registers map[string]int

// ParseRegisters parses a comma separated list of register seeds.
func ParseRegisters(text string) (regs Registers, err error) {
	regs = Registers{}
	err = regs.Set(text)
	return
}

func (regs Registers) String() string {
	var words []string
	for name, value := range internal.SortedAll(regs) {
		words = append(words, fmt.Sprintf("%s=%d", name, value))
	}
	return strings.Join(words, ",")
}

func (regs Registers) Set(text string) (err error) {
	for _, seed := range strings.Split(text, ",") {
		seed = strings.TrimSpace(seed)
		if len(seed) == 0 {
			continue
		}

		name, value, ok := strings.Cut(seed, "=")
		name = strings.TrimSpace(name)
		if !ok || len(name) == 0 {
			err = ErrRegisterFormat
			return
		}

		regs[name], err = strconv.Atoi(strings.TrimSpace(value))
		if err != nil {
			err = errors.Join(ErrRegisterFormat, err)
			return
		}
	}
	return
}

// Apply seeds the registers of a machine.
func (regs Registers) Apply(m *vm.Machine) {
	for name, value := range regs {
		m.SetRegister(name, value)
	}
}
