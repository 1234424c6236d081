package vm

import (
	"fmt"
	"iter"
	"slices"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/matzsoft/adventofcode-sub002/internal"
)

// Action is the decision of a breakpoint guard.
type Action int

const (
	CONTINUE = Action(0) // continue
	STOP     = Action(1) // stop
)

// Guard decides whether execution stops at a breakpoint.
// A guard may inspect and modify the machine.
type Guard func(m *Machine) Action

// TraceKind selects what a trace window is measured against.
type TraceKind int

const (
	TRACE_CYCLE   = TraceKind(0) // cycle
	TRACE_ADDRESS = TraceKind(1) // address
)

// TraceWindow is an inclusive range of cycles or addresses to trace.
type TraceWindow struct {
	Kind  TraceKind
	Start int
	Stop  int
}

// Contains returns true if the machine is inside the window.
func (tw TraceWindow) Contains(m *Machine) bool {
	at := m.Cycles
	if tw.Kind == TRACE_ADDRESS {
		at = m.Pc
	}
	return at >= tw.Start && at <= tw.Stop
}

// Disassembler is implemented by instruction sets whose program is not
// held in Program.Code.
type Disassembler interface {
	Disassemble(m *Machine) iter.Seq2[int, string]
}

// SetBreakpoint registers a guard at an address, replacing any existing one.
// A nil guard always stops.
func (m *Machine) SetBreakpoint(address int, guard Guard) {
	if guard == nil {
		guard = func(*Machine) Action { return STOP }
	}
	if m.breakpoints == nil {
		m.breakpoints = make(map[int]Guard)
	}
	m.breakpoints[address] = guard
}

// ClearBreakpoint removes the breakpoint at an address.
func (m *Machine) ClearBreakpoint(address int) {
	delete(m.breakpoints, address)
}

// ClearBreakpoints removes all breakpoints.
func (m *Machine) ClearBreakpoints() {
	clear(m.breakpoints)
}

// Breakpoints returns the breakpoint addresses in ascending order.
func (m *Machine) Breakpoints() (addresses []int) {
	for address := range internal.SortedAll(m.breakpoints) {
		addresses = append(addresses, address)
	}
	return
}

// Resume continues a paused machine past the breakpoint it stopped at.
func (m *Machine) Resume() {
	if m.State == PAUSED {
		m.State = RUNNING
		m.resume = true
	}
}

// checkBreakpoint evaluates the guard at the program counter, and pauses
// the machine if it says to stop.
func (m *Machine) checkBreakpoint() (stop bool) {
	guard, ok := m.breakpoints[m.Pc]
	if !ok {
		return
	}

	if guard(m) == STOP {
		m.State = PAUSED
		stop = true
	}

	return
}

// SetTraceWindow replaces all trace windows with a single window.
func (m *Machine) SetTraceWindow(kind TraceKind, start, stop int) {
	m.traces = []TraceWindow{{Kind: kind, Start: start, Stop: stop}}
}

// AddTraceWindow adds a trace window.
func (m *Machine) AddTraceWindow(window TraceWindow) {
	m.traces = append(m.traces, window)
}

// ClearTraceWindows disables tracing.
func (m *Machine) ClearTraceWindows() {
	m.traces = nil
}

func (m *Machine) tracing() bool {
	return slices.ContainsFunc(m.traces, func(tw TraceWindow) bool {
		return tw.Contains(m)
	})
}

func (m *Machine) trace(pc, cycle int, text string, before string) {
	m.Log.WithFields(logrus.Fields{
		"pc":    pc,
		"cycle": cycle,
	}).Info(fmt.Sprintf("%-20s %s -> %s", text, before, m.registerText()))
}

// registerText renders registers, and the relative base when set.
func (m *Machine) registerText() string {
	var words []string
	for name, value := range internal.SortedAll(m.reg) {
		words = append(words, fmt.Sprintf("%s=%d", name, value))
	}
	if m.Base != 0 {
		words = append(words, fmt.Sprintf("base=%d", m.Base))
	}
	if len(words) == 0 {
		return "-"
	}
	return strings.Join(words, " ")
}

// TraceLine renders the current instruction and machine state on one line.
func (m *Machine) TraceLine() string {
	text := "-"
	in, ok, err := m.Set.Fetch(m)
	switch {
	case err != nil:
		text = fmt.Sprintf("<%v>", err)
	case ok:
		text = m.Set.Forms().Format(in)
	}

	return fmt.Sprintf("%6d %4d: %-20s %s", m.Cycles, m.Pc, text, m.registerText())
}

// Listing iterates the live program as address and assembly text.
func (m *Machine) Listing() iter.Seq2[int, string] {
	if dis, ok := m.Set.(Disassembler); ok {
		return dis.Disassemble(m)
	}

	forms := m.Set.Forms()
	return func(yield func(int, string) bool) {
		for address, in := range m.Program.Code {
			if !yield(address, forms.Format(in)) {
				return
			}
		}
	}
}

// Dump returns the live program listing, registers and opcode counters.
func (m *Machine) Dump() string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "%v: %v pc=%d cycle=%d\n", m.Set.Name(), m.State, m.Pc, m.Cycles)

	for address, text := range m.Listing() {
		mark := " "
		if address == m.Pc {
			mark = ">"
		}
		brk := " "
		if _, ok := m.breakpoints[address]; ok {
			brk = "*"
		}
		fmt.Fprintf(&sb, "%s%s%5d: %s\n", mark, brk, address, text)
	}

	fmt.Fprintf(&sb, "registers: %s\n", m.registerText())

	forms := m.Set.Forms()
	counts := make(map[string]int, len(m.counts))
	for op, count := range m.counts {
		counts[forms[op].Mnemonic] = count
	}
	var words []string
	for mnemonic, count := range internal.SortedAll(counts) {
		words = append(words, fmt.Sprintf("%s=%d", mnemonic, count))
	}
	if len(words) > 0 {
		fmt.Fprintf(&sb, "counts: %s\n", strings.Join(words, " "))
	}

	return sb.String()
}
