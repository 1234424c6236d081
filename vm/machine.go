package vm

import (
	"maps"
	"slices"

	"github.com/sirupsen/logrus"

	"github.com/matzsoft/adventofcode-sub002/io"
)

// State is the execution state of a machine.
type State int

const (
	RUNNING = State(0) // running
	HALTED  = State(1) // halted
	WAITING = State(2) // waiting
	PAUSED  = State(3) // paused
	FAULTED = State(4) // faulted
)

// Machine is the execution unit of a virtual machine.
type Machine struct {
	Verbose bool               // Set to log every executed instruction.
	Log     logrus.FieldLogger // Destination for trace and verbose logging.

	Set     InstructionSet // Instruction set of the machine family.
	Program *Program       // Live program text, mutated by self-modifying code.
	Memory  Memory         // Data memory (code and data, for packed families).
	Width   uint           // If non-zero, stored values wrap modulo 2^Width.

	Pc      int   // Program counter.
	Base    int   // Relative base offset.
	Cycles  int   // Executed instructions counter.
	Emitted int   // Emitted values counter.
	State   State // Execution state.

	Input  *io.Queue  // Values waiting to be received.
	Output io.Channel // Destination of emitted values.

	reg    map[string]int
	counts map[Opcode]int
	image  *Program

	next    int  // Program counter after the executing instruction.
	value   int  // Value emitted by the executing instruction.
	emitted bool // Set if the executing instruction emitted.

	breakpoints map[int]Guard
	resume      bool
	traces      []TraceWindow
}

// New creates a machine running prog.
func New(set InstructionSet, prog *Program) (m *Machine) {
	if prog == nil {
		prog = &Program{}
	}

	m = &Machine{
		Log:    logrus.StandardLogger(),
		Set:    set,
		Input:  &io.Queue{},
		Output: &io.Queue{},
		image:  prog.Clone(),
	}

	m.Reset()

	return
}

// Reset the machine to the loaded program.
// - Restores the program text and memory image.
// - Zeros registers, counters, program counter and base.
// - Empties the input queue, and the output queue if not connected.
// Breakpoints and trace windows are kept.
func (m *Machine) Reset() {
	m.Program = m.image.Clone()
	m.Memory = Memory(slices.Clone(m.image.Image))
	m.reg = make(map[string]int)
	m.counts = make(map[Opcode]int)

	m.Pc = 0
	m.Base = 0
	m.Cycles = 0
	m.Emitted = 0
	m.State = RUNNING
	m.resume = false

	m.Input.Reset()
	if out, ok := m.Output.(*io.Queue); ok {
		out.Reset()
	}
}

// Clone returns a deep copy of the machine.
//
// The clone shares no state with the original. A clone of a machine whose
// output is connected to another machine emits into a fresh local queue.
func (m *Machine) Clone() (clone *Machine) {
	c := *m
	clone = &c

	clone.Program = m.Program.Clone()
	clone.Memory = m.Memory.Clone()
	clone.reg = maps.Clone(m.reg)
	clone.counts = maps.Clone(m.counts)
	clone.Input = m.Input.Clone()
	clone.breakpoints = maps.Clone(m.breakpoints)
	clone.traces = slices.Clone(m.traces)

	if out, ok := m.Output.(*io.Queue); ok {
		clone.Output = out.Clone()
	} else {
		clone.Output = &io.Queue{}
	}

	return
}

// Registers returns a copy of the register file.
func (m *Machine) Registers() map[string]int {
	return maps.Clone(m.reg)
}

// Register returns a register value. Unset registers are zero.
func (m *Machine) Register(name string) int {
	return m.reg[name]
}

// SetRegister sets a register value.
func (m *Machine) SetRegister(name string, value int) {
	m.reg[name] = m.wrap(value)
}

// Count returns the number of times an opcode has executed.
func (m *Machine) Count(op Opcode) int {
	return m.counts[op]
}

// ConnectOutputTo sends every emitted value to the input of other.
func (m *Machine) ConnectOutputTo(other *Machine) {
	m.Output = other
}

// Send queues a value on the machine input, waking it if it was waiting.
func (m *Machine) Send(value int) (err error) {
	err = m.Input.Send(value)
	if err != nil {
		return
	}

	if m.State == WAITING {
		m.State = RUNNING
	}

	return
}

// Drain removes and returns all values emitted to an unconnected output.
func (m *Machine) Drain() (values []int) {
	out, ok := m.Output.(*io.Queue)
	if !ok {
		return
	}

	return out.Drain()
}

// Step executes a single instruction.
//
// If the instruction emitted a value, it is returned with emitted set.
// A receive on an empty input leaves the machine WAITING without advancing
// the program counter or the cycle count.
func (m *Machine) Step() (value int, emitted bool, err error) {
	switch m.State {
	case HALTED:
		return
	case FAULTED:
		err = ErrFaulted
		return
	}

	m.State = RUNNING
	m.resume = false

	pc := m.Pc
	in, ok, err := m.Set.Fetch(m)
	if err != nil {
		m.State = FAULTED
		err = &ErrInstruction{Pc: pc, Err: err}
		return
	}
	if !ok {
		m.State = HALTED
		return
	}

	forms := m.Set.Forms()
	form, ok := forms[in.Op]
	if !ok {
		m.State = FAULTED
		err = &ErrInstruction{Pc: pc, Text: forms.Format(in), Err: ErrUnknownOpcode(in.Op)}
		return
	}

	tracing := m.tracing()
	var before string
	if tracing {
		before = m.registerText()
	}

	if m.Verbose {
		m.Log.WithFields(logrus.Fields{"pc": pc, "cycle": m.Cycles}).Debug(forms.Format(in))
	}

	m.next = pc + in.Width
	m.emitted = false

	err = form.Exec(m, in)
	if err != nil {
		m.State = FAULTED
		err = &ErrInstruction{Pc: pc, Text: forms.Format(in), Err: err}
		return
	}

	if m.State == WAITING {
		return
	}

	if m.State != HALTED {
		m.Pc = m.next
	}
	m.Cycles++
	m.counts[in.Op]++

	if tracing {
		m.trace(pc, m.Cycles-1, forms.Format(in), before)
	}

	value, emitted = m.value, m.emitted

	return
}

// Run executes until the machine halts, waits for input, faults, or pauses
// at a breakpoint.
func (m *Machine) Run() (state State, err error) {
	_, _, err = m.run(false)
	state = m.State
	return
}

// Next executes until the next emitted value, or until Run would return.
func (m *Machine) Next() (value int, ok bool, err error) {
	return m.run(true)
}

func (m *Machine) run(untilOutput bool) (value int, ok bool, err error) {
	switch m.State {
	case HALTED:
		return
	case FAULTED:
		err = ErrFaulted
		return
	}

	m.State = RUNNING
	for m.State == RUNNING {
		if !m.resume && m.checkBreakpoint() {
			break
		}

		value, ok, err = m.Step()
		if err != nil || (ok && untilOutput) {
			return
		}
	}

	return
}

// Halt stops the machine.
func (m *Machine) Halt() {
	m.State = HALTED
}

// Jump continues execution at an absolute address.
func (m *Machine) Jump(address int) {
	m.next = address
}

// Offset continues execution relative to the executing instruction.
func (m *Machine) Offset(delta int) {
	m.next = m.Pc + delta
}

// AdjustBase moves the relative base.
func (m *Machine) AdjustBase(delta int) {
	m.Base += delta
}

// Emit sends a value to the output.
func (m *Machine) Emit(value int) (err error) {
	err = m.Output.Send(value)
	if err != nil {
		return
	}

	m.value = value
	m.emitted = true
	m.Emitted++

	return
}

// Receive takes the next input value. With no input available the
// machine becomes WAITING and ok is false; the instruction must then
// return without side effects so it is retried once input arrives.
func (m *Machine) Receive() (value int, ok bool) {
	value, ok = m.Input.Receive()
	if !ok {
		m.State = WAITING
	}
	return
}
