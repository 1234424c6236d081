package vm

import (
	"bytes"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

const (
	op_set  = Opcode(1)
	op_add  = Opcode(2)
	op_jmp  = Opcode(3)
	op_out  = Opcode(4)
	op_in   = Opcode(5)
	op_flip = Opcode(6)
	op_halt = Opcode(7)
)

// toySet is a minimal register machine used to exercise the engine.
type toySet struct {
	forms Forms
}

func newToySet() *toySet {
	set := &toySet{}
	set.forms = Forms{
		op_set: {Mnemonic: "set", Operands: 2, Exec: func(m *Machine, in Instruction) error {
			value, err := m.Read(in.Operands[1])
			if err != nil {
				return err
			}
			return m.Write(in.Operands[0], value)
		}},
		op_add: {Mnemonic: "add", Operands: 2, Exec: func(m *Machine, in Instruction) error {
			args, err := m.Args(in)
			if err != nil {
				return err
			}
			return m.Write(in.Operands[0], args[0]+args[1])
		}},
		op_jmp: {Mnemonic: "jmp", Operands: 1, Exec: func(m *Machine, in Instruction) error {
			m.Offset(in.Operands[0].Value)
			return nil
		}},
		op_out: {Mnemonic: "out", Operands: 1, Exec: func(m *Machine, in Instruction) error {
			value, err := m.Read(in.Operands[0])
			if err != nil {
				return err
			}
			return m.Emit(value)
		}},
		op_in: {Mnemonic: "in", Operands: 1, Exec: func(m *Machine, in Instruction) error {
			loc, err := m.Locate(in.Operands[0])
			if err != nil {
				return err
			}
			value, ok := m.Receive()
			if !ok {
				return nil
			}
			return m.Store(loc, value)
		}},
		op_flip: {Mnemonic: "flip", Operands: 1, Exec: func(m *Machine, in Instruction) error {
			loc := Location{Kind: LOC_PROGRAM, Address: m.Pc + in.Operands[0].Value}
			op, err := m.Load(loc)
			if err != nil {
				return err
			}
			switch Opcode(op) {
			case op_set:
				op = int(op_add)
			case op_add:
				op = int(op_set)
			}
			return m.Store(loc, op)
		}},
		op_halt: {Mnemonic: "hlt", Exec: func(m *Machine, in Instruction) error {
			m.Halt()
			return nil
		}},
	}
	return set
}

func (set *toySet) Name() string { return "toy" }

func (set *toySet) Forms() Forms { return set.forms }

func (set *toySet) Fetch(m *Machine) (Instruction, bool, error) { return FetchCode(m) }

func (set *toySet) decode(words []string) (in Instruction, err error) {
	op, args, err := set.forms.Decode(words)
	if err != nil {
		return
	}
	in.Op = op
	for _, arg := range args {
		var operand Operand
		operand, err = ParseOperand(arg, "ab")
		if err != nil {
			return
		}
		in.Operands = append(in.Operands, operand)
	}
	return
}

func newToy(t *testing.T, source string) *Machine {
	set := newToySet()
	prog, err := Assemble(strings.NewReader(source), set.decode)
	assert.NoError(t, err)
	return New(set, prog)
}

func TestAssemble(t *testing.T) {
	assert := assert.New(t)

	set := newToySet()
	prog, err := Assemble(strings.NewReader("; counter\n#ip 3\nset a, 5\n\nadd a -1 ; down\nhlt\n"), set.decode)
	assert.NoError(err)
	assert.Equal(3, len(prog.Code))
	assert.Equal([]int{3, 5, 6}, prog.Lines)
	assert.Equal(map[string]int{"ip": 3}, prog.Pragma)
	assert.Equal(Instruction{Op: op_add, Operands: []Operand{Reg("a"), Imm(-1)}, Width: 1}, prog.Code[1])
	assert.Equal(5, prog.LineNo(1))
	assert.Equal(0, prog.LineNo(7))

	table := [](struct {
		name   string
		source string
		target error
		lineno int
	}){
		{"mnemonic", "set a 1\nfoo a\n", ErrMnemonic, 2},
		{"count", "set a\n", ErrOperandCount, 1},
		{"operand", "set a x\n", ErrParseValue("x"), 1},
		{"pragma", "#ip\n", ErrDecode, 1},
		{"pragma_value", "#ip x\n", ErrDecode, 1},
	}

	for _, entry := range table {
		_, err := Assemble(strings.NewReader(entry.source), set.decode)
		assert.ErrorIs(err, entry.target, entry.name)
		syntax, ok := err.(*ErrSyntax)
		if assert.True(ok, entry.name) {
			assert.Equal(entry.lineno, syntax.LineNo, entry.name)
		}
	}
}

func TestParseOperand(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		word    string
		operand Operand
		err     error
	}){
		{"12", Imm(12), nil},
		{"-7", Imm(-7), nil},
		{"a", Reg("a"), nil},
		{"z", Operand{}, ErrParseValue("z")},
		{"ab", Operand{}, ErrParseValue("ab")},
	}

	for _, entry := range table {
		operand, err := ParseOperand(entry.word, "abcd")
		if entry.err != nil {
			assert.ErrorIs(err, entry.err, entry.word)
			continue
		}
		assert.NoError(err, entry.word)
		assert.Equal(entry.operand, operand, entry.word)
	}

	_, err := ParseRegister("7", "abcd")
	assert.ErrorIs(err, ErrRegisterInvalid)
	operand, err := ParseRegister("c", "abcd")
	assert.NoError(err)
	assert.Equal(Reg("c"), operand)

	assert.Equal([]string{"jie", "a", "+4"}, Tokenize("jie a, +4"))
}

func TestMemory(t *testing.T) {
	assert := assert.New(t)

	var mem Memory
	value, err := mem.Get(100)
	assert.NoError(err)
	assert.Equal(0, value)
	assert.Equal(0, len(mem))

	assert.NoError(mem.Set(3, 9))
	assert.Equal(Memory{0, 0, 0, 9}, mem)

	assert.NoError(mem.Set(1, 4))
	assert.Equal(Memory{0, 4, 0, 9}, mem)

	_, err = mem.Get(-1)
	assert.ErrorIs(err, ErrNegativeAddress)
	assert.ErrorIs(mem.Set(-1, 0), ErrNegativeAddress)

	clone := mem.Clone()
	clone[0] = 7
	assert.Equal(0, mem[0])

	assert.ErrorIs(mem.Set(MaxAddress+1, 1), ErrAddressRange)
	assert.Equal(4, len(mem))
}

func TestRun(t *testing.T) {
	assert := assert.New(t)

	m := newToy(t, "set a 3\nadd b a\nadd a -1\nset a a\nout b\n")
	state, err := m.Run()
	assert.NoError(err)
	assert.Equal(HALTED, state)
	assert.Equal(map[string]int{"a": 2, "b": 3}, m.Registers())
	assert.Equal(2, m.Register("a"))
	assert.Equal(0, m.Register("c"))
	assert.Equal(5, m.Pc)
	assert.Equal(5, m.Cycles)
	assert.Equal(2, m.Count(op_add))
	assert.Equal([]int{3}, m.Drain())

	// Halted machines stay halted.
	_, emitted, err := m.Step()
	assert.NoError(err)
	assert.False(emitted)
	assert.Equal(5, m.Cycles)
}

func TestStep(t *testing.T) {
	assert := assert.New(t)

	m := newToy(t, "out 4\njmp -1\n")

	value, emitted, err := m.Step()
	assert.NoError(err)
	assert.True(emitted)
	assert.Equal(4, value)
	assert.Equal(1, m.Pc)

	_, emitted, err = m.Step()
	assert.NoError(err)
	assert.False(emitted)
	assert.Equal(0, m.Pc)

	value, ok, err := m.Next()
	assert.NoError(err)
	assert.True(ok)
	assert.Equal(4, value)
	assert.Equal(2, m.Emitted)
	assert.Equal([]int{4, 4}, m.Drain())
}

func TestHalt(t *testing.T) {
	assert := assert.New(t)

	m := newToy(t, "hlt\nout 1\n")
	state, err := m.Run()
	assert.NoError(err)
	assert.Equal(HALTED, state)
	assert.Equal(0, m.Pc)
	assert.Equal(1, m.Cycles)
	assert.Empty(m.Drain())
}

func TestInvalidWrite(t *testing.T) {
	assert := assert.New(t)

	m := newToy(t, "set a 1\nset 5 a\nset a 2\n")
	state, err := m.Run()
	assert.Equal(FAULTED, state)
	assert.ErrorIs(err, ErrInvalidWriteMode)
	assert.Equal(1, m.Register("a"))
	assert.Equal(1, m.Pc)

	var ie *ErrInstruction
	if assert.ErrorAs(err, &ie) {
		assert.Equal(1, ie.Pc)
		assert.Equal("set 5 a", ie.Text)
	}

	_, err = m.Run()
	assert.ErrorIs(err, ErrFaulted)

	m.Reset()
	assert.Equal(RUNNING, m.State)
	assert.Equal(0, m.Register("a"))
}

func TestWidth(t *testing.T) {
	assert := assert.New(t)

	m := newToy(t, "set a 65535\nadd a 2\nset b -1\n")
	m.Width = 16
	m.Run()
	assert.Equal(1, m.Register("a"))
	assert.Equal(65535, m.Register("b"))

	m.SetRegister("a", 0x12345)
	assert.Equal(0x2345, m.Register("a"))
}

func TestWaitingAndSend(t *testing.T) {
	assert := assert.New(t)

	m := newToy(t, "in a\nin b\nadd a b\nout a\n")

	state, err := m.Run()
	assert.NoError(err)
	assert.Equal(WAITING, state)
	assert.Equal(0, m.Pc)
	assert.Equal(0, m.Cycles)

	assert.NoError(m.Send(3))
	state, _ = m.Run()
	assert.Equal(WAITING, state)
	assert.Equal(1, m.Pc)
	assert.Equal(1, m.Cycles)

	m.Send(4)
	state, _ = m.Run()
	assert.Equal(HALTED, state)
	assert.Equal([]int{7}, m.Drain())
}

func TestConnectOutput(t *testing.T) {
	assert := assert.New(t)

	a := newToy(t, "out 42\n")
	b := newToy(t, "in a\n")
	a.ConnectOutputTo(b)

	state, _ := b.Run()
	assert.Equal(WAITING, state)

	a.Run()
	assert.Equal(RUNNING, b.State)

	state, _ = b.Run()
	assert.Equal(HALTED, state)
	assert.Equal(42, b.Register("a"))

	// A clone of a connected machine does not feed the peer.
	a.Reset()
	b.Reset()
	fork := a.Clone()
	fork.Run()
	assert.Equal(0, b.Input.Len())
	assert.Equal([]int{42}, fork.Drain())
}

func TestClone(t *testing.T) {
	assert := assert.New(t)

	m := newToy(t, "set a 1\nflip 1\nset a 5\n")
	m.SetBreakpoint(2, nil)
	m.Run()
	assert.Equal(PAUSED, m.State)

	fork := m.Clone()
	fork.SetRegister("a", 10)
	fork.Resume()
	fork.Run()

	assert.Equal(15, fork.Register("a"))
	assert.Equal(op_add, fork.Program.Code[2].Op)

	assert.Equal(1, m.Register("a"))
	assert.Equal(PAUSED, m.State)
	m.Resume()
	m.Run()
	assert.Equal(6, m.Register("a"))
}

func TestToggleProgram(t *testing.T) {
	assert := assert.New(t)

	m := newToy(t, "flip 2\nflip 1\nset a 4\nflip 9\nflip -9\n")
	state, err := m.Run()
	assert.NoError(err)
	assert.Equal(HALTED, state)
	assert.Equal(op_set, m.Program.Code[2].Op)
	assert.Equal(4, m.Register("a"))
	assert.Contains(m.Dump(), "2: set a 4")

	// Reset restores the loaded program.
	m.Program.Code[2].Op = op_add
	m.Reset()
	assert.Equal(op_set, m.Program.Code[2].Op)
}

func TestBreakpoint(t *testing.T) {
	assert := assert.New(t)

	m := newToy(t, "add a 1\njmp -1\n")

	m.SetBreakpoint(0, func(m *Machine) Action {
		if m.Register("a") >= 3 {
			return STOP
		}
		return CONTINUE
	})
	assert.Equal([]int{0}, m.Breakpoints())

	state, err := m.Run()
	assert.NoError(err)
	assert.Equal(PAUSED, state)
	assert.Equal(0, m.Pc)
	assert.Equal(3, m.Register("a"))

	// Run re-evaluates the guard.
	state, _ = m.Run()
	assert.Equal(PAUSED, state)
	assert.Equal(3, m.Register("a"))

	// Resume steps past it once.
	m.Resume()
	assert.Equal(RUNNING, m.State)
	state, _ = m.Run()
	assert.Equal(PAUSED, state)
	assert.Equal(4, m.Register("a"))

	// A guard may modify the machine.
	m.SetBreakpoint(1, func(m *Machine) Action {
		m.SetRegister("b", m.Register("b")+1)
		if m.Register("b") == 2 {
			return STOP
		}
		return CONTINUE
	})
	m.ClearBreakpoint(0)
	state, _ = m.Run()
	assert.Equal(PAUSED, state)
	assert.Equal(1, m.Pc)
	assert.Equal(6, m.Register("a"))

	m.ClearBreakpoints()
	assert.Empty(m.Breakpoints())
}

func TestResumeThenStep(t *testing.T) {
	assert := assert.New(t)

	stop := func(*Machine) Action { return STOP }

	m := newToy(t, "add a 1\nadd a 1\nadd a 1\nadd a 1\n")
	m.SetBreakpoint(1, stop)
	m.SetBreakpoint(2, stop)

	state, _ := m.Run()
	assert.Equal(PAUSED, state)
	assert.Equal(1, m.Pc)

	// Stepping off a resumed breakpoint spends the resume.
	m.Resume()
	_, _, err := m.Step()
	assert.NoError(err)
	assert.Equal(2, m.Pc)

	state, _ = m.Run()
	assert.Equal(PAUSED, state)
	assert.Equal(2, m.Pc)
	assert.Equal(2, m.Register("a"))
}

func TestTrace(t *testing.T) {
	assert := assert.New(t)

	out := &bytes.Buffer{}
	logger := logrus.New()
	logger.SetOutput(out)
	logger.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})

	m := newToy(t, "set a 1\nadd a 1\nadd a 1\nadd a 1\n")
	m.Log = logger
	m.SetTraceWindow(TRACE_ADDRESS, 1, 2)
	m.Run()

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	assert.Len(lines, 2)
	assert.Contains(lines[0], "add a 1")
	assert.Contains(lines[0], "a=1 -> a=2")
	assert.Contains(lines[0], "pc=1")
	assert.Contains(lines[1], "a=2 -> a=3")
	assert.Equal(4, m.Register("a"))

	out.Reset()
	m.Reset()
	m.SetTraceWindow(TRACE_CYCLE, 0, 0)
	m.AddTraceWindow(TraceWindow{Kind: TRACE_CYCLE, Start: 3, Stop: 9})
	m.Run()
	lines = strings.Split(strings.TrimSpace(out.String()), "\n")
	assert.Len(lines, 2)
	assert.Contains(lines[0], "- -> a=1")
	assert.Contains(lines[1], "cycle=3")

	out.Reset()
	m.Reset()
	m.ClearTraceWindows()
	m.Run()
	assert.Empty(out.String())
}

func TestDump(t *testing.T) {
	assert := assert.New(t)

	m := newToy(t, "set a 2\nadd a 1\nhlt\n")
	m.SetBreakpoint(1, func(*Machine) Action { return CONTINUE })
	m.Run()

	dump := m.Dump()
	assert.Equal("toy: halted pc=2 cycle=3\n"+
		"      0: set a 2\n"+
		" *    1: add a 1\n"+
		">     2: hlt\n"+
		"registers: a=3\n"+
		"counts: add=1 hlt=1 set=1\n", dump)

	assert.Equal("     3    2: hlt                  a=3", m.TraceLine())
}
