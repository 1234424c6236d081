// Package coprocessor implements the Duet and Coprocessor register machines.
//
// Registers are the letters a through z. In sound mode snd plays a
// frequency (emitted to the output) and rcv recovers the last frequency
// played when its operand is non-zero, halting the machine. Otherwise snd
// sends to the connected peer and rcv receives into a register, waiting
// when nothing has been sent.
package coprocessor

import (
	"io"
	"strings"

	vmio "github.com/matzsoft/adventofcode-sub002/io"
	"github.com/matzsoft/adventofcode-sub002/vm"
)

const (
	OP_SND = vm.Opcode(iota + 1) // snd
	OP_SET                       // set
	OP_ADD                       // add
	OP_SUB                       // sub
	OP_MUL                       // mul
	OP_MOD                       // mod
	OP_RCV                       // rcv
	OP_JGZ                       // jgz
	OP_JNZ                       // jnz
)

// REGISTERS names every register.
const REGISTERS = "abcdefghijklmnopqrstuvwxyz"

// REGISTER_ID is seeded with the program id of a duet machine.
const REGISTER_ID = "p"

// Set is the Coprocessor instruction set.
type Set struct {
	Sound bool // Selects sound mode for snd and rcv.

	forms vm.Forms
}

var _ vm.InstructionSet = (*Set)(nil)

// NewSet creates the instruction set.
func NewSet(sound bool) (set *Set) {
	set = &Set{Sound: sound}
	set.forms = vm.Forms{
		OP_SND: {Mnemonic: "snd", Operands: 1, Exec: set.execSnd},
		OP_SET: {Mnemonic: "set", Operands: 2, Exec: arith(func(_, b int) (int, error) { return b, nil })},
		OP_ADD: {Mnemonic: "add", Operands: 2, Exec: arith(func(a, b int) (int, error) { return a + b, nil })},
		OP_SUB: {Mnemonic: "sub", Operands: 2, Exec: arith(func(a, b int) (int, error) { return a - b, nil })},
		OP_MUL: {Mnemonic: "mul", Operands: 2, Exec: arith(func(a, b int) (int, error) { return a * b, nil })},
		OP_MOD: {Mnemonic: "mod", Operands: 2, Exec: arith(modulo)},
		OP_RCV: {Mnemonic: "rcv", Operands: 1, Exec: set.execRcv},
		OP_JGZ: {Mnemonic: "jgz", Operands: 2, Exec: jump(func(x int) bool { return x > 0 })},
		OP_JNZ: {Mnemonic: "jnz", Operands: 2, Exec: jump(func(x int) bool { return x != 0 })},
	}
	return
}

// NewSound creates a machine in sound mode.
func NewSound(prog *vm.Program) *vm.Machine {
	return vm.New(NewSet(true), prog)
}

// NewDuet creates a machine in send/receive mode, with its program id
// in register p.
func NewDuet(prog *vm.Program, id int) (m *vm.Machine) {
	m = vm.New(NewSet(false), prog)
	m.SetRegister(REGISTER_ID, id)
	return
}

// NewPair creates two duet machines, 0 and 1, each sending to the other.
func NewPair(prog *vm.Program) (m0, m1 *vm.Machine) {
	m0 = NewDuet(prog, 0)
	m1 = NewDuet(prog, 1)
	m0.ConnectOutputTo(m1)
	m1.ConnectOutputTo(m0)
	return
}

func (set *Set) Name() string {
	return "coprocessor"
}

func (set *Set) Forms() vm.Forms {
	return set.forms
}

func (set *Set) Fetch(m *vm.Machine) (vm.Instruction, bool, error) {
	return vm.FetchCode(m)
}

// Decode an instruction from its source words.
func (set *Set) Decode(words []string) (in vm.Instruction, err error) {
	op, args, err := set.forms.Decode(words)
	if err != nil {
		return
	}

	in.Op = op
	in.Width = 1
	for n, arg := range args {
		var operand vm.Operand
		if n == 0 && op != OP_SND && op != OP_JGZ && op != OP_JNZ {
			operand, err = vm.ParseRegister(arg, REGISTERS)
		} else {
			operand, err = vm.ParseOperand(arg, REGISTERS)
		}
		if err != nil {
			return
		}
		in.Operands = append(in.Operands, operand)
	}

	return
}

// Parse assembles a program. The program runs in either mode.
func Parse(input io.Reader) (prog *vm.Program, err error) {
	prog, err = vm.Assemble(input, NewSet(false).Decode)
	if err == nil && len(prog.Code) == 0 {
		err = vm.ErrEmptyProgram
	}
	return
}

// ParseString assembles a program from a string.
func ParseString(text string) (*vm.Program, error) {
	return Parse(strings.NewReader(text))
}

// Recovered returns the frequency recovered by a sound mode machine,
// which is the last one it played.
func Recovered(m *vm.Machine) (value int, ok bool) {
	out, ok := m.Output.(*vmio.Queue)
	if !ok {
		return
	}
	return out.Last()
}

func modulo(a, b int) (value int, err error) {
	if b == 0 {
		err = ErrDivideByZero
		return
	}
	value = a % b
	return
}

func arith(fn func(a, b int) (int, error)) func(m *vm.Machine, in vm.Instruction) error {
	return func(m *vm.Machine, in vm.Instruction) (err error) {
		args, err := m.Args(in)
		if err != nil {
			return
		}
		value, err := fn(args[0], args[1])
		if err != nil {
			return
		}
		return m.Write(in.Operands[0], value)
	}
}

func jump(cond func(x int) bool) func(m *vm.Machine, in vm.Instruction) error {
	return func(m *vm.Machine, in vm.Instruction) (err error) {
		args, err := m.Args(in)
		if err != nil {
			return
		}
		if cond(args[0]) {
			m.Offset(args[1])
		}
		return
	}
}

func (set *Set) execSnd(m *vm.Machine, in vm.Instruction) (err error) {
	value, err := m.Read(in.Operands[0])
	if err != nil {
		return
	}
	return m.Emit(value)
}

func (set *Set) execRcv(m *vm.Machine, in vm.Instruction) (err error) {
	if set.Sound {
		var value int
		value, err = m.Read(in.Operands[0])
		if err != nil {
			return
		}
		if value != 0 {
			m.Halt()
		}
		return
	}

	loc, err := m.Locate(in.Operands[0])
	if err != nil {
		return
	}
	value, ok := m.Receive()
	if !ok {
		return
	}
	return m.Store(loc, value)
}
