// Package turing implements the two register machine of the Turing lock.
package turing

import (
	"io"
	"strings"

	"github.com/matzsoft/adventofcode-sub002/vm"
)

const (
	OP_HLF = vm.Opcode(iota + 1) // hlf
	OP_TPL                       // tpl
	OP_INC                       // inc
	OP_JMP                       // jmp
	OP_JIE                       // jie
	OP_JIO                       // jio
)

// REGISTERS names every register.
const REGISTERS = "ab"

// Set is the Turing lock instruction set.
type Set struct {
	forms vm.Forms
}

var _ vm.InstructionSet = (*Set)(nil)

// NewSet creates the instruction set.
func NewSet() (set *Set) {
	set = &Set{}
	set.forms = vm.Forms{
		OP_HLF: {Mnemonic: "hlf", Operands: 1, Exec: update(func(r int) int { return r / 2 })},
		OP_TPL: {Mnemonic: "tpl", Operands: 1, Exec: update(func(r int) int { return r * 3 })},
		OP_INC: {Mnemonic: "inc", Operands: 1, Exec: update(func(r int) int { return r + 1 })},
		OP_JMP: {Mnemonic: "jmp", Operands: 1, Exec: execJmp},
		OP_JIE: {Mnemonic: "jie", Operands: 2, Exec: jumpIf(func(r int) bool { return r%2 == 0 })},
		OP_JIO: {Mnemonic: "jio", Operands: 2, Exec: jumpIf(func(r int) bool { return r == 1 })},
	}
	return
}

// New creates a Turing lock machine.
func New(prog *vm.Program) *vm.Machine {
	return vm.New(NewSet(), prog)
}

func (set *Set) Name() string {
	return "turing"
}

func (set *Set) Forms() vm.Forms {
	return set.forms
}

func (set *Set) Fetch(m *vm.Machine) (vm.Instruction, bool, error) {
	return vm.FetchCode(m)
}

// Decode an instruction from its source words. jmp takes an offset;
// jie and jio take a register and an offset; the rest take a register.
func (set *Set) Decode(words []string) (in vm.Instruction, err error) {
	op, args, err := set.forms.Decode(words)
	if err != nil {
		return
	}

	in.Op = op
	in.Width = 1

	var arg vm.Operand
	switch op {
	case OP_JMP:
		arg, err = offset(args[0])
		in.Operands = []vm.Operand{arg}
	case OP_JIE, OP_JIO:
		var reg vm.Operand
		reg, err = vm.ParseRegister(args[0], REGISTERS)
		if err != nil {
			return
		}
		arg, err = offset(args[1])
		in.Operands = []vm.Operand{reg, arg}
	default:
		arg, err = vm.ParseRegister(args[0], REGISTERS)
		in.Operands = []vm.Operand{arg}
	}

	return
}

func offset(word string) (op vm.Operand, err error) {
	op, err = vm.ParseOperand(word, "")
	return
}

// Parse assembles a Turing lock program.
func Parse(input io.Reader) (prog *vm.Program, err error) {
	prog, err = vm.Assemble(input, NewSet().Decode)
	if err == nil && len(prog.Code) == 0 {
		err = vm.ErrEmptyProgram
	}
	return
}

// ParseString assembles a Turing lock program from a string.
func ParseString(text string) (*vm.Program, error) {
	return Parse(strings.NewReader(text))
}

func update(fn func(r int) int) func(m *vm.Machine, in vm.Instruction) error {
	return func(m *vm.Machine, in vm.Instruction) (err error) {
		value, err := m.Read(in.Operands[0])
		if err != nil {
			return
		}
		return m.Write(in.Operands[0], fn(value))
	}
}

func execJmp(m *vm.Machine, in vm.Instruction) (err error) {
	delta, err := m.Read(in.Operands[0])
	if err != nil {
		return
	}
	m.Offset(delta)
	return
}

func jumpIf(cond func(r int) bool) func(m *vm.Machine, in vm.Instruction) error {
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
