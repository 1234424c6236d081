// Package intcode implements the Intcode machine family.
//
// An Intcode program is a single memory image that is both code and data.
// Each instruction is a packed integer: the opcode is the value modulo 100,
// and the decimal digits above it give the addressing mode of each operand
// (0 position, 1 immediate, 2 relative to the machine base).
package intcode

import (
	"errors"
	"fmt"
	"io"
	"iter"
	"strconv"
	"strings"

	"github.com/matzsoft/adventofcode-sub002/vm"
)

const (
	OP_ADD  = vm.Opcode(1)  // add
	OP_MUL  = vm.Opcode(2)  // mul
	OP_IN   = vm.Opcode(3)  // in
	OP_OUT  = vm.Opcode(4)  // out
	OP_JT   = vm.Opcode(5)  // jt
	OP_JF   = vm.Opcode(6)  // jf
	OP_LT   = vm.Opcode(7)  // lt
	OP_EQ   = vm.Opcode(8)  // eq
	OP_ARB  = vm.Opcode(9)  // arb
	OP_HALT = vm.Opcode(99) // halt
)

// Addressing mode digits.
const (
	MODE_POSITION  = 0
	MODE_IMMEDIATE = 1
	MODE_RELATIVE  = 2
)

// Set is the Intcode instruction set.
type Set struct {
	forms vm.Forms
}

var _ vm.InstructionSet = (*Set)(nil)
var _ vm.Disassembler = (*Set)(nil)

// NewSet creates the Intcode instruction set.
func NewSet() (set *Set) {
	set = &Set{}
	set.forms = vm.Forms{
		OP_ADD:  {Mnemonic: "add", Operands: 3, Exec: arith(func(a, b int) int { return a + b })},
		OP_MUL:  {Mnemonic: "mul", Operands: 3, Exec: arith(func(a, b int) int { return a * b })},
		OP_IN:   {Mnemonic: "in", Operands: 1, Exec: execIn},
		OP_OUT:  {Mnemonic: "out", Operands: 1, Exec: execOut},
		OP_JT:   {Mnemonic: "jt", Operands: 2, Exec: jump(func(a int) bool { return a != 0 })},
		OP_JF:   {Mnemonic: "jf", Operands: 2, Exec: jump(func(a int) bool { return a == 0 })},
		OP_LT:   {Mnemonic: "lt", Operands: 3, Exec: arith(func(a, b int) int { return truth(a < b) })},
		OP_EQ:   {Mnemonic: "eq", Operands: 3, Exec: arith(func(a, b int) int { return truth(a == b) })},
		OP_ARB:  {Mnemonic: "arb", Operands: 1, Exec: execArb},
		OP_HALT: {Mnemonic: "halt", Operands: 0, Exec: execHalt},
	}
	return
}

// New creates an Intcode machine.
func New(prog *vm.Program) *vm.Machine {
	return vm.New(NewSet(), prog)
}

// Name of the machine family.
func (set *Set) Name() string {
	return "intcode"
}

// Forms returns the opcode table.
func (set *Set) Forms() vm.Forms {
	return set.forms
}

// Decode decodes the packed instruction at an address.
func (set *Set) Decode(mem vm.Memory, pc int) (in vm.Instruction, err error) {
	word, err := mem.Get(pc)
	if err != nil {
		return
	}

	op := vm.Opcode(word % 100)
	form, ok := set.forms[op]
	if word < 0 || !ok {
		err = errors.Join(vm.ErrDecode, vm.ErrUnknownOpcode(op))
		return
	}

	in.Op = op
	in.Width = 1 + form.Operands
	in.Operands = make([]vm.Operand, form.Operands)

	modes := word / 100
	for n := range form.Operands {
		var value int
		value, err = mem.Get(pc + 1 + n)
		if err != nil {
			return
		}

		switch modes % 10 {
		case MODE_POSITION:
			in.Operands[n] = vm.Addr(value)
		case MODE_IMMEDIATE:
			in.Operands[n] = vm.Imm(value)
		case MODE_RELATIVE:
			in.Operands[n] = vm.Rel(value)
		default:
			err = errors.Join(vm.ErrDecode, vm.ErrOperandMode)
			return
		}
		modes /= 10
	}

	if modes != 0 {
		err = errors.Join(vm.ErrDecode, vm.ErrOperandMode)
		return
	}

	return
}

// Fetch decodes the instruction at the program counter. A program
// counter outside memory halts the machine.
func (set *Set) Fetch(m *vm.Machine) (in vm.Instruction, ok bool, err error) {
	if m.Pc < 0 || m.Pc >= len(m.Memory) {
		return
	}

	in, err = set.Decode(m.Memory, m.Pc)
	ok = err == nil

	return
}

// Disassemble lists memory as instructions. Words that do not decode are
// listed as data.
func (set *Set) Disassemble(m *vm.Machine) iter.Seq2[int, string] {
	return func(yield func(int, string) bool) {
		for address := 0; address < len(m.Memory); {
			in, err := set.Decode(m.Memory, address)
			if err != nil {
				if !yield(address, fmt.Sprintf(".word %d", m.Memory[address])) {
					return
				}
				address++
				continue
			}
			if !yield(address, set.forms.Format(in)) {
				return
			}
			address += in.Width
		}
	}
}

// Parse reads a comma separated memory image.
func Parse(input io.Reader) (prog *vm.Program, err error) {
	data, err := io.ReadAll(input)
	if err != nil {
		return
	}

	text := strings.TrimSpace(string(data))
	if len(text) == 0 {
		err = vm.ErrEmptyProgram
		return
	}

	prog = &vm.Program{}
	for _, word := range strings.Split(text, ",") {
		word = strings.TrimSpace(word)
		var value int
		value, err = strconv.Atoi(word)
		if err != nil {
			prog = nil
			err = &vm.ErrSyntax{LineNo: 1, Line: word, Err: vm.ErrParseValue(word)}
			return
		}
		prog.Image = append(prog.Image, value)
	}

	return
}

// ParseString reads a comma separated memory image from a string.
func ParseString(text string) (*vm.Program, error) {
	return Parse(strings.NewReader(text))
}

// Load makes a program from a memory image.
func Load(image ...int) *vm.Program {
	return &vm.Program{Image: append([]int(nil), image...)}
}

func truth(ok bool) int {
	if ok {
		return 1
	}
	return 0
}

// arith makes a three operand instruction storing fn(a, b) into the third operand.
func arith(fn func(a, b int) int) func(m *vm.Machine, in vm.Instruction) error {
	return func(m *vm.Machine, in vm.Instruction) (err error) {
		loc, err := m.Locate(in.Operands[2])
		if err != nil {
			return
		}
		a, err := m.Read(in.Operands[0])
		if err != nil {
			return
		}
		b, err := m.Read(in.Operands[1])
		if err != nil {
			return
		}
		return m.Store(loc, fn(a, b))
	}
}

// jump makes a conditional jump to the second operand.
func jump(cond func(a int) bool) func(m *vm.Machine, in vm.Instruction) error {
	return func(m *vm.Machine, in vm.Instruction) (err error) {
		args, err := m.Args(in)
		if err != nil {
			return
		}
		if cond(args[0]) {
			m.Jump(args[1])
		}
		return
	}
}

func execIn(m *vm.Machine, in vm.Instruction) (err error) {
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

func execOut(m *vm.Machine, in vm.Instruction) (err error) {
	value, err := m.Read(in.Operands[0])
	if err != nil {
		return
	}
	return m.Emit(value)
}

func execArb(m *vm.Machine, in vm.Instruction) (err error) {
	value, err := m.Read(in.Operands[0])
	if err != nil {
		return
	}
	m.AdjustBase(value)
	return
}

func execHalt(m *vm.Machine, in vm.Instruction) (err error) {
	m.Halt()
	return
}
