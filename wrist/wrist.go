// Package wrist implements the wrist device, a six register machine with
// sixteen three-operand opcodes.
//
// Every instruction is "op A B C" and stores into register C. The suffix
// of the mnemonic says whether A and B are registers (r) or immediates (i).
// A "#ip N" pragma binds register N to the program counter.
package wrist

import (
	"errors"
	"io"
	"slices"
	"strconv"
	"strings"

	"github.com/matzsoft/adventofcode-sub002/vm"
)

const (
	OP_ADDR = vm.Opcode(iota) // addr
	OP_ADDI                   // addi
	OP_MULR                   // mulr
	OP_MULI                   // muli
	OP_BANR                   // banr
	OP_BANI                   // bani
	OP_BORR                   // borr
	OP_BORI                   // bori
	OP_SETR                   // setr
	OP_SETI                   // seti
	OP_GTIR                   // gtir
	OP_GTRI                   // gtri
	OP_GTRR                   // gtrr
	OP_EQIR                   // eqir
	OP_EQRI                   // eqri
	OP_EQRR                   // eqrr
)

// REGISTERS names every register, by index.
const REGISTERS = "012345"

// PRAGMA_IP is the pragma binding a register to the program counter.
const PRAGMA_IP = "ip"

type kind int

const (
	kindRegister = kind(iota)
	kindImmediate
	kindIgnored
)

type opcodeDef struct {
	mnemonic string
	a, b     kind
	fn       func(a, b int) int
}

func truth(ok bool) int {
	if ok {
		return 1
	}
	return 0
}

var opcodeDefs = map[vm.Opcode]opcodeDef{
	OP_ADDR: {"addr", kindRegister, kindRegister, func(a, b int) int { return a + b }},
	OP_ADDI: {"addi", kindRegister, kindImmediate, func(a, b int) int { return a + b }},
	OP_MULR: {"mulr", kindRegister, kindRegister, func(a, b int) int { return a * b }},
	OP_MULI: {"muli", kindRegister, kindImmediate, func(a, b int) int { return a * b }},
	OP_BANR: {"banr", kindRegister, kindRegister, func(a, b int) int { return a & b }},
	OP_BANI: {"bani", kindRegister, kindImmediate, func(a, b int) int { return a & b }},
	OP_BORR: {"borr", kindRegister, kindRegister, func(a, b int) int { return a | b }},
	OP_BORI: {"bori", kindRegister, kindImmediate, func(a, b int) int { return a | b }},
	OP_SETR: {"setr", kindRegister, kindIgnored, func(a, _ int) int { return a }},
	OP_SETI: {"seti", kindImmediate, kindIgnored, func(a, _ int) int { return a }},
	OP_GTIR: {"gtir", kindImmediate, kindRegister, func(a, b int) int { return truth(a > b) }},
	OP_GTRI: {"gtri", kindRegister, kindImmediate, func(a, b int) int { return truth(a > b) }},
	OP_GTRR: {"gtrr", kindRegister, kindRegister, func(a, b int) int { return truth(a > b) }},
	OP_EQIR: {"eqir", kindImmediate, kindRegister, func(a, b int) int { return truth(a == b) }},
	OP_EQRI: {"eqri", kindRegister, kindImmediate, func(a, b int) int { return truth(a == b) }},
	OP_EQRR: {"eqrr", kindRegister, kindRegister, func(a, b int) int { return truth(a == b) }},
}

// Set is the wrist device instruction set.
type Set struct {
	forms vm.Forms
}

var _ vm.InstructionSet = (*Set)(nil)

// NewSet creates the instruction set.
func NewSet() (set *Set) {
	set = &Set{forms: vm.Forms{}}
	for op, def := range opcodeDefs {
		set.forms[op] = vm.Form{Mnemonic: def.mnemonic, Operands: 3, Exec: bound(exec(def))}
	}
	return
}

// New creates a wrist device machine.
func New(prog *vm.Program) *vm.Machine {
	return vm.New(NewSet(), prog)
}

func (set *Set) Name() string {
	return "wrist"
}

func (set *Set) Forms() vm.Forms {
	return set.forms
}

func (set *Set) Fetch(m *vm.Machine) (vm.Instruction, bool, error) {
	return vm.FetchCode(m)
}

// operand makes an operand of a kind from a number.
func operand(k kind, value int) (op vm.Operand, err error) {
	if k != kindRegister {
		op = vm.Imm(value)
		return
	}
	if value < 0 || value >= len(REGISTERS) {
		err = vm.ErrRegisterInvalid
		return
	}
	op = vm.Reg(REGISTERS[value : value+1])
	return
}

// Numeric builds an instruction from an opcode and its three numbers.
func Numeric(op vm.Opcode, a, b, c int) (in vm.Instruction, err error) {
	def, ok := opcodeDefs[op]
	if !ok {
		err = errors.Join(vm.ErrDecode, vm.ErrUnknownOpcode(op))
		return
	}

	in.Op = op
	in.Width = 1

	kinds := []kind{def.a, def.b, kindRegister}
	for n, value := range []int{a, b, c} {
		var arg vm.Operand
		arg, err = operand(kinds[n], value)
		if err != nil {
			return
		}
		in.Operands = append(in.Operands, arg)
	}

	return
}

// Decode an instruction from its source words.
func (set *Set) Decode(words []string) (in vm.Instruction, err error) {
	op, args, err := set.forms.Decode(words)
	if err != nil {
		return
	}

	values := make([]int, len(args))
	for n, arg := range args {
		values[n], err = strconv.Atoi(arg)
		if err != nil {
			err = vm.ErrParseValue(arg)
			return
		}
	}

	return Numeric(op, values[0], values[1], values[2])
}

// Parse assembles a wrist device program.
func Parse(input io.Reader) (prog *vm.Program, err error) {
	prog, err = vm.Assemble(input, NewSet().Decode)
	if err != nil {
		return
	}

	if len(prog.Code) == 0 {
		err = vm.ErrEmptyProgram
		return
	}

	for name, value := range prog.Pragma {
		switch {
		case name != PRAGMA_IP:
			err = errors.Join(vm.ErrDecode, vm.ErrMnemonic)
		case value < 0 || value >= len(REGISTERS):
			err = vm.ErrRegisterInvalid
		}
		if err != nil {
			return
		}
	}

	return
}

// ParseString assembles a wrist device program from a string.
func ParseString(text string) (*vm.Program, error) {
	return Parse(strings.NewReader(text))
}

func exec(def opcodeDef) func(m *vm.Machine, in vm.Instruction) error {
	return func(m *vm.Machine, in vm.Instruction) (err error) {
		args, err := m.Args(in)
		if err != nil {
			return
		}
		return m.Write(in.Operands[2], def.fn(args[0], args[1]))
	}
}

// bound wraps an instruction with the #ip register binding: the program
// counter is written to the register before the instruction, and the
// register plus one becomes the next program counter.
func bound(fn func(m *vm.Machine, in vm.Instruction) error) func(m *vm.Machine, in vm.Instruction) error {
	return func(m *vm.Machine, in vm.Instruction) (err error) {
		ip, ok := m.Program.Pragma[PRAGMA_IP]
		if !ok {
			return fn(m, in)
		}

		name := REGISTERS[ip : ip+1]
		m.SetRegister(name, m.Pc)

		err = fn(m, in)
		if err != nil {
			return
		}

		m.Jump(m.Register(name) + 1)
		return
	}
}

// Candidates returns, in opcode order, every opcode that transforms the
// before registers into the after registers given the operand numbers
// a, b and c.
func Candidates(before []int, a, b, c int, after []int) (ops []vm.Opcode) {
	if len(before) > len(REGISTERS) || len(after) > len(REGISTERS) {
		return
	}

	set := NewSet()

	for op := range opcodeDefs {
		in, err := Numeric(op, a, b, c)
		if err != nil {
			continue
		}

		m := vm.New(set, &vm.Program{Code: []vm.Instruction{in}})
		for n, value := range before {
			m.SetRegister(REGISTERS[n:n+1], value)
		}

		_, _, err = m.Step()
		if err != nil {
			continue
		}

		match := true
		for n, value := range after {
			if m.Register(REGISTERS[n:n+1]) != value {
				match = false
				break
			}
		}
		if match {
			ops = append(ops, op)
		}
	}

	slices.Sort(ops)
	return
}
