// Package assembunny implements the Assembunny register machine.
//
// Assembunny has four registers, a through d, and six instructions:
//
//	cpy x y   copy x (register or literal) into register y
//	inc x     increment register x
//	dec x     decrement register x
//	jnz x y   jump by y if x is not zero
//	tgl x     toggle the instruction x away
//	out x     emit x
//
// The tgl instruction rewrites another instruction of the running program.
package assembunny

import (
	"errors"
	"io"
	"strings"

	"github.com/matzsoft/adventofcode-sub002/vm"
)

const (
	OP_CPY = vm.Opcode(iota + 1) // cpy
	OP_INC                       // inc
	OP_DEC                       // dec
	OP_JNZ                       // jnz
	OP_TGL                       // tgl
	OP_OUT                       // out
)

// REGISTERS names every Assembunny register.
const REGISTERS = "abcd"

// Toggle maps each opcode to its toggled opcode.
var Toggle = map[vm.Opcode]vm.Opcode{
	OP_INC: OP_DEC,
	OP_DEC: OP_INC,
	OP_TGL: OP_INC,
	OP_OUT: OP_INC,
	OP_JNZ: OP_CPY,
	OP_CPY: OP_JNZ,
}

// Set is the Assembunny instruction set.
type Set struct {
	// SkipInvalid skips instructions that would write through a literal,
	// as can happen after a toggle, instead of faulting the machine.
	SkipInvalid bool

	forms vm.Forms
}

var _ vm.InstructionSet = (*Set)(nil)

// NewSet creates the Assembunny instruction set.
func NewSet() (set *Set) {
	set = &Set{}
	set.forms = vm.Forms{
		OP_CPY: {Mnemonic: "cpy", Operands: 2, Exec: set.execCpy},
		OP_INC: {Mnemonic: "inc", Operands: 1, Exec: set.step(1)},
		OP_DEC: {Mnemonic: "dec", Operands: 1, Exec: set.step(-1)},
		OP_JNZ: {Mnemonic: "jnz", Operands: 2, Exec: execJnz},
		OP_TGL: {Mnemonic: "tgl", Operands: 1, Exec: execTgl},
		OP_OUT: {Mnemonic: "out", Operands: 1, Exec: execOut},
	}
	return
}

// New creates an Assembunny machine.
func New(prog *vm.Program) *vm.Machine {
	return vm.New(NewSet(), prog)
}

func (set *Set) Name() string {
	return "assembunny"
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
	for _, arg := range args {
		var operand vm.Operand
		operand, err = vm.ParseOperand(arg, REGISTERS)
		if err != nil {
			return
		}
		in.Operands = append(in.Operands, operand)
	}

	return
}

// Parse assembles an Assembunny program.
func Parse(input io.Reader) (prog *vm.Program, err error) {
	prog, err = vm.Assemble(input, NewSet().Decode)
	if err == nil && len(prog.Code) == 0 {
		err = vm.ErrEmptyProgram
	}
	return
}

// ParseString assembles an Assembunny program from a string.
func ParseString(text string) (*vm.Program, error) {
	return Parse(strings.NewReader(text))
}

// write stores through an operand, skipping literal destinations if allowed.
func (set *Set) write(m *vm.Machine, op vm.Operand, value int) (err error) {
	err = m.Write(op, value)
	if set.SkipInvalid && errors.Is(err, vm.ErrInvalidWriteMode) {
		err = nil
	}
	return
}

func (set *Set) execCpy(m *vm.Machine, in vm.Instruction) (err error) {
	value, err := m.Read(in.Operands[0])
	if err != nil {
		return
	}
	return set.write(m, in.Operands[1], value)
}

func (set *Set) step(delta int) func(m *vm.Machine, in vm.Instruction) error {
	return func(m *vm.Machine, in vm.Instruction) (err error) {
		value, err := m.Read(in.Operands[0])
		if err != nil {
			return
		}
		return set.write(m, in.Operands[0], value+delta)
	}
}

func execJnz(m *vm.Machine, in vm.Instruction) (err error) {
	args, err := m.Args(in)
	if err != nil {
		return
	}
	if args[0] != 0 {
		m.Offset(args[1])
	}
	return
}

// execTgl toggles the opcode at pc+x through the program location.
// Targets outside the program are left alone.
func execTgl(m *vm.Machine, in vm.Instruction) (err error) {
	offset, err := m.Read(in.Operands[0])
	if err != nil {
		return
	}

	loc := vm.Location{Kind: vm.LOC_PROGRAM, Address: m.Pc + offset}
	if !m.Program.Contains(loc.Address) {
		return
	}

	op, err := m.Load(loc)
	if err != nil {
		return
	}

	toggled, ok := Toggle[vm.Opcode(op)]
	if !ok {
		return
	}

	return m.Store(loc, int(toggled))
}

func execOut(m *vm.Machine, in vm.Instruction) (err error) {
	value, err := m.Read(in.Operands[0])
	if err != nil {
		return
	}
	return m.Emit(value)
}
