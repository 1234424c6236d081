package vm

import (
	"fmt"
	"strconv"
	"strings"
)

// Mode is an operand addressing mode.
type Mode int

//go:generate go tool stringer -linecomment -type=Mode,State,Action,TraceKind
const (
	MODE_DIRECT    = Mode(0) // direct
	MODE_IMMEDIATE = Mode(1) // immediate
	MODE_RELATIVE  = Mode(2) // relative
)

// Opcode identifies an instruction within its family.
type Opcode int

// Operand is a single instruction argument.
type Operand struct {
	Mode     Mode   // Addressing mode.
	Value    int    // Literal value, memory address, or relative offset.
	Register string // Register name, for direct register operands.
}

// Imm makes an immediate operand.
func Imm(value int) Operand {
	return Operand{Mode: MODE_IMMEDIATE, Value: value}
}

// Reg makes a direct register operand.
func Reg(name string) Operand {
	return Operand{Mode: MODE_DIRECT, Register: name}
}

// Addr makes a direct memory operand.
func Addr(address int) Operand {
	return Operand{Mode: MODE_DIRECT, Value: address}
}

// Rel makes a base-relative memory operand.
func Rel(offset int) Operand {
	return Operand{Mode: MODE_RELATIVE, Value: offset}
}

// String returns the assembly representation of the operand.
func (op Operand) String() string {
	switch {
	case op.Mode == MODE_IMMEDIATE && op.Register == "":
		return strconv.Itoa(op.Value)
	case op.Mode == MODE_RELATIVE:
		return fmt.Sprintf("@%d", op.Value)
	case op.Register != "":
		return op.Register
	default:
		return fmt.Sprintf("[%d]", op.Value)
	}
}

// Instruction is a decoded instruction.
type Instruction struct {
	Op       Opcode
	Operands []Operand
	Width    int // Program counter advance when the instruction does not jump.
}

// Clone returns a deep copy of the instruction.
func (in Instruction) Clone() Instruction {
	in.Operands = append([]Operand(nil), in.Operands...)
	return in
}

// Form describes one opcode of an instruction set.
type Form struct {
	Mnemonic string
	Operands int
	Exec     func(m *Machine, in Instruction) error
}

// Forms maps an opcode to its form.
type Forms map[Opcode]Form

// Lookup finds the opcode for a mnemonic.
func (forms Forms) Lookup(mnemonic string) (op Opcode, form Form, ok bool) {
	for op, form = range forms {
		if form.Mnemonic == mnemonic {
			ok = true
			return
		}
	}
	return
}

// Format returns the assembly text of an instruction.
func (forms Forms) Format(in Instruction) string {
	form, ok := forms[in.Op]
	mnemonic := form.Mnemonic
	if !ok {
		mnemonic = fmt.Sprintf("op%d", int(in.Op))
	}
	words := []string{mnemonic}
	for _, op := range in.Operands {
		words = append(words, op.String())
	}
	return strings.Join(words, " ")
}

// InstructionSet supplies the decoding and behavior of a machine family.
type InstructionSet interface {
	// Name of the machine family.
	Name() string
	// Forms is the opcode table.
	Forms() Forms
	// Fetch decodes the instruction at the program counter.
	// ok is false when the program counter is outside the program.
	Fetch(m *Machine) (in Instruction, ok bool, err error)
}
