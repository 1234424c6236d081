package vm

import (
	"math/bits"
)

// LocationKind is the kind of storage a Location refers to.
type LocationKind int

const (
	LOC_REGISTER = LocationKind(0) // Named register.
	LOC_MEMORY   = LocationKind(1) // Memory word.
	LOC_PROGRAM  = LocationKind(2) // Opcode of a program instruction.
)

// Location is a resolved, writable storage location.
type Location struct {
	Kind     LocationKind
	Register string
	Address  int
}

// Read resolves an operand to its value.
func (m *Machine) Read(op Operand) (value int, err error) {
	if op.Mode == MODE_IMMEDIATE {
		value = op.Value
		return
	}

	loc, err := m.locate(op)
	if err != nil {
		return
	}

	value, err = m.Load(loc)
	return
}

// Locate resolves an operand to a writable location.
func (m *Machine) Locate(op Operand) (loc Location, err error) {
	if op.Mode == MODE_IMMEDIATE {
		err = ErrInvalidWriteMode
		return
	}

	return m.locate(op)
}

func (m *Machine) locate(op Operand) (loc Location, err error) {
	switch op.Mode {
	case MODE_DIRECT:
		if op.Register != "" {
			loc = Location{Kind: LOC_REGISTER, Register: op.Register}
			return
		}
		loc = Location{Kind: LOC_MEMORY, Address: op.Value}
	case MODE_RELATIVE:
		loc = Location{Kind: LOC_MEMORY, Address: op.Value + m.Base}
	default:
		err = ErrOperandMode
		return
	}

	if loc.Address < 0 {
		err = ErrNegativeAddress
	}

	return
}

// Load reads a location. Memory beyond the end reads as 0, as does an
// address outside the program.
func (m *Machine) Load(loc Location) (value int, err error) {
	switch loc.Kind {
	case LOC_REGISTER:
		value = m.reg[loc.Register]
	case LOC_MEMORY:
		value, err = m.Memory.Get(loc.Address)
	case LOC_PROGRAM:
		if m.Program.Contains(loc.Address) {
			value = int(m.Program.Code[loc.Address].Op)
		}
	default:
		err = ErrOperandMode
	}
	return
}

// Store writes a location.
//
// Memory grows to hold the address. A program location outside the
// program is silently ignored.
func (m *Machine) Store(loc Location, value int) (err error) {
	switch loc.Kind {
	case LOC_REGISTER:
		m.reg[loc.Register] = m.wrap(value)
	case LOC_MEMORY:
		err = m.Memory.Set(loc.Address, m.wrap(value))
	case LOC_PROGRAM:
		if m.Program.Contains(loc.Address) {
			m.Program.Code[loc.Address].Op = Opcode(value)
		}
	default:
		err = ErrOperandMode
	}
	return
}

// Write stores a value through an operand.
func (m *Machine) Write(op Operand, value int) (err error) {
	loc, err := m.Locate(op)
	if err != nil {
		return
	}

	return m.Store(loc, value)
}

// Args reads every operand of an instruction.
func (m *Machine) Args(in Instruction) (values []int, err error) {
	values = make([]int, len(in.Operands))
	for n, op := range in.Operands {
		values[n], err = m.Read(op)
		if err != nil {
			return
		}
	}
	return
}

// wrap truncates a value to the machine width.
func (m *Machine) wrap(value int) int {
	if m.Width == 0 || m.Width >= bits.UintSize {
		return value
	}
	return value & ((1 << m.Width) - 1)
}
