package vm

import (
	"maps"
	"slices"
)

// Program is a loaded machine image.
//
// Assembly families load Code, one instruction per source line. Packed
// families (Intcode) load Image, which becomes the initial Memory.
type Program struct {
	Code   []Instruction  // Decoded instructions.
	Lines  []int          // Source line number of each instruction.
	Image  []int          // Initial memory image.
	Pragma map[string]int // Directives such as "#ip 3".
}

// Clone returns a deep copy of the program.
func (prog *Program) Clone() (clone *Program) {
	if prog == nil {
		return nil
	}

	clone = &Program{
		Lines:  slices.Clone(prog.Lines),
		Image:  slices.Clone(prog.Image),
		Pragma: maps.Clone(prog.Pragma),
	}

	if prog.Code != nil {
		clone.Code = make([]Instruction, len(prog.Code))
		for n, in := range prog.Code {
			clone.Code[n] = in.Clone()
		}
	}

	return
}

// Contains returns true if the address holds an instruction.
func (prog *Program) Contains(address int) bool {
	return address >= 0 && address < len(prog.Code)
}

// LineNo returns the source line of the instruction at address, or 0.
func (prog *Program) LineNo(address int) int {
	if address >= 0 && address < len(prog.Lines) {
		return prog.Lines[address]
	}
	return 0
}

// FetchCode fetches from the decoded program text. It is the Fetch of every
// assembly-style instruction set.
func FetchCode(m *Machine) (in Instruction, ok bool, err error) {
	if !m.Program.Contains(m.Pc) {
		return
	}

	in = m.Program.Code[m.Pc]
	if in.Width == 0 {
		in.Width = 1
	}
	ok = true

	return
}
