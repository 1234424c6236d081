package vm

import (
	"slices"
)

// MaxAddress is the largest address memory grows to.
var MaxAddress = 1<<24 - 1

// Memory is sparse-by-default word memory.
//
// Reads beyond the end return 0; writes beyond the end grow the memory
// with zero fill up to and including the written address.
type Memory []int

// Get reads a word.
func (mem Memory) Get(address int) (value int, err error) {
	if address < 0 {
		err = ErrNegativeAddress
		return
	}
	if address < len(mem) {
		value = mem[address]
	}
	return
}

// Set writes a word, growing the memory as needed.
func (mem *Memory) Set(address int, value int) (err error) {
	if address < 0 {
		err = ErrNegativeAddress
		return
	}
	if address > MaxAddress {
		err = ErrAddressRange
		return
	}
	if address >= len(*mem) {
		*mem = append(*mem, make([]int, address+1-len(*mem))...)
	}
	(*mem)[address] = value
	return
}

// Clone returns a deep copy of the memory.
func (mem Memory) Clone() Memory {
	return slices.Clone(mem)
}
