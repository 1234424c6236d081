package assembunny

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/matzsoft/adventofcode-sub002/vm"
)

func mustParse(t *testing.T, source string) *vm.Program {
	prog, err := ParseString(source)
	assert.NoError(t, err)
	return prog
}

func TestRun(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		name     string
		source   string
		seed     map[string]int
		register string
		value    int
	}){
		{"copy", "cpy 41 a\ninc a\ninc a\ndec a\njnz a 2\ndec a\n", nil, "a", 42},
		{"loop", "cpy 5 b\ninc a\ndec b\njnz b -2\n", nil, "a", 5},
		{"seeded", "cpy c a\ninc a\n", map[string]int{"c": 7}, "a", 8},
		{"jnz_register", "cpy 2 b\njnz 1 b\ninc a\ninc a\n", nil, "a", 1},
	}

	for _, entry := range table {
		m := New(mustParse(t, entry.source))
		for name, value := range entry.seed {
			m.SetRegister(name, value)
		}
		state, err := m.Run()
		assert.NoError(err, entry.name)
		assert.Equal(vm.HALTED, state, entry.name)
		assert.Equal(entry.value, m.Register(entry.register), entry.name)
	}
}

func TestParseErrors(t *testing.T) {
	assert := assert.New(t)

	_, err := ParseString("cpy 1 e\n")
	assert.ErrorIs(err, vm.ErrParseValue("e"))

	_, err = ParseString("inc a\nmul a b\n")
	assert.ErrorIs(err, vm.ErrMnemonic)

	_, err = ParseString("jnz a\n")
	assert.ErrorIs(err, vm.ErrOperandCount)

	_, err = ParseString("\n\n")
	assert.ErrorIs(err, vm.ErrEmptyProgram)
}

func TestToggleTable(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		source  string
		toggled vm.Opcode
		twice   vm.Opcode
	}){
		{"inc a", OP_DEC, OP_INC},
		{"dec a", OP_INC, OP_DEC},
		{"tgl a", OP_INC, OP_DEC},
		{"out a", OP_INC, OP_DEC},
		{"cpy 1 a", OP_JNZ, OP_CPY},
		{"jnz 1 a", OP_CPY, OP_JNZ},
	}

	for _, entry := range table {
		m := New(mustParse(t, "tgl 1\n"+entry.source+"\ntgl -1\n"))

		_, _, err := m.Step()
		assert.NoError(err, entry.source)
		assert.Equal(entry.toggled, m.Program.Code[1].Op, entry.source)

		m.Pc = 2
		_, _, err = m.Step()
		assert.NoError(err, entry.source)
		assert.Equal(entry.twice, m.Program.Code[1].Op, entry.source)
	}
}

func TestToggleOutOfRange(t *testing.T) {
	assert := assert.New(t)

	source := "cpy 2 a\ntgl a\ntgl a\ntgl a\ntgl a\ntgl a\ntgl a\nout 1\nout 2\n"
	m := New(mustParse(t, source))
	before := m.Program.Clone()

	state, err := m.Run()
	assert.NoError(err)
	assert.Equal(vm.HALTED, state)

	// The first two toggles turn pc 3 and 4 into inc; the rest land past
	// the end of the program and change nothing.
	assert.Equal(4, m.Register("a"))
	assert.Equal([]int{1, 2}, m.Drain())
	for address, in := range m.Program.Code {
		switch address {
		case 3, 4:
			assert.Equal(OP_INC, in.Op, address)
		default:
			assert.Equal(before.Code[address], in, address)
		}
	}

	m = New(mustParse(t, "tgl -1\ntgl 5\n"))
	state, err = m.Run()
	assert.NoError(err)
	assert.Equal(vm.HALTED, state)
	assert.Equal(OP_TGL, m.Program.Code[0].Op)
	assert.Equal(OP_TGL, m.Program.Code[1].Op)
}

func TestToggleExample(t *testing.T) {
	assert := assert.New(t)

	m := New(mustParse(t, "cpy 2 a\ntgl a\ntgl a\ntgl a\ncpy 1 a\ndec a\ndec a\n"))
	state, err := m.Run()
	assert.NoError(err)
	assert.Equal(vm.HALTED, state)
	assert.Equal(3, m.Register("a"))
	assert.Contains(m.Dump(), "4: jnz 1 a")
}

func TestInvalidToggled(t *testing.T) {
	assert := assert.New(t)

	source := "tgl 1\njnz 1 2\ninc a\n"

	m := New(mustParse(t, source))
	state, err := m.Run()
	assert.Equal(vm.FAULTED, state)
	assert.ErrorIs(err, vm.ErrInvalidWriteMode)
	assert.Equal(1, m.Pc)

	set := NewSet()
	set.SkipInvalid = true
	m = vm.New(set, mustParse(t, source))
	state, err = m.Run()
	assert.NoError(err)
	assert.Equal(vm.HALTED, state)
	assert.Equal(1, m.Register("a"))
}

func TestOutput(t *testing.T) {
	assert := assert.New(t)

	m := New(mustParse(t, "cpy a d\nout d\ninc d\njnz 1 -2\n"))
	m.SetRegister("a", 10)

	var outputs []int
	for range 3 {
		value, ok, err := m.Next()
		assert.NoError(err)
		assert.True(ok)
		outputs = append(outputs, value)
	}
	assert.Equal([]int{10, 11, 12}, outputs)
	assert.Equal(vm.RUNNING, m.State)
}
