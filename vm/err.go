package vm

import (
	"errors"

	"github.com/matzsoft/adventofcode-sub002/translate"
)

var f = translate.From

var (
	// Decode errors
	ErrDecode          = errors.New(f("decode"))
	ErrMnemonic        = errors.New(f("mnemonic unknown"))
	ErrOperandCount    = errors.New(f("operand count"))
	ErrOperandMode     = errors.New(f("operand mode invalid"))
	ErrRegisterInvalid = errors.New(f("register invalid"))
	ErrEmptyProgram    = errors.New(f("program empty"))

	// Execution errors
	ErrInvalidWriteMode = errors.New(f("write through immediate operand"))
	ErrNegativeAddress  = errors.New(f("negative address"))
	ErrAddressRange     = errors.New(f("address out of range"))
	ErrFaulted          = errors.New(f("machine faulted"))
)

// ErrUnknownOpcode is raised for an opcode with no Form in the instruction set.
type ErrUnknownOpcode Opcode

func (eo ErrUnknownOpcode) Error() string {
	return f("opcode %d unknown", int(eo))
}

func (eo ErrUnknownOpcode) Is(err error) (ok bool) {
	_, ok = err.(ErrUnknownOpcode)
	if !ok {
		ok = err == ErrDecode
	}
	return
}

// ErrParseValue is raised for an operand that is neither a number nor a register.
type ErrParseValue string

func (err ErrParseValue) Error() string {
	return f("'%v' is not a value or register", string(err))
}

// ErrSyntax locates a decode error in program source.
type ErrSyntax struct {
	LineNo int
	Line   string
	Err    error
}

func (err *ErrSyntax) Error() string {
	return f("line %d '%v' %v", err.LineNo, err.Line, err.Err)
}

func (err *ErrSyntax) Unwrap() error {
	return err.Err
}

// ErrInstruction locates an execution error at a program address.
type ErrInstruction struct {
	Pc   int
	Text string
	Err  error
}

func (err *ErrInstruction) Error() string {
	return f("pc %v '%v' %v", err.Pc, err.Text, err.Err)
}

func (err *ErrInstruction) Unwrap() error {
	return err.Err
}
