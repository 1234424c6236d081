// Copyright 2024, Jason S. McMullan <jason.mcmullan@gmail.com>

package vm

import (
	"bufio"
	"errors"
	"io"
	"strconv"
	"strings"
	"unicode"
)

// Decoder decodes the words of a single source line into an instruction.
type Decoder func(words []string) (in Instruction, err error)

// Tokenize splits a source line into words on whitespace and commas.
func Tokenize(line string) []string {
	return strings.FieldsFunc(line, func(r rune) bool {
		return r == ',' || unicode.IsSpace(r)
	})
}

// ParseOperand parses a decimal literal as an immediate, or a
// one-character register name from registers as a direct operand.
func ParseOperand(word string, registers string) (op Operand, err error) {
	value, perr := strconv.Atoi(word)
	if perr == nil {
		op = Imm(value)
		return
	}

	if len(word) == 1 && strings.Contains(registers, word) {
		op = Reg(word)
		return
	}

	err = ErrParseValue(word)
	return
}

// ParseRegister parses a register name from registers.
func ParseRegister(word string, registers string) (op Operand, err error) {
	if len(word) != 1 || !strings.Contains(registers, word) {
		err = errors.Join(ErrRegisterInvalid, ErrParseValue(word))
		return
	}

	op = Reg(word)
	return
}

// Decode looks up the mnemonic in words[0] and checks the operand count.
func (forms Forms) Decode(words []string) (op Opcode, args []string, err error) {
	if len(words) == 0 {
		err = errors.Join(ErrDecode, ErrMnemonic)
		return
	}

	op, form, ok := forms.Lookup(words[0])
	if !ok {
		err = errors.Join(ErrDecode, ErrMnemonic)
		return
	}

	args = words[1:]
	if len(args) != form.Operands {
		err = errors.Join(ErrDecode, ErrOperandCount)
		return
	}

	return
}

// Assemble reads a program, one instruction per line.
//
// Text after a ';' is a comment. Lines starting with '#' are pragmas of the
// form "#name value", stored in Program.Pragma.
func Assemble(input io.Reader, decode Decoder) (prog *Program, err error) {
	scanner := bufio.NewScanner(input)

	var line string
	var lineno int

	defer func() {
		if err != nil {
			err = &ErrSyntax{LineNo: lineno, Line: line, Err: err}
		}
	}()

	prog = &Program{}

	for scanner.Scan() {
		lineno += 1

		text_comment := strings.Split(scanner.Text(), ";")
		line = strings.TrimSpace(text_comment[0])

		words := Tokenize(line)
		if len(words) == 0 {
			continue
		}

		if strings.HasPrefix(words[0], "#") {
			if len(words) != 2 || len(words[0]) < 2 {
				err = ErrDecode
				return
			}
			var value int
			value, err = strconv.Atoi(words[1])
			if err != nil {
				err = errors.Join(ErrDecode, ErrParseValue(words[1]))
				return
			}
			if prog.Pragma == nil {
				prog.Pragma = make(map[string]int)
			}
			prog.Pragma[words[0][1:]] = value
			continue
		}

		var in Instruction
		in, err = decode(words)
		if err != nil {
			return
		}
		if in.Width == 0 {
			in.Width = 1
		}

		prog.Code = append(prog.Code, in)
		prog.Lines = append(prog.Lines, lineno)
	}

	err = scanner.Err()

	return
}
