// Package debugger builds breakpoint guards and trace windows from text,
// for use on the command line.
//
// Guards are Starlark expressions over the machine state. Every register
// is a variable; registers whose names start with a digit are prefixed
// with 'r' (register 0 is r0). The variables pc, cycle, base and emitted
// hold the program counter, cycle count, relative base and emitted count.
package debugger

import (
	"iter"
	"maps"
	"strings"
	"unicode"

	"github.com/sirupsen/logrus"
	"go.starlark.net/starlark"
	"go.starlark.net/syntax"

	"github.com/matzsoft/adventofcode-sub002/internal"
	"github.com/matzsoft/adventofcode-sub002/vm"
)

// Expr is a compiled guard expression.
type Expr struct {
	Source string

	opts syntax.FileOptions
}

// Compile checks the syntax of an expression.
func Compile(source string) (expr *Expr, err error) {
	source = strings.TrimSpace(source)
	expr = &Expr{Source: source}

	_, err = expr.opts.ParseExpr("expr", source, 0)
	if err != nil {
		expr = nil
		err = ErrParseExpression(source)
		return
	}

	return
}

// VariableName returns the expression variable of a register.
func VariableName(register string) string {
	if len(register) > 0 && unicode.IsDigit(rune(register[0])) {
		return "r" + register
	}
	return register
}

// Variables iterates the expression variables of a machine. Registers
// named by the program are present even before they are first written.
func Variables(m *vm.Machine) iter.Seq2[string, int] {
	reg := m.Registers()
	for _, in := range m.Program.Code {
		for _, op := range in.Operands {
			if op.Register != "" {
				reg[op.Register] = m.Register(op.Register)
			}
		}
	}

	special := map[string]int{
		"pc":      m.Pc,
		"cycle":   m.Cycles,
		"base":    m.Base,
		"emitted": m.Emitted,
	}

	registers := func(yield func(string, int) bool) {
		for name, value := range internal.SortedAll(reg) {
			if !yield(VariableName(name), value) {
				return
			}
		}
	}

	return internal.IterSeq2Concat(registers, maps.All(special))
}

// Eval evaluates the expression against a machine.
func (expr *Expr) Eval(m *vm.Machine) (value starlark.Value, err error) {
	thread := starlark.Thread{Name: m.Set.Name()}
	env := starlark.StringDict{}
	for name, value := range Variables(m) {
		env[name] = starlark.MakeInt(value)
	}

	dict, err := starlark.ExecFileOptions(&expr.opts, &thread, "expr", "rc=("+expr.Source+")\n", env)
	if err != nil {
		return
	}

	value, ok := dict["rc"]
	if !ok {
		err = ErrParseExpression(expr.Source)
		return
	}

	return
}

// Truth evaluates the expression as a condition.
func (expr *Expr) Truth(m *vm.Machine) (ok bool, err error) {
	value, err := expr.Eval(m)
	if err != nil {
		return
	}

	ok = bool(value.Truth())
	return
}

// Guard makes a breakpoint guard stopping when the expression is true.
// An expression that fails to evaluate stops the machine.
func (expr *Expr) Guard() vm.Guard {
	return func(m *vm.Machine) vm.Action {
		ok, err := expr.Truth(m)
		if err != nil {
			m.Log.WithFields(logrus.Fields{
				"pc":   m.Pc,
				"expr": expr.Source,
			}).Warn(err)
			return vm.STOP
		}
		if ok {
			return vm.STOP
		}
		return vm.CONTINUE
	}
}
