// Package circuit evaluates bitwise logic gate boards.
//
// A board is a set of gates, each driving one named wire:
//
//	123 -> x
//	x AND y -> d
//	x OR y -> e
//	x LSHIFT 2 -> f
//	y RSHIFT 2 -> g
//	NOT x -> h
//	d -> z
//
// Signals are unsigned words of the board width, so every operation wraps.
package circuit

import (
	"bufio"
	"fmt"
	"io"
	"math/bits"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
	"golang.org/x/exp/constraints"

	"github.com/matzsoft/adventofcode-sub002/internal"
	"github.com/matzsoft/adventofcode-sub002/vm"
)

// GateOp is a gate operation.
type GateOp int

const (
	GATE_WIRE   = GateOp(iota) // wire
	GATE_AND                   // AND
	GATE_OR                    // OR
	GATE_LSHIFT                // LSHIFT
	GATE_RSHIFT                // RSHIFT
	GATE_NOT                   // NOT
)

var binaryOps = map[string]GateOp{
	"AND":    GATE_AND,
	"OR":     GATE_OR,
	"LSHIFT": GATE_LSHIFT,
	"RSHIFT": GATE_RSHIFT,
}

// Gate drives Output from its Inputs. An input is a wire name or a
// decimal signal.
type Gate struct {
	Op     GateOp
	Inputs []string
	Output string
}

// String returns the gate in board syntax.
func (g Gate) String() string {
	switch g.Op {
	case GATE_WIRE:
		return fmt.Sprintf("%s -> %s", g.Inputs[0], g.Output)
	case GATE_NOT:
		return fmt.Sprintf("NOT %s -> %s", g.Inputs[0], g.Output)
	}

	for name, op := range binaryOps {
		if op == g.Op {
			return fmt.Sprintf("%s %s %s -> %s", g.Inputs[0], name, g.Inputs[1], g.Output)
		}
	}

	return "?"
}

// Board is a set of gates carrying W-bit signals.
type Board[W constraints.Unsigned] struct {
	Verbose bool
	Log     logrus.FieldLogger

	gates     map[string]Gate
	signals   map[string]W
	overrides map[string]W
}

// Board16 is the common 16-bit board.
type Board16 = Board[uint16]

// NewBoard creates an empty board.
func NewBoard[W constraints.Unsigned]() *Board[W] {
	return &Board[W]{
		Log:       logrus.StandardLogger(),
		gates:     make(map[string]Gate),
		signals:   make(map[string]W),
		overrides: make(map[string]W),
	}
}

// ParseGate parses a single line of board syntax.
func ParseGate(line string) (g Gate, err error) {
	words := vm.Tokenize(line)

	if len(words) < 3 || words[len(words)-2] != "->" {
		err = ErrGateSyntax
		return
	}

	g.Output = words[len(words)-1]
	lhs := words[:len(words)-2]

	switch len(lhs) {
	case 1:
		g.Op = GATE_WIRE
		g.Inputs = []string{lhs[0]}
	case 2:
		if lhs[0] != "NOT" {
			err = ErrGateSyntax
			return
		}
		g.Op = GATE_NOT
		g.Inputs = []string{lhs[1]}
	case 3:
		op, ok := binaryOps[lhs[1]]
		if !ok {
			err = ErrGateSyntax
			return
		}
		g.Op = op
		g.Inputs = []string{lhs[0], lhs[2]}
	default:
		err = ErrGateSyntax
	}

	return
}

// Parse reads a board, one gate per line.
func Parse[W constraints.Unsigned](input io.Reader) (board *Board[W], err error) {
	board = NewBoard[W]()

	scanner := bufio.NewScanner(input)
	lineno := 0
	for scanner.Scan() {
		lineno++
		line := strings.TrimSpace(scanner.Text())
		if len(line) == 0 {
			continue
		}

		var g Gate
		g, err = ParseGate(line)
		if err == nil {
			err = board.Add(g)
		}
		if err != nil {
			err = &vm.ErrSyntax{LineNo: lineno, Line: line, Err: err}
			return
		}
	}

	err = scanner.Err()
	return
}

// ParseString reads a 16-bit board from a string.
func ParseString(text string) (*Board16, error) {
	return Parse[uint16](strings.NewReader(text))
}

// Add a gate to the board.
func (b *Board[W]) Add(g Gate) (err error) {
	if _, ok := b.gates[g.Output]; ok {
		err = ErrWireDriven
		return
	}

	for _, input := range g.Inputs {
		if _, isSignal, perr := b.literal(input); isSignal && perr != nil {
			err = perr
			return
		}
	}

	b.gates[g.Output] = g
	b.Reset()
	return
}

// Gates returns the gates in output wire order.
func (b *Board[W]) Gates() (gates []Gate) {
	for _, g := range internal.SortedAll(b.gates) {
		gates = append(gates, g)
	}
	return
}

// Override forces a wire to a signal, ignoring its driver, and clears
// every evaluated signal.
func (b *Board[W]) Override(wire string, value W) {
	b.overrides[wire] = value
	b.Reset()
}

// ClearOverrides removes every override.
func (b *Board[W]) ClearOverrides() {
	clear(b.overrides)
	b.Reset()
}

// Reset clears every evaluated signal. Overrides are kept.
func (b *Board[W]) Reset() {
	clear(b.signals)
}

// Signal evaluates the signal on a wire.
func (b *Board[W]) Signal(wire string) (value W, err error) {
	return b.evaluate(wire, make(map[string]bool))
}

// Signals evaluates every driven wire.
func (b *Board[W]) Signals() (signals map[string]W, err error) {
	signals = make(map[string]W, len(b.gates))
	for wire := range internal.SortedAll(b.gates) {
		signals[wire], err = b.Signal(wire)
		if err != nil {
			return
		}
	}
	return
}

// Dump returns every gate with its evaluated signal.
func (b *Board[W]) Dump() string {
	var sb strings.Builder
	for wire, g := range internal.SortedAll(b.gates) {
		value, err := b.Signal(wire)
		if err != nil {
			fmt.Fprintf(&sb, "%-24s <%v>\n", g, err)
			continue
		}
		fmt.Fprintf(&sb, "%-24s %d\n", g, value)
	}
	return sb.String()
}

// literal parses a decimal signal. isSignal is false for wire names.
func (b *Board[W]) literal(word string) (value W, isSignal bool, err error) {
	if len(word) == 0 || word[0] < '0' || word[0] > '9' {
		return
	}

	isSignal = true
	width := bits.Len64(uint64(^W(0)))
	parsed, err := strconv.ParseUint(word, 10, width)
	if err != nil {
		err = ErrSignalFormat
		return
	}

	value = W(parsed)
	return
}

func (b *Board[W]) input(word string, visiting map[string]bool) (value W, err error) {
	value, isSignal, err := b.literal(word)
	if isSignal || err != nil {
		return
	}
	return b.evaluate(word, visiting)
}

func (b *Board[W]) evaluate(wire string, visiting map[string]bool) (value W, err error) {
	if value, ok := b.overrides[wire]; ok {
		return value, nil
	}
	if value, ok := b.signals[wire]; ok {
		return value, nil
	}

	g, ok := b.gates[wire]
	if !ok {
		err = ErrWireUnknown(wire)
		return
	}

	if visiting[wire] {
		err = ErrCycle
		return
	}
	visiting[wire] = true
	defer delete(visiting, wire)

	args := make([]W, len(g.Inputs))
	for n, input := range g.Inputs {
		args[n], err = b.input(input, visiting)
		if err != nil {
			return
		}
	}

	switch g.Op {
	case GATE_WIRE:
		value = args[0]
	case GATE_NOT:
		value = ^args[0]
	case GATE_AND:
		value = args[0] & args[1]
	case GATE_OR:
		value = args[0] | args[1]
	case GATE_LSHIFT:
		value = args[0] << args[1]
	case GATE_RSHIFT:
		value = args[0] >> args[1]
	}

	if b.Verbose {
		b.Log.WithField("wire", wire).Debug(fmt.Sprintf("%v = %d", g, value))
	}

	b.signals[wire] = value
	return
}
