// Copyright 2024, Jason S. McMullan <jason.mcmullan@gmail.com>

// Package emulator drives networks of machines connected through their
// I/O channels.
package emulator

import (
	"slices"

	"github.com/sirupsen/logrus"

	"github.com/matzsoft/adventofcode-sub002/io"
	"github.com/matzsoft/adventofcode-sub002/vm"
)

// Network of machines, run round-robin on the calling goroutine.
type Network struct {
	Verbose  bool               // If set, enables verbose logging.
	Log      logrus.FieldLogger // Destination of verbose logging.
	Machines []*vm.Machine      // Machines in scheduling order.

	Rounds int // Scheduling rounds since a reset.
}

// NewNetwork creates a network of machines. Connections are left as they are.
func NewNetwork(machines ...*vm.Machine) (net *Network) {
	net = &Network{
		Log:      logrus.StandardLogger(),
		Machines: machines,
	}
	return
}

// Chain creates a network where every machine sends to the next.
// The last machine emits to its own output.
func Chain(machines ...*vm.Machine) (net *Network) {
	for n := 1; n < len(machines); n++ {
		machines[n-1].ConnectOutputTo(machines[n])
	}
	return NewNetwork(machines...)
}

// Ring creates a network where every machine sends to the next, and the
// last sends to the first.
func Ring(machines ...*vm.Machine) (net *Network) {
	net = Chain(machines...)
	if len(machines) > 1 {
		machines[len(machines)-1].ConnectOutputTo(machines[0])
	}
	return
}

// Reset every machine in the network.
func (net *Network) Reset() {
	for _, m := range net.Machines {
		m.Reset()
	}
	net.Rounds = 0
}

// Feed sends values to the input of a machine.
func (net *Network) Feed(index int, values ...int) (err error) {
	m := net.Machines[index]
	for _, value := range values {
		err = m.Send(value)
		if err != nil {
			return
		}
	}
	return
}

// Halted returns true if every machine has halted.
func (net *Network) Halted() bool {
	return !slices.ContainsFunc(net.Machines, func(m *vm.Machine) bool {
		return m.State != vm.HALTED
	})
}

// Round runs every machine that is not halted once, in order.
//
// progress is set if any machine executed an instruction. A machine
// pausing at a breakpoint ends the round with paused set.
func (net *Network) Round() (progress bool, paused bool, err error) {
	net.Rounds++

	for index, m := range net.Machines {
		if m.State == vm.HALTED {
			continue
		}

		cycles := m.Cycles
		pc := m.Pc

		var state vm.State
		state, err = m.Run()
		if err != nil {
			err = &ErrRuntime{
				Machine: index,
				Pc:      m.Pc,
				LineNo:  m.Program.LineNo(m.Pc),
				Err:     err,
			}
			return
		}

		if net.Verbose {
			net.Log.WithFields(logrus.Fields{
				"round":   net.Rounds,
				"machine": index,
				"pc":      pc,
				"cycles":  m.Cycles - cycles,
			}).Debug(state.String())
		}

		if m.Cycles != cycles {
			progress = true
		}

		if state == vm.PAUSED {
			paused = true
			return
		}
	}

	return
}

// Run the network until every machine has halted, a machine pauses at a
// breakpoint, or no machine can make progress.
//
// The returned state is HALTED, PAUSED, or WAITING with ErrDeadlock.
func (net *Network) Run() (state vm.State, err error) {
	for !net.Halted() {
		var progress, paused bool
		progress, paused, err = net.Round()
		if err != nil {
			state = vm.FAULTED
			return
		}
		if paused {
			state = vm.PAUSED
			return
		}
		if !progress {
			state = vm.WAITING
			err = ErrDeadlock
			return
		}
	}

	state = vm.HALTED
	return
}

// Attach connects a tape to the network: its input feeds the first
// machine and the last machine emits to it.
func (net *Network) Attach(tape *io.Tape) (count int, err error) {
	if len(net.Machines) == 0 {
		err = ErrNoTape
		return
	}

	first := net.Machines[0]
	count, err = tape.Load(first.Input)
	if err != nil {
		return
	}
	if count > 0 && first.State == vm.WAITING {
		first.State = vm.RUNNING
	}

	net.Machines[len(net.Machines)-1].Output = tape
	return
}
