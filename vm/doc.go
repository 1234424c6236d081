// Package vm implements the fetch-decode-execute engine shared by the
// Advent of Code virtual machines.
//
// A Machine owns a Program, a register file, a growable Memory and an input
// queue. The behavior of each machine family (Intcode, Assembunny,
// Coprocessor, WristDevice, ...) is supplied by an InstructionSet: a fetch
// function that decodes the instruction at the program counter, and a table
// of Forms mapping each Opcode to its mnemonic, operand count and handler.
//
// Handlers resolve operands through Read, Locate and Store, and steer
// control flow through Jump, Offset, Emit, Receive and Halt. Immediate
// operands are never writable, relative operands are offset by the machine
// base, and program text is mutable through the
// same Store path as registers and memory.
//
// Machines are driven synchronously by the caller. A Receive on an empty
// input queue leaves the machine WAITING without advancing; a Send from
// another machine (or the caller) makes it runnable again.
package vm
