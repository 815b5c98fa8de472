// Package types defines the SBF instruction set, machine configuration
// and error taxonomy shared by the parser and the machine.
package types

import "fmt"

// Opcode identifies one SBF instruction.
type Opcode byte

const (
	OpLeft      Opcode = iota // < move data pointer left
	OpRight                   // > move data pointer right
	OpInc                     // + increment current cell, checked
	OpDec                     // - decrement current cell, checked
	OpOutput                  // . emit current cell
	OpInput                   // , read one byte into current cell
	OpLoopStart               // [ jump past match when cell is zero
	OpLoopEnd                 // ] jump after match when cell is nonzero
)

var opNames = [...]string{
	OpLeft:      "left",
	OpRight:     "right",
	OpInc:       "inc",
	OpDec:       "dec",
	OpOutput:    "output",
	OpInput:     "input",
	OpLoopStart: "loop-start",
	OpLoopEnd:   "loop-end",
}

func (op Opcode) String() string {
	if int(op) < len(opNames) {
		return opNames[op]
	}
	return fmt.Sprintf("op(%d)", byte(op))
}

// Position is a location in the source text.
type Position struct {
	Offset int // byte offset, 0-based
	Line   int // 1-based
	Column int // 1-based
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// Instruction is one executable unit of a loaded program.
//
// Arg is the run length for left/right/inc/dec: the loader coalesces runs of
// the same character into a single instruction (Arg >= 1). Opposite
// directions are never merged, so a checked fault fires on exactly the same
// cell state as one-at-a-time execution would.
//
// Match is the index of the partner instruction for loop-start/loop-end,
// linked once at load time so jumps are O(1) during execution.
type Instruction struct {
	Op    Opcode
	Arg   int
	Match int
	Pos   Position
}

func (in Instruction) String() string {
	switch in.Op {
	case OpLeft, OpRight, OpInc, OpDec:
		return fmt.Sprintf("%s(%d)", in.Op, in.Arg)
	case OpLoopStart, OpLoopEnd:
		return fmt.Sprintf("%s->%d", in.Op, in.Match)
	}
	return in.Op.String()
}

// Program is a validated, immutable instruction sequence.
type Program struct {
	Ops []Instruction
}

// Width is the cell width in bits. Cells are unsigned; arithmetic outside
// [0, Max()] is a fault, never a wrap.
type Width int

const (
	Width8  Width = 8
	Width16 Width = 16
	Width32 Width = 32
)

// Max returns the largest representable cell value for the width.
func (w Width) Max() uint32 {
	switch w {
	case Width8:
		return 0xFF
	case Width16:
		return 0xFFFF
	case Width32:
		return 0xFFFFFFFF
	}
	return 0xFF
}

// Valid reports whether w is one of the supported widths.
func (w Width) Valid() bool {
	return w == Width8 || w == Width16 || w == Width32
}

// EOFPolicy selects what an input instruction does at end of input.
type EOFPolicy int

const (
	EOFZero EOFPolicy = iota // set the cell to zero
	EOFKeep                  // leave the cell unchanged
	EOFFail                  // halt with an I/O error
)

func (p EOFPolicy) String() string {
	switch p {
	case EOFZero:
		return "zero"
	case EOFKeep:
		return "keep"
	case EOFFail:
		return "fail"
	}
	return fmt.Sprintf("eof(%d)", int(p))
}

// ParseEOFPolicy parses the flag spelling of an EOF policy.
func ParseEOFPolicy(s string) (EOFPolicy, error) {
	switch s {
	case "zero":
		return EOFZero, nil
	case "keep":
		return EOFKeep, nil
	case "fail":
		return EOFFail, nil
	}
	return EOFZero, fmt.Errorf("unknown eof policy %q (want zero, keep or fail)", s)
}

// HaltReason describes how a run ended.
type HaltReason int

const (
	HaltNone      HaltReason = iota // still running
	HaltNormal                      // instruction pointer ran past the program
	HaltCellFault                   // checked arithmetic violation
	HaltIOFailure                   // input/output collaborator failed
	HaltStepLimit                   // host step budget exhausted
)

func (r HaltReason) String() string {
	switch r {
	case HaltNone:
		return "running"
	case HaltNormal:
		return "normal"
	case HaltCellFault:
		return "cell-fault"
	case HaltIOFailure:
		return "io-failure"
	case HaltStepLimit:
		return "step-limit"
	}
	return fmt.Sprintf("halt(%d)", int(r))
}
