// Package machine implements the SBF execution engine.
// It drives the fetch/decode/execute cycle over a loaded program and a
// lazily-growing bidirectional tape, with strict (non-wrapping) cell
// arithmetic: overflow and underflow halt the run, they are never masked.
package machine

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/sbfLang/sbf/pkg/tape"
	"github.com/sbfLang/sbf/pkg/types"
)

// Machine is the SBF execution engine.
type Machine struct {
	// Prog is the loaded program
	Prog *types.Program
	// IP is the instruction pointer
	IP int

	// Tape is the cell storage, Pointer the data pointer into it
	Tape    *tape.Tape
	Pointer int64

	// Steps counts executed instructions
	Steps int
	// MaxSteps is the host step budget (0 = unlimited)
	MaxSteps int

	// Halted is set once a terminal state is reached; Reason and Err
	// say why (Err is nil on a normal halt)
	Halted bool
	Reason types.HaltReason
	Err    error

	// Width is the cell width, EOF the end-of-input policy
	Width types.Width
	EOF   types.EOFPolicy

	// Input source and output sink (default: os.Stdin / os.Stdout)
	Input  io.Reader
	Output io.Writer

	// Debug writes a per-instruction trace line to Trace
	Debug bool
	Trace io.Writer

	inbuf [1]byte
}

// New creates a machine for prog with a fresh tape and default
// configuration: 8-bit cells, EOF sets the cell to zero, stdio.
func New(prog *types.Program) *Machine {
	return &Machine{
		Prog:   prog,
		Tape:   tape.New(),
		Width:  types.Width8,
		EOF:    types.EOFZero,
		Input:  os.Stdin,
		Output: os.Stdout,
		Trace:  os.Stderr,
	}
}

// Reset returns the machine to its initial state with a fresh tape.
// Configuration and collaborators are kept.
func (m *Machine) Reset() {
	m.IP = 0
	m.Pointer = 0
	m.Tape = tape.New()
	m.Steps = 0
	m.Halted = false
	m.Reason = types.HaltNone
	m.Err = nil
}

// Load swaps in a new program and rewinds the instruction pointer while
// keeping the tape, data pointer and step count. Used by the REPL to run
// successive chunks against one persistent tape.
func (m *Machine) Load(prog *types.Program) {
	m.Prog = prog
	m.IP = 0
	m.Halted = false
	m.Reason = types.HaltNone
	m.Err = nil
}

// fail puts the machine into an error halt.
func (m *Machine) fail(reason types.HaltReason, err error) error {
	m.Halted = true
	m.Reason = reason
	m.Err = err
	return err
}

// Step executes one instruction. It is a no-op once the machine is halted.
func (m *Machine) Step() error {
	if m.Halted {
		return m.Err
	}
	if m.IP >= len(m.Prog.Ops) {
		m.Halted = true
		m.Reason = types.HaltNormal
		return nil
	}
	if m.MaxSteps > 0 && m.Steps >= m.MaxSteps {
		return m.fail(types.HaltStepLimit, &types.StepLimitError{Limit: m.MaxSteps, IP: m.IP})
	}

	in := m.Prog.Ops[m.IP]
	m.Steps++

	if m.Debug {
		fmt.Fprintf(m.Trace, "  [%04d] %-14s ptr=%d cell=%d\n",
			m.IP, in, m.Pointer, m.Tape.Read(m.Pointer))
	}

	switch in.Op {
	case types.OpLeft:
		m.Pointer -= int64(in.Arg)
		m.IP++

	case types.OpRight:
		m.Pointer += int64(in.Arg)
		m.IP++

	case types.OpInc:
		v := m.Tape.Read(m.Pointer)
		if uint64(v)+uint64(in.Arg) > uint64(m.Width.Max()) {
			return m.fail(types.HaltCellFault, &types.CellFaultError{
				Dir: types.Overflow, IP: m.IP, Pos: in.Pos, Offset: m.Pointer,
			})
		}
		m.Tape.Write(m.Pointer, v+uint32(in.Arg))
		m.IP++

	case types.OpDec:
		v := m.Tape.Read(m.Pointer)
		if uint64(in.Arg) > uint64(v) {
			return m.fail(types.HaltCellFault, &types.CellFaultError{
				Dir: types.Underflow, IP: m.IP, Pos: in.Pos, Offset: m.Pointer,
			})
		}
		m.Tape.Write(m.Pointer, v-uint32(in.Arg))
		m.IP++

	case types.OpOutput:
		v := m.Tape.Read(m.Pointer)
		if _, err := fmt.Fprintf(m.Output, "%c", rune(v)); err != nil {
			return m.fail(types.HaltIOFailure, &types.IOError{
				Op: in.Op, IP: m.IP, Pos: in.Pos, Err: err,
			})
		}
		m.IP++

	case types.OpInput:
		if err := m.readCell(in); err != nil {
			return err
		}
		m.IP++

	case types.OpLoopStart:
		if m.Tape.Read(m.Pointer) == 0 {
			m.IP = in.Match + 1
		} else {
			m.IP++
		}

	case types.OpLoopEnd:
		if m.Tape.Read(m.Pointer) != 0 {
			m.IP = in.Match + 1
		} else {
			m.IP++
		}
	}

	return nil
}

// readCell reads one byte from the input source into the current cell,
// applying the configured end-of-input policy.
func (m *Machine) readCell(in types.Instruction) error {
	_, err := io.ReadFull(m.Input, m.inbuf[:])
	if err == nil {
		m.Tape.Write(m.Pointer, uint32(m.inbuf[0]))
		return nil
	}
	if errors.Is(err, io.EOF) {
		switch m.EOF {
		case types.EOFZero:
			m.Tape.Write(m.Pointer, 0)
			return nil
		case types.EOFKeep:
			return nil
		}
		// EOFFail falls through to the error halt
	}
	return m.fail(types.HaltIOFailure, &types.IOError{
		Op: in.Op, IP: m.IP, Pos: in.Pos, Err: err,
	})
}

// Run executes until the machine halts, normally or with an error.
func (m *Machine) Run() error {
	for !m.Halted {
		if err := m.Step(); err != nil {
			return err
		}
	}
	return m.Err
}
