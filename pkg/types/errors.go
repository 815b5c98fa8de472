package types

import (
	"errors"
	"fmt"
)

// UnbalancedLoopError is a malformed program: a loop bracket with no
// partner. Detected at load time; nothing executes.
type UnbalancedLoopError struct {
	Pos  Position
	Open bool // true: '[' never closed; false: ']' with no opener
}

func (e *UnbalancedLoopError) Error() string {
	if e.Open {
		return fmt.Sprintf("%s: unbalanced loop: '[' is never closed", e.Pos)
	}
	return fmt.Sprintf("%s: unbalanced loop: ']' has no matching '['", e.Pos)
}

// FaultDir is the direction of a checked arithmetic violation.
type FaultDir int

const (
	Overflow  FaultDir = iota // increment past the maximum cell value
	Underflow                 // decrement below zero
)

func (d FaultDir) String() string {
	if d == Overflow {
		return "overflow"
	}
	return "underflow"
}

// CellFaultError is a checked arithmetic violation. The run halts at the
// violating instruction; the machine state at the fault is preserved for
// diagnostics.
type CellFaultError struct {
	Dir    FaultDir
	IP     int      // index of the violating instruction
	Pos    Position // its source position
	Offset int64    // tape offset of the affected cell
}

func (e *CellFaultError) Error() string {
	return fmt.Sprintf("%s: cell %s at offset %d (instruction %d)",
		e.Pos, e.Dir, e.Offset, e.IP)
}

// IOError is a failure propagated from the input source or output sink.
type IOError struct {
	Op  Opcode
	IP  int
	Pos Position
	Err error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("%s: %s failed: %v", e.Pos, e.Op, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }

// StepLimitError reports an exhausted host step budget.
type StepLimitError struct {
	Limit int
	IP    int
}

func (e *StepLimitError) Error() string {
	return fmt.Sprintf("step budget of %d exhausted at instruction %d", e.Limit, e.IP)
}

// IsUnbalancedLoop reports whether err is an UnbalancedLoopError.
func IsUnbalancedLoop(err error) bool {
	var ul *UnbalancedLoopError
	return errors.As(err, &ul)
}
