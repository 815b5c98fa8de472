package machine

import (
	"fmt"
	"strings"

	"github.com/sbfLang/sbf/pkg/types"
)

// dumpMax bounds each side of the tape dump in a report.
const dumpMax = 32

// Report is a read-only snapshot of a machine's terminal state.
type Report struct {
	Reason  types.HaltReason
	Err     error
	IP      int
	Pointer int64
	Steps   int

	// Materialized cell counts on each side of the origin
	LeftCells  int
	RightCells int

	// Dump holds the visited tape region, clamped to dumpMax cells per
	// side; DumpFrom is the offset of Dump[0]
	DumpFrom int64
	Dump     []uint32
}

// Report builds a snapshot of the machine's current state. It is meant to
// be called once, after Run returns.
func (m *Machine) Report() *Report {
	left, right := m.Tape.Extent()
	from := int64(-left)
	if from < -dumpMax {
		from = -dumpMax
	}
	to := int64(right) - 1
	if to > dumpMax {
		to = dumpMax
	}
	return &Report{
		Reason:     m.Reason,
		Err:        m.Err,
		IP:         m.IP,
		Pointer:    m.Pointer,
		Steps:      m.Steps,
		LeftCells:  left,
		RightCells: right,
		DumpFrom:   from,
		Dump:       m.Tape.Cells(from, to),
	}
}

func (r *Report) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "State:\n")
	fmt.Fprintf(&b, "  halt: %s", r.Reason)
	if r.Err != nil {
		fmt.Fprintf(&b, " (%v)", r.Err)
	}
	fmt.Fprintf(&b, "\n")
	fmt.Fprintf(&b, "  steps: %d\n", r.Steps)
	fmt.Fprintf(&b, "  ip: %d\n", r.IP)
	fmt.Fprintf(&b, "  pointer: %d\n", r.Pointer)
	fmt.Fprintf(&b, "  memory: %d %d\n", r.LeftCells, r.RightCells)
	if len(r.Dump) > 0 {
		fmt.Fprintf(&b, "  tape[%d..%d]:", r.DumpFrom, r.DumpFrom+int64(len(r.Dump))-1)
		for _, v := range r.Dump {
			fmt.Fprintf(&b, " %d", v)
		}
		fmt.Fprintf(&b, "\n")
	}
	return b.String()
}
