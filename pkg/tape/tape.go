// Package tape implements the machine's cell storage: a bidirectional,
// lazily-growing buffer addressed by signed offset from the origin.
//
// Storage is two slices growing away from the origin: right[i] holds
// offset i, left[i] holds offset -(i+1). Unvisited offsets read zero
// without allocating; writes grow the relevant side on demand. Offsets are
// logically unbounded in both directions.
package tape

// Tape is the cell storage for one run. Cells are stored as uint32; the
// machine enforces the configured cell width before writing.
type Tape struct {
	right []uint32 // offsets 0, 1, 2, ...
	left  []uint32 // offsets -1, -2, -3, ...
}

// New returns an empty tape. Only the origin cell is materialized.
func New() *Tape {
	return &Tape{right: make([]uint32, 1, 64)}
}

// Read returns the value at offset, zero for never-written offsets.
// Reads never allocate.
func (t *Tape) Read(offset int64) uint32 {
	if offset >= 0 {
		if offset < int64(len(t.right)) {
			return t.right[offset]
		}
		return 0
	}
	idx := -offset - 1
	if idx < int64(len(t.left)) {
		return t.left[idx]
	}
	return 0
}

// Write stores v at offset, growing the tape as needed. The caller is
// responsible for v satisfying the machine's cell-width invariant.
func (t *Tape) Write(offset int64, v uint32) {
	if offset >= 0 {
		for offset >= int64(len(t.right)) {
			t.right = append(t.right, 0)
		}
		t.right[offset] = v
		return
	}
	idx := -offset - 1
	for idx >= int64(len(t.left)) {
		t.left = append(t.left, 0)
	}
	t.left[idx] = v
}

// Extent returns the number of materialized cells on each side of the
// origin. The origin cell counts toward the right side.
func (t *Tape) Extent() (left, right int) {
	return len(t.left), len(t.right)
}

// Cells returns the values in [from, to] inclusive. Offsets outside the
// materialized region read as zero.
func (t *Tape) Cells(from, to int64) []uint32 {
	if to < from {
		return nil
	}
	out := make([]uint32, 0, to-from+1)
	for off := from; off <= to; off++ {
		out = append(out, t.Read(off))
	}
	return out
}
