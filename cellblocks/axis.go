package cellblocks

import "fmt"

// Axis describes the partition of one array axis into per-field sub-ranges.
// Entry f is the length of field f's range for this cell; a zero length marks
// a structurally empty range (e.g. a field inactive on a boundary cell). The
// number of entries per axis is fixed across a cell sequence even when the
// lengths vary cell to cell.
type Axis []int

func (ax Axis) NBlocks() int { return len(ax) }

// Offset returns the position of field f's first entry along the axis.
func (ax Axis) Offset(f int) (off int) {
	for i := 0; i < f; i++ {
		off += ax[i]
	}
	return
}

// Total is the full axis length, the sum of all sub-range lengths.
func (ax Axis) Total() (n int) {
	for _, l := range ax {
		n += l
	}
	return
}

// sameLayout asserts that two axis sets partition the same lattice: equal
// rank and equal number of potential blocks per axis. This is the
// precondition of every binary dispatch rule; it is never silently coerced.
func sameLayout(a, b []Axis) (err error) {
	if len(a) != len(b) {
		return fmt.Errorf("operand ranks disagree: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i].NBlocks() != b[i].NBlocks() {
			return fmt.Errorf("axis %d block counts disagree: %d vs %d", i, a[i].NBlocks(), b[i].NBlocks())
		}
	}
	return nil
}

// latticeSize is the number of potential block coordinates over all axes.
func latticeSize(axes []Axis) (n int) {
	n = 1
	for _, ax := range axes {
		n *= ax.NBlocks()
	}
	return
}

// eachID enumerates the full block lattice of axes in row-major coordinate
// order, invoking f once per coordinate. The id passed to f is reused between
// invocations; f must copy it before retaining it.
func eachID(axes []Axis, f func(id BlockID)) {
	var (
		rank = len(axes)
		id   = make(BlockID, rank)
	)
	var recurse func(ax int)
	recurse = func(ax int) {
		if ax == rank {
			f(id)
			return
		}
		for i := 0; i < axes[ax].NBlocks(); i++ {
			id[ax] = i
			recurse(ax + 1)
		}
	}
	recurse(0)
}
