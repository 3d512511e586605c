package cellblocks

import (
	"fmt"

	"github.com/cellform/cellform/cellarray"
)

// Apply evaluates a kernel blockwise over one blocked operand: every stored
// block is mapped through the kernel, block ids are unchanged, and the result
// shares the operand's axes.
func Apply(k cellarray.Kernel, a Blocked) (R Blocked, err error) {
	var (
		bld = NewBuilder(a.Axes)
		blk cellarray.Array
	)
	for i := 0; i < a.NStored(); i++ {
		if blk, err = k.Evaluate(nil, a.Block(i)); err != nil {
			return
		}
		if err = bld.Append(a.ID(i), blk); err != nil {
			return
		}
	}
	R = bld.Build()
	return
}

// Apply2 evaluates a binary kernel over two blocked operands of the same rank
// and axis partition. The merge rule is selected from the kernel's operator
// category:
//
//   - Additive: blocks present on one side only are carried over without a
//     kernel call (x + 0 = x); blocks present on both sides are combined.
//   - Subtractive: as additive, except a right-only block is negated through
//     the kernel's unary form (0 - x = -x).
//   - Any other category between two block containers has no safe merge
//     policy here; callers must lower to dense arrays first.
func Apply2(k cellarray.Kernel, a, b Blocked) (R Blocked, err error) {
	if err = samePartition(a, b); err != nil {
		return
	}
	switch k.Cat {
	case cellarray.Additive:
		return merge2(k, a, b, false)
	case cellarray.Subtractive:
		return merge2(k, a, b, true)
	default:
		err = fmt.Errorf("unsupported operation: %s kernel between two block-sparse operands, densify first", k.Cat)
		return
	}
}

// ApplyScalar maps a binary kernel with a scalar second operand over every
// stored block.
func ApplyScalar(k cellarray.Kernel, a Blocked, val float64) (R Blocked, err error) {
	var (
		bld = NewBuilder(a.Axes)
		blk cellarray.Array
	)
	for i := 0; i < a.NStored(); i++ {
		if blk, err = k.Evaluate(nil, a.Block(i), val); err != nil {
			return
		}
		if err = bld.Append(a.ID(i), blk); err != nil {
			return
		}
	}
	R = bld.Build()
	return
}

// samePartition asserts the identical-axis-partition precondition of the
// same-rank binary rules.
func samePartition(a, b Blocked) (err error) {
	if err = sameLayout(a.Axes, b.Axes); err != nil {
		return
	}
	for ax := range a.Axes {
		for f, l := range a.Axes[ax] {
			if b.Axes[ax][f] != l {
				return fmt.Errorf("axis %d field %d sub-range lengths disagree: %d vs %d", ax, f, l, b.Axes[ax][f])
			}
		}
	}
	return
}

func merge2(k cellarray.Kernel, a, b Blocked, negateRight bool) (R Blocked, err error) {
	var (
		bld = NewBuilder(a.Axes)
		blk cellarray.Array
	)
	eachID(a.Axes, func(id BlockID) {
		if err != nil {
			return
		}
		ia, aOK := a.Find(id)
		ib, bOK := b.Find(id)
		switch {
		case aOK && bOK:
			if blk, err = k.Evaluate(nil, a.Block(ia), b.Block(ib)); err != nil {
				return
			}
		case aOK:
			blk = a.Block(ia).Copy()
		case bOK:
			if negateRight {
				if blk, err = k.Evaluate(nil, b.Block(ib)); err != nil {
					return
				}
			} else {
				blk = b.Block(ib).Copy()
			}
		default:
			return // Structurally zero on both sides, omit
		}
		err = bld.Append(id.Copy(), blk)
	})
	if err != nil {
		return
	}
	R = bld.Build()
	return
}

// ApplyOuter combines a test-role operand (rank 2, block ids (0, field)) with
// a trial-role operand (rank 3, block ids (0, 0, field)) into a rank-3 result
// with block ids (0, fieldTest, fieldTrial). Operand order is free; roles are
// recovered from the ranks.
//
// The two field axes partition one multi-field space, whose per-cell activity
// may differ between the roles. A term is produced for the pair (f1, f2) only
// when both blocks are stored and each field is structurally nonzero on both
// sides: a test field with no trial counterpart, or a trial field with no
// test counterpart, yields no term at all.
func ApplyOuter(k cellarray.Kernel, a, b Blocked) (R Blocked, err error) {
	var (
		test, trial Blocked
	)
	switch {
	case a.Rank() == 2 && b.Rank() == 3:
		test, trial = a, b
	case a.Rank() == 3 && b.Rank() == 2:
		test, trial = b, a
	default:
		err = fmt.Errorf("role mismatch: outer rule needs one rank-2 test and one rank-3 trial operand, got ranks %d and %d", a.Rank(), b.Rank())
		return
	}
	if test.Axes[0].NBlocks() != 1 || trial.Axes[0].NBlocks() != 1 || trial.Axes[1].NBlocks() != 1 {
		err = fmt.Errorf("role mismatch: quadrature and trial singleton axes must hold a single block")
		return
	}
	if test.Axes[0].Total() != trial.Axes[0].Total() {
		err = fmt.Errorf("quadrature point counts disagree: %d vs %d", test.Axes[0].Total(), trial.Axes[0].Total())
		return
	}
	var (
		tAx = test.Axes[1]  // Test-side field activity
		uAx = trial.Axes[2] // Trial-side field activity
	)
	if tAx.NBlocks() != uAx.NBlocks() {
		err = fmt.Errorf("field block counts disagree: test %d vs trial %d", tAx.NBlocks(), uAx.NBlocks())
		return
	}
	var (
		// Quadrature and test axes from the test side, trial axis from the
		// trial side.
		axes = []Axis{test.Axes[0], test.Axes[1], trial.Axes[2]}
		bld  = NewBuilder(axes)
		blk  cellarray.Array
	)
	for it := 0; it < test.NStored(); it++ {
		var (
			tID  = test.ID(it)
			tBlk = test.Block(it)
		)
		for jt := 0; jt < trial.NStored(); jt++ {
			var (
				uID  = trial.ID(jt)
				uBlk = trial.Block(jt)
			)
			if uAx[tID[1]] == 0 || tAx[uID[2]] == 0 {
				// One of the pair's fields is inactive in the other role;
				// the pair contributes no term.
				continue
			}
			// Lift the test block (np, n1) to (np, n1, 1) over shared
			// storage; the trial block is already (np, 1, n2).
			tLift := tBlk.Reshape(tBlk.Shape[0], tBlk.Shape[1], 1)
			if blk, err = k.Evaluate(nil, tLift, uBlk); err != nil {
				return
			}
			if err = bld.Append(BlockID{0, tID[1], uID[2]}, blk); err != nil {
				return
			}
		}
	}
	R = bld.Build()
	return
}
