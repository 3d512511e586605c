package cellblocks

import (
	"fmt"

	"github.com/cellform/cellform/cellarray"
)

// ReduceKernel contracts the leading (quadrature point) axis of one dense
// block using the cell's quadrature weights and Jacobian data. The numeric
// semantics live in the kernel; Integrate only does the block-structural
// bookkeeping around it.
type ReduceKernel func(blk cellarray.Array, w, jdet []float64) (cellarray.Array, error)

// WeightedSum is the standard Gauss-quadrature reduction,
//
//	out[...] = sum_p w[p] * jdet[p] * blk[p, ...]
//
// for blocks of rank 2 or 3.
func WeightedSum(blk cellarray.Array, w, jdet []float64) (R cellarray.Array, err error) {
	var (
		np = blk.Shape[0]
	)
	if len(w) != np || len(jdet) != np {
		err = fmt.Errorf("quadrature data length mismatch: block has %d points, weights %d, jacobians %d", np, len(w), len(jdet))
		return
	}
	if blk.Rank() < 2 {
		err = fmt.Errorf("cannot contract the leading axis of a rank-%d block", blk.Rank())
		return
	}
	var (
		rest = cellarray.SizeOf(blk.Shape[1:])
	)
	R = cellarray.NewArray(append([]int{}, blk.Shape[1:]...))
	for p := 0; p < np; p++ {
		var (
			c   = w[p] * jdet[p]
			row = blk.DataP[p*rest : (p+1)*rest]
		)
		for i, val := range row {
			R.DataP[i] += c * val
		}
	}
	return
}

// Integrate contracts the quadrature axis of every stored block with the
// default weighted-sum kernel, drops the leading coordinate from every block
// id, and drops the leading axis descriptor. A rank-3 input (matrix-producing
// form) yields a rank-2 result; rank-2 yields rank-1. An input with zero
// stored blocks passes through as an empty, valid result.
func Integrate(a Blocked, w, jdet []float64) (Blocked, error) {
	return IntegrateWith(WeightedSum, a, w, jdet)
}

// IntegrateWith is Integrate with a caller-supplied reduction kernel.
func IntegrateWith(k ReduceKernel, a Blocked, w, jdet []float64) (R Blocked, err error) {
	if a.Rank() < 2 || a.Rank() > 3 {
		err = fmt.Errorf("integration requires a rank-2 or rank-3 operand, got rank %d", a.Rank())
		return
	}
	if a.Axes[0].NBlocks() != 1 {
		err = fmt.Errorf("quadrature axis must hold a single block, has %d", a.Axes[0].NBlocks())
		return
	}
	var (
		bld = NewBuilder(a.Axes[1:])
		blk cellarray.Array
	)
	for i := 0; i < a.NStored(); i++ {
		if blk, err = k(a.Block(i), w, jdet); err != nil {
			return
		}
		if err = bld.Append(a.ID(i)[1:].Copy(), blk); err != nil {
			return
		}
	}
	R = bld.Build()
	return
}

// IntegrateDense is the unblocked counterpart for plain per-cell arrays.
func IntegrateDense(a cellarray.Array, w, jdet []float64) (cellarray.Array, error) {
	return WeightedSum(a, w, jdet)
}
