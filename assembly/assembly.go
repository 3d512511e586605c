// Package assembly scatters reduced per-cell blocks into the global sparse
// system. The stored block ids of a reduced cell array identify which
// (field, field) pair each local block belongs to; per-field dof maps carry
// the local-to-global index translation.
package assembly

import (
	"fmt"

	"github.com/cellform/cellform/cellblocks"
	"github.com/cellform/cellform/utils"
)

// Assembler accumulates local element matrices and vectors into a global
// DOK matrix and dense right-hand side.
type Assembler struct {
	K utils.DOK
	F []float64
}

func NewAssembler(nrows, ncols int) *Assembler {
	return &Assembler{
		K: utils.NewDOK(nrows, ncols),
		F: make([]float64, nrows),
	}
}

// AddLocalMatrix scatters a rank-2 reduced cell array. The block stored at
// id (f1, f2) adds its (i, j) entry into K[rowDofs[f1][i], colDofs[f2][j]].
// Blocks absent from the stored set contribute nothing.
func (asm *Assembler) AddLocalMatrix(m cellblocks.Blocked, rowDofs, colDofs []utils.Index) (err error) {
	if m.Rank() != 2 {
		return fmt.Errorf("local matrix must have rank 2, got %d", m.Rank())
	}
	if len(rowDofs) != m.Axes[0].NBlocks() || len(colDofs) != m.Axes[1].NBlocks() {
		return fmt.Errorf("dof map counts (%d, %d) do not match block counts (%d, %d)",
			len(rowDofs), len(colDofs), m.Axes[0].NBlocks(), m.Axes[1].NBlocks())
	}
	for s := 0; s < m.NStored(); s++ {
		var (
			id     = m.ID(s)
			blk    = m.Block(s)
			rows   = rowDofs[id[0]]
			cols   = colDofs[id[1]]
			nr, nc = blk.Shape[0], blk.Shape[1]
		)
		if len(rows) != nr || len(cols) != nc {
			return fmt.Errorf("block %v is %dx%d but dof maps have %d rows, %d cols", id, nr, nc, len(rows), len(cols))
		}
		for i := 0; i < nr; i++ {
			for j := 0; j < nc; j++ {
				asm.K.Accumulate(rows[i], cols[j], blk.DataP[i*nc+j])
			}
		}
	}
	return
}

// AddLocalVector scatters a rank-1 reduced cell array into the right-hand
// side.
func (asm *Assembler) AddLocalVector(v cellblocks.Blocked, rowDofs []utils.Index) (err error) {
	if v.Rank() != 1 {
		return fmt.Errorf("local vector must have rank 1, got %d", v.Rank())
	}
	if len(rowDofs) != v.Axes[0].NBlocks() {
		return fmt.Errorf("dof map count %d does not match block count %d", len(rowDofs), v.Axes[0].NBlocks())
	}
	for s := 0; s < v.NStored(); s++ {
		var (
			id   = v.ID(s)
			blk  = v.Block(s)
			rows = rowDofs[id[0]]
		)
		if len(rows) != blk.Shape[0] {
			return fmt.Errorf("block %v has %d entries but dof map has %d", id, blk.Shape[0], len(rows))
		}
		for i, val := range blk.DataP {
			asm.F[rows[i]] += val
		}
	}
	return
}

// Matrix freezes the accumulated global matrix into CSR form for the solver.
func (asm *Assembler) Matrix() utils.CSR {
	return asm.K.ToCSR()
}

// FieldLayout lays global equation numbers out field by field: all of field
// 0's dofs first, then field 1's, and so on.
type FieldLayout struct {
	Offsets []int
	Total   int
}

func NewFieldLayout(counts []int) (l FieldLayout) {
	l.Offsets = make([]int, len(counts))
	for f, n := range counts {
		l.Offsets[f] = l.Total
		l.Total += n
	}
	return
}

// CellDofs returns the global indices of field f's dofs on one cell, for
// contiguous per-cell numbering within the field.
func (l FieldLayout) CellDofs(f, cell, ndof int) utils.Index {
	return utils.NewRange(0, ndof-1).Add(l.Offsets[f] + cell*ndof)
}
