package quadrature

import (
	"fmt"

	"github.com/cellform/cellform/cellarray"
	"github.com/cellform/cellform/utils"
)

// Rule is a quadrature rule on the reference interval [-1, 1].
type Rule struct {
	R, W utils.Vector // Nodes and weights
}

// NewGaussRule returns the n-point Legendre-Gauss rule, exact for
// polynomials of degree 2n-1.
func NewGaussRule(n int) (q Rule, err error) {
	if n < 1 {
		err = fmt.Errorf("quadrature rule needs at least one point, got %d", n)
		return
	}
	q.R, q.W = JacobiGQ(0, 0, n-1)
	return
}

// Basis1D is the nodal Lagrange basis of order P on the reference interval,
// collocated at the Gauss-Lobatto points.
type Basis1D struct {
	P       int
	R       utils.Vector // Nodal points, P+1 of them
	V, Vinv utils.Matrix // Generalized Vandermonde and its inverse
}

func NewBasis1D(p int) (b Basis1D, err error) {
	if p < 1 {
		err = fmt.Errorf("basis order must be at least 1, got %d", p)
		return
	}
	b.P = p
	b.R = JacobiGL(0, 0, p)
	b.V = Vandermonde1D(p, b.R)
	if b.Vinv, err = b.V.Inverse(); err != nil {
		return
	}
	return
}

func (b Basis1D) NDof() int { return b.P + 1 }

// ValuesAt tabulates the nodal basis functions at the points rq as a
// (points × dofs) per-cell array: row i holds all basis values at rq[i].
// On an affine mesh the same table serves every cell.
func (b Basis1D) ValuesAt(rq utils.Vector) (a cellarray.Array) {
	var (
		Vq = Vandermonde1D(b.P, rq)
		Iq = Vq.Mul(b.Vinv) // Interpolation matrix, modal -> nodal basis
	)
	a = cellarray.NewArray([]int{rq.Len(), b.NDof()}, Iq.DataP)
	return
}

// Mesh1D is a uniform 1D mesh of K affine cells.
type Mesh1D struct {
	K  int
	VX utils.Vector // K+1 vertex coordinates
}

func NewUniformMesh1D(k int, xmin, xmax float64) (m Mesh1D, err error) {
	if k < 1 {
		err = fmt.Errorf("mesh needs at least one cell, got %d", k)
		return
	}
	var (
		h  = (xmax - xmin) / float64(k)
		vx = make([]float64, k+1)
	)
	for i := range vx {
		vx[i] = xmin + float64(i)*h
	}
	m = Mesh1D{K: k, VX: utils.NewVector(k+1, vx)}
	return
}

// Jdet is the transform Jacobian determinant of cell k: for an affine 1D
// cell it is the constant h/2.
func (m Mesh1D) Jdet(k int) float64 {
	return 0.5 * (m.VX.AtVec(k+1) - m.VX.AtVec(k))
}

// JdetAt expands the cell Jacobian over np quadrature points, the per-point
// form the reduction kernel consumes.
func (m Mesh1D) JdetAt(k, np int) []float64 {
	return utils.ConstArray(np, m.Jdet(k))
}
