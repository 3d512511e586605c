package cellblocks

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/cellform/cellform/cellarray"
)

func TestReductionAxisDrop(t *testing.T) {
	// Rank-3 input with blocks at (0,0,0) and (0,1,2) reduces to rank 2 with
	// ids (0,0) and (1,2); each block loses its leading axis.
	var (
		np   = 3
		axes = []Axis{{np}, {2, 3}, {1, 2, 2}}
		bld  = NewBuilder(axes)
	)
	assert.Nil(t, bld.Append(BlockID{0, 0, 0}, cellarray.NewArray([]int{np, 2, 1})))
	assert.Nil(t, bld.Append(BlockID{0, 1, 2}, cellarray.NewArray([]int{np, 3, 2})))
	a := bld.Build()

	var (
		w    = []float64{1, 1, 1}
		jdet = []float64{1, 1, 1}
	)
	R, err := Integrate(a, w, jdet)
	assert.Nil(t, err)
	assert.Equal(t, 2, R.Rank())
	assert.Equal(t, 2, R.NStored())

	i, ok := R.Find(BlockID{0, 0})
	assert.True(t, ok)
	assert.Equal(t, []int{2, 1}, R.Block(i).Shape)
	i, ok = R.Find(BlockID{1, 2})
	assert.True(t, ok)
	assert.Equal(t, []int{3, 2}, R.Block(i).Shape)
}

func TestReductionValues(t *testing.T) {
	var (
		axes = []Axis{{2}, {2}}
		bld  = NewBuilder(axes)
	)
	assert.Nil(t, bld.Append(BlockID{0, 0}, cellarray.NewArray([]int{2, 2}, []float64{
		1, 2,
		3, 4,
	})))
	a := bld.Build()
	R, err := Integrate(a, []float64{0.5, 2}, []float64{1, 3})
	assert.Nil(t, err)
	i, _ := R.Find(BlockID{0})
	// out[j] = 0.5*1*row0[j] + 2*3*row1[j]
	assert.InDelta(t, 0.5+18., R.Block(i).DataP[0], 1.e-12)
	assert.InDelta(t, 1.+24., R.Block(i).DataP[1], 1.e-12)
}

func TestReductionEmptyInput(t *testing.T) {
	var (
		axes = []Axis{{4}, {3}, {2}}
		a    = NewBuilder(axes).Build()
	)
	R, err := Integrate(a, []float64{1, 1, 1, 1}, []float64{1, 1, 1, 1})
	assert.Nil(t, err)
	assert.Equal(t, 0, R.NStored())
	assert.Equal(t, 2, R.Rank())
}

func TestReductionQuadratureMismatch(t *testing.T) {
	var (
		axes = []Axis{{4}, {3}}
		bld  = NewBuilder(axes)
	)
	assert.Nil(t, bld.Append(BlockID{0, 0}, cellarray.NewArray([]int{4, 3})))
	a := bld.Build()
	_, err := Integrate(a, []float64{1, 1}, []float64{1, 1})
	assert.NotNil(t, err)
}

func TestEndToEndLocalMatrix(t *testing.T) {
	// One test field (4 points x 3 dofs) against one trial field (4 points x
	// 2 dofs) under multiplication, then integration, must match the direct
	// dense computation.
	var (
		np    = 4
		tVals = []float64{
			1, 2, 3,
			4, 5, 6,
			7, 8, 9,
			10, 11, 12,
		}
		uVals = []float64{
			1, -1,
			2, -2,
			3, -3,
			4, -4,
		}
		w    = []float64{0.3, 0.7, 0.7, 0.3}
		jdet = []float64{0.5, 0.5, 0.5, 0.5}
	)
	test := testTerms(t, np, Axis{3}, map[int][]float64{0: tVals})
	trial := trialTerms(t, np, Axis{2}, map[int][]float64{0: uVals})

	outer, err := ApplyOuter(cellarray.MulKernel(), test, trial)
	assert.Nil(t, err)
	local, err := Integrate(outer, w, jdet)
	assert.Nil(t, err)
	assert.Equal(t, 1, local.NStored())
	i, ok := local.Find(BlockID{0, 0})
	assert.True(t, ok)
	blk := local.Block(i)
	assert.Equal(t, []int{3, 2}, blk.Shape)

	for ii := 0; ii < 3; ii++ {
		for jj := 0; jj < 2; jj++ {
			var want float64
			for p := 0; p < np; p++ {
				want += w[p] * jdet[p] * tVals[p*3+ii] * uVals[p*2+jj]
			}
			assert.InDelta(t, want, blk.At(ii, jj), 1.e-12)
		}
	}
}
