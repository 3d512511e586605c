package cellarray

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBroadcastEvaluate(t *testing.T) {
	// Same shape
	{
		a := NewArray([]int{2, 2}, []float64{1, 2, 3, 4})
		b := NewArray([]int{2, 2}, []float64{10, 20, 30, 40})
		R, err := SumKernel().Evaluate(nil, a, b)
		assert.Nil(t, err)
		assert.Equal(t, []float64{11, 22, 33, 44}, R.DataP)
	}
	// Singleton axis expansion: (2,2,1) x (2,1,3) -> (2,2,3)
	{
		a := NewArray([]int{2, 2, 1}, []float64{1, 2, 3, 4})
		b := NewArray([]int{2, 1, 3}, []float64{1, 2, 3, 4, 5, 6})
		R, err := MulKernel().Evaluate(nil, a, b)
		assert.Nil(t, err)
		assert.Equal(t, []int{2, 2, 3}, R.Shape)
		for i := 0; i < 2; i++ {
			for j := 0; j < 2; j++ {
				for l := 0; l < 3; l++ {
					assert.InDelta(t, a.At(i, j, 0)*b.At(i, 0, l), R.At(i, j, l), 1.e-12)
				}
			}
		}
	}
	// Scalar operand
	{
		a := NewArray([]int{3}, []float64{1, 2, 3})
		R, err := MulKernel().Evaluate(nil, a, 2.)
		assert.Nil(t, err)
		assert.Equal(t, []float64{2, 4, 6}, R.DataP)
	}
	// Rank mismatch is an error, never coerced
	{
		a := NewArray([]int{2, 2}, []float64{1, 2, 3, 4})
		b := NewArray([]int{4}, []float64{1, 2, 3, 4})
		_, err := SumKernel().Evaluate(nil, a, b)
		assert.NotNil(t, err)
	}
	// Incompatible lengths
	{
		a := NewArray([]int{2, 2}, []float64{1, 2, 3, 4})
		b := NewArray([]int{2, 3}, []float64{1, 2, 3, 4, 5, 6})
		_, err := SumKernel().Evaluate(nil, a, b)
		assert.NotNil(t, err)
	}
}

func TestKernelCacheReuse(t *testing.T) {
	var (
		k = SumKernel()
		a = NewArray([]int{2, 2}, []float64{1, 2, 3, 4})
		b = NewArray([]int{2, 2}, []float64{1, 1, 1, 1})
	)
	cache, err := k.NewCache(a.Shape, b.Shape)
	assert.Nil(t, err)
	R1, err := k.Evaluate(cache, a, b)
	assert.Nil(t, err)
	assert.Equal(t, []float64{2, 3, 4, 5}, R1.DataP)
	// A second evaluation reuses the same scratch storage.
	R2, err := k.Evaluate(cache, b, b)
	assert.Nil(t, err)
	assert.Equal(t, []float64{2, 2, 2, 2}, R2.DataP)
	assert.Same(t, &R1.DataP[0], &R2.DataP[0])
}

func TestTrialViewRoundTrip(t *testing.T) {
	var (
		n, m = 3, 4
		data = make([]float64, n*m)
	)
	for i := range data {
		data[i] = float64(i + 1)
	}
	M := NewArray([]int{n, m}, data)
	v, err := AsTrial(M)
	assert.Nil(t, err)
	assert.Equal(t, []int{n, 1, m}, v.Shape())
	for i := 0; i < n; i++ {
		for k := 0; k < m; k++ {
			assert.Equal(t, M.At(i, k), v.At(i, 0, k))
		}
	}
	// Flat indexing passes through unchanged.
	for i := range data {
		assert.Equal(t, data[i], v.AtFlat(i))
	}
	// Writes through the view are visible in the source and vice versa.
	v.Set(-1, 1, 0, 2)
	assert.Equal(t, -1., M.At(1, 2))
	M.Set(99, 2, 3)
	assert.Equal(t, 99., v.At(2, 0, 3))
	// The rank-3 array shares storage, no copy.
	arr := v.Array()
	assert.Same(t, &M.DataP[0], &arr.DataP[0])
}

func TestTrialViewRankCheck(t *testing.T) {
	_, err := AsTrial(NewArray([]int{4}))
	assert.NotNil(t, err)
	_, err = AsTrial(NewArray([]int{2, 2, 2}))
	assert.NotNil(t, err)
}

func TestKernelMissingForm(t *testing.T) {
	// A bilinear kernel has no unary form.
	_, err := MulKernel().Evaluate(nil, NewArray([]int{2}, []float64{1, 2}))
	assert.NotNil(t, err)
}
