package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMatrix(t *testing.T) {
	// Transpose
	{
		M := NewMatrix(2, 3, []float64{
			1, 2, 3,
			4, 5, 6,
		})
		mNr, mNc := M.Dims()
		A := M.Transpose()
		aNr, aNc := A.Dims()
		assert.Equal(t, aNc, mNr)
		assert.Equal(t, aNr, mNc)
		assert.Equal(t, A.DataP, []float64{1, 4, 2, 5, 3, 6})
	}
	// Mul
	{
		M := NewMatrix(2, 3, []float64{
			1, 2, 3,
			4, 5, 6,
		})
		A := M.Mul(M.Transpose())
		assert.Equal(t, A.DataP, []float64{
			14, 32,
			32, 77,
		})
	}
	// Chained elementwise ops change the receiver
	{
		M := NewMatrix(2, 2, []float64{1, 2, 3, 4})
		M.Scale(2).AddScalar(1)
		assert.Equal(t, M.DataP, []float64{3, 5, 7, 9})
		M.Apply(func(x float64) float64 { return x - 1 })
		assert.Equal(t, M.DataP, []float64{2, 4, 6, 8})
		A := NewMatrix(2, 2, []float64{1, 1, 1, 1})
		M.Subtract(A)
		assert.Equal(t, M.DataP, []float64{1, 3, 5, 7})
	}
	// Row / Col copy out of the raw storage
	{
		M := NewMatrix(2, 3, []float64{
			1, 2, 3,
			4, 5, 6,
		})
		assert.Equal(t, M.Row(1).DataP, []float64{4, 5, 6})
		assert.Equal(t, M.Col(2).DataP, []float64{3, 6})
	}
	// Copy detaches storage
	{
		M := NewMatrix(2, 2, []float64{1, 2, 3, 4})
		A := M.Copy()
		A.Set(0, 0, -1)
		assert.Equal(t, 1., M.At(0, 0))
	}
}

func TestMatrixInverse(t *testing.T) {
	{
		M := NewMatrix(2, 2, []float64{
			4, 7,
			2, 6,
		})
		Minv, err := M.Inverse()
		assert.Nil(t, err)
		A := M.Mul(Minv)
		assert.InDeltaSlice(t, []float64{
			1, 0,
			0, 1,
		}, A.DataP, 1.e-12)
	}
	// Singular
	{
		M := NewMatrix(2, 2, []float64{
			1, 2,
			2, 4,
		})
		_, err := M.Inverse()
		assert.NotNil(t, err)
	}
}

func TestSymTriDiagonal(t *testing.T) {
	JJ := NewSymTriDiagonal([]float64{1, 2, 3}, []float64{4, 5})
	assert.Equal(t, 4., JJ.At(0, 1))
	assert.Equal(t, 4., JJ.At(1, 0))
	assert.Equal(t, 5., JJ.At(2, 1))
	assert.Equal(t, 2., JJ.At(1, 1))
	assert.Equal(t, 0., JJ.At(0, 2))
}

func TestVectorOps(t *testing.T) {
	N := 3
	v1 := NewVector(N).Set(1)
	assert.Equal(t, 1., v1.DataP[N-1])
	v1.Set(2)
	assert.Equal(t, 2., v1.AtVec(N-1))
	v2 := NewVector(N, []float64{1, 2, 3})
	v2.Scale(2).AddScalar(-1)
	assert.Equal(t, []float64{1, 3, 5}, v2.DataP)
	assert.Equal(t, 1., v2.Min())
	assert.Equal(t, 5., v2.Max())
	v2.POW(2)
	assert.Equal(t, []float64{1, 9, 25}, v2.DataP)
	v3 := v2.Copy().Mul(NewVector(N).Set(0))
	assert.Equal(t, []float64{0, 0, 0}, v3.DataP)
	assert.Equal(t, []float64{1, 9, 25}, v2.DataP)
}

func TestIndex(t *testing.T) {
	I := NewRange(2, 5)
	assert.Equal(t, Index{2, 3, 4, 5}, I)
	assert.Equal(t, Index{12, 13, 14, 15}, I.Add(10))
	assert.Equal(t, Index{5, 2}, I.Subset(Index{3, 0}))
	assert.Equal(t, Index{4, 6, 8, 10}, I.Apply(func(val int) int { return 2 * val }))
	_, err := NewIndex2D(Index{1, 2}, Index{1})
	assert.NotNil(t, err)
	I2, err := NewIndex2D(Index{0, 1}, Index{2, 3})
	assert.Nil(t, err)
	assert.Equal(t, 2, I2.Len)
}

func TestSparseDOK(t *testing.T) {
	K := NewDOK(3, 3)
	K.Set(0, 0, 1)
	K.Accumulate(0, 0, 2)
	K.Accumulate(2, 1, 5)
	assert.Equal(t, 3., K.At(0, 0))
	assert.Equal(t, 5., K.At(2, 1))
	assert.Equal(t, 2, K.NNZ())
	C := K.ToCSR()
	nr, nc := C.Dims()
	assert.Equal(t, 3, nr)
	assert.Equal(t, 3, nc)
	assert.Equal(t, 3., C.At(0, 0))
	assert.Equal(t, 2, C.NNZ())
}
