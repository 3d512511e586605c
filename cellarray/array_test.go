package cellarray

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestArrayIndexing(t *testing.T) {
	A := NewArray([]int{2, 3}, []float64{0, 1, 2, 3, 4, 5})
	assert.Equal(t, 2, A.Rank())
	assert.Equal(t, 6, A.Size())
	assert.Equal(t, []int{3, 1}, A.Strides())
	assert.Equal(t, 5., A.At(1, 2))
	A.Set(-5, 1, 2)
	assert.Equal(t, -5., A.At(1, 2))
	assert.Panics(t, func() { A.At(2, 0) })
	assert.Panics(t, func() { A.At(0) })
	assert.Panics(t, func() { NewArray([]int{2, 2}, []float64{1}) })
	assert.Panics(t, func() { NewArray([]int{2, 2, 2, 2}) })
}

func TestArrayReshapeSharesStorage(t *testing.T) {
	A := NewArray([]int{2, 3}, []float64{0, 1, 2, 3, 4, 5})
	B := A.Reshape(2, 1, 3)
	assert.Equal(t, []int{2, 1, 3}, B.Shape)
	B.Set(100, 1, 0, 2)
	assert.Equal(t, 100., A.At(1, 2))
	assert.Panics(t, func() { A.Reshape(4, 2) })
	// Copy detaches storage.
	C := A.Copy()
	C.Set(0, 1, 2)
	assert.Equal(t, 100., A.At(1, 2))
}

func TestArrayScaleAdd(t *testing.T) {
	A := NewArray([]int{3}, []float64{1, 2, 3})
	A.Scale(2)
	assert.Equal(t, []float64{2, 4, 6}, A.DataP)
	B := NewArray([]int{3}, []float64{1, 1, 1})
	A.Add(B)
	assert.Equal(t, []float64{3, 5, 7}, A.DataP)
	assert.Panics(t, func() { A.Add(NewArray([]int{2})) })
}
