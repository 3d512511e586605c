package cellarray

import (
	"fmt"
)

// Array is a dense per-cell array of rank 1 to 3, stored row-major in a flat
// backing slice. The leading axis is the quadrature-point axis for
// pre-integration arrays.
type Array struct {
	DataP []float64
	Shape []int
}

func NewArray(shape []int, dataO ...[]float64) (R Array) {
	var (
		size = SizeOf(shape)
	)
	if len(shape) < 1 || len(shape) > 3 {
		panic(fmt.Errorf("unsupported rank %d, must be 1, 2 or 3", len(shape)))
	}
	if len(dataO) != 0 {
		if len(dataO[0]) != size {
			err := fmt.Errorf("mismatch in allocation: NewArray shape = %v, len(data[0]) = %v", shape, len(dataO[0]))
			panic(err)
		}
		R = Array{DataP: dataO[0], Shape: shape}
	} else {
		R = Array{DataP: make([]float64, size), Shape: shape}
	}
	return
}

func Zeros(shape ...int) Array {
	return NewArray(shape)
}

func SizeOf(shape []int) (size int) {
	size = 1
	for _, n := range shape {
		size *= n
	}
	return
}

func (a Array) Rank() int { return len(a.Shape) }
func (a Array) Size() int { return len(a.DataP) }

// Strides returns the row-major stride of each axis.
func (a Array) Strides() (s []int) {
	s = make([]int, len(a.Shape))
	str := 1
	for i := len(a.Shape) - 1; i >= 0; i-- {
		s[i] = str
		str *= a.Shape[i]
	}
	return
}

func (a Array) flat(ind []int) (f int) {
	if len(ind) != len(a.Shape) {
		panic(fmt.Errorf("index rank %d does not match array rank %d", len(ind), len(a.Shape)))
	}
	for i, ix := range ind {
		f = f*a.Shape[i] + ix
	}
	return
}

func (a Array) At(ind ...int) float64 {
	return a.DataP[a.flat(ind)]
}

func (a Array) Set(val float64, ind ...int) Array { // Changes receiver
	a.DataP[a.flat(ind)] = val
	return a
}

func (a Array) Copy() (R Array) { // Does not change receiver
	var (
		data  = make([]float64, len(a.DataP))
		shape = make([]int, len(a.Shape))
	)
	copy(data, a.DataP)
	copy(shape, a.Shape)
	R = Array{DataP: data, Shape: shape}
	return
}

// Reshape returns an array of the given shape sharing the receiver's backing
// storage. The element count must be unchanged.
func (a Array) Reshape(shape ...int) (R Array) {
	if SizeOf(shape) != len(a.DataP) {
		panic(fmt.Errorf("cannot reshape %v to %v, element counts differ", a.Shape, shape))
	}
	R = Array{DataP: a.DataP, Shape: shape}
	return
}

func (a Array) Scale(val float64) Array { // Changes receiver
	for i := range a.DataP {
		a.DataP[i] *= val
	}
	return a
}

func (a Array) Add(b Array) Array { // Changes receiver
	if a.Size() != b.Size() {
		panic(fmt.Errorf("size mismatch in Add: %v vs %v", a.Shape, b.Shape))
	}
	for i, val := range b.DataP {
		a.DataP[i] += val
	}
	return a
}

func sameShape(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
