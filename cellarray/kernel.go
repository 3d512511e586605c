package cellarray

import (
	"fmt"
)

// OpCategory tags the algebraic identity of a kernel's operator. The
// block-sparse dispatch rules select their merge policy from this tag.
type OpCategory uint8

const (
	General OpCategory = iota // No known identity element
	Additive
	Subtractive
	Bilinear // Outer-product (test × trial) combination
)

func (c OpCategory) String() string {
	switch c {
	case Additive:
		return "additive"
	case Subtractive:
		return "subtractive"
	case Bilinear:
		return "bilinear"
	default:
		return "general"
	}
}

// Kernel is a stateless operation descriptor wrapping a scalar operator in
// unary and/or binary form. A Kernel is constructed once per form-evaluation
// expression and reused for all cells; it is never mutated.
type Kernel struct {
	Cat OpCategory
	F1  func(x float64) float64    // Unary form, nil if the operator has none
	F2  func(a, b float64) float64 // Binary form, nil if the operator has none
}

func SumKernel() Kernel {
	return Kernel{
		Cat: Additive,
		F1:  func(x float64) float64 { return x },
		F2:  func(a, b float64) float64 { return a + b },
	}
}

func SubKernel() Kernel {
	return Kernel{
		Cat: Subtractive,
		F1:  func(x float64) float64 { return -x },
		F2:  func(a, b float64) float64 { return a - b },
	}
}

func MulKernel() Kernel {
	return Kernel{
		Cat: Bilinear,
		F2:  func(a, b float64) float64 { return a * b },
	}
}

func IdentityKernel() Kernel {
	return Kernel{
		Cat: General,
		F1:  func(x float64) float64 { return x },
	}
}

// MapKernel wraps a general pointwise map with no algebraic identity.
func MapKernel(f func(x float64) float64) Kernel {
	return Kernel{Cat: General, F1: f}
}

// Map2Kernel wraps a general binary pointwise map with no algebraic identity.
func Map2Kernel(f func(a, b float64) float64) Kernel {
	return Kernel{Cat: General, F2: f}
}

// Cache is the reusable scratch for repeated kernel evaluations with operands
// of the same shapes. It is safe for sequential reuse across a cell sequence,
// never for concurrent use: each worker holds its own Cache.
type Cache struct {
	out Array
}

// NewCache allocates scratch for the broadcast result of the given operand
// shapes.
func (k Kernel) NewCache(shapes ...[]int) (c *Cache, err error) {
	var (
		shape []int
	)
	if shape, err = BroadcastShape(shapes...); err != nil {
		return
	}
	c = &Cache{out: NewArray(shape)}
	return
}

func (c *Cache) scratch(shape []int) Array {
	if c == nil || !sameShape(c.out.Shape, shape) {
		return NewArray(shape)
	}
	return Array{DataP: c.out.DataP, Shape: shape}
}

// BroadcastShape merges operand shapes under elementwise-broadcast semantics:
// ranks must agree, and each axis length must match or be 1.
func BroadcastShape(shapes ...[]int) (shape []int, err error) {
	if len(shapes) == 0 {
		err = fmt.Errorf("no operand shapes")
		return
	}
	rank := len(shapes[0])
	for _, s := range shapes[1:] {
		if len(s) != rank {
			err = fmt.Errorf("operand ranks disagree: %v vs %v", shapes[0], s)
			return
		}
	}
	shape = make([]int, rank)
	for ax := 0; ax < rank; ax++ {
		n := 1
		for _, s := range shapes {
			switch {
			case s[ax] == n || s[ax] == 1:
			case n == 1:
				n = s[ax]
			default:
				err = fmt.Errorf("axis %d lengths %d and %d are not broadcastable", ax, n, s[ax])
				return nil, err
			}
		}
		shape[ax] = n
	}
	return
}

// Evaluate applies the kernel's operator with elementwise-broadcast semantics
// to one or two operands. Operands may be Array, TrialView or float64. This
// is the default dispatch, correct for dense arrays of any blocking state,
// and the fallback when no block-aware rule applies.
//
// When a Cache is supplied the returned Array is backed by the cache scratch
// and is valid only until the next Evaluate call; pass nil to allocate fresh
// storage.
func (k Kernel) Evaluate(c *Cache, operands ...interface{}) (R Array, err error) {
	var (
		arrays  []Array
		scalars []float64
	)
	for _, opI := range operands {
		switch op := opI.(type) {
		case Array:
			arrays = append(arrays, op)
		case TrialView:
			arrays = append(arrays, op.Array())
		case float64:
			scalars = append(scalars, op)
		default:
			err = fmt.Errorf("unsupported operand type %T", opI)
			return
		}
	}
	switch {
	case len(arrays) == 1 && len(scalars) == 0:
		return k.evalUnary(c, arrays[0])
	case len(arrays) == 2 && len(scalars) == 0:
		return k.evalBinary(c, arrays[0], arrays[1])
	case len(arrays) == 1 && len(scalars) == 1:
		return k.evalScalar(c, arrays[0], scalars[0])
	default:
		err = fmt.Errorf("unsupported operand combination: %d arrays, %d scalars", len(arrays), len(scalars))
		return
	}
}

func (k Kernel) evalUnary(c *Cache, a Array) (R Array, err error) {
	if k.F1 == nil {
		err = fmt.Errorf("%s kernel has no unary form", k.Cat)
		return
	}
	R = c.scratch(a.Shape)
	for i, val := range a.DataP {
		R.DataP[i] = k.F1(val)
	}
	return
}

func (k Kernel) evalScalar(c *Cache, a Array, s float64) (R Array, err error) {
	if k.F2 == nil {
		err = fmt.Errorf("%s kernel has no binary form", k.Cat)
		return
	}
	R = c.scratch(a.Shape)
	for i, val := range a.DataP {
		R.DataP[i] = k.F2(val, s)
	}
	return
}

func (k Kernel) evalBinary(c *Cache, a, b Array) (R Array, err error) {
	var (
		shape []int
	)
	if k.F2 == nil {
		err = fmt.Errorf("%s kernel has no binary form", k.Cat)
		return
	}
	if shape, err = BroadcastShape(a.Shape, b.Shape); err != nil {
		return
	}
	R = c.scratch(shape)
	// Fast path: identical shapes need no index arithmetic.
	if sameShape(a.Shape, b.Shape) {
		for i, val := range a.DataP {
			R.DataP[i] = k.F2(val, b.DataP[i])
		}
		return
	}
	var (
		sa = broadcastStrides(a, shape)
		sb = broadcastStrides(b, shape)
	)
	switch len(shape) {
	case 1:
		for i := 0; i < shape[0]; i++ {
			R.DataP[i] = k.F2(a.DataP[i*sa[0]], b.DataP[i*sb[0]])
		}
	case 2:
		var ind int
		for i := 0; i < shape[0]; i++ {
			for j := 0; j < shape[1]; j++ {
				R.DataP[ind] = k.F2(a.DataP[i*sa[0]+j*sa[1]], b.DataP[i*sb[0]+j*sb[1]])
				ind++
			}
		}
	case 3:
		var ind int
		for i := 0; i < shape[0]; i++ {
			for j := 0; j < shape[1]; j++ {
				for l := 0; l < shape[2]; l++ {
					R.DataP[ind] = k.F2(a.DataP[i*sa[0]+j*sa[1]+l*sa[2]], b.DataP[i*sb[0]+j*sb[1]+l*sb[2]])
					ind++
				}
			}
		}
	}
	return
}

// broadcastStrides returns per-axis strides into a for iteration over the
// broadcast result shape; axes of length 1 get stride 0.
func broadcastStrides(a Array, shape []int) (s []int) {
	s = a.Strides()
	for i := range s {
		if a.Shape[i] == 1 && shape[i] != 1 {
			s[i] = 0
		}
	}
	return
}
