// Package cellseq models the lazy per-cell sequence that drives cell-wise
// evaluation: a finite, restartable, pull-based sequence of per-cell values.
// Only a single cell's value need be materialized at a time, and per-cell
// outputs are independent of one another.
package cellseq

import (
	"fmt"

	"github.com/cellform/cellform/cellarray"
)

// Seq is a finite per-cell sequence. At may be called in any order and any
// number of times (the sequence is restartable); implementations must not
// assume a single forward pass.
type Seq[T any] interface {
	Len() int
	At(cell int) T
}

type sliceSeq[T any] struct {
	vals []T
}

func (s sliceSeq[T]) Len() int      { return len(s.vals) }
func (s sliceSeq[T]) At(cell int) T { return s.vals[cell] }

// FromSlice wraps already-materialized per-cell values.
func FromSlice[T any](vals []T) Seq[T] {
	return sliceSeq[T]{vals: vals}
}

type constSeq[T any] struct {
	n   int
	val T
}

func (s constSeq[T]) Len() int      { return s.n }
func (s constSeq[T]) At(cell int) T { return s.val }

// Constant repeats one value for every cell, e.g. a reference-element basis
// table shared by all cells of an affine mesh.
func Constant[T any](n int, val T) Seq[T] {
	return constSeq[T]{n: n, val: val}
}

type genSeq[T any] struct {
	n int
	f func(cell int) T
}

func (s genSeq[T]) Len() int      { return s.n }
func (s genSeq[T]) At(cell int) T { return s.f(cell) }

// Generate produces each cell's value on demand.
func Generate[T any](n int, f func(cell int) T) Seq[T] {
	return genSeq[T]{n: n, f: f}
}

type mapSeq[A, B any] struct {
	src Seq[A]
	f   func(A) B
}

func (s mapSeq[A, B]) Len() int      { return s.src.Len() }
func (s mapSeq[A, B]) At(cell int) B { return s.f(s.src.At(cell)) }

// Map lazily applies f to every cell of src; nothing is computed until a
// cell is pulled.
func Map[A, B any](src Seq[A], f func(A) B) Seq[B] {
	return mapSeq[A, B]{src: src, f: f}
}

type map2Seq[A, B, C any] struct {
	a Seq[A]
	b Seq[B]
	f func(A, B) C
}

func (s map2Seq[A, B, C]) Len() int      { return s.a.Len() }
func (s map2Seq[A, B, C]) At(cell int) C { return s.f(s.a.At(cell), s.b.At(cell)) }

// Map2 lazily combines two aligned sequences cell by cell.
func Map2[A, B, C any](a Seq[A], b Seq[B], f func(A, B) C) Seq[C] {
	return map2Seq[A, B, C]{a: a, b: b, f: f}
}

// AsTrial lazily reinterprets a sequence of rank-2 (points × dofs) arrays as
// trial-role views. The reinterpretation is per cell and zero copy.
func AsTrial(src Seq[cellarray.Array]) Seq[cellarray.TrialView] {
	return Map(src, func(m cellarray.Array) cellarray.TrialView {
		v, err := cellarray.AsTrial(m)
		if err != nil {
			panic(err)
		}
		return v
	})
}

// Collect materializes a sequence into a slice.
func Collect[T any](s Seq[T]) (r []T) {
	r = make([]T, s.Len())
	for i := range r {
		r[i] = s.At(i)
	}
	return
}

// KernelPass evaluates a binary kernel across two aligned sequences of dense
// per-cell arrays in a single pass, reusing one scratch cache for every cell.
// The array handed to f is backed by the cache and valid only during the
// call; f must copy it to retain it. The pass aborts on the first failing
// cell.
func KernelPass(k cellarray.Kernel, a, b Seq[cellarray.Array], f func(cell int, val cellarray.Array) error) (err error) {
	if a.Len() != b.Len() {
		return fmt.Errorf("sequence lengths disagree: %d vs %d", a.Len(), b.Len())
	}
	if a.Len() == 0 {
		return
	}
	var (
		cache *cellarray.Cache
		out   cellarray.Array
	)
	if cache, err = k.NewCache(a.At(0).Shape, b.At(0).Shape); err != nil {
		return
	}
	for i := 0; i < a.Len(); i++ {
		if out, err = k.Evaluate(cache, a.At(i), b.At(i)); err != nil {
			return
		}
		if err = f(i, out); err != nil {
			return
		}
	}
	return
}

// Each pulls every cell in order, aborting on the first failing cell. Partial
// results for prior cells are the caller's to discard.
func Each[T any](s Seq[T], f func(cell int, val T) error) (err error) {
	for i := 0; i < s.Len(); i++ {
		if err = f(i, s.At(i)); err != nil {
			return
		}
	}
	return
}
