package cellarray

import "fmt"

// TrialView reinterprets a rank-2 (points × dofs) array as a rank-3
// (points × 1 × dofs) array. It shares the exact backing storage of the
// source, marking the array as occupying the trial slot of a bilinear form so
// that combining it with a test array produces an outer combination instead
// of an elementwise one. It is a view, never an independent copy: writes
// through the view are visible in the source and vice versa.
type TrialView struct {
	Mat Array // The underlying (points × dofs) array
}

// AsTrial wraps a rank-2 array as a trial-role rank-3 view.
func AsTrial(m Array) (v TrialView, err error) {
	if m.Rank() != 2 {
		err = fmt.Errorf("trial view requires a rank-2 array, got rank %d", m.Rank())
		return
	}
	v = TrialView{Mat: m}
	return
}

func (v TrialView) Shape() []int {
	return []int{v.Mat.Shape[0], 1, v.Mat.Shape[1]}
}

// At collapses the singleton middle axis: At(i, 0, k) == Mat.At(i, k).
func (v TrialView) At(i, j, k int) float64 {
	if j != 0 {
		panic(fmt.Errorf("trial view middle index must be 0, got %d", j))
	}
	return v.Mat.At(i, k)
}

// AtFlat passes a linear index through to the backing storage unchanged.
func (v TrialView) AtFlat(ind int) float64 {
	return v.Mat.DataP[ind]
}

func (v TrialView) Set(val float64, i, j, k int) TrialView {
	if j != 0 {
		panic(fmt.Errorf("trial view middle index must be 0, got %d", j))
	}
	v.Mat.Set(val, i, k)
	return v
}

// Array returns the rank-3 shape over the shared storage. Inserting a
// singleton axis into a row-major layout does not move any element, so this
// allocates no element storage.
func (v TrialView) Array() Array {
	return Array{DataP: v.Mat.DataP, Shape: v.Shape()}
}
