/*
Copyright © 2020 NAME HERE <EMAIL ADDRESS>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"fmt"
	"os"

	"github.com/pkg/profile"
	"github.com/spf13/cobra"

	"github.com/cellform/cellform/InputParameters"
	"github.com/cellform/cellform/assembly"
	"github.com/cellform/cellform/cellarray"
	"github.com/cellform/cellform/cellblocks"
	"github.com/cellform/cellform/cellseq"
	"github.com/cellform/cellform/quadrature"
	"github.com/cellform/cellform/utils"
)

// AssembleCmd represents the assemble command
var AssembleCmd = &cobra.Command{
	Use:   "assemble",
	Short: "Assemble the global mass matrix and load vector for a multi-field problem",
	Long: `
Runs the per-cell pipeline end to end: tabulates nodal bases at quadrature
points, combines test and trial arrays through the block-sparse outer-product
rule, integrates against quadrature weights and Jacobians, and scatters the
local blocks into the global sparse system.`,
	Run: func(cmd *cobra.Command, args []string) {
		var (
			err error
			pp  *InputParameters.ProblemParameters
		)
		problemFile, _ := cmd.Flags().GetString("problemFile")
		if len(problemFile) != 0 {
			var data []byte
			if data, err = os.ReadFile(problemFile); err != nil {
				panic(err)
			}
			pp = &InputParameters.ProblemParameters{}
			if err = pp.Parse(data); err != nil {
				panic(err)
			}
		} else {
			k, _ := cmd.Flags().GetInt("k")
			order, _ := cmd.Flags().GetInt("order")
			pp = &InputParameters.ProblemParameters{
				Title:           "Two Field Mass Matrix",
				K:               k,
				PolynomialOrder: map[string]int{"u": order, "v": order},
				XMin:            0,
				XMax:            1,
			}
			if err = pp.Validate(); err != nil {
				panic(err)
			}
		}
		if prof, _ := cmd.Flags().GetBool("profile"); prof {
			defer profile.Start().Stop()
		}
		pp.Print()
		if err = RunAssemble(pp); err != nil {
			fmt.Printf("error: %s\n", err.Error())
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(AssembleCmd)
	AssembleCmd.Flags().StringP("problemFile", "I", "", "YAML problem definition file")
	AssembleCmd.Flags().IntP("k", "k", 10, "Number of elements in the mesh")
	AssembleCmd.Flags().IntP("order", "n", 2, "polynomial order of each field")
	AssembleCmd.Flags().Bool("profile", false, "generate a CPU profile of the assembly")
}

// RunAssemble drives the cell sequence for a block-diagonal mass form: each
// field is paired with itself, so the outer-product rule stores only the
// diagonal (f, f) blocks and the off-diagonal field pairs never materialize.
func RunAssemble(pp *InputParameters.ProblemParameters) (err error) {
	var (
		names = pp.FieldNames()
		nq    = pp.NQuad()
		rule  quadrature.Rule
		mesh  quadrature.Mesh1D
	)
	if rule, err = quadrature.NewGaussRule(nq); err != nil {
		return
	}
	if mesh, err = quadrature.NewUniformMesh1D(pp.K, pp.XMin, pp.XMax); err != nil {
		return
	}

	// Per-field basis tables at the quadrature points. The mesh is affine, so
	// one table per field serves every cell.
	var (
		ndofs = make([]int, len(names))
		phi   = make([]cellarray.Array, len(names))
	)
	for f, name := range names {
		var b quadrature.Basis1D
		if b, err = quadrature.NewBasis1D(pp.PolynomialOrder[name]); err != nil {
			return
		}
		ndofs[f] = b.NDof()
		phi[f] = b.ValuesAt(rule.R)
	}

	// Block-diagonal form: the test array for field f is stored alone at
	// (0, f) and its trial counterpart at (0, 0, f), one term per field.
	var (
		qAxis     = cellblocks.Axis{nq}
		fieldAxis = cellblocks.Axis(ndofs)
		testAxes  = []cellblocks.Axis{qAxis, fieldAxis}
		trialAxes = []cellblocks.Axis{qAxis, {1}, fieldAxis}
	)
	testSeq := cellseq.Generate(pp.K, func(cell int) []cellblocks.Blocked {
		terms := make([]cellblocks.Blocked, len(names))
		for f := range names {
			terms[f], _ = cellblocks.NewBlocked(testAxes,
				[]cellblocks.BlockID{{0, f}},
				[]cellarray.Array{phi[f]})
		}
		return terms
	})
	trialSeq := cellseq.Generate(pp.K, func(cell int) []cellblocks.Blocked {
		terms := make([]cellblocks.Blocked, len(names))
		for f := range names {
			v, _ := cellarray.AsTrial(phi[f])
			terms[f], _ = cellblocks.NewBlocked(trialAxes,
				[]cellblocks.BlockID{{0, 0, f}},
				[]cellarray.Array{v.Array()})
		}
		return terms
	})

	var (
		layout = assembly.NewFieldLayout(globalCounts(pp.K, ndofs))
		asm    = assembly.NewAssembler(layout.Total, layout.Total)
		mul    = cellarray.MulKernel()
		sum    = cellarray.SumKernel()
	)
	err = cellseq.Each(cellseq.Map2(testSeq, trialSeq,
		func(test, trial []cellblocks.Blocked) [2][]cellblocks.Blocked {
			return [2][]cellblocks.Blocked{test, trial}
		}),
		func(cell int, pair [2][]cellblocks.Blocked) error {
			var (
				jdet     = mesh.JdetAt(cell, nq)
				local    cellblocks.Blocked
				haveTerm bool
			)
			// Sum the per-field bilinear terms, then integrate once.
			for f := range names {
				term, cellErr := cellblocks.ApplyOuter(mul, pair[0][f], pair[1][f])
				if cellErr != nil {
					return cellErr
				}
				if !haveTerm {
					local, haveTerm = term, true
					continue
				}
				if local, cellErr = cellblocks.Apply2(sum, local, term); cellErr != nil {
					return cellErr
				}
			}
			localM, cellErr := cellblocks.Integrate(local, rule.W.DataP, jdet)
			if cellErr != nil {
				return cellErr
			}
			dofs := cellDofMaps(layout, cell, ndofs)
			if cellErr = asm.AddLocalMatrix(localM, dofs, dofs); cellErr != nil {
				return cellErr
			}
			// Load vector for a unit source: integrate the test terms alone.
			for f := range names {
				localV, vErr := cellblocks.Integrate(pair[0][f], rule.W.DataP, jdet)
				if vErr != nil {
					return vErr
				}
				if vErr = asm.AddLocalVector(localV, dofs); vErr != nil {
					return vErr
				}
			}
			return nil
		})
	if err != nil {
		return
	}

	var (
		K      = asm.Matrix()
		nr, nc = K.Dims()
	)
	fmt.Printf("assembled global matrix: %d x %d, nnz = %d\n", nr, nc, K.NNZ())
	var trace, fsum float64
	for i := 0; i < nr; i++ {
		trace += K.At(i, i)
	}
	for _, val := range asm.F {
		fsum += val
	}
	fmt.Printf("trace(K) = %10.6f\n", trace)
	// For a unit source every field's load entries integrate to the domain
	// length.
	fmt.Printf("sum(F) = %10.6f (expect %g per field)\n", fsum, pp.XMax-pp.XMin)
	return
}

func globalCounts(k int, ndofs []int) (counts []int) {
	counts = make([]int, len(ndofs))
	for f, nd := range ndofs {
		counts[f] = k * nd
	}
	return
}

func cellDofMaps(layout assembly.FieldLayout, cell int, ndofs []int) (dofs []utils.Index) {
	dofs = make([]utils.Index, len(ndofs))
	for f, nd := range ndofs {
		dofs[f] = layout.CellDofs(f, cell, nd)
	}
	return
}
