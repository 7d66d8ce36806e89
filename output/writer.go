// Package output formats solver results into the PMF file contract: a
// header line, one line per bin with bin-centre coordinates and four
// numeric columns, and (for a convdt sweep with more than one dataset) a
// "#Dataset k" marker before each result block.
package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/dnlbauer/wham-go/solver"
	"github.com/dnlbauer/wham-go/wham"
)

// DatasetResult bundles one Dataset's grid with its solved PMF, for
// WriteSweep to label and concatenate across a convdt run.
type DatasetResult struct {
	Grid          *wham.Grid
	P             []float64
	A             []float64
	SEProbability []float64 // nil when bootstrap was not requested
	SEFreeEnergy  []float64 // nil when bootstrap was not requested
}

// Write emits a single dataset's PMF block, including the header line.
func Write(w io.Writer, res DatasetResult) error {
	if _, err := io.WriteString(w, header(res.Grid.Dimensions())); err != nil {
		return err
	}
	return writeRows(w, res)
}

// WriteSweep emits a sequence of dataset results produced by a convdt
// sweep, each preceded by a "#Dataset k" marker when there is more than
// one.
func WriteSweep(w io.Writer, results []DatasetResult) error {
	if len(results) == 1 {
		return Write(w, results[0])
	}
	for k, res := range results {
		if _, err := fmt.Fprintf(w, "#Dataset %d\n", k+1); err != nil {
			return err
		}
		if _, err := io.WriteString(w, header(res.Grid.Dimensions())); err != nil {
			return err
		}
		if err := writeRows(w, res); err != nil {
			return err
		}
	}
	return nil
}

func header(dimensions int) string {
	var b strings.Builder
	b.WriteString("#")
	for d := 0; d < dimensions; d++ {
		fmt.Fprintf(&b, "coord%d\t", d+1)
	}
	b.WriteString("Free Energy\t+/-\tProbability\t+/-\n")
	return b.String()
}

func writeRows(w io.Writer, res DatasetResult) error {
	numBins := res.Grid.NumBins()
	for b := 0; b < numBins; b++ {
		centre := res.Grid.BinCenter(b)
		for _, c := range centre {
			if _, err := fmt.Fprintf(w, "%g\t", c); err != nil {
				return err
			}
		}

		seA := 0.0
		if res.SEFreeEnergy != nil {
			seA = res.SEFreeEnergy[b]
		}
		seP := 0.0
		if res.SEProbability != nil {
			seP = res.SEProbability[b]
		}

		if _, err := fmt.Fprintf(w, "%g\t%g\t%g\t%g\n", res.A[b], seA, res.P[b], seP); err != nil {
			return err
		}
	}
	return nil
}

// FromResult converts a solver Result and its free-energy projection into
// a DatasetResult ready for Write/WriteSweep.
func FromResult(grid *wham.Grid, solverResult *solver.Result, freeEnergy []float64) DatasetResult {
	return DatasetResult{
		Grid: grid,
		P:    solverResult.P,
		A:    freeEnergy,
	}
}
