package run

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeWindow writes a synthetic time-series file sampling numPoints evenly
// spaced values around centre, enough for the solver to converge.
func writeWindow(t *testing.T, dir, name string, centre float64, numPoints int) string {
	t.Helper()
	path := filepath.Join(dir, name)
	var b strings.Builder
	for i := 0; i < numPoints; i++ {
		x := centre - 1 + 2*float64(i)/float64(numPoints-1)
		fmt.Fprintf(&b, "%d %g\n", i, x)
	}
	require.NoError(t, os.WriteFile(path, []byte(b.String()), 0o644))
	return path
}

func TestExecute_WritesPMFFile(t *testing.T) {
	dir := t.TempDir()
	w1 := writeWindow(t, dir, "w1.dat", 2.5, 2000)
	w2 := writeWindow(t, dir, "w2.dat", 7.5, 2000)

	metaPath := filepath.Join(dir, "metadata.dat")
	meta := w1 + " 2.5 2\n" + w2 + " 7.5 2\n"
	require.NoError(t, os.WriteFile(metaPath, []byte(meta), 0o644))

	outPath := filepath.Join(dir, "pmf.dat")
	cfg := Config{
		MetadataFile:  metaPath,
		HistMin:       []float64{0},
		HistMax:       []float64{10},
		NumBins:       []int{10},
		Temperature:   300,
		Tolerance:     1e-6,
		MaxIterations: 20000,
		Start:         math.NaN(),
		End:           math.NaN(),
		Output:        outPath,
		Parallelism:   2,
	}

	require.NoError(t, Execute(cfg))

	data, err := os.ReadFile(outPath)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	assert.Len(t, lines, 11) // header + 10 bins
	assert.True(t, strings.HasPrefix(lines[0], "#coord1"))
}

func TestExecute_FatalOnMissingMetadataFile(t *testing.T) {
	dir := t.TempDir()
	cfg := Config{
		MetadataFile: filepath.Join(dir, "does-not-exist.dat"),
		HistMin:      []float64{0},
		HistMax:      []float64{10},
		NumBins:      []int{10},
		Temperature:  300,
		Tolerance:    1e-6,
		Output:       filepath.Join(dir, "pmf.dat"),
		Start:        math.NaN(),
		End:          math.NaN(),
	}
	err := Execute(cfg)
	assert.Error(t, err)
}
