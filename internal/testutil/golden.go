// Package testutil provides shared test infrastructure: a golden-dataset
// loader and a relative-tolerance float comparison helper, used by the
// solver tests.
package testutil

import (
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

// GoldenCase is one hand-verifiable WHAM scenario: a single unbiased
// window's histogram, for which the converged solver probability is
// exactly the normalised histogram regardless of tolerance or iteration
// count (every bias factor is 1, so the WHAM fixed point reduces to
// P[b] = counts[b] / sum(counts)).
type GoldenCase struct {
	Name   string    `json:"name"`
	Counts []float64 `json:"counts"`
	WantP  []float64 `json:"want_p"`
}

// GoldenDataset is the top-level testdata/golden_wham.json structure.
type GoldenDataset struct {
	Cases []GoldenCase `json:"cases"`
}

// LoadGoldenDataset loads testdata/golden_wham.json, resolved relative to
// this source file so it works regardless of the caller's working
// directory.
func LoadGoldenDataset(t *testing.T) *GoldenDataset {
	t.Helper()

	_, thisFile, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("failed to get current file path")
	}
	path := filepath.Join(filepath.Dir(thisFile), "..", "..", "testdata", "golden_wham.json")
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read golden dataset: %v", err)
	}

	var dataset GoldenDataset
	if err := json.Unmarshal(data, &dataset); err != nil {
		t.Fatalf("failed to parse golden dataset: %v", err)
	}
	return &dataset
}

// AssertFloat64Equal compares two float64 values with relative tolerance.
func AssertFloat64Equal(t *testing.T, name string, want, got, relTol float64) {
	t.Helper()
	if want == 0 && got == 0 {
		return
	}
	diff := math.Abs(want - got)
	maxVal := math.Max(math.Abs(want), math.Abs(got))
	if diff/maxVal > relTol {
		t.Errorf("%s: got %v, want %v (diff=%v, relDiff=%v)", name, got, want, diff, diff/maxVal)
	}
}
