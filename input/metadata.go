// Package input assembles Dataset(s) from raw metadata and time-series
// files. Only the contract with the solver matters here: parse records,
// apply the start/end filter, optionally decorrelate, accumulate per-bin
// histograms.
package input

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/dnlbauer/wham-go/whamerr"
)

// WindowSpec is one parsed metadata record: the time-series file path
// (resolved relative to the metadata file's directory) and the harmonic
// bias centre/force constant per dimension.
type WindowSpec struct {
	Path string
	Pos  []float64
	FC   []float64
}

// ParseMetadata reads a metadata file with one record per line:
// `path pos_1 ... pos_D fc_1 ... fc_D`. Blank lines and lines starting with
// '#' are skipped. Columns may be separated by tabs or spaces (both
// appeared across revisions of the reference parser).
func ParseMetadata(path string, dimensions int) ([]WindowSpec, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &whamerr.InputError{Path: path, Err: err}
	}
	defer f.Close() //nolint:errcheck // read-only file; close error is not actionable

	dir := filepath.Dir(path)
	var specs []WindowSpec

	scanner := bufio.NewScanner(f)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		wantFields := 1 + 2*dimensions
		if len(fields) != wantFields {
			return nil, &whamerr.InputError{Path: path, Line: lineNo,
				Err: fmt.Errorf("expected %d columns (path + %d pos + %d fc), got %d", wantFields, dimensions, dimensions, len(fields))}
		}

		winPath := fields[0]
		if !filepath.IsAbs(winPath) {
			winPath = filepath.Join(dir, winPath)
		}

		pos := make([]float64, dimensions)
		fc := make([]float64, dimensions)
		for d := 0; d < dimensions; d++ {
			v, err := strconv.ParseFloat(fields[1+d], 64)
			if err != nil {
				return nil, &whamerr.InputError{Path: path, Line: lineNo, Err: fmt.Errorf("parsing pos[%d]: %w", d, err)}
			}
			pos[d] = v
			v, err = strconv.ParseFloat(fields[1+dimensions+d], 64)
			if err != nil {
				return nil, &whamerr.InputError{Path: path, Line: lineNo, Err: fmt.Errorf("parsing fc[%d]: %w", d, err)}
			}
			fc[d] = v
		}

		specs = append(specs, WindowSpec{Path: winPath, Pos: pos, FC: fc})
	}
	if err := scanner.Err(); err != nil {
		return nil, &whamerr.InputError{Path: path, Err: err}
	}
	if len(specs) == 0 {
		return nil, &whamerr.InputError{Path: path, Err: fmt.Errorf("no window records found")}
	}
	return specs, nil
}
