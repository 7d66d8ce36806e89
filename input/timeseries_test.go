package input

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTimeSeries_SkipsHeadersAndComments(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "colvar.xvg", ""+
		"# a gromacs-style comment\n"+
		"@ title header\n"+
		"0.0 1.5\n"+
		"1.0 1.6\n")

	samples, err := ParseTimeSeries(path, 1)
	require.NoError(t, err)
	require.Len(t, samples, 2)
	assert.Equal(t, 0.0, samples[0].T)
	assert.Equal(t, []float64{1.5}, samples[0].X)
	assert.Equal(t, 1.0, samples[1].T)
}

func TestParseTimeSeries_WrongColumnCount(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "colvar.xvg", "0.0 1.5 2.5\n")
	_, err := ParseTimeSeries(path, 1)
	assert.Error(t, err)
}

func TestFilterByTime(t *testing.T) {
	samples := []Sample{{T: 0}, {T: 1}, {T: 2}, {T: 3}}
	got := FilterByTime(samples, 1, 2)
	require.Len(t, got, 2)
	assert.Equal(t, 1.0, got[0].T)
	assert.Equal(t, 2.0, got[1].T)
}

func TestFilterByTime_UnboundedWithNaN(t *testing.T) {
	samples := []Sample{{T: 0}, {T: 5}, {T: 10}}
	got := FilterByTime(samples, math.NaN(), 5)
	require.Len(t, got, 2)
}

func TestDecorrelate_KeepsStrideSamples(t *testing.T) {
	samples := make([]Sample, 30)
	for i := range samples {
		samples[i] = Sample{T: float64(i), X: []float64{7.0}} // constant series => g=1, stride=1
	}
	out := Decorrelate(samples)
	assert.Equal(t, len(samples), len(out))
}

func TestDecorrelate_Empty(t *testing.T) {
	assert.Empty(t, Decorrelate(nil))
}
