package cmd

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunConfig_Validate_RejectsMismatchedDimensions(t *testing.T) {
	c := defaultRunConfig()
	c.MetadataFile = "meta.dat"
	c.HistMin = []float64{0, 0}
	c.HistMax = []float64{10}
	c.NumBins = []int{10, 10}

	err := c.Validate()
	assert.Error(t, err, "mismatched hist_min/hist_max/num_bins lengths must be rejected")
}

func TestRunConfig_Validate_RejectsConvdtWithoutBounds(t *testing.T) {
	c := defaultRunConfig()
	c.MetadataFile = "meta.dat"
	c.HistMin = []float64{0}
	c.HistMax = []float64{10}
	c.NumBins = []int{10}
	c.Convdt = 1.0
	// Start/End left at their NaN defaults.

	err := c.Validate()
	assert.Error(t, err, "convdt requires both start and end to be set")
}

func TestRunConfig_Validate_AcceptsMinimalValidConfig(t *testing.T) {
	c := defaultRunConfig()
	c.MetadataFile = "meta.dat"
	c.HistMin = []float64{0}
	c.HistMax = []float64{10}
	c.NumBins = []int{10}

	assert.NoError(t, c.Validate())
}

func TestLoadConfigFile_RejectsUnknownKeys(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "run.yaml")
	require.NoError(t, os.WriteFile(path, []byte("metadata_file: meta.dat\nbogus_field: 1\n"), 0o644))

	var c RunConfig
	err := loadConfigFile(path, &c)
	assert.Error(t, err, "an unrecognised YAML key must be a fatal config error, not silently ignored")
}

func TestLoadConfigFile_PopulatesFields(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "run.yaml")
	yaml := "metadata_file: meta.dat\nhist_min: [0]\nhist_max: [10]\nnum_bins: [20]\ntemperature: 310\n"
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o644))

	c := defaultRunConfig()
	require.NoError(t, loadConfigFile(path, &c))
	assert.Equal(t, "meta.dat", c.MetadataFile)
	assert.Equal(t, []float64{0}, c.HistMin)
	assert.Equal(t, 310.0, c.Temperature)
}

func TestDefaultRunConfig_StartEndAreUnbounded(t *testing.T) {
	c := defaultRunConfig()
	assert.True(t, math.IsNaN(c.Start))
	assert.True(t, math.IsNaN(c.End))
}

func TestToRunConfig_CarriesOverFields(t *testing.T) {
	c := defaultRunConfig()
	c.MetadataFile = "meta.dat"
	c.HistMin = []float64{0}
	c.HistMax = []float64{10}
	c.NumBins = []int{10}
	c.Bootstrap = 50

	rc := c.ToRunConfig(nil, nil)
	assert.Equal(t, c.MetadataFile, rc.MetadataFile)
	assert.Equal(t, c.Bootstrap, rc.Bootstrap)
}
